package interpret

import (
	"fmt"
	"strings"

	"github.com/ledgerpipe/ledgerpipe/parsetree"
	"github.com/ledgerpipe/ledgerpipe/quantity"
	"github.com/ledgerpipe/ledgerpipe/synparse"
)

// quantityFromNode reads a synparse.LabelQuantity node (a value leaf and an
// optional code leaf, in either order — spec.md §4.1 Quantity production)
// into a quantity.Quantity. A value leaf with no sibling code leaf is the
// neutral zero quantity (spec.md §3: "a zero quantity may be written with
// no commodity").
func quantityFromNode(n *parsetree.Node) (quantity.Quantity, error) {
	value, err := collectOne(n, synparse.LabelValue)
	if err != nil {
		return quantity.Quantity{}, err
	}
	if value == nil {
		return quantity.Quantity{}, &InterpretFailureError{Label: n.Label, Reason: "quantity node carries no value", Span: n.Span}
	}
	d, err := quantity.NewDecimalFromString(value.Leaf)
	if err != nil {
		return quantity.Quantity{}, &InterpretFailureError{Label: n.Label, Reason: err.Error(), Span: n.Span}
	}
	code, err := collectOne(n, synparse.LabelCode)
	if err != nil {
		return quantity.Quantity{}, err
	}
	if code == nil {
		return quantity.Neutral(), nil
	}
	return quantity.New(d, code.Leaf), nil
}

// percentageFromNode reads a synparse.LabelPercentage node into a fraction
// (spec.md §4.1: "Percentage = number '%'; value is divided by 100").
func percentageFromNode(n *parsetree.Node) (quantity.Decimal, error) {
	value, err := collectOne(n, synparse.LabelValue)
	if err != nil {
		return quantity.Decimal{}, err
	}
	if value == nil {
		return quantity.Decimal{}, &InterpretFailureError{Label: n.Label, Reason: "percentage node carries no value", Span: n.Span}
	}
	d, err := quantity.NewDecimalFromString(value.Leaf)
	if err != nil {
		return quantity.Decimal{}, &InterpretFailureError{Label: n.Label, Reason: err.Error(), Span: n.Span}
	}
	hundred := quantity.NewDecimalFromInt(100)
	return d.Div(hundred), nil
}

// parseQuantityText parses a quantity written out as plain text (as found
// in an explicit "weight: 40.00 USD" metadata value, which the grammar
// captures as an opaque string rather than tokenizing) in either "CODE
// NUMBER", "NUMBER CODE", or "$NUMBER" order.
func parseQuantityText(s string) (quantity.Quantity, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "$") {
		d, err := quantity.NewDecimalFromString(strings.TrimSpace(s[1:]))
		if err != nil {
			return quantity.Quantity{}, fmt.Errorf("interpret: malformed quantity %q: %w", s, err)
		}
		return quantity.New(d, "$"), nil
	}
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return quantity.Quantity{}, fmt.Errorf("interpret: malformed quantity %q", s)
	}
	// Try "NUMBER CODE" first, then "CODE NUMBER".
	if d, err := quantity.NewDecimalFromString(fields[0]); err == nil {
		return quantity.New(d, fields[1]), nil
	}
	d, err := quantity.NewDecimalFromString(fields[1])
	if err != nil {
		return quantity.Quantity{}, fmt.Errorf("interpret: malformed quantity %q", s)
	}
	return quantity.New(d, fields[0]), nil
}

// parseFormatSpec reads a commodity's `format` line (e.g. "$1,000.00") into
// a currency symbol and display precision (spec.md §3 Commodity
// definition: "currency-symbol (single char), precision").
func parseFormatSpec(s string) (symbol string, precision int) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", 0
	}
	if !(s[0] >= '0' && s[0] <= '9') {
		symbol = s[:1]
	}
	if idx := strings.LastIndexByte(s, '.'); idx >= 0 {
		frac := s[idx+1:]
		precision = len(frac)
	}
	return symbol, precision
}
