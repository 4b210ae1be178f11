package interpret

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerpipe/ledgerpipe/entity"
	"github.com/ledgerpipe/ledgerpipe/parsetree"
	"github.com/ledgerpipe/ledgerpipe/quantity"
	"github.com/ledgerpipe/ledgerpipe/synparse"
	"github.com/ledgerpipe/ledgerpipe/timeval"
)

// parseTimeOfDay splits a lexer TIME token's text ("17:05:30" or "17:05")
// into hour, minute, second.
func parseTimeOfDay(s string) (hour, min, sec int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("interpret: malformed time %q", s)
	}
	vals := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("interpret: malformed time %q: %w", s, err)
		}
		vals[i] = v
	}
	if len(vals) == 2 {
		return vals[0], vals[1], 0, nil
	}
	return vals[0], vals[1], vals[2], nil
}

// resolveZone resolves a LabelZone leaf ("Z", a signed "+HH:MM"/"-HH:MM"
// offset, or a named zone) to a *time.Location, defaulting to cfg's zone
// when absent or unrecognized.
func (ip *Interpreter) resolveZone(zone *parsetree.Node) *time.Location {
	if zone == nil {
		return nil
	}
	if zone.Leaf == "Z" {
		return time.UTC
	}
	if loc, ok := parseZoneOffset(zone.Leaf); ok {
		return loc
	}
	if loc, err := time.LoadLocation(zone.Leaf); err == nil {
		return loc
	}
	return nil
}

// parseZoneOffset parses a signed "+HH:MM"/"-HH:MM" timezone offset into a
// fixed *time.Location (spec.md §4.1 TimeZone: "signed HH:MM offset").
func parseZoneOffset(s string) (*time.Location, bool) {
	if len(s) != 6 || (s[0] != '+' && s[0] != '-') || s[3] != ':' {
		return nil, false
	}
	hour, herr := strconv.Atoi(s[1:3])
	min, merr := strconv.Atoi(s[4:6])
	if herr != nil || merr != nil {
		return nil, false
	}
	secs := hour*3600 + min*60
	if s[0] == '-' {
		secs = -secs
	}
	return time.FixedZone(s, secs), true
}

// interpretPricePoint rewrites a synparse.LabelPricePoint tree into an
// entity.Price (spec.md §3 Price point, §6 example "P 2016-05-20 17:05:30
// TSLA $220.28").
func (ip *Interpreter) interpretPricePoint(tree *parsetree.Node) (*entity.Price, error) {
	dateNode, err := collectOne(tree, synparse.LabelDate)
	if err != nil {
		return nil, err
	}
	date, err := timeval.ParseDate(dateNode.Leaf)
	if err != nil {
		return nil, &InterpretFailureError{Label: tree.Label, Reason: err.Error(), Span: tree.Span}
	}

	hasTime := false
	var hour, min, sec int
	if timeNode, err := collectOne(tree, synparse.LabelTime); err != nil {
		return nil, err
	} else if timeNode != nil {
		hasTime = true
		if hour, min, sec, err = parseTimeOfDay(timeNode.Leaf); err != nil {
			return nil, &InterpretFailureError{Label: tree.Label, Reason: err.Error(), Span: tree.Span}
		}
	}

	zoneNode, err := collectOne(tree, synparse.LabelZone)
	if err != nil {
		return nil, err
	}
	instant := ip.Config.Resolve(date, hasTime, hour, min, sec, ip.resolveZone(zoneNode))

	codeNode, err := collectOne(tree, synparse.LabelCode)
	if err != nil {
		return nil, err
	}

	qtyNode, err := collectOne(tree, synparse.LabelQuantity)
	if err != nil {
		return nil, err
	}
	if qtyNode == nil {
		return nil, &InterpretFailureError{Label: tree.Label, Reason: "price point carries no quantity", Span: tree.Span}
	}
	value, err := quantityFromNode(qtyNode)
	if err != nil {
		return nil, err
	}

	return &entity.Price{
		Commodity:  quantity.CanonicalCommodityCode(codeNode.Leaf),
		ObservedAt: instant,
		Value:      value,
		SourceSpan: tree.Span,
	}, nil
}

// interpretCommodityConv rewrites a synparse.LabelCommodityConv tree into
// an entity.ConversionRate (DESIGN.md Open Question decision 6).
func (ip *Interpreter) interpretCommodityConv(tree *parsetree.Node) (*entity.ConversionRate, error) {
	from, err := collectOne(tree, synparse.LabelCode)
	if err != nil {
		return nil, err
	}
	to, err := collectOne(tree, synparse.LabelToCode)
	if err != nil {
		return nil, err
	}
	rate, err := collectOne(tree, synparse.LabelRate)
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil || rate == nil {
		return nil, &InterpretFailureError{Label: tree.Label, Reason: "commodity conversion missing a field", Span: tree.Span}
	}
	d, derr := quantity.NewDecimalFromString(rate.Leaf)
	if derr != nil {
		return nil, &InterpretFailureError{Label: tree.Label, Reason: derr.Error(), Span: tree.Span}
	}
	return &entity.ConversionRate{
		From:   quantity.CanonicalCommodityCode(from.Leaf),
		To:     quantity.CanonicalCommodityCode(to.Leaf),
		Rate:   d,
		Source: tree.Span,
	}, nil
}
