// Package quantity implements arbitrary-precision decimal values paired with
// a commodity code, the unit of exchange that flows through every posting,
// price point, and balance assertion in the ledger.
package quantity

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// Decimal is an arbitrary-precision decimal value that preserves the scale
// it was written with: "10.00" and "10" compare equal but print differently.
// It is a thin wrapper over shopspring/decimal; the written scale is kept
// by the wrapped decimal.Decimal's own exponent, with nothing recorded
// beside it.
type Decimal struct {
	d decimal.Decimal
}

// NewDecimalFromString parses a decimal literal exactly as written,
// preserving trailing zeros (scale). commas, if present as thousands
// separators, must already be stripped by the caller (the lexer does this).
func NewDecimalFromString(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("quantity: invalid decimal %q: %w", s, err)
	}
	return Decimal{d: d}, nil
}

// NewDecimalFromInt builds a zero-scale Decimal from an integer, used for
// literal `0` quantities and generated values.
func NewDecimalFromInt(v int64) Decimal {
	return Decimal{d: decimal.NewFromInt(v)}
}

// IsZero reports whether the value is numerically zero, regardless of scale.
func (d Decimal) IsZero() bool { return d.d.IsZero() }

// IsNegative reports whether the value is less than zero.
func (d Decimal) IsNegative() bool { return d.d.IsNegative() }

// Sign returns -1, 0, or 1.
func (d Decimal) Sign() int { return d.d.Sign() }

// Neg returns -d, preserving scale.
func (d Decimal) Neg() Decimal { return Decimal{d: d.d.Neg()} }

// Add returns d+other.
func (d Decimal) Add(other Decimal) Decimal { return Decimal{d: d.d.Add(other.d)} }

// Sub returns d-other.
func (d Decimal) Sub(other Decimal) Decimal { return Decimal{d: d.d.Sub(other.d)} }

// Mul returns d*other.
func (d Decimal) Mul(other Decimal) Decimal { return Decimal{d: d.d.Mul(other.d)} }

// Div returns d/other rounded to 16 decimal places. It is used for
// percentage normalization (§3 Invoice/Item) and for turning a total
// (`@@`) price into a per-unit price.
func (d Decimal) Div(other Decimal) Decimal { return Decimal{d: d.d.DivRound(other.d, 16)} }

// Equal reports exact numeric equality, ignoring scale (10.00 == 10).
func (d Decimal) Equal(other Decimal) bool { return d.d.Equal(other.d) }

// String renders the value with its original scale.
func (d Decimal) String() string { return d.d.String() }

// Raw exposes the underlying shopspring decimal for callers in other
// packages (e.g. ledger) that need its richer API (rounding, comparisons).
func (d Decimal) Raw() decimal.Decimal { return d.d }

// FromRaw wraps an existing shopspring decimal.
func FromRaw(d decimal.Decimal) Decimal { return Decimal{d: d} }

// commodityCodeRe matches a bare (unquoted) commodity code: a letter
// followed by letters, digits, or underscores (spec.md §3).
var commodityCodeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidCommodityCode reports whether code is a syntactically valid
// commodity symbol.
func ValidCommodityCode(code string) bool {
	return commodityCodeRe.MatchString(code)
}

// CanonicalCommodityCode resolves the literal `$` alias to "USD" and leaves
// every other code unchanged, per spec.md §3 ("The literal `$` is aliased
// to the code `USD`").
func CanonicalCommodityCode(code string) string {
	if code == "$" {
		return "USD"
	}
	return code
}

// Quantity is a (value, commodity) pair. A Quantity with an empty Commodity
// is "neutral": it represents a zero amount written with no commodity in
// the source (spec.md §3).
type Quantity struct {
	Value     Decimal
	Commodity string
}

// New builds a Quantity, canonicalizing the commodity code.
func New(value Decimal, commodity string) Quantity {
	return Quantity{Value: value, Commodity: CanonicalCommodityCode(commodity)}
}

// Neutral returns the zero quantity with no commodity, the interpretation
// of a bare literal `0` in source text.
func Neutral() Quantity {
	return Quantity{Value: NewDecimalFromInt(0), Commodity: ""}
}

// IsNeutral reports whether q is the commodity-less zero quantity.
func (q Quantity) IsNeutral() bool {
	return q.Commodity == "" && q.Value.IsZero()
}

// Neg returns the negation of q, preserving its commodity.
func (q Quantity) Neg() Quantity {
	return Quantity{Value: q.Value.Neg(), Commodity: q.Commodity}
}

// Mul multiplies q's value by a scalar decimal, preserving q's commodity.
// Used when scaling a posting amount by a per-unit price or cost.
func (q Quantity) Mul(scalar Decimal) Quantity {
	return Quantity{Value: q.Value.Mul(scalar), Commodity: q.Commodity}
}

// SameCommodity reports whether q and other carry the same commodity code.
func (q Quantity) SameCommodity(other Quantity) bool {
	return q.Commodity == other.Commodity
}

// String renders a Quantity using the reader-facing tag form from spec.md
// §3: "#finance/q [value commodity]".
func (q Quantity) String() string {
	return fmt.Sprintf("#finance/q [%s %s]", q.Value.String(), q.Commodity)
}
