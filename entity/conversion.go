package entity

import "github.com/ledgerpipe/ledgerpipe/quantity"

// ConversionRate records a fixed exchange rate between two commodities
// (spec.md §4.1 "commodity conversion" — named by the grammar, with no
// concrete syntax given; this implementation's filled-in grammar is
// `convert FROM-CODE TO-CODE RATE`, see DESIGN.md Open Question decision
// 6). Distinct from Price: a Price is an observed point-in-time quote, a
// ConversionRate is a fixed ratio the embedder supplies for cross-
// commodity arithmetic it chooses to perform outside posting weights.
type ConversionRate struct {
	BookID   string
	StableID string
	From     string
	To       string
	Rate     quantity.Decimal
	Source   Span
}
