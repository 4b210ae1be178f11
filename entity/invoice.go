package entity

import "github.com/ledgerpipe/ledgerpipe/quantity"

// ItemAmount is an Item's amount field: either a commodity-less number
// (Bare) or a full quantity. The `; item:` line grammar accepts a
// commodity-less amount only as a literal `0`, so Bare is only ever zero;
// a non-zero bare unit count is rejected as a malformed quantity.
type ItemAmount struct {
	Bare     *quantity.Decimal
	Quantity *quantity.Quantity
}

// ItemPrice is an Item's price field, which may be a per-unit quantity or
// a bare number treated as a percentage (spec.md §3: "price may be a
// quantity (per-unit) or a bare number (treated as a percentage)").
type ItemPrice struct {
	Percentage *quantity.Decimal
	Quantity   *quantity.Quantity
}

// Item is one line of an Invoice (spec.md §3 Invoice/Item).
type Item struct {
	StableID    string
	InvoiceID   string
	Rank        int
	Title       string
	Description string
	Vendor      string
	Total       quantity.Quantity
	Amount      ItemAmount
	Price       ItemPrice
	TaxGroups   map[string]bool
	TaxApplied  string
	Source      Span
}

// Invoice owns an ordered list of Items, attached to the posting that
// carried its `; item:` metadata lines (spec.md §4.2).
type Invoice struct {
	StableID string
	EntryID  string
	Items    []*Item
}
