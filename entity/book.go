package entity

// Book is the root container of a ledger: its accounts, the local prices
// observed for its commodities, and a time-ordered journal (spec.md §3
// Book).
type Book struct {
	ID          string
	Title       string
	Description string
	Commodities []*Commodity
	Accounts    []*Account
	Prices      []*Price
	Conversions []*ConversionRate
	Journal     []*Transaction
}
