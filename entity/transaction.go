package entity

import (
	"github.com/ledgerpipe/ledgerpipe/quantity"
	"github.com/ledgerpipe/ledgerpipe/timeval"
)

// RefKind distinguishes the three account-reference shapes a journal
// entry may carry (spec.md §4.1 Posting production).
type RefKind string

const (
	RefReal            RefKind = "real"
	RefVirtual         RefKind = "virtual"
	RefBalancedVirtual RefKind = "balanced-virtual"
)

// AccountRef names the account a journal entry applies to, by path or
// alias, before normalization resolves it against a Book's account table
// (spec.md §4.6).
type AccountRef struct {
	Kind RefKind
	Name string // a path string ("Assets:Cash:Wallet") or a bare alias ("wallet")
	// ResolvedID is the canonical account id this reference was rewritten
	// to, filled in by package normalize's account-reference resolution
	// (spec.md §4.5). Empty until normalization runs.
	ResolvedID string
}

// Flag records a transaction's clearing state (spec.md §3 Transaction).
type Flag string

const (
	FlagNone    Flag = ""
	FlagPending Flag = "pending"
	FlagCleared Flag = "cleared"
)

// EntryCommon holds the fields every Journal entry variant shares
// (spec.md §3 Journal entry "Common fields").
type EntryCommon struct {
	AccountRef AccountRef
	Date       timeval.Date
	Time       *timeval.Instant
	Rank       int
	// StableID and TransactionID are filled in by package normalize: a
	// generated or reused-external id for this entry, and the parent
	// transaction's id (spec.md §4.5 "Child entities gain a parent-id
	// attribute").
	StableID      string
	TransactionID string
	Description   string
	ExternalID    string
	// Meta holds metadata tags the interpreter did not recognize as one of
	// the typed fields above, keyed by their source key as written (spec.md
	// §4.2: "lifts recognized metadata tags ... into first-class fields" —
	// everything else stays in this residual map rather than being
	// discarded).
	Meta   map[string]string
	Source Span
}

// JournalEntry is the tagged-variant interface over the five entry kinds
// spec.md §3 names: open-account, close-account, note, balance-check,
// posting.
type JournalEntry interface {
	Common() *EntryCommon
	EntryKind() string
}

// OpenAccount marks the start of an account's usable lifetime, optionally
// restricting it to a set of commodities.
type OpenAccount struct {
	EntryCommon
	Commodities []string
}

func (e *OpenAccount) Common() *EntryCommon { return &e.EntryCommon }
func (e *OpenAccount) EntryKind() string    { return "open-account" }

// CloseAccount marks the end of an account's usable lifetime.
type CloseAccount struct {
	EntryCommon
}

func (e *CloseAccount) Common() *EntryCommon { return &e.EntryCommon }
func (e *CloseAccount) EntryKind() string    { return "close-account" }

// Note attaches a free-text annotation to an account, optionally scoped to
// an interval (spec.md §3: "note: requires description; optional
// interval").
type Note struct {
	EntryCommon
	Interval *timeval.Interval
}

func (e *Note) Common() *EntryCommon { return &e.EntryCommon }
func (e *Note) EntryKind() string    { return "note" }

// BalanceCheck asserts an account's balance at a point in time (spec.md §3
// Journal entry "balance-check"). Produced either directly or rewritten
// from a zero-amount balanced-virtual posting carrying an assertion
// (spec.md §4.2).
type BalanceCheck struct {
	EntryCommon
	Amount quantity.Quantity
}

func (e *BalanceCheck) Common() *EntryCommon { return &e.EntryCommon }
func (e *BalanceCheck) EntryKind() string    { return "balance-check" }

// Cost is a posting's lot-cost basis, optionally dated (spec.md §4.2:
// "A posting carrying both a lot-cost and a lot-date folds them into a
// single cost record {amount, date}").
type Cost struct {
	Amount quantity.Quantity
	Date   *timeval.Date
	LotID  string // reserved; never populated (spec.md §9 open question)
}

// Posting is the workhorse Journal entry variant: a real, virtual, or
// balanced-virtual movement of an amount, with optional price, cost,
// explicit weight, and an attached invoice (spec.md §3, §4.3).
type Posting struct {
	EntryCommon
	Amount       *quantity.Quantity
	Price        *quantity.Quantity
	PriceIsTotal bool
	Cost         *Cost
	Weight       *quantity.Quantity
	// Assertion is an inline "= quantity" balance assertion carried on an
	// ordinary (non-rewritten) posting, checked against Amount's commodity
	// by the posting-validity check `balance-check-commodity-mismatch`
	// (spec.md §4.3). A zero/absent-amount posting on a balanced-virtual
	// account carrying one of these is rewritten to a standalone
	// BalanceCheck entry instead (spec.md §4.2) and this field stays nil.
	Assertion *quantity.Quantity
	Payee     string
	Invoice   *Invoice
}

func (e *Posting) Common() *EntryCommon { return &e.EntryCommon }
func (e *Posting) EntryKind() string    { return "posting" }

// IsVirtual reports whether this posting's account reference is virtual or
// balanced-virtual, excluding it from real-weight balancing (spec.md §4.3
// weight derivation rule 1).
func (e *Posting) IsVirtual() bool {
	return e.AccountRef.Kind == RefVirtual || e.AccountRef.Kind == RefBalancedVirtual
}

// Scale is the commodity-conversion amount used by weight derivation:
// price if set, else the cost amount (spec.md §4.3: "scale = price ??
// cost.amount").
func (e *Posting) Scale() *quantity.Quantity {
	if e.Price != nil {
		return e.Price
	}
	if e.Cost != nil {
		return &e.Cost.Amount
	}
	return nil
}

// Transaction is a dated, titled group of journal entries that must sum
// to zero per commodity across its real postings once balanced (spec.md
// §3 Transaction).
type Transaction struct {
	BookID     string
	StableID   string
	Title      string
	Date       timeval.Date
	Time       *timeval.Instant
	Flag       Flag
	Tags       map[string]bool
	Links      map[string]bool
	ExternalID string
	Meta       map[string]string
	Entries    []JournalEntry
	Source     Span
}

// Validate checks the Transaction's shape against spec.md §3's structural
// invariant: "at least one entry". Per-entry and cross-entry invariants
// (balancing, account resolution, commodity restrictions) are checked
// downstream by package ledger once entries are interpreted and resolved.
func (t *Transaction) Validate() error {
	if len(t.Entries) == 0 {
		return &SchemaViolationError{Entity: "transaction", Field: "entries", Reason: "transaction has no entries"}
	}
	return nil
}

// Postings returns the Posting-variant entries, in declaration order.
func (t *Transaction) Postings() []*Posting {
	var out []*Posting
	for _, e := range t.Entries {
		if p, ok := e.(*Posting); ok {
			out = append(out, p)
		}
	}
	return out
}
