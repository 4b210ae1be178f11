// Package normalize flattens the tree-form entities package entity and
// package ledger produce into the flat normal form spec.md §4.5 describes:
// every entity stands alone with a generated or reused stable id, child
// entities carry a parent-id attribute pointing back up the tree, ordered
// children retain their original rank, and account references are rewritten
// to the canonical account id they resolve to.
package normalize

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/ledgerpipe/ledgerpipe/entity"
	"github.com/ledgerpipe/ledgerpipe/ledger"
)

// IDGenerator assigns stable, domain-prefixed ids to entities that don't
// already carry an external one (spec.md §4.5: "if an external id is
// already present ... it is reused verbatim").
type IDGenerator struct{}

// Assign returns external verbatim if set, else a new random id prefixed
// with prefix.
func (IDGenerator) Assign(prefix, external string) string {
	if external != "" {
		return external
	}
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String())
}

// UnresolvedAccountError wraps a ledger.UnknownAccountError with the
// entry it was found on, reported as spec.md §7's unknown-account.
type UnresolvedAccountError struct {
	EntryKind string
	Err       error
}

func (e *UnresolvedAccountError) Error() string {
	return fmt.Sprintf("unknown-account: %s: %s", e.EntryKind, e.Err)
}

func (e *UnresolvedAccountError) Unwrap() error { return e.Err }

// DuplicatePriceWarning reports a second price point observed for the same
// (commodity, observed-at) pair (spec.md §4.6 analog for prices, DESIGN.md
// Open Question decision 3). The earlier price point is kept.
type DuplicatePriceWarning struct {
	Commodity string
	ObservedAt string
}

func (w *DuplicatePriceWarning) Error() string {
	return fmt.Sprintf("duplicate-price: %s at %s", w.Commodity, w.ObservedAt)
}

// Result is the flattened output of Normalize: the book and its
// commodities, prices, and accounts in the order spec.md §4.5 names, the
// journal in time order, and any warnings or errors collected along the
// way. Errors here are unknown-account resolution failures, disallowed- or
// unknown-commodity errors, and account lifecycle (open/close ordering)
// errors; a single bad entry does not stop normalization of the rest of
// the journal, since each entry is checked independently.
type Result struct {
	Book        *entity.Book
	Accounts    []*entity.Account
	Commodities []*entity.Commodity
	Prices      []*entity.Price
	Conversions []*entity.ConversionRate
	Journal     []*entity.Transaction
	Warnings    []error
	Errors      []error
}

// Normalize assigns stable ids, parent-id cross-references, and resolved
// account ids across book's contents, and returns them in spec.md §4.5's
// preferred output order. book's accounts are expected to already be
// registered in index (e.g. via a prior pass calling index.AddAccount for
// each of book.Accounts); Normalize does not itself populate the index.
func Normalize(book *entity.Book, index *ledger.Book) *Result {
	ids := IDGenerator{}
	res := &Result{Book: book}

	book.ID = ids.Assign("book", book.ID)

	for _, c := range book.Commodities {
		c.BookID = book.ID
		c.StableID = ids.Assign("commodity", c.StableID)
	}
	res.Commodities = book.Commodities

	res.Prices = normalizePrices(book, ids, res)
	for _, cv := range book.Conversions {
		cv.BookID = book.ID
		cv.StableID = ids.Assign("conv", cv.StableID)
	}
	res.Conversions = book.Conversions

	res.Accounts = normalizeAccounts(book, ids)

	res.Journal = normalizeJournal(book, index, ids, res)

	return res
}

// normalizeAccounts stamps BookID/StableID on every account and orders
// them depth-first over the account-path tree (spec.md §4.5: "accounts
// (depth-first over the account tree)").
func normalizeAccounts(book *entity.Book, ids IDGenerator) []*entity.Account {
	for _, a := range book.Accounts {
		a.BookID = book.ID
		a.StableID = ids.Assign("acct", a.StableID)
	}
	return depthFirstAccounts(book.Accounts)
}

// depthFirstAccounts orders accounts as a depth-first walk of the implied
// path tree: paths are compared segment by segment, so a parent precedes
// its children, every account's descendants follow it directly, and
// siblings are ordered by segment name.
func depthFirstAccounts(accounts []*entity.Account) []*entity.Account {
	out := make([]*entity.Account, len(accounts))
	copy(out, accounts)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Path, out[j].Path
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return out
}

func normalizePrices(book *entity.Book, ids IDGenerator, res *Result) []*entity.Price {
	seen := map[string]bool{}
	var out []*entity.Price
	for _, p := range book.Prices {
		key := p.Commodity + "@" + p.ObservedAt.String()
		if seen[key] {
			res.Warnings = append(res.Warnings, &DuplicatePriceWarning{Commodity: p.Commodity, ObservedAt: p.ObservedAt.String()})
			continue
		}
		seen[key] = true
		p.BookID = book.ID
		p.StableID = ids.Assign("price", p.StableID)
		out = append(out, p)
	}
	return out
}

// normalizeJournal stamps ids on every transaction and its entries, items,
// and invoices, resolves account references against index, and returns
// the journal ordered by transaction date/time (spec.md §4.5: "the journal
// in time order: transaction -> its invoices -> its entries in declaration
// order").
func normalizeJournal(book *entity.Book, index *ledger.Book, ids IDGenerator, res *Result) []*entity.Transaction {
	ordered := orderByTime(book.Journal)

	for _, err := range ledger.ValidateAccountLifecycle(ordered) {
		res.Errors = append(res.Errors, err)
	}

	for _, txn := range ordered {
		txn.BookID = book.ID
		txn.StableID = ids.Assign("txn", txn.StableID)

		for _, entry := range txn.Entries {
			common := entry.Common()
			common.TransactionID = txn.StableID
			common.StableID = ids.Assign("entry", common.StableID)

			account, err := index.Resolve(common.AccountRef)
			if err != nil {
				res.Errors = append(res.Errors, &UnresolvedAccountError{EntryKind: entry.EntryKind(), Err: err})
			} else {
				common.AccountRef.ResolvedID = account.StableID
			}

			switch e := entry.(type) {
			case *entity.Posting:
				if account != nil {
					if err := ledger.CheckPostingCommodity(e, account); err != nil {
						res.Errors = append(res.Errors, err)
					}
				}
				if e.Invoice != nil {
					normalizeInvoice(e.Invoice, common.StableID, ids)
				}
			case *entity.BalanceCheck:
				if account != nil {
					if err := ledger.CheckBalanceCommodity(e, account); err != nil {
						res.Errors = append(res.Errors, err)
					}
				}
			}
		}
	}
	return ordered
}

func normalizeInvoice(inv *entity.Invoice, entryID string, ids IDGenerator) {
	inv.EntryID = entryID
	inv.StableID = ids.Assign("inv", inv.StableID)
	for i, item := range inv.Items {
		item.InvoiceID = inv.StableID
		item.Rank = i
		item.StableID = ids.Assign("item", item.StableID)
	}
}

// orderByTime returns txns sorted by date, then time-of-day when present,
// with a stable tie-break on original position so equally-timed
// transactions keep their declared order.
func orderByTime(txns []*entity.Transaction) []*entity.Transaction {
	out := make([]*entity.Transaction, len(txns))
	copy(out, txns)
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && txnAfter(out[j-1], out[j]) {
			out[j-1], out[j] = out[j], out[j-1]
			j--
		}
	}
	return out
}

// txnAfter reports whether a sorts strictly after b by date, then by
// time-of-day when both carry one.
func txnAfter(a, b *entity.Transaction) bool {
	if a.Date.Compare(b.Date) != 0 {
		return a.Date.After(b.Date)
	}
	if a.Time != nil && b.Time != nil {
		return a.Time.After(*b.Time)
	}
	return false
}
