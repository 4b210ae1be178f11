// Package ledger implements the posting-semantics and balancing rules of
// spec.md §4.3-§4.4, §4.6: deriving a posting's balancing weight, checking
// posting validity, interpolating a transaction's one missing amount, and
// indexing a book's accounts for lookup by path or alias.
//
// Validation is exhaustive and non-short-circuiting: every check runs and
// every failure is collected before returning, rather than stopping at
// the first one, so a caller sees every problem with a posting in one
// pass.
package ledger

import (
	"fmt"

	"github.com/ledgerpipe/ledgerpipe/entity"
	"github.com/ledgerpipe/ledgerpipe/quantity"
)

// DeriveWeight computes a posting's contribution to its transaction's
// balance (spec.md §4.3 "Weight derivation"). ok is false when the
// posting does not contribute at all: the wrong variant, virtual, or
// carrying no amount.
func DeriveWeight(p *entity.Posting) (w quantity.Quantity, ok bool) {
	if p.IsVirtual() || p.Amount == nil {
		return quantity.Quantity{}, false
	}
	if p.Weight != nil {
		return *p.Weight, true
	}
	if p.Price != nil {
		return quantity.New(p.Amount.Value.Mul(p.Price.Value), p.Price.Commodity), true
	}
	if p.Cost != nil {
		return quantity.New(p.Amount.Value.Mul(p.Cost.Amount.Value), p.Cost.Amount.Commodity), true
	}
	return *p.Amount, true
}

// PostingValidityError reports a failure of one of the five posting-level
// checks spec.md §4.3 names. Kind is one of: balance-check-commodity-
// mismatch, recursive-price, recursive-cost, redundant-weight,
// weight-commodity-mismatch.
type PostingValidityError struct {
	Kind    string
	Account string
	Reason  string
}

func (e *PostingValidityError) Error() string {
	return fmt.Sprintf("%s: posting %s: %s", e.Kind, e.Account, e.Reason)
}

// ValidatePosting runs every posting-validity check against p, exhaustively
// (spec.md §4.3: "checks are exhaustive, none short-circuit") — a posting
// failing two independent checks reports both.
func ValidatePosting(p *entity.Posting) []error {
	var errs []error
	account := p.AccountRef.Name

	if p.Amount != nil && p.Assertion != nil && p.Amount.Commodity != p.Assertion.Commodity {
		errs = append(errs, &PostingValidityError{
			Kind: "balance-check-commodity-mismatch", Account: account,
			Reason: fmt.Sprintf("amount commodity %q does not match assertion commodity %q", p.Amount.Commodity, p.Assertion.Commodity),
		})
	}

	if p.Amount != nil && p.Price != nil && p.Amount.Commodity == p.Price.Commodity {
		errs = append(errs, &PostingValidityError{
			Kind: "recursive-price", Account: account,
			Reason: fmt.Sprintf("amount and price both carry commodity %q", p.Amount.Commodity),
		})
	}

	if p.Amount != nil && p.Cost != nil && p.Amount.Commodity == p.Cost.Amount.Commodity {
		errs = append(errs, &PostingValidityError{
			Kind: "recursive-cost", Account: account,
			Reason: fmt.Sprintf("amount and lot-cost both carry commodity %q", p.Amount.Commodity),
		})
	}

	scale := p.Scale()
	if p.Weight != nil && scale == nil {
		errs = append(errs, &PostingValidityError{
			Kind: "redundant-weight", Account: account,
			Reason: "an explicit weight requires a price or cost to scale against",
		})
	}
	if p.Weight != nil && scale != nil && p.Weight.Commodity != scale.Commodity {
		errs = append(errs, &PostingValidityError{
			Kind: "weight-commodity-mismatch", Account: account,
			Reason: fmt.Sprintf("explicit weight commodity %q does not match scale commodity %q", p.Weight.Commodity, scale.Commodity),
		})
	}

	return errs
}

// ValidatePostings runs ValidatePosting over every posting in txn.
func ValidatePostings(txn *entity.Transaction) []error {
	var errs []error
	for _, p := range txn.Postings() {
		errs = append(errs, ValidatePosting(p)...)
	}
	return errs
}

// orderedSums accumulates per-commodity totals in first-seen order, the
// "ordered insertion" spec.md §4.4 requires so ambiguous-interpolation
// reports a deterministic commodity set.
type orderedSums struct {
	order []string
	vals  map[string]quantity.Decimal
}

func newOrderedSums() *orderedSums {
	return &orderedSums{vals: map[string]quantity.Decimal{}}
}

func (s *orderedSums) add(commodity string, v quantity.Decimal) {
	if cur, ok := s.vals[commodity]; ok {
		s.vals[commodity] = cur.Add(v)
		return
	}
	s.order = append(s.order, commodity)
	s.vals[commodity] = v
}

func (s *orderedSums) len() int { return len(s.order) }

func (s *orderedSums) only() (string, quantity.Decimal) {
	c := s.order[0]
	return c, s.vals[c]
}

func (s *orderedSums) commodities() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// realWeightSums sums the weights of txn's real (non-virtual), concrete
// postings, skipping skip if non-nil (the posting interpolation is about to
// fill in).
func realWeightSums(txn *entity.Transaction, skip *entity.Posting) *orderedSums {
	sums := newOrderedSums()
	for _, p := range txn.Postings() {
		if p == skip || p.IsVirtual() {
			continue
		}
		w, ok := DeriveWeight(p)
		if !ok {
			continue
		}
		sums.add(w.Commodity, w.Value)
	}
	return sums
}
