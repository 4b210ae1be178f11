package ledger

import (
	"fmt"

	"github.com/ledgerpipe/ledgerpipe/entity"
	"github.com/ledgerpipe/ledgerpipe/quantity"
)

// BalancingError reports one of the fatal failures spec.md §4.4 names:
// multiple-missing-amounts, cannot-infer-with-no-weights, ambiguous-
// interpolation, or nonzero-transaction-sum.
type BalancingError struct {
	Kind        string
	Reason      string
	Commodities []string
}

func (e *BalancingError) Error() string {
	if len(e.Commodities) > 0 {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Commodities)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Interpolate fills in a transaction's single unamounted posting, if any,
// per spec.md §4.4. It mutates the posting in place. A transaction with no
// unamounted posting is returned unchanged.
func Interpolate(txn *entity.Transaction) error {
	var missing []*entity.Posting
	for _, p := range txn.Postings() {
		if p.Amount == nil {
			missing = append(missing, p)
		}
	}

	switch {
	case len(missing) == 0:
		return nil
	case len(missing) > 1:
		return &BalancingError{Kind: "multiple-missing-amounts", Reason: fmt.Sprintf("%d postings have no amount", len(missing))}
	}

	sums := realWeightSums(txn, missing[0])
	switch sums.len() {
	case 0:
		return &BalancingError{Kind: "cannot-infer-with-no-weights", Reason: "no real postings to balance the missing amount against"}
	case 1:
		commodity, sum := sums.only()
		filled := quantity.New(sum.Neg(), commodity)
		missing[0].Amount = &filled
		finishTotalPrice(missing[0])
		return nil
	default:
		return &BalancingError{Kind: "ambiguous-interpolation", Reason: "the missing amount could balance any of several commodities", Commodities: sums.commodities()}
	}
}

// finishTotalPrice completes the total-to-per-unit price normalization
// interpret.buildPosting deferred because p's amount was still missing
// (DESIGN.md Open Question decision 11). No-op once Price is already
// per-unit or p carries no total price at all.
func finishTotalPrice(p *entity.Posting) {
	if !p.PriceIsTotal || p.Price == nil || p.Amount.Value.IsZero() {
		return
	}
	perUnit := quantity.New(p.Price.Value.Div(p.Amount.Value), p.Price.Commodity)
	p.Price = &perUnit
	p.PriceIsTotal = false
}

// VerifyBalanced checks that txn's real-weight sum is exactly zero per
// commodity (spec.md §4.4: "After interpolation, the transaction's
// real-weight sum MUST be zero per commodity; this property is verified").
func VerifyBalanced(txn *entity.Transaction) error {
	sums := realWeightSums(txn, nil)
	for _, commodity := range sums.commodities() {
		sum := sums.vals[commodity]
		if !sum.IsZero() {
			return &BalancingError{Kind: "nonzero-transaction-sum", Reason: fmt.Sprintf("%s sums to %s, want 0", commodity, sum.String())}
		}
	}
	return nil
}

// Balance validates every posting in txn, interpolates its single missing
// amount if present, and verifies the result balances to zero per
// commodity. Posting-validity errors are collected exhaustively; a
// balancing failure (interpolation or the final zero-sum check) is
// reported only when posting validation found nothing wrong, since an
// invalid posting's weight is not meaningful to balance against.
func Balance(txn *entity.Transaction) []error {
	if err := txn.Validate(); err != nil {
		return []error{err}
	}
	if errs := ValidatePostings(txn); len(errs) > 0 {
		return errs
	}
	if err := Interpolate(txn); err != nil {
		return []error{err}
	}
	if err := VerifyBalanced(txn); err != nil {
		return []error{err}
	}
	return nil
}
