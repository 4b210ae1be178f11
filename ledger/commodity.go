package ledger

import (
	"fmt"

	"github.com/ledgerpipe/ledgerpipe/entity"
)

// UnknownCommodityError reports that a posting's amount carries a
// commodity the account's `assert commodity == ...` restriction does not
// allow (spec.md §3 Account: "assert commodity == CODE" restricts the set
// of commodities the account may carry; spec.md §7 unknown-commodity).
type UnknownCommodityError struct {
	Account   string
	Commodity string
}

func (e *UnknownCommodityError) Error() string {
	return fmt.Sprintf("unknown-commodity: account %q does not allow commodity %q", e.Account, e.Commodity)
}

// CheckPostingCommodity verifies p's amount commodity against account's
// allowed set, when one is declared. An account with no restriction
// (empty AllowedCommodities) allows anything.
func CheckPostingCommodity(p *entity.Posting, account *entity.Account) error {
	if p.Amount == nil {
		return nil
	}
	return checkAllowedCommodity(account, p.Amount.Commodity)
}

// CheckBalanceCommodity verifies a balance assertion's commodity against
// account's allowed set, the same restriction CheckPostingCommodity
// enforces for postings (spec.md §8's cross-entity invariant applies to
// every entry that carries an amount against an account, not just
// postings).
func CheckBalanceCommodity(bc *entity.BalanceCheck, account *entity.Account) error {
	return checkAllowedCommodity(account, bc.Amount.Commodity)
}

// checkAllowedCommodity reports whether commodity is permitted on
// account, when account declares a restriction. An account with no
// restriction (empty AllowedCommodities) allows anything.
func checkAllowedCommodity(account *entity.Account, commodity string) error {
	if len(account.AllowedCommodities) == 0 {
		return nil
	}
	if !account.AllowedCommodities[commodity] {
		return &UnknownCommodityError{Account: account.PathString(), Commodity: commodity}
	}
	return nil
}
