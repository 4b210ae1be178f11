package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/ledgerpipe/ledgerpipe/entity"
	"github.com/ledgerpipe/ledgerpipe/quantity"
)

func dec(t *testing.T, s string) quantity.Decimal {
	t.Helper()
	d, err := quantity.NewDecimalFromString(s)
	assert.NoError(t, err)
	return d
}

func qty(t *testing.T, value, commodity string) *quantity.Quantity {
	q := quantity.New(dec(t, value), commodity)
	return &q
}

func realPosting(t *testing.T, account, amount, commodity string) *entity.Posting {
	return &entity.Posting{
		EntryCommon: entity.EntryCommon{AccountRef: entity.AccountRef{Kind: entity.RefReal, Name: account}},
		Amount:      qty(t, amount, commodity),
	}
}

func TestDeriveWeightBareAmount(t *testing.T) {
	p := realPosting(t, "wallet", "20.00", "USD")
	w, ok := DeriveWeight(p)
	assert.True(t, ok)
	assert.Equal(t, "20.00", w.Value.String())
	assert.Equal(t, "USD", w.Commodity)
}

func TestDeriveWeightPricedPosting(t *testing.T) {
	p := realPosting(t, "traditional-ira", "-40", "SCHH")
	p.Price = qty(t, "40.1513", "USD")
	w, ok := DeriveWeight(p)
	assert.True(t, ok)
	assert.Equal(t, "USD", w.Commodity)
	assert.Equal(t, "-1606.0520", w.Value.String())
}

func TestDeriveWeightCostedPosting(t *testing.T) {
	p := realPosting(t, "traditional-ira", "-40", "SCHH")
	p.Cost = &entity.Cost{Amount: *qty(t, "39.90", "USD")}
	w, ok := DeriveWeight(p)
	assert.True(t, ok)
	assert.Equal(t, "USD", w.Commodity)
	assert.Equal(t, "-1596.00", w.Value.String())
}

func TestDeriveWeightExplicitWeightWins(t *testing.T) {
	p := realPosting(t, "traditional-ira", "-40", "SCHH")
	p.Price = qty(t, "40.1513", "USD")
	p.Weight = qty(t, "-1600.00", "USD")
	w, ok := DeriveWeight(p)
	assert.True(t, ok)
	assert.Equal(t, "-1600.00", w.Value.String())
}

func TestDeriveWeightVirtualExcluded(t *testing.T) {
	p := realPosting(t, "roth-contributions", "500.00", "USD")
	p.AccountRef.Kind = entity.RefVirtual
	_, ok := DeriveWeight(p)
	assert.False(t, ok)
}

func TestDeriveWeightNoAmountExcluded(t *testing.T) {
	p := realPosting(t, "Equity:Opening Balances", "0", "USD")
	p.Amount = nil
	_, ok := DeriveWeight(p)
	assert.False(t, ok)
}

func TestValidatePostingBalanceCheckCommodityMismatch(t *testing.T) {
	p := realPosting(t, "wallet", "20.00", "USD")
	p.Assertion = qty(t, "20.00", "EUR")
	errs := ValidatePosting(p)
	assert.Equal(t, 1, len(errs))
	pve, ok := errs[0].(*PostingValidityError)
	assert.True(t, ok)
	assert.Equal(t, "balance-check-commodity-mismatch", pve.Kind)
}

func TestValidatePostingBalanceCheckCommodityMatchIsFine(t *testing.T) {
	p := realPosting(t, "wallet", "20.00", "USD")
	p.Assertion = qty(t, "20.00", "USD")
	assert.Equal(t, 0, len(ValidatePosting(p)))
}

func TestValidatePostingRecursivePrice(t *testing.T) {
	p := realPosting(t, "wallet", "20.00", "USD")
	p.Price = qty(t, "1.00", "USD")
	errs := ValidatePosting(p)
	assert.Equal(t, 1, len(errs))
	pve, ok := errs[0].(*PostingValidityError)
	assert.True(t, ok)
	assert.Equal(t, "recursive-price", pve.Kind)
}

func TestValidatePostingRecursiveCost(t *testing.T) {
	p := realPosting(t, "traditional-ira", "-40", "SCHH")
	p.Cost = &entity.Cost{Amount: *qty(t, "39.90", "SCHH")}
	errs := ValidatePosting(p)
	assert.Equal(t, 1, len(errs))
	pve, ok := errs[0].(*PostingValidityError)
	assert.True(t, ok)
	assert.Equal(t, "recursive-cost", pve.Kind)
}

func TestValidatePostingRedundantWeight(t *testing.T) {
	p := realPosting(t, "wallet", "20.00", "USD")
	p.Weight = qty(t, "20.00", "USD")
	errs := ValidatePosting(p)
	assert.Equal(t, 1, len(errs))
	pve, ok := errs[0].(*PostingValidityError)
	assert.True(t, ok)
	assert.Equal(t, "redundant-weight", pve.Kind)
}

func TestValidatePostingWeightCommodityMismatch(t *testing.T) {
	p := realPosting(t, "traditional-ira", "-40", "SCHH")
	p.Price = qty(t, "40.1513", "USD")
	p.Weight = qty(t, "-1600.00", "EUR")
	errs := ValidatePosting(p)
	assert.Equal(t, 1, len(errs))
	pve, ok := errs[0].(*PostingValidityError)
	assert.True(t, ok)
	assert.Equal(t, "weight-commodity-mismatch", pve.Kind)
}

func TestValidatePostingExhaustiveCollectsMultiple(t *testing.T) {
	p := realPosting(t, "traditional-ira", "-40", "SCHH")
	p.Price = qty(t, "40.1513", "SCHH")
	p.Weight = qty(t, "-1600.00", "EUR")
	errs := ValidatePosting(p)
	assert.Equal(t, 2, len(errs))
}

func TestValidatePostingCleanPasses(t *testing.T) {
	p := realPosting(t, "wallet", "20.00", "USD")
	assert.Equal(t, 0, len(ValidatePosting(p)))
}

