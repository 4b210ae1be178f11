package entity

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/ledgerpipe/ledgerpipe/quantity"
)

func TestCommodityValidateRejectsBadCode(t *testing.T) {
	c := &Commodity{Code: "1USD"}
	assert.Error(t, c.Validate())
}

func TestCommodityValidateAcceptsCurrencyCode(t *testing.T) {
	c := &Commodity{Code: "USD", AssetType: AssetCurrency}
	assert.NoError(t, c.Validate())
}

func TestAllocationValidateKeywordAndWeightsAreExclusive(t *testing.T) {
	a := Allocation{Keyword: "equity", Weights: map[string]float64{"cash": 1}}
	assert.Error(t, a.Validate(assetClasses, "asset-class"))
}

func TestAllocationValidateWeightsMustSumToOne(t *testing.T) {
	a := Allocation{Weights: map[string]float64{"equity": 0.5, "cash": 0.25}}
	assert.Error(t, a.Validate(assetClasses, "asset-class"))

	ok := Allocation{Weights: map[string]float64{"equity": 0.6, "cash": 0.4}}
	assert.NoError(t, ok.Validate(assetClasses, "asset-class"))
}

func TestAccountPathStringAndPrefixInvariant(t *testing.T) {
	parent := &Account{Path: []string{"Assets", "Cash"}}
	child := &Account{Path: []string{"Assets", "Cash", "Wallet"}}
	assert.Equal(t, "Assets:Cash:Wallet", child.PathString())
	assert.True(t, child.HasPathPrefix(parent))
	assert.False(t, parent.HasPathPrefix(child))
}

func TestAccountValidateRejectsEmptyPath(t *testing.T) {
	a := &Account{}
	assert.Error(t, a.Validate())
}

func TestPostingScalePrefersPriceOverCost(t *testing.T) {
	price := quantity.New(mustDecimal(t, "40.15"), "USD")
	cost := quantity.New(mustDecimal(t, "39.90"), "USD")
	p := &Posting{Price: &price, Cost: &Cost{Amount: cost}}
	assert.Equal(t, &price, p.Scale())
}

func TestPostingScaleFallsBackToCost(t *testing.T) {
	cost := quantity.New(mustDecimal(t, "39.90"), "USD")
	p := &Posting{Cost: &Cost{Amount: cost}}
	scale := p.Scale()
	assert.Equal(t, "39.90", scale.Value.String())
}

func TestPostingIsVirtual(t *testing.T) {
	real := &Posting{EntryCommon: EntryCommon{AccountRef: AccountRef{Kind: RefReal}}}
	virt := &Posting{EntryCommon: EntryCommon{AccountRef: AccountRef{Kind: RefVirtual}}}
	assert.False(t, real.IsVirtual())
	assert.True(t, virt.IsVirtual())
}

func mustDecimal(t *testing.T, s string) quantity.Decimal {
	t.Helper()
	d, err := quantity.NewDecimalFromString(s)
	assert.NoError(t, err)
	return d
}
