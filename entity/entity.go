// Package entity defines the typed, tree-form domain entities spec.md §3
// describes: the statically-typed record for each "map with a type
// keyword" the source format carries (§9 "Dynamic maps → tagged
// variants"). Package interpret builds these from a parsetree.Node;
// package normalize flattens them; package ledger checks and balances
// them.
//
// One struct per directive/entity kind; doc comments carry a short
// description and a source-syntax example where one clarifies the shape.
package entity

import (
	"fmt"
	"regexp"

	"github.com/ledgerpipe/ledgerpipe/parsetree"
)

// Span locates an entity in its originating source text.
type Span = parsetree.Span

var commodityCodeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// AssetType is one of the closed set of instrument kinds a Commodity may
// declare (spec.md §3 Commodity definition).
type AssetType string

const (
	AssetCurrency      AssetType = "currency"
	AssetBond          AssetType = "bond"
	AssetStock         AssetType = "stock"
	AssetMutualFund    AssetType = "mutual-fund"
	AssetETF           AssetType = "exchange-traded-fund"
	AssetRewardPoints  AssetType = "reward-points"
)

var validAssetTypes = map[AssetType]bool{
	AssetCurrency: true, AssetBond: true, AssetStock: true,
	AssetMutualFund: true, AssetETF: true, AssetRewardPoints: true,
}

// assetClasses and assetSectors are the closed keyword sets Allocation
// validates against (spec.md §3: "one keyword or probability map summing
// to 1 over a closed class set"). The original source gives no concrete
// taxonomy, so these are a reasonable finance-domain closed set chosen for
// this implementation.
var assetClasses = map[string]bool{
	"equity": true, "fixed-income": true, "cash": true, "real-estate": true,
	"commodity": true, "alternative": true,
}

var assetSectors = map[string]bool{
	"technology": true, "financial": true, "healthcare": true, "energy": true,
	"consumer": true, "industrial": true, "utilities": true, "materials": true,
	"communication": true, "real-estate": true, "diversified": true,
}

// Allocation is either a single keyword or a probability map over a closed
// keyword set summing to 1 (spec.md §3 asset-class / asset-sector).
type Allocation struct {
	Keyword string
	Weights map[string]float64
}

// Validate checks Allocation against the given closed set: exactly one of
// Keyword or Weights is populated, every key belongs to the set, and a
// weight map sums to 1 within a small epsilon.
func (a Allocation) Validate(set map[string]bool, field string) error {
	if a.Keyword == "" && len(a.Weights) == 0 {
		return nil
	}
	if a.Keyword != "" && len(a.Weights) > 0 {
		return fmt.Errorf("entity: %s: cannot set both a keyword and a weight map", field)
	}
	if a.Keyword != "" {
		if !set[a.Keyword] {
			return fmt.Errorf("entity: %s: unknown keyword %q", field, a.Keyword)
		}
		return nil
	}
	sum := 0.0
	for k, w := range a.Weights {
		if !set[k] {
			return fmt.Errorf("entity: %s: unknown keyword %q", field, k)
		}
		sum += w
	}
	const epsilon = 1e-9
	if sum < 1-epsilon || sum > 1+epsilon {
		return fmt.Errorf("entity: %s: weights sum to %v, want 1", field, sum)
	}
	return nil
}

// Commodity declares a tradable instrument or currency (spec.md §3
// Commodity definition).
//
// Example source:
//
//	commodity USD
//	    note United States Dollars
//	    note type: currency
//	    format $1,000.00
type Commodity struct {
	BookID         string
	StableID       string
	Code           string
	Title          string
	Description    string
	CurrencySymbol string
	Precision      int
	AssetType      AssetType
	AssetClass     Allocation
	AssetSector    Allocation
	Source         Span
}

// Validate checks the Commodity's shape against spec.md §3.
func (c *Commodity) Validate() error {
	if !commodityCodeRe.MatchString(c.Code) {
		return &SchemaViolationError{Entity: "commodity", Field: "code", Reason: fmt.Sprintf("%q is not a valid commodity code", c.Code)}
	}
	if c.AssetType != "" && !validAssetTypes[c.AssetType] {
		return &SchemaViolationError{Entity: "commodity", Field: "asset-type", Reason: fmt.Sprintf("unknown asset type %q", c.AssetType)}
	}
	if err := c.AssetClass.Validate(assetClasses, "asset-class"); err != nil {
		return &SchemaViolationError{Entity: "commodity", Field: "asset-class", Reason: err.Error()}
	}
	if err := c.AssetSector.Validate(assetSectors, "asset-sector"); err != nil {
		return &SchemaViolationError{Entity: "commodity", Field: "asset-sector", Reason: err.Error()}
	}
	return nil
}

// SchemaViolationError reports that an entity failed its post-
// interpretation schema check (spec.md §7 schema-violation).
type SchemaViolationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema-violation: %s.%s: %s", e.Entity, e.Field, e.Reason)
}
