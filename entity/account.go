package entity

import (
	"fmt"
	"strings"

	"github.com/ledgerpipe/ledgerpipe/quantity"
	"github.com/ledgerpipe/ledgerpipe/timeval"
)

// Price is an observed exchange rate: a commodity's value in some other
// commodity at an instant (spec.md §3 Price point). Uniqueness is
// enforced at normalization time: at most one price per (Commodity,
// ObservedAt).
type Price struct {
	BookID     string
	StableID   string
	Commodity  string
	ObservedAt timeval.Instant
	Value      quantity.Quantity
	Source     string
	SourceSpan Span
}

// AccountType is one of the closed set of account kinds spec.md §3
// names as an example (the set is illustrative, not exhaustive, there;
// this implementation fixes a concrete closed set).
type AccountType string

const (
	AccountCash       AccountType = "cash"
	AccountSavings    AccountType = "savings"
	AccountChecking   AccountType = "checking"
	AccountCreditCard AccountType = "credit-card"
	AccountBrokerage  AccountType = "brokerage"
	AccountRetirement AccountType = "retirement"
	AccountLoan       AccountType = "loan"
)

var validAccountTypes = map[AccountType]bool{
	AccountCash: true, AccountSavings: true, AccountChecking: true,
	AccountCreditCard: true, AccountBrokerage: true, AccountRetirement: true,
	AccountLoan: true,
}

// Account is identified within a Book by an ordered, non-empty path of
// segment strings, with an optional alias keyword (spec.md §3 Account).
//
// Example source:
//
//	account Assets:Cash:Wallet
//	    alias wallet
//	    assert commodity == "$"
//	    note type: cash
type Account struct {
	BookID             string
	StableID           string
	Path               []string
	Title              string
	Description        string
	Alias              string
	Type               AccountType
	ExternalID         string
	AllowedCommodities map[string]bool
	Links              map[string]bool
	Source             Span
}

// PathString renders Path joined with ':', the canonical account-path
// rendering used by source and diagnostics alike. This literal ':' is
// the account-path keying format a ledger.Book indexes accounts by, and
// must match AccountRef.Name exactly as carried over from source text;
// it is not a display preference and must never be parameterized.
func (a *Account) PathString() string {
	return strings.Join(a.Path, ":")
}

// FormatPath renders Path joined with sep, a caller-chosen display
// separator distinct from PathString's fixed ':' (spec.md §9: account
// path rendering for reports is presentation, not part of the source
// grammar or the internal account-path key).
func (a *Account) FormatPath(sep string) string {
	return strings.Join(a.Path, sep)
}

// Validate checks the Account's shape against spec.md §3.
func (a *Account) Validate() error {
	if len(a.Path) == 0 {
		return &SchemaViolationError{Entity: "account", Field: "path", Reason: "path must be non-empty"}
	}
	for _, seg := range a.Path {
		if seg == "" {
			return &SchemaViolationError{Entity: "account", Field: "path", Reason: "path segments must not be empty"}
		}
	}
	if a.Type != "" && !validAccountTypes[a.Type] {
		return &SchemaViolationError{Entity: "account", Field: "type", Reason: fmt.Sprintf("unknown account type %q", a.Type)}
	}
	return nil
}

// HasPathPrefix reports whether other's path is a strict prefix of a's
// path (spec.md §3 invariant: "path prefix of one account SHOULD NOT be
// the complete path of another").
func (a *Account) HasPathPrefix(other *Account) bool {
	if len(other.Path) >= len(a.Path) {
		return false
	}
	for i, seg := range other.Path {
		if a.Path[i] != seg {
			return false
		}
	}
	return true
}
