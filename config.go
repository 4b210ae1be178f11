// Package ledgerpipe ties packages loader, synparse, interpret, ledger,
// and normalize into the single ingestion pipeline spec.md §1 describes:
// "bytes in, validated/balanced/normalized entities out". Config and
// Pipeline are its two exported entry points.
package ledgerpipe

import (
	"context"
	"fmt"

	"github.com/ledgerpipe/ledgerpipe/entity"
	"github.com/ledgerpipe/ledgerpipe/quantity"
	"github.com/ledgerpipe/ledgerpipe/timeval"
)

// Config carries ledger-wide settings threaded explicitly through every
// exported entry point (spec.md §9: the default time zone is explicit
// configuration, never an implicit read of the host's local zone).
//
// A plain value type with a constructor supplying defaults, plus a
// context.Context attachment for deep call chains that don't want to
// carry Config as an extra parameter. Nothing here is parsed out of
// directives in the source file itself — spec.md names no `option`
// directive, so every field is embedder-supplied up front.
type Config struct {
	// Time carries the default zone used to resolve a date/time pair with
	// no explicit zone offset into an Instant (timeval.Config).
	Time timeval.Config

	// AccountPathSeparator joins an account's path segments back into its
	// canonical string form (spec.md §3 Account: "Assets:Cash:Wallet").
	// Defaults to ":".
	AccountPathSeparator string

	// CommodityPrecision gives the number of decimal places FormatQuantity
	// displays for a commodity code (spec.md §3 Commodity). Keyed by
	// canonical commodity code. A commodity declaration's own `format`
	// body line is not consulted.
	CommodityPrecision map[string]int

	// MaxErrors bounds how many recoverable per-entry errors Pipeline.Run
	// collects before it stops feeding new ones to its *ledgererr.Errors
	// aggregate (spec.md §7 propagation policy). 0 means unbounded.
	MaxErrors int
}

// DefaultConfig returns a Config with UTC as the default zone, ":" as the
// account-path separator, and no per-commodity precision overrides.
func DefaultConfig() Config {
	return Config{
		Time:                 timeval.DefaultConfig(),
		AccountPathSeparator: ":",
		CommodityPrecision:   map[string]int{},
	}
}

// FormatAccountPath renders account's path joined with
// c.AccountPathSeparator (falling back to ":" on a zero-value Config),
// the display-only rendering spec.md §9 distinguishes from the fixed ':'
// entity.Account.PathString uses internally to key a ledger.Book's
// account table. Changing AccountPathSeparator never affects account
// resolution, only how a resolved path is shown back to a caller.
func (c Config) FormatAccountPath(account *entity.Account) string {
	sep := c.AccountPathSeparator
	if sep == "" {
		sep = ":"
	}
	return account.FormatPath(sep)
}

// FormatQuantity renders q at its commodity's configured display
// precision (spec.md §3 Commodity: "format ... precision"), rounding
// half-away-from-zero to that many decimal places. A commodity absent
// from c.CommodityPrecision is rendered at the precision it was written
// with.
func (c Config) FormatQuantity(q quantity.Quantity) string {
	precision, ok := c.CommodityPrecision[q.Commodity]
	if !ok {
		return fmt.Sprintf("%s %s", q.Value.String(), q.Commodity)
	}
	rounded := q.Value.Raw().Round(int32(precision))
	return fmt.Sprintf("%s %s", rounded.StringFixed(int32(precision)), q.Commodity)
}

// contextKey is a private type to avoid key collisions in context.
type contextKey struct{}

// WithContext returns a new context carrying cfg, for call chains that
// would rather read Config off ctx than thread it as a parameter.
func (c Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ConfigFromContext retrieves a Config attached with WithContext, or
// DefaultConfig() if none is present.
func ConfigFromContext(ctx context.Context) Config {
	if cfg, ok := ctx.Value(contextKey{}).(Config); ok {
		return cfg
	}
	return DefaultConfig()
}
