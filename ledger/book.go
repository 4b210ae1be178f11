package ledger

import (
	"fmt"

	"github.com/ledgerpipe/ledgerpipe/entity"
)

// Warning is a non-fatal diagnostic recorded alongside errors (spec.md §7:
// "Warnings are surfaced but do not stop processing").
type Warning struct {
	Kind   string
	Reason string
}

func (w *Warning) Error() string { return fmt.Sprintf("warning: %s: %s", w.Kind, w.Reason) }

// UnknownAccountError reports that an account reference could not be
// resolved against a Book's account table by path or alias (spec.md §4.5,
// §4.6, §7 unknown-account).
type UnknownAccountError struct {
	Reference string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("unknown-account: %q", e.Reference)
}

// Book indexes a ledger's accounts for lookup by path or alias (spec.md
// §4.6): a simple "declared at all" membership test, rather than an
// "open as of a given date" one.
type Book struct {
	byPath   map[string]*entity.Account
	byAlias  map[string]*entity.Account
	order    []*entity.Account
	Warnings []error
}

// NewBook creates an empty account index.
func NewBook() *Book {
	return &Book{byPath: map[string]*entity.Account{}, byAlias: map[string]*entity.Account{}}
}

// AddAccount registers an account declaration. A second declaration at the
// same path updates only the fields the newer declaration sets, and
// records a duplicate-account-declaration warning rather than failing
// (spec.md §4.6). A path that is a strict prefix or extension of an
// already-registered account's path records an account-path-prefix
// warning (spec.md §3 invariant, DESIGN.md Open Question decision 2).
func (b *Book) AddAccount(a *entity.Account) {
	path := a.PathString()

	if existing, ok := b.byPath[path]; ok {
		b.Warnings = append(b.Warnings, &Warning{
			Kind:   "duplicate-account-declaration",
			Reason: fmt.Sprintf("account %q redeclared", path),
		})
		mergeAccount(existing, a)
		if existing.Alias != "" {
			b.byAlias[existing.Alias] = existing
		}
		return
	}

	for _, other := range b.order {
		if a.HasPathPrefix(other) || other.HasPathPrefix(a) {
			b.Warnings = append(b.Warnings, &Warning{
				Kind:   "account-path-prefix",
				Reason: fmt.Sprintf("%q and %q share a path prefix", a.PathString(), other.PathString()),
			})
		}
	}

	b.byPath[path] = a
	if a.Alias != "" {
		b.byAlias[a.Alias] = a
	}
	b.order = append(b.order, a)
}

// mergeAccount copies every field next sets into existing, leaving fields
// next leaves zero untouched — "subsequent declarations update only
// fields present in the newer declaration" (spec.md §4.6).
func mergeAccount(existing, next *entity.Account) {
	if next.Title != "" {
		existing.Title = next.Title
	}
	if next.Description != "" {
		existing.Description = next.Description
	}
	if next.Alias != "" {
		existing.Alias = next.Alias
	}
	if next.Type != "" {
		existing.Type = next.Type
	}
	if next.ExternalID != "" {
		existing.ExternalID = next.ExternalID
	}
	for c := range next.AllowedCommodities {
		if existing.AllowedCommodities == nil {
			existing.AllowedCommodities = map[string]bool{}
		}
		existing.AllowedCommodities[c] = true
	}
	for l := range next.Links {
		if existing.Links == nil {
			existing.Links = map[string]bool{}
		}
		existing.Links[l] = true
	}
}

// Lookup resolves name against the book's accounts by exact path match
// first, then by alias (spec.md §4.6).
func (b *Book) Lookup(name string) (*entity.Account, error) {
	if a, ok := b.byPath[name]; ok {
		return a, nil
	}
	if a, ok := b.byAlias[name]; ok {
		return a, nil
	}
	return nil, &UnknownAccountError{Reference: name}
}

// Resolve looks up the account named by an entity.AccountRef.
func (b *Book) Resolve(ref entity.AccountRef) (*entity.Account, error) {
	return b.Lookup(ref.Name)
}

// Accounts returns every registered account in declaration order.
func (b *Book) Accounts() []*entity.Account {
	out := make([]*entity.Account, len(b.order))
	copy(out, b.order)
	return out
}
