package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/ledgerpipe/ledgerpipe/entity"
)

func TestBookLookupByPathAndAlias(t *testing.T) {
	b := NewBook()
	wallet := &entity.Account{Path: []string{"Assets", "Cash", "Wallet"}, Alias: "wallet"}
	b.AddAccount(wallet)

	byPath, err := b.Lookup("Assets:Cash:Wallet")
	assert.NoError(t, err)
	assert.Equal(t, wallet, byPath)

	byAlias, err := b.Lookup("wallet")
	assert.NoError(t, err)
	assert.Equal(t, wallet, byAlias)
}

func TestBookLookupUnknownAccount(t *testing.T) {
	b := NewBook()
	_, err := b.Lookup("Assets:Nope")
	assert.Error(t, err)
	_, ok := err.(*UnknownAccountError)
	assert.True(t, ok)
}

func TestBookAddAccountDuplicateDeclarationMerges(t *testing.T) {
	b := NewBook()
	b.AddAccount(&entity.Account{Path: []string{"Assets", "Cash", "Wallet"}, Type: entity.AccountCash})
	b.AddAccount(&entity.Account{Path: []string{"Assets", "Cash", "Wallet"}, Alias: "wallet"})

	assert.Equal(t, 1, len(b.Warnings))
	w, ok := b.Warnings[0].(*Warning)
	assert.True(t, ok)
	assert.Equal(t, "duplicate-account-declaration", w.Kind)

	a, err := b.Lookup("Assets:Cash:Wallet")
	assert.NoError(t, err)
	assert.Equal(t, entity.AccountCash, a.Type)
	assert.Equal(t, "wallet", a.Alias)

	byAlias, err := b.Lookup("wallet")
	assert.NoError(t, err)
	assert.Equal(t, a, byAlias)
}

func TestBookAddAccountPathPrefixWarns(t *testing.T) {
	b := NewBook()
	b.AddAccount(&entity.Account{Path: []string{"Assets", "Cash"}})
	b.AddAccount(&entity.Account{Path: []string{"Assets", "Cash", "Wallet"}})

	assert.Equal(t, 1, len(b.Warnings))
	w, ok := b.Warnings[0].(*Warning)
	assert.True(t, ok)
	assert.Equal(t, "account-path-prefix", w.Kind)
}

func TestBookAccountsPreservesDeclarationOrder(t *testing.T) {
	b := NewBook()
	first := &entity.Account{Path: []string{"Assets", "Cash", "Wallet"}}
	second := &entity.Account{Path: []string{"Assets", "Brokerage", "Schwab"}}
	b.AddAccount(first)
	b.AddAccount(second)

	accounts := b.Accounts()
	assert.Equal(t, 2, len(accounts))
	assert.Equal(t, first, accounts[0])
	assert.Equal(t, second, accounts[1])
}

func TestBookResolveUsesAccountRef(t *testing.T) {
	b := NewBook()
	wallet := &entity.Account{Path: []string{"Assets", "Cash", "Wallet"}, Alias: "wallet"}
	b.AddAccount(wallet)

	a, err := b.Resolve(entity.AccountRef{Kind: entity.RefReal, Name: "wallet"})
	assert.NoError(t, err)
	assert.Equal(t, wallet, a)
}
