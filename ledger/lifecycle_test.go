package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/ledgerpipe/ledgerpipe/entity"
	"github.com/ledgerpipe/ledgerpipe/timeval"
)

func openEntry(account string, d timeval.Date) *entity.OpenAccount {
	return &entity.OpenAccount{EntryCommon: entity.EntryCommon{
		AccountRef: entity.AccountRef{Kind: entity.RefReal, Name: account},
		Date:       d,
	}}
}

func closeEntry(account string, d timeval.Date) *entity.CloseAccount {
	return &entity.CloseAccount{EntryCommon: entity.EntryCommon{
		AccountRef: entity.AccountRef{Kind: entity.RefReal, Name: account},
		Date:       d,
	}}
}

func postingOn(t *testing.T, account string, d timeval.Date) *entity.Posting {
	t.Helper()
	p := realPosting(t, account, "1.00", "USD")
	p.Date = d
	return p
}

func txnOf(entries ...entity.JournalEntry) *entity.Transaction {
	return &entity.Transaction{Entries: entries}
}

func TestValidateAccountLifecycleAllowsEntriesWithinWindow(t *testing.T) {
	txns := []*entity.Transaction{
		txnOf(openEntry("wallet", timeval.NewDate(2020, 1, 1))),
		txnOf(postingOn(t, "wallet", timeval.NewDate(2020, 6, 1))),
		txnOf(closeEntry("wallet", timeval.NewDate(2020, 12, 31))),
	}
	assert.Equal(t, 0, len(ValidateAccountLifecycle(txns)))
}

func TestValidateAccountLifecycleRejectsEntryBeforeOpen(t *testing.T) {
	txns := []*entity.Transaction{
		txnOf(postingOn(t, "wallet", timeval.NewDate(2019, 12, 31))),
		txnOf(openEntry("wallet", timeval.NewDate(2020, 1, 1))),
	}
	errs := ValidateAccountLifecycle(txns)
	assert.Equal(t, 1, len(errs))
	le, ok := errs[0].(*LifecycleError)
	assert.True(t, ok)
	assert.Equal(t, "wallet", le.Account)
}

func TestValidateAccountLifecycleRejectsEntryAfterClose(t *testing.T) {
	txns := []*entity.Transaction{
		txnOf(openEntry("wallet", timeval.NewDate(2020, 1, 1))),
		txnOf(closeEntry("wallet", timeval.NewDate(2020, 6, 1))),
		txnOf(postingOn(t, "wallet", timeval.NewDate(2020, 9, 1))),
	}
	errs := ValidateAccountLifecycle(txns)
	assert.Equal(t, 1, len(errs))
	le, ok := errs[0].(*LifecycleError)
	assert.True(t, ok)
	assert.Equal(t, "wallet", le.Account)
}

func TestValidateAccountLifecycleIgnoresAccountsNeverOpenedOrClosed(t *testing.T) {
	txns := []*entity.Transaction{
		txnOf(postingOn(t, "Equity:Opening Balances", timeval.NewDate(2000, 1, 1))),
	}
	assert.Equal(t, 0, len(ValidateAccountLifecycle(txns)))
}
