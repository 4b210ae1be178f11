package ledger

import (
	"fmt"

	"github.com/ledgerpipe/ledgerpipe/entity"
	"github.com/ledgerpipe/ledgerpipe/timeval"
)

// LifecycleError reports a journal entry dated outside the account it
// references' open/close window (spec.md §1 names account-open/close
// ordering as one of the three cross-entity invariants the semantic
// validation layer checks).
type LifecycleError struct {
	Account string
	Date    timeval.Date
	Reason  string
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("account-lifecycle: %s on %s: %s", e.Account, e.Date.String(), e.Reason)
}

// lifecycleWindow is the [open, close] date window an account's
// OpenAccount/CloseAccount entries establish. An account never opened or
// closed carries no window and is never checked.
type lifecycleWindow struct {
	opened bool
	open   timeval.Date
	closed bool
	close  timeval.Date
}

// ValidateAccountLifecycle checks that no entry in txns references an
// account before its open date or after its close date. Only the first
// open and first close seen per account establish the window; a later
// re-open or re-close is ignored rather than treated as an error, since
// spec.md does not define re-opening semantics.
//
// txns is walked twice: once to collect every account's window, once to
// check every entry against it, so an account's close date anywhere in
// the journal constrains entries that precede it in declaration order.
func ValidateAccountLifecycle(txns []*entity.Transaction) []error {
	windows := map[string]*lifecycleWindow{}
	windowFor := func(name string) *lifecycleWindow {
		w := windows[name]
		if w == nil {
			w = &lifecycleWindow{}
			windows[name] = w
		}
		return w
	}

	for _, txn := range txns {
		for _, e := range txn.Entries {
			common := e.Common()
			switch e.(type) {
			case *entity.OpenAccount:
				w := windowFor(common.AccountRef.Name)
				if !w.opened {
					w.opened = true
					w.open = common.Date
				}
			case *entity.CloseAccount:
				w := windowFor(common.AccountRef.Name)
				if !w.closed {
					w.closed = true
					w.close = common.Date
				}
			}
		}
	}

	var errs []error
	for _, txn := range txns {
		for _, e := range txn.Entries {
			switch e.(type) {
			case *entity.OpenAccount, *entity.CloseAccount:
				continue
			}
			common := e.Common()
			w := windows[common.AccountRef.Name]
			if w == nil {
				continue
			}
			if w.opened && common.Date.Before(w.open) {
				errs = append(errs, &LifecycleError{
					Account: common.AccountRef.Name,
					Date:    common.Date,
					Reason:  fmt.Sprintf("entry dated before account opened on %s", w.open.String()),
				})
			}
			if w.closed && common.Date.After(w.close) {
				errs = append(errs, &LifecycleError{
					Account: common.AccountRef.Name,
					Date:    common.Date,
					Reason:  fmt.Sprintf("entry dated after account closed on %s", w.close.String()),
				})
			}
		}
	}
	return errs
}
