package ledgererr

import (
	"fmt"
	"strings"
)

// Errors aggregates recoverable per-entry failures (spec.md §7 propagation
// policy: "recoverable-per-entry errors ... are reported against that
// entry and parsing continues up to an embedder-chosen error budget").
// Max bounds how many errors Add accepts; 0 means unbounded.
//
// Add reports whether the caller should keep feeding it further errors.
type Errors struct {
	Errs []error
	Max  int
}

// Add appends err to the aggregate. A nil err is a no-op that reports true.
// It reports false when the budget is already exhausted or this err used up
// its last slot, signaling the caller to stop feeding it further errors
// from the current group.
func (e *Errors) Add(err error) bool {
	if err == nil {
		return true
	}
	if e.Max > 0 && len(e.Errs) >= e.Max {
		return false
	}
	e.Errs = append(e.Errs, err)
	return e.Max == 0 || len(e.Errs) < e.Max
}

// HasErrors reports whether any error was collected.
func (e *Errors) HasErrors() bool { return len(e.Errs) > 0 }

// Error renders every collected error, in order. When there is more than
// one, a trailing count follows; a single error is rendered alone.
func (e *Errors) Error() string {
	if len(e.Errs) == 1 {
		return e.Errs[0].Error()
	}
	var buf strings.Builder
	for i, err := range e.Errs {
		if i > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(err.Error())
	}
	fmt.Fprintf(&buf, "\n\n%d error(s) found", len(e.Errs))
	return buf.String()
}

// Unwrap exposes the collected errors for errors.Is/errors.As traversal.
func (e *Errors) Unwrap() []error { return e.Errs }

// Warnings aggregates non-fatal diagnostics (spec.md §7: "Warnings are
// surfaced but do not stop processing"). Unlike Errors it carries no
// budget — warnings never gate further processing.
type Warnings struct {
	Warns []error
}

// Add appends warn if non-nil.
func (w *Warnings) Add(warn error) {
	if warn != nil {
		w.Warns = append(w.Warns, warn)
	}
}

// HasWarnings reports whether any warning was collected.
func (w *Warnings) HasWarnings() bool { return len(w.Warns) > 0 }

// Error renders every collected warning, one per line.
func (w *Warnings) Error() string {
	lines := make([]string, len(w.Warns))
	for i, warn := range w.Warns {
		lines[i] = warn.Error()
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes the collected warnings for errors.Is/errors.As traversal.
func (w *Warnings) Unwrap() []error { return w.Warns }
