package synparse

import (
	"fmt"

	"github.com/ledgerpipe/ledgerpipe/parsetree"
)

// ParseFailureError reports that the grammar did not match a group: an
// empty parse set (spec.md §4.1, §7 parse-failure).
type ParseFailureError struct {
	Filename string
	Offset   int
	Line     int
	Reason   string
	Offender string
}

func (e *ParseFailureError) Error() string {
	loc := fmt.Sprintf("%s:%d", e.Filename, e.Line)
	if e.Filename == "" {
		loc = fmt.Sprintf("offset %d", e.Offset)
	}
	return fmt.Sprintf("%s: parse-failure: %s: %q", loc, e.Reason, e.Offender)
}

// Position locates the failing group's offending text within its source,
// for package ledgererr's text formatter.
func (e *ParseFailureError) Position() (string, parsetree.Span, bool) {
	return e.Filename, parsetree.Span{Start: e.Offset, End: e.Offset + len(e.Offender)}, true
}

// ParseAmbiguityError reports that a group matched more than one grammar
// production (spec.md §4.1 "Ambiguity policy", §7 parse-ambiguity).
type ParseAmbiguityError struct {
	Filename string
	Offset   int
	Matches  []parsetree.Label
}

func (e *ParseAmbiguityError) Error() string {
	return fmt.Sprintf("%s: parse-ambiguity: group matched %d productions: %v", e.Filename, len(e.Matches), e.Matches)
}

// Position locates the ambiguous group's start within its source.
func (e *ParseAmbiguityError) Position() (string, parsetree.Span, bool) {
	return e.Filename, parsetree.Span{Start: e.Offset, End: e.Offset}, true
}

// DetectAmbiguity enforces the grammar's ambiguity policy (spec.md §4.1:
// "The grammar MUST yield exactly one parse for any well-formed input;
// multiple parses are treated as a parser bug"). ParseGroup's production
// dispatch is by construction LL(1) on the group's leading keyword, so no
// real input can reach more than one successful match; this entry point
// exists so the policy itself — not just the keyword dispatch that happens
// to satisfy it today — is directly testable, and so a future grammar
// extension that loosens the dispatch has something to call.
func DetectAmbiguity(filename string, offset int, matches []parsetree.Label) error {
	if len(matches) <= 1 {
		return nil
	}
	return &ParseAmbiguityError{Filename: filename, Offset: offset, Matches: matches}
}
