// Package groupsplit implements the byte-level preprocessor of spec.md
// §4.7: it turns raw Ledger source into the sequence of blank-line-
// delimited groups the grammar parses one at a time. This is the only
// place in the pipeline where line-oriented structure is observed — the
// grammar itself is whitespace-aware (indentation-sensitive) but not
// blank-line-driven.
package groupsplit

import "strings"

// Group is one blank-line-delimited run of source text, re-emitted with
// internal newlines preserved and a trailing newline appended, along with
// the byte offset of its first line within the original source.
type Group struct {
	Text   string
	Offset int
}

// Split splits source on runs of blank lines (lines containing only
// whitespace), discarding the blank runs, and returns the surviving
// non-blank groups in order.
func Split(source []byte) []Group {
	var groups []Group

	lines := strings.Split(string(source), "\n")
	var current strings.Builder
	groupStart := -1
	lineOffset := 0

	flush := func() {
		if current.Len() > 0 {
			groups = append(groups, Group{Text: current.String(), Offset: groupStart})
			current.Reset()
		}
		groupStart = -1
	}

	for i, line := range lines {
		isLast := i == len(lines)-1
		lineLen := len(line)
		if !isLast {
			lineLen++ // account for the '\n' split away
		}

		if isBlank(line) {
			flush()
		} else {
			if groupStart == -1 {
				groupStart = lineOffset
			}
			current.WriteString(line)
			current.WriteByte('\n')
		}

		lineOffset += lineLen
	}
	flush()

	return groups
}

func isBlank(line string) bool {
	for _, r := range line {
		if r != ' ' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}
