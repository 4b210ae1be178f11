package synparse

import "strings"

// line is one physical line of a group, with its leading-space indent
// measured and stripped, and its byte offset (of content[0]) within the
// original source recorded for span tracking.
type line struct {
	indent  int
	content string
	offset  int
}

// splitLines breaks a group's text into lines, measuring each line's
// leading-space indent (spec.md §4.1: the grammar is indentation-sensitive).
// Tabs are not used for indentation anywhere in the corpus this grammar
// targets; a leading tab is treated as a single non-space byte and simply
// becomes part of indent 0's content, which a downstream production will
// reject as malformed.
func splitLines(text string, base int) []line {
	var out []line
	offset := base
	for _, raw := range strings.Split(text, "\n") {
		lineLen := len(raw) + 1 // account for the '\n' split away
		trimmed := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(trimmed) != "" {
			indent := 0
			for indent < len(trimmed) && trimmed[indent] == ' ' {
				indent++
			}
			out = append(out, line{
				indent:  indent,
				content: trimmed[indent:],
				offset:  offset + indent,
			})
		}
		offset += lineLen
	}
	return out
}

// firstWord returns the leading run of non-space bytes in s.
func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

// splitOnWideGap splits s on the first run of two or more spaces, the
// convention this grammar borrows from real-world Ledger/hledger to
// disambiguate a multi-word account path from the amount that follows it
// (spec.md §4.1 notes account segments may be "whitespace-joined multiword
// tokens", which collides with single-space word separation otherwise).
// Returns the whole trimmed string and "" if no such gap exists.
func splitOnWideGap(s string) (head, tail string) {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == ' ' && s[i+1] == ' ' {
			j := i
			for j < len(s) && s[j] == ' ' {
				j++
			}
			return strings.TrimRight(s[:i], " "), strings.TrimSpace(s[j:])
		}
	}
	return strings.TrimSpace(s), ""
}

// splitInlineComment strips a trailing "; ..." inline comment from a line
// that is not itself a metadata comment line, returning the code before it.
// A ';' inside a quoted string is not treated as a comment start.
func splitInlineComment(s string) string {
	inString := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inString = !inString
		case ';':
			if !inString {
				return strings.TrimRight(s[:i], " ")
			}
		}
	}
	return s
}
