package synparse

import (
	"strings"

	"github.com/ledgerpipe/ledgerpipe/parsetree"
)

// parseDescription pulls `#tag` and `^link` tokens out of a transaction's
// free-text title (spec.md §3 Transaction "optional tags, optional links"),
// returning the title with those tokens removed and whitespace collapsed,
// plus tag and link leaf nodes in source order.
//
// This scans the raw text rather than running it through the lexer: the
// lexer is tuned for the structured fields (dates, quantities, account
// paths) and would mangle ordinary punctuation like a bare hyphen in a
// title ("SCHH - Sell") by trying to read it as a signed number.
func parseDescription(s string, offset int) (title string, tags, links []*parsetree.Node) {
	var titleWords []string
	i := 0
	for i < len(s) {
		switch {
		case s[i] == '#' || s[i] == '^':
			sigil := s[i]
			j := i + 1
			for j < len(s) && !isSpace(s[j]) {
				j++
			}
			if j > i+1 {
				word := s[i+1 : j]
				span := parsetree.Span{Start: offset + i + 1, End: offset + j}
				if sigil == '#' {
					tags = append(tags, parsetree.NewLeaf(LabelTag, word, span))
				} else {
					links = append(links, parsetree.NewLeaf(LabelLink, word, span))
				}
				i = j
				continue
			}
			titleWords = append(titleWords, s[i:i+1])
			i++
		default:
			j := i
			for j < len(s) && !isSpace(s[j]) {
				j++
			}
			titleWords = append(titleWords, s[i:j])
			i = j
		}
		for i < len(s) && isSpace(s[i]) {
			i++
		}
	}
	return strings.Join(titleWords, " "), tags, links
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }
