package synparse

import (
	"fmt"

	"github.com/ledgerpipe/ledgerpipe/lexer"
	"github.com/ledgerpipe/ledgerpipe/parsetree"
)

func toSpan(s lexer.Span) parsetree.Span {
	return parsetree.Span{Start: s.Start, End: s.End}
}

func leafFromToken(label parsetree.Label, t lexer.Token) *parsetree.Node {
	return parsetree.NewLeaf(label, t.Text, toSpan(t.Span))
}

// parseQuantity recognizes a Quantity per spec.md's Quantity entity (a
// number plus a commodity code), in either "$123.45", "123.45 USD", or
// "USD 123.45" order, or a bare "0" with no commodity (a neutral amount,
// valid wherever a posting's explicit amount can be a literal zero).
// Consumes 1 or 2 tokens and returns the rest.
func parseQuantity(toks []lexer.Token) (*parsetree.Node, []lexer.Token, error) {
	if len(toks) == 0 {
		return nil, toks, fmt.Errorf("synparse: expected a quantity, found end of line")
	}

	switch {
	case toks[0].Kind == lexer.DOLLAR && len(toks) >= 2 && toks[1].Kind == lexer.NUMBER:
		value := leafFromToken(LabelValue, toks[1])
		code := parsetree.NewLeaf(LabelCode, "$", toSpan(toks[0].Span))
		return parsetree.NewComposite(LabelQuantity, []*parsetree.Node{value, code}), toks[2:], nil

	case toks[0].Kind == lexer.NUMBER && len(toks) >= 2 && toks[1].Kind == lexer.IDENT:
		value := leafFromToken(LabelValue, toks[0])
		code := leafFromToken(LabelCode, toks[1])
		return parsetree.NewComposite(LabelQuantity, []*parsetree.Node{value, code}), toks[2:], nil

	case toks[0].Kind == lexer.IDENT && len(toks) >= 2 && toks[1].Kind == lexer.NUMBER:
		code := leafFromToken(LabelCode, toks[0])
		value := leafFromToken(LabelValue, toks[1])
		return parsetree.NewComposite(LabelQuantity, []*parsetree.Node{value, code}), toks[2:], nil

	case toks[0].Kind == lexer.NUMBER && toks[0].Text == "0":
		value := leafFromToken(LabelValue, toks[0])
		return parsetree.NewComposite(LabelQuantity, []*parsetree.Node{value}), toks[1:], nil

	default:
		return nil, toks, fmt.Errorf("synparse: malformed quantity at %q", toks[0].Text)
	}
}

// parsePriceLike recognizes either a Quantity or a Percentage (spec_full.md
// item pricing: "@ 9.6%" for a proportional tax line vs "@ $40.1513" for a
// per-unit price).
func parsePriceLike(toks []lexer.Token) (*parsetree.Node, []lexer.Token, error) {
	if len(toks) >= 2 && toks[0].Kind == lexer.NUMBER && toks[1].Kind == lexer.PERCENT {
		value := leafFromToken(LabelValue, toks[0])
		return parsetree.NewComposite(LabelPercentage, []*parsetree.Node{value}), toks[2:], nil
	}
	return parseQuantity(toks)
}

// parseAccountRef recognizes an account-ref: bare (real), "(...)" (virtual),
// or "[...]" (balanced-virtual) (spec.md §3 Posting "account reference").
// Multi-word account path segments are joined by single spaces and the
// whole path is handed in as a single string by the caller, which has
// already split the posting line on the wide two-space gap that separates
// the account reference from the rest of the posting (spec.md §4.1).
func parseAccountRef(raw string, offset int) (*parsetree.Node, error) {
	kind := "real"
	path := raw
	switch {
	case len(raw) >= 2 && raw[0] == '(' && raw[len(raw)-1] == ')':
		kind = "virtual"
		path = raw[1 : len(raw)-1]
	case len(raw) >= 2 && raw[0] == '[' && raw[len(raw)-1] == ']':
		kind = "balanced-virtual"
		path = raw[1 : len(raw)-1]
	}
	if path == "" {
		return nil, fmt.Errorf("synparse: empty account reference")
	}
	span := parsetree.Span{Start: offset, End: offset + len(raw)}
	kindLeaf := parsetree.NewLeaf(LabelRefKind, kind, span)
	pathLeaf := parsetree.NewLeaf(LabelAccountPath, path, span)
	return parsetree.NewComposite(LabelAccountRef, []*parsetree.Node{kindLeaf, pathLeaf}), nil
}
