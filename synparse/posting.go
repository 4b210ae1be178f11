package synparse

import (
	"github.com/ledgerpipe/ledgerpipe/lexer"
	"github.com/ledgerpipe/ledgerpipe/parsetree"
)

// parsePosting parses one four-space-indented posting line (spec.md §4.1
// Posting production): an account reference, optionally followed by an
// amount, lot-cost, lot-date, per-unit price, and balance assertion.
func parsePosting(l line) (*parsetree.Node, error) {
	code := splitInlineComment(l.content)
	head, tail := splitOnWideGap(code)
	refOffset := l.offset
	ref, err := parseAccountRef(head, refOffset)
	if err != nil {
		return nil, &ParseFailureError{Offset: l.offset, Reason: err.Error(), Offender: l.content}
	}
	children := []*parsetree.Node{ref}

	if tail != "" {
		tailOffset := l.offset + (len(code) - len(tail))
		toks, err := lexer.New([]byte(tail), tailOffset, nil).ScanAll()
		if err != nil {
			return nil, err
		}
		rest := toks

		// An amount is present unless the tail begins with a balance
		// assertion alone (spec.md scenario 2 permits a bare "0" amount
		// immediately before "=", which still parses as an amount).
		if len(rest) > 0 && rest[0].Kind != lexer.EQUALS {
			amount, r, err := parseQuantity(rest)
			if err != nil {
				return nil, &ParseFailureError{Offset: tailOffset, Reason: err.Error(), Offender: tail}
			}
			children = append(children, amount)
			rest = r
		}

		if len(rest) > 0 && rest[0].Kind == lexer.LBRACE {
			cost, r, err := parseCost(rest)
			if err != nil {
				return nil, err
			}
			children = append(children, cost)
			rest = r
		}

		if len(rest) > 0 && (rest[0].Kind == lexer.AT || rest[0].Kind == lexer.ATAT) {
			total := rest[0].Kind == lexer.ATAT
			priceQty, r, err := parseQuantity(rest[1:])
			if err != nil {
				return nil, &ParseFailureError{Offset: tailOffset, Reason: "malformed price after '@'", Offender: tail}
			}
			kind := "per-unit"
			if total {
				kind = "total"
			}
			kindLeaf := parsetree.NewLeaf(LabelRefKind, kind, priceQty.Span)
			children = append(children, parsetree.NewComposite(LabelPrice, []*parsetree.Node{kindLeaf, priceQty}))
			rest = r
		}

		if len(rest) > 0 && rest[0].Kind == lexer.EQUALS {
			balQty, r, err := parseQuantity(rest[1:])
			if err != nil {
				return nil, &ParseFailureError{Offset: tailOffset, Reason: "malformed balance assertion after '='", Offender: tail}
			}
			children = append(children, parsetree.NewComposite(LabelBalanceAssertion, []*parsetree.Node{balQty}))
			rest = r
		}

		if len(rest) > 0 {
			return nil, &ParseFailureError{Offset: tailOffset, Reason: "unexpected trailing tokens in posting", Offender: rest[0].Text}
		}
	}

	return parsetree.NewComposite(LabelPosting, children), nil
}

// parseCost parses "{ quantity } [ [ date ] ]" (lot-cost with an optional
// lot-date), spec.md §4.1 Posting production.
func parseCost(toks []lexer.Token) (*parsetree.Node, []lexer.Token, error) {
	if len(toks) == 0 || toks[0].Kind != lexer.LBRACE {
		return nil, toks, &ParseFailureError{Reason: "expected '{'"}
	}
	rest := toks[1:]
	costAmount, rest, err := parseQuantity(rest)
	if err != nil {
		return nil, toks, err
	}
	if len(rest) == 0 || rest[0].Kind != lexer.RBRACE {
		return nil, toks, &ParseFailureError{Reason: "expected '}' closing lot cost"}
	}
	rest = rest[1:]

	children := []*parsetree.Node{costAmount}

	if len(rest) > 0 && rest[0].Kind == lexer.LBRACKET {
		if len(rest) < 3 || rest[1].Kind != lexer.DATE || rest[2].Kind != lexer.RBRACKET {
			return nil, toks, &ParseFailureError{Reason: "expected '[YYYY-MM-DD]' lot date"}
		}
		children = append(children, leafFromToken(LabelLotDate, rest[1]))
		rest = rest[3:]
	}

	return parsetree.NewComposite(LabelCost, children), rest, nil
}
