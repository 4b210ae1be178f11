package synparse

import (
	"strings"

	"github.com/ledgerpipe/ledgerpipe/lexer"
	"github.com/ledgerpipe/ledgerpipe/parsetree"
)

// parseCommodityDef parses a `commodity CODE` header followed by
// four-space-indented `note`/`format` body lines (spec.md §6 example).
func (p *Parser) parseCommodityDef(lines []line) (*parsetree.Node, error) {
	header := lines[0]
	toks, err := p.lexLine(header.content, header.offset)
	if err != nil {
		return nil, err
	}
	if len(toks) != 2 || toks[1].Kind != lexer.IDENT {
		return nil, &ParseFailureError{Filename: p.Filename, Offset: header.offset, Reason: "expected commodity CODE", Offender: header.content}
	}
	children := []*parsetree.Node{leafFromToken(LabelCode, toks[1])}

	for _, l := range lines[1:] {
		if l.indent != 4 {
			return nil, &ParseFailureError{Filename: p.Filename, Offset: l.offset, Reason: "expected a 4-space-indented commodity body line", Offender: l.content}
		}
		node, err := p.parseDefBodyLine(l, "commodity")
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}
	return parsetree.NewComposite(LabelCommodityDef, children), nil
}

// parseAccountDef parses an `account PATH` header followed by
// four-space-indented `alias`/`assert`/`note` body lines (spec.md §6
// example).
func (p *Parser) parseAccountDef(lines []line) (*parsetree.Node, error) {
	header := lines[0]
	rest := strings.TrimSpace(strings.TrimPrefix(header.content, "account"))
	if rest == "" {
		return nil, &ParseFailureError{Filename: p.Filename, Offset: header.offset, Reason: "expected account PATH", Offender: header.content}
	}
	pathOffset := header.offset + (len(header.content) - len(rest))
	children := []*parsetree.Node{
		parsetree.NewLeaf(LabelAccountPath, rest, parsetree.Span{Start: pathOffset, End: pathOffset + len(rest)}),
	}

	for _, l := range lines[1:] {
		if l.indent != 4 {
			return nil, &ParseFailureError{Filename: p.Filename, Offset: l.offset, Reason: "expected a 4-space-indented account body line", Offender: l.content}
		}
		node, err := p.parseDefBodyLine(l, "account")
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}
	return parsetree.NewComposite(LabelAccountDef, children), nil
}

// parseDefBodyLine parses one body line shared by commodity-def and
// account-def: "note ...", "format ..." (commodity only), "alias ..." and
// "assert commodity == \"CODE\"" (account only).
func (p *Parser) parseDefBodyLine(l line, kind string) (*parsetree.Node, error) {
	switch kw := firstWord(l.content); kw {
	case "note":
		rest := strings.TrimSpace(strings.TrimPrefix(l.content, "note"))
		restOffset := l.offset + (len(l.content) - len(rest))
		if key, value, ok := parseKeyValue(rest); ok {
			keyLeaf := parsetree.NewLeaf(LabelCode, key, parsetree.Span{Start: restOffset, End: restOffset + len(key)})
			valueLeaf := parsetree.NewLeaf(LabelString, value, parsetree.Span{Start: restOffset, End: restOffset + len(rest)})
			return parsetree.NewComposite(LabelNoteBody, []*parsetree.Node{
				parsetree.NewComposite(LabelMeta, []*parsetree.Node{keyLeaf, valueLeaf}),
			}), nil
		}
		return parsetree.NewLeaf(LabelNoteBody, rest, parsetree.Span{Start: restOffset, End: restOffset + len(rest)}), nil

	case "format":
		if kind != "commodity" {
			return nil, &ParseFailureError{Filename: p.Filename, Offset: l.offset, Reason: "'format' is only valid in a commodity definition", Offender: l.content}
		}
		rest := strings.TrimSpace(strings.TrimPrefix(l.content, "format"))
		restOffset := l.offset + (len(l.content) - len(rest))
		return parsetree.NewLeaf(LabelFormat, rest, parsetree.Span{Start: restOffset, End: restOffset + len(rest)}), nil

	case "alias":
		if kind != "account" {
			return nil, &ParseFailureError{Filename: p.Filename, Offset: l.offset, Reason: "'alias' is only valid in an account definition", Offender: l.content}
		}
		rest := strings.TrimSpace(strings.TrimPrefix(l.content, "alias"))
		restOffset := l.offset + (len(l.content) - len(rest))
		return parsetree.NewLeaf(LabelAlias, rest, parsetree.Span{Start: restOffset, End: restOffset + len(rest)}), nil

	case "assert":
		if kind != "account" {
			return nil, &ParseFailureError{Filename: p.Filename, Offset: l.offset, Reason: "'assert' is only valid in an account definition", Offender: l.content}
		}
		toks, err := p.lexLine(l.content, l.offset)
		if err != nil {
			return nil, err
		}
		if len(toks) != 5 || toks[1].Text != "commodity" || toks[2].Kind != lexer.EQUALS || toks[3].Kind != lexer.EQUALS || toks[4].Kind != lexer.STRING {
			return nil, &ParseFailureError{Filename: p.Filename, Offset: l.offset, Reason: `expected assert commodity == "CODE"`, Offender: l.content}
		}
		return leafFromToken(LabelAssertCommodity, toks[4]), nil

	default:
		return nil, &ParseFailureError{Filename: p.Filename, Offset: l.offset, Reason: "unrecognized " + kind + " body keyword", Offender: kw}
	}
}
