// Package synparse implements the grammar of spec.md §4.1: a deterministic,
// indentation-sensitive recursive-descent parser that turns one blank-line
// delimited group (package groupsplit) into a generic labeled parse tree
// (package parsetree). The tree interpreter (package interpret) consumes
// the result.
//
// A hand-rolled recursive-descent parser: one top-level keyword dispatch
// per group, manual token lookahead, no parser-generator dependency. It
// builds the generic (Label, children) tree spec.md §4.1 requires rather
// than parsing straight into a typed AST, deferring typing to package
// interpret.
package synparse

import (
	"strings"

	"github.com/ledgerpipe/ledgerpipe/groupsplit"
	"github.com/ledgerpipe/ledgerpipe/lexer"
	"github.com/ledgerpipe/ledgerpipe/parsetree"
)

// Parser parses groups of one file's worth of source text.
type Parser struct {
	Filename string
}

// New creates a Parser that will attribute errors to filename.
func New(filename string) *Parser {
	return &Parser{Filename: filename}
}

// ParseGroup parses a single group into a parse tree, dispatching on the
// group's first line (spec.md §4.1: "LedgerEntries* produces one of:
// comment header, comment block, include directive, account definition,
// commodity definition, commodity conversion, commodity price,
// transaction").
func (p *Parser) ParseGroup(g groupsplit.Group) (*parsetree.Node, error) {
	lines := splitLines(g.Text, g.Offset)
	if len(lines) == 0 {
		return nil, &ParseFailureError{Filename: p.Filename, Offset: g.Offset, Reason: "empty group"}
	}
	header := lines[0]
	if header.indent != 0 {
		return nil, &ParseFailureError{Filename: p.Filename, Offset: header.offset, Reason: "unexpected indent on group's first line", Offender: header.content}
	}

	switch first := firstWord(header.content); {
	case strings.HasPrefix(header.content, ";"):
		return p.parseComment(lines)
	case first == "include":
		return p.parseInclude(header)
	case first == "commodity":
		return p.parseCommodityDef(lines)
	case first == "account":
		return p.parseAccountDef(lines)
	case first == "P":
		return p.parsePricePoint(header)
	case first == "convert":
		return p.parseCommodityConversion(header)
	case looksLikeDate(first):
		return p.parseTransaction(lines)
	default:
		return nil, &ParseFailureError{Filename: p.Filename, Offset: header.offset, Reason: "no grammar production matches this group", Offender: first}
	}
}

func looksLikeDate(word string) bool {
	return len(word) == 10 && word[4] == '-' && word[7] == '-'
}

func (p *Parser) lexLine(content string, offset int) ([]lexer.Token, error) {
	return lexer.New([]byte(content), offset, nil).ScanAll()
}

// parseComment collapses a run of ';'-prefixed lines at the top of a group
// into a single comment node (spec.md §4.1 "comment header, comment
// block").
func (p *Parser) parseComment(lines []line) (*parsetree.Node, error) {
	var text []string
	for _, l := range lines {
		if !strings.HasPrefix(l.content, ";") {
			return nil, &ParseFailureError{Filename: p.Filename, Offset: l.offset, Reason: "expected a comment line", Offender: l.content}
		}
		text = append(text, strings.TrimSpace(strings.TrimPrefix(l.content, ";")))
	}
	span := parsetree.Span{Start: lines[0].offset, End: lines[len(lines)-1].offset + len(lines[len(lines)-1].content)}
	return parsetree.NewLeaf(LabelComment, strings.Join(text, "\n"), span), nil
}

// parseInclude parses `include "path/to/file.ledger"`.
func (p *Parser) parseInclude(header line) (*parsetree.Node, error) {
	toks, err := p.lexLine(header.content, header.offset)
	if err != nil {
		return nil, err
	}
	if len(toks) != 2 || toks[1].Kind != lexer.STRING {
		return nil, &ParseFailureError{Filename: p.Filename, Offset: header.offset, Reason: "expected include \"path\"", Offender: header.content}
	}
	return parsetree.NewComposite(LabelInclude, []*parsetree.Node{
		leafFromToken(LabelFilename, toks[1]),
	}), nil
}

// parsePricePoint parses `P DATE [TIME] [ZONE] CODE QUANTITY` (spec.md §6
// example: "P 2016-05-20 17:05:30 TSLA $220.28").
func (p *Parser) parsePricePoint(header line) (*parsetree.Node, error) {
	toks, err := p.lexLine(header.content, header.offset)
	if err != nil {
		return nil, err
	}
	if len(toks) < 3 || toks[0].Kind != lexer.IDENT || toks[0].Text != "P" || toks[1].Kind != lexer.DATE {
		return nil, &ParseFailureError{Filename: p.Filename, Offset: header.offset, Reason: "expected P DATE [TIME] CODE QUANTITY", Offender: header.content}
	}
	children := []*parsetree.Node{leafFromToken(LabelDate, toks[1])}
	pos := 2
	if pos < len(toks) && toks[pos].Kind == lexer.TIME {
		children = append(children, leafFromToken(LabelTime, toks[pos]))
		pos++
	}
	if pos < len(toks) && toks[pos].Kind == lexer.ZONE {
		children = append(children, leafFromToken(LabelZone, toks[pos]))
		pos++
	}
	if pos >= len(toks) || toks[pos].Kind != lexer.IDENT {
		return nil, &ParseFailureError{Filename: p.Filename, Offset: header.offset, Reason: "expected a commodity code", Offender: header.content}
	}
	children = append(children, leafFromToken(LabelCode, toks[pos]))
	pos++

	qty, rest, err := parseQuantity(toks[pos:])
	if err != nil {
		return nil, &ParseFailureError{Filename: p.Filename, Offset: header.offset, Reason: err.Error(), Offender: header.content}
	}
	if len(rest) != 0 {
		return nil, &ParseFailureError{Filename: p.Filename, Offset: header.offset, Reason: "unexpected trailing tokens", Offender: rest[0].Text}
	}
	children = append(children, qty)
	return parsetree.NewComposite(LabelPricePoint, children), nil
}

// parseCommodityConversion parses `convert FROM TO RATE`, recording a
// currency conversion rate (spec.md §4.1 "commodity conversion").
func (p *Parser) parseCommodityConversion(header line) (*parsetree.Node, error) {
	toks, err := p.lexLine(header.content, header.offset)
	if err != nil {
		return nil, err
	}
	if len(toks) != 4 || toks[1].Kind != lexer.IDENT || toks[2].Kind != lexer.IDENT || toks[3].Kind != lexer.NUMBER {
		return nil, &ParseFailureError{Filename: p.Filename, Offset: header.offset, Reason: "expected convert FROM TO RATE", Offender: header.content}
	}
	return parsetree.NewComposite(LabelCommodityConv, []*parsetree.Node{
		leafFromToken(LabelCode, toks[1]),
		leafFromToken(LabelToCode, toks[2]),
		leafFromToken(LabelRate, toks[3]),
	}), nil
}
