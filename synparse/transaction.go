package synparse

import (
	"strings"

	"github.com/ledgerpipe/ledgerpipe/lexer"
	"github.com/ledgerpipe/ledgerpipe/parsetree"
)

// parseTransaction parses a dated block: a header line ("DATE [FLAG]
// TITLE [#tag...] [^link...]") followed by four-space-indented entries
// (postings, open/close/note markers, transaction-level metadata comments)
// and their eight-space-indented per-posting metadata (spec.md §3
// Transaction, §6 example).
func (p *Parser) parseTransaction(lines []line) (*parsetree.Node, error) {
	header := lines[0]
	children, err := p.parseTransactionHeader(header)
	if err != nil {
		return nil, err
	}

	var lastEntry *parsetree.Node
	for i := 1; i < len(lines); i++ {
		l := lines[i]
		switch l.indent {
		case 4:
			entry, err := p.parseTransactionBodyLine(l)
			if err != nil {
				return nil, err
			}
			children = append(children, entry)
			lastEntry = entry
		case 8:
			if lastEntry == nil || lastEntry.Label != LabelPosting {
				return nil, &ParseFailureError{Filename: p.Filename, Offset: l.offset, Reason: "posting-detail metadata with no preceding posting", Offender: l.content}
			}
			meta, err := p.parsePostingDetailLine(l)
			if err != nil {
				return nil, err
			}
			lastEntry.Children = append(lastEntry.Children, meta)
		default:
			return nil, &ParseFailureError{Filename: p.Filename, Offset: l.offset, Reason: "unexpected indentation inside transaction", Offender: l.content}
		}
	}

	return parsetree.NewComposite(LabelTransaction, children), nil
}

func (p *Parser) parseTransactionHeader(header line) ([]*parsetree.Node, error) {
	toks, err := p.lexLine(header.content, header.offset)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 || toks[0].Kind != lexer.DATE {
		return nil, &ParseFailureError{Filename: p.Filename, Offset: header.offset, Reason: "expected DATE [FLAG] TITLE", Offender: header.content}
	}
	children := []*parsetree.Node{leafFromToken(LabelDate, toks[0])}

	restStart := toks[0].Span.End
	pos := 1
	if pos < len(toks) && (toks[pos].Kind == lexer.ASTERISK || toks[pos].Kind == lexer.EXCLAIM) {
		flag := "cleared"
		if toks[pos].Kind == lexer.EXCLAIM {
			flag = "pending"
		}
		children = append(children, parsetree.NewLeaf(LabelFlag, flag, toSpan(toks[pos].Span)))
		restStart = toks[pos].Span.End
		pos++
	}

	localStart := restStart - header.offset
	afterFlag := header.content[localStart:]
	trimmed := strings.TrimLeft(afterFlag, " ")
	descOffset := restStart + (len(afterFlag) - len(trimmed))
	descText := strings.TrimRight(trimmed, " ")
	title, tags, links := parseDescription(descText, descOffset)
	if title != "" {
		children = append(children, parsetree.NewLeaf(LabelDescription, title, parsetree.Span{Start: descOffset, End: descOffset + len(descText)}))
	}
	children = append(children, tags...)
	children = append(children, links...)

	return children, nil
}

// parseTransactionBodyLine parses one four-space-indented line under a
// transaction header: a metadata comment, an open/close/note entry marker,
// or a posting.
func (p *Parser) parseTransactionBodyLine(l line) (*parsetree.Node, error) {
	if strings.HasPrefix(l.content, ";") {
		return parseMetaLine(strings.TrimSpace(strings.TrimPrefix(l.content, ";")), l.offset+1)
	}

	switch firstWord(l.content) {
	case "open":
		return p.parseOpenOrCloseEntry(l, LabelOpenEntry, "open")
	case "close":
		return p.parseOpenOrCloseEntry(l, LabelCloseEntry, "close")
	case "note":
		return p.parseNoteEntry(l)
	default:
		return parsePosting(l)
	}
}

func (p *Parser) parseOpenOrCloseEntry(l line, label parsetree.Label, keyword string) (*parsetree.Node, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(l.content, keyword))
	head, tail := splitOnWideGap(rest)
	refOffset := l.offset + (len(l.content) - len(rest))
	ref, err := parseAccountRef(head, refOffset)
	if err != nil {
		return nil, &ParseFailureError{Filename: p.Filename, Offset: l.offset, Reason: err.Error(), Offender: l.content}
	}
	children := []*parsetree.Node{ref}

	if tail != "" {
		tailOffset := refOffset + (len(rest) - len(tail))
		toks, err := p.lexLine(tail, tailOffset)
		if err != nil {
			return nil, err
		}
		for _, t := range toks {
			if t.Kind != lexer.IDENT {
				return nil, &ParseFailureError{Filename: p.Filename, Offset: l.offset, Reason: "expected a commodity code list", Offender: t.Text}
			}
			children = append(children, leafFromToken(LabelCode, t))
		}
	}
	return parsetree.NewComposite(label, children), nil
}

func (p *Parser) parseNoteEntry(l line) (*parsetree.Node, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(l.content, "note"))
	head, tail := splitOnWideGap(rest)
	refOffset := l.offset + (len(l.content) - len(rest))
	ref, err := parseAccountRef(head, refOffset)
	if err != nil {
		return nil, &ParseFailureError{Filename: p.Filename, Offset: l.offset, Reason: err.Error(), Offender: l.content}
	}
	children := []*parsetree.Node{ref}
	if tail != "" {
		tailOffset := refOffset + (len(rest) - len(tail))
		children = append(children, parsetree.NewLeaf(LabelDescription, tail, parsetree.Span{Start: tailOffset, End: tailOffset + len(tail)}))
	}
	return parsetree.NewComposite(LabelNoteEntry, children), nil
}

// parsePostingDetailLine parses one eight-space-indented ';' metadata line
// attached to the immediately preceding posting.
func (p *Parser) parsePostingDetailLine(l line) (*parsetree.Node, error) {
	if !strings.HasPrefix(l.content, ";") {
		return nil, &ParseFailureError{Filename: p.Filename, Offset: l.offset, Reason: "expected ';' posting-detail metadata", Offender: l.content}
	}
	return parseMetaLine(strings.TrimSpace(strings.TrimPrefix(l.content, ";")), l.offset+1)
}
