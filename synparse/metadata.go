package synparse

import (
	"strings"

	"github.com/ledgerpipe/ledgerpipe/lexer"
	"github.com/ledgerpipe/ledgerpipe/parsetree"
)

// parseKeyValue splits s into a single-word key and the remaining value on
// the first ':' when the text before it contains no whitespace. Free-form
// text with no such colon (or with a multi-word head) is not a key:value
// pair at all (spec.md §4.1 MetaEntry / MetaComment).
func parseKeyValue(s string) (key, value string, ok bool) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return "", "", false
	}
	head := s[:idx]
	if head == "" || strings.ContainsAny(head, " \t") {
		return "", "", false
	}
	return head, strings.TrimSpace(s[idx+1:]), true
}

// parseMetaLine parses one ';'-prefixed metadata comment line (content is
// the text after ';', already trimmed of the leading space), per spec.md
// §4.1 MetaEntry/MetaComment/MetaDirective and the `; item: ...` line-item
// shape.
func parseMetaLine(content string, offset int) (*parsetree.Node, error) {
	span := parsetree.Span{Start: offset, End: offset + len(content)}

	if rest, ok := strings.CutPrefix(content, "item:"); ok {
		return parseItemLine(strings.TrimSpace(rest), offset+len(content)-len(rest))
	}

	if len(content) >= 3 && strings.HasPrefix(content, ":") && strings.HasSuffix(content, ":") {
		key := content[1 : len(content)-1]
		return parsetree.NewComposite(LabelMetaTag, []*parsetree.Node{
			parsetree.NewLeaf(LabelCode, key, span),
		}), nil
	}

	if key, value, ok := parseKeyValue(content); ok {
		keyLeaf := parsetree.NewLeaf(LabelCode, key, parsetree.Span{Start: offset, End: offset + len(key)})
		valueLeaf := parsetree.NewLeaf(LabelString, value, span)
		return parsetree.NewComposite(LabelMeta, []*parsetree.Node{keyLeaf, valueLeaf}), nil
	}

	return parsetree.NewLeaf(LabelMetaComment, content, span), nil
}

// parseItemLine parses the body of an `; item: <title>  <amount> [@
// <price-or-percentage>]` line (spec.md §3 Invoice/Item, scenario 5 in §8).
func parseItemLine(rest string, offset int) (*parsetree.Node, error) {
	title, tail := splitOnWideGap(rest)
	titleSpan := parsetree.Span{Start: offset, End: offset + len(title)}
	children := []*parsetree.Node{
		parsetree.NewLeaf(LabelDescription, title, titleSpan),
	}
	if tail == "" {
		return parsetree.NewComposite(LabelItem, children), nil
	}

	tailOffset := offset + (len(rest) - len(tail))
	toks, err := lexer.New([]byte(tail), tailOffset, nil).ScanAll()
	if err != nil {
		return nil, err
	}

	amount, rem, err := parseQuantity(toks)
	if err != nil {
		return nil, err
	}
	children = append(children, amount)

	if len(rem) > 0 && rem[0].Kind == lexer.AT {
		price, rem2, err := parsePriceLike(rem[1:])
		if err != nil {
			return nil, err
		}
		children = append(children, wrapAs(LabelPrice, price))
		rem = rem2
	}
	if len(rem) > 0 {
		return nil, &ParseFailureError{Reason: "unexpected trailing tokens in item line", Offender: rem[0].Text}
	}

	return parsetree.NewComposite(LabelItem, children), nil
}

// wrapAs relabels a node shallowly, used when a sub-grammar (e.g.
// parsePriceLike, which produces a bare quantity/percentage) needs to be
// nested one level under a semantic label (e.g. "this is the item's price").
func wrapAs(label parsetree.Label, n *parsetree.Node) *parsetree.Node {
	return &parsetree.Node{Label: label, Span: n.Span, Children: []*parsetree.Node{n}}
}
