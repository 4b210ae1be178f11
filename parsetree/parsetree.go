// Package parsetree implements the generic labeled parse tree that the
// grammar (package synparse) produces and the tree interpreter (package
// interpret) consumes, per spec.md §4.1: "A labeled tree: (Label,
// children), where children is either a sequence of sub-nodes or a single
// leaf token."
//
// Every subtree records its byte span in the original source so higher
// layers can attach a source snippet to emitted entities (spec.md §4.1).
package parsetree

import "fmt"

// Label identifies the grammar production (or terminal token kind) a Node
// was built from, e.g. "transaction", "posting", "account-path", "tag".
type Label string

// Span is a byte range [Start, End) in the original source text.
type Span struct {
	Start, End int
}

// Text extracts the span's source text as a new string.
func (s Span) Text(source []byte) string {
	if s.Start < 0 || s.End < s.Start || s.End > len(source) {
		return ""
	}
	return string(source[s.Start:s.End])
}

// Node is one labeled subtree. A leaf node has no Children and carries its
// token text in Leaf; a composite node has one or more Children and an
// empty Leaf.
type Node struct {
	Label    Label
	Span     Span
	Leaf     string
	Children []*Node
}

// NewLeaf builds a terminal node.
func NewLeaf(label Label, text string, span Span) *Node {
	return &Node{Label: label, Leaf: text, Span: span}
}

// NewComposite builds a composite node from its children, deriving its span
// from the first and last child when not already set.
func NewComposite(label Label, children []*Node) *Node {
	n := &Node{Label: label, Children: children}
	if len(children) > 0 {
		n.Span = Span{Start: children[0].Span.Start, End: children[len(children)-1].Span.End}
	}
	return n
}

// IsLeaf reports whether n is a terminal node.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 && n.Leaf != "" }

// Text returns the node's own leaf text, or the concatenation of its
// source span when it is composite (used for diagnostics).
func (n *Node) Text(source []byte) string {
	if n.IsLeaf() {
		return n.Leaf
	}
	return n.Span.Text(source)
}

// CollectOneError is returned by CollectOne when more than one child
// carries the requested label (spec.md §4.2: "error if >1").
type CollectOneError struct {
	Label Label
	Count int
	Span  Span
}

func (e *CollectOneError) Error() string {
	return fmt.Sprintf("interpret: expected at most one child labeled %q, found %d", e.Label, e.Count)
}

// CollectOne returns the unique child of n with the given label, or nil if
// none exists. Returns a *CollectOneError if more than one exists.
func CollectOne(n *Node, label Label) (*Node, error) {
	var found *Node
	count := 0
	for _, c := range n.Children {
		if c.Label == label {
			count++
			if found == nil {
				found = c
			}
		}
	}
	if count > 1 {
		return nil, &CollectOneError{Label: label, Count: count, Span: n.Span}
	}
	return found, nil
}

// CollectAll returns every child of n with the given label, in order.
func CollectAll(n *Node, label Label) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Label == label {
			out = append(out, c)
		}
	}
	return out
}

// CollectSet returns every child of n with the given label, deduplicated by
// leaf text (spec.md §4.2: "the above, deduplicated").
func CollectSet(n *Node, label Label) []*Node {
	all := CollectAll(n, label)
	seen := make(map[string]bool, len(all))
	out := make([]*Node, 0, len(all))
	for _, c := range all {
		key := c.Leaf
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// MalformedMapEntryError is returned by CollectMap when an entry node does
// not carry exactly two children (key, value).
type MalformedMapEntryError struct {
	Label Label
	Span  Span
}

func (e *MalformedMapEntryError) Error() string {
	return fmt.Sprintf("interpret: malformed map entry under label %q", e.Label)
}

// CollectMap gathers children of n with the given label, each expected to
// have exactly two children (key, value leaves), and merges them into a
// mapping in encounter order (later keys overwrite earlier ones). Returns
// an error on malformed shapes (spec.md §4.2 collect-map: "error on
// malformed shapes").
func CollectMap(n *Node, label Label) (map[string]string, error) {
	out := make(map[string]string)
	for _, c := range CollectAll(n, label) {
		if len(c.Children) != 2 {
			return nil, &MalformedMapEntryError{Label: label, Span: c.Span}
		}
		out[c.Children[0].Text(nil)] = c.Children[1].Text(nil)
	}
	return out, nil
}

// Walk calls fn for n and every descendant, depth-first pre-order.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
