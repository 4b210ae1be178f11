// Package interpret implements the tree-rewriting interpreter of spec.md
// §4.2: it walks the labeled parse tree package synparse produces and
// rewrites it into the typed, tree-form domain entities package entity
// defines. One exported entry point, Interpret, dispatches on a group's
// root label the same way ParseGroup dispatched on its leading keyword.
//
// A fixed sequence of named passes rewrites each group, lifting recognized
// metadata keys into typed fields and leaving everything else in a
// generic residual map.
package interpret

import (
	"fmt"

	"github.com/ledgerpipe/ledgerpipe/parsetree"
	"github.com/ledgerpipe/ledgerpipe/synparse"
	"github.com/ledgerpipe/ledgerpipe/timeval"
)

// Interpreter rewrites parse trees into entities, threading a Config
// through every call (spec.md §9: default zone is explicit configuration,
// never the host's local zone).
type Interpreter struct {
	Config timeval.Config
}

// New creates an Interpreter using cfg for date/time resolution.
func New(cfg timeval.Config) *Interpreter {
	return &Interpreter{Config: cfg}
}

// InterpretFailureError reports that the tree rewrite could not reduce a
// node: an unrecognized label reached the top-level dispatch, or a
// collect-one helper found more than one matching child (spec.md §7
// interpret-failure).
type InterpretFailureError struct {
	Label  parsetree.Label
	Reason string
	Span   parsetree.Span
}

func (e *InterpretFailureError) Error() string {
	return fmt.Sprintf("interpret-failure: %s: %s", e.Label, e.Reason)
}

// Position locates the node that failed to reduce, for package
// ledgererr's text formatter.
func (e *InterpretFailureError) Position() (string, parsetree.Span, bool) {
	return "", e.Span, true
}

// Interpret rewrites one group's parse tree into its entity. Comment
// headers and include directives carry no entity of their own: comments
// are dropped (they exist only for humans reading the source) and
// includes are handled by package loader before parsing ever sees the
// included file's groups, so both return (nil, nil).
func (ip *Interpreter) Interpret(tree *parsetree.Node, source []byte) (any, error) {
	switch tree.Label {
	case synparse.LabelComment, synparse.LabelInclude:
		return nil, nil
	case synparse.LabelCommodityDef:
		return ip.interpretCommodityDef(tree)
	case synparse.LabelAccountDef:
		return ip.interpretAccountDef(tree)
	case synparse.LabelPricePoint:
		return ip.interpretPricePoint(tree)
	case synparse.LabelCommodityConv:
		return ip.interpretCommodityConv(tree)
	case synparse.LabelTransaction:
		return ip.interpretTransaction(tree)
	default:
		return nil, &InterpretFailureError{Label: tree.Label, Reason: "no interpretation rule for this label", Span: tree.Span}
	}
}

func collectOne(n *parsetree.Node, label parsetree.Label) (*parsetree.Node, error) {
	child, err := parsetree.CollectOne(n, label)
	if err != nil {
		return nil, &InterpretFailureError{Label: label, Reason: err.Error(), Span: n.Span}
	}
	return child, nil
}
