package interpret

import (
	"strings"

	"github.com/ledgerpipe/ledgerpipe/entity"
	"github.com/ledgerpipe/ledgerpipe/parsetree"
	"github.com/ledgerpipe/ledgerpipe/quantity"
	"github.com/ledgerpipe/ledgerpipe/synparse"
)

// interpretAccountDef rewrites a synparse.LabelAccountDef tree (a path
// header followed by `alias`/`assert`/`note` body lines) into an
// entity.Account. Account identity (book-id, stable-id) is left for
// normalization to assign (spec.md §4.5).
func (ip *Interpreter) interpretAccountDef(tree *parsetree.Node) (*entity.Account, error) {
	pathNode, err := collectOne(tree, synparse.LabelAccountPath)
	if err != nil {
		return nil, err
	}
	if pathNode == nil {
		return nil, &InterpretFailureError{Label: tree.Label, Reason: "account definition carries no path", Span: tree.Span}
	}

	a := &entity.Account{Path: strings.Split(pathNode.Leaf, ":"), Source: tree.Span}
	var descLines []string

	for _, body := range parsetree.CollectAll(tree, synparse.LabelNoteBody) {
		if len(body.Children) == 1 && body.Children[0].Label == synparse.LabelMeta {
			key, value := metaKeyValue(body.Children[0])
			if strings.EqualFold(key, "type") {
				a.Type = entity.AccountType(value)
				continue
			}
			descLines = append(descLines, key+": "+value)
			continue
		}
		descLines = append(descLines, body.Leaf)
	}
	a.Description = strings.Join(descLines, "\n")

	if alias, err := collectOne(tree, synparse.LabelAlias); err != nil {
		return nil, err
	} else if alias != nil {
		a.Alias = alias.Leaf
	}

	asserts := parsetree.CollectAll(tree, synparse.LabelAssertCommodity)
	if len(asserts) > 0 {
		a.AllowedCommodities = make(map[string]bool, len(asserts))
		for _, assertion := range asserts {
			a.AllowedCommodities[quantity.CanonicalCommodityCode(assertion.Leaf)] = true
		}
	}

	return a, nil
}
