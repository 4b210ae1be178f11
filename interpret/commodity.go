package interpret

import (
	"strconv"
	"strings"

	"github.com/ledgerpipe/ledgerpipe/entity"
	"github.com/ledgerpipe/ledgerpipe/parsetree"
	"github.com/ledgerpipe/ledgerpipe/synparse"
)

// interpretCommodityDef rewrites a synparse.LabelCommodityDef tree (a code
// header followed by `note`/`format` body lines) into an entity.Commodity,
// lifting a "note type: ..." body line into AssetType the same way other
// recognized metadata keys get lifted out of a generic map (spec.md §4.2).
func (ip *Interpreter) interpretCommodityDef(tree *parsetree.Node) (*entity.Commodity, error) {
	code, err := collectOne(tree, synparse.LabelCode)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, &InterpretFailureError{Label: tree.Label, Reason: "commodity definition carries no code", Span: tree.Span}
	}

	c := &entity.Commodity{Code: code.Leaf, Source: tree.Span}
	var descLines []string

	for _, body := range parsetree.CollectAll(tree, synparse.LabelNoteBody) {
		if len(body.Children) == 1 && body.Children[0].Label == synparse.LabelMeta {
			key, value := metaKeyValue(body.Children[0])
			switch {
			case strings.EqualFold(key, "type"):
				c.AssetType = entity.AssetType(value)
				continue
			case strings.EqualFold(key, "asset-class"):
				c.AssetClass = parseAllocation(value)
				continue
			case strings.EqualFold(key, "asset-sector"):
				c.AssetSector = parseAllocation(value)
				continue
			}
			descLines = append(descLines, key+": "+value)
			continue
		}
		descLines = append(descLines, body.Leaf)
	}
	c.Description = strings.Join(descLines, "\n")

	if format, err := collectOne(tree, synparse.LabelFormat); err != nil {
		return nil, err
	} else if format != nil {
		c.CurrencySymbol, c.Precision = parseFormatSpec(format.Leaf)
	}

	return c, nil
}

// parseAllocation reads a "note asset-class: ..." / "note asset-sector: ..."
// body value into an entity.Allocation: either a single keyword, or a
// comma-separated "key=weight" map (spec.md §3: "one keyword or
// probability map summing to 1 over a closed class set"). A malformed
// "key=weight" segment is dropped rather than failing the whole
// commodity definition; entity.Allocation.Validate catches the result if
// it no longer sums to 1.
func parseAllocation(value string) entity.Allocation {
	value = strings.TrimSpace(value)
	if !strings.Contains(value, "=") {
		return entity.Allocation{Keyword: value}
	}
	weights := map[string]float64{}
	for _, part := range strings.Split(value, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			continue
		}
		weights[strings.TrimSpace(kv[0])] = w
	}
	return entity.Allocation{Weights: weights}
}

func metaKeyValue(n *parsetree.Node) (key, value string) {
	if len(n.Children) != 2 {
		return "", ""
	}
	return n.Children[0].Leaf, n.Children[1].Leaf
}
