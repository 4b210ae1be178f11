package interpret

import (
	"strings"

	"github.com/ledgerpipe/ledgerpipe/entity"
	"github.com/ledgerpipe/ledgerpipe/parsetree"
	"github.com/ledgerpipe/ledgerpipe/quantity"
	"github.com/ledgerpipe/ledgerpipe/synparse"
	"github.com/ledgerpipe/ledgerpipe/timeval"
)

func accountRefFromNode(n *parsetree.Node) (entity.AccountRef, error) {
	kind, err := collectOne(n, synparse.LabelRefKind)
	if err != nil {
		return entity.AccountRef{}, err
	}
	path, err := collectOne(n, synparse.LabelAccountPath)
	if err != nil {
		return entity.AccountRef{}, err
	}
	if kind == nil || path == nil {
		return entity.AccountRef{}, &InterpretFailureError{Label: n.Label, Reason: "account reference missing kind or path", Span: n.Span}
	}
	var rk entity.RefKind
	switch kind.Leaf {
	case "virtual":
		rk = entity.RefVirtual
	case "balanced-virtual":
		rk = entity.RefBalancedVirtual
	default:
		rk = entity.RefReal
	}
	return entity.AccountRef{Kind: rk, Name: path.Leaf}, nil
}

// liftedMeta is the result of walking a node's LabelMeta/LabelMetaTag
// children: recognized keys are pulled into named fields (spec.md §4.2
// "lifts recognized metadata tags ... into first-class fields"), the rest
// survive in Residual so nothing is silently dropped.
type liftedMeta struct {
	Payee      string
	ExternalID string
	Weight     *quantity.Quantity
	TimeOfDay  string // raw "HH:MM[:SS]" text from a "time:" entry, if present
	Residual   map[string]string
}

// liftMeta classifies the direct LabelMeta/LabelMetaTag/LabelMetaComment
// children of n (posting-detail or transaction-level metadata lines) and
// returns the lifted fields plus any free-text comment lines to be joined
// into the entry's Description.
func liftMeta(n *parsetree.Node) (liftedMeta, []string, error) {
	lm := liftedMeta{Residual: map[string]string{}}
	var commentLines []string

	for _, child := range n.Children {
		switch child.Label {
		case synparse.LabelMeta:
			key, value := metaKeyValue(child)
			switch strings.ToLower(key) {
			case "payee":
				lm.Payee = value
			case "uuid", "external-id":
				lm.ExternalID = value
			case "weight":
				q, err := parseQuantityText(value)
				if err != nil {
					return lm, nil, &InterpretFailureError{Label: child.Label, Reason: err.Error(), Span: child.Span}
				}
				lm.Weight = &q
			case "time":
				lm.TimeOfDay = value
			default:
				lm.Residual[key] = value
			}
		case synparse.LabelMetaTag:
			if len(child.Children) == 1 {
				lm.Residual[child.Children[0].Leaf] = ""
			}
		case synparse.LabelMetaComment:
			commentLines = append(commentLines, child.Leaf)
		}
	}
	if len(lm.Residual) == 0 {
		lm.Residual = nil
	}
	return lm, commentLines, nil
}

// rawPosting carries the information interpretTransaction needs, beyond
// the built entity.Posting itself, to decide whether to apply the
// balanced-virtual-assertion rewrite (spec.md §4.2).
type rawPosting struct {
	posting      *entity.Posting
	hasAssertion bool
	assertion    quantity.Quantity
}

func (ip *Interpreter) buildPosting(n *parsetree.Node) (*rawPosting, error) {
	refNode, err := collectOne(n, synparse.LabelAccountRef)
	if err != nil {
		return nil, err
	}
	ref, err := accountRefFromNode(refNode)
	if err != nil {
		return nil, err
	}

	p := &entity.Posting{EntryCommon: entity.EntryCommon{AccountRef: ref, Source: n.Span}}

	if amtNode, err := collectOne(n, synparse.LabelQuantity); err != nil {
		return nil, err
	} else if amtNode != nil {
		amt, err := quantityFromNode(amtNode)
		if err != nil {
			return nil, err
		}
		p.Amount = &amt
	}

	if costNode, err := collectOne(n, synparse.LabelCost); err != nil {
		return nil, err
	} else if costNode != nil {
		cost, err := buildCost(costNode)
		if err != nil {
			return nil, err
		}
		p.Cost = cost
	}

	if priceNode, err := collectOne(n, synparse.LabelPrice); err != nil {
		return nil, err
	} else if priceNode != nil {
		if len(priceNode.Children) != 2 {
			return nil, &InterpretFailureError{Label: priceNode.Label, Reason: "malformed price node", Span: priceNode.Span}
		}
		kindLeaf, qtyNode := priceNode.Children[0], priceNode.Children[1]
		price, err := quantityFromNode(qtyNode)
		if err != nil {
			return nil, err
		}
		isTotal := kindLeaf.Leaf == "total"
		if isTotal && p.Amount != nil && !p.Amount.Value.IsZero() {
			price = quantity.New(price.Value.Div(p.Amount.Value), price.Commodity)
		} else {
			// Amount is still missing: the total can't be divided down to a
			// per-unit price yet. PriceIsTotal stays set so package ledger's
			// Interpolate can finish this once it fills the amount in
			// (spec.md §4.4; DESIGN.md Open Question decision 11).
			p.PriceIsTotal = isTotal
		}
		p.Price = &price
	}

	rp := &rawPosting{posting: p}
	if balNode, err := collectOne(n, synparse.LabelBalanceAssertion); err != nil {
		return nil, err
	} else if balNode != nil {
		if len(balNode.Children) != 1 {
			return nil, &InterpretFailureError{Label: balNode.Label, Reason: "malformed balance assertion", Span: balNode.Span}
		}
		assertion, err := quantityFromNode(balNode.Children[0])
		if err != nil {
			return nil, err
		}
		rp.hasAssertion = true
		rp.assertion = assertion
		p.Assertion = &assertion
	}

	lm, commentLines, err := liftMeta(n)
	if err != nil {
		return nil, err
	}
	p.Payee = lm.Payee
	p.ExternalID = lm.ExternalID
	p.Weight = lm.Weight
	p.Meta = lm.Residual
	p.Description = strings.Join(commentLines, "\n")

	if items := parsetree.CollectAll(n, synparse.LabelItem); len(items) > 0 {
		invoice := &entity.Invoice{}
		for _, itemNode := range items {
			item, err := buildItem(itemNode)
			if err != nil {
				return nil, err
			}
			invoice.Items = append(invoice.Items, item)
		}
		p.Invoice = invoice
	}

	return rp, nil
}

func buildCost(n *parsetree.Node) (*entity.Cost, error) {
	if len(n.Children) == 0 {
		return nil, &InterpretFailureError{Label: n.Label, Reason: "cost carries no amount", Span: n.Span}
	}
	amt, err := quantityFromNode(n.Children[0])
	if err != nil {
		return nil, err
	}
	cost := &entity.Cost{Amount: amt}
	if lotDate, err := collectOne(n, synparse.LabelLotDate); err != nil {
		return nil, err
	} else if lotDate != nil {
		d, derr := timeval.ParseDate(lotDate.Leaf)
		if derr != nil {
			return nil, &InterpretFailureError{Label: n.Label, Reason: derr.Error(), Span: n.Span}
		}
		cost.Date = &d
	}
	return cost, nil
}

func buildItem(n *parsetree.Node) (*entity.Item, error) {
	titleNode, err := collectOne(n, synparse.LabelDescription)
	if err != nil {
		return nil, err
	}
	item := &entity.Item{Source: n.Span}
	if titleNode != nil {
		item.Title = titleNode.Leaf
	}

	if qtyNode, err := collectOne(n, synparse.LabelQuantity); err != nil {
		return nil, err
	} else if qtyNode != nil {
		q, err := quantityFromNode(qtyNode)
		if err != nil {
			return nil, err
		}
		if q.Commodity == "" {
			item.Amount.Bare = &q.Value
		} else {
			item.Amount.Quantity = &q
		}
	}

	if priceNode, err := collectOne(n, synparse.LabelPrice); err != nil {
		return nil, err
	} else if priceNode != nil {
		if len(priceNode.Children) != 1 {
			return nil, &InterpretFailureError{Label: priceNode.Label, Reason: "malformed item price", Span: priceNode.Span}
		}
		inner := priceNode.Children[0]
		if inner.Label == synparse.LabelPercentage {
			pct, err := percentageFromNode(inner)
			if err != nil {
				return nil, err
			}
			item.Price.Percentage = &pct
		} else {
			q, err := quantityFromNode(inner)
			if err != nil {
				return nil, err
			}
			item.Price.Quantity = &q
		}
	}

	item.Total = computeItemTotal(item.Amount, item.Price)

	return item, nil
}

// computeItemTotal derives an item's total from its amount and price
// (spec.md §3: "Amount may be a bare number ... or a quantity; price may
// be a quantity (per-unit) or a bare number (treated as a percentage)").
// The only combination spec.md gives a worked example for is quantity
// amount x percentage price (§8 scenario 5); the other three combinations
// follow the same "multiply, keep the commodity that carries one" shape.
func computeItemTotal(amount entity.ItemAmount, price entity.ItemPrice) quantity.Quantity {
	switch {
	case amount.Quantity != nil && price.Percentage != nil:
		return roundTotal(amount.Quantity.Mul(*price.Percentage))
	case amount.Bare != nil && price.Quantity != nil:
		return roundTotal(price.Quantity.Mul(*amount.Bare))
	case amount.Quantity != nil && price.Quantity != nil:
		return roundTotal(price.Quantity.Mul(amount.Quantity.Value))
	case amount.Bare != nil && price.Percentage != nil:
		return roundTotal(quantity.New(amount.Bare.Mul(*price.Percentage), ""))
	default:
		return quantity.Neutral()
	}
}

// roundTotal rounds a computed total to two decimal places (spec.md §8
// scenario 5: 127.29 * 0.096 = 12.21984 rounds to 12.22), independent of
// any configured display precision — see DESIGN.md.
func roundTotal(q quantity.Quantity) quantity.Quantity {
	return quantity.New(quantity.FromRaw(q.Value.Raw().Round(2)), q.Commodity)
}

func buildOpenOrClose(n *parsetree.Node, isOpen bool) (entity.JournalEntry, error) {
	refNode, err := collectOne(n, synparse.LabelAccountRef)
	if err != nil {
		return nil, err
	}
	ref, err := accountRefFromNode(refNode)
	if err != nil {
		return nil, err
	}
	common := entity.EntryCommon{AccountRef: ref, Source: n.Span}
	if !isOpen {
		return &entity.CloseAccount{EntryCommon: common}, nil
	}
	codes := parsetree.CollectAll(n, synparse.LabelCode)
	open := &entity.OpenAccount{EntryCommon: common}
	for _, c := range codes {
		open.Commodities = append(open.Commodities, quantity.CanonicalCommodityCode(c.Leaf))
	}
	return open, nil
}

func buildNote(n *parsetree.Node) (*entity.Note, error) {
	refNode, err := collectOne(n, synparse.LabelAccountRef)
	if err != nil {
		return nil, err
	}
	ref, err := accountRefFromNode(refNode)
	if err != nil {
		return nil, err
	}
	note := &entity.Note{EntryCommon: entity.EntryCommon{AccountRef: ref, Source: n.Span}}
	if desc, err := collectOne(n, synparse.LabelDescription); err != nil {
		return nil, err
	} else if desc != nil {
		note.Description = desc.Leaf
	}
	return note, nil
}

// interpretTransaction rewrites a synparse.LabelTransaction tree into an
// entity.Transaction: header fields, then a single ordered pass over the
// body that builds each journal entry, lifts transaction-scope metadata
// (four-space indent, spec.md §6: "; time: 14:03"), distributes the
// resolved instant to every entry, stamps ranks, and applies the
// balanced-virtual-assertion rewrite (spec.md §4.2).
func (ip *Interpreter) interpretTransaction(tree *parsetree.Node) (*entity.Transaction, error) {
	dateNode, err := collectOne(tree, synparse.LabelDate)
	if err != nil {
		return nil, err
	}
	if dateNode == nil {
		return nil, &InterpretFailureError{Label: tree.Label, Reason: "transaction carries no date", Span: tree.Span}
	}
	date, derr := timeval.ParseDate(dateNode.Leaf)
	if derr != nil {
		return nil, &InterpretFailureError{Label: tree.Label, Reason: derr.Error(), Span: tree.Span}
	}

	txn := &entity.Transaction{Date: date, Source: tree.Span}

	if flagNode, err := collectOne(tree, synparse.LabelFlag); err != nil {
		return nil, err
	} else if flagNode != nil {
		switch flagNode.Leaf {
		case "cleared":
			txn.Flag = entity.FlagCleared
		case "pending":
			txn.Flag = entity.FlagPending
		}
	}

	if descNode, err := collectOne(tree, synparse.LabelDescription); err != nil {
		return nil, err
	} else if descNode != nil {
		txn.Title = descNode.Leaf
	}

	tags := parsetree.CollectSet(tree, synparse.LabelTag)
	links := parsetree.CollectSet(tree, synparse.LabelLink)
	if len(tags) > 0 {
		txn.Tags = make(map[string]bool, len(tags))
		for _, t := range tags {
			txn.Tags[t.Leaf] = true
		}
	}
	if len(links) > 0 {
		txn.Links = make(map[string]bool, len(links))
		for _, l := range links {
			txn.Links[l.Leaf] = true
		}
	}

	var (
		rawEntries []*rawPosting // postings only, tracked for the rewrite pass
		entries    []entity.JournalEntry
		descLines  []string
		timeOfDay  string
		rank       int
	)

	for _, child := range tree.Children {
		switch child.Label {
		case synparse.LabelDate, synparse.LabelFlag, synparse.LabelDescription, synparse.LabelTag, synparse.LabelLink:
			continue

		case synparse.LabelMeta:
			key, value := metaKeyValue(child)
			switch strings.ToLower(key) {
			case "time":
				timeOfDay = value
			case "uuid", "external-id":
				txn.ExternalID = value
			default:
				if txn.Meta == nil {
					txn.Meta = map[string]string{}
				}
				txn.Meta[key] = value
			}

		case synparse.LabelMetaTag:
			if len(child.Children) == 1 {
				if txn.Tags == nil {
					txn.Tags = map[string]bool{}
				}
				txn.Tags[child.Children[0].Leaf] = true
			}

		case synparse.LabelMetaComment:
			descLines = append(descLines, child.Leaf)

		case synparse.LabelOpenEntry:
			e, err := buildOpenOrClose(child, true)
			if err != nil {
				return nil, err
			}
			e.Common().Rank = rank
			rank++
			entries = append(entries, e)

		case synparse.LabelCloseEntry:
			e, err := buildOpenOrClose(child, false)
			if err != nil {
				return nil, err
			}
			e.Common().Rank = rank
			rank++
			entries = append(entries, e)

		case synparse.LabelNoteEntry:
			note, err := buildNote(child)
			if err != nil {
				return nil, err
			}
			note.Rank = rank
			rank++
			entries = append(entries, note)

		case synparse.LabelPosting:
			rp, err := ip.buildPosting(child)
			if err != nil {
				return nil, err
			}
			rp.posting.Rank = rank
			rank++
			entries = append(entries, rp.posting)
			rawEntries = append(rawEntries, rp)

		default:
			return nil, &InterpretFailureError{Label: child.Label, Reason: "unexpected transaction body label", Span: child.Span}
		}
	}
	if len(descLines) > 0 {
		if txn.Title != "" {
			descLines = append([]string{txn.Title}, descLines...)
		}
		txn.Title = strings.Join(descLines, "\n")
	}

	hasTime := timeOfDay != ""
	var hour, min, sec int
	if hasTime {
		hour, min, sec, derr = parseTimeOfDay(timeOfDay)
		if derr != nil {
			return nil, &InterpretFailureError{Label: tree.Label, Reason: derr.Error(), Span: tree.Span}
		}
		instant := ip.Config.Resolve(date, true, hour, min, sec, nil)
		txn.Time = &instant
	}

	for _, e := range entries {
		common := e.Common()
		common.Date = date
		if txn.Time != nil {
			t := *txn.Time
			common.Time = &t
		}
	}

	// Balanced-virtual-assertion rewrite (spec.md §4.2): a posting to a
	// [balanced-virtual] account with a zero/absent amount and a balance
	// assertion becomes a standalone balance-check entry.
	for _, rp := range rawEntries {
		p := rp.posting
		isZeroOrAbsent := p.Amount == nil || p.Amount.Value.IsZero()
		if !(rp.hasAssertion && isZeroOrAbsent && p.AccountRef.Kind == entity.RefBalancedVirtual) {
			continue
		}
		bc := &entity.BalanceCheck{EntryCommon: p.EntryCommon, Amount: rp.assertion}
		for j, e := range entries {
			if e == entity.JournalEntry(p) {
				entries[j] = bc
				break
			}
		}
	}
	txn.Entries = entries

	return txn, nil
}
