package synparse

import "github.com/ledgerpipe/ledgerpipe/parsetree"

// Node labels produced by the grammar, consumed by package interpret.
// Named after the productions in spec.md §4.1.
const (
	LabelCommodityDef       parsetree.Label = "commodity-def"
	LabelAccountDef         parsetree.Label = "account-def"
	LabelPricePoint         parsetree.Label = "price-point"
	LabelCommodityConv      parsetree.Label = "commodity-conversion"
	LabelInclude            parsetree.Label = "include"
	LabelComment            parsetree.Label = "comment"
	LabelTransaction        parsetree.Label = "transaction"

	LabelCode        parsetree.Label = "code"
	LabelAccountPath parsetree.Label = "account-path"
	LabelDate        parsetree.Label = "date"
	LabelTime        parsetree.Label = "time"
	LabelZone        parsetree.Label = "zone"
	LabelFlag        parsetree.Label = "flag"
	LabelDescription parsetree.Label = "description"
	LabelPayee       parsetree.Label = "payee"
	LabelTag         parsetree.Label = "tag"
	LabelLink        parsetree.Label = "link"
	LabelString      parsetree.Label = "string"
	LabelFilename    parsetree.Label = "filename"
	LabelRate        parsetree.Label = "rate"

	LabelMeta    parsetree.Label = "meta"     // children: key, value
	LabelMetaTag parsetree.Label = "meta-tag" // bare ":tag:" shorthand, single leaf
	LabelNoteBody parsetree.Label = "note-body" // free-text "note ..." body line under commodity/account

	LabelFormat          parsetree.Label = "format"
	LabelAlias           parsetree.Label = "alias"
	LabelAssertCommodity parsetree.Label = "assert-commodity"

	LabelOpenEntry        parsetree.Label = "open-entry"
	LabelCloseEntry       parsetree.Label = "close-entry"
	LabelNoteEntry        parsetree.Label = "note-entry"
	LabelPosting          parsetree.Label = "posting"
	LabelAccountRef       parsetree.Label = "account-ref"
	LabelRefKind          parsetree.Label = "ref-kind" // leaf: "real" | "virtual" | "balanced-virtual"
	LabelQuantity         parsetree.Label = "quantity"
	LabelValue            parsetree.Label = "value" // leaf: a quantity's/percentage's numeric text
	LabelPercentage       parsetree.Label = "percentage"
	LabelBareNumber       parsetree.Label = "bare-number"
	LabelCost             parsetree.Label = "cost"
	LabelLotDate          parsetree.Label = "lot-date"
	LabelPrice            parsetree.Label = "price"
	LabelBalanceAssertion parsetree.Label = "balance-assertion"
	LabelItem             parsetree.Label = "item"
	LabelMetaComment      parsetree.Label = "meta-comment" // free-text ';' line, no key:value shape

	LabelWeight parsetree.Label = "weight" // explicit "weight:" metadata under a posting
	LabelToCode parsetree.Label = "to-code" // commodity-conversion target code
)
