package ledgerpipe

import (
	"context"
	"fmt"

	"github.com/ledgerpipe/ledgerpipe/entity"
	"github.com/ledgerpipe/ledgerpipe/interpret"
	"github.com/ledgerpipe/ledgerpipe/ledger"
	"github.com/ledgerpipe/ledgerpipe/ledgererr"
	"github.com/ledgerpipe/ledgerpipe/loader"
	"github.com/ledgerpipe/ledgerpipe/normalize"
	"github.com/ledgerpipe/ledgerpipe/telemetry"
)

// Pipeline drives one file (and, with FollowIncludes, its whole include
// tree) through every stage spec.md §4 names: load, parse, interpret,
// index and balance, normalize.
type Pipeline struct {
	Config         Config
	FollowIncludes bool
}

// New creates a Pipeline using cfg. Config is passed explicitly rather
// than read from context, so callers that want the UTC/":"-separator
// defaults should build cfg from DefaultConfig() rather than a bare
// Config{}.
func New(cfg Config) *Pipeline {
	return &Pipeline{Config: cfg}
}

// Result is everything Pipeline.Run produces: the flattened normal-form
// output (nil if loading or parsing failed outright), the recoverable
// per-entry errors collected up to Config.MaxErrors, and the non-fatal
// warnings collected without limit (spec.md §7).
type Result struct {
	Normalize *normalize.Result
	Errors    *ledgererr.Errors
	Warnings  *ledgererr.Warnings
}

// Run loads filename, interprets every group it (and, with
// FollowIncludes, its includes) contains, indexes and balances the
// resulting transactions, and normalizes the whole book. A structural
// parse failure anywhere aborts Run entirely, since a malformed group
// means the rest of the file's grouping cannot be trusted (spec.md §7:
// parse-failure and parse-ambiguity are not per-entry recoverable).
// Everything else — an unbalanceable transaction, an unresolved account
// reference, a posting validity violation — is recoverable and collected
// into Result.Errors instead of aborting.
func (p *Pipeline) Run(ctx context.Context, filename string) (*Result, error) {
	timer := telemetry.FromContext(ctx).Start("pipeline.run")
	defer timer.End()

	ld := loader.New()
	if p.FollowIncludes {
		ld = loader.New(loader.WithFollowIncludes())
	}

	groups, err := ld.Load(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("ledgerpipe: loading %s: %w", filename, err)
	}

	book, index, errs, warns := p.interpretGroups(ctx, groups)

	normTimer := timer.Child("pipeline.normalize")
	res := normalize.Normalize(book, index)
	normTimer.End()

	for _, w := range index.Warnings {
		warns.Add(w)
	}
	for _, e := range res.Errors {
		errs.Add(e)
	}
	for _, w := range res.Warnings {
		warns.Add(w)
	}

	return &Result{Normalize: res, Errors: errs, Warnings: warns}, nil
}

// interpretGroups rewrites every parsed group into its entity, sorting
// each into the growing Book by its dynamic type and registering every
// declared account into index, then balances every transaction seen along
// the way. Recoverable failures (interpret-failure, posting-validity,
// balancing) are collected into errs rather than stopping the run; errs
// stops accepting new entries once Config.MaxErrors is reached but the
// loop keeps running so warnings and later groups are still collected.
func (p *Pipeline) interpretGroups(ctx context.Context, groups []loader.Group) (*entity.Book, *ledger.Book, *ledgererr.Errors, *ledgererr.Warnings) {
	collector := telemetry.FromContext(ctx)
	interpretTimer := collector.StartStructured(telemetry.GroupTimerConfig(len(groups)))

	ip := interpret.New(p.Config.Time)
	book := &entity.Book{}
	index := ledger.NewBook()
	errs := &ledgererr.Errors{Max: p.Config.MaxErrors}
	warns := &ledgererr.Warnings{}
	var transactions []*entity.Transaction

	for _, g := range groups {
		value, err := ip.Interpret(g.Tree, g.Source)
		if err != nil {
			errs.Add(err)
			continue
		}

		switch v := value.(type) {
		case nil:
			// Comments and includes carry no entity.
		case *entity.Commodity:
			book.Commodities = append(book.Commodities, v)
		case *entity.Account:
			book.Accounts = append(book.Accounts, v)
			index.AddAccount(v)
		case *entity.Price:
			book.Prices = append(book.Prices, v)
		case *entity.ConversionRate:
			book.Conversions = append(book.Conversions, v)
		case *entity.Transaction:
			book.Journal = append(book.Journal, v)
			transactions = append(transactions, v)
		default:
			errs.Add(fmt.Errorf("ledgerpipe: interpreter produced unrecognized entity type %T", v))
		}
	}
	interpretTimer.End()

	if len(transactions) > 0 {
		balanceTimer := collector.StartStructured(telemetry.TransactionTimerConfig(len(transactions)))
		for _, txn := range transactions {
			for _, balErr := range ledger.Balance(txn) {
				if !errs.Add(balErr) {
					break
				}
			}
		}
		balanceTimer.End()
	}

	return book, index, errs, warns
}

// Parse loads and parses filename, optionally following its includes,
// without interpreting any group, for callers that only want the parse
// tree — e.g. a linter checking grammar shape without caring about
// balancing. cfg is accepted for symmetry with Interpret and Pipeline.Run
// even though bare parsing depends on none of its fields.
func Parse(ctx context.Context, cfg Config, filename string, followIncludes bool) ([]loader.Group, error) {
	ld := loader.New()
	if followIncludes {
		ld = loader.New(loader.WithFollowIncludes())
	}
	return ld.Load(ctx, filename)
}

// Interpret rewrites an already-loaded group stream into entities, the
// same way Pipeline.Run does internally, for callers that have their own
// loading strategy (e.g. groups assembled from several independently
// fetched books) but still want this package's interpret/index/balance
// sequencing.
func Interpret(ctx context.Context, cfg Config, groups []loader.Group) (*entity.Book, *ledger.Book, *ledgererr.Errors, *ledgererr.Warnings) {
	p := &Pipeline{Config: cfg}
	return p.interpretGroups(ctx, groups)
}
