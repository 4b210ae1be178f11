// Package loader implements include resolution: a thin, purely-functional
// front end that reads one file, splits it into groups (package
// groupsplit), parses each group (package synparse), and — when
// FollowIncludes is set — recursively resolves `include "path"` groups
// relative to the including file's directory, deduplicating by resolved
// absolute path, before handing the whole concatenated group stream to
// package interpret. Sibling includes of the same file load concurrently
// via golang.org/x/sync/errgroup (spec.md §5: "parallelism ... at the
// granularity of independent top-level entries or independent books").
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ledgerpipe/ledgerpipe/groupsplit"
	"github.com/ledgerpipe/ledgerpipe/parsetree"
	"github.com/ledgerpipe/ledgerpipe/synparse"
	"github.com/ledgerpipe/ledgerpipe/telemetry"
	"golang.org/x/sync/errgroup"
)

// Group is one parsed group, carried alongside the filename it came from
// and its own source bytes so the interpreter can still attach source
// snippets once the group has left its originating file's context.
type Group struct {
	Filename string
	Tree     *parsetree.Node
	Source   []byte
}

// Loader reads and parses Ledger source files, optionally following
// `include` directives.
type Loader struct {
	// FollowIncludes recursively resolves and merges include directives.
	// When false (default), `include` groups are returned as-is for the
	// caller to handle (or ignore) and no path resolution occurs.
	FollowIncludes bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithFollowIncludes enables recursive include resolution.
func WithFollowIncludes() Option {
	return func(l *Loader) { l.FollowIncludes = true }
}

// New creates a Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads filename and parses it into an ordered slice of groups. With
// FollowIncludes unset, only filename itself is read; `include` groups are
// included verbatim in the result for the caller to resolve. With
// FollowIncludes set, every included file is read and parsed recursively,
// its groups spliced in at the include's position, and files already
// visited (by resolved absolute path) are skipped to guard against cycles
// and redundant re-parsing.
func (l *Loader) Load(ctx context.Context, filename string) ([]Group, error) {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("loader.load %s", filepath.Base(filename)))
	defer timer.End()

	if !l.FollowIncludes {
		return l.parseFile(ctx, filename)
	}

	state := &loaderState{visited: map[string]bool{}}
	return state.loadRecursive(ctx, filename, timer)
}

// parseFile reads filename and parses its groups without resolving
// includes.
func (l *Loader) parseFile(ctx context.Context, filename string) ([]Group, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", filename, err)
	}
	return parseGroups(filename, data)
}

// parseGroups splits data into blank-line-delimited groups and parses
// each one, attributing errors to filename.
func parseGroups(filename string, data []byte) ([]Group, error) {
	parser := synparse.New(filename)
	groups := groupsplit.Split(data)
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		tree, err := parser.ParseGroup(g)
		if err != nil {
			return nil, err
		}
		out = append(out, Group{Filename: filename, Tree: tree, Source: []byte(g.Text)})
	}
	return out, nil
}

// loaderState tracks which absolute file paths have already been loaded,
// so a file included from two different places (or a cyclical include)
// contributes its groups only once.
type loaderState struct {
	mu      sync.Mutex
	visited map[string]bool
}

// loadRecursive reads and parses filename, then recursively loads every
// `include` group it contains, splicing each included file's groups in at
// the include's position. Sibling includes of the same file are loaded
// concurrently via errgroup; order within the result is still the
// declaration order of the includes, since each goroutine writes into a
// pre-sized, index-addressed slot.
func (l *loaderState) loadRecursive(ctx context.Context, filename string, timer telemetry.Timer) ([]Group, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("loader: resolving %s: %w", filename, err)
	}

	l.mu.Lock()
	if l.visited[absPath] {
		l.mu.Unlock()
		return nil, nil
	}
	l.visited[absPath] = true
	data, err := os.ReadFile(filename)
	l.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", filename, err)
	}

	groups, err := parseGroups(filename, data)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(absPath)
	g, gctx := errgroup.WithContext(ctx)
	resolved := make([][]Group, len(groups))

	for i, grp := range groups {
		if grp.Tree.Label != synparse.LabelInclude {
			continue
		}
		i := i
		includePath := includeTarget(grp.Tree, baseDir)
		childTimer := timer.Child(fmt.Sprintf("loader.load %s", filepath.Base(includePath)))
		g.Go(func() error {
			defer childTimer.End()
			sub, err := l.loadRecursive(gctx, includePath, childTimer)
			if err != nil {
				return fmt.Errorf("in file %s: %w", filename, err)
			}
			resolved[i] = sub
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Group
	for i, grp := range groups {
		if grp.Tree.Label == synparse.LabelInclude {
			out = append(out, resolved[i]...)
			continue
		}
		out = append(out, grp)
	}
	return out, nil
}

// includeTarget resolves an `include` group's filename child against
// baseDir, the directory of the file that contains the include.
func includeTarget(tree *parsetree.Node, baseDir string) string {
	var path string
	for _, c := range tree.Children {
		if c.Label == synparse.LabelFilename {
			path = c.Leaf
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return path
}
