package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/ledgerpipe/ledgerpipe/parsetree"
	"github.com/ledgerpipe/ledgerpipe/synparse"
)

func labels(groups []Group) []parsetree.Label {
	out := make([]parsetree.Label, len(groups))
	for i, g := range groups {
		out[i] = g.Tree.Label
	}
	return out
}

func TestLoadSingleFileNoIncludes(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile := filepath.Join(tmpDir, "main.ledger")
	assert.NoError(t, os.WriteFile(mainFile, []byte(`commodity USD
    note United States Dollars

account Assets:Cash:Wallet
    alias wallet
`), 0644))

	groups, err := New().Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, []parsetree.Label{synparse.LabelCommodityDef, synparse.LabelAccountDef}, labels(groups))
}

func TestLoadWithoutFollowKeepsIncludeGroup(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile := filepath.Join(tmpDir, "main.ledger")
	assert.NoError(t, os.WriteFile(mainFile, []byte(`include "other.ledger"

account Assets:Cash:Wallet
`), 0644))

	groups, err := New().Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, []parsetree.Label{synparse.LabelInclude, synparse.LabelAccountDef}, labels(groups))
}

func TestLoadWithFollowResolvesInclude(t *testing.T) {
	tmpDir := t.TempDir()
	includedFile := filepath.Join(tmpDir, "accounts.ledger")
	assert.NoError(t, os.WriteFile(includedFile, []byte(`account Assets:Savings
`), 0644))

	mainFile := filepath.Join(tmpDir, "main.ledger")
	assert.NoError(t, os.WriteFile(mainFile, []byte(`include "accounts.ledger"

account Assets:Cash:Wallet
`), 0644))

	groups, err := New(WithFollowIncludes()).Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, []parsetree.Label{synparse.LabelAccountDef, synparse.LabelAccountDef}, labels(groups))
	assert.Equal(t, includedFile, groups[0].Filename)
	assert.Equal(t, mainFile, groups[1].Filename)
}

func TestLoadWithFollowDeduplicatesRepeatedInclude(t *testing.T) {
	tmpDir := t.TempDir()
	sharedFile := filepath.Join(tmpDir, "shared.ledger")
	assert.NoError(t, os.WriteFile(sharedFile, []byte(`account Assets:Shared
`), 0644))

	mainFile := filepath.Join(tmpDir, "main.ledger")
	assert.NoError(t, os.WriteFile(mainFile, []byte(`include "shared.ledger"

include "shared.ledger"

account Assets:Cash:Wallet
`), 0644))

	groups, err := New(WithFollowIncludes()).Load(context.Background(), mainFile)
	assert.NoError(t, err)
	// Second "include shared.ledger" is a no-op: the file was already
	// visited, so it contributes no further groups.
	assert.Equal(t, []parsetree.Label{synparse.LabelAccountDef, synparse.LabelAccountDef}, labels(groups))
}

func TestLoadWithFollowResolvesRelativeToIncludingFileDir(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "sub")
	assert.NoError(t, os.Mkdir(subDir, 0755))

	nestedFile := filepath.Join(subDir, "nested.ledger")
	assert.NoError(t, os.WriteFile(nestedFile, []byte(`account Assets:Nested
`), 0644))

	subMain := filepath.Join(subDir, "sub.ledger")
	assert.NoError(t, os.WriteFile(subMain, []byte(`include "nested.ledger"
`), 0644))

	mainFile := filepath.Join(tmpDir, "main.ledger")
	assert.NoError(t, os.WriteFile(mainFile, []byte(`include "sub/sub.ledger"
`), 0644))

	groups, err := New(WithFollowIncludes()).Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, []parsetree.Label{synparse.LabelAccountDef}, labels(groups))
	assert.Equal(t, nestedFile, groups[0].Filename)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "missing.ledger"))
	assert.Error(t, err)
}
