package groupsplit

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestSplitDiscardsBlankRuns(t *testing.T) {
	source := []byte("commodity USD\n    note US Dollar\n\n\naccount Assets:Cash\n    alias cash\n")

	groups := Split(source)
	assert.Equal(t, 2, len(groups))
	assert.Equal(t, "commodity USD\n    note US Dollar\n", groups[0].Text)
	assert.Equal(t, "account Assets:Cash\n    alias cash\n", groups[1].Text)
}

func TestSplitSingleGroupNoBlankLines(t *testing.T) {
	source := []byte("2016-04-16 ! Uber\n    Expenses:Transit:Taxi     $8.19\n    credit-card\n")
	groups := Split(source)
	assert.Equal(t, 1, len(groups))
}

func TestSplitEmptySource(t *testing.T) {
	groups := Split([]byte(""))
	assert.Equal(t, 0, len(groups))
}

func TestSplitWhitespaceOnlyLinesAreBlank(t *testing.T) {
	source := []byte("a\n   \n\t\nb\n")
	groups := Split(source)
	assert.Equal(t, 2, len(groups))
	assert.Equal(t, "a\n", groups[0].Text)
	assert.Equal(t, "b\n", groups[1].Text)
}

func TestSplitTracksGroupOffsets(t *testing.T) {
	source := []byte("first\n\nsecond\n")
	groups := Split(source)
	assert.Equal(t, 2, len(groups))
	assert.Equal(t, 0, groups[0].Offset)
	assert.Equal(t, len("first\n\n"), groups[1].Offset)
}
