package parsetree

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func leaf(label Label, text string) *Node {
	return NewLeaf(label, text, Span{})
}

func TestCollectOne(t *testing.T) {
	n := NewComposite("posting", []*Node{leaf("account", "Assets:Cash")})
	got, err := CollectOne(n, "account")
	assert.NoError(t, err)
	assert.Equal(t, "Assets:Cash", got.Leaf)

	missing, err := CollectOne(n, "amount")
	assert.NoError(t, err)
	assert.Zero(t, missing)
}

func TestCollectOneErrorsOnDuplicate(t *testing.T) {
	n := NewComposite("posting", []*Node{leaf("amount", "1"), leaf("amount", "2")})
	_, err := CollectOne(n, "amount")
	assert.Error(t, err)
	var coe *CollectOneError
	assert.True(t, asCollectOneError(err, &coe))
	assert.Equal(t, 2, coe.Count)
}

func asCollectOneError(err error, target **CollectOneError) bool {
	if e, ok := err.(*CollectOneError); ok {
		*target = e
		return true
	}
	return false
}

func TestCollectAllPreservesOrder(t *testing.T) {
	n := NewComposite("tx", []*Node{leaf("tag", "a"), leaf("tag", "b"), leaf("tag", "a")})
	got := CollectAll(n, "tag")
	assert.Equal(t, 3, len(got))
}

func TestCollectSetDeduplicates(t *testing.T) {
	n := NewComposite("tx", []*Node{leaf("tag", "a"), leaf("tag", "b"), leaf("tag", "a")})
	got := CollectSet(n, "tag")
	assert.Equal(t, 2, len(got))
	assert.Equal(t, "a", got[0].Leaf)
	assert.Equal(t, "b", got[1].Leaf)
}

func TestCollectMap(t *testing.T) {
	entry := NewComposite("meta", []*Node{leaf("key", "UUID"), leaf("value", "abc-123")})
	n := NewComposite("posting", []*Node{entry})

	m, err := CollectMap(n, "meta")
	assert.NoError(t, err)
	assert.Equal(t, "abc-123", m["UUID"])
}

func TestCollectMapErrorsOnMalformedEntry(t *testing.T) {
	entry := NewComposite("meta", []*Node{leaf("key", "UUID")})
	n := NewComposite("posting", []*Node{entry})

	_, err := CollectMap(n, "meta")
	assert.Error(t, err)
}

func TestWalkVisitsAllDescendants(t *testing.T) {
	child := NewComposite("posting", []*Node{leaf("account", "Assets:Cash")})
	root := NewComposite("transaction", []*Node{child})

	var labels []Label
	Walk(root, func(n *Node) { labels = append(labels, n.Label) })

	assert.Equal(t, []Label{"transaction", "posting", "account"}, labels)
}
