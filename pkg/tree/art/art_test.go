package art_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uselessgoddess/dunes/internal/opt"
	"github.com/uselessgoddess/dunes/pkg/tree"
	"github.com/uselessgoddess/dunes/pkg/tree/art"
)

func newTrie(t *testing.T) art.Tree[uint32] {
	t.Helper()

	nodes := make(map[uint32]tree.Node[uint32])

	view := tree.View[uint32]{
		Get: func(i uint32) tree.Node[uint32] { return nodes[i] },
		Set: func(i uint32, n tree.Node[uint32]) { nodes[i] = n },
		Compare: func(a, b uint32) int {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		},
	}

	return art.New(view, func(i uint32) uint64 { return uint64(i) })
}

func TestInsertThenContains(t *testing.T) {
	at := newTrie(t)

	root := opt.None[uint32]()
	for _, v := range []uint32{1, 2, 3, 100, 200, 40000} {
		root = at.Insert(root, v)
	}

	r := root.Unwrap()
	for _, v := range []uint32{1, 2, 3, 100, 200, 40000} {
		assert.True(t, at.Contains(r, v), "expected %d to be present", v)
	}
	assert.False(t, at.Contains(r, 999999))
}

func TestInsertDuplicateIsNoop(t *testing.T) {
	at := newTrie(t)

	root := at.Insert(opt.None[uint32](), 5)
	root = at.Insert(root, 6)
	before := root.Unwrap()

	root = at.Insert(root, 5)
	assert.Equal(t, before, root.Unwrap())
}

func TestRemoveLeafThenMissing(t *testing.T) {
	at := newTrie(t)

	root := opt.None[uint32]()
	for _, v := range []uint32{10, 20, 30} {
		root = at.Insert(root, v)
	}

	root = at.Remove(root, 20)
	r, ok := root.Get()
	require.True(t, ok)

	assert.False(t, at.Contains(r, 20))
	assert.True(t, at.Contains(r, 10))
	assert.True(t, at.Contains(r, 30))
}

func TestRemoveRootOfSingletonEmptiesTree(t *testing.T) {
	at := newTrie(t)

	root := at.Insert(opt.None[uint32](), 42)
	root = at.Remove(root, 42)

	assert.True(t, root.IsNone())
}

func TestRemoveMissingKeyIsNoop(t *testing.T) {
	at := newTrie(t)

	root := at.Insert(opt.None[uint32](), 1)
	root = at.Insert(root, 2)

	before := root.Unwrap()
	root = at.Remove(root, 999)

	assert.Equal(t, before, root.Unwrap())
}
