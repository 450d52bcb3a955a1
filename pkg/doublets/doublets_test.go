package doublets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uselessgoddess/dunes/pkg/doublets"
	"github.com/uselessgoddess/dunes/pkg/store"
)

func newDoublets(t *testing.T) doublets.Doublets[uint64] {
	t.Helper()

	s, err := store.New[uint64](store.Config[uint64]{})
	require.NoError(t, err)

	return doublets.New(s)
}

func TestCreatePointIsSelfReferencing(t *testing.T) {
	d := newDoublets(t)

	idx, err := d.CreatePoint()
	require.NoError(t, err)

	l, ok := d.Store().Get(idx).Get()
	require.True(t, ok)
	assert.True(t, l.IsFull())
	assert.Equal(t, idx, l.Source)
	assert.Equal(t, idx, l.Target)
}

func TestCreateLinkAndSearch(t *testing.T) {
	d := newDoublets(t)

	a, err := d.CreatePoint()
	require.NoError(t, err)
	b, err := d.CreatePoint()
	require.NoError(t, err)

	idx, err := d.CreateLink(a, b)
	require.NoError(t, err)

	found, ok := d.Search(a, b)
	require.True(t, ok)
	assert.Equal(t, idx, found)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	d := newDoublets(t)

	a, _ := d.CreatePoint()
	b, _ := d.CreatePoint()

	first, err := d.GetOrCreate(a, b)
	require.NoError(t, err)
	countAfterFirst := d.CountAll()

	for i := 0; i < 5; i++ {
		idx, err := d.GetOrCreate(a, b)
		require.NoError(t, err)
		assert.Equal(t, first, idx)
		assert.Equal(t, countAfterFirst, d.CountAll())
	}
}

func TestCountUsages(t *testing.T) {
	d := newDoublets(t)

	a, _ := d.CreatePoint()
	b, _ := d.CreatePoint()

	usages, err := d.CountUsages(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), usages, "a fresh point only self-references")

	_, err = d.CreateLink(b, a)
	require.NoError(t, err)

	usages, err = d.CountUsages(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), usages)

	_, err = d.CreateLink(a, b)
	require.NoError(t, err)

	usages, err = d.CountUsages(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), usages)

	assert.True(t, d.HasUsages(a))
}

func TestRebaseRewritesReferences(t *testing.T) {
	d := newDoublets(t)

	a, _ := d.CreatePoint()
	b, _ := d.CreatePoint()

	c, err := d.CreateLink(a, b)
	require.NoError(t, err)
	e, err := d.CreateLink(b, a)
	require.NoError(t, err)

	require.NoError(t, d.Rebase(a, b))

	linkC, ok := d.Store().Get(c).Get()
	require.True(t, ok)
	assert.Equal(t, b, linkC.Source)

	linkE, ok := d.Store().Get(e).Get()
	require.True(t, ok)
	assert.Equal(t, b, linkE.Target)
}

func TestRebaseAndDeleteRemovesOld(t *testing.T) {
	d := newDoublets(t)

	a, _ := d.CreatePoint()
	b, _ := d.CreatePoint()

	c, err := d.CreateLink(a, b)
	require.NoError(t, err)

	require.NoError(t, d.RebaseAndDelete(a, b))

	assert.False(t, d.Store().Exists(a))

	linkC, ok := d.Store().Get(c).Get()
	require.True(t, ok)
	assert.Equal(t, b, linkC.Source)
}

func TestCollectAllMatchesCountAll(t *testing.T) {
	d := newDoublets(t)

	for i := 0; i < 10; i++ {
		_, err := d.CreatePoint()
		require.NoError(t, err)
	}

	all := d.CollectAll()
	assert.Len(t, all, int(d.CountAll()))
}

func TestDeleteLinkThenUsagesDrop(t *testing.T) {
	d := newDoublets(t)

	a, _ := d.CreatePoint()
	b, _ := d.CreatePoint()

	link1, err := d.CreateLink(a, b)
	require.NoError(t, err)

	usages, err := d.CountUsages(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), usages)

	require.NoError(t, d.DeleteLink(link1))

	usages, err = d.CountUsages(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), usages)
}
