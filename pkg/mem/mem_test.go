package mem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uselessgoddess/dunes/pkg/mem"
)

func TestHeapGrowAndShrink(t *testing.T) {
	h := mem.NewHeap[uint64]()

	page, err := h.Grow(10)
	require.NoError(t, err)

	data := page.Zeroed()
	assert.Len(t, data, 10)
	assert.Equal(t, make([]uint64, 10), data)
	assert.Len(t, h.AsSlice(), 10)

	require.NoError(t, h.Shrink(4))
	assert.Len(t, h.AsSlice(), 6)
}

func TestHeapGrowPreservesExistingData(t *testing.T) {
	h := mem.NewHeap[uint64]()

	_, err := h.Grow(4)
	require.NoError(t, err)
	h.AsMutSlice()[2] = 42

	_, err = h.Grow(4)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), h.AsSlice()[2])
	assert.Len(t, h.AsSlice(), 8)
}

func TestFixedRefusesGrowthPastCapacity(t *testing.T) {
	f := mem.NewFixed(make([]uint64, 4))

	_, err := f.Grow(4)
	require.NoError(t, err)

	_, err = f.Grow(1)
	require.Error(t, err)

	var overflow mem.CapacityOverflowError
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, 4, overflow.Limit)
}

func TestFixedFilled(t *testing.T) {
	f := mem.NewFixed(make([]uint64, 3))

	page, err := f.Grow(3)
	require.NoError(t, err)

	data := page.Filled(7)
	assert.Equal(t, []uint64{7, 7, 7}, data)
}
