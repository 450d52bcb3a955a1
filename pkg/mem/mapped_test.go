package mem_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uselessgoddess/dunes/pkg/mem"
)

func TestMappedGrowPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.bin")

	m, err := mem.NewMapped[uint64](path)
	require.NoError(t, err)

	page, err := m.Grow(4)
	require.NoError(t, err)
	data := page.Zeroed()
	data[1] = 99
	require.NoError(t, m.Close())

	reopened, err := mem.NewMapped[uint64](path)
	require.NoError(t, err)
	defer func() { require.NoError(t, reopened.Close()) }()

	require.GreaterOrEqual(t, len(reopened.AsSlice()), 4)
	require.Equal(t, uint64(99), reopened.AsSlice()[1])
}
