package store

import (
	"testing"

	"github.com/orottier/csvindex/internal/addr"
	"github.com/orottier/csvindex/internal/key"
	"github.com/orottier/csvindex/internal/typedmap"
	"github.com/stretchr/testify/require"
)

func buildIntIndex(t *testing.T, n int) *memSeeker {
	t.Helper()
	m, err := typedmap.New("int")
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		m.Insert([]byte(itoaHelper(int64(i))), addr.Address{Offset: uint64(i), Length: 1})
	}
	m.Finalize()
	ms := newMemSeeker()
	require.NoError(t, Write(ms, m, 4))
	return ms
}

func TestChunksOverlappingSelectsOnlyRelevantChunks(t *testing.T) {
	ms := buildIntIndex(t, 120000)
	rd, err := Open(ms)
	require.NoError(t, err)
	require.Equal(t, 4, rd.NumChunks())

	all := rd.ChunksOverlapping(key.Range{Lower: key.UnboundedBound(), Upper: key.UnboundedBound()})
	require.Len(t, all, 4)

	gt := rd.ChunksOverlapping(key.Range{
		Lower: key.ExcludedBound(key.Int64(0)),
		Upper: key.ExcludedBound(key.MaxInt64()),
	})
	require.NotEmpty(t, gt)
	require.LessOrEqual(t, len(gt), 4)

	eqFirst := rd.ChunksOverlapping(key.Range{
		Lower: key.IncludedBound(key.Int64(0)),
		Upper: key.IncludedBound(key.Int64(0)),
	})
	require.Len(t, eqFirst, 1)
}

func TestReadChunkDecompressesAndSorts(t *testing.T) {
	ms := buildIntIndex(t, 9)
	rd, err := Open(ms)
	require.NoError(t, err)

	chunks := rd.ChunksOverlapping(key.Range{Lower: key.UnboundedBound(), Upper: key.UnboundedBound()})
	sub, err := rd.ReadChunk(chunks[0])
	require.NoError(t, err)
	require.Greater(t, sub.Uniques(), 0)
	for i := 1; i < sub.Uniques(); i++ {
		require.Less(t, sub.KeyAt(i-1).Compare(sub.KeyAt(i)), 0)
	}
}
