package chunker

import (
	"testing"

	"github.com/orottier/csvindex/internal/addr"
	"github.com/orottier/csvindex/internal/typedmap"
	"github.com/stretchr/testify/require"
)

func threeKeyMap(t *testing.T) *typedmap.TypedMap {
	t.Helper()
	m, err := typedmap.New("int")
	require.NoError(t, err)
	m.Insert([]byte("1"), addr.Address{Offset: 1})
	m.Insert([]byte("2"), addr.Address{Offset: 2})
	m.Insert([]byte("3"), addr.Address{Offset: 3})
	m.Finalize()
	return m
}

func TestChunkOnePiece(t *testing.T) {
	m := threeKeyMap(t)
	chunks := Chunk(m, 1)
	require.Len(t, chunks, 1)
	require.Equal(t, 0, chunks[0].FirstKeyIdx)
	require.Equal(t, 2, chunks[0].LastKeyIdx)
}

func TestChunkTwoPieces(t *testing.T) {
	m := threeKeyMap(t)
	chunks := Chunk(m, 2)
	require.Len(t, chunks, 2)

	require.Equal(t, 0, chunks[0].FirstKeyIdx)
	require.Equal(t, 0, chunks[0].LastKeyIdx)

	require.Equal(t, 1, chunks[1].FirstKeyIdx)
	require.Equal(t, 2, chunks[1].LastKeyIdx)
}

func TestChunkCompleteness(t *testing.T) {
	m := threeKeyMap(t)
	chunks := Chunk(m, 2)

	var seen []int
	for _, c := range chunks {
		for i := c.FirstKeyIdx; i <= c.LastKeyIdx; i++ {
			seen = append(seen, i)
		}
	}
	require.Equal(t, []int{0, 1, 2}, seen)
}

func TestChunkClampsExcessPieces(t *testing.T) {
	m := threeKeyMap(t)
	chunks := Chunk(m, 100)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		require.Equal(t, c.FirstKeyIdx, c.LastKeyIdx)
	}
}

func TestChunkEmptyMap(t *testing.T) {
	m, err := typedmap.New("str")
	require.NoError(t, err)
	m.Finalize()

	chunks := Chunk(m, 4)
	require.Len(t, chunks, 1)
	require.Greater(t, chunks[0].FirstKeyIdx, chunks[0].LastKeyIdx)
}

func TestChunkCountHeuristic(t *testing.T) {
	require.Equal(t, 2, ChunkCount(0))
	require.Equal(t, 4, ChunkCount(120000))
}
