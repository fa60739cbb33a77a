// Package chunker splits a finalized TypedMap into N contiguous key-range
// chunks of approximately equal population (spec §4.6), grounded on
// original_source/src/chunked_map.rs's chunk_map: a BTreeMap split off at
// its n-th key, repeated pieces-1 times, with the remainder forming the
// last chunk.
package chunker

import "github.com/orottier/csvindex/internal/typedmap"

// Chunk is one contiguous slice of a TypedMap's sorted keys: FirstKeyIdx
// and LastKeyIdx are indices into the parent map (inclusive), and the
// chunk's boundary key is the parent's key at FirstKeyIdx (spec's
// "boundary_key equals the smallest key in its sub_map").
type Chunk struct {
	FirstKeyIdx int
	LastKeyIdx  int // inclusive
}

// Chunk partitions m (which must already be Finalize()'d) into n
// contiguous chunks. Per spec §4.6 and §9's open question, n is clamped
// to [1, uniqueKeys] rather than assumed valid: n <= 0 becomes 1, and
// n > uniqueKeys becomes uniqueKeys (one key per chunk) so that every
// chunk is non-empty. An empty map (uniqueKeys == 0) produces a single
// empty chunk rather than panicking, so the TOC writer always has
// something to serialize.
func Chunk(m *typedmap.TypedMap, n int) []Chunk {
	total := m.Len()
	if total == 0 {
		return []Chunk{{FirstKeyIdx: 0, LastKeyIdx: -1}}
	}
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}

	chunkSize := total / n
	chunks := make([]Chunk, 0, n)

	start := 0
	for i := 0; i < n-1; i++ {
		end := start + chunkSize - 1
		chunks = append(chunks, Chunk{FirstKeyIdx: start, LastKeyIdx: end})
		start = end + 1
	}
	// the last chunk absorbs the remainder
	chunks = append(chunks, Chunk{FirstKeyIdx: start, LastKeyIdx: total - 1})

	return chunks
}

// ChunkCount applies the heuristic from spec §4.7: N = 2 + floor(unique /
// 50000).
func ChunkCount(uniqueKeys int) int {
	return 2 + uniqueKeys/50000
}
