package store

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/orottier/csvindex/internal/addr"
	"github.com/orottier/csvindex/internal/chunker"
	"github.com/orottier/csvindex/internal/key"
	"github.com/orottier/csvindex/internal/typedmap"
)

// Write serializes m to w using the two-pass TOC write described in spec
// §4.7/§9: a phantom TOC (boundary keys, zero Addresses) is written first
// to measure its exact serialized size, then the chunks are gzip-written
// and their real Addresses recorded, then the TOC is rewritten in place
// with those Addresses. w must support Seek because step 4 rewrites the
// leading prefix and TOC after the chunks are appended.
//
// m must already be Finalize()'d. chunkCount is clamped the same way
// chunker.Chunk clamps n.
func Write(w io.WriteSeeker, m *typedmap.TypedMap, chunkCount int) error {
	kind := m.Kind()
	chunks := chunker.Chunk(m, chunkCount)

	// Step 1: build the phantom TOC (boundary keys, zero Addresses).
	phantom := &toc{Kind: kind, Entries: make([]tocEntry, 0, len(chunks))}
	for _, c := range chunks {
		var firstKey = emptyChunkKey(kind)
		if c.LastKeyIdx >= c.FirstKeyIdx {
			firstKey = m.KeyAt(c.FirstKeyIdx)
		}
		phantom.Entries = append(phantom.Entries, tocEntry{FirstKey: firstKey, Chunk: addr.Address{}})
	}
	phantomBytes := marshalTOC(phantom)

	// Step 2: emit the 8-byte placeholder prefix, then the phantom TOC.
	var prefix [8]byte
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("store: writing TOC-size placeholder: %w", err)
	}
	if _, err := w.Write(phantomBytes); err != nil {
		return fmt.Errorf("store: writing phantom TOC: %w", err)
	}
	tocLen, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("store: measuring TOC length: %w", err)
	}

	// Step 3: for each chunk, gzip-write its sub-map and record its real
	// Address.
	real := &toc{Kind: kind, Entries: make([]tocEntry, 0, len(chunks))}
	for i, c := range chunks {
		entries := subMapEntriesFor(m, c)

		start, err := w.Seek(0, io.SeekCurrent)
		if err != nil {
			return fmt.Errorf("store: locating chunk %d: %w", i, err)
		}

		gz, err := gzip.NewWriterLevel(w, gzip.BestSpeed)
		if err != nil {
			return fmt.Errorf("store: building gzip writer for chunk %d: %w", i, err)
		}
		if _, err := gz.Write(marshalSubMap(kind, entries)); err != nil {
			return fmt.Errorf("store: compressing chunk %d: %w", i, err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("store: flushing chunk %d: %w", i, err)
		}

		end, err := w.Seek(0, io.SeekCurrent)
		if err != nil {
			return fmt.Errorf("store: locating chunk %d end: %w", i, err)
		}

		real.Entries = append(real.Entries, tocEntry{
			FirstKey: phantom.Entries[i].FirstKey,
			Chunk:    addr.Address{Offset: uint64(start), Length: uint64(end - start)},
		})
	}

	// Step 4: seek to 0, overwrite the prefix with the real TOC length,
	// then rewrite the TOC. The phantom and real TOCs share the same key
	// set and fixed-width Addresses, so they serialize to the same
	// length (spec's required invariant).
	realBytes := marshalTOC(real)
	if len(realBytes) != len(phantomBytes) {
		return fmt.Errorf("store: internal error: TOC size changed between passes (phantom %d, real %d)",
			len(phantomBytes), len(realBytes))
	}
	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("store: seeking to rewrite TOC: %w", err)
	}
	prefix = addr.Encode(uint64(tocLen))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("store: rewriting TOC-size prefix: %w", err)
	}
	if _, err := w.Write(realBytes); err != nil {
		return fmt.Errorf("store: rewriting TOC: %w", err)
	}
	return nil
}

// subMapEntriesFor collects the subMapEntry slice for one chunker.Chunk.
func subMapEntriesFor(m *typedmap.TypedMap, c chunker.Chunk) []subMapEntry {
	if c.LastKeyIdx < c.FirstKeyIdx {
		return nil
	}
	entries := make([]subMapEntry, 0, c.LastKeyIdx-c.FirstKeyIdx+1)
	for i := c.FirstKeyIdx; i <= c.LastKeyIdx; i++ {
		entries = append(entries, subMapEntry{Key: m.KeyAt(i), Postings: m.PostingsAt(i)})
	}
	return entries
}

// emptyChunkKey returns a zero-value placeholder key for an empty chunk
// (only reachable when the whole map is empty), so the phantom TOC always
// has a well-formed FirstKey to encode.
func emptyChunkKey(kind key.Kind) key.Key {
	switch kind {
	case key.KindInt64:
		return key.Int64(0)
	case key.KindFloat64:
		return key.Float64(0)
	default:
		return key.Bytes(nil)
	}
}
