package store

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/orottier/csvindex/internal/addr"
	"github.com/orottier/csvindex/internal/key"
	"github.com/orottier/csvindex/internal/typedmap"
)

// Reader opens an index file and answers "which chunks could contain
// keys in this range" (spec §4.8), without decompressing anything until
// ReadChunk is called.
type Reader struct {
	r    io.ReaderAt
	Kind key.Kind
	toc  *toc
}

// Open reads the 8-byte TOC-size prefix and the TOC itself from r. It
// does not read or decompress any chunk.
func Open(r io.ReaderAt) (*Reader, error) {
	var prefix [8]byte
	if _, err := readAt(r, prefix[:], 0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTOCTruncated, err)
	}
	tocLen := addr.Decode(prefix[:])
	if tocLen < 8 {
		return nil, fmt.Errorf("%w: implausible TOC length %d", ErrTOCTruncated, tocLen)
	}
	tocBytes := make([]byte, tocLen-8)
	if _, err := readAt(r, tocBytes, 8); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTOCTruncated, err)
	}
	t, err := unmarshalTOC(tocBytes)
	if err != nil {
		return nil, err
	}
	return &Reader{r: r, Kind: t.Kind, toc: t}, nil
}

func readAt(r io.ReaderAt, buf []byte, off int64) (int, error) {
	n, err := r.ReadAt(buf, off)
	if err != nil && !(err == io.EOF && n == len(buf)) {
		return n, err
	}
	return n, nil
}

// NumChunks returns the number of chunks recorded in the TOC.
func (rd *Reader) NumChunks() int { return len(rd.toc.Entries) }

// implicitRange returns the key range implied by TOC entry i: [first_key,
// first_key_of_next) for every entry but the last, and [first_key, +∞)
// for the last (spec §4.8).
func (rd *Reader) implicitRange(i int) key.Range {
	lower := key.IncludedBound(rd.toc.Entries[i].FirstKey)
	if i == len(rd.toc.Entries)-1 {
		return key.Range{Lower: lower, Upper: key.UnboundedBound()}
	}
	return key.Range{Lower: lower, Upper: key.ExcludedBound(rd.toc.Entries[i+1].FirstKey)}
}

// ChunksOverlapping returns the index-file Addresses of every chunk whose
// implicit key range overlaps q, in TOC order (spec §4.8, §6 "TOC-chunk
// order").
func (rd *Reader) ChunksOverlapping(q key.Range) []addr.Address {
	var out []addr.Address
	for i := range rd.toc.Entries {
		if key.Overlap(rd.implicitRange(i), q) {
			out = append(out, rd.toc.Entries[i].Chunk)
		}
	}
	return out
}

// ReadChunk seeks to a, bounded-reads a.Length compressed bytes,
// gzip-decodes and deserializes them into a finalized (sorted) TypedMap.
func (rd *Reader) ReadChunk(a addr.Address) (*typedmap.TypedMap, error) {
	compressed := make([]byte, a.Length)
	if _, err := readAt(rd.r, compressed, int64(a.Offset)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChunkTruncated, err)
	}
	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChunkTruncated, err)
	}
	defer gz.Close()
	raw, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChunkTruncated, err)
	}
	kind, entries, err := unmarshalSubMap(raw)
	if err != nil {
		return nil, err
	}
	m := typedmap.NewKind(kind)
	for _, e := range entries {
		for _, p := range e.Postings {
			m.InsertKey(e.Key, p)
		}
	}
	m.Finalize()
	return m, nil
}
