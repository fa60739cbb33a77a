// Package store implements the on-disk index file format (spec §3, §4.7,
// §4.8): an 8-byte big-endian TOC-size prefix, a serialized TOC, and a
// sequence of independently gzip-compressed chunk sub-maps.
//
// format.go holds the deterministic little-endian binary encoding shared
// by the TOC and the chunk sub-maps, grounded on go/mcap/parse.go and
// go/mcap/writer.go's use of encoding/binary for every fixed-width field
// in the MCAP record format: a one-byte kind tag dispatches to one of
// three concretely-typed key encoders, and every Address is fixed-width
// (two uint64s) so a phantom TOC and the final TOC serialize to exactly
// the same length (spec §4.7, §9 "Two-pass TOC write").
package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/orottier/csvindex/internal/addr"
	"github.com/orottier/csvindex/internal/key"
)

func putUint32(buf []byte, v uint32) { binary.LittleEndian.PutUint32(buf, v) }
func getUint32(buf []byte) uint32    { return binary.LittleEndian.Uint32(buf) }
func putUint64(buf []byte, v uint64) { binary.LittleEndian.PutUint64(buf, v) }
func getUint64(buf []byte) uint64    { return binary.LittleEndian.Uint64(buf) }

// writeKey appends the little-endian encoding of k (whose concrete type
// must match kind) to w.
func writeKey(w *bytes.Buffer, kind key.Kind, k key.Key) error {
	switch kind {
	case key.KindBytes:
		b := []byte(k.(key.Bytes))
		var lenBuf [4]byte
		putUint32(lenBuf[:], uint32(len(b)))
		w.Write(lenBuf[:])
		w.Write(b)
	case key.KindInt64:
		var buf [8]byte
		putUint64(buf[:], uint64(k.(key.Int64)))
		w.Write(buf[:])
	case key.KindFloat64:
		var buf [8]byte
		putUint64(buf[:], math.Float64bits(float64(k.(key.Float64))))
		w.Write(buf[:])
	default:
		return ErrUnknownKeyKind
	}
	return nil
}

// keyEncodedLen returns the number of bytes writeKey would emit for k,
// without allocating — used to size buffers up front.
func keyEncodedLen(kind key.Kind, k key.Key) int {
	switch kind {
	case key.KindBytes:
		return 4 + len(k.(key.Bytes))
	case key.KindInt64, key.KindFloat64:
		return 8
	default:
		return 0
	}
}

// readKey decodes one key of the given kind from r.
func readKey(r *bytes.Reader, kind key.Kind) (key.Key, error) {
	switch kind {
	case key.KindBytes:
		var lenBuf [4]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTOCTruncated, err)
		}
		n := getUint32(lenBuf[:])
		b := make([]byte, n)
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTOCTruncated, err)
		}
		return key.Bytes(b), nil
	case key.KindInt64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTOCTruncated, err)
		}
		return key.Int64(getUint64(buf[:])), nil
	case key.KindFloat64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTOCTruncated, err)
		}
		return key.Float64(math.Float64frombits(getUint64(buf[:]))), nil
	default:
		return nil, ErrUnknownKeyKind
	}
}

func writeAddress(w *bytes.Buffer, a addr.Address) {
	var buf [16]byte
	putUint64(buf[0:8], a.Offset)
	putUint64(buf[8:16], a.Length)
	w.Write(buf[:])
}

func readAddress(r *bytes.Reader) (addr.Address, error) {
	var buf [16]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return addr.Address{}, fmt.Errorf("%w: %v", ErrTOCTruncated, err)
	}
	return addr.Address{Offset: getUint64(buf[0:8]), Length: getUint64(buf[8:16])}, nil
}

// tocEntry is one (first_key, chunk_address) pair (spec's TOC entry).
type tocEntry struct {
	FirstKey key.Key
	Chunk    addr.Address
}

// toc is the ordered sequence of tocEntry (spec's TOC), tagged with the
// key kind every entry (and every chunk sub-map) shares.
type toc struct {
	Kind    key.Kind
	Entries []tocEntry
}

// marshalTOC serializes a toc as: kind(1) + count(4) + entries, each
// entry = key + Address(16).
func marshalTOC(t *toc) []byte {
	size := 1 + 4
	for _, e := range t.Entries {
		size += keyEncodedLen(t.Kind, e.FirstKey) + 16
	}
	buf := bytes.NewBuffer(make([]byte, 0, size))
	buf.WriteByte(byte(t.Kind))
	var countBuf [4]byte
	putUint32(countBuf[:], uint32(len(t.Entries)))
	buf.Write(countBuf[:])
	for _, e := range t.Entries {
		_ = writeKey(buf, t.Kind, e.FirstKey)
		writeAddress(buf, e.Chunk)
	}
	return buf.Bytes()
}

// unmarshalTOC is the inverse of marshalTOC.
func unmarshalTOC(data []byte) (*toc, error) {
	r := bytes.NewReader(data)
	kindByte, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTOCTruncated, err)
	}
	kind := key.Kind(kindByte)
	if kind != key.KindBytes && kind != key.KindInt64 && kind != key.KindFloat64 {
		return nil, ErrUnknownKeyKind
	}
	var countBuf [4]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTOCTruncated, err)
	}
	count := getUint32(countBuf[:])
	entries := make([]tocEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		k, err := readKey(r, kind)
		if err != nil {
			return nil, err
		}
		a, err := readAddress(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, tocEntry{FirstKey: k, Chunk: a})
	}
	return &toc{Kind: kind, Entries: entries}, nil
}

// subMapEntry is one key and its posting list, as persisted inside a
// chunk.
type subMapEntry struct {
	Key      key.Key
	Postings []addr.Address
}

// marshalSubMap serializes a chunk's sub-map as: kind(1) + keyCount(4) +
// for each key: key + postingCount(4) + postings.
func marshalSubMap(kind key.Kind, entries []subMapEntry) []byte {
	buf := &bytes.Buffer{}
	buf.WriteByte(byte(kind))
	var countBuf [4]byte
	putUint32(countBuf[:], uint32(len(entries)))
	buf.Write(countBuf[:])
	for _, e := range entries {
		_ = writeKey(buf, kind, e.Key)
		putUint32(countBuf[:], uint32(len(e.Postings)))
		buf.Write(countBuf[:])
		for _, a := range e.Postings {
			writeAddress(buf, a)
		}
	}
	return buf.Bytes()
}

// unmarshalSubMap is the inverse of marshalSubMap.
func unmarshalSubMap(data []byte) (key.Kind, []subMapEntry, error) {
	r := bytes.NewReader(data)
	kindByte, err := r.ReadByte()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrChunkTruncated, err)
	}
	kind := key.Kind(kindByte)
	var countBuf [4]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrChunkTruncated, err)
	}
	keyCount := getUint32(countBuf[:])
	entries := make([]subMapEntry, 0, keyCount)
	for i := uint32(0); i < keyCount; i++ {
		k, err := readKey(r, kind)
		if err != nil {
			return 0, nil, err
		}
		if _, err := io.ReadFull(r, countBuf[:]); err != nil {
			return 0, nil, fmt.Errorf("%w: %v", ErrChunkTruncated, err)
		}
		postingCount := getUint32(countBuf[:])
		postings := make([]addr.Address, postingCount)
		for j := uint32(0); j < postingCount; j++ {
			a, err := readAddress(r)
			if err != nil {
				return 0, nil, err
			}
			postings[j] = a
		}
		entries = append(entries, subMapEntry{Key: k, Postings: postings})
	}
	return kind, entries, nil
}
