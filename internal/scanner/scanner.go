package scanner

import (
	"bufio"
	"io"

	"github.com/orottier/csvindex/internal/addr"
)

// Field pairs one record's Address with the raw bytes of the target column.
type Field struct {
	Address addr.Address
	Value   []byte
}

// Scanner produces the (Address, field_bytes) sequence spec §4.4 describes
// for one worker's partition of a source file: realign to a record
// boundary, skip the header on the first partition, then emit one Field
// per record until a record starting at or past the partition length is
// reached.
type Scanner struct {
	tok        *Tokenizer
	column     int
	length     int64
	streamBase int64
	skipped    int64
	done       bool
}

// New constructs a Scanner reading from r, which must already be
// positioned at offset O within the source file. column is the zero-based
// target column. offset and length are O and L from spec §4.4.
//
// If offset is 0 the header row is skipped. If offset is > 0, New first
// discards bytes up to and including the first newline at or after
// offset — the realignment step that gives adjacent (pid*L, L) partitions
// exact, non-overlapping record coverage — and records how many bytes
// were skipped via Skipped().
func New(r io.Reader, column int, offset, length int64) (*Scanner, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	var skipped int64
	if offset > 0 {
		n, err := discardThroughNewline(br)
		if err != nil && err != io.EOF {
			return nil, err
		}
		skipped = n
	}

	s := &Scanner{
		tok:        NewTokenizer(br),
		column:     column,
		length:     length,
		streamBase: offset + skipped,
		skipped:    skipped,
	}

	if offset == 0 {
		if _, err := s.tok.Next(); err != nil && err != io.EOF {
			return nil, err
		}
	}

	return s, nil
}

// Skipped returns the number of realignment bytes discarded before the
// first parsed record, for diagnostic logging.
func (s *Scanner) Skipped() int64 { return s.skipped }

// Next returns the next Field in the partition, or io.EOF once the
// partition's record range is exhausted.
func (s *Scanner) Next() (Field, error) {
	if s.done {
		return Field{}, io.EOF
	}

	for {
		rec, err := s.tok.Next()
		if err == io.EOF {
			s.done = true
			return Field{}, io.EOF
		}
		if err != nil {
			return Field{}, err
		}
		if s.skipped+rec.Start >= s.length {
			s.done = true
			return Field{}, io.EOF
		}

		var val []byte
		if s.column < len(rec.Fields) {
			val = rec.Fields[s.column]
		}
		return Field{
			Address: addr.Address{
				Offset: uint64(s.streamBase + rec.Start),
				Length: uint64(rec.End - rec.Start),
			},
			Value: val,
		}, nil
	}
}

// discardThroughNewline reads and discards bytes up to and including the
// next 0x0A, returning the count discarded.
func discardThroughNewline(r *bufio.Reader) (int64, error) {
	var n int64
	for {
		b, err := r.ReadByte()
		if err != nil {
			return n, err
		}
		n++
		if b == '\n' {
			return n, nil
		}
	}
}
