package store

import "errors"

// Structural/format errors, in the sentinel-var style of go/mcap/errors.go
// (ErrBadOffset, ErrTruncatedRecord, ...): these indicate the index file
// itself is unreadable and are never recovered from, per spec §7.
var (
	// ErrUnknownKeyKind is returned when a persisted kind tag does not
	// match any of key.KindBytes/KindInt64/KindFloat64.
	ErrUnknownKeyKind = errors.New("store: unknown key kind tag")

	// ErrTOCTruncated indicates the TOC-size prefix or TOC payload ran
	// out of bytes before the declared length was reached.
	ErrTOCTruncated = errors.New("store: truncated table of contents")

	// ErrChunkTruncated indicates a chunk's declared compressed length
	// ran past the end of the index file.
	ErrChunkTruncated = errors.New("store: truncated chunk")

	// ErrEmptyChunkRange names the condition of a chunk with no keys. No
	// function in this module returns it; an empty chunk simply yields
	// no matches.
	ErrEmptyChunkRange = errors.New("store: chunk has no keys")
)
