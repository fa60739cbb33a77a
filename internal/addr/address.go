// Package addr implements the Address pointer type (§3) and the 8-byte
// big-endian length codec (§4.1) used for the TOC-size prefix.
package addr

import "encoding/binary"

// Address is a (offset, length) byte range, into either the source data
// file or the index file itself.
type Address struct {
	Offset uint64
	Length uint64
}

// PutUint64 encodes x as 8 big-endian bytes into buf, which must have
// length >= 8. It returns 8, matching the encoding/binary helper style
// the teacher's writer.go uses for its own fixed-width fields.
func PutUint64(buf []byte, x uint64) int {
	binary.BigEndian.PutUint64(buf, x)
	return 8
}

// Uint64 decodes 8 big-endian bytes from buf into a uint64.
func Uint64(buf []byte) uint64 {
	return binary.BigEndian.Uint64(buf)
}

// Encode returns the 8-byte big-endian encoding of x.
func Encode(x uint64) [8]byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], x)
	return b
}

// Decode is the inverse of Encode.
func Decode(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
