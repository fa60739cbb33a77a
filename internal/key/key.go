// Package key defines the typed key abstraction shared by insertion,
// persistence and range evaluation: a discriminated union of a raw byte
// string, a signed 64-bit integer and a totally ordered 64-bit float.
package key

import (
	"bytes"
	"math"
)

// Kind names the three concrete key variants a single index file can hold.
type Kind byte

const (
	KindBytes Kind = iota
	KindInt64
	KindFloat64
)

// ParseKind maps a case-insensitive CLI type name to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch toUpper(s) {
	case "STR", "":
		return KindBytes, true
	case "INT":
		return KindInt64, true
	case "FLOAT":
		return KindFloat64, true
	default:
		return 0, false
	}
}

func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "str"
	case KindInt64:
		return "int"
	case KindFloat64:
		return "float"
	default:
		return "unknown"
	}
}

func toUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// Key is implemented by Bytes, Int64 and Float64. Compare returns a value
// <0, 0 or >0 the way bytes.Compare does. Both arguments of Compare must be
// the same concrete type; callers in this module never mix key kinds.
type Key interface {
	Compare(other Key) int
}

// Bytes is a raw byte-sequence key, compared lexicographically. Strings
// never undergo Unicode collation; byte order is the only order (see
// spec's Non-goals).
type Bytes []byte

func (b Bytes) Compare(other Key) int {
	return bytes.Compare(b, other.(Bytes))
}

// Int64 is a signed 64-bit integer key in natural order. Values that
// failed to parse during insertion are represented by SentinelInt64.
type Int64 int64

// SentinelInt64 is used in place of a field that failed to parse as an
// integer. Chosen so that ordering-predicate ranges translated by
// Int64Range exclude it, per spec.
const SentinelInt64 = Int64(math.MinInt64)

func (i Int64) Compare(other Key) int {
	o := other.(Int64)
	switch {
	case i < o:
		return -1
	case i > o:
		return 1
	default:
		return 0
	}
}

// Float64 wraps a float64 with a total order suitable for use as a sorted
// key. Per the REDESIGN FLAG in spec §9, the order is derived from the
// IEEE-754 bit pattern (Go's math.Float64bits mapped monotonically),
// rather than "partial_compare, else Less" — so NaN sorts consistently
// with itself and with every other float. Compare and Equal (raw ==) can
// disagree: Compare treats identical NaN bit patterns as equal and orders
// -0 before +0, while == says NaN != NaN and -0 == +0.
type Float64 float64

// NegInfSentinel is the sentinel key inserted for floats that failed to
// parse, matching spec §4.5 ("same pattern, using −∞ as sentinel").
var NegInfSentinel = Float64(math.Inf(-1))

// orderedBits returns a uint64 such that a < b (as floats, with NaNs
// carrying the sign bit ordered below -Inf, NaNs without it ordered above
// +Inf, and -0 below +0) iff orderedBits(a) < orderedBits(b).
func orderedBits(f float64) uint64 {
	bits := math.Float64bits(f)
	if bits&(1<<63) != 0 {
		// negative (or NaN with sign bit set): flip all bits so more
		// negative magnitudes sort lower.
		return ^bits
	}
	// positive: flip just the sign bit so positives sort above negatives.
	return bits | (1 << 63)
}

func (f Float64) Compare(other Key) int {
	o := other.(Float64)
	a, b := orderedBits(float64(f)), orderedBits(float64(o))
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports raw float equality (NaN != NaN), independent of Compare's
// total order. Spec §4.2 calls this out explicitly: the map's ordering
// invariant comes from Compare, not from this.
func (f Float64) Equal(other Float64) bool {
	return float64(f) == float64(other)
}
