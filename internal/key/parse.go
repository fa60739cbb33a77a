package key

import (
	"math"
	"strconv"
)

// FromBytes builds the key for a raw_field_bytes insertion under the given
// kind, per spec §4.5: Bytes keys use the field verbatim; Int64/Float64
// keys parse the field as UTF-8 text and fall back to a sentinel on any
// parse failure rather than rejecting the record.
func FromBytes(kind Kind, raw []byte) Key {
	switch kind {
	case KindBytes:
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return Bytes(cp)
	case KindInt64:
		n, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return SentinelInt64
		}
		return Int64(n)
	case KindFloat64:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return NegInfSentinel
		}
		return Float64(f)
	default:
		panic("key: unknown kind")
	}
}

// IsSentinel reports whether k is the failed-parse sentinel for its kind.
// Bytes keys have no sentinel.
func IsSentinel(k Key) bool {
	switch v := k.(type) {
	case Int64:
		return v == SentinelInt64
	case Float64:
		return v.Equal(NegInfSentinel)
	default:
		return false
	}
}

// MinInt64, MaxInt64, NegInfFloat and PosInfFloat return the exclusive
// numeric sentinels used by §4.3's
// relational-predicate translation for lt/le/gt/ge, so that rows whose
// value failed to parse are never matched by an ordering comparison.
func MinInt64() Int64       { return Int64(math.MinInt64) }
func MaxInt64() Int64       { return Int64(math.MaxInt64) }
func NegInfFloat() Float64  { return Float64(math.Inf(-1)) }
func PosInfFloat() Float64  { return Float64(math.Inf(1)) }
