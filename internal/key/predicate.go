package key

import (
	"fmt"
	"strings"
)

// Op is a relational predicate from the CLI's `filter` subcommand.
type Op byte

const (
	OpEq Op = iota
	OpLt
	OpLe
	OpGt
	OpGe
	OpIn
	OpPrefix
)

// ParseOp maps a case-insensitive CLI op name to an Op. "pre" is the CLI
// spelling for OpPrefix (spec §6).
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(s) {
	case "eq":
		return OpEq, nil
	case "lt":
		return OpLt, nil
	case "le":
		return OpLe, nil
	case "gt":
		return OpGt, nil
	case "ge":
		return OpGe, nil
	case "in":
		return OpIn, nil
	case "pre":
		return OpPrefix, nil
	default:
		return 0, fmt.Errorf("unknown operator %q", s)
	}
}

// BytesRange builds the Range for a byte-keyed predicate, per spec §4.3's
// Bytes/Generic column of the relational-predicate table.
func BytesRange(op Op, v, v2 []byte) (Range, error) {
	switch op {
	case OpEq:
		k := Bytes(v)
		return Range{IncludedBound(k), IncludedBound(k)}, nil
	case OpLe:
		return Range{UnboundedBound(), IncludedBound(Bytes(v))}, nil
	case OpLt:
		return Range{UnboundedBound(), ExcludedBound(Bytes(v))}, nil
	case OpGe:
		return Range{IncludedBound(Bytes(v)), UnboundedBound()}, nil
	case OpGt:
		return Range{ExcludedBound(Bytes(v)), UnboundedBound()}, nil
	case OpIn:
		return Range{IncludedBound(Bytes(v)), IncludedBound(Bytes(v2))}, nil
	case OpPrefix:
		upper, unbounded := prefixUpperBound(v)
		if unbounded {
			return Range{IncludedBound(Bytes(v)), UnboundedBound()}, nil
		}
		return Range{IncludedBound(Bytes(v)), ExcludedBound(Bytes(upper))}, nil
	default:
		return Range{}, fmt.Errorf("unsupported operator %v", op)
	}
}

// prefixUpperBound computes the lexicographically smallest byte string
// that is strictly greater than every string having prefix as a prefix:
// increment the last byte that isn't 0xFF, dropping every 0xFF byte after
// it. If prefix is empty or is all 0xFF bytes, no such finite string
// exists and the upper bound is Unbounded.
//
// This replaces the original implementation's heuristic of appending four
// 0xFF bytes (src/filter.rs in original_source/, and spec §9's
// "open question"), which misses any key with five or more trailing 0xFF
// bytes after the prefix.
func prefixUpperBound(prefix []byte) (upper []byte, unbounded bool) {
	i := len(prefix) - 1
	for i >= 0 && prefix[i] == 0xFF {
		i--
	}
	if i < 0 {
		return nil, true
	}
	upper = make([]byte, i+1)
	copy(upper, prefix[:i+1])
	upper[i]++
	return upper, false
}

// Int64Range builds the Range for an int64-keyed predicate, per spec
// §4.3's Int/Float column: MIN is used as an exclusive sentinel bound so
// that records whose value failed to parse (and were indexed under
// SentinelInt64) are skipped by ordering predicates.
func Int64Range(op Op, v, v2 int64) (Range, error) {
	switch op {
	case OpEq:
		k := Int64(v)
		return Range{IncludedBound(k), IncludedBound(k)}, nil
	case OpLe:
		return Range{ExcludedBound(MinInt64()), IncludedBound(Int64(v))}, nil
	case OpLt:
		return Range{ExcludedBound(MinInt64()), ExcludedBound(Int64(v))}, nil
	case OpGe:
		return Range{IncludedBound(Int64(v)), ExcludedBound(MaxInt64())}, nil
	case OpGt:
		return Range{ExcludedBound(Int64(v)), ExcludedBound(MaxInt64())}, nil
	case OpIn:
		return Range{IncludedBound(Int64(v)), IncludedBound(Int64(v2))}, nil
	case OpPrefix:
		return Range{}, fmt.Errorf("prefix operator is not defined for integer columns")
	default:
		return Range{}, fmt.Errorf("unsupported operator %v", op)
	}
}

// Float64Range builds the Range for a float64-keyed predicate, analogous
// to Int64Range but with -Inf as the exclusive sentinel bound.
func Float64Range(op Op, v, v2 float64) (Range, error) {
	switch op {
	case OpEq:
		k := Float64(v)
		return Range{IncludedBound(k), IncludedBound(k)}, nil
	case OpLe:
		return Range{ExcludedBound(NegInfFloat()), IncludedBound(Float64(v))}, nil
	case OpLt:
		return Range{ExcludedBound(NegInfFloat()), ExcludedBound(Float64(v))}, nil
	case OpGe:
		return Range{IncludedBound(Float64(v)), ExcludedBound(PosInfFloat())}, nil
	case OpGt:
		return Range{ExcludedBound(Float64(v)), ExcludedBound(PosInfFloat())}, nil
	case OpIn:
		return Range{IncludedBound(Float64(v)), IncludedBound(Float64(v2))}, nil
	case OpPrefix:
		return Range{}, fmt.Errorf("prefix operator is not defined for float columns")
	default:
		return Range{}, fmt.Errorf("unsupported operator %v", op)
	}
}
