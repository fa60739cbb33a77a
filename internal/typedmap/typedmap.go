// Package typedmap implements TypedMap (spec §3, §4.5): a totally ordered
// K -> []Address multi-map, concretely typed over one of key.Bytes,
// key.Int64 or key.Float64 so that no dynamic dispatch (reflection, type
// switches scattered across callers) is needed once a kind is chosen.
//
// Go has no built-in sorted map (the original Rust implementation uses a
// BTreeMap, which stays sorted as you insert). TypedMap instead keeps an
// append-only slice plus a side index from marshaled key to slot for O(1)
// amortized insertion, and sorts once in Finalize before the map is
// chunked or range-scanned — the same "accumulate, then sort" shape as
// sort.Sort-based code throughout the example pack.
package typedmap

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/orottier/csvindex/internal/addr"
	"github.com/orottier/csvindex/internal/key"
)

// entry is one key and its posting list.
type entry struct {
	Key   key.Key
	Posts []addr.Address
}

// TypedMap is a multi-map over one of the three key kinds. It must be
// sorted (via Finalize) before KeyAt/PostingsAt/RangeScan/ForEach are
// used.
type TypedMap struct {
	kind    key.Kind
	entries []entry
	index   map[string]int // marshaled-key -> index into entries
	sorted  bool
}

// New constructs an empty TypedMap of the given kind. kindName is
// case-insensitive and must be one of "STR", "INT", "FLOAT" (spec §4.5);
// an unrecognized name is a user error.
func New(kindName string) (*TypedMap, error) {
	k, ok := key.ParseKind(kindName)
	if !ok {
		return nil, fmt.Errorf("unknown index kind %q: must be one of str, int, float", kindName)
	}
	return NewKind(k), nil
}

// NewKind constructs an empty TypedMap of an already-resolved Kind.
func NewKind(k key.Kind) *TypedMap {
	return &TypedMap{kind: k, index: make(map[string]int)}
}

// Kind returns the map's key kind.
func (m *TypedMap) Kind() key.Kind { return m.kind }

// Insert appends a to the posting list for the key parsed from
// rawFieldBytes under the map's kind, per spec §4.5.
func (m *TypedMap) Insert(rawFieldBytes []byte, a addr.Address) {
	m.InsertKey(key.FromBytes(m.kind, rawFieldBytes), a)
}

// InsertKey inserts a pre-parsed key directly; used when merging
// worker-local maps without re-parsing field bytes.
func (m *TypedMap) InsertKey(k key.Key, a addr.Address) {
	mk := marshalKey(k)
	if i, ok := m.index[mk]; ok {
		m.entries[i].Posts = append(m.entries[i].Posts, a)
		return
	}
	m.index[mk] = len(m.entries)
	m.entries = append(m.entries, entry{Key: k, Posts: []addr.Address{a}})
	m.sorted = false
}

// Merge drains postings from other into m, preserving each key's posting
// order (other's postings are appended after m's existing postings for
// that key). Used to combine per-worker maps in the parallel indexer.
func (m *TypedMap) Merge(other *TypedMap) {
	for _, e := range other.entries {
		mk := marshalKey(e.Key)
		if i, ok := m.index[mk]; ok {
			m.entries[i].Posts = append(m.entries[i].Posts, e.Posts...)
			continue
		}
		m.index[mk] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	m.sorted = false
}

// Finalize sorts entries by key order. It is idempotent and cheap to call
// again after further inserts; required before KeyAt/PostingsAt/ForEach/
// RangeScan/chunker.Chunk are used.
func (m *TypedMap) Finalize() {
	if m.sorted {
		return
	}
	sort.Slice(m.entries, func(i, j int) bool {
		return m.entries[i].Key.Compare(m.entries[j].Key) < 0
	})
	for i, e := range m.entries {
		m.index[marshalKey(e.Key)] = i
	}
	m.sorted = true
}

// Uniques returns the number of distinct keys (spec §4.5 uniques()).
func (m *TypedMap) Uniques() int { return len(m.entries) }

// Len is an alias for Uniques.
func (m *TypedMap) Len() int { return len(m.entries) }

// TotalPostings returns the total number of (key, Address) pairs across
// every key, i.e. the number of indexed records.
func (m *TypedMap) TotalPostings() int {
	n := 0
	for _, e := range m.entries {
		n += len(e.Posts)
	}
	return n
}

// KeyAt returns the i-th smallest key. Requires Finalize.
func (m *TypedMap) KeyAt(i int) key.Key { return m.entries[i].Key }

// PostingsAt returns the posting list for the i-th smallest key. Requires
// Finalize.
func (m *TypedMap) PostingsAt(i int) []addr.Address { return m.entries[i].Posts }

// KeyRange returns the minimum and maximum non-sentinel key, for
// diagnostic logging (spec §4.5 key_range()). ok is false for an empty map
// or a map containing only sentinel keys.
func (m *TypedMap) KeyRange() (min, max key.Key, ok bool) {
	for _, e := range m.entries {
		if key.IsSentinel(e.Key) {
			continue
		}
		if !ok {
			min, max, ok = e.Key, e.Key, true
			continue
		}
		if e.Key.Compare(min) < 0 {
			min = e.Key
		}
		if e.Key.Compare(max) > 0 {
			max = e.Key
		}
	}
	return min, max, ok
}

// ForEach visits every (key, postings) pair in ascending key order.
// Requires Finalize.
func (m *TypedMap) ForEach(fn func(k key.Key, postings []addr.Address)) {
	for _, e := range m.entries {
		fn(e.Key, e.Posts)
	}
}

// RangeScan invokes emit, in ascending key order, for every posting whose
// key falls inside r — used by the filter driver to scan a decompressed
// chunk sub-map for matches (spec §4.8). Requires Finalize.
func (m *TypedMap) RangeScan(r key.Range, emit func(k key.Key, a addr.Address)) {
	for _, e := range m.entries {
		if inRange(e.Key, r) {
			for _, a := range e.Posts {
				emit(e.Key, a)
			}
		}
	}
}

func inRange(k key.Key, r key.Range) bool {
	return boundAllowsLower(r.Lower, k) && boundAllowsUpper(r.Upper, k)
}

func boundAllowsLower(b key.Bound, k key.Key) bool {
	switch b.Kind {
	case key.Unbounded:
		return true
	case key.Included:
		return k.Compare(b.Val) >= 0
	case key.Excluded:
		return k.Compare(b.Val) > 0
	}
	return false
}

func boundAllowsUpper(b key.Bound, k key.Key) bool {
	switch b.Kind {
	case key.Unbounded:
		return true
	case key.Included:
		return k.Compare(b.Val) <= 0
	case key.Excluded:
		return k.Compare(b.Val) < 0
	}
	return false
}

// marshalKey produces a Go-comparable string for the side index. It need
// only be collision-free per kind, not ordered — ordering always comes
// from Key.Compare.
func marshalKey(k key.Key) string {
	switch v := k.(type) {
	case key.Bytes:
		return "b:" + string(v)
	case key.Int64:
		return "i:" + strconv.FormatInt(int64(v), 10)
	case key.Float64:
		return "f:" + strconv.FormatUint(math.Float64bits(float64(v)), 16)
	default:
		panic("typedmap: unknown key type")
	}
}
