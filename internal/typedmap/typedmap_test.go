package typedmap

import (
	"testing"

	"github.com/orottier/csvindex/internal/addr"
	"github.com/orottier/csvindex/internal/key"
	"github.com/stretchr/testify/require"
)

func TestInsertAndOrdering(t *testing.T) {
	m, err := New("str")
	require.NoError(t, err)

	m.Insert([]byte("Boston"), addr.Address{Offset: 17, Length: 29})
	m.Insert([]byte("Amsterdam"), addr.Address{Offset: 46, Length: 30})
	m.Finalize()

	require.Equal(t, 2, m.Uniques())
	require.Equal(t, key.Bytes("Amsterdam"), m.KeyAt(0))
	require.Equal(t, key.Bytes("Boston"), m.KeyAt(1))
}

func TestInsertAccumulatesPostings(t *testing.T) {
	m, err := New("str")
	require.NoError(t, err)

	m.Insert([]byte("a"), addr.Address{Offset: 1})
	m.Insert([]byte("a"), addr.Address{Offset: 2})
	m.Insert([]byte("a"), addr.Address{Offset: 3})
	m.Finalize()

	require.Equal(t, 1, m.Uniques())
	posts := m.PostingsAt(0)
	require.Len(t, posts, 3)
	require.Equal(t, uint64(1), posts[0].Offset)
	require.Equal(t, uint64(2), posts[1].Offset)
	require.Equal(t, uint64(3), posts[2].Offset)
}

func TestIntSentinelOnParseFailure(t *testing.T) {
	m, err := New("int")
	require.NoError(t, err)

	m.Insert([]byte("not-a-number"), addr.Address{Offset: 10})
	m.Insert([]byte("42"), addr.Address{Offset: 20})
	m.Finalize()

	require.Equal(t, 2, m.Uniques())
	require.Equal(t, key.SentinelInt64, m.KeyAt(0))
	require.Equal(t, key.Int64(42), m.KeyAt(1))

	min, max, ok := m.KeyRange()
	require.True(t, ok)
	require.Equal(t, key.Int64(42), min)
	require.Equal(t, key.Int64(42), max)
}

func TestFloatSentinelOnParseFailure(t *testing.T) {
	m, err := New("float")
	require.NoError(t, err)

	m.Insert([]byte("nope"), addr.Address{Offset: 10})
	m.Insert([]byte("3.5"), addr.Address{Offset: 20})
	m.Finalize()

	require.True(t, key.IsSentinel(m.KeyAt(0)))
	require.Equal(t, key.Float64(3.5), m.KeyAt(1))
}

func TestRangeScan(t *testing.T) {
	m, err := New("int")
	require.NoError(t, err)

	for _, v := range []int64{1, 2, 3, 4, 5} {
		m.Insert([]byte{byte('0' + v)}, addr.Address{Offset: uint64(v)})
	}
	m.Finalize()

	r := key.Range{Lower: key.IncludedBound(key.Int64(2)), Upper: key.IncludedBound(key.Int64(4))}
	var got []int64
	m.RangeScan(r, func(k key.Key, a addr.Address) {
		got = append(got, int64(k.(key.Int64)))
	})
	require.Equal(t, []int64{2, 3, 4}, got)
}

func TestMerge(t *testing.T) {
	a, _ := New("str")
	b, _ := New("str")

	a.Insert([]byte("x"), addr.Address{Offset: 1})
	b.Insert([]byte("x"), addr.Address{Offset: 2})
	b.Insert([]byte("y"), addr.Address{Offset: 3})

	a.Merge(b)
	a.Finalize()

	require.Equal(t, 2, a.Uniques())
	require.Equal(t, key.Bytes("x"), a.KeyAt(0))
	require.Len(t, a.PostingsAt(0), 2)
}

func TestUnknownKind(t *testing.T) {
	_, err := New("bogus")
	require.Error(t, err)
}
