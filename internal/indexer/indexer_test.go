package indexer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orottier/csvindex/internal/key"
	"github.com/orottier/csvindex/internal/store"
)

func writeTempCSV(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const citiesCSV = "city,country,pop\nBoston,United States,4628910\nAmsterdam,Netherlands,7500000\n"

func TestRunSingleThreadedIndexesAllRecords(t *testing.T) {
	path := writeTempCSV(t, citiesCSV)

	res, err := Run(context.Background(), Options{
		InputPath: path,
		Column:    0,
		Kind:      "str",
		Threads:   1,
	}, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(2), res.Records)
	require.Equal(t, 2, res.Uniques)
	require.Equal(t, path+".index.1", res.OutputPath)

	f, err := os.Open(res.OutputPath)
	require.NoError(t, err)
	defer f.Close()

	rd, err := store.Open(f)
	require.NoError(t, err)
	require.Equal(t, key.KindBytes, rd.Kind)

	chunks := rd.ChunksOverlapping(key.Range{Lower: key.UnboundedBound(), Upper: key.UnboundedBound()})
	var keys []string
	for _, c := range chunks {
		sub, err := rd.ReadChunk(c)
		require.NoError(t, err)
		for i := 0; i < sub.Uniques(); i++ {
			keys = append(keys, string(sub.KeyAt(i).(key.Bytes)))
		}
	}
	require.ElementsMatch(t, []string{"Boston", "Amsterdam"}, keys)
}

func TestRunRejectsZeroThreads(t *testing.T) {
	path := writeTempCSV(t, citiesCSV)
	_, err := Run(context.Background(), Options{InputPath: path, Kind: "str", Threads: 0}, nil)
	require.Error(t, err)
}

func TestRunRejectsUnknownKind(t *testing.T) {
	path := writeTempCSV(t, citiesCSV)
	_, err := Run(context.Background(), Options{InputPath: path, Kind: "bogus", Threads: 1}, nil)
	require.Error(t, err)
}

func TestRunMultiThreadedPartitionsWithoutOverlap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("n\n")
	for i := 0; i < 500; i++ {
		sb.WriteString(itoa(i))
		sb.WriteString("\n")
	}
	path := writeTempCSV(t, sb.String())

	res, err := Run(context.Background(), Options{
		InputPath: path,
		Column:    0,
		Kind:      "int",
		Threads:   4,
	}, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(500), res.Records)
	require.Equal(t, 500, res.Uniques)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
