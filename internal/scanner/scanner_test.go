package scanner

import (
	"io"
	"strings"
	"testing"

	"github.com/orottier/csvindex/internal/addr"
	"github.com/stretchr/testify/require"
)

const citiesCSV = "city,country,pop\nBoston,United States,4628910\nAmsterdam,Netherlands,7500000\n"

func TestScannerFullFileYieldsBothRecords(t *testing.T) {
	s, err := New(strings.NewReader(citiesCSV), 0, 0, 1000)
	require.NoError(t, err)

	f1, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, addr.Address{Offset: 17, Length: 29}, f1.Address)
	require.Equal(t, "Boston", string(f1.Value))

	f2, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, addr.Address{Offset: 46, Length: 30}, f2.Address)
	require.Equal(t, "Amsterdam", string(f2.Value))

	_, err = s.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestScannerShortLengthStopsAtPartitionBoundary(t *testing.T) {
	s, err := New(strings.NewReader(citiesCSV), 0, 0, 40)
	require.NoError(t, err)

	f1, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, addr.Address{Offset: 17, Length: 29}, f1.Address)

	_, err = s.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestScannerRealignsAfterNonZeroOffset(t *testing.T) {
	s, err := New(strings.NewReader(citiesCSV[25:]), 0, 25, 1000)
	require.NoError(t, err)
	require.EqualValues(t, 21, s.Skipped())

	f1, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, addr.Address{Offset: 46, Length: 30}, f1.Address)
	require.Equal(t, "Amsterdam", string(f1.Value))

	_, err = s.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestScannerMissingColumnYieldsEmptyValue(t *testing.T) {
	s, err := New(strings.NewReader("a,b\nx,y\n"), 5, 0, 1000)
	require.NoError(t, err)

	f, err := s.Next()
	require.NoError(t, err)
	require.Empty(t, f.Value)

	_, err = s.Next()
	require.ErrorIs(t, err, io.EOF)
}
