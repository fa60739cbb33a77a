// Package query implements the filter driver of spec §4.8/§6: translate
// a CLI predicate into a key.Range, locate the overlapping TOC chunks,
// decompress and range-scan each one, and stream the matching source
// records verbatim to an output sink. Grounded on
// original_source/src/filter.rs's query-then-stream loop and on
// go/mcap/reader.go's "open index, then read referenced byte ranges from
// the data file" shape.
package query

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/orottier/csvindex/internal/addr"
	"github.com/orottier/csvindex/internal/key"
	"github.com/orottier/csvindex/internal/store"
)

// Options configures one filter invocation.
type Options struct {
	SourcePath string
	IndexPath  string
	Op         string
	Value      string
	Value2     string // only used by "in"
}

// Stats summarizes a completed filter run for CLI reporting.
type Stats struct {
	ChunksRead int
	Records    uint64
}

// Run executes the filter pipeline, writing matching records to out in
// TOC-chunk order then in-chunk posting order, with no deduplication
// (spec §6 Output).
func Run(opts Options, out io.Writer, logger *zap.Logger) (Stats, error) {
	idx, err := os.Open(opts.IndexPath)
	if err != nil {
		return Stats{}, fmt.Errorf("query: open index file: %w", err)
	}
	defer idx.Close()

	rd, err := store.Open(idx)
	if err != nil {
		return Stats{}, fmt.Errorf("query: open index: %w", err)
	}

	op, err := key.ParseOp(opts.Op)
	if err != nil {
		return Stats{}, fmt.Errorf("query: %w", err)
	}

	r, err := buildRange(rd.Kind, op, opts.Value, opts.Value2)
	if err != nil {
		return Stats{}, fmt.Errorf("query: %w", err)
	}

	src, err := os.Open(opts.SourcePath)
	if err != nil {
		return Stats{}, fmt.Errorf("query: open source file: %w", err)
	}
	defer src.Close()

	chunks := rd.ChunksOverlapping(r)
	if logger != nil {
		logger.Debug("chunk selection", zap.Int("total_chunks", rd.NumChunks()), zap.Int("selected", len(chunks)))
	}

	var stats Stats
	buf := make([]byte, 0, 4096)
	for _, c := range chunks {
		sub, err := rd.ReadChunk(c)
		if err != nil {
			return stats, fmt.Errorf("query: read chunk: %w", err)
		}
		stats.ChunksRead++

		var scanErr error
		sub.RangeScan(r, func(_ key.Key, a addr.Address) {
			if scanErr != nil {
				return
			}
			if cap(buf) < int(a.Length) {
				buf = make([]byte, a.Length)
			}
			buf = buf[:a.Length]
			if _, err := src.ReadAt(buf, int64(a.Offset)); err != nil && err != io.EOF {
				scanErr = fmt.Errorf("query: read source record: %w", err)
				return
			}
			if _, err := out.Write(buf); err != nil {
				scanErr = fmt.Errorf("query: write output: %w", err)
				return
			}
			stats.Records++
		})
		if scanErr != nil {
			return stats, scanErr
		}
	}

	return stats, nil
}

// buildRange parses opts.Value (and Value2, for "in") under rd.Kind and
// translates the predicate into a key.Range via the §4.3 table.
func buildRange(kind key.Kind, op key.Op, v, v2 string) (key.Range, error) {
	switch kind {
	case key.KindBytes:
		return key.BytesRange(op, []byte(v), []byte(v2))
	case key.KindInt64:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return key.Range{}, fmt.Errorf("value %q is not a valid int: %w", v, err)
		}
		var n2 int64
		if op == key.OpIn {
			n2, err = strconv.ParseInt(v2, 10, 64)
			if err != nil {
				return key.Range{}, fmt.Errorf("value2 %q is not a valid int: %w", v2, err)
			}
		}
		return key.Int64Range(op, n, n2)
	case key.KindFloat64:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return key.Range{}, fmt.Errorf("value %q is not a valid float: %w", v, err)
		}
		var f2 float64
		if op == key.OpIn {
			f2, err = strconv.ParseFloat(v2, 64)
			if err != nil {
				return key.Range{}, fmt.Errorf("value2 %q is not a valid float: %w", v2, err)
			}
		}
		return key.Float64Range(op, f, f2)
	default:
		return key.Range{}, fmt.Errorf("unknown index kind %v", kind)
	}
}
