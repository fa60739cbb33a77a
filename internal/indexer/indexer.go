// Package indexer implements the parallel indexer orchestration of
// spec §4.9: T workers each scan an independent partition of the source
// file and feed a TypedMap, which is then chunked and serialized to the
// on-disk index format. Grounded on original_source/src/index.rs's
// scan_file/build pipeline for the partition-and-accumulate shape, and
// on go/mcap/writer.go's worker-fan-out-then-join style for the Go
// idiom; per §9's explicitly sanctioned reimplementation, workers
// accumulate into per-worker TypedMaps merged at the end rather than
// draining into one mutex-guarded map every 100,000 records — the
// emitted posting multi-set and key set are unchanged either way.
package indexer

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/orottier/csvindex/internal/chunker"
	"github.com/orottier/csvindex/internal/key"
	"github.com/orottier/csvindex/internal/scanner"
	"github.com/orottier/csvindex/internal/store"
	"github.com/orottier/csvindex/internal/typedmap"
)

// Options configures one indexing run.
type Options struct {
	InputPath string
	Column    int // zero-based
	Kind      string
	Threads   int
}

// Result summarizes a completed run for CLI reporting.
type Result struct {
	OutputPath string
	Records    uint64
	Uniques    int
	Chunks     int
}

// Run executes the full pipeline of spec §4.9: partition the source
// file across Options.Threads workers, accumulate a TypedMap, chunk it,
// and write it to "{InputPath}.index.{column+1}".
func Run(ctx context.Context, opts Options, logger *zap.Logger) (Result, error) {
	if opts.Threads < 1 {
		return Result{}, fmt.Errorf("indexer: threads must be >= 1, got %d", opts.Threads)
	}

	info, err := os.Stat(opts.InputPath)
	if err != nil {
		return Result{}, fmt.Errorf("indexer: stat input: %w", err)
	}
	size := info.Size()

	kind, ok := key.ParseKind(opts.Kind)
	if !ok {
		return Result{}, fmt.Errorf("indexer: unknown index kind %q: must be one of str, int, float", opts.Kind)
	}

	chunkSize := size / int64(opts.Threads)
	if chunkSize == 0 {
		chunkSize = size
	}

	g, gctx := errgroup.WithContext(ctx)
	perWorker := make([]*typedmap.TypedMap, opts.Threads)
	perWorkerCounts := make([]uint64, opts.Threads)

	for i := 0; i < opts.Threads; i++ {
		i := i
		g.Go(func() (err error) {
			// Per spec §7, a worker panic terminates the process; log it
			// on the way out instead of letting it corrupt the shared
			// errgroup state silently.
			defer func() {
				if r := recover(); r != nil {
					if logger != nil {
						logger.Error("worker panicked", zap.Int("worker", i), zap.Any("recover", r))
					}
					panic(r)
				}
			}()

			m := typedmap.NewKind(kind)
			count, scanErr := scanPartition(gctx, opts.InputPath, opts.Column, i, opts.Threads, size, chunkSize, m)
			if scanErr != nil {
				return fmt.Errorf("indexer: worker %d: %w", i, scanErr)
			}
			perWorker[i] = m
			perWorkerCounts[i] = count
			if logger != nil {
				logger.Debug("worker finished", zap.Int("worker", i), zap.Uint64("records", count))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	merged := typedmap.NewKind(kind)
	var total uint64
	for i, m := range perWorker {
		merged.Merge(m)
		total += perWorkerCounts[i]
	}
	merged.Finalize()

	if logger != nil {
		lo, hi, ok := merged.KeyRange()
		if ok {
			logger.Info("indexing complete",
				zap.Uint64("records", total),
				zap.Int("uniques", merged.Uniques()),
				zap.String("min_key", fmt.Sprint(lo)),
				zap.String("max_key", fmt.Sprint(hi)),
			)
		} else {
			logger.Info("indexing complete", zap.Uint64("records", total), zap.Int("uniques", 0))
		}
	}

	outPath := fmt.Sprintf("%s.index.%d", opts.InputPath, opts.Column+1)
	out, err := os.Create(outPath)
	if err != nil {
		return Result{}, fmt.Errorf("indexer: create output: %w", err)
	}
	defer out.Close()

	chunkCount := chunker.ChunkCount(merged.Uniques())
	if err := store.Write(out, merged, chunkCount); err != nil {
		return Result{}, fmt.Errorf("indexer: write index: %w", err)
	}

	return Result{
		OutputPath: outPath,
		Records:    total,
		Uniques:    merged.Uniques(),
		Chunks:     chunkCount,
	}, nil
}

// scanPartition opens its own handle on path (per spec §5's "each worker
// has its own source-file handle" requirement — handles carry private
// seek positions) and scans partition (pid*chunkSize, chunkSize), the
// last worker's partition extended to the end of file.
func scanPartition(ctx context.Context, path string, column, pid, threads int, size, chunkSize int64, m *typedmap.TypedMap) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	offset := int64(pid) * chunkSize
	length := chunkSize
	if pid == threads-1 {
		length = size - offset
	}
	if offset >= size {
		return 0, nil
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek: %w", err)
	}

	s, err := scanner.New(f, column, offset, length)
	if err != nil {
		return 0, fmt.Errorf("scan: %w", err)
	}

	var count uint64
	for {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		default:
		}

		field, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("scan: %w", err)
		}

		m.Insert(field.Value, field.Address)
		count++
	}
	return count, nil
}
