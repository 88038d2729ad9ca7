// Package coordinator runs a generator over an index range on a bounded
// worker pool and merges the results into the registry in one step.
package coordinator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Rana718/bulkgen/internal/generator"
	"github.com/Rana718/bulkgen/internal/registry"
	"golang.org/x/sync/errgroup"
)

// GenerationError reports the chunk and index at which a generator failed.
type GenerationError struct {
	Entity string
	Chunk  int
	Index  int
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate %s (chunk %d, index %d): %v", e.Entity, e.Chunk, e.Index, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Options control partitioning and randomness.
type Options struct {
	Workers   int
	BatchSize int
	// Seed makes runs reproducible when non-zero. Each chunk derives its own
	// source from it, so results do not depend on scheduling.
	Seed int64
}

// ChunkSize is max(batch*10, n/workers).
func ChunkSize(n, batchSize, workers int) int {
	if workers < 1 {
		workers = 1
	}
	return max(batchSize*10, n/workers, 1)
}

type chunk struct {
	index      int
	start, end int
}

func partition(n, size int) []chunk {
	var chunks []chunk
	for start, i := 0, 0; start < n; start, i = start+size, i+1 {
		chunks = append(chunks, chunk{index: i, start: start, end: min(start+size, n)})
	}
	return chunks
}

// Run generates n records with gen. Chunks run concurrently on at most
// opts.Workers goroutines and never touch shared state. Once every chunk has
// returned, merge is called exactly once inside reg.Merge with all records in
// index order. On failure nothing is merged and the first error is returned.
func Run[R any](ctx context.Context, entity string, n int, gen generator.Generator[R], opts Options, reg *registry.Registry, merge func(w *registry.Writer, records []R)) ([]R, error) {
	if n <= 0 {
		return nil, nil
	}

	workers := max(opts.Workers, 1)
	chunks := partition(n, ChunkSize(n, opts.BatchSize, workers))
	results := make([][]R, len(chunks))

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, ch := range chunks {
		g.Go(func() error {
			records, err := runChunk(ctx, entity, ch, gen, seed)
			if err != nil {
				return err
			}
			results[ch.index] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]R, 0, n)
	for _, part := range results {
		all = append(all, part...)
	}

	if merge != nil && reg != nil {
		reg.Merge(func(w *registry.Writer) { merge(w, all) })
	}
	return all, nil
}

func runChunk[R any](ctx context.Context, entity string, ch chunk, gen generator.Generator[R], seed int64) (records []R, err error) {
	i := ch.start
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = &GenerationError{Entity: entity, Chunk: ch.index, Index: i, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	rng := rand.New(rand.NewSource(seed + int64(ch.index)))
	records = make([]R, 0, ch.end-ch.start)
	for ; i < ch.end; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := gen.Generate(rng, i)
		if err != nil {
			return nil, &GenerationError{Entity: entity, Chunk: ch.index, Index: i, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}
