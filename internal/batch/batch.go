// Package batch splits large id lists into fixed-size chunks for fan-out
// fetching and reassembles the per-chunk results in original order.
package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the id-count limit the scorecard API accepts per
// request path segment.
const DefaultChunkSize = 50

// maxConcurrentChunks caps the number of chunk fetches in flight at once.
const maxConcurrentChunks = 5

// Chunk partitions ids into contiguous chunks of at most size elements,
// preserving order. A non-positive size yields a single chunk. The returned
// chunks alias the input slice.
func Chunk[T any](ids []T, size int) [][]T {
	if len(ids) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]T{ids}
	}
	chunks := make([][]T, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// FanOut issues fetch once per chunk of ids, joining the results by chunk
// position so the merged output order equals the input id order no matter
// which chunk resolves first. Fetches run concurrently, bounded by
// maxConcurrentChunks. Any chunk failure fails the whole call and cancels
// the remaining fetches; partial results are never surfaced.
func FanOut[ID, R any](
	ctx context.Context,
	ids []ID,
	size int,
	fetch func(ctx context.Context, chunk []ID) ([]R, error),
) ([]R, error) {
	chunks := Chunk(ids, size)
	if len(chunks) == 0 {
		return nil, nil
	}

	// Each goroutine writes only its own index, so no mutex is needed.
	results := make([][]R, len(chunks))

	sem := make(chan struct{}, maxConcurrentChunks)
	g, gctx := errgroup.WithContext(ctx)

CHUNKS:
	for i, chunk := range chunks {
		select {
		case sem <- struct{}{}:
		case <-gctx.Done():
			break CHUNKS
		}

		i, chunk := i, chunk
		g.Go(func() error {
			defer func() { <-sem }()

			part, err := fetch(gctx, chunk)
			if err != nil {
				return fmt.Errorf("fetch chunk %d of %d: %w", i+1, len(chunks), err)
			}
			results[i] = part
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []R
	for _, part := range results {
		merged = append(merged, part...)
	}
	return merged, nil
}
