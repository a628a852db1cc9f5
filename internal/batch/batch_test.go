package batch_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/complianceops/scorecard/internal/batch"
)

// ── Chunk ─────────────────────────────────────────────────────────────────────

func TestChunk_SplitsIntoContiguousChunks(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		size      int
		wantSizes []int
	}{
		{"empty input", 0, 50, nil},
		{"single partial chunk", 7, 50, []int{7}},
		{"exact multiple", 100, 50, []int{50, 50}},
		{"remainder chunk", 130, 50, []int{50, 50, 30}},
		{"size one", 3, 1, []int{1, 1, 1}},
		{"non-positive size yields one chunk", 9, 0, []int{9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, tt.count)
			for i := range ids {
				ids[i] = strconv.Itoa(i)
			}

			chunks := batch.Chunk(ids, tt.size)
			if len(chunks) != len(tt.wantSizes) {
				t.Fatalf("got %d chunks; want %d", len(chunks), len(tt.wantSizes))
			}
			next := 0
			for i, chunk := range chunks {
				if len(chunk) != tt.wantSizes[i] {
					t.Errorf("chunk %d has %d ids; want %d", i, len(chunk), tt.wantSizes[i])
				}
				for _, id := range chunk {
					if id != strconv.Itoa(next) {
						t.Fatalf("chunk %d out of order: got %s; want %d", i, id, next)
					}
					next++
				}
			}
		})
	}
}

// ── FanOut ────────────────────────────────────────────────────────────────────

func TestFanOut_EmptyInput_NoFetches(t *testing.T) {
	called := false
	got, err := batch.FanOut(context.Background(), nil, 50, func(ctx context.Context, chunk []string) ([]string, error) {
		called = true
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("got %v; want nil for empty input", got)
	}
	if called {
		t.Error("fetch must not be called for empty input")
	}
}

func TestFanOut_MergesInInputOrder(t *testing.T) {
	ids := make([]int, 130)
	for i := range ids {
		ids[i] = i
	}

	// Block the first chunk until the last one has resolved, so completion
	// order is the reverse of input order.
	release := make(chan struct{})
	var once sync.Once

	got, err := batch.FanOut(context.Background(), ids, 50, func(ctx context.Context, chunk []int) ([]int, error) {
		if chunk[0] == 0 {
			<-release
		}
		if chunk[len(chunk)-1] == 129 {
			once.Do(func() { close(release) })
		}
		return chunk, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 130 {
		t.Fatalf("got %d results; want 130", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("result %d = %d; merged order must match input order", i, v)
		}
	}
}

func TestFanOut_OneChunkFails_NothingSurfaced(t *testing.T) {
	ids := make([]int, 130)
	for i := range ids {
		ids[i] = i
	}
	boom := errors.New("boom")

	got, err := batch.FanOut(context.Background(), ids, 50, func(ctx context.Context, chunk []int) ([]int, error) {
		if chunk[0] == 50 {
			return nil, boom
		}
		return chunk, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got error %v; want wrapped boom", err)
	}
	if got != nil {
		t.Errorf("partial results must not be surfaced, got %d", len(got))
	}
	if err != nil && !strings.Contains(err.Error(), "chunk 2 of 3") {
		t.Errorf("error must name the failed chunk, got: %v", err)
	}
}

func TestFanOut_ContextCancellation_StopsFetches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ids := make([]int, 500)
	_, err := batch.FanOut(ctx, ids, 50, func(ctx context.Context, chunk []int) ([]int, error) {
		return nil, ctx.Err()
	})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
