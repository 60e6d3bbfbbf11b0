package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/regiaodoslagos/concierge/internal/core/domain"
)

type embedderFake struct {
	calls  int
	vector []float32
	err    error
}

func (f *embedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func TestEmbedQueryCachesByText(t *testing.T) {
	inner := &embedderFake{vector: []float32{0.1, 0.2}}
	c := New(inner, time.Minute, 8, nil)

	for i := 0; i < 3; i++ {
		vector, err := c.EmbedQuery(context.Background(), "pizza")
		if err != nil {
			t.Fatalf("EmbedQuery() error = %v", err)
		}
		if len(vector) != 2 {
			t.Fatalf("unexpected vector: %v", vector)
		}
	}

	if inner.calls != 1 {
		t.Fatalf("inner calls = %d, want 1", inner.calls)
	}
}

func TestEmbedQueryDistinctTextsMiss(t *testing.T) {
	inner := &embedderFake{vector: []float32{0.1}}
	c := New(inner, time.Minute, 8, nil)

	_, _ = c.EmbedQuery(context.Background(), "pizza")
	_, _ = c.EmbedQuery(context.Background(), "passeio de barco")

	if inner.calls != 2 {
		t.Fatalf("inner calls = %d, want 2", inner.calls)
	}
}

func TestEmbedQueryExpiresAfterTTL(t *testing.T) {
	inner := &embedderFake{vector: []float32{0.1}}
	c := New(inner, time.Minute, 8, nil)

	current := time.Now()
	c.now = func() time.Time { return current }

	_, _ = c.EmbedQuery(context.Background(), "pizza")
	current = current.Add(2 * time.Minute)
	_, _ = c.EmbedQuery(context.Background(), "pizza")

	if inner.calls != 2 {
		t.Fatalf("inner calls = %d, want 2", inner.calls)
	}
}

func TestEmbedQueryErrorsAreNotCached(t *testing.T) {
	inner := &embedderFake{err: domain.ErrEmbeddingUnavailable}
	c := New(inner, time.Minute, 8, nil)

	for i := 0; i < 2; i++ {
		_, err := c.EmbedQuery(context.Background(), "pizza")
		if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
			t.Fatalf("expected ErrEmbeddingUnavailable, got %v", err)
		}
	}

	if inner.calls != 2 {
		t.Fatalf("inner calls = %d, want 2", inner.calls)
	}
}

func TestCacheEvictsAtCapacity(t *testing.T) {
	inner := &embedderFake{vector: []float32{0.1}}
	c := New(inner, time.Minute, 2, nil)

	_, _ = c.EmbedQuery(context.Background(), "a")
	_, _ = c.EmbedQuery(context.Background(), "b")
	_, _ = c.EmbedQuery(context.Background(), "c")

	if len(c.entries) > 2 {
		t.Fatalf("cache size = %d, want <= 2", len(c.entries))
	}
}
