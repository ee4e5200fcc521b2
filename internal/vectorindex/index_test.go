package vectorindex

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "vectors.db"), 3)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestSearchScopesToOwners(t *testing.T) {
	ctx := context.Background()
	idx := openTestIndex(t)

	seed := []struct {
		id    string
		owner string
		vec   []float32
	}{
		{"a1", "alice", []float32{1, 0, 0}},
		{"a2", "alice", []float32{0.9, 0.1, 0}},
		{"b1", "bob", []float32{0.95, 0.05, 0}},
	}
	for _, s := range seed {
		if err := idx.Add(ctx, s.id, s.owner, s.vec); err != nil {
			t.Fatalf("add %s: %v", s.id, err)
		}
	}

	ids, hasNext, err := idx.Search(ctx, []float32{1, 0, 0}, []string{"alice"}, 1, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if hasNext {
		t.Fatalf("unexpected next page")
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v", ids)
	}
	for _, id := range ids {
		if id == "b1" {
			t.Fatalf("bob's asset leaked into alice's scope")
		}
	}
}

func TestSearchPaginates(t *testing.T) {
	ctx := context.Background()
	idx := openTestIndex(t)

	vecs := [][]float32{
		{1, 0, 0}, {0.9, 0.1, 0}, {0.8, 0.2, 0}, {0.7, 0.3, 0},
	}
	for i, v := range vecs {
		id := string(rune('a' + i))
		if err := idx.Add(ctx, id, "alice", v); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	first, hasNext, err := idx.Search(ctx, []float32{1, 0, 0}, []string{"alice"}, 1, 2)
	if err != nil {
		t.Fatalf("search page 1: %v", err)
	}
	if !hasNext {
		t.Fatalf("expected a next page")
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 ids on page 1, got %v", first)
	}

	second, hasNext, err := idx.Search(ctx, []float32{1, 0, 0}, []string{"alice"}, 2, 2)
	if err != nil {
		t.Fatalf("search page 2: %v", err)
	}
	if hasNext {
		t.Fatalf("page 2 should be the last page")
	}
	if len(second) != 2 {
		t.Fatalf("expected 2 ids on page 2, got %v", second)
	}
	for _, id := range first {
		for _, other := range second {
			if id == other {
				t.Fatalf("id %s appeared on both pages", id)
			}
		}
	}
}
