package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_New(t *testing.T) {
	s := newTestStore(t)
	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestHash(t *testing.T) {
	a := Hash([]byte("Hello world"))
	b := Hash([]byte("Hello world"))
	c := Hash([]byte("Hello world."))

	if a != b {
		t.Errorf("same content hashed differently: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different content produced the same hash")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestStore_IsClean_Miss(t *testing.T) {
	s := newTestStore(t)

	clean, err := s.IsClean(context.Background(), CacheKey{Hash: Hash([]byte("x")), Language: "EN", RulesVersion: "1"})
	if err != nil {
		t.Fatalf("IsClean failed: %v", err)
	}
	if clean {
		t.Error("expected miss on empty cache")
	}
}

func TestStore_MarkClean_Hit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := CacheKey{Hash: Hash([]byte("chapter")), Language: "DE", RulesVersion: "1"}

	if err := s.MarkClean(ctx, key); err != nil {
		t.Fatalf("MarkClean failed: %v", err)
	}
	// marking twice is harmless
	if err := s.MarkClean(ctx, key); err != nil {
		t.Fatalf("second MarkClean failed: %v", err)
	}

	clean, err := s.IsClean(ctx, key)
	if err != nil {
		t.Fatalf("IsClean failed: %v", err)
	}
	if !clean {
		t.Error("expected hit after MarkClean")
	}

	for _, other := range []CacheKey{
		{Hash: key.Hash, Language: "EN", RulesVersion: "1"},
		{Hash: key.Hash, Language: "DE", RulesVersion: "2"},
	} {
		clean, err := s.IsClean(ctx, other)
		if err != nil {
			t.Fatalf("IsClean failed: %v", err)
		}
		if clean {
			t.Errorf("expected miss for %+v", other)
		}
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := CacheKey{Hash: "h", Language: "EN", RulesVersion: "1"}

	if err := s.MarkClean(ctx, key); err != nil {
		t.Fatalf("MarkClean failed: %v", err)
	}
	s.IsClean(ctx, key)
	s.IsClean(ctx, key)

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 1 {
		t.Errorf("expected 1 entry, got %d", stats.Entries)
	}
	if stats.TotalHits != 2 {
		t.Errorf("expected 2 hits, got %d", stats.TotalHits)
	}
	if stats.Runs != 0 {
		t.Errorf("expected 0 runs, got %d", stats.Runs)
	}
}

func TestStore_ClearCache(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, h := range []string{"a", "b", "c"} {
		if err := s.MarkClean(ctx, CacheKey{Hash: h, Language: "EN", RulesVersion: "1"}); err != nil {
			t.Fatalf("MarkClean failed: %v", err)
		}
	}

	n, err := s.ClearCache(ctx)
	if err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 removed, got %d", n)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("expected empty cache, got %d entries", stats.Entries)
	}
}

func TestStore_Runs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	older := Run{
		ID:        "run-1",
		StartedAt: base,
		Duration:  1500 * time.Millisecond,
		Language:  "EN",
		Files: []FileOutcome{
			{Path: "chapters/b.tex", Status: "issues"},
			{Path: "chapters/a.tex", Status: "clean"},
		},
	}
	newer := Run{
		ID:        "run-2",
		StartedAt: base.Add(time.Hour),
		Language:  "DE",
		Files: []FileOutcome{
			{Path: "chapters/a.tex", Status: "failed", Error: "boom"},
		},
	}
	for _, r := range []Run{older, newer} {
		if err := s.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-2" || runs[1].ID != "run-1" {
		t.Errorf("expected newest first, got %s, %s", runs[0].ID, runs[1].ID)
	}
	if runs[1].Duration != 1500*time.Millisecond {
		t.Errorf("expected duration 1.5s, got %v", runs[1].Duration)
	}
	if len(runs[1].Files) != 2 || runs[1].Files[0].Path != "chapters/a.tex" {
		t.Errorf("unexpected files: %+v", runs[1].Files)
	}
	if runs[1].Count("issues") != 1 || runs[1].Count("clean") != 1 {
		t.Errorf("unexpected counts for %+v", runs[1].Files)
	}
	if runs[0].Files[0].Error != "boom" {
		t.Errorf("expected error to round-trip, got %q", runs[0].Files[0].Error)
	}

	limited, err := s.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 run, got %d", len(limited))
	}
}
