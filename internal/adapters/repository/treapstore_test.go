package repository

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"
)

func TestTreapStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	// Empty board
	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	// First entry
	updated, err := store.UpdateBest(ctx, "01/01/2026|basket|1", 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Error("expected update to succeed")
	}

	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	entry, err := store.Rank(ctx, "01/01/2026|basket|1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 {
		t.Errorf("expected rank 1, got %d", entry.Rank)
	}
	if entry.AbsDelta != 120 {
		t.Errorf("expected delta 120, got %d", entry.AbsDelta)
	}

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestTreapStore_ClosestFirstOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	items := map[string]int{
		"01/01/2026|basket|1": 300,
		"01/01/2026|meal|2":   50,
		"02/01/2026|basket|1": 0,
		"02/01/2026|meal|2":   1200,
	}
	for key, delta := range items {
		if _, err := store.UpdateBest(ctx, key, delta); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	// Smaller delta ranks earlier
	wantOrder := []string{"02/01/2026|basket|1", "01/01/2026|meal|2", "01/01/2026|basket|1", "02/01/2026|meal|2"}
	for i, want := range wantOrder {
		if entries[i].ItemKey != want {
			t.Errorf("position %d: expected %q, got %q", i, want, entries[i].ItemKey)
		}
	}
	for i, entry := range entries {
		if entry.Rank != i+1 {
			t.Errorf("entry %q: expected rank %d, got %d", entry.ItemKey, i+1, entry.Rank)
		}
	}
}

func TestTreapStore_ImprovementOnly(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	key := "03/01/2026|basket|1"
	if updated, _ := store.UpdateBest(ctx, key, 500); !updated {
		t.Fatal("first update should succeed")
	}

	// Farther guess does not replace the closer one
	if updated, _ := store.UpdateBest(ctx, key, 800); updated {
		t.Error("worse delta should not update")
	}
	// Same delta is not an improvement either
	if updated, _ := store.UpdateBest(ctx, key, 500); updated {
		t.Error("equal delta should not update")
	}
	// Closer guess wins
	if updated, _ := store.UpdateBest(ctx, key, 200); !updated {
		t.Error("better delta should update")
	}

	entry, err := store.Rank(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.AbsDelta != 200 {
		t.Errorf("expected delta 200, got %d", entry.AbsDelta)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1 after updates, got %d", count)
	}
}

func TestTreapStore_UpdateBestWithMeta(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	key := "04/01/2026|meal|3"
	updated, err := store.UpdateBestWithMeta(ctx, key, 150, 4500, 4650, "under")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Fatal("expected update to succeed")
	}

	entry, err := store.Rank(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.GuessMinor != 4500 {
		t.Errorf("expected guess 4500, got %d", entry.GuessMinor)
	}
	if entry.ActualMinor != 4650 {
		t.Errorf("expected actual 4650, got %d", entry.ActualMinor)
	}
	if entry.Verdict != "under" {
		t.Errorf("expected verdict under, got %q", entry.Verdict)
	}

	// An improvement replaces the metadata too
	if updated, _ := store.UpdateBestWithMeta(ctx, key, 50, 4700, 4650, "over"); !updated {
		t.Fatal("closer guess should update")
	}
	entry, _ = store.Rank(ctx, key)
	if entry.AbsDelta != 50 || entry.GuessMinor != 4700 || entry.Verdict != "over" {
		t.Errorf("metadata not replaced: %+v", entry)
	}
}

func TestTreapStore_NegativeDeltaNormalized(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	if _, err := store.UpdateBest(ctx, "05/01/2026|basket|1", -75); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, err := store.Rank(ctx, "05/01/2026|basket|1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.AbsDelta != 75 {
		t.Errorf("expected normalized delta 75, got %d", entry.AbsDelta)
	}
}

func TestTreapStore_TieHandling(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	// Three items with the same delta, one farther
	store.UpdateBest(ctx, "b-item", 100)
	store.UpdateBest(ctx, "a-item", 100)
	store.UpdateBest(ctx, "c-item", 100)
	store.UpdateBest(ctx, "d-item", 400)

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	// Tied items share a rank and break ties by key ascending
	wantKeys := []string{"a-item", "b-item", "c-item", "d-item"}
	wantRanks := []int{1, 1, 1, 2}
	for i := range entries {
		if entries[i].ItemKey != wantKeys[i] {
			t.Errorf("position %d: expected key %q, got %q", i, wantKeys[i], entries[i].ItemKey)
		}
		if entries[i].Rank != wantRanks[i] {
			t.Errorf("position %d: expected rank %d, got %d", i, wantRanks[i], entries[i].Rank)
		}
	}

	// Rank queries agree with TopN
	for i, key := range wantKeys {
		entry, err := store.Rank(ctx, key)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", key, err)
		}
		if entry.Rank != wantRanks[i] {
			t.Errorf("Rank(%q): expected %d, got %d", key, wantRanks[i], entry.Rank)
		}
	}
}

func TestTreapStore_TopNLimits(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	for i := 0; i < 20; i++ {
		store.UpdateBest(ctx, fmt.Sprintf("item%02d", i), i*10)
	}

	entries, err := store.TopN(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("expected 5 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].AbsDelta < entries[i-1].AbsDelta {
			t.Errorf("entries out of order at %d: %d before %d", i, entries[i-1].AbsDelta, entries[i].AbsDelta)
		}
	}

	// Limit larger than board size returns everything
	entries, err = store.TopN(ctx, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 20 {
		t.Errorf("expected 20 entries, got %d", len(entries))
	}

	// Invalid limits
	if _, err := store.TopN(ctx, 0); err != ErrInvalidLimit {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := store.TopN(ctx, -3); err != ErrInvalidLimit {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestTreapStore_RankNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	if _, err := store.Rank(ctx, "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTreapStore_Options(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx,
		WithSnapshotInterval(50*time.Millisecond),
		WithTopCacheSize(10),
	)
	defer store.Close()

	if store.snapshotInterval != 50*time.Millisecond {
		t.Errorf("expected snapshot interval 50ms, got %v", store.snapshotInterval)
	}
	if store.topCacheSize != 10 {
		t.Errorf("expected top cache size 10, got %d", store.topCacheSize)
	}
}

func TestTreapStore_SnapshotPublishing(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx, WithSnapshotInterval(20*time.Millisecond), WithTopCacheSize(3))
	defer store.Close()

	store.UpdateBest(ctx, "alpha", 30)
	store.UpdateBest(ctx, "beta", 10)
	store.UpdateBest(ctx, "gamma", 20)
	store.UpdateBest(ctx, "delta", 40)

	// Wait for the periodic goroutine to publish
	deadline := time.Now().Add(2 * time.Second)
	var snap *Snapshot
	for time.Now().Before(deadline) {
		snap = store.snapshot.Load()
		if snap != nil && len(snap.RankByItem) == 4 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if snap == nil || len(snap.RankByItem) != 4 {
		t.Fatal("snapshot was not published")
	}

	if snap.RankByItem["beta"] != 1 {
		t.Errorf("expected beta at rank 1, got %d", snap.RankByItem["beta"])
	}
	if snap.DeltaByItem["gamma"] != 20 {
		t.Errorf("expected gamma delta 20, got %d", snap.DeltaByItem["gamma"])
	}
	if len(snap.TopCache) != 3 {
		t.Errorf("expected top cache of 3, got %d", len(snap.TopCache))
	}
	if len(snap.TopCache) == 3 && snap.TopCache[0].ItemKey != "beta" {
		t.Errorf("expected beta first in cache, got %q", snap.TopCache[0].ItemKey)
	}
}

func TestTreapStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	const workers = 8
	const perWorker = 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < perWorker; i++ {
				key := fmt.Sprintf("item%03d", rng.Intn(50))
				store.UpdateBest(ctx, key, rng.Intn(1000))
			}
		}(int64(w))
	}
	wg.Wait()

	count := store.Count(ctx)
	if count == 0 || count > 50 {
		t.Errorf("expected between 1 and 50 items, got %d", count)
	}

	entries, err := store.TopN(ctx, count)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != count {
		t.Errorf("expected %d entries, got %d", count, len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].AbsDelta < entries[i-1].AbsDelta {
			t.Errorf("order violated at %d", i)
		}
	}
}

func TestTreapStore_CloseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)

	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second close should not error: %v", err)
	}
}
