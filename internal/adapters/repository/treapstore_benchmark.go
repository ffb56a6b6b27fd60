package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"
)

func populateBoard(ctx context.Context, store *TreapStore, count int) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < count; i++ {
		key := fmt.Sprintf("%02d/%02d/2026|basket|%d", 1+i%28, 1+i%12, i)
		store.UpdateBestWithMeta(ctx, key, rng.Intn(5000), rng.Intn(20000), rng.Intn(20000), "over")
	}
}

func BenchmarkTreapStore_UpdateBest(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx, WithSnapshotInterval(time.Hour))
	defer store.Close()

	populateBoard(ctx, store, 10_000)
	rng := rand.New(rand.NewSource(7))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("%02d/%02d/2026|basket|%d", 1+i%28, 1+i%12, i%10_000)
		store.UpdateBest(ctx, key, rng.Intn(5000))
	}
}

func BenchmarkTreapStore_TopN(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx, WithSnapshotInterval(time.Hour))
	defer store.Close()

	populateBoard(ctx, store, 10_000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.TopN(ctx, 10); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTreapStore_Rank(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx, WithSnapshotInterval(time.Hour))
	defer store.Close()

	populateBoard(ctx, store, 10_000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("%02d/%02d/2026|basket|%d", 1+i%28, 1+i%12, i%10_000)
		if _, err := store.Rank(ctx, key); err != nil && err != ErrNotFound {
			b.Fatal(err)
		}
	}
}

func BenchmarkTreapStore_MixedLoad(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx, WithSnapshotInterval(100*time.Millisecond))
	defer store.Close()

	populateBoard(ctx, store, 10_000)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		i := 0
		for pb.Next() {
			switch i % 4 {
			case 0:
				key := fmt.Sprintf("%02d/%02d/2026|meal|%d", 1+i%28, 1+i%12, rng.Intn(10_000))
				store.UpdateBest(ctx, key, rng.Intn(5000))
			default:
				store.TopN(ctx, 10)
			}
			i++
		}
	})
}
