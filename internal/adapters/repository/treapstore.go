// Package repository defines the accuracy board interface and errors.
package repository

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benklinger/kamaole/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: absolute delta ASC, then item key ASC (deterministic). The
// BST comparator defines "less" as ranks-earlier, so an in-order
// traversal produces the board from closest guess to farthest.

// record stores the closest delta plus guess details for an item.
type record struct {
	absDelta    int
	guessMinor  int
	actualMinor int
	verdict     string
}

// Snapshot represents an immutable snapshot of the board state.
type Snapshot struct {
	// Rank and delta in O(1) for reads
	RankByItem  map[string]int
	DeltaByItem map[string]int

	// Fast Top-K cache up to M items
	TopCache []Entry // sorted by closeness (M is much smaller than N)
}

// treap node
type node struct {
	key      string
	absDelta int
	prio     uint64
	left     *node
	right    *node
	size     int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aDelta, aKey) should appear before (bDelta, bKey)
// on the board (closer guesses first).
func less(aDelta int, aKey string, bDelta int, bKey string) bool {
	if aDelta != bDelta {
		return aDelta < bDelta // closer guess ranks earlier
	}
	return aKey < bKey // tie-breaker by key asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// deltaToPriority converts a delta to a priority value.
// Closer guesses get higher priorities to keep them higher in the treap.
func deltaToPriority(absDelta int) uint64 {
	return math.MaxUint64 - uint64(absDelta)
}

func insert(n *node, key string, absDelta int) *node {
	if n == nil {
		return &node{key: key, absDelta: absDelta, prio: deltaToPriority(absDelta), size: 1}
	}
	if less(absDelta, key, n.absDelta, n.key) {
		n.left = insert(n.left, key, absDelta)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, key, absDelta)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, key string, absDelta int) *node {
	if n == nil {
		return nil
	}
	if absDelta == n.absDelta && key == n.key {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, key, absDelta)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, key, absDelta)
		}
	} else if less(absDelta, key, n.absDelta, n.key) {
		n.left = deleteNode(n.left, key, absDelta)
	} else {
		n.right = deleteNode(n.right, key, absDelta)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in rank order (closest first).
func collectTopN(n *node, limit int, records map[string]record, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}

	// Traverse left subtree first (closer guesses, or same delta with
	// lower key)
	collectTopN(n.left, limit, records, out)

	if len(*out) < limit {
		if rec, exists := records[n.key]; exists {
			*out = append(*out, Entry{
				Rank:        0, // fixed after collection
				ItemKey:     n.key,
				AbsDelta:    rec.absDelta,
				GuessMinor:  rec.guessMinor,
				ActualMinor: rec.actualMinor,
				Verdict:     rec.verdict,
			})
		}
	}

	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// TreapStore is the in-memory accuracy board.
type TreapStore struct {
	mu               sync.RWMutex
	root             *node
	byKey            map[string]record
	snapshotInterval time.Duration // How often to publish read snapshots
	topCacheSize     int           // Maximum number of entries kept in the snapshot cache

	// snapshot is atomic pointer to a Snapshot struct
	snapshot atomic.Pointer[Snapshot]

	// Periodic snapshot management
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		snapshotInterval: 1 * time.Second, // default snapshot interval
		topCacheSize:     500,             // default top cache size
		byKey:            make(map[string]record),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startPeriodicSnapshots(ctx)

	return s
}

// startPeriodicSnapshots starts a background goroutine that publishes
// snapshots at the configured interval.
func (s *TreapStore) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishSnapshot()
			}
		}
	}()
}

// publishSnapshot rebuilds and publishes a new snapshot.
func (s *TreapStore) publishSnapshot() {
	s.mu.RLock()
	s.publishSnapshotInternal()
	s.mu.RUnlock()

	metrics.RecordBoardSnapshot()
}

// Close gracefully shuts down the periodic snapshot goroutine.
func (s *TreapStore) Close() error {
	select {
	case <-s.stopChan:
		// Channel already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// UpdateBest implements Store.UpdateBest with O(log n) expected time.
func (s *TreapStore) UpdateBest(ctx context.Context, itemKey string, absDelta int) (bool, error) {
	return s.UpdateBestWithMeta(ctx, itemKey, absDelta, 0, 0, "")
}

// UpdateBestWithMeta implements Store.UpdateBestWithMeta with O(log n)
// expected time.
func (s *TreapStore) UpdateBestWithMeta(ctx context.Context, itemKey string, absDelta, guessMinor, actualMinor int, verdict string) (bool, error) {
	if absDelta < 0 {
		absDelta = -absDelta
	}

	// Track if this is a new item so metrics update after releasing locks
	isNewItem := false

	s.mu.Lock()
	if old, ok := s.byKey[itemKey]; ok {
		if absDelta >= old.absDelta { // not an improvement
			s.mu.Unlock()
			return false, nil
		}
		s.root = deleteNode(s.root, itemKey, old.absDelta)
	} else {
		isNewItem = true
	}
	s.byKey[itemKey] = record{absDelta: absDelta, guessMinor: guessMinor, actualMinor: actualMinor, verdict: verdict}
	s.root = insert(s.root, itemKey, absDelta)
	s.mu.Unlock()

	metrics.RecordBoardUpdate()
	if isNewItem {
		metrics.UpdateBoardItems(s.Count(ctx))
	}

	// Snapshots are published periodically, not after every update
	return true, nil
}

// Rank returns the current rank and closest guess for an item in O(n).
func (s *TreapStore) Rank(ctx context.Context, itemKey string) (Entry, error) {
	metrics.RecordBoardQuery()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byKey[itemKey]; !ok {
		return Entry{}, ErrNotFound
	}

	allEntries := make([]Entry, 0, len(s.byKey))
	collectAll(s.root, s.byKey, &allEntries)

	// Sort to match TopN ordering, then assign ranks with tie handling
	sortEntries(allEntries)
	assignRanksWithTies(allEntries)

	for _, entry := range allEntries {
		if entry.ItemKey == itemKey {
			return entry, nil
		}
	}

	return Entry{}, ErrNotFound
}

// TopN returns the top N entries ordered by closeness.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	metrics.RecordBoardQuery()

	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTopN(s.root, n, s.byKey, &out)

	assignRanksWithTies(out)
	return out, nil
}

// Count returns the total number of items tracked.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

// publishSnapshotInternal rebuilds and publishes a new snapshot
// (assumes lock is held).
func (s *TreapStore) publishSnapshotInternal() {
	// Build Top-M cache for fast stats queries
	topCache := make([]Entry, 0, s.topCacheSize)
	collectTopN(s.root, s.topCacheSize, s.byKey, &topCache)

	rankByItem := make(map[string]int, len(s.byKey))
	deltaByItem := make(map[string]int, len(s.byKey))

	allEntries := make([]Entry, 0, len(s.byKey))
	collectAll(s.root, s.byKey, &allEntries)

	assignRanksWithTies(allEntries)

	for _, entry := range allEntries {
		rankByItem[entry.ItemKey] = entry.Rank
		deltaByItem[entry.ItemKey] = entry.AbsDelta
	}

	// Update TopCache with correct ranks
	for i := range topCache {
		if rank, exists := rankByItem[topCache[i].ItemKey]; exists {
			topCache[i].Rank = rank
		}
	}

	snapshot := &Snapshot{
		RankByItem:  rankByItem,
		DeltaByItem: deltaByItem,
		TopCache:    topCache,
	}

	s.snapshot.Store(snapshot)
}

// collectAll appends all entries in rank order (closest first).
func collectAll(n *node, byKey map[string]record, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, byKey, out)
	if rec, ok := byKey[n.key]; ok {
		*out = append(*out, Entry{
			ItemKey:     n.key,
			AbsDelta:    rec.absDelta,
			GuessMinor:  rec.guessMinor,
			ActualMinor: rec.actualMinor,
			Verdict:     rec.verdict,
		})
	}
	collectAll(n.right, byKey, out)
}

// sortEntries sorts entries by delta (ascending) and key (ascending) to
// match TopN ordering.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AbsDelta != entries[j].AbsDelta {
			return entries[i].AbsDelta < entries[j].AbsDelta
		}
		return entries[i].ItemKey < entries[j].ItemKey
	})
}

// assignRanksWithTies assigns ranks with proper tie handling. Items
// with the same delta get the same rank, and the next distinct delta
// takes the next consecutive rank.
func assignRanksWithTies(entries []Entry) {
	if len(entries) == 0 {
		return
	}

	currentRank := 1
	for i := 0; i < len(entries); i++ {
		entries[i].Rank = currentRank

		sameCount := 1
		for j := i + 1; j < len(entries) && entries[j].AbsDelta == entries[i].AbsDelta; j++ {
			entries[j].Rank = currentRank
			sameCount++
		}

		currentRank++
		i += sameCount - 1 // Skip the entries we just processed
	}
}
