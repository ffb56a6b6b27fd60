// Package history keeps a bounded in-memory record of evaluated
// guesses, feeding the stats surface. Records are transient and lost on
// restart; nothing in the game depends on them.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benklinger/kamaole/internal/domain/model"
	"github.com/benklinger/kamaole/internal/domain/result"
	"github.com/benklinger/kamaole/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultMaxSize = 10_000
)

// Record is one evaluated guess.
type Record struct {
	ID          string
	Date        string
	Kind        model.ItemKind
	ItemID      int
	GuessMinor  int
	ActualMinor int
	Delta       int
	Verdict     result.Verdict
	At          time.Time
}

// Summary aggregates the retained records.
type Summary struct {
	Total        int
	ByVerdict    map[result.Verdict]int
	MeanAbsDelta float64
}

// Store is a bounded, oldest-first-evicted record list. Safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	records []Record
	maxSize int
	now     func() time.Time
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithMaxSize bounds the number of retained records. Non-positive means
// unbounded.
func WithMaxSize(n int) Option {
	return func(s *Store) {
		s.maxSize = n
	}
}

// WithNow sets the clock used for record timestamps.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a history store with configuration options.
func NewStore(opts ...Option) *Store {
	s := &Store{
		maxSize: defaultMaxSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add records an evaluated guess, assigning it an id and timestamp, and
// returns the stored record. The oldest record is evicted at capacity.
func (s *Store) Add(_ context.Context, rec Record) Record {
	rec.ID = uuid.New().String()
	rec.At = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSize > 0 && len(s.records) >= s.maxSize {
		s.records = s.records[1:]
	}
	s.records = append(s.records, rec)
	metrics.UpdateHistorySize(len(s.records))
	return rec
}

// Len returns the number of retained records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Summarize aggregates the retained records.
func (s *Store) Summarize() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		Total:     len(s.records),
		ByVerdict: make(map[result.Verdict]int),
	}
	var absTotal int
	for _, r := range s.records {
		sum.ByVerdict[r.Verdict]++
		d := r.Delta
		if d < 0 {
			d = -d
		}
		absTotal += d
	}
	if sum.Total > 0 {
		sum.MeanAbsDelta = float64(absTotal) / float64(sum.Total)
	}
	return sum
}
