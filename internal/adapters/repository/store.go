// Package repository defines the accuracy board interface and errors.
// The board tracks, per played item, the closest guess seen so far.
package repository

import "context"

// Entry represents an accuracy board row. ItemKey identifies the played
// item as "DD/MM/YYYY|kind|id".
type Entry struct {
	Rank        int
	ItemKey     string
	AbsDelta    int
	GuessMinor  int
	ActualMinor int
	Verdict     string
}

// Store provides read/write access to the accuracy board state.
type Store interface {
	// UpdateBest records a new closest guess for the item if it beats the
	// existing one. Returns true if the store updated the entry.
	UpdateBest(ctx context.Context, itemKey string, absDelta int) (bool, error)
	// UpdateBestWithMeta records a new closest guess and stores the guess
	// details when improved.
	UpdateBestWithMeta(ctx context.Context, itemKey string, absDelta, guessMinor, actualMinor int, verdict string) (bool, error)

	// Rank returns the current rank and closest guess for an item.
	// Returns ErrNotFound if the item is unknown.
	Rank(ctx context.Context, itemKey string) (Entry, error)

	// TopN returns the top-N entries ordered by closeness.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of items tracked on the board.
	Count(ctx context.Context) int
}
