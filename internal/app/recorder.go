package service

import (
	"context"
	"fmt"

	"github.com/benklinger/kamaole/internal/adapters/history"
	"github.com/benklinger/kamaole/internal/adapters/repository"
)

// guessRecorder persists an evaluated guess in the history store and
// feeds the accuracy board. Record workers call it off the request
// path.
type guessRecorder struct {
	history *history.Store
	board   repository.Store
}

func newGuessRecorder(h *history.Store, b repository.Store) *guessRecorder {
	return &guessRecorder{history: h, board: b}
}

// Add stores the record and updates the board's closest guess for the
// item when this one is closer.
func (g *guessRecorder) Add(ctx context.Context, rec history.Record) history.Record {
	stored := g.history.Add(ctx, rec)

	if g.board != nil {
		itemKey := fmt.Sprintf("%s|%s|%d", rec.Date, rec.Kind, rec.ItemID)
		absDelta := rec.Delta
		if absDelta < 0 {
			absDelta = -absDelta
		}
		_, _ = g.board.UpdateBestWithMeta(ctx, itemKey, absDelta, rec.GuessMinor, rec.ActualMinor, string(rec.Verdict))
	}
	return stored
}
