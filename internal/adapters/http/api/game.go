// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/benklinger/kamaole/internal/domain/model"
	"github.com/benklinger/kamaole/internal/domain/types"
)

// GameDependencies defines the interface for the game-view operation.
type GameDependencies interface {
	Game(ctx context.Context, dateKey string, kind model.ItemKind, id int) (types.GameView, error)
}

// GameHandler handles game view requests.
type GameHandler struct {
	deps GameDependencies
}

// NewGameHandler creates a new game handler.
func NewGameHandler(deps GameDependencies) *GameHandler {
	return &GameHandler{deps: deps}
}

// HandleGetGame handles GET /api/game?date=DD/MM/YYYY&type=K&id=N requests.
func (h *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	params, err := parseItemParams(r.URL.Query())
	if err != nil {
		writeParamError(w, err)
		return
	}
	view, err := h.deps.Game(r.Context(), params.date, params.kind, params.id)
	if err != nil {
		writeServiceError(w, params.date, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
