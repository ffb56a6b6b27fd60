// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/benklinger/kamaole/internal/domain/model"
	"github.com/benklinger/kamaole/internal/domain/types"
)

// ResultDependencies defines the interface for the guess-evaluation operation.
type ResultDependencies interface {
	Result(ctx context.Context, dateKey string, kind model.ItemKind, id, guessMinor int) (types.ResultView, error)
}

// ResultHandler handles guess evaluation requests.
type ResultHandler struct {
	deps ResultDependencies
}

// NewResultHandler creates a new result handler.
func NewResultHandler(deps ResultDependencies) *ResultHandler {
	return &ResultHandler{deps: deps}
}

// HandleGetResult handles GET
// /api/result?date=DD/MM/YYYY&type=K&id=N&guessPrice=M requests. The
// guessPrice is the confirmed amount in minor units.
func (h *ResultHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	params, err := parseItemParams(q)
	if err != nil {
		writeParamError(w, err)
		return
	}
	guessMinor, err := strconv.Atoi(q.Get("guessPrice"))
	if err != nil || guessMinor < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", msgBadParams)
		return
	}
	view, err := h.deps.Result(r.Context(), params.date, params.kind, params.id, guessMinor)
	if err != nil {
		writeServiceError(w, params.date, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
