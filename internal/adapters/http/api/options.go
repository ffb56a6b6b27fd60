// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/benklinger/kamaole/internal/domain/types"
)

// OptionsDependencies defines the interface for the day-options operation.
type OptionsDependencies interface {
	Options(ctx context.Context, dateKey string) (types.OptionsView, error)
}

// OptionsHandler handles day-options requests.
type OptionsHandler struct {
	deps OptionsDependencies
}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler(deps OptionsDependencies) *OptionsHandler {
	return &OptionsHandler{deps: deps}
}

// HandleGetOptions handles GET /api/options?date=DD/MM/YYYY requests.
// The date parameter is optional; when omitted today's options are returned.
func (h *OptionsHandler) HandleGetOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	dateKey := r.URL.Query().Get("date")
	view, err := h.deps.Options(r.Context(), dateKey)
	if err != nil {
		writeServiceError(w, dateKey, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
