// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	service "github.com/benklinger/kamaole/internal/app"
	"github.com/benklinger/kamaole/internal/domain/model"
)

// itemParams carries the query parameters shared by the game and result
// endpoints.
type itemParams struct {
	date string
	kind model.ItemKind
	id   int
}

func parseItemParams(q url.Values) (itemParams, error) {
	date := q.Get("date")
	if date == "" {
		return itemParams{}, fmt.Errorf("%w: missing date", ErrBadRequest)
	}
	kind, ok := model.ParseItemKind(q.Get("type"))
	if !ok {
		return itemParams{}, fmt.Errorf("%w: %q", ErrBadKind, q.Get("type"))
	}
	id, err := strconv.Atoi(q.Get("id"))
	if err != nil || id < 0 {
		return itemParams{}, fmt.Errorf("%w: invalid id", ErrBadRequest)
	}
	return itemParams{date: date, kind: kind, id: id}, nil
}

// writeParamError reports a query-parameter validation failure.
func writeParamError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrBadKind) {
		writeError(w, http.StatusBadRequest, "bad_type", msgBadType)
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", msgBadParams)
}

// writeServiceError translates service-layer sentinels into HTTP statuses
// with user-facing messages.
func writeServiceError(w http.ResponseWriter, dateKey string, err error) {
	switch {
	case errors.Is(err, service.ErrBadDate):
		writeError(w, http.StatusBadRequest, "bad_date", msgBadParams)
	case errors.Is(err, service.ErrNoGameForDate):
		writeError(w, http.StatusNotFound, "no_game", fmt.Sprintf(msgNoGameFormat, dateKey))
	case errors.Is(err, service.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item_not_found", msgItemNotFound)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", msgInternal)
	}
}
