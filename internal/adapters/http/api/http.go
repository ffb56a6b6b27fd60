// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/benklinger/kamaole/internal/domain/model"
	"github.com/benklinger/kamaole/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Options returns the day's playable item choices. An empty dateKey
	// means today.
	Options(ctx context.Context, dateKey string) (types.OptionsView, error)

	// Game returns the guessing view for one item on one day.
	Game(ctx context.Context, dateKey string, kind model.ItemKind, id int) (types.GameView, error)

	// Result evaluates a confirmed guess against the actual price.
	Result(ctx context.Context, dateKey string, kind model.ItemKind, id, guessMinor int) (types.ResultView, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	optionsHandler *OptionsHandler
	gameHandler    *GameHandler
	resultHandler  *ResultHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		optionsHandler: NewOptionsHandler(deps),
		gameHandler:    NewGameHandler(deps),
		resultHandler:  NewResultHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/options", MetricsMiddleware(s.optionsHandler.HandleGetOptions, "options"))
	mux.HandleFunc("/api/game", MetricsMiddleware(s.gameHandler.HandleGetGame, "game"))
	mux.HandleFunc("/api/result", MetricsMiddleware(s.resultHandler.HandleGetResult, "result"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
