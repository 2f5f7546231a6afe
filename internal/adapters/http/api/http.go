// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	FilterDependencies
	SummaryDependencies
	RecordsDependencies
	SessionDependencies
	ReloadDependencies
}

// FilterDependencies lists the sidebar choices.
type FilterDependencies interface {
	Choices(ctx context.Context) (filter.Choices, error)
}

// SummaryDependencies recomputes the dashboard widgets.
type SummaryDependencies interface {
	Summary(ctx context.Context, sel filter.Selection) (types.Summary, error)
}

// RecordsDependencies pages through the filtered raw table.
type RecordsDependencies interface {
	Records(ctx context.Context, sel filter.Selection, offset, limit int) (types.RecordsPage, error)
}

// SessionDependencies manages per-viewer selections.
type SessionDependencies interface {
	CreateSession(ctx context.Context, sel filter.Selection) (repository.Session, error)
	GetSession(ctx context.Context, id string) (repository.Session, error)
	UpdateSelection(ctx context.Context, id string, sel filter.Selection) (repository.Session, error)
	SessionSummary(ctx context.Context, id string) (types.Summary, error)
	DeleteSession(ctx context.Context, id string) error
}

// ReloadDependencies rebuilds the served table from storage.
type ReloadDependencies interface {
	Reload(ctx context.Context) (types.DatasetInfo, error)
	Info() (types.DatasetInfo, error)
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	filtersHandler   *FiltersHandler
	summaryHandler   *SummaryHandler
	recordsHandler   *RecordsHandler
	sessionsHandler  *SessionsHandler
	reloadHandler    *ReloadHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(deps),
		statsHandler:     NewStatsHandler(statsProvider),
		filtersHandler:   NewFiltersHandler(deps),
		summaryHandler:   NewSummaryHandler(deps),
		recordsHandler:   NewRecordsHandler(deps),
		sessionsHandler:  NewSessionsHandler(deps),
		reloadHandler:    NewReloadHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", MetricsHandler())
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/api/v1/filters", MetricsMiddleware(s.filtersHandler.HandleGetFilters, "filters"))
	mux.HandleFunc("/api/v1/summary", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
	mux.HandleFunc("/api/v1/records", MetricsMiddleware(s.recordsHandler.HandleGetRecords, "records"))
	mux.HandleFunc("/api/v1/admin/reload", MetricsMiddleware(s.reloadHandler.HandleReload, "reload"))

	mux.HandleFunc("POST /api/v1/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions"))
	mux.HandleFunc("GET /api/v1/sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleGet, "session"))
	mux.HandleFunc("PUT /api/v1/sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleUpdate, "session"))
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleDelete, "session"))
	mux.HandleFunc("GET /api/v1/sessions/{id}/summary", MetricsMiddleware(s.sessionsHandler.HandleSummary, "session_summary"))
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

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
