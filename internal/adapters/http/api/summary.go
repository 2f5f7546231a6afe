package api

import (
	"net/http"
)

// SummaryHandler serves the dashboard widgets for a query selection.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleGetSummary handles GET /api/v1/summary?sport=&region=&medal= requests.
// Each parameter may repeat; an absent parameter leaves that dimension open.
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sel, err := selectionFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sum, err := h.deps.Summary(r.Context(), sel)
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
