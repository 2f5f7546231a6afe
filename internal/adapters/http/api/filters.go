package api

import (
	"net/http"
)

// FiltersHandler serves the sidebar choices.
type FiltersHandler struct {
	deps FilterDependencies
}

// NewFiltersHandler creates a new filters handler.
func NewFiltersHandler(deps FilterDependencies) *FiltersHandler {
	return &FiltersHandler{deps: deps}
}

// HandleGetFilters handles GET /api/v1/filters requests.
func (h *FiltersHandler) HandleGetFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_filters"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	choices, err := h.deps.Choices(r.Context())
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, choices)
}
