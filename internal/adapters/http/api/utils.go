package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/podium/internal/domain/filter"
)

// selectionRequest is the JSON body for session selections.
type selectionRequest struct {
	Sports  []string `json:"sports"`
	Regions []string `json:"regions"`
	Medals  []string `json:"medals"`
}

func (r selectionRequest) selection() (filter.Selection, error) {
	return filter.NewSelection(r.Sports, r.Regions, r.Medals)
}

// selectionFromQuery reads repeated sport, region and medal parameters.
// Values are not split on commas since region names may contain them.
func selectionFromQuery(q url.Values) (filter.Selection, error) {
	return filter.NewSelection(q["sport"], q["region"], q["medal"])
}

// intParam parses an optional non-negative integer query parameter.
func intParam(r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
