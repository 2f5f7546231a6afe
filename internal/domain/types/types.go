// Package types contains the read shapes shared by the service and the API.
package types

import (
	"time"

	"github.com/okian/podium/internal/domain/aggregate"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/model"
)

// Summary holds every dashboard widget for one selection.
type Summary struct {
	Selection         SelectionView     `json:"selection"`
	Rows              int               `json:"rows"`
	TotalAthletes     int               `json:"totalAthletes"`
	TotalEvents       int               `json:"totalEvents"`
	AvgHeight         aggregate.Mean    `json:"avgHeight"`
	AvgAge            aggregate.Mean    `json:"avgAge"`
	MedalsOverTime    []aggregate.Count `json:"medalsOverTime"`
	MedalDistribution []aggregate.Count `json:"medalDistribution"`
	TopCountries      []aggregate.Count `json:"topCountries"`
	GenderBySport     aggregate.Grid    `json:"genderBySport"`
}

// SelectionView is the JSON form of a filter.Selection.
type SelectionView struct {
	Sports  []string      `json:"sports"`
	Regions []string      `json:"regions"`
	Medals  []model.Medal `json:"medals"`
}

// ViewOf renders a selection with sorted lists.
func ViewOf(sel filter.Selection) SelectionView {
	return SelectionView{
		Sports:  sel.SportList(),
		Regions: sel.RegionList(),
		Medals:  sel.MedalList(),
	}
}

// DatasetInfo describes the merged table currently served.
type DatasetInfo struct {
	Rows       int       `json:"rows"`
	Duplicates []string  `json:"duplicateCodes"`
	Unmatched  int       `json:"unmatchedRows"`
	LoadedAt   time.Time `json:"loadedAt"`
}

// RecordsPage is one page of the filtered raw table.
type RecordsPage struct {
	Total   int                    `json:"total"`
	Offset  int                    `json:"offset"`
	Limit   int                    `json:"limit"`
	Records []model.EnrichedRecord `json:"records"`
}

// SessionView is the JSON form of a dashboard session.
type SessionView struct {
	ID         string        `json:"id"`
	Selection  SelectionView `json:"selection"`
	CreatedAt  time.Time     `json:"createdAt"`
	LastAccess time.Time     `json:"lastAccess"`
}
