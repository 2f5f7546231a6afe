// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Medal is the podium result of an athlete-event row.
type Medal string

// Medal values. MedalNone means the athlete did not medal in that event.
const (
	MedalNone   Medal = ""
	MedalGold   Medal = "Gold"
	MedalSilver Medal = "Silver"
	MedalBronze Medal = "Bronze"
)

// Medals lists the valid medal values in podium order.
var Medals = []Medal{MedalGold, MedalSilver, MedalBronze}

// ParseMedal accepts a medal name case-insensitively. Empty, NA and NaN map
// to MedalNone.
func ParseMedal(s string) (Medal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "nan":
		return MedalNone, nil
	case "gold":
		return MedalGold, nil
	case "silver":
		return MedalSilver, nil
	case "bronze":
		return MedalBronze, nil
	}
	return MedalNone, fmt.Errorf("unknown medal %q", s)
}

// Won reports whether the row carries a medal.
func (m Medal) Won() bool { return m != MedalNone }

// MarshalJSON renders MedalNone as null.
func (m Medal) MarshalJSON() ([]byte, error) {
	if m == MedalNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(m))
}

// AthleteRecord is one row per (athlete, event, games).
// Fields mirror the athlete CSV columns.
type AthleteRecord struct {
	ID     int      `json:"ID"`
	Name   string   `json:"Name"`
	Sex    string   `json:"Sex"` // "M", "F" or empty when missing
	Age    *float64 `json:"Age"`
	Height *float64 `json:"Height"`
	Weight *float64 `json:"Weight"`
	Team   string   `json:"Team"`
	NOC    string   `json:"NOC"`
	Games  string   `json:"Games"`
	Year   int      `json:"Year"`
	Season string   `json:"Season"`
	City   string   `json:"City"`
	Sport  string   `json:"Sport"`
	Event  string   `json:"Event"`
	Medal  Medal    `json:"Medal"`
}

// Region is one row of the NOC lookup. Name is nil for codes the lookup
// lists without a display country.
type Region struct {
	NOC   string  `json:"NOC"`
	Name  *string `json:"region"`
	Notes *string `json:"notes"`
}

// EnrichedRecord is an athlete row with its region resolved by NOC.
// Region and Notes are nil when the NOC has no lookup entry.
type EnrichedRecord struct {
	AthleteRecord
	Region *string `json:"region"`
	Notes  *string `json:"notes"`
}

// RegionName returns the region and whether it is present.
func (r EnrichedRecord) RegionName() (string, bool) {
	if r.Region == nil {
		return "", false
	}
	return *r.Region, true
}
