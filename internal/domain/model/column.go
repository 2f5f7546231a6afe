package model

import (
	"fmt"
	"strconv"
)

// Column names an enriched-record column by its CSV contract name.
type Column string

// Athlete columns, followed by the columns joined from the region lookup.
const (
	ColID     Column = "ID"
	ColName   Column = "Name"
	ColSex    Column = "Sex"
	ColAge    Column = "Age"
	ColHeight Column = "Height"
	ColWeight Column = "Weight"
	ColTeam   Column = "Team"
	ColNOC    Column = "NOC"
	ColGames  Column = "Games"
	ColYear   Column = "Year"
	ColSeason Column = "Season"
	ColCity   Column = "City"
	ColSport  Column = "Sport"
	ColEvent  Column = "Event"
	ColMedal  Column = "Medal"
	ColRegion Column = "region"
	ColNotes  Column = "notes"
)

// AthleteColumns is the athlete CSV schema, in file order.
var AthleteColumns = []Column{
	ColID, ColName, ColSex, ColAge, ColHeight, ColWeight, ColTeam, ColNOC,
	ColGames, ColYear, ColSeason, ColCity, ColSport, ColEvent, ColMedal,
}

// RegionColumns is the region lookup CSV schema.
var RegionColumns = []Column{ColNOC, ColRegion, ColNotes}

// ParseColumn validates a column name against the enriched schema.
func ParseColumn(name string) (Column, error) {
	c := Column(name)
	switch c {
	case ColRegion, ColNotes:
		return c, nil
	}
	for _, known := range AthleteColumns {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown column %q", name)
}

// Numeric reports whether the column holds numbers.
func (c Column) Numeric() bool {
	switch c {
	case ColID, ColAge, ColHeight, ColWeight, ColYear:
		return true
	}
	return false
}

// Value returns the column value of r as a string and whether it is non-null.
func (c Column) Value(r EnrichedRecord) (string, bool) {
	switch c {
	case ColID:
		return strconv.Itoa(r.ID), true
	case ColName:
		return r.Name, r.Name != ""
	case ColSex:
		return r.Sex, r.Sex != ""
	case ColAge:
		return formatNullable(r.Age)
	case ColHeight:
		return formatNullable(r.Height)
	case ColWeight:
		return formatNullable(r.Weight)
	case ColTeam:
		return r.Team, r.Team != ""
	case ColNOC:
		return r.NOC, r.NOC != ""
	case ColGames:
		return r.Games, r.Games != ""
	case ColYear:
		return strconv.Itoa(r.Year), true
	case ColSeason:
		return r.Season, r.Season != ""
	case ColCity:
		return r.City, r.City != ""
	case ColSport:
		return r.Sport, r.Sport != ""
	case ColEvent:
		return r.Event, r.Event != ""
	case ColMedal:
		return string(r.Medal), r.Medal.Won()
	case ColRegion:
		return deref(r.Region)
	case ColNotes:
		return deref(r.Notes)
	}
	return "", false
}

// Number returns the numeric value of r for numeric columns.
func (c Column) Number(r EnrichedRecord) (float64, bool) {
	switch c {
	case ColID:
		return float64(r.ID), true
	case ColYear:
		return float64(r.Year), true
	case ColAge:
		return derefFloat(r.Age)
	case ColHeight:
		return derefFloat(r.Height)
	case ColWeight:
		return derefFloat(r.Weight)
	}
	return 0, false
}

func formatNullable(v *float64) (string, bool) {
	if v == nil {
		return "", false
	}
	return strconv.FormatFloat(*v, 'f', -1, 64), true
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

func derefFloat(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
