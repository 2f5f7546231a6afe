// Package merge left-joins athlete rows to the NOC region lookup.
package merge

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/metrics"
)

// ErrJoinAmbiguity is returned under the Strict policy when the lookup
// repeats a NOC code.
var ErrJoinAmbiguity = errors.New("region lookup has duplicate NOC codes")

// Result is the enriched table plus join diagnostics.
type Result struct {
	Records []model.EnrichedRecord
	// Duplicates lists codes that appear more than once in the lookup, sorted.
	Duplicates []string
	// Unmatched counts athlete rows whose NOC has no lookup entry.
	Unmatched int
}

// Merge returns one EnrichedRecord per athlete row, in input order. Rows are
// never dropped or repeated, so len(Records) == len(athletes).
func Merge(athletes []model.AthleteRecord, regions []model.Region, opts ...Option) (Result, error) {
	o := options{policy: KeepFirst}
	for _, opt := range opts {
		opt(&o)
	}

	lookup, dups := index(regions)
	if len(dups) > 0 && o.policy == Strict {
		return Result{Duplicates: dups}, fmt.Errorf("%w: %s", ErrJoinAmbiguity, strings.Join(dups, ", "))
	}

	res := Result{
		Records:    make([]model.EnrichedRecord, len(athletes)),
		Duplicates: dups,
	}
	for i, a := range athletes {
		res.Records[i].AthleteRecord = a
		r, ok := lookup[a.NOC]
		if !ok {
			res.Unmatched++
			continue
		}
		res.Records[i].Region = r.Name
		res.Records[i].Notes = r.Notes
	}

	metrics.UpdateJoinQuality(len(dups), res.Unmatched)
	return res, nil
}

// index keeps the first row for each code and collects repeated codes.
func index(regions []model.Region) (map[string]model.Region, []string) {
	lookup := make(map[string]model.Region, len(regions))
	seen := make(map[string]bool)
	var dups []string
	for _, r := range regions {
		if _, ok := lookup[r.NOC]; ok {
			if !seen[r.NOC] {
				seen[r.NOC] = true
				dups = append(dups, r.NOC)
			}
			continue
		}
		lookup[r.NOC] = r
	}
	sort.Strings(dups)
	return lookup, dups
}
