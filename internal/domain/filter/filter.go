package filter

import (
	"github.com/okian/podium/internal/domain/model"
)

// Apply returns the rows matching every restricted dimension. Passes run in
// sport, region, medal order; each keeps rows whose value is in the set. An
// active region pass drops null regions and an active medal pass drops rows
// without a medal. The input slice is never modified.
func Apply(records []model.EnrichedRecord, sel Selection) []model.EnrichedRecord {
	var passes []func(model.EnrichedRecord) bool
	if len(sel.Sports) > 0 {
		passes = append(passes, func(r model.EnrichedRecord) bool {
			_, ok := sel.Sports[r.Sport]
			return ok
		})
	}
	if len(sel.Regions) > 0 {
		passes = append(passes, func(r model.EnrichedRecord) bool {
			region, ok := r.RegionName()
			if !ok {
				return false
			}
			_, ok = sel.Regions[region]
			return ok
		})
	}
	if len(sel.Medals) > 0 {
		passes = append(passes, func(r model.EnrichedRecord) bool {
			_, ok := sel.Medals[r.Medal]
			return ok && r.Medal.Won()
		})
	}

	if len(passes) == 0 {
		out := make([]model.EnrichedRecord, len(records))
		copy(out, records)
		return out
	}
	out := selectRows(records, passes[0])
	for _, pred := range passes[1:] {
		out = keep(out, pred)
	}
	return out
}

// selectRows copies the matching rows into a new slice.
func selectRows(rows []model.EnrichedRecord, pred func(model.EnrichedRecord) bool) []model.EnrichedRecord {
	out := make([]model.EnrichedRecord, 0)
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// keep filters rows in place; rows must be owned by the caller.
func keep(rows []model.EnrichedRecord, pred func(model.EnrichedRecord) bool) []model.EnrichedRecord {
	n := 0
	for _, r := range rows {
		if pred(r) {
			rows[n] = r
			n++
		}
	}
	return rows[:n]
}

// Choices are the values offered by the sidebar controls.
type Choices struct {
	Sports  []string      `json:"sports"`
	Regions []string      `json:"regions"`
	Medals  []model.Medal `json:"medals"`
}

// Options lists the distinct sports in first-seen order, the distinct
// non-null regions in first-seen order and the fixed medal list.
func Options(records []model.EnrichedRecord) Choices {
	c := Choices{
		Sports:  []string{},
		Regions: []string{},
		Medals:  append([]model.Medal(nil), model.Medals...),
	}
	sports := make(map[string]struct{})
	regions := make(map[string]struct{})
	for _, r := range records {
		if _, ok := sports[r.Sport]; !ok && r.Sport != "" {
			sports[r.Sport] = struct{}{}
			c.Sports = append(c.Sports, r.Sport)
		}
		if region, ok := r.RegionName(); ok {
			if _, seen := regions[region]; !seen {
				regions[region] = struct{}{}
				c.Regions = append(c.Regions, region)
			}
		}
	}
	return c
}
