// Package aggregate computes the dashboard summaries over enriched rows.
// Every function is pure; nulls are skipped rather than counted.
package aggregate

import (
	"encoding/json"
	"math"

	"github.com/okian/podium/internal/domain/model"
)

// DistinctCount returns the number of unique non-null values of col.
func DistinctCount(rows []model.EnrichedRecord, col model.Column) int {
	seen := make(map[string]struct{})
	for _, r := range rows {
		if v, ok := col.Value(r); ok {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// Mean is an average that may have no data.
type Mean struct {
	Value float64
	Valid bool
}

// MarshalJSON renders a mean without data as null.
func (m Mean) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON reads null as a mean without data.
func (m *Mean) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = Mean{}
	if v != nil {
		*m = Mean{Value: *v, Valid: true}
	}
	return nil
}

// Round returns m rounded to the given number of decimals.
func (m Mean) Round(decimals int) Mean {
	if !m.Valid {
		return m
	}
	p := math.Pow(10, float64(decimals))
	return Mean{Value: math.Round(m.Value*p) / p, Valid: true}
}

// MeanOf averages the non-null values of a numeric column. It is invalid
// when no row has a value.
func MeanOf(rows []model.EnrichedRecord, col model.Column) Mean {
	var sum float64
	var n int
	for _, r := range rows {
		if v, ok := col.Number(r); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return Mean{}
	}
	return Mean{Value: sum / float64(n), Valid: true}
}
