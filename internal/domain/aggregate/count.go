package aggregate

import (
	"sort"
	"strconv"

	"github.com/okian/podium/internal/domain/model"
)

// Count is the number of rows in one group.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// CountBy groups rows by the non-null values of key and counts them.
// Rows with a null key are skipped.
func CountBy(rows []model.EnrichedRecord, key model.Column, opts ...Option) []Count {
	o := countOptions{order: OrderKeyAsc}
	for _, opt := range opts {
		opt(&o)
	}

	counts := make(map[string]int)
	for _, r := range rows {
		k, ok := key.Value(r)
		if !ok {
			continue
		}
		n := counts[k]
		if o.present == "" {
			n++
		} else if _, has := o.present.Value(r); has {
			n++
		}
		counts[k] = n
	}

	out := make([]Count, 0, len(counts))
	for k, n := range counts {
		out = append(out, Count{Key: k, Count: n})
	}
	sortCounts(out, o.order)
	return out
}

// TopNBy returns the n groups with the most rows. Ties are broken by key
// ascending so the result is deterministic.
func TopNBy(rows []model.EnrichedRecord, group model.Column, n int, opts ...Option) []Count {
	if n <= 0 {
		return []Count{}
	}
	opts = append(opts[:len(opts):len(opts)], WithOrder(OrderCountDesc))
	counts := CountBy(rows, group, opts...)
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Total sums the counts.
func Total(counts []Count) int {
	var t int
	for _, c := range counts {
		t += c.Count
	}
	return t
}

func sortCounts(counts []Count, order Order) {
	sort.Slice(counts, func(i, j int) bool {
		a, b := counts[i], counts[j]
		if order == OrderCountDesc && a.Count != b.Count {
			return a.Count > b.Count
		}
		return keyLess(a.Key, b.Key)
	})
}

// keyLess puts integer keys first in numeric order, then the rest lexically.
func keyLess(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return ai < bi
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
