package aggregate

import (
	"sort"

	"github.com/okian/podium/internal/domain/model"
)

// Grid is a dense contingency table. Cells[i][j] counts rows with
// Rows[i] and Cols[j]; missing combinations are zero.
type Grid struct {
	Rows  []string `json:"rows"`
	Cols  []string `json:"cols"`
	Cells [][]int  `json:"cells"`
}

// Cell returns the count for a row and column value, zero when unknown.
func (g Grid) Cell(row, col string) int {
	for i, r := range g.Rows {
		if r != row {
			continue
		}
		for j, c := range g.Cols {
			if c == col {
				return g.Cells[i][j]
			}
		}
	}
	return 0
}

// CrossCount counts rows by two dimensions. Rows with a null value in
// either dimension are skipped. Row and column labels are sorted.
func CrossCount(rows []model.EnrichedRecord, rowDim, colDim model.Column) Grid {
	type pair struct{ r, c string }
	counts := make(map[pair]int)
	rowSet := make(map[string]struct{})
	colSet := make(map[string]struct{})
	for _, rec := range rows {
		r, ok := rowDim.Value(rec)
		if !ok {
			continue
		}
		c, ok := colDim.Value(rec)
		if !ok {
			continue
		}
		rowSet[r] = struct{}{}
		colSet[c] = struct{}{}
		counts[pair{r, c}]++
	}

	g := Grid{Rows: labels(rowSet), Cols: labels(colSet)}
	g.Cells = make([][]int, len(g.Rows))
	for i, r := range g.Rows {
		g.Cells[i] = make([]int, len(g.Cols))
		for j, c := range g.Cols {
			g.Cells[i][j] = counts[pair{r, c}]
		}
	}
	return g
}

func labels(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return keyLess(out[i], out[j]) })
	return out
}
