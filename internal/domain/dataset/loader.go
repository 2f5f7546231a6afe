package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/sync/errgroup"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/metrics"
)

// missingMarkers are cell values read as null, matching the source files'
// "NA" convention plus blank cells.
var missingMarkers = []string{"", "NA", "NaN", "<nil>"}

// Tables is the loaded, not yet merged, dataset. Treat it as read-only: the
// cache hands the same slices to every caller.
type Tables struct {
	Athletes []model.AthleteRecord
	Regions  []model.Region
}

// Load reads the three sources in parallel and returns the concatenated
// athlete table and the region lookup. It never returns partial data.
func Load(ctx context.Context, src Sources) (Tables, error) {
	start := time.Now()
	tables, err := load(ctx, src)
	metrics.RecordDatasetLoad(err == nil, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return Tables{}, err
	}
	metrics.UpdateDatasetRows("athletes", len(tables.Athletes))
	metrics.UpdateDatasetRows("regions", len(tables.Regions))
	return tables, nil
}

func load(ctx context.Context, src Sources) (Tables, error) {
	for i, s := range append(src.Athletes[:], src.Regions) {
		if s == nil {
			return Tables{}, loadErr(fmt.Sprintf("source[%d]", i), OpOpen, errors.New("source not configured"))
		}
	}

	var frames [3]dataframe.DataFrame
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range src.Athletes {
		g.Go(func() error {
			df, err := readFrame(gctx, s, model.AthleteColumns)
			frames[i] = df
			return err
		})
	}
	g.Go(func() error {
		df, err := readFrame(gctx, src.Regions, []model.Column{model.ColNOC, model.ColRegion})
		frames[2] = df
		return err
	})
	if err := g.Wait(); err != nil {
		return Tables{}, err
	}

	first, second := frames[0], frames[1]
	if err := sameColumns(first.Names(), second.Names()); err != nil {
		return Tables{}, loadErr(src.Athletes[1].Name(), OpSchema, err)
	}
	combined := first.RBind(second)
	if combined.Err != nil {
		return Tables{}, loadErr(src.Athletes[1].Name(), OpConcat, combined.Err)
	}

	athletes, err := decodeAthletes(combined, first.Nrow(), src)
	if err != nil {
		return Tables{}, err
	}
	regions, err := decodeRegions(frames[2], src.Regions.Name())
	if err != nil {
		return Tables{}, err
	}
	return Tables{Athletes: athletes, Regions: regions}, nil
}

// readFrame parses one CSV source with every column kept as a string and
// checks the required columns are present.
func readFrame(ctx context.Context, s Source, required []model.Column) (dataframe.DataFrame, error) {
	rc, err := s.Open(ctx)
	if err != nil {
		return dataframe.DataFrame{}, loadErr(s.Name(), OpOpen, err)
	}
	defer func() { _ = rc.Close() }()

	records, err := csv.NewReader(rc).ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, loadErr(s.Name(), OpParse, err)
	}
	df := frameOf(records)
	if df.Err != nil {
		return dataframe.DataFrame{}, loadErr(s.Name(), OpParse, df.Err)
	}
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, loadErr(s.Name(), OpParse, err)
	}

	have := make(map[string]struct{}, df.Ncol())
	for _, n := range df.Names() {
		have[n] = struct{}{}
	}
	var missing []string
	for _, c := range required {
		if _, ok := have[string(c)]; !ok {
			missing = append(missing, string(c))
		}
	}
	if len(missing) > 0 {
		return dataframe.DataFrame{}, loadErr(s.Name(), OpSchema, fmt.Errorf("missing columns %s", strings.Join(missing, ", ")))
	}
	return df, nil
}

// frameOf builds a string-typed frame from CSV records. A header without
// rows is a valid, empty table.
func frameOf(records [][]string) dataframe.DataFrame {
	if len(records) != 1 {
		return dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(false),
			dataframe.DefaultType(series.String),
			dataframe.NaNValues(missingMarkers),
		)
	}
	cols := make([]series.Series, len(records[0]))
	for i, name := range records[0] {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(cols...)
}

// sameColumns requires two athlete tables to share one column set.
func sameColumns(a, b []string) error {
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	if strings.Join(as, ",") != strings.Join(bs, ",") {
		return fmt.Errorf("columns [%s] do not match [%s]", strings.Join(a, ","), strings.Join(b, ","))
	}
	return nil
}

// column is a null-aware view over one gota series.
type column struct {
	vals []string
	nas  []bool
}

func columnOf(df dataframe.DataFrame, c model.Column) column {
	s := df.Col(string(c))
	return column{vals: s.Records(), nas: s.IsNaN()}
}

// missing also checks the raw text, since gota only marks NaN cells it
// recognised while parsing.
func (c column) missing(i int) bool {
	if c.nas[i] {
		return true
	}
	v := strings.TrimSpace(c.vals[i])
	for _, m := range missingMarkers {
		if v == m {
			return true
		}
	}
	return false
}

func (c column) str(i int) string {
	if c.missing(i) {
		return ""
	}
	return strings.TrimSpace(c.vals[i])
}

func (c column) nullable(i int) *string {
	if c.missing(i) {
		return nil
	}
	v := strings.TrimSpace(c.vals[i])
	return &v
}

func (c column) float(i int) (*float64, error) {
	if c.missing(i) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(c.vals[i]), 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (c column) integer(i int) (int, error) {
	if c.missing(i) {
		return 0, errors.New("missing value")
	}
	v := strings.TrimSpace(c.vals[i])
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	// Some exports write integer columns as "1996.0".
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %q", v)
	}
	return int(f), nil
}

func decodeAthletes(df dataframe.DataFrame, firstRows int, src Sources) ([]model.AthleteRecord, error) {
	cols := make(map[model.Column]column, len(model.AthleteColumns))
	for _, c := range model.AthleteColumns {
		cols[c] = columnOf(df, c)
	}

	// rowErr maps a combined row index back to its source and file line.
	rowErr := func(i int, col model.Column, err error) error {
		source, line := src.Athletes[0].Name(), i+2
		if i >= firstRows {
			source, line = src.Athletes[1].Name(), i-firstRows+2
		}
		return loadErr(source, OpDecode, fmt.Errorf("line %d column %s: %w", line, col, err))
	}

	n := df.Nrow()
	out := make([]model.AthleteRecord, n)
	for i := 0; i < n; i++ {
		r := &out[i]
		var err error
		if r.ID, err = cols[model.ColID].integer(i); err != nil {
			return nil, rowErr(i, model.ColID, err)
		}
		if r.Year, err = cols[model.ColYear].integer(i); err != nil {
			return nil, rowErr(i, model.ColYear, err)
		}
		if r.Age, err = cols[model.ColAge].float(i); err != nil {
			return nil, rowErr(i, model.ColAge, err)
		}
		if r.Height, err = cols[model.ColHeight].float(i); err != nil {
			return nil, rowErr(i, model.ColHeight, err)
		}
		if r.Weight, err = cols[model.ColWeight].float(i); err != nil {
			return nil, rowErr(i, model.ColWeight, err)
		}
		if r.Medal, err = model.ParseMedal(cols[model.ColMedal].str(i)); err != nil {
			return nil, rowErr(i, model.ColMedal, err)
		}
		r.Name = cols[model.ColName].str(i)
		r.Sex = cols[model.ColSex].str(i)
		r.Team = cols[model.ColTeam].str(i)
		r.NOC = cols[model.ColNOC].str(i)
		r.Games = cols[model.ColGames].str(i)
		r.Season = cols[model.ColSeason].str(i)
		r.City = cols[model.ColCity].str(i)
		r.Sport = cols[model.ColSport].str(i)
		r.Event = cols[model.ColEvent].str(i)
	}
	return out, nil
}

func decodeRegions(df dataframe.DataFrame, source string) ([]model.Region, error) {
	noc := columnOf(df, model.ColNOC)
	name := columnOf(df, model.ColRegion)
	var notes *column
	for _, n := range df.Names() {
		if n == string(model.ColNotes) {
			c := columnOf(df, model.ColNotes)
			notes = &c
			break
		}
	}

	n := df.Nrow()
	out := make([]model.Region, n)
	for i := 0; i < n; i++ {
		code := noc.str(i)
		if code == "" {
			return nil, loadErr(source, OpDecode, fmt.Errorf("line %d column %s: missing value", i+2, model.ColNOC))
		}
		out[i] = model.Region{NOC: code, Name: name.nullable(i)}
		if notes != nil {
			out[i].Notes = notes.nullable(i)
		}
	}
	return out, nil
}
