package aggregate_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/podium/internal/domain/aggregate"
	"github.com/okian/podium/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func ptr[T any](v T) *T { return &v }

func table() []model.EnrichedRecord {
	return []model.EnrichedRecord{
		{AthleteRecord: model.AthleteRecord{ID: 1, Sex: "F", Age: ptr(20.0), Height: ptr(170.0), Sport: "Swimming", Event: "100m", Year: 2000, Medal: model.MedalGold}, Region: ptr("United States")},
		{AthleteRecord: model.AthleteRecord{ID: 1, Sex: "F", Age: ptr(20.0), Height: ptr(170.0), Sport: "Swimming", Event: "200m", Year: 2000, Medal: model.MedalSilver}, Region: ptr("United States")},
		{AthleteRecord: model.AthleteRecord{ID: 2, Sex: "M", Age: ptr(31.0), Sport: "Athletics", Event: "Marathon", Year: 1996}, Region: ptr("Kenya")},
		{AthleteRecord: model.AthleteRecord{ID: 3, Sex: "M", Sport: "Athletics", Event: "Marathon", Year: 2004, Medal: model.MedalGold}, Region: ptr("Kenya")},
		{AthleteRecord: model.AthleteRecord{ID: 4, Sex: "F", Age: ptr(25.0), Height: ptr(165.0), Sport: "Judo", Event: "Judo 52kg", Year: 2004, Medal: model.MedalBronze}},
		{AthleteRecord: model.AthleteRecord{ID: 5, Sport: "Judo", Event: "Judo 52kg", Year: 2008}, Region: ptr("Japan")},
	}
}

func TestDistinctCount(t *testing.T) {
	convey.Convey("Given the table", t, func() {
		rows := table()

		convey.Convey("Then athletes and events are counted once each", func() {
			convey.So(aggregate.DistinctCount(rows, model.ColID), convey.ShouldEqual, 5)
			convey.So(aggregate.DistinctCount(rows, model.ColEvent), convey.ShouldEqual, 4)
		})

		convey.Convey("Then nulls are not a value", func() {
			convey.So(aggregate.DistinctCount(rows, model.ColRegion), convey.ShouldEqual, 3)
			convey.So(aggregate.DistinctCount(rows, model.ColMedal), convey.ShouldEqual, 3)
		})

		convey.Convey("Then an empty table counts zero", func() {
			convey.So(aggregate.DistinctCount(nil, model.ColID), convey.ShouldEqual, 0)
		})
	})
}

func TestMeanOf(t *testing.T) {
	convey.Convey("Given the table", t, func() {
		rows := table()

		convey.Convey("When averaging a column with some nulls", func() {
			m := aggregate.MeanOf(rows, model.ColAge)

			convey.Convey("Then nulls are ignored", func() {
				convey.So(m.Valid, convey.ShouldBeTrue)
				convey.So(m.Value, convey.ShouldEqual, 24.0)
			})
		})

		convey.Convey("When rounding", func() {
			m := aggregate.MeanOf(rows, model.ColHeight).Round(1)

			convey.Convey("Then one decimal is kept", func() {
				convey.So(m.Value, convey.ShouldEqual, 168.3)
			})
		})

		convey.Convey("When every value is null", func() {
			m := aggregate.MeanOf(rows[2:4], model.ColHeight)

			convey.Convey("Then there is no data, not zero", func() {
				convey.So(m.Valid, convey.ShouldBeFalse)
				raw, err := json.Marshal(m)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(raw), convey.ShouldEqual, "null")
				convey.So(m.Round(1).Valid, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the table is empty", func() {
			convey.So(aggregate.MeanOf(nil, model.ColAge).Valid, convey.ShouldBeFalse)
		})

		convey.Convey("When the mean is valid it encodes as a number", func() {
			raw, err := json.Marshal(aggregate.Mean{Value: 1.5, Valid: true})
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(raw), convey.ShouldEqual, "1.5")
		})

		convey.Convey("When a mean is decoded", func() {
			var out struct{ A, B aggregate.Mean }
			convey.So(json.Unmarshal([]byte(`{"A":172.5,"B":null}`), &out), convey.ShouldBeNil)

			convey.Convey("Then null means no data", func() {
				convey.So(out.A, convey.ShouldResemble, aggregate.Mean{Value: 172.5, Valid: true})
				convey.So(out.B.Valid, convey.ShouldBeFalse)
			})
		})
	})
}

func TestCountBy(t *testing.T) {
	convey.Convey("Given the table", t, func() {
		rows := table()

		convey.Convey("When counting medals", func() {
			got := aggregate.CountBy(rows, model.ColMedal, aggregate.WithOrder(aggregate.OrderCountDesc))

			convey.Convey("Then counts are largest first and sum to the medal rows", func() {
				convey.So(got, convey.ShouldResemble, []aggregate.Count{
					{Key: "Gold", Count: 2},
					{Key: "Bronze", Count: 1},
					{Key: "Silver", Count: 1},
				})
				medalRows := 0
				for _, r := range rows {
					if r.Medal.Won() {
						medalRows++
					}
				}
				convey.So(aggregate.Total(got), convey.ShouldEqual, medalRows)
			})
		})

		convey.Convey("When counting medals per year", func() {
			got := aggregate.CountBy(rows, model.ColYear, aggregate.WithPresent(model.ColMedal))

			convey.Convey("Then years are ascending and medal-less years count zero", func() {
				convey.So(got, convey.ShouldResemble, []aggregate.Count{
					{Key: "1996", Count: 0},
					{Key: "2000", Count: 2},
					{Key: "2004", Count: 2},
					{Key: "2008", Count: 0},
				})
			})
		})

		convey.Convey("When integer keys have different widths", func() {
			got := aggregate.CountBy([]model.EnrichedRecord{
				{AthleteRecord: model.AthleteRecord{ID: 10}},
				{AthleteRecord: model.AthleteRecord{ID: 9}},
			}, model.ColID)

			convey.Convey("Then they sort numerically", func() {
				convey.So(got[0].Key, convey.ShouldEqual, "9")
				convey.So(got[1].Key, convey.ShouldEqual, "10")
			})
		})

		convey.Convey("When integer and text keys are mixed", func() {
			var mixed []model.EnrichedRecord
			for _, sport := range []string{"1a", "10", "b", "9", "1a", "2"} {
				mixed = append(mixed, model.EnrichedRecord{AthleteRecord: model.AthleteRecord{Sport: sport}})
			}
			got := aggregate.CountBy(mixed, model.ColSport)

			convey.Convey("Then integers come first in numeric order, then text", func() {
				keys := make([]string, len(got))
				for i, c := range got {
					keys[i] = c.Key
				}
				convey.So(keys, convey.ShouldResemble, []string{"2", "9", "10", "1a", "b"})
			})
		})

		convey.Convey("When the table is empty", func() {
			convey.So(aggregate.CountBy(nil, model.ColYear), convey.ShouldBeEmpty)
		})
	})
}

func TestTopNBy(t *testing.T) {
	convey.Convey("Given the table", t, func() {
		rows := table()

		convey.Convey("When asking for the top regions by medals", func() {
			got := aggregate.TopNBy(rows, model.ColRegion, 10, aggregate.WithPresent(model.ColMedal))

			convey.Convey("Then null regions are skipped and ties break by name", func() {
				convey.So(got, convey.ShouldResemble, []aggregate.Count{
					{Key: "United States", Count: 2},
					{Key: "Kenya", Count: 1},
					{Key: "Japan", Count: 0},
				})
			})
		})

		convey.Convey("When groups tie at the cut", func() {
			tied := []model.EnrichedRecord{
				{Region: ptr("C")}, {Region: ptr("B")}, {Region: ptr("A")}, {Region: ptr("C")},
			}
			got := aggregate.TopNBy(tied, model.ColRegion, 2)

			convey.Convey("Then the lower key wins the tie", func() {
				convey.So(got, convey.ShouldResemble, []aggregate.Count{
					{Key: "C", Count: 2},
					{Key: "A", Count: 1},
				})
			})
		})

		convey.Convey("When n is not positive", func() {
			convey.So(aggregate.TopNBy(rows, model.ColRegion, 0), convey.ShouldBeEmpty)
		})
	})
}

func TestCrossCount(t *testing.T) {
	convey.Convey("Given the two-row scenario", t, func() {
		rows := []model.EnrichedRecord{
			{AthleteRecord: model.AthleteRecord{ID: 1, Sex: "F", Sport: "Swimming", NOC: "USA", Year: 2000, Medal: model.MedalGold}, Region: ptr("United States")},
			{AthleteRecord: model.AthleteRecord{ID: 2, Sex: "M", Sport: "Athletics", NOC: "GBR", Year: 2000}, Region: ptr("United Kingdom")},
		}

		convey.Convey("When crossing sport with sex", func() {
			g := aggregate.CrossCount(rows, model.ColSport, model.ColSex)

			convey.Convey("Then the grid is dense with zero cells", func() {
				convey.So(g.Rows, convey.ShouldResemble, []string{"Athletics", "Swimming"})
				convey.So(g.Cols, convey.ShouldResemble, []string{"F", "M"})
				convey.So(g.Cells, convey.ShouldResemble, [][]int{{0, 1}, {1, 0}})
				convey.So(g.Cell("Athletics", "F"), convey.ShouldEqual, 0)
				convey.So(g.Cell("Swimming", "F"), convey.ShouldEqual, 1)
				convey.So(g.Cell("Rowing", "F"), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When counting years", func() {
			got := aggregate.CountBy(rows[:1], model.ColYear)

			convey.Convey("Then the swimming row gives one for 2000", func() {
				convey.So(got, convey.ShouldResemble, []aggregate.Count{{Key: "2000", Count: 1}})
			})
		})

		convey.Convey("When the table is empty", func() {
			g := aggregate.CrossCount(nil, model.ColSport, model.ColSex)

			convey.Convey("Then the grid is empty", func() {
				convey.So(g.Rows, convey.ShouldBeEmpty)
				convey.So(g.Cols, convey.ShouldBeEmpty)
				convey.So(g.Cells, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When a row lacks sex", func() {
			g := aggregate.CrossCount(append(rows, model.EnrichedRecord{AthleteRecord: model.AthleteRecord{Sport: "Judo"}}), model.ColSport, model.ColSex)

			convey.Convey("Then it is left out", func() {
				convey.So(g.Rows, convey.ShouldResemble, []string{"Athletics", "Swimming"})
			})
		})
	})
}
