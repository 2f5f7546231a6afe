package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/podium/internal/domain/aggregate"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/model"
	types "github.com/okian/podium/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestViewOf(t *testing.T) {
	Convey("Given a selection", t, func() {
		sel, err := filter.NewSelection([]string{"Rowing", "Judo"}, []string{"Kenya"}, []string{"Bronze", "Gold"})
		So(err, ShouldBeNil)

		Convey("When it is rendered", func() {
			v := types.ViewOf(sel)

			Convey("Then lists are sorted and medals keep podium order", func() {
				So(v.Sports, ShouldResemble, []string{"Judo", "Rowing"})
				So(v.Regions, ShouldResemble, []string{"Kenya"})
				So(v.Medals, ShouldResemble, []model.Medal{model.MedalGold, model.MedalBronze})
			})
		})

		Convey("When an empty selection is rendered", func() {
			v := types.ViewOf(filter.Selection{})

			Convey("Then the lists encode as empty arrays", func() {
				raw, err := json.Marshal(v)
				So(err, ShouldBeNil)
				So(string(raw), ShouldEqual, `{"sports":[],"regions":[],"medals":[]}`)
			})
		})
	})
}

func TestSummaryJSON(t *testing.T) {
	Convey("Given a summary without data", t, func() {
		s := types.Summary{
			MedalsOverTime: []aggregate.Count{},
			GenderBySport:  aggregate.Grid{Rows: []string{}, Cols: []string{}, Cells: [][]int{}},
		}

		Convey("When it is encoded", func() {
			raw, err := json.Marshal(s)
			So(err, ShouldBeNil)
			var out map[string]any
			So(json.Unmarshal(raw, &out), ShouldBeNil)

			Convey("Then means without data are null", func() {
				So(out["avgHeight"], ShouldBeNil)
				So(out["avgAge"], ShouldBeNil)
				_, has := out["avgAge"]
				So(has, ShouldBeTrue)
				So(out["totalAthletes"], ShouldEqual, float64(0))
			})
		})
	})
}
