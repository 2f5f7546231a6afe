package service

import (
	"github.com/okian/podium/internal/domain/aggregate"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
)

// Summarize computes the widgets over already filtered rows. Means are
// rounded to one decimal.
func Summarize(rows []model.EnrichedRecord, topCountries int) types.Summary {
	return types.Summary{
		Rows:              len(rows),
		TotalAthletes:     aggregate.DistinctCount(rows, model.ColID),
		TotalEvents:       aggregate.DistinctCount(rows, model.ColEvent),
		AvgHeight:         aggregate.MeanOf(rows, model.ColHeight).Round(1),
		AvgAge:            aggregate.MeanOf(rows, model.ColAge).Round(1),
		MedalsOverTime:    aggregate.CountBy(rows, model.ColYear, aggregate.WithPresent(model.ColMedal)),
		MedalDistribution: aggregate.CountBy(rows, model.ColMedal, aggregate.WithOrder(aggregate.OrderCountDesc)),
		TopCountries:      aggregate.TopNBy(rows, model.ColRegion, topCountries, aggregate.WithPresent(model.ColMedal)),
		GenderBySport:     aggregate.CrossCount(rows, model.ColSport, model.ColSex),
	}
}
