package services

import (
	"math"

	"github.com/j-veylop/sview/internal/chart"
	"github.com/j-veylop/sview/internal/config"
	"github.com/j-veylop/sview/internal/models"
)

// SeriesSummary describes one series of a query result.
type SeriesSummary struct {
	Key      string
	Observed int
	Min      float64
	Max      float64
	Latest   float64
	// HasValues is false when every observation is NaN.
	HasValues bool
}

// Summarize aggregates result with the configured chart options and
// summarizes each series in key order.
func Summarize(cfg *config.Config, result *models.QueryResult) []SeriesSummary {
	if result == nil {
		return nil
	}
	opts := ChartOptions(cfg, result)
	set := chart.Aggregate(result.Rows, opts.GroupBy, opts.ShowHits, opts.ValueColumns())

	out := make([]SeriesSummary, 0, len(set.Keys))
	for _, key := range set.Keys {
		data := set.Data[key]
		s := SeriesSummary{Key: key, Observed: len(data), Min: math.Inf(1), Max: math.Inf(-1)}
		for _, v := range data {
			if math.IsNaN(v) {
				continue
			}
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
		}
		s.Latest, s.HasValues = latest(data)
		if !s.HasValues {
			s.Min, s.Max = 0, 0
		}
		out = append(out, s)
	}
	return out
}
