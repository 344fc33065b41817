package financials

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SeriesStats summarizes one metric over the periods of a table.
type SeriesStats struct {
	Count        int     `json:"count"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	LatestPeriod string  `json:"latest_period"`
	Latest       float64 `json:"latest"`
}

// Summarize computes per-metric statistics for every metric in t.
// StdDev is zero for metrics with fewer than two points.
func Summarize(t Table) map[string]SeriesStats {
	periods := make([]string, 0, len(t))
	for p := range t {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	values := make(map[string][]float64)
	latest := make(map[string]string)
	for _, p := range periods {
		for name, v := range t[p] {
			values[name] = append(values[name], v)
			latest[name] = p
		}
	}

	out := make(map[string]SeriesStats, len(values))
	for name, vs := range values {
		s := SeriesStats{
			Count:        len(vs),
			Mean:         stat.Mean(vs, nil),
			Min:          floats.Min(vs),
			Max:          floats.Max(vs),
			LatestPeriod: latest[name],
			Latest:       vs[len(vs)-1],
		}
		if len(vs) > 1 {
			s.StdDev = stat.StdDev(vs, nil)
		}
		out[name] = s
	}
	return out
}
