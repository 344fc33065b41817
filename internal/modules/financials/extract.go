package financials

import (
	"github.com/aristath/finsight/internal/domain"
)

// Full window bounds, used when a caller wants every period.
const (
	MinPeriod = "0001-01-01"
	MaxPeriod = "9999-12-31"
)

// ExtractSeries builds a period-keyed table from raw for one frequency.
//
// Only points with start <= period <= end survive (lexical comparison on
// ISO dates) and null points are skipped, so a period whose values are all
// null is absent from the table. When selected is non-empty only metrics that are both in raw
// and in selected are read; unknown names are ignored. A duplicate period
// within one metric keeps the last value seen.
//
// An unknown frequency fails with ErrInvalidArgument before raw is read.
// A raw record with no series at all fails with ErrDataUnavailable, while a
// frequency that simply has no metrics yields an empty table.
func ExtractSeries(raw RawSeries, freq Frequency, start, end string, selected []string) (Table, error) {
	if err := freq.Validate(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, domain.DataUnavailable("no financial series available")
	}

	metrics := raw[string(freq)]
	out := make(Table)

	for _, name := range metricNames(metrics, selected) {
		for _, p := range metrics[name] {
			if p.Null || p.Period < start || p.Period > end {
				continue
			}
			row, ok := out[p.Period]
			if !ok {
				row = make(map[string]float64)
				out[p.Period] = row
			}
			row[name] = p.Value
		}
	}

	return out, nil
}

// Snapshot merges the most recent quarterly value of every metric over the
// provider's current-metric map. The first point of each quarterly series
// is taken as the most recent one; no sorting happens. A null first point
// leaves the current metric untouched. A non-empty
// selected restricts the merged result to those keys.
func Snapshot(bf BasicFinancials, selected []string) (map[string]interface{}, error) {
	if len(bf.Series) == 0 {
		return nil, domain.DataUnavailable("no financial series available")
	}

	out := make(map[string]interface{}, len(bf.Metric))
	for k, v := range bf.Metric {
		out[k] = v
	}

	for name, points := range bf.Series[string(Quarterly)] {
		if len(points) == 0 || points[0].Null {
			continue
		}
		out[name] = points[0].Value
	}

	if len(selected) == 0 {
		return out, nil
	}

	filtered := make(map[string]interface{}, len(selected))
	for _, name := range selected {
		if v, ok := out[name]; ok {
			filtered[name] = v
		}
	}
	return filtered, nil
}

// metricNames returns the metric names to read: all of them, or the
// intersection with selected when it is non-empty.
func metricNames(metrics map[string][]Point, selected []string) []string {
	if len(selected) == 0 {
		names := make([]string, 0, len(metrics))
		for name := range metrics {
			names = append(names, name)
		}
		return names
	}

	seen := make(map[string]bool, len(selected))
	names := make([]string, 0, len(selected))
	for _, name := range selected {
		if _, ok := metrics[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
