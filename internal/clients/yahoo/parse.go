package yahoo

import (
	"fmt"
	"strings"

	"github.com/aristath/finsight/internal/modules/financials"
	"github.com/tidwall/gjson"
)

// parseTimeseries reshapes a fundamentals-timeseries payload into a
// RawSeries. Every result carries one line item named in meta.type, with
// null placeholders for periods the company did not report.
func parseTimeseries(body []byte, freq financials.Frequency) (financials.RawSeries, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid timeseries response")
	}

	root := gjson.ParseBytes(body)
	if e := root.Get("timeseries.error"); e.Exists() && e.Type != gjson.Null {
		return nil, fmt.Errorf("timeseries error: %s", e.Get("description").String())
	}

	prefix := string(freq)
	items := make(map[string][]financials.Point)

	root.Get("timeseries.result").ForEach(func(_, result gjson.Result) bool {
		typ := result.Get("meta.type.0").String()
		if !strings.HasPrefix(typ, prefix) {
			return true
		}
		name := strings.TrimPrefix(typ, prefix)

		result.Get(typ).ForEach(func(_, entry gjson.Result) bool {
			if entry.Type == gjson.Null {
				return true
			}
			period := entry.Get("asOfDate").String()
			value := entry.Get("reportedValue.raw")
			if period == "" || !value.Exists() {
				return true
			}
			items[name] = append(items[name], financials.Point{Period: period, Value: value.Float()})
			return true
		})
		return true
	})

	series := financials.RawSeries{}
	if len(items) > 0 {
		series[prefix] = items
	}
	return series, nil
}
