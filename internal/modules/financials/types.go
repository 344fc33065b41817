// Package financials reshapes provider time series into period-keyed tables.
package financials

import (
	"encoding/json"

	"github.com/aristath/finsight/internal/domain"
)

// Frequency is a reporting cadence.
type Frequency string

const (
	Annual    Frequency = "annual"
	Quarterly Frequency = "quarterly"
)

// Valid reports whether f is a recognized reporting frequency.
func (f Frequency) Valid() bool {
	return f == Annual || f == Quarterly
}

// Validate returns an ErrInvalidArgument error for an unknown frequency.
func (f Frequency) Validate() error {
	if f.Valid() {
		return nil
	}
	return domain.InvalidArgument("frequency must be %q or %q, got %q", Annual, Quarterly, f)
}

// Point is a single period/value pair as the provider returns it.
// Period is a zero-padded ISO date (YYYY-MM-DD). Null marks a period the
// provider listed without a value; Value is meaningless then.
type Point struct {
	Period string  `json:"period" msgpack:"period"`
	Value  float64 `json:"v" msgpack:"v"`
	Null   bool    `json:"-" msgpack:"null,omitempty"`
}

// UnmarshalJSON decodes {"period": ..., "v": ...}, treating a null or
// missing v as Null.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw struct {
		Period string   `json:"period"`
		Value  *float64 `json:"v"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Point{Period: raw.Period, Null: raw.Value == nil}
	if raw.Value != nil {
		p.Value = *raw.Value
	}
	return nil
}

// RawSeries maps frequency -> metric -> points in provider order.
// It is read-only to everything in this package.
type RawSeries map[string]map[string][]Point

// Table maps period -> metric -> value.
type Table map[string]map[string]float64

// BasicFinancials is the provider's company basic financials record:
// the historical series plus a flat snapshot of current metrics.
// Metric values are mostly numbers, but the provider also mixes in
// strings (e.g. dates) and nulls, so they are kept untyped.
type BasicFinancials struct {
	Symbol     string                 `json:"symbol" msgpack:"symbol"`
	MetricType string                 `json:"metricType" msgpack:"metric_type"`
	Metric     map[string]interface{} `json:"metric" msgpack:"metric"`
	Series     RawSeries              `json:"series" msgpack:"series"`
}
