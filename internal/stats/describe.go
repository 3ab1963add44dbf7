package stats

import (
	"sort"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"

	"github.com/ids-analytics/pubstats/internal/dataset"
)

// ColumnSummary holds descriptive statistics for one numeric column.
// Statistics are computed over present values only.
type ColumnSummary struct {
	Column  dataset.Column `json:"column"`
	N       int            `json:"n"`
	Missing int            `json:"missing"`
	Mean    float64        `json:"mean"`
	StdDev  float64        `json:"std_dev"`
	Min     float64        `json:"min"`
	Median  float64        `json:"median"`
	Max     float64        `json:"max"`
}

// Describe summarizes one numeric column of obs. A column with no
// present values yields N == 0 and zero statistics.
func Describe(obs []dataset.Observation, c dataset.Column) (ColumnSummary, error) {
	s := ColumnSummary{Column: c}
	if !dataset.NumericColumn(c) {
		return s, eris.Wrapf(dataset.ErrUnknownColumn, "stats: describe column %q", c)
	}

	var values []float64
	for _, o := range obs {
		v, present, err := dataset.NumericValue(o, c)
		if err != nil {
			return s, err
		}
		if !present {
			s.Missing++
			continue
		}
		values = append(values, v)
	}

	s.N = len(values)
	if s.N == 0 {
		return s, nil
	}

	s.Mean = stat.Mean(values, nil)
	if s.N > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}

	sort.Float64s(values)
	s.Min = values[0]
	s.Max = values[len(values)-1]
	s.Median = stat.Quantile(0.5, stat.Empirical, values, nil)

	return s, nil
}

// DescribeAll summarizes every numeric column of the schema in source
// column order.
func DescribeAll(obs []dataset.Observation) ([]ColumnSummary, error) {
	var out []ColumnSummary
	for _, c := range dataset.Columns {
		if !dataset.NumericColumn(c) {
			continue
		}
		s, err := Describe(obs, c)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// CountByCountry tallies observations per constituent country.
func CountByCountry(obs []dataset.Observation) map[dataset.Country]int {
	counts := make(map[dataset.Country]int)
	for _, o := range obs {
		counts[o.Country]++
	}
	return counts
}
