// Package dataset defines the local-authority observation model and the
// core tabular operations over it: loading, missing-value reporting, and
// row filtering.
package dataset

import (
	"github.com/rotisserie/eris"
)

// Country is the UK constituent country of a local authority.
type Country string

// Constituent countries as they appear in the source data.
const (
	England         Country = "England"
	NorthernIreland Country = "Northern Ireland"
	Scotland        Country = "Scotland"
	Wales           Country = "Wales"
)

// Coastal classifies a local authority by coastline. The classification is
// not produced for Northern Ireland, where the measurement methodology
// differs; those rows carry CoastalUnknown.
type Coastal string

const (
	CoastalUnknown Coastal = ""
	CoastalCoastal Coastal = "Coastal"
	CoastalInland  Coastal = "Inland"
)

// Observation is one row of the joined pubs dataset: a single local
// authority with its 2018 pub count and the joined ONS covariates.
// Optional numeric fields are nil when the source value is missing.
// Observations are immutable once loaded; derived sets are fresh copies.
type Observation struct {
	AreaCode      string   `json:"area_code"`
	AreaName      string   `json:"area_name"`
	NumPubs       int      `json:"num_pubs"`
	Population    int      `json:"pop"`
	PubsPerCapita float64  `json:"pubs_per_capita"`
	Country       Country  `json:"country"`
	MedianPay2017 *float64 `json:"median_pay_2017,omitempty"`
	AreaSqKm      float64  `json:"area_sqkm"`
	Coastal       Coastal  `json:"coastal,omitempty"`
	PopDensity    float64  `json:"pop_dens"`
	LifeExpFemale *float64 `json:"life_exp_female,omitempty"`
	LifeExpMale   *float64 `json:"life_exp_male,omitempty"`
}

// Column identifies a dataset column by its source name.
type Column string

// The twelve columns of the pubs-final table, in source order.
const (
	ColAreaCode      Column = "area_code"
	ColAreaName      Column = "area_name"
	ColNumPubs       Column = "num_pubs"
	ColPopulation    Column = "pop"
	ColPubsPerCapita Column = "pubs_per_capita"
	ColCountry       Column = "country"
	ColMedianPay2017 Column = "median_pay_2017"
	ColAreaSqKm      Column = "area_sqkm"
	ColCoastal       Column = "coastal"
	ColPopDensity    Column = "pop_dens"
	ColLifeExpFemale Column = "life_exp_female"
	ColLifeExpMale   Column = "life_exp_male"
)

// Columns lists every column in source order. Report output follows this
// ordering.
var Columns = []Column{
	ColAreaCode,
	ColAreaName,
	ColNumPubs,
	ColPopulation,
	ColPubsPerCapita,
	ColCountry,
	ColMedianPay2017,
	ColAreaSqKm,
	ColCoastal,
	ColPopDensity,
	ColLifeExpFemale,
	ColLifeExpMale,
}

// ErrUnknownColumn is returned when a column name is not part of the
// dataset schema, or when a numeric operation is requested on a
// non-numeric column.
var ErrUnknownColumn = eris.New("dataset: unknown column")

var columnSet = func() map[Column]struct{} {
	m := make(map[Column]struct{}, len(Columns))
	for _, c := range Columns {
		m[c] = struct{}{}
	}
	return m
}()

// ParseColumn validates a runtime column name against the schema.
func ParseColumn(name string) (Column, error) {
	c := Column(name)
	if _, ok := columnSet[c]; !ok {
		return "", eris.Wrapf(ErrUnknownColumn, "dataset: column %q", name)
	}
	return c, nil
}

// numericAccessors maps each numeric column to its extractor. The second
// return reports presence; required columns are always present.
var numericAccessors = map[Column]func(Observation) (float64, bool){
	ColNumPubs:       func(o Observation) (float64, bool) { return float64(o.NumPubs), true },
	ColPopulation:    func(o Observation) (float64, bool) { return float64(o.Population), true },
	ColPubsPerCapita: func(o Observation) (float64, bool) { return o.PubsPerCapita, true },
	ColMedianPay2017: func(o Observation) (float64, bool) { return deref(o.MedianPay2017) },
	ColAreaSqKm:      func(o Observation) (float64, bool) { return o.AreaSqKm, true },
	ColPopDensity:    func(o Observation) (float64, bool) { return o.PopDensity, true },
	ColLifeExpFemale: func(o Observation) (float64, bool) { return deref(o.LifeExpFemale) },
	ColLifeExpMale:   func(o Observation) (float64, bool) { return deref(o.LifeExpMale) },
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// NumericColumn reports whether c holds numeric values.
func NumericColumn(c Column) bool {
	_, ok := numericAccessors[c]
	return ok
}

// NumericValue extracts the value of a numeric column from o. The bool
// reports presence. Requesting a non-numeric or unrecognized column is a
// lookup error.
func NumericValue(o Observation, c Column) (float64, bool, error) {
	fn, ok := numericAccessors[c]
	if !ok {
		return 0, false, eris.Wrapf(ErrUnknownColumn, "dataset: numeric column %q", c)
	}
	v, present := fn(o)
	return v, present, nil
}

// ColumnMissing reports whether column c is missing on o. Required
// columns are never missing on a loaded observation.
func ColumnMissing(o Observation, c Column) bool {
	switch c {
	case ColMedianPay2017:
		return o.MedianPay2017 == nil
	case ColCoastal:
		return o.Coastal == CoastalUnknown
	case ColLifeExpFemale:
		return o.LifeExpFemale == nil
	case ColLifeExpMale:
		return o.LifeExpMale == nil
	default:
		return false
	}
}
