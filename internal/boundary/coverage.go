package boundary

import (
	"github.com/ids-analytics/pubstats/internal/dataset"
)

// Coverage reports how well a boundary file joins to the observation set
// on area_code.
type Coverage struct {
	Matched    int      `json:"matched"`
	Unmatched  []string `json:"unmatched,omitempty"`  // dataset codes with no boundary
	Extraneous []string `json:"extraneous,omitempty"` // boundary codes not in the dataset
}

// CheckCoverage joins features to observations by area_code. The join
// key must stay stable for the choropleth consumer, so any unmatched
// dataset row is worth surfacing before boundaries are persisted.
func CheckCoverage(obs []dataset.Observation, feats []Feature) Coverage {
	have := make(map[string]struct{}, len(feats))
	for _, f := range feats {
		have[f.AreaCode] = struct{}{}
	}

	want := make(map[string]struct{}, len(obs))
	var cov Coverage
	for _, o := range obs {
		want[o.AreaCode] = struct{}{}
		if _, ok := have[o.AreaCode]; ok {
			cov.Matched++
		} else {
			cov.Unmatched = append(cov.Unmatched, o.AreaCode)
		}
	}

	for _, f := range feats {
		if _, ok := want[f.AreaCode]; !ok {
			cov.Extraneous = append(cov.Extraneous, f.AreaCode)
		}
	}

	return cov
}
