package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ids-analytics/pubstats/internal/dataset"
)

func obsWithCodes(codes ...string) []dataset.Observation {
	obs := make([]dataset.Observation, 0, len(codes))
	for _, c := range codes {
		obs = append(obs, dataset.Observation{AreaCode: c, AreaName: c, Country: dataset.England})
	}
	return obs
}

func featsWithCodes(codes ...string) []Feature {
	feats := make([]Feature, 0, len(codes))
	for _, c := range codes {
		feats = append(feats, Feature{AreaCode: c, Geom: []byte{1}})
	}
	return feats
}

func TestCheckCoverageFullMatch(t *testing.T) {
	cov := CheckCoverage(obsWithCodes("E1", "E2"), featsWithCodes("E1", "E2"))
	assert.Equal(t, 2, cov.Matched)
	assert.Empty(t, cov.Unmatched)
	assert.Empty(t, cov.Extraneous)
}

func TestCheckCoverageGaps(t *testing.T) {
	cov := CheckCoverage(obsWithCodes("E1", "E2", "N1"), featsWithCodes("E1", "W9"))
	assert.Equal(t, 1, cov.Matched)
	assert.Equal(t, []string{"E2", "N1"}, cov.Unmatched)
	assert.Equal(t, []string{"W9"}, cov.Extraneous)
}

func TestCheckCoverageEmpty(t *testing.T) {
	cov := CheckCoverage(nil, nil)
	assert.Zero(t, cov.Matched)
	assert.Empty(t, cov.Unmatched)
}
