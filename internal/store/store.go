// Package store persists observation sets, fitted-model snapshots, and
// boundary geometries behind a driver-neutral interface.
package store

import (
	"context"
	"time"

	"github.com/ids-analytics/pubstats/internal/boundary"
	"github.com/ids-analytics/pubstats/internal/dataset"
	"github.com/ids-analytics/pubstats/internal/stats"
)

// FitSnapshot is one persisted regression fit: the model, the area names
// excluded before fitting, and when it was produced.
type FitSnapshot struct {
	ID        string      `json:"id"`
	Model     stats.Model `json:"model"`
	Excluded  []string    `json:"excluded,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Store defines the persistence interface for the analysis pipeline.
// Implementations must preserve source row order for observations:
// ListObservations returns rows in the order they were saved, which the
// missing-value report depends on.
type Store interface {
	// Observations
	SaveObservations(ctx context.Context, obs []dataset.Observation) (int64, error)
	ListObservations(ctx context.Context) ([]dataset.Observation, error)

	// Fit snapshots
	SaveFit(ctx context.Context, snap *FitSnapshot) error
	ListFits(ctx context.Context, limit int) ([]FitSnapshot, error)

	// Boundaries for the choropleth consumer
	SaveBoundaries(ctx context.Context, feats []boundary.Feature) (int64, error)
	BoundaryCount(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// observationColumns is the column order shared by both backends.
var observationColumns = []string{
	"area_code", "area_name", "num_pubs", "pop", "pubs_per_capita",
	"country", "median_pay_2017", "area_sqkm", "coastal", "pop_dens",
	"life_exp_female", "life_exp_male", "row_order",
}

// observationRow flattens an observation for insertion. Missing values
// become SQL NULLs; row order is persisted so reads reproduce the
// source ordering.
func observationRow(o dataset.Observation, order int) []any {
	return []any{
		o.AreaCode,
		o.AreaName,
		o.NumPubs,
		o.Population,
		o.PubsPerCapita,
		string(o.Country),
		nullFloat(o.MedianPay2017),
		o.AreaSqKm,
		nullCoastal(o.Coastal),
		o.PopDensity,
		nullFloat(o.LifeExpFemale),
		nullFloat(o.LifeExpMale),
		order,
	}
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullCoastal(c dataset.Coastal) any {
	if c == dataset.CoastalUnknown {
		return nil
	}
	return string(c)
}
