package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/ids-analytics/pubstats/internal/dataset"
	"github.com/ids-analytics/pubstats/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "pubstats.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// loadObservations reads the joined dataset from the given CSV path,
// falling back to the configured path when the flag is empty.
func loadObservations(csvPath string) ([]dataset.Observation, error) {
	if csvPath == "" {
		csvPath = cfg.Dataset.Path
	}
	return dataset.Load(csvPath)
}
