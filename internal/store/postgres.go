package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/ids-analytics/pubstats/internal/boundary"
	"github.com/ids-analytics/pubstats/internal/dataset"
	"github.com/ids-analytics/pubstats/internal/db"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool, used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: pool.Close}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS observations (
	area_code       TEXT PRIMARY KEY,
	area_name       TEXT NOT NULL,
	num_pubs        INTEGER NOT NULL,
	pop             INTEGER NOT NULL,
	pubs_per_capita DOUBLE PRECISION NOT NULL,
	country         TEXT NOT NULL,
	median_pay_2017 DOUBLE PRECISION,
	area_sqkm       DOUBLE PRECISION NOT NULL,
	coastal         TEXT,
	pop_dens        DOUBLE PRECISION NOT NULL,
	life_exp_female DOUBLE PRECISION,
	life_exp_male   DOUBLE PRECISION,
	row_order       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fits (
	id             TEXT PRIMARY KEY,
	response       TEXT NOT NULL,
	predictor      TEXT NOT NULL,
	intercept      DOUBLE PRECISION NOT NULL,
	slope          DOUBLE PRECISION NOT NULL,
	intercept_se   DOUBLE PRECISION NOT NULL,
	slope_se       DOUBLE PRECISION NOT NULL,
	r_squared      DOUBLE PRECISION NOT NULL,
	n_observations INTEGER NOT NULL,
	excluded       TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS boundaries (
	area_code TEXT PRIMARY KEY,
	area_name TEXT,
	geom      BYTEA NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_observations_row_order ON observations(row_order);
CREATE INDEX IF NOT EXISTS idx_fits_created_at ON fits(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveObservations replaces the stored dataset via TRUNCATE plus COPY
// in a single transaction. A failed import rolls back and leaves the
// previous dataset intact.
func (s *PostgresStore) SaveObservations(ctx context.Context, obs []dataset.Observation) (int64, error) {
	rows := make([][]any, 0, len(obs))
	for i, o := range obs {
		rows = append(rows, observationRow(o, i))
	}

	return db.ReplaceAll(ctx, s.pool, "observations", observationColumns, rows)
}

func (s *PostgresStore) ListObservations(ctx context.Context) ([]dataset.Observation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT area_code, area_name, num_pubs, pop, pubs_per_capita,
		       country, median_pay_2017, area_sqkm, coastal, pop_dens,
		       life_exp_female, life_exp_male
		FROM observations ORDER BY row_order`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query observations")
	}
	defer rows.Close()

	var obs []dataset.Observation
	for rows.Next() {
		var o dataset.Observation
		var country string
		var pay, lifeF, lifeM *float64
		var coastal *string

		if err := rows.Scan(
			&o.AreaCode, &o.AreaName, &o.NumPubs, &o.Population, &o.PubsPerCapita,
			&country, &pay, &o.AreaSqKm, &coastal, &o.PopDensity,
			&lifeF, &lifeM,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan observation")
		}

		o.Country = dataset.Country(country)
		o.MedianPay2017 = pay
		o.LifeExpFemale = lifeF
		o.LifeExpMale = lifeM
		if coastal != nil {
			o.Coastal = dataset.Coastal(*coastal)
		}

		obs = append(obs, o)
	}
	return obs, eris.Wrap(rows.Err(), "postgres: iterate observations")
}

func (s *PostgresStore) SaveFit(ctx context.Context, snap *FitSnapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	excluded, err := json.Marshal(snap.Excluded)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal excluded areas")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO fits (id, response, predictor, intercept, slope,
			intercept_se, slope_se, r_squared, n_observations, excluded, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		snap.ID, string(snap.Model.Response), string(snap.Model.Predictor),
		snap.Model.Intercept, snap.Model.Slope,
		snap.Model.InterceptStdErr, snap.Model.SlopeStdErr,
		snap.Model.RSquared, snap.Model.N, string(excluded), snap.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert fit")
}

func (s *PostgresStore) ListFits(ctx context.Context, limit int) ([]FitSnapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, response, predictor, intercept, slope, intercept_se,
		       slope_se, r_squared, n_observations, excluded, created_at
		FROM fits ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query fits")
	}
	defer rows.Close()

	var snaps []FitSnapshot
	for rows.Next() {
		var snap FitSnapshot
		var response, predictor string
		var excluded *string

		if err := rows.Scan(
			&snap.ID, &response, &predictor,
			&snap.Model.Intercept, &snap.Model.Slope,
			&snap.Model.InterceptStdErr, &snap.Model.SlopeStdErr,
			&snap.Model.RSquared, &snap.Model.N, &excluded, &snap.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan fit")
		}

		snap.Model.Response = dataset.Column(response)
		snap.Model.Predictor = dataset.Column(predictor)
		if excluded != nil && *excluded != "null" {
			if err := json.Unmarshal([]byte(*excluded), &snap.Excluded); err != nil {
				return nil, eris.Wrapf(err, "postgres: unmarshal excluded for fit %s", snap.ID)
			}
		}

		snaps = append(snaps, snap)
	}
	return snaps, eris.Wrap(rows.Err(), "postgres: iterate fits")
}

// SaveBoundaries upserts boundary geometries; boundary files are
// re-released through the year and re-imports should overwrite.
func (s *PostgresStore) SaveBoundaries(ctx context.Context, feats []boundary.Feature) (int64, error) {
	rows := make([][]any, 0, len(feats))
	for _, f := range feats {
		rows = append(rows, []any{f.AreaCode, f.AreaName, f.Geom})
	}

	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "boundaries",
		Columns:      []string{"area_code", "area_name", "geom"},
		ConflictKeys: []string{"area_code"},
	}, rows)
}

func (s *PostgresStore) BoundaryCount(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM boundaries`).Scan(&n)
	return n, eris.Wrap(err, "postgres: count boundaries")
}

var _ Store = (*PostgresStore)(nil)
