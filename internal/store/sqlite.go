package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ids-analytics/pubstats/internal/boundary"
	"github.com/ids-analytics/pubstats/internal/dataset"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS observations (
	area_code       TEXT PRIMARY KEY,
	area_name       TEXT NOT NULL,
	num_pubs        INTEGER NOT NULL,
	pop             INTEGER NOT NULL,
	pubs_per_capita REAL NOT NULL,
	country         TEXT NOT NULL,
	median_pay_2017 REAL,
	area_sqkm       REAL NOT NULL,
	coastal         TEXT,
	pop_dens        REAL NOT NULL,
	life_exp_female REAL,
	life_exp_male   REAL,
	row_order       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fits (
	id             TEXT PRIMARY KEY,
	response       TEXT NOT NULL,
	predictor      TEXT NOT NULL,
	intercept      REAL NOT NULL,
	slope          REAL NOT NULL,
	intercept_se   REAL NOT NULL,
	slope_se       REAL NOT NULL,
	r_squared      REAL NOT NULL,
	n_observations INTEGER NOT NULL,
	excluded       TEXT,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS boundaries (
	area_code TEXT PRIMARY KEY,
	area_name TEXT,
	geom      BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_observations_row_order ON observations(row_order);
CREATE INDEX IF NOT EXISTS idx_fits_created_at ON fits(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveObservations replaces any previously imported dataset. The write
// is transactional: a failed import leaves the previous dataset intact.
func (s *SQLiteStore) SaveObservations(ctx context.Context, obs []dataset.Observation) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM observations`); err != nil {
		return 0, eris.Wrap(err, "sqlite: clear observations")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(observationColumns)), ", ")
	insert := `INSERT INTO observations (` + strings.Join(observationColumns, ", ") + `) VALUES (` + placeholders + `)`

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for i, o := range obs {
		if _, err := stmt.ExecContext(ctx, observationRow(o, i)...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert observation %s", o.AreaCode)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return int64(len(obs)), nil
}

func (s *SQLiteStore) ListObservations(ctx context.Context) ([]dataset.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT area_code, area_name, num_pubs, pop, pubs_per_capita,
		       country, median_pay_2017, area_sqkm, coastal, pop_dens,
		       life_exp_female, life_exp_male
		FROM observations ORDER BY row_order`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query observations")
	}
	defer rows.Close()

	var obs []dataset.Observation
	for rows.Next() {
		var o dataset.Observation
		var country string
		var pay, lifeF, lifeM sql.NullFloat64
		var coastal sql.NullString

		if err := rows.Scan(
			&o.AreaCode, &o.AreaName, &o.NumPubs, &o.Population, &o.PubsPerCapita,
			&country, &pay, &o.AreaSqKm, &coastal, &o.PopDensity,
			&lifeF, &lifeM,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan observation")
		}

		o.Country = dataset.Country(country)
		o.MedianPay2017 = floatPtr(pay)
		o.LifeExpFemale = floatPtr(lifeF)
		o.LifeExpMale = floatPtr(lifeM)
		if coastal.Valid {
			o.Coastal = dataset.Coastal(coastal.String)
		}

		obs = append(obs, o)
	}
	return obs, eris.Wrap(rows.Err(), "sqlite: iterate observations")
}

// SaveFit persists a fit snapshot, assigning an ID and timestamp when
// absent.
func (s *SQLiteStore) SaveFit(ctx context.Context, snap *FitSnapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	excluded, err := json.Marshal(snap.Excluded)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal excluded areas")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO fits (id, response, predictor, intercept, slope,
			intercept_se, slope_se, r_squared, n_observations, excluded, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, string(snap.Model.Response), string(snap.Model.Predictor),
		snap.Model.Intercept, snap.Model.Slope,
		snap.Model.InterceptStdErr, snap.Model.SlopeStdErr,
		snap.Model.RSquared, snap.Model.N, string(excluded), snap.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert fit")
}

func (s *SQLiteStore) ListFits(ctx context.Context, limit int) ([]FitSnapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, response, predictor, intercept, slope, intercept_se,
		       slope_se, r_squared, n_observations, excluded, created_at
		FROM fits ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query fits")
	}
	defer rows.Close()

	var snaps []FitSnapshot
	for rows.Next() {
		var snap FitSnapshot
		var response, predictor string
		var excluded sql.NullString

		if err := rows.Scan(
			&snap.ID, &response, &predictor,
			&snap.Model.Intercept, &snap.Model.Slope,
			&snap.Model.InterceptStdErr, &snap.Model.SlopeStdErr,
			&snap.Model.RSquared, &snap.Model.N, &excluded, &snap.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan fit")
		}

		snap.Model.Response = dataset.Column(response)
		snap.Model.Predictor = dataset.Column(predictor)
		if excluded.Valid && excluded.String != "null" {
			if err := json.Unmarshal([]byte(excluded.String), &snap.Excluded); err != nil {
				return nil, eris.Wrapf(err, "sqlite: unmarshal excluded for fit %s", snap.ID)
			}
		}

		snaps = append(snaps, snap)
	}
	return snaps, eris.Wrap(rows.Err(), "sqlite: iterate fits")
}

func (s *SQLiteStore) SaveBoundaries(ctx context.Context, feats []boundary.Feature) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO boundaries (area_code, area_name, geom) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare boundary insert")
	}
	defer stmt.Close()

	for _, f := range feats {
		if _, err := stmt.ExecContext(ctx, f.AreaCode, f.AreaName, f.Geom); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert boundary %s", f.AreaCode)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return int64(len(feats)), nil
}

func (s *SQLiteStore) BoundaryCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM boundaries`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count boundaries")
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

var _ Store = (*SQLiteStore)(nil)
