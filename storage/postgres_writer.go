package storage

import (
	"context"
	"fmt"
	"time"

	"ski-planner/models"
	"ski-planner/utils"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresWriter keeps a snapshot of the catalog in PostgreSQL
type PostgresWriter struct {
	db     *sqlx.DB
	logger *utils.Logger
}

// NewPostgresWriter connects to PostgreSQL and pings the DB
func NewPostgresWriter(ctx context.Context, connStr string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresWriter{db: db, logger: logger}, nil
}

const createResortsTable = `
	CREATE TABLE IF NOT EXISTS resorts (
		id                  TEXT PRIMARY KEY,
		name                TEXT          NOT NULL,
		region              TEXT,
		altitude_min        INTEGER       NOT NULL DEFAULT 0,
		altitude_max        INTEGER       NOT NULL DEFAULT 0,
		km_slopes           NUMERIC(8,2)  NOT NULL DEFAULT 0,
		num_slopes          INTEGER       NOT NULL DEFAULT 0,
		num_lifts           INTEGER       NOT NULL DEFAULT 0,
		snow_cannons        INTEGER       NOT NULL DEFAULT 0,
		daily_pass_price    NUMERIC(10,2),
		accommodation_price NUMERIC(10,2),
		season_start        DATE,
		season_end          DATE,
		levels              TEXT,
		latitude            DOUBLE PRECISION,
		longitude           DOUBLE PRECISION,
		snapshot_at         TIMESTAMP     NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_resorts_region     ON resorts (region);
	CREATE INDEX IF NOT EXISTS idx_resorts_pass_price ON resorts (daily_pass_price);
	`

const upsertResort = `
	INSERT INTO resorts (id, name, region, altitude_min, altitude_max, km_slopes, num_slopes,
		num_lifts, snow_cannons, daily_pass_price, accommodation_price, season_start, season_end,
		levels, latitude, longitude, snapshot_at)
	VALUES (:id, :name, :region, :altitude_min, :altitude_max, :km_slopes, :num_slopes,
		:num_lifts, :snow_cannons, :daily_pass_price, :accommodation_price, :season_start, :season_end,
		:levels, :latitude, :longitude, :snapshot_at)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		region = EXCLUDED.region,
		altitude_min = EXCLUDED.altitude_min,
		altitude_max = EXCLUDED.altitude_max,
		km_slopes = EXCLUDED.km_slopes,
		num_slopes = EXCLUDED.num_slopes,
		num_lifts = EXCLUDED.num_lifts,
		snow_cannons = EXCLUDED.snow_cannons,
		daily_pass_price = EXCLUDED.daily_pass_price,
		accommodation_price = EXCLUDED.accommodation_price,
		season_start = EXCLUDED.season_start,
		season_end = EXCLUDED.season_end,
		levels = EXCLUDED.levels,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		snapshot_at = EXCLUDED.snapshot_at
	`

// CreateTable creates the resorts table if it doesn't exist, with indexes
func (w *PostgresWriter) CreateTable(ctx context.Context) error {
	if _, err := w.db.ExecContext(ctx, createResortsTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	w.logger.Info("Table 'resorts' is ready")
	return nil
}

// SaveResorts upserts resorts in a single transaction. Any failing row aborts the batch
// since PostgreSQL rejects further statements in a failed transaction.
func (w *PostgresWriter) SaveResorts(ctx context.Context, resorts []models.Resort) (err error) {
	if len(resorts) == 0 {
		return nil
	}

	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareNamedContext(ctx, upsertResort)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i := range resorts {
		rec := toRecord(&resorts[i], now)
		if _, err = stmt.ExecContext(ctx, rec); err != nil {
			return fmt.Errorf("failed to upsert '%s': %w", rec.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.logger.Info("Saved %d resorts into PostgreSQL", len(resorts))
	return nil
}

// Close closes the database connection
func (w *PostgresWriter) Close() error {
	if w.db == nil {
		return nil
	}
	return w.db.Close()
}
