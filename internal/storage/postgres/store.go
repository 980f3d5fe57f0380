// Package postgres implements the storage interfaces backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/dozer-finance/reward-service/internal/domain/pool"
	"github.com/dozer-finance/reward-service/internal/domain/snapshot"
	"github.com/dozer-finance/reward-service/internal/storage"
)

var _ storage.PoolStore = (*Store)(nil)
var _ storage.SnapshotStore = (*Store)(nil)

// Store implements the storage interfaces on a sqlx database handle.
type Store struct {
	db *sqlx.DB
}

// Config holds connection configuration.
type Config struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// Open connects to PostgreSQL, applies pool settings and verifies the
// connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	db, err := sqlx.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		db.SetMaxOpenConns(10)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	} else {
		db.SetMaxIdleConns(2)
	}
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// New wraps an existing database handle. Intended for tests.
func New(db *sql.DB) *Store {
	return &Store{db: sqlx.NewDb(db, "postgres")}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the raw handle for migrations.
func (s *Store) DB() *sql.DB { return s.db.DB }

// --- PoolStore --------------------------------------------------------------

func (s *Store) FirstPoolByName(ctx context.Context, name string) (pool.Pool, error) {
	var p pool.Pool
	err := s.db.GetContext(ctx, &p, `
		SELECT id, name, contract_id, token0_uuid, token1_uuid, created_at
		FROM pools
		WHERE name = $1
		ORDER BY created_at
		LIMIT 1
	`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return pool.Pool{}, storage.ErrNotFound
	}
	if err != nil {
		return pool.Pool{}, fmt.Errorf("first pool by name: %w", err)
	}
	return p, nil
}

func (s *Store) FirstPoolByTokenUUID(ctx context.Context, tokenUUID string) (pool.Pool, error) {
	var p pool.Pool
	err := s.db.GetContext(ctx, &p, `
		SELECT id, name, contract_id, token0_uuid, token1_uuid, created_at
		FROM pools
		WHERE token1_uuid = $1
		ORDER BY created_at
		LIMIT 1
	`, tokenUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return pool.Pool{}, storage.ErrNotFound
	}
	if err != nil {
		return pool.Pool{}, fmt.Errorf("first pool by token: %w", err)
	}
	return p, nil
}

func (s *Store) FirstTokenByUUID(ctx context.Context, uuid string) (pool.Token, error) {
	var t pool.Token
	err := s.db.GetContext(ctx, &t, `
		SELECT id, uuid, symbol, name, created_at
		FROM tokens
		WHERE uuid = $1
		ORDER BY created_at
		LIMIT 1
	`, uuid)
	if errors.Is(err, sql.ErrNoRows) {
		return pool.Token{}, storage.ErrNotFound
	}
	if err != nil {
		return pool.Token{}, fmt.Errorf("first token by uuid: %w", err)
	}
	return t, nil
}

// --- SnapshotStore ----------------------------------------------------------

// CreateDaySnapshots upserts the batch in one statement keyed on
// (pool_id, bucket_start).
func (s *Store) CreateDaySnapshots(ctx context.Context, records []snapshot.DaySnapshot) error {
	if len(records) == 0 {
		return nil
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO day_snapshots
			(id, pool_id, date, bucket_start, liquidity_usd, volume_usd, reserve0, reserve1, apr)
		VALUES
			(:id, :pool_id, :date, :bucket_start, :liquidity_usd, :volume_usd, :reserve0, :reserve1, :apr)
		ON CONFLICT (pool_id, bucket_start) DO UPDATE SET
			date = EXCLUDED.date,
			liquidity_usd = EXCLUDED.liquidity_usd,
			volume_usd = EXCLUDED.volume_usd,
			reserve0 = EXCLUDED.reserve0,
			reserve1 = EXCLUDED.reserve1,
			apr = EXCLUDED.apr
	`, records)
	if err != nil {
		return fmt.Errorf("create day snapshots: %w", err)
	}
	return nil
}

// CreateHourSnapshots upserts the batch in one statement keyed on
// (pool_id, bucket_start).
func (s *Store) CreateHourSnapshots(ctx context.Context, records []snapshot.HourSnapshot) error {
	if len(records) == 0 {
		return nil
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO hour_snapshots
			(id, pool_id, date, bucket_start, liquidity_usd, volume_usd, reserve0, reserve1, apr,
			 volume0, volume1, fee0, fee1, fee_usd, price_htr)
		VALUES
			(:id, :pool_id, :date, :bucket_start, :liquidity_usd, :volume_usd, :reserve0, :reserve1, :apr,
			 :volume0, :volume1, :fee0, :fee1, :fee_usd, :price_htr)
		ON CONFLICT (pool_id, bucket_start) DO UPDATE SET
			date = EXCLUDED.date,
			liquidity_usd = EXCLUDED.liquidity_usd,
			volume_usd = EXCLUDED.volume_usd,
			reserve0 = EXCLUDED.reserve0,
			reserve1 = EXCLUDED.reserve1,
			apr = EXCLUDED.apr,
			volume0 = EXCLUDED.volume0,
			volume1 = EXCLUDED.volume1,
			fee0 = EXCLUDED.fee0,
			fee1 = EXCLUDED.fee1,
			fee_usd = EXCLUDED.fee_usd,
			price_htr = EXCLUDED.price_htr
	`, records)
	if err != nil {
		return fmt.Errorf("create hour snapshots: %w", err)
	}
	return nil
}
