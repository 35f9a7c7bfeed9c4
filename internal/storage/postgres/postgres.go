// Package postgres adapts a pgx connection pool to storage.DB.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/catalog-import/internal/product"
	"github.com/JonMunkholm/catalog-import/internal/storage"
)

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Connect parses cfg.URL, applies the pool settings and pings the database.
func Connect(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// DB is a storage.DB on a pgx pool.
type DB struct {
	pool *pgxpool.Pool
}

var _ storage.DB = (*DB)(nil)

// New wraps pool. The caller keeps ownership of the pool.
func New(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

// Ping checks the connection.
func (d *DB) Ping(ctx context.Context) error { return d.pool.Ping(ctx) }

func (d *DB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := d.pool.Exec(ctx, storage.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Insert appends a RETURNING clause for idColumn.
func (d *DB) Insert(ctx context.Context, query, idColumn string, args ...any) (int64, error) {
	var id int64
	err := d.pool.QueryRow(ctx, storage.Rebind(query)+" RETURNING "+idColumn, args...).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (d *DB) Query(ctx context.Context, query string, args ...any) (storage.Rows, error) {
	rows, err := d.pool.Query(ctx, storage.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return &pgRows{rows}, nil
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) storage.Row {
	return pgRow{d.pool.QueryRow(ctx, storage.Rebind(query), args...)}
}

type pgRow struct {
	row pgx.Row
}

func (r pgRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.ErrNotFound
		}
		return err
	}
	normalize(dest)
	return nil
}

type pgRows struct {
	rows pgx.Rows
}

func (r *pgRows) Next() bool { return r.rows.Next() }
func (r *pgRows) Err() error { return r.rows.Err() }

func (r *pgRows) Close() error {
	r.rows.Close()
	return nil
}

func (r *pgRows) Scan(dest ...any) error {
	if err := r.rows.Scan(dest...); err != nil {
		return err
	}
	normalize(dest)
	return nil
}

// normalize turns NUMERIC values scanned into untyped destinations into
// float64, matching what the other drivers return.
func normalize(dest []any) {
	for _, d := range dest {
		p, ok := d.(*any)
		if !ok {
			continue
		}
		if n, ok := (*p).(pgtype.Numeric); ok {
			if f, err := n.Float64Value(); err == nil && f.Valid {
				*p = f.Float64
			}
		}
	}
}
