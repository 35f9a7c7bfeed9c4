// Package sqlstore adapts database/sql connections (MySQL, SQLite) to
// storage.DB.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/catalog-import/internal/product"
	"github.com/JonMunkholm/catalog-import/internal/storage"
)

// Supported driver names.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// PoolConfig sizes the connection pool. SQLite always uses one connection.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DB is a storage.DB on a *sql.DB.
type DB struct {
	db     *sql.DB
	driver string
}

var _ storage.DB = (*DB)(nil)

// Open connects to dsn with the named driver and pings it.
//
// MySQL connections are opened with parseTime and clientFoundRows so that
// timestamps scan into time.Time and updates that match a row report it as
// affected. SQLite connections enable foreign keys and are limited to a
// single connection, which also keeps ":memory:" databases shared.
func Open(ctx context.Context, driver, dsn string, pool PoolConfig) (*DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlstore: DSN must not be empty")
	}

	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverMySQL:
		db, err = openMySQL(dsn)
	case DriverSQLite:
		db, err = sql.Open(DriverSQLite, sqliteDSN(dsn))
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	} else {
		if pool.MaxOpenConns > 0 {
			db.SetMaxOpenConns(pool.MaxOpenConns)
		}
		if pool.MaxIdleConns > 0 {
			db.SetMaxIdleConns(pool.MaxIdleConns)
		}
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
		db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: ping %s: %w", driver, err)
	}

	return &DB{db: db, driver: driver}, nil
}

func openMySQL(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

// sqliteDSN turns foreign keys on for every connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Driver returns the driver name the DB was opened with.
func (d *DB) Driver() string { return d.driver }

// SQL returns the underlying *sql.DB.
func (d *DB) SQL() *sql.DB { return d.db }

// Close closes the pool.
func (d *DB) Close() error { return d.db.Close() }

// Ping checks the connection.
func (d *DB) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }

func (d *DB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Insert returns LastInsertId; idColumn is only needed by drivers without it.
func (d *DB) Insert(ctx context.Context, query, _ string, args ...any) (int64, error) {
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (d *DB) Query(ctx context.Context, query string, args ...any) (storage.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows}, nil
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) storage.Row {
	return sqlRow{d.db.QueryRowContext(ctx, query, args...)}
}

type sqlRow struct {
	row *sql.Row
}

func (r sqlRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return product.ErrNotFound
		}
		return err
	}
	normalize(dest)
	return nil
}

type sqlRows struct {
	*sql.Rows
}

func (r *sqlRows) Scan(dest ...any) error {
	if err := r.Rows.Scan(dest...); err != nil {
		return err
	}
	normalize(dest)
	return nil
}

// normalize converts the []byte values MySQL returns into untyped
// destinations to strings.
func normalize(dest []any) {
	for _, d := range dest {
		if p, ok := d.(*any); ok {
			if b, ok := (*p).([]byte); ok {
				*p = string(b)
			}
		}
	}
}
