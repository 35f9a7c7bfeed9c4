// Package storage persists catalog import rows into a Magento-shaped schema.
//
// The SQL lives in one catalogue written with '?' placeholders. Backends
// implement the small DB interface (see sqlstore for MySQL and SQLite, and
// postgres for pgx); Processor turns it into a product.Processor.
package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// ErrUnsupportedStrategy is returned when a delete strategy has no statement
// for the entity kind.
var ErrUnsupportedStrategy = errors.New("unsupported delete strategy")

// DB is the dialect adapter a Processor runs its queries through. Queries use
// '?' placeholders; adapters rebind them as their driver needs.
type DB interface {
	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, query string, args ...any) (int64, error)

	// Insert runs an INSERT and returns the generated value of idColumn.
	Insert(ctx context.Context, query, idColumn string, args ...any) (int64, error)

	Query(ctx context.Context, query string, args ...any) (Rows, error)

	// QueryRow returns a Row whose Scan reports product.ErrNotFound when the
	// query matched nothing.
	QueryRow(ctx context.Context, query string, args ...any) Row
}

// Row is a single result row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result cursor. Callers must Close it.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Rebind rewrites '?' placeholders to Postgres' numbered '$n' form. Question
// marks inside single-quoted literals are left alone.
func Rebind(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
