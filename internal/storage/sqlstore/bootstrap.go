package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Bootstrap creates the catalog schema on a SQLite database. With seed set it
// also loads the Default attribute set and the core product attributes.
// Running it again is a no-op.
func Bootstrap(ctx context.Context, db *DB, seed bool) error {
	if db.driver != DriverSQLite {
		return fmt.Errorf("sqlstore: bootstrap supports %s only, got %s", DriverSQLite, db.driver)
	}

	files := []string{"schema/sqlite.sql"}
	if seed {
		files = append(files, "schema/seed_sqlite.sql")
	}

	for _, name := range files {
		script, err := schemaFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("sqlstore: read %s: %w", name, err)
		}
		for _, stmt := range splitStatements(string(script)) {
			if _, err := db.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("sqlstore: %s: %w", name, err)
			}
		}
	}
	return nil
}

func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
