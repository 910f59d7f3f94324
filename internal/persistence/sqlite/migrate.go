package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationTable = "schema_migrations"

// Migrate applies the embedded SQL migrations that have not been recorded in
// the schema_migrations table yet. Each migration file runs inside its own
// transaction and is applied at most once.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("sqlite: read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	createSQL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at TEXT NOT NULL
);`, migrationTable)
	if _, err := cp.db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("sqlite: ensure migration table: %w", err)
	}

	for _, file := range files {
		applied, err := cp.migrationApplied(ctx, file)
		if err != nil {
			return fmt.Errorf("sqlite: check migration %s: %w", file, err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrationFS, "migrations/"+file)
		if err != nil {
			return fmt.Errorf("sqlite: read migration %s: %w", file, err)
		}

		upSQL := strings.TrimSpace(extractUpMigration(string(content)))
		if upSQL == "" {
			continue
		}

		err = cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(upSQL); err != nil {
				return fmt.Errorf("exec migration %s: %w", file, err)
			}
			if _, err := tx.Exec(
				fmt.Sprintf("INSERT INTO %s (name, applied_at) VALUES (?, ?)", migrationTable),
				file,
				time.Now().UTC().Format(time.RFC3339),
			); err != nil {
				return fmt.Errorf("record migration %s: %w", file, err)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("sqlite: apply migration %s: %w", file, err)
		}
	}

	return nil
}

func (cp *ConnectionPool) migrationApplied(ctx context.Context, name string) (bool, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE name = ?", migrationTable)
	if err := cp.db.QueryRowContext(ctx, query, name).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// extractUpMigration returns the SQL in the "-- +migrate Up" section.
func extractUpMigration(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	rest := content[upIdx+len("-- +migrate Up"):]
	if downIdx := strings.Index(rest, "-- +migrate Down"); downIdx != -1 {
		return rest[:downIdx]
	}
	return rest
}
