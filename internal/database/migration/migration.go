package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"convertapi/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is checked first; when it exists the schema is assumed current.
const sentinelTable = "public.uploads"

var steps = []migrationStep{
	{
		Name: "create_table_uploads",
		SQL: `CREATE TABLE IF NOT EXISTS uploads (
  id           UUID        PRIMARY KEY,
  name         TEXT        NOT NULL,
  storage_key  TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_uploads_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_uploads_name ON uploads (name);`,
	},
	{
		Name: "create_index_uploads_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads (created_at DESC, id DESC);`,
	},
}

// EnsureMigrated creates the upload catalog schema unless the sentinel table exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *logging.Logger, dbHost string) error {
	start := time.Now()

	event := func(name, status string, extra map[string]any) {
		data := map[string]any{
			"component": "database",
			"event":     name,
			"status":    status,
			"db_host":   dbHost,
		}
		for k, v := range extra {
			data[k] = v
		}
		logger.Log(data)
	}

	event("db_migration_check", "starting", nil)

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists)
	if err != nil {
		event("db_migration_failed", "error", map[string]any{
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		event("db_migration_skip", "success", map[string]any{
			"msg":         "schema already exists, skipping migration",
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	event("db_migration_start", "in_progress", nil)

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			event("db_migration_failed", "error", map[string]any{
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		event("db_migration_step", "success", map[string]any{
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	event("db_migration_success", "success", map[string]any{
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}
