package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_registrations",
		SQL: `CREATE TABLE IF NOT EXISTS registrations (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  form_type  TEXT        NOT NULL CHECK (form_type IN ('vendor', 'customer')),
  title      TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_registrations_form_type",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_registrations_form_type ON registrations (form_type);`,
	},
	{
		Name: "create_index_registrations_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_registrations_created_at ON registrations (created_at);`,
	},
	{
		Name: "create_table_registration_meta",
		SQL: `CREATE TABLE IF NOT EXISTS registration_meta (
  registration_id UUID NOT NULL REFERENCES registrations (id) ON DELETE CASCADE,
  key             TEXT NOT NULL,
  value           TEXT NOT NULL,
  PRIMARY KEY (registration_id, key)
);`,
	},
	{
		Name: "create_table_registration_files",
		SQL: `CREATE TABLE IF NOT EXISTS registration_files (
  id                UUID   PRIMARY KEY DEFAULT uuid_generate_v4(),
  registration_id   UUID   NOT NULL REFERENCES registrations (id) ON DELETE CASCADE,
  field             TEXT   NOT NULL,
  storage_key       TEXT   NOT NULL UNIQUE,
  original_filename TEXT   NOT NULL,
  content_type      TEXT   NOT NULL,
  size              BIGINT NOT NULL CHECK (size >= 0)
);`,
	},
	{
		Name: "create_index_registration_files_registration_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_registration_files_registration_id ON registration_files (registration_id);`,
	},
	{
		Name: "create_table_countries",
		SQL: `CREATE TABLE IF NOT EXISTS countries (
  id   SERIAL PRIMARY KEY,
  name TEXT   NOT NULL UNIQUE
);`,
	},
	{
		Name: "create_table_states",
		SQL: `CREATE TABLE IF NOT EXISTS states (
  id         SERIAL PRIMARY KEY,
  country_id INT    NOT NULL REFERENCES countries (id) ON DELETE CASCADE,
  name       TEXT   NOT NULL,
  UNIQUE (country_id, name)
);`,
	},
	{
		Name: "create_table_cities",
		SQL: `CREATE TABLE IF NOT EXISTS cities (
  id       SERIAL PRIMARY KEY,
  state_id INT    NOT NULL REFERENCES states (id) ON DELETE CASCADE,
  name     TEXT   NOT NULL,
  UNIQUE (state_id, name)
);`,
	},
}

// EnsureMigrated checks if the 'registrations' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.registrations') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
