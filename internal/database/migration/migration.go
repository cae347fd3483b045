package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
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
		Name: "create_table_folders",
		SQL: `CREATE TABLE IF NOT EXISTS folders (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id    TEXT        NOT NULL,
  parent_id  UUID        NULL REFERENCES folders (id) ON DELETE RESTRICT,
  name       TEXT        NOT NULL CHECK (name <> ''),
  path       TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_unique_index_folders_sibling_name",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS uq_folders_sibling_name
  ON folders (user_id, COALESCE(parent_id, '00000000-0000-0000-0000-000000000000'::uuid), name);`,
	},
	{
		Name: "create_index_folders_parent",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_folders_user_parent ON folders (user_id, parent_id);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id           TEXT        NOT NULL,
  folder_id         UUID        NULL REFERENCES folders (id) ON DELETE RESTRICT,
  filename          TEXT        NOT NULL,
  original_filename TEXT        NOT NULL,
  file_path         TEXT        NOT NULL UNIQUE,
  file_type         TEXT        NOT NULL CHECK (file_type IN ('pdf', 'doc', 'docx', 'txt')),
  file_size         BIGINT      NOT NULL CHECK (file_size >= 0),
  content_type      TEXT        NOT NULL,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_user_folder",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_user_folder ON documents (user_id, folder_id);`,
	},
	{
		Name: "create_index_documents_user_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_user_created_at ON documents (user_id, created_at);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger zerolog.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Send()

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error().
			Str("event", "db_migration_failed").
			Str("status", "error").
			Err(err).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Str("status", "in_progress").Send()

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().
				Str("event", "db_migration_failed").
				Str("status", "error").
				Str("migration_step", step.Name).
				Err(err).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Send()
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info().
			Str("event", "db_migration_step").
			Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Send()
	}

	log.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Send()

	return nil
}
