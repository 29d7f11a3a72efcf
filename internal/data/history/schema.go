package history

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  project TEXT NOT NULL DEFAULT 'default',
  started_at INTEGER NOT NULL,
  duration_ms INTEGER NOT NULL DEFAULT 0,
  files INTEGER NOT NULL DEFAULT 0,
  classes INTEGER NOT NULL DEFAULT 0,
  methods INTEGER NOT NULL DEFAULT 0,
  errors INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS class_metrics (
  run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  file TEXT NOT NULL,
  class TEXT NOT NULL,
  kind TEXT NOT NULL,
  content_hash TEXT NOT NULL DEFAULT '',
  loc INTEGER NOT NULL DEFAULT 0,
  wmc INTEGER NOT NULL DEFAULT 0,
  cbo INTEGER NOT NULL DEFAULT 0,
  cbo_modified INTEGER NOT NULL DEFAULT 0,
  fan_in INTEGER NOT NULL DEFAULT 0,
  fan_out INTEGER NOT NULL DEFAULT 0,
  rfc INTEGER NOT NULL DEFAULT 0,
  lcom INTEGER NOT NULL DEFAULT 0,
  noc INTEGER NOT NULL DEFAULT 0,
  nosi INTEGER NOT NULL DEFAULT 0,
  max_nested INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (run_id, file, class, kind)
);
CREATE TABLE IF NOT EXISTS method_metrics (
  run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  class TEXT NOT NULL,
  method TEXT NOT NULL,
  line INTEGER NOT NULL DEFAULT 0,
  loc INTEGER NOT NULL DEFAULT 0,
  wmc INTEGER NOT NULL DEFAULT 0,
  cbo INTEGER NOT NULL DEFAULT 0,
  rfc INTEGER NOT NULL DEFAULT 0,
  max_nested INTEGER NOT NULL DEFAULT 0,
  params INTEGER NOT NULL DEFAULT 0
);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_runs_project_started ON runs(project, started_at);
CREATE INDEX IF NOT EXISTS idx_class_metrics_class ON class_metrics(class);
CREATE INDEX IF NOT EXISTS idx_method_metrics_run ON method_metrics(run_id);
`,
	},
}

func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  applied_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
);
`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema_migrations version: %w", err)
	}
	if current > SchemaVersion {
		return fmt.Errorf("schema version %d is newer than supported version %d", current, SchemaVersion)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?)`, m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}
	return nil
}
