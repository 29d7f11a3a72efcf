package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"classmetrics/internal/core/errors"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName   = "sqlite"
	maxAttempts  = 5
	defaultLimit = 10
)

// Store persists analysis runs in a single-connection SQLite database.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

// Open creates or migrates the database at path. busyTimeout bounds how long
// SQLite waits on a lock before the retry loop takes over.
func Open(path string, busyTimeout time.Duration) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, errors.New(errors.CodeValidationError, "history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, errors.AddContext(errors.New(errors.CodeValidationError, "history path is a directory, expected file"), errors.CtxPath, cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodePersistence, "create history directory"), errors.CtxPath, dir)
		}
	}
	if busyTimeout <= 0 {
		busyTimeout = 2 * time.Second
	}

	// WAL keeps watch-mode reruns from blocking readers of the previous run.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)",
		cleanPath, busyTimeout.Milliseconds())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, persistence(err, "open sqlite history", cleanPath)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, persistence(err, "ping sqlite history", cleanPath)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, persistence(err, "initialize sqlite schema", cleanPath)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func persistence(err error, msg, path string) error {
	return errors.AddContext(errors.Wrap(err, errors.CodePersistence, msg), errors.CtxPath, path)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// SaveRun writes the run header and every class and method row in one
// transaction and returns the run ID, generating one when snap.Run.ID is empty.
func (s *Store) SaveRun(ctx context.Context, snap Snapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := snap.Run
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	run.Project = projectKey(run.Project)
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	err := s.withRetry(ctx, "save run", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := insertRun(ctx, tx, run, snap); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func insertRun(ctx context.Context, tx *sql.Tx, run Run, snap Snapshot) error {
	if _, err := tx.ExecContext(ctx, `
INSERT INTO runs (id, project, started_at, duration_ms, files, classes, methods, errors)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Project, run.StartedAt.UTC().UnixNano(), run.Duration.Milliseconds(),
		run.Files, run.Classes, run.Methods, run.Errors,
	); err != nil {
		return err
	}

	classStmt, err := tx.PrepareContext(ctx, `
INSERT OR REPLACE INTO class_metrics (
  run_id, file, class, kind, content_hash, loc, wmc, cbo, cbo_modified,
  fan_in, fan_out, rfc, lcom, noc, nosi, max_nested
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer classStmt.Close()
	for _, c := range snap.Classes {
		if _, err := classStmt.ExecContext(ctx,
			run.ID, c.File, c.Class, c.Kind, c.ContentHash, c.LOC, c.WMC, c.CBO, c.CBOModified,
			c.FanIn, c.FanOut, c.RFC, c.LCOM, c.NOC, c.NOSI, c.MaxNested,
		); err != nil {
			return fmt.Errorf("insert class %s: %w", c.Class, err)
		}
	}

	methodStmt, err := tx.PrepareContext(ctx, `
INSERT INTO method_metrics (run_id, class, method, line, loc, wmc, cbo, rfc, max_nested, params)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer methodStmt.Close()
	for _, m := range snap.Methods {
		if _, err := methodStmt.ExecContext(ctx,
			run.ID, m.Class, m.Method, m.Line, m.LOC, m.WMC, m.CBO, m.RFC, m.MaxNested, m.Params,
		); err != nil {
			return fmt.Errorf("insert method %s: %w", m.Method, err)
		}
	}
	return nil
}

// LatestRuns returns up to limit runs of project, newest first.
func (s *Store) LatestRuns(ctx context.Context, project string, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = defaultLimit
	}

	var runs []Run
	err := s.withRetry(ctx, "load runs", func() error {
		rows, err := s.db.QueryContext(ctx, `
SELECT id, project, started_at, duration_ms, files, classes, methods, errors
FROM runs WHERE project = ?
ORDER BY started_at DESC, id ASC
LIMIT ?`, projectKey(project), limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		runs = runs[:0]
		for rows.Next() {
			var (
				run        Run
				startedAt  int64
				durationMS int64
			)
			if err := rows.Scan(&run.ID, &run.Project, &startedAt, &durationMS,
				&run.Files, &run.Classes, &run.Methods, &run.Errors); err != nil {
				return fmt.Errorf("scan run row: %w", err)
			}
			run.StartedAt = time.Unix(0, startedAt).UTC()
			run.Duration = time.Duration(durationMS) * time.Millisecond
			runs = append(runs, run)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// ClassTrend returns the last limit measurements of class in project, oldest
// first, with deltas between consecutive points.
func (s *Store) ClassTrend(ctx context.Context, project, class string, limit int) ([]TrendPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = defaultLimit
	}

	var points []TrendPoint
	err := s.withRetry(ctx, "load class trend", func() error {
		rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.started_at, c.wmc, c.cbo, c.rfc, c.lcom, c.loc
FROM class_metrics c JOIN runs r ON r.id = c.run_id
WHERE r.project = ? AND c.class = ?
ORDER BY r.started_at DESC
LIMIT ?`, projectKey(project), class, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		points = points[:0]
		for rows.Next() {
			var (
				p         TrendPoint
				startedAt int64
			)
			if err := rows.Scan(&p.RunID, &startedAt, &p.WMC, &p.CBO, &p.RFC, &p.LCOM, &p.LOC); err != nil {
				return fmt.Errorf("scan trend row: %w", err)
			}
			p.StartedAt = time.Unix(0, startedAt).UTC()
			points = append(points, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(points)
	return withDeltas(points), nil
}

func projectKey(project string) string {
	project = strings.TrimSpace(project)
	if project == "" {
		return "default"
	}
	return project
}

func (s *Store) withRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		slog.Debug("history store busy, retrying", "operation", op, "attempt", attempt)
		select {
		case <-ctx.Done():
			return errors.AddContext(errors.Wrap(ctx.Err(), errors.CodePersistence, op), errors.CtxOperation, op)
		case <-time.After(time.Duration(attempt*25) * time.Millisecond):
		}
	}
	return errors.AddContext(errors.Wrap(lastErr, errors.CodePersistence, op), errors.CtxOperation, op)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

// IsCorruptError reports whether err looks like a damaged database file.
func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database")
}
