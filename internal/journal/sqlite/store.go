package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/vacationbid/internal/backup"
	"github.com/julianstephens/vacationbid/internal/logger"
	"github.com/julianstephens/vacationbid/internal/migration"
	"github.com/julianstephens/vacationbid/internal/models"
	"github.com/julianstephens/vacationbid/migrations"
)

// fixed-width UTC so recorded_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	// single writer; the TUI saves from background commands
	db.SetMaxOpenConns(1)
	s.db = db

	if err := s.runMigrations(); err != nil {
		_ = s.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Location is the journal file path
func (s *Store) Location() string {
	return s.path
}

func (s *Store) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS, migration.SQLite)
	if err := s.backupBeforeUpgrade(runner); err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Debug(msg, "journal", s.path)
	})
	return err
}

// backupBeforeUpgrade snapshots an existing journal that is about to be migrated
func (s *Store) backupBeforeUpgrade(runner *migration.Runner) error {
	current, err := runner.GetCurrentVersion()
	if err != nil {
		return err
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return err
	}
	if current == 0 || current >= latest {
		return nil
	}

	path, err := backup.NewManager(s.path).Snapshot()
	if err != nil {
		if path == "" {
			return fmt.Errorf("failed to back up journal before upgrade: %w", err)
		}
		logger.Warn("Journal backup rotation failed", "error", err)
	}
	logger.Info("Backed up journal before upgrade", "backup", path, "from", current, "to", latest)
	return nil
}

func (s *Store) Append(ctx context.Context, a models.SaveAttempt) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO save_attempts (
			id, request_id, recorded_at, method, path,
			round_id, process_id, set_id, saved_id,
			day_count, week_count, outcome, error, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID, a.RequestID, a.RecordedAt.UTC().Format(timeLayout), a.Method, a.Path,
		a.RoundID, a.ProcessID, nullInt(a.SetID), nullInt(a.SavedID),
		a.DayCount, a.WeekCount, a.Outcome, a.Error, a.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert save attempt: %w", err)
	}
	return nil
}

// Recent returns up to limit attempts, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]models.SaveAttempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, recorded_at, method, path,
			round_id, process_id, set_id, saved_id,
			day_count, week_count, outcome, error, duration_ms
		FROM save_attempts
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query save attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.SaveAttempt
	for rows.Next() {
		var a models.SaveAttempt
		var recordedAt string
		var setID, savedID sql.NullInt64
		var durationMs int64

		if err := rows.Scan(
			&a.ID, &a.RequestID, &recordedAt, &a.Method, &a.Path,
			&a.RoundID, &a.ProcessID, &setID, &savedID,
			&a.DayCount, &a.WeekCount, &a.Outcome, &a.Error, &durationMs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan save attempt: %w", err)
		}

		a.RecordedAt, err = time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at %q: %w", recordedAt, err)
		}
		a.SetID = fromNull(setID)
		a.SavedID = fromNull(savedID)
		a.Duration = time.Duration(durationMs) * time.Millisecond
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating save attempts: %w", err)
	}
	return attempts, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func fromNull(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
