package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/logger"
	"github.com/julianstephens/vacationbid/internal/migration"
	"github.com/julianstephens/vacationbid/internal/models"
	"github.com/julianstephens/vacationbid/migrations"
)

type Store struct {
	connStr string
	db      *sql.DB
}

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// IsConnString reports whether a --journal value names a PostgreSQL database
func IsConnString(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

func New(connStr string) *Store {
	s := &Store{connStr: connStr}
	s.ensureSearchPath()
	return s
}

func (s *Store) ensureSearchPath() {
	u, err := url.Parse(s.connStr)
	if err != nil {
		logger.Warn("Failed to parse Postgres connection string", "error", err)
		return
	}
	q := u.Query()
	if q.Get("search_path") == "" {
		q.Set("search_path", constants.AppName)
		u.RawQuery = q.Encode()
		s.connStr = u.String()
	}
}

// hasSSLMode checks for an sslmode query parameter (case-insensitive)
func hasSSLMode(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil {
		return false
	}
	for key := range u.Query() {
		if strings.EqualFold(key, "sslmode") {
			return true
		}
	}
	return false
}

// ValidateConnString checks a postgres:// URL is well formed and carries no
// password. Credentials belong in PGPASSWORD or ~/.pgpass.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if !IsConnString(connStr) {
		return fmt.Errorf("%w: expected a postgres:// URL", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	parsedURL, err := url.Parse(connStr)
	if err != nil {
		return fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
	}
	if _, isSet := parsedURL.User.Password(); isSet {
		return ErrEmbeddedCredentials
	}
	if parsedURL.Host == "" && parsedURL.User == nil && (parsedURL.Path == "" || parsedURL.Path == "/") {
		return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
	}
	return nil
}

func (s *Store) Init() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open journal database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to journal database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to journal database: %w", err)
	}

	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(constants.AppName)); err != nil {
		db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
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

// Location returns a non-sensitive identifier instead of the connection string
func (s *Store) Location() string {
	return "postgresql"
}

func (s *Store) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS, migration.Postgres)
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Debug(msg, "journal", "postgresql")
	})
	return err
}

func (s *Store) Append(ctx context.Context, a models.SaveAttempt) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO save_attempts (
			id, request_id, recorded_at, method, path,
			round_id, process_id, set_id, saved_id,
			day_count, week_count, outcome, error, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		a.ID, a.RequestID, a.RecordedAt.UTC(), a.Method, a.Path,
		a.RoundID, a.ProcessID, a.SetID, a.SavedID,
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
		ORDER BY recorded_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query save attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.SaveAttempt
	for rows.Next() {
		var a models.SaveAttempt
		var durationMs int64

		if err := rows.Scan(
			&a.ID, &a.RequestID, &a.RecordedAt, &a.Method, &a.Path,
			&a.RoundID, &a.ProcessID, &a.SetID, &a.SavedID,
			&a.DayCount, &a.WeekCount, &a.Outcome, &a.Error, &durationMs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan save attempt: %w", err)
		}
		a.Duration = time.Duration(durationMs) * time.Millisecond
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating save attempts: %w", err)
	}
	return attempts, nil
}
