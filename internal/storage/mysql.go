package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"cth/internal/domain"
)

// Tables written by SQLStorage
const (
	RunsTable     = "cth_runs"
	FailuresTable = "cth_failures"
)

const queryTimeout = 30 * time.Second

// SQLStorage records runs in a MySQL database. The tables are created by
// the migrate command.
type SQLStorage struct {
	db *sql.DB
}

// OpenSQLStorage connects to the database at dsn
func OpenSQLStorage(dsn string) (*SQLStorage, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return NewSQLStorage(db), nil
}

// NewSQLStorage wraps an open database handle
func NewSQLStorage(db *sql.DB) *SQLStorage {
	return &SQLStorage{db: db}
}

// Close closes the database handle
func (s *SQLStorage) Close() error {
	return s.db.Close()
}

// Save inserts the run and its failures in one transaction
func (s *SQLStorage) Save(report *domain.RunReport) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	m := report.Meta
	res, err := tx.ExecContext(ctx,
		"INSERT INTO `"+RunsTable+"` (encoder, test_dir, pattern, round_trip, stopped, total_cases, passed_cases, failed_cases, duration_seconds, run_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		m.Encoder, m.TestDir, m.Pattern, m.RoundTrip, m.Stopped, m.TotalCases, m.PassedCases, m.FailedCases, m.DurationSeconds, m.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO `"+FailuresTable+"` (run_id, test_name, input_path, reason, phase, input, looped_input, stderr, expected, output, resolved) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("prepare failure insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range report.Details {
		if _, err := stmt.ExecContext(ctx,
			runID, f.TestName, f.InputPath, f.Reason, string(f.Phase), f.Input, f.LoopedInput, f.Stderr, f.Expected, f.Output, f.Resolved,
		); err != nil {
			return fmt.Errorf("insert failure %s: %w", f.TestName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Load reads the most recent run
func (s *SQLStorage) Load() (*domain.RunReport, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var (
		runID  int64
		report domain.RunReport
		m      = &report.Meta
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, encoder, test_dir, pattern, round_trip, stopped, total_cases, passed_cases, failed_cases, duration_seconds, run_at FROM `"+RunsTable+"` ORDER BY id DESC LIMIT 1",
	).Scan(&runID, &m.Encoder, &m.TestDir, &m.Pattern, &m.RoundTrip, &m.Stopped, &m.TotalCases, &m.PassedCases, &m.FailedCases, &m.DurationSeconds, &m.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoResults
	}
	if err != nil {
		return nil, fmt.Errorf("select run: %w", err)
	}
	m.Duration = time.Duration(m.DurationSeconds * float64(time.Second)).String()

	rows, err := s.db.QueryContext(ctx,
		"SELECT test_name, input_path, reason, phase, input, looped_input, stderr, expected, output, resolved FROM `"+FailuresTable+"` WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("select failures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			f     domain.CaseFailure
			phase string
		)
		if err := rows.Scan(&f.TestName, &f.InputPath, &f.Reason, &phase, &f.Input, &f.LoopedInput, &f.Stderr, &f.Expected, &f.Output, &f.Resolved); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		f.Phase = domain.Phase(phase)
		report.Details = append(report.Details, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select failures: %w", err)
	}
	return &report, nil
}
