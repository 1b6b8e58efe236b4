package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/kata/internal/harness"
)

// ErrRunNotFound is returned by GetRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

// RunInput is a finished run to be saved.
type RunInput struct {
	Name      string
	StartedAt time.Time // zero means now
	Results   []harness.Result
	Reports   []string
}

// Run is a stored run. ListRuns leaves Results and Reports nil.
type Run struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	StartedAt time.Time        `json:"started_at"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Digest    string           `json:"digest"`
	Results   []harness.Result `json:"results,omitempty"`
	Reports   []string         `json:"reports,omitempty"`
}

// Tally returns the run's pass and fail counts.
func (r Run) Tally() harness.Tally {
	return harness.Tally{Passed: r.Passed, Failed: r.Failed}
}

// SaveRun writes a run and its logs in one transaction.
// Counts and the digest are derived from in.Results.
func (s *Store) SaveRun(ctx context.Context, in RunInput) (Run, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Run{}, fmt.Errorf("save run: name is required")
	}

	digest, err := harness.LogDigest(in.Results)
	if err != nil {
		return Run{}, fmt.Errorf("save run: %w", err)
	}

	started := in.StartedAt
	if started.IsZero() {
		started = s.now()
	}
	started = started.UTC()

	tally := harness.TallyOf(in.Results)
	run := Run{
		ID:        s.ids.Generate(),
		Name:      in.Name,
		StartedAt: started,
		Passed:    tally.Passed,
		Failed:    tally.Failed,
		Digest:    digest,
		Results:   append([]harness.Result{}, in.Results...),
		Reports:   append([]string{}, in.Reports...),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("save run: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, name, started_at, passed, failed, digest)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Name, run.StartedAt.UnixNano(), run.Passed, run.Failed, run.Digest)
	if err != nil {
		return Run{}, fmt.Errorf("save run: insert run: %w", err)
	}

	for i, r := range run.Results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO results (run_id, seq, condition, description)
			VALUES (?, ?, ?, ?)
		`, run.ID, i+1, r.Condition, r.Description)
		if err != nil {
			return Run{}, fmt.Errorf("save run: insert result %d: %w", i+1, err)
		}
	}

	for i, msg := range run.Reports {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reports (run_id, seq, message)
			VALUES (?, ?, ?)
		`, run.ID, i+1, msg)
		if err != nil {
			return Run{}, fmt.Errorf("save run: insert report %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("save run: commit: %w", err)
	}
	return run, nil
}

// GetRun returns a run with its full result log and reports.
// Returns an error wrapping ErrRunNotFound for an unknown ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, started_at, passed, failed, digest
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}

	if run.Results, err = s.readResults(ctx, id); err != nil {
		return Run{}, err
	}
	if run.Reports, err = s.readReports(ctx, id); err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns run summaries newest first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, started_at, passed, failed, digest
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func (s *Store) readResults(ctx context.Context, runID string) ([]harness.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT condition, description
		FROM results
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := []harness.Result{}
	for rows.Next() {
		var r harness.Result
		if err := rows.Scan(&r.Condition, &r.Description); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

func (s *Store) readReports(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT message
		FROM reports
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	reports := []string{}
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run     Run
		started int64
	)
	if err := sc.Scan(&run.ID, &run.Name, &started, &run.Passed, &run.Failed, &run.Digest); err != nil {
		return Run{}, err
	}
	run.StartedAt = time.Unix(0, started).UTC()
	return run, nil
}
