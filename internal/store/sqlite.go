package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/glidepath/internal/domain"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Monetary values are stored as decimal text to keep them exact.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id             TEXT PRIMARY KEY,
    scenario       TEXT    NOT NULL,
    policy         TEXT    NOT NULL,
    start_month    TEXT    NOT NULL,
    end_month      TEXT    NOT NULL,
    final_equity   TEXT    NOT NULL,
    final_fixed    TEXT    NOT NULL,
    final_balance  TEXT    NOT NULL,
    cash_flow      TEXT    NOT NULL,
    months         INTEGER NOT NULL,
    termination    TEXT    NOT NULL,
    ended_at       TEXT,
    shortfall      TEXT    NOT NULL DEFAULT '0',
    recorded_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_history (
    run_id         TEXT    NOT NULL REFERENCES runs(id),
    seq            INTEGER NOT NULL,
    month          TEXT    NOT NULL,
    equity         TEXT    NOT NULL,
    fixed          TEXT    NOT NULL,
    allocation     TEXT    NOT NULL,
    cash_flow_rate TEXT    NOT NULL,
    PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS experiment_rows (
    experiment_id  TEXT    NOT NULL,
    kind           TEXT    NOT NULL,
    section        TEXT    NOT NULL,
    seq            INTEGER NOT NULL,
    label          TEXT    NOT NULL,
    final_balance  TEXT    NOT NULL,
    cash_flow      TEXT    NOT NULL,
    avg_monthly    TEXT    NOT NULL,
    runs           INTEGER NOT NULL,
    insolvent      INTEGER NOT NULL DEFAULT 0,
    ended_early    INTEGER NOT NULL DEFAULT 0,
    p10            TEXT    NOT NULL,
    p50            TEXT    NOT NULL,
    p90            TEXT    NOT NULL,
    recorded_at    INTEGER NOT NULL,
    PRIMARY KEY (experiment_id, section, seq)
);

CREATE INDEX IF NOT EXISTS idx_runs_recorded ON runs(recorded_at DESC);
`

// SQLiteRecorder persists results to a SQLite database (pure Go driver)
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and applies the schema.
// ":memory:" gives a private in-memory database.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store.NewSQLiteRecorder: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // single writer; also keeps :memory: on one connection
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.NewSQLiteRecorder: apply schema: %w", err)
	}
	return &SQLiteRecorder{db: db}, nil
}

// RecordRun stores the run summary and its monthly history in one transaction
func (r *SQLiteRecorder) RecordRun(ctx context.Context, scenario string, result domain.RunResult) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("store.RecordRun: begin tx: %w", err)
	}
	defer tx.Rollback()

	var endedAt *string
	if !result.EndedAt.IsZero() {
		s := result.EndedAt.String()
		endedAt = &s
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs
			(id, scenario, policy, start_month, end_month, final_equity, final_fixed, final_balance,
			 cash_flow, months, termination, ended_at, shortfall, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, scenario, result.Policy, result.StartMonth.String(), result.EndMonth.String(),
		result.FinalEquity.String(), result.FinalFixed.String(), result.FinalBalance.String(),
		result.CashFlowTotal.String(), result.Months, string(result.Termination), endedAt,
		result.Shortfall.String(), time.Now().Unix(),
	); err != nil {
		return "", fmt.Errorf("store.RecordRun: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_history (run_id, seq, month, equity, fixed, allocation, cash_flow_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("store.RecordRun: prepare: %w", err)
	}
	defer stmt.Close()

	for i, snap := range result.History {
		if _, err := stmt.ExecContext(ctx, id, i, snap.Month.String(), snap.Equity.String(),
			snap.Fixed.String(), snap.Allocation.String(), snap.CashFlowRate.String()); err != nil {
			return "", fmt.Errorf("store.RecordRun: insert history %s: %w", snap.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store.RecordRun: commit: %w", err)
	}
	return id, nil
}

// RecordExperiment stores every row of every section of the report
func (r *SQLiteRecorder) RecordExperiment(ctx context.Context, report *domain.ExperimentReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store.RecordExperiment: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO experiment_rows
			(experiment_id, kind, section, seq, label, final_balance, cash_flow, avg_monthly,
			 runs, insolvent, ended_early, p10, p50, p90, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store.RecordExperiment: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, section := range report.Sections {
		for i, row := range section.Rows {
			if _, err := stmt.ExecContext(ctx, report.ID, string(report.Kind), section.Name, i, row.Label,
				row.FinalBalance.String(), row.CashFlowTotal.String(), row.AvgMonthlyCashFlow.String(),
				row.Runs, row.Insolvent, row.EndedEarly,
				row.P10.String(), row.P50.String(), row.P90.String(), now); err != nil {
				return fmt.Errorf("store.RecordExperiment: insert %s/%s: %w", section.Name, row.Label, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store.RecordExperiment: commit: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns all runs.
func (r *SQLiteRecorder) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, scenario, policy, start_month, end_month, final_balance, cash_flow, months, termination, recorded_at
		FROM runs
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store.ListRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			s                  RunSummary
			finalBalance, cash string
			termination        string
			recordedAt         int64
		)
		if err := rows.Scan(&s.ID, &s.Scenario, &s.Policy, &s.StartMonth, &s.EndMonth,
			&finalBalance, &cash, &s.Months, &termination, &recordedAt); err != nil {
			return nil, fmt.Errorf("store.ListRuns: scan: %w", err)
		}
		if s.FinalBalance, err = decimal.NewFromString(finalBalance); err != nil {
			return nil, fmt.Errorf("store.ListRuns: final balance of %s: %w", s.ID, err)
		}
		if s.CashFlowTotal, err = decimal.NewFromString(cash); err != nil {
			return nil, fmt.Errorf("store.ListRuns: cash flow of %s: %w", s.ID, err)
		}
		s.Termination = domain.Termination(termination)
		s.RecordedAt = time.Unix(recordedAt, 0).UTC()
		runs = append(runs, s)
	}
	return runs, rows.Err()
}

// HistoryLength returns the number of stored snapshots for a run
func (r *SQLiteRecorder) HistoryLength(ctx context.Context, runID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM run_history WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store.HistoryLength: %w", err)
	}
	return n, nil
}

// ExperimentRowCount returns the number of stored rows for an experiment
func (r *SQLiteRecorder) ExperimentRowCount(ctx context.Context, experimentID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM experiment_rows WHERE experiment_id = ?`, experimentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store.ExperimentRowCount: %w", err)
	}
	return n, nil
}

// Close closes the database
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
