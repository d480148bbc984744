package store

import (
	"context"
	"time"

	"github.com/rpgo/glidepath/internal/domain"
	"github.com/shopspring/decimal"
)

// RunSummary is a stored run without its monthly history
type RunSummary struct {
	ID            string
	Scenario      string
	Policy        string
	StartMonth    string
	EndMonth      string
	FinalBalance  decimal.Decimal
	CashFlowTotal decimal.Decimal
	Months        int
	Termination   domain.Termination
	RecordedAt    time.Time
}

// Recorder persists simulation results for later analysis
type Recorder interface {
	// RecordRun stores a run and its history and returns the generated run ID
	RecordRun(ctx context.Context, scenario string, result domain.RunResult) (string, error)
	RecordExperiment(ctx context.Context, report *domain.ExperimentReport) error
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
	Close() error
}

// Open returns a SQLite recorder for dsn, or a NoopRecorder when dsn is empty
func Open(dsn string) (Recorder, error) {
	if dsn == "" {
		return NewNoopRecorder(), nil
	}
	return NewSQLiteRecorder(dsn)
}
