package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rpgo/glidepath/internal/domain"
	"github.com/rpgo/glidepath/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleRun(final string) domain.RunResult {
	return domain.RunResult{
		Policy:        "accumulation",
		StartMonth:    dateutil.MustParseYearMonth("01/2000"),
		EndMonth:      dateutil.MustParseYearMonth("03/2000"),
		FinalEquity:   d(final),
		FinalFixed:    d("0"),
		FinalBalance:  d(final),
		CashFlowTotal: d("3000"),
		Months:        2,
		Termination:   domain.Completed,
		History: []domain.MonthSnapshot{
			{Month: dateutil.MustParseYearMonth("02/2000"), Equity: d("2000"), Fixed: d("0"), Allocation: d("1"), CashFlowRate: d("1000")},
			{Month: dateutil.MustParseYearMonth("03/2000"), Equity: d("3010"), Fixed: d("0"), Allocation: d("1"), CashFlowRate: d("1000")},
		},
	}
}

func TestSQLiteRecorder_RecordAndListRuns(t *testing.T) {
	rec, err := NewSQLiteRecorder(":memory:")
	require.NoError(t, err)
	defer rec.Close()

	ctx := context.Background()
	firstID, err := rec.RecordRun(ctx, "base", sampleRun("3010.123456789"))
	require.NoError(t, err)
	secondID, err := rec.RecordRun(ctx, "alt", sampleRun("42"))
	require.NoError(t, err)
	assert.NotEqual(t, firstID, secondID)

	runs, err := rec.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, secondID, runs[0].ID, "newest first")
	assert.Equal(t, "base", runs[1].Scenario)
	assert.True(t, runs[1].FinalBalance.Equal(d("3010.123456789")), "decimal text round trip is exact")
	assert.Equal(t, "01/2000", runs[1].StartMonth)
	assert.Equal(t, domain.Completed, runs[1].Termination)

	n, err := rec.HistoryLength(ctx, firstID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	limited, err := rec.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteRecorder_EarlyEnd(t *testing.T) {
	rec, err := NewSQLiteRecorder(":memory:")
	require.NoError(t, err)
	defer rec.Close()

	run := sampleRun("10")
	run.Termination = domain.EndedEarly
	run.EndedAt = dateutil.MustParseYearMonth("03/2000")
	run.History = nil

	_, err = rec.RecordRun(context.Background(), "short", run)
	require.NoError(t, err)

	runs, err := rec.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.EndedEarly, runs[0].Termination)
}

func TestSQLiteRecorder_RecordExperiment(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer rec.Close()

	report := &domain.ExperimentReport{
		ID:   "exp-1",
		Kind: domain.KindAccumulation,
		Sections: []domain.ExperimentSection{
			{Name: "Allocation", Rows: []domain.ExperimentRow{{Label: "100.00", Runs: 10}, {Label: "80.00", Runs: 10}}},
			{Name: "Yield", Rows: []domain.ExperimentRow{{Label: "0.00", Runs: 10}}},
		},
	}
	require.NoError(t, rec.RecordExperiment(context.Background(), report))

	n, err := rec.ExperimentRowCount(context.Background(), "exp-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// same experiment twice violates the primary key
	assert.Error(t, rec.RecordExperiment(context.Background(), report))
}

func TestOpen(t *testing.T) {
	rec, err := Open("")
	require.NoError(t, err)
	assert.IsType(t, &NoopRecorder{}, rec)

	id, err := rec.RecordRun(context.Background(), "x", sampleRun("1"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	runs, err := rec.ListRuns(context.Background(), 5)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, rec.RecordExperiment(context.Background(), &domain.ExperimentReport{}))
	assert.NoError(t, rec.Close())

	sqliteRec, err := Open(":memory:")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteRecorder{}, sqliteRec)
	assert.NoError(t, sqliteRec.Close())
}
