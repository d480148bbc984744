package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpgo/glidepath/internal/domain"
)

// NoopRecorder is used when no database is configured
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ context.Context, _ string, _ domain.RunResult) (string, error) {
	return uuid.NewString(), nil
}
func (n *NoopRecorder) RecordExperiment(_ context.Context, _ *domain.ExperimentReport) error {
	return nil
}
func (n *NoopRecorder) ListRuns(_ context.Context, _ int) ([]RunSummary, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                          { return nil }
