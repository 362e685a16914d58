// Package store persists analysis runs and their reports for the biennial
// audit trail, backed by SQLite (default) or Postgres.
package store

import (
	"context"

	"github.com/sells-group/redist-cli/internal/model"
)

// Store is the persistence interface for analysis runs.
type Store interface {
	CreateRun(ctx context.Context, asOfYear int, tolerancePct float64) (*model.AnalysisRun, error)
	CompleteRun(ctx context.Context, runID string, report *model.RunReport) error
	FailRun(ctx context.Context, runID string, cause string) error
	GetRun(ctx context.Context, runID string) (*model.AnalysisRun, error)
	ListRuns(ctx context.Context, limit int) ([]model.AnalysisRun, error)

	Migrate(ctx context.Context) error
	Close() error
}
