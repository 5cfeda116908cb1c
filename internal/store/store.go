package store

import (
	"context"

	"github.com/nulzo/model-sync-api/internal/store/model"
)

// Repository is the main contract for the audit data layer.
type Repository interface {
	Dispatches() DispatchRepository
	SyncRuns() SyncRunRepository

	Close() error
}

type DispatchRepository interface {
	// Log stores one dispatched request.
	Log(ctx context.Context, row *model.DispatchLog) error
	// GetRecent returns the last N dispatch rows.
	GetRecent(ctx context.Context, limit int) ([]model.DispatchLog, error)
}

type SyncRunRepository interface {
	// Log stores one refresh attempt.
	Log(ctx context.Context, row *model.SyncRun) error
	// GetRecent returns the last N sync runs.
	GetRecent(ctx context.Context, limit int) ([]model.SyncRun, error)
}
