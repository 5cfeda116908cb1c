package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nulzo/model-sync-api/internal/store"
	"github.com/nulzo/model-sync-api/internal/store/model"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB and *sqlx.Tx)
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db *sqlx.DB
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{db: db}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) Dispatches() store.DispatchRepository {
	return &dispatchRepo{db: r.db}
}

func (r *SqliteRepository) SyncRuns() store.SyncRunRepository {
	return &syncRunRepo{db: r.db}
}

// RecordDispatch satisfies gateway.DispatchRecorder.
func (r *SqliteRepository) RecordDispatch(ctx context.Context, requestID, modelID, outcome string, took time.Duration) error {
	return r.Dispatches().Log(ctx, &model.DispatchLog{
		ID:        requestID,
		ModelID:   modelID,
		Outcome:   outcome,
		LatencyMS: took.Milliseconds(),
		CreatedAt: time.Now().UTC(),
	})
}

// RecordSyncRun satisfies services.SyncRecorder.
func (r *SqliteRepository) RecordSyncRun(ctx context.Context, outcome string, modelCount int, took time.Duration) error {
	return r.SyncRuns().Log(ctx, &model.SyncRun{
		Outcome:    outcome,
		ModelCount: modelCount,
		LatencyMS:  took.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	})
}

type dispatchRepo struct {
	db DB
}

func (r *dispatchRepo) Log(ctx context.Context, row *model.DispatchLog) error {
	query := `INSERT INTO dispatch_logs (id, model_id, outcome, latency_ms, created_at)
	          VALUES (:id, :model_id, :outcome, :latency_ms, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, row)
	return err
}

func (r *dispatchRepo) GetRecent(ctx context.Context, limit int) ([]model.DispatchLog, error) {
	var rows []model.DispatchLog
	query := `SELECT id, model_id, outcome, latency_ms, created_at
	          FROM dispatch_logs ORDER BY created_at DESC LIMIT ?`
	err := r.db.SelectContext(ctx, &rows, query, limit)
	return rows, err
}

type syncRunRepo struct {
	db DB
}

func (r *syncRunRepo) Log(ctx context.Context, row *model.SyncRun) error {
	query := `INSERT INTO sync_runs (outcome, model_count, latency_ms, created_at)
	          VALUES (:outcome, :model_count, :latency_ms, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, row)
	return err
}

func (r *syncRunRepo) GetRecent(ctx context.Context, limit int) ([]model.SyncRun, error) {
	var rows []model.SyncRun
	query := `SELECT id, outcome, model_count, latency_ms, created_at
	          FROM sync_runs ORDER BY created_at DESC LIMIT ?`
	err := r.db.SelectContext(ctx, &rows, query, limit)
	return rows, err
}
