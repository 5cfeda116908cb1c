package model

import "time"

// DispatchLog is one audit row for a dispatched request.
type DispatchLog struct {
	ID        string    `db:"id" json:"id"`
	ModelID   string    `db:"model_id" json:"model_id"`
	Outcome   string    `db:"outcome" json:"outcome"` // ok, refused, upstream_error
	LatencyMS int64     `db:"latency_ms" json:"latency_ms"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SyncRun is one registry refresh attempt.
type SyncRun struct {
	ID         int64     `db:"id" json:"id"`
	Outcome    string    `db:"outcome" json:"outcome"` // cold_start, cold_start_failed, refresh, refresh_failed
	ModelCount int       `db:"model_count" json:"model_count"`
	LatencyMS  int64     `db:"latency_ms" json:"latency_ms"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
