// Package store persists run history: one row per run, one row per
// iteration outcome. The session event stream itself is never stored.
package store

import "time"

type RunInfo struct {
	ID         string     `json:"id"`
	Collection string     `json:"collection"`
	Mode       string     `json:"mode"` // "run" or "plan"
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// IterationRecord is the outcome of a single iteration within a run.
type IterationRecord struct {
	RunID      string    `json:"runId"`
	Iteration  int       `json:"iteration"`
	TaskID     string    `json:"taskId"`
	Outcome    string    `json:"outcome"` // "completed" or "failed"
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RunStore tracks runs and their iteration outcomes.
type RunStore interface {
	CreateRun(collection, mode string) (id string, err error)
	CompleteRun(id, status string) error
	RecordIteration(rec IterationRecord) error
	ListRuns(limit int) ([]RunInfo, error)
	GetIterations(runID string) ([]IterationRecord, error)
	Close() error
}
