package streamers

import (
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"drover/store"
	"drover/taskdoc"
)

// StoringRunHandler is a RunHandler decorator that persists run and
// iteration outcomes to the RunStore, then delegates to an inner handler.
// Store failures are logged, never fatal to the run.
type StoringRunHandler struct {
	inner  RunHandler
	runs   store.RunStore
	logger hclog.Logger

	mu        sync.Mutex
	runID     string
	iterStart time.Time
}

func NewStoringRunHandler(inner RunHandler, runs store.RunStore, logger hclog.Logger) *StoringRunHandler {
	return &StoringRunHandler{
		inner:  inner,
		runs:   runs,
		logger: logger.Named("store"),
	}
}

func (h *StoringRunHandler) RunStarted(collection string, remaining, total int) {
	id, err := h.runs.CreateRun(collection, "run")
	if err != nil {
		h.logger.Warn("create run record", "error", err)
	}
	h.mu.Lock()
	h.runID = id
	h.mu.Unlock()

	h.inner.RunStarted(collection, remaining, total)
}

func (h *StoringRunHandler) AllTasksComplete(collection string, completed int) {
	h.completeRun()
	h.inner.AllTasksComplete(collection, completed)
}

func (h *StoringRunHandler) RunEnded(iterations int) {
	h.completeRun()
	h.inner.RunEnded(iterations)
}

func (h *StoringRunHandler) IterationStarted(iteration, maxIterations int, task *taskdoc.Task) {
	h.mu.Lock()
	h.iterStart = time.Now()
	h.mu.Unlock()

	h.inner.IterationStarted(iteration, maxIterations, task)
}

func (h *StoringRunHandler) IterationCompleted(iteration int, taskID string) {
	h.record(store.IterationRecord{
		Iteration: iteration,
		TaskID:    taskID,
		Outcome:   "completed",
	})
	h.inner.IterationCompleted(iteration, taskID)
}

func (h *StoringRunHandler) IterationFailed(iteration int, taskID string, err error) {
	h.record(store.IterationRecord{
		Iteration: iteration,
		TaskID:    taskID,
		Outcome:   "failed",
		Error:     err.Error(),
	})
	h.inner.IterationFailed(iteration, taskID, err)
}

func (h *StoringRunHandler) OnSessionStarted(id string) { h.inner.OnSessionStarted(id) }
func (h *StoringRunHandler) OnAgentText(text string)    { h.inner.OnAgentText(text) }
func (h *StoringRunHandler) OnToolInvoked(name string)  { h.inner.OnToolInvoked(name) }
func (h *StoringRunHandler) OnCompleted(durationMs int64, turnCount int) {
	h.inner.OnCompleted(durationMs, turnCount)
}

func (h *StoringRunHandler) record(rec store.IterationRecord) {
	h.mu.Lock()
	rec.RunID = h.runID
	rec.DurationMs = time.Since(h.iterStart).Milliseconds()
	h.mu.Unlock()

	if rec.RunID == "" {
		return
	}
	if err := h.runs.RecordIteration(rec); err != nil {
		h.logger.Warn("record iteration", "error", err)
	}
}

func (h *StoringRunHandler) completeRun() {
	h.mu.Lock()
	id := h.runID
	h.mu.Unlock()

	if id == "" {
		return
	}
	if err := h.runs.CompleteRun(id, store.StatusCompleted); err != nil {
		h.logger.Warn("complete run record", "error", err)
	}
}
