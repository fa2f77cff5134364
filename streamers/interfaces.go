// Package streamers defines the event handler interfaces the run and plan
// loops publish to. Implementations render to a terminal, persist history,
// or bridge to websocket clients.
package streamers

import (
	"drover/session"
	"drover/taskdoc"
)

// RunHandler receives run lifecycle events plus the per-session observer
// callbacks. The workflow publishes to it; it never influences control flow.
type RunHandler interface {
	session.Observer

	// Run lifecycle
	RunStarted(collection string, remaining, total int)
	AllTasksComplete(collection string, completed int)
	RunEnded(iterations int)

	// Iteration lifecycle
	IterationStarted(iteration, maxIterations int, task *taskdoc.Task)
	IterationCompleted(iteration int, taskID string)
	IterationFailed(iteration int, taskID string, err error)
}

// PlanHandler receives planning lifecycle events, presents the extracted
// document, and owns the save confirmation prompt.
type PlanHandler interface {
	session.Observer

	PlanningStarted(description string)
	ExtractionStarted()
	PresentDocument(doc *taskdoc.Document)
	ConfirmSave(path string) (bool, error)
	Saved(path string, taskCount int)
	Declined()
}
