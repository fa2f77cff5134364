// Package cli renders run and plan events to a terminal.
package cli

import (
	"fmt"
	"sync"

	"drover/taskdoc"
)

// RunHandler implements streamers.RunHandler for CLI output. Agent text is
// streamed verbatim; lifecycle events get colored banners.
type RunHandler struct {
	mu       sync.Mutex
	spinner  *spinner
	spinning bool
}

func NewRunHandler() *RunHandler {
	return &RunHandler{spinner: newSpinner()}
}

func (s *RunHandler) RunStarted(collection string, remaining, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n%s%s=== %s ===%s\n", ColorBold, ColorCyan, collection, ColorReset)
	fmt.Printf("%sTasks: %d/%d complete%s\n", ColorGray, total-remaining, total, ColorReset)
}

func (s *RunHandler) AllTasksComplete(collection string, completed int) {
	s.stopSpinner()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n%s%s=== All %d tasks complete ===%s\n", ColorBold, ColorGreen, completed, ColorReset)
}

func (s *RunHandler) RunEnded(iterations int) {
	s.stopSpinner()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n%s=== Run ended after %d iterations ===%s\n", ColorGray, iterations, ColorReset)
}

func (s *RunHandler) IterationStarted(iteration, maxIterations int, task *taskdoc.Task) {
	s.mu.Lock()
	fmt.Printf("\n%s%s--- Iteration %d/%d: %s ---%s\n", ColorBold, ColorCyan, iteration, maxIterations, task.ID, ColorReset)
	fmt.Printf("%s%s%s\n\n", ColorGray, task.Title, ColorReset)
	s.spinning = true
	s.mu.Unlock()
	s.spinner.Start("Waiting for agent...")
}

func (s *RunHandler) IterationCompleted(iteration int, taskID string) {
	s.stopSpinner()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n%s%s[%s completed]%s\n", ColorBold, ColorGreen, taskID, ColorReset)
}

func (s *RunHandler) IterationFailed(iteration int, taskID string, err error) {
	s.stopSpinner()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n%s%s[%s FAILED: %v]%s\n", ColorBold, ColorRed, taskID, err, ColorReset)
}

func (s *RunHandler) OnSessionStarted(sessionID string) {
	s.stopSpinner()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("%ssession: %s%s\n", ColorGray, sessionID, ColorReset)
}

func (s *RunHandler) OnAgentText(text string) {
	s.stopSpinner()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Print(text)
}

func (s *RunHandler) OnToolInvoked(name string) {
	s.stopSpinner()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n%s⚙ %s%s\n", ColorGray, name, ColorReset)
}

func (s *RunHandler) OnCompleted(durationMs int64, turnCount int) {
	s.stopSpinner()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n%sdone: %dms, %d turns%s\n", ColorGray, durationMs, turnCount, ColorReset)
}

func (s *RunHandler) stopSpinner() {
	s.mu.Lock()
	wasSpinning := s.spinning
	s.spinning = false
	s.mu.Unlock()
	if wasSpinning {
		s.spinner.Stop()
	}
}
