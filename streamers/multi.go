package streamers

import "drover/taskdoc"

// MultiRunHandler fans every event out to several handlers, in order. Used
// to combine terminal output with the websocket bridge.
type MultiRunHandler []RunHandler

func (m MultiRunHandler) RunStarted(collection string, remaining, total int) {
	for _, h := range m {
		h.RunStarted(collection, remaining, total)
	}
}

func (m MultiRunHandler) AllTasksComplete(collection string, completed int) {
	for _, h := range m {
		h.AllTasksComplete(collection, completed)
	}
}

func (m MultiRunHandler) RunEnded(iterations int) {
	for _, h := range m {
		h.RunEnded(iterations)
	}
}

func (m MultiRunHandler) IterationStarted(iteration, maxIterations int, task *taskdoc.Task) {
	for _, h := range m {
		h.IterationStarted(iteration, maxIterations, task)
	}
}

func (m MultiRunHandler) IterationCompleted(iteration int, taskID string) {
	for _, h := range m {
		h.IterationCompleted(iteration, taskID)
	}
}

func (m MultiRunHandler) IterationFailed(iteration int, taskID string, err error) {
	for _, h := range m {
		h.IterationFailed(iteration, taskID, err)
	}
}

func (m MultiRunHandler) OnSessionStarted(sessionID string) {
	for _, h := range m {
		h.OnSessionStarted(sessionID)
	}
}

func (m MultiRunHandler) OnAgentText(text string) {
	for _, h := range m {
		h.OnAgentText(text)
	}
}

func (m MultiRunHandler) OnToolInvoked(name string) {
	for _, h := range m {
		h.OnToolInvoked(name)
	}
}

func (m MultiRunHandler) OnCompleted(durationMs int64, turnCount int) {
	for _, h := range m {
		h.OnCompleted(durationMs, turnCount)
	}
}
