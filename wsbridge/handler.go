package wsbridge

import (
	"drover/taskdoc"
)

// Handler implements streamers.RunHandler by broadcasting every event
// through the hub.
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) RunStarted(collection string, remaining, total int) {
	h.hub.Broadcast("run_started", map[string]interface{}{
		"collection": collection,
		"remaining":  remaining,
		"total":      total,
	})
}

func (h *Handler) AllTasksComplete(collection string, completed int) {
	h.hub.Broadcast("all_tasks_complete", map[string]interface{}{
		"collection": collection,
		"completed":  completed,
	})
}

func (h *Handler) RunEnded(iterations int) {
	h.hub.Broadcast("run_ended", map[string]interface{}{
		"iterations": iterations,
	})
}

func (h *Handler) IterationStarted(iteration, maxIterations int, task *taskdoc.Task) {
	h.hub.Broadcast("iteration_started", map[string]interface{}{
		"iteration":     iteration,
		"maxIterations": maxIterations,
		"taskId":        task.ID,
		"title":         task.Title,
	})
}

func (h *Handler) IterationCompleted(iteration int, taskID string) {
	h.hub.Broadcast("iteration_completed", map[string]interface{}{
		"iteration": iteration,
		"taskId":    taskID,
	})
}

func (h *Handler) IterationFailed(iteration int, taskID string, err error) {
	h.hub.Broadcast("iteration_failed", map[string]interface{}{
		"iteration": iteration,
		"taskId":    taskID,
		"error":     err.Error(),
	})
}

func (h *Handler) OnSessionStarted(sessionID string) {
	h.hub.Broadcast("session_started", map[string]interface{}{
		"sessionId": sessionID,
	})
}

func (h *Handler) OnAgentText(text string) {
	h.hub.Broadcast("agent_text", map[string]interface{}{
		"text": text,
	})
}

func (h *Handler) OnToolInvoked(name string) {
	h.hub.Broadcast("tool_invoked", map[string]interface{}{
		"tool": name,
	})
}

func (h *Handler) OnCompleted(durationMs int64, turnCount int) {
	h.hub.Broadcast("session_completed", map[string]interface{}{
		"durationMs": durationMs,
		"turns":      turnCount,
	})
}
