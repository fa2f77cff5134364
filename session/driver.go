package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Driver runs one agent session to completion. Exactly one of the returned
// text or error is meaningful; drivers never retry internally.
type Driver interface {
	RunSession(ctx context.Context, prompt string, obs Observer) (string, error)
}

// Observer receives presentation callbacks as the session progresses. It is
// a side channel; the returned text/error pair is the data contract.
type Observer interface {
	OnSessionStarted(sessionID string)
	OnAgentText(text string)
	OnToolInvoked(name string)
	OnCompleted(durationMs int64, turnCount int)
}

// NopObserver discards all callbacks.
type NopObserver struct{}

func (NopObserver) OnSessionStarted(string) {}
func (NopObserver) OnAgentText(string)      {}
func (NopObserver) OnToolInvoked(string)    {}
func (NopObserver) OnCompleted(int64, int)  {}

// Consume drains a session event stream and reduces it to the invocation
// result. A Completed event with IsError set fails the invocation even when
// text was accumulated first. Transport errors are logged and the stream
// keeps draining. A stream that ends without any Completed event is treated
// as success, with a warning.
func Consume(events <-chan Event, obs Observer, logger hclog.Logger) (string, error) {
	var text strings.Builder
	var failure error
	completed := false

	for ev := range events {
		switch e := ev.(type) {
		case SessionStarted:
			logger.Debug("session started", "session_id", e.SessionID)
			obs.OnSessionStarted(e.SessionID)
		case AgentText:
			text.WriteString(e.Text)
			obs.OnAgentText(e.Text)
		case ToolInvoked:
			logger.Debug("tool invoked", "tool", e.Name)
			obs.OnToolInvoked(e.Name)
		case Completed:
			completed = true
			logger.Debug("session completed", "duration_ms", e.DurationMs, "turns", e.TurnCount, "is_error", e.IsError)
			obs.OnCompleted(e.DurationMs, e.TurnCount)
			if e.IsError && failure == nil {
				failure = fmt.Errorf("agent session failed: %s", e.ErrorMessage)
			}
		case TransportError:
			logger.Warn("session transport error", "error", e.Err)
		}
	}

	if failure != nil {
		return "", failure
	}
	if !completed {
		logger.Warn("session stream ended without a result event")
	}
	return text.String(), nil
}
