// Package session drives a single agent invocation and exposes it as a
// stream of typed events. Two drivers produce the stream: an external agent
// CLI subprocess and an llm.Provider chat stream. Consumers handle the full
// variant set; adding a variant is a breaking change on purpose.
package session

// Event is one item in a session's event stream. The set of variants is
// closed: SessionStarted, AgentText, ToolInvoked, Completed, TransportError.
type Event interface {
	isEvent()
}

// SessionStarted reports the session identifier assigned by the agent.
// Diagnostic only.
type SessionStarted struct {
	SessionID string
}

// AgentText carries a fragment of the agent's textual output. Fragments are
// accumulated verbatim, in arrival order.
type AgentText struct {
	Text string
}

// ToolInvoked reports that the agent invoked a tool. Diagnostic only.
type ToolInvoked struct {
	Name string
}

// Completed is the terminal event. When IsError is set the invocation failed
// with the agent-reported message, regardless of any text accumulated before.
type Completed struct {
	DurationMs   int64
	TurnCount    int
	IsError      bool
	ErrorMessage string
}

// TransportError reports a malformed or undeliverable stream item. The
// stream continues; the error is logged, not returned.
type TransportError struct {
	Err error
}

func (SessionStarted) isEvent() {}
func (AgentText) isEvent()      {}
func (ToolInvoked) isEvent()    {}
func (Completed) isEvent()      {}
func (TransportError) isEvent() {}
