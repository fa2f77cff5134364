package llm

import (
	"context"
	"fmt"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single conversation turn. Planning and extraction exchanges
// are text-only.
type Message struct {
	Role    Role
	Content string
}

func NewTextMessage(role Role, text string) Message {
	return Message{Role: role, Content: text}
}

type StreamChunk struct {
	Content string
	Done    bool
	Error   error
	Usage   *Usage // Only populated on final chunk (Done=true)
}

type ChatRequest struct {
	Model         string
	Messages      []Message
	MaxTokens     int
	Temperature   float64
	StopSequences []string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Provider is the streaming chat surface. Every exchange streams so callers
// can surface text as it arrives; a one-shot call is just a drained stream.
type Provider interface {
	ChatStream(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error)
}

// New constructs a provider by name. Gemini needs a context because its
// client dials on construction.
func New(ctx context.Context, name, apiKey string) (Provider, error) {
	switch name {
	case "anthropic":
		return NewAnthropicProvider(apiKey), nil
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	case "gemini":
		return NewGeminiProvider(ctx, apiKey)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", name)
	}
}
