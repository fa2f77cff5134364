package session

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"drover/llm"
)

// ProviderDriver runs a session through an llm.Provider chat stream instead
// of an agent subprocess. Planning and extraction exchanges need no tool
// use, so the stream reduces to text plus a terminal event.
type ProviderDriver struct {
	Provider llm.Provider
	Model    string
	System   string // optional system prompt prepended to each exchange
	Logger   hclog.Logger
}

func NewProviderDriver(provider llm.Provider, model string, logger hclog.Logger) *ProviderDriver {
	return &ProviderDriver{
		Provider: provider,
		Model:    model,
		Logger:   logger.Named("session"),
	}
}

func (d *ProviderDriver) RunSession(ctx context.Context, prompt string, obs Observer) (string, error) {
	var messages []llm.Message
	if d.System != "" {
		messages = append(messages, llm.NewTextMessage(llm.RoleSystem, d.System))
	}
	messages = append(messages, llm.NewTextMessage(llm.RoleUser, prompt))

	chunks, err := d.Provider.ChatStream(ctx, &llm.ChatRequest{
		Model:    d.Model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}

	events := make(chan Event)

	go func() {
		defer close(events)
		for chunk := range chunks {
			if chunk.Error != nil {
				events <- Completed{IsError: true, ErrorMessage: chunk.Error.Error()}
				continue
			}
			if chunk.Content != "" {
				events <- AgentText{Text: chunk.Content}
			}
			if chunk.Done {
				events <- Completed{}
			}
		}
	}()

	return Consume(events, obs, d.Logger)
}
