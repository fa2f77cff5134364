package session

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// DefaultAgentCommand is the agent binary used when none is configured.
const DefaultAgentCommand = "claude"

// AgentCLIDriver spawns the configured agent binary and reads its
// stream-JSON output, one event per stdout line.
type AgentCLIDriver struct {
	Command string
	Args    []string // extra args, before the fixed streaming flags
	Dir     string
	Logger  hclog.Logger
}

func NewAgentCLIDriver(command string, args []string, dir string, logger hclog.Logger) *AgentCLIDriver {
	if command == "" {
		command = DefaultAgentCommand
	}
	return &AgentCLIDriver{
		Command: command,
		Args:    args,
		Dir:     dir,
		Logger:  logger.Named("session"),
	}
}

func (d *AgentCLIDriver) RunSession(ctx context.Context, prompt string, obs Observer) (string, error) {
	args := append([]string{}, d.Args...)
	args = append(args,
		"--print",
		"--output-format", "stream-json",
		"--verbose",
		"--dangerously-skip-permissions",
	)

	cmd := exec.CommandContext(ctx, d.Command, args...)
	cmd.Dir = d.Dir
	cmd.Stdin = strings.NewReader(prompt)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("open agent stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start agent %s: %w", d.Command, err)
	}

	events := make(chan Event)

	go func() {
		defer close(events)

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			parsed, err := ParseStreamLine(line)
			if err != nil {
				events <- TransportError{Err: err}
				continue
			}
			for _, ev := range parsed {
				events <- ev
			}
		}
		if err := scanner.Err(); err != nil {
			events <- TransportError{Err: fmt.Errorf("read agent stdout: %w", err)}
		}

		// A nonzero exit after a clean result event is already reflected in
		// the Completed variant; anything else surfaces as transport noise.
		if err := cmd.Wait(); err != nil {
			events <- TransportError{Err: fmt.Errorf("agent process: %w", err)}
		}
	}()

	return Consume(events, obs, d.Logger)
}

type streamLine struct {
	Type       string         `json:"type"`
	Subtype    string         `json:"subtype"`
	SessionID  string         `json:"session_id"`
	Message    *streamMessage `json:"message"`
	DurationMs int64          `json:"duration_ms"`
	NumTurns   int            `json:"num_turns"`
	IsError    bool           `json:"is_error"`
	Error      string         `json:"error"`
}

type streamMessage struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Name string `json:"name"`
}

// ParseStreamLine maps one stream-JSON line to session events. Unrecognized
// message types produce no events; malformed JSON is an error the caller
// reports as a TransportError.
func ParseStreamLine(line string) ([]Event, error) {
	var msg streamLine
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		return nil, fmt.Errorf("malformed stream line: %w", err)
	}

	switch msg.Type {
	case "system":
		if msg.Subtype == "init" {
			return []Event{SessionStarted{SessionID: msg.SessionID}}, nil
		}
		return nil, nil
	case "assistant":
		if msg.Message == nil {
			return nil, nil
		}
		var events []Event
		for _, block := range msg.Message.Content {
			switch block.Type {
			case "text":
				events = append(events, AgentText{Text: block.Text})
			case "tool_use":
				events = append(events, ToolInvoked{Name: block.Name})
			}
		}
		return events, nil
	case "result":
		return []Event{Completed{
			DurationMs:   msg.DurationMs,
			TurnCount:    msg.NumTurns,
			IsError:      msg.IsError,
			ErrorMessage: msg.Error,
		}}, nil
	default:
		return nil, nil
	}
}
