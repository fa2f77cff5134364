// Package prompt composes the text sent to the agent. Everything here is pure
// string assembly; file IO is limited to LoadBase.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"drover/taskdoc"
)

//go:embed prompt.md
var defaultBaseTemplate string

//go:embed planning.md
var planningTemplate string

//go:embed extraction.md
var extractionTemplate string

// LoadBase reads the base prompt template from path. An empty path selects the
// embedded default.
func LoadBase(path string) (string, error) {
	if path == "" {
		return defaultBaseTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt template %s: %w", path, err)
	}
	return string(data), nil
}

// BuildIteration assembles the per-iteration prompt: the base template, the
// task being worked on, and the accumulated journal so the agent can pick up
// where the previous session left off.
func BuildIteration(base string, task *taskdoc.Task, journalText string) string {
	var criteria strings.Builder
	for _, c := range task.AcceptanceCriteria {
		fmt.Fprintf(&criteria, "- %s\n", c)
	}

	history := journalText
	if history == "" {
		history = "(none yet)"
	}

	return fmt.Sprintf(`%s

## Current Task

**Task ID:** %s
**Title:** %s
**Description:** %s

### Acceptance Criteria
%s
## Previous Learnings
%s

## Instructions

1. Implement this task
2. Run the project's checks and tests
3. If passing, commit with message: "feat(%s): %s"
4. Mark the task as done by setting `+"`done: true`"+` in the task document
5. Append learnings to the progress journal
`, base, task.ID, task.Title, task.Description, criteria.String(), history, task.ID, task.Title)
}

// BuildPlanning returns the opener for an interactive planning conversation,
// optionally seeded with the user's initial project description.
func BuildPlanning(description string) string {
	initialContext := ""
	if description != "" {
		initialContext = fmt.Sprintf(
			"\n## Initial Project Description\n\n%s\n\nStart by clarifying any questions about this description.",
			description,
		)
	}
	return strings.Replace(planningTemplate, "{{INITIAL_CONTEXT}}", initialContext, 1)
}

// BuildExtraction returns the instruction that turns a finished planning
// transcript into a structured task document.
func BuildExtraction(transcript string) string {
	return strings.Replace(extractionTemplate, "{{TRANSCRIPT}}", transcript, 1)
}
