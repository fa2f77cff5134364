package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"drover/taskdoc"
)

// PlanHandler implements streamers.PlanHandler for CLI output. The extracted
// document is rendered as markdown before the save prompt.
type PlanHandler struct {
	mu       sync.Mutex
	in       *bufio.Reader
	renderer *glamour.TermRenderer
}

func NewPlanHandler() *PlanHandler {
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	return &PlanHandler{
		in:       bufio.NewReader(os.Stdin),
		renderer: renderer,
	}
}

func (s *PlanHandler) PlanningStarted(description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n%s%s=== Planning ===%s\n", ColorBold, ColorCyan, ColorReset)
	if description != "" {
		fmt.Printf("%s%s%s\n", ColorGray, description, ColorReset)
	}
	fmt.Println()
}

func (s *PlanHandler) ExtractionStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n\n%sExtracting task document...%s\n", ColorGray, ColorReset)
}

func (s *PlanHandler) PresentDocument(doc *taskdoc.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	md := renderDocumentMarkdown(doc)
	if s.renderer != nil {
		if out, err := s.renderer.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

func (s *PlanHandler) ConfirmSave(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Printf("%sSave to %s? [y/N]: %s", ColorBold, path, ColorReset)
	line, err := s.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func (s *PlanHandler) Saved(path string, taskCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n%s%sSaved %d tasks to %s%s\n", ColorBold, ColorGreen, taskCount, path, ColorReset)
}

func (s *PlanHandler) Declined() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n%sDiscarded. Nothing written.%s\n", ColorGray, ColorReset)
}

func (s *PlanHandler) OnSessionStarted(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("%ssession: %s%s\n", ColorGray, sessionID, ColorReset)
}

func (s *PlanHandler) OnAgentText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Print(text)
}

func (s *PlanHandler) OnToolInvoked(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n%s⚙ %s%s\n", ColorGray, name, ColorReset)
}

func (s *PlanHandler) OnCompleted(durationMs int64, turnCount int) {}

func renderDocumentMarkdown(doc *taskdoc.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", doc.CollectionName)
	for _, task := range doc.Tasks {
		fmt.Fprintf(&sb, "## %s: %s (priority %d)\n\n", task.ID, task.Title, task.Priority)
		fmt.Fprintf(&sb, "%s\n\n", task.Description)
		for _, c := range task.AcceptanceCriteria {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
