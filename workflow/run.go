// Package workflow contains the two top-level modes: the bounded iteration
// loop that works through a task document, and the single-pass planner that
// produces one.
package workflow

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"drover/journal"
	"drover/prompt"
	"drover/session"
	"drover/streamers"
	"drover/taskdoc"
)

// Runner drives the iteration loop. Each iteration reloads the document,
// picks the highest-priority open task, and hands one prompt to the driver.
// Iteration failures are journaled and the loop continues; only document and
// prompt-template problems are fatal.
type Runner struct {
	Driver        session.Driver
	Handler       streamers.RunHandler
	Dir           string // agent working directory; relative paths anchor here
	DocumentPath  string
	JournalPath   string
	PromptPath    string
	MaxIterations int
	Logger        hclog.Logger
}

func (r *Runner) Run(ctx context.Context) error {
	// The agent rewrites these files from its own working directory, so the
	// loop must read them from the same place.
	docPath := resolvePath(r.Dir, r.DocumentPath)
	journalPath := resolvePath(r.Dir, r.JournalPath)

	base, err := prompt.LoadBase(resolvePath(r.Dir, r.PromptPath))
	if err != nil {
		return err
	}

	doc, err := taskdoc.Load(docPath)
	if err != nil {
		return err
	}
	r.Handler.RunStarted(doc.CollectionName, len(doc.Tasks)-doc.CompletedCount(), len(doc.Tasks))

	for iteration := 1; iteration <= r.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Fresh load every iteration: the agent rewrites the document.
		doc, err := taskdoc.Load(docPath)
		if err != nil {
			return err
		}

		task := taskdoc.NextTask(doc)
		if task == nil {
			r.Handler.AllTasksComplete(doc.CollectionName, doc.CompletedCount())
			return nil
		}

		journalText, err := journal.Read(journalPath)
		if err != nil {
			return err
		}

		iterationPrompt := prompt.BuildIteration(base, task, journalText)
		r.Handler.IterationStarted(iteration, r.MaxIterations, task)

		if _, err := r.Driver.RunSession(ctx, iterationPrompt, r.Handler); err != nil {
			r.Logger.Error("iteration failed", "iteration", iteration, "task", task.ID, "error", err)
			r.Handler.IterationFailed(iteration, task.ID, err)
			if jerr := journal.AppendFailed(journalPath, task.ID, err); jerr != nil {
				r.Logger.Warn("append journal entry", "error", jerr)
			}
			continue
		}

		r.Handler.IterationCompleted(iteration, task.ID)
		if jerr := journal.AppendCompleted(journalPath, task.ID); jerr != nil {
			r.Logger.Warn("append journal entry", "error", jerr)
		}
	}

	r.Handler.RunEnded(r.MaxIterations)
	return nil
}

// resolvePath anchors a relative path on the agent working directory.
// Absolute paths and the empty path (embedded defaults) pass through.
func resolvePath(dir, path string) string {
	if dir == "" || path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Remaining returns how many open tasks a document at path has. Used by the
// CLI for status output; load errors propagate unchanged.
func Remaining(path string) (int, error) {
	doc, err := taskdoc.Load(path)
	if err != nil {
		return 0, fmt.Errorf("load task document: %w", err)
	}
	return len(doc.Tasks) - doc.CompletedCount(), nil
}
