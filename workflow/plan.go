package workflow

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"drover/extract"
	"drover/prompt"
	"drover/session"
	"drover/streamers"
	"drover/taskdoc"
)

// Planner runs one planning exchange, one extraction exchange, and persists
// the validated document after an explicit confirmation. Declining the
// confirmation is a clean no-op.
type Planner struct {
	Driver      session.Driver
	Handler     streamers.PlanHandler
	Dir         string // agent working directory; a relative output path anchors here
	OutputPath  string
	Description string
	Force       bool
	Logger      hclog.Logger
}

func (p *Planner) Plan(ctx context.Context) error {
	out := resolvePath(p.Dir, p.OutputPath)

	if !p.Force {
		if _, err := os.Stat(out); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", out)
		}
	}

	p.Handler.PlanningStarted(p.Description)
	transcript, err := p.Driver.RunSession(ctx, prompt.BuildPlanning(p.Description), p.Handler)
	if err != nil {
		return fmt.Errorf("planning session: %w", err)
	}

	p.Handler.ExtractionStarted()
	raw, err := p.Driver.RunSession(ctx, prompt.BuildExtraction(transcript), p.Handler)
	if err != nil {
		return fmt.Errorf("extraction session: %w", err)
	}

	doc, err := extract.Document(raw)
	if err != nil {
		return err
	}
	if err := taskdoc.Validate(doc); err != nil {
		return fmt.Errorf("extracted document invalid: %w", err)
	}

	p.Handler.PresentDocument(doc)
	confirmed, err := p.Handler.ConfirmSave(out)
	if err != nil {
		return err
	}
	if !confirmed {
		p.Logger.Info("plan discarded")
		p.Handler.Declined()
		return nil
	}

	if err := taskdoc.Save(out, doc); err != nil {
		return err
	}
	p.Handler.Saved(out, len(doc.Tasks))
	return nil
}
