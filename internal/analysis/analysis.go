// Package analysis produces the compatibility evaluation, suggestions and
// bullet points for a validated resume and job description.
package analysis

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/prompts"
)

// Completer renders a named prompt and returns the completion text.
type Completer interface {
	Complete(ctx context.Context, name prompts.Name, bindings prompts.Bindings) (string, error)
}

// Result holds the three analysis texts.
type Result struct {
	CompatibilityEvaluation string `json:"compatibility_evaluation"`
	Suggestions             string `json:"suggestions"`
	BulletPoints            string `json:"bullet_points"`
}

// Error names the sub-analysis that failed.
type Error struct {
	Part prompts.Name
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s analysis: %v", e.Part, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Stage runs the three analyses.
type Stage struct {
	completer Completer
	logger    *zap.Logger
}

// New returns an analysis stage.
func New(completer Completer, log *zap.Logger) *Stage {
	return &Stage{completer: completer, logger: logger.WithStage(log, "analysis")}
}

// Analyze runs the three completions concurrently. Any failure cancels the
// others and no partial result is returned.
func (s *Stage) Analyze(ctx context.Context, resume, jobDescription string) (Result, error) {
	both := prompts.Bindings{
		prompts.ResumeText:     resume,
		prompts.JobDescription: jobDescription,
	}

	var res Result
	parts := []struct {
		name prompts.Name
		dst  *string
	}{
		{name: prompts.Compatibility, dst: &res.CompatibilityEvaluation},
		{name: prompts.Suggestions, dst: &res.Suggestions},
		{name: prompts.BulletPoints, dst: &res.BulletPoints},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, part := range parts {
		g.Go(func() error {
			text, err := s.completer.Complete(gctx, part.name, both)
			if err != nil {
				return &Error{Part: part.name, Err: err}
			}
			*part.dst = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	s.logger.Debug("analysis finished",
		zap.Int("compatibility_length", len(res.CompatibilityEvaluation)),
		zap.Int("suggestions_length", len(res.Suggestions)),
		zap.Int("bullet_points_length", len(res.BulletPoints)),
	)

	return res, nil
}
