// Package validation asks the completion backend whether the resume and the
// job description are usable before any analysis runs.
package validation

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/parser"
	"github.com/spigell/resume-matcher/internal/prompts"
)

const (
	ResumeLabel         = "Resume"
	JobDescriptionLabel = "Job Description"
)

// Completer renders a named prompt and returns the completion text.
type Completer interface {
	Complete(ctx context.Context, name prompts.Name, bindings prompts.Bindings) (string, error)
}

// Stage runs both validation checks.
type Stage struct {
	completer Completer
	logger    *zap.Logger
}

// New returns a validation stage.
func New(completer Completer, log *zap.Logger) *Stage {
	return &Stage{completer: completer, logger: logger.WithStage(log, "validation")}
}

// Validate returns the rejection reasons for the pair, resume reasons first.
// An empty list means both inputs may proceed. Both checks are awaited even if
// one of them fails.
func (s *Stage) Validate(ctx context.Context, resume, jobDescription string) ([]string, error) {
	var resumeVerdict, jdVerdict parser.Verdict

	// A plain Group keeps the sibling check running when one fails.
	var g errgroup.Group
	g.Go(func() error {
		v, err := s.check(ctx, prompts.ResumeValidation, prompts.Bindings{prompts.ResumeText: resume})
		if err != nil {
			return fmt.Errorf("resume validation: %w", err)
		}
		resumeVerdict = v
		return nil
	})
	g.Go(func() error {
		v, err := s.check(ctx, prompts.JobDescriptionValidation, prompts.Bindings{prompts.JobDescription: jobDescription})
		if err != nil {
			return fmt.Errorf("job description validation: %w", err)
		}
		jdVerdict = v
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var reasons []string
	reasons = append(reasons, Gate(ResumeLabel, resumeVerdict)...)
	reasons = append(reasons, Gate(JobDescriptionLabel, jdVerdict)...)

	s.logger.Debug("validation finished",
		zap.String("resume_validity", string(resumeVerdict.Validity)),
		zap.String("resume_sufficiency", string(resumeVerdict.Sufficiency)),
		zap.String("job_description_validity", string(jdVerdict.Validity)),
		zap.String("job_description_sufficiency", string(jdVerdict.Sufficiency)),
		zap.Int("rejections", len(reasons)),
	)

	return reasons, nil
}

func (s *Stage) check(ctx context.Context, name prompts.Name, bindings prompts.Bindings) (parser.Verdict, error) {
	raw, err := s.completer.Complete(ctx, name, bindings)
	if err != nil {
		return parser.Verdict{}, err
	}
	return parser.ParseValidation(raw)
}

// Gate turns a verdict into at most one rejection reason for the labelled input.
// Invalid wins over insufficient; partial validity falls through to the
// sufficiency check. Both messages carry the sufficiency explanation, the
// only one the reply format guarantees.
func Gate(label string, v parser.Verdict) []string {
	switch {
	case v.Validity == parser.ValidityNo:
		return []string{fmt.Sprintf("Invalid %s: %s", label, v.SufficiencyExplanation)}
	case v.Sufficiency == parser.Insufficient:
		return []string{fmt.Sprintf("Insufficient %s: %s", label, v.SufficiencyExplanation)}
	default:
		return nil
	}
}
