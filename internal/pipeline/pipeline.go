// Package pipeline runs validation, analysis and interview research for one
// resume and job description and folds the outcome into a single Result.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/interview"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/parser"
	"github.com/spigell/resume-matcher/internal/websearch"
)

const (
	msgRejected        = "Validation failed for one or both inputs."
	msgValidationError = "Validation step failed."
	msgAnalysis        = "Analysis failed."
	msgExtraction      = "Extraction failed."
	msgSearch          = "Interview search failed."
	msgSynthesis       = "Interview insights synthesis failed."
)

type Validator interface {
	Validate(ctx context.Context, resume, jobDescription string) ([]string, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, resume, jobDescription string) (analysis.Result, error)
}

// Researcher is the interview research stage, driven step by step.
type Researcher interface {
	ExtractEntities(ctx context.Context, jobDescription string) (parser.Entities, error)
	Search(ctx context.Context, company, title string) ([]websearch.Result, error)
	Synthesize(ctx context.Context, company, title string, results []websearch.Result) (string, error)
}

// Options toggles the optional parts of a run.
type Options struct {
	// Interview enables the research sub-pipeline and the extended result shape.
	Interview bool
	// KeepAnalysisOnFailure returns the analysis without insights when research
	// fails instead of a failure result.
	KeepAnalysisOnFailure bool
}

// Orchestrator wires the stages together.
type Orchestrator struct {
	validator  Validator
	analyzer   Analyzer
	researcher Researcher
	opts       Options
	logger     *zap.Logger
}

// New returns an orchestrator. researcher may be nil when opts.Interview is false.
func New(validator Validator, analyzer Analyzer, researcher Researcher, opts Options, log *zap.Logger) (*Orchestrator, error) {
	if validator == nil || analyzer == nil {
		return nil, errors.New("validation and analysis stages are required")
	}
	if opts.Interview && researcher == nil {
		return nil, errors.New("interview research is enabled but no research stage is configured")
	}

	return &Orchestrator{
		validator:  validator,
		analyzer:   analyzer,
		researcher: researcher,
		opts:       opts,
		logger:     logger.OrNop(log),
	}, nil
}

// InterviewEnabled reports whether runs include interview research.
func (o *Orchestrator) InterviewEnabled() bool {
	return o.opts.Interview
}

type run struct {
	id     string
	start  time.Time
	state  State
	steps  []Step
	logger *zap.Logger
}

func (r *run) enter(s State) {
	r.state = s
	step := Step{State: s, Elapsed: time.Since(r.start)}
	r.steps = append(r.steps, step)
	r.logger.Info("pipeline transition", zap.String(logger.FieldStage, string(s)), zap.Duration("elapsed", step.Elapsed))
}

func (r *run) fail(s State, kind Kind, message string, details ...string) Result {
	r.enter(s)
	r.logger.Warn("pipeline failed", zap.String("kind", string(kind)), zap.String("reason", message), zap.Strings("details", details))
	return Result{
		RunID:   r.id,
		State:   r.state,
		Steps:   r.steps,
		Failure: &Failure{Message: message, Details: details, Kind: kind},
	}
}

func (r *run) succeed(s State, success *Success) Result {
	r.enter(s)
	return Result{RunID: r.id, State: r.state, Steps: r.steps, Success: success}
}

// Run executes the pipeline. It never returns an error: every stage failure is
// folded into the Failure variant.
func (o *Orchestrator) Run(ctx context.Context, resume, jobDescription string) Result {
	id := uuid.NewString()
	r := &run{id: id, start: time.Now(), logger: logger.WithRun(o.logger, id)}

	r.enter(StateStart)
	r.enter(StateValidating)

	reasons, err := o.validator.Validate(ctx, resume, jobDescription)
	if err != nil {
		return r.fail(StateFailed, KindInternal, msgValidationError, err.Error())
	}
	if len(reasons) > 0 {
		return r.fail(StateRejected, KindRejected, msgRejected, reasons...)
	}
	r.enter(StateValidated)

	r.enter(StateAnalyzing)
	result, err := o.analyzer.Analyze(ctx, resume, jobDescription)
	if err != nil {
		return r.fail(StateFailed, KindInternal, msgAnalysis, err.Error())
	}

	if !o.opts.Interview {
		return r.succeed(StateAnalyzed, &Success{Validation: ValidationPassed, Analysis: result})
	}
	r.enter(StateAnalyzed)

	return o.research(ctx, r, jobDescription, result)
}

func (o *Orchestrator) research(ctx context.Context, r *run, jobDescription string, result analysis.Result) Result {
	partial := &Success{Validation: ValidationPassed, Analysis: result, Extended: true}

	// keep returns the analysis without insights when the toggle allows it.
	keep := func(s State, kind Kind, message string, err error) Result {
		if o.opts.KeepAnalysisOnFailure {
			r.logger.Warn("interview research failed, keeping analysis", zap.String("reason", message), zap.Error(err))
			return r.succeed(s, partial)
		}
		return r.fail(s, kind, message, err.Error())
	}

	r.enter(StateExtractingEntities)
	entities, err := o.researcher.ExtractEntities(ctx, jobDescription)
	if err != nil {
		var extractionErr *interview.ExtractionError
		if errors.As(err, &extractionErr) {
			return keep(StateExtractionFailed, KindExtraction, msgExtraction, err)
		}
		return keep(StateFailed, KindInternal, msgExtraction, err)
	}
	r.enter(StateExtracted)
	partial.Entities = entities

	r.enter(StateSearching)
	results, err := o.researcher.Search(ctx, entities.CompanyName, entities.JobTitle)
	if err != nil {
		return keep(StateFailed, KindInternal, msgSearch, err)
	}

	r.enter(StateSynthesizing)
	insights, err := o.researcher.Synthesize(ctx, entities.CompanyName, entities.JobTitle, results)
	if err != nil {
		return keep(StateFailed, KindInternal, msgSynthesis, err)
	}

	partial.InterviewInsights = insights
	return r.succeed(StateDone, partial)
}
