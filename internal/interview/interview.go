// Package interview gathers interview-preparation insights for a job
// description from web search results.
package interview

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/parser"
	"github.com/spigell/resume-matcher/internal/prompts"
	"github.com/spigell/resume-matcher/internal/websearch"
)

const (
	// NoResults is passed to synthesis when the search returned nothing.
	NoResults = "No relevant search results found."

	queryFormat = "%s %s interview process questions experiences"
	pageSize    = 10
)

// Completer renders a named prompt and returns the completion text.
type Completer interface {
	Complete(ctx context.Context, name prompts.Name, bindings prompts.Bindings) (string, error)
}

// Searcher runs one web search query.
type Searcher interface {
	Search(ctx context.Context, query string, num int) ([]websearch.Result, error)
}

// ExtractionError means the job description names no usable company or title.
type ExtractionError struct {
	Entities parser.Entities
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("entity extraction: %v", e.Err)
	}
	return fmt.Sprintf("could not extract company name and job title (company: %q, title: %q)", e.Entities.CompanyName, e.Entities.JobTitle)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Insights is the outcome of a full research run.
type Insights struct {
	Entities parser.Entities
	Results  []websearch.Result
	Text     string
}

// Stage extracts entities, searches and synthesizes.
type Stage struct {
	completer Completer
	searcher  Searcher
	logger    *zap.Logger
}

// New returns an interview research stage.
func New(completer Completer, searcher Searcher, log *zap.Logger) *Stage {
	return &Stage{completer: completer, searcher: searcher, logger: logger.WithStage(log, "interview")}
}

// ExtractEntities reads the company name and job title from the job description.
func (s *Stage) ExtractEntities(ctx context.Context, jobDescription string) (parser.Entities, error) {
	raw, err := s.completer.Complete(ctx, prompts.EntityExtraction, prompts.Bindings{prompts.JobDescription: jobDescription})
	if err != nil {
		return parser.Entities{}, err
	}

	entities, err := parser.ParseExtraction(raw)
	if err != nil {
		return parser.Entities{}, &ExtractionError{Err: err}
	}
	if entities.HasUnknown() {
		return entities, &ExtractionError{Entities: entities}
	}

	s.logger.Debug("entities extracted",
		zap.String("company_name", entities.CompanyName),
		zap.String("job_title", entities.JobTitle),
	)

	return entities, nil
}

// Search issues a single query for interview experiences at company for title.
func (s *Stage) Search(ctx context.Context, company, title string) ([]websearch.Result, error) {
	query := fmt.Sprintf(queryFormat, company, title)

	results, err := s.searcher.Search(ctx, query, pageSize)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search finished", zap.String("query", query), zap.Int("results", len(results)))

	return results, nil
}

// FormatResults renders the results as numbered text blocks for the synthesis prompt.
func FormatResults(results []websearch.Result) string {
	if len(results) == 0 {
		return NoResults
	}

	blocks := make([]string, 0, len(results))
	for i, r := range results {
		blocks = append(blocks, fmt.Sprintf("Result %d:\nTitle: %s\nSnippet: %s\nLink: %s", i+1, r.Title, r.Snippet, r.Link))
	}
	return strings.Join(blocks, "\n\n")
}

// Synthesize turns search results into interview preparation text.
func (s *Stage) Synthesize(ctx context.Context, company, title string, results []websearch.Result) (string, error) {
	return s.completer.Complete(ctx, prompts.InterviewSynthesis, prompts.Bindings{
		prompts.CompanyName:   company,
		prompts.JobTitle:      title,
		prompts.SearchResults: FormatResults(results),
	})
}

// Research runs extraction, search and synthesis in order.
func (s *Stage) Research(ctx context.Context, jobDescription string) (Insights, error) {
	entities, err := s.ExtractEntities(ctx, jobDescription)
	if err != nil {
		return Insights{Entities: entities}, err
	}

	results, err := s.Search(ctx, entities.CompanyName, entities.JobTitle)
	if err != nil {
		return Insights{Entities: entities}, err
	}

	text, err := s.Synthesize(ctx, entities.CompanyName, entities.JobTitle, results)
	if err != nil {
		return Insights{Entities: entities, Results: results}, err
	}

	return Insights{Entities: entities, Results: results, Text: text}, nil
}
