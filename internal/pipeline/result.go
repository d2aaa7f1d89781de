package pipeline

import (
	"encoding/json"
	"net/http"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/parser"
)

// ValidationPassed is the validation_results marker of an extended success.
const ValidationPassed = "Resume and job description passed validation."

// Kind classifies a failure for status mapping.
type Kind string

const (
	KindRejected   Kind = "rejected"
	KindExtraction Kind = "extraction"
	KindInternal   Kind = "internal"
)

// Failure is the error variant of a Result.
type Failure struct {
	Message string   `json:"error"`
	Details []string `json:"details,omitempty"`
	Kind    Kind     `json:"-"`
}

// Success is the success variant of a Result.
type Success struct {
	Validation        string
	Analysis          analysis.Result
	InterviewInsights string
	Entities          parser.Entities
	// Extended selects the nested JSON shape used when interview research ran.
	Extended bool
}

// Result is what every caller of the pipeline receives. Exactly one of
// Failure and Success is set.
type Result struct {
	RunID   string
	State   State
	Steps   []Step
	Failure *Failure
	Success *Success
}

// OK reports whether the run succeeded.
func (r Result) OK() bool {
	return r.Failure == nil && r.Success != nil
}

// StatusCode maps the result to an HTTP status.
func (r Result) StatusCode() int {
	if r.OK() {
		return http.StatusOK
	}
	if r.Failure == nil {
		return http.StatusInternalServerError
	}

	switch r.Failure.Kind {
	case KindRejected, KindExtraction:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type extendedJSON struct {
	ValidationResults string          `json:"validation_results"`
	Analysis          analysis.Result `json:"analysis"`
	InterviewInsights string          `json:"interview_insights,omitempty"`
	CompanyName       string          `json:"company_name,omitempty"`
	JobTitle          string          `json:"job_title,omitempty"`
}

// MarshalJSON writes the failure, minimal or extended shape.
func (r Result) MarshalJSON() ([]byte, error) {
	switch {
	case r.Failure != nil:
		return json.Marshal(r.Failure)
	case r.Success == nil:
		return json.Marshal(Failure{Message: "Pipeline produced no result."})
	case !r.Success.Extended:
		return json.Marshal(r.Success.Analysis)
	default:
		return json.Marshal(extendedJSON{
			ValidationResults: r.Success.Validation,
			Analysis:          r.Success.Analysis,
			InterviewInsights: r.Success.InterviewInsights,
			CompanyName:       r.Success.Entities.CompanyName,
			JobTitle:          r.Success.Entities.JobTitle,
		})
	}
}
