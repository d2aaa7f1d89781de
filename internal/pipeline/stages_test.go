package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/interview"
	"github.com/spigell/resume-matcher/internal/prompts"
	"github.com/spigell/resume-matcher/internal/validation"
	"github.com/spigell/resume-matcher/internal/websearch"
)

// cannedCompleter renders each template like the real client and answers by template name.
type cannedCompleter struct {
	t       *testing.T
	mu      sync.Mutex
	replies map[prompts.Name]string
	calls   map[prompts.Name]int
}

func (c *cannedCompleter) Complete(_ context.Context, name prompts.Name, bindings prompts.Bindings) (string, error) {
	tmpl, err := prompts.Default().Get(name)
	if err != nil {
		return "", err
	}
	if _, err := tmpl.Render(bindings); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = make(map[prompts.Name]int)
	}
	c.calls[name]++

	reply, ok := c.replies[name]
	if !ok {
		c.t.Errorf("unexpected completion for template %q", name)
	}
	return reply, nil
}

type cannedSearcher struct {
	results []websearch.Result
}

func (s cannedSearcher) Search(context.Context, string, int) ([]websearch.Result, error) {
	return s.results, nil
}

func newStagedOrchestrator(t *testing.T, completer *cannedCompleter, interviewEnabled bool) *Orchestrator {
	t.Helper()

	var researcher Researcher
	if interviewEnabled {
		researcher = interview.New(completer, cannedSearcher{results: []websearch.Result{
			{Title: "Acme interview", Snippet: "Two rounds", Link: "https://example.com/acme"},
		}}, nil)
	}

	o, err := New(validation.New(completer, nil), analysis.New(completer, nil), researcher, Options{Interview: interviewEnabled}, nil)
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return o
}

func marshalMap(t *testing.T, res Result) map[string]any {
	t.Helper()

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	return out
}

const (
	resumeOK = "1. Resume Validity: Yes - A developer resume\n2. Resume Sufficiency: Sufficient - Lists experience and skills"
	jdOK     = "1. Job Description Validity: Yes - A job posting\n2. Job Description Sufficiency: Sufficient - Requirements are listed"
)

func TestRunThroughStagesMinimalSuccess(t *testing.T) {
	completer := &cannedCompleter{t: t, replies: map[prompts.Name]string{
		prompts.ResumeValidation:         resumeOK,
		prompts.JobDescriptionValidation: jdOK,
		prompts.Compatibility:            "Compatibility Score: 85\nStrong Go background.",
		prompts.Suggestions:              "Mention Kubernetes work.",
		prompts.BulletPoints:             "- Built a payment service in Go",
	}}

	res := newStagedOrchestrator(t, completer, false).Run(context.Background(),
		"Jane Doe, Go developer, 6 years building APIs", "Senior Go engineer. Requirements: Go, Kubernetes, SQL.")

	if res.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200, got %d (%+v)", res.StatusCode(), res.Failure)
	}

	got := marshalMap(t, res)
	if _, ok := got["error"]; ok {
		t.Fatalf("success must not carry an error key: %v", got)
	}
	for _, key := range []string{"compatibility_evaluation", "suggestions", "bullet_points"} {
		if v, _ := got[key].(string); v == "" {
			t.Fatalf("expected non-empty %s, got %v", key, got)
		}
	}
	if len(got) != 3 {
		t.Fatalf("minimal variant must hold exactly three fields, got %v", got)
	}
	if completer.calls[prompts.EntityExtraction] != 0 {
		t.Fatal("interview research must not run in the minimal variant")
	}
}

func TestRunThroughStagesRejectsShortJobDescription(t *testing.T) {
	completer := &cannedCompleter{t: t, replies: map[prompts.Name]string{
		prompts.ResumeValidation:         resumeOK,
		prompts.JobDescriptionValidation: "1. Job Description Validity: Yes - Names a role\n2. Job Description Sufficiency: Insufficient - A single sentence with no requirements",
	}}

	res := newStagedOrchestrator(t, completer, false).Run(context.Background(),
		"Jane Doe, Go developer", "We are hiring.")

	if res.StatusCode() != http.StatusBadRequest || res.State != StateRejected {
		t.Fatalf("expected rejection, got state=%s status=%d", res.State, res.StatusCode())
	}

	got := marshalMap(t, res)
	if got["error"] != "Validation failed for one or both inputs." {
		t.Fatalf("unexpected error message: %v", got)
	}
	details, _ := got["details"].([]any)
	if len(details) != 1 || details[0] != "Insufficient Job Description: A single sentence with no requirements" {
		t.Fatalf("expected exactly one job description detail, got %v", got["details"])
	}
	for _, name := range []prompts.Name{prompts.Compatibility, prompts.Suggestions, prompts.BulletPoints} {
		if completer.calls[name] != 0 {
			t.Fatalf("analysis %q must not run after rejection", name)
		}
	}
}

func TestRunThroughStagesExtended(t *testing.T) {
	completer := &cannedCompleter{t: t, replies: map[prompts.Name]string{
		prompts.ResumeValidation:         resumeOK,
		prompts.JobDescriptionValidation: jdOK,
		prompts.Compatibility:            "Compatibility Score: 70",
		prompts.Suggestions:              "Add metrics.",
		prompts.BulletPoints:             "- Cut latency by 40%",
		prompts.EntityExtraction:         "Company Name: Acme\nJob Title: Platform Engineer",
		prompts.InterviewSynthesis:       "Expect a system design round.",
	}}

	res := newStagedOrchestrator(t, completer, true).Run(context.Background(), "resume", "jd")

	if res.State != StateDone {
		t.Fatalf("expected done, got %s (%+v)", res.State, res.Failure)
	}

	got := marshalMap(t, res)
	if got["interview_insights"] != "Expect a system design round." || got["company_name"] != "Acme" {
		t.Fatalf("unexpected extended result: %v", got)
	}
	if _, ok := got["analysis"].(map[string]any); !ok {
		t.Fatalf("analysis must be nested: %v", got)
	}
}

func TestRunThroughStagesUnknownCompany(t *testing.T) {
	completer := &cannedCompleter{t: t, replies: map[prompts.Name]string{
		prompts.ResumeValidation:         resumeOK,
		prompts.JobDescriptionValidation: jdOK,
		prompts.Compatibility:            "Compatibility Score: 70",
		prompts.Suggestions:              "Add metrics.",
		prompts.BulletPoints:             "- Cut latency by 40%",
		prompts.EntityExtraction:         "Company Name: Unknown.\nJob Title: Backend Engineer",
	}}

	res := newStagedOrchestrator(t, completer, true).Run(context.Background(), "resume", "jd")

	if res.State != StateExtractionFailed || res.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected extraction failure, got state=%s status=%d", res.State, res.StatusCode())
	}
	if got := marshalMap(t, res); got["error"] != "Extraction failed." {
		t.Fatalf("unexpected result: %v", got)
	}
	if completer.calls[prompts.InterviewSynthesis] != 0 {
		t.Fatal("synthesis must not run after extraction failure")
	}
}
