package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/docextract"
	"github.com/spigell/resume-matcher/internal/parser"
	"github.com/spigell/resume-matcher/internal/pipeline"
)

func TestRenderResultSections(t *testing.T) {
	res := pipeline.Result{Success: &pipeline.Success{
		Analysis: analysis.Result{
			CompatibilityEvaluation: "Score: 75",
			Suggestions:             "Quantify impact",
			BulletPoints:            "- Led migration",
		},
		InterviewInsights: "Two technical rounds.",
		Entities:          parser.Entities{CompanyName: "Acme", JobTitle: "SRE"},
		Extended:          true,
	}}

	var out bytes.Buffer
	renderResult(&out, res)

	text := out.String()
	for _, want := range []string{
		"Compatibility Evaluation\n",
		"Improvement Suggestions\n",
		"Example Resume Bullet Points\n",
		"Interview Insights: Acme, SRE\n",
		"Two technical rounds.",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestRenderResultMinimalOmitsInsights(t *testing.T) {
	var out bytes.Buffer
	renderResult(&out, pipeline.Result{Success: &pipeline.Success{Analysis: analysis.Result{CompatibilityEvaluation: "ok"}}})

	if strings.Contains(out.String(), "Interview Insights") {
		t.Fatalf("minimal result must not render insights:\n%s", out.String())
	}
}

func TestRenderResultFailure(t *testing.T) {
	var out bytes.Buffer
	renderResult(&out, pipeline.Result{Failure: &pipeline.Failure{
		Message: "Validation failed for one or both inputs.",
		Details: []string{"Invalid Resume: a poem"},
		Kind:    pipeline.KindRejected,
	}})

	want := "Error: Validation failed for one or both inputs.\n  - Invalid Resume: a poem\n"
	if out.String() != want {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestReadJobDescription(t *testing.T) {
	got, err := readJobDescription("-", strings.NewReader("  Go engineer wanted \n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Go engineer wanted" {
		t.Fatalf("unexpected text %q", got)
	}

	if _, err := readJobDescription("-", strings.NewReader("  ")); err == nil {
		t.Fatal("expected error for empty job description")
	}
}

func TestReadResume(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(path, []byte("Jane Doe\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := readResume(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Jane Doe" {
		t.Fatalf("unexpected text %q", got)
	}

	if _, err := readResume(filepath.Join(dir, "resume.png")); !errors.Is(err, docextract.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}

func TestRedactedHidesKeys(t *testing.T) {
	cfg := &Config{
		AI: &AIConfig{
			Gemini:    &GeminiConfig{APIKey: "g-secret", Model: "gemini-2.5-pro"},
			Anthropic: &AnthropicConfig{},
		},
		Search: &SearchConfig{APIKey: "s-secret", EngineID: "cx"},
	}

	r := redacted(cfg)

	if r.AI.Gemini.APIKey != "REDACTED" || r.Search.APIKey != "REDACTED" {
		t.Fatalf("keys not redacted: %+v %+v", r.AI.Gemini, r.Search)
	}
	if r.AI.Anthropic.APIKey != "" {
		t.Fatalf("empty key should stay empty")
	}
	if cfg.AI.Gemini.APIKey != "g-secret" || cfg.Search.APIKey != "s-secret" {
		t.Fatal("original config must not change")
	}
	if r.Search.EngineID != "cx" {
		t.Fatal("non-secret fields must be kept")
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 || ExitCode(errFailedResult) != 2 || ExitCode(errors.New("x")) != 1 {
		t.Fatal("unexpected exit code mapping")
	}
}

func TestNewGeneratorRejectsUnknownProvider(t *testing.T) {
	_, _, err := newGenerator(t.Context(), &AIConfig{
		Provider:  "openai",
		Gemini:    &GeminiConfig{},
		Anthropic: &AnthropicConfig{},
	}, nil)
	if err == nil || !strings.Contains(err.Error(), "unsupported ai provider") {
		t.Fatalf("expected unsupported provider error, got %v", err)
	}
}

func TestPrintVersion(t *testing.T) {
	var full bytes.Buffer
	printVersion(&full, false)
	if !strings.HasPrefix(full.String(), app+" version: "+version+" (commit "+commit) {
		t.Fatalf("unexpected version line %q", full.String())
	}
	if !strings.Contains(full.String(), "7 prompt templates") {
		t.Fatalf("expected template count in %q", full.String())
	}

	var short bytes.Buffer
	printVersion(&short, true)
	if short.String() != version+"\n" {
		t.Fatalf("expected bare version, got %q", short.String())
	}
}
