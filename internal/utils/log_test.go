package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateForLogKeepsShortCompletions(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "Compatibility Score: 80", "  1. Resume Validity: Yes\n"} {
		want := strings.TrimSpace(in)
		if got := TruncateForLog(in, 64); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestTruncateForLogDisabled(t *testing.T) {
	t.Parallel()

	if got := TruncateForLog("Company Name: Acme", 0); got != "" {
		t.Fatalf("zero limit must drop the text, got %q", got)
	}
	if got := TruncateForLog("Company Name: Acme", -3); got != "" {
		t.Fatalf("negative limit must drop the text, got %q", got)
	}
}

func TestTruncateForLogCountsRunes(t *testing.T) {
	t.Parallel()

	in := "Опыт работы: пять лет Go"
	got := TruncateForLog(in, 4)

	if got != "Опыт..." {
		t.Fatalf("expected rune-aligned cut, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncated text is not valid UTF-8: %q", got)
	}
}

func TestTruncateForLogTrimsBeforeCutting(t *testing.T) {
	t.Parallel()

	if got := TruncateForLog("\n\t  Suggestions follow", 11); got != "Suggestions..." {
		t.Fatalf("expected leading whitespace trimmed first, got %q", got)
	}
}
