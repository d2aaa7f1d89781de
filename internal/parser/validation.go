package parser

import (
	"fmt"
	"strings"
)

// Validity is the first verdict line: is the input what it claims to be.
type Validity string

const (
	ValidityYes     Validity = "Yes"
	ValidityNo      Validity = "No"
	ValidityPartial Validity = "Partial"
)

// Sufficiency is the second verdict line: does the input carry enough detail.
type Sufficiency string

const (
	Sufficient            Sufficiency = "Sufficient"
	Insufficient          Sufficiency = "Insufficient"
	PartiallyInsufficient Sufficiency = "PartiallyInsufficient"
)

// Verdict is a parsed validation reply.
type Verdict struct {
	Validity               Validity
	ValidityExplanation    string
	Sufficiency            Sufficiency
	SufficiencyExplanation string
}

var validityLabels = map[string]Validity{
	"yes":     ValidityYes,
	"no":      ValidityNo,
	"partial": ValidityPartial,
}

var sufficiencyLabels = map[string]Sufficiency{
	"sufficient":             Sufficient,
	"insufficient":           Insufficient,
	"partially insufficient": PartiallyInsufficient,
	"partiallyinsufficient":  PartiallyInsufficient,
}

// ParseValidation reads a two-line "Validity: X - why" / "Sufficiency: Y - why" reply.
func ParseValidation(raw string) (Verdict, error) {
	head, err := headLines(raw)
	if err != nil {
		return Verdict{}, &ParseError{Kind: KindValidation, Raw: raw, Err: err}
	}

	validityLabel, validityExplanation := splitLabel(head[0])
	validity, ok := validityLabels[normalizeLabel(validityLabel)]
	if !ok {
		return Verdict{}, &ParseError{Kind: KindValidation, Raw: raw, Err: fmt.Errorf("unknown validity label %q", validityLabel)}
	}

	sufficiencyLabel, sufficiencyExplanation := splitLabel(head[1])
	sufficiency, ok := sufficiencyLabels[normalizeLabel(sufficiencyLabel)]
	if !ok {
		return Verdict{}, &ParseError{Kind: KindValidation, Raw: raw, Err: fmt.Errorf("unknown sufficiency label %q", sufficiencyLabel)}
	}
	if sufficiencyExplanation == "" {
		return Verdict{}, &ParseError{Kind: KindValidation, Raw: raw, Err: fmt.Errorf("sufficiency line %q has no explanation", head[1])}
	}

	return Verdict{
		Validity:               validity,
		ValidityExplanation:    validityExplanation,
		Sufficiency:            sufficiency,
		SufficiencyExplanation: sufficiencyExplanation,
	}, nil
}

func splitLabel(value string) (string, string) {
	parts := strings.SplitN(value, " - ", 2)
	label := strings.TrimSpace(parts[0])
	if len(parts) < 2 {
		return label, ""
	}
	return label, strings.TrimSpace(parts[1])
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(strings.Trim(label, "[]* ")))
}
