package parser

import (
	"fmt"
	"strings"
)

// Unknown is what the extraction prompt answers when a field is absent.
const Unknown = "Unknown"

// Entities are the employer and role named by a job description.
type Entities struct {
	CompanyName string `json:"company_name"`
	JobTitle    string `json:"job_title"`
}

// HasUnknown reports whether either field is the Unknown sentinel.
func (e Entities) HasUnknown() bool {
	return strings.EqualFold(e.CompanyName, Unknown) || strings.EqualFold(e.JobTitle, Unknown)
}

// ParseExtraction reads a "Company Name: X" / "Job Title: Y" reply.
func ParseExtraction(raw string) (Entities, error) {
	head, err := headLines(raw)
	if err != nil {
		return Entities{}, &ParseError{Kind: KindExtraction, Raw: raw, Err: err}
	}

	for i, field := range []string{"company name", "job title"} {
		head[i] = strings.TrimSpace(strings.TrimRight(head[i], "."))
		if head[i] == "" {
			return Entities{}, &ParseError{Kind: KindExtraction, Raw: raw, Err: fmt.Errorf("empty %s", field)}
		}
	}

	return Entities{CompanyName: head[0], JobTitle: head[1]}, nil
}
