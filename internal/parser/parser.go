// Package parser turns the line-oriented completion replies into typed values.
package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names the reply format a ParseError came from.
type Kind string

const (
	KindValidation Kind = "validation"
	KindExtraction Kind = "extraction"
)

// ParseError reports a completion reply that does not follow the expected format.
type ParseError struct {
	Kind Kind
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s reply: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	errTooFewLines  = errors.New("expected at least two lines")
	errMissingColon = errors.New("line has no colon")
)

// lines trims the reply, drops trailing periods and returns the non-blank trimmed lines.
func lines(raw string) []string {
	text := strings.TrimRight(strings.TrimSpace(raw), ".")

	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// valueAfterColon returns the trimmed text following the first colon of line.
func valueAfterColon(line string) (string, error) {
	_, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", fmt.Errorf("%w: %q", errMissingColon, line)
	}
	return strings.TrimSpace(value), nil
}

// headLines returns the first two lines, each of which must hold a colon.
func headLines(raw string) ([2]string, error) {
	var head [2]string

	all := lines(raw)
	if len(all) < 2 {
		return head, fmt.Errorf("%w, got %d", errTooFewLines, len(all))
	}

	for i := range head {
		value, err := valueAfterColon(all[i])
		if err != nil {
			return head, err
		}
		head[i] = value
	}
	return head, nil
}
