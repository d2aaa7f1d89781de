// Package ai renders prompt templates and sends them to a completion backend.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/prompts"
	"github.com/spigell/resume-matcher/internal/utils"
)

const defaultMaxLogLength = 512

// Generator is a completion backend: one prompt in, one text out.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// CompletionError wraps a backend failure with the template that triggered it.
type CompletionError struct {
	Template prompts.Name
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion for template %q failed: %v", e.Template, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Client renders named templates and forwards them to a Generator.
type Client struct {
	catalog   *prompts.Catalog
	generator Generator
	logger    *zap.Logger
	maxLogLen int
}

// NewClient builds a client. A nil catalog means the embedded default catalog.
func NewClient(catalog *prompts.Catalog, generator Generator, provider string, log *zap.Logger, maxLogLength int) (*Client, error) {
	if generator == nil {
		return nil, errors.New("completion generator is required")
	}
	if catalog == nil {
		catalog = prompts.Default()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Client{
		catalog:   catalog,
		generator: generator,
		logger:    logger.WithCommonFields(log, provider, generator.Model()),
		maxLogLen: maxLogLength,
	}, nil
}

// Complete looks up the template by name, renders it and returns the trimmed completion.
func (c *Client) Complete(ctx context.Context, name prompts.Name, bindings prompts.Bindings) (string, error) {
	tmpl, err := c.catalog.Get(name)
	if err != nil {
		return "", err
	}
	return c.CompleteTemplate(ctx, tmpl, bindings)
}

// CompleteTemplate renders tmpl and calls the generator exactly once.
func (c *Client) CompleteTemplate(ctx context.Context, tmpl prompts.Template, bindings prompts.Bindings) (string, error) {
	prompt, err := tmpl.Render(bindings)
	if err != nil {
		return "", err
	}

	c.logger.Debug("completion request",
		zap.String(logger.FieldTemplate, string(tmpl.Name)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", &CompletionError{Template: tmpl.Name, Err: err}
	}

	text := strings.TrimSpace(raw)

	c.logger.Debug("completion response",
		zap.String(logger.FieldTemplate, string(tmpl.Name)),
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", utils.TruncateForLog(text, c.maxLogLen)),
	)

	return text, nil
}
