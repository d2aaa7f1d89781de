// Package anthropic implements ai.Generator on top of the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// ProviderName is the ai.provider value selecting this backend.
	ProviderName = "anthropic"

	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 4096
)

type messageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Generator sends single-turn prompts to Claude.
type Generator struct {
	messages  messageCreator
	modelName string
	maxTokens int64
}

// Options configures a Generator.
type Options struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

// NewGenerator creates a Generator authenticated with the given key.
func NewGenerator(opts Options) (*Generator, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return newGenerator(&client.Messages, opts), nil
}

func newGenerator(messages messageCreator, opts Options) *Generator {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Generator{messages: messages, modelName: model, maxTokens: maxTokens}
}

// GenerateContent sends the prompt as one user message and joins the text blocks of the reply.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.messages == nil {
		return "", errors.New("anthropic generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	msg, err := g.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.modelName),
		MaxTokens:   g.maxTokens,
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}
	if msg == nil {
		return "", errors.New("anthropic api returned no message")
	}

	var builder strings.Builder
	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
	}

	output := builder.String()
	if output == "" {
		return "", errors.New("anthropic api returned empty response")
	}

	return output, nil
}

// Model returns the configured model identifier.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
