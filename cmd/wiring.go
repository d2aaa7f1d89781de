package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/ai/anthropic"
	"github.com/spigell/resume-matcher/internal/ai/gemini"
	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/interview"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/pipeline"
	"github.com/spigell/resume-matcher/internal/secrets"
	"github.com/spigell/resume-matcher/internal/validation"
	"github.com/spigell/resume-matcher/internal/websearch"
)

// setup builds the logger and reads the configuration shared by every command.
func setup() (*zap.Logger, *Config) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		panic(fmt.Sprintf("creating a logger: %s", err))
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting the resume-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return log, config
}

func redacted(config *Config) Config {
	c := *config
	hide := func(s string) string {
		if s == "" {
			return ""
		}
		return "REDACTED"
	}

	if c.AI != nil {
		aiCfg := *c.AI
		if aiCfg.Gemini != nil {
			g := *aiCfg.Gemini
			g.APIKey = hide(g.APIKey)
			aiCfg.Gemini = &g
		}
		if aiCfg.Anthropic != nil {
			a := *aiCfg.Anthropic
			a.APIKey = hide(a.APIKey)
			aiCfg.Anthropic = &a
		}
		c.AI = &aiCfg
	}
	if c.Search != nil {
		s := *c.Search
		s.APIKey = hide(s.APIKey)
		c.Search = &s
	}

	return c
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Generator, string, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", gemini.ProviderName:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, "", fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		genLogger := logger.WithCommonFields(log, gemini.ProviderName, cfg.Gemini.Model).
			With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

		g, err := gemini.NewGenerator(ctx, gemini.Options{
			APIKey:     apiKey,
			Model:      cfg.Gemini.Model,
			MaxRetries: cfg.Gemini.MaxRetries,
			Logger:     genLogger,
		})
		return g, gemini.ProviderName, err

	case anthropic.ProviderName:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "anthropic api key",
			Value: cfg.Anthropic.APIKey,
			File:  cfg.Anthropic.APIKeyFile,
			Env:   "ANTHROPIC_API_KEY",
		})
		if err != nil {
			return nil, "", fmt.Errorf("%w (set ai.anthropic.api-key-file or ANTHROPIC_API_KEY)", err)
		}

		g, err := anthropic.NewGenerator(anthropic.Options{
			APIKey:    apiKey,
			Model:     cfg.Anthropic.Model,
			MaxTokens: cfg.Anthropic.MaxTokens,
		})
		return g, anthropic.ProviderName, err

	default:
		return nil, "", fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newResearcher(completer interview.Completer, cfg *SearchConfig, log *zap.Logger) (*interview.Stage, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "search api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "SEARCH_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set search.api-key-file or SEARCH_API_KEY)", err)
	}

	searcher, err := websearch.New(log, apiKey, cfg.EngineID)
	if err != nil {
		return nil, fmt.Errorf("%w (set search.engine-id or SEARCH_ENGINE_ID)", err)
	}

	return interview.New(completer, searcher, log), nil
}

// newOrchestrator wires the stages. interviewEnabled overrides the config toggle.
func newOrchestrator(ctx context.Context, config *Config, interviewEnabled bool, log *zap.Logger) (*pipeline.Orchestrator, error) {
	generator, provider, err := newGenerator(ctx, config.AI, log)
	if err != nil {
		return nil, fmt.Errorf("completion backend: %w", err)
	}

	client, err := ai.NewClient(nil, generator, provider, log, config.AI.MaxLogLength)
	if err != nil {
		return nil, err
	}

	var researcher pipeline.Researcher
	if interviewEnabled {
		stage, err := newResearcher(client, config.Search, log)
		if err != nil {
			return nil, fmt.Errorf("interview research: %w", err)
		}
		researcher = stage
	}

	return pipeline.New(
		validation.New(client, log),
		analysis.New(client, log),
		researcher,
		pipeline.Options{
			Interview:             interviewEnabled,
			KeepAnalysisOnFailure: config.Interview.KeepAnalysisOnFailure,
		},
		log,
	)
}
