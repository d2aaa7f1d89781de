package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resume-matcher"
)

type Config struct {
	AI        *AIConfig        `mapstructure:"ai"`
	Search    *SearchConfig    `mapstructure:"search"`
	Interview *InterviewConfig `mapstructure:"interview"`
	Server    *ServerConfig    `mapstructure:"server"`
}

type AIConfig struct {
	Provider     string           `mapstructure:"provider"`
	MaxLogLength int              `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig    `mapstructure:"gemini"`
	Anthropic    *AnthropicConfig `mapstructure:"anthropic"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type AnthropicConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxTokens  int64  `mapstructure:"max-tokens"`
}

type SearchConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	EngineID   string `mapstructure:"engine-id"`
}

type InterviewConfig struct {
	Enabled               bool `mapstructure:"enabled"`
	KeepAnalysisOnFailure bool `mapstructure:"keep-analysis-on-failure"`
}

type ServerConfig struct {
	Listen    string `mapstructure:"listen"`
	BodyLimit int    `mapstructure:"body-limit"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-matcher checks how well a resume fits a job description and how to prepare for the interview",
		// Errors are logged by the commands themselves.
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"ai.gemini.api-key":    "GEMINI_API_KEY",
		"ai.anthropic.api-key": "ANTHROPIC_API_KEY",
		"search.api-key":       "SEARCH_API_KEY",
		"search.engine-id":     "SEARCH_ENGINE_ID",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.max-log-length", 512)
	viper.SetDefault("ai.gemini.api-key-file", "")
	viper.SetDefault("ai.gemini.model", "gemini-2.5-pro")
	viper.SetDefault("ai.gemini.max-retries", 1)
	viper.SetDefault("ai.anthropic.api-key-file", "")
	viper.SetDefault("ai.anthropic.model", "")
	viper.SetDefault("ai.anthropic.max-tokens", 4096)
	viper.SetDefault("search.api-key-file", "")
	viper.SetDefault("interview.enabled", false)
	viper.SetDefault("interview.keep-analysis-on-failure", false)
	viper.SetDefault("server.listen", ":5000")
	viper.SetDefault("server.body-limit", 10*1024*1024)

	viper.SetEnvPrefix("RESUME_MATCHER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A missing .env is fine, the variables may come from the environment.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Without an explicit --config everything may come from env and defaults.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.AI.Anthropic == nil {
		config.AI.Anthropic = &AnthropicConfig{}
	}
	if config.Search == nil {
		config.Search = &SearchConfig{}
	}
	if config.Interview == nil {
		config.Interview = &InterviewConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}

	return config, nil
}
