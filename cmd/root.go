package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/actnova/resume-referee/internal/ai"
	"github.com/actnova/resume-referee/internal/ai/gemini"
	"github.com/actnova/resume-referee/internal/ai/openai"
	"github.com/actnova/resume-referee/internal/logger"
	"github.com/actnova/resume-referee/internal/secrets"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "resume-referee"

	providerOpenAI = "openai"
	providerGemini = "gemini"
)

type Config struct {
	ArchiveRoot string    `mapstructure:"archive-root"`
	Positions   []string  `mapstructure:"positions"`
	RecentLimit int       `mapstructure:"recent-limit"`
	AI          *AIConfig `mapstructure:"ai"`
}

type AIConfig struct {
	Provider     string        `mapstructure:"provider"`
	Model        string        `mapstructure:"model"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	OpenAI       *OpenAIConfig `mapstructure:"openai"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-referee reviews archived resumes with an LLM and compares them against recent submissions for the same position",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Secrets may live in a local .env file, the way the hosted setup ships
	// them. Missing file is fine.
	_ = godotenv.Load()

	for key, env := range map[string]string{
		"ai.openai.api-key":      "OPENAI_API_KEY",
		"ai.openai.api-key-file": "OPENAI_API_KEY_FILE",
		"ai.gemini.api-key":      "GEMINI_API_KEY",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-referee.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for the review and compare commands. If there is
	// no config, we can skip initialization.
	if reviewCmd.CalledAs() == "" && compareCmd.CalledAs() == "" {
		return
	}

	viper.SetDefault("archive-root", "database")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

// newGenerator builds the configured LLM provider client.
func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Generator, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		provider = providerOpenAI
	}

	genLogger := logger.WithCommonFields(log, provider, cfg.Model)

	switch provider {
	case providerOpenAI:
		var src secrets.Source
		src.Name = "openai api key"
		if cfg.OpenAI != nil {
			src.Value = cfg.OpenAI.APIKey
			src.File = cfg.OpenAI.APIKeyFile
		}

		apiKey, err := secrets.Load(src)
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY)", err)
		}

		return openai.NewClient(apiKey, cfg.Model, cfg.MaxLogLength, genLogger)
	case providerGemini:
		var src secrets.Source
		src.Name = "gemini api key"
		if cfg.Gemini != nil {
			src.Value = cfg.Gemini.APIKey
			src.File = cfg.Gemini.APIKeyFile
		}

		apiKey, err := secrets.Load(src)
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		return gemini.NewClient(ctx, apiKey, cfg.Model, cfg.MaxLogLength, genLogger)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func maxLogLength(config *Config) int {
	if config != nil && config.AI != nil {
		return config.AI.MaxLogLength
	}
	return 0
}
