package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration shared by the batch commands.
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator"`
	Judge     JudgeConfig     `mapstructure:"judge"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Pacing    PacingConfig    `mapstructure:"pacing"`
	Data      DataConfig      `mapstructure:"data"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// GeneratorConfig points at the local inference server.
type GeneratorConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Model          string        `mapstructure:"model"`
	FinetunedModel string        `mapstructure:"finetuned_model"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// JudgeConfig selects and configures the hosted judge.
type JudgeConfig struct {
	Provider         string        `mapstructure:"provider"`
	FallbackProvider string        `mapstructure:"fallback_provider"`
	APIKey           string        `mapstructure:"api_key"`
	Model            string        `mapstructure:"model"`
	SeedModel        string        `mapstructure:"seed_model"`
	BaseURL          string        `mapstructure:"base_url"`
	Temperature      float64       `mapstructure:"temperature"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// OpenAIConfig configures the OpenAI-compatible judge provider.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// PacingConfig holds the fixed delays between outbound calls.
type PacingConfig struct {
	GenerateDelay time.Duration `mapstructure:"generate_delay"`
	EvaluateDelay time.Duration `mapstructure:"evaluate_delay"`
	EdgeCaseDelay time.Duration `mapstructure:"edge_case_delay"`
}

// DataConfig names the dataset files, relative to Dir unless absolute.
type DataConfig struct {
	Dir                string `mapstructure:"dir"`
	BaseDataset        string `mapstructure:"base_dataset"`
	FinetunedDataset   string `mapstructure:"finetuned_dataset"`
	GuardrailedDataset string `mapstructure:"guardrailed_dataset"`
	SeedDataset        string `mapstructure:"seed_dataset"`
	SeedRaw            string `mapstructure:"seed_raw"`
	TrainingSet        string `mapstructure:"training_set"`
	EvaluatedDataset   string `mapstructure:"evaluated_dataset"`
	EvaluatedFinetuned string `mapstructure:"evaluated_finetuned"`
	EdgeCasesRaw       string `mapstructure:"edge_cases_raw"`
	EdgeCasesEvaluated string `mapstructure:"edge_cases_evaluated"`
}

// CacheConfig enables the SQLite verdict cache when Path is set.
type CacheConfig struct {
	Path string `mapstructure:"path"`
}

// MetricsConfig enables the prometheus textfile when Textfile is set.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// LogConfig controls logrus output.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Load reads .env, an optional config.yaml and DOMAINGEN_* environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using process environment")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("DOMAINGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// bindEnv maps the conventional credential variables onto config keys.
// The prefixed DOMAINGEN_* names still win because they are listed first.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"judge.api_key":   {"DOMAINGEN_JUDGE_API_KEY", "GEMINI_API_KEY"},
		"openai.api_key":  {"DOMAINGEN_OPENAI_API_KEY", "OPENAI_API_KEY"},
		"openai.base_url": {"DOMAINGEN_OPENAI_BASE_URL", "OPENAI_BASE_URL"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("generator.base_url", "http://localhost:11434")
	v.SetDefault("generator.model", "llama3.2:latest")
	v.SetDefault("generator.finetuned_model", "llama3.2-finetuned:latest")
	v.SetDefault("generator.timeout", "300s")

	v.SetDefault("judge.provider", ProviderGemini)
	v.SetDefault("judge.fallback_provider", "")
	v.SetDefault("judge.model", "gemini-2.5-flash-lite")
	v.SetDefault("judge.seed_model", "gemini-1.5-flash")
	v.SetDefault("judge.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("judge.temperature", 0.0)
	v.SetDefault("judge.timeout", "60s")

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "")

	v.SetDefault("pacing.generate_delay", "1s")
	v.SetDefault("pacing.evaluate_delay", "5s")
	v.SetDefault("pacing.edge_case_delay", "4s")

	v.SetDefault("data.dir", "data")
	v.SetDefault("data.base_dataset", "synthetic_domain_dataset.json")
	v.SetDefault("data.finetuned_dataset", "synthetic_domain_dataset_finetuned.json")
	v.SetDefault("data.guardrailed_dataset", "synthetic_domain_dataset_finetuned_with_guardrails.json")
	v.SetDefault("data.seed_dataset", "finetune_data.json")
	v.SetDefault("data.seed_raw", "raw_finetune_response.txt")
	v.SetDefault("data.training_set", "train_data.jsonl")
	v.SetDefault("data.evaluated_dataset", "evaluated_dataset_gemini.json")
	v.SetDefault("data.evaluated_finetuned", "evaluated_finetuned_dataset_gemini.json")
	v.SetDefault("data.edge_cases_raw", "edge_cases_raw.json")
	v.SetDefault("data.edge_cases_evaluated", "edge_cases_evaluated.json")

	v.SetDefault("cache.path", "")
	v.SetDefault("metrics.textfile", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

func validate(cfg *Config) error {
	cfg.Judge.Provider = strings.ToLower(strings.TrimSpace(cfg.Judge.Provider))
	cfg.Judge.FallbackProvider = strings.ToLower(strings.TrimSpace(cfg.Judge.FallbackProvider))

	switch cfg.Judge.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("judge provider must be %q or %q, got: %q", ProviderGemini, ProviderOpenAI, cfg.Judge.Provider)
	}
	switch cfg.Judge.FallbackProvider {
	case "", ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("judge fallback provider must be empty, %q or %q, got: %q", ProviderGemini, ProviderOpenAI, cfg.Judge.FallbackProvider)
	}
	if cfg.Judge.FallbackProvider == cfg.Judge.Provider {
		cfg.Judge.FallbackProvider = ""
	}

	if cfg.Pacing.GenerateDelay < 0 || cfg.Pacing.EvaluateDelay < 0 || cfg.Pacing.EdgeCaseDelay < 0 {
		return errors.New("pacing delays must not be negative")
	}
	if strings.TrimSpace(cfg.Generator.Model) == "" {
		return errors.New("generator model is required")
	}
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Path resolves a data file name against the data directory.
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Data.Dir, name)
}

// ConfigureLogging applies the log section to the global logrus logger.
func (c *Config) ConfigureLogging() {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if c.Log.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
