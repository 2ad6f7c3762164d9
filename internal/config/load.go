package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "VIRAL"

// defaults lists every key with its default value. Registering each key is
// also what lets viper pick it up from the environment when unmarshalling.
var defaults = map[string]any{
	"server.port":      8080,
	"server.log_level": "info",

	"llm.provider":             ProviderGemini,
	"llm.gemini_api_key":       "",
	"llm.openai_api_key":       "",
	"llm.openai_base_url":      "",
	"llm.model_name":           "",
	"llm.temperature":          0.8,
	"llm.max_retries":          0,
	"llm.retry_delay_seconds":  2,
	"llm.request_timeout":      time.Duration(0),
	"llm.strict_validation":    false,
	"llm.prompt_template_path": "",

	"session.signing_key":    "",
	"session.token_ttl":      24 * time.Hour,
	"session.max_sessions":   1000,
	"session.sweep_schedule": "@every 5m",

	"tasks.worker_count": 2,
	"tasks.queue_size":   100,
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// A .env file in the working directory, if present, is loaded into the
// environment first without overriding variables that are already set.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// A missing .env file is the normal case in production.
	_ = godotenv.Load()

	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every field against its validate tag.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
