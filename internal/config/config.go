package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm" validate:"required"`
	Session SessionConfig `mapstructure:"session" validate:"required"`
	Tasks   TasksConfig   `mapstructure:"tasks" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Supported LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// LLMConfig contains all LLM integration related settings.
//
// API keys are deliberately optional here: a missing key is reported when a
// generation is attempted, not at startup.
type LLMConfig struct {
	Provider      string `mapstructure:"provider" validate:"required,oneof=gemini openai"`
	GeminiAPIKey  string `mapstructure:"gemini_api_key"`
	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	OpenAIBaseURL string `mapstructure:"openai_base_url" validate:"omitempty,url"`

	// ModelName overrides the provider's default model.
	ModelName string `mapstructure:"model_name"`

	Temperature float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`

	// MaxRetries is the number of extra attempts made after a transport failure.
	// Zero means a single call per generation.
	MaxRetries        int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`

	// RequestTimeout bounds one generation; zero means no local timeout.
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=0"`

	// StrictValidation rejects responses that break the content rules
	// (prompt and headline counts, empty fields).
	StrictValidation bool `mapstructure:"strict_validation"`

	// PromptTemplatePath replaces the built-in prompt template when set.
	PromptTemplatePath string `mapstructure:"prompt_template_path" validate:"omitempty,file"`
}

// SessionConfig contains wizard session settings.
type SessionConfig struct {
	SigningKey  string        `mapstructure:"signing_key" validate:"required,min=32"`
	TokenTTL    time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
	MaxSessions int           `mapstructure:"max_sessions" validate:"gt=0"`

	// SweepSchedule is the cron spec for removing expired sessions.
	SweepSchedule string `mapstructure:"sweep_schedule" validate:"required"`
}

// TasksConfig contains background generation settings.
type TasksConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"gt=0"`
}
