package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/viral-scripts/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
// Returns the loaded config and any loading error.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"llm_provider", cfg.LLM.Provider)

	// Presence only; the values never reach the logs.
	slog.Debug("LLM credentials",
		"gemini_key_present", cfg.LLM.GeminiAPIKey != "",
		"openai_key_present", cfg.LLM.OpenAIAPIKey != "")

	return cfg, nil
}
