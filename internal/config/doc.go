// Package config handles configuration loading, parsing, and validation
// from various sources (.env file, config.yaml, environment variables). It
// provides type-safe access to application settings needed by different
// components while keeping configuration details separate from business logic.
//
// Every key can be set through an environment variable named after the key
// with the VIRAL_ prefix, e.g. llm.gemini_api_key → VIRAL_LLM_GEMINI_API_KEY.
package config
