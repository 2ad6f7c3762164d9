package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/viral-scripts/internal/config"
	"github.com/phrazzld/viral-scripts/internal/domain"
	"github.com/phrazzld/viral-scripts/internal/generation"
	"github.com/phrazzld/viral-scripts/internal/redact"
	"google.golang.org/genai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// ModelClient is the part of *genai.Models used by the generator.
type ModelClient interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Option configures a Generator.
type Option func(*Generator)

// WithModelClient replaces the lazily created API client.
func WithModelClient(client ModelClient) Option {
	return func(g *Generator) {
		g.client = client
	}
}

// Generator implements generation.Generator using the Gemini API.
type Generator struct {
	logger  *slog.Logger
	config  config.LLMConfig
	prompts *generation.PromptBuilder
	model   string
	schema  *genai.Schema

	mu     sync.Mutex
	client ModelClient
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator. It never contacts the API.
func NewGenerator(logger *slog.Logger, cfg config.LLMConfig, opts ...Option) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	prompts, err := generation.NewPromptBuilder(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	model := cfg.ModelName
	if model == "" {
		model = DefaultModel
	}

	g := &Generator{
		logger:  logger.With("component", "gemini_generator", "model", model),
		config:  cfg,
		prompts: prompts,
		model:   model,
		schema:  toGenaiSchema(generation.ScriptResponseSchema()),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// GenerateScript requests one script package for lang and topic.
func (g *Generator) GenerateScript(
	ctx context.Context,
	lang domain.Language,
	topic domain.Topic,
) (*domain.ScriptResponse, error) {
	prompt, err := g.prompts.Prompt(lang, topic)
	if err != nil {
		return nil, err
	}

	client, err := g.modelClient(ctx)
	if err != nil {
		return nil, err
	}

	if g.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.RequestTimeout)
		defer cancel()
	}

	policy := generation.RetryPolicy{
		MaxRetries: g.config.MaxRetries,
		BaseDelay:  time.Duration(g.config.RetryDelaySeconds) * time.Second,
	}

	return generation.CallWithRetry(ctx, g.logger, policy,
		func(ctx context.Context, attempt int) (*domain.ScriptResponse, error) {
			return g.call(ctx, client, prompt, attempt)
		})
}

// modelClient returns the API client, creating it on first use.
func (g *Generator) modelClient(ctx context.Context) (ModelClient, error) {
	if g.config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is not set", generation.ErrMissingCredential)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.config.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %s",
			generation.ErrTransportFailure, redact.Error(err))
	}

	g.client = client.Models
	return g.client, nil
}

func (g *Generator) requestConfig() *genai.GenerateContentConfig {
	temperature := g.config.Temperature
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: g.prompts.SystemInstruction()}},
		},
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   g.schema,
	}
}

// call makes a single GenerateContent request and maps the outcome.
func (g *Generator) call(ctx context.Context, client ModelClient, prompt string, attempt int) (*domain.ScriptResponse, error) {
	g.logger.InfoContext(ctx, "making Gemini API call", "attempt", attempt+1)

	resp, err := client.GenerateContent(ctx, g.model, genai.Text(prompt), g.requestConfig())
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini API call error",
			"attempt", attempt+1,
			"error", redact.Error(err))
		return nil, fmt.Errorf("%w: %s", generation.ErrTransportFailure, redact.Error(err))
	}

	text, err := responseText(resp)
	if err != nil {
		g.logger.WarnContext(ctx, "unusable Gemini response", "attempt", attempt+1, "error", err)
		return nil, err
	}

	script, err := generation.ParseScriptResponse(text, g.config.StrictValidation)
	if err != nil {
		g.logger.WarnContext(ctx, "failed to parse Gemini response",
			"attempt", attempt+1,
			"response_length", len(text),
			"error", err)
		return nil, err
	}

	g.logger.InfoContext(ctx, "Gemini API call successful",
		"attempt", attempt+1,
		"image_prompts", len(script.ImagePrompts),
		"headlines", len(script.Headlines))
	return script, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: no candidates", generation.ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: finish reason %s", generation.ErrContentBlocked, candidate.FinishReason)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: candidate has no content", generation.ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text in response", generation.ErrEmptyResponse)
	}
	return text, nil
}
