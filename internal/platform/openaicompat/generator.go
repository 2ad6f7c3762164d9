package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/phrazzld/viral-scripts/internal/config"
	"github.com/phrazzld/viral-scripts/internal/domain"
	"github.com/phrazzld/viral-scripts/internal/generation"
	"github.com/phrazzld/viral-scripts/internal/redact"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gpt-4o-mini"

const schemaName = "viral_script_package"

// CompletionClient is the part of openai.ChatCompletionService used here.
type CompletionClient interface {
	New(
		ctx context.Context,
		body openai.ChatCompletionNewParams,
		opts ...option.RequestOption,
	) (*openai.ChatCompletion, error)
}

// Option configures a Generator.
type Option func(*Generator)

// WithCompletionClient replaces the lazily created API client.
func WithCompletionClient(client CompletionClient) Option {
	return func(g *Generator) {
		g.client = client
	}
}

// Generator implements generation.Generator with chat completions.
type Generator struct {
	logger  *slog.Logger
	config  config.LLMConfig
	prompts *generation.PromptBuilder
	model   string
	schema  map[string]any

	mu     sync.Mutex
	client CompletionClient
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
		logger:  logger.With("component", "openai_generator", "model", model),
		config:  cfg,
		prompts: prompts,
		model:   model,
		schema:  generation.ScriptResponseSchema().JSONSchema(true),
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

	client, err := g.completionClient()
	if err != nil {
		return nil, err
	}

	if g.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.RequestTimeout)
		defer cancel()
	}

	params := g.params(prompt)
	policy := generation.RetryPolicy{
		MaxRetries: g.config.MaxRetries,
		BaseDelay:  time.Duration(g.config.RetryDelaySeconds) * time.Second,
	}

	return generation.CallWithRetry(ctx, g.logger, policy,
		func(ctx context.Context, attempt int) (*domain.ScriptResponse, error) {
			return g.call(ctx, client, params, attempt)
		})
}

func (g *Generator) completionClient() (CompletionClient, error) {
	if g.config.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai API key is not set", generation.ErrMissingCredential)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		// The SDK retries on its own by default; retries are governed by llm.max_retries instead.
		opts := []option.RequestOption{
			option.WithAPIKey(g.config.OpenAIAPIKey),
			option.WithMaxRetries(0),
		}
		if g.config.OpenAIBaseURL != "" {
			opts = append(opts, option.WithBaseURL(g.config.OpenAIBaseURL))
		}
		client := openai.NewClient(opts...)
		g.client = &client.Chat.Completions
	}
	return g.client, nil
}

func (g *Generator) params(prompt string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(g.prompts.SystemInstruction()),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(float64(g.config.Temperature)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Schema: g.schema,
					Strict: openai.Bool(true),
				},
			},
		},
	}
}

func (g *Generator) call(
	ctx context.Context,
	client CompletionClient,
	params openai.ChatCompletionNewParams,
	attempt int,
) (*domain.ScriptResponse, error) {
	g.logger.InfoContext(ctx, "making chat completion call", "attempt", attempt+1)

	resp, err := client.New(ctx, params)
	if err != nil {
		g.logger.ErrorContext(ctx, "chat completion call error",
			"attempt", attempt+1,
			"error", redact.Error(err))
		return nil, fmt.Errorf("%w: %s", generation.ErrTransportFailure, redact.Error(err))
	}

	text, err := responseText(resp)
	if err != nil {
		g.logger.WarnContext(ctx, "unusable chat completion", "attempt", attempt+1, "error", err)
		return nil, err
	}

	script, err := generation.ParseScriptResponse(text, g.config.StrictValidation)
	if err != nil {
		g.logger.WarnContext(ctx, "failed to parse chat completion",
			"attempt", attempt+1,
			"response_length", len(text),
			"error", err)
		return nil, err
	}

	g.logger.InfoContext(ctx, "chat completion call successful", "attempt", attempt+1)
	return script, nil
}

func responseText(resp *openai.ChatCompletion) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", generation.ErrEmptyResponse)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", fmt.Errorf("%w: finish reason %s", generation.ErrContentBlocked, choice.FinishReason)
	}
	if choice.Message.Refusal != "" {
		return "", fmt.Errorf("%w: model refused: %s", generation.ErrContentBlocked, choice.Message.Refusal)
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", fmt.Errorf("%w: no content in response", generation.ErrEmptyResponse)
	}
	return choice.Message.Content, nil
}
