package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/samvaad-ai/samvaad/internal/domain"
	"github.com/samvaad-ai/samvaad/internal/metrics"
)

// Compile-time check: Generator implements domain.Generator.
var _ domain.Generator = (*Generator)(nil)

// Generator produces chat replies through the OpenAI-compatible
// completions API.
type Generator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// GeneratorConfig holds the chat completion provider settings.
type GeneratorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      *zap.Logger
}

// NewGenerator creates an OpenAI-compatible chat completion provider.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// Generate implements domain.Generator. The system prompt goes first,
// followed by the dialogue history; the final history element is expected
// to be the current user message.
func (g *Generator) Generate(ctx context.Context, systemPrompt string, history []domain.ChatTurn) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == domain.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:            g.model,
		Messages:         msgs,
		Temperature:      g.temperature,
		MaxTokens:        g.maxTokens,
		PresencePenalty:  0.1,
		FrequencyPenalty: 0.1,
	})

	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "error").Inc()
		return "", parseGenerateError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrGenerationProviderError)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(g.model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.GenerationTokensTotal.WithLabelValues(g.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.GenerationTokensTotal.WithLabelValues(g.model, "completion").Add(float64(resp.Usage.CompletionTokens))
		metrics.GenerationTokensTotal.WithLabelValues(g.model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// parseGenerateError wraps API failures with domain.ErrGenerationProviderError
// so the orchestrator takes the composed-reply path.
func parseGenerateError(err error) error {
	wrap := domain.ErrGenerationProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %w", wrap)
}
