// Package llm implements ports.CarePlanGenerator on the Anthropic Messages API.
package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 4096
	DefaultTimeout   = 2 * time.Minute
)

var (
	ErrAPIKeyRequired = errors.New("ANTHROPIC_API_KEY is required to generate care plans")
	ErrEmptyCarePlan  = errors.New("language model returned no text")
)

type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
	Timeout   time.Duration
	// BaseURL overrides the API endpoint; empty means the SDK default.
	BaseURL string
}

// AnthropicGenerator sends one system prompt and one user message per call.
type AnthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	apiKeySet bool
	logger    *slog.Logger
}

func NewAnthropicGenerator(cfg Config, logger *slog.Logger) *AnthropicGenerator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicGenerator{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		apiKeySet: strings.TrimSpace(cfg.APIKey) != "",
		logger:    logger.With("component", "anthropic"),
	}
}

func (g *AnthropicGenerator) Generate(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if !g.apiKeySet {
		return "", ErrAPIKeyRequired
	}

	started := time.Now()
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
		},
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	g.logger.InfoContext(ctx, "Care plan generated",
		"model", g.model,
		"input_tokens", msg.Usage.InputTokens,
		"output_tokens", msg.Usage.OutputTokens,
		"duration", time.Since(started),
	)

	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCarePlan
	}
	return text, nil
}
