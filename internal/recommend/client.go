// Package recommend turns an audit brief into prioritized recommendations
// through the Anthropic Messages API.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 2000

	defaultTimeout = 90 * time.Second
)

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("recommendations are not configured")

// Generator produces recommendation text for an audit brief.
type Generator interface {
	Recommend(ctx context.Context, brief string) (string, error)
}

// Config holds the Anthropic client settings.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	BaseURL   string
	Timeout   time.Duration
}

// Client calls the Messages API. It never retries.
type Client struct {
	api    anthropic.Client
	cfg    Config
	logger *zap.Logger
}

// New creates a Client. A nil http client gets one with the default timeout.
func New(httpClient *http.Client, cfg Config, logger *zap.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	api := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &Client{api: api, cfg: cfg, logger: logger}
}

// Recommend sends the brief wrapped in Prompt and returns the text blocks of the reply unmodified.
func (c *Client) Recommend(ctx context.Context, brief string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}

	message, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: int64(c.cfg.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(Prompt(brief))),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("messages request: status %d: %w", apiErr.StatusCode, err)
		}

		return "", fmt.Errorf("messages request: %w", err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return "", errors.New("messages response has no text")
	}

	c.logger.Debug("recommendations generated", zap.String("model", c.cfg.Model), zap.Int("chars", text.Len()))

	return text.String(), nil
}
