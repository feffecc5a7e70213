package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"EdTechDigest/internal/config"
	"EdTechDigest/internal/ports"
)

var (
	// ErrEmptyCompletion means the model answered without any text block.
	ErrEmptyCompletion = errors.New("model returned no text")
	// ErrUnauthorized wraps 401/403 answers so the operator sees a credential problem.
	ErrUnauthorized = errors.New("model API rejected the credentials")
)

// AnthropicClient implements ports.TextModel backed by the Messages API.
type AnthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

var _ ports.TextModel = (*AnthropicClient)(nil)

// NewAnthropicClient builds a client from configuration. The SDK's own retries
// are disabled: a failed call is fatal for the run.
func NewAnthropicClient(cfg config.AnthropicConfig, httpClient *http.Client) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey.Reveal()),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")+"/"))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &AnthropicClient{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// Complete sends one user message and concatenates the text blocks of the answer.
func (c *AnthropicClient) Complete(ctx context.Context, req ports.Completion) (string, error) {
	if c == nil {
		return "", fmt.Errorf("anthropic client is nil")
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if system := strings.TrimSpace(req.System); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", describeError(err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", ErrEmptyCompletion
	}
	return out, nil
}

func describeError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w (status %d): %w", ErrUnauthorized, apiErr.StatusCode, err)
		}
		return fmt.Errorf("anthropic status %d: %w", apiErr.StatusCode, err)
	}
	return fmt.Errorf("anthropic request: %w", err)
}
