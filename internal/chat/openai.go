// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chat

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/pdiddy/idea-engine/internal/httputil"
	"github.com/pdiddy/idea-engine/pkg/types"
)

var log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Str("component", "chat").Logger()

const defaultTimeout = 120 * time.Second

// Client calls an OpenAI-compatible chat completion API. A non-empty
// BaseURL in the config points it at alternative providers (OpenRouter,
// local inference servers) that speak the same protocol.
type Client struct {
	api          *openai.Client
	defaultModel string
}

// NewClient builds a Client from the shared AI configuration. The
// underlying HTTP client retries 429 responses with exponential backoff;
// every other failure mode surfaces as a *TransportError from Complete.
func NewClient(cfg types.AIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("chat: API key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: &httputil.RetryTransport{},
	}

	return &Client{
		api:          openai.NewClientWithConfig(apiCfg),
		defaultModel: cfg.Model,
	}, nil
}

// Complete sends one chat turn and returns the content of the first
// response choice. An empty model falls back to the configured default.
func (c *Client) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	if model == "" {
		model = c.defaultModel
	}

	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("model", model).Msg("chat completion failed")
		return "", &TransportError{Op: "chat completion", Err: err}
	}

	if len(resp.Choices) == 0 {
		log.Error().Str("model", model).Msg("chat completion returned no choices")
		return "", &TransportError{Op: "chat completion", Err: errors.New("response contained no choices")}
	}

	content := resp.Choices[0].Message.Content
	log.Debug().Str("model", model).Int("response_chars", len(content)).Msg("chat completion succeeded")
	return content, nil
}
