// Package analysis provides AI-powered text analysis and practice evaluation.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/yalin/transinvert/backend/internal/errors"
	"github.com/yalin/transinvert/backend/internal/config"
)

// ChatClient sends one system+user exchange to a chat model and returns the
// assistant's reply.
type ChatClient interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint. DeepSeek,
// Volcano Ark and OpenAI all share this wire format.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a Client from configuration.
// Returns an AI_NOT_CONFIGURED error when no API key is set.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.AIAPIKey == "" {
		return nil, apperrors.New(apperrors.ErrAINotConfigured,
			fmt.Sprintf("no API key configured for provider %s", cfg.AIProvider))
	}
	return &Client{
		baseURL: cfg.AIBaseURL,
		apiKey:  cfg.AIAPIKey,
		model:   cfg.AIModel,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.AITimeoutSec) * time.Second,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Chat implements ChatClient against the configured provider.
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.3,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAIFailed, "chat request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAIFailed, "failed to read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.New(apperrors.ErrAIFailed,
			fmt.Sprintf("provider returned status %d: %s", resp.StatusCode, truncateBody(data)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", apperrors.Wrap(apperrors.ErrAIBadResponse, "unparseable provider response", err)
	}
	if parsed.Error != nil {
		return "", apperrors.New(apperrors.ErrAIFailed, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", apperrors.New(apperrors.ErrAIBadResponse, "provider returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncateBody(data []byte) string {
	const max = 200
	if len(data) <= max {
		return string(data)
	}
	return string(data[:max]) + "..."
}
