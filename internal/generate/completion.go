// Package generate synthesizes recipes from a language-model completion
// endpoint, either freeform from a user prompt or derived from a free
// seed record. It never persists anything; admission into the bounded
// generation pool belongs to the pool package.
package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Completer produces one text completion for a prompt pair.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// CompletionClient calls a chat-completions style endpoint.
type CompletionClient struct {
	http   *resty.Client
	apiURL string
	model  string
}

// NewCompletionClient creates a client for the completion endpoint.
func NewCompletionClient(apiURL, apiKey, model string) *CompletionClient {
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	return &CompletionClient{
		http:   client,
		apiURL: apiURL,
		model:  model,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and returns the raw completion text. No
// structure is enforced by the service side; parsing happens in the
// callers.
func (c *CompletionClient) Complete(ctx context.Context, system, user string) (string, error) {
	reqBody := completionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.9,
	}

	var result completionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&result).
		Post(c.apiURL)
	if err != nil {
		return "", fmt.Errorf("failed to send completion request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("completion API returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(result.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}
	return result.Choices[0].Message.Content, nil
}
