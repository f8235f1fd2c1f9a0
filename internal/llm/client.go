// Package llm implements the three-stage generation pipeline
// (summary → hypothesis chain → letter draft) over a chat-completions
// transport, including the strict-output parsing and repair each stage needs.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the chat-completions endpoint of the generation service.
	DefaultBaseURL = "https://api.groq.com/openai/v1/chat/completions"
	// DefaultModel is the fixed default model identifier.
	DefaultModel = "llama-3.3-70b-versatile"
	// DefaultMaxTokens bounds the output length of one call.
	DefaultMaxTokens = 2048
	// DefaultTemperature is deliberately low: reproducible structured output
	// matters more than creative phrasing.
	DefaultTemperature = 0.3
)

// Message is one chat message sent to the generation service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is the transport all three pipeline stages share.
type Client interface {
	// Complete sends one chat-completions request and returns the trimmed
	// generated text.
	Complete(ctx context.Context, messages []Message) (string, error)
}

// TransportError is a failed call to the generation service. StatusCode is
// zero when the request never produced an HTTP response.
type TransportError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generation service error: status %d: %s", e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("generation service error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("generation service error: %s", e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// GroqClient implements Client against an OpenAI-compatible chat-completions
// endpoint with a bearer credential.
type GroqClient struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// ClientOption configures a GroqClient.
type ClientOption func(*GroqClient)

// WithBaseURL overrides the endpoint (used by tests).
func WithBaseURL(u string) ClientOption {
	return func(c *GroqClient) { c.baseURL = u }
}

// WithModel overrides the default model identifier.
func WithModel(model string) ClientOption {
	return func(c *GroqClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *GroqClient) { c.httpClient = hc }
}

// NewGroqClient builds a transport client. The API key is required.
func NewGroqClient(apiKey string, opts ...ClientOption) (*GroqClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	c := &GroqClient{
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		model:       DefaultModel,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete implements Client. A non-2xx response or a response without
// message content is a TransportError carrying the status.
func (c *GroqClient) Complete(ctx context.Context, messages []Message) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", &TransportError{Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", &TransportError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &TransportError{StatusCode: resp.StatusCode, Message: "failed to decode response", Cause: err}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == nil {
		return "", &TransportError{StatusCode: resp.StatusCode, Message: "response contained no content"}
	}

	return strings.TrimSpace(*parsed.Choices[0].Message.Content), nil
}
