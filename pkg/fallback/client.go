package fallback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cognita-hq/tutela/pkg/signals"
)

// Request is the payload sent to the text-generation service.
type Request struct {
	// Prompt is the normalized learner text to classify.
	Prompt string `json:"prompt"`

	// Context lists the categories already detected heuristically, so the
	// model refines rather than restarts the classification.
	Context []signals.Category `json:"context"`
}

// Response is the structured classification expected back from the
// service. Any other shape is treated as a failed call.
type Response struct {
	// Categories are the signal categories the model assigns to the text.
	Categories []signals.Category `json:"categories"`

	// Confidence is the model's confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Client issues a single classification call to the text-generation
// service. Implementations must honor context cancellation.
type Client interface {
	Classify(ctx context.Context, req Request) (*Response, error)
}

// ClientError is returned when the service rejects a request.
type ClientError struct {
	// Endpoint is the service URL.
	Endpoint string

	// StatusCode is the HTTP status returned.
	StatusCode int

	// Message is the response body, truncated.
	Message string
}

// Error returns a human-readable error message.
func (e *ClientError) Error() string {
	return fmt.Sprintf("fallback service %s returned status %d: %s",
		e.Endpoint, e.StatusCode, e.Message)
}

// HTTPClientConfig contains configuration for the HTTP fallback client.
type HTTPClientConfig struct {
	// Endpoint is the classification endpoint URL.
	Endpoint string

	// APIKey, when set, is sent as a bearer token.
	APIKey string

	// Timeout bounds the whole request. Default: 3 seconds.
	Timeout time.Duration

	// MaxIdleConns is the connection pool size. Default: 10.
	MaxIdleConns int
}

// DefaultHTTPClientConfig returns the default client configuration.
func DefaultHTTPClientConfig(endpoint string) *HTTPClientConfig {
	return &HTTPClientConfig{
		Endpoint:     endpoint,
		Timeout:      3 * time.Second,
		MaxIdleConns: 10,
	}
}

// HTTPClient implements Client over HTTP with connection pooling. It
// issues exactly one attempt per call; the gate already degrades on
// failure, so retrying would only extend the suspension point.
type HTTPClient struct {
	config *HTTPClientConfig
	client *http.Client
}

// NewHTTPClient creates an HTTP fallback client.
func NewHTTPClient(config *HTTPClientConfig) *HTTPClient {
	if config.Timeout <= 0 {
		config.Timeout = 3 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:      config.MaxIdleConns,
		IdleConnTimeout:   90 * time.Second,
		ForceAttemptHTTP2: true,
	}
	return &HTTPClient{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

// Classify sends the classification request and decodes the structured
// response.
func (c *HTTPClient) Classify(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ClientError{
			Endpoint:   c.config.Endpoint,
			StatusCode: resp.StatusCode,
			Message:    string(message),
		}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
