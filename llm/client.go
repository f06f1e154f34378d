// Package llm provides a chat completions HTTP client with bounded retry
// and transient/fatal failure classification. A request is attempted up to
// RetryConfig.MaxAttempts times with linearly growing backoff; fatal
// failures stop the operation immediately.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jessrhiannon/kudos/metrics"
)

// maxResponseSize limits the response body read to prevent memory exhaustion.
const maxResponseSize = 1 * 1024 * 1024 // 1MB

// DefaultEndpoint is the OpenAI API base URL.
const DefaultEndpoint = "https://api.openai.com/v1"

// defaultTimeout bounds a single network attempt.
const defaultTimeout = 20 * time.Second

// Credentials holds API authentication settings. The client never reads the
// environment itself; callers resolve credentials through configuration.
type Credentials struct {
	// APIKey is sent as a bearer token.
	APIKey string

	// OrgID is sent in the OpenAI-Organization header when set.
	OrgID string
}

// Present reports whether the credentials are usable for API calls.
func (c Credentials) Present() bool {
	return c.APIKey != ""
}

// SleepFunc waits for the given duration or until the context is canceled.
// Injectable so tests can replace real time.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`    // "system", "user", or "assistant"
	Content string `json:"content"` // Message content
}

// Request defines a completion request.
type Request struct {
	// Model is the model identifier sent on the wire.
	Model string

	// Messages is the chat history to send.
	Messages []Message

	// Temperature controls randomness. nil uses the endpoint default.
	Temperature *float64

	// TopP is the nucleus sampling probability. nil uses the endpoint default.
	TopP *float64

	// MaxTokens limits response length. 0 uses the endpoint default.
	MaxTokens int
}

// TokenUsage represents token consumption details for a completion call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response contains the completion result.
type Response struct {
	// RequestID uniquely identifies this logical call for log correlation.
	// Set by Complete().
	RequestID string

	// Content is the generated text, trimmed of surrounding whitespace.
	Content string

	// Model is the model the endpoint reports having used.
	Model string

	// Usage contains token consumption metrics.
	Usage TokenUsage

	// FinishReason indicates why generation stopped.
	FinishReason string

	// Attempts is the number of transport attempts the call consumed.
	Attempts int
}

// Client is a chat completions client with retry support.
type Client struct {
	endpoint   string
	creds      Credentials
	httpClient *http.Client
	retry      RetryConfig
	sleep      SleepFunc
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(client *Client) {
		client.retry = cfg
	}
}

// WithSleep sets the wait function used between attempts.
func WithSleep(sleep SleepFunc) ClientOption {
	return func(client *Client) {
		client.sleep = sleep
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = logger
	}
}

// NewClient creates a completion client for the given endpoint.
// An empty endpoint selects the OpenAI API.
func NewClient(endpoint string, creds Credentials, opts ...ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := &Client{
		endpoint: endpoint,
		creds:    creds,
		retry:    DefaultRetryConfig(),
		sleep:    sleepContext,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// An unusable retry policy is corrected rather than propagated: the
	// client has no error return and must still make at least one attempt.
	if err := c.retry.Validate(); err != nil {
		c.logger.Warn("Invalid retry config, correcting", "error", err)
		if c.retry.MaxAttempts < 1 {
			c.retry.MaxAttempts = 1
		}
		if c.retry.BaseDelay < 0 {
			c.retry.BaseDelay = 0
		}
	}

	return c
}

// Complete sends a completion request, retrying transient failures up to the
// configured attempt limit. The request body is built once and resent
// verbatim on every attempt. Attempts are strictly sequential: attempt k+1
// never begins before attempt k's outcome is known and the full backoff
// delay has elapsed.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, NewFatalError(fmt.Errorf("at least one message is required"))
	}

	requestID := uuid.New().String()

	body, err := buildRequestBody(req)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("build request body: %w", err))
	}

	url := completionsURL(c.endpoint)

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		resp, err := c.doRequest(ctx, url, body)
		if err == nil {
			metrics.AttemptsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
			resp.RequestID = requestID
			resp.Attempts = attempt
			return resp, nil
		}

		lastErr = err

		// Fatal errors cannot self-resolve; stop immediately.
		if IsFatal(err) {
			metrics.AttemptsTotal.WithLabelValues(metrics.OutcomeFatal).Inc()
			c.logger.Warn("Completion request failed, not retrying",
				"request_id", requestID,
				"attempt", attempt,
				"status", HTTPStatus(err),
				"error", err)
			return nil, err
		}

		metrics.AttemptsTotal.WithLabelValues(metrics.OutcomeTransient).Inc()

		if attempt < c.retry.MaxAttempts {
			backoff := c.retry.Backoff(attempt)
			c.logger.Debug("Completion request failed, retrying",
				"request_id", requestID,
				"attempt", attempt,
				"max_attempts", c.retry.MaxAttempts,
				"backoff", backoff,
				"error", err)

			if err := c.sleep(ctx, backoff); err != nil {
				return nil, err
			}
		}
	}

	c.logger.Warn("Completion attempts exhausted",
		"request_id", requestID,
		"attempts", c.retry.MaxAttempts,
		"error", lastErr)

	return nil, lastErr
}

// doRequest executes a single HTTP attempt.
func (c *Client) doRequest(ctx context.Context, url string, body []byte) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("create HTTP request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.creds.APIKey)
	if c.creds.OrgID != "" {
		httpReq.Header.Set("OpenAI-Organization", c.creds.OrgID)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Connection, DNS and timeout failures are transient.
		return nil, NewTransientError(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("read response body: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(httpResp.StatusCode, respBody)
	}

	return parseResponse(respBody)
}

// classifyHTTPError determines if an HTTP error status is transient or fatal.
func classifyHTTPError(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("completion API error (status %d): %s", statusCode, bodyStr)

	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		// Rate limiting and server-side faults are transient.
		return &TransientError{err: err, status: statusCode}
	default:
		// Client errors (auth, bad request) will not self-resolve on retry.
		return &FatalError{err: err, status: statusCode}
	}
}
