package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	defaultEndpoint  = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
	callTimeout      = 30 * time.Second
)

// UsageRecorder receives token usage after every completed call, success or
// failure. The Governor implements it as the single ledger writer.
type UsageRecorder interface {
	RecordUsage(inputTokens, outputTokens int)
}

// Client issues one analysis call per Analyze invocation against the
// Anthropic Messages API. It owns authentication, the per-call timeout and
// usage reporting; response validation is the parser's job.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	recorder   UsageRecorder
	logger     *slog.Logger
}

// Response is the raw model output plus reported token usage.
type Response struct {
	Text  string
	Usage Usage
}

// Usage is the endpoint-reported token consumption of one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient constructs the analysis client. The recorder may be nil when no
// ledger accounting is wanted (tests).
func NewClient(apiKey, model string, recorder UsageRecorder, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: callTimeout},
		recorder:   recorder,
		logger:     logger,
	}
}

// Analyze issues one network call for the request. Failures are classified:
// auth/config and malformed-request problems come back as *FatalError,
// timeouts, 5xx responses and rate-limit signals as *TransientError.
func (c *Client) Analyze(ctx context.Context, req Request) (*Response, error) {
	if c.apiKey == "" {
		return nil, &FatalError{Op: "analyze " + req.Subject, Err: errors.New("ANTHROPIC_API_KEY not set")}
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: req.MaxTokens,
		System:    req.System,
		Messages:  []message{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return nil, &FatalError{Op: "marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &FatalError{Op: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.report(Usage{})
		return nil, classifyNetworkError("analyze "+req.Subject, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.report(Usage{})
		return nil, &TransientError{Op: "read response", Err: err}
	}

	var parsed messagesResponse
	// error bodies are JSON too; usage is reported if the endpoint sent it
	_ = json.Unmarshal(raw, &parsed)
	usage := Usage{InputTokens: parsed.Usage.InputTokens, OutputTokens: parsed.Usage.OutputTokens}
	c.report(usage)

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus("analyze "+req.Subject, resp.StatusCode, &parsed)
	}
	if len(parsed.Content) == 0 {
		return nil, &TransientError{Op: "analyze " + req.Subject, Err: errors.New("empty response content")}
	}

	c.logger.Debug("analysis call completed",
		slog.String("subject", req.Subject),
		slog.String("mode", string(req.Mode)),
		slog.Int("input_tokens", usage.InputTokens),
		slog.Int("output_tokens", usage.OutputTokens),
		slog.Duration("duration", time.Since(started)))

	return &Response{Text: parsed.Content[0].Text, Usage: usage}, nil
}

func (c *Client) report(u Usage) {
	if c.recorder != nil {
		c.recorder.RecordUsage(u.InputTokens, u.OutputTokens)
	}
}

func classifyNetworkError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Op: op, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransientError{Op: op, Err: err}
	}
	// connection resets, refused connections and client timeouts
	return &TransientError{Op: op, Err: err}
}

func classifyStatus(op string, status int, parsed *messagesResponse) error {
	detail := fmt.Sprintf("status %d", status)
	if parsed.Error != nil {
		detail = fmt.Sprintf("status %d: %s (%s)", status, parsed.Error.Message, parsed.Error.Type)
	}
	err := errors.New(detail)
	switch {
	case status == http.StatusTooManyRequests || status >= 500 || status == http.StatusRequestTimeout:
		return &TransientError{Op: op, Err: err}
	default:
		// 400/401/403 and friends: the request itself is wrong
		return &FatalError{Op: op, Err: err}
	}
}

// WithEndpoint overrides the API endpoint. Used by tests against a local
// fake server.
func (c *Client) WithEndpoint(url string) *Client {
	c.endpoint = url
	return c
}
