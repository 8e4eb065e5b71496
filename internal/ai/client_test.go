package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phrecap/internal/domain"
)

type recordedUsage struct {
	calls  int
	input  int
	output int
}

func (r *recordedUsage) RecordUsage(inputTokens, outputTokens int) {
	r.calls++
	r.input += inputTokens
	r.output += outputTokens
}

func fakeMessagesServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Model)
		assert.NotEmpty(t, req.Messages)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Analyze(t *testing.T) {
	req := NewProductRequest(domain.Product{Name: "Widget", Tagline: "Does things"}, domain.ModeQuick)

	t.Run("success records usage and returns text", func(t *testing.T) {
		srv := fakeMessagesServer(t, http.StatusOK,
			`{"content":[{"type":"text","text":"{\"category\":\"AI\"}"}],"stop_reason":"end_turn","usage":{"input_tokens":120,"output_tokens":45}}`)
		recorder := &recordedUsage{}
		client := NewClient("test-key", "claude-3-haiku-20240307", recorder, nil).WithEndpoint(srv.URL)

		resp, err := client.Analyze(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, `{"category":"AI"}`, resp.Text)
		assert.Equal(t, 120, resp.Usage.InputTokens)
		assert.Equal(t, 45, resp.Usage.OutputTokens)
		assert.Equal(t, 165, resp.Usage.Total())

		assert.Equal(t, 1, recorder.calls)
		assert.Equal(t, 120, recorder.input)
		assert.Equal(t, 45, recorder.output)
	})

	t.Run("missing api key is fatal without a network call", func(t *testing.T) {
		recorder := &recordedUsage{}
		client := NewClient("", "claude-3-haiku-20240307", recorder, nil)

		_, err := client.Analyze(context.Background(), req)
		require.Error(t, err)
		assert.True(t, IsFatal(err))
		assert.Zero(t, recorder.calls)
	})

	t.Run("401 is fatal", func(t *testing.T) {
		srv := fakeMessagesServer(t, http.StatusUnauthorized,
			`{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
		client := NewClient("bad-key", "claude-3-haiku-20240307", &recordedUsage{}, nil).WithEndpoint(srv.URL)

		_, err := client.Analyze(context.Background(), req)
		require.Error(t, err)
		assert.True(t, IsFatal(err))
		assert.False(t, IsTransient(err))
		assert.Contains(t, err.Error(), "invalid x-api-key")
	})

	t.Run("429 is transient", func(t *testing.T) {
		srv := fakeMessagesServer(t, http.StatusTooManyRequests,
			`{"error":{"type":"rate_limit_error","message":"slow down"}}`)
		client := NewClient("test-key", "claude-3-haiku-20240307", &recordedUsage{}, nil).WithEndpoint(srv.URL)

		_, err := client.Analyze(context.Background(), req)
		require.Error(t, err)
		assert.True(t, IsTransient(err))
	})

	t.Run("500 is transient", func(t *testing.T) {
		srv := fakeMessagesServer(t, http.StatusInternalServerError,
			`{"error":{"type":"api_error","message":"overloaded"}}`)
		client := NewClient("test-key", "claude-3-haiku-20240307", &recordedUsage{}, nil).WithEndpoint(srv.URL)

		_, err := client.Analyze(context.Background(), req)
		require.Error(t, err)
		assert.True(t, IsTransient(err))
	})

	t.Run("usage is recorded even on API failure", func(t *testing.T) {
		srv := fakeMessagesServer(t, http.StatusInternalServerError,
			`{"error":{"type":"api_error","message":"overloaded"},"usage":{"input_tokens":80,"output_tokens":0}}`)
		recorder := &recordedUsage{}
		client := NewClient("test-key", "claude-3-haiku-20240307", recorder, nil).WithEndpoint(srv.URL)

		_, err := client.Analyze(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, 1, recorder.calls)
		assert.Equal(t, 80, recorder.input)
	})

	t.Run("empty content is transient", func(t *testing.T) {
		srv := fakeMessagesServer(t, http.StatusOK,
			`{"content":[],"stop_reason":"end_turn","usage":{"input_tokens":50,"output_tokens":0}}`)
		client := NewClient("test-key", "claude-3-haiku-20240307", &recordedUsage{}, nil).WithEndpoint(srv.URL)

		_, err := client.Analyze(context.Background(), req)
		require.Error(t, err)
		assert.True(t, IsTransient(err))
	})

	t.Run("connection failure is transient", func(t *testing.T) {
		srv := fakeMessagesServer(t, http.StatusOK, `{}`)
		url := srv.URL
		srv.Close()
		client := NewClient("test-key", "claude-3-haiku-20240307", &recordedUsage{}, nil).WithEndpoint(url)

		_, err := client.Analyze(context.Background(), req)
		require.Error(t, err)
		assert.True(t, IsTransient(err))
	})

	t.Run("cancelled context propagates", func(t *testing.T) {
		srv := fakeMessagesServer(t, http.StatusOK, `{}`)
		client := NewClient("test-key", "claude-3-haiku-20240307", &recordedUsage{}, nil).WithEndpoint(srv.URL)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.Analyze(ctx, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, IsTransient(err))
	})
}
