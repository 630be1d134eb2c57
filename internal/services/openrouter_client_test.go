package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripacker/tripacker-backend/internal/logger"
)

func newTestClient(t *testing.T, endpoint string) *openRouterClient {
	t.Helper()
	log, err := logger.New("dev")
	require.NoError(t, err)
	return &openRouterClient{
		log:            log,
		endpoint:       endpoint,
		apiKey:         "test-key",
		model:          "test-model",
		maxTokens:      256,
		responseFormat: "json_object",
		httpClient:     &http.Client{Timeout: 5 * time.Second},
		maxAttempts:    3,
		backoffBase:    time.Millisecond,
	}
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func TestCompleteReturnsContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "json_object", req.ResponseFormat["type"])

		w.Write([]byte(completionBody(`[{"name": "Hat"}]`)))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	out, err := c.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, `[{"name": "Hat"}]`, out)
}

func TestNewOpenRouterClientEnvOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "custom/model", req.Model)
		assert.Equal(t, "text", req.ResponseFormat["type"])

		w.Write([]byte(completionBody("ok")))
	}))
	defer srv.Close()

	t.Setenv("OPENROUTER_API_KEY", "env-key")
	t.Setenv("OPENROUTER_API_ENDPOINT", srv.URL)
	t.Setenv("OPENROUTER_MODEL", "custom/model")
	t.Setenv("OPENROUTER_RESPONSE_FORMAT", "text")

	log, err := logger.New("dev")
	require.NoError(t, err)
	c, err := NewOpenRouterClient(log)
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(completionBody("ok")))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	out, err := c.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "bad key"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Complete(context.Background(), "sys", "user")
	require.ErrorIs(t, err, ErrLLMUnavailable)
	assert.Equal(t, int32(1), calls.Load())
	// The upstream body never rides along on the returned error.
	assert.NotContains(t, err.Error(), "bad key")
}

func TestCompleteRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(completionBody("ok")))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	out, err := c.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCompleteExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Complete(context.Background(), "sys", "user")
	require.ErrorIs(t, err, ErrLLMUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Complete(context.Background(), "sys", "user")
	require.ErrorIs(t, err, ErrLLMUnavailable)
}

func TestCompleteHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, srv.URL)
	_, err := c.Complete(ctx, "sys", "user")
	require.ErrorIs(t, err, context.Canceled)
}
