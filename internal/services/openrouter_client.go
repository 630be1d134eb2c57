package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/utils"
)

// ErrLLMUnavailable is the only error the client surfaces after retries are
// exhausted. Upstream response bodies are logged, never returned, so they
// cannot leak into API responses.
var ErrLLMUnavailable = errors.New("language model unavailable")

type LLMClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type openRouterClient struct {
	log              *logger.Logger
	endpoint         string
	apiKey           string
	model            string
	temperature      float64
	maxTokens        int
	topP             float64
	frequencyPenalty float64
	responseFormat   string
	httpClient       *http.Client

	maxAttempts int
	backoffBase time.Duration
}

func NewOpenRouterClient(log *logger.Logger) (LLMClient, error) {
	clientLog := log.With("service", "OpenRouterClient")

	apiKey := utils.GetEnv("OPENROUTER_API_KEY", "", clientLog)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENROUTER_API_KEY")
	}
	endpoint := utils.GetEnv("OPENROUTER_API_ENDPOINT", "", clientLog)
	if endpoint == "" {
		return nil, fmt.Errorf("missing OPENROUTER_API_ENDPOINT")
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: time.Duration(utils.GetEnvAsInt("OPENROUTER_CONNECT_TIMEOUT_SECONDS", 10, clientLog)) * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: time.Duration(utils.GetEnvAsInt("OPENROUTER_READ_TIMEOUT_SECONDS", 60, clientLog)) * time.Second,
	}

	return &openRouterClient{
		log:              clientLog,
		endpoint:         endpoint,
		apiKey:           apiKey,
		model:            utils.GetEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini", clientLog),
		temperature:      utils.GetEnvAsFloat("OPENROUTER_TEMPERATURE", 0.7, clientLog),
		maxTokens:        utils.GetEnvAsInt("OPENROUTER_MAX_TOKENS", 2000, clientLog),
		topP:             utils.GetEnvAsFloat("OPENROUTER_TOP_P", 1.0, clientLog),
		frequencyPenalty: utils.GetEnvAsFloat("OPENROUTER_FREQUENCY_PENALTY", 0.0, clientLog),
		responseFormat:   utils.GetEnv("OPENROUTER_RESPONSE_FORMAT", "json_object", clientLog),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(utils.GetEnvAsInt("OPENROUTER_TOTAL_TIMEOUT_SECONDS", 90, clientLog)) * time.Second,
		},
		maxAttempts: 3,
		backoffBase: 1 * time.Second,
	}, nil
}

type openRouterHTTPError struct {
	StatusCode int
	Body       string
}

func (e *openRouterHTTPError) Error() string {
	return fmt.Sprintf("openrouter http %d", e.StatusCode)
}

func isRetryableHTTP(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

func isRetryableErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var httpErr *openRouterHTTPError
	if errors.As(err, &httpErr) {
		return isRetryableHTTP(httpErr.StatusCode)
	}
	// Anything that reached this point without an HTTP status is a transport
	// problem (url.Error, connection reset, truncated body).
	return true
}

func jitterSleep(base time.Duration) time.Duration {
	// +/- 20%
	if base <= 0 {
		return 0
	}
	delta := base.Seconds() * 0.2
	low := base.Seconds() - delta
	v := low + rand.Float64()*2*delta
	return time.Duration(v * float64(time.Second))
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model            string            `json:"model"`
	Messages         []chatMessage     `json:"messages"`
	Temperature      float64           `json:"temperature"`
	MaxTokens        int               `json:"max_tokens"`
	TopP             float64           `json:"top_p"`
	FrequencyPenalty float64           `json:"frequency_penalty"`
	ResponseFormat   map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *openRouterClient) doOnce(ctx context.Context, body any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &openRouterHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func (c *openRouterClient) Complete(ctx context.Context, system, user string) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:      c.temperature,
		MaxTokens:        c.maxTokens,
		TopP:             c.topP,
		FrequencyPenalty: c.frequencyPenalty,
	}
	if c.responseFormat != "" {
		body.ResponseFormat = map[string]string{"type": c.responseFormat}
	}

	backoff := c.backoffBase
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		raw, err := c.doOnce(ctx, body)
		if err == nil {
			var parsed chatResponse
			if uerr := json.Unmarshal(raw, &parsed); uerr != nil || len(parsed.Choices) == 0 {
				c.log.Warn("Malformed completion envelope", "error", uerr)
				return "", ErrLLMUnavailable
			}
			return parsed.Choices[0].Message.Content, nil
		}

		lastErr = err
		var httpErr *openRouterHTTPError
		if errors.As(err, &httpErr) {
			c.log.Warn("Completion request failed", "attempt", attempt, "status", httpErr.StatusCode)
		} else {
			c.log.Warn("Completion request failed", "attempt", attempt, "error", err)
		}

		if !isRetryableErr(err) || attempt == c.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(jitterSleep(backoff)):
		}
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}

	c.log.Error("Completion failed after retries", "error", lastErr)
	return "", ErrLLMUnavailable
}
