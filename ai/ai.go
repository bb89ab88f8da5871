package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"askchart/cache"
)

// HTTPClient asks an OpenAI-compatible chat-completions endpoint. Each
// question gets exactly one attempt; callers bound it with a context.
type HTTPClient struct {
	apiKey             string
	modelName          string
	apiURL             string
	cache              *cache.Cache
	httpClient         *http.Client
	log                *slog.Logger
	lastRequestTime    time.Time
	requestMutex       sync.Mutex
	minRequestInterval time.Duration
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type ChatCompletionResponse struct {
	ID      string `json:"id,omitempty"`
	Object  string `json:"object,omitempty"`
	Created int64  `json:"created,omitempty"`
	Model   string `json:"model,omitempty"`
	Choices []struct {
		Index   int         `json:"index"`
		Message ChatMessage `json:"message"`
		Finish  string      `json:"finish_reason,omitempty"`
	} `json:"choices"`
}

type HTTPClientConfig struct {
	APIURL      string
	APIKey      string
	Model       string
	MinInterval time.Duration
}

func NewHTTPClient(cfg HTTPClientConfig, answers *cache.Cache, log *slog.Logger) *HTTPClient {
	return &HTTPClient{
		apiKey:    cfg.APIKey,
		modelName: cfg.Model,
		apiURL:    cfg.APIURL,
		cache:     answers,
		// Deadlines come from the caller's context.
		httpClient:         &http.Client{},
		log:                log,
		minRequestInterval: cfg.MinInterval,
	}
}

// rateLimit ensures minimum time between requests to prevent burst rate errors
func (a *HTTPClient) rateLimit(ctx context.Context) error {
	a.requestMutex.Lock()
	defer a.requestMutex.Unlock()

	if wait := a.minRequestInterval - time.Since(a.lastRequestTime); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	a.lastRequestTime = time.Now()
	return nil
}

func (a *HTTPClient) Answer(ctx context.Context, req Request) (string, error) {
	if a.cache != nil {
		if cached, found := a.cache.Answer(req.ContextLabel, req.Question); found {
			a.log.Debug("oracle cache hit", "table", req.ContextLabel)
			return cached, nil
		}
	}

	messages := []ChatMessage{
		{Role: "system", Content: BuildClassifyPrompt(req.ContextLabel, req.Schema)},
		{Role: "user", Content: req.Question},
	}

	content, err := a.complete(ctx, messages)
	if err != nil {
		return "", err
	}

	if a.cache != nil {
		a.cache.SetAnswer(req.ContextLabel, req.Question, content)
	}
	return content, nil
}

func (a *HTTPClient) complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if err := a.rateLimit(ctx); err != nil {
		return "", err
	}

	jsonData, err := json.Marshal(ChatCompletionRequest{
		Model:       a.modelName,
		Messages:    messages,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	start := time.Now()
	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	a.log.Debug("oracle responded", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var completion ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no response from AI model")
	}

	return completion.Choices[0].Message.Content, nil
}
