package imageservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"FitCoach_V0.1/internal/config"
	"FitCoach_V0.1/internal/observability"
)

const openRouterMaxTokens = 300

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterRequest struct {
	Model     string              `json:"model"`
	Messages  []openRouterMessage `json:"messages"`
	MaxTokens int                 `json:"max_tokens"`
}

type openRouterResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Images  []struct {
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenRouterSource asks a vision model on OpenRouter for an image. Most
// models answer with text only, in which case the next tier takes over.
type OpenRouterSource struct {
	apiKey     string
	baseURL    string
	model      string
	appURL     string
	appTitle   string
	httpClient *http.Client
}

func NewOpenRouterSource(cfg config.OpenRouterConfig, timeout time.Duration) *OpenRouterSource {
	return &OpenRouterSource{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		appURL:     cfg.AppURL,
		appTitle:   cfg.AppTitle,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *OpenRouterSource) Name() string { return "openrouter" }

func (s *OpenRouterSource) FindImage(ctx context.Context, req Request) (string, error) {
	if s.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	start := time.Now()
	imageURL, err := s.complete(ctx, req.Prompt)
	observability.RecordProviderCall(s.Name(), err, time.Since(start))
	return imageURL, err
}

func (s *OpenRouterSource) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(openRouterRequest{
		Model: s.model,
		Messages: []openRouterMessage{
			{Role: "user", Content: "Generate a realistic image: " + prompt},
		},
		MaxTokens: openRouterMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal openrouter request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create openrouter request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("HTTP-Referer", s.appURL)
	httpReq.Header.Set("X-Title", s.appTitle)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("openrouter returned %s: %s", resp.Status, string(msg))
	}

	var out openRouterResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode openrouter response: %w", err)
	}

	for _, choice := range out.Choices {
		for _, img := range choice.Message.Images {
			if img.ImageURL.URL != "" {
				return img.ImageURL.URL, nil
			}
		}
	}
	return "", ErrNoImage
}
