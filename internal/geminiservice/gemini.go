package geminiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"FitCoach_V0.1/internal/config"
	"FitCoach_V0.1/internal/observability"
	"github.com/rs/zerolog"
)

// --- Gemini API Configuration ---
const (
	defaultInitialBackoff = 1 * time.Second
	structuredMimeType    = "application/json"
	providerName          = "gemini"
)

var (
	ErrMissingAPIKey = errors.New("gemini API key is not configured")
	ErrEmptyResponse = errors.New("no content found in Gemini response")
)

// --- Structs for Gemini API Request/Response ---

type GeminiPayload struct {
	Contents          []GeminiContent   `json:"contents"`
	SystemInstruction *GeminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text string `json:"text,omitempty"`
}

type GenerationConfig struct {
	ResponseMimeType string        `json:"responseMimeType"`
	ResponseSchema   *GeminiSchema `json:"responseSchema,omitempty"`
}

type GeminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// TextGenerator is the slice of the Gemini client the plan service needs.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, schema *GeminiSchema) (string, error)
}

// Client talks to the Gemini generateContent REST endpoint.
type Client struct {
	apiKey         string
	baseURL        string
	model          string
	maxRetries     int
	initialBackoff time.Duration
	httpClient     *http.Client
}

// NewClient builds a client from configuration. An empty API key is allowed;
// every call then fails fast with ErrMissingAPIKey.
func NewClient(cfg config.GeminiConfig) *Client {
	return &Client{
		apiKey:         cfg.APIKey,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		model:          cfg.Model,
		maxRetries:     cfg.MaxRetries,
		initialBackoff: defaultInitialBackoff,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
	}
}

// WithInitialBackoff overrides the first retry delay; it doubles per attempt.
func (c *Client) WithInitialBackoff(d time.Duration) *Client {
	c.initialBackoff = d
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) Model() string {
	return c.model
}

// Generate sends one prompt and returns the text of the first candidate.
// When schema is non-nil Gemini is asked for structured JSON output.
// Transport failures, 429 and 5xx responses are retried with exponential
// backoff; other 4xx replies fail at once.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string, schema *GeminiSchema) (string, error) {
	logger := zerolog.Ctx(ctx)

	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	payload := GeminiPayload{
		Contents: []GeminiContent{
			{Parts: []GeminiPart{{Text: userPrompt}}},
		},
	}
	if systemPrompt != "" {
		payload.SystemInstruction = &GeminiContent{Parts: []GeminiPart{{Text: systemPrompt}}}
	}
	if schema != nil {
		payload.GenerationConfig = &GenerationConfig{
			ResponseMimeType: structuredMimeType,
			ResponseSchema:   schema,
		}
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	attempts := c.maxRetries + 1
	var lastErr error

	for i := 0; i < attempts; i++ {
		if i > 0 {
			// Exponential backoff
			delay := c.initialBackoff * time.Duration(math.Pow(2, float64(i-1)))
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("gemini call cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		logger.Debug().Int("attempt", i+1).Str("model", c.model).Msg("Calling Gemini API")

		start := time.Now()
		text, err := c.doRequest(ctx, endpoint, payloadBytes)
		observability.RecordProviderCall(providerName, err, time.Since(start))
		if err == nil {
			return text, nil
		}

		var retryable *retryableError
		if !errors.As(err, &retryable) {
			return "", err
		}
		lastErr = retryable.err
		logger.Warn().Err(lastErr).Int("attempt", i+1).Msg("Gemini attempt failed")
	}

	return "", fmt.Errorf("failed to call Gemini API after %d attempts: %w", attempts, lastErr)
}

// retryableError marks failures worth another attempt.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func (c *Client) doRequest(ctx context.Context, endpoint string, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &retryableError{err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		err := fmt.Errorf("API returned non-200 status: %s, Body: %s", resp.Status, string(body))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return "", &retryableError{err: err}
		}
		return "", err
	}

	var geminiResp GeminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", ErrEmptyResponse
}
