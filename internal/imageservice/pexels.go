package imageservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"FitCoach_V0.1/internal/config"
	"FitCoach_V0.1/internal/observability"
)

type pexelsSearchResponse struct {
	Photos []struct {
		Src struct {
			Medium string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

// PexelsSource searches the Pexels stock photo library.
type PexelsSource struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewPexelsSource(cfg config.PexelsConfig, timeout time.Duration) *PexelsSource {
	return &PexelsSource{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *PexelsSource) Name() string { return "pexels" }

// FindImage returns the medium-size URL of the first photo matching the
// item name plus category keywords.
func (s *PexelsSource) FindImage(ctx context.Context, req Request) (string, error) {
	if s.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	start := time.Now()
	imageURL, err := s.search(ctx, strings.TrimSpace(req.ItemName)+" "+searchKeywords(req.Kind))
	observability.RecordProviderCall(s.Name(), err, time.Since(start))
	return imageURL, err
}

func (s *PexelsSource) search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create pexels request: %w", err)
	}
	httpReq.Header.Set("Authorization", s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("pexels request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("pexels returned %s: %s", resp.Status, string(msg))
	}

	var out pexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode pexels response: %w", err)
	}
	if len(out.Photos) == 0 || out.Photos[0].Src.Medium == "" {
		return "", ErrNoImage
	}
	return out.Photos[0].Src.Medium, nil
}
