// Package speechservice turns plan text into audio through ElevenLabs.
// Unlike the plan and image services it has no server-side fallback: every
// failure is returned so the caller can switch to on-device synthesis.
package speechservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"FitCoach_V0.1/internal/config"
	"FitCoach_V0.1/internal/domain"
	"FitCoach_V0.1/internal/observability"
	"github.com/rs/zerolog"
)

const (
	// MaxTextLength is the longest input sent to the provider, in characters.
	MaxTextLength = 5000
	ContentType   = "audio/mpeg"

	providerName = "elevenlabs"
	quotaMarker  = "quota_exceeded"
)

var (
	ErrMissingCredential = errors.New("ElevenLabs API key is missing")
	ErrQuotaExceeded     = errors.New("quota exceeded - please upgrade your ElevenLabs plan")
	ErrProviderError     = errors.New("ElevenLabs API error")
)

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Client performs one text-to-speech call per GenerateSpeech. It never
// retries.
type Client struct {
	baseURL    string
	voiceID    string
	modelID    string
	settings   voiceSettings
	httpClient *http.Client
	recorder   domain.GenerationRecorder
}

func NewClient(cfg config.ElevenLabsConfig, timeout time.Duration, recorder domain.GenerationRecorder) *Client {
	if recorder == nil {
		recorder = domain.NopRecorder{}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		voiceID: cfg.VoiceID,
		modelID: cfg.ModelID,
		settings: voiceSettings{
			Stability:       cfg.Stability,
			SimilarityBoost: cfg.SimilarityBoost,
		},
		httpClient: &http.Client{Timeout: timeout},
		recorder:   recorder,
	}
}

// GenerateSpeech returns MP3 audio for text. Text longer than MaxTextLength
// is cut silently. Errors wrap ErrMissingCredential, ErrQuotaExceeded or
// ErrProviderError.
func (c *Client) GenerateSpeech(ctx context.Context, text, credential string) ([]byte, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	audio, err := c.generate(ctx, Truncate(text), credential)

	evt := domain.GenerationEvent{Kind: domain.EventSpeech, Source: providerName, Duration: time.Since(start)}
	if err != nil {
		evt.Error = err.Error()
		logger.Error().Err(err).Msg("ElevenLabs speech generation failed")
	} else {
		logger.Info().Int("bytes", len(audio)).Msg("Speech generated successfully via ElevenLabs")
	}
	c.recorder.RecordGeneration(ctx, evt)

	return audio, err
}

func (c *Client) generate(ctx context.Context, text, credential string) ([]byte, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, ErrMissingCredential
	}

	body, err := json.Marshal(ttsRequest{Text: text, ModelID: c.modelID, VoiceSettings: c.settings})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrProviderError, err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrProviderError, err)
	}
	req.Header.Set("Accept", ContentType)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", credential)

	start := time.Now()
	audio, err := c.do(req)
	observability.RecordProviderCall(providerName, err, time.Since(start))
	return audio, err
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if strings.Contains(string(errBody), quotaMarker) {
			return nil, ErrQuotaExceeded
		}
		return nil, fmt.Errorf("%w: %s", ErrProviderError, resp.Status)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read audio: %v", ErrProviderError, err)
	}
	return audio, nil
}

// Truncate cuts text to MaxTextLength characters without splitting a rune.
func Truncate(text string) string {
	if len(text) <= MaxTextLength {
		return text
	}
	runes := []rune(text)
	if len(runes) <= MaxTextLength {
		return text
	}
	return string(runes[:MaxTextLength])
}
