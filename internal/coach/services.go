// Package coach exposes the plan, image and speech services over HTTP and
// websocket.
package coach

import (
	"context"

	"FitCoach_V0.1/internal/config"
	"FitCoach_V0.1/internal/database"
	"FitCoach_V0.1/internal/domain"
	"FitCoach_V0.1/internal/geminiservice"
	"FitCoach_V0.1/internal/imageservice"
	"FitCoach_V0.1/internal/speechservice"
)

type PlanService interface {
	GeneratePlan(ctx context.Context, profile domain.UserProfile) domain.FitnessPlan
	GenerateMotivationQuote(ctx context.Context) string
}

type ImageService interface {
	GenerateImage(ctx context.Context, itemName string, kind domain.ImageKind) domain.ImageResult
	GenerateImages(ctx context.Context, items []imageservice.Item) []domain.ImageResult
	Tiers() []string
}

type SpeechService interface {
	GenerateSpeech(ctx context.Context, text, credential string) ([]byte, error)
}

// HealthReporter is satisfied by database.Service.
type HealthReporter interface {
	Health() map[string]string
}

// EventLister is satisfied by *database.Queries.
type EventLister interface {
	ListRecentGenerationEvents(ctx context.Context, limit int32) ([]database.GenerationEvent, error)
}

// Services bundles the provider-backed services shared by the API and CLI.
type Services struct {
	Plans  PlanService
	Images ImageService
	Speech SpeechService

	// SpeechKey is passed to Speech on every call; empty means unconfigured.
	SpeechKey string
}

// NewServices wires every service from configuration. Image sources without
// an API key are left out of the chain so lookups go straight to the next
// tier.
func NewServices(cfg config.Config, recorder domain.GenerationRecorder) Services {
	var sources []imageservice.ImageSource
	if cfg.OpenRouter.APIKey != "" {
		sources = append(sources, imageservice.NewOpenRouterSource(cfg.OpenRouter, cfg.ProviderTimeout))
	}
	if cfg.Pexels.APIKey != "" {
		sources = append(sources, imageservice.NewPexelsSource(cfg.Pexels, cfg.ProviderTimeout))
	}
	placeholder := imageservice.NewPlaceholderSource(cfg.PlaceholderBaseURL)

	return Services{
		Plans:     geminiservice.NewService(geminiservice.NewClient(cfg.Gemini), recorder).WithBudget(cfg.PlanBudget),
		Images:    imageservice.NewService(placeholder, recorder, sources...),
		Speech:    speechservice.NewClient(cfg.ElevenLabs, cfg.ProviderTimeout, recorder),
		SpeechKey: cfg.ElevenLabs.APIKey,
	}
}
