package geminiservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"FitCoach_V0.1/internal/domain"
	"FitCoach_V0.1/internal/observability"
	"github.com/rs/zerolog"
)

// Sources reported to the recorder and in metrics.
const (
	SourceGemini   = "gemini"
	SourceFallback = "fallback"
)

// DefaultQuotes are served when the model cannot produce a quote.
// The first is used when no API key is configured at all.
var DefaultQuotes = []string{
	"Your only limit is you! Push harder today!",
	"Push yourself because no one else will!",
}

// quoteMarks are stripped from both ends of a generated quote.
const quoteMarks = "\"'`“”‘’"

// Service produces fitness plans and motivation quotes. Both operations
// always return a usable result; provider and parse failures are logged and
// replaced by static content.
type Service struct {
	llm      TextGenerator
	recorder domain.GenerationRecorder
	budget   time.Duration
}

// NewService wires the plan service to a text generator. A nil recorder
// discards generation events.
func NewService(llm TextGenerator, recorder domain.GenerationRecorder) *Service {
	if recorder == nil {
		recorder = domain.NopRecorder{}
	}
	return &Service{llm: llm, recorder: recorder}
}

// WithBudget caps the time spent waiting on the model, retries included.
// Once it runs out the static fallback is served. Zero means no cap.
func (s *Service) WithBudget(d time.Duration) *Service {
	s.budget = d
	return s
}

// bounded derives the context handed to the model. Callers keep using their
// own ctx for logging and recording so the fallback path is unaffected.
func (s *Service) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.budget <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.budget)
}

// GeneratePlan is the main orchestrator:
// Prompt -> Gemini -> ExtractJSON/ParsePlan -> Validate, with FallbackPlan
// substituted at any failing step.
func (s *Service) GeneratePlan(ctx context.Context, profile domain.UserProfile) domain.FitnessPlan {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	plan, err := s.generatePlan(ctx, profile)
	if err != nil {
		logger.Warn().Err(err).Str("user", profile.Name).Msg("Plan generation failed, returning fallback plan")
		observability.RecordFallback(domain.EventPlan, SourceFallback)
		s.recorder.RecordGeneration(ctx, domain.GenerationEvent{
			Kind:     domain.EventPlan,
			Source:   SourceFallback,
			Fallback: true,
			Duration: time.Since(start),
			Error:    err.Error(),
		})
		return FallbackPlan(profile)
	}

	logger.Info().Str("user", profile.Name).Dur("elapsed", time.Since(start)).Msg("Fitness plan generated")
	s.recorder.RecordGeneration(ctx, domain.GenerationEvent{
		Kind:     domain.EventPlan,
		Source:   SourceGemini,
		Duration: time.Since(start),
	})
	return plan
}

func (s *Service) generatePlan(ctx context.Context, profile domain.UserProfile) (domain.FitnessPlan, error) {
	if s.llm == nil {
		return domain.FitnessPlan{}, ErrMissingAPIKey
	}

	prompt := BuildPlanPrompt(profile)

	llmCtx, cancel := s.bounded(ctx)
	defer cancel()

	raw, err := s.llm.Generate(llmCtx, SystemPrompt, prompt, PlanSchema)
	if err != nil {
		return domain.FitnessPlan{}, err
	}

	plan, err := ParsePlan(raw)
	if err != nil {
		if errors.Is(err, ErrMalformedPlan) {
			zerolog.Ctx(ctx).Debug().Str("raw_prefix", prefix(raw, 200)).Msg("Unparseable Gemini response")
		}
		return domain.FitnessPlan{}, err
	}

	if err := plan.Validate(); err != nil {
		return domain.FitnessPlan{}, err
	}
	return plan, nil
}

// GenerateMotivationQuote asks the model for a one-line quote. It never
// fails: a missing key or any provider error yields a default quote.
func (s *Service) GenerateMotivationQuote(ctx context.Context) string {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	fallback := func(quote string, err error) string {
		observability.RecordFallback(domain.EventQuote, SourceFallback)
		s.recorder.RecordGeneration(ctx, domain.GenerationEvent{
			Kind:     domain.EventQuote,
			Source:   SourceFallback,
			Fallback: true,
			Duration: time.Since(start),
			Error:    err.Error(),
		})
		return quote
	}

	if s.llm == nil {
		return fallback(DefaultQuotes[0], ErrMissingAPIKey)
	}

	llmCtx, cancel := s.bounded(ctx)
	defer cancel()

	raw, err := s.llm.Generate(llmCtx, "", QuotePrompt, nil)
	if errors.Is(err, ErrMissingAPIKey) {
		logger.Warn().Msg("Gemini API key not found, using default quote")
		return fallback(DefaultQuotes[0], err)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Error generating motivation quote")
		return fallback(DefaultQuotes[1], err)
	}

	quote := CleanQuote(raw)
	if quote == "" {
		return fallback(DefaultQuotes[1], ErrEmptyResponse)
	}

	s.recorder.RecordGeneration(ctx, domain.GenerationEvent{
		Kind:     domain.EventQuote,
		Source:   SourceGemini,
		Duration: time.Since(start),
	})
	return quote
}

// CleanQuote trims whitespace and one layer of surrounding quote characters.
func CleanQuote(raw string) string {
	quote := strings.TrimSpace(raw)
	for _, r := range quoteMarks {
		quote = strings.TrimPrefix(quote, string(r))
		quote = strings.TrimSuffix(quote, string(r))
	}
	return strings.TrimSpace(quote)
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
