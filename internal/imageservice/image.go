package imageservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FitCoach_V0.1/internal/domain"
	"FitCoach_V0.1/internal/observability"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxBatchItems caps one GenerateImages call.
	MaxBatchItems = 20
	batchWorkers  = 4
)

// Item is one entry of a batch lookup.
type Item struct {
	ItemName string           `json:"itemName"`
	Kind     domain.ImageKind `json:"type"`
}

// Service resolves an image for an exercise or meal by walking an ordered
// list of sources. The placeholder tier is always tried last, so a lookup
// never fails.
type Service struct {
	sources     []ImageSource
	placeholder *PlaceholderSource
	recorder    domain.GenerationRecorder
}

// NewService builds the chain: sources in the given order, then placeholder.
func NewService(placeholder *PlaceholderSource, recorder domain.GenerationRecorder, sources ...ImageSource) *Service {
	if recorder == nil {
		recorder = domain.NopRecorder{}
	}
	return &Service{sources: sources, placeholder: placeholder, recorder: recorder}
}

// Tiers lists source names in the order they are tried.
func (s *Service) Tiers() []string {
	names := make([]string, 0, len(s.sources)+1)
	for _, src := range s.sources {
		names = append(names, src.Name())
	}
	return append(names, s.placeholder.Name())
}

// GenerateImage always returns Success with a non-empty ImageURL. Model names
// the tier that supplied it.
func (s *Service) GenerateImage(ctx context.Context, itemName string, kind domain.ImageKind) domain.ImageResult {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	req := Request{ItemName: itemName, Kind: kind, Prompt: BuildImagePrompt(itemName, kind)}
	var errs []string

	for i, src := range s.sources {
		imageURL, err := tryTier(ctx, src, req)
		if err == nil && imageURL != "" {
			if i > 0 {
				observability.RecordFallback(domain.EventImage, src.Name())
			}
			s.record(ctx, src.Name(), i > 0, start, errs)
			return domain.ImageResult{Success: true, ImageURL: imageURL, Prompt: req.Prompt, Model: src.Name()}
		}
		if err == nil {
			err = ErrNoImage
		}
		logger.Warn().Err(err).Str("tier", src.Name()).Str("item", itemName).Msg("Image tier failed, trying next")
		errs = append(errs, fmt.Sprintf("%s: %v", src.Name(), err))
	}

	observability.RecordFallback(domain.EventImage, s.placeholder.Name())
	s.record(ctx, s.placeholder.Name(), true, start, errs)
	return domain.ImageResult{
		Success:  true,
		ImageURL: s.placeholder.URL(req),
		Prompt:   req.Prompt,
		Model:    s.placeholder.Name(),
	}
}

// GenerateImages resolves every item independently and concurrently. Results
// are returned in input order.
func (s *Service) GenerateImages(ctx context.Context, items []Item) []domain.ImageResult {
	results := make([]domain.ImageResult, len(items))

	var g errgroup.Group
	g.SetLimit(batchWorkers)
	for i, item := range items {
		g.Go(func() error {
			results[i] = s.GenerateImage(ctx, item.ItemName, item.Kind)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// tryTier isolates one source so a panicking provider client only costs
// its own tier.
func tryTier(ctx context.Context, src ImageSource, req Request) (imageURL string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("image source %s panicked: %v", src.Name(), r)
		}
	}()
	return src.FindImage(ctx, req)
}

func (s *Service) record(ctx context.Context, tier string, fallback bool, start time.Time, errs []string) {
	evt := domain.GenerationEvent{
		Kind:     domain.EventImage,
		Source:   tier,
		Fallback: fallback,
		Duration: time.Since(start),
	}
	if len(errs) > 0 {
		evt.Error = strings.Join(errs, "; ")
	}
	s.recorder.RecordGeneration(ctx, evt)
}
