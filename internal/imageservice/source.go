package imageservice

import (
	"context"
	"errors"

	"FitCoach_V0.1/internal/domain"
)

var (
	ErrMissingAPIKey = errors.New("image provider API key is not configured")
	ErrNoImage       = errors.New("image provider returned no usable image")
)

// Request is what every tier receives. Prompt is the enhanced prompt built
// from ItemName.
type Request struct {
	ItemName string
	Kind     domain.ImageKind
	Prompt   string
}

// ImageSource is one tier of the fallback chain.
type ImageSource interface {
	Name() string
	FindImage(ctx context.Context, req Request) (string, error)
}
