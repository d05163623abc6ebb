package imageservice

import (
	"context"
	"strings"
)

// PlaceholderSource points at the bundled static assets. It never fails.
type PlaceholderSource struct {
	baseURL string
}

func NewPlaceholderSource(baseURL string) *PlaceholderSource {
	return &PlaceholderSource{baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *PlaceholderSource) Name() string { return "placeholder" }

func (s *PlaceholderSource) FindImage(_ context.Context, req Request) (string, error) {
	return s.URL(req), nil
}

// URL is FindImage without the error return.
func (s *PlaceholderSource) URL(req Request) string {
	kind := string(req.Kind)
	if !req.Kind.Valid() {
		kind = "meal"
	}
	return s.baseURL + "/" + kind + ".svg"
}
