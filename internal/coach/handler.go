package coach

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"FitCoach_V0.1/internal/config"
	"FitCoach_V0.1/internal/database"
	"FitCoach_V0.1/internal/domain"
	"FitCoach_V0.1/internal/imageservice"
	"FitCoach_V0.1/internal/speechservice"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	defaultEventLimit = 20
	maxEventLimit     = 100
)

// Handler serves the FitCoach API.
type Handler struct {
	cfg    config.Config
	svc    Services
	health HealthReporter
	events EventLister
}

// NewHandler builds the API handler. db may be nil when no audit store is
// configured.
func NewHandler(cfg config.Config, svc Services, db database.Service) *Handler {
	h := &Handler{cfg: cfg, svc: svc}
	if db != nil {
		h.health = db
		h.events = db.Queries()
	}
	return h
}

type errorResponse struct {
	Success           bool   `json:"success"`
	Error             string `json:"error"`
	UseLocalSynthesis bool   `json:"useLocalSynthesis,omitempty"`
}

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorResponse{Success: false, Error: msg})
}

type planResponse struct {
	Success bool               `json:"success"`
	Plan    domain.FitnessPlan `json:"plan"`
}

// GeneratePlanHandler validates the profile and always answers with a plan;
// provider failures are absorbed by the fallback.
func (h *Handler) GeneratePlanHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var profile domain.UserProfile
	if err := c.Bind(&profile); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	// Markup-only fields must not slip past the required checks.
	profile = profile.Sanitized()
	if err := profile.Validate(); err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	plan := h.svc.Plans.GeneratePlan(ctx, profile)
	return c.JSON(http.StatusOK, planResponse{Success: true, Plan: plan})
}

func (h *Handler) MotivationQuoteHandler(c echo.Context) error {
	quote := h.svc.Plans.GenerateMotivationQuote(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{"success": true, "quote": quote})
}

type imageRequest struct {
	Prompt   string           `json:"prompt"`
	ItemName string           `json:"itemName"`
	Kind     domain.ImageKind `json:"type"`
}

// normalize resolves the item name (prompt is accepted as a stand-in for
// older clients) and checks the kind.
func (r imageRequest) normalize() (imageservice.Item, error) {
	name := domain.PlainText(r.ItemName)
	if name == "" {
		name = domain.PlainText(r.Prompt)
	}
	if name == "" || r.Kind == "" {
		return imageservice.Item{}, errors.New("itemName and type are required")
	}
	if !r.Kind.Valid() {
		return imageservice.Item{}, errors.New(`type must be "exercise" or "meal"`)
	}
	return imageservice.Item{ItemName: name, Kind: r.Kind}, nil
}

func (h *Handler) GenerateImageHandler(c echo.Context) error {
	var req imageRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	item, err := req.normalize()
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	result := h.svc.Images.GenerateImage(c.Request().Context(), item.ItemName, item.Kind)
	return c.JSON(http.StatusOK, result)
}

type batchImageRequest struct {
	Items []imageRequest `json:"items"`
}

func (h *Handler) GenerateImagesHandler(c echo.Context) error {
	var req batchImageRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	if len(req.Items) == 0 {
		return jsonError(c, http.StatusBadRequest, "items must not be empty")
	}
	if len(req.Items) > imageservice.MaxBatchItems {
		return jsonError(c, http.StatusBadRequest, fmt.Sprintf("at most %d items per request", imageservice.MaxBatchItems))
	}

	items := make([]imageservice.Item, len(req.Items))
	for i, r := range req.Items {
		item, err := r.normalize()
		if err != nil {
			return jsonError(c, http.StatusBadRequest, fmt.Sprintf("items[%d]: %v", i, err))
		}
		items[i] = item
	}

	images := h.svc.Images.GenerateImages(c.Request().Context(), items)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "images": images})
}

type speechRequest struct {
	Text string `json:"text"`
}

// TextToSpeechHandler returns MP3 audio, or a JSON error flagged with
// useLocalSynthesis so the client can fall back to on-device speech.
func (h *Handler) TextToSpeechHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req speechRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return jsonError(c, http.StatusBadRequest, "Text is required")
	}

	audio, err := h.svc.Speech.GenerateSpeech(ctx, req.Text, h.svc.SpeechKey)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, speechservice.ErrMissingCredential):
			status = http.StatusServiceUnavailable
		case errors.Is(err, speechservice.ErrQuotaExceeded):
			status = http.StatusTooManyRequests
		}
		zerolog.Ctx(ctx).Warn().Err(err).Int("status", status).Msg("Speech unavailable, client should synthesize locally")
		return c.JSON(status, errorResponse{Success: false, Error: err.Error(), UseLocalSynthesis: true})
	}

	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(audio)))
	return c.Blob(http.StatusOK, speechservice.ContentType, audio)
}

type generationEventView struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Source     string    `json:"source"`
	Fallback   bool      `json:"fallback"`
	DurationMs int64     `json:"durationMs"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GenerationsHandler lists the most recent audit events.
func (h *Handler) GenerationsHandler(c echo.Context) error {
	if h.events == nil {
		return jsonError(c, http.StatusServiceUnavailable, "audit store is not configured")
	}

	limit := defaultEventLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxEventLimit {
			return jsonError(c, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxEventLimit))
		}
		limit = n
	}

	rows, err := h.events.ListRecentGenerationEvents(c.Request().Context(), int32(limit))
	if err != nil {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("Failed to list generation events")
		return jsonError(c, http.StatusInternalServerError, "Failed to list generation events")
	}

	views := make([]generationEventView, 0, len(rows))
	for _, r := range rows {
		v := generationEventView{
			Kind:       r.Kind,
			Source:     r.Source,
			Fallback:   r.Fallback,
			DurationMs: r.DurationMs,
			Error:      r.Error.String,
			CreatedAt:  r.CreatedAt.Time,
		}
		if r.ID.Valid {
			v.ID = uuid.UUID(r.ID.Bytes).String()
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "events": views})
}
