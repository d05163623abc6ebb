package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"FitCoach_V0.1/internal/config"
	"FitCoach_V0.1/internal/database"
	"FitCoach_V0.1/internal/domain"
	"FitCoach_V0.1/internal/geminiservice"
	"FitCoach_V0.1/internal/imageservice"
	"FitCoach_V0.1/internal/speechservice"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProfileJSON = `{
  "name": "Alex <b>Doe</b>",
  "age": 29,
  "gender": "male",
  "height": 180,
  "weight": 78.5,
  "fitnessGoal": "muscle-gain",
  "fitnessLevel": "intermediate",
  "workoutLocation": "gym",
  "dietaryPreference": "vegan"
}`

type fakePlans struct {
	mu      sync.Mutex
	profile domain.UserProfile
	calls   int
}

func (f *fakePlans) GeneratePlan(_ context.Context, p domain.UserProfile) domain.FitnessPlan {
	f.mu.Lock()
	f.profile = p
	f.calls++
	f.mu.Unlock()
	return geminiservice.FallbackPlan(p)
}

func (f *fakePlans) GenerateMotivationQuote(context.Context) string {
	return "Consistency compounds."
}

type fakeImages struct {
	items []imageservice.Item
}

func (f *fakeImages) GenerateImage(_ context.Context, name string, kind domain.ImageKind) domain.ImageResult {
	f.items = append(f.items, imageservice.Item{ItemName: name, Kind: kind})
	return domain.ImageResult{Success: true, ImageURL: "/static/placeholders/" + string(kind) + ".svg", Prompt: "p", Model: "placeholder"}
}

func (f *fakeImages) GenerateImages(ctx context.Context, items []imageservice.Item) []domain.ImageResult {
	out := make([]domain.ImageResult, len(items))
	for i, it := range items {
		out[i] = f.GenerateImage(ctx, it.ItemName, it.Kind)
	}
	return out
}

func (f *fakeImages) Tiers() []string { return []string{"pexels", "placeholder"} }

type fakeSpeech struct {
	audio      []byte
	err        error
	credential string
	text       string
}

func (f *fakeSpeech) GenerateSpeech(_ context.Context, text, credential string) ([]byte, error) {
	f.text, f.credential = text, credential
	return f.audio, f.err
}

type fakeEvents struct {
	limit int32
	rows  []database.GenerationEvent
	err   error
}

func (f *fakeEvents) ListRecentGenerationEvents(_ context.Context, limit int32) ([]database.GenerationEvent, error) {
	f.limit = limit
	return f.rows, f.err
}

type fakeHealth map[string]string

func (f fakeHealth) Health() map[string]string { return f }

type fixture struct {
	h      *Handler
	plans  *fakePlans
	images *fakeImages
	speech *fakeSpeech
}

func newFixture() *fixture {
	f := &fixture{plans: &fakePlans{}, images: &fakeImages{}, speech: &fakeSpeech{audio: []byte("ID3")}}
	cfg := config.Default()
	cfg.Gemini.APIKey = "secret-gemini"
	f.h = NewHandler(cfg, Services{Plans: f.plans, Images: f.images, Speech: f.speech, SpeechKey: "xi"}, nil)
	return f
}

func call(t *testing.T, handler echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestGeneratePlanHandler(t *testing.T) {
	f := newFixture()

	rec := call(t, f.h.GeneratePlanHandler, http.MethodPost, "/api/generate-plan", validProfileJSON)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp planResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Plan.WorkoutPlan, domain.PlanDays)
	require.Len(t, resp.Plan.DietPlan, domain.PlanDays)

	require.Equal(t, "Alex Doe", f.plans.profile.Name, "markup is stripped before prompting")
	require.Equal(t, 78.5, f.plans.profile.WeightKG)
}

func TestGeneratePlanHandlerRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"malformed json", `{"name":`, "Invalid request body"},
		{"missing fields", `{"name":"A"}`, "age is required"},
		{"bad enum", strings.Replace(validProfileJSON, `"gym"`, `"moon"`, 1), "workoutLocation must be one of"},
		{"markup-only name", strings.Replace(validProfileJSON, `"Alex <b>Doe</b>"`, `"<b></b>"`, 1), "name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			rec := call(t, f.h.GeneratePlanHandler, http.MethodPost, "/api/generate-plan", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			out := decode(t, rec)
			require.Equal(t, false, out["success"])
			require.Contains(t, out["error"], tt.wantErr)
			require.Zero(t, f.plans.calls)
		})
	}
}

func TestMotivationQuoteHandler(t *testing.T) {
	rec := call(t, newFixture().h.MotivationQuoteHandler, http.MethodGet, "/api/motivation-quote", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true,"quote":"Consistency compounds."}`, rec.Body.String())
}

func TestGenerateImageHandler(t *testing.T) {
	f := newFixture()

	rec := call(t, f.h.GenerateImageHandler, http.MethodPost, "/api/generate-image",
		`{"itemName":"Push-ups","type":"exercise","prompt":"ignored"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true,"imageUrl":"/static/placeholders/exercise.svg","prompt":"p","model":"placeholder"}`, rec.Body.String())
	require.Equal(t, "Push-ups", f.images.items[0].ItemName)

	rec = call(t, f.h.GenerateImageHandler, http.MethodPost, "/api/generate-image", `{"prompt":"Oatmeal","type":"meal"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Oatmeal", f.images.items[1].ItemName)
}

func TestGenerateImageHandlerRejectsBadInput(t *testing.T) {
	for body, want := range map[string]string{
		`{"itemName":"Push-ups","type":"video"}`: `type must be "exercise" or "meal"`,
		`{"itemName":"Push-ups"}`:                "itemName and type are required",
		`{"type":"meal"}`:                        "itemName and type are required",
		`not json`:                               "Invalid request body",
	} {
		f := newFixture()
		rec := call(t, f.h.GenerateImageHandler, http.MethodPost, "/api/generate-image", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.Equal(t, want, decode(t, rec)["error"], body)
		require.Empty(t, f.images.items)
	}
}

func TestGenerateImagesHandler(t *testing.T) {
	f := newFixture()

	rec := call(t, f.h.GenerateImagesHandler, http.MethodPost, "/api/generate-images",
		`{"items":[{"itemName":"Squats","type":"exercise"},{"itemName":"Salad","type":"meal"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                 `json:"success"`
		Images  []domain.ImageResult `json:"images"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Images, 2)
	require.Equal(t, "/static/placeholders/meal.svg", resp.Images[1].ImageURL)
}

func TestGenerateImagesHandlerLimits(t *testing.T) {
	f := newFixture()

	rec := call(t, f.h.GenerateImagesHandler, http.MethodPost, "/api/generate-images", `{"items":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	items := make([]string, imageservice.MaxBatchItems+1)
	for i := range items {
		items[i] = fmt.Sprintf(`{"itemName":"x%d","type":"meal"}`, i)
	}
	rec = call(t, f.h.GenerateImagesHandler, http.MethodPost, "/api/generate-images", `{"items":[`+strings.Join(items, ",")+`]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, f.h.GenerateImagesHandler, http.MethodPost, "/api/generate-images",
		`{"items":[{"itemName":"ok","type":"meal"},{"itemName":"bad","type":"gif"}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decode(t, rec)["error"], "items[1]")
	require.Empty(t, f.images.items)
}

func TestTextToSpeechHandler(t *testing.T) {
	f := newFixture()

	rec := call(t, f.h.TextToSpeechHandler, http.MethodPost, "/api/text-to-speech", `{"text":"Day one"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "audio/mpeg", rec.Header().Get(echo.HeaderContentType))
	require.Equal(t, "3", rec.Header().Get(echo.HeaderContentLength))
	require.Equal(t, "ID3", rec.Body.String())
	require.Equal(t, "xi", f.speech.credential)
}

func TestTextToSpeechHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing credential", speechservice.ErrMissingCredential, http.StatusServiceUnavailable},
		{"quota", speechservice.ErrQuotaExceeded, http.StatusTooManyRequests},
		{"provider", fmt.Errorf("%w: 500 Internal Server Error", speechservice.ErrProviderError), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.speech.err = tt.err

			rec := call(t, f.h.TextToSpeechHandler, http.MethodPost, "/api/text-to-speech", `{"text":"hi"}`)
			require.Equal(t, tt.status, rec.Code)
			out := decode(t, rec)
			require.Equal(t, false, out["success"])
			require.Equal(t, true, out["useLocalSynthesis"])
			require.Equal(t, tt.err.Error(), out["error"])
		})
	}

	rec := call(t, newFixture().h.TextToSpeechHandler, http.MethodPost, "/api/text-to-speech", `{"text":"   "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Text is required", decode(t, rec)["error"])
}

func TestStatusHandlerHidesKeys(t *testing.T) {
	rec := call(t, newFixture().h.StatusHandler, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-gemini")

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Providers["gemini"].Configured)
	require.Equal(t, "gemini-2.0-flash", resp.Providers["gemini"].Model)
	require.False(t, resp.Providers["pexels"].Configured)
	require.True(t, resp.Providers["elevenlabs"].Configured)
	require.Equal(t, []string{"pexels", "placeholder"}, resp.ImageTiers)
	require.Equal(t, "disabled", resp.Database["status"])
	require.Positive(t, resp.Runtime.Goroutines)
}

func TestHealthHandler(t *testing.T) {
	f := newFixture()
	f.h.health = fakeHealth{"status": "up", "max_conns": "4"}

	rec := call(t, f.h.HealthHandler, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok","database":{"status":"up","max_conns":"4"}}`, rec.Body.String())
}

func TestGenerationsHandler(t *testing.T) {
	rec := call(t, newFixture().h.GenerationsHandler, http.MethodGet, "/api/generations", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	f := newFixture()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	events := &fakeEvents{rows: []database.GenerationEvent{{
		ID:         pgtype.UUID{Bytes: [16]byte{1}, Valid: true},
		Kind:       domain.EventImage,
		Source:     "placeholder",
		Fallback:   true,
		DurationMs: 12,
		Error:      pgtype.Text{String: "pexels: no image", Valid: true},
		CreatedAt:  pgtype.Timestamptz{Time: created, Valid: true},
	}}}
	f.h.events = events

	rec = call(t, f.h.GenerationsHandler, http.MethodGet, "/api/generations?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 5, events.limit)
	require.JSONEq(t, `{"success":true,"events":[{
		"id":"01000000-0000-0000-0000-000000000000","kind":"image","source":"placeholder",
		"fallback":true,"durationMs":12,"error":"pexels: no image","createdAt":"2025-03-01T10:00:00Z"}]}`, rec.Body.String())

	rec = call(t, f.h.GenerationsHandler, http.MethodGet, "/api/generations?limit=1000", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	events.err = errors.New("connection refused")
	rec = call(t, f.h.GenerationsHandler, http.MethodGet, "/api/generations", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.EqualValues(t, defaultEventLimit, events.limit)
}

func TestNewServicesSkipsUnconfiguredImageSources(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, []string{"placeholder"}, NewServices(cfg, nil).Images.Tiers())

	cfg.OpenRouter.APIKey = "or"
	cfg.Pexels.APIKey = "px"
	svc := NewServices(cfg, nil)
	require.Equal(t, []string{"openrouter", "pexels", "placeholder"}, svc.Images.Tiers())
	require.Empty(t, svc.SpeechKey)
}
