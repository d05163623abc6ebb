package coach

import (
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

type providerStatus struct {
	Configured bool   `json:"configured"`
	Model      string `json:"model,omitempty"`
}

type runtimeStatus struct {
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryPercent float64 `json:"memoryPercent"`
	MemoryUsedMB  uint64  `json:"memoryUsedMb"`
	MemoryTotalMB uint64  `json:"memoryTotalMb"`
	Goroutines    int     `json:"goroutines"`
}

type statusResponse struct {
	Providers  map[string]providerStatus `json:"providers"`
	ImageTiers []string                  `json:"imageTiers"`
	Runtime    runtimeStatus             `json:"runtime"`
	Database   map[string]string         `json:"database"`
}

// StatusHandler reports which providers have credentials (never the keys
// themselves), the active image tiers and host load.
func (h *Handler) StatusHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := zerolog.Ctx(ctx)

	rt := runtimeStatus{Goroutines: runtime.NumGoroutine()}
	if v, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		rt.MemoryPercent = v.UsedPercent
		rt.MemoryUsedMB = v.Used / 1024 / 1024
		rt.MemoryTotalMB = v.Total / 1024 / 1024
	} else {
		logger.Debug().Err(err).Msg("Failed to read memory stats")
	}
	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		rt.CPUPercent = pct[0]
	} else if err != nil {
		logger.Debug().Err(err).Msg("Failed to read cpu stats")
	}

	return c.JSON(http.StatusOK, statusResponse{
		Providers: map[string]providerStatus{
			"gemini":     {Configured: h.cfg.Gemini.APIKey != "", Model: h.cfg.Gemini.Model},
			"openrouter": {Configured: h.cfg.OpenRouter.APIKey != "", Model: h.cfg.OpenRouter.Model},
			"pexels":     {Configured: h.cfg.Pexels.APIKey != ""},
			"elevenlabs": {Configured: h.svc.SpeechKey != "", Model: h.cfg.ElevenLabs.ModelID},
		},
		ImageTiers: h.svc.Images.Tiers(),
		Runtime:    rt,
		Database:   h.databaseHealth(),
	})
}

func (h *Handler) HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"database": h.databaseHealth(),
	})
}

func (h *Handler) databaseHealth() map[string]string {
	if h.health == nil {
		return map[string]string{"status": "disabled"}
	}
	return h.health.Health()
}
