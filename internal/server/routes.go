package server

import (
	"net/http"

	"FitCoach_V0.1/internal/utility"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = utility.IPExtractor(s.cfg.TrustedProxies)
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"https://*", "http://*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:       300,
	}))

	e.Use(LoggerMiddleware)

	// Placeholder images and other bundled assets
	e.Static("/static", "web/public")

	e.GET("/health", s.handler.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.GET("/status", s.handler.StatusHandler)
	api.GET("/generations", s.handler.GenerationsHandler)

	// Provider-backed routes
	limited := api.Group("", s.limiter.Middleware())
	limited.POST("/generate-plan", s.handler.GeneratePlanHandler)
	limited.GET("/motivation-quote", s.handler.MotivationQuoteHandler)
	limited.POST("/generate-image", s.handler.GenerateImageHandler)
	limited.POST("/generate-images", s.handler.GenerateImagesHandler)
	limited.POST("/text-to-speech", s.handler.TextToSpeechHandler)

	e.GET("/ws/plan", s.handler.PlanSocketHandler, s.limiter.Middleware())

	return e
}

// LoggerMiddleware tags every request with an ID and attaches a logger
// carrying it to both the echo context and the request context.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)
		c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context())))

		return next(c)
	}
}
