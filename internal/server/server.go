/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the
coaching services and the optional audit database into the router.
*/
package server

import (
	"fmt"
	"net/http"
	"time"

	"FitCoach_V0.1/internal/coach"
	"FitCoach_V0.1/internal/config"
	"FitCoach_V0.1/internal/database"
	"FitCoach_V0.1/internal/utility"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// cfg holds the resolved runtime configuration.
	cfg config.Config

	// db provides access to the audit store; nil when DATABASE_URL is unset.
	db database.Service

	// handler serves the plan, image and speech endpoints.
	handler *coach.Handler

	// limiter throttles the provider-backed endpoints per client IP.
	limiter *utility.RateLimiter
}

// New assembles a Server from already-built services.
func New(cfg config.Config, svc coach.Services, db database.Service) *Server {
	return &Server{
		cfg:     cfg,
		db:      db,
		handler: coach.NewHandler(cfg, svc, db),
		limiter: utility.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window),
	}
}

// NewServer returns a configured *http.Server with production network
// timeouts. The write timeout outlasts the plan budget so a fallback plan is
// still written when Gemini hangs.
func NewServer(cfg config.Config, svc coach.Services, db database.Service) *http.Server {
	newApp := New(cfg, svc, db)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      newApp.RegisterRoutes(), // Injected from routes.go
		IdleTimeout:  time.Minute,             // Time to wait for the next request on keep-alive connections.
		ReadTimeout:  10 * time.Second,        // Maximum duration for reading the entire request.
		WriteTimeout: cfg.WriteTimeout,        // Maximum duration before timing out writes of the response.
	}

	return server
}
