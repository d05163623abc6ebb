// Package main provides the fitcoach operator CLI. It drives the same plan,
// image and speech services as the API without starting a server.
package main

import (
	"fmt"
	"os"

	"FitCoach_V0.1/internal/coach"
	"FitCoach_V0.1/internal/config"
	"FitCoach_V0.1/internal/domain"
	"FitCoach_V0.1/internal/observability"
)

const (
	Version = "0.1.0"
	appName = "fitcoach"
)

func main() {
	if err := rootCmd(loadServices).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadServices resolves configuration from the environment. The CLI keeps
// no audit log.
func loadServices(logLevel string) (coach.Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return coach.Services{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	observability.SetupLogger(logLevel, "console", os.Stderr)
	return coach.NewServices(cfg, domain.NopRecorder{}), nil
}
