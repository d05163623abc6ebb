package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FitCoach_V0.1/internal/coach"
	"FitCoach_V0.1/internal/config"
	"FitCoach_V0.1/internal/database"
	"FitCoach_V0.1/internal/domain"
	"FitCoach_V0.1/internal/observability"
	"FitCoach_V0.1/internal/server"
	"github.com/rs/zerolog/log"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// openAuditStore connects and migrates the audit database when one is
// configured. Without DATABASE_URL events are discarded. The returned func
// flushes queued events and closes the pool.
func openAuditStore(ctx context.Context, url string) (database.Service, domain.GenerationRecorder, func(), error) {
	if url == "" {
		log.Info().Msg("DATABASE_URL not set, generation audit log disabled")
		return nil, domain.NopRecorder{}, func() {}, nil
	}

	db, err := database.NewService(ctx, url)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	recorder := database.NewRecorder(db.Queries())
	closeStore := func() {
		recorder.Close()
		db.Close()
	}
	return db, recorder, closeStore, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	observability.SetupLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	db, recorder, closeStore, err := openAuditStore(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize the audit database")
	}
	defer closeStore() // Flush the audit queue and close the pool on exit.

	services := coach.NewServices(cfg, recorder)
	log.Info().
		Bool("gemini", cfg.Gemini.APIKey != "").
		Bool("elevenlabs", cfg.ElevenLabs.APIKey != "").
		Strs("image_tiers", services.Images.Tiers()).
		Int("port", cfg.Port).
		Msg("FitCoach API starting")

	server := server.NewServer(cfg, services, db)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(server, done)

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info().Msg("Graceful shutdown complete.")
}
