// cmd/server is the application entry point. It wires together the store
// driver, the mailer, the service and the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mdupont/wedding-rsvp/internal/config"
	"github.com/mdupont/wedding-rsvp/internal/handler"
	"github.com/mdupont/wedding-rsvp/internal/mailer"
	"github.com/mdupont/wedding-rsvp/internal/service"
	"github.com/mdupont/wedding-rsvp/internal/store"
	"github.com/mdupont/wedding-rsvp/internal/store/memory"
	"github.com/mdupont/wedding-rsvp/internal/store/postgres"
	"github.com/mdupont/wedding-rsvp/internal/store/sheets"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	ctx := context.Background()

	st, cleanup, err := newStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store")
	}
	defer cleanup()
	log.Info().Str("driver", cfg.StoreDriver).Msg("store ready")

	// The mailer is optional: without SMTP settings the site still records
	// responses, it just sends no confirmations.
	var m service.Mailer
	if cfg.SMTP.Host != "" {
		smtp, err := mailer.New(cfg.SMTP, log)
		if err != nil {
			log.Fatal().Err(err).Msg("mailer")
		}
		m = smtp
	} else {
		log.Warn().Msg("SMTP not configured, notifications disabled")
	}

	svc := service.New(st, m, cfg.LodgingCapacity, log)
	h := handler.New(svc)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.Logger(log))
	r.Use(handler.CORS)

	r.Get("/health", handler.HealthCheck)
	h.Routes(r)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// newStore selects the persistence backend from STORE_DRIVER.
func newStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case "sheets":
		st, err := sheets.New(ctx, cfg.Sheets, log)
		if err != nil {
			return nil, nil, err
		}
		return st, func() {}, nil
	case "postgres":
		st, err := postgres.New(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case "memory":
		return memory.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
