package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arzan03/CourseHub/internal/db"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Run serves app on addr until SIGINT/SIGTERM, then shuts down and closes
// the store.
func Run(app *fiber.App, addr string, store db.Store, logger zerolog.Logger) error {
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- app.Listen(addr)
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(osSignals)

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown")
	}

	return Shutdown(app, store, logger)
}

// Shutdown stops the HTTP server and closes the store
func Shutdown(app *fiber.App, store db.Store, logger zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
		errs = append(errs, err)
	}
	if err := store.Close(ctx); err != nil {
		logger.Error().Err(err).Msg("Store close error")
		errs = append(errs, err)
	}

	logger.Info().Msg("Server shutdown complete")
	return errors.Join(errs...)
}
