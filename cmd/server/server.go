// Package server implements the command that runs the HTTP API server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	api "github.com/Preetham2004H/plant-ml/internal/api/v2"
	"github.com/Preetham2004H/plant-ml/internal/catalog"
	"github.com/Preetham2004H/plant-ml/internal/classifier"
	"github.com/Preetham2004H/plant-ml/internal/conf"
	"github.com/Preetham2004H/plant-ml/internal/datastore"
	"github.com/Preetham2004H/plant-ml/internal/detection"
	"github.com/Preetham2004H/plant-ml/internal/gemini"
	"github.com/Preetham2004H/plant-ml/internal/logging"
	"github.com/Preetham2004H/plant-ml/internal/security"
	"github.com/Preetham2004H/plant-ml/internal/weather"
)

const shutdownTimeout = 10 * time.Second

// Command creates the server command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Run the plant disease detection API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), settings)
		},
	}
}

func runServer(ctx context.Context, settings *conf.Settings) error {
	log := logging.ForService("server")

	if settings.Main.Log.Enabled {
		level := slog.LevelInfo
		if settings.Debug {
			level = slog.LevelDebug
		}
		fileLog, closeLog, err := logging.NewFileLogger(settings.Main.Log.Path, settings.Main.Name, level)
		if err != nil {
			log.Warn("File logging unavailable", "path", settings.Main.Log.Path, "error", err)
		} else {
			log = fileLog
			defer func() {
				if err := closeLog(); err != nil {
					logging.Error("Failed to close log file", "error", err)
				}
			}()
		}
	}

	cat := catalog.New()

	// The local classifier is optional: without a model every detection
	// takes the Gemini fallback path.
	var cls detection.Classifier
	if settings.Classifier.ModelPath != "" {
		c, err := classifier.New(settings, cat.Size())
		if err != nil {
			log.Warn("Local classifier unavailable, all detections will use the AI fallback",
				"model_path", settings.Classifier.ModelPath, "error", err)
		} else {
			cls = c
			log.Info("Local classifier loaded", "model_path", settings.Classifier.ModelPath)
		}
	} else {
		log.Warn("No model path configured, all detections will use the AI fallback")
	}

	client, err := gemini.NewClient(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	advisor := gemini.NewAdvisor(client)

	store := datastore.New(settings)
	if store == nil {
		return fmt.Errorf("no database output enabled in configuration")
	}
	if err := store.Open(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	pipeline := detection.New(cat, cls, client, advisor, store, settings.Classifier.Threshold)
	weatherSvc := weather.NewService(settings)
	sessions := security.NewSessionManager(settings)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if settings.WebServer.Debug {
		e.Use(middleware.Logger())
	}

	api.New(e, settings, store, cat, pipeline, advisor, weatherSvc, sessions)

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", settings.WebServer.Port)
		if err := e.Start(":" + settings.WebServer.Port); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("HTTP server failed: %w", err)
	case sig := <-quit:
		log.Info("Shutting down", "signal", sig.String())
	case <-ctx.Done():
		log.Info("Shutting down", "reason", "context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
