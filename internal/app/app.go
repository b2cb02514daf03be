package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/bloxcord/bloxcord-server/internal/config"
	"github.com/bloxcord/bloxcord-server/internal/core"
	"github.com/bloxcord/bloxcord-server/internal/metadata"
	transporthttp "github.com/bloxcord/bloxcord-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	var avatars core.AvatarLookup
	var games core.GameMetadata
	if cfg.Metadata.Enabled {
		client := metadata.NewClient(metadata.Options{
			ThumbnailsBaseURL: cfg.Metadata.ThumbnailsBaseURL,
			UniversesBaseURL:  cfg.Metadata.UniversesBaseURL,
			GamesBaseURL:      cfg.Metadata.GamesBaseURL,
			RequestTimeout:    cfg.Metadata.RequestTimeout,
		}, logger)
		avatars = client
		games = client
		logger.Info().Msg("metadata enrichment enabled")
	}

	hub := core.NewHub(core.Options{
		DebounceWindow: cfg.DebounceWindow,
		Avatars:        avatars,
		Games:          games,
	})
	server := transporthttp.NewServer(hub, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		log:             logger,
	}
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
