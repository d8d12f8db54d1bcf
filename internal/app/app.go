package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat-server/internal/config"
	"github.com/vovakirdan/relaychat-server/internal/core"
	"github.com/vovakirdan/relaychat-server/internal/store"
	"github.com/vovakirdan/relaychat-server/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/relaychat-server/internal/transport/http"
	transporttcp "github.com/vovakirdan/relaychat-server/internal/transport/tcp"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	tcpServer       *transporttcp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	ledger          store.Ledger
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	ledger, err := sqlite.New(cfg.LedgerPath)
	if err != nil {
		return nil, fmt.Errorf("init ledger: %w", err)
	}

	logger.Info().Str("ledger_path", cfg.LedgerPath).Msg("message ledger initialized")

	hub := core.NewHub(ledger, logger)
	server := transporthttp.NewServer(hub, *cfg, logger)

	var tcpServer *transporttcp.Server
	if cfg.TCPAddr != "" {
		tcpServer = transporttcp.NewServer(cfg.TCPAddr, hub, logger)
	}

	return &App{
		server:          server,
		tcpServer:       tcpServer,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		ledger:          ledger,
		log:             logger,
	}, nil
}

// Run starts the hub and both transports, blocking until context cancellation
// or a fatal listener error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 2)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	if a.tcpServer != nil {
		go func() {
			serverErr <- a.tcpServer.ListenAndServe(ctx)
		}()
	}

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the ledger and other resources.
func (a *App) cleanup() {
	if a.ledger != nil {
		if err := a.ledger.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close ledger")
		} else {
			a.log.Info().Msg("ledger closed")
		}
	}
}
