package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/intent-network/relayer/relayer-app/config"
	apisrv "github.com/intent-network/relayer/server/api"
	apimw "github.com/intent-network/relayer/server/api/middleware"
	"github.com/intent-network/relayer/x/agent"
	agenthttp "github.com/intent-network/relayer/x/agent/http"
	"github.com/intent-network/relayer/x/source"
	"github.com/intent-network/relayer/x/store"
	"github.com/intent-network/relayer/x/target"
)

// App represents the relayer application
type App struct {
	cfg   *config.Config
	log   zerolog.Logger
	agent *agent.Agent
	store store.Store

	// API server (HTTP)
	apiServer *apisrv.Server

	cancel context.CancelFunc
}

// NewApp creates a new application instance
func NewApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	app := &App{
		cfg: cfg,
		log: log.With().Str("component", "app").Logger(),
	}

	if err := app.initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}

	return app, nil
}

// initialize sets up the application components
func (a *App) initialize(ctx context.Context) error {
	src, err := source.NewHTTPClient(a.cfg.Source, nil, a.log)
	if err != nil {
		return fmt.Errorf("failed to create matching service client: %w", err)
	}

	tgt, err := target.NewEthTarget(ctx, a.cfg.Target, a.log)
	if err != nil {
		return fmt.Errorf("failed to create execution target: %w", err)
	}

	a.store = store.NewMemory()

	var m *agent.Metrics
	if a.cfg.Metrics.Enabled {
		m = agent.NewMetrics()
	}

	ag, err := agent.New(a.cfg.Agent, src, tgt, a.store, m, a.log)
	if err != nil {
		return fmt.Errorf("failed to create relay agent: %w", err)
	}
	a.agent = ag

	return a.initializeAPIServer()
}

// initializeAPIServer sets up the HTTP API server with all endpoints
func (a *App) initializeAPIServer() error {
	apiCfg := apisrv.Config{
		ListenAddr:        a.cfg.API.ListenAddr,
		ReadHeaderTimeout: a.cfg.API.ReadHeaderTimeout,
		ReadTimeout:       a.cfg.API.ReadTimeout,
		WriteTimeout:      a.cfg.API.WriteTimeout,
		IdleTimeout:       a.cfg.API.IdleTimeout,
		MaxHeaderBytes:    a.cfg.API.MaxHeaderBytes,
	}
	s := apisrv.NewServer(apiCfg, a.log)
	s.Use(apimw.Recover(a.log), apimw.RequestID(), apimw.Logger(a.log))

	// Metrics
	if a.cfg.Metrics.Enabled {
		s.Router.Handle(a.cfg.Metrics.Path,
			promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{})).
			Methods(http.MethodGet)
	}

	// Agent API
	handler := agenthttp.NewHandler(a.agent, a.store, a.log)
	handler.RegisterMux(s.Router)

	a.apiServer = s
	return nil
}

// Run starts the application and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if err := a.agent.Start(runCtx); err != nil {
		return fmt.Errorf("failed to start relay agent: %w", err)
	}

	go a.statsReporter(runCtx)

	// Start API server
	if a.apiServer != nil {
		go func() {
			if err := a.apiServer.Start(runCtx); err != nil {
				a.log.Error().Err(err).Msg("API server error")
			}
		}()
	}

	return a.runWithGracefulShutdown(runCtx)
}

// runWithGracefulShutdown handles shutdown signals.
func (a *App) runWithGracefulShutdown(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info().Msg("Intent relayer started successfully")

	select {
	case <-ctx.Done():
		a.log.Info().Msg("Context canceled, initiating shutdown")
	case sig := <-sigCh:
		a.log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	}

	if a.cancel != nil {
		a.cancel()
	}

	return a.shutdown()
}

// shutdown gracefully stops the agent. In-flight submissions complete before
// the process exits.
func (a *App) shutdown() error {
	a.log.Info().Msg("Initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.agent.Stop(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("Relay agent shutdown error")
		return err
	}

	a.log.Info().Msg("Graceful shutdown complete")
	return nil
}

// statsReporter periodically reports agent statistics.
func (a *App) statsReporter(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := a.agent.Stats()

			a.log.Info().
				Uint64("candidates_seen", snap.CandidatesSeen).
				Uint64("validated", snap.Validated).
				Uint64("rejected", snap.Rejected).
				Uint64("deferred", snap.Deferred).
				Uint64("successful_executions", snap.SuccessfulExecutions).
				Uint64("failed_executions", snap.FailedExecutions).
				Str("total_fee_spent", snap.TotalFeeSpent).
				Int("settled_count", a.store.SettledCount()).
				Msg("Relay agent statistics")
		}
	}
}
