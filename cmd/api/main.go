package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course-analyzer/internal/config"
	"course-analyzer/internal/infra/fetcher"
	"course-analyzer/internal/infra/source"
	"course-analyzer/internal/observability/logging"
	"course-analyzer/internal/observability/tracing"
	"course-analyzer/internal/usecase/analysis"

	hhttp "course-analyzer/internal/handler/http"
	hanalysis "course-analyzer/internal/handler/http/analysis"
	"course-analyzer/internal/handler/http/requestid"
)

// maxRequestBody bounds request bodies. Every route is a GET.
const maxRequestBody = 64 << 10

func main() {
	logger := initLogger()

	cfg, err := config.LoadServerConfig()
	if err != nil {
		logger.Error("invalid server configuration", slog.Any("error", err))
		os.Exit(1)
	}

	engine, circuits, err := setupEngine(logger, cfg)
	if err != nil {
		logger.Error("failed to set up analysis engine", slog.Any("error", err))
		os.Exit(1)
	}

	handler := setupServer(logger, engine, circuits, cfg.Version)
	runServer(logger, cfg, handler)
}

// initLogger initializes the JSON logger from LOG_LEVEL and makes it the default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// setupEngine builds the configured sources and registers them in order.
func setupEngine(logger *slog.Logger, cfg config.ServerConfig) (*analysis.Engine, []hhttp.CircuitReporter, error) {
	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, nil, err
	}
	sourcesCfg, err := config.LoadSourcesConfig(cfg.SourcesPath)
	if err != nil {
		return nil, nil, err
	}

	factory := source.NewFactory(fetchCfg, nil)
	sources, err := factory.Build(sourcesCfg)
	if err != nil {
		return nil, nil, err
	}

	engine := analysis.NewEngine(cfg.EngineConfig())
	for _, s := range sources {
		engine.RegisterSource(s)
	}

	circuits := make([]hhttp.CircuitReporter, 0, len(factory.Clients()))
	for _, c := range factory.Clients() {
		circuits = append(circuits, c)
	}

	logger.Info("analysis engine ready",
		slog.Int("sources", len(sources)),
		slog.String("sources_config", cfg.SourcesPath),
		slog.Bool("strict_alignment", cfg.StrictAlignment),
		slog.Duration("fetch_timeout", fetchCfg.Timeout),
		slog.Int("fetch_max_attempts", fetchCfg.MaxAttempts))
	return engine, circuits, nil
}

// setupServer registers the routes and wraps them in the middleware chain.
func setupServer(logger *slog.Logger, engine *analysis.Engine, circuits []hhttp.CircuitReporter, version string) http.Handler {
	mux := http.NewServeMux()

	hanalysis.Register(mux, engine, logger)
	mux.Handle("GET /health", &hhttp.HealthHandler{Engine: engine, Circuits: circuits, Version: version})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	routes := append([]string{"/health", "/live", "/metrics"}, hanalysis.Routes...)

	// 外側から順に適用される
	return hhttp.Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.MetricsMiddleware(routes...),
		hhttp.AllowMethods(http.MethodGet, http.MethodHead),
		hhttp.LimitRequest(maxRequestBody),
	)
}

// runServer starts the HTTP server and shuts it down gracefully on SIGINT or SIGTERM.
func runServer(logger *slog.Logger, cfg config.ServerConfig, handler http.Handler) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
