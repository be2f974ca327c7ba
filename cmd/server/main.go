// Package main is the entry point for the sample application.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/otelsample/internal/config"
	"github.com/vyrodovalexey/otelsample/internal/handlers"
	"github.com/vyrodovalexey/otelsample/internal/metrics"
	"github.com/vyrodovalexey/otelsample/internal/middleware"
	"github.com/vyrodovalexey/otelsample/internal/observability"
	"github.com/vyrodovalexey/otelsample/internal/server"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// shutdownTimeout bounds graceful shutdown of the server and the
// telemetry pipelines.
const shutdownTimeout = 30 * time.Second

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	cfg := loadConfig(flags)

	obs := observability.New(&cfg.Observability)
	if err := obs.Start(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize observability: %v\n", err)
		os.Exit(1)
	}

	logger := obs.Logger()
	logger.Info("starting otel-sample-app",
		zap.String("version", version),
		zap.String("config", flags.configPath),
	)

	app := buildApplication(cfg, obs)
	run(app, flags.configPath, obs)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("SAMPLE_CONFIG_PATH", ""),
		"Path to configuration file (optional)")
	logLevel := flag.String("log-level", "",
		"Log level override (debug, info, warn, error)")
	logFormat := flag.String("log-format", "",
		"Log format override (json, console)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		showVersion: *showVersion,
	}
}

// printVersion prints version information and exits.
func printVersion() {
	fmt.Printf("otel-sample-app version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// loadConfig loads and validates the configuration, applying flag
// overrides.
func loadConfig(flags cliFlags) *config.Config {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if flags.logLevel != "" {
		cfg.Observability.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Observability.Logging.Format = flags.logFormat
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

// application holds all application components.
type application struct {
	server *server.Server
	store  *metrics.Metrics
	config *config.Config
}

// buildApplication wires the metrics store, handlers, middleware, and
// server.
func buildApplication(cfg *config.Config, obs *observability.Observability) *application {
	logger := obs.Logger()

	store := metrics.New("sample")
	store.SetBuildInfo(version, gitCommit, buildTime)

	srv := server.New(&server.Config{
		Port:         cfg.Server.Port,
		Address:      cfg.Server.Address,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}, logger.Logger)

	srv.Use(middleware.Recovery(logger.Logger))
	srv.Use(middleware.RequestID())
	srv.Use(middleware.LoggingWithConfig(middleware.LoggingConfig{
		Logger:    logger.Logger,
		SkipPaths: []string{"/metrics"},
	}))
	srv.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Observability.ServiceName,
		SkipPaths:   []string{"/metrics", "/health"},
	}))
	srv.Use(middleware.Metrics(store, obs.Instruments()))
	if cfg.RateLimit.Enabled {
		srv.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst, store))
	}

	h := handlers.New(logger.Named("handlers").Logger)
	srv.RegisterRoutes(h, store)

	return &application{
		server: srv,
		store:  store,
		config: cfg,
	}
}

// run starts the server and blocks until a shutdown signal arrives.
func run(app *application, configPath string, obs *observability.Observability) {
	logger := obs.Logger()

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.Start(context.Background())
	}()

	watcher := startConfigWatcher(configPath, obs)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if watcher != nil {
		_ = watcher.Stop()
	}

	if err := app.server.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop server gracefully", zap.Error(err))
	}

	if err := obs.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop observability", zap.Error(err))
	}

	logger.Info("otel-sample-app stopped")
}

// startConfigWatcher starts the configuration watcher driving runtime
// log level changes. Returns nil when no config file is in use.
func startConfigWatcher(configPath string, obs *observability.Observability) *config.Watcher {
	if configPath == "" {
		return nil
	}

	logger := obs.Logger()

	watcher, err := config.NewWatcher(configPath, func(newCfg *config.Config) {
		logger.Info("configuration changed, applying log level",
			zap.String("level", newCfg.Observability.Logging.Level),
		)
		obs.SetLogLevel(newCfg.Observability.Logging.Level)
	}, config.WithWatcherLogger(logger.Logger))

	if err != nil {
		logger.Warn("failed to create config watcher", zap.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		logger.Warn("failed to start config watcher", zap.Error(err))
		return nil
	}

	return watcher
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
