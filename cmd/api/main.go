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
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/propfi-txbuilder/internal/adapter"
	"github.com/feral-file/propfi-txbuilder/internal/api/middleware"
	"github.com/feral-file/propfi-txbuilder/internal/api/server"
	"github.com/feral-file/propfi-txbuilder/internal/api/shared/executor"
	"github.com/feral-file/propfi-txbuilder/internal/composer"
	"github.com/feral-file/propfi-txbuilder/internal/config"
	"github.com/feral-file/propfi-txbuilder/internal/ledger"
	"github.com/feral-file/propfi-txbuilder/internal/logger"
	"github.com/feral-file/propfi-txbuilder/internal/messaging"
	"github.com/feral-file/propfi-txbuilder/internal/providers/jetstream"
	"github.com/feral-file/propfi-txbuilder/internal/ratelimit"
	"github.com/feral-file/propfi-txbuilder/internal/registry"
	"github.com/feral-file/propfi-txbuilder/internal/rules"
	"github.com/feral-file/propfi-txbuilder/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "propfi-api",
			"network": string(cfg.Protocol.Network),
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting PropFi transaction builder API", zap.String("network", string(cfg.Protocol.Network)))

	// Initialize adapters
	fs := adapter.NewFileSystem()
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()

	// Load contract registry
	mode, err := registry.ParseMode(cfg.Contracts.Mode)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid contracts mode", zap.Error(err))
	}
	contracts := registry.NewLazy(registry.NewLoader(fs, jsonAdapter, mode), cfg.Contracts.BlueprintPath)
	loaded, err := contracts.Preload()
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load contract blueprint",
			zap.Error(err),
			zap.String("path", cfg.Contracts.BlueprintPath),
			zap.String("mode", string(mode)))
	}
	logger.InfoCtx(ctx, "Loaded contract blueprint",
		zap.String("path", cfg.Contracts.BlueprintPath),
		zap.String("mode", string(mode)),
		zap.Any("available", loaded.Summary()))

	// Ledger interaction service
	ledgerClient := adapter.NewHTTPClient(cfg.Ledger.Timeout, cfg.Ledger.Headers())
	ledgerService := ledger.NewHTTPService(cfg.Ledger.BaseURL, ledgerClient, jsonAdapter)

	// Transaction composer
	stablecoins, err := cfg.Protocol.AcceptedStablecoins()
	if err != nil {
		logger.FatalCtx(ctx, "Invalid stablecoin configuration", zap.Error(err))
	}
	labels := rules.DefaultLabels()
	if cfg.Protocol.ReferenceLabel != "" {
		labels.Reference = cfg.Protocol.ReferenceLabel
	}
	if cfg.Protocol.UserLabel != "" {
		labels.User = cfg.Protocol.UserLabel
	}
	txComposer := composer.New(composer.Config{
		Network:           cfg.Protocol.Network,
		Labels:            labels,
		Stablecoins:       stablecoins,
		MinUserLovelace:   cfg.Protocol.MinUserLovelace,
		MinScriptLovelace: cfg.Protocol.MinScriptLovelace,
		FetchWorkers:      cfg.Composer.FetchWorkers,
		FetchQueueSize:    cfg.Composer.FetchQueueSize,
	}, contracts, ledgerService, clock)
	defer txComposer.Close()

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)
	dataStore := store.NewPGStore(db)

	// Event publisher
	var publisher messaging.Publisher
	if cfg.NATS.Enabled() {
		publisher, err = jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create event publisher", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Connected to NATS", zap.String("stream", cfg.NATS.StreamName))
	} else {
		logger.WarnCtx(ctx, "NATS not configured, prepared transaction events are disabled")
		publisher = messaging.NewNopPublisher()
	}
	defer publisher.Close()

	exec := executor.NewExecutor(txComposer, dataStore, publisher, clock, jsonAdapter, adapter.NewJCS())

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter(cfg.RateLimit, clock)
		logger.InfoCtx(ctx, "Client rate limiting enabled",
			zap.Float64("requests_per_second", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst))
	}

	// Create server config
	serverConfig := server.Config{
		Debug:              cfg.Debug,
		Host:               cfg.Server.Host,
		Port:               cfg.Server.Port,
		ReadTimeout:        time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:       time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:        time.Duration(cfg.Server.IdleTimeout) * time.Second,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
		RateLimiter: limiter,
	}
	srv := server.New(serverConfig, exec)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
