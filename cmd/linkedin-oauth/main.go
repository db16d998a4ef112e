// Package main runs the LinkedIn OAuth 2.0 login service
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"

	"github.com/wrale/linkedin-oauth/internal/linkedin"
	"github.com/wrale/linkedin-oauth/internal/oauth"
	"github.com/wrale/linkedin-oauth/internal/state"
)

// Version is set by the build process
var Version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	serviceCfg, err := cfg.serviceConfig()
	if err != nil {
		return fmt.Errorf("configuring LinkedIn client: %w", err)
	}
	assembler := linkedin.NewAssembler(serviceCfg, linkedin.WithEndpoints(cfg.endpoints()))

	provider, err := oauth.NewLinkedInProvider(assembler, cfg.providerConfig(logger))
	if err != nil {
		return fmt.Errorf("creating LinkedIn provider: %w", err)
	}

	// State store: Redis when configured so several replicas share state
	var store state.Store = state.NewMemoryStore(state.WithMaxEntries(cfg.StateMaxEntries))
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parsing Redis URL: %w", err)
		}
		redisClient = redis.NewClient(redisOpts)

		// Verify Redis connection
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connecting to Redis: %w", err)
		}
		store = state.NewRedisStore(redisClient)
	}
	states := state.NewManager(store, []byte(cfg.StateSecret), cfg.StateExpiry)

	srv := newServer(cfg, assembler, provider, states, logger)

	// Create HTTP server with proper timeout configurations
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("Server listening", "port", cfg.Port, "version", Version)
		serverErrors <- httpServer.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting server: %w", err)
		}

	case sig := <-shutdown:
		logger.Info("Starting shutdown", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down server", "error", err)
			if err := httpServer.Close(); err != nil {
				logger.Error("Error closing server", "error", err)
			}
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", "error", err)
		}
	}
	return nil
}
