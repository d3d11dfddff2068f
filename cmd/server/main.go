// Package main initializes and starts the task API server, setting up
// configuration, logging, the database, services, handlers and graceful
// shutdown.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTasks/internal/ai"
	"github.com/atinyakov/GophTasks/internal/config"
	"github.com/atinyakov/GophTasks/internal/db"
	"github.com/atinyakov/GophTasks/internal/logger"
	"github.com/atinyakov/GophTasks/internal/metrics"
	"github.com/atinyakov/GophTasks/internal/repository"
	"github.com/atinyakov/GophTasks/internal/server/handler/http"
	"github.com/atinyakov/GophTasks/internal/service"
	"github.com/atinyakov/GophTasks/internal/token"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse command-line, environment and file configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	if err := db.SeedPredefinedTags(ctx, postgresDB, zapLogger); err != nil {
		zapLogger.Fatal("cannot seed predefined tags", zap.Error(err))
	}

	store := repository.NewStore(postgresDB)
	tokens := token.NewManager(options.JWTSecret, options.JWTTTL)
	m := metrics.New()

	aiCfg := ai.Config{
		APIKey:  options.AIKey,
		Model:   options.AIModel,
		BaseURL: options.AIBaseURL,
		Timeout: options.AITimeout,
	}
	if !aiCfg.IsConfigured() {
		zapLogger.Warn("PERPLEXITY_API_KEY is not set, AI endpoints will answer 503")
	}

	// Create HTTP handlers on top of the business-logic services.
	handlers := http.Handlers{
		Auth:     &http.AuthHandler{AuthService: service.NewAuthService(store, tokens), Log: zapLogger},
		Projects: &http.ProjectHandler{ProjectService: service.NewProjectService(store), Log: zapLogger},
		Todos:    &http.TodoHandler{TodoService: service.NewTodoService(store), Log: zapLogger},
		Tags:     &http.TagHandler{TagService: service.NewTagService(store), Log: zapLogger},
		AI: &http.AIHandler{
			AIService: ai.NewGateway(aiCfg, ai.NewPerplexityClient(aiCfg), m, zapLogger),
			Log:       zapLogger,
		},
		Health: &http.HealthHandler{DB: store, Log: zapLogger},
	}

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           http.NewRouter(handlers, tokens, m, zapLogger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      options.AITimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
