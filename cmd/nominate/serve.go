package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nominate-go/internal/ai"
	"github.com/linskybing/nominate-go/internal/api/middleware"
	"github.com/linskybing/nominate-go/internal/api/routes"
	"github.com/linskybing/nominate-go/internal/application"
	"github.com/linskybing/nominate-go/internal/autosave"
	"github.com/linskybing/nominate-go/internal/config"
	"github.com/linskybing/nominate-go/internal/config/db"
	"github.com/linskybing/nominate-go/internal/cron"
	"github.com/linskybing/nominate-go/internal/realtime"
	"github.com/linskybing/nominate-go/internal/repository"
	"github.com/linskybing/nominate-go/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	config.LoadConfig()
	middleware.Init()

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	gdb, err := db.Open(db.DSN())
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}

	order, err := config.LoadCategoryOrder(config.CategoryOrderFile)
	if err != nil {
		return err
	}

	store, err := storage.NewMinioStore(ctx, storage.MinioOptions{
		Endpoint:  config.MinioEndpoint,
		AccessKey: config.MinioAccessKey,
		SecretKey: config.MinioSecretKey,
		UseSSL:    config.MinioUseSSL,
		Bucket:    config.MinioBucket,
		PublicURL: config.MinioPublicURL,
	}, logger)
	if err != nil {
		return err
	}

	var generator ai.Generator
	if config.GenAIAPIKey != "" {
		generator, err = ai.NewGenAIClient(ctx, config.GenAIAPIKey, config.GenAIModel)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("GENAI_API_KEY not set, AI generation and assistance are disabled")
	}

	services := application.New(application.Deps{
		Repos:     repository.NewRepositories(gdb),
		Store:     store,
		Generator: generator,
		Hub:       realtime.NewHub(logger),
		Order:     order,
		Autosave:  autosave.Options{Window: config.AutosaveDebounce},
		Logger:    logger,
	})

	cron.StartCleanupTask(ctx, services.Audit, services.Draft, config.AuditRetentionDays, logger)

	if config.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(config.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware(logger))
	routes.RegisterRoutes(router, services, logger)

	srv := &http.Server{
		Addr:              ":" + config.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if err := services.Shutdown(shutdownCtx); err != nil {
		logger.Error("draft autosave shutdown", zap.Error(err))
	}
	return nil
}
