package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"docvault/docs"
	"docvault/internal/config"
	"docvault/internal/database"
	"docvault/internal/database/migration"
	handlers "docvault/internal/http/handler"
	"docvault/internal/http/middleware"
	"docvault/internal/logging"
	"docvault/internal/metrics"
	apptrace "docvault/internal/otel"
	"docvault/internal/repository/postgres"
	"docvault/internal/service"
	"docvault/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), config.Load(), skipMigrate)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not create the schema on startup")
	return cmd
}

func serve(ctx context.Context, cfg *config.AppConfig, skipMigrate bool) error {
	logger, _ := logging.Setup(cfg.Log)

	shutdownTracing, err := apptrace.Init(ctx, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if !skipMigrate {
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := newServer(cfg, logger, db, reg)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("version", Version).Msg("listening")
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	return app.ShutdownWithTimeout(shutdownTimeout)
}

// newServer wires storage, repositories and services into a ready fiber app.
func newServer(cfg *config.AppConfig, logger zerolog.Logger, db *sql.DB, reg *prometheus.Registry) (*fiber.App, error) {
	store, err := newFileStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init file store: %w", err)
	}
	chunks, err := storage.NewLocalChunks(cfg.Storage.TempRoot, logger)
	if err != nil {
		return nil, fmt.Errorf("init chunk store: %w", err)
	}

	storageMetrics, err := metrics.NewStorage(reg)
	if err != nil {
		return nil, fmt.Errorf("register storage metrics: %w", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg, "/health", "/healthz")
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	opts := service.Options{
		MaxFileSize: cfg.Storage.MaxFileSize,
		Logger:      logger,
		Metrics:     storageMetrics,
	}
	sink := service.NewLogAuditSink(logger)

	docRepo := postgres.NewDocumentPostgres(db)
	folderRepo := postgres.NewFolderPostgres(db)
	quota := service.NewQuotaGuard(docRepo, cfg.Storage.UserQuota)

	docSvc := service.NewDocumentService(store, docRepo, folderRepo, quota, sink, opts)
	folderSvc := service.NewFolderService(folderRepo, docRepo, sink, opts)
	svcs := handlers.Services{
		Documents: service.TraceDocuments(docSvc),
		Chunks:    service.TraceChunks(service.NewChunkUploadService(chunks, store, docSvc, quota, sink, opts)),
		Folders:   service.TraceFolders(folderSvc),
		Archives:  service.TraceArchives(service.NewArchiveService(store, docRepo, folderSvc, sink, opts)),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             int(cfg.BodyLimit),
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	app.Use(middleware.RequestID(logger))
	app.Use(middleware.Logger(logger))
	app.Use(httpMetrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(otelhttp.NewHandler(
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), "metrics",
	)))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}
		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, db, svcs)
	return app, nil
}

func newFileStore(cfg *config.AppConfig, logger zerolog.Logger) (storage.FileStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendLocal:
		return storage.NewLocal(cfg.Storage.Root, logger)
	case config.BackendMinIO:
		return storage.NewMinIO(cfg.MinIO, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
