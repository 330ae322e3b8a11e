package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"furniadmin/catalog-service/internal/app/catalog/config"
	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/catalog-service/internal/app/catalog/handler"
	"furniadmin/catalog-service/internal/app/catalog/manifest"
	"furniadmin/catalog-service/internal/app/catalog/processor"
	"furniadmin/pkg/logger"
)

const serviceName = "catalog-service"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Furniture catalog importer for the admin console",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newServeCmd(), newReconcileCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin HTTP API and the scheduled import",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

type reconcileOptions struct {
	manifestPath string
	dryRun       bool
}

func newReconcileCmd() *cobra.Command {
	var opts reconcileOptions

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one catalog import and print the summary as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runReconcile(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.manifestPath, "manifest", "", "Manifest file (YAML or JSON), default: IMPORT_MANIFEST_PATH or the embedded manifest")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report what would be created without writing to the store")

	return cmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(serviceName, cfg.Log.Level)

	if cfg.Log.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.Log.LogstashAddr, serviceName, cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.Log.LogstashAddr).Msg("Connected to Logstash")
		}
	}

	return cfg, nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	app, err := buildApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	// === ПЛАНИРОВЩИК ИМПОРТА ===
	var scheduler *processor.CronScheduler
	if cfg.Import.Schedule != "" {
		scheduler = processor.NewCronScheduler(app.importService, processor.FileManifest(cfg.Import.ManifestPath))
		if err := scheduler.Start(context.Background(), cfg.Import.Schedule, cfg.Import.RunOnStart); err != nil {
			return fmt.Errorf("failed to start import scheduler: %w", err)
		}
	}

	// === HTTP ===
	importHandler := handler.NewImportHandler(app.importService)
	healthHandler := handler.NewHealthHandler(app.critical, app.optional)
	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	router := handler.SetupRoutes(importHandler, healthHandler, authMiddleware, cfg.Server.AllowedOrigins)

	// Полный импорт по умолчанию идет дольше обычного запроса
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("store", cfg.Import.StoreBackend).
			Str("lock", cfg.Import.LockBackend).
			Msg("Starting Catalog Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	}

	logger.Info().Msg("Shutting down Catalog Service...")

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("Catalog Service stopped gracefully")
	return nil
}

func runReconcile(ctx context.Context, cfg *config.Config, opts reconcileOptions) error {
	path := opts.manifestPath
	if path == "" {
		path = cfg.Import.ManifestPath
	}

	var m *manifest.Manifest
	if path != "" {
		loaded, err := manifest.LoadFile(path)
		if err != nil {
			return err
		}
		m = loaded
	}

	app, err := buildApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	run := app.importService.Run
	if opts.dryRun {
		run = app.importService.DryRun
	}

	summary, err := run(ctx, entity.TriggerCLI, m)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	if len(summary.Errors) > 0 {
		return fmt.Errorf("import finished with %d errors", len(summary.Errors))
	}
	return nil
}
