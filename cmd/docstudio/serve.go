package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"docstudio/internal/cache"
	"docstudio/internal/config"
	"docstudio/internal/database"
	"docstudio/internal/docs"
	"docstudio/internal/handlers"
	"docstudio/internal/logging"
	"docstudio/internal/navmenu"
	"docstudio/internal/render"
	"docstudio/internal/router"
	"docstudio/internal/session"
	"docstudio/internal/storage"
	"docstudio/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the docs site and studio server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logCloser, err := logging.Setup(logging.Options{Format: cfg.LogFormat, Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer logCloser.Close()

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	// Connect to Valkey (page cache + session store).
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return fmt.Errorf("connect to valkey: %w", err)
	}
	defer valkeyClient.Close()

	// Session cookies are Secure (HTTPS-only) outside development.
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		return fmt.Errorf("initialize template renderer: %w", err)
	}

	// Docs content: S3 bucket, DOCS_DIR or the embedded tree.
	bucket, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Prefix)
	if err != nil {
		return fmt.Errorf("initialize s3 storage: %w", err)
	}
	content, err := docs.OpenSource(ctx, cfg.DocsDir, bucket)
	if err != nil {
		return err
	}
	menus, err := navmenu.LoadFS(content.FS, cfg.MenusFile)
	if err != nil {
		return fmt.Errorf("load menus: %w", err)
	}
	libraries, err := docs.LoadLibraries(content.FS, menus)
	if err != nil {
		return fmt.Errorf("load reference libraries: %w", err)
	}
	guides := docs.NewGuides(content.FS, cfg.DocsEditBaseURL)
	slog.Info("docs content loaded", "source", content.Name, "menus", len(menus.Menus()))

	pageCache := cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)

	// Initialize data stores.
	projectStore := store.NewProjectStore(db)
	databaseStore := store.NewDatabaseStore(db)
	poolingStore := store.NewPoolingStore(db)
	addonStore := store.NewAddonStore(db)
	telemetryStore := store.NewTelemetryStore(db)

	docsHandlers := handlers.NewDocs(renderer, menus, guides, libraries, pageCache)
	connectHandlers := handlers.NewConnect(renderer, sessionStore, projectStore, databaseStore, poolingStore, addonStore, telemetryStore)
	authHandlers := handlers.NewAuth(renderer, sessionStore, projectStore)

	r, stopLimiters := router.New(sessionStore, docsHandlers, connectHandlers, authHandlers, secureCookies)
	defer stopLimiters()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
