package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"smakrik.se/web/internal/config"
	"smakrik.se/web/internal/content"
	"smakrik.se/web/internal/handlers"
	"smakrik.se/web/internal/httpserver"
	"smakrik.se/web/internal/i18n"
	"smakrik.se/web/internal/logging"
	"smakrik.se/web/internal/recipe"
	"smakrik.se/web/internal/status"
	"smakrik.se/web/internal/storage/sqlite"
	"smakrik.se/web/internal/webhook"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "smakrik:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("web", flag.ContinueOnError)
	envFile := fset.String("env-file", ".env", "dotenv file loaded before the environment")
	tmplDir := fset.String("templates", "", "templates directory reparsed per request in dev mode")
	addr := fset.String("addr", "", "HTTP listen address (overrides SMAKRIK_ADDR)")
	if err := fset.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(config.Options{DotEnvFiles: []string{*envFile}})
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Dev)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	srv, cleanup, err := buildServer(ctx, cfg, *tmplDir, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment), zap.Bool("dev", cfg.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildServer assembles the site's dependencies from cfg. The returned cleanup releases
// the submission journal.
func buildServer(ctx context.Context, cfg config.Config, templatesDir string, logger *zap.Logger) (*http.Server, func(), error) {
	cleanup := func() {}

	catalog, err := recipe.Default()
	if err != nil {
		return nil, cleanup, fmt.Errorf("load catalog: %w", err)
	}
	bundle, err := i18n.Default()
	if err != nil {
		return nil, cleanup, fmt.Errorf("load translations: %w", err)
	}

	var source fs.FS = content.Embedded()
	if cfg.ContentDir != "" {
		source = os.DirFS(cfg.ContentDir)
	}
	contentOpts := []content.Option{
		content.WithLogger(logger),
		content.WithFallbackLanguage(bundle.Fallback().String()),
	}
	if cfg.Dev {
		contentOpts = append(contentOpts, content.WithTTL(0))
	}
	store := content.New(source, contentOpts...)

	checks := []status.Check{httpserver.CatalogCheck(catalog)}
	hookOpts := []webhook.Option{
		webhook.WithTimeout(cfg.WebhookTimeout),
		webhook.WithLogger(logger),
	}
	if cfg.DBPath != "" {
		journal, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, cleanup, fmt.Errorf("open journal: %w", err)
		}
		cleanup = func() {
			if err := journal.Close(); err != nil {
				logger.Warn("close journal", zap.Error(err))
			}
		}
		if counts, err := journal.CountByStatus(ctx); err == nil {
			logger.Info("submission journal opened", zap.String("path", cfg.DBPath), zap.Any("counts", counts))
		}
		hookOpts = append(hookOpts, webhook.WithJournal(journal))
		checks = append(checks, status.Check{
			Name:     "journal",
			Optional: true,
			Probe: func(ctx context.Context) (string, error) {
				return "", journal.Ping(ctx)
			},
		})
	}
	hook := webhook.NewClient(cfg.WebhookURL, hookOpts...)
	checks = append(checks, webhookCheck(hook))

	srv, err := httpserver.New(httpserver.Config{
		Address:           cfg.Addr,
		BaseURL:           cfg.BaseURL,
		Dev:               cfg.Dev,
		TemplatesDir:      templatesDir,
		SecureCookies:     cfg.Production(),
		SessionSigningKey: []byte(cfg.SessionSigningKey),
		Analytics:         handlers.NewAnalytics(cfg.GAMeasurementID, cfg.Dev),
		Catalog:           catalog,
		Bundle:            bundle,
		Content:           store,
		Webhook:           hook,
		Health:            status.NewChecker(checks...),
		Logger:            logger,
	})
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return srv, cleanup, nil
}

// webhookCheck reports whether submissions leave the process.
func webhookCheck(c *webhook.Client) status.Check {
	return status.Check{
		Name:     "webhook",
		Optional: true,
		Probe: func(context.Context) (string, error) {
			if c.Endpoint() == "" {
				return "dry run", nil
			}
			return "configured", nil
		},
	}
}
