package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BinkaDev/gachabox/internal/catalog"
	"github.com/BinkaDev/gachabox/internal/config"
	"github.com/BinkaDev/gachabox/internal/fetch"
	"github.com/BinkaDev/gachabox/internal/httpserver"
	"github.com/BinkaDev/gachabox/internal/i18n"
	"github.com/BinkaDev/gachabox/internal/observability"
	"github.com/BinkaDev/gachabox/internal/view"
)

const shutdownBudget = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gachabox: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid configuration: %v", verr.Fields())
		}
		return err
	}

	baseLogger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = baseLogger.Sync() }()
	logger := baseLogger.Named("gachabox")
	ctx = observability.WithLogger(ctx, logger)

	bundle, err := i18n.LoadDefault(cfg.I18n.DefaultLang)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	labels, err := i18n.LoadLabels(cfg.I18n.LabelsFile)
	if err != nil {
		return err
	}
	text, err := view.NewTextFormatter(cfg.Catalog.DescriptionFormat)
	if err != nil {
		return err
	}

	source, closeSource, err := fetch.NewSource(ctx, cfg.Catalog.DataBase, nil, fetch.GCSOptions(cfg.Catalog.GCS.Endpoint, cfg.Catalog.GCS.Anonymous)...)
	if err != nil {
		return fmt.Errorf("open data source: %w", err)
	}
	defer func() {
		if err := closeSource(); err != nil {
			logger.Warn("data source close error", zap.Error(err))
		}
	}()
	fetcher := fetch.New(source, fetch.WithTimeout(cfg.Catalog.FetchTimeout))

	svc := catalog.NewService(
		catalog.NewLoader(fetcher, cfg.Catalog.BoxesPath),
		catalog.WithLogger(logger.Named("catalog")),
	)

	templatesDir := ""
	if cfg.Dev.Enabled {
		templatesDir = cfg.Dev.TemplatesDir
	}
	server, err := httpserver.New(httpserver.Config{
		Address:      cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Logger:       logger.Named("http"),
		Catalog:      svc,
		Items:        catalog.NewItemLoader(fetcher, cfg.Catalog.ItemsDir),
		Images:       fetcher,
		ImagesDir:    cfg.Catalog.ImagesDir,
		Bundle:       bundle,
		Labels:       labels,
		Text:         text,
		TemplatesDir: templatesDir,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("gachabox listening",
			zap.String("addr", server.Addr),
			zap.String("data_base", cfg.Catalog.DataBase),
			zap.Bool("dev", cfg.Dev.Enabled),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		// Failures are recorded in the snapshot; the page shows them.
		_ = svc.Reload(gctx)
		return svc.Run(gctx, cfg.Catalog.RefreshInterval)
	})

	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				logger.Info("reload requested")
				_ = svc.Reload(gctx)
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received; draining requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownBudget)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
