package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/zdziszkee/swiftatlas/internal/api/handlers"
	"github.com/zdziszkee/swiftatlas/internal/api/router"
	config "github.com/zdziszkee/swiftatlas/internal/configurations"
	"github.com/zdziszkee/swiftatlas/internal/database"
	"github.com/zdziszkee/swiftatlas/internal/loader"
	"github.com/zdziszkee/swiftatlas/internal/logging"
	"github.com/zdziszkee/swiftatlas/internal/metrics"
	parser "github.com/zdziszkee/swiftatlas/internal/parsers"
	"github.com/zdziszkee/swiftatlas/internal/readers/csv"
	repository "github.com/zdziszkee/swiftatlas/internal/repositories"
	service "github.com/zdziszkee/swiftatlas/internal/services"
	"github.com/zdziszkee/swiftatlas/internal/store"
	"github.com/zdziszkee/swiftatlas/internal/store/memstore"
	"github.com/zdziszkee/swiftatlas/internal/store/mongostore"
	"github.com/zdziszkee/swiftatlas/internal/store/sqlstore"
)

// openCollection connects the configured store. The returned func releases it.
func openCollection(ctx context.Context, cfg database.Config, logger *zap.Logger) (store.Collection, func(), error) {
	switch {
	case cfg.IsSQL():
		db, err := database.New(cfg, logger.Named("database"))
		if err != nil {
			return nil, nil, err
		}
		return sqlstore.New(db), func() { db.Close() }, nil

	case cfg.Type == database.TypeMongoDB:
		coll, disconnect, err := mongostore.Connect(ctx, cfg, logger.Named("mongodb"))
		if err != nil {
			return nil, nil, err
		}
		return coll, func() {
			if err := disconnect(context.Background()); err != nil {
				logger.Warn("failed to disconnect from mongodb", zap.Error(err))
			}
		}, nil

	case cfg.Type == database.TypeMemory:
		logger.Warn("using the in-memory store, data will not survive a restart")
		return memstore.New(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
}

func run() error {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	loadFile := flag.String("load", "", "Path to SWIFT codes CSV file to load")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override config with command line flags if provided
	if *loadFile != "" {
		cfg.Data.SwiftCodesFile = *loadFile
		cfg.Data.AutoLoad = true
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.With(zap.String("app", cfg.AppName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	coll, closeStore, err := openCollection(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	repo := repository.NewSwiftRepository(coll, logger)
	swiftService := service.NewSwiftService(repo, logger, m)

	if cfg.Data.AutoLoad && cfg.Data.SwiftCodesFile != "" {
		logger.Info("loading swift codes", zap.String("file", cfg.Data.SwiftCodesFile))

		loadCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		l := loader.New(&csv.CSVSwiftBanksReader{}, parser.DefaultSwiftBanksParser{Logger: logger.Named("parser")}, repo, logger, m)
		_, err := l.LoadFile(loadCtx, cfg.Data.SwiftCodesFile)
		cancel()
		if err != nil {
			logger.Warn("failed to load swift codes", zap.Error(err))
		}

		total, err := repo.Count(ctx, store.Filter{})
		if err != nil {
			logger.Warn("failed to count swift codes", zap.Error(err))
		} else {
			logger.Info("swift codes available", zap.Int64("total", total))
		}
	}

	app := router.SetupRoutes(handlers.NewSwiftHandler(swiftService, logger), logger, registry)

	listenErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("starting server", zap.String("addr", addr))
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
