package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"lotto_fetcher/internal/config"
	"lotto_fetcher/internal/httpapi"
	"lotto_fetcher/internal/publisher"
	"lotto_fetcher/internal/scheduler"
	"lotto_fetcher/internal/service"
	"lotto_fetcher/internal/source/dhlottery"
	"lotto_fetcher/internal/storage/mongodb"
	"lotto_fetcher/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single sync and exit")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	draws, closeStore, err := openDrawStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open draw store", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Initialize RabbitMQ publisher
	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	source := dhlottery.New(dhlottery.Config{
		SummaryURL: cfg.Source.SummaryURL,
		RanksURL:   cfg.Source.RanksURL,
		Timeout:    cfg.Source.Timeout,
		UserAgent:  cfg.Source.UserAgent,
	}, logger)

	syncService := service.NewSyncService(source, draws, pub, logger)

	if *once {
		if _, err := syncService.Sync(ctx); err != nil {
			logger.Error("sync failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg, syncService, logger); err != nil {
		logger.Error("syncer stopped with error", "error", err)
		os.Exit(1)
	}
}

// run starts the enabled triggers and blocks until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, syncer *service.SyncService, logger *slog.Logger) error {
	if !*cfg.Schedule.Enabled && !*cfg.HTTP.Enabled {
		return errors.New("both schedule and http triggers are disabled")
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	if *cfg.Schedule.Enabled {
		loc, err := cfg.Schedule.Location()
		if err != nil {
			return fmt.Errorf("load timezone: %w", err)
		}

		sched := scheduler.NewScheduler(syncer, cfg.Schedule.Cron, loc, logger)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("scheduler: %w", err)
			}
		}()
	}

	if *cfg.HTTP.Enabled {
		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           httpapi.NewHandler(syncer, logger).Router(cfg.HTTP.TriggerPath),
			ReadHeaderTimeout: 10 * time.Second,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("http trigger listening", "addr", cfg.HTTP.Addr, "path", cfg.HTTP.TriggerPath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server: %w", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http shutdown failed", "error", err)
			}
		}()
	}

	logger.Info("starting lotto syncer",
		"storage", cfg.Storage.Driver,
		"schedule", cfg.Schedule.Cron,
		"timezone", cfg.Schedule.Timezone,
		"publisher", cfg.RabbitMQ.Enabled,
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	wg.Wait()
	return nil
}

func openDrawStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.DrawStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		logger.Info("connected to database")
		return postgres.NewDrawStore(db), func() { db.Close() }, nil

	default:
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		client, err := mongodb.NewClient(connectCtx, cfg.MongoDB.URI)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to mongodb: %w", err)
		}
		store := mongodb.NewDrawStore(client.Database(cfg.MongoDB.Database), cfg.MongoDB.Collection)
		if err := store.EnsureIndexes(connectCtx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		logger.Info("connected to mongodb",
			"database", cfg.MongoDB.Database,
			"collection", cfg.MongoDB.Collection,
		)
		return store, func() { _ = client.Disconnect(context.Background()) }, nil
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
