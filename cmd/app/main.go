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

	"orderflow/cmd"
	httpadapter "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/pkg/logger"
	"orderflow/internal/pkg/tracing"

	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	l, err := logger.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, l); err != nil {
		l.Fatal("orderflow stopped", zap.Error(err))
	}
	l.Info("orderflow stopped")
}

func run(ctx context.Context, cfg cmd.Config, l *zap.Logger) error {
	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName: "orderflow",
		Environment: cfg.AppEnv,
		ExporterURL: cfg.OtelExporter,
		SampleRate:  cfg.OtelSampleRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	if cfg.OrderStore == cmd.StorePostgres {
		if err = postgres.Migrate(ctx, cfg.DSN()); err != nil {
			return err
		}
	}

	app, err := cmd.NewCompositionRoot(cfg, l)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			l.Warn("connections not closed cleanly", zap.Error(closeErr))
		}
	}()

	e, err := httpadapter.NewRouter(app.CreateServer(), l)
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	subscriber := app.CreateSubscriber()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return subscriber.Run(gctx)
	})

	g.Go(func() error {
		if startErr := jobManager.StartAll(gctx); startErr != nil {
			return startErr
		}
		<-gctx.Done()
		jobManager.StopAll()
		return nil
	})

	g.Go(func() error {
		l.Info("HTTP server listening", zap.String("port", cfg.HTTPPort))
		startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort))
		if errors.Is(startErr, http.ErrServerClosed) {
			return nil
		}
		return startErr
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	})

	return g.Wait()
}
