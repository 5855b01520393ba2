// Command sourceverify-monitor runs the long-lived chain monitor: one block
// walker per configured chain, feeding newly created contracts through
// source assembly and injection (spec §4.D-H).
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/sourceverify/internal/config"
	"github.com/goodnatureofminers/sourceverify/internal/metrics"
	"github.com/goodnatureofminers/sourceverify/internal/monitor"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, params, err := config.Load(os.Args)
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to load config", zap.Error(err))
	}

	if err := run(ctx, *cfg, *params, logger); err != nil {
		logger.Fatal("monitor failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.EnvConfig, params monitor.Params, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	m, err := monitor.New(params, logger, monitor.Metrics{
		Fetcher:      metrics.NewFetcher(),
		ChainMonitor: metrics.NewChainMonitor(),
		Repository:   metrics.NewRepository(),
		InjectorRPC:  metrics.NewEVMRPCClient(),
	})
	if err != nil {
		return err
	}

	return m.Start(ctx)
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
