package main

import (
	"context"
	"flag"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"github.com/GoSim-25-26J-441/launch-search/internal/metrics"
	"github.com/GoSim-25-26J-441/launch-search/internal/searchd"
	"github.com/GoSim-25-26J-441/launch-search/pkg/logger"
)

func main() {
	var settingsPath string
	flag.StringVar(&settingsPath, "settings", "", "settings file (yaml, toml or json)")
	flag.Parse()

	cfg, err := loadSettings(newViper(), settingsPath)
	if err != nil {
		logger.Error("invalid settings", "error", err)
		os.Exit(1)
	}
	logger.SetDefault(logger.NewText(cfg.LogLevel, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	collector := metrics.NewCollector()
	store := searchd.NewSearchStore()
	executor := searchd.NewSearchExecutor(store, collector, searchd.NewNotifier(cfg.NotifyRetries, nil))

	grpcServer := grpc.NewServer()
	searchd.RegisterSearchServiceServer(grpcServer, searchd.NewSearchGRPCServer(store, executor))

	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen for gRPC", "addr", cfg.GRPCAddr, "error", err)
		stop()
		os.Exit(1)
	}

	opts := []searchd.HTTPOption{searchd.WithMetricsHandler(collector)}
	if cfg.RateLimitRPS > 0 {
		opts = append(opts, searchd.WithRateLimiter(searchd.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateBurst)))
	}
	api := searchd.NewHTTPServer(store, executor, opts...)
	api.StreamInterval = cfg.StreamInterval

	// No WriteTimeout: /stream holds the connection for the whole search.
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(grpcLis); err != nil {
			logger.Error("gRPC server error", "error", err)
			stop()
		}
	}()

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr,
			"rate_limit_rps", cfg.RateLimitRPS, "rate_burst", cfg.RateBurst)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	for _, rec := range store.List(math.MaxInt, 0, searchd.StatusRunning) {
		if _, err := executor.Stop(rec.ID); err != nil {
			logger.Warn("failed to stop search", "search_id", rec.ID, "error", err)
		}
	}

	grpcServer.GracefulStop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
}
