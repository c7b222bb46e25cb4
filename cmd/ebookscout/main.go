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
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hanbitlee/ebookscout/cache"
	"github.com/hanbitlee/ebookscout/config"
	"github.com/hanbitlee/ebookscout/ratelimit"
	"github.com/hanbitlee/ebookscout/registry"
	"github.com/hanbitlee/ebookscout/search"
	"github.com/hanbitlee/ebookscout/server"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	listenAddr := flag.String("listen", cfg.ListenAddr, "API listen address")
	fetchTimeoutMs := flag.Int("fetch-timeout", int(cfg.FetchTimeout/time.Millisecond), "Per-provider fetch timeout (milliseconds)")
	cacheTTLMs := flag.Int("cache-ttl", int(cfg.CacheTTL/time.Millisecond), "Result cache TTL (milliseconds)")
	rateWindowMs := flag.Int("rate-window", int(cfg.RateWindow/time.Millisecond), "Rate limit window (milliseconds)")
	rateBudget := flag.Int("rate-budget", cfg.RateBudget, "Requests allowed per client per window")
	maxQueryLength := flag.Int("max-query-length", cfg.MaxQueryLength, "Longest accepted search query")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	cfg.ListenAddr = *listenAddr
	cfg.FetchTimeout = time.Duration(*fetchTimeoutMs) * time.Millisecond
	cfg.CacheTTL = time.Duration(*cacheTTLMs) * time.Millisecond
	cfg.RateWindow = time.Duration(*rateWindowMs) * time.Millisecond
	cfg.RateBudget = *rateBudget
	cfg.MaxQueryLength = *maxQueryLength
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose

	logger, level := newLogger(cfg.Verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := search.NewMetrics()
	searcher := search.New(cfg, registry.Libraries(), registry.EunpyeongUnified(), registry.SamStore(), metrics)
	resultCache := cache.New(cfg.CacheMaxEntries, cfg.CacheTTL)
	limiter := ratelimit.New(cfg.RateWindow, cfg.RateBudget, cfg.RateMaxBuckets)
	srv := server.New(cfg, searcher, resultCache, limiter, metrics)

	apiServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("ebookscout started",
			slog.String("addr", cfg.ListenAddr),
			slog.Int("providers", len(registry.Libraries())),
			slog.Duration("fetch_timeout", cfg.FetchTimeout),
		)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, draining in-flight requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("api server shutdown failed", slog.Any("error", err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
	}
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
