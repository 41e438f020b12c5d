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

	"github.com/use-agent/bingdict/api"
	"github.com/use-agent/bingdict/bing"
	"github.com/use-agent/bingdict/cache"
	"github.com/use-agent/bingdict/config"
	"github.com/use-agent/bingdict/dict"
	"github.com/use-agent/bingdict/engine"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("bingdict starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"upstream", cfg.Dictionary.Host,
		"market", cfg.Dictionary.Market,
	)

	// ── 3. Initialise fetch engines ─────────────────────────────────
	engines := []engine.Engine{engine.NewHTTPEngine(cfg.Engine.Proxy, cfg.Engine.HTTPTimeout)}
	delays := []time.Duration{0}
	if cfg.Engine.BrowserFallback {
		rodEngine, err := engine.NewRodEngine(cfg.Engine)
		if err != nil {
			slog.Error("failed to launch browser engine", "error", err)
			os.Exit(1)
		}
		defer rodEngine.Close()
		engines = append(engines, rodEngine)
		delays = append(delays, cfg.Engine.EscalationDelay)
	}

	// Pages without the description tag are challenges or error pages:
	// reject them so the dispatcher escalates to the next engine.
	dispatcher := engine.NewDispatcher(engines, delays, dict.HasDescription)
	memory := engine.NewHostMemory(24 * time.Hour)
	defer memory.Stop()
	dispatcher.UseMemory(memory)
	slog.Info("engine dispatcher ready", "engines", len(engines), "delays", delays)

	// ── 4. Initialise cache and dictionary client ───────────────────
	cc := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	defer cc.Stop()

	client := bing.NewClient(dispatcher, cfg.Dictionary, bing.WithCache(cc))

	// ── 5. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(client, cc, cfg, startTime)

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("bingdict stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
