package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/eczane/pharmacy-api/cache"
	"github.com/eczane/pharmacy-api/config"
	"github.com/eczane/pharmacy-api/handlers"
	"github.com/eczane/pharmacy-api/health"
	"github.com/eczane/pharmacy-api/icd10"
	"github.com/eczane/pharmacy-api/interactions"
	"github.com/eczane/pharmacy-api/interfaces"
	"github.com/eczane/pharmacy-api/logging"
	"github.com/eczane/pharmacy-api/openfda"
	"github.com/eczane/pharmacy-api/pregnancy"
	"github.com/eczane/pharmacy-api/rxnorm"
	"github.com/eczane/pharmacy-api/scheduler"
	"github.com/eczane/pharmacy-api/server"
	"github.com/eczane/pharmacy-api/titck"
	"github.com/eczane/pharmacy-api/upstream"
	"github.com/eczane/pharmacy-api/validation"
	"github.com/joho/godotenv"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		ex, err := os.Executable()
		if err != nil {
			slog.Error("Failed to get executable path", "error", err)
			os.Exit(1)
		}

		exPath := filepath.Dir(ex)
		if err := os.Chdir(exPath); err != nil {
			slog.Error("Failed to change directory", "error", err)
			os.Exit(1)
		}
		_ = godotenv.Load()
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(logging.Options{
		Dir:            "logs",
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
		ConsoleLevel:   logging.GetConsoleLogLevel(cfg.Env, cfg.LogLevel, false),
		FileLevel:      logging.GetFileLogLevel(),
	})
	defer logging.Close()

	logging.Info("Configuration loaded",
		"env", cfg.Env.String(),
		"cache_backend", cfg.CacheBackend,
		"require_proxy", cfg.RequireProxy)

	ctx := context.Background()
	store := cache.New(ctx, cfg)
	defer store.Close()

	// RxNorm and OpenFDA share one outbound budget
	bucket := upstream.NewBucket(cfg.UpstreamRate)
	rx := rxnorm.New(cfg, bucket)
	fda := openfda.New(cfg, bucket)

	engine := interactions.NewEngine(store,
		interactions.NewRxNormSource(rx),
		interactions.NewOpenFDASource(fda),
		interactions.LocalSource{},
	)

	monitor := health.NewUpstreamMonitor(map[string]interfaces.Pinger{
		"rxnorm":  rx,
		"openfda": fda,
	}, 10*time.Second)

	handler := handlers.NewHTTPHandler(handlers.Services{
		Interactions: engine,
		Pregnancy:    pregnancy.NewService(fda, store),
		Labels:       fda,
		RxNorm:       rx,
		Diseases:     icd10.NewService(store),
		Drugs:        titck.NewService(),
		Health:       health.NewHealthChecker(store, monitor),
	}, validation.NewDataValidator())

	jobs := scheduler.Jobs{Prober: monitor, Warmer: engine}
	if inst, ok := store.(*cache.InstrumentedStore); ok {
		if mem, ok := inst.Unwrap().(*cache.MemoryStore); ok {
			jobs.Sweeper = mem
		}
	}
	sched := scheduler.NewScheduler(jobs, scheduler.Options{
		ProbeInterval: time.Duration(cfg.ProbeIntervalMinutes) * time.Minute,
		WarmupEnabled: cfg.WarmupEnabled,
	})
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(cfg, handler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	sig := <-quit
	logging.Info(fmt.Sprintf("Received %s, shutting down", sig))

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server shutdown failed", "error", err)
	}
}
