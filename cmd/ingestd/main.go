// Command ingestd watches a directory for tabular files and appends their
// contents to the generic record table in the configured database.
//
// Configuration comes from environment variables (optionally loaded from a
// .env file); see internal/config for the full list. Flags override the
// environment for the settings most often changed per invocation.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/chavan-arvind/files-utility/internal/config"
	"github.com/chavan-arvind/files-utility/internal/ingest"
	"github.com/chavan-arvind/files-utility/internal/logging"
	"github.com/chavan-arvind/files-utility/internal/metrics"
	"github.com/chavan-arvind/files-utility/internal/metrics/datadog"
	"github.com/chavan-arvind/files-utility/internal/storage"

	// register all backends with the storage factory.
	// config specifies which to use but we build in support for all of them.
	_ "github.com/chavan-arvind/files-utility/internal/storage/all"
)

func main() {
	var (
		envFile string
		dir     string
		trigger string
		once    bool
	)

	flag.StringVar(&envFile, "env", "", "path to a .env file loaded before reading configuration")
	flag.StringVar(&dir, "dir", "", "directory to watch (overrides WATCH_DIR)")
	flag.StringVar(&trigger, "trigger", "", "scan trigger: poll, notify, or cron (overrides WATCH_TRIGGER)")
	flag.BoolVar(&once, "once", false, "scan the directory once and exit instead of watching")
	flag.Parse()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			fatalf("load env file %s: %v", envFile, err)
		}
	} else {
		// Best effort: a .env in the working directory is optional.
		_ = godotenv.Load()
	}

	if dir != "" {
		_ = os.Setenv("WATCH_DIR", dir)
	}
	if trigger != "" {
		_ = os.Setenv("WATCH_TRIGGER", trigger)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("%v", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	log := slog.Default()
	log.Info("starting ingestd", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupMetrics(ctx, cfg, log)
	defer func() {
		if err := metrics.Close(); err != nil {
			log.Warn("metrics shutdown", "error", err)
		}
	}()

	sink, err := storage.New(ctx, storage.Config{
		Kind:      cfg.Storage.Kind,
		DSN:       cfg.Storage.DSN,
		BatchSize: cfg.Storage.BatchSize,
	})
	if err != nil {
		fatalf("open storage: %v", err)
	}
	defer sink.Close()

	// A sink that cannot hold the record table is unusable; fail fast.
	if err := sink.EnsureSchema(ctx); err != nil {
		fatalf("ensure schema: %v", err)
	}

	ing := ingest.NewIngestor(sink, log, cfg.Storage.BatchSize)

	w, err := ingest.NewWatcher(ing, log, ingest.WatcherOptions{
		Dir:      cfg.Watch.Dir,
		Trigger:  cfg.Watch.Trigger,
		Interval: cfg.Watch.Interval,
		CronSpec: cfg.Watch.CronSpec,
	})
	if err != nil {
		fatalf("%v", err)
	}

	if once {
		w.ScanOnce(ctx)
		return
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fatalf("watch: %v", err)
	}
	log.Info("shutting down")
}

// setupMetrics installs the configured metrics backend. Metrics failures are
// never fatal; ingestion proceeds with the nop backend.
func setupMetrics(ctx context.Context, cfg *config.Config, log *slog.Logger) {
	switch cfg.Metrics.Backend {
	case "datadog":
		b, err := datadog.NewBackend(ctx, datadog.Options{
			JobName:    "ingestd",
			Tags:       datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS")),
			FlushEvery: cfg.Metrics.FlushInterval,
		})
		if err != nil {
			log.Warn("datadog metrics init failed, metrics disabled", "error", err)
			return
		}
		metrics.SetBackend(b)
		log.Info("metrics enabled", "backend", "datadog", "flush_every", cfg.Metrics.FlushInterval.String())

	default:
		// nop backend remains installed.
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
