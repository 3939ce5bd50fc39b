package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/chavan-arvind/files-utility/internal/decode"
)

// Trigger selects how directory scans are driven.
const (
	TriggerPoll   = "poll"
	TriggerNotify = "notify"
	TriggerCron   = "cron"
)

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	// Dir is the directory scanned for new files. Not recursive.
	Dir string

	// Trigger is one of TriggerPoll, TriggerNotify, TriggerCron.
	// Defaults to TriggerPoll.
	Trigger string

	// Interval between scans in poll mode. Defaults to 60s.
	Interval time.Duration

	// CronSpec is the schedule in cron mode, standard five-field syntax.
	CronSpec string

	// Seen pre-marks files as already processed. The watcher takes
	// ownership of the map. Nil starts empty, so every file present at
	// startup is ingested on the first scan.
	Seen map[string]struct{}
}

// Watcher repeatedly scans a directory and hands new files to an Ingestor.
//
// Every newly discovered file is remembered by name, supported or not, so a
// file is attempted at most once per process lifetime. Failed files are
// logged and not retried; recovery is renaming or re-dropping the file.
type Watcher struct {
	ing      *Ingestor
	log      *slog.Logger
	dir      string
	trigger  string
	interval time.Duration
	cronSpec string
	seen     map[string]struct{}
}

// NewWatcher validates options and builds a Watcher.
func NewWatcher(ing *Ingestor, log *slog.Logger, opts WatcherOptions) (*Watcher, error) {
	if ing == nil {
		return nil, fmt.Errorf("watcher: nil ingestor")
	}
	if opts.Dir == "" {
		return nil, fmt.Errorf("watcher: empty directory")
	}
	if log == nil {
		log = slog.Default()
	}

	trigger := opts.Trigger
	if trigger == "" {
		trigger = TriggerPoll
	}
	switch trigger {
	case TriggerPoll, TriggerNotify, TriggerCron:
	default:
		return nil, fmt.Errorf("watcher: unknown trigger %q", trigger)
	}
	if trigger == TriggerCron && opts.CronSpec == "" {
		return nil, fmt.Errorf("watcher: cron trigger requires a schedule")
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = 60 * time.Second
	}

	seen := opts.Seen
	if seen == nil {
		seen = make(map[string]struct{})
	}

	return &Watcher{
		ing:      ing,
		log:      log,
		dir:      opts.Dir,
		trigger:  trigger,
		interval: interval,
		cronSpec: opts.CronSpec,
		seen:     seen,
	}, nil
}

// ScanOnce performs a single scan and returns. Used for one-shot runs.
func (w *Watcher) ScanOnce(ctx context.Context) {
	w.scan(ctx)
}

// Run scans once immediately, then rescans per the configured trigger until
// ctx is canceled. Cancellation takes effect between files, never mid-file.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info("watching directory",
		"dir", w.dir,
		"trigger", w.trigger,
	)

	w.scan(ctx)

	switch w.trigger {
	case TriggerNotify:
		return w.runNotify(ctx)
	case TriggerCron:
		return w.runCron(ctx)
	default:
		return w.runPoll(ctx)
	}
}

func (w *Watcher) runPoll(ctx context.Context) error {
	t := time.NewTicker(w.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			w.scan(ctx)
		}
	}
}

// runNotify rescans on filesystem events. The scan itself stays the source
// of truth; events only decide when to look, so a burst of partial-write
// events is harmless.
func (w *Watcher) runNotify(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				w.scan(ctx)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("filesystem watch error", "error", err)
		}
	}
}

func (w *Watcher) runCron(ctx context.Context) error {
	kick := make(chan struct{}, 1)
	c := cron.New()
	if _, err := c.AddFunc(w.cronSpec, func() {
		select {
		case kick <- struct{}{}:
		default:
		}
	}); err != nil {
		return fmt.Errorf("cron schedule %q: %w", w.cronSpec, err)
	}
	c.Start()
	defer c.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-kick:
			w.scan(ctx)
		}
	}
}

// scan ingests every not-yet-seen file in the directory, in name order for
// deterministic behavior. All new files are marked seen, including
// unsupported ones; only supported extensions are processed.
func (w *Watcher) scan(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.log.Error("directory scan failed", "dir", w.dir, "error", err)
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := w.seen[e.Name()]; ok {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		if ctx.Err() != nil {
			return
		}
		w.seen[name] = struct{}{}

		if !decode.Supported(name) {
			w.log.Debug("skipping unsupported file", "file", name)
			continue
		}
		if _, err := w.ing.ProcessFile(ctx, filepath.Join(w.dir, name)); err != nil {
			w.log.Error("file ingestion failed", "file", name, "error", err)
		}
	}
}
