// Package watcher triggers rename passes as new package files settle in
// a watched directory.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// Options tunes pass triggering.
type Options struct {
	// Settle is the quiet period after the last relevant event before a
	// pass runs. Downloads fire many write events; waiting for quiet
	// avoids renaming half-written files.
	Settle time.Duration
	// MinGap is the minimum spacing between triggered passes.
	MinGap time.Duration
	// Ext is the package extension to react to.
	Ext string
}

func (o *Options) setDefaults() {
	if o.Settle <= 0 {
		o.Settle = 2 * time.Second
	}
	if o.MinGap <= 0 {
		o.MinGap = 10 * time.Second
	}
	if o.Ext == "" {
		o.Ext = ".pkg"
	}
}

// Watcher re-runs a pass over one directory as packages arrive.
type Watcher struct {
	dir     string
	opts    Options
	run     func() error
	limiter *rate.Limiter
}

// New creates a watcher for dir. run executes one pass; it is called
// from the watch loop, never concurrently with itself.
func New(dir string, opts Options, run func() error) *Watcher {
	opts.setDefaults()
	return &Watcher{
		dir:     dir,
		opts:    opts,
		run:     run,
		limiter: rate.NewLimiter(rate.Every(opts.MinGap), 1),
	}
}

// Start runs an initial pass for files already present, then blocks
// watching dir until ctx is cancelled. Passes triggered by the watcher's
// own renames find nothing left to do, so the loop settles on its own.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	slog.Info("watching directory", "dir", w.dir, "settle", w.opts.Settle)

	w.limiter.Allow() // the initial pass consumes the first slot
	if err := w.run(); err != nil {
		slog.Error("pass failed", "error", err)
	}

	var (
		timer  *time.Timer
		fireCh <-chan time.Time
	)
	arm := func(d time.Duration) {
		if timer == nil {
			timer = time.NewTimer(d)
			fireCh = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(d)
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			slog.Debug("package activity", "file", filepath.Base(ev.Name), "op", ev.Op.String())
			arm(w.opts.Settle)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)

		case <-fireCh:
			res := w.limiter.Reserve()
			if d := res.Delay(); d > 0 {
				res.Cancel()
				arm(d)
				continue
			}
			if err := w.run(); err != nil {
				slog.Error("pass failed", "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return strings.EqualFold(filepath.Ext(ev.Name), w.opts.Ext)
}
