// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a scan directory and fires a debounced callback when
// matching files change. Run must be called exactly once; calling it a
// second time returns an error.
type Watcher struct {
	cfg       Config
	fsw       *fsnotify.Watcher
	stdout    io.Writer
	stderr    io.Writer
	debounce  time.Duration
	scanDir   string
	parentDir string
	started   atomic.Bool
}

// New validates cfg and registers the scan directory and its parent with
// fsnotify. A missing scan directory is not an error; it is picked up when
// it is created.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	stdout := cfg.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	scanDir := filepath.Clean(cfg.ScanDir)
	w := &Watcher{
		cfg:       cfg,
		fsw:       fsw,
		stdout:    stdout,
		stderr:    stderr,
		debounce:  debounce,
		scanDir:   scanDir,
		parentDir: filepath.Dir(scanDir),
	}

	if err := fsw.Add(w.parentDir); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			fmt.Fprintf(stderr, "watch: close after init failure: %v\n", closeErr)
		}
		return nil, fmt.Errorf("watch: add directory %q: %w", w.parentDir, err)
	}
	w.maybeAddScanDir()

	return w, nil
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on clean context
// cancellation and propagates fatal watcher errors.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire drains the pending set and invokes OnChange. A callback that is
	// still running causes a retry after another debounce period.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			fmt.Fprintf(w.stderr, "watch: skipping refresh (previous run still in progress)\n")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.ClearScreen {
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				fmt.Fprintf(w.stderr, "watch: callback error: %v\n", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}

			name, relevant := w.classify(evt)
			if !relevant {
				continue
			}
			slog.Debug("watch event", "name", name, "op", evt.Op.String())

			mu.Lock()
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			// isFatalFsnotifyError is platform-specific (see watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}

// classify returns the name to report for evt and whether it matters.
// Events on the scan directory itself report its base name with a trailing
// slash; events inside it report the file's base name.
func (w *Watcher) classify(evt fsnotify.Event) (string, bool) {
	path := filepath.Clean(evt.Name)

	if path == w.scanDir {
		if evt.Has(fsnotify.Create) {
			w.maybeAddScanDir()
		}
		return filepath.Base(path) + "/", true
	}

	if filepath.Dir(path) != w.scanDir {
		return "", false
	}

	base := filepath.Base(path)
	if !w.matches(base) {
		return "", false
	}
	return base, true
}

// matches reports whether a base name selects as a server file.
func (w *Watcher) matches(base string) bool {
	matched, err := doublestar.Match(w.cfg.Pattern, base)
	return err == nil && matched
}

// maybeAddScanDir starts watching the scan directory when it exists.
func (w *Watcher) maybeAddScanDir() {
	info, err := os.Stat(w.scanDir)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsw.Add(w.scanDir); err != nil {
		fmt.Fprintf(w.stderr, "watch: add directory %q: %v\n", w.scanDir, err)
	}
}
