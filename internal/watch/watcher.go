// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/jpmsdeps/jpmsdeps/internal/metrics"
)

const (
	// DefaultDebounce is the quiet period after the last event.
	DefaultDebounce = 300 * time.Millisecond

	// DescriptorPattern selects every module descriptor below the root.
	DescriptorPattern = "**/module-info.java"
)

// defaultIgnores are build outputs and tool metadata that never hold
// source descriptors.
var defaultIgnores = []string{
	"**/.git/**",
	"**/.gradle/**",
	"**/.idea/**",
	"**/build/**",
	"**/out/**",
	"**/target/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

var (
	// ErrInvalidPattern is the sentinel error wrapped by InvalidPatternError.
	ErrInvalidPattern = errors.New("invalid watch pattern")

	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watcher already running")
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the build root. Empty means the working directory.
		Root string

		// Patterns are doublestar globs relative to Root. Empty means
		// DescriptorPattern.
		Patterns []string

		// Ignore is merged with the default ignores.
		Ignore []string

		// Files are additional files watched by exact path, typically the
		// configuration file. They may live outside Root.
		Files []string

		// Debounce defaults to DefaultDebounce.
		Debounce time.Duration

		// OnChange receives the changed paths, relative to Root when
		// possible. A returned error is logged and watching continues.
		OnChange func(ctx context.Context, changed []string) error

		Logger  *log.Logger
		Metrics *metrics.Recorder
	}

	// Watcher delivers debounced change batches to Config.OnChange.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		root     string
		patterns []string
		ignores  []string
		files    map[string]struct{}
		debounce time.Duration
		logger   *log.Logger
		started  atomic.Bool

		mu      sync.Mutex
		pending map[string]struct{}
	}

	// InvalidPatternError reports a glob doublestar cannot parse.
	InvalidPatternError struct {
		Kind    string
		Pattern string
		Err     error
	}
)

// Validate checks every watch and ignore pattern.
func (c Config) Validate() error {
	var errs []error
	check := func(kind string, patterns []string) {
		for _, p := range patterns {
			if p == "" || !doublestar.ValidatePattern(p) {
				errs = append(errs, &InvalidPatternError{Kind: kind, Pattern: p, Err: doublestar.ErrBadPattern})
			}
		}
	}
	check("watch", c.Patterns)
	check("ignore", c.Ignore)
	return errors.Join(errs...)
}

// New validates cfg and registers every non-ignored directory below Root
// plus the directories of Config.Files.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	root := cfg.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		root:     absRoot,
		patterns: cfg.Patterns,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		files:    make(map[string]struct{}, len(cfg.Files)),
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
		pending:  make(map[string]struct{}),
	}
	if len(w.patterns) == 0 {
		w.patterns = []string{DescriptorPattern}
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}

	if w.fsw, err = fsnotify.NewWatcher(); err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := w.register(); err != nil {
		_ = w.fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes events until ctx is done. It returns nil on cancellation
// and an error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("closing file watcher", "err", err)
		}
	}()

	kick := make(chan struct{}, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-kick:
				w.flush(ctx)
			}
		}
	}()

	timer := time.AfterFunc(time.Hour, func() {
		select {
		case kick <- struct{}{}:
		default:
		}
	})
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("file watcher event channel closed")
			}
			if evt.Op == fsnotify.Chmod {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.addIfDir(evt.Name)
			}
			key, ok := w.match(evt.Name)
			if !ok {
				continue
			}
			w.logger.Debug("change detected", "path", key, "op", evt.Op.String())
			w.mu.Lock()
			w.pending[key] = struct{}{}
			w.mu.Unlock()
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("file watcher error channel closed")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("file watcher failed: %w", err)
			}
			w.logger.Warn("file watcher error", "err", err)
		}
	}
}

// flush hands the pending batch to the callback. It only runs on the
// dispatch goroutine, so callbacks are serialized.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	changed := slices.Sorted(maps.Keys(w.pending))
	clear(w.pending)
	w.mu.Unlock()
	if len(changed) == 0 || ctx.Err() != nil {
		return
	}
	w.cfg.Metrics.WatchIteration()
	if w.cfg.OnChange == nil {
		return
	}
	if err := w.cfg.OnChange(ctx, changed); err != nil {
		w.logger.Error("re-run failed", "err", err)
	}
}

// match returns the key reported for path, or false when the path is not
// watched.
func (w *Watcher) match(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, relErr := filepath.Rel(w.root, abs)
	inRoot := relErr == nil && !hasParentPrefix(rel)
	if _, ok := w.files[abs]; ok {
		if inRoot {
			return filepath.ToSlash(rel), true
		}
		return abs, true
	}
	if !inRoot {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if w.ignored(rel) || !matchAny(w.patterns, rel) {
		return "", false
	}
	return rel, true
}

func (w *Watcher) register() error {
	err := filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("skipping unreadable path", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(w.root, path); relErr == nil && rel != "." && w.ignoredDir(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, f := range w.cfg.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
		if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
		}
	}
	return nil
}

// addIfDir extends the watch to directories created after startup.
func (w *Watcher) addIfDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil || hasParentPrefix(rel) || w.ignoredDir(filepath.ToSlash(rel)) {
		return
	}
	if err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		return w.fsw.Add(p)
	}); err != nil {
		w.logger.Warn("watching new directory", "path", path, "err", err)
	}
}

func (w *Watcher) ignored(rel string) bool { return matchAny(w.ignores, rel) }

func (w *Watcher) ignoredDir(rel string) bool {
	return w.ignored(rel) || w.ignored(rel+"/")
}

// DefaultIgnores returns the built-in ignore patterns.
func DefaultIgnores() []string { return slices.Clone(defaultIgnores) }

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func hasParentPrefix(rel string) bool {
	return rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)
}

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Kind, e.Pattern, e.Err)
}

// Unwrap returns ErrInvalidPattern for errors.Is() compatibility.
func (e *InvalidPatternError) Unwrap() error { return ErrInvalidPattern }
