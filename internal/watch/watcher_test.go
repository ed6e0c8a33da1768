// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/jpmsdeps/jpmsdeps/internal/metrics"
)

type recorder struct {
	mu      sync.Mutex
	batches [][]string
	signal  chan struct{}
}

func newRecorder() *recorder { return &recorder{signal: make(chan struct{}, 16)} }

func (r *recorder) onChange(_ context.Context, changed []string) error {
	r.mu.Lock()
	r.batches = append(r.batches, changed)
	r.mu.Unlock()
	r.signal <- struct{}{}
	return nil
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.signal:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.batches)
}

func start(t *testing.T, cfg Config) (stop func()) {
	t.Helper()
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	// let the event loop start before the first write
	time.Sleep(50 * time.Millisecond)
	return func() {
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("Run() error = %v", err)
		}
	}
}

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_DebouncesDescriptorChanges(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "app/src/main/java", "lib/src/main/java", "lib/src/test/java")
	rec := newRecorder()
	m := metrics.New()
	stop := start(t, Config{Root: root, Debounce: 150 * time.Millisecond, OnChange: rec.onChange, Metrics: m})

	for _, p := range []string{"app/src/main/java", "lib/src/main/java", "lib/src/test/java"} {
		write(t, filepath.Join(root, p, "module-info.java"), "module x {}")
		time.Sleep(10 * time.Millisecond)
	}
	rec.wait(t)
	time.Sleep(300 * time.Millisecond)
	stop()

	batches := rec.snapshot()
	if len(batches) != 1 {
		t.Fatalf("callbacks = %v, want exactly one batch", batches)
	}
	want := []string{
		"app/src/main/java/module-info.java",
		"lib/src/main/java/module-info.java",
		"lib/src/test/java/module-info.java",
	}
	if !slices.Equal(batches[0], want) {
		t.Errorf("changed = %v, want %v", batches[0], want)
	}
}

func TestWatcher_FiltersPaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "app/src/main/java/org/example", "app/build/generated")
	rec := newRecorder()
	stop := start(t, Config{Root: root, Debounce: 100 * time.Millisecond, OnChange: rec.onChange})
	defer stop()

	write(t, filepath.Join(root, "app/src/main/java/org/example/Main.java"), "class Main {}")
	write(t, filepath.Join(root, "app/build/generated/module-info.java"), "module generated {}")
	time.Sleep(400 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("unexpected callbacks for unwatched files: %v", got)
	}

	write(t, filepath.Join(root, "app/src/main/java/module-info.java"), "module app {}")
	rec.wait(t)
	if got := rec.snapshot(); !slices.Equal(got[0], []string{"app/src/main/java/module-info.java"}) {
		t.Errorf("changed = %v", got[0])
	}
}

func TestWatcher_ExtraFileOutsideRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	configDir := t.TempDir()
	configFile := filepath.Join(configDir, "config.cue")
	write(t, configFile, "group: \"org.example\"\n")

	rec := newRecorder()
	stop := start(t, Config{Root: root, Files: []string{configFile}, Debounce: 100 * time.Millisecond, OnChange: rec.onChange})
	defer stop()

	write(t, filepath.Join(configDir, "unrelated.cue"), "x: 1\n")
	write(t, configFile, "group: \"org.other\"\n")
	rec.wait(t)

	abs, err := filepath.Abs(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.snapshot()[0]; !slices.Equal(got, []string{abs}) {
		t.Errorf("changed = %v, want [%s]", got, abs)
	}
}

func TestWatcher_NewDirectoriesAreWatched(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	rec := newRecorder()
	stop := start(t, Config{Root: root, Debounce: 100 * time.Millisecond, OnChange: rec.onChange})
	defer stop()

	mkdirs(t, root, "newunit/src/main/java")
	time.Sleep(200 * time.Millisecond)
	write(t, filepath.Join(root, "newunit/src/main/java/module-info.java"), "module newunit {}")
	rec.wait(t)

	if got := rec.snapshot()[0]; !slices.Contains(got, "newunit/src/main/java/module-info.java") {
		t.Errorf("changed = %v", got)
	}
}

func TestWatcher_CallbacksDoNotOverlap(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "a/src/main/java", "b/src/main/java")

	var (
		active, maxActive int
		mu                sync.Mutex
		calls             = make(chan struct{}, 8)
	)
	onChange := func(context.Context, []string) error {
		mu.Lock()
		active++
		maxActive = max(maxActive, active)
		mu.Unlock()
		time.Sleep(300 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		calls <- struct{}{}
		return errors.New("check failed")
	}
	stop := start(t, Config{Root: root, Debounce: 50 * time.Millisecond, OnChange: onChange})
	defer stop()

	write(t, filepath.Join(root, "a/src/main/java/module-info.java"), "module a {}")
	time.Sleep(150 * time.Millisecond)
	write(t, filepath.Join(root, "b/src/main/java/module-info.java"), "module b {}")

	for range 2 {
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for callbacks")
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if maxActive != 1 {
		t.Errorf("max concurrent callbacks = %d, want 1", maxActive)
	}
}

func TestWatcher_RunTwice(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Root: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	if err := w.Run(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg     Config
		wantErr bool
	}{
		"zero value":      {cfg: Config{}},
		"valid patterns":  {cfg: Config{Patterns: []string{"**/module-info.java", "jpmsdeps.cue"}, Ignore: []string{"**/generated/**"}}},
		"empty pattern":   {cfg: Config{Patterns: []string{""}}, wantErr: true},
		"unclosed class":  {cfg: Config{Patterns: []string{"**/[a-"}}, wantErr: true},
		"invalid ignore":  {cfg: Config{Ignore: []string{"{a,b"}}, wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidPattern) {
				t.Errorf("expected ErrInvalidPattern, got %v", err)
			}
		})
	}

	if _, err := New(Config{Root: t.TempDir(), Patterns: []string{""}}); !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("New() = %v, want ErrInvalidPattern", err)
	}
}

func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	w := &Watcher{ignores: DefaultIgnores()}
	for rel, want := range map[string]bool{
		"app/build/classes/module-info.java": true,
		".gradle/8.10/fileHashes":            true,
		"app/src/main/java/module-info.java": false,
		"app/src/main/java/Main.java~":       true,
	} {
		if got := w.ignored(rel); got != want {
			t.Errorf("ignored(%q) = %v, want %v", rel, got, want)
		}
	}
	if !w.ignoredDir("build") {
		t.Error("ignoredDir(build) = false, want true")
	}
}
