// SPDX-License-Identifier: MPL-2.0

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_Counts(t *testing.T) {
	t.Parallel()

	r := New()
	r.Resolved("baseline")
	r.Resolved("baseline")
	r.Resolved("local")
	r.Unresolved()
	r.Parsed()
	r.CacheHit()
	r.Declared("implementation")

	if got := testutil.ToFloat64(r.resolutions.WithLabelValues("baseline")); got != 2 {
		t.Errorf("baseline resolutions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.unresolved); got != 1 {
		t.Errorf("unresolved = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.resolutions); got != 2 {
		t.Errorf("resolution series = %d, want 2", got)
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	t.Parallel()

	var r *Recorder
	r.Resolved("x")
	r.Unresolved()
	r.Parsed()
	r.CacheHit()
	r.Declared("api")
	r.WatchIteration()
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "m.prom")); err != nil {
		t.Errorf("WriteTextfile() on nil recorder error = %v", err)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	t.Parallel()

	r := New()
	r.Parsed()
	path := filepath.Join(t.TempDir(), "jpmsdeps.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "jpmsdeps_descriptor_parses_total 1") {
		t.Errorf("textfile content missing parse counter:\n%s", content)
	}
}
