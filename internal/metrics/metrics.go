// SPDX-License-Identifier: MPL-2.0

// Package metrics counts resolutions and descriptor parses and exports them
// in the Prometheus text format. A nil *Recorder is valid and records nothing.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns a private registry so several runs in one process (tests,
// the watcher) never share counters.
type Recorder struct {
	registry *prometheus.Registry

	resolutions     *prometheus.CounterVec
	unresolved      prometheus.Counter
	parses          prometheus.Counter
	cacheHits       prometheus.Counter
	declarations    *prometheus.CounterVec
	watchIterations prometheus.Counter
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jpmsdeps_resolutions_total",
				Help: "Number of module names resolved, by mapping layer (platform, local, override, prefix, baseline).",
			},
			[]string{"source"},
		),
		unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jpmsdeps_unresolved_total",
			Help: "Number of module names without a registered mapping.",
		}),
		parses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jpmsdeps_descriptor_parses_total",
			Help: "Number of module-info.java files parsed.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jpmsdeps_descriptor_cache_hits_total",
			Help: "Number of descriptor lookups served from the parse cache.",
		}),
		declarations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jpmsdeps_declarations_total",
				Help: "Number of dependency declarations produced, by scope.",
			},
			[]string{"scope"},
		),
		watchIterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jpmsdeps_watch_iterations_total",
			Help: "Number of re-runs triggered by descriptor changes.",
		}),
	}
	r.registry.MustRegister(r.resolutions, r.unresolved, r.parses, r.cacheHits, r.declarations, r.watchIterations)
	return r
}

// Registry exposes the underlying registry as a Gatherer.
func (r *Recorder) Registry() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

// Resolved counts a resolution by layer.
func (r *Recorder) Resolved(source string) {
	if r != nil {
		r.resolutions.WithLabelValues(source).Inc()
	}
}

// Unresolved counts a module name without mapping.
func (r *Recorder) Unresolved() {
	if r != nil {
		r.unresolved.Inc()
	}
}

// Parsed counts a descriptor parse.
func (r *Recorder) Parsed() {
	if r != nil {
		r.parses.Inc()
	}
}

// CacheHit counts a parse cache hit.
func (r *Recorder) CacheHit() {
	if r != nil {
		r.cacheHits.Inc()
	}
}

// Declared counts a dependency declaration by scope.
func (r *Recorder) Declared(scope string) {
	if r != nil {
		r.declarations.WithLabelValues(scope).Inc()
	}
}

// WatchIteration counts a watcher-triggered re-run.
func (r *Recorder) WatchIteration() {
	if r != nil {
		r.watchIterations.Inc()
	}
}

// WriteTextfile writes all metrics to path in the text exposition format
// (for the node exporter textfile collector).
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
