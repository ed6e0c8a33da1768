// SPDX-License-Identifier: MPL-2.0

package modmap

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
)

const (
	// UniqueModulesSource is the embedded table of unambiguous module names.
	UniqueModulesSource = "unique_modules.properties"
	// ModulesSource is the embedded table of curated module names.
	ModulesSource = "modules.properties"
)

var (
	//go:embed baseline/unique_modules.properties baseline/modules.properties
	baselineFS embed.FS

	// ErrBaselineConflict is the sentinel error wrapped by BaselineConflictError.
	ErrBaselineConflict = errors.New("module registered in more than one baseline source")

	// ErrInvalidBaseline is returned when a baseline source cannot be read.
	ErrInvalidBaseline = errors.New("invalid baseline source")
)

type (
	// Source is one module-name=coordinate table in Java properties format.
	Source struct {
		Name    string
		Content []byte
	}

	// Baseline is the immutable shared table assembled from all sources.
	Baseline struct {
		entries map[string]baselineEntry
		order   []string
	}

	baselineEntry struct {
		coordinate Coordinate
		source     string
	}

	// BaselineConflictError reports a module name defined by two sources.
	BaselineConflictError struct {
		Module  string
		Sources []string
	}
)

// DefaultBaseline loads the two embedded tables.
func DefaultBaseline() (*Baseline, error) {
	var sources []Source
	for _, name := range []string{UniqueModulesSource, ModulesSource} {
		content, err := baselineFS.ReadFile("baseline/" + name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidBaseline, name, err)
		}
		sources = append(sources, Source{Name: name, Content: content})
	}
	return LoadBaseline(sources...)
}

// SourceFromFile reads a properties file as a baseline source.
func SourceFromFile(path string) (Source, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %w", ErrInvalidBaseline, err)
	}
	return Source{Name: filepath.Base(path), Content: content}, nil
}

// LoadBaseline builds a Baseline from the given sources. A module name that
// appears in more than one source is a *BaselineConflictError.
func LoadBaseline(sources ...Source) (*Baseline, error) {
	b := &Baseline{entries: make(map[string]baselineEntry)}
	for _, src := range sources {
		props, err := properties.Load(src.Content, properties.UTF8)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidBaseline, src.Name, err)
		}
		props.DisableExpansion = true
		for _, name := range props.Keys() {
			value, _ := props.Get(name)
			coordinate := Coordinate(strings.TrimSpace(value))
			if err := coordinate.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %s: module %s: %w", ErrInvalidBaseline, src.Name, name, err)
			}
			if existing, found := b.entries[name]; found {
				return nil, &BaselineConflictError{Module: name, Sources: []string{existing.source, src.Name}}
			}
			b.entries[name] = baselineEntry{coordinate: coordinate, source: src.Name}
			b.order = append(b.order, name)
		}
	}
	return b, nil
}

// Lookup returns the coordinate registered for a module name.
func (b *Baseline) Lookup(name string) (Coordinate, bool) {
	if b == nil {
		return "", false
	}
	e, ok := b.entries[name]
	return e.coordinate, ok
}

// Source returns the name of the table that defines a module.
func (b *Baseline) Source(name string) string {
	if b == nil {
		return ""
	}
	return b.entries[name].source
}

// Len returns the number of module names in the table.
func (b *Baseline) Len() int {
	if b == nil {
		return 0
	}
	return len(b.order)
}

// Names returns the module names in load order.
func (b *Baseline) Names() []string {
	if b == nil {
		return nil
	}
	return append([]string{}, b.order...)
}

// Error implements the error interface.
func (e *BaselineConflictError) Error() string {
	return fmt.Sprintf("%s already present (defined in %s)", e.Module, strings.Join(e.Sources, " and "))
}

// Unwrap returns ErrBaselineConflict for errors.Is() compatibility.
func (e *BaselineConflictError) Unwrap() error { return ErrBaselineConflict }
