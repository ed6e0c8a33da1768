// SPDX-License-Identifier: MPL-2.0

package javamod

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// MainSourceSet is the name of the primary source variant of a build unit.
const MainSourceSet = "main"

// ErrNamingConvention is the sentinel error wrapped by NamingConventionError.
var ErrNamingConvention = errors.New("module name does not follow the naming convention")

// Empty is the descriptor of a unit without a (parsable) module-info.java.
var Empty = &Descriptor{}

type (
	// Descriptor is the parsed form of one module-info.java. It is never
	// mutated after Parse returns; accessors hand out copies.
	Descriptor struct {
		moduleName string
		open       bool
		path       string
		requires   [directiveCount][]string
		provides   map[string][]string
		services   []string // provides keys in declaration order
		exports    []string
		opens      []string
		uses       []string
	}

	// NamingConventionError reports a module name that cannot be split into
	// `<prefix.>unit[.variant]`.
	NamingConventionError struct {
		ModuleName string
		Unit       string
		SourceSet  string
		Path       string
	}

	// descriptorView is the serialized form used by reports.
	descriptorView struct {
		ModuleName string              `json:"module" yaml:"module"`
		Open       bool                `json:"open,omitempty" yaml:"open,omitempty"`
		Path       string              `json:"path,omitempty" yaml:"path,omitempty"`
		Requires   map[string][]string `json:"requires,omitempty" yaml:"requires,omitempty"`
		Provides   map[string][]string `json:"provides,omitempty" yaml:"provides,omitempty"`
		Exports    []string            `json:"exports,omitempty" yaml:"exports,omitempty"`
		Opens      []string            `json:"opens,omitempty" yaml:"opens,omitempty"`
		Uses       []string            `json:"uses,omitempty" yaml:"uses,omitempty"`
	}
)

// ModuleName returns the declared module name, or "" for Empty.
func (d *Descriptor) ModuleName() string { return d.moduleName }

// IsEmpty reports whether no module declaration was found.
func (d *Descriptor) IsEmpty() bool { return d.moduleName == "" }

// IsOpen reports whether the module is declared as `open module`.
func (d *Descriptor) IsOpen() bool { return d.open }

// Path returns the file the descriptor was parsed from, "" for in-memory text.
func (d *Descriptor) Path() string { return d.path }

// Get returns the module names required with the given directive kind, in
// declaration order. Duplicates are preserved.
func (d *Descriptor) Get(kind Directive) []string {
	if !kind.valid() {
		return []string{}
	}
	return append([]string{}, d.requires[kind]...)
}

// Provides returns a copy of the service to providers mapping.
func (d *Descriptor) Provides() map[string][]string {
	out := make(map[string][]string, len(d.provides))
	for service, providers := range d.provides {
		out[service] = slices.Clone(providers)
	}
	return out
}

// Services returns the provided service names in declaration order.
func (d *Descriptor) Services() []string { return slices.Clone(d.services) }

// Exports returns the exported packages.
func (d *Descriptor) Exports() []string { return slices.Clone(d.exports) }

// Opens returns the packages opened for reflection.
func (d *Descriptor) Opens() []string { return slices.Clone(d.opens) }

// Uses returns the consumed service names.
func (d *Descriptor) Uses() []string { return slices.Clone(d.uses) }

// AllRequired returns every required module name across all directive kinds.
func (d *Descriptor) AllRequired() []string {
	var out []string
	for _, kind := range AllDirectives() {
		out = append(out, d.requires[kind]...)
	}
	return out
}

// Requires reports whether any directive requires the named module.
func (d *Descriptor) Requires(moduleName string) bool {
	return slices.Contains(d.AllRequired(), moduleName)
}

// ModuleNamePrefix derives the naming prefix shared by the modules of a build:
// a module named `<prefix>.<unit>[.<sourceSet>]`. It returns "" with ok set
// when the module name equals the unit name. When no prefix can be determined
// it returns ok=false, or a *NamingConventionError if strict is set.
func (d *Descriptor) ModuleNamePrefix(unitName, sourceSet string, strict bool) (prefix string, ok bool, err error) {
	if d.moduleName == unitName {
		return "", true, nil
	}
	unitPlusVariant := SourceSetToModuleName(unitName, sourceSet)
	if strings.HasSuffix(d.moduleName, "."+unitPlusVariant) {
		return strings.TrimSuffix(d.moduleName, "."+unitPlusVariant), true, nil
	}
	if strings.HasSuffix(d.moduleName, "."+unitName) {
		return strings.TrimSuffix(d.moduleName, "."+unitName), true, nil
	}
	if strict {
		return "", false, &NamingConventionError{ModuleName: d.moduleName, Unit: unitName, SourceSet: sourceSet, Path: d.path}
	}
	return "", false, nil
}

// MarshalJSON renders the descriptor for machine-readable reports.
func (d *Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.view())
}

// MarshalYAML implements yaml.Marshaler.
func (d *Descriptor) MarshalYAML() (any, error) {
	return d.view(), nil
}

func (d *Descriptor) view() descriptorView {
	v := descriptorView{
		ModuleName: d.moduleName,
		Open:       d.open,
		Path:       d.path,
		Provides:   d.Provides(),
		Exports:    d.exports,
		Opens:      d.opens,
		Uses:       d.uses,
	}
	for _, kind := range AllDirectives() {
		if len(d.requires[kind]) == 0 {
			continue
		}
		if v.Requires == nil {
			v.Requires = make(map[string][]string)
		}
		v.Requires[kind.Literal()] = d.Get(kind)
	}
	if len(v.Provides) == 0 {
		v.Provides = nil
	}
	return v
}

// equalDirectives compares requires and provides content. Used by tests and
// the watcher to skip no-op changes.
func (d *Descriptor) equalDirectives(other *Descriptor) bool {
	for _, kind := range AllDirectives() {
		if !slices.Equal(d.requires[kind], other.requires[kind]) {
			return false
		}
	}
	return maps.EqualFunc(d.provides, other.provides, slices.Equal[[]string])
}

// SameDirectives reports whether both descriptors declare the same module
// with identical requires and provides directives.
func SameDirectives(a, b *Descriptor) bool {
	return a.moduleName == b.moduleName && a.equalDirectives(b)
}

// Error implements the error interface.
func (e *NamingConventionError) Error() string {
	where := ""
	if e.Path != "" {
		where = " in " + e.Path
	}
	return fmt.Sprintf("module name '%s'%s does not follow the naming convention '<prefix.>%s'",
		e.ModuleName, where, SourceSetToModuleName(e.Unit, e.SourceSet))
}

// Unwrap returns ErrNamingConvention for errors.Is() compatibility.
func (e *NamingConventionError) Unwrap() error { return ErrNamingConvention }
