// SPDX-License-Identifier: MPL-2.0

// Package localmod tracks the Java modules defined by the build itself, so
// requires directives naming them are wired to build units instead of
// external coordinates.
package localmod

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
	"github.com/jpmsdeps/jpmsdeps/pkg/types"
)

var (
	// ErrDuplicateLocalModule is the sentinel error wrapped by DuplicateLocalModuleError.
	ErrDuplicateLocalModule = errors.New("module already defined by another build unit")

	// ErrNoDescriptor is returned by Register when the descriptor path holds no
	// module declaration.
	ErrNoDescriptor = errors.New("no module declaration")

	// ErrMissingGroup is returned by LocalModule.Capability when a secondary
	// variant needs a capability but its build unit has no group.
	ErrMissingGroup = errors.New("no group registered for build unit")
)

type (
	// DescriptorSource returns the parsed descriptor at a path. The descriptor
	// cache implements it.
	DescriptorSource interface {
		Get(path types.FilesystemPath) (*javamod.Descriptor, error)
	}

	// LocalModule is one module of the current build. Equality and ordering
	// are by module name only.
	LocalModule struct {
		name             string
		unitPath         string
		group            string
		artifact         string
		sourceSet        string
		descriptorPath   string
		capabilitySuffix string
	}

	// Registry holds the local modules of one configuration pass. It is not
	// safe for concurrent registration.
	Registry struct {
		descriptors DescriptorSource
		modules     map[string]LocalModule
	}

	// DuplicateLocalModuleError reports a second unit declaring a module name.
	DuplicateLocalModuleError struct {
		Module   string
		Existing string
		Rejected string
	}

	// MissingGroupError is returned when a capability cannot be formed.
	MissingGroupError struct {
		Module   string
		UnitPath string
	}
)

// NewRegistry creates an empty registry reading descriptors from src.
func NewRegistry(src DescriptorSource) *Registry {
	return &Registry{descriptors: src, modules: make(map[string]LocalModule)}
}

// Register parses the descriptor of a build unit's source set and records
// its module. The group may be empty when it is not known yet; the artifact
// defaults to the last segment of the unit path. When the module name is
// already registered the first registration is kept and returned together
// with a *DuplicateLocalModuleError.
func (r *Registry) Register(unitPath, descriptorPath, artifact, group, sourceSet string) (LocalModule, error) {
	d, err := r.descriptors.Get(types.FilesystemPath(descriptorPath))
	if err != nil {
		return LocalModule{}, fmt.Errorf("register %s: %w", unitPath, err)
	}
	if d.IsEmpty() {
		return LocalModule{}, fmt.Errorf("register %s: %s: %w", unitPath, descriptorPath, ErrNoDescriptor)
	}
	if artifact == "" {
		artifact = UnitName(unitPath)
	}
	if sourceSet == "" {
		sourceSet = javamod.MainSourceSet
	}
	m := LocalModule{
		name:           d.ModuleName(),
		unitPath:       unitPath,
		group:          group,
		artifact:       artifact,
		sourceSet:      sourceSet,
		descriptorPath: descriptorPath,
	}
	if suffix, ok := javamod.SourceSetToCapabilitySuffix(sourceSet); ok {
		m.capabilitySuffix = suffix
	}
	if existing, found := r.modules[m.name]; found {
		return existing, &DuplicateLocalModuleError{Module: m.name, Existing: existing.unitPath, Rejected: unitPath}
	}
	r.modules[m.name] = m
	return m, nil
}

// Lookup returns the local module with the given name.
func (r *Registry) Lookup(name string) (LocalModule, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// All returns every registered module sorted by name.
func (r *Registry) All() []LocalModule {
	return slices.SortedFunc(maps.Values(r.modules), Compare)
}

// Len returns the number of registered modules.
func (r *Registry) Len() int { return len(r.modules) }

// Compare orders local modules by name.
func Compare(a, b LocalModule) int { return cmp.Compare(a.name, b.name) }

// Name returns the module name.
func (m LocalModule) Name() string { return m.name }

// UnitPath returns the owning build-unit path, e.g. ":services:billing".
func (m LocalModule) UnitPath() string { return m.unitPath }

// Group returns the build unit's group, "" when not supplied.
func (m LocalModule) Group() string { return m.group }

// Artifact returns the build unit's artifact name.
func (m LocalModule) Artifact() string { return m.artifact }

// SourceSet returns the source set that declares the module.
func (m LocalModule) SourceSet() string { return m.sourceSet }

// DescriptorPath returns the module-info.java path.
func (m LocalModule) DescriptorPath() string { return m.descriptorPath }

// CapabilitySuffix returns the kebab-case suffix of a secondary variant and
// false for the main variant.
func (m LocalModule) CapabilitySuffix() (string, bool) {
	return m.capabilitySuffix, m.capabilitySuffix != ""
}

// Capability returns `group:artifact-suffix` for secondary variants and ""
// for the main variant. Secondary variants of units without a group yield a
// *MissingGroupError.
func (m LocalModule) Capability() (string, error) {
	if m.capabilitySuffix == "" {
		return "", nil
	}
	if m.group == "" {
		return "", &MissingGroupError{Module: m.name, UnitPath: m.unitPath}
	}
	return m.group + ":" + m.artifact + "-" + m.capabilitySuffix, nil
}

// Equal reports whether both values denote the same module.
func (m LocalModule) Equal(other LocalModule) bool { return m.name == other.name }

// String returns the module name.
func (m LocalModule) String() string { return m.name }

// Error implements the error interface.
func (e *DuplicateLocalModuleError) Error() string {
	return fmt.Sprintf("module %s is declared by %s and %s; keeping %s", e.Module, e.Existing, e.Rejected, e.Existing)
}

// Unwrap returns ErrDuplicateLocalModule for errors.Is() compatibility.
func (e *DuplicateLocalModuleError) Unwrap() error { return ErrDuplicateLocalModule }

// Error implements the error interface.
func (e *MissingGroupError) Error() string {
	return fmt.Sprintf("module %s of %s needs a capability but no group is registered for the unit", e.Module, e.UnitPath)
}

// Unwrap returns ErrMissingGroup for errors.Is() compatibility.
func (e *MissingGroupError) Unwrap() error { return ErrMissingGroup }
