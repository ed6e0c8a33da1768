// SPDX-License-Identifier: MPL-2.0

package wiring

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jpmsdeps/jpmsdeps/internal/issue"
	"github.com/jpmsdeps/jpmsdeps/internal/localmod"
	"github.com/jpmsdeps/jpmsdeps/internal/metrics"
	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
	"github.com/jpmsdeps/jpmsdeps/pkg/modmap"
	"github.com/jpmsdeps/jpmsdeps/pkg/types"
)

const (
	// TargetPlatform is a JDK module; no declaration is needed.
	TargetPlatform TargetKind = iota + 1
	// TargetLocal is a module of the current build.
	TargetLocal
	// TargetExternal is resolved through the mapping.
	TargetExternal
	// TargetUnresolved has no mapping.
	TargetUnresolved
)

type (
	// TargetKind is the classification of a required module name.
	TargetKind int

	// Target is the classification of one module name.
	Target struct {
		Kind   TargetKind
		Module string
		Local  localmod.LocalModule
		Result modmap.Result
	}

	// Resolver classifies and wires required modules. Mapping is required;
	// the other fields are optional.
	Resolver struct {
		Mapping  *modmap.Mapping
		Registry *localmod.Registry
		Catalog  modmap.Catalog
		Logger   *log.Logger
		Metrics  *metrics.Recorder
		// WarnForMissingVersions reports external coordinates without a
		// catalog version.
		WarnForMissingVersions bool
		// Root is the build root; diagnostics show paths relative to it.
		Root string
	}

	// UnresolvedModulesError aggregates every unmapped module of one
	// descriptor in strict mode.
	UnresolvedModulesError struct {
		Unit    string
		Path    string
		Modules []string
	}
)

// Classify determines how a required module is satisfied. JDK modules come
// first, then modules of the build, then the external mapping, so a local
// module is never shadowed by a coordinate that happens to share its name.
func (r *Resolver) Classify(name string) Target {
	if javamod.IsPlatformModule(name) {
		return Target{Kind: TargetPlatform, Module: name}
	}
	if r.Registry != nil {
		if local, ok := r.Registry.Lookup(name); ok {
			return Target{Kind: TargetLocal, Module: name, Local: local}
		}
	}
	res := r.Mapping.Resolve(name)
	if !res.IsResolved() {
		return Target{Kind: TargetUnresolved, Module: name, Result: res}
	}
	return Target{Kind: TargetExternal, Module: name, Result: res}
}

// Wire declares the dependencies of one source set of a build unit. Every
// directive kind is processed in declaration order. In strict mode unmapped
// modules are returned as one *UnresolvedModulesError after all other
// declarations have been made; otherwise they become warnings.
func (r *Resolver) Wire(unit, sourceSet string, d *javamod.Descriptor, sink DependencySink, strict bool) ([]issue.Diagnostic, error) {
	var (
		diags      []issue.Diagnostic
		unresolved []string
	)
	where := r.relPath(d.Path())
	for _, directive := range javamod.AllDirectives() {
		scope := ScopeFor(directive, sourceSet)
		for _, name := range d.Get(directive) {
			decl := Declaration{Unit: unit, SourceSet: sourceSet, Scope: scope, Directive: directive, Module: name}
			target := r.Classify(name)
			switch target.Kind {
			case TargetPlatform:
				r.Metrics.Resolved("platform")
				continue
			case TargetLocal:
				r.Metrics.Resolved("local")
				decl.Project = target.Local.UnitPath()
				capability, err := target.Local.Capability()
				if err != nil {
					diags = append(diags, r.warn(issue.NewDiagnostic(issue.SeverityWarning, issue.MissingGroupId,
						fmt.Sprintf("No group registered for %s - cannot request capability of module %s (required in %s)",
							target.Local.UnitPath(), name, where)).WithModule(name).WithPath(where).WithCause(err)))
				}
				decl.Capability = capability
			case TargetExternal:
				r.Metrics.Resolved(target.Result.Origin.String())
				gav, err := r.Mapping.ResolveWithVersion(name, r.Catalog)
				if err != nil {
					return diags, err
				}
				decl.Coordinate = target.Result.Coordinate
				decl.Version = gav.Version
				decl.Capability = gav.Capability.String()
				if gav.Version == "" && r.WarnForMissingVersions {
					diags = append(diags, r.warn(issue.NewDiagnostic(issue.SeverityWarning, issue.MissingVersionId,
						fmt.Sprintf("No version defined in catalog - %s:%s - %s (required in %s)",
							gav.Group, gav.Artifact, strings.ReplaceAll(name, ".", "_"), where)).WithModule(name).WithPath(where)))
				}
			case TargetUnresolved:
				r.Metrics.Unresolved()
				if strict {
					unresolved = append(unresolved, name)
					continue
				}
				diags = append(diags, r.warn(issue.NewDiagnostic(issue.SeverityWarning, issue.UnresolvedModuleId,
					fmt.Sprintf("No mapping registered for module: %s (required in %s) - add %q: \"group:artifact\" to module_name_to_ga",
						name, where, name)).WithModule(name).WithPath(where).WithCause(target.Result.Err())))
				continue
			}
			if err := sink.Declare(decl); err != nil {
				return diags, fmt.Errorf("declare %s for %s: %w", name, unit, err)
			}
			r.Metrics.Declared(scope)
		}
	}
	if len(unresolved) > 0 {
		return diags, &UnresolvedModulesError{Unit: unit, Path: where, Modules: unresolved}
	}
	return diags, nil
}

// RequiresRuntimeSupport lists the synthetic module folders (one per
// runtime-only module, below tmpDir) a compile step needs on its module path
// so that `requires /*runtime*/` modules are not required at compile time.
func RequiresRuntimeSupport(d *javamod.Descriptor, tmpDir string) []string {
	var folders []string
	for _, name := range d.Get(javamod.RequiresRuntime) {
		folders = append(folders, filepath.Join(tmpDir, name))
	}
	return folders
}

func (r *Resolver) warn(d issue.Diagnostic) issue.Diagnostic {
	r.logger().Warn(d.Message, "module", d.Module, "code", d.Code)
	return d
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger == nil {
		r.Logger = log.New(io.Discard)
	}
	return r.Logger
}

func (r *Resolver) relPath(path string) string {
	if path == "" {
		return "<memory>"
	}
	return types.FilesystemPath(path).RelTo(types.FilesystemPath(r.Root))
}

// Error implements the error interface.
func (e *UnresolvedModulesError) Error() string {
	return fmt.Sprintf("no mapping registered for %d module(s) required in %s (%s): %s",
		len(e.Modules), e.Path, e.Unit, strings.Join(e.Modules, ", "))
}

// Unwrap returns modmap.ErrUnresolvedModule for errors.Is() compatibility.
func (e *UnresolvedModulesError) Unwrap() error { return modmap.ErrUnresolvedModule }

// IsUnresolved reports whether err stems from a missing mapping.
func IsUnresolved(err error) bool { return errors.Is(err, modmap.ErrUnresolvedModule) }
