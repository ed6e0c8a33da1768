// SPDX-License-Identifier: MPL-2.0

package modmap

import (
	"errors"
	"fmt"
)

const (
	// OriginNone marks an unresolved Result.
	OriginNone Origin = iota
	// OriginOverride is an explicit per-build registration.
	OriginOverride
	// OriginPrefix is a prefix rule match.
	OriginPrefix
	// OriginBaseline is an entry of the shared baseline tables.
	OriginBaseline
)

// ErrUnresolvedModule is the sentinel error wrapped by UnresolvedModuleError.
var ErrUnresolvedModule = errors.New("no mapping registered for module")

type (
	// Origin names the mapping layer that produced a coordinate.
	Origin int

	// Result is the outcome of resolving one module name: either a
	// coordinate with its origin, or unresolved.
	Result struct {
		Name       string
		Coordinate Coordinate
		Origin     Origin
		// Prefix is the matched prefix rule when Origin is OriginPrefix.
		Prefix string
	}

	// UnresolvedModuleError carries the module name no layer could map.
	UnresolvedModuleError struct {
		Module string
	}
)

// Resolved builds a successful Result.
func Resolved(name string, coordinate Coordinate, origin Origin) Result {
	return Result{Name: name, Coordinate: coordinate, Origin: origin}
}

// Unresolved builds a Result for a name without a mapping.
func Unresolved(name string) Result {
	return Result{Name: name}
}

// IsResolved reports whether a coordinate was found.
func (r Result) IsResolved() bool { return r.Origin != OriginNone }

// Err returns an *UnresolvedModuleError for unresolved results, nil otherwise.
func (r Result) Err() error {
	if r.IsResolved() {
		return nil
	}
	return &UnresolvedModuleError{Module: r.Name}
}

// String returns the origin name used in reports.
func (o Origin) String() string {
	switch o {
	case OriginOverride:
		return "override"
	case OriginPrefix:
		return "prefix"
	case OriginBaseline:
		return "baseline"
	default:
		return "none"
	}
}

// MarshalText encodes the origin name.
func (o Origin) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Error implements the error interface.
func (e *UnresolvedModuleError) Error() string {
	return fmt.Sprintf("no mapping registered for module: %s - register one with a module_name_to_ga entry (%q: \"group:artifact\")",
		e.Module, e.Module)
}

// Unwrap returns ErrUnresolvedModule for errors.Is() compatibility.
func (e *UnresolvedModuleError) Unwrap() error { return ErrUnresolvedModule }
