// SPDX-License-Identifier: MPL-2.0

package report

import (
	"errors"
	"slices"
	"strings"

	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
)

// ErrOrdering is the sentinel error wrapped by OrderingError.
var ErrOrdering = errors.New("requires directives are not in alphabetical order")

type (
	// OrderingViolation lists one directive kind whose entries are out of
	// order, together with the order they should have.
	OrderingViolation struct {
		Directive javamod.Directive `json:"directive" yaml:"directive"`
		Declared  []string          `json:"declared" yaml:"declared"`
		Expected  []string          `json:"expected" yaml:"expected"`
	}

	// OrderingError aggregates every ordering violation of one descriptor.
	OrderingError struct {
		Path       string              `json:"path" yaml:"path"`
		Violations []OrderingViolation `json:"violations" yaml:"violations"`
	}
)

// OrderingCheck verifies that the modules of every requires directive kind
// are declared alphabetically, with modules starting with prefix (the
// build's own modules) first. All violations are returned as one
// *OrderingError; nil means the descriptor is ordered.
func OrderingCheck(d *javamod.Descriptor, prefix string) error {
	var violations []OrderingViolation
	for _, kind := range javamod.AllDirectives() {
		declared := d.Get(kind)
		expected := slices.Clone(declared)
		slices.SortStableFunc(expected, func(a, b string) int {
			if prefix != "" {
				ownA, ownB := strings.HasPrefix(a, prefix), strings.HasPrefix(b, prefix)
				if ownA && !ownB {
					return -1
				}
				if !ownA && ownB {
					return 1
				}
			}
			// Compared as written in the file, terminating ';' included.
			return strings.Compare(a+";", b+";")
		})
		if !slices.Equal(declared, expected) {
			violations = append(violations, OrderingViolation{Directive: kind, Declared: declared, Expected: expected})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return &OrderingError{Path: d.Path(), Violations: violations}
}

// Text renders the violations with the order to use instead.
func (e *OrderingError) Text() string {
	var sb strings.Builder
	for _, v := range e.Violations {
		literal := v.Directive.Literal()
		sb.WriteString("'" + literal + "' are not declared in alphabetical order. Please use this order:\n")
		for _, name := range v.Expected {
			sb.WriteString("    " + literal + " " + name + ";\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Error implements the error interface.
func (e *OrderingError) Error() string {
	if e.Path == "" {
		return e.Text()
	}
	return e.Path + "\n\n" + e.Text()
}

// Unwrap returns ErrOrdering for errors.Is() compatibility.
func (e *OrderingError) Unwrap() error { return ErrOrdering }
