// SPDX-License-Identifier: MPL-2.0

package javamod

import (
	"errors"
	"fmt"
	"strings"
)

// RuntimeMarker is the block comment that reclassifies a plain requires
// directive as runtime-only.
const RuntimeMarker = "/*runtime*/"

const (
	// Requires is a plain `requires` directive.
	Requires Directive = iota
	// RequiresTransitive is `requires transitive`.
	RequiresTransitive
	// RequiresStatic is `requires static`.
	RequiresStatic
	// RequiresStaticTransitive is `requires static transitive`.
	RequiresStaticTransitive
	// RequiresRuntime is `requires /*runtime*/`.
	RequiresRuntime

	directiveCount = iota
)

// ErrUnknownDirective is returned by ParseDirective for unrecognized literals.
var ErrUnknownDirective = errors.New("unknown directive")

type (
	// Directive is the kind of a requires clause. Every clause belongs to
	// exactly one kind.
	Directive int

	// UnknownDirectiveError is returned when a literal names no directive kind.
	UnknownDirectiveError struct {
		Literal string
	}
)

var directiveNames = [directiveCount]string{
	"REQUIRES",
	"REQUIRES_TRANSITIVE",
	"REQUIRES_STATIC",
	"REQUIRES_STATIC_TRANSITIVE",
	"REQUIRES_RUNTIME",
}

// AllDirectives returns every directive kind in declaration order.
func AllDirectives() []Directive {
	return []Directive{Requires, RequiresTransitive, RequiresStatic, RequiresStaticTransitive, RequiresRuntime}
}

// String returns the upper-case constant name, e.g. REQUIRES_STATIC.
func (d Directive) String() string {
	if !d.valid() {
		return fmt.Sprintf("Directive(%d)", int(d))
	}
	return directiveNames[d]
}

// Literal returns the source keyword sequence for the directive kind:
// "requires", "requires transitive", "requires static",
// "requires static transitive" or "requires /*runtime*/".
func (d Directive) Literal() string {
	if !d.valid() {
		return ""
	}
	words := strings.ToLower(strings.ReplaceAll(directiveNames[d], "_", " "))
	return strings.Replace(words, "runtime", RuntimeMarker, 1)
}

// ParseDirective is the inverse of Literal. It also accepts the constant
// names returned by String.
func ParseDirective(s string) (Directive, error) {
	normalized := strings.Join(strings.Fields(s), " ")
	for _, d := range AllDirectives() {
		if normalized == d.Literal() || strings.EqualFold(normalized, d.String()) {
			return d, nil
		}
	}
	return 0, &UnknownDirectiveError{Literal: s}
}

// MarshalText encodes the directive as its constant name.
func (d Directive) MarshalText() ([]byte, error) {
	if !d.valid() {
		return nil, &UnknownDirectiveError{Literal: d.String()}
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts either a constant name or a literal.
func (d *Directive) UnmarshalText(text []byte) error {
	parsed, err := ParseDirective(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Directive) valid() bool { return d >= 0 && int(d) < directiveCount }

// Error implements the error interface.
func (e *UnknownDirectiveError) Error() string {
	return fmt.Sprintf("unknown directive %q", e.Literal)
}

// Unwrap returns ErrUnknownDirective for errors.Is() compatibility.
func (e *UnknownDirectiveError) Unwrap() error { return ErrUnknownDirective }

// classify applies the modifier precedence: static+transitive, transitive,
// static, runtime marker, plain.
func classify(static, transitive, runtime bool) Directive {
	switch {
	case static && transitive:
		return RequiresStaticTransitive
	case transitive:
		return RequiresTransitive
	case static:
		return RequiresStatic
	case runtime:
		return RequiresRuntime
	default:
		return Requires
	}
}
