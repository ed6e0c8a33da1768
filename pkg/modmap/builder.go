// SPDX-License-Identifier: MPL-2.0

package modmap

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidPrefixRule is returned by Build for prefix rules with an empty
// prefix or group.
var ErrInvalidPrefixRule = errors.New("invalid prefix rule")

type (
	// PrefixRule maps every module name starting with Prefix to Group. The
	// artifact is the remainder of the module name after the prefix.
	PrefixRule struct {
		Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`
		Group  string `json:"group" yaml:"group" mapstructure:"group"`
	}

	// Builder accumulates per-build registrations. It is not safe for
	// concurrent use; call Build once configuration is complete.
	Builder struct {
		baseline      *Baseline
		overrides     map[string]Coordinate
		overrideOrder []string
		prefixRules   []PrefixRule
	}
)

// NewBuilder starts a mapping on top of a baseline. A nil baseline is
// treated as an empty table.
func NewBuilder(baseline *Baseline) *Builder {
	return &Builder{
		baseline:  baseline,
		overrides: make(map[string]Coordinate),
	}
}

// PutOverride registers an explicit coordinate for a module name. Later
// registrations of the same name replace earlier ones.
func (b *Builder) PutOverride(name string, coordinate Coordinate) *Builder {
	if _, exists := b.overrides[name]; !exists {
		b.overrideOrder = append(b.overrideOrder, name)
	}
	b.overrides[name] = coordinate
	return b
}

// PutPrefixRule registers a prefix rule. Re-registering a prefix replaces
// its group but keeps its original position.
func (b *Builder) PutPrefixRule(prefix, group string) *Builder {
	for i, rule := range b.prefixRules {
		if rule.Prefix == prefix {
			b.prefixRules[i].Group = group
			return b
		}
	}
	b.prefixRules = append(b.prefixRules, PrefixRule{Prefix: prefix, Group: group})
	return b
}

// Build validates the registrations and returns an immutable Mapping.
func (b *Builder) Build() (*Mapping, error) {
	var errs []error
	overrides := make(map[string]Coordinate, len(b.overrides))
	for _, name := range b.overrideOrder {
		coordinate := b.overrides[name]
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("override for %q: module name must be non-empty", coordinate))
			continue
		}
		if err := coordinate.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("override for %s: %w", name, err))
			continue
		}
		overrides[name] = coordinate
	}
	for _, rule := range b.prefixRules {
		if rule.Prefix == "" || rule.Group == "" {
			errs = append(errs, fmt.Errorf("%w: prefix %q, group %q", ErrInvalidPrefixRule, rule.Prefix, rule.Group))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Mapping{
		baseline:      b.baseline,
		overrides:     overrides,
		overrideOrder: slices.Clone(b.overrideOrder),
		prefixRules:   slices.Clone(b.prefixRules),
	}, nil
}
