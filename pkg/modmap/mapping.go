// SPDX-License-Identifier: MPL-2.0

package modmap

import (
	"cmp"
	"slices"
	"strings"
)

type (
	// Mapping is the frozen result of a Builder. All methods are safe for
	// concurrent use.
	Mapping struct {
		baseline      *Baseline
		overrides     map[string]Coordinate
		overrideOrder []string
		prefixRules   []PrefixRule
	}

	// Entry is one concrete module name mapping, used for listings.
	Entry struct {
		Module     string     `json:"module" yaml:"module"`
		Coordinate Coordinate `json:"coordinate" yaml:"coordinate"`
		Origin     Origin     `json:"origin" yaml:"origin"`
		// Source is the baseline table for baseline entries.
		Source string `json:"source,omitempty" yaml:"source,omitempty"`
	}

	// GAV is a resolved coordinate with an optional catalog version.
	GAV struct {
		Group    string `json:"group" yaml:"group"`
		Artifact string `json:"artifact" yaml:"artifact"`
		Version  string `json:"version,omitempty" yaml:"version,omitempty"`
		// Capability is the additional capability coordinate, if any.
		Capability Coordinate `json:"capability,omitempty" yaml:"capability,omitempty"`
	}
)

// Resolve maps a module name to a coordinate. Overrides win over prefix
// rules, which win over the baseline.
func (m *Mapping) Resolve(name string) Result {
	if c, ok := m.overrides[name]; ok {
		return Resolved(name, c, OriginOverride)
	}
	for _, rule := range m.prefixRules {
		if artifact, ok := strings.CutPrefix(name, rule.Prefix); ok && artifact != "" {
			r := Resolved(name, NewCoordinate(rule.Group, artifact), OriginPrefix)
			r.Prefix = rule.Prefix
			return r
		}
	}
	if c, ok := m.baseline.Lookup(name); ok {
		return Resolved(name, c, OriginBaseline)
	}
	return Unresolved(name)
}

// ReverseResolve finds the module name for a coordinate. Overrides and
// baseline entries are searched for an exact value match first, then for a
// match of the primary coordinate. Prefix rules are reversed last: the first
// rule registered for the coordinate's group yields prefix + artifact with
// '-' replaced by '.'.
func (m *Mapping) ReverseResolve(coordinate Coordinate) (string, bool) {
	for _, exact := range []bool{true, false} {
		if name, ok := m.reverseTables(coordinate, exact); ok {
			return name, true
		}
	}
	group, artifact := coordinate.Group(), coordinate.Artifact()
	if artifact == "" {
		return "", false
	}
	for _, rule := range m.prefixRules {
		if rule.Group == group {
			return rule.Prefix + strings.ReplaceAll(artifact, "-", "."), true
		}
	}
	return "", false
}

func (m *Mapping) reverseTables(coordinate Coordinate, exact bool) (string, bool) {
	matches := func(c Coordinate) bool {
		if exact {
			return c == coordinate
		}
		return c.Primary() == coordinate.Primary()
	}
	for _, name := range m.overrideOrder {
		if matches(m.overrides[name]) {
			return name, true
		}
	}
	for _, name := range m.baseline.Names() {
		if _, shadowed := m.overrides[name]; shadowed {
			continue
		}
		if c, _ := m.baseline.Lookup(name); matches(c) {
			return name, true
		}
	}
	return "", false
}

// GA returns the primary group:artifact of a module.
func (m *Mapping) GA(name string) (string, error) {
	r := m.Resolve(name)
	if err := r.Err(); err != nil {
		return "", err
	}
	return r.Coordinate.Primary().String(), nil
}

// GAV returns group:artifact:version of a module.
func (m *Mapping) GAV(name, version string) (string, error) {
	ga, err := m.GA(name)
	if err != nil {
		return "", err
	}
	return ga + ":" + version, nil
}

// ModuleName returns the module name registered for group:artifact.
func (m *Mapping) ModuleName(ga string) (string, bool) {
	return m.ReverseResolve(Coordinate(ga))
}

// ResolveWithVersion resolves a module and attaches the catalog version of
// its primary coordinate. The catalog is searched by module name; names
// resolved through a prefix rule fall back to the prefix itself. A nil
// catalog yields no version.
func (m *Mapping) ResolveWithVersion(name string, catalog Catalog) (GAV, error) {
	r := m.Resolve(name)
	if err := r.Err(); err != nil {
		return GAV{}, err
	}
	gav := GAV{Group: r.Coordinate.Group(), Artifact: r.Coordinate.Artifact()}
	if capability, ok := r.Coordinate.Capability(); ok {
		gav.Capability = capability
	}
	if catalog == nil {
		return gav, nil
	}
	if v, ok := catalog.FindVersion(name); ok {
		gav.Version = v
	} else if r.Origin == OriginPrefix {
		if v, ok := catalog.FindVersion(strings.TrimSuffix(r.Prefix, ".")); ok {
			gav.Version = v
		}
	}
	return gav, nil
}

// PrefixRules returns the prefix rules in registration order.
func (m *Mapping) PrefixRules() []PrefixRule { return slices.Clone(m.prefixRules) }

// Entries lists every concrete module mapping sorted by module name.
// Baseline entries shadowed by an override are omitted.
func (m *Mapping) Entries() []Entry {
	entries := make([]Entry, 0, len(m.overrides)+m.baseline.Len())
	for _, name := range m.overrideOrder {
		entries = append(entries, Entry{Module: name, Coordinate: m.overrides[name], Origin: OriginOverride})
	}
	for _, name := range m.baseline.Names() {
		if _, shadowed := m.overrides[name]; shadowed {
			continue
		}
		c, _ := m.baseline.Lookup(name)
		entries = append(entries, Entry{Module: name, Coordinate: c, Origin: OriginBaseline, Source: m.baseline.Source(name)})
	}
	slices.SortFunc(entries, func(a, b Entry) int { return cmp.Compare(a.Module, b.Module) })
	return entries
}

// String renders a GAV as group:artifact[:version].
func (g GAV) String() string {
	s := g.Group + ":" + g.Artifact
	if g.Version != "" {
		s += ":" + g.Version
	}
	return s
}
