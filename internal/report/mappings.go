// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"strings"

	"github.com/jpmsdeps/jpmsdeps/pkg/modmap"
)

// Mappings lists the concrete mappings and prefix rules of a mapping store.
type Mappings struct {
	Entries     []modmap.Entry      `json:"entries" yaml:"entries"`
	PrefixRules []modmap.PrefixRule `json:"prefix_rules,omitempty" yaml:"prefix_rules,omitempty"`
}

// MappingsReport snapshots the mapping store for listing.
func MappingsReport(mapping *modmap.Mapping) *Mappings {
	return &Mappings{Entries: mapping.Entries(), PrefixRules: mapping.PrefixRules()}
}

// Text renders one `module -> coordinate (origin)` line per entry followed
// by the prefix rules in lookup order.
func (m *Mappings) Text() string {
	var sb strings.Builder
	for _, e := range m.Entries {
		origin := e.Origin.String()
		if e.Source != "" {
			origin += ": " + e.Source
		}
		fmt.Fprintf(&sb, "%s -> %s (%s)\n", e.Module, e.Coordinate, origin)
	}
	if len(m.PrefixRules) > 0 {
		sb.WriteString("\n")
		heading(&sb, "Prefix rules")
		for _, r := range m.PrefixRules {
			fmt.Fprintf(&sb, "%s* -> %s:*\n", r.Prefix, r.Group)
		}
	}
	return sb.String()
}
