// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/jpmsdeps/jpmsdeps/internal/wiring"
	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
)

// SourceSetDependencies is the dependency block of one source set.
type SourceSetDependencies struct {
	Name         string
	Declarations []wiring.Declaration
}

// BuildFileDependencies rewrites the dependencies block of a build script.
// Lines of existing up to the first line mentioning "dependencies" are kept;
// everything after is replaced. Blocks are written main first, then by
// name, each grouped api, implementation, compileOnlyApi, compileOnly and
// runtimeOnly. With withCatalog set, type-safe accessors (projects.x,
// libs.x) replace project paths and coordinates.
func BuildFileDependencies(existing string, blocks []SourceSetDependencies, withCatalog bool, ownGroup string) string {
	lines := strings.Split(strings.TrimRight(existing, "\n"), "\n")
	if existing == "" {
		lines = nil
	}
	if i := slices.IndexFunc(lines, func(l string) bool { return strings.Contains(l, "dependencies") }); i >= 0 {
		lines = lines[:i]
	}
	if n := len(lines); n > 0 && lines[n-1] != "" {
		lines = append(lines, "")
	}

	if len(blocks) > 0 {
		sorted := slices.Clone(blocks)
		slices.SortStableFunc(sorted, func(a, b SourceSetDependencies) int {
			switch {
			case a.Name == b.Name:
				return 0
			case a.Name == javamod.MainSourceSet:
				return -1
			case b.Name == javamod.MainSourceSet:
				return 1
			}
			return cmp.Compare(a.Name, b.Name)
		})

		lines = append(lines, "dependencies {")
		for _, block := range sorted {
			decls := slices.Clone(block.Declarations)
			slices.SortStableFunc(decls, func(a, b wiring.Declaration) int {
				return cmp.Compare(slices.Index(directiveOrder, a.Directive), slices.Index(directiveOrder, b.Directive))
			})
			for _, d := range decls {
				lines = append(lines, "    "+declaration(d, withCatalog, ownGroup))
			}
			if len(decls) > 0 {
				lines = append(lines, "")
			}
		}
		if lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		lines = append(lines, "}")
	}
	return strings.Join(lines, "\n") + "\n"
}

func declaration(d wiring.Declaration, withCatalog bool, ownGroup string) string {
	var identifier string
	switch {
	case d.Project != "" || (ownGroup != "" && d.Coordinate.Group() == ownGroup):
		artifact := d.Coordinate.Artifact()
		if d.Project != "" {
			artifact = d.Project[strings.LastIndex(d.Project, ":")+1:]
		}
		if withCatalog {
			identifier = "projects." + artifact
		} else {
			identifier = "project(" + strconv.Quote(":"+artifact) + ")"
		}
	case withCatalog:
		identifier = "libs." + d.Module
	default:
		identifier = strconv.Quote(d.Coordinate.Primary().String())
	}
	s := d.Scope + "(" + identifier + ")"
	if d.Capability != "" {
		s += " { capabilities { requireCapabilities(" + strconv.Quote(d.Capability) + ") } }"
	}
	return s
}
