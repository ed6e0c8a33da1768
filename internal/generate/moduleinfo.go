// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"strings"

	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
	"github.com/jpmsdeps/jpmsdeps/pkg/modmap"
)

// directiveOrder is the block order of a generated descriptor.
var directiveOrder = []javamod.Directive{
	javamod.RequiresTransitive,
	javamod.Requires,
	javamod.RequiresStaticTransitive,
	javamod.RequiresStatic,
	javamod.RequiresRuntime,
}

type (
	// Dependencies lists, per directive kind, module names or
	// group:artifact coordinates.
	Dependencies map[javamod.Directive][]string

	// ModuleInfoResult is a generated descriptor.
	ModuleInfoResult struct {
		Content string
		// Skipped holds the coordinates without a module name; they are
		// emitted as commented-out directives.
		Skipped []string
	}
)

// ModuleInfo renders module-info.java for moduleName. Entries without ':'
// are taken as module names; coordinates are reverse-resolved through
// mapping.
func ModuleInfo(moduleName string, deps Dependencies, mapping *modmap.Mapping) ModuleInfoResult {
	var (
		res   ModuleInfoResult
		lines = []string{"module " + moduleName + " {"}
	)
	for _, kind := range directiveOrder {
		entries := deps[kind]
		if len(entries) == 0 {
			continue
		}
		for _, entry := range entries {
			name, ok := entry, true
			if strings.Contains(entry, ":") {
				name, ok = mapping.ModuleName(entry)
			}
			if !ok {
				res.Skipped = append(res.Skipped, entry)
				lines = append(lines, "    // "+kind.Literal()+" "+entry+";")
				continue
			}
			lines = append(lines, "    "+kind.Literal()+" "+name+";")
		}
		lines = append(lines, "")
	}
	lines = append(lines, "}")
	res.Content = strings.Join(lines, "\n") + "\n"
	return res
}
