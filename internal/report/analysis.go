// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jpmsdeps/jpmsdeps/pkg/modmap"
)

// AutoMarker prefixes used modules that are automatic rather than real modules.
const AutoMarker = "[AUTO] "

type (
	// ModuleNameReader introspects an archive or class directory. It returns
	// the module name ("" for a plain library) and whether the archive carries
	// a module descriptor.
	ModuleNameReader func(path string) (name string, realModule bool, err error)

	// PathEntry is one element of a module path.
	PathEntry struct {
		// Path is the jar file or the "classes" directory.
		Path string
		// Coordinate is group:artifact of an external component.
		Coordinate modmap.Coordinate
		// Version is the resolved version of an external component.
		Version string
		// LocalModule is the module name of an entry built by this build.
		// It takes the place of a mapping lookup.
		LocalModule string
		// Unit is the local unit path, displayed instead of a coordinate.
		Unit string
	}

	// Analysis buckets the entries of a module path.
	Analysis struct {
		Used            []string `json:"used" yaml:"used"`
		NonModules      []string `json:"non_modules,omitempty" yaml:"non_modules,omitempty"`
		WrongMappings   []string `json:"wrong_mappings,omitempty" yaml:"wrong_mappings,omitempty"`
		MissingMappings []string `json:"missing_mappings,omitempty" yaml:"missing_mappings,omitempty"`
	}
)

// ParsePathEntry builds a PathEntry from a command-line argument. Accepted
// forms are `group:artifact[:version]=path` and a bare path, for which the
// coordinate is derived from a Maven repository or Gradle cache layout
// when possible.
func ParsePathEntry(arg string) (PathEntry, error) {
	if gav, path, found := strings.Cut(arg, "="); found {
		parts := strings.Split(gav, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return PathEntry{}, fmt.Errorf("invalid module path entry %q: expected group:artifact[:version]=path", arg)
		}
		c := modmap.NewCoordinate(parts[0], parts[1])
		if err := c.Validate(); err != nil {
			return PathEntry{}, err
		}
		e := PathEntry{Path: path, Coordinate: c}
		if len(parts) == 3 {
			e.Version = parts[2]
		}
		return e, nil
	}
	e := PathEntry{Path: arg}
	e.Coordinate, e.Version = coordinateFromLayout(arg)
	return e, nil
}

// coordinateFromLayout recognizes
// .../<group path>/<artifact>/<version>/<artifact>-<version>.jar (Maven) and
// .../files-2.1/<group>/<artifact>/<version>/<hash>/<file>.jar (Gradle).
func coordinateFromLayout(path string) (modmap.Coordinate, string) {
	parts := strings.Split(filepath.ToSlash(path), "/")
	n := len(parts)
	if n < 4 || !strings.HasSuffix(parts[n-1], ".jar") {
		return "", ""
	}
	if i := slices.Index(parts, "files-2.1"); i >= 0 && n-i == 6 {
		return modmap.NewCoordinate(parts[i+1], parts[i+2]), parts[i+3]
	}
	artifact, version := parts[n-3], parts[n-2]
	if !strings.HasPrefix(parts[n-1], artifact+"-"+version) {
		return "", ""
	}
	if i := slices.Index(parts, "repository"); i >= 0 && i < n-4 {
		return modmap.NewCoordinate(strings.Join(parts[i+1:n-3], "."), artifact), version
	}
	return "", ""
}

// AnalyzeModulePath classifies every entry. Entries that carry no classes
// (anything but *.jar and "classes" directories) are skipped.
//
//   - mapped and a module: used, with AutoMarker for automatic modules
//   - not mapped and not a module: non-module
//   - not mapped but a module: missing mapping, as a ready-to-use override
//   - mapped but not a module: wrong mapping
func AnalyzeModulePath(entries []PathEntry, mapping *modmap.Mapping, readName ModuleNameReader) (*Analysis, error) {
	used := map[string]struct{}{}
	nonModules := map[string]struct{}{}
	missing := map[string]struct{}{}
	wrong := map[string]struct{}{}

	for _, e := range entries {
		base := filepath.Base(e.Path)
		if !strings.HasSuffix(base, ".jar") && base != "classes" {
			continue
		}
		ga, version := string(e.Coordinate), ""
		moduleName := e.LocalModule
		switch {
		case e.LocalModule != "":
			ga = e.Unit
		case e.Coordinate != "":
			if e.Version != "" {
				version = " (" + e.Version + ")"
			}
			if name, ok := mapping.ModuleName(ga); ok {
				moduleName = name
			}
		}

		actual, realModule, err := readName(e.Path)
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", e.Path, err)
		}
		isModule := actual != ""

		switch {
		case moduleName != "" && isModule && realModule:
			used[moduleName+" -> "+ga+version] = struct{}{}
		case moduleName != "" && isModule:
			used[AutoMarker+moduleName+" -> "+ga+version] = struct{}{}
		case moduleName == "" && !isModule:
			nonModules[ga+version] = struct{}{}
		case moduleName == "" && isModule:
			missing[fmt.Sprintf("%q: %q", actual, ga)] = struct{}{}
		default:
			wrong[moduleName+" -> "+ga+version] = struct{}{}
		}
	}

	return &Analysis{
		Used:            sortedKeys(used),
		NonModules:      sortedKeys(nonModules),
		WrongMappings:   sortedKeys(wrong),
		MissingMappings: sortedKeys(missing),
	}, nil
}

// HasWarnings reports whether any non-module, wrong or missing mapping was found.
func (a *Analysis) HasWarnings() bool {
	return len(a.NonModules)+len(a.WrongMappings)+len(a.MissingMappings) > 0
}

// Text renders the analysis in sections with fix options.
func (a *Analysis) Text() string {
	var sb strings.Builder
	sb.WriteString("\n")
	heading(&sb, "[INFO] All Java Modules required by this project")
	for _, e := range a.Used {
		sb.WriteString(e + "\n")
	}

	if len(a.NonModules) > 0 {
		sb.WriteString("\n")
		heading(&sb, "[WARN] Components that are NOT Java Modules")
		for _, e := range a.NonModules {
			sb.WriteString(e + "\n")
		}
		sb.WriteString("\nNotes / Options:\n")
		sb.WriteString("  - This may be ok if you use the Classpath (aka ALL-UNNAMED) in addition to the Module Path (automatic modules can see ALL-UNNAMED)\n")
		sb.WriteString("  - Remove the dependencies or upgrade to higher versions\n")
		sb.WriteString("  - Patch legacy Jars to Modules: https://github.com/gradlex-org/extra-java-module-info\n")
	}

	if len(a.WrongMappings) > 0 {
		sb.WriteString("\n")
		heading(&sb, "[WARN] Wrong Mappings: Components are not Modules")
		for _, e := range a.WrongMappings {
			sb.WriteString(e + "\n")
		}
		sb.WriteString("\nOptions to fix:\n")
		sb.WriteString("  - Upgrade to newer version(s) - use 'jpmsdeps recommend'\n")
		sb.WriteString("  - Fix the wrong mapping in module_name_to_ga\n")
		sb.WriteString("  - If it is about a legacy Jar you want to use as Module, you need to patch it: https://github.com/gradlex-org/extra-java-module-info\n")
	}

	if len(a.MissingMappings) > 0 {
		sb.WriteString("\n")
		heading(&sb, "[WARN] Missing Mappings")
		sb.WriteString("\nmodule_name_to_ga: {\n")
		for _, e := range a.MissingMappings {
			sb.WriteString("    " + e + "\n")
		}
		sb.WriteString("}\n")
		sb.WriteString("\nOptions to fix:\n")
		sb.WriteString("  - Add the mappings to module_name_to_ga in jpmsdeps.cue\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func sortedKeys(set map[string]struct{}) []string {
	return slices.Sorted(maps.Keys(set))
}
