// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/jpmsdeps/jpmsdeps/pkg/modmap"
)

// librariesTable is the catalog table written by Catalog.
const librariesTable = "libraries"

// CatalogEntry is one library of a generated catalog.
type CatalogEntry struct {
	Module     string
	Coordinate modmap.Coordinate
	// Version is optional; entries without one rely on a platform.
	Version string
}

// Catalog renders a [libraries] table with one entry per module name,
// aliased by the module name with '.' replaced by '-'. Entries of ownGroup
// are left out because they are built locally; the first entry of a module
// name wins.
func Catalog(entries []CatalogEntry, ownGroup string) []byte {
	seen := map[string]struct{}{}
	var lines []string
	for _, e := range entries {
		if _, dup := seen[e.Module]; dup {
			continue
		}
		seen[e.Module] = struct{}{}
		primary := e.Coordinate.Primary()
		if primary.Group() == ownGroup {
			continue
		}
		notation := "{ module = " + strconv.Quote(primary.String())
		if e.Version != "" {
			notation += ", version = " + strconv.Quote(e.Version)
		}
		lines = append(lines, strings.ReplaceAll(e.Module, ".", "-")+" = "+notation+" }")
	}
	slices.Sort(lines)
	return []byte("[" + librariesTable + "]\n" + strings.Join(append(lines, ""), "\n"))
}

// MergeCatalog replaces the [libraries] table of an existing catalog
// document with libraries and keeps every other table. Comments and
// formatting of the kept tables are not preserved.
func MergeCatalog(existing, libraries []byte) ([]byte, error) {
	if len(bytes.TrimSpace(existing)) == 0 {
		return libraries, nil
	}
	var doc map[string]any
	if err := toml.Unmarshal(existing, &doc); err != nil {
		return nil, fmt.Errorf("parse existing catalog: %w", err)
	}
	delete(doc, librariesTable)
	if len(doc) == 0 {
		return libraries, nil
	}
	kept, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return append(append(bytes.TrimRight(kept, "\n"), '\n', '\n'), libraries...), nil
}

// WriteCatalog writes the generated entries to path, merging with the
// catalog already there.
func WriteCatalog(path string, entries []CatalogEntry, ownGroup string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	content, err := MergeCatalog(existing, Catalog(entries, ownGroup))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, content, 0o644)
}
