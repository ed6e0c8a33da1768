// SPDX-License-Identifier: MPL-2.0

package modmap

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultCatalogName is the conventional name of the version catalog.
const DefaultCatalogName = "libs"

// ErrInvalidCatalog is returned when a catalog file cannot be decoded.
var ErrInvalidCatalog = errors.New("invalid version catalog")

type (
	// Catalog looks up versions by alias. Aliases that differ only in the
	// separators '.', '_' and '-' are equivalent.
	Catalog interface {
		FindVersion(alias string) (string, bool)
	}

	// TOMLCatalog is a version catalog read from a libs.versions.toml file.
	TOMLCatalog struct {
		name     string
		path     string
		versions map[string]string
	}

	// StaticCatalog is an in-memory Catalog keyed by alias.
	StaticCatalog map[string]string

	catalogFile struct {
		Versions map[string]any `toml:"versions"`
	}
)

// LoadCatalog reads the [versions] table of a TOML version catalog. Entries
// are either plain strings or tables with a require, strictly or prefer key.
func LoadCatalog(path, name string) (*TOMLCatalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read version catalog: %w", err)
	}
	return ParseCatalog(content, path, name)
}

// ParseCatalog decodes catalog content. path is only used in errors.
func ParseCatalog(content []byte, path, name string) (*TOMLCatalog, error) {
	var file catalogFile
	if err := toml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, path, err)
	}
	if name == "" {
		name = DefaultCatalogName
	}
	c := &TOMLCatalog{name: name, path: path, versions: make(map[string]string, len(file.Versions))}
	for alias, raw := range file.Versions {
		version, err := catalogVersion(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: version %q: %w", ErrInvalidCatalog, path, alias, err)
		}
		c.versions[NormalizeAlias(alias)] = version
	}
	return c, nil
}

func catalogVersion(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case map[string]any:
		for _, key := range []string{"strictly", "require", "prefer"} {
			if s, ok := v[key].(string); ok && s != "" {
				return s, nil
			}
		}
		return "", errors.New("table needs a strictly, require or prefer entry")
	default:
		return "", fmt.Errorf("unsupported value of type %T", raw)
	}
}

// NormalizeAlias maps '_' and '-' to '.' so equivalent aliases compare equal.
func NormalizeAlias(alias string) string {
	return strings.NewReplacer("_", ".", "-", ".").Replace(alias)
}

// Name returns the catalog name (for example "libs").
func (c *TOMLCatalog) Name() string { return c.name }

// Path returns the file the catalog was read from.
func (c *TOMLCatalog) Path() string { return c.path }

// Len returns the number of versions in the catalog.
func (c *TOMLCatalog) Len() int { return len(c.versions) }

// FindVersion implements Catalog.
func (c *TOMLCatalog) FindVersion(alias string) (string, bool) {
	v, ok := c.versions[NormalizeAlias(alias)]
	return v, ok
}

// FindVersion implements Catalog.
func (c StaticCatalog) FindVersion(alias string) (string, bool) {
	want := NormalizeAlias(alias)
	for k, v := range c {
		if NormalizeAlias(k) == want {
			return v, true
		}
	}
	return "", false
}
