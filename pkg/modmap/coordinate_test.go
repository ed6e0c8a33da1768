// SPDX-License-Identifier: MPL-2.0

package modmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinate(t *testing.T) {
	t.Parallel()

	c := Coordinate("org.example:lib|test-fixtures")
	require.NoError(t, c.Validate())
	assert.Equal(t, "org.example", c.Group())
	assert.Equal(t, "lib", c.Artifact())
	assert.Equal(t, Coordinate("org.example:lib"), c.Primary())
	capability, ok := c.Capability()
	require.True(t, ok)
	assert.Equal(t, Coordinate("org.example:lib-test-fixtures"), capability)

	_, ok = Coordinate("org.example:lib").Capability()
	assert.False(t, ok)
}

func TestCoordinate_Validate(t *testing.T) {
	t.Parallel()

	for _, bad := range []Coordinate{"", "lib", ":lib", "g:", "g:a:v", "g:a|", "g:a|x:y"} {
		err := bad.Validate()
		require.ErrorIs(t, err, ErrInvalidCoordinate, "coordinate %q", bad)
	}
	for _, good := range []Coordinate{"g:a", "com.sun.mail:jakarta.mail", "g:a|a-feature"} {
		require.NoError(t, good.Validate(), "coordinate %q", good)
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "libs.versions.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[versions]
org_slf4j = "2.0.17"
com-fasterxml-jackson-databind = { require = "2.19.0" }
"org.junit.jupiter.api" = { strictly = "[5.12,6)", prefer = "5.12.2" }

[libraries]
ignored = { module = "g:a", version = "1" }
`), 0o644))

	c, err := LoadCatalog(path, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalogName, c.Name())
	assert.Equal(t, 3, c.Len())

	v, ok := c.FindVersion("org.slf4j")
	require.True(t, ok)
	assert.Equal(t, "2.0.17", v)

	v, ok = c.FindVersion("com.fasterxml.jackson.databind")
	require.True(t, ok)
	assert.Equal(t, "2.19.0", v)

	v, ok = c.FindVersion("org_junit_jupiter_api")
	require.True(t, ok)
	assert.Equal(t, "[5.12,6)", v)

	_, ok = c.FindVersion("g.a")
	assert.False(t, ok)
}

func TestParseCatalog_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseCatalog([]byte("[versions]\nbad = 42\n"), "libs.versions.toml", "libs")
	require.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = ParseCatalog([]byte("[versions\n"), "libs.versions.toml", "libs")
	require.ErrorIs(t, err, ErrInvalidCatalog)
}
