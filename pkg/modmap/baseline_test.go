// SPDX-License-Identifier: MPL-2.0

package modmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBaseline_ConflictAcrossSources(t *testing.T) {
	t.Parallel()

	first := Source{Name: "unique_modules.properties", Content: []byte("foo.bar=grp:art\nother=g:o\n")}
	second := Source{Name: "modules.properties", Content: []byte("# comment\nfoo.bar=grp:art\n")}

	for _, order := range [][]Source{{first, second}, {second, first}} {
		_, err := LoadBaseline(order...)
		require.ErrorIs(t, err, ErrBaselineConflict)
		var conflict *BaselineConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "foo.bar", conflict.Module)
		assert.Contains(t, err.Error(), "foo.bar already present")
	}
}

func TestLoadBaseline_RejectsInvalidCoordinates(t *testing.T) {
	t.Parallel()

	_, err := LoadBaseline(Source{Name: "x.properties", Content: []byte("foo.bar=not-a-coordinate\n")})
	require.ErrorIs(t, err, ErrInvalidBaseline)
	require.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestDefaultBaseline(t *testing.T) {
	t.Parallel()

	b, err := DefaultBaseline()
	require.NoError(t, err)
	assert.Positive(t, b.Len())

	c, ok := b.Lookup("jakarta.mail")
	require.True(t, ok)
	assert.Equal(t, Coordinate("com.sun.mail:jakarta.mail"), c)
	assert.Equal(t, UniqueModulesSource, b.Source("jakarta.mail"))

	c, ok = b.Lookup("spring.core")
	require.True(t, ok)
	assert.Equal(t, "org.springframework", c.Group())
	assert.Equal(t, ModulesSource, b.Source("spring.core"))
}

func TestSourceFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "extra.properties")
	require.NoError(t, os.WriteFile(path, []byte("org.acme=org.acme:acme\n"), 0o644))

	src, err := SourceFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "extra.properties", src.Name)

	b, err := LoadBaseline(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"org.acme"}, b.Names())

	_, err = SourceFromFile(filepath.Join(t.TempDir(), "missing.properties"))
	require.ErrorIs(t, err, ErrInvalidBaseline)
}

func TestNilBaseline(t *testing.T) {
	t.Parallel()

	var b *Baseline
	_, ok := b.Lookup("x")
	assert.False(t, ok)
	assert.Zero(t, b.Len())
	assert.Empty(t, b.Names())
}
