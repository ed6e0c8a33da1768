// SPDX-License-Identifier: MPL-2.0

package modmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baselineOf(t *testing.T, tables ...string) *Baseline {
	t.Helper()
	var sources []Source
	for i, table := range tables {
		sources = append(sources, Source{Name: string(rune('a'+i)) + ".properties", Content: []byte(table)})
	}
	b, err := LoadBaseline(sources...)
	require.NoError(t, err)
	return b
}

func TestResolve_OverrideBeatsBaseline(t *testing.T) {
	t.Parallel()

	baseline := baselineOf(t, "jakarta.mail=com.sun.mail:jakarta.mail\n")
	m, err := NewBuilder(baseline).PutOverride("jakarta.mail", "com.sun.mail:jakarta.mail").Build()
	require.NoError(t, err)

	r := m.Resolve("jakarta.mail")
	require.True(t, r.IsResolved())
	assert.Equal(t, Coordinate("com.sun.mail:jakarta.mail"), r.Coordinate)
	assert.Equal(t, OriginOverride, r.Origin)
}

func TestResolve_PrefixRule(t *testing.T) {
	t.Parallel()

	m, err := NewBuilder(nil).PutPrefixRule("org.example.app.", "org.example.gr").Build()
	require.NoError(t, err)

	r := m.Resolve("org.example.app.my.mod1")
	assert.Equal(t, Coordinate("org.example.gr:my.mod1"), r.Coordinate)
	assert.Equal(t, OriginPrefix, r.Origin)
	assert.Equal(t, "org.example.app.", r.Prefix)

	name, ok := m.ModuleName("org.example.gr:mod8.ab")
	require.True(t, ok)
	assert.Equal(t, "org.example.app.mod8.ab", name)

	name, ok = m.ModuleName("org.example.gr:mod-9")
	require.True(t, ok)
	assert.Equal(t, "org.example.app.mod.9", name)
}

func TestResolve_LayerPrecedence(t *testing.T) {
	t.Parallel()

	baseline := baselineOf(t, "com.acme.lib=com.acme:baseline-lib\n")
	const (
		override = Coordinate("com.acme:override-lib")
		fromRule = Coordinate("org.acme.rule:lib")
	)

	all, err := NewBuilder(baseline).
		PutOverride("com.acme.lib", override).
		PutPrefixRule("com.acme.", "org.acme.rule").
		Build()
	require.NoError(t, err)
	assert.Equal(t, override, all.Resolve("com.acme.lib").Coordinate)

	noOverride, err := NewBuilder(baseline).PutPrefixRule("com.acme.", "org.acme.rule").Build()
	require.NoError(t, err)
	assert.Equal(t, fromRule, noOverride.Resolve("com.acme.lib").Coordinate)

	baselineOnly, err := NewBuilder(baseline).Build()
	require.NoError(t, err)
	assert.Equal(t, Coordinate("com.acme:baseline-lib"), baselineOnly.Resolve("com.acme.lib").Coordinate)
}

func TestResolve_FirstPrefixRuleWins(t *testing.T) {
	t.Parallel()

	m, err := NewBuilder(nil).
		PutPrefixRule("com.acme.", "first").
		PutPrefixRule("com.acme.lib.", "second").
		PutPrefixRule("com.acme.", "first.updated").
		Build()
	require.NoError(t, err)

	assert.Equal(t, Coordinate("first.updated:lib.x"), m.Resolve("com.acme.lib.x").Coordinate)
	assert.Equal(t, []PrefixRule{{"com.acme.", "first.updated"}, {"com.acme.lib.", "second"}}, m.PrefixRules())
	assert.False(t, m.Resolve("com.acme.").IsResolved(), "prefix alone leaves no artifact")
}

func TestResolve_LastOverrideWins(t *testing.T) {
	t.Parallel()

	m, err := NewBuilder(nil).
		PutOverride("a.b", "g:one").
		PutOverride("a.b", "g:two").
		Build()
	require.NoError(t, err)
	assert.Equal(t, Coordinate("g:two"), m.Resolve("a.b").Coordinate)
}

func TestResolve_Unresolved(t *testing.T) {
	t.Parallel()

	m, err := NewBuilder(nil).Build()
	require.NoError(t, err)

	r := m.Resolve("org.unknown")
	assert.False(t, r.IsResolved())
	err = r.Err()
	require.ErrorIs(t, err, ErrUnresolvedModule)
	var unresolved *UnresolvedModuleError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "org.unknown", unresolved.Module)
	assert.Contains(t, err.Error(), "org.unknown")

	_, err = m.GA("org.unknown")
	require.ErrorIs(t, err, ErrUnresolvedModule)
}

func TestGAAndGAV(t *testing.T) {
	t.Parallel()

	m, err := NewBuilder(baselineOf(t, "org.slf4j=org.slf4j:slf4j-api\n")).
		PutOverride("com.acme.fixtures", "com.acme:lib|test-fixtures").
		Build()
	require.NoError(t, err)

	ga, err := m.GA("org.slf4j")
	require.NoError(t, err)
	assert.Equal(t, "org.slf4j:slf4j-api", ga)

	gav, err := m.GAV("org.slf4j", "2.0.17")
	require.NoError(t, err)
	assert.Equal(t, "org.slf4j:slf4j-api:2.0.17", gav)

	ga, err = m.GA("com.acme.fixtures")
	require.NoError(t, err)
	assert.Equal(t, "com.acme:lib", ga)
}

func TestReverseResolve(t *testing.T) {
	t.Parallel()

	m, err := NewBuilder(baselineOf(t,
		"org.slf4j=org.slf4j:slf4j-api\ncom.acme.old=com.acme:lib\n",
	)).
		PutOverride("com.acme.old", "com.acme:other").
		PutOverride("com.acme.fixtures", "com.acme:lib|test-fixtures").
		Build()
	require.NoError(t, err)

	name, ok := m.ModuleName("org.slf4j:slf4j-api")
	require.True(t, ok)
	assert.Equal(t, "org.slf4j", name)

	name, ok = m.ReverseResolve("com.acme:lib|test-fixtures")
	require.True(t, ok)
	assert.Equal(t, "com.acme.fixtures", name)

	name, ok = m.ModuleName("com.acme:lib")
	require.True(t, ok, "shadowed baseline entry is skipped, primary match found")
	assert.Equal(t, "com.acme.fixtures", name)

	_, ok = m.ModuleName("nobody:nothing")
	assert.False(t, ok)
}

func TestResolveWithVersion(t *testing.T) {
	t.Parallel()

	m, err := NewBuilder(baselineOf(t, "org.slf4j=org.slf4j:slf4j-api\n")).
		PutOverride("com.acme.fixtures", "com.acme:lib|test-fixtures").
		PutPrefixRule("org.example.app.", "org.example").
		Build()
	require.NoError(t, err)

	catalog := StaticCatalog{
		"org_slf4j":         "2.0.17",
		"com-acme-fixtures": "1.2",
		"org.example.app":   "3.0",
	}

	gav, err := m.ResolveWithVersion("org.slf4j", catalog)
	require.NoError(t, err)
	assert.Equal(t, GAV{Group: "org.slf4j", Artifact: "slf4j-api", Version: "2.0.17"}, gav)
	assert.Equal(t, "org.slf4j:slf4j-api:2.0.17", gav.String())

	gav, err = m.ResolveWithVersion("com.acme.fixtures", catalog)
	require.NoError(t, err)
	assert.Equal(t, "com.acme:lib:1.2", gav.String())
	assert.Equal(t, Coordinate("com.acme:lib-test-fixtures"), gav.Capability)

	gav, err = m.ResolveWithVersion("org.example.app.core", catalog)
	require.NoError(t, err)
	assert.Equal(t, "org.example:core:3.0", gav.String())

	gav, err = m.ResolveWithVersion("org.slf4j", nil)
	require.NoError(t, err)
	assert.Empty(t, gav.Version)

	_, err = m.ResolveWithVersion("nope", catalog)
	require.ErrorIs(t, err, ErrUnresolvedModule)
}

func TestBuild_RejectsInvalidRegistrations(t *testing.T) {
	t.Parallel()

	_, err := NewBuilder(nil).PutOverride("a.b", "no-colon").PutPrefixRule("", "g").Build()
	require.ErrorIs(t, err, ErrInvalidCoordinate)
	require.ErrorIs(t, err, ErrInvalidPrefixRule)
}

func TestEntries(t *testing.T) {
	t.Parallel()

	m, err := NewBuilder(baselineOf(t, "b.mod=g:b\nc.mod=g:c\n")).
		PutOverride("c.mod", "g:c2").
		PutOverride("a.mod", "g:a").
		Build()
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{Module: "a.mod", Coordinate: "g:a", Origin: OriginOverride},
		{Module: "b.mod", Coordinate: "g:b", Origin: OriginBaseline, Source: "a.properties"},
		{Module: "c.mod", Coordinate: "g:c2", Origin: OriginOverride},
	}, m.Entries())
}

func TestMapping_BuilderChangesAfterBuildAreInvisible(t *testing.T) {
	t.Parallel()

	b := NewBuilder(nil).PutOverride("a.b", "g:a")
	m, err := b.Build()
	require.NoError(t, err)

	b.PutOverride("a.b", "g:changed").PutPrefixRule("x.", "gx")
	assert.Equal(t, Coordinate("g:a"), m.Resolve("a.b").Coordinate)
	assert.False(t, m.Resolve("x.y").IsResolved())
}
