// SPDX-License-Identifier: MPL-2.0

package localmod

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jpmsdeps/jpmsdeps/internal/descache"
	"github.com/jpmsdeps/jpmsdeps/internal/testutil"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	cache, err := descache.New(0, nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewRegistry(cache)
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mainPath := testutil.WriteDescriptor(t, root, "app", "main", "module org.example.app { requires org.slf4j; }")
	fixturesPath := testutil.WriteDescriptor(t, root, "app", "testFixtures", "module org.example.app.test.fixtures { requires org.example.app; }")

	r := newRegistry(t)
	main, err := r.Register(":app", mainPath, "", "org.example", "main")
	if err != nil {
		t.Fatalf("Register(main) error = %v", err)
	}
	if main.Name() != "org.example.app" || main.Artifact() != "app" || main.UnitPath() != ":app" {
		t.Errorf("main module = %+v", main)
	}
	if _, ok := main.CapabilitySuffix(); ok {
		t.Error("main variant should have no capability suffix")
	}
	if capability, err := main.Capability(); err != nil || capability != "" {
		t.Errorf("main Capability() = %q, %v", capability, err)
	}

	fixtures, err := r.Register(":app", fixturesPath, "app", "org.example", "testFixtures")
	if err != nil {
		t.Fatalf("Register(testFixtures) error = %v", err)
	}
	suffix, ok := fixtures.CapabilitySuffix()
	if !ok || suffix != "test-fixtures" {
		t.Errorf("CapabilitySuffix() = %q, %v", suffix, ok)
	}
	capability, err := fixtures.Capability()
	if err != nil || capability != "org.example:app-test-fixtures" {
		t.Errorf("Capability() = %q, %v", capability, err)
	}

	got, ok := r.Lookup("org.example.app.test.fixtures")
	if !ok || !got.Equal(fixtures) {
		t.Errorf("Lookup() = %v, %v", got, ok)
	}
	if _, ok := r.Lookup("org.slf4j"); ok {
		t.Error("Lookup() of a required module should fail")
	}

	all := r.All()
	if len(all) != 2 || all[0].Name() != "org.example.app" || all[1].Name() != "org.example.app.test.fixtures" {
		t.Errorf("All() = %v", all)
	}
}

func TestRegistry_DuplicateKeepsFirst(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	first := testutil.WriteDescriptor(t, root, "a", "main", "module org.example.shared {}")
	second := testutil.WriteDescriptor(t, root, "b", "main", "module org.example.shared {}")

	r := newRegistry(t)
	if _, err := r.Register(":a", first, "", "", ""); err != nil {
		t.Fatal(err)
	}
	kept, err := r.Register(":b", second, "", "", "")
	if !errors.Is(err, ErrDuplicateLocalModule) {
		t.Fatalf("Register() error = %v, want ErrDuplicateLocalModule", err)
	}
	var dup *DuplicateLocalModuleError
	if !errors.As(err, &dup) || dup.Existing != ":a" || dup.Rejected != ":b" {
		t.Errorf("duplicate error = %+v", dup)
	}
	if kept.UnitPath() != ":a" {
		t.Errorf("kept module belongs to %s, want :a", kept.UnitPath())
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_MissingDescriptor(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	_, err := r.Register(":none", filepath.Join(t.TempDir(), "module-info.java"), "", "", "")
	if !errors.Is(err, ErrNoDescriptor) {
		t.Errorf("Register() error = %v, want ErrNoDescriptor", err)
	}
}

func TestLocalModule_CapabilityWithoutGroup(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := testutil.WriteDescriptor(t, root, "lib", "integrationTest", "module lib.integration.test {}")

	r := newRegistry(t)
	m, err := r.Register(":lib", path, "", "", "integrationTest")
	if err != nil {
		t.Fatal(err)
	}
	_, err = m.Capability()
	if !errors.Is(err, ErrMissingGroup) {
		t.Errorf("Capability() error = %v, want ErrMissingGroup", err)
	}
}

func TestUnitNames(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{":app", "app"},
		{":services:billing", "billing"},
		{"services/billing", "billing"},
		{"app", "app"},
	}
	for _, tt := range tests {
		if got := UnitName(tt.in); got != tt.want {
			t.Errorf("UnitName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := UnitPathFromDir("services/billing"); got != ":services:billing" {
		t.Errorf("UnitPathFromDir() = %q", got)
	}
	if got := SourceSetToModuleName("my-lib", "testFixtures"); got != "my.lib.test.fixtures" {
		t.Errorf("SourceSetToModuleName() = %q", got)
	}
}
