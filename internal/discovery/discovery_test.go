// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jpmsdeps/jpmsdeps/internal/config"
	"github.com/jpmsdeps/jpmsdeps/internal/descache"
	"github.com/jpmsdeps/jpmsdeps/internal/issue"
	"github.com/jpmsdeps/jpmsdeps/internal/localmod"
	"github.com/jpmsdeps/jpmsdeps/internal/testutil"
)

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"modules/billing/src/main/java/module-info.java":         "module org.example.billing {}",
		"modules/billing/src/testFixtures/java/module-info.java": "module org.example.billing.test.fixtures {}",
		"modules/billing/src/test/java/module-info.java":         "open module org.example.billing.test {}",
		"modules/docs/README.md":                                 "no descriptors here",
		"modules/legacy/src/main/java/module-info.java":          "module org.example.legacy {}",
		"modules/tmp-scratch/src/main/java/module-info.java":     "module org.example.scratch {}",
		"app/src/main/java/module-info.java":                     "module org.example.app {}",
	})
	return root
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := buildTree(t)
	d := New(root,
		WithDirectories(config.DirectoryEntry{Path: "modules", Group: "org.example.modules", Exclusions: []string{"tmp-*", "modules/legacy"}}),
		WithModules(config.ModuleEntry{Directory: "app", Artifact: "application"}),
		WithGroup("org.example"))

	units, diags, err := d.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2: %+v", len(units), units)
	}

	app, billing := units[0], units[1]
	if app.Path != ":application" || app.Artifact != "application" || app.Group != "org.example" {
		t.Errorf("app = %+v", app)
	}
	if app.Dir != filepath.Join(root, "app") {
		t.Errorf("app.Dir = %q", app.Dir)
	}
	if billing.Path != ":billing" || billing.Group != "org.example.modules" {
		t.Errorf("billing = %+v", billing)
	}

	var names []string
	for _, s := range billing.SourceSets {
		names = append(names, s.Name)
	}
	if len(names) != 3 || names[0] != "main" || names[1] != "test" || names[2] != "testFixtures" {
		t.Errorf("source sets = %v, want main first then sorted", names)
	}
	if main, ok := billing.Main(); !ok || main.DescriptorPath != filepath.Join(root, "modules", "billing", "src", "main", "java", "module-info.java") {
		t.Errorf("Main() = %+v, %v", main, ok)
	}
}

func TestDiscover_ExplicitModuleWins(t *testing.T) {
	t.Parallel()

	root := buildTree(t)
	d := New(root,
		WithModules(config.ModuleEntry{Directory: "modules/billing", Artifact: "billing-core"}),
		WithDirectories(config.DirectoryEntry{Path: "modules"}))

	units, _, err := d.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, u := range units {
		if u.Path == ":billing" {
			t.Errorf("explicitly configured directory must not be listed again: %+v", u)
		}
	}
}

func TestDiscover_Diagnostics(t *testing.T) {
	t.Parallel()

	root := buildTree(t)
	testutil.WriteTree(t, root, map[string]string{
		"other/billing/src/main/java/module-info.java": "module org.other.billing {}",
	})
	d := New(root,
		WithDirectories(
			config.DirectoryEntry{Path: "modules", Exclusions: []string{"**/legacy", "tmp-*"}},
			config.DirectoryEntry{Path: "other"},
			config.DirectoryEntry{Path: "missing"}),
		WithModules(config.ModuleEntry{Directory: "nowhere"}))

	units, diags, err := d.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 1 {
		t.Errorf("units = %+v", units)
	}

	codes := map[issue.Id]int{}
	for _, diag := range diags {
		codes[diag.Issue]++
	}
	if codes[issue.DescriptorNotFoundId] != 2 {
		t.Errorf("want two missing-directory diagnostics, got %v", diags)
	}
	if codes[issue.DuplicateLocalModuleId] != 1 {
		t.Errorf("want one duplicate unit diagnostic, got %v", diags)
	}
}

func TestDiscover_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := New(buildTree(t), WithDirectories(config.DirectoryEntry{Path: "modules"})).Discover(ctx)
	if err == nil {
		t.Error("expected context error")
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	root := buildTree(t)
	testutil.WriteTree(t, root, map[string]string{
		"copy/src/main/java/module-info.java":   "module org.example.app {}",
		"broken/src/main/java/module-info.java": "// nothing declared",
	})
	units, _, err := New(root,
		WithModules(
			config.ModuleEntry{Directory: "app"},
			config.ModuleEntry{Directory: "copy"},
			config.ModuleEntry{Directory: "broken"}),
		WithDirectories(config.DirectoryEntry{Path: "modules", Exclusions: []string{"legacy", "tmp-*"}}),
		WithGroup("org.example"),
	).Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	cache, err := descache.New(0, nil)
	if err != nil {
		t.Fatal(err)
	}
	reg := localmod.NewRegistry(cache)
	diags, err := Register(reg, units)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if len(diags) != 2 {
		t.Fatalf("diagnostics = %v", diags)
	}

	if reg.Len() != 4 {
		t.Errorf("registry has %d modules, want 4: %v", reg.Len(), reg.All())
	}
	m, ok := reg.Lookup("org.example.billing.test.fixtures")
	if !ok {
		t.Fatal("test fixtures module not registered")
	}
	if capability, err := m.Capability(); err != nil || capability != "org.example:billing-test-fixtures" {
		t.Errorf("Capability() = %q, %v", capability, err)
	}
	if app, _ := reg.Lookup("org.example.app"); app.UnitPath() != ":app" {
		t.Errorf("first registration must win, got %s", app.UnitPath())
	}
}
