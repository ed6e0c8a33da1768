// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for i, v := range values {
		if v.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), i+1)
		}
	}
}

func TestAllIssuesHaveContent(t *testing.T) {
	t.Parallel()

	slugs := make(map[string]bool)
	for _, i := range Values() {
		if strings.TrimSpace(string(i.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no markdown", i.Id())
		}
		if len(i.DocLinks()) == 0 {
			t.Errorf("issue %d has no doc links", i.Id())
		}
		if i.Slug() == "" || slugs[i.Slug()] {
			t.Errorf("issue %d has empty or duplicate slug %q", i.Id(), i.Slug())
		}
		slugs[i.Slug()] = true
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	i, ok := Lookup("unresolved-module")
	if !ok || i.Id() != UnresolvedModuleId {
		t.Fatalf("Lookup(unresolved-module) = %v, %v", i, ok)
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(nope) should fail")
	}
	if Get(Id(0)) != nil {
		t.Error("Get(0) should be nil")
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	t.Parallel()

	i := Get(UnresolvedModuleId)
	links := i.ExtLinks()
	links[0] = "mutated"
	if i.ExtLinks()[0] == "mutated" {
		t.Error("ExtLinks() should return a copy")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	t.Parallel()

	for _, i := range Values() {
		out, err := i.Render("notty")
		if err != nil {
			t.Errorf("Render(%s) error = %v", i.Slug(), err)
			continue
		}
		if !strings.Contains(out, "See also") {
			t.Errorf("Render(%s) misses the links section", i.Slug())
		}
	}
}
