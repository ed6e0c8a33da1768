// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestOrder_Empty(t *testing.T) {
	t.Parallel()

	order, err := New().Order()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Errorf("expected nil, got %v", order)
	}
}

func TestOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edges [][2]string
		want  []string
	}{
		{
			name:  "chain",
			edges: [][2]string{{"org.example.app", "org.example.billing"}, {"org.example.billing", "org.example.core"}},
			want:  []string{"org.example.core", "org.example.billing", "org.example.app"},
		},
		{
			name: "diamond",
			edges: [][2]string{
				{"org.example.app", "org.example.billing"},
				{"org.example.app", "org.example.shipping"},
				{"org.example.billing", "org.example.core"},
				{"org.example.shipping", "org.example.core"},
			},
			want: []string{"org.example.core", "org.example.billing", "org.example.shipping", "org.example.app"},
		},
		{
			name:  "duplicate edge",
			edges: [][2]string{{"a", "b"}, {"a", "b"}},
			want:  []string{"b", "a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			for _, e := range tt.edges {
				g.AddRequires(e[0], e[1])
			}
			got, err := g.Order()
			if err != nil {
				t.Fatalf("Order() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Order() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrder_IndependentModulesKeepInsertionOrder(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddModule("c")
	g.AddModule("a")
	g.AddModule("b")
	g.AddModule("a")
	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}
	got, err := g.Order()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{"c", "a", "b"}) {
		t.Errorf("Order() = %v", got)
	}
}

func TestOrder_Cycle(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddRequires("app", "billing")
	g.AddRequires("billing", "core")
	g.AddRequires("core", "billing")

	_, err := g.Order()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if !slices.Equal(cycleErr.Cycle, []string{"billing", "core", "billing"}) {
		t.Errorf("Cycle = %v", cycleErr.Cycle)
	}
	if err.Error() != "module cycle: billing -> core -> billing" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestOrder_SelfRequires(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddRequires("a", "a")
	_, err := g.Order()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if !slices.Equal(cycleErr.Cycle, []string{"a", "a"}) {
		t.Errorf("Cycle = %v", cycleErr.Cycle)
	}
}

func TestCycles(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddRequires("c", "a")
	g.AddRequires("a", "b")
	g.AddRequires("b", "c")
	g.AddRequires("x", "y")
	g.AddRequires("y", "x")
	g.AddRequires("z", "a")

	got := g.Cycles()
	want := [][]string{{"a", "b", "c", "a"}, {"x", "y", "x"}}
	if len(got) != len(want) {
		t.Fatalf("Cycles() = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("Cycles()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCycles_Acyclic(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddRequires("a", "b")
	g.AddRequires("a", "c")
	g.AddRequires("b", "c")
	if got := g.Cycles(); len(got) != 0 {
		t.Errorf("Cycles() = %v, want none", got)
	}
}
