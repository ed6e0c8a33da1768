// SPDX-License-Identifier: MPL-2.0

// Package dag orders the modules of a build by their requires directives and
// reports cycles, which the module system rejects at compile time.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// CycleError reports one concrete cycle. The first module is repeated
	// at the end: [a b c a] means a requires b, b requires c, c requires a.
	CycleError struct {
		Cycle []string
	}

	// Graph is a directed graph of module names. An edge from A to B means
	// module A requires module B.
	Graph struct {
		requires map[string][]string
		// nodes keeps insertion order so results are deterministic.
		nodes   []string
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("module cycle: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		requires: make(map[string][]string),
		nodeSet:  make(map[string]bool),
	}
}

// AddModule adds a module without edges. Adding a module twice is a no-op.
func (g *Graph) AddModule(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddRequires records that module from requires module to. Both modules are
// added if missing; duplicate edges are ignored.
func (g *Graph) AddRequires(from, to string) {
	g.AddModule(from)
	g.AddModule(to)
	if slices.Contains(g.requires[from], to) {
		return
	}
	g.requires[from] = append(g.requires[from], to)
}

// Len returns the number of modules in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Order returns the modules with every module after all modules it requires
// (Kahn's algorithm). Modules without ordering constraints between them keep
// insertion order. A *CycleError is returned when no such order exists.
func (g *Graph) Order() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	// pending counts the required modules not yet emitted.
	pending := make(map[string]int, len(g.nodes))
	requiredBy := make(map[string][]string, len(g.nodes))
	for _, node := range g.nodes {
		pending[node] = len(g.requires[node])
		for _, dep := range g.requires[node] {
			requiredBy[dep] = append(requiredBy[dep], node)
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if pending[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)
		for _, dependent := range requiredBy[node] {
			pending[dependent]--
			if pending[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, &CycleError{Cycle: g.findCycle(pending)}
	}
	return result, nil
}

// Cycles returns every distinct cycle of the graph, each rotated to start at
// its lexically smallest module.
func (g *Graph) Cycles() [][]string {
	var (
		cycles [][]string
		seen   = make(map[string]bool)
		stack  []string
		onPath = make(map[string]int)
		done   = make(map[string]bool)
	)
	var visit func(string)
	visit = func(node string) {
		onPath[node] = len(stack)
		stack = append(stack, node)
		for _, dep := range g.requires[node] {
			if start, ok := onPath[dep]; ok {
				c := canonicalCycle(stack[start:])
				if key := strings.Join(c, " "); !seen[key] {
					seen[key] = true
					cycles = append(cycles, c)
				}
				continue
			}
			if !done[dep] {
				visit(dep)
			}
		}
		stack = stack[:len(stack)-1]
		delete(onPath, node)
		done[node] = true
	}
	for _, node := range g.nodes {
		if !done[node] {
			visit(node)
		}
	}
	return cycles
}

// findCycle walks the edges between modules left over by Order. Every such
// module still requires another leftover module, so the walk must revisit one.
func (g *Graph) findCycle(pending map[string]int) []string {
	var start string
	for _, node := range g.nodes {
		if pending[node] > 0 {
			start = node
			break
		}
	}
	index := make(map[string]int)
	var path []string
	for node := start; ; {
		if i, ok := index[node]; ok {
			return append(slices.Clone(path[i:]), node)
		}
		index[node] = len(path)
		path = append(path, node)
		for _, dep := range g.requires[node] {
			if pending[dep] > 0 {
				node = dep
				break
			}
		}
	}
}

// canonicalCycle rotates the cycle to start at its smallest module and
// closes it by repeating that module.
func canonicalCycle(path []string) []string {
	minIdx := 0
	for i, n := range path {
		if n < path[minIdx] {
			minIdx = i
		}
	}
	out := make([]string, 0, len(path)+1)
	out = append(out, path[minIdx:]...)
	out = append(out, path[:minIdx]...)
	return append(out, out[0])
}
