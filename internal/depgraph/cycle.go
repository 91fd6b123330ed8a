package depgraph

import (
	"fmt"

	"github.com/pullconf/pullconf/internal/perr"
	"github.com/pullconf/pullconf/internal/resource"
)

type dfsColor uint8

const (
	white dfsColor = iota
	gray
	black
)

// findCycle runs a recursive DFS over the dependency union
// graph and returns the participating identity keys of the first cycle
// found, or nil if the graph is acyclic (spec §4.F).
func (g *Graph) findCycle() []string {
	n := g.arena.Len()
	color := make([]dfsColor, n)
	var stack []int
	var cycle []string

	var visit func(i int) bool
	visit = func(i int) bool {
		color[i] = gray
		stack = append(stack, i)
		for _, j := range g.Dependencies(i) {
			switch color[j] {
			case white:
				if visit(j) {
					return true
				}
			case gray:
				cycle = cycleFrom(stack, j, g.arena)
				return true
			case black:
				// already fully explored, no cycle through j
			}
		}
		stack = stack[:len(stack)-1]
		color[i] = black
		return false
	}

	for i := 0; i < n; i++ {
		if color[i] == white {
			if visit(i) {
				return cycle
			}
		}
	}
	return nil
}

// cycleFrom renders the portion of the DFS stack from the first
// occurrence of target onward as identity-key strings.
func cycleFrom(stack []int, target int, a *Arena) []string {
	start := 0
	for k, v := range stack {
		if v == target {
			start = k
			break
		}
	}
	out := make([]string, 0, len(stack)-start+1)
	for _, idx := range stack[start:] {
		out = append(out, a.ID(idx).String())
	}
	out = append(out, a.ID(target).String())
	return out
}

// checkIllogicalEdges rejects a path-bearing resource that depends,
// directly or transitively, on a resource whose path is a descendant of
// its own path (spec §4.F).
func (g *Graph) checkIllogicalEdges(client string) error {
	n := g.arena.Len()
	for i := 0; i < n; i++ {
		p, ok := pathOf(g.arena.Resource(i))
		if !ok {
			continue
		}
		for _, j := range g.transitiveClosure(i) {
			q, ok := pathOf(g.arena.Resource(j))
			if !ok {
				continue
			}
			if resource.AncestorOf(p, q) {
				return &perr.GraphError{
					Client: client,
					Reason: fmt.Sprintf("%s depends on %s, a descendant of its own path", g.arena.ID(i), g.arena.ID(j)),
					Cycle:  []string{g.arena.ID(i).String(), g.arena.ID(j).String()},
				}
			}
		}
	}
	return nil
}

// transitiveClosure returns every index reachable from i via
// Dependencies, excluding i itself. The graph is already known acyclic
// by the time this runs, so a plain BFS terminates.
func (g *Graph) transitiveClosure(i int) []int {
	seen := newBitmapSet()
	queue := []int{i}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, j := range g.Dependencies(cur) {
			if !seen.Contains(j) {
				seen.Add(j)
				queue = append(queue, j)
			}
		}
	}
	return seen.Items()
}
