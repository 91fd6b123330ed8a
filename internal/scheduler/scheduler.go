// Package scheduler implements the client-side convergence scheduler
// (spec §4.I): a ready-queue walk over a fetched catalog's dependency
// graph that applies resources in order and isolates failures to their
// transitive dependents.
package scheduler

import (
	"context"
	"sort"

	"github.com/pullconf/pullconf/internal/resource"
	"github.com/pullconf/pullconf/internal/wire"
)

// State is a resource's position in the one-way state machine of spec
// §4.I: Pending → Ready → Applying → {Applied, Failed, Skipped}.
type State int

const (
	Pending State = iota
	Ready
	Applying
	Applied
	Failed
	Skipped
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Applying:
		return "applying"
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome records the terminal state of one resource after a run.
type Outcome struct {
	ID    wire.ID
	State State
	Err   error
}

// Apply is the applier boundary the scheduler drives (spec §6, applier
// contract): success reports whether anything actually changed, failure
// carries the cause.
type Apply func(ctx context.Context, r wire.Resource) (changed bool, err error)

// Report is the result of one convergence run.
type Report struct {
	Outcomes   []Outcome
	Order      []wire.ID // the order resources were popped from the ready queue and applied (skipped ones excluded)
	Unreachable []wire.ID
}

// Run walks cat's dependency graph, invoking apply on each resource in
// dependency order (spec §4.I algorithm), and returns every resource's
// terminal state.
func Run(ctx context.Context, cat *wire.Catalog, apply Apply) *Report {
	n := len(cat.Resources)
	byIndex := cat.Resources
	indexOf := make(map[string]int, n)
	for i, r := range byIndex {
		indexOf[key(r.ID)] = i
	}

	dependencies := make([][]int, n)
	dependents := make([][]int, n)
	indegree := make([]int, n)
	for i, r := range byIndex {
		seen := make(map[int]bool)
		for _, dep := range append(append([]wire.ID{}, r.Requires...), r.ImplicitRequires...) {
			j, ok := indexOf[key(dep)]
			if !ok || seen[j] {
				continue
			}
			seen[j] = true
			dependencies[i] = append(dependencies[i], j)
			dependents[j] = append(dependents[j], i)
		}
		indegree[i] = len(dependencies[i])
	}

	state := make([]State, n)
	var order []wire.ID
	ready := readyQueue{}
	for i := range byIndex {
		if indegree[i] == 0 {
			state[i] = Ready
			ready.push(i, byIndex)
		}
	}

	resolve := func(i int) {
		for _, dep := range dependents[i] {
			indegree[dep]--
			if indegree[dep] == 0 && state[dep] == Pending {
				state[dep] = Ready
				ready.push(dep, byIndex)
			}
		}
	}

	var skip func(i int)
	skip = func(i int) {
		if state[i] == Skipped || state[i] == Applied || state[i] == Failed {
			return
		}
		state[i] = Skipped
		resolve(i)
		for _, dep := range dependents[i] {
			skip(dep)
		}
	}

	for !ready.empty() {
		i := ready.pop()
		if state[i] != Ready {
			// skipped after it was queued, because one of its dependencies failed
			continue
		}
		order = append(order, byIndex[i].ID)
		state[i] = Applying

		changed, err := apply(ctx, byIndex[i])
		_ = changed
		if err != nil {
			state[i] = Failed
			resolve(i)
			for _, dep := range dependents[i] {
				skip(dep)
			}
			continue
		}
		state[i] = Applied
		resolve(i)
	}

	report := &Report{Order: order}
	for i, r := range byIndex {
		report.Outcomes = append(report.Outcomes, Outcome{ID: r.ID, State: state[i]})
		if state[i] == Pending || state[i] == Ready {
			report.Unreachable = append(report.Unreachable, r.ID)
		}
	}
	return report
}

func key(id wire.ID) string { return id.Kind + ":" + id.Key }

// readyQueue holds ready-but-not-yet-popped indices, re-sorted before
// every pop so newly-ready arrivals interleave in kind-priority then
// primary-parameter lexicographic order (spec §4.I "Determinism").
// Catalogs are small enough (bounded by one host's resource count) that
// a re-sort per pop is simpler than a heap and just as correct.
type readyQueue struct {
	items []int
	all   []wire.Resource
}

func (q *readyQueue) push(i int, all []wire.Resource) {
	q.all = all
	q.items = append(q.items, i)
}

func (q *readyQueue) empty() bool { return len(q.items) == 0 }

func (q *readyQueue) pop() int {
	sort.SliceStable(q.items, func(a, b int) bool {
		ra, rb := q.all[q.items[a]], q.all[q.items[b]]
		pa := resource.KindPriority(resource.Kind(ra.ID.Kind))
		pb := resource.KindPriority(resource.Kind(rb.ID.Kind))
		if pa != pb {
			return pa < pb
		}
		return ra.ID.Key < rb.ID.Key
	})
	i := q.items[0]
	q.items = q.items[1:]
	return i
}
