package trace

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCycleDetected is returned when the job dependencies are not acyclic.
var ErrCycleDetected = errors.New("trace: cycle detected, job graph is not acyclic")

// DAG is the job dependency graph of a trace. Edges come from the explicit
// dependency map and from file flow: a job that reads a file depends on the
// job that wrote it.
type DAG struct {
	jobs  map[string]Job
	order []string            // job ids in trace order
	deps  map[string][]string // job id -> ids it depends on, sorted
}

// NewDAG derives the dependency graph of t.
func NewDAG(t *Trace) *DAG {
	d := &DAG{
		jobs: make(map[string]Job, len(t.Jobs)),
		deps: make(map[string][]string, len(t.Jobs)),
	}

	producer := make(map[string]string)
	for _, j := range t.Jobs {
		d.jobs[j.JobID] = j
		d.order = append(d.order, j.JobID)
		for _, out := range j.Output {
			if _, ok := producer[out]; !ok {
				producer[out] = j.JobID
			}
		}
	}

	for _, j := range t.Jobs {
		set := make(map[string]bool)
		for _, dep := range t.Dependencies[j.JobID] {
			set[dep] = true
		}
		for _, in := range j.Input {
			if p, ok := producer[in]; ok && p != j.JobID {
				set[p] = true
			}
		}
		deps := make([]string, 0, len(set))
		for dep := range set {
			deps = append(deps, dep)
		}
		sort.Strings(deps)
		d.deps[j.JobID] = deps
	}
	return d
}

// JobDepths returns the length of the longest dependency chain leading to
// every job. Jobs without dependencies have depth 0.
func (d *DAG) JobDepths() (map[string]int, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(d.order))
	depth := make(map[string]int, len(d.order))

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: job %s", ErrCycleDetected, id)
		}
		state[id] = visiting
		best := 0
		for _, dep := range d.deps[id] {
			if err := visit(dep); err != nil {
				return err
			}
			if depth[dep]+1 > best {
				best = depth[dep] + 1
			}
		}
		depth[id] = best
		state[id] = done
		return nil
	}

	for _, id := range d.order {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return depth, nil
}

// StepRanks assigns every rule the smallest depth of any of its jobs, which
// orders rules consistently with the dependencies between their jobs.
func (d *DAG) StepRanks() (map[string]int, error) {
	depths, err := d.JobDepths()
	if err != nil {
		return nil, err
	}
	ranks := make(map[string]int)
	for _, id := range d.order {
		rule := d.jobs[id].Rule
		if r, ok := ranks[rule]; !ok || depths[id] < r {
			ranks[rule] = depths[id]
		}
	}
	return ranks, nil
}

// Toposorted returns the rule names by rank. Rules sharing a rank are
// ordered by name only to keep the result stable.
func (d *DAG) Toposorted() ([]string, error) {
	ranks, err := d.StepRanks()
	if err != nil {
		return nil, err
	}
	rules := make([]string, 0, len(ranks))
	for r := range ranks {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(a, b int) bool {
		if ranks[rules[a]] != ranks[rules[b]] {
			return ranks[rules[a]] < ranks[rules[b]]
		}
		return rules[a] < rules[b]
	})
	return rules, nil
}
