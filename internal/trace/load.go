package trace

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Load reads a trace file. YAML and JSON are both accepted.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trace %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("trace %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates trace bytes.
func Parse(data []byte) (*Trace, error) {
	var t Trace
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing trace: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks the invariants the graph builder relies on.
func (t *Trace) Validate() error {
	seen := make(map[string]bool, len(t.Jobs))
	for i, j := range t.Jobs {
		if strings.TrimSpace(j.Rule) == "" {
			return fmt.Errorf("job %d: missing rule", i)
		}
		if j.JobID == "" {
			return fmt.Errorf("job %d (rule %s): missing jobid", i, j.Rule)
		}
		if seen[j.JobID] {
			return fmt.Errorf("duplicate jobid %s", j.JobID)
		}
		seen[j.JobID] = true
		if j.EndTime < j.StartTime {
			return fmt.Errorf("job %s (rule %s): endtime %v before starttime %v", j.JobID, j.Rule, j.EndTime, j.StartTime)
		}
	}

	// Sorted for a deterministic first error.
	ids := make([]string, 0, len(t.Dependencies))
	for id := range t.Dependencies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if !seen[id] {
			return fmt.Errorf("dependencies: unknown job %s", id)
		}
		for _, dep := range t.Dependencies[id] {
			if !seen[dep] {
				return fmt.Errorf("dependencies of job %s: unknown job %s", id, dep)
			}
		}
	}
	return nil
}

// SortedJobs returns the jobs ordered by start time. Jobs that started at
// the same time keep their trace order.
func (t *Trace) SortedJobs() []Job {
	jobs := make([]Job, len(t.Jobs))
	copy(jobs, t.Jobs)
	sort.SliceStable(jobs, func(a, b int) bool {
		return jobs[a].StartTime < jobs[b].StartTime
	})
	return jobs
}
