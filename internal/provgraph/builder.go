package provgraph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/m4i-labs/provcrate/internal/ctxlog"
	"github.com/m4i-labs/provcrate/internal/extractor"
	"github.com/m4i-labs/provcrate/internal/mediatype"
	"github.com/m4i-labs/provcrate/internal/registry"
	"github.com/m4i-labs/provcrate/internal/trace"
)

// Builder turns a workflow trace into a Graph.
type Builder struct {
	// Extractor supplies parameter and tool facts. A nil or disabled
	// extractor yields a graph without parameters, fields and tools.
	Extractor *extractor.Checked
	// WorkDir is the directory trace file paths are relative to. Empty
	// means the current directory.
	WorkDir string
}

// build holds the state of one Build call.
type build struct {
	*Builder
	ctx      context.Context
	reg      *registry.Registry
	graph    *Graph
	pairs    map[string][]*registry.Parameter // rule + "\x00" + path -> parameters read
	seenFile map[string]bool                  // paths extracted at all
	envTools map[string][]*registry.Tool      // environment text -> resolved tools
}

// Build assembles the graph of t in a single pass. Extractor contract
// violations and failures other than unreadable files abort the build;
// missing files are recorded as warnings.
func (b *Builder) Build(ctx context.Context, t *trace.Trace) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)

	dag := trace.NewDAG(t)
	ranks, err := dag.StepRanks()
	if err != nil {
		return nil, fmt.Errorf("ranking processing steps: %w", err)
	}
	order, err := dag.Toposorted()
	if err != nil {
		return nil, fmt.Errorf("ordering processing steps: %w", err)
	}

	reg := registry.New()
	reg.ContentType = mediatype.Of

	st := &build{
		Builder:  b,
		ctx:      ctx,
		reg:      reg,
		graph:    &Graph{},
		pairs:    make(map[string][]*registry.Parameter),
		seenFile: make(map[string]bool),
		envTools: make(map[string][]*registry.Tool),
	}

	for _, tj := range t.SortedJobs() {
		if err := st.addJob(tj, ranks[tj.Rule]); err != nil {
			return nil, err
		}
	}

	g := st.graph
	g.Steps = stepsInOrder(reg.Steps(), order)
	g.Files = reg.Files()
	g.Parameters = reg.Parameters()
	g.Fields = reg.Fields()
	g.Tools = reg.Tools()

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("assembling graph: %w", err)
	}

	logger.Debug("graph assembled",
		"steps", len(g.Steps), "jobs", len(g.Jobs), "files", len(g.Files),
		"parameters", len(g.Parameters), "fields", len(g.Fields), "tools", len(g.Tools),
		"warnings", len(g.Warnings))
	return g, nil
}

func (st *build) addJob(tj trace.Job, position int) error {
	step, _ := st.reg.Step(tj.Rule, position)
	job := &Job{
		ID:    "local:job_" + tj.JobID,
		Label: tj.Rule + "_" + tj.JobID,
		Start: tj.Started(),
		End:   tj.Ended(),
		Step:  step,
	}
	attached := make(map[string]bool)
	attach := func(params []*registry.Parameter) {
		for _, p := range params {
			if !attached[p.ID] {
				attached[p.ID] = true
				job.Parameters = append(job.Parameters, p)
			}
		}
	}

	// An input is read once per rule; later jobs of the rule reuse what
	// was read without minting new fields.
	for _, path := range tj.Input {
		f, _ := st.reg.File(path)
		job.Inputs = append(job.Inputs, f)

		pair := tj.Rule + "\x00" + path
		params, ok := st.pairs[pair]
		if !ok {
			var err error
			if params, err = st.extractParams(tj.Rule, f); err != nil {
				return err
			}
			st.pairs[pair] = params
		}
		attach(params)
	}

	// An output is only read if no job read the file before.
	for _, path := range tj.Output {
		f, _ := st.reg.File(path)
		job.Outputs = append(job.Outputs, f)

		if st.seenFile[path] {
			continue
		}
		params, err := st.extractParams(tj.Rule, f)
		if err != nil {
			return err
		}
		st.pairs[tj.Rule+"\x00"+path] = params
		attach(params)
	}

	if tj.CondaEnv != nil && tj.CondaEnv.Content != "" {
		tools, err := st.tools(tj.Rule, tj.CondaEnv.Content)
		if err != nil {
			return err
		}
		job.Tools = tools
	}

	st.graph.Jobs = append(st.graph.Jobs, job)
	return nil
}

// extractParams reads the parameters of f, recording a field for each. A
// file that cannot be read is skipped with a warning.
func (st *build) extractParams(rule string, f *registry.FileObject) ([]*registry.Parameter, error) {
	if !st.Extractor.Enabled() {
		return nil, nil
	}
	st.seenFile[f.ID] = true

	path := st.resolve(f.ID)
	info, err := os.Stat(path)
	if err != nil {
		st.warn(f.ID, fmt.Sprintf("skipping parameter extraction: %v", err))
		return nil, nil
	}
	if info.IsDir() {
		return nil, nil
	}

	extracted, err := st.Extractor.Params(rule, path)
	if err != nil {
		if extractor.IsFileAccess(err) {
			st.warn(f.ID, fmt.Sprintf("skipping parameter extraction: %v", err))
			return nil, nil
		}
		return nil, fmt.Errorf("extracting parameters of %s for rule %s: %w", f.ID, rule, err)
	}

	names := make([]string, 0, len(extracted))
	for name := range extracted {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]*registry.Parameter, 0, len(names))
	for _, name := range names {
		ep := extracted[name]
		candidate := registry.Parameter{
			Kind:  registry.KindText,
			Label: name,
			Value: ep.Value,
		}
		if ep.Numeric() {
			candidate.Kind = registry.KindNumeric
		}
		if ep.Unit != nil {
			candidate.Unit = *ep.Unit
		}
		if ep.DataType != nil {
			candidate.DataType = *ep.DataType
		}

		p, _ := st.reg.Parameter(candidate)
		st.reg.NewField(p, f, ep.JSONPath)
		params = append(params, p)
	}
	return params, nil
}

// stepsInOrder orders steps by rule following order.
func stepsInOrder(steps []*registry.ProcessingStep, order []string) []*registry.ProcessingStep {
	idx := make(map[string]int, len(order))
	for i, rule := range order {
		idx[rule] = i
	}
	sort.SliceStable(steps, func(a, b int) bool {
		return idx[steps[a].Label] < idx[steps[b].Label]
	})
	return steps
}

func (st *build) resolve(path string) string {
	if filepath.IsAbs(path) || st.WorkDir == "" {
		return path
	}
	return filepath.Join(st.WorkDir, path)
}

func (st *build) warn(entity, msg string) {
	ctxlog.FromContext(st.ctx).Warn(msg, "entity", entity)
	st.graph.Warnings = append(st.graph.Warnings, Warning{Entity: entity, Message: msg})
}
