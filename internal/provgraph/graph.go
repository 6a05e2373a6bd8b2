package provgraph

import (
	"fmt"
	"strings"
	"time"

	"github.com/m4i-labs/provcrate/internal/registry"
	"github.com/m4i-labs/provcrate/internal/vocab"
)

// Job is one execution of a processing step.
type Job struct {
	ID         string
	Label      string
	Start      time.Time
	End        time.Time
	Step       *registry.ProcessingStep
	Inputs     []*registry.FileObject
	Outputs    []*registry.FileObject
	Parameters []*registry.Parameter
	Tools      []*registry.Tool
}

// Warning is a recoverable problem met while building. The entity is a file
// path, rule or tool name.
type Warning struct {
	Entity  string
	Message string
}

func (w Warning) String() string {
	return w.Entity + ": " + w.Message
}

// Graph is the closed set of entities of one run. Jobs are in start-time
// order, everything else in creation order.
type Graph struct {
	Steps      []*registry.ProcessingStep
	Jobs       []*Job
	Files      []*registry.FileObject
	Parameters []*registry.Parameter
	Fields     []*registry.Field
	Tools      []*registry.Tool

	Warnings []Warning
}

// Validate checks that every reference in the graph targets an entity of
// the graph.
func (g *Graph) Validate() error {
	ids := make(map[string]bool)
	for _, s := range g.Steps {
		ids[s.ID] = true
	}
	for _, f := range g.Files {
		ids[f.ID] = true
	}
	for _, p := range g.Parameters {
		ids[p.ID] = true
	}
	for _, t := range g.Tools {
		ids[t.ID] = true
	}

	dangling := func(from, to string) error {
		return fmt.Errorf("%s references %s, which is not part of the graph", from, to)
	}
	for _, j := range g.Jobs {
		if j.Step == nil || !ids[j.Step.ID] {
			return dangling(j.ID, "its processing step")
		}
		for _, f := range j.Inputs {
			if !ids[f.ID] {
				return dangling(j.ID, f.ID)
			}
		}
		for _, f := range j.Outputs {
			if !ids[f.ID] {
				return dangling(j.ID, f.ID)
			}
		}
		for _, p := range j.Parameters {
			if !ids[p.ID] {
				return dangling(j.ID, p.ID)
			}
		}
		for _, t := range j.Tools {
			if !ids[t.ID] {
				return dangling(j.ID, t.ID)
			}
		}
	}
	for _, fd := range g.Fields {
		if fd.Parameter == nil || !ids[fd.Parameter.ID] {
			return dangling(fd.ID, "its parameter")
		}
		if fd.File == nil || !ids[fd.File.ID] {
			return dangling(fd.ID, "its file")
		}
	}
	return nil
}

// TouchedFiles returns the files that are eligible for packaging.
func (g *Graph) TouchedFiles() []*registry.FileObject {
	var out []*registry.FileObject
	for _, f := range g.Files {
		if Touched(f.ID) {
			out = append(out, f)
		}
	}
	return out
}

// Touched reports whether id names a bare relative file: no separators, no
// scheme or drive prefix, not absolute and not a dot entry. Synthetic
// identifiers such as "local:job_1" never qualify.
func Touched(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	if strings.ContainsAny(id, `/\:`) {
		return false
	}
	return true
}

// Nodes renders the graph as JSON-LD node objects: steps, jobs, files,
// parameters, fields, tools.
func (g *Graph) Nodes() []map[string]any {
	nodes := make([]map[string]any, 0,
		len(g.Steps)+len(g.Jobs)+len(g.Files)+len(g.Parameters)+len(g.Fields)+len(g.Tools))

	for _, s := range g.Steps {
		nodes = append(nodes, map[string]any{
			"@id":              s.ID,
			"@type":            vocab.TermProcessingStep,
			vocab.TermLabel:    s.Label,
			vocab.TermPosition: s.Position,
		})
	}
	for _, j := range g.Jobs {
		nodes = append(nodes, jobNode(j))
	}
	for _, f := range g.Files {
		n := map[string]any{
			"@id":           f.ID,
			"@type":         vocab.TermFileObject,
			vocab.TermLabel: f.Label,
		}
		if f.ContentType != "" {
			n[vocab.TermEncodingFormat] = f.ContentType
		}
		nodes = append(nodes, n)
	}
	for _, p := range g.Parameters {
		nodes = append(nodes, parameterNode(p))
	}
	for _, fd := range g.Fields {
		nodes = append(nodes, map[string]any{
			"@id":                   fd.ID,
			"@type":                 vocab.TermField,
			vocab.TermLabel:         fd.Parameter.Label,
			vocab.TermFieldSource:   ref(fd.File.ID),
			vocab.TermFieldJSONPath: fd.Locator,
			vocab.TermRepresents:    ref(fd.Parameter.ID),
		})
	}
	for _, t := range g.Tools {
		n := map[string]any{
			"@id":           t.ID,
			"@type":         vocab.TermTool,
			vocab.TermLabel: t.Label,
		}
		if t.Version != "" {
			n[vocab.TermVersion] = t.Version
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func jobNode(j *Job) map[string]any {
	n := map[string]any{
		"@id":               j.ID,
		"@type":             vocab.TermProcessingStep,
		vocab.TermLabel:     j.Label,
		vocab.TermPartOf:    ref(j.Step.ID),
		vocab.TermStartTime: j.Start.UTC().Format(time.RFC3339Nano),
		vocab.TermEndTime:   j.End.UTC().Format(time.RFC3339Nano),
		vocab.TermHasInput:  fileRefs(j.Inputs),
		vocab.TermHasOutput: fileRefs(j.Outputs),
	}
	if len(j.Parameters) > 0 {
		refs := make([]map[string]any, len(j.Parameters))
		for i, p := range j.Parameters {
			refs[i] = ref(p.ID)
		}
		n[vocab.TermHasParameter] = refs
	}
	if len(j.Tools) > 0 {
		refs := make([]map[string]any, len(j.Tools))
		for i, t := range j.Tools {
			refs[i] = ref(t.ID)
		}
		n[vocab.TermHasEmployedTool] = refs
	}
	return n
}

func parameterNode(p *registry.Parameter) map[string]any {
	n := map[string]any{
		"@id":           p.ID,
		vocab.TermLabel: p.Label,
	}
	if p.Kind == registry.KindNumeric {
		n["@type"] = vocab.TermNumericalVariable
		n[vocab.TermHasNumericalValue] = p.Value
	} else {
		n["@type"] = vocab.TermTextVariable
		n[vocab.TermHasStringValue] = p.Value
	}
	if p.Unit != "" {
		// Unit IRIs such as units:PA become references; anything else is
		// kept as the literal the extractor reported.
		if strings.Contains(p.Unit, ":") {
			n[vocab.TermHasUnit] = ref(p.Unit)
		} else {
			n[vocab.TermHasUnit] = p.Unit
		}
	}
	if p.DataType != "" {
		n[vocab.TermDataType] = p.DataType
	}
	return n
}

func fileRefs(files []*registry.FileObject) []map[string]any {
	refs := make([]map[string]any, len(files))
	for i, f := range files {
		refs[i] = ref(f.ID)
	}
	return refs
}

func ref(id string) map[string]any {
	return map[string]any{"@id": id}
}
