package registry

import "fmt"

// Registry holds the entity stores of one run. It is not safe for
// concurrent use; the graph builder is its only writer.
type Registry struct {
	steps      *Store[*ProcessingStep]
	files      *Store[*FileObject]
	parameters *Store[*Parameter]
	tools      *Store[*Tool]
	fields     []*Field

	// ContentType guesses a file's media type when it is first seen.
	ContentType func(path string) string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		steps:      NewStore[*ProcessingStep](),
		files:      NewStore[*FileObject](),
		parameters: NewStore[*Parameter](),
		tools:      NewStore[*Tool](),
	}
}

// Step resolves the processing step of a rule. position is only used when
// the step is created.
func (r *Registry) Step(rule string, position int) (*ProcessingStep, bool) {
	return r.steps.GetOrCreate(rule, func(seq int) *ProcessingStep {
		return &ProcessingStep{
			ID:       "local:rule_" + rule,
			Label:    rule,
			Position: position,
			Seq:      seq,
		}
	})
}

// File resolves the file object of a path. The first sighting decides its
// metadata.
func (r *Registry) File(path string) (*FileObject, bool) {
	return r.files.GetOrCreate(path, func(seq int) *FileObject {
		f := &FileObject{ID: path, Label: path, Seq: seq}
		if r.ContentType != nil {
			f.ContentType = r.ContentType(path)
		}
		return f
	})
}

// Parameter resolves a candidate by structural equality. A new parameter
// takes the candidate's attributes and gets the next identifier; a
// structural duplicate returns the first-seen instance unchanged.
func (r *Registry) Parameter(candidate Parameter) (*Parameter, bool) {
	return r.parameters.GetOrCreate(candidate.Key(), func(seq int) *Parameter {
		p := candidate
		p.ID = fmt.Sprintf("local:parameter_%d", seq)
		p.Seq = seq
		return &p
	})
}

// Tool resolves a tool by name. The first version seen wins; the returned
// tool may carry a different version than the one passed.
func (r *Registry) Tool(name, version string) (*Tool, bool) {
	return r.tools.GetOrCreate(name, func(seq int) *Tool {
		return &Tool{
			ID:      fmt.Sprintf("local:tool_%d", seq),
			Seq:     seq,
			Label:   name,
			Version: version,
		}
	})
}

// NewField records one occurrence of p in file f.
func (r *Registry) NewField(p *Parameter, f *FileObject, locator string) *Field {
	seq := len(r.fields)
	field := &Field{
		ID:        fmt.Sprintf("local:field_%d", seq),
		Seq:       seq,
		Parameter: p,
		File:      f,
		Locator:   locator,
	}
	r.fields = append(r.fields, field)
	return field
}

// Steps returns the processing steps in creation order.
func (r *Registry) Steps() []*ProcessingStep { return r.steps.Values() }

// Files returns the file objects in creation order.
func (r *Registry) Files() []*FileObject { return r.files.Values() }

// Parameters returns the parameters in creation order.
func (r *Registry) Parameters() []*Parameter { return r.parameters.Values() }

// Tools returns the tools in creation order.
func (r *Registry) Tools() []*Tool { return r.tools.Values() }

// Fields returns the fields in creation order.
func (r *Registry) Fields() []*Field {
	out := make([]*Field, len(r.fields))
	copy(out, r.fields)
	return out
}
