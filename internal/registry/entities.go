package registry

// ProcessingStep is a workflow rule, the template of the jobs that run it.
type ProcessingStep struct {
	ID       string
	Label    string
	Position int // topological rank
	Seq      int
}

// FileObject is a file consumed or produced by a job. Its ID is the path.
type FileObject struct {
	ID          string
	Label       string
	ContentType string
	Seq         int
}

// ParamKind distinguishes textual from numeric parameters.
type ParamKind string

const (
	KindText    ParamKind = "text"
	KindNumeric ParamKind = "numeric"
)

// Parameter is a named value read from a file. Value is a string for text
// parameters and a json.Number (or float64) for numeric ones.
type Parameter struct {
	ID       string
	Seq      int
	Kind     ParamKind
	Label    string
	Value    any
	Unit     string // unit IRI, empty when absent
	DataType string // e.g. schema:Float, empty when absent
}

// Key returns the structural identity of the parameter.
func (p *Parameter) Key() string {
	return StructuralKey(p.Kind, p.Label, p.Value, p.Unit)
}

// Field records where in which file a parameter value was read.
type Field struct {
	ID        string
	Seq       int
	Parameter *Parameter
	File      *FileObject
	Locator   string // JSON pointer into File
}

// Tool is an external software dependency.
type Tool struct {
	ID      string
	Seq     int
	Label   string
	Version string // empty when unpinned
}
