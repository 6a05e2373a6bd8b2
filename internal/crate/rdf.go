package crate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/knakk/rdf"
	"github.com/piprate/json-gold/ld"
)

// Triples converts a JSON-LD document to RDF triples of its default graph.
// Relative identifiers, such as file paths, resolve against base. The
// triples are sorted by their N-Triples form.
func Triples(doc map[string]any, base string) ([]rdf.Triple, error) {
	// The processor only understands the generic JSON value types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, &SerializationError{Err: err}
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, &SerializationError{Err: err}
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions(base)

	out, err := proc.ToRDF(generic, opts)
	if err != nil {
		return nil, &SerializationError{Err: err}
	}
	dataset, ok := out.(*ld.RDFDataset)
	if !ok {
		return nil, &SerializationError{Err: fmt.Errorf("unexpected processor result %T", out)}
	}

	quads := dataset.Graphs["@default"]
	triples := make([]rdf.Triple, 0, len(quads))
	for _, q := range quads {
		node := nodeName(q.Subject, base)
		subj, err := subjectTerm(q.Subject)
		if err != nil {
			return nil, &SerializationError{Node: node, Err: err}
		}
		pred, err := iriTerm(q.Predicate)
		if err != nil {
			return nil, &SerializationError{Node: node, Err: err}
		}
		obj, err := objectTerm(q.Object)
		if err != nil {
			return nil, &SerializationError{Node: node, Err: err}
		}
		triples = append(triples, rdf.Triple{Subj: subj, Pred: pred, Obj: obj})
	}

	SortTriples(triples)
	return triples, nil
}

// SortTriples orders triples by their N-Triples serialization.
func SortTriples(ts []rdf.Triple) {
	sort.Slice(ts, func(i, j int) bool {
		return ts[i].Serialize(rdf.NTriples) < ts[j].Serialize(rdf.NTriples)
	})
}

func subjectTerm(n ld.Node) (rdf.Subject, error) {
	switch v := n.(type) {
	case *ld.IRI:
		return rdf.NewIRI(v.Value)
	case *ld.BlankNode:
		return rdf.NewBlank(strings.TrimPrefix(v.Attribute, "_:"))
	default:
		return nil, fmt.Errorf("subject of type %T", n)
	}
}

func iriTerm(n ld.Node) (rdf.Predicate, error) {
	v, ok := n.(*ld.IRI)
	if !ok {
		return nil, fmt.Errorf("predicate of type %T", n)
	}
	return rdf.NewIRI(v.Value)
}

func objectTerm(n ld.Node) (rdf.Object, error) {
	switch v := n.(type) {
	case *ld.IRI:
		return rdf.NewIRI(v.Value)
	case *ld.BlankNode:
		return rdf.NewBlank(strings.TrimPrefix(v.Attribute, "_:"))
	case *ld.Literal:
		if v.Language != "" {
			return rdf.NewLangLiteral(v.Value, v.Language)
		}
		dt := v.Datatype
		if dt == "" {
			dt = ld.XSDString
		}
		iri, err := rdf.NewIRI(dt)
		if err != nil {
			return nil, fmt.Errorf("datatype of %q: %w", v.Value, err)
		}
		return rdf.NewTypedLiteral(v.Value, iri), nil
	default:
		return nil, fmt.Errorf("object of type %T", n)
	}
}

// nodeName reports a subject the way it appears in the graph: local
// identifiers lose the namespace again.
func nodeName(n ld.Node, base string) string {
	switch v := n.(type) {
	case *ld.IRI:
		return strings.TrimPrefix(v.Value, base)
	case *ld.BlankNode:
		return v.Attribute
	default:
		return fmt.Sprint(n)
	}
}
