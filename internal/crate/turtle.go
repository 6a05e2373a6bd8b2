package crate

import (
	"fmt"
	"io"

	"github.com/knakk/rdf"

	"github.com/m4i-labs/provcrate/internal/vocab"
)

// Prefixes maps the vocabulary namespaces to the prefixes used in Turtle
// output.
func Prefixes() map[string]string {
	return map[string]string{
		vocab.M4I:    "m4i",
		vocab.Schema: "schema",
		vocab.RDFS:   "rdfs",
		vocab.OBO:    "obo",
		vocab.XSD:    "xsd",
		vocab.CR:     "cr",
		vocab.Units:  "units",
	}
}

// EncodeTurtle writes triples as Turtle. prefixes maps namespace IRIs to
// prefix names.
func EncodeTurtle(w io.Writer, triples []rdf.Triple, prefixes map[string]string) error {
	enc := rdf.NewTripleEncoder(w, rdf.Turtle)
	enc.Namespaces = prefixes
	if err := enc.EncodeAll(triples); err != nil {
		return fmt.Errorf("encoding Turtle: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flushing Turtle: %w", err)
	}
	return nil
}

// DecodeTurtle parses a Turtle document.
func DecodeTurtle(r io.Reader) ([]rdf.Triple, error) {
	dec := rdf.NewTripleDecoder(r, rdf.Turtle)
	triples, err := dec.DecodeAll()
	if err != nil {
		return nil, fmt.Errorf("decoding Turtle: %w", err)
	}
	return triples, nil
}
