package crate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/m4i-labs/provcrate/internal/ctxlog"
	"github.com/m4i-labs/provcrate/internal/provgraph"
	"github.com/m4i-labs/provcrate/internal/trace"
)

// Options control packaging.
type Options struct {
	// NamespaceBase is the IRI the run hash is appended to. It must end
	// with a slash.
	NamespaceBase string
	// HashLength is the number of hex characters of the run hash.
	HashLength int
	// Context holds the published vocabulary terms; may be empty.
	Context map[string]any
	// WorkDir is the directory the trace's relative paths resolve against.
	WorkDir string
	// OutputDir receives the archive and loose copies of both reports.
	OutputDir string
	// WorkflowFile is used when the trace names no workflow definition.
	WorkflowFile string
	// Name is the crate's display name.
	Name string
}

// Result describes a written archive.
type Result struct {
	Hash      string
	Namespace string
	Archive   string
	Manifest  Manifest
	JSONLD    []byte
	Turtle    []byte
}

// Package hashes, serializes and archives g.
func Package(ctx context.Context, g *provgraph.Graph, t *trace.Trace, opts Options) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	hash, err := Namespace(g, t, opts.WorkflowFile, opts.HashLength)
	if err != nil {
		return nil, err
	}
	ns := NamespaceIRI(opts.NamespaceBase, hash)
	logger.Debug("run namespace", "namespace", ns)

	doc := Document(g, opts.Context, ns)
	jsonld, err := MarshalDocument(doc)
	if err != nil {
		return nil, err
	}

	triples, err := Triples(doc, ns)
	if err != nil {
		return nil, err
	}
	var ttl bytes.Buffer
	if err := EncodeTurtle(&ttl, triples, Prefixes()); err != nil {
		return nil, &SerializationError{Err: err}
	}
	logger.Debug("graph serialized", "triples", len(triples))

	manifest := BuildManifest(ctx, g, t, opts.WorkDir, opts.WorkflowFile, hash)
	name := opts.Name
	if name == "" {
		name = "provenance-" + hash
	}
	meta, err := Metadata(manifest, name)
	if err != nil {
		return nil, err
	}

	generated := map[string][]byte{
		ReportJSONLD:  jsonld,
		ReportTurtle:  ttl.Bytes(),
		CrateMetadata: meta,
	}
	archive, err := WriteArchive(ctx, opts.OutputDir, opts.WorkDir, manifest, generated)
	if err != nil {
		return nil, err
	}

	for _, name := range []string{ReportJSONLD, ReportTurtle} {
		if err := os.WriteFile(filepath.Join(opts.OutputDir, name), generated[name], 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
	}

	return &Result{
		Hash:      hash,
		Namespace: ns,
		Archive:   archive,
		Manifest:  manifest,
		JSONLD:    jsonld,
		Turtle:    ttl.Bytes(),
	}, nil
}
