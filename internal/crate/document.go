package crate

import (
	"encoding/json"
	"fmt"

	"github.com/m4i-labs/provcrate/internal/provgraph"
	"github.com/m4i-labs/provcrate/internal/vocab"
)

// Document renders g as a JSON-LD document whose local prefix is bound to
// the run namespace ns. fetched holds the published vocabulary terms, which
// take precedence over the built-in ones.
func Document(g *provgraph.Graph, fetched map[string]any, ns string) map[string]any {
	nodes := g.Nodes()
	graph := make([]any, len(nodes))
	for i, n := range nodes {
		graph[i] = n
	}
	return map[string]any{
		"@context": vocab.MergeContext(fetched, ns),
		"@graph":   graph,
	}
}

// MarshalDocument encodes doc as indented JSON.
func MarshalDocument(doc map[string]any) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding JSON-LD document: %w", err)
	}
	return append(data, '\n'), nil
}
