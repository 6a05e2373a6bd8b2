package crate

import (
	"encoding/json"
	"fmt"
)

// Profile is the RO-Crate specification archives conform to.
const Profile = "https://w3id.org/ro/crate/1.1"

const roCrateContext = Profile + "/context"

// Metadata renders the RO-Crate metadata descriptor of m. The root dataset
// lists every other entry as a part.
func Metadata(m Manifest, name string) ([]byte, error) {
	var parts []map[string]any
	entities := []map[string]any{
		{
			"@id":        CrateMetadata,
			"@type":      "CreativeWork",
			"conformsTo": map[string]any{"@id": Profile},
			"about":      map[string]any{"@id": "./"},
		},
	}
	var files []map[string]any
	for _, e := range m.Entries {
		if e.Path == CrateMetadata {
			continue
		}
		parts = append(parts, map[string]any{"@id": e.Path})
		file := map[string]any{
			"@id":            e.Path,
			"@type":          "File",
			"encodingFormat": e.ContentType,
		}
		if e.Kind == KindScript || e.Kind == KindWorkflow {
			file["@type"] = []string{"File", "SoftwareSourceCode"}
		}
		files = append(files, file)
	}
	root := map[string]any{
		"@id":         "./",
		"@type":       "Dataset",
		"name":        name,
		"identifier":  m.Hash,
		"description": "Provenance of a workflow run",
		"hasPart":     parts,
	}
	entities = append(entities, root)
	entities = append(entities, files...)

	data, err := json.MarshalIndent(map[string]any{
		"@context": roCrateContext,
		"@graph":   entities,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding crate metadata: %w", err)
	}
	return append(data, '\n'), nil
}
