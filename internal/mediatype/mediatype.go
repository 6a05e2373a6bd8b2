// Package mediatype guesses the content type of a file from its name.
package mediatype

import (
	"mime"
	"path/filepath"
	"strings"
)

// Fallback is returned for names nothing is known about.
const Fallback = "application/octet-stream"

// Types the platform mime table often lacks or gets wrong for workflow files.
var known = map[string]string{
	".json":   "application/json",
	".jsonld": "application/ld+json",
	".ttl":    "text/turtle",
	".yaml":   "application/yaml",
	".yml":    "application/yaml",
	".py":     "text/x-python",
	".sh":     "application/x-sh",
	".r":      "text/x-r",
	".jl":     "text/x-julia",
	".msh":    "text/plain",
	".geo":    "text/plain",
	".xdmf":   "application/xml",
	".h5":     "application/x-hdf5",
	".csv":    "text/csv",
	".md":     "text/markdown",
	".txt":    "text/plain",
	".zip":    "application/zip",
}

// specialNames are matched on the whole base name.
var specialNames = map[string]string{
	"Snakefile":    "text/x-snakemake",
	"Dockerfile":   "text/x-dockerfile",
	"Makefile":     "text/x-makefile",
	"requirements": "text/plain",
}

// Of returns a best-effort content type for path, without parameters.
func Of(path string) string {
	base := filepath.Base(path)
	if t, ok := specialNames[base]; ok {
		return t
	}
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return Fallback
	}
	if t, ok := known[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
		return t
	}
	return Fallback
}
