package crate

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/m4i-labs/provcrate/internal/ctxlog"
	"github.com/m4i-labs/provcrate/internal/mediatype"
	"github.com/m4i-labs/provcrate/internal/provgraph"
	"github.com/m4i-labs/provcrate/internal/trace"
)

// Names of the documents generated for every archive.
const (
	ReportJSONLD  = "report.jsonld"
	ReportTurtle  = "report.ttl"
	CrateMetadata = "ro-crate-metadata.json"
	archivePrefix = "provenance-"
	archiveSuffix = ".zip"
)

// EntryKind says where an archive entry comes from.
type EntryKind string

const (
	KindGenerated EntryKind = "generated"
	KindData      EntryKind = "data"
	KindScript    EntryKind = "script"
	KindWorkflow  EntryKind = "workflow"
)

// Entry is one file of the archive. Path is relative to the archive root
// and, for everything but generated documents, to the work directory.
type Entry struct {
	Path        string
	ContentType string
	Kind        EntryKind
}

// Manifest lists the archive content in write order.
type Manifest struct {
	Hash    string
	Entries []Entry
}

// ArchiveName returns the file name of the archive.
func (m Manifest) ArchiveName() string {
	return archivePrefix + m.Hash + archiveSuffix
}

// BuildManifest collects the archive entries of a run: the generated
// documents, every touched file of g, the scripts job shell commands run
// and the workflow definition. Scripts and the workflow file are only
// included when they are relative, stay inside workDir and exist there. A
// run file sharing its name with a generated document is left out with a
// warning.
func BuildManifest(ctx context.Context, g *provgraph.Graph, t *trace.Trace, workDir, workflowFile, hash string) Manifest {
	logger := ctxlog.FromContext(ctx)

	m := Manifest{Hash: hash}
	seen := make(map[string]EntryKind)
	add := func(path string, kind EntryKind) {
		if prev, ok := seen[path]; ok {
			if prev == KindGenerated && kind != KindGenerated {
				logger.Warn("file shadowed by a generated document, not packaged", "path", path, "kind", kind)
			}
			return
		}
		seen[path] = kind
		m.Entries = append(m.Entries, Entry{Path: path, ContentType: mediatype.Of(path), Kind: kind})
	}

	add(ReportJSONLD, KindGenerated)
	add(ReportTurtle, KindGenerated)
	add(CrateMetadata, KindGenerated)

	for _, f := range g.TouchedFiles() {
		add(f.ID, KindData)
	}

	for _, j := range t.SortedJobs() {
		script := trace.ScriptFromShellCmd(j.ShellCmd)
		if script == "" {
			continue
		}
		if rel, ok := localFile(workDir, script); ok {
			add(rel, KindScript)
		} else {
			logger.Debug("script not packaged", "rule", j.Rule, "script", script)
		}
	}

	if workflow := workflowOf(t, workflowFile); workflow != "" {
		if rel, ok := localFile(workDir, workflow); ok {
			add(rel, KindWorkflow)
		} else {
			logger.Warn("workflow definition not packaged", "path", workflow)
		}
	}
	return m
}

// localFile reports whether path is a relative path to a regular file
// inside workDir, and returns it in slash form.
func localFile(workDir, path string) (string, bool) {
	if path == "" || filepath.IsAbs(path) {
		return "", false
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", false
	}
	info, err := os.Stat(filepath.Join(workDir, clean))
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return filepath.ToSlash(clean), true
}
