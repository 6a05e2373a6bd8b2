package crate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/m4i-labs/provcrate/internal/provgraph"
	"github.com/m4i-labs/provcrate/internal/trace"
)

// runRecord is what the run hash covers: the rendered graph plus the parts
// of the trace that reach the archive without becoming graph nodes.
type runRecord struct {
	Nodes    []map[string]any `json:"nodes"`
	Workflow string           `json:"workflow,omitempty"`
	Jobs     []jobRecord      `json:"jobs"`
}

type jobRecord struct {
	JobID    string `json:"jobid"`
	ShellCmd string `json:"shellcmd,omitempty"`
	CondaEnv string `json:"condaEnv,omitempty"`
}

// Namespace returns the content hash of a run: the hex sha256 of the nodes
// of g together with the workflow definition and the shell command and
// environment of every job of t, truncated to length characters. Map keys
// are marshalled sorted, so equal runs hash equally.
func Namespace(g *provgraph.Graph, t *trace.Trace, workflowFile string, length int) (string, error) {
	if length <= 0 || length > sha256.Size*2 {
		return "", fmt.Errorf("namespace length %d out of range 1..%d", length, sha256.Size*2)
	}
	rec := runRecord{Nodes: g.Nodes(), Workflow: workflowOf(t, workflowFile)}
	for _, j := range t.SortedJobs() {
		jr := jobRecord{JobID: j.JobID, ShellCmd: j.ShellCmd}
		if j.CondaEnv != nil {
			jr.CondaEnv = j.CondaEnv.Content
		}
		rec.Jobs = append(rec.Jobs, jr)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encoding run for hashing: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:length], nil
}

// NamespaceIRI joins the namespace base and a run hash.
func NamespaceIRI(base, hash string) string {
	return base + hash + "/"
}

// workflowOf returns the workflow definition recorded in t, falling back
// to workflowFile.
func workflowOf(t *trace.Trace, workflowFile string) string {
	if t.Workflow != "" {
		return t.Workflow
	}
	return workflowFile
}
