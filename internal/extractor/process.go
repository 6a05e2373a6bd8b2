package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const opDescribe = "describe"

// processRequest is the JSON object sent to the extractor via stdin.
type processRequest struct {
	Operation   string `json:"operation"`
	Extractor   string `json:"extractor,omitempty"`
	Rule        string `json:"rule,omitempty"`
	Path        string `json:"path,omitempty"`
	Environment string `json:"environment,omitempty"`
}

// describeResponse lists the implementations an executable provides.
type describeResponse struct {
	Extractors []struct {
		Name       string   `json:"name"`
		Operations []string `json:"operations"`
	} `json:"extractors"`
}

// ProcessExtractor runs an external program once per call. The program
// reads one JSON request from stdin and writes one JSON object to stdout.
// Requests carry an operation: "describe", "extract_params" (with rule and
// path) or "extract_tools" (with rule and environment).
type ProcessExtractor struct {
	path     string
	name     string
	launcher string
}

// NewProcessExtractor asks the program at path to describe itself and
// selects the implementation to call.
func NewProcessExtractor(path, name string) (*ProcessExtractor, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	p := &ProcessExtractor{path: abs, launcher: interpreterFor(abs)}
	if p.launcher != abs {
		if _, err := exec.LookPath(p.launcher); err != nil {
			return nil, fmt.Errorf("%w: %s needs %s: %v", ErrInterpreterNotFound, path, p.launcher, err)
		}
	}

	out, err := p.run(processRequest{Operation: opDescribe})
	if err != nil {
		return nil, fmt.Errorf("%w: describe failed: %v", ErrNoImplementation, err)
	}
	var desc describeResponse
	if err := json.Unmarshal(out, &desc); err != nil {
		return nil, fmt.Errorf("%w: parsing describe output: %v", ErrNoImplementation, err)
	}

	var candidates []string
	for _, e := range desc.Extractors {
		if !hasOperations(e.Operations, OpExtractParams, OpExtractTools) {
			continue
		}
		if name != "" && e.Name != name {
			continue
		}
		candidates = append(candidates, e.Name)
	}

	switch len(candidates) {
	case 0:
		if name != "" {
			return nil, fmt.Errorf("%w: %s provides no implementation named %q with operations %s and %s", ErrNoImplementation, path, name, OpExtractParams, OpExtractTools)
		}
		return nil, fmt.Errorf("%w: %s provides no implementation with operations %s and %s", ErrNoImplementation, path, OpExtractParams, OpExtractTools)
	case 1:
		p.name = candidates[0]
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %s provides %s; set a name", ErrAmbiguousImplementation, path, strings.Join(candidates, ", "))
	}
}

// Name returns the selected implementation name.
func (p *ProcessExtractor) Name() string { return p.name }

// ExtractParams implements Extractor.
func (p *ProcessExtractor) ExtractParams(rule, filePath string) (map[string]any, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", filePath, err)
	}
	return p.call(processRequest{Operation: OpExtractParams, Extractor: p.name, Rule: rule, Path: abs}, filePath)
}

// ExtractTools implements Extractor.
func (p *ProcessExtractor) ExtractTools(rule, envText string) (map[string]any, error) {
	return p.call(processRequest{Operation: OpExtractTools, Extractor: p.name, Rule: rule, Environment: envText}, "environment")
}

func (p *ProcessExtractor) call(req processRequest, source string) (map[string]any, error) {
	out, err := p.run(req)
	if err != nil {
		return nil, err
	}
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return map[string]any{}, nil
	}

	var result any
	dec := json.NewDecoder(bytes.NewReader(out))
	dec.UseNumber()
	if err := dec.Decode(&result); err != nil {
		return nil, &ContractViolation{Extractor: p.name, Operation: req.Operation, Rule: req.Rule, Source: source, Msg: fmt.Sprintf("output is not JSON: %v", err)}
	}
	switch v := result.(type) {
	case map[string]any:
		return v, nil
	case nil:
		return map[string]any{}, nil
	default:
		return nil, &ContractViolation{Extractor: p.name, Operation: req.Operation, Rule: req.Rule, Source: source, Msg: fmt.Sprintf("output is a %T, want a JSON object", v)}
	}
}

// run spawns the program, writes the JSON request to stdin, and returns
// the stdout bytes.
func (p *ProcessExtractor) run(req processRequest) ([]byte, error) {
	input, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var args []string
	if p.launcher != p.path {
		args = []string{p.path}
	}
	cmd := exec.Command(p.launcher, args...)
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return nil, fmt.Errorf("%s %s: %s: %s", filepath.Base(p.path), req.Operation, err, errMsg)
		}
		return nil, fmt.Errorf("%s %s: %w", filepath.Base(p.path), req.Operation, err)
	}
	return stdout.Bytes(), nil
}

// interpreterFor picks the launcher for a script by extension. Anything
// else is executed directly.
func interpreterFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return "python3"
	case ".js", ".mjs":
		return "node"
	case ".sh":
		return "sh"
	default:
		return path
	}
}

func hasOperations(ops []string, want ...string) bool {
	have := make(map[string]bool, len(ops))
	for _, op := range ops {
		have[op] = true
	}
	for _, w := range want {
		if !have[w] {
			return false
		}
	}
	return true
}
