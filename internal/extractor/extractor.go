package extractor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Operation names, shared with the process protocol.
const (
	OpExtractParams = "extract_params"
	OpExtractTools  = "extract_tools"
)

// Data types an extractor may report for a parameter.
const (
	DataTypeText    = "schema:Text"
	DataTypeInteger = "schema:Integer"
	DataTypeFloat   = "schema:Float"
)

// Extractor pulls parameter and tool metadata out of job files.
//
// ExtractParams returns, for a rule and a file it recognises, a mapping of
// parameter name to an entry with the keys value, unit, json-path and
// data-type. Files or rules it does not recognise yield an empty mapping.
//
// ExtractTools receives the text of a dependency-environment declaration
// and returns a mapping of tool name to version (a string or nil).
type Extractor interface {
	ExtractParams(rule, filePath string) (map[string]any, error)
	ExtractTools(rule, envText string) (map[string]any, error)
}

// Factory creates a ready-to-use Extractor.
type Factory func() Extractor

// Param is a validated parameter entry. Value is a string or a json.Number.
type Param struct {
	Value    any     `json:"value"`
	Unit     *string `json:"unit"`
	JSONPath string  `json:"json-path"`
	DataType *string `json:"data-type"`
}

// Numeric reports whether the value is a number.
func (p Param) Numeric() bool {
	_, ok := p.Value.(json.Number)
	return ok
}

// Checked wraps an Extractor and validates everything it returns. A Checked
// without an implementation returns empty results.
type Checked struct {
	name string
	impl Extractor
}

// NewChecked wraps impl; impl may be nil.
func NewChecked(name string, impl Extractor) *Checked {
	return &Checked{name: name, impl: impl}
}

// Name returns the name the extractor was loaded under.
func (c *Checked) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Enabled reports whether an implementation is configured.
func (c *Checked) Enabled() bool {
	return c != nil && c.impl != nil
}

// Params runs ExtractParams and validates the result.
func (c *Checked) Params(rule, filePath string) (map[string]Param, error) {
	if !c.Enabled() {
		return map[string]Param{}, nil
	}
	call := call{extractor: c.name, operation: OpExtractParams, rule: rule, source: filePath}

	raw, err := c.impl.ExtractParams(rule, filePath)
	if err != nil {
		return nil, call.wrap(err)
	}
	data, err := call.encode(raw)
	if err != nil {
		return nil, err
	}
	if err := validate(paramsSchemaName, data, call); err != nil {
		return nil, err
	}

	out := make(map[string]Param)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, call.violation("", "", fmt.Sprintf("decoding validated result: %v", err))
	}
	return out, nil
}

// Tools runs ExtractTools and validates the result. A nil version means the
// declaration did not pin one.
func (c *Checked) Tools(rule, envText string) (map[string]*string, error) {
	if !c.Enabled() {
		return map[string]*string{}, nil
	}
	call := call{extractor: c.name, operation: OpExtractTools, rule: rule, source: "environment"}

	raw, err := c.impl.ExtractTools(rule, envText)
	if err != nil {
		return nil, call.wrap(err)
	}
	data, err := call.encode(raw)
	if err != nil {
		return nil, err
	}
	if err := validate(toolsSchemaName, data, call); err != nil {
		return nil, err
	}

	out := make(map[string]*string)
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, call.violation("", "", fmt.Sprintf("decoding validated result: %v", err))
	}
	return out, nil
}

// call describes one extractor invocation for error reporting.
type call struct {
	extractor string
	operation string
	rule      string
	source    string
}

func (c call) encode(raw map[string]any) ([]byte, error) {
	if raw == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, c.violation("", "", fmt.Sprintf("result is not JSON-encodable: %v", err))
	}
	return data, nil
}

func (c call) wrap(err error) error {
	var cv *ContractViolation
	if errors.As(err, &cv) {
		return err
	}
	return &ExtractionError{Extractor: c.extractor, Operation: c.operation, Rule: c.rule, Source: c.source, Err: err}
}

func (c call) violation(entity, key, msg string) *ContractViolation {
	return &ContractViolation{
		Extractor: c.extractor,
		Operation: c.operation,
		Rule:      c.rule,
		Source:    c.source,
		Entity:    entity,
		Key:       key,
		Msg:       msg,
	}
}
