package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// JSONParamsName is the registry name of the built-in JSON extractor.
const JSONParamsName = "json-parameters"

// JSONParamsRule selects the files one rule's parameters are read from.
type JSONParamsRule struct {
	Rule   string
	Prefix string // basename prefix, e.g. "parameters_"
	// Keys limits extraction to these top-level keys; empty means all.
	Keys []string
	// DataType overrides the type inferred from the value.
	DataType string
}

// JSONParamsConfig configures JSONParams.
type JSONParamsConfig struct {
	Rules []JSONParamsRule
	// Units maps a parameter name to a unit IRI; applied to parameters given
	// as {"value": ..., "unit": ...} objects.
	Units map[string]string
}

// DefaultJSONParamsConfig reads every parameter of generate_input_files'
// parameters_*.json files and the peak von Mises stress of summary's
// summary_*.json files.
func DefaultJSONParamsConfig() JSONParamsConfig {
	return JSONParamsConfig{
		Rules: []JSONParamsRule{
			{Rule: "generate_input_files", Prefix: "parameters_"},
			{Rule: "summary", Prefix: "summary_", Keys: []string{"max_mises_stress"}, DataType: DataTypeFloat},
		},
		Units: map[string]string{
			"young-modulus": "units:PA",
			"load":          "units:MegaPA",
			"length":        "units:M",
			"radius":        "units:M",
			"element-size":  "units:M",
		},
	}
}

// JSONParams extracts parameters from flat JSON files and tools from conda
// environment files.
type JSONParams struct {
	cfg JSONParamsConfig
}

// NewJSONParams creates a JSONParams extractor.
func NewJSONParams(cfg JSONParamsConfig) *JSONParams {
	return &JSONParams{cfg: cfg}
}

// ExtractParams implements Extractor.
func (x *JSONParams) ExtractParams(rule, filePath string) (map[string]any, error) {
	results := make(map[string]any)

	sel, ok := x.match(rule, filepath.Base(filePath))
	if !ok {
		return results, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}

	keys := sel.Keys
	if len(keys) == 0 {
		for k := range doc {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	for _, key := range keys {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		var (
			value   any
			pointer string
			unit    any
		)
		if obj, isObj := raw.(map[string]any); isObj {
			v, hasValue := obj["value"]
			if !hasValue {
				continue
			}
			value = v
			pointer = "/" + escapePointer(key) + "/value"
			if u, ok := x.cfg.Units[key]; ok {
				unit = u
			}
		} else {
			value = raw
			pointer = "/" + escapePointer(key)
		}

		dataType := inferDataType(value)
		if dataType == nil {
			// Only strings and numbers can become parameters.
			continue
		}
		if sel.DataType != "" {
			dataType = sel.DataType
		}
		results[key] = map[string]any{
			"value":     value,
			"unit":      unit,
			"json-path": pointer,
			"data-type": dataType,
		}
	}
	return results, nil
}

// ExtractTools implements Extractor.
func (x *JSONParams) ExtractTools(_ string, envText string) (map[string]any, error) {
	deps, err := ParseCondaDependencies(envText)
	if err != nil {
		return nil, err
	}
	results := make(map[string]any, len(deps))
	for _, d := range deps {
		if d.Version == "" {
			results[d.Name] = nil
		} else {
			results[d.Name] = d.Version
		}
	}
	return results, nil
}

func (x *JSONParams) match(rule, base string) (JSONParamsRule, bool) {
	for _, r := range x.cfg.Rules {
		if r.Rule == rule && strings.HasPrefix(base, r.Prefix) {
			return r, true
		}
	}
	return JSONParamsRule{}, false
}

// inferDataType returns the schema.org type of a decoded JSON value, or nil
// for values that are neither strings nor numbers.
func inferDataType(v any) any {
	switch val := v.(type) {
	case json.Number:
		if strings.ContainsAny(val.String(), ".eE") {
			return DataTypeFloat
		}
		return DataTypeInteger
	case string:
		return DataTypeText
	default:
		return nil
	}
}

// escapePointer escapes a key for use as a JSON Pointer token (RFC 6901).
func escapePointer(key string) string {
	return strings.ReplaceAll(strings.ReplaceAll(key, "~", "~0"), "/", "~1")
}
