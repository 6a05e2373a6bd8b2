package extractor

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testPath(name string) string {
	return filepath.Join("testdata", name)
}

// stubExtractor returns canned results.
type stubExtractor struct {
	params map[string]any
	tools  map[string]any
	err    error
}

func (s stubExtractor) ExtractParams(string, string) (map[string]any, error) {
	return s.params, s.err
}

func (s stubExtractor) ExtractTools(string, string) (map[string]any, error) {
	return s.tools, s.err
}

func TestChecked_Disabled(t *testing.T) {
	var nilChecked *Checked
	for _, c := range []*Checked{nilChecked, NewChecked("", nil)} {
		if c.Enabled() {
			t.Error("Enabled() = true, want false")
		}
		params, err := c.Params("rule", "file.json")
		if err != nil || len(params) != 0 {
			t.Errorf("Params() = %v, %v; want empty, nil", params, err)
		}
		tools, err := c.Tools("rule", "dependencies: [numpy]")
		if err != nil || len(tools) != 0 {
			t.Errorf("Tools() = %v, %v; want empty, nil", tools, err)
		}
	}
}

func TestChecked_ParamsValid(t *testing.T) {
	c := NewChecked("stub", stubExtractor{params: map[string]any{
		"length": map[string]any{"value": 0.1, "unit": "units:M", "json-path": "/length/value", "data-type": "schema:Float"},
		"name":   map[string]any{"value": "plate", "unit": nil, "json-path": "/name", "data-type": nil},
	}})

	params, err := c.Params("generate_input_files", "parameters_1.json")
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	length := params["length"]
	if !length.Numeric() || length.Value.(json.Number).String() != "0.1" {
		t.Errorf("length.Value = %#v, want json.Number 0.1", length.Value)
	}
	if length.Unit == nil || *length.Unit != "units:M" {
		t.Errorf("length.Unit = %v, want units:M", length.Unit)
	}
	if length.JSONPath != "/length/value" {
		t.Errorf("length.JSONPath = %q", length.JSONPath)
	}
	name := params["name"]
	if name.Numeric() || name.Value != "plate" || name.Unit != nil || name.DataType != nil {
		t.Errorf("name = %+v", name)
	}
}

func TestChecked_ContractViolation(t *testing.T) {
	tests := []struct {
		name       string
		params     map[string]any
		wantEntity string
		wantKey    string
	}{
		{
			name:       "missing keys",
			params:     map[string]any{"temp": map[string]any{"value": 20}},
			wantEntity: "temp",
			wantKey:    "unit, json-path, data-type",
		},
		{
			name:       "unit not a string",
			params:     map[string]any{"temp": map[string]any{"value": 20, "unit": 5, "json-path": "/temp", "data-type": nil}},
			wantEntity: "temp",
			wantKey:    "unit",
		},
		{
			name:       "json-path null",
			params:     map[string]any{"temp": map[string]any{"value": 20, "unit": nil, "json-path": nil, "data-type": nil}},
			wantEntity: "temp",
			wantKey:    "json-path",
		},
		{
			name:       "entry not a mapping",
			params:     map[string]any{"temp": 20},
			wantEntity: "temp",
		},
		{
			name:       "value is a list",
			params:     map[string]any{"temp": map[string]any{"value": []any{1}, "unit": nil, "json-path": "/temp", "data-type": nil}},
			wantEntity: "temp",
			wantKey:    "value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecked("stub", stubExtractor{params: tt.params})
			_, err := c.Params("prep", "in.json")
			if !errors.Is(err, ErrContractViolation) {
				t.Fatalf("error = %v, want ErrContractViolation", err)
			}
			var cv *ContractViolation
			if !errors.As(err, &cv) {
				t.Fatalf("error %T is not a *ContractViolation", err)
			}
			if cv.Entity != tt.wantEntity {
				t.Errorf("Entity = %q, want %q", cv.Entity, tt.wantEntity)
			}
			if cv.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", cv.Key, tt.wantKey)
			}
			if cv.Rule != "prep" || cv.Source != "in.json" || cv.Operation != OpExtractParams {
				t.Errorf("call info = %+v", cv)
			}
			if !strings.Contains(err.Error(), "temp") {
				t.Errorf("error %q does not name the entity", err)
			}
		})
	}
}

func TestChecked_Tools(t *testing.T) {
	c := NewChecked("stub", stubExtractor{tools: map[string]any{"numpy": "1.2", "pint": nil}})
	tools, err := c.Tools("solve", "")
	if err != nil {
		t.Fatalf("Tools: %v", err)
	}
	if v := tools["numpy"]; v == nil || *v != "1.2" {
		t.Errorf("numpy = %v, want 1.2", v)
	}
	if v, ok := tools["pint"]; !ok || v != nil {
		t.Errorf("pint = %v (present %v), want nil version", v, ok)
	}

	bad := NewChecked("stub", stubExtractor{tools: map[string]any{"numpy": 1.2}})
	_, err = bad.Tools("solve", "")
	var cv *ContractViolation
	if !errors.As(err, &cv) {
		t.Fatalf("error = %v, want *ContractViolation", err)
	}
	if cv.Entity != "numpy" {
		t.Errorf("Entity = %q, want numpy", cv.Entity)
	}
}

func TestChecked_ExtractorErrorIsWrapped(t *testing.T) {
	c := NewChecked("stub", stubExtractor{err: os.ErrNotExist})
	_, err := c.Params("prep", "missing.json")
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("error = %v, want *ExtractionError", err)
	}
	if !IsFileAccess(err) {
		t.Error("IsFileAccess() = false for wrapped fs.ErrNotExist")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if err := RegisterBuiltins(r); err != nil {
		t.Fatalf("RegisterBuiltins: %v", err)
	}
	if err := r.Register(JSONParamsName, func() Extractor { return stubExtractor{} }); !errors.Is(err, ErrDuplicateExtractor) {
		t.Errorf("duplicate Register error = %v, want ErrDuplicateExtractor", err)
	}
	if err := r.Register("", func() Extractor { return stubExtractor{} }); err == nil {
		t.Error("Register with empty name: expected error")
	}
	if names := r.Names(); len(names) != 1 || names[0] != JSONParamsName {
		t.Errorf("Names() = %v", names)
	}
}

func TestLoad(t *testing.T) {
	r := NewRegistry()
	if err := RegisterBuiltins(r); err != nil {
		t.Fatalf("RegisterBuiltins: %v", err)
	}

	c, err := Load(r, "", "")
	if err != nil || c.Enabled() {
		t.Errorf("Load(none) = %v, %v; want disabled extractor", c, err)
	}

	c, err = Load(r, "", JSONParamsName)
	if err != nil {
		t.Fatalf("Load(builtin): %v", err)
	}
	if !c.Enabled() || c.Name() != JSONParamsName {
		t.Errorf("Load(builtin) name = %q enabled = %v", c.Name(), c.Enabled())
	}

	_, err = Load(r, "", "missing")
	var ce *ConfigurationError
	if !errors.As(err, &ce) || !errors.Is(err, ErrNoImplementation) {
		t.Errorf("Load(unknown name) error = %v, want ConfigurationError/ErrNoImplementation", err)
	}

	_, err = Load(r, filepath.Join(t.TempDir(), "nope.py"), "")
	if !errors.As(err, &ce) || !errors.Is(err, ErrScriptNotFound) {
		t.Errorf("Load(missing path) error = %v, want ConfigurationError/ErrScriptNotFound", err)
	}

	_, err = Load(r, t.TempDir(), "")
	if !errors.Is(err, ErrScriptNotFound) {
		t.Errorf("Load(directory) error = %v, want ErrScriptNotFound", err)
	}
}
