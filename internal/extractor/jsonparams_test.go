package extractor

import (
	"encoding/json"
	"testing"
)

func TestJSONParams_GenerateInputFiles(t *testing.T) {
	c := NewChecked(JSONParamsName, NewJSONParams(DefaultJSONParamsConfig()))

	params, err := c.Params("generate_input_files", testPath("parameters_plate.json"))
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if len(params) != 5 {
		t.Fatalf("got %d params, want 5 (list values skipped): %v", len(params), params)
	}

	tests := []struct {
		key      string
		value    string
		unit     string
		pointer  string
		dataType string
	}{
		{"young-modulus", "210e9", "units:PA", "/young-modulus/value", DataTypeFloat},
		{"load", "10", "units:MegaPA", "/load/value", DataTypeInteger},
		{"length", "0.1", "units:M", "/length/value", DataTypeFloat},
		{"element-order", "2", "", "/element-order", DataTypeInteger},
		{"mesh-file", "mesh_1.msh", "", "/mesh-file", DataTypeText},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			p, ok := params[tt.key]
			if !ok {
				t.Fatalf("missing %s", tt.key)
			}
			var got string
			switch v := p.Value.(type) {
			case json.Number:
				got = v.String()
			case string:
				got = v
			}
			if got != tt.value {
				t.Errorf("value = %q, want %q", got, tt.value)
			}
			gotUnit := ""
			if p.Unit != nil {
				gotUnit = *p.Unit
			}
			if gotUnit != tt.unit {
				t.Errorf("unit = %q, want %q", gotUnit, tt.unit)
			}
			if p.JSONPath != tt.pointer {
				t.Errorf("json-path = %q, want %q", p.JSONPath, tt.pointer)
			}
			if p.DataType == nil || *p.DataType != tt.dataType {
				t.Errorf("data-type = %v, want %q", p.DataType, tt.dataType)
			}
		})
	}
}

func TestJSONParams_Summary(t *testing.T) {
	x := NewJSONParams(DefaultJSONParamsConfig())
	c := NewChecked(JSONParamsName, x)

	params, err := c.Params("summary", testPath("summary_plate.json"))
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if len(params) != 1 {
		t.Fatalf("got %v, want only max_mises_stress", params)
	}
	p := params["max_mises_stress"]
	if p.DataType == nil || *p.DataType != DataTypeFloat {
		t.Errorf("data-type = %v, want %s", p.DataType, DataTypeFloat)
	}
	if p.JSONPath != "/max_mises_stress" {
		t.Errorf("json-path = %q", p.JSONPath)
	}
}

func TestJSONParams_UnrecognisedIsEmpty(t *testing.T) {
	x := NewJSONParams(DefaultJSONParamsConfig())
	cases := []struct{ rule, file string }{
		{"mesh", testPath("parameters_plate.json")},
		{"generate_input_files", testPath("summary_plate.json")},
		// Not read at all, so a missing file is no error.
		{"solve", testPath("nonexistent.json")},
	}
	for _, tc := range cases {
		got, err := x.ExtractParams(tc.rule, tc.file)
		if err != nil {
			t.Errorf("ExtractParams(%s, %s) error: %v", tc.rule, tc.file, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("ExtractParams(%s, %s) = %v, want empty map", tc.rule, tc.file, got)
		}
	}
}

func TestJSONParams_MissingFile(t *testing.T) {
	x := NewJSONParams(DefaultJSONParamsConfig())
	_, err := x.ExtractParams("generate_input_files", testPath("parameters_missing.json"))
	if err == nil || !IsFileAccess(err) {
		t.Errorf("error = %v, want file access error", err)
	}
}

func TestJSONParams_Tools(t *testing.T) {
	c := NewChecked(JSONParamsName, NewJSONParams(DefaultJSONParamsConfig()))
	env := "dependencies:\n  - numpy=1.2\n  - pint\n"
	tools, err := c.Tools("solve", env)
	if err != nil {
		t.Fatalf("Tools: %v", err)
	}
	if v := tools["numpy"]; v == nil || *v != "1.2" {
		t.Errorf("numpy = %v, want 1.2", v)
	}
	if v, ok := tools["pint"]; !ok || v != nil {
		t.Errorf("pint = %v (present %v), want unpinned", v, ok)
	}
}

func TestEscapePointer(t *testing.T) {
	if got := escapePointer("a/b~c"); got != "a~1b~0c" {
		t.Errorf("escapePointer = %q", got)
	}
}
