package registry

import (
	"encoding/json"
	"testing"
)

func TestStore_GetOrCreate(t *testing.T) {
	s := NewStore[*FileObject]()
	calls := 0
	create := func(seq int) *FileObject {
		calls++
		return &FileObject{ID: "x", Seq: seq}
	}

	a, isNew := s.GetOrCreate("mesh.json", create)
	if !isNew || a.Seq != 0 {
		t.Fatalf("first GetOrCreate = seq %d new %v, want 0 true", a.Seq, isNew)
	}
	b, isNew := s.GetOrCreate("mesh.json", create)
	if isNew || b != a {
		t.Fatalf("second GetOrCreate returned new=%v same=%v, want false true", isNew, b == a)
	}
	c, _ := s.GetOrCreate("result.json", create)
	if c.Seq != 1 {
		t.Errorf("seq after a hit = %d, want 1", c.Seq)
	}
	if calls != 2 {
		t.Errorf("create called %d times, want 2", calls)
	}
	if vals := s.Values(); len(vals) != 2 || vals[0] != a || vals[1] != c {
		t.Errorf("Values() = %v, want [a c] in creation order", vals)
	}
}

func TestRegistry_FileIdentityIsPath(t *testing.T) {
	r := New()
	r.ContentType = func(string) string { return "application/json" }

	f1, isNew := r.File("mesh.json")
	if !isNew || f1.ID != "mesh.json" || f1.ContentType != "application/json" {
		t.Fatalf("File() = %+v new=%v", f1, isNew)
	}
	r.ContentType = func(string) string { return "text/plain" }
	f2, isNew := r.File("mesh.json")
	if isNew || f2 != f1 {
		t.Fatal("same path resolved to a different file object")
	}
	if f2.ContentType != "application/json" {
		t.Errorf("ContentType = %q, first writer should win", f2.ContentType)
	}
}

func TestRegistry_StepKeyedByRule(t *testing.T) {
	r := New()
	s1, _ := r.Step("prep", 0)
	s2, isNew := r.Step("prep", 7)
	if isNew || s1 != s2 || s2.Position != 0 {
		t.Errorf("Step(prep) second call = %+v new=%v", s2, isNew)
	}
	if s1.ID != "local:rule_prep" || s1.Label != "prep" {
		t.Errorf("step = %+v", s1)
	}
}

func TestRegistry_ParameterStructuralDedup(t *testing.T) {
	r := New()
	candidate := Parameter{Kind: KindNumeric, Label: "length", Value: json.Number("20"), Unit: "units:M"}

	p1, isNew := r.Parameter(candidate)
	if !isNew || p1.ID != "local:parameter_0" {
		t.Fatalf("first Parameter = %+v new=%v", p1, isNew)
	}

	// Same value written differently is the same parameter.
	again := candidate
	again.Value = json.Number("20.0")
	again.DataType = "schema:Float"
	p2, isNew := r.Parameter(again)
	if isNew || p2 != p1 {
		t.Errorf("20.0 resolved to %+v new=%v, want the first parameter", p2, isNew)
	}

	tests := []struct {
		name string
		mut  func(*Parameter)
	}{
		{"label", func(p *Parameter) { p.Label = "radius" }},
		{"value", func(p *Parameter) { p.Value = json.Number("21") }},
		{"unit", func(p *Parameter) { p.Unit = "units:MilliM" }},
		{"kind", func(p *Parameter) { p.Kind = KindText; p.Value = "20" }},
	}
	seen := map[string]bool{p1.ID: true}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate
			tt.mut(&c)
			p, isNew := r.Parameter(c)
			if !isNew {
				t.Fatalf("differing %s was deduplicated", tt.name)
			}
			if seen[p.ID] {
				t.Errorf("identifier %s reused", p.ID)
			}
			seen[p.ID] = true
		})
	}
}

func TestRegistry_IdentifiersAreMonotonic(t *testing.T) {
	r := New()
	var last = -1
	for i, label := range []string{"a", "b", "a", "c", "b", "d"} {
		p, _ := r.Parameter(Parameter{Kind: KindText, Label: label, Value: "v"})
		if p.Seq > last+1 {
			t.Errorf("step %d: seq jumped from %d to %d", i, last, p.Seq)
		}
		if p.Seq > last {
			last = p.Seq
		}
	}
	params := r.Parameters()
	if len(params) != 4 {
		t.Fatalf("got %d parameters, want 4", len(params))
	}
	for i, p := range params {
		if p.Seq != i {
			t.Errorf("Parameters()[%d].Seq = %d", i, p.Seq)
		}
	}
}

func TestRegistry_ToolFirstVersionWins(t *testing.T) {
	r := New()
	t1, _ := r.Tool("numpy", "1.2")
	t2, isNew := r.Tool("numpy", "1.3")
	if isNew || t2 != t1 || t2.Version != "1.2" {
		t.Errorf("Tool(numpy, 1.3) = %+v new=%v, want first version", t2, isNew)
	}
	t3, _ := r.Tool("pint", "")
	if t3.ID != "local:tool_1" {
		t.Errorf("second tool ID = %q", t3.ID)
	}
}

func TestRegistry_FieldsAreNeverDeduplicated(t *testing.T) {
	r := New()
	p, _ := r.Parameter(Parameter{Kind: KindText, Label: "mesh-file", Value: "mesh.msh"})
	a, _ := r.File("parameters_1.json")
	b, _ := r.File("parameters_2.json")

	f1 := r.NewField(p, a, "/mesh-file")
	f2 := r.NewField(p, b, "/mesh-file")
	f3 := r.NewField(p, a, "/mesh-file")
	if f1.ID == f2.ID || f2.ID == f3.ID {
		t.Errorf("field IDs collide: %s %s %s", f1.ID, f2.ID, f3.ID)
	}
	if f1.Parameter != f2.Parameter {
		t.Error("fields should share the parameter")
	}
	if got := len(r.Fields()); got != 3 {
		t.Errorf("Fields() len = %d, want 3", got)
	}
}

func TestStructuralKey(t *testing.T) {
	if StructuralKey(KindNumeric, "x", json.Number("1e1"), "") != StructuralKey(KindNumeric, "x", 10.0, "") {
		t.Error("1e1 and 10.0 should share a key")
	}
	if StructuralKey(KindText, "x", "10", "") == StructuralKey(KindNumeric, "x", 10, "") {
		t.Error("text and numeric values should not share a key")
	}

	tests := []struct {
		a, b any
		same bool
	}{
		{json.Number("20"), json.Number("20.0"), true},
		{json.Number("0.1"), 0.1, true},
		{json.Number("2.5e-3"), json.Number("0.0025"), true},
		{json.Number("9007199254740993"), json.Number("9007199254740992"), false},
		{json.Number("9007199254740993"), int64(9007199254740993), true},
		{json.Number("0.1"), json.Number("0.10000000000000001"), false},
	}
	for _, tt := range tests {
		got := StructuralKey(KindNumeric, "seed", tt.a, "") == StructuralKey(KindNumeric, "seed", tt.b, "")
		if got != tt.same {
			t.Errorf("same key for %v and %v = %v, want %v", tt.a, tt.b, got, tt.same)
		}
	}
}

func TestRegistry_LargeIntegersStayDistinct(t *testing.T) {
	r := New()
	a, _ := r.Parameter(Parameter{Kind: KindNumeric, Label: "seed", Value: json.Number("9007199254740993")})
	b, created := r.Parameter(Parameter{Kind: KindNumeric, Label: "seed", Value: json.Number("9007199254740992")})
	if !created || a.ID == b.ID {
		t.Errorf("distinct seeds merged: a=%s b=%s created=%v", a.ID, b.ID, created)
	}
	if b.Value != json.Number("9007199254740992") {
		t.Errorf("b.Value = %v", b.Value)
	}
}
