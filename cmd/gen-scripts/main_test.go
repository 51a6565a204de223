package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseScriptBasic(t *testing.T) {
	source := `package scripts

type TestScript struct {
	Speed float32
	Name  string
}
`

	script, err := parseScript(source)
	if err != nil {
		t.Fatalf("parseScript failed: %v", err)
	}

	if script.Name != "TestScript" {
		t.Errorf("Expected name 'TestScript', got '%s'", script.Name)
	}
	if script.HasConstructor {
		t.Error("TestScript declares no constructor")
	}

	if len(script.Fields) != 2 {
		t.Fatalf("Expected 2 fields, got %d", len(script.Fields))
	}

	if script.Fields[0].Name != "Speed" || script.Fields[0].Type != "float32" {
		t.Errorf("Speed field incorrect: %+v", script.Fields[0])
	}
	if script.Fields[1].Name != "Name" || script.Fields[1].Type != "string" {
		t.Errorf("Name field incorrect: %+v", script.Fields[1])
	}
}

func TestParseScriptPrefersBaseScript(t *testing.T) {
	source := `package scripts

import "immortal/internal/engine"

type helper struct {
	Count int
}

type Chaser struct {
	engine.BaseScript
	TurnSpeed float32
	Target    string
}

func NewChaser() *Chaser {
	return &Chaser{TurnSpeed: 2}
}
`

	script, err := parseScript(source)
	if err != nil {
		t.Fatalf("parseScript failed: %v", err)
	}

	if script.Name != "Chaser" {
		t.Fatalf("Expected the BaseScript struct Chaser, got %s", script.Name)
	}
	if !script.HasConstructor {
		t.Error("NewChaser should be detected")
	}
	if len(script.Fields) != 2 || script.Fields[0].PropName != "turn_speed" {
		t.Errorf("Unexpected fields: %+v", script.Fields)
	}
}

func TestParseScriptSkipsPrivateFields(t *testing.T) {
	source := `package scripts

type TestScript struct {
	PublicField  string
	privateField int
}
`

	script, err := parseScript(source)
	if err != nil {
		t.Fatalf("parseScript failed: %v", err)
	}

	if len(script.Fields) != 1 {
		t.Fatalf("Expected 1 field (private field should be skipped), got %d", len(script.Fields))
	}
	if script.Fields[0].Name != "PublicField" {
		t.Errorf("Expected 'PublicField', got '%s'", script.Fields[0].Name)
	}
}

func TestParseScriptSkipsUnsupportedTypes(t *testing.T) {
	source := `package scripts

type TestScript struct {
	Speed   float32
	Path    []int
	Target  *bool
	Offset  engine.Vector3
	Enabled bool
}
`

	script, err := parseScript(source)
	if err != nil {
		t.Fatalf("parseScript failed: %v", err)
	}

	if len(script.Fields) != 2 {
		t.Fatalf("Expected only Speed and Enabled, got %+v", script.Fields)
	}
	if script.Fields[0].Name != "Speed" || script.Fields[1].Name != "Enabled" {
		t.Errorf("Unexpected fields: %+v", script.Fields)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Speed", "speed"},
		{"TurnSpeed", "turn_speed"},
		{"IsActive", "is_active"},
		{"HTTPServer", "h_t_t_p_server"},
		{"name", "name"},
	}

	for _, test := range tests {
		result := toSnakeCase(test.input)
		if result != test.expected {
			t.Errorf("toSnakeCase(%s): expected '%s', got '%s'", test.input, test.expected, result)
		}
	}
}

func TestPropExpr(t *testing.T) {
	tests := []struct {
		fieldType string
		expected  string
	}{
		{"float32", `props.Float32("speed", script.Speed)`},
		{"float64", `props.Float64("speed", script.Speed)`},
		{"int", `props.Int("speed", script.Speed)`},
		{"int32", `int32(props.Int("speed", int(script.Speed)))`},
		{"int64", `int64(props.Int("speed", int(script.Speed)))`},
		{"bool", `props.Bool("speed", script.Speed)`},
		{"string", `props.String("speed", script.Speed)`},
	}

	for _, test := range tests {
		expr, ok := propExpr(FieldInfo{Name: "Speed", Type: test.fieldType, PropName: "speed"})
		if !ok {
			t.Errorf("propExpr(%s) should be supported", test.fieldType)
			continue
		}
		if expr != test.expected {
			t.Errorf("propExpr(%s): expected %s, got %s", test.fieldType, test.expected, expr)
		}
	}

	if _, ok := propExpr(FieldInfo{Name: "X", Type: "[]int", PropName: "x"}); ok {
		t.Error("Slices should not be supported")
	}
}

func TestParseScriptNoStruct(t *testing.T) {
	source := `package scripts

func MyFunction() {
	// Just a function, no struct
}
`

	_, err := parseScript(source)
	if err == nil {
		t.Fatal("Expected error when parsing file with no struct, got nil")
	}
	if !strings.Contains(err.Error(), "no struct definition found") {
		t.Errorf("Expected 'no struct definition found' error, got: %v", err)
	}
}

func TestGenerateNoFields(t *testing.T) {
	source := []byte(`package scripts

import "immortal/internal/engine"

type Idle struct {
	engine.BaseScript
}
`)

	script, err := parseScript(string(source))
	if err != nil {
		t.Fatalf("parseScript failed: %v", err)
	}
	out, err := generate(script, source)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	got := string(out)
	for _, want := range []string{
		`engine.RegisterScript("Idle", idleFactory, idleSerializer)`,
		"script := &Idle{}",
		"if _, ok := s.(*Idle); !ok {",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Generated code is missing %q:\n%s", want, got)
		}
	}
}

// The checked-in scripts are the generator's output for the asset sources.
func TestGenerateMatchesCheckedIn(t *testing.T) {
	for _, name := range []string{"cube_controller.go", "rotator.go"} {
		source, err := os.ReadFile(filepath.Join("..", "..", "assets", "scripts", name))
		if err != nil {
			t.Fatalf("read source: %v", err)
		}
		want, err := os.ReadFile(filepath.Join("..", "..", "internal", "scripts", name))
		if err != nil {
			t.Fatalf("read generated: %v", err)
		}

		script, err := parseScript(string(source))
		if err != nil {
			t.Fatalf("%s: parseScript failed: %v", name, err)
		}
		got, err := generate(script, source)
		if err != nil {
			t.Fatalf("%s: generate failed: %v", name, err)
		}
		if string(got) != string(want) {
			t.Errorf("%s is stale; rerun gen-scripts.\ngot:\n%s", name, got)
		}
	}
}

func TestProcessScriptCaches(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "spinner.go")
	out := filepath.Join(dir, "out")
	if err := os.MkdirAll(out, 0755); err != nil {
		t.Fatal(err)
	}
	content := "package scripts\n\ntype Spinner struct {\n\tSpeed float32\n}\n"
	if err := os.WriteFile(src, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if result, err := processScript(src, out); err != nil || result != "generated" {
		t.Fatalf("First run: %s, %v", result, err)
	}
	if result, err := processScript(src, out); err != nil || result != "skipped" {
		t.Errorf("Second run should hit the cache: %s, %v", result, err)
	}

	if err := os.WriteFile(src, []byte(content+"\n// changed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if result, err := processScript(src, out); err != nil || result != "generated" {
		t.Errorf("Changed source should regenerate: %s, %v", result, err)
	}
}
