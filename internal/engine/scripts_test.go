package engine

import (
	"context"
	"testing"
)

// Mock script for testing
type MockScript struct {
	BaseScript
	Speed  float32
	Health int
}

func (m *MockScript) Update(ctx context.Context, deltaTime float32) error {
	return nil
}

func mockFactory(props Props) Script {
	return &MockScript{
		Speed:  props.Float32("speed", 1),
		Health: props.Int("health", 100),
	}
}

func mockSerializer(s Script) Props {
	m, ok := s.(*MockScript)
	if !ok {
		return nil
	}
	return Props{
		"speed":  m.Speed,
		"health": m.Health,
	}
}

func TestRegisterScript(t *testing.T) {
	// Clear registry for clean test
	scriptRegistry = map[string]scriptEntry{}

	RegisterScript("MockScript", mockFactory, mockSerializer)

	if _, exists := scriptRegistry["MockScript"]; !exists {
		t.Error("Script not registered")
	}
}

func TestRegisterScriptDuplicate(t *testing.T) {
	scriptRegistry = map[string]scriptEntry{}

	RegisterScript("Duplicate", mockFactory, mockSerializer)

	// Should panic on duplicate registration
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic on duplicate registration")
		}
	}()

	RegisterScript("Duplicate", mockFactory, mockSerializer)
}

func TestCreateScript(t *testing.T) {
	scriptRegistry = map[string]scriptEntry{}
	RegisterScript("MockScript", mockFactory, mockSerializer)

	s, ok := CreateScript("MockScript", Props{"speed": 2.5, "health": 50})
	if !ok {
		t.Fatal("CreateScript failed")
	}
	mock := s.(*MockScript)
	if mock.Speed != 2.5 || mock.Health != 50 {
		t.Errorf("Props not applied: %+v", mock)
	}

	// YAML decodes whole numbers as int
	s, _ = CreateScript("MockScript", Props{"speed": 3})
	if s.(*MockScript).Speed != 3 {
		t.Errorf("Int prop should convert to float32, got %v", s.(*MockScript).Speed)
	}

	// Nil props fall back to defaults
	s, _ = CreateScript("MockScript", nil)
	if s.(*MockScript).Health != 100 {
		t.Errorf("Expected default health 100, got %d", s.(*MockScript).Health)
	}

	if _, ok := CreateScript("Unknown", nil); ok {
		t.Error("CreateScript should fail for unknown names")
	}
}

func TestSerializeScript(t *testing.T) {
	scriptRegistry = map[string]scriptEntry{}
	RegisterScript("MockScript", mockFactory, mockSerializer)

	name, props, ok := SerializeScript(&MockScript{Speed: 4, Health: 7})
	if !ok {
		t.Fatal("SerializeScript failed")
	}
	if name != "MockScript" {
		t.Errorf("Expected name 'MockScript', got '%s'", name)
	}
	if props["speed"] != float32(4) || props["health"] != 7 {
		t.Errorf("Unexpected props: %v", props)
	}

	if _, _, ok := SerializeScript(&BaseScript{}); ok {
		t.Error("Unregistered script should not serialize")
	}
}

func TestRegisteredScriptsSorted(t *testing.T) {
	scriptRegistry = map[string]scriptEntry{}
	RegisterScript("Zeta", mockFactory, nil)
	RegisterScript("Alpha", mockFactory, nil)
	RegisterScript("Mid", mockFactory, nil)

	names := RegisteredScripts()
	expected := []string{"Alpha", "Mid", "Zeta"}
	if len(names) != len(expected) {
		t.Fatalf("Expected %d names, got %d", len(expected), len(names))
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], expected[i])
		}
	}
}

func TestPropsDefaults(t *testing.T) {
	p := Props{"name": "cube", "on": true, "bad": "x"}

	if p.String("name", "") != "cube" {
		t.Error("String lookup failed")
	}
	if !p.Bool("on", false) {
		t.Error("Bool lookup failed")
	}
	if p.Float32("bad", 9) != 9 {
		t.Error("Non-numeric value should fall back to default")
	}
	if p.Int("missing", 3) != 3 {
		t.Error("Missing key should fall back to default")
	}
}
