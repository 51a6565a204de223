package engine

import (
	"fmt"
	"slices"
)

// Props are script properties as decoded from a scene file.
type Props map[string]any

// Float32 returns the numeric property key, or def when it is absent or not
// a number. YAML decodes whole numbers as int, so both are accepted.
func (p Props) Float32(key string, def float32) float32 {
	switch v := p[key].(type) {
	case float64:
		return float32(v)
	case float32:
		return v
	case int:
		return float32(v)
	case int64:
		return float32(v)
	}
	return def
}

func (p Props) Float64(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

func (p Props) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

func (p Props) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

func (p Props) String(key string, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}

// ScriptFactory creates a Script from scene-file props.
type ScriptFactory func(props Props) Script

// ScriptSerializer converts a Script back to props. It returns nil for
// scripts it does not own.
type ScriptSerializer func(s Script) Props

type scriptEntry struct {
	factory    ScriptFactory
	serializer ScriptSerializer
}

var scriptRegistry = map[string]scriptEntry{}

// RegisterScript registers a named script. It panics when name is taken.
func RegisterScript(name string, factory ScriptFactory, serializer ScriptSerializer) {
	if factory == nil {
		panic(fmt.Sprintf("script %q registered without a factory", name))
	}
	if _, exists := scriptRegistry[name]; exists {
		panic(fmt.Sprintf("script %q already registered", name))
	}
	scriptRegistry[name] = scriptEntry{factory: factory, serializer: serializer}
}

// CreateScript builds the script registered under name.
func CreateScript(name string, props Props) (Script, bool) {
	entry, ok := scriptRegistry[name]
	if !ok {
		return nil, false
	}
	if props == nil {
		props = Props{}
	}
	return entry.factory(props), true
}

// SerializeScript finds the registered script that owns s and returns its
// name and props.
func SerializeScript(s Script) (string, Props, bool) {
	for _, name := range RegisteredScripts() {
		entry := scriptRegistry[name]
		if entry.serializer == nil {
			continue
		}
		if props := entry.serializer(s); props != nil {
			return name, props, true
		}
	}
	return "", nil, false
}

// RegisteredScripts returns all registered script names, sorted.
func RegisteredScripts() []string {
	names := make([]string, 0, len(scriptRegistry))
	for name := range scriptRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
