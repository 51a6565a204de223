package scenefile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"immortal/internal/engine"
	"immortal/internal/logging"
	"immortal/internal/scripting"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// --- YAML types ---

type File struct {
	Objects []ObjectDef `yaml:"objects"`
}

type ObjectDef struct {
	Name      string        `yaml:"name"`
	Tag       string        `yaml:"tag,omitempty"`
	Transform *TransformDef `yaml:"transform,omitempty"`
	Scripts   []ScriptDef   `yaml:"scripts,omitempty"`
}

type TransformDef struct {
	Position *[3]float32 `yaml:"position,omitempty"`
	Rotation *[3]float32 `yaml:"rotation,omitempty"`
	Scale    *[3]float32 `yaml:"scale,omitempty"`
}

// ScriptDef names either a registered Go script or a Lua file relative to
// the scene file.
type ScriptDef struct {
	Name  string       `yaml:"name,omitempty"`
	Props engine.Props `yaml:"props,omitempty"`
	Lua   string       `yaml:"lua,omitempty"`
}

// Loaded is what Build put into the scene.
type Loaded struct {
	Objects []*engine.GameObject
	Lua     []*scripting.LuaScript
}

// Close releases the Lua VMs created by the load.
func (l *Loaded) Close() {
	for _, s := range l.Lua {
		s.Close()
	}
}

func vec(v *[3]float32, def engine.Vector3) engine.Vector3 {
	if v == nil {
		return def
	}
	return engine.Vec3(v[0], v[1], v[2])
}

func arr(v engine.Vector3) *[3]float32 {
	return &[3]float32{v.X, v.Y, v.Z}
}

// --- Loading ---

// Parse decodes a scene file. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &f, nil
}

// Load reads the scene file at path and builds it into scene.
func Load(ctx context.Context, scene *engine.Scene, path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	loaded, err := f.Build(ctx, scene, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	logging.Info(ctx, "scene loaded",
		zap.String("file", path),
		zap.Int("objects", len(loaded.Objects)),
		zap.Int("lua_scripts", len(loaded.Lua)))
	return loaded, nil
}

// attachment is a script waiting to be attached to its object.
type attachment struct {
	object *engine.GameObject
	script engine.Script
}

// Build creates every object of f in scene through the facade. Lua paths
// are resolved against dir. Scripts are attached only once every object
// has built, so a failed build leaves no script attached to scene and
// closes the Lua scripts it loaded.
func (f *File) Build(ctx context.Context, scene *engine.Scene, dir string) (*Loaded, error) {
	loaded := &Loaded{}
	var pending []attachment
	for _, def := range f.Objects {
		attach, err := loaded.build(ctx, scene, dir, def)
		if err != nil {
			loaded.Close()
			return nil, fmt.Errorf("object %q: %w", def.Name, err)
		}
		pending = append(pending, attach...)
	}

	for i, a := range pending {
		if err := scene.Attach(a.object, a.script); err != nil {
			for _, done := range pending[:i] {
				scene.Detach(done.script)
			}
			loaded.Close()
			return nil, fmt.Errorf("object %q: %w", a.object.Name(), err)
		}
	}
	return loaded, nil
}

func (l *Loaded) build(ctx context.Context, scene *engine.Scene, dir string, def ObjectDef) ([]attachment, error) {
	if def.Name == "" {
		return nil, errors.New("missing name")
	}
	g, err := scene.CreateGameObject(def.Name)
	if err != nil {
		return nil, err
	}
	l.Objects = append(l.Objects, g)

	if def.Tag != "" {
		tag, err := engine.AddComponent[engine.TagComponent](g)
		if err != nil {
			return nil, err
		}
		if err := tag.SetTag(def.Tag); err != nil {
			return nil, err
		}
	}

	if def.Transform != nil {
		tr, err := engine.AddComponent[engine.TransformComponent](g)
		if err != nil {
			return nil, err
		}
		m := engine.NewMatrix4(
			vec(def.Transform.Position, engine.Vector3{}),
			vec(def.Transform.Rotation, engine.Vector3{}),
			vec(def.Transform.Scale, engine.Vec3(1, 1, 1)),
		)
		if err := tr.SetTransform(m); err != nil {
			return nil, err
		}
	}

	var attach []attachment
	for _, sd := range def.Scripts {
		script, err := l.script(ctx, dir, sd)
		if err != nil {
			return nil, err
		}
		attach = append(attach, attachment{object: g, script: script})
	}
	return attach, nil
}

func (l *Loaded) script(ctx context.Context, dir string, sd ScriptDef) (engine.Script, error) {
	switch {
	case sd.Lua != "" && sd.Name != "":
		return nil, fmt.Errorf("script sets both name %q and lua %q", sd.Name, sd.Lua)
	case sd.Lua != "":
		path := sd.Lua
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		s, err := scripting.LoadLua(path, logging.FromContext(ctx))
		if err != nil {
			return nil, err
		}
		l.Lua = append(l.Lua, s)
		return s, nil
	case sd.Name != "":
		s, ok := engine.CreateScript(sd.Name, sd.Props)
		if !ok {
			return nil, fmt.Errorf("unknown script %q", sd.Name)
		}
		return s, nil
	}
	return nil, errors.New("script needs a name or a lua file")
}

// --- Saving ---

// Snapshot reads the scene back through the facade. Lua paths are written
// relative to dir. Scripts that are neither registered nor Lua are skipped.
func Snapshot(scene *engine.Scene, dir string) (*File, error) {
	scripts := map[*engine.GameObject][]engine.Script{}
	for _, s := range scene.Scripts() {
		scripts[s.GameObject()] = append(scripts[s.GameObject()], s)
	}

	var f File
	for _, g := range scene.Objects() {
		def := ObjectDef{Name: g.Name()}

		tag, err := engine.GetComponent[engine.TagComponent](g)
		switch {
		case err == nil:
			if def.Tag, err = tag.Tag(); err != nil {
				return nil, err
			}
		case !errors.Is(err, engine.ErrMissingComponent):
			return nil, err
		}

		tr, err := engine.GetComponent[engine.TransformComponent](g)
		switch {
		case err == nil:
			m, err := tr.Transform()
			if err != nil {
				return nil, err
			}
			def.Transform = &TransformDef{
				Position: arr(engine.XYZ(m.Position)),
				Rotation: arr(engine.XYZ(m.Rotation)),
				Scale:    arr(engine.XYZ(m.Scale)),
			}
		case !errors.Is(err, engine.ErrMissingComponent):
			return nil, err
		}

		for _, s := range scripts[g] {
			if lua, ok := s.(*scripting.LuaScript); ok {
				rel, err := filepath.Rel(dir, lua.Path())
				if err != nil {
					rel = lua.Path()
				}
				def.Scripts = append(def.Scripts, ScriptDef{Lua: filepath.ToSlash(rel)})
				continue
			}
			if name, props, ok := engine.SerializeScript(s); ok {
				def.Scripts = append(def.Scripts, ScriptDef{Name: name, Props: props})
			}
		}

		f.Objects = append(f.Objects, def)
	}
	return &f, nil
}

// Save writes a snapshot of scene to path.
func Save(scene *engine.Scene, path string) error {
	f, err := Snapshot(scene, filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("snapshot scene: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}
