package scenefile

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"immortal/internal/engine"
	"immortal/internal/host/memhost"
	"immortal/internal/scripting"
	"immortal/internal/scripts"
)

const mainScene = `
objects:
  - name: Cube
    tag: player
    transform:
      position: [1, 2, 3]
      rotation: [0, 45, 0]
    scripts:
      - name: CubeController
        props: {speed: 4}
      - lua: lua/spin.lua
  - name: Marker
`

func writeScene(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "lua"), 0o755); err != nil {
		t.Fatal(err)
	}
	lua := "function update(dt) end\n"
	if err := os.WriteFile(filepath.Join(dir, "lua", "spin.lua"), []byte(lua), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "main.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newScene(t *testing.T) (*memhost.Host, *engine.Scene) {
	t.Helper()
	host := memhost.New()
	scene, err := engine.NewScene(context.Background(), host)
	if err != nil {
		t.Fatalf("NewScene failed: %v", err)
	}
	return host, scene
}

func TestLoadBuildsObjects(t *testing.T) {
	_, scene := newScene(t)
	loaded, err := Load(context.Background(), scene, writeScene(t, mainScene))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer loaded.Close()

	if len(loaded.Objects) != 2 || len(loaded.Lua) != 1 {
		t.Fatalf("Expected 2 objects and 1 lua script, got %d and %d", len(loaded.Objects), len(loaded.Lua))
	}

	cube := scene.Find("Cube")
	tag, err := engine.GetComponent[engine.TagComponent](cube)
	if err != nil {
		t.Fatalf("Cube should have a tag: %v", err)
	}
	if v, _ := tag.Tag(); v != "player" {
		t.Errorf("Expected tag player, got %q", v)
	}

	tr, err := engine.GetComponent[engine.TransformComponent](cube)
	if err != nil {
		t.Fatalf("Cube should have a transform: %v", err)
	}
	pos, _ := tr.Position()
	rot, _ := tr.Rotation()
	scale, _ := tr.Scale()
	if pos != engine.Vec3(1, 2, 3) || rot != engine.Vec3(0, 45, 0) || scale != engine.Vec3(1, 1, 1) {
		t.Errorf("Unexpected transform: pos %v rot %v scale %v", pos, rot, scale)
	}

	attached := scene.Scripts()
	if len(attached) != 2 {
		t.Fatalf("Expected 2 scripts, got %d", len(attached))
	}
	controller, ok := attached[0].(*scripts.CubeController)
	if !ok {
		t.Fatalf("First script should be a CubeController, got %T", attached[0])
	}
	if controller.Speed != 4 {
		t.Errorf("Expected speed 4 from props, got %v", controller.Speed)
	}
	if _, ok := attached[1].(*scripting.LuaScript); !ok {
		t.Errorf("Second script should be Lua, got %T", attached[1])
	}

	marker := scene.Find("Marker")
	if ok, _ := engine.HasComponent[engine.TransformComponent](marker); ok {
		t.Error("Marker declares no transform and should have none")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown script", "objects:\n  - name: A\n    scripts:\n      - name: Nope\n", `unknown script "Nope"`},
		{"empty script", "objects:\n  - name: A\n    scripts:\n      - props: {a: 1}\n", "needs a name or a lua file"},
		{"both kinds", "objects:\n  - name: A\n    scripts:\n      - {name: Rotator, lua: x.lua}\n", "both"},
		{"missing name", "objects:\n  - tag: x\n", "missing name"},
		{"unknown key", "objects:\n  - name: A\n    colour: red\n", "colour"},
		{"missing lua", "objects:\n  - name: A\n    scripts:\n      - lua: gone.lua\n", "gone.lua"},
	}

	for _, test := range tests {
		_, scene := newScene(t)
		_, err := Load(context.Background(), scene, writeScene(t, test.src))
		if err == nil {
			t.Errorf("%s: expected an error", test.name)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("%s: expected error containing %q, got %v", test.name, test.want, err)
		}
	}
}

func TestLoadFailureAttachesNothing(t *testing.T) {
	_, scene := newScene(t)
	src := "objects:\n  - name: Cube\n    scripts:\n      - lua: lua/spin.lua\n  - name: Other\n    scripts:\n      - name: NoSuchScript\n"
	if _, err := Load(context.Background(), scene, writeScene(t, src)); err == nil {
		t.Fatal("Expected the unknown script to fail the load")
	}

	if got := scene.Scripts(); len(got) != 0 {
		t.Errorf("Failed load should leave no scripts attached, got %d", len(got))
	}
	if err := scene.Update(context.Background(), 0.016); err != nil {
		t.Errorf("Update after a failed load should not reach closed scripts: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, scene := newScene(t)
	_, err := Load(context.Background(), scene, filepath.Join(t.TempDir(), "none.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	_, scene := newScene(t)
	path := writeScene(t, mainScene)
	loaded, err := Load(context.Background(), scene, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer loaded.Close()

	out := filepath.Join(filepath.Dir(path), "saved.yaml")
	if err := Save(scene, out); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse of saved scene failed: %v", err)
	}

	if len(f.Objects) != 2 {
		t.Fatalf("Expected 2 saved objects, got %d", len(f.Objects))
	}
	cube := f.Objects[0]
	if cube.Name != "Cube" || cube.Tag != "player" {
		t.Errorf("Unexpected cube header: %+v", cube)
	}
	if cube.Transform == nil || *cube.Transform.Position != [3]float32{1, 2, 3} {
		t.Errorf("Unexpected cube transform: %+v", cube.Transform)
	}
	if len(cube.Scripts) != 2 || cube.Scripts[0].Name != "CubeController" || cube.Scripts[1].Lua != "lua/spin.lua" {
		t.Errorf("Unexpected cube scripts: %+v", cube.Scripts)
	}
	if f.Objects[1].Transform != nil || f.Objects[1].Tag != "" {
		t.Errorf("Marker should have no components, got %+v", f.Objects[1])
	}

	// The saved file builds the same scene again.
	_, again := newScene(t)
	reloaded, err := Load(context.Background(), again, out)
	if err != nil {
		t.Fatalf("Load of saved scene failed: %v", err)
	}
	reloaded.Close()
}

func TestShippedScene(t *testing.T) {
	host := memhost.New(memhost.WithAutoAttach())
	scene, err := engine.NewScene(context.Background(), host)
	if err != nil {
		t.Fatalf("NewScene failed: %v", err)
	}
	loaded, err := Load(context.Background(), scene, filepath.Join("..", "..", "assets", "scenes", "main.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer loaded.Close()

	host.Press(engine.KeySpace)
	for i := 0; i < 3; i++ {
		if err := scene.DispatchInput(context.Background()); err != nil {
			t.Fatalf("DispatchInput failed: %v", err)
		}
		if err := scene.Update(context.Background(), 0.016); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}
}
