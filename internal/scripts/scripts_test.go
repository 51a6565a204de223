package scripts

import (
	"context"
	"testing"

	"immortal/internal/engine"
	"immortal/internal/host/memhost"
)

func setupCube(t *testing.T, host *memhost.Host, script engine.Script) (*engine.Scene, *engine.TransformComponent) {
	t.Helper()
	scene, err := engine.NewScene(context.Background(), host)
	if err != nil {
		t.Fatalf("NewScene failed: %v", err)
	}
	cube, err := scene.CreateGameObject("Cube")
	if err != nil {
		t.Fatalf("CreateGameObject failed: %v", err)
	}
	tr, err := engine.AddComponent[engine.TransformComponent](cube)
	if err != nil {
		t.Fatalf("AddComponent failed: %v", err)
	}
	if err := tr.SetPosition(engine.Vec3(0, 0, 0)); err != nil {
		t.Fatalf("SetPosition failed: %v", err)
	}
	if err := scene.Attach(cube, script); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	return scene, tr
}

func TestCubeControllerMovesLeft(t *testing.T) {
	host := memhost.New()
	controller := NewCubeController()
	controller.Speed = 10
	scene, tr := setupCube(t, host, controller)
	host.ResetCalls()

	host.Press(engine.KeyA)
	if err := scene.Update(context.Background(), 0.1); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if host.Calls("SetPosition") != 1 {
		t.Errorf("Expected one SetPosition call, got %d", host.Calls("SetPosition"))
	}
	pos, _ := tr.Position()
	if pos.X != -1 || pos.Y != 0 || pos.Z != 0 {
		t.Errorf("Expected position (-1, 0, 0), got %v", pos)
	}
}

func TestCubeControllerIdleFrame(t *testing.T) {
	host := memhost.New()
	scene, tr := setupCube(t, host, NewCubeController())

	if err := scene.Update(context.Background(), 0.1); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	pos, _ := tr.Position()
	rot, _ := tr.Rotation()
	scale, _ := tr.Scale()
	if pos != (engine.Vector3{}) || rot != (engine.Vector3{}) || scale != engine.Vec3(1, 1, 1) {
		t.Errorf("Idle frame changed the transform: pos %v rot %v scale %v", pos, rot, scale)
	}
}

func TestCubeControllerTurnAndGrow(t *testing.T) {
	host := memhost.New()
	controller := NewCubeController()
	controller.TurnSpeed = 90
	controller.Growth = 1
	scene, tr := setupCube(t, host, controller)

	host.Press(engine.KeyE)
	host.PressButton(engine.MouseLeft)
	if err := scene.Update(context.Background(), 0.5); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	rot, _ := tr.Rotation()
	if rot.Y != 45 {
		t.Errorf("Expected rotation.y 45, got %v", rot.Y)
	}
	scale, _ := tr.Scale()
	if scale != engine.Vec3(1.5, 1.5, 1.5) {
		t.Errorf("Expected scale 1.5, got %v", scale)
	}
}

func TestCubeControllerWithoutTransform(t *testing.T) {
	host := memhost.New()
	scene, _ := engine.NewScene(context.Background(), host)
	obj, _ := scene.CreateGameObject("Bare")
	scene.Attach(obj, NewCubeController())

	if err := scene.Update(context.Background(), 0.1); err == nil {
		t.Error("Expected an error when the transform is missing")
	}
}

func TestRotatorWraps(t *testing.T) {
	host := memhost.New()
	rotator := NewRotator()
	rotator.Speed = 100
	scene, tr := setupCube(t, host, rotator)
	tr.SetRotation(engine.Vec3(0, 350, 0))

	if err := scene.FixedUpdate(context.Background(), 0.5); err != nil {
		t.Fatalf("FixedUpdate failed: %v", err)
	}

	rot, _ := tr.Rotation()
	if rot.Y != 40 {
		t.Errorf("Expected wrapped rotation 40, got %v", rot.Y)
	}
}

func TestRegisteredScripts(t *testing.T) {
	s, ok := engine.CreateScript("CubeController", engine.Props{"speed": 3})
	if !ok {
		t.Fatal("CubeController should be registered")
	}
	c := s.(*CubeController)
	if c.Speed != 3 {
		t.Errorf("Expected speed 3, got %v", c.Speed)
	}
	if c.TurnSpeed != 90 {
		t.Errorf("Expected default turn speed 90, got %v", c.TurnSpeed)
	}

	name, props, ok := engine.SerializeScript(c)
	if !ok || name != "CubeController" {
		t.Fatalf("SerializeScript = %s, %v", name, ok)
	}
	if props["speed"] != float32(3) {
		t.Errorf("Expected serialized speed 3, got %v", props["speed"])
	}

	if _, ok := engine.CreateScript("Rotator", nil); !ok {
		t.Error("Rotator should be registered")
	}
}
