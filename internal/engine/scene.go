package engine

import (
	"context"
	"errors"
	"fmt"

	"immortal/internal/logging"

	"go.uber.org/zap"
)

// ErrScriptAttached is returned by Attach for a script that already drives
// an object. Detach it first to move it.
var ErrScriptAttached = errors.New("engine: script already attached")

// binding pairs a script with the object it drives.
type binding struct {
	object *GameObject
	script Script
}

// Scene is a host scene context and the factory for its GameObjects. It also
// drives the scripts attached to its objects when the host ticks it.
//
// A Scene is not safe for concurrent use; the host calls it from the
// goroutine that runs the frame.
type Scene struct {
	handle   SceneHandle
	host     Host
	objects  []*GameObject
	bindings []binding

	keysDown    map[KeyCode]bool
	buttonsDown map[MouseCode]bool

	// ObjectCreated fires after CreateGameObject succeeds.
	ObjectCreated Event[*GameObject]
}

// NewScene asks the host for a new scene context.
func NewScene(ctx context.Context, host Host) (*Scene, error) {
	if host == nil {
		return nil, errors.New("engine: nil host")
	}
	handle, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("init scene: %w", err)
	}
	logging.Debug(ctx, "scene created", zap.Uint64("scene", uint64(handle)))
	return &Scene{
		handle:      handle,
		host:        host,
		keysDown:    make(map[KeyCode]bool),
		buttonsDown: make(map[MouseCode]bool),
	}, nil
}

func (s *Scene) Handle() SceneHandle {
	return s.handle
}

// Close detaches every script and asks the host to release the scene when
// it implements SceneReleaser. Objects of a closed scene must not be used.
func (s *Scene) Close(ctx context.Context) error {
	s.bindings = nil
	r, ok := s.host.(SceneReleaser)
	if !ok {
		return nil
	}
	if err := r.ReleaseScene(s.handle); err != nil {
		return fmt.Errorf("release scene %d: %w", s.handle, err)
	}
	logging.Debug(ctx, "scene released", zap.Uint64("scene", uint64(s.handle)))
	return nil
}

// Input polls the scene's host.
func (s *Scene) Input() Input {
	return NewInput(s.host)
}

// CreateGameObject asks the host to create an object named name in this
// scene and wraps the returned id.
func (s *Scene) CreateGameObject(name string) (*GameObject, error) {
	id, err := s.host.CreateObject(s.handle, name)
	if err != nil {
		return nil, fmt.Errorf("create object %q: %w", name, err)
	}
	g := NewGameObject(s.host, s.handle, id, name)
	s.objects = append(s.objects, g)
	s.ObjectCreated.Invoke(g)
	return g, nil
}

// Objects returns the objects created through this scene, oldest first.
func (s *Scene) Objects() []*GameObject {
	return append([]*GameObject(nil), s.objects...)
}

// Find returns the first object created with name, or nil.
func (s *Scene) Find(name string) *GameObject {
	for _, g := range s.objects {
		if g.name == name {
			return g
		}
	}
	return nil
}

// Attach binds script to g and schedules it for frame dispatch. A script
// can drive one object at a time.
func (s *Scene) Attach(g *GameObject, script Script) error {
	if !g.Attached() {
		return ErrDetachedGameObject
	}
	if g.scene != s.handle {
		return fmt.Errorf("attach to %s: object belongs to scene %d, not %d", g, g.scene, s.handle)
	}
	for _, b := range s.bindings {
		if b.script == script {
			return fmt.Errorf("attach to %s: %w to %s", g, ErrScriptAttached, b.object)
		}
	}
	script.Bind(g)
	s.bindings = append(s.bindings, binding{object: g, script: script})
	return nil
}

// Detach stops dispatching to script. It reports whether it was attached.
func (s *Scene) Detach(script Script) bool {
	for i, b := range s.bindings {
		if b.script == script {
			s.bindings = append(s.bindings[:i], s.bindings[i+1:]...)
			return true
		}
	}
	return false
}

// Scripts returns the attached scripts in dispatch order.
func (s *Scene) Scripts() []Script {
	out := make([]Script, len(s.bindings))
	for i, b := range s.bindings {
		out[i] = b.script
	}
	return out
}

// DispatchInput polls every known key and mouse button and delivers
// OnKeyDown / OnButtonDown for those that went down since the last call.
func (s *Scene) DispatchInput(ctx context.Context) error {
	var errs []error
	for _, code := range Keys {
		down := s.host.KeyDown(code)
		pressed := down && !s.keysDown[code]
		s.keysDown[code] = down
		if !pressed {
			continue
		}
		errs = append(errs, s.each(func(sc Script) error { return sc.OnKeyDown(ctx, code) })...)
	}
	for _, code := range Buttons {
		down := s.host.ButtonDown(code)
		pressed := down && !s.buttonsDown[code]
		s.buttonsDown[code] = down
		if !pressed {
			continue
		}
		errs = append(errs, s.each(func(sc Script) error { return sc.OnButtonDown(ctx, code) })...)
	}
	return errors.Join(errs...)
}

// FixedUpdate runs FixedUpdate on every attached script.
func (s *Scene) FixedUpdate(ctx context.Context, deltaTime float32) error {
	return errors.Join(s.each(func(sc Script) error { return sc.FixedUpdate(ctx, deltaTime) })...)
}

// Update runs Update on every attached script. A failing script does not
// stop the others; all errors are returned joined.
func (s *Scene) Update(ctx context.Context, deltaTime float32) error {
	return errors.Join(s.each(func(sc Script) error { return sc.Update(ctx, deltaTime) })...)
}

func (s *Scene) each(fn func(Script) error) []error {
	var errs []error
	for _, b := range append([]binding(nil), s.bindings...) {
		if err := fn(b.script); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.object, err))
		}
	}
	return errs
}
