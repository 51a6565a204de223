// Package memhost is an in-memory engine.Host. It stores scenes, objects
// and their tag/transform components in maps and simulates input, which
// makes it the host for headless runs and the double for facade tests.
package memhost

import (
	"errors"
	"fmt"

	"immortal/internal/engine"
)

var (
	ErrUnknownScene  = errors.New("memhost: unknown scene")
	ErrUnknownObject = errors.New("memhost: unknown object")
	ErrNoComponent   = errors.New("memhost: component not attached")
	ErrUnknownType   = errors.New("memhost: unknown component type")
)

type Option func(*Host)

// WithAutoAttach makes CreateObject attach a TagComponent holding the object
// name and a default TransformComponent, the way the engine does.
func WithAutoAttach() Option {
	return func(h *Host) { h.autoAttach = true }
}

// WithInput routes KeyDown/ButtonDown to in instead of the simulated state.
func WithInput(in engine.InputHost) Option {
	return func(h *Host) { h.input = in }
}

type object struct {
	name       string
	components map[engine.ComponentType]bool
	tag        string
	position   engine.Vector3
	rotation   engine.Vector3
	scale      engine.Vector3
}

type scene struct {
	nextID  engine.ObjectID
	objects map[engine.ObjectID]*object
}

// Host implements engine.Host in memory. It is not safe for concurrent use.
type Host struct {
	scenes     map[engine.SceneHandle]*scene
	nextScene  engine.SceneHandle
	autoAttach bool

	input   engine.InputHost
	keys    map[engine.KeyCode]bool
	buttons map[engine.MouseCode]bool

	calls map[string]int
}

var (
	_ engine.Host          = (*Host)(nil)
	_ engine.SceneReleaser = (*Host)(nil)
)

func New(opts ...Option) *Host {
	h := &Host{
		scenes:  make(map[engine.SceneHandle]*scene),
		keys:    make(map[engine.KeyCode]bool),
		buttons: make(map[engine.MouseCode]bool),
		calls:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Calls returns how many times the boundary call op was made, e.g.
// "SetPosition".
func (h *Host) Calls(op string) int {
	return h.calls[op]
}

// ResetCalls clears the call counters.
func (h *Host) ResetCalls() {
	h.calls = make(map[string]int)
}

func (h *Host) Init() (engine.SceneHandle, error) {
	h.calls["Init"]++
	// Handle 0 is what a detached GameObject carries, so real scenes start at 1.
	h.nextScene++
	h.scenes[h.nextScene] = &scene{objects: make(map[engine.ObjectID]*object)}
	return h.nextScene, nil
}

// ReleaseScene drops sc and its objects.
func (h *Host) ReleaseScene(sc engine.SceneHandle) error {
	h.calls["ReleaseScene"]++
	if _, ok := h.scenes[sc]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownScene, sc)
	}
	delete(h.scenes, sc)
	return nil
}

// SceneCount returns the number of live scenes.
func (h *Host) SceneCount() int {
	return len(h.scenes)
}

func (h *Host) CreateObject(sc engine.SceneHandle, name string) (engine.ObjectID, error) {
	h.calls["CreateObject"]++
	s, ok := h.scenes[sc]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownScene, sc)
	}
	id := s.nextID
	s.nextID++
	obj := &object{name: name, components: make(map[engine.ComponentType]bool)}
	s.objects[id] = obj
	if h.autoAttach {
		attach(obj, engine.TagComponentType)
		obj.tag = name
		attach(obj, engine.TransformComponentType)
	}
	return id, nil
}

// ObjectName returns the name the object was created with.
func (h *Host) ObjectName(sc engine.SceneHandle, id engine.ObjectID) (string, error) {
	obj, err := h.lookup(sc, id)
	if err != nil {
		return "", err
	}
	return obj.name, nil
}

// ObjectCount returns the number of objects in sc.
func (h *Host) ObjectCount(sc engine.SceneHandle) int {
	s, ok := h.scenes[sc]
	if !ok {
		return 0
	}
	return len(s.objects)
}

func (h *Host) HasComponent(sc engine.SceneHandle, id engine.ObjectID, typ engine.ComponentType) (bool, error) {
	h.calls["HasComponent"]++
	obj, err := h.lookup(sc, id)
	if err != nil {
		return false, err
	}
	return obj.components[typ], nil
}

// AddComponent attaches typ. Adding a component that is already attached
// keeps its stored state.
func (h *Host) AddComponent(sc engine.SceneHandle, id engine.ObjectID, typ engine.ComponentType) error {
	h.calls["AddComponent"]++
	obj, err := h.lookup(sc, id)
	if err != nil {
		return err
	}
	switch typ {
	case engine.TagComponentType, engine.TransformComponentType:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}
	attach(obj, typ)
	return nil
}

func attach(obj *object, typ engine.ComponentType) {
	if obj.components[typ] {
		return
	}
	obj.components[typ] = true
	if typ == engine.TransformComponentType {
		obj.position = engine.Vector3{}
		obj.rotation = engine.Vector3{}
		obj.scale = engine.Vec3(1, 1, 1)
	}
}

func (h *Host) Tag(sc engine.SceneHandle, id engine.ObjectID) (string, error) {
	h.calls["GetTag"]++
	obj, err := h.component(sc, id, engine.TagComponentType)
	if err != nil {
		return "", err
	}
	return obj.tag, nil
}

func (h *Host) SetTag(sc engine.SceneHandle, id engine.ObjectID, tag string) error {
	h.calls["SetTag"]++
	obj, err := h.component(sc, id, engine.TagComponentType)
	if err != nil {
		return err
	}
	obj.tag = tag
	return nil
}

func (h *Host) Position(sc engine.SceneHandle, id engine.ObjectID) (engine.Vector3, error) {
	h.calls["GetPosition"]++
	obj, err := h.component(sc, id, engine.TransformComponentType)
	if err != nil {
		return engine.Vector3{}, err
	}
	return obj.position, nil
}

func (h *Host) SetPosition(sc engine.SceneHandle, id engine.ObjectID, v engine.Vector3) error {
	h.calls["SetPosition"]++
	obj, err := h.component(sc, id, engine.TransformComponentType)
	if err != nil {
		return err
	}
	obj.position = v
	return nil
}

func (h *Host) Rotation(sc engine.SceneHandle, id engine.ObjectID) (engine.Vector3, error) {
	h.calls["GetRotation"]++
	obj, err := h.component(sc, id, engine.TransformComponentType)
	if err != nil {
		return engine.Vector3{}, err
	}
	return obj.rotation, nil
}

func (h *Host) SetRotation(sc engine.SceneHandle, id engine.ObjectID, v engine.Vector3) error {
	h.calls["SetRotation"]++
	obj, err := h.component(sc, id, engine.TransformComponentType)
	if err != nil {
		return err
	}
	obj.rotation = v
	return nil
}

func (h *Host) Scale(sc engine.SceneHandle, id engine.ObjectID) (engine.Vector3, error) {
	h.calls["GetScale"]++
	obj, err := h.component(sc, id, engine.TransformComponentType)
	if err != nil {
		return engine.Vector3{}, err
	}
	return obj.scale, nil
}

func (h *Host) SetScale(sc engine.SceneHandle, id engine.ObjectID, v engine.Vector3) error {
	h.calls["SetScale"]++
	obj, err := h.component(sc, id, engine.TransformComponentType)
	if err != nil {
		return err
	}
	obj.scale = v
	return nil
}

func (h *Host) Transform(sc engine.SceneHandle, id engine.ObjectID) (engine.Matrix4, error) {
	h.calls["GetTransform"]++
	obj, err := h.component(sc, id, engine.TransformComponentType)
	if err != nil {
		return engine.Matrix4{}, err
	}
	return engine.NewMatrix4(obj.position, obj.rotation, obj.scale), nil
}

// SetTransform copies the X/Y/Z of the first three rows; W is ignored.
func (h *Host) SetTransform(sc engine.SceneHandle, id engine.ObjectID, m engine.Matrix4) error {
	h.calls["SetTransform"]++
	obj, err := h.component(sc, id, engine.TransformComponentType)
	if err != nil {
		return err
	}
	obj.position = engine.XYZ(m.Position)
	obj.rotation = engine.XYZ(m.Rotation)
	obj.scale = engine.XYZ(m.Scale)
	return nil
}

func (h *Host) KeyDown(code engine.KeyCode) bool {
	if h.input != nil {
		return h.input.KeyDown(code)
	}
	return h.keys[code]
}

func (h *Host) ButtonDown(code engine.MouseCode) bool {
	if h.input != nil {
		return h.input.ButtonDown(code)
	}
	return h.buttons[code]
}

// Press marks code as held until Release.
func (h *Host) Press(code engine.KeyCode) {
	h.keys[code] = true
}

func (h *Host) Release(code engine.KeyCode) {
	delete(h.keys, code)
}

// PressButton marks a mouse button as held until ReleaseButton.
func (h *Host) PressButton(code engine.MouseCode) {
	h.buttons[code] = true
}

func (h *Host) ReleaseButton(code engine.MouseCode) {
	delete(h.buttons, code)
}

func (h *Host) lookup(sc engine.SceneHandle, id engine.ObjectID) (*object, error) {
	s, ok := h.scenes[sc]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownScene, sc)
	}
	obj, ok := s.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d in scene %d", ErrUnknownObject, id, sc)
	}
	return obj, nil
}

func (h *Host) component(sc engine.SceneHandle, id engine.ObjectID, typ engine.ComponentType) (*object, error) {
	obj, err := h.lookup(sc, id)
	if err != nil {
		return nil, err
	}
	if !obj.components[typ] {
		return nil, fmt.Errorf("%w: %s on %d", ErrNoComponent, typ, id)
	}
	return obj, nil
}
