package engine

import "fmt"

// GameObject is the identity of an object living in a host scene. It owns no
// state besides that identity; everything else is read from the host.
//
// The zero value is detached: it has no host, scene 0 and id 0, and every
// component operation on it fails with ErrDetachedGameObject.
type GameObject struct {
	scene SceneHandle
	id    ObjectID
	name  string
	host  Host
}

// NewGameObject binds an existing host object. Scene.CreateGameObject is the
// usual way to obtain one.
func NewGameObject(host Host, scene SceneHandle, id ObjectID, name string) *GameObject {
	return &GameObject{scene: scene, id: id, name: name, host: host}
}

func (g *GameObject) ID() ObjectID {
	return g.id
}

func (g *GameObject) Scene() SceneHandle {
	return g.scene
}

func (g *GameObject) Name() string {
	return g.name
}

// Attached reports whether g is bound to a host.
func (g *GameObject) Attached() bool {
	return g != nil && g.host != nil
}

// Input polls the host this object lives in.
func (g *GameObject) Input() Input {
	if !g.Attached() {
		return Input{}
	}
	return NewInput(g.host)
}

func (g *GameObject) String() string {
	if g == nil {
		return "GameObject(nil)"
	}
	return fmt.Sprintf("GameObject(%q scene=%d id=%d)", g.name, g.scene, g.id)
}

// componentPtr constrains generic component helpers to pointer wrappers.
type componentPtr[T any] interface {
	*T
	Component
}

// HasComponent asks the host whether g carries component T.
func HasComponent[T any, PT componentPtr[T]](g *GameObject) (bool, error) {
	if !g.Attached() {
		return false, ErrDetachedGameObject
	}
	typ := PT(new(T)).ComponentType()
	ok, err := g.host.HasComponent(g.scene, g.id, typ)
	if err != nil {
		return false, fmt.Errorf("has %s on %d: %w", typ, g.id, err)
	}
	return ok, nil
}

// AddComponent attaches T on the host and returns a wrapper bound to g.
// Duplicate attachment is left to the host.
func AddComponent[T any, PT componentPtr[T]](g *GameObject) (PT, error) {
	if !g.Attached() {
		return nil, ErrDetachedGameObject
	}
	c := PT(new(T))
	c.SetGameObject(g)
	if err := g.host.AddComponent(g.scene, g.id, c.ComponentType()); err != nil {
		return nil, fmt.Errorf("add %s to %d: %w", c.ComponentType(), g.id, err)
	}
	return c, nil
}

// GetComponent returns a new wrapper for T, or ErrMissingComponent when the
// host reports T is not attached. Wrappers are never cached: two calls
// return two distinct values bound to the same object.
func GetComponent[T any, PT componentPtr[T]](g *GameObject) (PT, error) {
	ok, err := HasComponent[T, PT](g)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s on %d: %w", PT(new(T)).ComponentType(), g.id, ErrMissingComponent)
	}
	c := PT(new(T))
	c.SetGameObject(g)
	return c, nil
}
