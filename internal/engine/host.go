package engine

import "errors"

// SceneHandle identifies a scene context owned by the host.
type SceneHandle uint64

// ObjectID identifies an object within one scene.
type ObjectID int32

// ComponentType names a component kind on the host side.
type ComponentType string

const (
	TagComponentType       ComponentType = "TagComponent"
	TransformComponentType ComponentType = "TransformComponent"
)

var (
	// ErrDetachedGameObject is returned when a component or GameObject is
	// used without being bound to a host-created object.
	ErrDetachedGameObject = errors.New("engine: game object is detached")

	// ErrMissingComponent is returned by GetComponent when the object does
	// not carry the requested component.
	ErrMissingComponent = errors.New("engine: component not attached")
)

// SceneHost creates scene contexts and the objects inside them.
type SceneHost interface {
	Init() (SceneHandle, error)
	CreateObject(scene SceneHandle, name string) (ObjectID, error)
}

// SceneReleaser is implemented by hosts that can drop a scene context and
// every object in it. Scene.Close uses it when the host provides it.
type SceneReleaser interface {
	ReleaseScene(scene SceneHandle) error
}

// ComponentHost answers and performs component attachment.
type ComponentHost interface {
	HasComponent(scene SceneHandle, id ObjectID, typ ComponentType) (bool, error)
	AddComponent(scene SceneHandle, id ObjectID, typ ComponentType) error
}

// TagHost stores the tag label of an object.
type TagHost interface {
	Tag(scene SceneHandle, id ObjectID) (string, error)
	SetTag(scene SceneHandle, id ObjectID, tag string) error
}

// TransformHost stores the transform of an object.
type TransformHost interface {
	Position(scene SceneHandle, id ObjectID) (Vector3, error)
	SetPosition(scene SceneHandle, id ObjectID, v Vector3) error
	Rotation(scene SceneHandle, id ObjectID) (Vector3, error)
	SetRotation(scene SceneHandle, id ObjectID, v Vector3) error
	Scale(scene SceneHandle, id ObjectID) (Vector3, error)
	SetScale(scene SceneHandle, id ObjectID, v Vector3) error
	Transform(scene SceneHandle, id ObjectID) (Matrix4, error)
	SetTransform(scene SceneHandle, id ObjectID, m Matrix4) error
}

// InputHost reports the current state of keys and mouse buttons.
type InputHost interface {
	KeyDown(code KeyCode) bool
	ButtonDown(code MouseCode) bool
}

// Host is the full boundary the facade talks to. Calls are synchronous and
// are made from the goroutine that drives the frame.
type Host interface {
	SceneHost
	ComponentHost
	TagHost
	TransformHost
	InputHost
}
