package engine

// Component is a typed view of host-side state attached to a GameObject.
// Implementations hold no state of their own besides the back-reference.
type Component interface {
	ComponentType() ComponentType
	SetGameObject(g *GameObject)
	GameObject() *GameObject
}

// BaseComponent provides the GameObject back-reference. The reference does
// not own the object.
type BaseComponent struct {
	gameObject *GameObject
}

func (b *BaseComponent) SetGameObject(g *GameObject) {
	b.gameObject = g
}

func (b *BaseComponent) GameObject() *GameObject {
	return b.gameObject
}

// bound returns the object to address on the host, or ErrDetachedGameObject.
func (b *BaseComponent) bound() (*GameObject, error) {
	if !b.gameObject.Attached() {
		return nil, ErrDetachedGameObject
	}
	return b.gameObject, nil
}

// TagComponent exposes the host's tag label.
type TagComponent struct {
	BaseComponent
}

func (t *TagComponent) ComponentType() ComponentType { return TagComponentType }

func (t *TagComponent) Tag() (string, error) {
	g, err := t.bound()
	if err != nil {
		return "", err
	}
	return g.host.Tag(g.scene, g.id)
}

func (t *TagComponent) SetTag(tag string) error {
	g, err := t.bound()
	if err != nil {
		return err
	}
	return g.host.SetTag(g.scene, g.id, tag)
}

// TransformComponent exposes the host's transform. Every getter and setter
// is a separate host call.
type TransformComponent struct {
	BaseComponent
}

func (t *TransformComponent) ComponentType() ComponentType { return TransformComponentType }

func (t *TransformComponent) Position() (Vector3, error) {
	g, err := t.bound()
	if err != nil {
		return Vector3{}, err
	}
	return g.host.Position(g.scene, g.id)
}

func (t *TransformComponent) SetPosition(v Vector3) error {
	g, err := t.bound()
	if err != nil {
		return err
	}
	return g.host.SetPosition(g.scene, g.id, v)
}

// Rotation is Euler angles in degrees.
func (t *TransformComponent) Rotation() (Vector3, error) {
	g, err := t.bound()
	if err != nil {
		return Vector3{}, err
	}
	return g.host.Rotation(g.scene, g.id)
}

func (t *TransformComponent) SetRotation(v Vector3) error {
	g, err := t.bound()
	if err != nil {
		return err
	}
	return g.host.SetRotation(g.scene, g.id, v)
}

func (t *TransformComponent) Scale() (Vector3, error) {
	g, err := t.bound()
	if err != nil {
		return Vector3{}, err
	}
	return g.host.Scale(g.scene, g.id)
}

func (t *TransformComponent) SetScale(v Vector3) error {
	g, err := t.bound()
	if err != nil {
		return err
	}
	return g.host.SetScale(g.scene, g.id, v)
}

// Transform reads position, rotation and scale in one host call.
func (t *TransformComponent) Transform() (Matrix4, error) {
	g, err := t.bound()
	if err != nil {
		return Matrix4{}, err
	}
	return g.host.Transform(g.scene, g.id)
}

// SetTransform writes the Position, Rotation and Scale rows in one host call.
func (t *TransformComponent) SetTransform(m Matrix4) error {
	g, err := t.bound()
	if err != nil {
		return err
	}
	return g.host.SetTransform(g.scene, g.id, m)
}
