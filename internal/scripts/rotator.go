package scripts

import (
	"context"

	"immortal/internal/engine"
)

// Rotator is a simple script that spins an object around the Y axis.
type Rotator struct {
	engine.BaseScript
	Speed float32
}

func NewRotator() *Rotator {
	return &Rotator{Speed: 90}
}

func (r *Rotator) FixedUpdate(ctx context.Context, deltaTime float32) error {
	tr, err := r.Transform()
	if err != nil {
		return err
	}
	rot, err := tr.Rotation()
	if err != nil {
		return err
	}
	rot.Y += r.Speed * deltaTime
	if rot.Y > 360 {
		rot.Y -= 360
	}
	return tr.SetRotation(rot)
}

// --- Generated boilerplate below ---

func init() {
	engine.RegisterScript("Rotator", rotatorFactory, rotatorSerializer)
}

func rotatorFactory(props engine.Props) engine.Script {
	script := NewRotator()
	script.Speed = props.Float32("speed", script.Speed)
	return script
}

func rotatorSerializer(s engine.Script) engine.Props {
	script, ok := s.(*Rotator)
	if !ok {
		return nil
	}
	return engine.Props{
		"speed": script.Speed,
	}
}
