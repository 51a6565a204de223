package scripts

import (
	"context"
	"fmt"

	"immortal/internal/engine"
)

// CubeController moves its object with WASD, turns it with Q/E and grows or
// shrinks it while the left or right mouse button is held.
type CubeController struct {
	engine.BaseScript
	Speed     float32
	TurnSpeed float32
	Growth    float32
}

func NewCubeController() *CubeController {
	return &CubeController{
		Speed:     10,
		TurnSpeed: 90,
		Growth:    0.5,
	}
}

func (c *CubeController) Update(ctx context.Context, deltaTime float32) error {
	tr, err := c.Transform()
	if err != nil {
		return err
	}
	in := c.Input()

	pos, err := tr.Position()
	if err != nil {
		return fmt.Errorf("read position: %w", err)
	}
	step := c.Speed * deltaTime
	if in.KeyDown(engine.KeyA) {
		pos.X -= step
	}
	if in.KeyDown(engine.KeyD) {
		pos.X += step
	}
	if in.KeyDown(engine.KeyW) {
		pos.Z -= step
	}
	if in.KeyDown(engine.KeyS) {
		pos.Z += step
	}
	if err := tr.SetPosition(pos); err != nil {
		return fmt.Errorf("write position: %w", err)
	}

	rot, err := tr.Rotation()
	if err != nil {
		return fmt.Errorf("read rotation: %w", err)
	}
	if in.KeyDown(engine.KeyQ) {
		rot.Y -= c.TurnSpeed * deltaTime
	}
	if in.KeyDown(engine.KeyE) {
		rot.Y += c.TurnSpeed * deltaTime
	}
	if err := tr.SetRotation(rot); err != nil {
		return fmt.Errorf("write rotation: %w", err)
	}

	scale, err := tr.Scale()
	if err != nil {
		return fmt.Errorf("read scale: %w", err)
	}
	if in.ButtonDown(engine.MouseLeft) {
		scale = engine.Scale(scale, 1+c.Growth*deltaTime)
	}
	if in.ButtonDown(engine.MouseRight) {
		scale = engine.Scale(scale, 1-c.Growth*deltaTime)
	}
	if err := tr.SetScale(scale); err != nil {
		return fmt.Errorf("write scale: %w", err)
	}
	return nil
}
