package engine

import (
	"context"

	"immortal/internal/logging"

	"go.uber.org/zap"
)

// Script is per-object behaviour driven once per frame by the host.
type Script interface {
	Bind(g *GameObject)
	GameObject() *GameObject
	Update(ctx context.Context, deltaTime float32) error
	FixedUpdate(ctx context.Context, deltaTime float32) error
	OnKeyDown(ctx context.Context, code KeyCode) error
	OnButtonDown(ctx context.Context, code MouseCode) error
}

// BaseScript provides the GameObject binding and default hooks. Embed it and
// override the hooks a script needs.
type BaseScript struct {
	gameObject *GameObject
}

func (b *BaseScript) Bind(g *GameObject) {
	b.gameObject = g
}

func (b *BaseScript) GameObject() *GameObject {
	return b.gameObject
}

func (b *BaseScript) Update(ctx context.Context, deltaTime float32) error {
	return nil
}

func (b *BaseScript) FixedUpdate(ctx context.Context, deltaTime float32) error {
	return nil
}

func (b *BaseScript) OnKeyDown(ctx context.Context, code KeyCode) error {
	logging.Debug(ctx, "key down", zap.Stringer("object", b.gameObject), zap.Stringer("key", code))
	return nil
}

func (b *BaseScript) OnButtonDown(ctx context.Context, code MouseCode) error {
	return nil
}

// Transform fetches the TransformComponent of the bound object.
func (b *BaseScript) Transform() (*TransformComponent, error) {
	return GetComponent[TransformComponent](b.gameObject)
}

// Tag fetches the TagComponent of the bound object.
func (b *BaseScript) Tag() (*TagComponent, error) {
	return GetComponent[TagComponent](b.gameObject)
}

// Input polls the host of the bound object.
func (b *BaseScript) Input() Input {
	return b.gameObject.Input()
}
