// Package rlhost reads input from a raylib window.
package rlhost

import (
	"immortal/internal/config"
	"immortal/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Input implements engine.InputHost with raylib's polling functions. Key
// codes are shared with raylib, so they are passed through unchanged.
type Input struct{}

var _ engine.InputHost = Input{}

func (Input) KeyDown(code engine.KeyCode) bool {
	return rl.IsKeyDown(int32(code))
}

func (Input) ButtonDown(code engine.MouseCode) bool {
	return rl.IsMouseButtonDown(rl.MouseButton(code))
}

// Window owns the raylib window that input is read from. Nothing is drawn
// besides a clear and a status line.
type Window struct {
	status string
}

func OpenWindow(cfg config.WindowConfig) *Window {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(cfg.Width, cfg.Height, cfg.Title)
	rl.SetTargetFPS(cfg.TargetFPS)
	return &Window{}
}

// SetStatus replaces the line drawn in the corner of the window.
func (w *Window) SetStatus(s string) {
	w.status = s
}

// NextFrame presents the previous frame, pumps window events and reports
// the frame time in seconds. ok is false once the window should close.
func (w *Window) NextFrame() (deltaTime float32, ok bool) {
	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)
	if w.status != "" {
		rl.DrawText(w.status, 10, 10, 20, rl.DarkGray)
	}
	rl.EndDrawing()
	if rl.WindowShouldClose() {
		return 0, false
	}
	return rl.GetFrameTime(), true
}

func (w *Window) Close() {
	rl.CloseWindow()
}
