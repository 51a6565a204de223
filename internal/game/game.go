package game

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"immortal/internal/config"
	"immortal/internal/engine"
	"immortal/internal/logging"
	"immortal/internal/scenefile"
	"immortal/internal/scripting"

	"go.uber.org/zap"
)

// Clock supplies frame times. ok is false when the loop should stop.
type Clock interface {
	NextFrame() (deltaTime float32, ok bool)
}

// StatusSink is implemented by clocks that can show a status line.
type StatusSink interface {
	SetStatus(s string)
}

// HeadlessClock reports a constant frame time and never stops on its own.
type HeadlessClock struct {
	Delta time.Duration
}

func (c HeadlessClock) NextFrame() (float32, bool) {
	return float32(c.Delta.Seconds()), true
}

// Game drives a scene loaded from a scene file: input dispatch, fixed
// updates, per-frame updates and hot reload of watched files.
type Game struct {
	Scene *engine.Scene

	cfg     *config.Config
	log     *zap.Logger
	host    engine.Host
	clock   Clock
	loaded  *scenefile.Loaded
	watcher *scripting.Watcher

	accumulator float32
	frame       int

	// Debug timing (ms)
	updateMs float64
	fixedMs  float64
}

func New(cfg *config.Config, log *zap.Logger, host engine.Host, clock Clock) *Game {
	return &Game{
		cfg:   cfg,
		log:   log,
		host:  host,
		clock: clock,
	}
}

// Frame returns the number of frames stepped so far.
func (g *Game) Frame() int {
	return g.frame
}

// Load builds the configured scene and starts the file watcher when
// enabled.
func (g *Game) Load(ctx context.Context) error {
	ctx = logging.WithLogger(ctx, g.log)
	if err := g.loadScene(ctx); err != nil {
		return err
	}
	if !g.cfg.Scene.Watch {
		return nil
	}

	dirs := watchDirs(g.cfg.Scene.Path, g.cfg.Scene.ScriptsDir)
	w, err := scripting.NewWatcher(dirs...)
	if err != nil {
		return fmt.Errorf("watch %v: %w", dirs, err)
	}
	g.watcher = w
	g.log.Info("watching for changes", zap.Strings("dirs", dirs))
	return nil
}

// loadScene builds the scene file into a fresh scene. The previous scene
// is released only once the new one has loaded; a failed load releases
// the new one instead.
func (g *Game) loadScene(ctx context.Context) error {
	scene, err := engine.NewScene(ctx, g.host)
	if err != nil {
		return err
	}
	loaded, err := scenefile.Load(ctx, scene, g.cfg.Scene.Path)
	if err != nil {
		if cerr := scene.Close(ctx); cerr != nil {
			g.log.Warn("release failed scene", zap.Error(cerr))
		}
		return err
	}
	g.closeScene(ctx)
	g.Scene = scene
	g.loaded = loaded
	return nil
}

func (g *Game) closeScene(ctx context.Context) {
	if g.loaded != nil {
		g.loaded.Close()
		g.loaded = nil
	}
	if g.Scene != nil {
		if err := g.Scene.Close(ctx); err != nil {
			g.log.Warn("release scene", zap.Error(err))
		}
		g.Scene = nil
	}
}

// watchDirs returns the existing, distinct directories holding the scene
// file and the Lua scripts.
func watchDirs(scenePath, scriptsDir string) []string {
	var dirs []string
	seen := map[string]bool{}
	for _, dir := range []string{filepath.Dir(scenePath), scriptsDir} {
		if dir == "" {
			continue
		}
		dir = filepath.Clean(dir)
		if seen[dir] {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs
}

// Run steps frames until the clock stops, ctx is cancelled or
// loop.max_frames is reached. Script errors are logged and do not stop
// the loop.
func (g *Game) Run(ctx context.Context) error {
	if g.Scene == nil {
		return errors.New("game: Run before Load")
	}
	ctx = logging.WithLogger(ctx, g.log)

	for g.cfg.Loop.MaxFrames == 0 || g.frame < g.cfg.Loop.MaxFrames {
		if err := ctx.Err(); err != nil {
			return nil
		}
		deltaTime, ok := g.clock.NextFrame()
		if !ok {
			break
		}
		if err := g.Step(ctx, deltaTime); err != nil {
			g.log.Error("frame failed", zap.Int("frame", g.frame), zap.Error(err))
		}
	}
	g.log.Info("loop stopped", zap.Int("frames", g.frame))
	return nil
}

// Step runs one frame: pending reloads, input dispatch, as many fixed
// steps as the accumulated time allows and one Update.
func (g *Game) Step(ctx context.Context, deltaTime float32) error {
	g.frame++
	g.applyChanges(ctx)

	var errs []error
	if err := g.Scene.DispatchInput(ctx); err != nil {
		errs = append(errs, err)
	}

	fixedStart := time.Now()
	step := float32(g.cfg.Loop.FixedStep.Seconds())
	g.accumulator += deltaTime
	steps := 0
	for g.accumulator >= step && steps < g.cfg.Loop.MaxFixedSteps {
		if err := g.Scene.FixedUpdate(ctx, step); err != nil {
			errs = append(errs, err)
		}
		g.accumulator -= step
		steps++
	}
	if g.accumulator >= step {
		g.log.Debug("dropping fixed step backlog", zap.Float32("backlog", g.accumulator))
		g.accumulator = 0
	}
	g.fixedMs = float64(time.Since(fixedStart).Microseconds()) / 1000.0

	updateStart := time.Now()
	if err := g.Scene.Update(ctx, deltaTime); err != nil {
		errs = append(errs, err)
	}
	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0

	if sink, ok := g.clock.(StatusSink); ok {
		sink.SetStatus(g.status())
	}
	return errors.Join(errs...)
}

func (g *Game) status() string {
	return fmt.Sprintf("frame %d  objects %d  scripts %d  fixed %.2f ms  update %.2f ms",
		g.frame, len(g.Scene.Objects()), len(g.Scene.Scripts()), g.fixedMs, g.updateMs)
}

// applyChanges reloads the Lua scripts and the scene file reported by the
// watcher since the previous frame.
func (g *Game) applyChanges(ctx context.Context) {
	if g.watcher == nil {
		return
	}
	for _, path := range g.watcher.Drain() {
		switch {
		case scripting.IsScriptFile(path):
			for _, s := range g.loaded.Lua {
				if samePath(s.Path(), path) {
					_ = s.Reload()
				}
			}
		case scripting.IsSceneFile(path) && samePath(path, g.cfg.Scene.Path):
			if err := g.loadScene(ctx); err != nil {
				g.log.Warn("scene reload failed, keeping previous scene", zap.String("file", path), zap.Error(err))
				continue
			}
			g.log.Info("reloaded scene", zap.String("file", path))
		}
	}
	for {
		select {
		case err, ok := <-g.watcher.Errors:
			if !ok {
				return
			}
			g.log.Warn("watcher error", zap.Error(err))
		default:
			return
		}
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// Close stops the watcher, releases the Lua VMs and drops the scene from
// the host.
func (g *Game) Close() error {
	var err error
	if g.watcher != nil {
		err = g.watcher.Close()
	}
	g.closeScene(logging.WithLogger(context.Background(), g.log))
	return err
}
