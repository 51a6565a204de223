package scripting

import (
	"context"
	"fmt"

	"immortal/internal/engine"
	"immortal/internal/logging"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Hook names looked up as Lua globals. A missing hook is a no-op.
const (
	hookUpdate       = "update"
	hookFixedUpdate  = "fixed_update"
	hookOnKeyDown    = "on_key_down"
	hookOnButtonDown = "on_button_down"
)

// LuaScript is a Script whose hooks are global functions of a Lua file.
// The file sees the facade of the object it is attached to through the
// object, transform, tag, input and log tables.
//
// Single-goroutine access only (the frame loop).
type LuaScript struct {
	engine.BaseScript
	path string
	vm   *lua.LState
	log  *zap.Logger

	// ctx of the hook being run, used by the log table.
	ctx context.Context
}

var _ engine.Script = (*LuaScript)(nil)

// LoadLua compiles the file at path into a fresh VM.
func LoadLua(path string, log *zap.Logger) (*LuaScript, error) {
	s := &LuaScript{path: path, log: log, ctx: context.Background()}
	vm, err := s.compile()
	if err != nil {
		return nil, err
	}
	s.vm = vm
	log.Debug("loaded lua script", zap.String("file", path))
	return s, nil
}

func (s *LuaScript) Path() string {
	return s.path
}

// Reload recompiles the file. The running VM is replaced only when the new
// one loads; on error the script keeps its previous behaviour.
func (s *LuaScript) Reload() error {
	vm, err := s.compile()
	if err != nil {
		s.log.Warn("lua reload failed, keeping previous version", zap.String("file", s.path), zap.Error(err))
		return err
	}
	old := s.vm
	s.vm = vm
	if old != nil {
		old.Close()
	}
	s.log.Info("reloaded lua script", zap.String("file", s.path))
	return nil
}

func (s *LuaScript) Close() {
	if s.vm != nil {
		s.vm.Close()
		s.vm = nil
	}
}

func (s *LuaScript) Update(ctx context.Context, deltaTime float32) error {
	return s.call(ctx, hookUpdate, lua.LNumber(deltaTime))
}

func (s *LuaScript) FixedUpdate(ctx context.Context, deltaTime float32) error {
	return s.call(ctx, hookFixedUpdate, lua.LNumber(deltaTime))
}

func (s *LuaScript) OnKeyDown(ctx context.Context, code engine.KeyCode) error {
	return s.call(ctx, hookOnKeyDown, lua.LNumber(code))
}

func (s *LuaScript) OnButtonDown(ctx context.Context, code engine.MouseCode) error {
	return s.call(ctx, hookOnButtonDown, lua.LNumber(code))
}

func (s *LuaScript) call(ctx context.Context, hook string, args ...lua.LValue) error {
	if s.vm == nil {
		return fmt.Errorf("%s: script closed", s.path)
	}
	fn := s.vm.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return nil
	}
	s.ctx = ctx
	defer func() { s.ctx = context.Background() }()

	if err := s.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		return fmt.Errorf("%s %s: %w", s.path, hook, err)
	}
	return nil
}

func (s *LuaScript) compile() (*lua.LState, error) {
	vm := lua.NewState()
	s.register(vm)
	if err := vm.DoFile(s.path); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	return vm, nil
}

func (s *LuaScript) register(vm *lua.LState) {
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	for code, name := range engine.KeyNames() {
		vm.SetGlobal("KEY_"+name, lua.LNumber(code))
	}
	for code, name := range engine.MouseNames() {
		vm.SetGlobal("MOUSE_"+name, lua.LNumber(code))
	}

	vm.SetGlobal("object", vm.SetFuncs(vm.NewTable(), map[string]lua.LGFunction{
		"id": func(L *lua.LState) int {
			g := s.bound(L)
			L.Push(lua.LNumber(g.ID()))
			return 1
		},
		"name": func(L *lua.LState) int {
			g := s.bound(L)
			L.Push(lua.LString(g.Name()))
			return 1
		},
	}))

	vm.SetGlobal("transform", vm.SetFuncs(vm.NewTable(), map[string]lua.LGFunction{
		"position":     s.getVector((*engine.TransformComponent).Position),
		"set_position": s.setVector((*engine.TransformComponent).SetPosition),
		"rotation":     s.getVector((*engine.TransformComponent).Rotation),
		"set_rotation": s.setVector((*engine.TransformComponent).SetRotation),
		"scale":        s.getVector((*engine.TransformComponent).Scale),
		"set_scale":    s.setVector((*engine.TransformComponent).SetScale),
	}))

	vm.SetGlobal("tag", vm.SetFuncs(vm.NewTable(), map[string]lua.LGFunction{
		"get": func(L *lua.LState) int {
			tag, err := s.Tag()
			if err != nil {
				L.RaiseError("tag: %v", err)
				return 0
			}
			v, err := tag.Tag()
			if err != nil {
				L.RaiseError("tag: %v", err)
				return 0
			}
			L.Push(lua.LString(v))
			return 1
		},
		"set": func(L *lua.LState) int {
			v := L.CheckString(1)
			tag, err := s.Tag()
			if err != nil {
				L.RaiseError("tag: %v", err)
				return 0
			}
			if err := tag.SetTag(v); err != nil {
				L.RaiseError("tag: %v", err)
			}
			return 0
		},
	}))

	vm.SetGlobal("input", vm.SetFuncs(vm.NewTable(), map[string]lua.LGFunction{
		"key_down": func(L *lua.LState) int {
			code := engine.KeyCode(L.CheckInt(1))
			L.Push(lua.LBool(s.Input().KeyDown(code)))
			return 1
		},
		"button_down": func(L *lua.LState) int {
			code := engine.MouseCode(L.CheckInt(1))
			L.Push(lua.LBool(s.Input().ButtonDown(code)))
			return 1
		},
	}))

	vm.SetGlobal("log", vm.SetFuncs(vm.NewTable(), map[string]lua.LGFunction{
		"debug": s.logFunc(logging.Debug),
		"info":  s.logFunc(logging.Info),
		"warn":  s.logFunc(logging.Warn),
		"error": s.logFunc(logging.Error),
		"fatal": s.logFunc(logging.Fatal),
	}))
}

// bound raises a Lua error when the script has no attached object.
func (s *LuaScript) bound(L *lua.LState) *engine.GameObject {
	g := s.GameObject()
	if !g.Attached() {
		L.RaiseError("object: %v", engine.ErrDetachedGameObject)
	}
	return g
}

func (s *LuaScript) getVector(get func(*engine.TransformComponent) (engine.Vector3, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		tr, err := s.Transform()
		if err != nil {
			L.RaiseError("transform: %v", err)
			return 0
		}
		v, err := get(tr)
		if err != nil {
			L.RaiseError("transform: %v", err)
			return 0
		}
		L.Push(lua.LNumber(v.X))
		L.Push(lua.LNumber(v.Y))
		L.Push(lua.LNumber(v.Z))
		return 3
	}
}

func (s *LuaScript) setVector(set func(*engine.TransformComponent, engine.Vector3) error) lua.LGFunction {
	return func(L *lua.LState) int {
		v := engine.Vec3(
			float32(L.CheckNumber(1)),
			float32(L.CheckNumber(2)),
			float32(L.CheckNumber(3)),
		)
		tr, err := s.Transform()
		if err != nil {
			L.RaiseError("transform: %v", err)
			return 0
		}
		if err := set(tr, v); err != nil {
			L.RaiseError("transform: %v", err)
		}
		return 0
	}
}

func (s *LuaScript) logFunc(logf func(context.Context, string, ...zap.Field)) lua.LGFunction {
	return func(L *lua.LState) int {
		logf(s.ctx, L.CheckString(1), zap.String("script", s.path))
		return 0
	}
}
