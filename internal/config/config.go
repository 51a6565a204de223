package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Loop    LoopConfig    `toml:"loop"`
	Scene   SceneConfig   `toml:"scene"`
	Host    HostConfig    `toml:"host"`
	Logging LoggingConfig `toml:"logging"`
}

type WindowConfig struct {
	Width     int32  `toml:"width"`
	Height    int32  `toml:"height"`
	Title     string `toml:"title"`
	TargetFPS int32  `toml:"target_fps"`
	Headless  bool   `toml:"headless"` // no window, input comes from the in-memory host
}

type LoopConfig struct {
	FixedStep     time.Duration `toml:"fixed_step"`
	MaxFixedSteps int           `toml:"max_fixed_steps"` // per frame, drops the backlog beyond this
	MaxFrames     int           `toml:"max_frames"`      // 0 = run until the window closes
	HeadlessDelta time.Duration `toml:"headless_delta"`
}

type SceneConfig struct {
	Path       string `toml:"path"`
	ScriptsDir string `toml:"scripts_dir"`
	Watch      bool   `toml:"watch"`
}

type HostConfig struct {
	AutoAttach bool `toml:"auto_attach"` // attach Tag(name) and Transform on CreateObject
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads the TOML file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Loop.FixedStep <= 0 {
		return fmt.Errorf("loop.fixed_step must be positive, got %s", c.Loop.FixedStep)
	}
	if c.Loop.MaxFixedSteps <= 0 {
		return fmt.Errorf("loop.max_fixed_steps must be positive, got %d", c.Loop.MaxFixedSteps)
	}
	if c.Loop.MaxFrames < 0 {
		return fmt.Errorf("loop.max_frames must not be negative, got %d", c.Loop.MaxFrames)
	}
	if c.Window.Headless && c.Loop.HeadlessDelta <= 0 {
		return fmt.Errorf("loop.headless_delta must be positive in headless mode")
	}
	return nil
}

// Defaults returns the configuration used when no file overrides a value.
func Defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Title:     "Immortal",
			TargetFPS: 60,
		},
		Loop: LoopConfig{
			FixedStep:     20 * time.Millisecond,
			MaxFixedSteps: 5,
			HeadlessDelta: 16 * time.Millisecond,
		},
		Scene: SceneConfig{
			Path:       "assets/scenes/main.yaml",
			ScriptsDir: "assets/lua",
		},
		Host: HostConfig{
			AutoAttach: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
