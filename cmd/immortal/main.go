package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"immortal/internal/config"
	"immortal/internal/engine"
	"immortal/internal/game"
	"immortal/internal/host/memhost"
	"immortal/internal/host/rlhost"
	"immortal/internal/logging"
	_ "immortal/internal/scripts"

	"github.com/pkg/profile"
	"go.uber.org/zap"
)

const defaultConfigPath = "config/immortal.toml"

type options struct {
	configPath string
	headless   bool
	frames     int
	profile    string
}

func main() {
	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	var opts options
	flag.StringVar(&opts.configPath, "config", "", "config file (default $IMMORTAL_CONFIG or "+defaultConfigPath+")")
	flag.BoolVar(&opts.headless, "headless", false, "run without a window")
	flag.IntVar(&opts.frames, "frames", -1, "stop after this many frames (0 = unlimited)")
	flag.StringVar(&opts.profile, "profile", "", "write a cpu or mem profile to the working directory")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// 1. Load config
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.headless {
		cfg.Window.Headless = true
	}
	if opts.frames >= 0 {
		cfg.Loop.MaxFrames = opts.frames
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Init logger
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Profiling
	switch opts.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q, want cpu or mem", opts.profile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, log)

	// 4. Host and clock
	hostOpts := []memhost.Option{}
	if cfg.Host.AutoAttach {
		hostOpts = append(hostOpts, memhost.WithAutoAttach())
	}
	var clock game.Clock
	if cfg.Window.Headless {
		clock = game.HeadlessClock{Delta: cfg.Loop.HeadlessDelta}
	} else {
		window := rlhost.OpenWindow(cfg.Window)
		defer window.Close()
		clock = window
		hostOpts = append(hostOpts, memhost.WithInput(rlhost.Input{}))
	}
	host := memhost.New(hostOpts...)

	// 5. Scene and loop
	g := game.New(cfg, log, host, clock)
	if err := g.Load(ctx); err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	defer g.Close()

	log.Info("running",
		zap.String("scene", cfg.Scene.Path),
		zap.Bool("headless", cfg.Window.Headless),
		zap.Strings("registered_scripts", engine.RegisteredScripts()))

	return g.Run(ctx)
}

// loadConfig reads the -config path, then $IMMORTAL_CONFIG, then the default
// path. A missing default file falls back to the built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv("IMMORTAL_CONFIG")
	}
	if path == "" {
		path = defaultConfigPath
		explicit = false
	}
	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Defaults(), nil
	}
	return cfg, err
}
