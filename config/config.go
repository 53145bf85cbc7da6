// Package config assembles runtime settings from defaults, an optional TOML
// file, environment variables and command-line flags, in increasing
// precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/cellframe/engine"
)

// ErrInvalid is wrapped by all validation failures
var ErrInvalid = errors.New("invalid configuration")

// Environment overrides
const (
	EnvBackend = "CELLFRAME_BACKEND"
	EnvFPS     = "CELLFRAME_FPS"
)

const maxFPS = 1000

// Config holds everything a run needs to pick and set up a backend
type Config struct {
	Backend    string        `toml:"backend"`
	FPS        int           `toml:"fps"`
	Title      string        `toml:"title"`
	HoldWindow time.Duration `toml:"hold_window"`
	Debug      bool          `toml:"debug"`
	LogDir     string        `toml:"log_dir"`
	KeymapPath string        `toml:"keymap"`
	Mouse      bool          `toml:"mouse"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Backend: "tty",
		FPS:     engine.DefaultFrameRate,
		Title:   "cellframe",
		LogDir:  "logs",
		Mouse:   true,
	}
}

// Load parses args (without the program name) and merges all sources.
// The returned config is not validated.
func Load(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("cellframe", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var (
		path    = fs.String("config", "", "TOML configuration file")
		backend = fs.String("backend", cfg.Backend, "display backend ("+strings.Join(engine.Backends(), ", ")+")")
		fps     = fs.Int("fps", cfg.FPS, "target frames per second")
		title   = fs.String("title", cfg.Title, "window title")
		hold    = fs.Duration("hold", cfg.HoldWindow, "terminal key hold window, 0 disables")
		debug   = fs.Bool("debug", cfg.Debug, "write debug log")
		logDir  = fs.String("logdir", cfg.LogDir, "debug log directory")
		keymap  = fs.String("keymap", cfg.KeymapPath, "TOML keymap file")
		mouse   = fs.Bool("mouse", cfg.Mouse, "enable mouse reporting")
	)
	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("config flags: %w", err)
	}

	if *path != "" {
		if _, err := toml.DecodeFile(*path, &cfg); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", *path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backend
		case "fps":
			cfg.FPS = *fps
		case "title":
			cfg.Title = *title
		case "hold":
			cfg.HoldWindow = *hold
		case "debug":
			cfg.Debug = *debug
		case "logdir":
			cfg.LogDir = *logDir
		case "keymap":
			cfg.KeymapPath = *keymap
		case "mouse":
			cfg.Mouse = *mouse
		}
	})
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvBackend); ok && v != "" {
		c.Backend = v
	}
	if v, ok := os.LookupEnv(EnvFPS); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvFPS, v, err)
		}
		c.FPS = n
	}
	return nil
}

// Validate checks ranges and that the backend is registered
func (c Config) Validate() error {
	if !slices.Contains(engine.Backends(), c.Backend) {
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}
	if c.FPS <= 0 || c.FPS > maxFPS {
		return fmt.Errorf("%w: fps %d out of range 1..%d", ErrInvalid, c.FPS, maxFPS)
	}
	if c.HoldWindow < 0 {
		return fmt.Errorf("%w: negative hold window %v", ErrInvalid, c.HoldWindow)
	}
	if c.Debug && c.LogDir == "" {
		return fmt.Errorf("%w: debug logging needs a log directory", ErrInvalid)
	}
	return nil
}

// Options converts the config to adapter options
func (c Config) Options() engine.Options {
	return engine.Options{
		Title:      c.Title,
		FrameRate:  c.FPS,
		HoldWindow: c.HoldWindow,
		Mouse:      c.Mouse,
	}
}
