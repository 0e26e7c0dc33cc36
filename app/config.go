package app

import (
	"errors"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is loaded from an optional orbit.toml next to the binary. A
// missing file yields the defaults; a malformed one is an error.
type Config struct {
	Window struct {
		Width  int    `toml:"width"`
		Height int    `toml:"height"`
		Title  string `toml:"title"`
		Vsync  bool   `toml:"vsync"`
	} `toml:"window"`
	Simulation struct {
		StepSize   float64 `toml:"step_size"`
		Gravity    float64 `toml:"gravity"`
		ViewHeight float64 `toml:"view_height"`
	} `toml:"simulation"`
	SavePath string `toml:"save_path"`
	Debug    bool   `toml:"debug"`
}

func DefaultConfig() Config {
	var cfg Config
	cfg.Window.Width = 1280
	cfg.Window.Height = 720
	cfg.Window.Title = "Orbit"
	cfg.Window.Vsync = true
	cfg.Simulation.StepSize = 1.0 / 512.0
	cfg.Simulation.Gravity = 1.0
	cfg.Simulation.ViewHeight = 10.0
	cfg.SavePath = "world.orbit"
	return cfg
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		cfg.Window.Width = 1280
		cfg.Window.Height = 720
	}
	if cfg.Simulation.StepSize <= 0 {
		cfg.Simulation.StepSize = 1.0 / 512.0
	}
	if cfg.Simulation.ViewHeight <= 0 {
		cfg.Simulation.ViewHeight = 10.0
	}
	return cfg, nil
}
