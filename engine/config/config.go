package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/input"
)

type Config struct {
	Application ApplicationSection `toml:"application"`
	Assets      AssetsSection      `toml:"assets"`
	Textures    TexturesSection    `toml:"textures"`
	Input       InputSection       `toml:"input"`
}

type ApplicationSection struct {
	Name        string `toml:"name"`
	StartPosX   uint32 `toml:"start_pos_x"`
	StartPosY   uint32 `toml:"start_pos_y"`
	StartWidth  uint32 `toml:"start_width"`
	StartHeight uint32 `toml:"start_height"`
	LogLevel    string `toml:"log_level"`
}

type AssetsSection struct {
	// Asset root, relative paths are taken from the working directory.
	Root  string `toml:"root"`
	Watch bool   `toml:"watch"`
	FlipY bool   `toml:"flip_y"`
}

type TexturesSection struct {
	MaxTextureCount uint32 `toml:"max_texture_count"`
}

type InputSection struct {
	Axes AxesSection `toml:"axes"`
}

type AxesSection struct {
	Horizontal AxisSection `toml:"horizontal"`
	Vertical   AxisSection `toml:"vertical"`
}

// AxisSection lists key names, as accepted by input.KeyFromName.
type AxisSection struct {
	Positive []string `toml:"positive"`
	Negative []string `toml:"negative"`
}

func Default() *Config {
	return &Config{
		Application: ApplicationSection{
			Name:        "Tessera",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			LogLevel:    "info",
		},
		Assets: AssetsSection{
			Root:  "assets",
			Watch: true,
		},
		Textures: TexturesSection{
			MaxTextureCount: 4096,
		},
		Input: InputSection{
			Axes: AxesSection{
				Horizontal: AxisSection{
					Positive: []string{"D", "RIGHT"},
					Negative: []string{"A", "LEFT"},
				},
				Vertical: AxisSection{
					Positive: []string{"W", "UP"},
					Negative: []string{"S", "DOWN"},
				},
			},
		},
	}
}

// Load reads the TOML file at path on top of Default. Keys missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config '%s': %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("invalid config at line %d, column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Application.StartWidth == 0 || c.Application.StartHeight == 0 {
		return fmt.Errorf("application start size must be non-zero, got %dx%d", c.Application.StartWidth, c.Application.StartHeight)
	}
	if _, err := core.ParseLogLevel(c.Application.LogLevel); err != nil {
		return err
	}
	if c.Assets.Root == "" {
		return fmt.Errorf("assets root must be set")
	}
	_, err := c.AxisBindings()
	return err
}

func (c *Config) LogLevel() core.LogLevel {
	level, err := core.ParseLogLevel(c.Application.LogLevel)
	if err != nil {
		return core.InfoLevel
	}
	return level
}

// AxisBindings resolves the configured key names.
func (c *Config) AxisBindings() (map[input.Axis]input.AxisBinding, error) {
	axes := map[input.Axis]AxisSection{
		input.AxisHorizontal: c.Input.Axes.Horizontal,
		input.AxisVertical:   c.Input.Axes.Vertical,
	}
	out := make(map[input.Axis]input.AxisBinding, len(axes))
	for axis, section := range axes {
		positive, err := keys(section.Positive)
		if err != nil {
			return nil, fmt.Errorf("input.axes.%s.positive: %w", axis, err)
		}
		negative, err := keys(section.Negative)
		if err != nil {
			return nil, fmt.Errorf("input.axes.%s.negative: %w", axis, err)
		}
		out[axis] = input.AxisBinding{Positive: positive, Negative: negative}
	}
	return out, nil
}

func keys(names []string) ([]input.KeyCode, error) {
	out := make([]input.KeyCode, 0, len(names))
	for _, name := range names {
		k, err := input.KeyFromName(name)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}
