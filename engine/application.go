package engine

import (
	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/input"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name     string
	LogLevel core.LogLevel
	// Enables the Vulkan validation layer.
	Debug bool

	AssetsRoot      string
	WatchAssets     bool
	FlipY           bool
	MaxTextureCount uint32
	// Worker goroutines used to decode textures, 0 means one per CPU.
	JobWorkers   int
	AxisBindings map[input.Axis]input.AxisBinding
}

// NewApplicationConfig builds the application config from a loaded engine.toml.
func NewApplicationConfig(cfg *config.Config) (*ApplicationConfig, error) {
	bindings, err := cfg.AxisBindings()
	if err != nil {
		return nil, err
	}
	return &ApplicationConfig{
		StartPosX:       cfg.Application.StartPosX,
		StartPosY:       cfg.Application.StartPosY,
		StartWidth:      cfg.Application.StartWidth,
		StartHeight:     cfg.Application.StartHeight,
		Name:            cfg.Application.Name,
		LogLevel:        cfg.LogLevel(),
		Debug:           cfg.LogLevel() == core.DebugLevel,
		AssetsRoot:      cfg.Assets.Root,
		WatchAssets:     cfg.Assets.Watch,
		FlipY:           cfg.Assets.FlipY,
		MaxTextureCount: cfg.Textures.MaxTextureCount,
		AxisBindings:    bindings,
	}, nil
}
