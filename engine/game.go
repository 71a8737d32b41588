package engine

import (
	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/input"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/scene"
	"github.com/spaghettifunk/tessera/engine/systems"
)

// Game holds the hooks the engine calls. Assets, SystemManager, Device, Input
// and Scene are set by the engine before FnInitialize runs.
type Game struct {
	ApplicationConfig *ApplicationConfig
	Assets            *assets.AssetManager
	SystemManager     *systems.SystemManager
	Device            renderer.Device
	Input             *input.InputSystem
	Scene             *scene.Scene
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
