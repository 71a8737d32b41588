package testbed

import (
	"errors"
	"path/filepath"

	"github.com/spaghettifunk/tessera/engine"
	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/input"
	"github.com/spaghettifunk/tessera/engine/scene"
	"github.com/spaghettifunk/tessera/engine/systems"
)

// Scene manifest loaded on startup, relative to the asset root.
const sceneManifest = "scenes/testbed.yaml"

type TestGame struct {
	*engine.Game
}

type gameState struct {
	player *scene.GameObject

	textures  []*systems.TextureHandle
	materials []string
	fonts     []string

	width  uint32
	height uint32

	logTimer float64
}

func NewTestGame(app *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: app,
			State: &gameState{
				width:  app.StartWidth,
				height: app.StartHeight,
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize() error {
	core.LogInfo("initializing testbed...")
	state := g.state()

	state.player = scene.NewGameObject("player")
	state.player.AddBehaviour(&PlayerController{Speed: 2})
	g.Scene.Add(state.player)

	if g.Assets == nil || g.SystemManager == nil {
		return nil
	}
	path, err := g.Assets.Resolve(sceneManifest)
	if err != nil {
		core.LogWarn("no scene manifest found at '%s', starting empty", sceneManifest)
		return nil
	}
	return g.loadScene(path)
}

// loadScene warms the texture cache with the manifest textures, then acquires
// its materials and fonts. Missing or broken assets are logged and skipped.
func (g *TestGame) loadScene(path string) error {
	state := g.state()
	manifest, err := assets.LoadManifest(path)
	if err != nil {
		core.LogError("failed to load scene manifest '%s': %s", path, err)
		return err
	}
	core.LogInfo("loading scene '%s' (%d assets)", manifest.Scene, manifest.Count())

	sm := g.SystemManager
	textures, err := g.Assets.ResolveAll(manifest.Textures)
	if err != nil {
		core.LogWarn(err.Error())
	}
	err = sm.TextureSystem.Preload(textures, g.Device, sm.JobSystem, func(path string, err error) {
		if err != nil {
			core.LogWarn("texture '%s' not loaded: %s", path, err)
		}
	})
	if err != nil {
		core.LogWarn("scene '%s' loaded with missing textures", manifest.Scene)
	}
	for _, path := range textures {
		if !sm.TextureSystem.Contains(path) {
			continue
		}
		handle, err := sm.TextureSystem.Acquire(path, g.Device)
		if err != nil {
			continue
		}
		state.textures = append(state.textures, handle)
	}

	materials, err := g.Assets.ResolveAll(manifest.Materials)
	if err != nil {
		core.LogWarn(err.Error())
	}
	for _, path := range materials {
		m, err := sm.MaterialSystem.Acquire(path)
		if err != nil {
			continue
		}
		core.LogDebug("material '%s' ready", m.Name)
		state.materials = append(state.materials, path)
	}

	fonts, err := g.Assets.ResolveAll(manifest.Fonts)
	if err != nil {
		core.LogWarn(err.Error())
	}
	for _, path := range fonts {
		f, err := sm.FontSystem.Acquire(path)
		if err != nil {
			continue
		}
		core.LogDebug("font '%s' %dpx ready, %d page(s)", f.Face, f.Size, len(f.Pages))
		state.fonts = append(state.fonts, path)
	}

	core.LogInfo("scene '%s' ready: %d textures, %d materials, %d fonts",
		manifest.Scene, len(state.textures), len(state.materials), len(state.fonts))
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	if g.Input.Keyboard().IsPressed(input.KeyR) {
		state.player.Transform = scene.NewTransform()
	}

	state.logTimer += deltaTime
	if state.logTimer >= 1 {
		state.logTimer = 0
		p := state.player.Transform.Position
		core.LogDebug("player position: [%.2f, %.2f, %.2f]", p.X, p.Y, p.Z)
	}
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.state()
	sm := g.SystemManager
	if sm == nil {
		return nil
	}

	var errs []error
	for _, path := range state.fonts {
		errs = append(errs, sm.FontSystem.Release(path))
	}
	for _, path := range state.materials {
		errs = append(errs, sm.MaterialSystem.Release(path))
	}
	for _, handle := range state.textures {
		errs = append(errs, handle.Release())
	}
	state.textures, state.materials, state.fonts = nil, nil, nil
	return errors.Join(errs...)
}

// TextureNames lists the file names of the textures the scene holds, for logs and tests.
func (g *TestGame) TextureNames() []string {
	names := []string{}
	for _, h := range g.state().textures {
		names = append(names, filepath.Base(h.Path()))
	}
	return names
}
