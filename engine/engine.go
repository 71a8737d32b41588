package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/input"
	"github.com/spaghettifunk/tessera/engine/platform"
	"github.com/spaghettifunk/tessera/engine/renderer/vulkan"
	"github.com/spaghettifunk/tessera/engine/scene"
	"github.com/spaghettifunk/tessera/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released every subsystem
	EngineStageShutdown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     atomic.Bool
	isSuspended   bool
	bus           *core.EventBus
	input         *input.InputSystem
	platform      *platform.Platform
	device        *vulkan.Context
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64

	// Feeds raw input into consume and reports whether the window is still open.
	pump func(consume func(input.Event)) bool
	// Absolute time in seconds, used to measure frames.
	now func() float64
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		err := errors.New("game and its application config are required")
		core.LogError(err.Error())
		return nil, err
	}

	p, err := platform.New()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	bus := core.NewEventBus()
	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		bus:          bus,
		input:        input.NewInputSystem(bus),
		platform:     p,
		assetManager: am,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		pump:         p.PumpMessages,
		now:          platform.GetAbsoluteTime,
	}
	return e, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine already initialized")
	}
	e.currentStage = EngineStageInitializing

	cfg := e.gameInstance.ApplicationConfig
	core.SetLogLevel(cfg.LogLevel)

	e.registerHandlers()

	if err := e.input.Initialize(); err != nil {
		return err
	}
	for axis, binding := range cfg.AxisBindings {
		e.input.Keyboard().SetAxisBinding(axis, binding)
	}

	if err := e.platform.Startup(cfg.Name, cfg.StartPosX, cfg.StartPosY, cfg.StartWidth, cfg.StartHeight); err != nil {
		return err
	}
	e.platform.SetResizeCallback(e.fireResize)

	device, err := vulkan.NewContext(vulkan.ContextConfig{
		ApplicationName: cfg.Name,
		Extensions:      e.platform.RequiredInstanceExtensions(),
		Debug:           cfg.Debug,
	})
	if err != nil {
		core.LogError("failed to create the vulkan context: %s", err)
		return err
	}
	e.device = device

	if err := e.assetManager.Initialize(cfg.AssetsRoot, cfg.WatchAssets); err != nil {
		return err
	}

	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		MaxTextureCount: cfg.MaxTextureCount,
		FlipY:           cfg.FlipY,
		JobWorkers:      cfg.JobWorkers,
	}, e.assetManager, e.device)
	if err != nil {
		return err
	}
	if err := sm.Initialize(); err != nil {
		return err
	}
	e.systemManager = sm

	return e.initializeGame()
}

func (e *Engine) registerHandlers() {
	e.bus.Register(core.EventCodeApplicationQuit, e, e.onEvent)
	e.bus.Register(core.EventCodeKeyPressed, e, e.onKey)
	e.bus.Register(core.EventCodeKeyReleased, e, e.onKey)
	e.bus.Register(core.EventCodeResized, e, e.onResized)
}

func (e *Engine) initializeGame() error {
	g := e.gameInstance
	g.Assets = e.assetManager
	g.SystemManager = e.systemManager
	g.Input = e.input
	if e.device != nil {
		g.Device = e.device
	}
	if g.Scene == nil {
		g.Scene = scene.New(g.ApplicationConfig.Name)
	}

	if g.FnInitialize != nil {
		if err := g.FnInitialize(); err != nil {
			core.LogError("Game failed to initialize: %s", err)
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before running")
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		if err := e.frame(delta); err != nil {
			e.isRunning.Store(false)
			return err
		}
		e.lastTime = currentTime
	}
	return nil
}

// frame runs one iteration of the loop: input is pumped first, the game and
// scene see it, and the per-frame input flags are cleared last.
func (e *Engine) frame(delta float64) error {
	if !e.pump(e.input.Process) {
		e.isRunning.Store(false)
	}
	defer e.input.EndFrame()

	if e.isSuspended {
		return nil
	}

	frameStartTime := e.now()

	g := e.gameInstance
	if g.FnUpdate != nil {
		if err := g.FnUpdate(delta); err != nil {
			core.LogError("Game update failed, shutting down: %s", err)
			return err
		}
	}
	if g.Scene != nil {
		if err := g.Scene.Update(e.input, delta); err != nil {
			core.LogError("Scene update failed, shutting down: %s", err)
			return err
		}
	}

	e.metrics.Update(e.now() - frameStartTime)
	return nil
}

// Quit asks the loop to stop after the current frame. Safe to call from any goroutine.
func (e *Engine) Quit() {
	e.isRunning.Store(false)
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning.Store(false)

	var errs []error
	if g := e.gameInstance; g.FnShutdown != nil {
		if err := g.FnShutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.device != nil {
		e.device.Destroy()
		e.device = nil
	}
	if err := e.assetManager.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.input.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	if err := e.bus.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	if err := e.platform.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	e.currentStage = EngineStageShutdown
	return errors.Join(errs...)
}

func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) fireResize(width, height uint32) {
	e.bus.Fire(core.EventContext{
		Type:   core.EventCodeResized,
		Sender: e.platform,
		Data: &core.SystemEvent{
			WindowWidth:  width,
			WindowHeight: height,
		},
	})
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EventCodeApplicationQuit:
		core.LogInfo("EventCodeApplicationQuit received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	key := input.KeyCode(ke.KeyCode)
	if context.Type == core.EventCodeKeyPressed {
		if key == input.KeyEscape {
			e.bus.Fire(core.EventContext{
				Type:   core.EventCodeApplicationQuit,
				Sender: e,
			})
			return true
		}
		core.LogDebug("'%s' key pressed in window.", key)
	} else if context.Type == core.EventCodeKeyReleased {
		core.LogDebug("'%s' key released in window.", key)
	}
	// Let other listeners see key events.
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	if context.Type != core.EventCodeResized {
		return false
	}
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := se.WindowWidth
	height := se.WindowHeight
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	return false
}
