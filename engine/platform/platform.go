package platform

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/tessera/engine/containers"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/input"
)

// Number of input events buffered between two PumpMessages calls.
const eventQueueSize = 1024

var (
	initOnce sync.Once
	initErr  error
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Init loads GLFW once for the process. Startup calls it; headless tools that
// only need the Vulkan loader call it directly.
func Init() error {
	initOnce.Do(func() {
		if err := glfw.Init(); err != nil {
			initErr = err
			return
		}
		if !glfw.VulkanSupported() {
			initErr = errors.New("vulkan loader not found")
		}
	})
	return initErr
}

// Terminate releases GLFW.
func Terminate() {
	glfw.Terminate()
}

type Platform struct {
	Window *glfw.Window

	events    *containers.RingQueue[input.Event]
	dropped   int
	cursorX   float32
	cursorY   float32
	onResize  func(width, height uint32)
	startTime float64
}

func New() (*Platform, error) {
	return &Platform{
		events: containers.NewRingQueue[input.Event](eventQueueSize),
	}, nil
}

func (p *Platform) Startup(applicationName string, x uint32, y uint32, width uint32, height uint32) error {
	if err := Init(); err != nil {
		core.LogFatal("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Required for Vulkan.

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogFatal("failed to create window: %s", err)
		return err
	}
	p.Window = window

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetMouseButtonCallback(p.mouseButtonCallback)
	p.Window.SetCursorPosCallback(p.cursorPosCallback)
	p.Window.SetScrollCallback(p.scrollCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	p.startTime = glfw.GetTime()

	return nil
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	Terminate()
	return nil
}

// SetResizeCallback registers fn to be called with the new framebuffer size.
func (p *Platform) SetResizeCallback(fn func(width, height uint32)) {
	p.onResize = fn
}

// PumpMessages polls the OS and hands every buffered input event to consume,
// in arrival order. It returns false once the window has been asked to close.
func (p *Platform) PumpMessages(consume func(input.Event)) bool {
	glfw.PollEvents()

	if p.dropped > 0 {
		core.LogWarn("input queue overflowed, %d events dropped", p.dropped)
		p.dropped = 0
	}
	for !p.events.IsEmpty() {
		ev, err := p.events.Dequeue()
		if err != nil {
			break
		}
		consume(ev)
	}
	return p.Window == nil || !p.Window.ShouldClose()
}

// RequiredInstanceExtensions lists the Vulkan instance extensions GLFW needs
// to present to this window.
func (p *Platform) RequiredInstanceExtensions() []string {
	if p.Window == nil {
		return nil
	}
	return p.Window.GetRequiredInstanceExtensions()
}

// GetAbsoluteTime returns seconds since GLFW was initialized.
func GetAbsoluteTime() float64 {
	return glfw.GetTime()
}

func (p *Platform) Sleep(ms float64) {
	time.Sleep(time.Duration(ms * float64(time.Millisecond)))
}

func (p *Platform) push(ev input.Event) {
	if err := p.events.Enqueue(ev); err != nil {
		p.dropped++
	}
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	code, ok := translateKey(key)
	if !ok {
		return
	}
	switch action {
	case glfw.Press, glfw.Repeat:
		p.push(input.Event{Type: input.EventKeyDown, Key: code})
	case glfw.Release:
		p.push(input.Event{Type: input.EventKeyUp, Key: code})
	}
}

func (p *Platform) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b, ok := translateButton(button)
	if !ok {
		return
	}
	ev := input.Event{Button: b, X: p.cursorX, Y: p.cursorY}
	switch action {
	case glfw.Press:
		ev.Type = input.EventButtonDown
	case glfw.Release:
		ev.Type = input.EventButtonUp
	default:
		return
	}
	p.push(ev)
}

func (p *Platform) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	p.cursorX, p.cursorY = float32(xpos), float32(ypos)
	p.push(input.Event{Type: input.EventMouseMove, X: p.cursorX, Y: p.cursorY})
}

func (p *Platform) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	delta := int32(yoff * float64(input.WheelDelta))
	if delta == 0 {
		return
	}
	p.push(input.Event{Type: input.EventMouseWheel, X: p.cursorX, Y: p.cursorY, WheelDelta: delta})
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	if p.onResize != nil {
		p.onResize(uint32(width), uint32(height))
	}
}
