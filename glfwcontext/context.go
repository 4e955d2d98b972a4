package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goframeview/inputs"
	options "github.com/richinsley/goframeview/options"
)

// Context owns the viewer window and queues its callbacks as inputs.Event
// values in framebuffer pixels with a bottom-left origin.
type Context struct {
	window *glfw.Window
	events []inputs.Event

	cursorX, cursorY float64 // framebuffer pixels, bottom-left origin
	buttons          [3]bool
}

// New creates and initializes a new GLFW window and returns a Context object.
func New(opts *options.ViewerOptions) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(*opts.Width, *opts.Height, "goframeview", nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{window: win}
	win.MakeContextCurrent()
	if *opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetMouseButtonCallback(c.glfwMouseButtonCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)
	win.SetScrollCallback(c.glfwScrollCallback)
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)
	win.SetCloseCallback(c.glfwCloseCallback)
	return c, nil
}

func (c *Context) push(ev inputs.Event) {
	c.events = append(c.events, ev)
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	k := translateKey(key)
	if k == inputs.KeyUnknown {
		return
	}
	var kind inputs.Kind
	switch action {
	case glfw.Press:
		kind = inputs.KeyPress
	case glfw.Repeat:
		kind = inputs.KeyRepeat
	default:
		kind = inputs.KeyRelease
	}
	c.push(inputs.Event{Kind: kind, Key: k, Mods: translateMods(mods), X: c.cursorX, Y: c.cursorY})
}

func (c *Context) glfwMouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b, ok := translateButton(button)
	if !ok {
		return
	}
	kind := inputs.MouseRelease
	if action == glfw.Press {
		kind = inputs.MousePress
	}
	c.buttons[b] = action == glfw.Press
	c.push(inputs.Event{Kind: kind, Button: b, Mods: translateMods(mods), X: c.cursorX, Y: c.cursorY})
}

func (c *Context) glfwCursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	x, y := c.toFramebuffer(xpos, ypos)
	dx, dy := x-c.cursorX, y-c.cursorY
	c.cursorX, c.cursorY = x, y

	for b, down := range c.buttons {
		if down {
			c.push(inputs.Event{Kind: inputs.MouseDrag, Button: inputs.Button(b), X: x, Y: y, DX: dx, DY: dy})
			return
		}
	}
	c.push(inputs.Event{Kind: inputs.MouseMotion, X: x, Y: y, DX: dx, DY: dy})
}

func (c *Context) glfwScrollCallback(w *glfw.Window, xoff, yoff float64) {
	c.push(inputs.Event{Kind: inputs.Scroll, X: c.cursorX, Y: c.cursorY, DX: xoff, DY: yoff})
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	c.push(inputs.Resized(width, height))
}

func (c *Context) glfwCloseCallback(w *glfw.Window) {
	c.push(inputs.Event{Kind: inputs.CloseRequest})
}

// toFramebuffer converts GLFW screen coordinates (top-left origin) into
// framebuffer pixels with a bottom-left origin.
func (c *Context) toFramebuffer(xpos, ypos float64) (float64, float64) {
	fbWidth, fbHeight := c.GetFramebufferSize()
	winWidth, winHeight := c.window.GetSize()
	var scaleX, scaleY float64 = 1.0, 1.0
	if winWidth > 0 && winHeight > 0 {
		scaleX = float64(fbWidth) / float64(winWidth)
		scaleY = float64(fbHeight) / float64(winHeight)
	}
	return xpos * scaleX, float64(fbHeight) - ypos*scaleY
}

// PollEvents returns the events queued by callbacks since the last call.
func (c *Context) PollEvents() []inputs.Event {
	ev := c.events
	c.events = nil
	return ev
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown now only destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) SetShouldClose(v bool) {
	c.window.SetShouldClose(v)
}

func (c *Context) SetTitle(title string) {
	c.window.SetTitle(title)
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
