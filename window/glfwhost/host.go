// Package glfwhost implements window.Host on top of GLFW with an OpenGL 4.3
// core context. Create the host on the main OS thread and keep every call
// on it.
package glfwhost

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/mogaika/sharpscene/logx"
	"github.com/mogaika/sharpscene/window"
)

type Options struct {
	Width  int
	Height int
	Title  string
	VSync  bool
}

var keyMap = map[glfw.Key]window.Key{
	glfw.KeyW:         window.KeyW,
	glfw.KeyA:         window.KeyA,
	glfw.KeyS:         window.KeyS,
	glfw.KeyD:         window.KeyD,
	glfw.KeyQ:         window.KeyQ,
	glfw.KeyE:         window.KeyE,
	glfw.KeySpace:     window.KeySpace,
	glfw.KeyLeftShift: window.KeyLeftShift,
	glfw.KeyEscape:    window.KeyEscape,
	glfw.KeyTab:       window.KeyTab,
	glfw.KeyDelete:    window.KeyDelete,
	glfw.KeyN:         window.KeyN,
	glfw.KeyP:         window.KeyP,
	glfw.KeyB:         window.KeyB,
	glfw.KeyF1:        window.KeyF1,
	glfw.KeyF2:        window.KeyF2,
	glfw.KeyF5:        window.KeyF5,
	glfw.KeyF6:        window.KeyF6,
	glfw.KeyF7:        window.KeyF7,
}

var buttonMap = map[glfw.MouseButton]window.MouseButton{
	glfw.MouseButtonLeft:   window.MouseLeft,
	glfw.MouseButtonRight:  window.MouseRight,
	glfw.MouseButtonMiddle: window.MouseMiddle,
}

type Host struct {
	win *glfw.Window

	// accumulated by callbacks between polls
	pending   window.Input
	down      map[window.Key]bool
	mouseDown map[window.MouseButton]bool
}

func New(opts Options) (*Host, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "Failed to init glfw")
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "Failed to create window")
	}
	win.MakeContextCurrent()
	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	h := &Host{
		win:       win,
		down:      make(map[window.Key]bool),
		mouseDown: make(map[window.MouseButton]bool),
	}
	win.SetKeyCallback(h.keyChange)
	win.SetMouseButtonCallback(h.mouseButtonChange)
	win.SetCursorPosCallback(h.mouseMove)
	win.SetScrollCallback(h.mouseScroll)
	win.SetFramebufferSizeCallback(h.framebufferResize)

	logx.Logger().Info("window created", "width", opts.Width, "height", opts.Height, "title", opts.Title)
	return h, nil
}

func (h *Host) keyChange(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	k, ok := keyMap[key]
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		h.down[k] = true
		h.pending.Pressed = append(h.pending.Pressed, k)
	case glfw.Release:
		delete(h.down, k)
	}
}

func (h *Host) mouseButtonChange(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	b, ok := buttonMap[button]
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		h.mouseDown[b] = true
		x, y := w.GetCursorPos()
		h.pending.Clicks = append(h.pending.Clicks, window.Click{Button: b, X: x, Y: y})
	case glfw.Release:
		delete(h.mouseDown, b)
	}
}

func (h *Host) mouseMove(_ *glfw.Window, x, y float64) {
	h.pending.MouseX, h.pending.MouseY = x, y
	h.pending.MouseMoved = true
}

func (h *Host) mouseScroll(_ *glfw.Window, _, yoff float64) {
	h.pending.Scroll += yoff
}

func (h *Host) framebufferResize(_ *glfw.Window, width, height int) {
	h.pending.Resized = true
	h.pending.Width, h.pending.Height = width, height
}

// PollEvents processes pending GLFW events and returns what they changed.
func (h *Host) PollEvents() window.Input {
	h.pending.Pressed = nil
	h.pending.Clicks = nil
	h.pending.Scroll = 0
	h.pending.Resized = false
	h.pending.MouseMoved = false

	glfw.PollEvents()

	in := h.pending
	in.Down = make(map[window.Key]bool, len(h.down))
	for k := range h.down {
		in.Down[k] = true
	}
	in.MouseDown = make(map[window.MouseButton]bool, len(h.mouseDown))
	for b := range h.mouseDown {
		in.MouseDown[b] = true
	}
	if !in.Resized {
		in.Width, in.Height = h.win.GetFramebufferSize()
	}
	return in
}

func (h *Host) ShouldClose() bool { return h.win.ShouldClose() }

func (h *Host) RequestClose() { h.win.SetShouldClose(true) }

func (h *Host) FramebufferSize() (int, int) { return h.win.GetFramebufferSize() }

func (h *Host) WindowSize() (int, int) { return h.win.GetSize() }

func (h *Host) SwapBuffers() { h.win.SwapBuffers() }

func (h *Host) Close() {
	h.win.Destroy()
	glfw.Terminate()
}

var _ window.Host = (*Host)(nil)
