// Package window runs the frame loop: it polls the host for input, drives
// the camera, and invokes hooks and renderers in a fixed order.
package window

import (
	"context"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/sharpscene/gfx"
	"github.com/mogaika/sharpscene/logx"
	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/render"
	"github.com/mogaika/sharpscene/scene"
)

// Host is the platform window owning the GPU context.
type Host interface {
	ShouldClose() bool
	// RequestClose makes ShouldClose report true.
	RequestClose()
	PollEvents() Input
	FramebufferSize() (width, height int)
	// WindowSize is in the units of cursor positions, which differ from
	// framebuffer pixels on scaled displays.
	WindowSize() (width, height int)
	SwapBuffers()
	Close()
}

// Hook runs on the render thread before or after the passes of a frame.
type Hook func(f *render.Frame)

type rendererEntry struct {
	renderer render.Renderer
	enabled  bool
}

type Window struct {
	Camera     *r3d.CameraView
	Scene      *scene.Scene
	ClearColor mgl32.Vec4
	// MoveSpeed is the camera fly speed in units per second.
	MoveSpeed float32
	// LookButton must be held for mouse motion to turn the camera.
	LookButton MouseButton
	// Now is the frame clock.
	Now func() time.Time

	host Host
	dev  gfx.Device

	renderers   []rendererEntry
	preRender   []Hook
	afterRender []Hook

	input   Input
	frame   uint64
	last    time.Time
	reports []render.Report
}

func New(host Host, dev gfx.Device, camera *r3d.CameraView, s *scene.Scene) *Window {
	return &Window{
		Camera:     camera,
		Scene:      s,
		ClearColor: mgl32.Vec4{0.15, 0.15, 0.2, 1},
		MoveSpeed:  2.5,
		LookButton: MouseRight,
		Now:        time.Now,
		host:       host,
		dev:        dev,
	}
}

func (w *Window) Host() Host          { return w.host }
func (w *Window) Device() gfx.Device  { return w.dev }
func (w *Window) Input() Input        { return w.input }
func (w *Window) FrameNumber() uint64 { return w.frame }
func (w *Window) LastReports() []render.Report {
	return append([]render.Report(nil), w.reports...)
}

// AddRenderer appends enabled renderers; they run in registration order.
func (w *Window) AddRenderer(renderers ...render.Renderer) {
	for _, r := range renderers {
		w.renderers = append(w.renderers, rendererEntry{renderer: r, enabled: true})
	}
}

// Enable toggles the named renderer and reports whether it exists.
func (w *Window) Enable(name string, enabled bool) bool {
	for i := range w.renderers {
		if w.renderers[i].renderer.Name() == name {
			w.renderers[i].enabled = enabled
			return true
		}
	}
	return false
}

// Toggle flips the named renderer.
func (w *Window) Toggle(name string) bool {
	for i := range w.renderers {
		if w.renderers[i].renderer.Name() == name {
			w.renderers[i].enabled = !w.renderers[i].enabled
			return true
		}
	}
	return false
}

func (w *Window) Enabled(name string) bool {
	for _, e := range w.renderers {
		if e.renderer.Name() == name {
			return e.enabled
		}
	}
	return false
}

func (w *Window) RendererNames() []string {
	names := make([]string, len(w.renderers))
	for i, e := range w.renderers {
		names[i] = e.renderer.Name()
	}
	return names
}

func (w *Window) OnPreRender(h Hook)   { w.preRender = append(w.preRender, h) }
func (w *Window) OnAfterRender(h Hook) { w.afterRender = append(w.afterRender, h) }

// Tick runs one frame: poll, update camera, PreRender hooks, clear, enabled
// renderers, AfterRender hooks, swap.
func (w *Window) Tick() []render.Report {
	now := w.Now()
	var delta time.Duration
	if !w.last.IsZero() {
		delta = now.Sub(w.last)
	}
	w.last = now
	w.frame++

	w.input = w.host.PollEvents()
	if w.input.Resized && w.input.Width > 0 && w.input.Height > 0 {
		w.resize(w.input.Width, w.input.Height)
	}
	w.updateCamera(&w.input, delta)

	f := &render.Frame{
		Number: w.frame,
		Delta:  delta,
		Camera: w.Camera,
		Scene:  w.Scene,
		Device: w.dev,
	}
	for _, h := range w.preRender {
		h(f)
	}

	w.dev.Clear(w.ClearColor)
	for _, e := range w.renderers {
		if !e.enabled {
			continue
		}
		f.Reports = append(f.Reports, e.renderer.Render(f))
	}

	for _, h := range w.afterRender {
		h(f)
	}
	w.host.SwapBuffers()

	w.reports = f.Reports
	return f.Reports
}

// Run ticks until the host asks to close or ctx is cancelled.
func (w *Window) Run(ctx context.Context) error {
	width, height := w.host.FramebufferSize()
	w.resize(width, height)
	logx.Logger().Info("frame loop started", "width", width, "height", height)

	for !w.host.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		w.Tick()
	}
	logx.Logger().Info("frame loop stopped", "frames", w.frame)
	return nil
}

func (w *Window) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w.Camera.AspectRatio = float32(width) / float32(height)
	w.dev.Viewport(int32(width), int32(height))
}

var moveKeys = []struct {
	key Key
	dir r3d.Direction
}{
	{KeyW, r3d.Forward},
	{KeyS, r3d.Backward},
	{KeyA, r3d.Left},
	{KeyD, r3d.Right},
	{KeySpace, r3d.Up},
	{KeyLeftShift, r3d.Down},
}

func (w *Window) updateCamera(in *Input, delta time.Duration) {
	if in.WasPressed(KeyEscape) {
		w.host.RequestClose()
	}

	dist := w.MoveSpeed * float32(delta.Seconds())
	for _, mk := range moveKeys {
		if in.IsDown(mk.key) {
			w.Camera.Move(mk.dir, dist)
		}
	}

	if in.IsMouseDown(w.LookButton) {
		if in.MouseMoved {
			w.Camera.UpdateMousePosition(in.MouseX, in.MouseY)
		}
	} else {
		w.Camera.ResetMouse()
	}

	if in.Scroll != 0 {
		w.Camera.Zoom(float32(in.Scroll))
	}
}
