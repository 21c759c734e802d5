package window

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/sharpscene/gfx/gfxtest"
	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/render"
	"github.com/mogaika/sharpscene/scene"
)

type fakeHost struct {
	inputs    []Input
	polls     int
	swaps     int
	closed    bool
	closeAt   int
	width     int
	height    int
	callOrder *[]string
}

func (h *fakeHost) ShouldClose() bool {
	return h.closed || (h.closeAt > 0 && h.polls >= h.closeAt)
}

func (h *fakeHost) RequestClose() { h.closed = true }

func (h *fakeHost) PollEvents() Input {
	h.polls++
	if h.callOrder != nil {
		*h.callOrder = append(*h.callOrder, "poll")
	}
	if len(h.inputs) == 0 {
		return Input{}
	}
	in := h.inputs[0]
	h.inputs = h.inputs[1:]
	return in
}

func (h *fakeHost) FramebufferSize() (int, int) { return h.width, h.height }
func (h *fakeHost) WindowSize() (int, int)      { return h.width, h.height }

func (h *fakeHost) SwapBuffers() {
	h.swaps++
	if h.callOrder != nil {
		*h.callOrder = append(*h.callOrder, "swap")
	}
}

func (h *fakeHost) Close() {}

type recordingRenderer struct {
	name  string
	order *[]string
}

func (r *recordingRenderer) Name() string { return r.name }

func (r *recordingRenderer) Render(f *render.Frame) render.Report {
	*r.order = append(*r.order, "render:"+r.name)
	return render.Report{Renderer: r.name}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(100 * time.Millisecond)
	return c.t
}

func newTestWindow(host *fakeHost) (*Window, *gfxtest.Device) {
	dev := gfxtest.New()
	cam := r3d.NewCameraView(mgl32.Vec3{0, 0, 3}, 1)
	w := New(host, dev, cam, scene.New("test"))
	clock := &fakeClock{t: time.Unix(0, 0)}
	w.Now = clock.now
	return w, dev
}

func TestTickOrder(t *testing.T) {
	var order []string
	host := &fakeHost{callOrder: &order}
	w, dev := newTestWindow(host)

	w.AddRenderer(&recordingRenderer{"objects", &order}, &recordingRenderer{"lamps", &order}, &recordingRenderer{"ui", &order})
	w.OnPreRender(func(f *render.Frame) { order = append(order, "pre") })
	w.OnAfterRender(func(f *render.Frame) {
		order = append(order, "after")
		assert.Len(t, f.Reports, 3)
	})

	reports := w.Tick()
	assert.Equal(t, []string{"poll", "pre", "render:objects", "render:lamps", "render:ui", "after", "swap"}, order)
	assert.Len(t, reports, 3)
	assert.Equal(t, 1, dev.Clears)
	assert.Equal(t, uint64(1), w.FrameNumber())
	assert.Equal(t, []string{"objects", "lamps", "ui"}, w.RendererNames())
}

func TestEnableRenderer(t *testing.T) {
	var order []string
	w, _ := newTestWindow(&fakeHost{})
	w.AddRenderer(&recordingRenderer{"objects", &order}, &recordingRenderer{"ui", &order})

	assert.True(t, w.Enable("ui", false))
	assert.False(t, w.Enable("missing", false))
	assert.False(t, w.Enabled("ui"))

	reports := w.Tick()
	assert.Equal(t, []string{"render:objects"}, order)
	require.Len(t, reports, 1)
	assert.Equal(t, "objects", reports[0].Renderer)

	assert.True(t, w.Toggle("ui"))
	assert.True(t, w.Enabled("ui"))
	w.Tick()
	assert.Equal(t, []string{"render:objects", "render:objects", "render:ui"}, order)
	assert.Len(t, w.LastReports(), 2)
}

func TestCameraFollowsInput(t *testing.T) {
	host := &fakeHost{inputs: []Input{
		{},
		{Down: map[Key]bool{KeyW: true}},
		{Scroll: 5},
		{MouseDown: map[MouseButton]bool{MouseRight: true}, MouseX: 100, MouseY: 100, MouseMoved: true},
		{MouseDown: map[MouseButton]bool{MouseRight: true}, MouseX: 110, MouseY: 90, MouseMoved: true},
		{MouseX: 500, MouseY: 500, MouseMoved: true},
	}}
	w, _ := newTestWindow(host)
	cam := w.Camera

	w.Tick()
	assert.Equal(t, mgl32.Vec3{0, 0, 3}, cam.Position)

	w.Tick()
	// 100ms at 2.5 units per second along -Z
	assert.InDelta(t, 2.75, cam.Position.Z(), 1e-4)

	w.Tick()
	assert.Equal(t, float32(r3d.DefaultFov-5), cam.Fov())

	w.Tick()
	assert.Equal(t, float32(r3d.DefaultYaw), cam.Yaw(), "first look sample only records")

	w.Tick()
	assert.InDelta(t, r3d.DefaultYaw+1, cam.Yaw(), 1e-4)
	assert.InDelta(t, 1, cam.Pitch(), 1e-4)

	w.Tick()
	assert.InDelta(t, 1, cam.Pitch(), 1e-4, "no look without the button")
}

func TestResizeUpdatesAspect(t *testing.T) {
	host := &fakeHost{inputs: []Input{{Resized: true, Width: 1600, Height: 800}}}
	w, _ := newTestWindow(host)
	w.Tick()
	assert.Equal(t, float32(2), w.Camera.AspectRatio)
}

func TestEscapeRequestsClose(t *testing.T) {
	host := &fakeHost{inputs: []Input{{Pressed: []Key{KeyEscape}}}}
	w, _ := newTestWindow(host)
	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, 1, host.polls)
	assert.Equal(t, 1, host.swaps)
}

func TestRunUntilClose(t *testing.T) {
	host := &fakeHost{closeAt: 3, width: 800, height: 400}
	w, _ := newTestWindow(host)
	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, 3, host.swaps)
	assert.Equal(t, float32(2), w.Camera.AspectRatio)
}

func TestRunCancelled(t *testing.T) {
	host := &fakeHost{}
	w, _ := newTestWindow(host)
	ctx, cancel := context.WithCancel(context.Background())
	w.OnAfterRender(func(f *render.Frame) {
		if f.Number == 2 {
			cancel()
		}
	})
	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, host.swaps)
}
