// Package render draws a scene through a camera in ordered passes.
package render

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/mogaika/sharpscene/gfx"
	"github.com/mogaika/sharpscene/logx"
	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/scene"
)

// Frame is the per-tick input shared by all renderers.
type Frame struct {
	Number uint64
	Delta  time.Duration
	Camera *r3d.CameraView
	Scene  *scene.Scene
	Device gfx.Device
	// Reports collects the outcome of every pass run so far this frame.
	Reports []Report
}

// Renderer draws one pass. Render is called once per frame on the thread
// owning the GPU context and is not re-entrant.
type Renderer interface {
	Name() string
	Render(f *Frame) Report
}

// Report is the outcome of one pass. A faulted pass was abandoned part way;
// the next frame runs it again from scratch. Skipped counts visible objects
// whose mesh failed to load.
type Report struct {
	Renderer string
	Tasks    []scene.Task
	Drawn    int
	Culled   int
	Skipped  int
	Err      error
}

func (r Report) Faulted() bool { return r.Err != nil }

func (r Report) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: faulted after %d tasks: %v", r.Renderer, len(r.Tasks), r.Err)
	}
	return fmt.Sprintf("%s: %d tasks, %d drawn, %d culled, %d skipped",
		r.Renderer, len(r.Tasks), r.Drawn, r.Culled, r.Skipped)
}

// recoverPass turns a panic inside a pass into a faulted report.
func recoverPass(rep *Report) {
	if r := recover(); r != nil {
		if err, ok := r.(error); ok {
			rep.Err = errors.Wrap(err, "render panic")
		} else {
			rep.Err = errors.Errorf("render panic: %v", r)
		}
	}
	if rep.Err != nil {
		logx.Logger().Error("render pass faulted", "renderer", rep.Renderer, "err", rep.Err)
	}
}
