// Package window brings up the host window and OpenGL 3.3 core-profile
// context the renderer draws into. This is ambient infrastructure, not part
// of the renderer's own spec surface: spec.md §1 lists windowing as an
// external collaborator the core only ever consumes a handle and surface
// dimensions from. Grounded on v4.6-core/glgl's glfw33.go
// (InitWithCurrentWindow33) and the teacher's examples/hellotriangle main.go
// bring-up sequence.
package window

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gm8run/glrender/v4.6-core/glgl"
)

func init() {
	// GLFW event handling must run on the main OS thread.
	runtime.LockOSThread()
}

// Config collects the handful of knobs window bring-up needs, separate from
// glrender.Config: this package only ever creates the GL context and surface
// the renderer draws into, it does not know about scaling modes or fog.
type Config struct {
	Title         string
	Width, Height int
	Resizable     bool
	VSync         bool
}

// Window wraps the live GLFW window and context, plus the function that
// tears both down.
type Window struct {
	win       *glgl.Window
	terminate func()
}

// Open creates the window and makes its GL 3.3 core context current on the
// calling thread (which must be the OS thread locked by this package's
// init). Returns the window and a context-validity error if GL 3.3 isn't
// available.
func Open(cfg Config) (*Window, error) {
	win, terminate, err := glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:         cfg.Title,
		Width:         cfg.Width,
		Height:        cfg.Height,
		NotResizable:  !cfg.Resizable,
		Version:       [2]int{3, 3},
		OpenGLProfile: glgl.ProfileCore,
		ForwardCompat: true,
	})
	if err != nil {
		return nil, err
	}
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return &Window{win: win, terminate: terminate}, nil
}

// Close tears down the GL context and window.
func (w *Window) Close() { w.terminate() }

// ShouldClose reports whether the user requested the window be closed (e.g.
// clicked the close button or hit the bound close key).
func (w *Window) ShouldClose() bool { return w.win.ShouldClose() }

// PollEvents pumps the OS event queue; must be called once per frame from
// the same thread the window was opened on.
func (w *Window) PollEvents() { glfw.PollEvents() }

// SwapBuffers presents the window's back buffer, passed to
// glrender.Renderer.Present as its swapBuffers callback.
func (w *Window) SwapBuffers() { w.win.SwapBuffers() }

// Size returns the window's current framebuffer size in pixels, used to
// drive Renderer.Present's destination rectangle.
func (w *Window) Size() (int, int) { return w.win.GetFramebufferSize() }

// Vendor returns the GL_VENDOR string, used by glrender.MaxTextureSize to
// detect the Intel MAX_TEXTURE_SIZE quirk.
func (w *Window) Vendor() string { return glgl.Vendor() }

// GLFW exposes the underlying *glfw.Window for callers that need direct
// access (input callbacks, cursor mode, monitor queries) beyond what this
// package wraps.
func (w *Window) GLFW() *glfw.Window { return w.win.Window }
