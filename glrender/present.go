package glrender

import (
	"github.com/go-gl/gl/v4.6-core/gl"
)

// Presenter blits the main render target onto the window's default
// framebuffer and swaps it, matching opengl.rs's present/finish/draw_stored
// trio. It needs the Batcher (to flush before reading back the target) and
// the StateCache (for the interpolate-pixels toggle present's blit filter
// follows) in addition to the framebuffer manager.
type Presenter struct {
	fbmgr *FramebufferManager
	state *StateCache
	batch *Batcher
}

// NewPresenter ties a Presenter to the framebuffer manager, state cache and
// batcher it needs to flush and read from.
func NewPresenter(fbmgr *FramebufferManager, state *StateCache, batch *Batcher) *Presenter {
	return &Presenter{fbmgr: fbmgr, state: state, batch: batch}
}

// fitRect computes the destination rectangle (in window pixels) the main
// render target is blitted into, for each of GM8's three scaling modes.
func fitRect(fbW, fbH, winW, winH int32, mode ScalingMode, fixedScale float64) (x, y, w, h int32) {
	switch mode {
	case ScaleFixed:
		w = int32(float64(fbW) * fixedScale)
		h = int32(float64(fbH) * fixedScale)
		return (winW - w) / 2, (winH - h) / 2, w, h
	case ScaleFull:
		return 0, 0, winW, winH
	default: // ScaleAspect
		if fbW <= 0 || fbH <= 0 {
			return 0, 0, fbW, fbH
		}
		fixedWidth := winH * fbW / fbH
		if fixedWidth < winW {
			return (winW - fixedWidth) / 2, 0, fixedWidth, winH
		}
		fixedHeight := winW * fbH / fbW
		return 0, (winH - fixedHeight) / 2, winW, fixedHeight
	}
}

// Present blits the main render target to the window's framebuffer (letter-
// or pillar-boxed per mode), clearing to black first to avoid a flash of
// stale contents in the boxed-out border, then swaps buffers. A no-op if
// the window has zero area — on Intel drivers a zero-sized blit target
// dereferences a null pointer.
func (p *Presenter) Present(winW, winH int32, mode ScalingMode, fixedScale float64, swapBuffers func()) {
	if winW <= 0 || winH <= 0 {
		return
	}
	p.batch.Flush()
	p.state.Flush()

	fbW, fbH := p.fbmgr.Size()
	x, y, w, h := fitRect(fbW, fbH, winW, winH, mode, fixedScale)

	// On Intel, BlitFramebuffer silently no-ops if the scissor box is too
	// big, so the scissor test is disabled for the duration of the blit.
	gl.Disable(gl.SCISSOR_TEST)
	var oldFBO int32
	gl.GetIntegerv(gl.DRAW_FRAMEBUFFER_BINDING, &oldFBO)

	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, p.fbmgr.Main.FBO)
	filter := uint32(gl.NEAREST)
	if p.state.next.Interpolate != 0 {
		filter = gl.LINEAR
	}
	// Src Y range is flipped (fbH..0) since the render target's +Y-up GL
	// texture space is upside down relative to the window's +Y-down space.
	gl.BlitFramebuffer(0, fbH, fbW, 0, x, y, x+w, y+h, gl.COLOR_BUFFER_BIT, filter)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, uint32(oldFBO))
	gl.Enable(gl.SCISSOR_TEST)

	// GM8 always presents the backbuffer even when drawing was targeting a
	// surface.
	swapBuffers()

	// On Nvidia/AMD, SwapBuffers can leave a spurious GL_INVALID_OPERATION
	// behind when the window is being screen-shared; swallow it here so it
	// doesn't get attributed to the next GL call a caller checks.
	gl.GetError()
}

// DrawStored blits the last stored (pre-resize) framebuffer onto the main
// render target at (x,y), scaled to (w,h). A no-op if nothing has been
// stored, or if w/h is zero.
func (p *Presenter) DrawStored(x, y, w, h int32) {
	if w == 0 || h == 0 || p.fbmgr.Stored == nil {
		return
	}
	p.batch.Flush()

	var oldFBO int32
	gl.GetIntegerv(gl.DRAW_FRAMEBUFFER_BINDING, &oldFBO)

	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, p.fbmgr.Main.FBO)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, p.fbmgr.Stored.FBO)
	srcW, srcH := p.fbmgr.StoredSize()
	gl.BlitFramebuffer(0, 0, srcW, srcH, x, y, x+w, y+h, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, uint32(oldFBO))
}

// ClearView flushes, clears colour and depth, matching clear_view.
func (p *Presenter) ClearView(colour int32, alpha float64) {
	p.batch.Flush()
	c := SplitColourAlpha(colour, alpha)
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ClearViewNoZBuf flushes and clears colour only, matching clear_view_no_zbuf.
func (p *Presenter) ClearViewNoZBuf(colour int32, alpha float64) {
	p.batch.Flush()
	c := SplitColourAlpha(colour, alpha)
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// ClearZBuf flushes and clears depth only, and only if using3D — GM8 never
// had a depth buffer to clear in 2D mode.
func (p *Presenter) ClearZBuf(using3D bool) {
	if !using3D {
		return
	}
	p.batch.Flush()
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

// SetupFrame installs an identity ortho projection over the whole render
// target and clears it — the first thing every frame does, matching
// setup_frame.
func (p *Presenter) SetupFrame(clearColour int32) {
	w, h := p.fbmgr.Size()
	p.state.SetViewport(int(w), int(h))
	p.state.SetProjectionOrtho(0, 0, float64(w), float64(h), 0)
	p.ClearView(clearColour, 1)
}

// Finish presents the frame with fixed 1x scaling, then starts the next
// one, matching finish's present+setup_frame pairing.
func (p *Presenter) Finish(winW, winH int32, clearColour int32, swapBuffers func()) {
	p.Present(winW, winH, ScaleFixed, 1, swapBuffers)
	p.SetupFrame(clearColour)
}
