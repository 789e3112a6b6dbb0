package glrender

import "github.com/go-gl/gl/v4.6-core/gl"

// Backend is the capability set glrender's per-frame draw/flush path is
// built against, per SPEC_FULL.md's design notes: a single interface
// covering every GL call that emits geometry or toggles render state en
// route to a frame, rather than a deeper virtual hierarchy. The default
// (and only production) implementation is glBackend, a thin pass-through
// to the OpenGL 3.3 context already current on the calling thread;
// glrendertest.Recorder is the test-only second implementation, recording
// calls instead of issuing them so coalescing can be observed without a
// live context.
//
// GPU object lifecycle — texture/FBO allocation, atlas packing, vertex and
// uniform buffer creation — stays on the concrete OpenGL calls in
// atlas.go/framebuffer.go/state.go/batch.go: those create long-lived
// objects the draw path only ever references by handle afterward, not
// something the blend-coalescing, tiled-sprite-anchoring or half-pixel
// properties need to intercept.
type Backend interface {
	// DrawArrays issues one non-indexed draw call — the GL call every
	// Batcher flush funnels through, and the one property 7 counts.
	DrawArrays(mode uint32, first, count int32)
	// SetBlendEnabled toggles GL_BLEND.
	SetBlendEnabled(enabled bool)
	// SetBlendFunc sets the active blend function.
	SetBlendFunc(src, dst uint32)
	// SetDepthTest toggles GL_DEPTH_TEST.
	SetDepthTest(enabled bool)
	// SetDepthMask toggles depth-buffer writes.
	SetDepthMask(enabled bool)
	// SetCullFace toggles GL_CULL_FACE.
	SetCullFace(enabled bool)
}

// glBackend is the real OpenGL implementation of Backend.
type glBackend struct{}

func (glBackend) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }
func (glBackend) SetBlendEnabled(enabled bool)                { setGLToggle(gl.BLEND, enabled) }
func (glBackend) SetBlendFunc(src, dst uint32)                { gl.BlendFunc(src, dst) }
func (glBackend) SetDepthTest(enabled bool)                   { setGLToggle(gl.DEPTH_TEST, enabled) }
func (glBackend) SetDepthMask(enabled bool)                   { gl.DepthMask(enabled) }
func (glBackend) SetCullFace(enabled bool)                    { setGLToggle(gl.CULL_FACE, enabled) }
