package glrender

import (
	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/gm8run/glrender/v4.6-core/glgl"
)

// uboBindingPoint is the single binding point the RenderState uniform block
// is bound to, on both the GL side (gl.UniformBlockBinding) and the buffer
// side (uniformBlock.base) — there is exactly one uniform block in this
// renderer's whole pipeline, so one fixed binding point is all either shader
// stage ever needs.
const uboBindingPoint = 0

// Renderer is the runtime rendering core described in spec.md: it owns the
// GL program, the one VAO GL 3.3's core profile requires, and every
// component from C3 through C11, wired together the way opengl.rs's
// OpenGLRenderer struct wires its own fields. Construction assumes an OpenGL
// 3.3+ context is already current on the calling thread — context creation
// and windowing are out of scope per spec §1 (see package window for the
// demo bring-up path).
type Renderer struct {
	cfg Config

	program glgl.Program
	vao     uint32

	Atlases   *AtlasRegistry
	State     *StateCache
	Batch     *Batcher
	Draw      *Drawer
	Framebuf  *FramebufferManager
	Presenter *Presenter

	maxTextureSize int32
}

// New brings up the GL program and every renderer component, in dependency
// order: program, VAO and attribute wiring first (nothing can draw without
// them), then the atlas registry (needs maxTextureSize), then the state
// cache (needs the uniform block's binding point), then the batcher,
// drawer, framebuffer manager and presenter, each built on the previous.
// vendor is the GL_VENDOR string, used only to detect the Intel
// MAX_TEXTURE_SIZE quirk (see MaxTextureSize).
func New(cfg Config, vendor string) (*Renderer, error) {
	program, err := compileProgram()
	if err != nil {
		return nil, err
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	blockIndex := gl.GetUniformBlockIndex(program.ID(), gl.Str("RenderState\x00"))
	if blockIndex != gl.INVALID_INDEX {
		gl.UniformBlockBinding(program.ID(), blockIndex, uboBindingPoint)
	}
	program.Bind()
	if loc, err := program.UniformLocation("uTexture\x00"); err == nil {
		program.SetUniformi(loc, 0)
	}

	gl.ProvokingVertex(gl.FIRST_VERTEX_CONVENTION)

	maxTex := MaxTextureSize(vendor)

	r := &Renderer{
		cfg:            cfg,
		program:        program,
		vao:            vao,
		maxTextureSize: maxTex,
	}
	r.Atlases = NewAtlasRegistry(&cfg, maxTex)
	r.State = NewStateCache(uboBindingPoint, glBackend{})
	r.Batch = NewBatcher(r.Atlases, r.State, glBackend{})
	r.Draw = NewDrawer(r.Atlases, r.State, r.Batch)

	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	r.Framebuf = NewFramebufferManager(int32(w), int32(h), cfg.ZBuf24)
	r.Presenter = NewPresenter(r.Framebuf, r.State, r.Batch)

	r.State.next.GM81Normalize = b2i32(cfg.NormalizeNormals)
	r.State.next.Interpolate = b2i32(cfg.InterpolatePixels)
	r.State.dirty = true

	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, r.Framebuf.Main.FBO)
	gl.Viewport(0, 0, int32(w), int32(h))
	gl.Scissor(0, 0, int32(w), int32(h))
	gl.Enable(gl.SCISSOR_TEST)
	r.State.SetViewport(w, h)
	r.State.SetProjectionOrtho(0, 0, float64(w), float64(h), 0)

	EnableDebugOutput(cfg.Log)

	return r, nil
}

// PushAtlases packs the build's stock sprite set, forwarding to the atlas
// registry; pageSize is clamped to the driver's (possibly Intel-adjusted)
// reported maximum. May be called exactly once.
func (r *Renderer) PushAtlases(sprites []SpriteImage, pageSize int32) ([]AtlasRef, error) {
	return r.Atlases.PushAtlases(sprites, pageSize)
}

// SetTarget, ResetTarget and CopySurface are Renderer methods over the
// package-level free functions in surface.go, supplying this Renderer's own
// component set so callers never have to thread four arguments through by
// hand.
func (r *Renderer) SetTarget(ref AtlasRef)                                  { SetTarget(r.Atlases, r.State, r.Batch, ref) }
func (r *Renderer) ResetTarget()                                           { ResetTarget(r.Framebuf, r.State, r.Batch) }
func (r *Renderer) CopySurface(dest AtlasRef, dx, dy int32, src AtlasRef, sx, sy, w, h int32) {
	CopySurface(r.Atlases, dest, dx, dy, src, sx, sy, w, h)
}
func (r *Renderer) DumpSprite(ref AtlasRef) []byte     { return DumpSprite(r.Atlases, ref) }
func (r *Renderer) DumpSpritePart(ref AtlasRef, x, y, w, h int32) []byte {
	return DumpSpritePart(r.Atlases, ref, x, y, w, h)
}

// FlushQueue forces the vertex batcher to draw whatever is currently queued,
// matching the reference engine's explicit flush_queue entry point.
func (r *Renderer) FlushQueue() { r.Batch.Flush() }

// Resize reallocates the main render target, matching resize_framebuffer.
func (r *Renderer) Resize(w, h int32, store bool) {
	r.Batch.Flush()
	r.Framebuf.Resize(w, h, store)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, r.Framebuf.Main.FBO)
	gl.Viewport(0, 0, w, h)
	gl.Scissor(0, 0, w, h)
	r.State.SetViewport(int(w), int(h))
	r.State.SetProjectionOrtho(0, 0, float64(w), float64(h), 0)
}

// Present finalizes the frame onto the window's default framebuffer, matching
// C10's present/finish pairing. swapBuffers performs the platform-specific
// buffer swap (e.g. (*glfw.Window).SwapBuffers) after the blit.
func (r *Renderer) Present(winW, winH int32, swapBuffers func()) {
	r.Presenter.Present(winW, winH, r.cfg.Scaling, r.cfg.FixedScale, swapBuffers)
}

// Finish presents at fixed 1x scale and immediately sets up the next frame,
// matching opengl.rs's finish.
func (r *Renderer) Finish(winW, winH int32, clearColour int32, swapBuffers func()) {
	r.Presenter.Finish(winW, winH, clearColour, swapBuffers)
}

// Delete releases every GL object the renderer owns: the program, the VAO,
// the atlas registry's textures/FBOs, the state cache's uniform buffer and
// the framebuffer manager's render targets.
func (r *Renderer) Delete() {
	r.Batch.Flush()
	r.Atlases.Delete()
	r.State.Delete()
	r.Framebuf.Delete()
	gl.DeleteVertexArrays(1, &r.vao)
	r.program.Delete()
}
