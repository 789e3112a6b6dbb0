package glrender

import (
	"runtime"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/gm8run/glrender/math/ms3"
)

// renderStateBlock is the uniform-buffer-backed record every getter reads
// from and every setter writes to. Its layout must match the GLSL
// `RenderState` block exactly up to EndOfUniform; fields after that
// sentinel are host-side bookkeeping never uploaded.
type renderStateBlock struct {
	Model, View, Proj, ViewProj [16]float32
	Lights                      [8]lightBlock
	AmbientColour               [4]float32
	Lighting, Gouraud, Repeat   int32
	Interpolate, DepthTest      int32
	WriteDepth, Culling         int32
	AlphaBlend                  int32
	BlendSrc, BlendDst          int32
	FogEnabled                  int32
	_                           int32 // std140 aligns fogColour to 16 bytes
	FogColour                  [4]float32
	FogBegin, FogEnd            float32
	GM81Normalize               int32
	EndOfUniform                int32
}

type lightBlock struct {
	Position, Dir [4]float32
	Colour        [4]float32
	Enabled       int32
	Point         int32
	Range         float32
	_pad          int32
}

// uniformBlock is a UBO wrapper mirroring glgl's ShaderStorageBuffer idiom
// (pinned id, GenBuffers/BufferData, BindBufferBase) but targeting
// GL_UNIFORM_BUFFER instead of GL_SHADER_STORAGE_BUFFER — there is no
// off-the-shelf UBO type in the teacher's package, so this is the same
// pattern generalized to the binding point the RenderState block needs.
type uniformBlock struct {
	id   uint32
	base uint32
	size int
}

func newUniformBlock(base uint32, data *renderStateBlock) uniformBlock {
	var ub uniformBlock
	var p runtime.Pinner
	p.Pin(&ub.id)
	gl.GenBuffers(1, &ub.id)
	p.Unpin()
	ub.base = base
	ub.size = int(unsafe.Sizeof(*data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, ub.id)
	gl.BufferData(gl.UNIFORM_BUFFER, ub.size, unsafe.Pointer(data), gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, ub.base, ub.id)
	return ub
}

func (ub uniformBlock) upload(data *renderStateBlock) {
	gl.BindBuffer(gl.UNIFORM_BUFFER, ub.id)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, ub.size, unsafe.Pointer(data))
}

func (ub uniformBlock) delete() {
	var p runtime.Pinner
	p.Pin(&ub.id)
	gl.DeleteBuffers(1, &ub.id)
	p.Unpin()
}

// StateCache holds the "next" (caller-set) and "queued" (GPU-believed)
// render state records plus a dirty bit, following the spec's queue/state
// coupling: any mutation to next raises dirty; Flush, when dirty, issues
// the GL toggle, blend function and depth mask calls for the fields that
// differ from queued and re-uploads the whole uniform block.
type StateCache struct {
	next, queued renderStateBlock
	dirty        bool
	ubo          uniformBlock
	backend      Backend

	viewportW, viewportH int
}

// NewStateCache allocates the uniform buffer at the given binding point and
// seeds next/queued with identity matrices and GM8's default toggles.
// Passing a nil backend defaults to the real OpenGL implementation;
// glrendertest.Recorder is the only other implementation in this module.
func NewStateCache(uboBase uint32, backend Backend) *StateCache {
	if backend == nil {
		backend = glBackend{}
	}
	sc := &StateCache{backend: backend}
	identity := ms3.IdentityMat4()
	var flat [16]float32
	identity.Put(flat[:])
	sc.next.Model, sc.next.View, sc.next.Proj, sc.next.ViewProj = flat, flat, flat, flat
	sc.next.DepthTest, sc.next.WriteDepth = 1, 1
	sc.next.Interpolate = 0
	sc.queued = sc.next
	// The UBO is a real GL object with no bearing on the toggle/blendfunc
	// coalescing glrendertest.Recorder exists to observe, so a recorder
	// backend gets a StateCache with no live buffer at all, matching
	// drawBuffer's own real-backend gate in batch.go.
	if _, real := backend.(glBackend); real {
		sc.ubo = newUniformBlock(uboBase, &sc.next)
	}
	return sc
}

// Delete releases the uniform buffer, if one was allocated.
func (sc *StateCache) Delete() {
	if _, real := sc.backend.(glBackend); real {
		sc.ubo.delete()
	}
}

// SetModel, SetView, SetProj mutate next's matrices and mark dirty. View and
// projection mutation also regenerates ViewProj, since the half-pixel
// vertical flip it carries depends on the current viewport size.
func (sc *StateCache) SetModel(m ms3.Mat4) {
	m.Put(sc.next.Model[:])
	sc.dirty = true
}

func (sc *StateCache) SetView(v ms3.Mat4) {
	v.Put(sc.next.View[:])
	sc.recomputeViewProj()
}

func (sc *StateCache) SetProj(p ms3.Mat4) {
	p.Put(sc.next.Proj[:])
	sc.recomputeViewProj()
}

// SetViewport updates the cached viewport size used by the half-pixel
// offset baked into ViewProj, and recomputes it immediately.
func (sc *StateCache) SetViewport(w, h int) {
	sc.viewportW, sc.viewportH = w, h
	sc.recomputeViewProj()
}

// recomputeViewProj builds view*proj*flip (object space -> view space ->
// clip space -> GL-corrected clip space, for the row-vector v*M convention
// matrix.go's matrices use and ms3.MulMat4 implements), ported literally
// from update_matrix: view and proj alone land in DX8's clip-space
// convention, and the trailing multiply by flip both negates the Y axis
// (GL's textures and clip space run the opposite vertical direction from
// DX8's) and folds in the half-pixel NDC offset (1/vw, 1/vh) DX8's viewport
// mapping needs against GL's. Composing flip as an actual matrix multiply
// rather than only adding the offset afterward matters: it is what turns
// proj's own un-flipped Y scale (matching set_projection_ortho/perspective's
// literal proj_matrix) into the correctly oriented clip-space Y for both
// projections, instead of only one of them happening to come out right.
func (sc *StateCache) recomputeViewProj() {
	var view, proj ms3.Mat4
	view = ms3.NewMat4(sc.next.View[:])
	proj = ms3.NewMat4(sc.next.Proj[:])
	vp := ms3.MulMat4(view, proj)

	var offsetX, offsetY float32
	if sc.viewportW > 0 && sc.viewportH > 0 {
		offsetX = 1 / float32(sc.viewportW)
		offsetY = 1 / float32(sc.viewportH)
	}
	flip := ms3.NewMat4([]float32{
		1, 0, 0, 0,
		0, -1, 0, 0,
		0, 0, 1, 0,
		offsetX, offsetY, 0, 1,
	})
	viewproj := ms3.MulMat4(vp, flip)

	var flat [16]float32
	viewproj.Put(flat[:])
	sc.next.ViewProj = flat
	sc.dirty = true
}

// SetAlphaBlend, SetBlendMode, SetDepthTest, SetWriteDepth, SetCulling,
// SetInterpolation, SetTextureRepeat, SetGouraud, SetLightingEnabled,
// SetAmbientColour, SetFog, SetLight mutate next and mark dirty; each
// corresponds 1:1 to a field in renderStateBlock.
func (sc *StateCache) SetAlphaBlend(v bool)   { sc.next.AlphaBlend = b2i32(v); sc.dirty = true }
func (sc *StateCache) SetDepthTest(v bool)    { sc.next.DepthTest = b2i32(v); sc.dirty = true }
func (sc *StateCache) SetWriteDepth(v bool)   { sc.next.WriteDepth = b2i32(v); sc.dirty = true }
func (sc *StateCache) SetCulling(v bool)      { sc.next.Culling = b2i32(v); sc.dirty = true }
func (sc *StateCache) SetInterpolation(v bool) { sc.next.Interpolate = b2i32(v); sc.dirty = true }
func (sc *StateCache) SetTextureRepeat(v bool) { sc.next.Repeat = b2i32(v); sc.dirty = true }
func (sc *StateCache) SetGouraud(v bool)      { sc.next.Gouraud = b2i32(v); sc.dirty = true }
func (sc *StateCache) SetLightingEnabled(v bool) { sc.next.Lighting = b2i32(v); sc.dirty = true }
func (sc *StateCache) SetAmbientColour(rgb int32) {
	sc.next.AmbientColour = splitColourOpaque(rgb)
	sc.dirty = true
}

func (sc *StateCache) SetBlendMode(src, dst BlendType) {
	sc.next.BlendSrc, sc.next.BlendDst = int32(src), int32(dst)
	sc.dirty = true
}

func (sc *StateCache) SetFog(f *Fog) {
	if f == nil {
		sc.next.FogEnabled = 0
	} else {
		sc.next.FogEnabled = 1
		sc.next.FogColour = splitColourOpaque(f.Colour)
		sc.next.FogBegin, sc.next.FogEnd = f.Begin, f.End
	}
	sc.dirty = true
}

func (sc *StateCache) SetLight(id int, l Light) {
	sc.next.Lights[id] = lightBlock{
		Position: [4]float32{l.Position[0], l.Position[1], l.Position[2], 1},
		Dir:      [4]float32{l.Dir[0], l.Dir[1], l.Dir[2], 0},
		Colour:   splitColourOpaque(l.Colour),
		Enabled:  b2i32(l.Enabled),
		Point:    b2i32(l.Point),
		Range:    l.Range,
	}
	sc.dirty = true
}

// Flush does nothing unless dirty is set. Otherwise it applies the GL
// toggles, blend function and depth mask for the fields where next differs
// from queued, uploads the uniform block, then copies next into queued.
// Returns whether a flush actually happened.
func (sc *StateCache) Flush() bool {
	if !sc.dirty {
		return false
	}
	if sc.next.AlphaBlend != sc.queued.AlphaBlend {
		sc.backend.SetBlendEnabled(sc.next.AlphaBlend != 0)
	}
	if sc.next.DepthTest != sc.queued.DepthTest {
		sc.backend.SetDepthTest(sc.next.DepthTest != 0)
	}
	if sc.next.Culling != sc.queued.Culling {
		sc.backend.SetCullFace(sc.next.Culling != 0)
	}
	if sc.next.BlendSrc != sc.queued.BlendSrc || sc.next.BlendDst != sc.queued.BlendDst {
		sc.backend.SetBlendFunc(blendFactorGL(BlendType(sc.next.BlendSrc)), blendFactorGL(BlendType(sc.next.BlendDst)))
	}
	if sc.next.WriteDepth != sc.queued.WriteDepth {
		sc.backend.SetDepthMask(sc.next.WriteDepth != 0)
	}
	if _, real := sc.backend.(glBackend); real {
		sc.ubo.upload(&sc.next)
	}
	sc.queued = sc.next
	sc.dirty = false
	return true
}

func setGLToggle(cap uint32, enable bool) {
	if enable {
		gl.Enable(cap)
	} else {
		gl.Disable(cap)
	}
}

func blendFactorGL(b BlendType) uint32 {
	switch b {
	case BlendZero:
		return gl.ZERO
	case BlendOne:
		return gl.ONE
	case BlendSrcColour:
		return gl.SRC_COLOR
	case BlendInvSrcColour:
		return gl.ONE_MINUS_SRC_COLOR
	case BlendSrcAlpha:
		return gl.SRC_ALPHA
	case BlendInvSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case BlendDestAlpha:
		return gl.DST_ALPHA
	case BlendInvDestAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	case BlendDestColour:
		return gl.DST_COLOR
	case BlendInvDestColour:
		return gl.ONE_MINUS_DST_COLOR
	case BlendSrcAlphaSat:
		return gl.SRC_ALPHA_SATURATE
	default:
		return gl.ONE
	}
}

func b2i32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func splitColourOpaque(rgb int32) [4]float32 {
	v := SplitColourAlpha(rgb, 1)
	return v
}

// mergeColour packs a straight RGB float triple back into a 0xBBGGRR
// integer, the inverse of splitColourOpaque/SplitColourAlpha's decomposition
// — used when a snapshot needs to hand the ambient/fog/light colour back out
// as the int32 callers set it with.
func mergeColour(r, g, b float32) int32 {
	return int32(r*255+0.5) | int32(g*255+0.5)<<8 | int32(b*255+0.5)<<16
}

// SplitColourAlpha decomposes a 0xBBGGRR colour (GM8's native byte order)
// and a separate alpha into a straight RGBA float quadruple.
func SplitColourAlpha(bgr int32, alpha float64) [4]float32 {
	r := float32(bgr&0xFF) / 255
	g := float32((bgr>>8)&0xFF) / 255
	b := float32((bgr>>16)&0xFF) / 255
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return [4]float32{r, g, b, float32(alpha)}
}
