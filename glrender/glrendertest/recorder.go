// Package glrendertest provides glrender.Backend's test-only second
// implementation: a call recorder instead of a live OpenGL context, so the
// draw-call coalescing and state-transition properties in SPEC_FULL.md §8
// can run as ordinary go test unit tests rather than requiring a window and
// a current GL context.
package glrendertest

// DrawCall records one DrawArrays invocation: the draw mode GL constant
// (e.g. GL_TRIANGLES) plus the vertex range drawn.
type DrawCall struct {
	Mode         uint32
	First, Count int32
}

// BlendFunc records one SetBlendFunc invocation.
type BlendFunc struct {
	Src, Dst uint32
}

// Recorder implements glrender.Backend by appending every call to its own
// slices instead of issuing it. The zero value is ready to use.
type Recorder struct {
	Draws        []DrawCall
	BlendEnabled []bool
	BlendFuncs   []BlendFunc
	DepthTest    []bool
	DepthMask    []bool
	CullFace     []bool
}

func (r *Recorder) DrawArrays(mode uint32, first, count int32) {
	r.Draws = append(r.Draws, DrawCall{Mode: mode, First: first, Count: count})
}

func (r *Recorder) SetBlendEnabled(enabled bool) {
	r.BlendEnabled = append(r.BlendEnabled, enabled)
}

func (r *Recorder) SetBlendFunc(src, dst uint32) {
	r.BlendFuncs = append(r.BlendFuncs, BlendFunc{Src: src, Dst: dst})
}

func (r *Recorder) SetDepthTest(enabled bool) {
	r.DepthTest = append(r.DepthTest, enabled)
}

func (r *Recorder) SetDepthMask(enabled bool) {
	r.DepthMask = append(r.DepthMask, enabled)
}

func (r *Recorder) SetCullFace(enabled bool) {
	r.CullFace = append(r.CullFace, enabled)
}

// Reset clears every recorded call, for reuse across subtests.
func (r *Recorder) Reset() {
	*r = Recorder{}
}
