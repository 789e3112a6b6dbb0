// Package glrender implements the runtime rendering core: atlas/sprite
// registry, render-state cache, vertex batcher, drawing API, surface and
// framebuffer management, projection/view construction, the presenter and
// the state snapshotter. It uses v4.6-core/glgl for shader compilation and
// linking, raw GL calls for its buffers, textures and framebuffers, and
// math/ms3 for the 4x4 matrix math.
package glrender

import "github.com/gm8run/glrender/primitive"

// AtlasRef indexes a sparse vector of sprite/surface rectangles. The first
// N slots, populated by PushAtlases, are stock and immutable; later slots
// are user-created surfaces and uploaded sprites, reused when freed.
type AtlasRef int32

// AtlasRect names one packed rectangle inside a GPU texture. OriginX/Y are
// normalized (ox/w, oy/h) so a sprite's hotspot survives atlas repacking.
type AtlasRect struct {
	AtlasID          uint32
	X, Y, W, H       int32
	OriginX, OriginY float32
}

// UV returns the rect's texel-space bounds as a [4]float32 suitable for
// stamping into primitive.Vertex.AtlasRect (x, y, w, h in texels — the
// fragment shader divides by the bound texture's size).
func (r AtlasRect) UV() [4]float32 {
	return [4]float32{float32(r.X), float32(r.Y), float32(r.W), float32(r.H)}
}

// BlendType enumerates DX8's source/destination blend factors used by
// SetBlendMode.
type BlendType int32

const (
	BlendZero BlendType = iota
	BlendOne
	BlendSrcColour
	BlendInvSrcColour
	BlendSrcAlpha
	BlendInvSrcAlpha
	BlendDestAlpha
	BlendInvDestAlpha
	BlendDestColour
	BlendInvDestColour
	BlendSrcAlphaSat
)

// Light is one of the eight fixed-function point/directional lights.
type Light struct {
	Enabled  bool
	Point    bool
	Position [3]float32
	Dir      [3]float32
	Colour   int32
	Range    float32
}

// Fog is the single global fog setting; nil/disabled when Enabled is false.
type Fog struct {
	Enabled bool
	Colour  int32
	Begin   float32
	End     float32
}

// SavedTexture is one non-stock atlas slot's pixel (and optional depth)
// contents, captured for a savestate dump and replayed on restore.
type SavedTexture struct {
	W, H   int32
	RGBA   []byte
	ZBuf   []float32 // nil if the slot has no depth attachment
}

type Vertex = primitive.Vertex
