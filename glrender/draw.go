package glrender

import (
	"math"

	"github.com/gm8run/glrender/primitive"
)

// VertexBuffer is a user-populated bucket of already-expanded vertices,
// split by shape — the host-side record ExtendBuffers appends to and
// DrawBuffers replays untouched, matching render.rs's VertexBuffer.
type VertexBuffer struct {
	Points, Lines, Tris []primitive.Vertex
}

// Drawer implements GM8's drawing API (render.rs's draw_* methods and the
// RendererTrait default methods built on draw_sprite_general) on top of a
// Batcher, an AtlasRegistry for rect lookups and a StateCache for current
// depth/state. It owns the 2D/3D user primitive builders and circle
// precision, the handful of draw-call-adjacent settings that live outside
// the render-state uniform block.
type Drawer struct {
	atlases *AtlasRegistry
	state   *StateCache
	batch   *Batcher

	depth          float32
	using3D        bool
	perspective    bool
	circlePrecision int

	primitive2D      *primitive.Builder
	primitive2DAtlas uint32
	primitive3D      *primitive.Builder
	primitive3DAtlas uint32
}

// NewDrawer returns a Drawer with GM8's default circle precision (24) and
// empty 2D/3D user primitive builders stamped with the white pixel.
func NewDrawer(atlases *AtlasRegistry, state *StateCache, batch *Batcher) *Drawer {
	d := &Drawer{atlases: atlases, state: state, batch: batch, circlePrecision: 24}
	d.ResetPrimitive2D(primitive.PointList, nil)
	d.ResetPrimitive3D(primitive.PointList, nil)
	return d
}

func (d *Drawer) rectOrWhite(ref *AtlasRef) AtlasRect {
	if ref != nil {
		if r, ok := d.atlases.Rect(*ref); ok {
			return r
		}
	}
	r, _ := d.atlases.Rect(d.atlases.WhitePixel())
	return r
}

func (d *Drawer) pushBuilder(b *primitive.Builder, atlasID uint32) {
	d.batch.Push(atlasID, b.Shape(), b.Vertices())
}

// DrawSprite draws texture's whole rect at (x,y), scaled, rotated and
// tinted by a single colour — the common case of draw_sprite_general.
func (d *Drawer) DrawSprite(texture AtlasRef, x, y, xscale, yscale, angle float64, colour int32, alpha float64) {
	rect, ok := d.atlases.Rect(texture)
	if !ok {
		return
	}
	d.DrawSpriteGeneral(texture, 0, 0, float64(rect.W), float64(rect.H), x, y, xscale, yscale, angle,
		colour, colour, colour, colour, alpha, true)
}

// DrawSpriteColour is DrawSprite with one colour per corner (gouraud-blended
// quad), matching draw_sprite_colour.
func (d *Drawer) DrawSpriteColour(texture AtlasRef, x, y, xscale, yscale, angle float64, col1, col2, col3, col4 int32, alpha float64) {
	rect, ok := d.atlases.Rect(texture)
	if !ok {
		return
	}
	d.DrawSpriteGeneral(texture, 0, 0, float64(rect.W), float64(rect.H), x, y, xscale, yscale, angle,
		col1, col2, col3, col4, alpha, true)
}

// DrawSpritePartial draws a part_x/part_y/part_w/part_h sub-rect of texture,
// not anchored at the sprite's origin, matching draw_sprite_partial.
func (d *Drawer) DrawSpritePartial(texture AtlasRef, partX, partY, partW, partH, x, y, xscale, yscale, angle float64, colour int32, alpha float64) {
	d.DrawSpriteGeneral(texture, partX, partY, partW, partH, x, y, xscale, yscale, angle, colour, colour, colour, colour, alpha, false)
}

// DrawSpriteGeneral is the single vertex-math routine every other sprite
// draw funnels through, ported literally from opengl.rs's
// draw_sprite_general: the half-pixel subtraction on left/top and the
// pre-rotation-offset rotate() closure aren't obvious consequences of the
// parameters alone, so the arithmetic stays as written there rather than
// being rederived.
func (d *Drawer) DrawSpriteGeneral(texture AtlasRef, partX, partY, partW, partH, x, y, xscale, yscale, angleDeg float64,
	col1, col2, col3, col4 int32, alpha float64, useOrigin bool) {
	rect, ok := d.atlases.Rect(texture)
	if !ok {
		return
	}
	d.SetTextureRepeat(false)

	angle := -angleDeg * math.Pi / 180
	sinA, cosA := math.Sin(angle), math.Cos(angle)

	width := xscale * partW
	height := yscale * partH

	var left, top float64
	if useOrigin {
		left = -width*float64(rect.OriginX) - 0.5
		top = -height*float64(rect.OriginY) - 0.5
	} else {
		left, top = -0.5, -0.5
	}
	right := left + width
	bottom := top + height

	texLeft := partX / float64(rect.W)
	texTop := partY / float64(rect.H)
	texRight := texLeft + partW/float64(rect.W)
	texBottom := texTop + partH/float64(rect.H)

	depth := d.depth
	rotate := func(xoff, yoff float64) [3]float32 {
		return [3]float32{
			float32(x + xoff*cosA - yoff*sinA),
			float32(y + yoff*cosA + xoff*sinA),
			depth,
		}
	}

	b := primitive.NewBuilder(primitive.TriFan, rect.UV())
	b.Push(rotate(left, top), [2]float32{float32(texLeft), float32(texTop)}, primitive.SplitColour(col1, alpha), [3]float32{})
	b.Push(rotate(right, top), [2]float32{float32(texRight), float32(texTop)}, primitive.SplitColour(col2, alpha), [3]float32{})
	b.Push(rotate(right, bottom), [2]float32{float32(texRight), float32(texBottom)}, primitive.SplitColour(col3, alpha), [3]float32{})
	b.Push(rotate(left, bottom), [2]float32{float32(texLeft), float32(texBottom)}, primitive.SplitColour(col4, alpha), [3]float32{})
	d.pushBuilder(b, rect.AtlasID)
}

// DrawSpritePos stamps texture onto an arbitrary quad (x1,y1)..(x4,y4) in
// fan order, untinted, matching draw_sprite_pos.
func (d *Drawer) DrawSpritePos(texture AtlasRef, x1, y1, x2, y2, x3, y3, x4, y4, alpha float64) {
	rect, ok := d.atlases.Rect(texture)
	if !ok {
		return
	}
	d.SetTextureRepeat(false)
	depth := d.depth
	correct := func(xoff, yoff float64) [3]float32 {
		return [3]float32{float32(xoff - 0.5), float32(yoff - 0.5), depth}
	}
	b := primitive.NewBuilder(primitive.TriFan, rect.UV())
	white := primitive.SplitColour(0xFFFFFF, alpha)
	b.Push(correct(x1, y1), [2]float32{0, 0}, white, [3]float32{})
	b.Push(correct(x2, y2), [2]float32{1, 0}, white, [3]float32{})
	b.Push(correct(x3, y3), [2]float32{1, 1}, white, [3]float32{})
	b.Push(correct(x4, y4), [2]float32{0, 1}, white, [3]float32{})
	d.pushBuilder(b, rect.AtlasID)
}

// DrawSpriteTiled repeats texture across x (if tileEndX is non-nil) and y
// (if tileEndY is non-nil), moving the start position on each tiled axis to
// pos mod size - size so the first partially visible tile is never
// skipped — draw_sprite_tiled's loop, using primitive.TiledSpriteOrigin for
// the fold.
func (d *Drawer) DrawSpriteTiled(texture AtlasRef, x, y, xscale, yscale float64, colour int32, alpha float64, tileEndX, tileEndY *float64) {
	rect, ok := d.atlases.Rect(texture)
	if !ok {
		return
	}
	width := float64(rect.W) * xscale
	height := float64(rect.H) * yscale

	x = primitive.TiledSpriteOrigin(x, width, tileEndX != nil)
	y = primitive.TiledSpriteOrigin(y, height, tileEndY != nil)
	startX := x

	for {
		for {
			d.DrawSprite(texture, x, y, xscale, yscale, 0, colour, alpha)
			x += width
			if tileEndX == nil || !(x < *tileEndX) {
				break
			}
		}
		x = startX
		y += height
		if tileEndY == nil || !(y < *tileEndY) {
			break
		}
	}
}

// DrawRectangle draws a filled, axis-aligned single-colour rectangle.
func (d *Drawer) DrawRectangle(x1, y1, x2, y2 float64, colour int32, alpha float64) {
	d.DrawRectangleGradient(x1, y1, x2, y2, colour, colour, colour, colour, alpha, false)
}

// DrawRectangleOutline draws an unfilled, axis-aligned single-colour
// rectangle outline.
func (d *Drawer) DrawRectangleOutline(x1, y1, x2, y2 float64, colour int32, alpha float64) {
	d.DrawRectangleGradient(x1, y1, x2, y2, colour, colour, colour, colour, alpha, true)
}

// DrawRectangleGradient draws a rectangle with one colour per corner,
// filled (a two-triangle fan over the four corners, c1 at (x1,y1)) or
// outlined (strip around the four corners), normalizing/nudging x2/y2 the same way as the
// reference engine's draw_rectangle_gradient.
func (d *Drawer) DrawRectangleGradient(x1, y1, x2, y2 float64, c1, c2, c3, c4 int32, alpha float64, outline bool) {
	x1, y1, x2, y2 = primitive.NormalizeRect(x1, y1, x2, y2)
	white := d.atlases.WhitePixel()
	rect, _ := d.atlases.Rect(white)
	sb := primitive.NewShapeBuilder(outline, rect.UV(), alpha, d.depth)
	sb.PushPoint(x1, y1, c1).PushPoint(x2, y1, c2).PushPoint(x2, y2, c3).PushPoint(x1, y2, c4)
	b := sb.Build()
	d.pushBuilder(b, rect.AtlasID)
}

// DrawPoint draws a single coloured point.
func (d *Drawer) DrawPoint(x, y float64, colour int32, alpha float64) {
	white := d.atlases.WhitePixel()
	rect, _ := d.atlases.Rect(white)
	b := primitive.NewBuilder(primitive.PointList, rect.UV())
	b.Push([3]float32{float32(x), float32(y), d.depth}, [2]float32{}, primitive.SplitColour(colour, alpha), [3]float32{})
	d.pushBuilder(b, rect.AtlasID)
}

// DrawLine draws a two-point line, or — if width is non-nil — a filled
// quad of that width along the segment, its corners offset perpendicular
// to the line direction exactly as draw_line computes them.
func (d *Drawer) DrawLine(x1, y1, x2, y2 float64, width *float64, c1, c2 int32, alpha float64) {
	white := d.atlases.WhitePixel()
	rect, _ := d.atlases.Rect(white)
	if width == nil {
		sb := primitive.NewShapeBuilder(true, rect.UV(), alpha, d.depth)
		sb.PushPoint(x1, y1, c1).PushPoint(x2, y2, c2)
		d.pushBuilder(sb.Build(), rect.AtlasID)
		return
	}
	length := math.Hypot(x2-x1, y2-y1)
	if length == 0 {
		return
	}
	wx := (y2 - y1) * (*width / 2) / length
	wy := (x2 - x1) * (*width / 2) / length
	sb := primitive.NewShapeBuilder(false, rect.UV(), alpha, d.depth)
	sb.PushPoint(x1-wx, y1+wy, c1).PushPoint(x1+wx, y1-wy, c1).PushPoint(x2+wx, y2-wy, c2).PushPoint(x2-wx, y2+wy, c2)
	d.pushBuilder(sb.Build(), rect.AtlasID)
}

// DrawTriangle draws a filled or outlined triangle with one colour per
// vertex.
func (d *Drawer) DrawTriangle(x1, y1, x2, y2, x3, y3 float64, c1, c2, c3 int32, alpha float64, outline bool) {
	white := d.atlases.WhitePixel()
	rect, _ := d.atlases.Rect(white)
	sb := primitive.NewShapeBuilder(outline, rect.UV(), alpha, d.depth)
	sb.PushPoint(x1, y1, c1).PushPoint(x2, y2, c2).PushPoint(x3, y3, c3)
	d.pushBuilder(sb.Build(), rect.AtlasID)
}

// DrawEllipse draws a filled or outlined ellipse at the current circle
// precision.
func (d *Drawer) DrawEllipse(x, y, radX, radY float64, c1, c2 int32, alpha float64, outline bool) {
	white := d.atlases.WhitePixel()
	rect, _ := d.atlases.Rect(white)
	sb := primitive.NewShapeBuilder(outline, rect.UV(), alpha, d.depth)
	primitive.Ellipse(sb, x, y, radX, radY, c1, c2, d.circlePrecision)
	d.pushBuilder(sb.Build(), rect.AtlasID)
}

// DrawRoundRect draws a filled or outlined rounded rectangle at the current
// circle precision.
func (d *Drawer) DrawRoundRect(x1, y1, x2, y2 float64, c1, c2 int32, alpha float64, outline bool) {
	x1, y1, x2, y2 = primitive.NormalizeRect(x1, y1, x2, y2)
	white := d.atlases.WhitePixel()
	rect, _ := d.atlases.Rect(white)
	sb := primitive.NewShapeBuilder(outline, rect.UV(), alpha, d.depth)
	primitive.RoundRect(sb, x1, y1, x2, y2, c1, c2, d.circlePrecision)
	d.pushBuilder(sb.Build(), rect.AtlasID)
}

// SetCirclePrecision clamps prec to a multiple of 4 in [4,64].
func (d *Drawer) SetCirclePrecision(prec int) { d.circlePrecision = primitive.ClampCirclePrecision(prec) }

// CirclePrecision returns the current circle precision.
func (d *Drawer) CirclePrecision() int { return d.circlePrecision }

// ResetPrimitive2D starts a fresh user-built 2D primitive of type ptype,
// stamped with atlasRef's rect (or the white pixel if nil).
func (d *Drawer) ResetPrimitive2D(ptype primitive.Type, atlasRef *AtlasRef) {
	rect := d.rectOrWhite(atlasRef)
	d.primitive2D = primitive.NewBuilder(ptype, rect.UV())
	d.primitive2DAtlas = rect.AtlasID
}

// Vertex2D appends one vertex to the in-progress 2D primitive at the
// current depth.
func (d *Drawer) Vertex2D(x, y, xtex, ytex float64, colour int32, alpha float64) {
	d.primitive2D.Push([3]float32{float32(x), float32(y), d.depth}, [2]float32{float32(xtex), float32(ytex)},
		primitive.SplitColour(colour, alpha), [3]float32{})
}

// DrawPrimitive2D queues the in-progress 2D primitive without resetting it.
func (d *Drawer) DrawPrimitive2D() {
	d.pushBuilder(d.primitive2D, d.primitive2DAtlas)
}

// Primitive2D returns the in-progress 2D builder.
func (d *Drawer) Primitive2D() *primitive.Builder { return d.primitive2D }

// SetPrimitive2D replaces the in-progress 2D builder wholesale, mirroring
// get_primitive_2d/set_primitive_2d's clone-and-restore round trip. atlasID
// must be the id the builder was originally constructed with (Primitive2D
// callers round-trip the same builder, so this is always the value last
// passed to ResetPrimitive2D).
func (d *Drawer) SetPrimitive2D(b *primitive.Builder, atlasID uint32) {
	d.primitive2D = b
	d.primitive2DAtlas = atlasID
}

// ResetPrimitive3D, Vertex3D, DrawPrimitive3D, Primitive3D, SetPrimitive3D
// are the 3D counterparts; the only difference is Vertex3D takes an
// explicit z and normal instead of the cached depth.
func (d *Drawer) ResetPrimitive3D(ptype primitive.Type, atlasRef *AtlasRef) {
	rect := d.rectOrWhite(atlasRef)
	d.primitive3D = primitive.NewBuilder(ptype, rect.UV())
	d.primitive3DAtlas = rect.AtlasID
}

func (d *Drawer) Vertex3D(x, y, z, nx, ny, nz, xtex, ytex float64, colour int32, alpha float64) {
	d.primitive3D.Push([3]float32{float32(x), float32(y), float32(z)}, [2]float32{float32(xtex), float32(ytex)},
		primitive.SplitColour(colour, alpha), [3]float32{float32(nx), float32(ny), float32(nz)})
}

func (d *Drawer) DrawPrimitive3D() {
	d.pushBuilder(d.primitive3D, d.primitive3DAtlas)
}

func (d *Drawer) Primitive3D() *primitive.Builder { return d.primitive3D }

func (d *Drawer) SetPrimitive3D(b *primitive.Builder, atlasID uint32) {
	d.primitive3D = b
	d.primitive3DAtlas = atlasID
}

// ExtendBuffers appends the in-progress 3D primitive's vertices (truncated
// to a whole number of lines/triangles for those shapes) onto buf.
func (d *Drawer) ExtendBuffers(buf *VertexBuffer) {
	verts := d.primitive3D.Vertices()
	switch d.primitive3D.Shape() {
	case primitive.ShapePoint:
		buf.Points = append(buf.Points, verts...)
	case primitive.ShapeLine:
		buf.Lines = append(buf.Lines, verts[:len(verts)/2*2]...)
	default:
		buf.Tris = append(buf.Tris, verts[:len(verts)/3*3]...)
	}
}

// DrawBuffers replays a user-assembled VertexBuffer's points, lines and
// triangles against atlasRef (or the white pixel), flushing first so the
// replay draws with the render state as it stands right now.
func (d *Drawer) DrawBuffers(atlasRef *AtlasRef, buf *VertexBuffer) {
	d.batch.Flush()
	d.state.Flush()
	rect := d.rectOrWhite(atlasRef)
	d.batch.Push(rect.AtlasID, primitive.ShapePoint, buf.Points)
	d.batch.Flush()
	d.batch.Push(rect.AtlasID, primitive.ShapeLine, buf.Lines)
	d.batch.Flush()
	d.batch.Push(rect.AtlasID, primitive.ShapeTriangle, buf.Tris)
	d.batch.Flush()
}

// Depth returns the current draw depth.
func (d *Drawer) Depth() float32 { return d.depth }

// SetDepth clamps depth to [-16000,16000] when 3D is enabled, or forces it
// to 0 otherwise — set_depth's behaviour.
func (d *Drawer) SetDepth(depth float32) {
	if d.using3D {
		if depth < -16000 {
			depth = -16000
		} else if depth > 16000 {
			depth = 16000
		}
		d.depth = depth
	} else {
		d.depth = 0
	}
}

// Get3D reports whether 3D mode is enabled.
func (d *Drawer) Get3D() bool { return d.using3D }

// Set3D toggles 3D mode, which also drives depth test and perspective
// selection — set_3d's behaviour.
func (d *Drawer) Set3D(use3D bool) {
	d.using3D = use3D
	d.SetDepthTest(use3D)
}

// SetDepthTest forwards to the state cache, ANDing with the current 3D
// flag — DX8 never depth-tests in 2D mode regardless of the caller's ask.
func (d *Drawer) SetDepthTest(v bool) { d.state.SetDepthTest(v && d.using3D) }

// GetPerspective and SetPerspective track whether set_view should build a
// perspective or orthographic projection when 3D is enabled; 2D mode always
// uses orthographic regardless of this flag.
func (d *Drawer) GetPerspective() bool   { return d.perspective }
func (d *Drawer) SetPerspective(v bool) { d.perspective = v }

// GetAlphaBlending, SetAlphaBlending, GetBlendMode, SetBlendMode,
// GetPixelInterpolation, SetPixelInterpolation (aka SetInterpolation),
// GetTextureRepeat, SetTextureRepeat read/write the render-state cache
// directly; Drawer only adds the 3D-aware depth-test gating above.
func (d *Drawer) GetAlphaBlending() bool { return d.state.next.AlphaBlend != 0 }
func (d *Drawer) SetAlphaBlending(v bool) { d.state.SetAlphaBlend(v) }

func (d *Drawer) GetBlendMode() (BlendType, BlendType) {
	return BlendType(d.state.next.BlendSrc), BlendType(d.state.next.BlendDst)
}
func (d *Drawer) SetBlendMode(src, dst BlendType) { d.state.SetBlendMode(src, dst) }

func (d *Drawer) GetPixelInterpolation() bool { return d.state.next.Interpolate != 0 }
func (d *Drawer) SetInterpolation(v bool)     { d.state.SetInterpolation(v) }

func (d *Drawer) GetTextureRepeat() bool { return d.state.next.Repeat != 0 }
func (d *Drawer) SetTextureRepeat(v bool) { d.state.SetTextureRepeat(v) }
