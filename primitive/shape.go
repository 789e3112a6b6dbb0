package primitive

import "math"

// ShapeBuilder wraps Builder for the handful of basic GM8 shapes (rectangle,
// line, triangle, ellipse, rounded rectangle) that are always drawn as a
// single outline strip or a single filled fan, never as raw
// caller-assembled primitives. Filled ellipses and rounded rectangles start
// their fan at a centre point; other shapes fan from their first corner. Construction picks LineStrip for
// outline=true, TriFan otherwise, mirroring the reference engine's own
// shape builder.
type ShapeBuilder struct {
	b       *Builder
	outline bool
	depth   float32
	alpha   float64
}

// NewShapeBuilder returns a ShapeBuilder stamping atlasRect into every vertex
// it emits, at the given depth and alpha.
func NewShapeBuilder(outline bool, atlasRect [4]float32, alpha float64, depth float32) *ShapeBuilder {
	ptype := TriFan
	if outline {
		ptype = LineStrip
	}
	return &ShapeBuilder{b: NewBuilder(ptype, atlasRect), outline: outline, depth: depth, alpha: alpha}
}

// PushPoint appends one shape vertex at (x,y), untextured, in the given
// 0xBBGGRR colour blended with the builder's fixed alpha.
func (sb *ShapeBuilder) PushPoint(x, y float64, colour int32) *ShapeBuilder {
	sb.b.Push([3]float32{float32(x), float32(y), sb.depth}, [2]float32{0, 0}, SplitColour(colour, sb.alpha), [3]float32{0, 0, 0})
	return sb
}

// Build closes the shape (re-emitting the first vertex to close an outline
// loop of 3 or more points) and returns the underlying Builder. Each call on
// an outline appends another closing segment.
func (sb *ShapeBuilder) Build() *Builder {
	if sb.outline {
		if first, ok := sb.b.FirstRaw(); ok && len(sb.b.Vertices()) > 2 {
			sb.b.pushLineStrip(first)
		}
	}
	return sb.b
}

// SplitColour decomposes a 0xBBGGRR colour and separate alpha into a
// straight RGBA float quadruple, matching the reference engine's own
// colour/alpha split used by every shape and sprite draw call.
func SplitColour(rgb int32, alpha float64) [4]float32 {
	r := float32(rgb&0xFF) / 255
	g := float32((rgb>>8)&0xFF) / 255
	b := float32((rgb>>16)&0xFF) / 255
	return [4]float32{r, g, b, float32(alpha)}
}

// NudgeInteger applies the reference engine's half-pixel-offset workaround:
// if x2 lands exactly on an integer, it's pushed forward by 0.01 so the
// rasterizer doesn't drop the last row/column of a rectangle whose extent
// would otherwise be zero-width in device space.
func NudgeInteger(x2 float64) float64 {
	if x2 == math.Floor(x2) {
		return x2 + 0.01
	}
	return x2
}

// NormalizeRect sorts x1/x2 and y1/y2 so x1<=x2 and y1<=y2, then applies
// NudgeInteger to the high corner — the exact preprocessing draw_rectangle,
// draw_rectangle_outline, draw_rectangle_gradient and draw_roundrect all
// perform before building their point list.
func NormalizeRect(x1, y1, x2, y2 float64) (nx1, ny1, nx2, ny2 float64) {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return x1, y1, NudgeInteger(x2), NudgeInteger(y2)
}

// Ellipse appends an ellipse (outline or filled fan) centred at (x,y) with
// radii radX, radY, to a ShapeBuilder already constructed with the right
// primitive type. precision must be a positive multiple of 4 in [4,64] —
// see ClampCirclePrecision. c1 colours the centre point of a filled
// ellipse (ignored for outlines); c2 colours every perimeter point.
func Ellipse(sb *ShapeBuilder, x, y, radX, radY float64, c1, c2 int32, precision int) {
	if !sb.outline {
		sb.PushPoint(x, y, c1)
	}
	for i := 0; i <= precision; i++ {
		angle := float64(i) * 2 * math.Pi / float64(precision)
		sb.PushPoint(x+radX*math.Cos(angle), y+radY*math.Sin(angle), c2)
	}
}

// RoundRect appends a rounded rectangle (outline or filled fan) bounded by
// corners (x1,y1)-(x2,y2), with circular corners of radius up to 10 units
// (clamped to half the rect's width/height when the rect is smaller), to a
// ShapeBuilder already constructed with the right primitive type.
// x2/y2 must already be normalized and nudged (see NormalizeRect);
// precision is the same circle_precision used by Ellipse.
func RoundRect(sb *ShapeBuilder, x1, y1, x2, y2 float64, c1, c2 int32, precision int) {
	xCenter := (x1 + x2) / 2
	yCenter := (y1 + y2) / 2
	width := math.Abs(x2 - x1)
	height := math.Abs(y2 - y1)
	radX := math.Min(width/2, 10)
	radY := math.Min(height/2, 10)
	rectHalfW := math.Max(width/2-radX, 0)
	rectHalfH := math.Max(height/2-radY, 0)

	if !sb.outline {
		sb.PushPoint(xCenter, yCenter, c1)
	}
	quarter := precision / 4
	for quad := 0; quad < 4; quad++ {
		var circleX float64
		if quad == 0 || quad == 3 {
			circleX = xCenter + rectHalfW
		} else {
			circleX = xCenter - rectHalfW
		}
		circleY := yCenter - rectHalfH
		if quad < 2 {
			circleY = yCenter + rectHalfH
		}
		for i := quarter * quad; i <= quarter*(quad+1); i++ {
			angle := float64(i) * 2 * math.Pi / float64(precision)
			sb.PushPoint(circleX+radX*math.Cos(angle), circleY+radY*math.Sin(angle), c2)
		}
	}
	sb.PushPoint(xCenter+rectHalfW+radX, yCenter+rectHalfH, c2)
}

// ClampCirclePrecision rounds prec into [4,64] and down to the nearest
// multiple of 4, matching set_circle_precision: roundrect corners split
// the precision into exact quarters, so it must always be a multiple of 4.
func ClampCirclePrecision(prec int) int {
	if prec < 4 {
		prec = 4
	}
	if prec > 64 {
		prec = 64
	}
	return (prec >> 2) << 2
}

// TiledSpriteOrigin moves a draw_sprite_tiled starting position to
// pos mod size - size (the remainder taken in [0, size)) when tiling is
// requested on that axis, so the tiling loop always starts from a tile
// that begins before the screen edge rather than potentially skipping the
// first partially-visible tile. size is the already-scaled sprite cell
// size on that axis.
func TiledSpriteOrigin(pos, size float64, tiled bool) float64 {
	if !tiled {
		return pos
	}
	pos = math.Mod(pos, size)
	if pos < 0 {
		pos += size
	}
	return pos - size
}
