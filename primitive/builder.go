package primitive

// Builder accumulates raw vertices and, depending on Type, inserts repeat
// vertices so the accumulated buffer is always a flat, ready-to-draw list
// of independent points/lines/triangles. The expansion rules (and the exact
// index juggling used to implement LineStrip/TriStrip/TriFan) are ported
// directly from the reference engine's push_vertex_raw, including its
// seed-triangle reorder for TriFan and per-other-triangle winding swap for
// TriStrip — these aren't obvious from the shape alone, so the port stays
// literal rather than rederiving "equivalent" index math.
type Builder struct {
	vertices  []Vertex
	ptype     Type
	atlasRect [4]float32
	rawFirst  Vertex
	rawCount  int
}

// NewBuilder returns a Builder that stamps atlasRect into every vertex it
// emits and expands pushed vertices according to ptype.
func NewBuilder(ptype Type, atlasRect [4]float32) *Builder {
	return &Builder{ptype: ptype, atlasRect: atlasRect}
}

// Type reports the primitive type this builder expands.
func (b *Builder) Type() Type { return b.ptype }

// Shape reports the flat-draw bucket this builder's type expands into.
func (b *Builder) Shape() Shape { return b.ptype.Shape() }

// Vertices returns the expanded vertex buffer accumulated so far.
func (b *Builder) Vertices() []Vertex { return b.vertices }

// RawCount returns how many vertices have been pushed, before expansion.
func (b *Builder) RawCount() int { return b.rawCount }

// FirstRaw returns the first vertex ever pushed, used by ShapeBuilder to
// close an outline loop.
func (b *Builder) FirstRaw() (Vertex, bool) { return b.rawFirst, b.rawCount > 0 }

// Push appends one logical vertex, expanding it per the primitive type's
// strip/fan/list rule, and stamps the builder's fixed atlas rect onto it.
func (b *Builder) Push(pos [3]float32, uv [2]float32, blend [4]float32, normal [3]float32) {
	v := Vertex{Pos: pos, UV: uv, Blend: blend, AtlasRect: b.atlasRect, Normal: normal}
	if b.rawCount == 0 {
		b.rawFirst = v
	}
	b.rawCount++

	switch b.ptype {
	case PointList, LineList, TriList:
		b.vertices = append(b.vertices, v)
	case LineStrip, LineLoop:
		b.pushLineStrip(v)
	case TriStrip, TriFan:
		b.pushTri(v)
	}
}

func (b *Builder) pushLineStrip(v Vertex) {
	if len(b.vertices) >= 2 {
		b.vertices = append(b.vertices, b.vertices[len(b.vertices)-1], v)
	} else {
		b.vertices = append(b.vertices, v)
	}
}

func (b *Builder) pushTri(v Vertex) {
	n := len(b.vertices)
	if n < 3 {
		b.vertices = append(b.vertices, v)
		if len(b.vertices) == 3 && b.ptype == TriFan {
			// Reorder the seed triangle so its rotation matches DX: a left
			// rotation by one, moving the first vertex pushed to the end.
			vs := b.vertices
			vs[0], vs[1] = vs[1], vs[0]
			vs[1], vs[2] = vs[2], vs[1]
		}
		return
	}
	v1, v2 := b.vertices[n-2], b.vertices[n-1]
	b.vertices = append(b.vertices, v1, v, v2)
	if b.ptype == TriStrip {
		newLen := len(b.vertices)
		if newLen%6 == 3 {
			vs := b.vertices
			vs[newLen-2], vs[newLen-1] = vs[newLen-1], vs[newLen-2]
			vs[newLen-3], vs[newLen-2] = vs[newLen-2], vs[newLen-3]
		}
	}
}

// Close re-emits the first raw vertex pushed, closing a LineStrip/LineLoop
// outline. It is a no-op if fewer than 3 raw vertices were pushed.
func (b *Builder) Close() {
	if b.rawCount < 3 {
		return
	}
	b.pushLineStrip(b.rawFirst)
}
