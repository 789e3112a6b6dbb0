package glrender

import (
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/gm8run/glrender/primitive"
)

// vertexStride and the attribute byte offsets mirror primitive.Vertex's
// field order exactly (Pos, UV, Blend, AtlasRect, Normal); VertexAttribPointer
// calls below must stay in lockstep with that struct if it ever changes.
const vertexStride = int32(unsafe.Sizeof(primitive.Vertex{}))

var (
	offsetPos       = unsafe.Offsetof(primitive.Vertex{}.Pos)
	offsetUV        = unsafe.Offsetof(primitive.Vertex{}.UV)
	offsetBlend     = unsafe.Offsetof(primitive.Vertex{}.Blend)
	offsetAtlasRect = unsafe.Offsetof(primitive.Vertex{}.AtlasRect)
	offsetNormal    = unsafe.Offsetof(primitive.Vertex{}.Normal)
)

// Batcher accumulates vertices for one atlas/shape pair at a time, flushing
// to a transient VBO whenever the atlas, shape or render state changes —
// ported from opengl.rs's setup_queue/push_primitive/draw_buffer/flush_queue.
// Unlike the teacher's own glgl.VertexBuffer (built around a fixed
// Program+AttribLayout for compute-style buffers that live for the
// program's lifetime), this queue is rebuilt every flush, so it talks to
// the GL buffer/attribute API directly, the same way state.go's UBO does.
type Batcher struct {
	atlases *AtlasRegistry
	state   *StateCache
	backend Backend

	currentAtlas uint32
	queueShape   primitive.Shape
	queue        []primitive.Vertex
	started      bool
}

// NewBatcher returns an empty batcher drawing through atlases and reading
// interpolation/texture-repeat flags from state. Passing a nil backend
// defaults to the real OpenGL implementation.
func NewBatcher(atlases *AtlasRegistry, state *StateCache, backend Backend) *Batcher {
	if backend == nil {
		backend = glBackend{}
	}
	return &Batcher{atlases: atlases, state: state, backend: backend}
}

// Push appends builder's expanded vertices to the queue, flushing first if
// the atlas or shape changed since the last push — setup_queue's behaviour.
func (b *Batcher) Push(atlasID uint32, shape primitive.Shape, vertices []primitive.Vertex) {
	b.setupQueue(atlasID, shape)
	b.queue = append(b.queue, vertices...)
}

func (b *Batcher) setupQueue(atlasID uint32, shape primitive.Shape) {
	if b.state.dirty {
		// render state changed: flush whatever shape is currently queued
		// under the old state before update_render_state's toggles/blendfunc
		// take effect, same as setup_queue's call to update_render_state
		// before comparing atlas.
		b.Flush()
	}
	b.state.Flush()
	if !b.started || atlasID != b.currentAtlas || shape != b.queueShape {
		b.Flush()
		b.currentAtlas = atlasID
		b.queueShape = shape
		b.started = true
	}
}

// Flush draws whatever is queued and empties the queue. A no-op if nothing
// is queued.
func (b *Batcher) Flush() {
	if len(b.queue) == 0 {
		return
	}
	b.drawBuffer(b.currentAtlas, b.queueShape, b.queue)
	b.queue = b.queue[:0]
}

func (b *Batcher) drawBuffer(atlasID uint32, shape primitive.Shape, buffer []primitive.Vertex) {
	if len(buffer) == 0 {
		return
	}
	// Texture binding, VBO upload and attribute wiring are real GL object
	// traffic with no bearing on the draw-call count property 7 checks, so
	// glrendertest.Recorder skips straight to the DrawArrays it's there to
	// observe, the same way state.go's uniform block skips its own upload
	// when backend isn't the real one.
	if _, real := b.backend.(glBackend); real {
		tex := b.atlases.Texture(atlasID)
		gl.BindTexture(gl.TEXTURE_2D, tex)
		filter := int32(gl.NEAREST)
		if b.state.next.Interpolate != 0 {
			filter = gl.LINEAR
		}
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
		wrap := int32(gl.CLAMP_TO_EDGE)
		if b.state.next.Repeat != 0 {
			wrap = gl.REPEAT
		}
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)

		var vbo uint32
		gl.GenBuffers(1, &vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(buffer)*int(vertexStride), unsafe.Pointer(&buffer[0]), gl.STATIC_DRAW)

		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexStride, offsetPos)
		gl.EnableVertexAttribArray(1)
		gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, vertexStride, offsetUV)
		gl.EnableVertexAttribArray(2)
		gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, vertexStride, offsetBlend)
		gl.EnableVertexAttribArray(3)
		gl.VertexAttribPointerWithOffset(3, 4, gl.FLOAT, false, vertexStride, offsetAtlasRect)
		gl.EnableVertexAttribArray(4)
		gl.VertexAttribPointerWithOffset(4, 3, gl.FLOAT, false, vertexStride, offsetNormal)

		defer gl.DeleteBuffers(1, &vbo)
	}

	b.backend.DrawArrays(shapeGL(shape), 0, int32(len(buffer)))
}

func shapeGL(s primitive.Shape) uint32 {
	switch s {
	case primitive.ShapePoint:
		return gl.POINTS
	case primitive.ShapeLine:
		return gl.LINES
	default:
		return gl.TRIANGLES
	}
}
