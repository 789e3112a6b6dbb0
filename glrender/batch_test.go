package glrender

import (
	"testing"

	"github.com/gm8run/glrender/primitive"
)

// fakeBackend is an in-package call recorder used only by this package's
// own whitebox tests; glrendertest.Recorder is the public equivalent for
// callers outside glrender, which can't be imported here without an import
// cycle (glrendertest itself imports glrender to assert it satisfies
// Backend).
type fakeBackend struct {
	draws        int
	blendEnabled []bool
}

func (f *fakeBackend) DrawArrays(mode uint32, first, count int32) { f.draws++ }
func (f *fakeBackend) SetBlendEnabled(enabled bool) {
	f.blendEnabled = append(f.blendEnabled, enabled)
}
func (f *fakeBackend) SetBlendFunc(src, dst uint32) {}
func (f *fakeBackend) SetDepthTest(enabled bool)    {}
func (f *fakeBackend) SetDepthMask(enabled bool)    {}
func (f *fakeBackend) SetCullFace(enabled bool)     {}

func oneVertex() primitive.Vertex {
	return primitive.Vertex{Pos: [3]float32{0, 0, 0}, UV: [2]float32{0, 0}}
}

// A sequence of M pushes against the same atlas/shape, with no render state
// change in between, must issue exactly one DrawArrays when flushed —
// property 7's baseline.
func TestBatcherCoalescesSameStateDraws(t *testing.T) {
	backend := &fakeBackend{}
	state := NewStateCache(0, backend)
	b := NewBatcher(nil, state, backend)

	for i := 0; i < 5; i++ {
		b.Push(0, primitive.ShapeTriangle, []primitive.Vertex{oneVertex(), oneVertex(), oneVertex()})
	}
	b.Flush()

	if backend.draws != 1 {
		t.Errorf("draws = %d, want 1", backend.draws)
	}
}

// Toggling a RenderState field mid-sequence must flush the queue under the
// old state before the new state takes effect, costing exactly one
// additional DrawArrays over the baseline.
func TestBatcherFlushesOnStateChange(t *testing.T) {
	backend := &fakeBackend{}
	state := NewStateCache(0, backend)
	b := NewBatcher(nil, state, backend)

	for i := 0; i < 3; i++ {
		b.Push(0, primitive.ShapeTriangle, []primitive.Vertex{oneVertex(), oneVertex(), oneVertex()})
	}
	state.SetAlphaBlend(true)
	for i := 0; i < 3; i++ {
		b.Push(0, primitive.ShapeTriangle, []primitive.Vertex{oneVertex(), oneVertex(), oneVertex()})
	}
	b.Flush()

	if backend.draws != 2 {
		t.Errorf("draws = %d, want 2 (one flush per side of the state change)", backend.draws)
	}
	if len(backend.blendEnabled) != 1 || backend.blendEnabled[0] != true {
		t.Errorf("blendEnabled = %v, want exactly one true toggle", backend.blendEnabled)
	}
}

// Switching atlas or shape mid-sequence, with no state change, must also
// flush exactly once per switch.
func TestBatcherFlushesOnAtlasChange(t *testing.T) {
	backend := &fakeBackend{}
	state := NewStateCache(0, backend)
	b := NewBatcher(nil, state, backend)

	b.Push(0, primitive.ShapeTriangle, []primitive.Vertex{oneVertex(), oneVertex(), oneVertex()})
	b.Push(1, primitive.ShapeTriangle, []primitive.Vertex{oneVertex(), oneVertex(), oneVertex()})
	b.Flush()

	if backend.draws != 2 {
		t.Errorf("draws = %d, want 2", backend.draws)
	}
}
