package glrender

import "testing"

// SetViewport's half-pixel offset must land in ViewProj's translation row,
// and SetProj's raw un-flipped Y scale must come out negated in the
// composed matrix — the two halves of update_matrix's view*proj*flip that
// recomputeViewProj performs as one real multiply.
func TestRecomputeViewProjFlipAndHalfPixel(t *testing.T) {
	backend := &fakeBackend{}
	sc := NewStateCache(0, backend)
	sc.SetViewport(320, 240)
	sc.SetProj(OrthoProjMatrix(320, 240))

	flat := sc.next.ViewProj
	wantOffsetX := float32(1.0 / 320)
	wantOffsetY := float32(1.0 / 240)
	if !almostEqual(flat[12], wantOffsetX) {
		t.Errorf("translation X = %v, want %v", flat[12], wantOffsetX)
	}
	if !almostEqual(flat[13], wantOffsetY) {
		t.Errorf("translation Y = %v, want %v", flat[13], wantOffsetY)
	}

	projFlat := flatten(OrthoProjMatrix(320, 240))
	wantSY := -projFlat[5]
	if !almostEqual(flat[5], wantSY) {
		t.Errorf("composed Y scale = %v, want %v (negated proj Y scale)", flat[5], wantSY)
	}
}

// Flush only touches the backend when next differs from queued, and only
// once per dirty state, regardless of how many fields changed together.
func TestStateCacheFlushCoalescesToggles(t *testing.T) {
	backend := &fakeBackend{}
	sc := NewStateCache(0, backend)

	if sc.Flush() {
		t.Fatal("Flush on a freshly constructed cache should be a no-op")
	}

	sc.SetAlphaBlend(true)
	sc.SetDepthTest(false)
	if !sc.Flush() {
		t.Fatal("Flush should report a change after two field mutations")
	}
	if len(backend.blendEnabled) != 1 {
		t.Errorf("blendEnabled recorded %d times, want 1", len(backend.blendEnabled))
	}
	if sc.Flush() {
		t.Error("second consecutive Flush with no mutation should be a no-op")
	}
}
