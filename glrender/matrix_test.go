package glrender

import (
	"testing"

	"github.com/gm8run/glrender/math/ms3"
)

func flatten(m ms3.Mat4) [16]float32 {
	var flat [16]float32
	m.Put(flat[:])
	return flat
}

func almostEqual(a, b float32) bool {
	const eps = 1e-4
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

// rowVecMul applies v' = v*M the way the vertex shader does (row vector on
// the left, translation carried in M's bottom row) — the convention
// MulMat4/recomputeViewProj compose in, which Mat4.MulPosition's own
// column-vector convention doesn't match.
func rowVecMul(v [3]float32, flat [16]float32) [3]float32 {
	full := [4]float32{v[0], v[1], v[2], 1}
	var out [4]float32
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			out[j] += full[i] * flat[i*4+j]
		}
	}
	return [3]float32{out[0], out[1], out[2]}
}

// OrthoProjMatrix must carry set_projection_ortho's own literal Y scale
// (-2/h, not pre-flipped) and X scale (2/w), with the depth range compressed
// into [0,1] over [1,32000].
func TestOrthoProjMatrix(t *testing.T) {
	flat := flatten(OrthoProjMatrix(320, 240))
	if !almostEqual(flat[0], 2.0/320) {
		t.Errorf("sx = %v, want %v", flat[0], 2.0/320)
	}
	if !almostEqual(flat[5], -2.0/240) {
		t.Errorf("sy = %v, want %v", flat[5], -2.0/240)
	}
	if !almostEqual(flat[10], 1.0/31999.0) {
		t.Errorf("sz = %v, want %v", flat[10], 1.0/31999.0)
	}
	if !almostEqual(flat[14], -1.0/31999.0) {
		t.Errorf("tz = %v, want %v", flat[14], -1.0/31999.0)
	}
	if flat[15] != 1 {
		t.Errorf("w = %v, want 1", flat[15])
	}
}

// PerspectiveProjMatrix's Y scale must be +2*(w/h), matching
// set_projection_perspective's literal — not negated, since the vertical
// flip is applied once, later, by recomputeViewProj's shared flip matrix.
func TestPerspectiveProjMatrix(t *testing.T) {
	flat := flatten(PerspectiveProjMatrix(320, 240))
	want := float32(2 * (320.0 / 240.0))
	if !almostEqual(flat[5], want) {
		t.Errorf("sy = %v, want %v", flat[5], want)
	}
	if flat[0] != 2 {
		t.Errorf("sx = %v, want 2", flat[0])
	}
	if !almostEqual(flat[10], 32000.0/31999.0) {
		t.Errorf("sz = %v, want %v", flat[10], 32000.0/31999.0)
	}
	if flat[11] != 1 {
		t.Errorf("w-row z = %v, want 1 (perspective divide)", flat[11])
	}
}

// MakeViewMatrix centers the source rectangle at the origin and offsets by
// -z, with no rotation when angleDeg is 0: a point at the rectangle's own
// center must map to (0,0,100) for z=-100.
func TestMakeViewMatrixCentersRectAtOrigin(t *testing.T) {
	m := MakeViewMatrix(10, 20, -100, 320, 240, 0)
	flat := flatten(m)
	center := [3]float32{10 + 160, 20 + 120, 0}
	got := rowVecMul(center, flat)
	want := [3]float32{0, 0, 100}
	if !almostEqual(got[0], want[0]) || !almostEqual(got[1], want[1]) || !almostEqual(got[2], want[2]) {
		t.Errorf("center row-vec multiply = %+v, want %+v", got, want)
	}
}

// A 90 degree rotation should swap and negate axes the way GM8's
// clockwise-positive view angle does: make_view_matrix negates the
// rotation, so a positive angleDeg rotates the scene counterclockwise as
// seen from the view's own perspective.
func TestMakeViewMatrixRotates90(t *testing.T) {
	m := MakeViewMatrix(0, 0, 0, 0, 0, 90)
	flat := flatten(m)
	got := rowVecMul([3]float32{1, 0, 0}, flat)
	if !almostEqual(got[0], 0) || !almostEqual(got[1], -1) {
		t.Errorf("rowVecMul((1,0,0)) after 90deg = %+v, want (0,-1,0)", got)
	}
}
