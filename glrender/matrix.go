package glrender

import (
	math "github.com/chewxy/math32"

	"github.com/gm8run/glrender/math/ms3"
)

// MakeViewMatrix builds the camera matrix GM8's set_view uses for both the
// ortho and perspective paths: translate the source rectangle's center to
// the origin, offset to (x,y,z)'s camera position, then rotate by -angle
// (GM8 negates its view angle relative to a standard counterclockwise
// rotation). Ported directly from opengl.rs's make_view_matrix: the operand
// order (translate, then rotate, multiplied in that order) isn't obvious
// from the shape alone, so it stays literal.
func MakeViewMatrix(x, y, z, w, h, angleDeg float64) ms3.Mat4 {
	angle := float32(angleDeg) * math.Pi / 180
	sinAngle := -math.Sin(angle)
	cosAngle := math.Cos(angle)

	scx := -(float32(x) + float32(w)/2)
	scy := -(float32(y) + float32(h)/2)
	scz := -float32(z)

	translate := ms3.NewMat4([]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		scx, scy, scz, 1,
	})
	rotate := ms3.NewMat4([]float32{
		cosAngle, sinAngle, 0, 0,
		-sinAngle, cosAngle, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	return ms3.MulMat4(translate, rotate)
}

// OrthoProjMatrix builds the orthographic projection GM8's set_projection_ortho
// uses: squish the w x h source rectangle to the [-1,1] clip square and
// compress z into [0,1] over the depth range [1,32000]. The DX8-vs-GL
// vertical flip is applied once, later, by StateCache's shared flip matrix
// (see recomputeViewProj) — it is not baked in here, matching
// set_projection_ortho's own proj_matrix literal.
func OrthoProjMatrix(w, h float64) ms3.Mat4 {
	sx := float32(2 / w)
	sy := float32(-2 / h)
	return ms3.NewMat4([]float32{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, 1.0 / 31999.0, 0,
		0, 0, -1.0 / 31999.0, 1,
	})
}

// PerspectiveProjMatrix builds the perspective projection GM8's
// set_projection_perspective uses: a unit near plane (camera placed at
// z=-w by SetProjectionPerspective's call to MakeViewMatrix), w/h aspect
// correction on the Y axis, and the same [1,32000] depth-range compression
// as the ortho path, using w for division instead of a constant. Like
// OrthoProjMatrix, the vertical flip is not baked in here.
func PerspectiveProjMatrix(w, h float64) ms3.Mat4 {
	sy := float32(2 * (w / h))
	return ms3.NewMat4([]float32{
		2, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, 32000.0 / 31999.0, 1,
		0, 0, -32000.0 / 31999.0, 0,
	})
}

// SetProjectionOrtho places the camera at z=-16000 looking at the src
// rectangle (x,y,w,h) rotated by angle degrees, and sets an orthographic
// projection over it. This is the projection GM8 uses whenever a view isn't
// both 3D-enabled and in perspective mode.
func (sc *StateCache) SetProjectionOrtho(x, y, w, h, angleDeg float64) {
	sc.SetView(MakeViewMatrix(x, y, -16000, w, h, angleDeg))
	sc.SetProj(OrthoProjMatrix(w, h))
}

// SetProjectionPerspective places the camera at z=-w (a unit near plane
// scaled to the source rectangle's width) and sets a perspective projection
// over it — GM8's projection whenever 3D and perspective mode are both on.
func (sc *StateCache) SetProjectionPerspective(x, y, w, h, angleDeg float64) {
	sc.SetView(MakeViewMatrix(x, y, -w, w, h, angleDeg))
	sc.SetProj(PerspectiveProjMatrix(w, h))
}
