package instlist

import "math"

// ID identifies an object class or an instance's stable GML-visible id.
// GM8 represents both in the same signed 32-bit space.
type ID int32

// NOONE is the sentinel returned when no instance matches a query.
const NOONE ID = -4

// State is an instance's lifecycle state. Deleted and Inactive instances
// remain in every index; iteration filters by the state it cares about.
type State uint8

const (
	Active State = iota
	Inactive
	Deleted
)

// Field is a scripted instance variable: either a single scalar or a sparse
// integer-keyed array, mirroring the two shapes GML's dynamic variables take.
// Full script-VM semantics (code_action evaluation) are out of scope; Field
// only needs to round-trip through the store and a savestate.
type Field struct {
	Scalar float64
	Array  map[int32]float64
}

// Instance is one game-object record. Every field a script can read or
// write is reachable only through Store methods that take a Handle — Go has
// no interior-mutability cell, so the store itself plays that role: it owns
// every Instance by value and mediates access, the way the design notes
// direct implementers without a Cell/RefCell equivalent.
type Instance struct {
	InstID  ID
	Object  ID
	Parents []ID
	State   State

	Depth float64

	X, Y                   float64
	XPrevious, YPrevious   float64
	XStart, YStart         float64
	HSpeed, VSpeed         float64
	Speed, Direction       float64
	Gravity, GravityDir    float64
	Friction               float64
	XScale, YScale, Angle  float64

	SpriteIndex  ID
	ImageIndex   float64
	ImageSpeed   float64
	ImageAlpha   float64
	ImageBlend   int32

	Visible    bool
	Solid      bool
	Persistent bool

	TimelineIndex    ID
	TimelinePosition float64
	TimelineSpeed    float64
	TimelineRunning  bool
	TimelineLoop     bool

	Alarms map[int32]int32
	Fields map[int32]Field
}

// NewInstance returns an Instance with the lifecycle/scale defaults GM8
// assigns a freshly created object: active, fully scaled, fully opaque.
func NewInstance(id, object ID, parents []ID) Instance {
	return Instance{
		InstID:     id,
		Object:     object,
		Parents:    parents,
		State:      Active,
		Depth:      0,
		XScale:     1,
		YScale:     1,
		ImageAlpha: 1,
		ImageBlend: 0xFFFFFF,
		Visible:    true,
		Alarms:     make(map[int32]int32),
		Fields:     make(map[int32]Field),
	}
}

// IsActive reports whether the instance is neither inactive nor deleted.
func (inst *Instance) IsActive() bool { return inst.State == Active }

// depthLess implements the NaN-first total order draw_sort needs: NaN sorts
// before every finite depth, and among finite depths the larger one (drawn
// further back) sorts first.
func depthLess(a, b float64) bool {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return false
	case aNaN:
		return true
	case bNaN:
		return false
	default:
		return a > b
	}
}
