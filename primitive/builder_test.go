package primitive

import "testing"

func pushN(b *Builder, n int) {
	for i := 0; i < n; i++ {
		b.Push([3]float32{float32(i), 0, 0}, [2]float32{0, 0}, [4]float32{1, 1, 1, 1}, [3]float32{0, 0, 1})
	}
}

// Expansion counts for N raw pushes: TriStrip/TriFan produce 3(N-2)
// vertices, LineStrip produces 2(N-1).
func TestExpansionCounts(t *testing.T) {
	for _, n := range []int{3, 4, 5, 8} {
		ts := NewBuilder(TriStrip, [4]float32{})
		pushN(ts, n)
		if want := 3 * (n - 2); len(ts.Vertices()) != want {
			t.Fatalf("TriStrip n=%d: got %d vertices, want %d", n, len(ts.Vertices()), want)
		}

		tf := NewBuilder(TriFan, [4]float32{})
		pushN(tf, n)
		if want := 3 * (n - 2); len(tf.Vertices()) != want {
			t.Fatalf("TriFan n=%d: got %d vertices, want %d", n, len(tf.Vertices()), want)
		}

		ls := NewBuilder(LineStrip, [4]float32{})
		pushN(ls, n)
		if want := 2 * (n - 1); len(ls.Vertices()) != want {
			t.Fatalf("LineStrip n=%d: got %d vertices, want %d", n, len(ls.Vertices()), want)
		}
	}
}

func TestListTypesPassThrough(t *testing.T) {
	for _, typ := range []Type{PointList, LineList, TriList} {
		b := NewBuilder(typ, [4]float32{})
		pushN(b, 5)
		if len(b.Vertices()) != 5 {
			t.Fatalf("%v: got %d vertices, want 5", typ, len(b.Vertices()))
		}
	}
}

func TestTriFanSeedRotation(t *testing.T) {
	b := NewBuilder(TriFan, [4]float32{})
	var pushed []Vertex
	for i := 0; i < 3; i++ {
		v := Vertex{Pos: [3]float32{float32(i), 0, 0}}
		pushed = append(pushed, v)
		b.Push(v.Pos, v.UV, v.Blend, v.Normal)
	}
	got := b.Vertices()
	if len(got) != 3 {
		t.Fatalf("expected 3 vertices after seed triangle, got %d", len(got))
	}
	// left-rotate by one: [0,1,2] -> [1,2,0]
	want := []Vertex{pushed[1], pushed[2], pushed[0]}
	for i := range want {
		if got[i].Pos != want[i].Pos {
			t.Fatalf("seed rotation mismatch at %d: got %v want %v", i, got[i].Pos, want[i].Pos)
		}
	}
}

func TestShapeBuilderClosesOutline(t *testing.T) {
	sb := NewShapeBuilder(true, [4]float32{}, 1, 0)
	sb.PushPoint(0, 0, 0xffffff)
	sb.PushPoint(1, 0, 0xffffff)
	sb.PushPoint(1, 1, 0xffffff)
	b := sb.Build()
	// 3 raw points on a LineStrip already expand to 2*(3-1)=4, plus the
	// closing segment back to the first point adds 2 more.
	if got := len(b.Vertices()); got != 6 {
		t.Fatalf("got %d vertices, want 6", got)
	}
}

func TestRoundRectDegeneratesNoOutlineCenterFirst(t *testing.T) {
	sb := NewShapeBuilder(false, [4]float32{}, 1, 0)
	RoundRect(sb, 0, 0, 20, 20, 0xff0000, 0x00ff00, ClampCirclePrecision(24))
	b := sb.Build()
	if len(b.Vertices()) == 0 {
		t.Fatalf("expected vertices from RoundRect")
	}
}

func TestClampCirclePrecision(t *testing.T) {
	cases := map[int]int{0: 4, 1: 4, 4: 4, 5: 4, 8: 8, 24: 24, 25: 24, 64: 64, 100: 64}
	for in, want := range cases {
		if got := ClampCirclePrecision(in); got != want {
			t.Fatalf("ClampCirclePrecision(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestTiledSpriteOrigin(t *testing.T) {
	if got := TiledSpriteOrigin(5, 10, false); got != 5 {
		t.Fatalf("non-tiled should pass through unchanged, got %v", got)
	}
	if got := TiledSpriteOrigin(25, 10, true); got != -5 {
		t.Fatalf("TiledSpriteOrigin(25,10,true) = %v, want -5", got)
	}
	if got := TiledSpriteOrigin(-5, 10, true); got != -5 {
		t.Fatalf("TiledSpriteOrigin(-5,10,true) = %v, want -5", got)
	}
}
