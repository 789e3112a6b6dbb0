package instlist

import (
	"math"
	"testing"
)

func TestSlabStability(t *testing.T) {
	cl := NewChunkList[int]()
	var handles []int
	for i := 0; i < 300; i++ {
		handles = append(handles, cl.Insert(i))
	}
	// Remove every third handle, then reinsert and make sure the survivors
	// still read back their original values.
	for i := 0; i < len(handles); i += 3 {
		cl.Remove(handles[i])
	}
	for i := 0; i < 100; i++ {
		cl.Insert(-1)
	}
	for i, h := range handles {
		if i%3 == 0 {
			continue
		}
		got, ok := cl.Get(h)
		if !ok || got != i {
			t.Fatalf("handle %d: got (%v,%v), want (%d,true)", h, got, ok, i)
		}
	}
}

func TestDepthSortTotality(t *testing.T) {
	s := NewStore()
	depths := []float64{1.0, math.NaN(), -2.0, math.NaN(), 1.0}
	var handles []Handle
	for _, d := range depths {
		h := s.Insert(NewInstance(ID(len(handles)+1), 1, nil))
		s.SetDepth(h, d)
		handles = append(handles, h)
	}
	s.DrawSort()
	wantOrder := []Handle{handles[1], handles[3], handles[0], handles[4], handles[2]}
	for i, h := range wantOrder {
		if s.drawOrder[i] != h {
			t.Fatalf("position %d: got handle %d, want %d", i, s.drawOrder[i], h)
		}
	}
}

func TestIteratorIsolation(t *testing.T) {
	s := NewStore()
	h1 := s.Insert(NewInstance(1, 1, nil))
	h2 := s.Insert(NewInstance(2, 1, nil))

	it := s.IterDrawing()
	first, ok := it.Next(s)
	if !ok || first != h1 {
		t.Fatalf("expected first handle %d, got %d ok=%v", h1, first, ok)
	}

	// Insert after the cursor started: must not be visited.
	h3 := s.Insert(NewInstance(3, 1, nil))

	second, ok := it.Next(s)
	if !ok || second != h2 {
		t.Fatalf("expected second handle %d, got %d ok=%v", h2, second, ok)
	}
	if _, ok := it.Next(s); ok {
		t.Fatalf("cursor should be exhausted, must not see handle inserted mid-iteration (%d)", h3)
	}

	// Deactivating a yet-unvisited handle skips it without breaking the cursor.
	it2 := s.IterDrawing()
	s.Deactivate(h2)
	got, ok := it2.Next(s)
	if !ok || got != h1 {
		t.Fatalf("expected %d, got %d ok=%v", h1, got, ok)
	}
	got, ok = it2.Next(s)
	if !ok || got != h3 {
		t.Fatalf("expected deactivated handle %d skipped, landed on %d ok=%v", h2, got, ok)
	}
	if _, ok := it2.Next(s); ok {
		t.Fatalf("cursor should be exhausted")
	}
}

func TestInheritIndexCompleteness(t *testing.T) {
	s := NewStore()
	h := s.Insert(NewInstance(10, 5, []ID{1, 2, 3}))
	for _, p := range []ID{1, 2, 3} {
		bucket := s.byObjectInherit[p]
		count := 0
		for _, hh := range bucket {
			if hh == h {
				count++
			}
		}
		if count != 1 {
			t.Fatalf("handle should appear exactly once under parent %d, got %d", p, count)
		}
	}
	s.RefreshMaps()
	for _, p := range []ID{1, 2, 3} {
		bucket := s.byObjectInherit[p]
		count := 0
		for _, hh := range bucket {
			if hh == h {
				count++
			}
		}
		if count != 1 {
			t.Fatalf("refresh_maps not idempotent: parent %d has count %d", p, count)
		}
	}
}

func TestSavestateRoundTrip(t *testing.T) {
	s := NewStore()
	s.Insert(NewInstance(1, 3, nil))
	s.Insert(NewInstance(2, 3, nil))
	h3 := s.Insert(NewInstance(3, 5, []ID{3}))
	s.SetDepth(h3, 2.5)
	s.DrawSort()

	snap := s.Save()
	s2 := Load(snap)

	it1, it2 := s.IterDrawing(), s2.IterDrawing()
	for {
		h1, ok1 := it1.Next(s)
		h2, ok2 := it2.Next(s2)
		if ok1 != ok2 {
			t.Fatalf("iterator length mismatch")
		}
		if !ok1 {
			break
		}
		i1, i2 := s.Get(h1), s2.Get(h2)
		if i1.InstID != i2.InstID || i1.Object != i2.Object {
			t.Fatalf("round trip mismatch: %+v vs %+v", i1, i2)
		}
	}
	if s2.Count(3) != s.Count(3) {
		t.Fatalf("count(3) mismatch after round trip: %d vs %d", s2.Count(3), s.Count(3))
	}
	if s2.CountInherited(3) != s.CountInherited(3) {
		t.Fatalf("count_inherited(3) mismatch after round trip")
	}
}

// S1: object ids [3,3,5], ancestors [[], [], [3]].
func TestScenarioS1(t *testing.T) {
	s := NewStore()
	first := s.Insert(NewInstance(100, 3, nil))
	s.Insert(NewInstance(101, 3, nil))
	s.Insert(NewInstance(102, 5, []ID{3}))

	if got := s.Count(3); got != 3 {
		t.Fatalf("count(3) = %d, want 3", got)
	}
	if got := s.Count(5); got != 1 {
		t.Fatalf("count(5) = %d, want 1", got)
	}
	firstInst := s.Get(first)
	if got := s.InstanceAt(0); got != firstInst.InstID {
		t.Fatalf("instance_at(0) = %d, want %d", got, firstInst.InstID)
	}
}

// S3: 256 inserts, remove handles {0,128,255}, next three inserts reuse
// them in that order.
func TestScenarioS3(t *testing.T) {
	cl := NewChunkList[int]()
	var handles []int
	for i := 0; i < 256; i++ {
		handles = append(handles, cl.Insert(i))
	}
	for _, idx := range []int{0, 128, 255} {
		cl.Remove(handles[idx])
	}
	var reused []int
	for i := 0; i < 3; i++ {
		reused = append(reused, cl.Insert(9000+i))
	}
	want := []int{handles[0], handles[128], handles[255]}
	for i, h := range reused {
		if h != want[i] {
			t.Fatalf("reinsert %d: got handle %d, want %d", i, h, want[i])
		}
	}
}
