package instlist

// Snapshot is the on-disk shape of a Store: a dense instance sequence plus
// three rank-remapped indexes, so that reinserting Chunks in order and
// replaying DrawOrder/ObjectIDMap/ObjectIDMapInherit reproduces the same
// logical ordering independent of how fragmented the live slab was.
//
// Rank(h) = |{h' in draw order : h' < h}|. Because Load reinserts Chunks
// densely (slab index i is assigned to Chunks[i], in order), a rank value
// equals the slab index its handle will have after reload, provided no
// slab-only ("dummy") entries fall between it and an earlier draw-order
// member in slab order. InsertDummy exists exactly for instances meant
// never to be visible, so in practice a dummy handle is never alive across
// a save/load boundary.
type Snapshot struct {
	Chunks             []Instance
	DrawOrder          []int
	ObjectIDMap        map[ID][]int
	ObjectIDMapInherit map[ID][]int
}

// Save captures the store's current state as a Snapshot.
func (s *Store) Save() Snapshot {
	rank := func(h Handle) int {
		n := 0
		for _, other := range s.drawOrder {
			if other < h {
				n++
			}
		}
		return n
	}
	drawRanks := make([]int, len(s.drawOrder))
	for i, h := range s.drawOrder {
		drawRanks[i] = rank(h)
	}
	remapBuckets := func(m map[ID][]Handle) map[ID][]int {
		out := make(map[ID][]int, len(m))
		for obj, handles := range m {
			ranks := make([]int, len(handles))
			for i, h := range handles {
				ranks[i] = rank(h)
			}
			out[obj] = ranks
		}
		return out
	}
	return Snapshot{
		Chunks:             s.chunks.Dense(),
		DrawOrder:          drawRanks,
		ObjectIDMap:        remapBuckets(s.byObject),
		ObjectIDMapInherit: remapBuckets(s.byObjectInherit),
	}
}

// Load reconstructs a Store from a Snapshot by reinserting every chunk
// entry in order (which produces contiguous slab indices) and replaying
// the rank-remapped indexes as the new handles directly.
func Load(snap Snapshot) *Store {
	s := NewStore()
	for _, inst := range snap.Chunks {
		s.chunks.Insert(inst)
	}
	s.drawOrder = append([]Handle(nil), snap.DrawOrder...)
	s.byObject = make(map[ID][]Handle, len(snap.ObjectIDMap))
	for obj, ranks := range snap.ObjectIDMap {
		s.byObject[obj] = append([]Handle(nil), ranks...)
	}
	s.byObjectInherit = make(map[ID][]Handle, len(snap.ObjectIDMapInherit))
	for obj, ranks := range snap.ObjectIDMapInherit {
		s.byObjectInherit[obj] = append([]Handle(nil), ranks...)
	}
	return s
}
