package instlist

import "sort"

// Handle is an opaque index into a Store's chunked slab, stable until the
// instance it names is removed.
type Handle = int

// Store is a chunked slab of Instances plus three indexes over it: the
// draw-order list (also the basis for savestate rank remapping), a direct
// object-id index, and a parent-inclusive object-id index. It is singly
// owned and single-threaded: cursors (Iter*) hold no borrow between Next
// calls, so mutating the store between calls is legal and expected.
type Store struct {
	chunks             *ChunkList[Instance]
	drawOrder          []Handle
	byObject           map[ID][]Handle
	byObjectInherit    map[ID][]Handle
}

// NewStore returns an empty instance store.
func NewStore() *Store {
	return &Store{
		chunks:          NewChunkList[Instance](),
		byObject:        make(map[ID][]Handle),
		byObjectInherit: make(map[ID][]Handle),
	}
}

// Get returns the instance at h. An invalid handle is a program error: GM8's
// own engine treats it the same way (a panicking unwrap), since a bad slab
// handle can only come from a bug in the caller, never from untrusted input.
func (s *Store) Get(h Handle) *Instance {
	inst, ok := s.chunks.Get(h)
	if !ok {
		panic("instlist: invalid instance handle")
	}
	// chunks.Get returns a copy; callers that need to mutate go through the
	// store's setters instead, so return a pointer into a throwaway copy is
	// safe for reads and deliberately not usable for a stash-and-mutate-later
	// pattern — see SetDepth/SetPosition etc. for the mutation path.
	return &inst
}

// mutate fetches, mutates via fn, and writes the instance back into its slot.
// It is the store-mediated substitute for Rust's Cell-based interior
// mutability: every exported setter below is built on this helper.
func (s *Store) mutate(h Handle, fn func(*Instance)) {
	inst, ok := s.chunks.Get(h)
	if !ok {
		panic("instlist: invalid instance handle")
	}
	fn(&inst)
	div, mod := h/chunkSize, h%chunkSize
	s.chunks.chunks[div].slots[mod].val = inst
}

// SetDepth overwrites an instance's depth, read back by DrawSort.
func (s *Store) SetDepth(h Handle, depth float64) { s.mutate(h, func(i *Instance) { i.Depth = depth }) }

// SetPosition overwrites an instance's x/y, preserving the previous values
// the way GM8's motion step does each frame.
func (s *Store) SetPosition(h Handle, x, y float64) {
	s.mutate(h, func(i *Instance) {
		i.XPrevious, i.YPrevious = i.X, i.Y
		i.X, i.Y = x, y
	})
}

// GetByInstID linearly scans draw order for the first active instance whose
// InstID matches, matching GM8-observable semantics (duplicate ids are not
// expected, so a full scan costs nothing in practice).
func (s *Store) GetByInstID(id ID) (Handle, bool) {
	for _, h := range s.drawOrder {
		inst, ok := s.chunks.Get(h)
		if ok && inst.InstID == id && inst.State == Active {
			return h, true
		}
	}
	return 0, false
}

// Count returns the number of active instances of object_index itself
// (the direct index) plus every active instance whose class tree descends
// from it (the inherit index) — see SPEC_FULL.md §4.2 for why this
// rendition resolves the spec's open question toward GM8's historically
// observed instance_number behaviour, which counts subclassed instances
// along with direct ones. The two buckets are disjoint (an object's own id
// never appears in its own Parents), so no handle is double-counted.
func (s *Store) Count(object ID) int {
	n := 0
	for _, h := range s.byObject[object] {
		if inst, ok := s.chunks.Get(h); ok && inst.State == Active {
			n++
		}
	}
	for _, h := range s.byObjectInherit[object] {
		if inst, ok := s.chunks.Get(h); ok && inst.State == Active {
			n++
		}
	}
	return n
}

// CountInherited returns the active count of instances whose class tree
// descends from object, excluding direct members of object itself — the
// raw by_object_inherit bucket, for callers that need the two parts of
// Count's union separately.
func (s *Store) CountInherited(object ID) int {
	n := 0
	for _, h := range s.byObjectInherit[object] {
		if inst, ok := s.chunks.Get(h); ok && inst.State == Active {
			n++
		}
	}
	return n
}

// AnyActive reports whether any instance in draw order is currently active.
func (s *Store) AnyActive() bool {
	for _, h := range s.drawOrder {
		if inst, ok := s.chunks.Get(h); ok && inst.IsActive() {
			return true
		}
	}
	return false
}

// CountAllActive counts active instances across the whole draw order.
func (s *Store) CountAllActive() int {
	n := 0
	for _, h := range s.drawOrder {
		if inst, ok := s.chunks.Get(h); ok && inst.IsActive() {
			n++
		}
	}
	return n
}

// CountAll counts every non-inactive (active or deleted-but-not-yet-swept)
// instance across the draw order.
func (s *Store) CountAll() int {
	n := 0
	for _, h := range s.drawOrder {
		if inst, ok := s.chunks.Get(h); ok && inst.State != Inactive {
			n++
		}
	}
	return n
}

// InstanceAt returns the InstID of the n-th non-inactive instance in draw
// order, or NOONE if draw order has fewer than n+1 such instances.
func (s *Store) InstanceAt(n int) ID {
	count := 0
	for _, h := range s.drawOrder {
		inst, ok := s.chunks.Get(h)
		if !ok || inst.State == Inactive {
			continue
		}
		if count == n {
			return inst.InstID
		}
		count++
	}
	return NOONE
}

// DrawSort reorders draw order by depth descending with NaN depths first,
// stable among ties — the deterministic total order §8 property 2 checks.
func (s *Store) DrawSort() {
	sort.SliceStable(s.drawOrder, func(i, j int) bool {
		a, _ := s.chunks.Get(s.drawOrder[i])
		b, _ := s.chunks.Get(s.drawOrder[j])
		return depthLess(a.Depth, b.Depth)
	})
}

// Insert adds inst to the slab, appends its handle to draw order, and
// indexes it under its own object id and every ancestor id.
func (s *Store) Insert(inst Instance) Handle {
	h := s.chunks.Insert(inst)
	s.drawOrder = append(s.drawOrder, h)
	s.byObject[inst.Object] = append(s.byObject[inst.Object], h)
	for _, p := range inst.Parents {
		s.byObjectInherit[p] = append(s.byObjectInherit[p], h)
	}
	return h
}

// InsertDummy adds inst to the slab only, for transient objects that are
// never drawn or iterated (e.g. an object used purely as a script-side
// scratch record).
func (s *Store) InsertDummy(inst Instance) Handle { return s.chunks.Insert(inst) }

// RemoveDummy removes a slab-only entry created by InsertDummy.
func (s *Store) RemoveDummy(h Handle) { s.chunks.Remove(h) }

// RefreshMaps rebuilds both object-id indexes from the current draw order.
// Idempotent: running it twice in a row produces the same indexes, since it
// always starts from a clean map and walks the (unchanged) draw order.
func (s *Store) RefreshMaps() {
	s.byObject = make(map[ID][]Handle)
	s.byObjectInherit = make(map[ID][]Handle)
	for _, h := range s.drawOrder {
		inst, ok := s.chunks.Get(h)
		if !ok {
			continue
		}
		s.byObject[inst.Object] = append(s.byObject[inst.Object], h)
		for _, p := range inst.Parents {
			s.byObjectInherit[p] = append(s.byObjectInherit[p], h)
		}
	}
}

// Deactivate sets an active instance's state to Inactive. Indexes are left
// stale until RefreshMaps runs, matching the reference engine's two-phase
// activation-change protocol.
func (s *Store) Deactivate(h Handle) {
	s.mutate(h, func(i *Instance) {
		if i.State == Active {
			i.State = Inactive
		}
	})
}

// Activate sets an inactive instance's state back to Active.
func (s *Store) Activate(h Handle) {
	s.mutate(h, func(i *Instance) {
		if i.State == Inactive {
			i.State = Active
		}
	})
}

// MarkDeleted marks an instance Deleted without removing it from the slab;
// a later RemoveWith(isDeleted) performs the physical sweep.
func (s *Store) MarkDeleted(h Handle) {
	s.mutate(h, func(i *Instance) {
		if i.State != Deleted {
			i.State = Deleted
		}
	})
}

// RemoveWith physically deletes every instance matching pred, compacting
// draw order and refreshing both indexes if anything was removed.
func (s *Store) RemoveWith(pred func(*Instance) bool) int {
	n := s.chunks.RemoveWith(func(i Instance) bool { return pred(&i) })
	if n > 0 {
		s.compactDrawOrder()
		s.RefreshMaps()
	}
	return n
}

// RemoveAsVec physically deletes every instance matching pred and returns
// the removed instances, compacting indexes the same way as RemoveWith.
func (s *Store) RemoveAsVec(pred func(*Instance) bool) []Instance {
	removed := s.chunks.RemoveAsVec(func(i Instance) bool { return pred(&i) })
	if len(removed) > 0 {
		s.compactDrawOrder()
		s.RefreshMaps()
	}
	return removed
}

func (s *Store) compactDrawOrder() {
	kept := s.drawOrder[:0]
	for _, h := range s.drawOrder {
		if _, ok := s.chunks.Get(h); ok {
			kept = append(kept, h)
		}
	}
	s.drawOrder = kept
}
