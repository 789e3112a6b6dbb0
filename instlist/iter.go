package instlist

// Every iterator here is a non-borrowing cursor: it owns only its position
// and a length snapshot taken at construction, and each Next call takes the
// store by pointer rather than holding one across calls. That lets a script
// mutate other instances mid-iteration — insert, deactivate, delete — and
// still get documented, not undefined, behaviour: instances created after
// the cursor started are invisible to it (the snapshot length), and a
// handle deactivated before the cursor reaches it is skipped without
// disturbing the cursor's position.

// IterDraw walks draw order, yielding active instances only.
type IterDraw struct {
	pos, limit int
}

// IterDrawing returns a cursor over every active instance in current draw
// order, as of this call.
func (s *Store) IterDrawing() IterDraw { return IterDraw{limit: len(s.drawOrder)} }

// Next returns the next active handle, or false when the cursor is exhausted.
func (it *IterDraw) Next(s *Store) (Handle, bool) {
	for it.pos < it.limit {
		h := s.drawOrder[it.pos]
		it.pos++
		if inst, ok := s.chunks.Get(h); ok && inst.State == Active {
			return h, true
		}
	}
	return 0, false
}

// IterInactive walks draw order, yielding inactive instances only.
type IterInactive struct {
	pos, limit int
}

// IterInactiveInstances returns a cursor over every inactive instance in
// current draw order, as of this call.
func (s *Store) IterInactiveInstances() IterInactive { return IterInactive{limit: len(s.drawOrder)} }

// Next returns the next inactive handle, or false when exhausted.
func (it *IterInactive) Next(s *Store) (Handle, bool) {
	for it.pos < it.limit {
		h := s.drawOrder[it.pos]
		it.pos++
		if inst, ok := s.chunks.Get(h); ok && inst.State == Inactive {
			return h, true
		}
	}
	return 0, false
}

// IterByObject walks an object's direct-membership bucket in insertion
// order, yielding active instances only.
type IterByObject struct {
	object     ID
	pos, limit int
}

// IterByObjectID returns a cursor over object's direct-membership bucket.
func (s *Store) IterByObjectID(object ID) IterByObject {
	return IterByObject{object: object, limit: len(s.byObject[object])}
}

// Next returns the next active handle under the object's direct index.
func (it *IterByObject) Next(s *Store) (Handle, bool) {
	bucket := s.byObject[it.object]
	for it.pos < it.limit && it.pos < len(bucket) {
		h := bucket[it.pos]
		it.pos++
		if inst, ok := s.chunks.Get(h); ok && inst.State == Active {
			return h, true
		}
	}
	return 0, false
}

// IterByIdentity walks an object's parent-inclusive bucket in insertion
// order, yielding active instances only.
type IterByIdentity struct {
	object     ID
	pos, limit int
}

// IterByIdentityID returns a cursor over object's parent-inclusive bucket.
func (s *Store) IterByIdentityID(object ID) IterByIdentity {
	return IterByIdentity{object: object, limit: len(s.byObjectInherit[object])}
}

// Next returns the next active handle under the object's inherit index.
func (it *IterByIdentity) Next(s *Store) (Handle, bool) {
	bucket := s.byObjectInherit[it.object]
	for it.pos < it.limit && it.pos < len(bucket) {
		h := bucket[it.pos]
		it.pos++
		if inst, ok := s.chunks.Get(h); ok && inst.State == Active {
			return h, true
		}
	}
	return 0, false
}
