// Package instlist implements the chunked slab and depth-sorted instance
// store that drive a GameMaker-8-style scene: a stable-handle store of game
// objects indexed three ways (draw order, direct object-id buckets, and
// parent-inclusive object-id buckets) plus the cursor iterators that walk it
// while scripts mutate other instances mid-step.
package instlist

// chunkSize is the fixed slot count of a single Chunk. Chosen to match the
// slab size GM8's own instance list used; get/insert both divide and modulo
// by this constant so the compiler can fold the pair into one division.
const chunkSize = 256

// chunksPreallocated is how many empty chunks a new ChunkList starts with.
const chunksPreallocated = 8

type slot[T any] struct {
	val      T
	occupied bool
}

type chunk[T any] struct {
	slots  [chunkSize]slot[T]
	vacant int
}

func newChunk[T any]() *chunk[T] {
	return &chunk[T]{vacant: chunkSize}
}

// ChunkList is a growable sequence of fixed-size chunks providing stable
// integer handles: Insert never moves an existing element, so a handle
// returned by Insert stays valid until the corresponding Remove.
type ChunkList[T any] struct {
	chunks []*chunk[T]
}

// NewChunkList returns a ChunkList preallocated with chunksPreallocated empty
// chunks, mirroring the teacher's own generic-constructor idiom
// (glgl.NewShaderStorageBuffer[T any]) applied to slab storage instead of a
// GPU buffer.
func NewChunkList[T any]() *ChunkList[T] {
	cl := &ChunkList[T]{chunks: make([]*chunk[T], 0, chunksPreallocated)}
	for i := 0; i < chunksPreallocated; i++ {
		cl.chunks = append(cl.chunks, newChunk[T]())
	}
	return cl
}

// Get returns the value at idx and whether it is present. A handle that
// indexes past the allocated chunks, or an unoccupied slot, reports ok=false.
func (cl *ChunkList[T]) Get(idx int) (val T, ok bool) {
	div, mod := idx/chunkSize, idx%chunkSize
	if div < 0 || div >= len(cl.chunks) {
		return val, false
	}
	s := &cl.chunks[div].slots[mod]
	if !s.occupied {
		return val, false
	}
	return s.val, true
}

// Insert places t in the first vacant slot of the first chunk with spare
// vacancy, appending a new chunk if every existing chunk is full, and
// returns the slab index t now occupies.
func (cl *ChunkList[T]) Insert(t T) int {
	for ci, c := range cl.chunks {
		if c.vacant == 0 {
			continue
		}
		for si := range c.slots {
			if !c.slots[si].occupied {
				c.slots[si] = slot[T]{val: t, occupied: true}
				c.vacant--
				return ci*chunkSize + si
			}
		}
		panic("instlist: chunk reports vacancy but has no free slot")
	}
	c := newChunk[T]()
	c.slots[0] = slot[T]{val: t, occupied: true}
	c.vacant--
	cl.chunks = append(cl.chunks, c)
	return (len(cl.chunks) - 1) * chunkSize
}

// Remove clears the slot at idx, if any, and increments its chunk's vacancy.
func (cl *ChunkList[T]) Remove(idx int) {
	div, mod := idx/chunkSize, idx%chunkSize
	if div < 0 || div >= len(cl.chunks) {
		return
	}
	c := cl.chunks[div]
	if c.slots[mod].occupied {
		var zero T
		c.slots[mod] = slot[T]{val: zero, occupied: false}
		c.vacant++
	}
}

// RemoveWith clears every occupied slot for which pred returns true and
// reports how many slots were cleared.
func (cl *ChunkList[T]) RemoveWith(pred func(T) bool) int {
	count := 0
	for _, c := range cl.chunks {
		for i := range c.slots {
			s := &c.slots[i]
			if s.occupied && pred(s.val) {
				var zero T
				*s = slot[T]{val: zero, occupied: false}
				c.vacant++
				count++
			}
		}
	}
	return count
}

// RemoveAsVec clears every occupied slot for which pred returns true and
// returns the removed values in slab order.
func (cl *ChunkList[T]) RemoveAsVec(pred func(T) bool) []T {
	var out []T
	for _, c := range cl.chunks {
		for i := range c.slots {
			s := &c.slots[i]
			if s.occupied && pred(s.val) {
				out = append(out, s.val)
				var zero T
				*s = slot[T]{val: zero, occupied: false}
				c.vacant++
			}
		}
	}
	return out
}

// Clear empties every chunk without deallocating them.
func (cl *ChunkList[T]) Clear() {
	for _, c := range cl.chunks {
		for i := range c.slots {
			var zero T
			c.slots[i] = slot[T]{val: zero, occupied: false}
		}
		c.vacant = chunkSize
	}
}

// Dense returns every occupied value in ascending slab-index order, the
// shape a savestate serializes: a flat sequence of present values with slab
// fragmentation removed.
func (cl *ChunkList[T]) Dense() []T {
	var out []T
	for _, c := range cl.chunks {
		for i := range c.slots {
			if c.slots[i].occupied {
				out = append(out, c.slots[i].val)
			}
		}
	}
	return out
}
