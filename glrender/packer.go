package glrender

// packer is an original shelf-packing rectangle allocator: no repo in the
// example corpus ships an importable rectangle packer, so atlas packing is
// implemented directly here rather than pulled in from elsewhere (see
// SPEC_FULL.md §11). It packs left-to-right along growing shelves and starts
// a new shelf when a rect doesn't fit the current one, which is sufficient
// for GM8's atlas contents (a modest number of sprite frames packed once at
// startup, never repacked at runtime).
type packer struct {
	width, height int32

	shelfY      int32
	shelfHeight int32
	cursorX     int32
}

func newPacker(width, height int32) *packer {
	return &packer{width: width, height: height}
}

// pack finds room for a w x h rect, starting a new shelf if it doesn't fit
// the remaining width of the current one, and reports ok=false if it doesn't
// fit anywhere in the atlas (caller starts a new atlas page in that case).
func (p *packer) pack(w, h int32) (x, y int32, ok bool) {
	if w > p.width || h > p.height {
		return 0, 0, false
	}
	if p.cursorX+w > p.width {
		p.shelfY += p.shelfHeight
		p.cursorX = 0
		p.shelfHeight = 0
	}
	if p.shelfY+h > p.height {
		return 0, 0, false
	}
	x, y = p.cursorX, p.shelfY
	p.cursorX += w
	if h > p.shelfHeight {
		p.shelfHeight = h
	}
	return x, y, true
}
