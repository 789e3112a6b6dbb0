package glrender

import (
	"github.com/go-gl/gl/v4.6-core/gl"
)

// Framebuffer is one RGBA colour texture + depth texture pair wrapped in an
// FBO, the shape GM8's main render target, its optional savestate-stored
// copy, and create_surface's dedicated surfaces all share.
type Framebuffer struct {
	Texture uint32
	Zbuf    uint32
	FBO     uint32
}

// FramebufferManager owns the engine's single main render target plus an
// optional stored copy (the "application surface" GM8 keeps across a
// resolution change when store=true), ported from opengl.rs's
// resize_framebuffer/get_pixels/stored_pixels/stored_zbuffer/set_stored.
type FramebufferManager struct {
	Main       Framebuffer
	Stored     *Framebuffer
	width, height int32
	zbufFormat int32
	zbufTrashed bool
}

// NewFramebufferManager allocates the main render target at width x height.
// zbuf24 selects a 24-bit depth format over 16-bit, matching GM8's
// zb_trilinear_filtering-adjacent "zbuf_24" option.
func NewFramebufferManager(width, height int32, zbuf24 bool) *FramebufferManager {
	format := int32(gl.DEPTH_COMPONENT16)
	if zbuf24 {
		format = gl.DEPTH_COMPONENT24
	}
	fm := &FramebufferManager{width: width, height: height, zbufFormat: format}
	fm.Main = newFramebuffer(width, height, format, gl.LINEAR)
	return fm
}

func newFramebuffer(width, height, zbufFormat int32, filter int32) Framebuffer {
	var fb Framebuffer
	gl.GenTextures(1, &fb.Texture)
	gl.BindTexture(gl.TEXTURE_2D, fb.Texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	gl.GenTextures(1, &fb.Zbuf)
	gl.BindTexture(gl.TEXTURE_2D, fb.Zbuf)
	gl.TexImage2D(gl.TEXTURE_2D, 0, zbufFormat, width, height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)

	gl.GenFramebuffers(1, &fb.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.FBO)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.Texture, 0)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, fb.Zbuf, 0)
	return fb
}

func deleteFramebuffer(fb Framebuffer) {
	gl.DeleteTextures(1, &fb.Texture)
	gl.DeleteTextures(1, &fb.Zbuf)
	gl.DeleteFramebuffers(1, &fb.FBO)
}

// Size returns the main render target's current dimensions.
func (fm *FramebufferManager) Size() (int32, int32) { return fm.width, fm.height }

// Resize reallocates the main render target at width x height, blitting the
// old contents (clamped to the overlap) into the new one. If store is true
// the previous texture/FBO triple is kept as Stored (replacing any earlier
// one) instead of being deleted — GM8 uses this to preserve the pre-resize
// frame across a resolution change until the next draw.
func (fm *FramebufferManager) Resize(width, height int32, store bool) {
	old := fm.Main
	fm.Main = newFramebuffer(width, height, fm.zbufFormat, gl.LINEAR)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, old.FBO)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fm.Main.FBO)
	copyW, copyH := width, height
	if fm.width < copyW {
		copyW = fm.width
	}
	if fm.height < copyH {
		copyH = fm.height
	}
	gl.BlitFramebuffer(0, 0, copyW, copyH, 0, 0, copyW, copyH, gl.COLOR_BUFFER_BIT|gl.DEPTH_BUFFER_BIT, gl.NEAREST)

	if store {
		if fm.Stored != nil {
			deleteFramebuffer(*fm.Stored)
		}
		fm.Stored = &old
	} else {
		deleteFramebuffer(old)
	}
	fm.width, fm.height = width, height
}

// SetZBufTrashed toggles whether the main target's depth attachment is
// detached (trashed=true, the state GM8 enters after a zbuffer-destroying
// operation) or reattached, matching set_zbuf_trashed.
func (fm *FramebufferManager) SetZBufTrashed(trashed bool) {
	if trashed == fm.zbufTrashed {
		return
	}
	fm.zbufTrashed = trashed
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fm.Main.FBO)
	tex := fm.Main.Zbuf
	if trashed {
		tex = 0
	}
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, tex, 0)
}

// ZBufTrashed reports the current trashed state.
func (fm *FramebufferManager) ZBufTrashed() bool { return fm.zbufTrashed }

// GetPixels reads an RGBA rect back from the main render target.
func (fm *FramebufferManager) GetPixels(x, y, w, h int32) []byte {
	data := make([]byte, w*h*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fm.Main.FBO)
	gl.ReadPixels(x, y, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(data))
	return data
}

// StoredSize returns the stored framebuffer's dimensions, or the main
// target's if nothing has been stored yet.
func (fm *FramebufferManager) StoredSize() (int32, int32) {
	if fm.Stored == nil {
		return fm.width, fm.height
	}
	var w, h int32
	gl.BindTexture(gl.TEXTURE_2D, fm.Stored.Texture)
	gl.GetTexLevelParameteriv(gl.TEXTURE_2D, 0, gl.TEXTURE_WIDTH, &w)
	gl.GetTexLevelParameteriv(gl.TEXTURE_2D, 0, gl.TEXTURE_HEIGHT, &h)
	return w, h
}

// StoredPixels reads back the stored framebuffer's RGBA contents, falling
// back to the main target if nothing is stored.
func (fm *FramebufferManager) StoredPixels() []byte {
	fb := fm.Main
	if fm.Stored != nil {
		fb = *fm.Stored
	}
	w, h := fm.StoredSize()
	data := make([]byte, w*h*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.FBO)
	gl.ReadPixels(0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(data))
	return data
}

// StoredZBuffer reads back the stored framebuffer's depth contents as
// normalized floats, falling back to the main target if nothing is stored.
func (fm *FramebufferManager) StoredZBuffer() []float32 {
	fb := fm.Main
	if fm.Stored != nil {
		fb = *fm.Stored
	}
	var w, h int32
	gl.BindTexture(gl.TEXTURE_2D, fb.Zbuf)
	gl.GetTexLevelParameteriv(gl.TEXTURE_2D, 0, gl.TEXTURE_WIDTH, &w)
	gl.GetTexLevelParameteriv(gl.TEXTURE_2D, 0, gl.TEXTURE_HEIGHT, &h)
	data := make([]float32, w*h)
	gl.GetTexImage(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(data))
	return data
}

// SetStored replaces the stored framebuffer wholesale from a savestate's
// raw RGBA/depth data, matching set_stored.
func (fm *FramebufferManager) SetStored(rgba []byte, zbuf []float32, w, h int32) {
	var fb Framebuffer
	gl.GenTextures(1, &fb.Texture)
	gl.BindTexture(gl.TEXTURE_2D, fb.Texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))

	gl.GenTextures(1, &fb.Zbuf)
	gl.BindTexture(gl.TEXTURE_2D, fb.Zbuf)
	gl.TexImage2D(gl.TEXTURE_2D, 0, fm.zbufFormat, w, h, 0, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(zbuf))

	gl.GenFramebuffers(1, &fb.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.FBO)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.Texture, 0)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, fb.Zbuf, 0)

	if fm.Stored != nil {
		deleteFramebuffer(*fm.Stored)
	}
	fm.Stored = &fb
}

// Delete releases the main and (if present) stored framebuffers.
func (fm *FramebufferManager) Delete() {
	deleteFramebuffer(fm.Main)
	if fm.Stored != nil {
		deleteFramebuffer(*fm.Stored)
	}
}
