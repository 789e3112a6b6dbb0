package glrender

import (
	"github.com/go-gl/gl/v4.6-core/gl"
)

// SetTarget redirects drawing to a surface's dedicated FBO, matching
// set_target: the queue is flushed first so prior draws land on the
// previous target, then viewport/scissor are sized to the surface and an
// orthographic projection is installed over it (GM8 always draws into a
// surface un-rotated, at identity scale). A no-op if ref doesn't name a
// surface (has no FBO).
func SetTarget(atlases *AtlasRegistry, state *StateCache, batch *Batcher, ref AtlasRef) {
	batch.Flush()
	fbo, ok := atlases.FBO(ref)
	if !ok {
		return
	}
	rect, ok := atlases.Rect(ref)
	if !ok {
		return
	}
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fbo)
	gl.Viewport(rect.X, rect.Y, rect.W, rect.H)
	gl.Scissor(rect.X, rect.Y, rect.W, rect.H)
	state.SetViewport(int(rect.W), int(rect.H))
	state.SetProjectionOrtho(float64(rect.X), float64(rect.Y), float64(rect.W), float64(rect.H), 0)
}

// ResetTarget redirects drawing back to the main render target, matching
// reset_target.
func ResetTarget(fbmgr *FramebufferManager, state *StateCache, batch *Batcher) {
	batch.Flush()
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fbmgr.Main.FBO)
	w, h := fbmgr.Size()
	gl.Viewport(0, 0, w, h)
	gl.Scissor(0, 0, w, h)
	state.SetViewport(int(w), int(h))
	state.SetProjectionOrtho(0, 0, float64(w), float64(h), 0)
}

// CopySurface blits a rect from src to dest, clipping both source and
// destination against their own bounds first — ported literally from
// copy_surface, including its left-to-right shrink-the-rect-as-you-go
// clamping order (src negative origin, src overflow, dest negative origin,
// dest overflow), since reordering those four clamps changes the result
// whenever both rects clip simultaneously.
func CopySurface(atlases *AtlasRegistry, dest AtlasRef, destX, destY int32, src AtlasRef, srcX, srcY, width, height int32) {
	srcRect, ok := atlases.Rect(src)
	if !ok {
		return
	}
	destRect, ok := atlases.Rect(dest)
	if !ok {
		return
	}

	if srcX < 0 {
		destX -= srcX
		width += srcX
		srcX = 0
	}
	if srcY < 0 {
		destY -= srcY
		height += srcY
		srcY = 0
	}
	if srcX+width > srcRect.W {
		width = srcRect.W - srcX
	}
	if srcY+height > srcRect.H {
		height = srcRect.H - srcY
	}
	if destX < 0 {
		srcX -= destX
		width += destX
		destX = 0
	}
	if destY < 0 {
		srcY -= destY
		height += destY
		destY = 0
	}
	if destX+width > destRect.W {
		width = destRect.W - destX
	}
	if destY+height > destRect.H {
		height = destRect.H - destY
	}
	if width <= 0 || height <= 0 {
		return
	}

	srcFBO, ok := atlases.FBO(src)
	if !ok {
		return
	}
	destFBO, ok := atlases.FBO(dest)
	if !ok {
		return
	}

	// On Intel, BlitFramebuffer silently no-ops if the scissor box is too
	// big, so the scissor test is disabled for the duration of the blit.
	gl.Disable(gl.SCISSOR_TEST)
	var prevFBO int32
	gl.GetIntegerv(gl.DRAW_FRAMEBUFFER_BINDING, &prevFBO)

	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, destFBO)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, srcFBO)
	gl.BlitFramebuffer(srcX, srcY, srcX+width, srcY+height, destX, destY, destX+width, destY+height,
		gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, uint32(prevFBO))

	gl.Enable(gl.SCISSOR_TEST)
}

// DumpSpritePart reads back part_x/part_y/part_w/part_h of ref's rect as
// RGBA bytes, matching dump_sprite_part.
func DumpSpritePart(atlases *AtlasRegistry, ref AtlasRef, partX, partY, partW, partH int32) []byte {
	rect, ok := atlases.Rect(ref)
	if !ok {
		return nil
	}
	fbo, ok := atlases.FBO(ref)
	if !ok {
		// A sprite with no FBO of its own is read through a temporary one
		// attached to the texture that holds its rect.
		tex := atlases.Texture(rect.AtlasID)
		if tex == 0 {
			return nil
		}
		gl.GenFramebuffers(1, &fbo)
		defer gl.DeleteFramebuffers(1, &fbo)
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fbo)
		gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	}
	data := make([]byte, partW*partH*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fbo)
	gl.ReadPixels(rect.X+partX, rect.Y+partY, partW, partH, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(data))
	return data
}

// DumpSprite reads back ref's whole rect as RGBA bytes.
func DumpSprite(atlases *AtlasRegistry, ref AtlasRef) []byte {
	rect, ok := atlases.Rect(ref)
	if !ok {
		return nil
	}
	return DumpSpritePart(atlases, ref, 0, 0, rect.W, rect.H)
}
