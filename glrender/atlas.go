package glrender

import (
	"github.com/go-gl/gl/v4.6-core/gl"
)

// SpriteImage is one sprite frame's raw RGBA pixels and hotspot, as handed to
// PushAtlases at startup — the static sprite set baked into the build, as
// opposed to a surface created or a sprite uploaded at runtime.
type SpriteImage struct {
	W, H       int32
	RGBA       []byte
	OriginX    float32
	OriginY    float32
}

// atlasPage is one packed GL texture shared by several stock sprites.
type atlasPage struct {
	id      uint32 // AtlasRect.AtlasID for every rect packed into this page
	texture uint32
	width, height int32
	pk      *packer
}

// slot is one entry of the registry's sparse AtlasRef vector. Stock sprites
// (from PushAtlases) share a page's texture; surfaces and runtime-uploaded
// sprites each own a dedicated texture, matching how GM8 itself only ever
// batches its static sprite set and always gives a user surface its own FBO.
type slot struct {
	rect         AtlasRect
	texture      uint32 // 0 for a stock slot: texture lives on the page instead
	fbo          uint32 // nonzero only for a surface
	depthTexture uint32 // nonzero only for a surface created with a depth buffer
	dedicated    bool
}

// AtlasRegistry owns every GL texture, FBO and depth attachment the renderer
// draws into or samples from: the packed stock sprite pages plus the sparse
// vector of dedicated surfaces and runtime-uploaded sprites. Grounded on
// opengl.rs's atlas/texture/FBO allocation (push_atlases, create_surface,
// upload_sprite, duplicate_sprite, delete_sprite) and render.rs's
// AtlasBuilder/SavedTexture for the dump/restore shape.
type AtlasRegistry struct {
	cfg   *Config
	pages []atlasPage
	slots []*slot

	whitePixel     AtlasRef
	pushed         bool
	maxTextureSize int32
}

// NewAtlasRegistry returns an empty registry. maxTextureSize should be read
// from GL_MAX_TEXTURE_SIZE (clamped on Intel, see MaxTextureSize) before
// PushAtlases runs, since page sizing depends on it.
func NewAtlasRegistry(cfg *Config, maxTextureSize int32) *AtlasRegistry {
	return &AtlasRegistry{cfg: cfg, maxTextureSize: maxTextureSize}
}

// PushAtlases packs every stock sprite into as few square pageSize textures
// as possible and uploads their pixels, reserving slot 0 as a 1x1 opaque
// white pixel used by untextured shape draws. It may be called exactly once;
// a second call returns ErrAlreadyPushed.
func (r *AtlasRegistry) PushAtlases(sprites []SpriteImage, pageSize int32) ([]AtlasRef, error) {
	if r.pushed {
		return nil, ErrAlreadyPushed
	}
	if pageSize > r.maxTextureSize {
		pageSize = r.maxTextureSize
	}
	r.pushed = true

	all := append([]SpriteImage{{W: 1, H: 1, RGBA: []byte{255, 255, 255, 255}}}, sprites...)
	refs := make([]AtlasRef, len(all))

	for i, sp := range all {
		ref, err := r.packIntoPage(sp, pageSize)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}
	r.whitePixel = refs[0]
	return refs[1:], nil
}

// WhitePixel returns the reserved 1x1 opaque white sprite every untextured
// shape draw samples, so a single fragment shader path serves both textured
// and flat-colour geometry.
func (r *AtlasRegistry) WhitePixel() AtlasRef { return r.whitePixel }

func (r *AtlasRegistry) packIntoPage(sp SpriteImage, pageSize int32) (AtlasRef, error) {
	for pi := range r.pages {
		page := &r.pages[pi]
		if x, y, ok := page.pk.pack(sp.W, sp.H); ok {
			uploadSubImage(page.texture, x, y, sp.W, sp.H, sp.RGBA)
			return r.addSlot(&slot{rect: AtlasRect{
				AtlasID: page.id, X: x, Y: y, W: sp.W, H: sp.H,
				OriginX: sp.OriginX / float32(sp.W), OriginY: sp.OriginY / float32(sp.H),
			}}), nil
		}
	}
	if sp.W > pageSize || sp.H > pageSize {
		return 0, ErrAtlasExhausted
	}
	page := r.newPage(pageSize, pageSize)
	x, y, ok := page.pk.pack(sp.W, sp.H)
	if !ok {
		return 0, ErrAtlasExhausted
	}
	uploadSubImage(page.texture, x, y, sp.W, sp.H, sp.RGBA)
	return r.addSlot(&slot{rect: AtlasRect{
		AtlasID: page.id, X: x, Y: y, W: sp.W, H: sp.H,
		OriginX: sp.OriginX / float32(sp.W), OriginY: sp.OriginY / float32(sp.H),
	}}), nil
}

func (r *AtlasRegistry) newPage(w, h int32) *atlasPage {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	r.pages = append(r.pages, atlasPage{
		id: uint32(len(r.pages)) + 1, texture: tex, width: w, height: h, pk: newPacker(w, h),
	})
	return &r.pages[len(r.pages)-1]
}

func uploadSubImage(tex uint32, x, y, w, h int32, rgba []byte) {
	gl.BindTexture(gl.TEXTURE_2D, tex)
	var ptr *byte
	if len(rgba) > 0 {
		ptr = &rgba[0]
	}
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, x, y, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(ptr))
}

// addSlot appends slot to the first free (nil) index, or to the end if none,
// and returns the AtlasRef it now occupies.
func (r *AtlasRegistry) addSlot(s *slot) AtlasRef {
	for i, existing := range r.slots {
		if existing == nil {
			r.slots[i] = s
			return AtlasRef(i)
		}
	}
	r.slots = append(r.slots, s)
	return AtlasRef(len(r.slots) - 1)
}

// CreateSurface allocates a dedicated RGBA8 colour texture, an FBO and,
// if hasZBuffer, a depth texture (16-bit unless cfg.ZBuf24 requests 24-bit;
// 24-bit when the registry has no Config),
// reusing the first free slot instead of growing the registry.
func (r *AtlasRegistry) CreateSurface(w, h int32, hasZBuffer bool) (AtlasRef, error) {
	var colour uint32
	gl.GenTextures(1, &colour)
	gl.BindTexture(gl.TEXTURE_2D, colour)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, colour, 0)

	var depthTex uint32
	if hasZBuffer {
		internal, format, xtype := uint32(gl.DEPTH_COMPONENT24), uint32(gl.DEPTH_COMPONENT), uint32(gl.UNSIGNED_INT)
		if r.cfg != nil && !r.cfg.ZBuf24 {
			internal, xtype = gl.DEPTH_COMPONENT16, gl.UNSIGNED_SHORT
		}
		gl.GenTextures(1, &depthTex)
		gl.BindTexture(gl.TEXTURE_2D, depthTex)
		gl.TexImage2D(gl.TEXTURE_2D, 0, int32(internal), w, h, 0, format, xtype, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, depthTex, 0)
	}
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return 0, ErrAllocFailed
	}

	pageID := r.dedicatedPageID()
	return r.addSlot(&slot{
		rect:         AtlasRect{AtlasID: pageID, X: 0, Y: 0, W: w, H: h},
		texture:      colour,
		fbo:          fbo,
		depthTexture: depthTex,
		dedicated:    true,
	}), nil
}

// dedicatedPageID mints a page id guaranteed not to collide with any shared
// stock page, so a dedicated slot's AtlasRect.AtlasID always resolves back
// to its own texture through Texture rather than a stock page's.
func (r *AtlasRegistry) dedicatedPageID() uint32 {
	return uint32(0x80000000) + uint32(len(r.slots))
}

// UploadSprite allocates a dedicated texture for a runtime-created sprite
// (e.g. sprite_add at script level), uploading pixels immediately.
func (r *AtlasRegistry) UploadSprite(pixels []byte, w, h int32, originX, originY float32) (AtlasRef, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	var ptr *byte
	if len(pixels) > 0 {
		ptr = &pixels[0]
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(ptr))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	return r.addSlot(&slot{
		rect: AtlasRect{
			AtlasID: r.dedicatedPageID(), X: 0, Y: 0, W: w, H: h, OriginX: originX / float32(w), OriginY: originY / float32(h),
		},
		texture:   tex,
		dedicated: true,
	}), nil
}

// DuplicateSprite copies ref's pixels into a brand new dedicated texture via
// CopyTexImage2D, used when a script duplicates a sprite or surface.
func (r *AtlasRegistry) DuplicateSprite(ref AtlasRef) (AtlasRef, error) {
	s, ok := r.slot(ref)
	if !ok {
		invalidHandle("DuplicateSprite")
	}
	srcTex := r.textureFor(s)

	var dstFBO uint32
	gl.GenFramebuffers(1, &dstFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, dstFBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, srcTex, 0)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.CopyTexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, s.rect.X, s.rect.Y, s.rect.W, s.rect.H, 0)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.DeleteFramebuffers(1, &dstFBO)

	return r.addSlot(&slot{
		rect:      AtlasRect{AtlasID: r.dedicatedPageID(), W: s.rect.W, H: s.rect.H, OriginX: s.rect.OriginX, OriginY: s.rect.OriginY},
		texture:   tex,
		dedicated: true,
	}), nil
}

// DeleteSprite frees ref's GL objects and clears its slot for reuse. A
// no-op on an already-free or stock slot: stock pages live for the
// registry's whole lifetime.
func (r *AtlasRegistry) DeleteSprite(ref AtlasRef) {
	s, ok := r.slot(ref)
	if !ok || !s.dedicated {
		return
	}
	if s.fbo != 0 {
		gl.DeleteFramebuffers(1, &s.fbo)
	}
	if s.depthTexture != 0 {
		gl.DeleteTextures(1, &s.depthTexture)
	}
	gl.DeleteTextures(1, &s.texture)
	r.slots[ref] = nil
}

// Rect returns ref's packed rectangle.
func (r *AtlasRegistry) Rect(ref AtlasRef) (AtlasRect, bool) {
	s, ok := r.slot(ref)
	if !ok {
		return AtlasRect{}, false
	}
	return s.rect, true
}

// Texture returns the GL texture id backing atlasID, resolving both shared
// stock pages and dedicated per-slot textures.
func (r *AtlasRegistry) Texture(atlasID uint32) uint32 {
	if atlasID&0x80000000 != 0 {
		for _, s := range r.slots {
			if s != nil && s.rect.AtlasID == atlasID {
				return s.texture
			}
		}
		return 0
	}
	for _, p := range r.pages {
		if p.id == atlasID {
			return p.texture
		}
	}
	return 0
}

func (r *AtlasRegistry) textureFor(s *slot) uint32 {
	if s.dedicated {
		return s.texture
	}
	return r.Texture(s.rect.AtlasID)
}

// FBO returns ref's framebuffer, if it is a surface.
func (r *AtlasRegistry) FBO(ref AtlasRef) (uint32, bool) {
	s, ok := r.slot(ref)
	if !ok || s.fbo == 0 {
		return 0, false
	}
	return s.fbo, true
}

// DepthTexture returns ref's depth attachment, if it has one.
func (r *AtlasRegistry) DepthTexture(ref AtlasRef) (uint32, bool) {
	s, ok := r.slot(ref)
	if !ok || s.depthTexture == 0 {
		return 0, false
	}
	return s.depthTexture, true
}

func (r *AtlasRegistry) slot(ref AtlasRef) (*slot, bool) {
	if int(ref) < 0 || int(ref) >= len(r.slots) || r.slots[ref] == nil {
		return nil, false
	}
	return r.slots[ref], true
}

// DumpDynamicTextures reads back every dedicated (non-stock) slot's pixels
// (and depth, if present) for savestate serialization. Stock sprites are
// never dumped: they're part of the build, not runtime state.
func (r *AtlasRegistry) DumpDynamicTextures() []SavedTexture {
	var out []SavedTexture
	for _, s := range r.slots {
		if s == nil || !s.dedicated {
			continue
		}
		w, h := s.rect.W, s.rect.H
		pixels := make([]byte, w*h*4)
		gl.BindTexture(gl.TEXTURE_2D, s.texture)
		gl.GetTexImage(gl.TEXTURE_2D, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
		saved := SavedTexture{W: w, H: h, RGBA: pixels}
		if s.depthTexture != 0 {
			z := make([]float32, w*h)
			gl.BindTexture(gl.TEXTURE_2D, s.depthTexture)
			gl.GetTexImage(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(&z[0]))
			saved.ZBuf = z
		}
		out = append(out, saved)
	}
	return out
}

// RestoreDynamicTextures re-uploads pixel data dumped by DumpDynamicTextures,
// in the same dedicated-slot order. Caller is responsible for having already
// recreated the slots (e.g. by replaying the same CreateSurface/UploadSprite
// calls the savestate's instance list implies) before calling this.
func (r *AtlasRegistry) RestoreDynamicTextures(saved []SavedTexture) {
	i := 0
	for _, s := range r.slots {
		if s == nil || !s.dedicated || i >= len(saved) {
			continue
		}
		st := saved[i]
		i++
		uploadSubImage(s.texture, 0, 0, st.W, st.H, st.RGBA)
		if s.depthTexture != 0 && st.ZBuf != nil {
			gl.BindTexture(gl.TEXTURE_2D, s.depthTexture)
			gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, st.W, st.H, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(&st.ZBuf[0]))
		}
	}
}

// Delete releases every GL object the registry owns.
func (r *AtlasRegistry) Delete() {
	for _, p := range r.pages {
		gl.DeleteTextures(1, &p.texture)
	}
	for _, s := range r.slots {
		if s == nil || !s.dedicated {
			continue
		}
		if s.fbo != 0 {
			gl.DeleteFramebuffers(1, &s.fbo)
		}
		if s.depthTexture != 0 {
			gl.DeleteTextures(1, &s.depthTexture)
		}
		gl.DeleteTextures(1, &s.texture)
	}
}

// MaxTextureSize clamps the driver-reported GL_MAX_TEXTURE_SIZE, working
// around Intel drivers that advertise 16384 but corrupt anything larger
// than 8192.
func MaxTextureSize(vendor string) int32 {
	var v int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &v)
	if isIntelVendor(vendor) && v > 8192 {
		v = 8192
	}
	return v
}

func isIntelVendor(vendor string) bool {
	for i := 0; i+5 <= len(vendor); i++ {
		if (vendor[i] == 'I' || vendor[i] == 'i') &&
			(vendor[i+1] == 'n' || vendor[i+1] == 'N') &&
			(vendor[i+2] == 't' || vendor[i+2] == 'T') &&
			(vendor[i+3] == 'e' || vendor[i+3] == 'E') &&
			(vendor[i+4] == 'l' || vendor[i+4] == 'L') {
			return true
		}
	}
	return false
}
