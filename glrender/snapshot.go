package glrender

import "github.com/gm8run/glrender/primitive"

// RendererState is the easy-to-(de)serialize bundle of everything a
// savestate needs to restore about in-flight render state — current
// matrices, toggles, lights and the user primitive builders — ported from
// render.rs's RendererState. Texture pixel data and the non-stock atlas
// rect table are carried separately via
// AtlasRegistry.DumpDynamicTextures/RestoreDynamicTextures: a savestate
// load replays the same CreateSurface/UploadSprite calls the instance list
// implies before handing that pixel data back, so the rects never need a
// standalone round trip here.
type RendererState struct {
	ModelMatrix        [16]float32
	AlphaBlending      bool
	BlendSrc, BlendDst BlendType
	PixelInterpolation bool
	TextureRepeat      bool
	AmbientColour      int32
	Using3D            bool
	Depth              float32
	DepthTest          bool
	WriteDepth         bool
	Culling            bool
	Perspective        bool
	Fog                *Fog
	Gouraud            bool
	LightingEnabled    bool
	Lights             [8]Light
	CirclePrecision    int
	Primitive2D        *primitive.Builder
	Primitive2DAtlas   uint32
	Primitive3D        *primitive.Builder
	Primitive3DAtlas   uint32
	ZBufTrashed        bool
}

// State captures a RendererState snapshot of d's current settings, for
// embedding in a savestate.
func (d *Drawer) State(fbmgr *FramebufferManager) RendererState {
	sc := d.state
	var lights [8]Light
	for i, l := range sc.next.Lights {
		lights[i] = Light{
			Enabled:  l.Enabled != 0,
			Point:    l.Point != 0,
			Position: [3]float32{l.Position[0], l.Position[1], l.Position[2]},
			Dir:      [3]float32{l.Dir[0], l.Dir[1], l.Dir[2]},
			Colour:   mergeColour(l.Colour[0], l.Colour[1], l.Colour[2]),
			Range:    l.Range,
		}
	}
	var fog *Fog
	if sc.next.FogEnabled != 0 {
		fog = &Fog{
			Enabled: true,
			Colour:  mergeColour(sc.next.FogColour[0], sc.next.FogColour[1], sc.next.FogColour[2]),
			Begin:   sc.next.FogBegin,
			End:     sc.next.FogEnd,
		}
	}

	return RendererState{
		ModelMatrix:        sc.next.Model,
		AlphaBlending:      sc.next.AlphaBlend != 0,
		BlendSrc:           BlendType(sc.next.BlendSrc),
		BlendDst:           BlendType(sc.next.BlendDst),
		PixelInterpolation: sc.next.Interpolate != 0,
		TextureRepeat:      sc.next.Repeat != 0,
		AmbientColour:      mergeColour(sc.next.AmbientColour[0], sc.next.AmbientColour[1], sc.next.AmbientColour[2]),
		Using3D:            d.using3D,
		Depth:              d.depth,
		DepthTest:          sc.next.DepthTest != 0,
		WriteDepth:         sc.next.WriteDepth != 0,
		Culling:            sc.next.Culling != 0,
		Perspective:        d.perspective,
		Fog:                fog,
		Gouraud:            sc.next.Gouraud != 0,
		LightingEnabled:    sc.next.Lighting != 0,
		Lights:             lights,
		CirclePrecision:    d.circlePrecision,
		Primitive2D:        d.primitive2D,
		Primitive2DAtlas:   d.primitive2DAtlas,
		Primitive3D:        d.primitive3D,
		Primitive3DAtlas:   d.primitive3DAtlas,
		ZBufTrashed:        fbmgr.ZBufTrashed(),
	}
}

// SetState restores every setting State captured, in the same dependency
// order render.rs's set_state uses: model matrix and toggles first, then
// the 3D/depth group, then lights and primitives last since nothing else
// depends on them.
func (d *Drawer) SetState(s RendererState, fbmgr *FramebufferManager) {
	d.state.next.Model = s.ModelMatrix
	d.state.dirty = true
	d.state.SetAlphaBlend(s.AlphaBlending)
	d.state.SetBlendMode(s.BlendSrc, s.BlendDst)
	d.state.SetInterpolation(s.PixelInterpolation)
	d.state.SetTextureRepeat(s.TextureRepeat)
	d.state.SetAmbientColour(s.AmbientColour)
	d.Set3D(s.Using3D)
	d.SetDepth(s.Depth)
	d.SetDepthTest(s.DepthTest)
	d.state.SetWriteDepth(s.WriteDepth)
	d.state.SetCulling(s.Culling)
	d.SetPerspective(s.Perspective)
	d.state.SetFog(s.Fog)
	d.state.SetGouraud(s.Gouraud)
	d.state.SetLightingEnabled(s.LightingEnabled)
	for i, l := range s.Lights {
		d.state.SetLight(i, l)
	}
	d.SetCirclePrecision(s.CirclePrecision)
	d.SetPrimitive2D(s.Primitive2D, s.Primitive2DAtlas)
	d.SetPrimitive3D(s.Primitive3D, s.Primitive3DAtlas)
	fbmgr.SetZBufTrashed(s.ZBufTrashed)
}

// FullSnapshot is everything a savestate needs to reproduce the renderer's
// visible output: the in-flight RendererState, every dynamic texture's
// pixels, and the stored/main framebuffer's pixel and depth contents —
// matching §4.11's state()/stored_pixels/stored_zbuffer/dump_dynamic_textures
// quartet. The dynamic textures and their AtlasRef slots are assumed already
// recreated by replaying the instance list's CreateSurface/UploadSprite
// calls before Restore runs; this snapshot carries only their pixel data.
type FullSnapshot struct {
	Renderer        RendererState
	DynamicTextures []SavedTexture
	StoredPixels    []byte
	StoredZBuffer   []float32
	StoredWidth     int32
	StoredHeight    int32
}

// Snapshot captures a FullSnapshot of r's current state, for embedding in a
// savestate.
func (r *Renderer) Snapshot() FullSnapshot {
	w, h := r.Framebuf.StoredSize()
	return FullSnapshot{
		Renderer:        r.Draw.State(r.Framebuf),
		DynamicTextures: r.Atlases.DumpDynamicTextures(),
		StoredPixels:    r.Framebuf.StoredPixels(),
		StoredZBuffer:   r.Framebuf.StoredZBuffer(),
		StoredWidth:     w,
		StoredHeight:    h,
	}
}

// Restore applies a FullSnapshot captured by Snapshot: render state first,
// then dynamic texture pixels (into the slots the caller already recreated),
// then the stored framebuffer's raw contents.
func (r *Renderer) Restore(s FullSnapshot) {
	r.Draw.SetState(s.Renderer, r.Framebuf)
	r.Atlases.RestoreDynamicTextures(s.DynamicTextures)
	if s.StoredPixels != nil {
		r.Framebuf.SetStored(s.StoredPixels, s.StoredZBuffer, s.StoredWidth, s.StoredHeight)
	}
}
