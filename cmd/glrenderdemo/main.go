// Command glrenderdemo opens a window, pushes a single stock sprite into the
// atlas and draws one instance per entry in a tiny instlist.Store, matching
// the teacher's examples/hellotriangle bring-up sequence (GLFW init, GL
// program compile, per-frame draw loop, swap+poll) against glrender's own
// component set instead of a hand-rolled triangle VBO.
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gm8run/glrender/glrender"
	"github.com/gm8run/glrender/instlist"
	"github.com/gm8run/glrender/window"
)

func main() {
	win, err := window.Open(window.Config{
		Title: "glrender demo", Width: 640, Height: 480, VSync: true,
	})
	if err != nil {
		log.Fatalln("opening window:", err)
	}
	defer win.Close()

	cfg := glrender.DefaultConfig(
		glrender.WithSize(320, 240),
		glrender.WithLog(slog.New(slog.NewTextHandler(os.Stderr, nil))),
	)
	r, err := glrender.New(cfg, win.Vendor())
	if err != nil {
		log.Fatalln("initializing renderer:", err)
	}
	defer r.Delete()

	white := make([]byte, 16*16*4)
	for i := range white {
		white[i] = 0xff
	}
	refs, err := r.PushAtlases([]glrender.SpriteImage{
		{W: 16, H: 16, RGBA: white, OriginX: 8, OriginY: 8},
	}, 256)
	if err != nil {
		log.Fatalln("pushing atlases:", err)
	}
	sprite := refs[0]

	store := instlist.NewStore()
	for i := 0; i < 4; i++ {
		inst := instlist.NewInstance(instlist.ID(i), instlist.ID(0), nil)
		inst.X, inst.Y = float64(40+i*60), 120
		inst.SpriteIndex = 0
		store.Insert(inst)
	}
	store.RefreshMaps()
	store.DrawSort()

	for !win.ShouldClose() {
		it := store.IterDrawing()
		for {
			h, ok := it.Next(store)
			if !ok {
				break
			}
			inst := store.Get(h)
			r.Draw.DrawSprite(sprite, inst.X, inst.Y, 1, 1, 0, 0xffffff, 1)
		}
		r.Present(640, 480, win.SwapBuffers)
		win.PollEvents()
		if win.GLFW().GetKey(glfw.KeyEscape) == glfw.Press {
			win.GLFW().SetShouldClose(true)
		}
	}
}
