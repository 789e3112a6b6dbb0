package glrender

import "log/slog"

// ScalingMode selects how Presenter.Present fits the logical framebuffer
// into the window.
type ScalingMode int

const (
	// ScaleFixed centers a fb_w*k x fb_h*k rectangle in the window.
	ScaleFixed ScalingMode = iota
	// ScaleAspect fits the largest centered rectangle preserving the
	// framebuffer's aspect ratio.
	ScaleAspect
	// ScaleFull stretches to the entire window.
	ScaleFull
)

// Config collects the renderer's bring-up parameters. There is no config
// file format here — construction takes a literal Config, following the
// teacher's own WindowConfig (a plain struct plus an explicit zero-value
// default), not a config-file library: this renderer has no files to read
// at startup any more than the teacher's examples do.
type Config struct {
	Width, Height int
	VSync         bool
	InterpolatePixels bool
	NormalizeNormals  bool
	ZBuf24            bool

	// Scaling controls how the presenter fits the framebuffer to the
	// window; FixedScale is used only when Scaling == ScaleFixed.
	Scaling     ScalingMode
	FixedScale  float64

	// Log receives structured renderer diagnostics (GL debug messages,
	// shader compile warnings, surface reuse). Nil disables logging.
	Log *slog.Logger
}

// Option mutates a Config; WithX helpers compose via functional options,
// the same pattern the teacher's examples use for constructing render
// pipelines from a handful of optional knobs.
type Option func(*Config)

// WithSize sets the initial logical framebuffer size.
func WithSize(w, h int) Option {
	return func(c *Config) { c.Width, c.Height = w, h }
}

// WithVSync toggles vertical sync at construction time.
func WithVSync(v bool) Option {
	return func(c *Config) { c.VSync = v }
}

// WithScaling selects the presenter's fit mode.
func WithScaling(mode ScalingMode, fixedScale float64) Option {
	return func(c *Config) { c.Scaling, c.FixedScale = mode, fixedScale }
}

// WithLog attaches a structured logger for renderer diagnostics.
func WithLog(log *slog.Logger) Option {
	return func(c *Config) { c.Log = log }
}

// DefaultConfig mirrors RendererOptions' defaults: a tiny placeholder
// surface, vsync on, no pixel interpolation, no normal normalization.
func DefaultConfig(opts ...Option) Config {
	cfg := Config{
		Width: 8, Height: 8,
		VSync:      true,
		Scaling:    ScaleAspect,
		FixedScale: 1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
