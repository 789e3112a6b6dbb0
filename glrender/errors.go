package glrender

import "errors"

// Sentinel errors for the allocation-failure taxonomy: construction and GPU
// allocation errors are returned to the caller, never panicked, so game-loop
// code can use errors.Is against these to decide whether a failure is
// recoverable (e.g. retry at a smaller surface size).
var (
	// ErrContextInit names a failure to bring up the GL context or GLFW
	// window. Nothing in this module returns it: window.Open returns glgl's
	// own bring-up error unchanged.
	ErrContextInit = errors.New("glrender: context initialization failed")

	// ErrShaderCompile names a vertex/fragment compile failure. New does not
	// wrap its shader errors with it: a compile failure comes back as glgl's
	// own error, which carries the GLSL compiler log.
	ErrShaderCompile = errors.New("glrender: shader compile failed")

	// ErrProgramLink names a program link failure. As with ErrShaderCompile,
	// New returns glgl's own link error, with the linker log, unwrapped.
	ErrProgramLink = errors.New("glrender: program link failed")

	// ErrAtlasExhausted is returned by PushAtlases when a sprite (the
	// reserved white pixel included) could not be packed into any atlas page.
	ErrAtlasExhausted = errors.New("glrender: atlas exhausted, sprite did not fit")

	// ErrAllocFailed is returned when a texture, FBO or depth buffer could
	// not be allocated (out of GPU memory, unsupported format, etc).
	ErrAllocFailed = errors.New("glrender: GPU allocation failed")

	// ErrAlreadyPushed is returned by a second call to PushAtlases — the
	// registry accepts exactly one atlas set for its lifetime.
	ErrAlreadyPushed = errors.New("glrender: atlases already pushed")
)

// invalidHandle panics — an invalid AtlasRef reaching a registry operation
// that cannot degrade to a no-op (AtlasRegistry.DuplicateSprite) is a
// program bug, not a recoverable condition.
func invalidHandle(what string) {
	panic("glrender: invalid handle: " + what)
}
