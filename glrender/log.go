package glrender

import (
	"context"
	"log/slog"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
)

// EnableDebugOutput wires the GL_DEBUG_OUTPUT callback to log, following
// glgl.EnableDebugOutput's own shape: every GL debug message becomes one
// structured log line, severity-mapped to a slog level. Call after the
// context is current. A nil log disables the callback rather than falling
// back to slog.Default, since a renderer constructed without Config.Log
// should stay silent.
func EnableDebugOutput(log *slog.Logger) {
	if log == nil {
		return
	}
	gl.Enable(gl.DEBUG_OUTPUT)
	gl.DebugMessageCallback(func(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
		attrs := []slog.Attr{
			slog.Uint64("source", uint64(source)),
			slog.Uint64("id", uint64(id)),
			slog.Uint64("severity", uint64(severity)),
		}
		var level slog.Level
		switch gltype {
		case gl.DEBUG_TYPE_ERROR:
			level = slog.LevelError
		case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR, gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
			level = slog.LevelWarn
		case gl.DEBUG_TYPE_PERFORMANCE:
			level = slog.LevelInfo
		default:
			level = slog.LevelDebug
		}
		log.LogAttrs(context.Background(), level, message, attrs...)
	}, nil)
}
