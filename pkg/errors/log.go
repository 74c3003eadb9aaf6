package errors

import (
	"github.com/go-drift/fish/pkg/log"
)

// LogHandler is an ErrorHandler that writes to the process-wide logger.
type LogHandler struct {
	// Verbose adds stack traces to the log entries.
	Verbose bool
}

// HandleError logs a FlowError.
func (h *LogHandler) HandleError(err *FlowError) {
	if err == nil {
		return
	}
	kv := []any{"op", err.Op, "kind", err.Kind.String()}
	if err.Widget != "" {
		kv = append(kv, "widget", err.Widget)
	}
	if h.Verbose && err.StackTrace != "" {
		kv = append(kv, "stack", err.StackTrace)
	}
	log.Log().Error(err.Err, "fish error", kv...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	kv := []any{"op", err.Op, "value", err.Value}
	if h.Verbose && err.StackTrace != "" {
		kv = append(kv, "stack", err.StackTrace)
	}
	log.Log().Error(err, "fish panic", kv...)
}
