package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

type handlerRef struct{ ErrorHandler }

var current atomic.Pointer[handlerRef]

func init() {
	current.Store(&handlerRef{&LogHandler{}})
}

// Handler returns the handler Report and ReportPanic deliver to.
func Handler() ErrorHandler {
	return current.Load().ErrorHandler
}

// SetHandler installs h process-wide and returns the handler it replaced.
// A nil h restores a plain LogHandler.
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	return current.Swap(&handlerRef{h}).ErrorHandler
}

// Report stamps err and hands it to the installed handler.
func Report(err *FlowError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic stamps err and hands it to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// RecoverAs must be deferred directly. It reports a panic under op, then
// passes the recovered value to onPanic so the caller can set its result.
func RecoverAs(op string, onPanic func(r any)) {
	r := recover()
	if r == nil {
		return
	}
	ReportPanic(&PanicError{Op: op, Value: r, StackTrace: callers(3)})
	if onPanic != nil {
		onPanic(r)
	}
}

// callers formats the stack above skip frames, one "func\n\tfile:line"
// entry per frame.
func callers(skip int) string {
	pcs := make([]uintptr, 32)
	pcs = pcs[:runtime.Callers(skip, pcs)]
	if len(pcs) == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			return sb.String()
		}
	}
}
