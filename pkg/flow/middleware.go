package flow

import "github.com/go-drift/fish/pkg/view"

// Middleware hooks into a compile pass.
//
// Setup runs once before anything is attached and Cleanup once after the
// whole tree is attached. PreRender runs before each attachment; returning
// false vetoes it and skips the remaining middleware for that widget.
// PostRender runs right after the widget is attached, before the next
// sibling's PreRender.
type Middleware interface {
	Setup()
	PreRender(w view.Widget) bool
	PostRender(w view.Widget)
	Cleanup()
}

// Forker is implemented by middleware that carry per-pass state. Fork
// returns a fresh instance with the same configuration; State.Fork uses it
// so reactive rebuilds never share pass state with the enclosing compile.
type Forker interface {
	Fork() Middleware
}

// MiddlewareBase provides no-op hooks. Embed it and override what you need.
type MiddlewareBase struct{}

// Setup does nothing.
func (MiddlewareBase) Setup() {}

// PreRender accepts every widget.
func (MiddlewareBase) PreRender(view.Widget) bool { return true }

// PostRender does nothing.
func (MiddlewareBase) PostRender(view.Widget) {}

// Cleanup does nothing.
func (MiddlewareBase) Cleanup() {}
