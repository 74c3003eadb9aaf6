package view

import "strings"

// Widget is a live object of the host toolkit.
type Widget interface {
	// Superview returns the container this widget is attached to, or nil.
	Superview() Widget
	// Subviews returns the widgets attached directly to this one.
	Subviews() []Widget
	// AddSubview attaches child as a plain child, detaching it from any
	// previous superview first.
	AddSubview(child Widget)
	// RemoveFromSuperview detaches the widget from its container.
	RemoveFromSuperview()
}

// Arranger is implemented by stack-like containers.
type Arranger interface {
	Widget
	AddArrangedSubview(child Widget)
}

// ContentHost is implemented by containers whose children live in a
// content sub-container.
type ContentHost interface {
	Widget
	ContentView() Widget
}

// Disposable is implemented by widgets that hold resources beyond their
// place in the tree, such as subscriptions.
type Disposable interface {
	// OnDispose registers cleanup to run when the widget is disposed and
	// returns a function that unregisters it.
	OnDispose(cleanup func()) func()
	Dispose()
}

// IntrinsicSizer is implemented by widgets with a natural content size.
type IntrinsicSizer interface {
	IntrinsicSize() Size
}

// Size is a width and height in points.
type Size struct {
	Width  float64
	Height float64
}

// ContentOf returns the widget that holds w's children: the content view
// for a ContentHost, w itself otherwise.
func ContentOf(w Widget) Widget {
	if host, ok := w.(ContentHost); ok {
		if content := host.ContentView(); content != nil {
			return content
		}
	}
	return w
}

// IsDescendant reports whether w is ancestor or lies below it.
func IsDescendant(w, ancestor Widget) bool {
	for current := w; current != nil; current = current.Superview() {
		if current == ancestor {
			return true
		}
	}
	return false
}

// CommonAncestor returns the nearest widget that both a and b descend from
// (inclusive), or nil when they belong to different trees.
func CommonAncestor(a, b Widget) Widget {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	for current := a; current != nil; current = current.Superview() {
		if IsDescendant(b, current) {
			return current
		}
	}
	return nil
}

// Walk visits w and its subviews depth-first in pre-order. Returning false
// from visit skips the widget's subtree.
func Walk(w Widget, visit func(Widget) bool) {
	if w == nil {
		return
	}
	stack := []Widget{w}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(current) {
			continue
		}
		children := current.Subviews()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// Dump renders the tree under w with Describe, one widget per line,
// children indented by two spaces.
func Dump(w Widget) string {
	if w == nil {
		return ""
	}
	var sb strings.Builder
	type entry struct {
		w     Widget
		depth int
	}
	stack := []entry{{w, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		sb.WriteString(strings.Repeat("  ", e.depth))
		sb.WriteString(Describe(e.w))
		sb.WriteByte('\n')
		children := e.w.Subviews()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, entry{children[i], e.depth + 1})
		}
	}
	return sb.String()
}
