package view

import (
	"slices"
	"sync"
)

// attacher is satisfied by types embedding Base.
type attacher interface {
	setSuperview(parent Widget)
}

// detacher is satisfied by containers embedding Base. Containers that keep
// extra child bookkeeping (Stack) override detachSubview.
type detacher interface {
	detachSubview(child Widget)
}

// constraintHolder is satisfied by widgets that can host constraints.
type constraintHolder interface {
	installConstraint(c *Constraint)
	uninstallConstraint(c *Constraint)
	installedConstraints() []*Constraint
}

// Base provides tree bookkeeping for the reference toolkit.
// Embed it and call SetSelf from the constructor.
type Base struct {
	self        Widget
	superview   Widget
	subviews    []Widget
	constraints []*Constraint

	disposers []func()
	disposed  bool
	mu        sync.Mutex

	// Tag identifies the widget in dumps and finders.
	Tag string
	// Hidden marks the widget as not displayed.
	Hidden bool
	// Background is a free-form colour name.
	Background string
}

// SetSelf registers the concrete widget embedding this Base.
func (b *Base) SetSelf(self Widget) {
	b.self = self
}

// Self returns the concrete widget registered via SetSelf.
func (b *Base) Self() Widget {
	return b.self
}

// Superview returns the container, or nil when detached.
func (b *Base) Superview() Widget {
	return b.superview
}

func (b *Base) setSuperview(parent Widget) {
	b.superview = parent
}

// Subviews returns a copy of the attached children in attachment order.
func (b *Base) Subviews() []Widget {
	return slices.Clone(b.subviews)
}

// AddSubview appends child, detaching it from its previous superview.
func (b *Base) AddSubview(child Widget) {
	if child == nil || child == b.self {
		return
	}
	child.RemoveFromSuperview()
	b.subviews = append(b.subviews, child)
	if a, ok := child.(attacher); ok {
		a.setSuperview(b.self)
	}
}

// RemoveFromSuperview detaches the widget and deactivates every constraint
// on former ancestors that references it or its descendants.
func (b *Base) RemoveFromSuperview() {
	parent := b.superview
	if parent == nil {
		return
	}
	for ancestor := parent; ancestor != nil; ancestor = ancestor.Superview() {
		holder, ok := ancestor.(constraintHolder)
		if !ok {
			continue
		}
		for _, c := range holder.installedConstraints() {
			if c.references(b.self) {
				c.deactivate()
			}
		}
	}
	if d, ok := parent.(detacher); ok {
		d.detachSubview(b.self)
	}
	b.superview = nil
}

func (b *Base) detachSubview(child Widget) {
	if i := slices.Index(b.subviews, child); i >= 0 {
		b.subviews = slices.Delete(b.subviews, i, i+1)
	}
}

// Constraints returns the active constraints installed on this widget.
func (b *Base) Constraints() []*Constraint {
	return slices.Clone(b.constraints)
}

func (b *Base) installedConstraints() []*Constraint {
	return slices.Clone(b.constraints)
}

func (b *Base) installConstraint(c *Constraint) {
	b.constraints = append(b.constraints, c)
}

func (b *Base) uninstallConstraint(c *Constraint) {
	if i := slices.Index(b.constraints, c); i >= 0 {
		b.constraints = slices.Delete(b.constraints, i, i+1)
	}
}

// OnDispose registers a cleanup function to run when the widget is disposed.
// Returns an unregister function. If the widget is already disposed the
// cleanup runs immediately.
func (b *Base) OnDispose(cleanup func()) func() {
	if cleanup == nil {
		return func() {}
	}

	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		cleanup()
		return func() {}
	}
	index := len(b.disposers)
	b.disposers = append(b.disposers, cleanup)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if index < len(b.disposers) {
			b.disposers[index] = nil
		}
	}
}

// Dispose runs the registered disposers in reverse order, then disposes
// every subview. Calling Dispose more than once is a no-op.
func (b *Base) Dispose() {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return
	}
	b.disposed = true
	disposers := b.disposers
	b.disposers = nil
	b.mu.Unlock()

	for i := len(disposers) - 1; i >= 0; i-- {
		if disposers[i] != nil {
			disposers[i]()
		}
	}
	for _, child := range b.Subviews() {
		if d, ok := child.(Disposable); ok {
			d.Dispose()
		}
	}
}

// IsDisposed reports whether Dispose has run.
func (b *Base) IsDisposed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disposed
}
