package flow

import (
	"github.com/go-drift/fish/pkg/errors"
	"github.com/go-drift/fish/pkg/snap"
	"github.com/go-drift/fish/pkg/view"
)

// Constraints activates deferred layout once a widget is attached. Layout
// closures registered for a widget run in registration order from
// PostRender; the registry is cleared at Cleanup.
type Constraints struct {
	MiddlewareBase
	pending map[view.Widget][]func() []*view.Constraint
}

// NewConstraints returns an empty Constraints middleware.
func NewConstraints() *Constraints {
	return &Constraints{pending: make(map[view.Widget][]func() []*view.Constraint)}
}

// Defer registers fn to run after w is attached.
func (c *Constraints) Defer(w view.Widget, fn func() []*view.Constraint) {
	if c.pending == nil {
		c.pending = make(map[view.Widget][]func() []*view.Constraint)
	}
	c.pending[w] = append(c.pending[w], fn)
}

// Pending returns the number of widgets with deferred layout.
func (c *Constraints) Pending() int {
	return len(c.pending)
}

// Setup prepares the registry.
func (c *Constraints) Setup() {
	if c.pending == nil {
		c.pending = make(map[view.Widget][]func() []*view.Constraint)
	}
}

// PostRender activates the constraints deferred for w.
func (c *Constraints) PostRender(w view.Widget) {
	for _, fn := range c.pending[w] {
		if err := view.Activate(fn()...); err != nil {
			errors.Report(&errors.FlowError{
				Op:     "flow.Constraints.PostRender",
				Kind:   errors.KindLayout,
				Widget: view.Describe(w),
				Err:    err,
			})
		}
	}
}

// Cleanup drops every registration.
func (c *Constraints) Cleanup() {
	clear(c.pending)
}

// Fork returns an empty Constraints middleware.
func (c *Constraints) Fork() Middleware {
	return NewConstraints()
}

// SnapLayout resolves maker blocks registered by Item.Snap. All blocks of
// one widget share a single Maker, so later blocks may refine earlier ones.
type SnapLayout struct {
	MiddlewareBase
	pending map[view.Widget][]func(*snap.Maker)
}

// NewSnapLayout returns an empty SnapLayout middleware.
func NewSnapLayout() *SnapLayout {
	return &SnapLayout{pending: make(map[view.Widget][]func(*snap.Maker))}
}

// Defer registers a maker block for w.
func (s *SnapLayout) Defer(w view.Widget, fn func(*snap.Maker)) {
	if s.pending == nil {
		s.pending = make(map[view.Widget][]func(*snap.Maker))
	}
	s.pending[w] = append(s.pending[w], fn)
}

// Pending returns the number of widgets with deferred maker blocks.
func (s *SnapLayout) Pending() int {
	return len(s.pending)
}

// Setup prepares the registry.
func (s *SnapLayout) Setup() {
	if s.pending == nil {
		s.pending = make(map[view.Widget][]func(*snap.Maker))
	}
}

// PostRender builds and activates the constraints for w.
func (s *SnapLayout) PostRender(w view.Widget) {
	blocks := s.pending[w]
	if len(blocks) == 0 {
		return
	}
	_, err := snap.MakeConstraints(w, func(m *snap.Maker) {
		for _, fn := range blocks {
			fn(m)
		}
	})
	if err != nil {
		errors.Report(&errors.FlowError{
			Op:     "flow.SnapLayout.PostRender",
			Kind:   errors.KindLayout,
			Widget: view.Describe(w),
			Err:    err,
		})
	}
}

// Cleanup drops every registration.
func (s *SnapLayout) Cleanup() {
	clear(s.pending)
}

// Fork returns an empty SnapLayout middleware.
func (s *SnapLayout) Fork() Middleware {
	return NewSnapLayout()
}
