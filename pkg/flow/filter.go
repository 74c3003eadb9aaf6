package flow

import "github.com/go-drift/fish/pkg/view"

// Filter vetoes attachments rejected by its predicate.
type Filter struct {
	MiddlewareBase
	keep   func(view.Widget) bool
	vetoed int
}

// NewFilter returns a Filter keeping widgets for which keep returns true.
// A nil keep accepts everything.
func NewFilter(keep func(view.Widget) bool) *Filter {
	return &Filter{keep: keep}
}

// SkipHidden returns a Filter vetoing widgets marked hidden.
func SkipHidden() *Filter {
	return NewFilter(func(w view.Widget) bool {
		h, ok := w.(interface{ IsHidden() bool })
		return !ok || !h.IsHidden()
	})
}

// Setup resets the veto count.
func (f *Filter) Setup() {
	f.vetoed = 0
}

// PreRender applies the predicate.
func (f *Filter) PreRender(w view.Widget) bool {
	if f.keep == nil || f.keep(w) {
		return true
	}
	f.vetoed++
	return false
}

// Vetoed returns the number of widgets vetoed in the current pass.
func (f *Filter) Vetoed() int {
	return f.vetoed
}

// Fork returns a Filter with the same predicate.
func (f *Filter) Fork() Middleware {
	return NewFilter(f.keep)
}
