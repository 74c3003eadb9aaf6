package flow

import "weak"

// Slot is a write-only handle to a field of some owner. It holds the owner
// weakly: once the owner is collected, assignments are skipped.
type Slot[W any] struct {
	assign func(W) bool
}

// Ref returns a Slot that stores produced widgets into owner through set.
// A nil owner yields a Slot that never assigns.
func Ref[O any, W any](owner *O, set func(*O, W)) Slot[W] {
	if owner == nil || set == nil {
		return Slot[W]{}
	}
	p := weak.Make(owner)
	return Slot[W]{assign: func(w W) bool {
		o := p.Value()
		if o == nil {
			return false
		}
		set(o, w)
		return true
	}}
}

// Assign stores w and reports whether the owner was still alive.
func (s Slot[W]) Assign(w W) bool {
	if s.assign == nil {
		return false
	}
	return s.assign(w)
}
