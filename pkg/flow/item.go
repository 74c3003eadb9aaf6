package flow

import (
	"github.com/go-drift/fish/pkg/snap"
	"github.com/go-drift/fish/pkg/view"
)

// Item is a typed leaf. Its decorators wrap the producer, so every effect
// they register happens when the widget is produced, before any widget of
// the same container is attached.
type Item[W view.Widget] struct {
	produce  func(*State) W
	children *Spec
}

// Make declares a widget constructed by ctor at compile time. Children are
// compiled into the widget once it is attached.
func Make[W view.Widget](ctor func() W, children ...Node) Item[W] {
	return Item[W]{
		produce:  func(*State) W { return ctor() },
		children: buildChildren(children),
	}
}

// Of declares an already constructed widget. Compiling the resulting Spec
// twice attaches the same widget twice, moving it to the second container.
func Of[W view.Widget](w W, children ...Node) Item[W] {
	return Item[W]{
		produce:  func(*State) W { return w },
		children: buildChildren(children),
	}
}

// Produce declares a widget whose construction needs the compile State.
func Produce[W view.Widget](fn func(*State) W, children ...Node) Item[W] {
	return Item[W]{produce: fn, children: buildChildren(children)}
}

func (Item[W]) isNode() {}

func (i Item[W]) leaf() Leaf {
	produce := i.produce
	if produce == nil {
		return Leaf{}
	}
	return Leaf{
		Produce:  func(s *State) view.Widget { return produce(s) },
		Children: i.children,
	}
}

// wrap returns a copy of i whose producer runs after on the produced widget.
func (i Item[W]) wrap(after func(*State, W)) Item[W] {
	up := i.produce
	if up == nil {
		return i
	}
	i.produce = func(s *State) W {
		w := up(s)
		after(s, w)
		return w
	}
	return i
}

// Modify runs fn on the widget right after it is produced.
func (i Item[W]) Modify(fn func(W)) Item[W] {
	return i.wrap(func(_ *State, w W) { fn(w) })
}

// Layout defers fn to the Constraints middleware, which activates the
// returned constraints after the widget is attached. Without a registered
// Constraints middleware the layout is dropped.
func (i Item[W]) Layout(fn func(W) []*view.Constraint) Item[W] {
	return i.wrap(func(s *State, w W) {
		c, ok := Lookup[*Constraints](s)
		if !ok {
			s.Logger().V(1).Info("layout dropped, no constraints middleware", "widget", view.Describe(w))
			return
		}
		c.Defer(w, func() []*view.Constraint { return fn(w) })
	})
}

// Snap defers a maker block to the SnapLayout middleware. Without a
// registered SnapLayout the block is dropped.
func (i Item[W]) Snap(fn func(*snap.Maker)) Item[W] {
	return i.wrap(func(s *State, w W) {
		sl, ok := Lookup[*SnapLayout](s)
		if !ok {
			s.Logger().V(1).Info("snap dropped, no snap middleware", "widget", view.Describe(w))
			return
		}
		sl.Defer(w, fn)
	})
}

// Bind assigns the produced widget into slot.
func (i Item[W]) Bind(slot Slot[W]) Item[W] {
	return i.wrap(func(s *State, w W) {
		if !slot.Assign(w) {
			s.Logger().V(1).Info("binding skipped, owner released", "widget", view.Describe(w))
		}
	})
}
