// Package view defines the host toolkit contract consumed by the tree
// compiler, together with a retained in-memory toolkit that implements it.
//
// # Contract
//
// Widget is a live object owned by its container. Containers come in three
// shapes, and the compiler attaches children according to the shape:
//
//   - Arranger: stack-like containers that keep an ordered list of
//     arranged children (AddArrangedSubview).
//   - ContentHost: containers that wrap a content sub-container
//     (ContentView); children go into the content view.
//   - any other Widget: children are added with AddSubview.
//
// Layout is expressed as Constraint values built from anchors:
//
//	c := view.AnchorOf(label, view.AttrTop).EqualTo(view.AnchorOf(parent, view.AttrTop)).WithConstant(8)
//	err := view.Activate(c)
//
// Activate installs a constraint on the nearest common ancestor of the items
// it relates. No solving takes place; constraints are recorded so callers
// and tests can inspect them.
//
// # Reference toolkit
//
// View, Stack, Effect, Scroll, Label, Field and Button embed Base, which
// tracks the superview, subviews, installed constraints and dispose hooks.
// Types embedding Base must call SetSelf with their own pointer, the same
// way NewView and friends do.
package view
