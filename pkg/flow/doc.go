// Package flow compiles declarative widget trees into live widget graphs.
//
// A tree is declared with nested expressions and folded into an immutable
// Spec by Build. Compile then materializes each leaf, attaches it to its
// container and runs the middleware pipeline around every attachment.
//
// # Declaring trees
//
// Leaves are typed Items. Make defers widget construction to compile time,
// so building a Spec never creates a live widget:
//
//	spec := flow.Build(
//	    flow.Make(view.NewStack,
//	        flow.Make(func() *view.Label { return view.NewLabel("Title") }).
//	            Snap(func(m *snap.Maker) { m.Height().EqualToConstant(30) }).
//	            Bind(flow.Ref(screen, func(s *Screen, l *view.Label) { s.title = l })),
//	        flow.If(loggedIn, flow.Make(newLogoutButton)),
//	        flow.Each(items, func(i int, item string) flow.Node {
//	            return flow.Make(func() *view.Label { return view.NewLabel(item) })
//	        }),
//	    ),
//	)
//
// Group, If, Either, Maybe, Optional and Each compose blocks; absent
// branches fold to empty groups. Declaration order is preserved at any
// nesting depth.
//
// # Compiling
//
//	state := flow.NewState()
//	state.UseSnap()
//	flow.Compile(state, root, spec)
//
// Compile runs Setup on every middleware, then for each container produces
// all of its leaves before attaching any of them. Each widget then goes
// through PreRender, attachment and PostRender before its next sibling, so
// deferred layout sees earlier siblings attached and later ones detached.
// A middleware may veto an attachment from PreRender; vetoed widgets are
// neither attached nor descended into, and are disposed. After the whole
// tree is attached Cleanup runs once.
//
// # Middleware
//
// Middleware are registered on a State and looked up by their dynamic type,
// at most one per type. Constraints and SnapLayout resolve deferred layout
// registered by the Layout and Snap decorators; Metrics records Prometheus
// counters; Filter vetoes widgets by predicate.
//
// # Reactive subtrees
//
// Reactive attaches a container whose children are rebuilt from scratch
// every time a Source emits. Each rebuild compiles against a fresh State
// (State.Fork), so per-pass middleware state never straddles two rebuilds.
// The subscription ends when the container is disposed.
package flow
