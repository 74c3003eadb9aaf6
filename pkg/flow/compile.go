package flow

import (
	"time"

	"github.com/go-drift/fish/pkg/view"
)

// Composite is implemented by widgets that declare their own subtree. The
// body is compiled into the widget after it is attached, unless the leaf
// that produced it already carries children.
type Composite interface {
	view.Widget
	Body() Node
}

// TreeSource supplies the tree for a root container.
type TreeSource interface {
	Tree() *Spec
}

// TreeFunc adapts a function to TreeSource.
type TreeFunc func() *Spec

// Tree calls f.
func (f TreeFunc) Tree() *Spec { return f() }

// Mount compiles src's tree into root.
func Mount(state *State, root view.Widget, src TreeSource) {
	Compile(state, root, src.Tree())
}

type produced struct {
	widget   view.Widget
	children *Spec
}

func (p produced) nested() *Spec {
	if p.children != nil {
		return p.children
	}
	if c, ok := p.widget.(Composite); ok {
		return Build(c.Body())
	}
	return nil
}

type frame struct {
	container view.Widget
	spec      *Spec
}

// Compile materializes spec into container.
//
// For every container the leaves are all produced first and then attached
// in declaration order, each guarded by the middleware PreRender chain.
// Nested specs are compiled depth-first into their attached widgets. A nil
// state compiles with an empty pipeline.
func Compile(state *State, container view.Widget, spec *Spec) {
	if state == nil {
		state = NewState()
	}
	if container == nil {
		state.logger.Info("compile skipped, nil container")
		return
	}

	start := time.Now()
	state.setup()

	var considered, attached, containers int
	pending := []frame{{container: container, spec: spec}}
	for len(pending) > 0 {
		f := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if f.spec.Len() == 0 {
			continue
		}
		containers++

		items := state.produce(f.spec)
		considered += len(items)
		rendered := state.render(containerOf(f.container), items)
		attached += len(rendered)

		for i := len(rendered) - 1; i >= 0; i-- {
			if nested := rendered[i].nested(); nested.Len() > 0 {
				pending = append(pending, frame{container: rendered[i].widget, spec: nested})
			}
		}
	}

	state.cleanup()
	state.logger.V(1).Info("compiled tree",
		"root", view.Describe(container),
		"containers", containers,
		"attached", attached,
		"vetoed", considered-attached,
		"elapsed", time.Since(start),
	)
}

// container attaches children the way a widget kind expects.
type container interface {
	attach(child view.Widget)
}

type arrangedContainer struct{ view.Arranger }

func (c arrangedContainer) attach(child view.Widget) { c.AddArrangedSubview(child) }

type contentContainer struct{ view.ContentHost }

func (c contentContainer) attach(child view.Widget) { view.ContentOf(c.ContentHost).AddSubview(child) }

type plainContainer struct{ view.Widget }

func (c plainContainer) attach(child view.Widget) { c.AddSubview(child) }

func containerOf(w view.Widget) container {
	switch c := w.(type) {
	case view.Arranger:
		return arrangedContainer{c}
	case view.ContentHost:
		return contentContainer{c}
	default:
		return plainContainer{w}
	}
}
