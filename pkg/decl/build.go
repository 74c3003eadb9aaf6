package decl

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/go-drift/fish/pkg/errors"
	"github.com/go-drift/fish/pkg/flow"
	"github.com/go-drift/fish/pkg/snap"
	"github.com/go-drift/fish/pkg/view"
)

// Refs collects the widgets bound by ref names. Keep it reachable for as
// long as bindings should land; it is held weakly by the built spec.
type Refs struct {
	mu      sync.Mutex
	widgets map[string][]view.Widget
}

func newRefs() *Refs {
	return &Refs{widgets: make(map[string][]view.Widget)}
}

// Get returns the widget most recently bound to name.
func (r *Refs) Get(name string) (view.Widget, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws := r.widgets[name]
	if len(ws) == 0 {
		return nil, false
	}
	return ws[len(ws)-1], true
}

// All returns every widget bound to name, in binding order.
func (r *Refs) All(name string) []view.Widget {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.widgets[name])
}

// Names returns the bound names, sorted.
func (r *Refs) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.widgets))
}

func (r *Refs) bind(name string, w view.Widget) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.widgets[name] = append(r.widgets[name], w)
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	registry *Registry
	vars     map[string]string
}

// WithRegistry builds against r instead of DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(o *buildOptions) {
		o.registry = r
	}
}

// WithVars overrides document vars for CEL evaluation.
func WithVars(vars map[string]string) Option {
	return func(o *buildOptions) {
		o.vars = vars
	}
}

type builder struct {
	file     string
	registry *Registry
	eval     *evaluator
	refs     *Refs
}

// Build evaluates doc into a flow specification. Conditions, repetition
// and expression props are evaluated here, once; the returned spec is
// static and can be compiled any number of times.
func Build(doc *Document, opts ...Option) (*flow.Spec, *Refs, error) {
	o := buildOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}
	if doc == nil || doc.Root == nil {
		return nil, nil, &errors.DeclError{Path: "root", Err: fmt.Errorf("document has no root widget")}
	}

	eval, err := newEvaluator(mergeVars(doc.Vars, o.vars))
	if err != nil {
		return nil, nil, &errors.DeclError{File: doc.File, Err: err}
	}
	b := &builder{
		file:     doc.File,
		registry: o.registry,
		eval:     eval,
		refs:     newRefs(),
	}
	root, err := b.node(doc.Root, "root", rootScope)
	if err != nil {
		return nil, nil, err
	}
	return flow.Build(root), b.refs, nil
}

// Validate reports whether doc builds.
func Validate(doc *Document, opts ...Option) error {
	_, _, err := Build(doc, opts...)
	return err
}

func (b *builder) fail(path string, err error) error {
	return &errors.DeclError{File: b.file, Path: path, Err: err}
}

func (b *builder) node(w *Widget, path string, sc scope) (flow.Node, error) {
	if w == nil {
		return nil, nil
	}
	if w.Each == "" {
		return b.widget(w, path, sc)
	}
	items, err := b.eval.evalList(w.Each, sc)
	if err != nil {
		return nil, b.fail(path+".each", err)
	}
	g := make(flow.Group, 0, len(items))
	for i, item := range items {
		n, err := b.widget(w, fmt.Sprintf("%s[%d]", path, i), scope{item: item, index: int64(i)})
		if err != nil {
			return nil, err
		}
		g = append(g, n)
	}
	return g, nil
}

func (b *builder) widget(w *Widget, path string, sc scope) (flow.Node, error) {
	if w.When != "" {
		ok, err := b.eval.evalBool(w.When, sc)
		if err != nil {
			return nil, b.fail(path+".when", err)
		}
		if !ok {
			return flow.Group{}, nil
		}
	}

	kind, ok := b.registry.Lookup(w.Kind)
	if !ok {
		return nil, b.fail(path+".kind", fmt.Errorf("unknown kind %q", w.Kind))
	}

	applies, err := b.props(kind, w.Props, path, sc)
	if err != nil {
		return nil, err
	}
	rules := make([]func(*snap.Maker), 0, len(w.Layout))
	for i, r := range w.Layout {
		fn, err := b.rule(r)
		if err != nil {
			return nil, b.fail(fmt.Sprintf("%s.layout[%d]", path, i), err)
		}
		rules = append(rules, fn)
	}

	children := make([]flow.Node, 0, len(w.Children))
	for i, c := range w.Children {
		n, err := b.node(c, fmt.Sprintf("%s.children[%d]", path, i), sc)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}

	item := flow.Make(kind.New, children...)
	if len(applies) > 0 {
		item = item.Modify(func(v view.Widget) {
			for _, apply := range applies {
				apply(v)
			}
		})
	}
	if len(rules) > 0 {
		item = item.Snap(func(m *snap.Maker) {
			for _, rule := range rules {
				rule(m)
			}
		})
	}
	if w.Ref != "" {
		name := w.Ref
		item = item.Bind(flow.Ref(b.refs, func(r *Refs, v view.Widget) { r.bind(name, v) }))
	}
	return item, nil
}

// props resolves raw prop values in name order. A value starting with "="
// is a CEL expression; "==" escapes a literal leading "=".
func (b *builder) props(kind *Kind, raw map[string]string, path string, sc scope) ([]Apply, error) {
	names := slices.Sorted(maps.Keys(raw))
	applies := make([]Apply, 0, len(names))
	for _, name := range names {
		propPath := path + ".props." + name
		prop, ok := kind.prop(name)
		if !ok {
			return nil, b.fail(propPath, fmt.Errorf("kind %q has no prop %q", kind.Name, name))
		}
		value := raw[name]
		switch {
		case strings.HasPrefix(value, "=="):
			value = value[1:]
		case strings.HasPrefix(value, "="):
			v, err := b.eval.evalString(value[1:], sc)
			if err != nil {
				return nil, b.fail(propPath, err)
			}
			value = v
		}
		apply, err := prop(value)
		if err != nil {
			return nil, b.fail(propPath, err)
		}
		applies = append(applies, apply)
	}
	return applies, nil
}

var anchors = map[string]func(*snap.Maker) *snap.Description{
	"top":             (*snap.Maker).Top,
	"bottom":          (*snap.Maker).Bottom,
	"leading":         (*snap.Maker).Leading,
	"trailing":        (*snap.Maker).Trailing,
	"width":           (*snap.Maker).Width,
	"height":          (*snap.Maker).Height,
	"centerX":         (*snap.Maker).CenterX,
	"centerY":         (*snap.Maker).CenterY,
	"edges":           (*snap.Maker).Edges,
	"horizontalEdges": (*snap.Maker).HorizontalEdges,
	"verticalEdges":   (*snap.Maker).VerticalEdges,
	"size":            (*snap.Maker).Size,
	"center":          (*snap.Maker).Center,
}

// rule validates r and returns the maker block applying it. Ref targets
// are resolved when the block runs, right after the widget is attached.
// Earlier siblings and ancestors are attached by then; a later sibling is
// not, so a rule targeting it fails activation and is reported.
func (b *builder) rule(r Rule) (func(*snap.Maker), error) {
	anchor, ok := anchors[r.Anchor]
	if !ok {
		return nil, fmt.Errorf("unknown anchor %q", r.Anchor)
	}
	relation := r.Relation
	if relation == "" {
		relation = "=="
	}
	if relation != "==" && relation != "<=" && relation != ">=" {
		return nil, fmt.Errorf("unknown relation %q", r.Relation)
	}

	var relate func(*snap.Description) *snap.Description
	switch r.To {
	case "superview":
		relate = map[string]func(*snap.Description) *snap.Description{
			"==": (*snap.Description).EqualToSuperview,
			"<=": (*snap.Description).LessThanOrEqualToSuperview,
			">=": (*snap.Description).GreaterThanOrEqualToSuperview,
		}[relation]
	case "intrinsic":
		if relation != "==" {
			return nil, fmt.Errorf("intrinsic size supports only ==")
		}
		relate = (*snap.Description).EqualToIntrinsicSize
	case "":
		if r.Constant == nil {
			return nil, fmt.Errorf("rule needs a target or a constant")
		}
		c := *r.Constant
		relate = map[string]func(*snap.Description) *snap.Description{
			"==": func(d *snap.Description) *snap.Description { return d.EqualToConstant(c) },
			"<=": func(d *snap.Description) *snap.Description { return d.LessThanOrEqualToConstant(c) },
			">=": func(d *snap.Description) *snap.Description { return d.GreaterThanOrEqualToConstant(c) },
		}[relation]
	default:
		if relation != "==" {
			return nil, fmt.Errorf("ref targets support only ==")
		}
		name, refs := r.To, b.refs
		relate = func(d *snap.Description) *snap.Description {
			target, ok := refs.Get(name)
			if !ok {
				return d
			}
			return d.EqualTo(target)
		}
	}

	return func(m *snap.Maker) {
		d := relate(anchor(m))
		if r.Offset != 0 {
			d.Offset(r.Offset)
		}
		if r.Inset != 0 {
			d.Inset(r.Inset)
		}
		if r.Multiplier != 0 {
			d.MultipliedBy(r.Multiplier)
		}
	}, nil
}
