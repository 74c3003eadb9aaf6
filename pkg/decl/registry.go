package decl

import (
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/go-drift/fish/pkg/view"
)

// Apply sets one parsed prop on a widget.
type Apply func(view.Widget)

// Prop parses a raw prop value. Parsing happens when the document is
// built, so malformed values fail the build instead of the compile pass.
type Prop func(value string) (Apply, error)

// Kind describes a widget kind documents can name.
type Kind struct {
	Name  string
	New   func() view.Widget
	Props map[string]Prop
}

// Registry maps kind names to widget kinds.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*Kind
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]*Kind)}
}

// Register adds k. Registering a name twice is an error.
func (r *Registry) Register(k Kind) error {
	if k.Name == "" || k.New == nil {
		return fmt.Errorf("kind needs a name and a constructor")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[k.Name]; exists {
		return fmt.Errorf("kind %q already registered", k.Name)
	}
	r.kinds[k.Name] = &k
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(k Kind) {
	if err := r.Register(k); err != nil {
		panic(err)
	}
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (*Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	return k, ok
}

// Kinds returns the registered kind names, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// prop resolves name for kind k, falling back to the common props.
func (k *Kind) prop(name string) (Prop, bool) {
	if p, ok := k.Props[name]; ok {
		return p, true
	}
	p, ok := commonProps[name]
	return p, ok
}

type viewBase interface {
	ViewBase() *view.Base
}

// commonProps apply to every widget embedding view.Base.
var commonProps = map[string]Prop{
	"tag": TextProp(func(w viewBase, v string) { w.ViewBase().Tag = v }),
	"background": TextProp(func(w viewBase, v string) {
		w.ViewBase().Background = v
	}),
	"hidden": BoolProp(func(w viewBase, v bool) { w.ViewBase().Hidden = v }),
}

// TextProp returns a Prop storing the raw value.
func TextProp[W any](set func(W, string)) Prop {
	return func(value string) (Apply, error) {
		return typed(func(w W) { set(w, value) }), nil
	}
}

// FloatProp returns a Prop parsing a number.
func FloatProp[W any](set func(W, float64)) Prop {
	return func(value string) (Apply, error) {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", value)
		}
		return typed(func(w W) { set(w, f) }), nil
	}
}

// BoolProp returns a Prop parsing a boolean.
func BoolProp[W any](set func(W, bool)) Prop {
	return func(value string) (Apply, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q", value)
		}
		return typed(func(w W) { set(w, b) }), nil
	}
}

// EnumProp returns a Prop accepting one of the keys of values.
func EnumProp[W any, E any](values map[string]E, set func(W, E)) Prop {
	return func(value string) (Apply, error) {
		e, ok := values[value]
		if !ok {
			names := make([]string, 0, len(values))
			for name := range values {
				names = append(names, name)
			}
			slices.Sort(names)
			return nil, fmt.Errorf("invalid value %q, want one of %v", value, names)
		}
		return typed(func(w W) { set(w, e) }), nil
	}
}

func typed[W any](fn func(W)) Apply {
	return func(w view.Widget) {
		if tw, ok := w.(W); ok {
			fn(tw)
		}
	}
}

var (
	axes = map[string]view.Axis{
		"vertical":   view.Vertical,
		"horizontal": view.Horizontal,
	}
	distributions = map[string]view.Distribution{
		"fill":          view.DistributionFill,
		"fill-equally":  view.DistributionFillEqually,
		"equal-spacing": view.DistributionEqualSpacing,
	}
)

// DefaultRegistry returns a registry with the reference toolkit kinds:
// view, stack, effect, scroll, label, field and button.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Kind{
		Name: "view",
		New:  func() view.Widget { return view.NewView() },
	})
	r.MustRegister(Kind{
		Name: "stack",
		New:  func() view.Widget { return view.NewStack() },
		Props: map[string]Prop{
			"axis":         EnumProp(axes, func(s *view.Stack, a view.Axis) { s.Axis = a }),
			"distribution": EnumProp(distributions, func(s *view.Stack, d view.Distribution) { s.Distribution = d }),
			"spacing":      FloatProp(func(s *view.Stack, f float64) { s.Spacing = f }),
		},
	})
	r.MustRegister(Kind{
		Name: "effect",
		New:  func() view.Widget { return view.NewEffect() },
		Props: map[string]Prop{
			"style": TextProp(func(e *view.Effect, v string) { e.Style = v }),
		},
	})
	r.MustRegister(Kind{
		Name: "scroll",
		New:  func() view.Widget { return view.NewScroll() },
		Props: map[string]Prop{
			"offset": FloatProp(func(s *view.Scroll, f float64) { s.ContentOffset = f }),
		},
	})
	r.MustRegister(Kind{
		Name: "label",
		New:  func() view.Widget { return view.NewLabel("") },
		Props: map[string]Prop{
			"text": TextProp(func(l *view.Label, v string) { l.Text = v }),
		},
	})
	r.MustRegister(Kind{
		Name: "field",
		New:  func() view.Widget { return view.NewField() },
		Props: map[string]Prop{
			"text":        TextProp(func(f *view.Field, v string) { f.Text = v }),
			"placeholder": TextProp(func(f *view.Field, v string) { f.Placeholder = v }),
		},
	})
	r.MustRegister(Kind{
		Name: "button",
		New:  func() view.Widget { return view.NewButton("") },
		Props: map[string]Prop{
			"title": TextProp(func(b *view.Button, v string) { b.Title = v }),
		},
	})
	return r
}
