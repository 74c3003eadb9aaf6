package flow

import (
	"reflect"
	"slices"

	"github.com/go-logr/logr"

	"github.com/go-drift/fish/pkg/log"
	"github.com/go-drift/fish/pkg/view"
)

// State is the compile context: an ordered middleware registry keyed by
// dynamic type. A State is not safe for concurrent compiles; use Fork to
// derive one per pass.
type State struct {
	index       map[reflect.Type]int
	middlewares []Middleware
	logger      logr.Logger
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger used for compile diagnostics.
func WithLogger(l logr.Logger) Option {
	return func(s *State) {
		s.logger = l
	}
}

// WithMiddleware registers middleware in order.
func WithMiddleware(ms ...Middleware) Option {
	return func(s *State) {
		for _, m := range ms {
			s.Use(m)
		}
	}
}

// NewState returns an empty State logging to the process-wide logger.
func NewState(opts ...Option) *State {
	s := &State{
		index:  make(map[reflect.Type]int),
		logger: log.Log().WithName("flow"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Use registers m. A middleware of the same dynamic type is replaced in
// place and keeps its position in the pipeline.
func (s *State) Use(m Middleware) {
	if m == nil {
		return
	}
	t := reflect.TypeOf(m)
	if i, ok := s.index[t]; ok {
		s.middlewares[i] = m
		return
	}
	s.index[t] = len(s.middlewares)
	s.middlewares = append(s.middlewares, m)
}

// Lookup returns the middleware registered under type M.
func Lookup[M Middleware](s *State) (M, bool) {
	var zero M
	if s == nil {
		return zero, false
	}
	i, ok := s.index[reflect.TypeFor[M]()]
	if !ok {
		return zero, false
	}
	m, ok := s.middlewares[i].(M)
	return m, ok
}

// Middlewares returns the registered middleware in pipeline order.
func (s *State) Middlewares() []Middleware {
	return slices.Clone(s.middlewares)
}

// Logger returns the compile logger.
func (s *State) Logger() logr.Logger {
	return s.logger
}

// Fork returns a State with the same pipeline shape. Middleware that
// implement Forker are replaced by fresh instances; the rest are shared.
func (s *State) Fork() *State {
	f := &State{
		index:  make(map[reflect.Type]int, len(s.index)),
		logger: s.logger,
	}
	for _, m := range s.middlewares {
		if fk, ok := m.(Forker); ok {
			f.Use(fk.Fork())
			continue
		}
		f.Use(m)
	}
	return f
}

// UseConstraints registers and returns a fresh Constraints middleware.
func (s *State) UseConstraints() *Constraints {
	c := NewConstraints()
	s.Use(c)
	return c
}

// UseSnap registers and returns a fresh SnapLayout middleware.
func (s *State) UseSnap() *SnapLayout {
	sl := NewSnapLayout()
	s.Use(sl)
	return sl
}

// UseFilter registers and returns a Filter keeping widgets accepted by keep.
func (s *State) UseFilter(keep func(view.Widget) bool) *Filter {
	f := NewFilter(keep)
	s.Use(f)
	return f
}

func (s *State) setup() {
	for _, m := range s.middlewares {
		m.Setup()
	}
}

func (s *State) cleanup() {
	for _, m := range s.middlewares {
		m.Cleanup()
	}
}

// produce materializes every leaf of spec in order.
func (s *State) produce(spec *Spec) []produced {
	out := make([]produced, 0, spec.Len())
	for _, l := range spec.leaves {
		w := l.Produce(s)
		if w == nil {
			s.logger.V(1).Info("producer returned nil, skipping")
			continue
		}
		out = append(out, produced{widget: w, children: l.Children})
	}
	return out
}

// render runs the pipeline for each item in order: PreRender, attach, then
// PostRender, before moving on to the next sibling. Vetoed widgets are
// disposed, which ends any subscription they took while being produced. It
// returns the items that were not vetoed.
func (s *State) render(c container, items []produced) []produced {
	attached := items[:0:0]
	for _, it := range items {
		if !s.preRender(it.widget) {
			if d, ok := it.widget.(view.Disposable); ok {
				d.Dispose()
			}
			continue
		}
		c.attach(it.widget)
		for _, m := range s.middlewares {
			m.PostRender(it.widget)
		}
		attached = append(attached, it)
	}
	return attached
}

func (s *State) preRender(w view.Widget) bool {
	for _, m := range s.middlewares {
		if !m.PreRender(w) {
			s.logger.V(1).Info("attachment vetoed", "widget", view.Describe(w), "middleware", reflect.TypeOf(m).String())
			return false
		}
	}
	return true
}
