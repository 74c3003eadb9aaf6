package flow

import (
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/go-drift/fish/pkg/errors"
	"github.com/go-drift/fish/pkg/view"
)

// Phase is the lifecycle position of a Rebuilder.
type Phase int

const (
	// PhaseIdle means not subscribed.
	PhaseIdle Phase = iota
	// PhaseRendering means a rebuild is in progress.
	PhaseRendering
	// PhaseSubscribed means the last rebuild finished and the source is live.
	PhaseSubscribed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRendering:
		return "rendering"
	case PhaseSubscribed:
		return "subscribed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Rebuilder owns the children of one container and replaces them every
// time its Source emits. Each emission tears down the previous children,
// then builds and compiles a new Spec against a fresh State.
type Rebuilder[T any] struct {
	source   Source[T]
	build    func(T) Node
	newState func() *State

	mu        sync.Mutex
	phase     Phase
	container view.Widget
	cancel    func()
	cancelled bool
	rebuilds  int
	logger    logr.Logger
}

// NewRebuilder returns an idle Rebuilder.
func NewRebuilder[T any](source Source[T], build func(T) Node) *Rebuilder[T] {
	return &Rebuilder[T]{source: source, build: build}
}

// WithState overrides the State factory used for each rebuild. By default
// every rebuild compiles against a Fork of the State passed to Mount.
func (r *Rebuilder[T]) WithState(factory func() *State) *Rebuilder[T] {
	r.newState = factory
	return r
}

// Mount subscribes to the source and renders into container. The initial
// value is rendered before Mount returns when the source delivers
// synchronously. A Rebuilder mounts at most once.
func (r *Rebuilder[T]) Mount(state *State, container view.Widget) {
	if state == nil {
		state = NewState()
	}
	r.mu.Lock()
	if r.container != nil || r.cancelled {
		r.mu.Unlock()
		state.Logger().Info("rebuilder already mounted", "container", view.Describe(container))
		return
	}
	r.container = container
	r.logger = state.Logger().WithValues("container", view.Describe(container))
	if r.newState == nil {
		r.newState = state.Fork
	}
	r.mu.Unlock()

	cancel := r.source.Subscribe(r.deliver)

	r.mu.Lock()
	if r.cancelled {
		r.mu.Unlock()
		cancel()
		return
	}
	r.cancel = cancel
	if r.phase == PhaseIdle {
		r.phase = PhaseSubscribed
	}
	r.mu.Unlock()
}

// Cancel ends the subscription. The current children stay attached.
func (r *Rebuilder[T]) Cancel() {
	r.mu.Lock()
	if r.cancelled {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	r.cancel = nil
	r.cancelled = true
	r.container = nil
	r.phase = PhaseIdle
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Phase returns the lifecycle phase.
func (r *Rebuilder[T]) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Rebuilds returns the number of completed rebuilds.
func (r *Rebuilder[T]) Rebuilds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rebuilds
}

func (r *Rebuilder[T]) deliver(v T) {
	r.mu.Lock()
	container := r.container
	if container == nil {
		r.mu.Unlock()
		errors.Report(&errors.FlowError{
			Op:   "flow.Rebuilder.deliver",
			Kind: errors.KindSource,
			Err:  fmt.Errorf("value delivered after cancel, ignoring"),
		})
		return
	}
	r.phase = PhaseRendering
	newState := r.newState
	logger := r.logger
	r.mu.Unlock()

	removed := teardown(container)
	Compile(newState(), container, Build(r.build(v)))

	r.mu.Lock()
	r.rebuilds++
	if !r.cancelled {
		r.phase = PhaseSubscribed
	}
	n := r.rebuilds
	r.mu.Unlock()
	logger.V(1).Info("rebuilt subtree", "rebuild", n, "removed", removed)
}

// teardown detaches and disposes every child of container.
func teardown(container view.Widget) int {
	children := view.ContentOf(container).Subviews()
	for _, child := range children {
		child.RemoveFromSuperview()
		if d, ok := child.(view.Disposable); ok {
			d.Dispose()
		}
	}
	return len(children)
}

// Reactive declares a container whose children are rebuilt from build on
// every value of source. The subscription starts when the container is
// produced and ends when it is disposed, including when a middleware vetoes
// its attachment.
func Reactive[W view.Widget, T any](ctor func() W, source Source[T], build func(T) Node) Item[W] {
	return Watch(ctor, func() *Rebuilder[T] { return NewRebuilder(source, build) })
}

// Watch is Reactive with a caller supplied Rebuilder factory, called once
// per produced container.
func Watch[W view.Widget, T any](ctor func() W, rebuilder func() *Rebuilder[T]) Item[W] {
	return Produce(func(s *State) W {
		w := ctor()
		r := rebuilder()
		r.Mount(s, w)
		if d, ok := any(w).(view.Disposable); ok {
			d.OnDispose(r.Cancel)
		}
		return w
	})
}
