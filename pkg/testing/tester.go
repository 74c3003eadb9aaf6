package testing

import (
	"fmt"
	"testing"

	"github.com/go-drift/fish/pkg/flow"
	"github.com/go-drift/fish/pkg/view"
)

// Tester compiles specs into a fresh root view and queries the result.
type Tester struct {
	root  *view.View
	state *flow.State
}

// NewTester creates a tester whose State has the Constraints and SnapLayout
// middleware registered, plus anything opts add. Call Cleanup when done, or
// use NewTesterWithT instead.
func NewTester(opts ...flow.Option) *Tester {
	state := flow.NewState()
	state.UseConstraints()
	state.UseSnap()
	for _, opt := range opts {
		opt(state)
	}
	return &Tester{state: state}
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
func NewTesterWithT(t *testing.T, opts ...flow.Option) *Tester {
	tester := NewTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup disposes the current root.
func (t *Tester) Cleanup() {
	if t.root != nil {
		t.root.Dispose()
		t.root = nil
	}
}

// State returns the compile state used by Pump.
func (t *Tester) State() *flow.State {
	return t.state
}

// Root returns the current root view, or nil before the first Pump.
func (t *Tester) Root() *view.View {
	return t.root
}

// Pump disposes the previous root and compiles spec into a new one.
func (t *Tester) Pump(spec *flow.Spec) *view.View {
	t.Cleanup()
	t.root = view.NewView()
	flow.Compile(t.state, t.root, spec)
	return t.root
}

// Mount is Pump for a TreeSource.
func (t *Tester) Mount(src flow.TreeSource) *view.View {
	return t.Pump(src.Tree())
}

// Find evaluates a finder against the current tree.
func (t *Tester) Find(finder Finder) FinderResult {
	if t.root == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{widgets: finder.Evaluate(t.root), finder: finder}
}

// Tap taps the first button matched by finder.
func (t *Tester) Tap(finder Finder) error {
	result := t.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("Tap: finder matched no widgets: %s", finder.Description())
	}
	button, ok := result.First().(*view.Button)
	if !ok {
		return fmt.Errorf("Tap: %s is not a button: %s", view.Describe(result.First()), finder.Description())
	}
	button.Tap()
	return nil
}

// Dump returns the current tree as indented text.
func (t *Tester) Dump() string {
	return Dump(t.root)
}

// Dump renders the tree under w, one widget per line, children indented by
// two spaces.
func Dump(w view.Widget) string {
	return view.Dump(w)
}
