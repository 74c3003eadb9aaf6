package testing

import (
	"strings"
	"testing"

	"github.com/go-drift/fish/pkg/flow"
	"github.com/go-drift/fish/pkg/view"
)

func TestTester_Pump(t *testing.T) {
	tester := NewTesterWithT(t)
	root := tester.Pump(loginSpec(nil))

	if root != tester.Root() {
		t.Fatal("Pump should return the new root")
	}
	if len(root.Subviews()) != 1 {
		t.Fatalf("expected one stack under the root, got %d", len(root.Subviews()))
	}
	stack := root.Subviews()[0].(*view.Stack)
	if len(stack.ArrangedSubviews()) != 3 {
		t.Errorf("expected 3 arranged subviews, got %d", len(stack.ArrangedSubviews()))
	}
	if got := len(root.Constraints()); got != 4 {
		t.Errorf("expected 4 edge constraints on the root, got %d", got)
	}
}

func TestTester_PumpDisposesPreviousRoot(t *testing.T) {
	tester := NewTesterWithT(t)
	first := tester.Pump(loginSpec(nil))
	second := tester.Pump(flow.Build(text("again")))

	if !first.IsDisposed() {
		t.Error("previous root should be disposed")
	}
	if second.IsDisposed() {
		t.Error("current root should be live")
	}
	if tester.Find(ByText("Submit")).Exists() {
		t.Error("old tree should not be searchable")
	}
}

func TestTester_Cleanup(t *testing.T) {
	tester := NewTester()
	root := tester.Pump(loginSpec(nil))
	tester.Cleanup()

	if !root.IsDisposed() {
		t.Error("Cleanup should dispose the root")
	}
	if tester.Root() != nil {
		t.Error("Root should be nil after Cleanup")
	}
	tester.Cleanup()
}

func TestTester_Tap(t *testing.T) {
	tester := NewTesterWithT(t)
	taps := 0
	tester.Pump(loginSpec(func() { taps++ }))

	if err := tester.Tap(ByText("Submit")); err != nil {
		t.Fatalf("Tap: %v", err)
	}
	if taps != 1 {
		t.Errorf("expected 1 tap, got %d", taps)
	}
	if err := tester.Tap(ByText("Sign in")); err == nil {
		t.Error("tapping a label should fail")
	}
	if err := tester.Tap(ByText("missing")); err == nil {
		t.Error("tapping nothing should fail")
	}
}

type loginScreen struct{}

func (loginScreen) Tree() *flow.Spec { return loginSpec(nil) }

func TestTester_Mount(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.Mount(loginScreen{})

	if !tester.Find(ByTag("email")).Exists() {
		t.Error("expected the mounted screen's field")
	}
}

func TestTester_Options(t *testing.T) {
	tester := NewTesterWithT(t, flow.WithMiddleware(flow.SkipHidden()))
	tester.Pump(flow.Build(
		text("shown"),
		text("hidden").Modify(func(l *view.Label) { l.Hidden = true }),
	))

	if tester.Find(ByText("hidden")).Exists() {
		t.Error("hidden label should be filtered")
	}
	if _, ok := flow.Lookup[*flow.Constraints](tester.State()); !ok {
		t.Error("tester state should carry Constraints")
	}
}

func TestDump(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.Pump(loginSpec(nil))

	want := strings.Join([]string{
		"view",
		"  stack(vertical)",
		`    label "Sign in"`,
		`    field "" #email`,
		`    button "Submit"`,
		"",
	}, "\n")
	if got := tester.Dump(); got != want {
		t.Errorf("dump mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
	if Dump(nil) != "" {
		t.Error("Dump(nil) should be empty")
	}
}
