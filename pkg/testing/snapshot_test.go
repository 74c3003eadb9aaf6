package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/fish/pkg/flow"
)

// fakeT records failures instead of failing the enclosing test.
type fakeT struct {
	name   string
	errors []string
	fatal  bool
}

func (f *fakeT) Helper()      {}
func (f *fakeT) Name() string { return f.name }
func (f *fakeT) Errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}
func (f *fakeT) Fatalf(format string, args ...any) {
	f.Errorf(format, args...)
	f.fatal = true
}

func TestCapture_Structure(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.Pump(loginSpec(nil))

	snap := tester.Snapshot()
	root := snap.Tree
	if root == nil || root.Type != "View" {
		t.Fatalf("expected a View root, got %+v", root)
	}
	if len(root.Constraints) != 4 {
		t.Errorf("expected 4 root constraints, got %v", root.Constraints)
	}
	stack := root.Children[0]
	if stack.Type != "Stack" || len(stack.Children) != 3 {
		t.Fatalf("unexpected stack node %+v", stack)
	}
	field := stack.Children[1]
	if field.Type != "Field" || field.Tag != "email" {
		t.Errorf("unexpected field node %+v", field)
	}
	if stack.Children[2].Text != "Submit" {
		t.Errorf("expected button text 'Submit', got %q", stack.Children[2].Text)
	}
}

func TestCapture_Empty(t *testing.T) {
	if Capture(nil).Tree != nil {
		t.Error("expected an empty snapshot for nil")
	}
	if NewTester().Snapshot().Tree != nil {
		t.Error("expected an empty snapshot before Pump")
	}
}

func TestSnapshot_Diff(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.Pump(loginSpec(nil))
	before := tester.Snapshot()

	if diff := tester.Snapshot().Diff(before); diff != "" {
		t.Errorf("identical trees should not differ:\n%s", diff)
	}

	tester.Pump(flow.Build(text("other")))
	diff := tester.Snapshot().Diff(before)
	if !strings.Contains(diff, "other") {
		t.Errorf("expected diff to mention the new label, got:\n%s", diff)
	}
}

func TestSnapshot_MatchesFile(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.Pump(loginSpec(nil))
	snap := tester.Snapshot()

	path := filepath.Join(t.TempDir(), "nested", "login.snapshot.json")
	if err := snap.UpdateFile(path); err != nil {
		t.Fatalf("UpdateFile: %v", err)
	}

	ft := &fakeT{name: "TestLogin"}
	snap.MatchesFile(ft, path)
	if len(ft.errors) != 0 {
		t.Errorf("expected a match, got %v", ft.errors)
	}

	tester.Pump(flow.Build(text("changed")))
	ft = &fakeT{name: "TestLogin"}
	tester.Snapshot().MatchesFile(ft, path)
	if len(ft.errors) != 1 || !strings.Contains(ft.errors[0], "FISH_UPDATE_SNAPSHOTS=1") {
		t.Errorf("expected a mismatch with update hint, got %v", ft.errors)
	}
}

func TestSnapshot_MissingFile(t *testing.T) {
	ft := &fakeT{name: "TestMissing"}
	Capture(nil).MatchesFile(ft, filepath.Join(t.TempDir(), "missing.json"))
	if !ft.fatal || !strings.Contains(ft.errors[0], "snapshot file missing") {
		t.Errorf("expected a missing-file failure, got %v", ft.errors)
	}
}

func TestSnapshot_UpdateEnv(t *testing.T) {
	t.Setenv("FISH_UPDATE_SNAPSHOTS", "1")
	tester := NewTesterWithT(t)
	tester.Pump(loginSpec(nil))

	path := filepath.Join(t.TempDir(), "login.json")
	ft := &fakeT{name: "TestUpdate"}
	tester.Snapshot().MatchesFile(ft, path)
	if len(ft.errors) != 0 {
		t.Fatalf("update should not fail: %v", ft.errors)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected snapshot file: %v", err)
	}
	if !strings.Contains(string(data), `"type": "Stack"`) {
		t.Errorf("expected indented JSON, got:\n%s", data)
	}
}
