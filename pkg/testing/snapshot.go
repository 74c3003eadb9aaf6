package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/fish/pkg/view"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the structure of a widget tree.
type Snapshot struct {
	Tree *Node `json:"tree"`
}

// Node is one widget in a snapshot.
type Node struct {
	Type        string   `json:"type"`
	Text        string   `json:"text,omitempty"`
	Tag         string   `json:"tag,omitempty"`
	Hidden      bool     `json:"hidden,omitempty"`
	Constraints []string `json:"constraints,omitempty"`
	Children    []*Node  `json:"children,omitempty"`
}

// Capture snapshots the tree under w.
func Capture(w view.Widget) *Snapshot {
	if w == nil {
		return &Snapshot{}
	}
	return &Snapshot{Tree: captureNode(w)}
}

// Snapshot captures the tester's current tree.
func (t *Tester) Snapshot() *Snapshot {
	if t.root == nil {
		return &Snapshot{}
	}
	return Capture(t.root)
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When FISH_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("FISH_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: FISH_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s (-expected +actual)\n%s\n\nTo update: FISH_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a diff from expected to this snapshot, or "" when equal.
func (s *Snapshot) Diff(expected *Snapshot) string {
	return cmp.Diff(expected, s)
}

func captureNode(w view.Widget) *Node {
	t := reflect.TypeOf(w)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	node := &Node{Type: t.Name()}
	node.Text, _ = TextOf(w)
	if b, ok := w.(interface{ ViewBase() *view.Base }); ok {
		base := b.ViewBase()
		node.Tag = base.Tag
		node.Hidden = base.Hidden
		for _, c := range base.Constraints() {
			node.Constraints = append(node.Constraints, c.String())
		}
	}
	for _, child := range w.Subviews() {
		node.Children = append(node.Children, captureNode(child))
	}
	return node
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
