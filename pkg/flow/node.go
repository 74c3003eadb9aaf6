package flow

import (
	"slices"

	"github.com/go-drift/fish/pkg/view"
)

// Producer materializes one widget during a compile pass.
type Producer func(*State) view.Widget

// Node is one expression of a tree declaration: a Leaf, a Group, an Item,
// or a previously built Spec.
type Node interface {
	isNode()
}

// leafNode is satisfied by nodes that fold to a single Leaf.
type leafNode interface {
	Node
	leaf() Leaf
}

// Leaf produces one widget. Children, when set, is compiled into the
// produced widget once it is attached.
type Leaf struct {
	Produce  Producer
	Children *Spec
}

func (Leaf) isNode() {}

func (l Leaf) leaf() Leaf { return l }

// Group is an ordered block of nodes.
type Group []Node

func (Group) isNode() {}

// Spec is the flattened result of one builder evaluation. It is immutable
// and may be compiled any number of times.
type Spec struct {
	leaves []Leaf
}

func (*Spec) isNode() {}

// Len returns the number of leaves. A nil Spec has none.
func (s *Spec) Len() int {
	if s == nil {
		return 0
	}
	return len(s.leaves)
}

// Leaves returns the leaves in declaration order.
func (s *Spec) Leaves() []Leaf {
	if s == nil {
		return nil
	}
	return slices.Clone(s.leaves)
}

// flatten folds root into its leaves in declaration order. It walks an
// explicit stack so nesting depth is bounded only by memory.
func flatten(root Node) []Leaf {
	var leaves []Leaf
	stack := []Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n := n.(type) {
		case nil:
		case Group:
			for i := len(n) - 1; i >= 0; i-- {
				stack = append(stack, n[i])
			}
		case *Spec:
			if n != nil {
				leaves = append(leaves, n.leaves...)
			}
		case leafNode:
			if l := n.leaf(); l.Produce != nil {
				leaves = append(leaves, l)
			}
		}
	}
	return leaves
}
