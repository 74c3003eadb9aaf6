package flow

// Build folds a block of nodes into a Spec.
func Build(children ...Node) *Spec {
	return &Spec{leaves: flatten(Group(children))}
}

// Each maps items to nodes in order. An empty slice yields an empty group.
func Each[T any](items []T, fn func(int, T) Node) Node {
	g := make(Group, 0, len(items))
	for i, item := range items {
		g = append(g, fn(i, item))
	}
	return g
}

// If includes then when cond holds.
func If(cond bool, then Node) Node {
	if cond {
		return then
	}
	return Group{}
}

// Either picks first when cond holds and second otherwise.
func Either(cond bool, first, second Node) Node {
	if cond {
		return first
	}
	return second
}

// Maybe folds a nil node to an empty group.
func Maybe(n Node) Node {
	if n == nil {
		return Group{}
	}
	return n
}

// Optional calls fn with *v when v is non-nil.
func Optional[T any](v *T, fn func(T) Node) Node {
	if v == nil {
		return Group{}
	}
	return Maybe(fn(*v))
}

func buildChildren(children []Node) *Spec {
	if len(children) == 0 {
		return nil
	}
	return Build(children...)
}
