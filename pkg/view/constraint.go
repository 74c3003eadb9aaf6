package view

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoCommonAncestor is returned when a constraint relates widgets that
// are not in the same tree.
var ErrNoCommonAncestor = errors.New("view: constraint items have no common ancestor")

// Attribute is the edge or dimension an anchor refers to.
type Attribute int

const (
	AttrLeading Attribute = iota
	AttrTrailing
	AttrTop
	AttrBottom
	AttrWidth
	AttrHeight
	AttrCenterX
	AttrCenterY
)

func (a Attribute) String() string {
	switch a {
	case AttrLeading:
		return "leading"
	case AttrTrailing:
		return "trailing"
	case AttrTop:
		return "top"
	case AttrBottom:
		return "bottom"
	case AttrWidth:
		return "width"
	case AttrHeight:
		return "height"
	case AttrCenterX:
		return "centerX"
	case AttrCenterY:
		return "centerY"
	default:
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
}

// IsDimension reports whether the attribute is a width or height.
func (a Attribute) IsDimension() bool {
	return a == AttrWidth || a == AttrHeight
}

// Relation is the comparison a constraint enforces.
type Relation int

const (
	Equal Relation = iota
	LessOrEqual
	GreaterOrEqual
)

func (r Relation) String() string {
	switch r {
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	default:
		return "=="
	}
}

// Anchor names one attribute of one widget.
type Anchor struct {
	Item Widget
	Attr Attribute
}

// AnchorOf returns the anchor for attr on w.
func AnchorOf(w Widget, attr Attribute) Anchor {
	return Anchor{Item: w, Attr: attr}
}

// EqualTo relates a to other.
func (a Anchor) EqualTo(other Anchor) *Constraint {
	return a.relate(Equal, &other)
}

// LessOrEqualTo relates a to other with <=.
func (a Anchor) LessOrEqualTo(other Anchor) *Constraint {
	return a.relate(LessOrEqual, &other)
}

// GreaterOrEqualTo relates a to other with >=.
func (a Anchor) GreaterOrEqualTo(other Anchor) *Constraint {
	return a.relate(GreaterOrEqual, &other)
}

// EqualToConstant pins a dimension anchor to a fixed value.
func (a Anchor) EqualToConstant(value float64) *Constraint {
	c := a.relate(Equal, nil)
	c.Constant = value
	return c
}

func (a Anchor) relate(relation Relation, other *Anchor) *Constraint {
	return &Constraint{First: a, Relation: relation, Second: other, Multiplier: 1}
}

// Constraint is a linear relation between two anchors, or between an anchor
// and a constant: First <relation> Second*Multiplier + Constant.
type Constraint struct {
	First      Anchor
	Relation   Relation
	Second     *Anchor
	Multiplier float64
	Constant   float64
	Identifier string

	active bool
	host   Widget
}

// WithConstant sets the constant and returns c.
func (c *Constraint) WithConstant(value float64) *Constraint {
	c.Constant = value
	return c
}

// WithMultiplier sets the multiplier and returns c.
func (c *Constraint) WithMultiplier(value float64) *Constraint {
	c.Multiplier = value
	return c
}

// IsActive reports whether the constraint is installed.
func (c *Constraint) IsActive() bool {
	return c.active
}

// Host returns the widget the constraint is installed on, or nil.
func (c *Constraint) Host() Widget {
	return c.host
}

func (c *Constraint) references(w Widget) bool {
	if IsDescendant(c.First.Item, w) {
		return true
	}
	return c.Second != nil && IsDescendant(c.Second.Item, w)
}

func (c *Constraint) deactivate() {
	if !c.active {
		return
	}
	if holder, ok := c.host.(constraintHolder); ok {
		holder.uninstallConstraint(c)
	}
	c.active = false
	c.host = nil
}

func (c *Constraint) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s.%s %s ", Describe(c.First.Item), c.First.Attr, c.Relation)
	if c.Second == nil {
		fmt.Fprintf(&sb, "%g", c.Constant)
		return sb.String()
	}
	fmt.Fprintf(&sb, "%s.%s", Describe(c.Second.Item), c.Second.Attr)
	if c.Multiplier != 1 {
		fmt.Fprintf(&sb, " * %g", c.Multiplier)
	}
	if c.Constant != 0 {
		fmt.Fprintf(&sb, " %+g", c.Constant)
	}
	return sb.String()
}

// Activate installs each constraint on the nearest common ancestor of the
// widgets it relates. Constraints that cannot be installed are skipped and
// reported in the returned error; the rest are still activated.
func Activate(constraints ...*Constraint) error {
	var errs []error
	for _, c := range constraints {
		if c == nil || c.active {
			continue
		}
		var second Widget
		if c.Second != nil {
			second = c.Second.Item
		}
		host := CommonAncestor(c.First.Item, second)
		if host == nil {
			errs = append(errs, fmt.Errorf("activate %s: %w", c, ErrNoCommonAncestor))
			continue
		}
		if holder, ok := host.(constraintHolder); ok {
			holder.installConstraint(c)
		}
		c.host = host
		c.active = true
	}
	return errors.Join(errs...)
}

// Deactivate uninstalls each constraint.
func Deactivate(constraints ...*Constraint) {
	for _, c := range constraints {
		if c != nil {
			c.deactivate()
		}
	}
}
