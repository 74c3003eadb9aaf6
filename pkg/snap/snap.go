// Package snap is a maker-style DSL for building view constraints.
//
// A maker collects descriptions against one widget and turns them into
// constraints once the widget is attached:
//
//	err := snap.MakeConstraints(label, func(m *snap.Maker) {
//	    m.Edges().EqualToSuperview().Inset(16)
//	    m.Height().EqualToConstant(30)
//	})
//
// Descriptions without an explicit target relate to the same attribute on
// the superview, so MakeConstraints fails with ErrNoSuperview when the
// widget is detached.
package snap

import (
	"errors"
	"fmt"

	"github.com/go-drift/fish/pkg/view"
)

// ErrNoSuperview is returned when a description needs the superview of a
// detached widget.
var ErrNoSuperview = errors.New("snap: widget has no superview")

type targetKind int

const (
	targetNone targetKind = iota
	targetSuperview
	targetWidget
	targetConstant
	targetIntrinsic
)

// Maker collects constraint descriptions for one widget.
type Maker struct {
	item         view.Widget
	descriptions []*Description
}

// NewMaker returns a maker for w.
func NewMaker(w view.Widget) *Maker {
	return &Maker{item: w}
}

// Item returns the widget the maker builds constraints for.
func (m *Maker) Item() view.Widget {
	return m.item
}

func (m *Maker) describe(attrs ...view.Attribute) *Description {
	d := &Description{attrs: attrs, multiplier: 1}
	m.descriptions = append(m.descriptions, d)
	return d
}

func (m *Maker) Leading() *Description  { return m.describe(view.AttrLeading) }
func (m *Maker) Trailing() *Description { return m.describe(view.AttrTrailing) }
func (m *Maker) Top() *Description      { return m.describe(view.AttrTop) }
func (m *Maker) Bottom() *Description   { return m.describe(view.AttrBottom) }
func (m *Maker) Width() *Description    { return m.describe(view.AttrWidth) }
func (m *Maker) Height() *Description   { return m.describe(view.AttrHeight) }
func (m *Maker) CenterX() *Description  { return m.describe(view.AttrCenterX) }
func (m *Maker) CenterY() *Description  { return m.describe(view.AttrCenterY) }

// Edges describes leading, trailing, top and bottom together.
func (m *Maker) Edges() *Description {
	return m.describe(view.AttrLeading, view.AttrTrailing, view.AttrTop, view.AttrBottom)
}

// HorizontalEdges describes leading and trailing.
func (m *Maker) HorizontalEdges() *Description {
	return m.describe(view.AttrLeading, view.AttrTrailing)
}

// VerticalEdges describes top and bottom.
func (m *Maker) VerticalEdges() *Description {
	return m.describe(view.AttrTop, view.AttrBottom)
}

// Size describes width and height.
func (m *Maker) Size() *Description {
	return m.describe(view.AttrWidth, view.AttrHeight)
}

// Center describes centerX and centerY.
func (m *Maker) Center() *Description {
	return m.describe(view.AttrCenterX, view.AttrCenterY)
}

// Constraints resolves the collected descriptions without activating them.
func (m *Maker) Constraints() ([]*view.Constraint, error) {
	var out []*view.Constraint
	for _, d := range m.descriptions {
		cs, err := d.resolve(m.item)
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	return out, nil
}

// MakeConstraints runs fn against a new maker for w and activates the
// resulting constraints.
func MakeConstraints(w view.Widget, fn func(*Maker)) ([]*view.Constraint, error) {
	m := NewMaker(w)
	fn(m)
	cs, err := m.Constraints()
	if err != nil {
		return nil, err
	}
	if err := view.Activate(cs...); err != nil {
		return cs, err
	}
	return cs, nil
}

// Description is one statement of a maker, covering one or more attributes.
type Description struct {
	attrs      []view.Attribute
	relation   view.Relation
	kind       targetKind
	target     view.Widget
	constant   float64
	offset     float64
	inset      float64
	multiplier float64
}

func (d *Description) relate(relation view.Relation, kind targetKind) *Description {
	d.relation = relation
	d.kind = kind
	return d
}

// EqualToSuperview relates each attribute to the same one on the superview.
func (d *Description) EqualToSuperview() *Description {
	return d.relate(view.Equal, targetSuperview)
}

// LessThanOrEqualToSuperview is EqualToSuperview with <=.
func (d *Description) LessThanOrEqualToSuperview() *Description {
	return d.relate(view.LessOrEqual, targetSuperview)
}

// GreaterThanOrEqualToSuperview is EqualToSuperview with >=.
func (d *Description) GreaterThanOrEqualToSuperview() *Description {
	return d.relate(view.GreaterOrEqual, targetSuperview)
}

// EqualTo relates each attribute to the same one on w.
func (d *Description) EqualTo(w view.Widget) *Description {
	d.target = w
	return d.relate(view.Equal, targetWidget)
}

// EqualToConstant pins each attribute to value.
func (d *Description) EqualToConstant(value float64) *Description {
	d.constant = value
	return d.relate(view.Equal, targetConstant)
}

// LessThanOrEqualToConstant bounds each attribute from above.
func (d *Description) LessThanOrEqualToConstant(value float64) *Description {
	d.constant = value
	return d.relate(view.LessOrEqual, targetConstant)
}

// GreaterThanOrEqualToConstant bounds each attribute from below.
func (d *Description) GreaterThanOrEqualToConstant(value float64) *Description {
	d.constant = value
	return d.relate(view.GreaterOrEqual, targetConstant)
}

// EqualToIntrinsicSize pins width/height to the widget's intrinsic size.
// The widget must implement view.IntrinsicSizer.
func (d *Description) EqualToIntrinsicSize() *Description {
	return d.relate(view.Equal, targetIntrinsic)
}

// Offset adds value to every resolved constant.
func (d *Description) Offset(value float64) *Description {
	d.offset = value
	return d
}

// Inset moves edges inwards by value: positive for leading/top, negative
// for trailing/bottom.
func (d *Description) Inset(value float64) *Description {
	d.inset = value
	return d
}

// MultipliedBy sets the multiplier.
func (d *Description) MultipliedBy(value float64) *Description {
	d.multiplier = value
	return d
}

func (d *Description) resolve(item view.Widget) ([]*view.Constraint, error) {
	out := make([]*view.Constraint, 0, len(d.attrs))
	for _, attr := range d.attrs {
		first := view.AnchorOf(item, attr)
		c := &view.Constraint{First: first, Relation: d.relation, Multiplier: d.multiplier}

		switch d.kind {
		case targetSuperview, targetWidget:
			other := d.target
			if d.kind == targetSuperview {
				other = item.Superview()
				if other == nil {
					return nil, fmt.Errorf("%s.%s: %w", view.Describe(item), attr, ErrNoSuperview)
				}
			}
			second := view.AnchorOf(other, attr)
			c.Second = &second
			c.Constant = d.offset + insetFor(attr, d.inset)
		case targetConstant:
			c.Constant = d.constant + d.offset
		case targetIntrinsic:
			sizer, ok := item.(view.IntrinsicSizer)
			if !ok || !attr.IsDimension() {
				return nil, fmt.Errorf("snap: %s.%s has no intrinsic size", view.Describe(item), attr)
			}
			size := sizer.IntrinsicSize()
			c.Constant = size.Width + d.offset
			if attr == view.AttrHeight {
				c.Constant = size.Height + d.offset
			}
		default:
			return nil, fmt.Errorf("snap: %s.%s has no relation", view.Describe(item), attr)
		}
		out = append(out, c)
	}
	return out, nil
}

func insetFor(attr view.Attribute, inset float64) float64 {
	switch attr {
	case view.AttrLeading, view.AttrTop:
		return inset
	case view.AttrTrailing, view.AttrBottom:
		return -inset
	default:
		return 0
	}
}
