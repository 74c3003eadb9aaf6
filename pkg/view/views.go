package view

import (
	"fmt"
	"slices"
	"strings"
)

// View is a generic container.
type View struct {
	Base
}

// NewView creates an empty view.
func NewView() *View {
	v := &View{}
	v.SetSelf(v)
	return v
}

// Axis is the direction a Stack arranges its children in.
type Axis int

const (
	// Vertical stacks children top to bottom.
	Vertical Axis = iota
	// Horizontal stacks children leading to trailing.
	Horizontal
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Distribution controls how a Stack sizes its arranged children.
type Distribution int

const (
	DistributionFill Distribution = iota
	DistributionFillEqually
	DistributionEqualSpacing
)

func (d Distribution) String() string {
	switch d {
	case DistributionFillEqually:
		return "fill-equally"
	case DistributionEqualSpacing:
		return "equal-spacing"
	default:
		return "fill"
	}
}

// Stack arranges children along an axis.
type Stack struct {
	Base
	Axis         Axis
	Distribution Distribution
	Spacing      float64
	arranged     []Widget
}

// NewStack creates a vertical stack.
func NewStack() *Stack {
	s := &Stack{}
	s.SetSelf(s)
	return s
}

// AddArrangedSubview attaches child and appends it to the arranged list.
func (s *Stack) AddArrangedSubview(child Widget) {
	if child == nil {
		return
	}
	s.AddSubview(child)
	s.arranged = append(s.arranged, child)
}

// ArrangedSubviews returns the arranged children in order.
func (s *Stack) ArrangedSubviews() []Widget {
	return slices.Clone(s.arranged)
}

func (s *Stack) detachSubview(child Widget) {
	if i := slices.Index(s.arranged, child); i >= 0 {
		s.arranged = slices.Delete(s.arranged, i, i+1)
	}
	s.Base.detachSubview(child)
}

// Effect is a content-wrapping container, such as a blur backdrop.
type Effect struct {
	Base
	Style   string
	content *View
}

// NewEffect creates an effect view with an empty content view.
func NewEffect() *Effect {
	e := &Effect{content: NewView()}
	e.SetSelf(e)
	e.AddSubview(e.content)
	return e
}

// ContentView returns the container that holds the effect's children.
func (e *Effect) ContentView() Widget {
	return e.content
}

// Scroll is a content-wrapping container with a scrollable content view.
type Scroll struct {
	Base
	ContentOffset float64
	content       *View
}

// NewScroll creates a scroll view with an empty content view.
func NewScroll() *Scroll {
	s := &Scroll{content: NewView()}
	s.SetSelf(s)
	s.AddSubview(s.content)
	return s
}

// ContentView returns the container that holds the scroll view's children.
func (s *Scroll) ContentView() Widget {
	return s.content
}

// Label displays a single piece of text.
type Label struct {
	Base
	Text string
}

// NewLabel creates a label with the given text.
func NewLabel(text string) *Label {
	l := &Label{Text: text}
	l.SetSelf(l)
	return l
}

// IntrinsicSize returns the measured size of the label's text.
func (l *Label) IntrinsicSize() Size {
	return MeasureText(l.Text)
}

// Field is an editable text input.
type Field struct {
	Base
	Text        string
	Placeholder string
}

// NewField creates an empty field.
func NewField() *Field {
	f := &Field{}
	f.SetSelf(f)
	return f
}

// IntrinsicSize measures the text, or the placeholder when empty.
func (f *Field) IntrinsicSize() Size {
	if f.Text == "" {
		return MeasureText(f.Placeholder)
	}
	return MeasureText(f.Text)
}

// Button is a tappable titled control.
type Button struct {
	Base
	Title string
	OnTap func()
}

// NewButton creates a button with the given title.
func NewButton(title string) *Button {
	b := &Button{Title: title}
	b.SetSelf(b)
	return b
}

// Tap invokes OnTap if set.
func (b *Button) Tap() {
	if b.OnTap != nil {
		b.OnTap()
	}
}

// IntrinsicSize measures the title.
func (b *Button) IntrinsicSize() Size {
	return MeasureText(b.Title)
}

// Describe returns a one-line description of w for dumps and messages.
func Describe(w Widget) string {
	var sb strings.Builder
	switch v := w.(type) {
	case *View:
		sb.WriteString("view")
	case *Stack:
		fmt.Fprintf(&sb, "stack(%s)", v.Axis)
	case *Effect:
		sb.WriteString("effect")
	case *Scroll:
		sb.WriteString("scroll")
	case *Label:
		fmt.Fprintf(&sb, "label %q", v.Text)
	case *Field:
		fmt.Fprintf(&sb, "field %q", v.Text)
	case *Button:
		fmt.Fprintf(&sb, "button %q", v.Title)
	case nil:
		return "<nil>"
	default:
		fmt.Fprintf(&sb, "%T", w)
	}
	if tagged, ok := w.(interface{ tag() string }); ok {
		if tag := tagged.tag(); tag != "" {
			fmt.Fprintf(&sb, " #%s", tag)
		}
	}
	return sb.String()
}

func (b *Base) tag() string {
	return b.Tag
}

// IsHidden reports whether the widget is marked hidden.
func (b *Base) IsHidden() bool {
	return b.Hidden
}

// ViewBase returns the embedded Base, giving generic code access to the
// common fields of any reference widget.
func (b *Base) ViewBase() *Base {
	return b
}
