package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/fish/pkg/view"
)

// Finder locates widgets in a tree.
type Finder interface {
	// Evaluate returns all matching widgets under root (depth-first pre-order).
	Evaluate(root view.Widget) []view.Widget
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	widgets []view.Widget
	finder  Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() view.Widget {
	if len(r.widgets) == 0 {
		panic(fmt.Sprintf("Finder found no widgets: %s", r.describe()))
	}
	return r.widgets[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() view.Widget {
	if len(r.widgets) == 0 {
		return nil
	}
	return r.widgets[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) view.Widget {
	if index < 0 || index >= len(r.widgets) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.widgets), r.describe()))
	}
	return r.widgets[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []view.Widget {
	return r.widgets
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.widgets)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.widgets) > 0
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

type typeFinder struct {
	widgetType reflect.Type
}

func (f *typeFinder) Evaluate(root view.Widget) []view.Widget {
	return collectMatches(root, func(w view.Widget) bool {
		return reflect.TypeOf(w) == f.widgetType
	})
}

func (f *typeFinder) Description() string {
	return fmt.Sprintf("ByType(%s)", f.widgetType)
}

// ByType returns a finder that matches widgets of type T.
func ByType[T view.Widget]() Finder {
	return &typeFinder{widgetType: reflect.TypeFor[T]()}
}

type tagFinder struct {
	tag string
}

func (f *tagFinder) Evaluate(root view.Widget) []view.Widget {
	return collectMatches(root, func(w view.Widget) bool {
		b, ok := w.(interface{ ViewBase() *view.Base })
		return ok && b.ViewBase().Tag == f.tag
	})
}

func (f *tagFinder) Description() string {
	return fmt.Sprintf("ByTag(%q)", f.tag)
}

// ByTag returns a finder that matches widgets with the given tag.
func ByTag(tag string) Finder {
	return &tagFinder{tag: tag}
}

// TextOf returns the displayed text of labels, fields and buttons.
func TextOf(w view.Widget) (string, bool) {
	switch v := w.(type) {
	case *view.Label:
		return v.Text, true
	case *view.Field:
		return v.Text, true
	case *view.Button:
		return v.Title, true
	default:
		return "", false
	}
}

type textFinder struct {
	text     string
	contains bool
}

func (f *textFinder) Evaluate(root view.Widget) []view.Widget {
	return collectMatches(root, func(w view.Widget) bool {
		text, ok := TextOf(w)
		if !ok {
			return false
		}
		if f.contains {
			return strings.Contains(text, f.text)
		}
		return text == f.text
	})
}

func (f *textFinder) Description() string {
	if f.contains {
		return fmt.Sprintf("ByTextContaining(%q)", f.text)
	}
	return fmt.Sprintf("ByText(%q)", f.text)
}

// ByText returns a finder that matches a label, field or button whose text
// equals text.
func ByText(text string) Finder {
	return &textFinder{text: text}
}

// ByTextContaining returns a finder that matches a label, field or button
// whose text contains substring.
func ByTextContaining(substring string) Finder {
	return &textFinder{text: substring, contains: true}
}

type predicateFinder struct {
	fn   func(view.Widget) bool
	desc string
}

func (f *predicateFinder) Evaluate(root view.Widget) []view.Widget {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches widgets satisfying fn.
func ByPredicate(fn func(view.Widget) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds widgets matching 'matching' below widgets
// matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root view.Widget) []view.Widget {
	var results []view.Widget
	seen := make(map[view.Widget]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, child := range ancestor.Subviews() {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches widgets satisfying 'matching'
// that are descendants of widgets matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root view.Widget) []view.Widget {
	descendants := f.of.Evaluate(root)
	if len(descendants) == 0 {
		return nil
	}
	var results []view.Widget
	for _, candidate := range f.matching.Evaluate(root) {
		for _, d := range descendants {
			if d != candidate && view.IsDescendant(d, candidate) {
				results = append(results, candidate)
				break
			}
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor returns a finder that matches widgets satisfying 'matching'
// that are ancestors of widgets matching 'of'.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

func collectMatches(root view.Widget, predicate func(view.Widget) bool) []view.Widget {
	var results []view.Widget
	view.Walk(root, func(w view.Widget) bool {
		if predicate(w) {
			results = append(results, w)
		}
		return true
	})
	return results
}
