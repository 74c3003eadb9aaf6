// Package errors provides structured error handling for fish.
//
// Most failures in the tree compiler are either caught by the type system
// or are silent by intent (a released binding owner, a vetoed widget).
// What remains is reported here: constraints that cannot be activated,
// late deliveries to a cancelled reactive node, and load errors from
// declaration documents and configuration.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindLayout indicates a deferred constraint that could not be resolved.
	KindLayout
	// KindSource indicates a reactive source misbehaving, such as a delivery
	// after the subscriber was cancelled.
	KindSource
	// KindDecl indicates an invalid declaration document.
	KindDecl
	// KindConfig indicates an invalid configuration file.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindLayout:
		return "layout"
	case KindSource:
		return "source"
	case KindDecl:
		return "decl"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// FlowError represents a structured error raised while compiling or
// rebuilding a widget tree.
type FlowError struct {
	// Op is the operation that failed (e.g., "flow.Constraints.PostRender").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Widget describes the widget involved, if any.
	Widget string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *FlowError) Error() string {
	if e.Widget != "" {
		return fmt.Sprintf("%s [%s] widget=%s: %v", e.Op, e.Kind, e.Widget, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "cmd.render").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// DeclError represents an invalid node in a declaration document.
type DeclError struct {
	// File is the document the node came from, if known.
	File string
	// Path locates the node, e.g. "root.children[2].props.spacing".
	Path string
	// Err is the underlying error.
	Err error
}

func (e *DeclError) Error() string {
	switch {
	case e.File != "" && e.Path != "":
		return fmt.Sprintf("%s: %s: %v", e.File, e.Path, e.Err)
	case e.File != "":
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *DeclError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by fish packages.
type ErrorHandler interface {
	// HandleError is called when an error is reported.
	HandleError(err *FlowError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
