// Package decl loads declarative widget trees from YAML or HCL documents and
// builds them into flow specifications.
//
// A document names a root widget by kind, with props, layout rules,
// optional conditions and repetition, and nested children:
//
//	version: v1.0.0
//	vars:
//	  title: Inbox
//	  items: "a,b,c"
//	root:
//	  kind: stack
//	  props: {axis: vertical, spacing: "8"}
//	  children:
//	    - kind: label
//	      ref: title
//	      props: {text: "=vars.title"}
//	    - kind: label
//	      each: "vars.items.split(',')"
//	      props: {text: "=item"}
//
// Conditions (when), repetition (each) and props starting with "=" are CEL
// expressions over vars, item and index. HCL documents may also reference
// vars directly as var.NAME.
package decl

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/fish/pkg/errors"
)

// CurrentVersion is the document version written by tools and assumed when
// a document omits one.
const CurrentVersion = "v1.0.0"

// Document is a parsed declaration.
type Document struct {
	// File is the path the document was loaded from, if any.
	File    string            `yaml:"-"`
	Version string            `yaml:"version"`
	Vars    map[string]string `yaml:"vars,omitempty"`
	Root    *Widget           `yaml:"root"`
}

// Widget declares one widget and its subtree.
type Widget struct {
	Kind     string            `yaml:"kind"`
	When     string            `yaml:"when,omitempty"`
	Each     string            `yaml:"each,omitempty"`
	Ref      string            `yaml:"ref,omitempty"`
	Props    map[string]string `yaml:"props,omitempty"`
	Layout   []Rule            `yaml:"layout,omitempty"`
	Children []*Widget         `yaml:"children,omitempty"`
}

// Rule is one layout relation resolved against the widget's superview, a
// constant, its intrinsic size or another referenced widget.
type Rule struct {
	// Anchor is top, bottom, leading, trailing, width, height, centerX,
	// centerY, edges, horizontalEdges, verticalEdges, size or center.
	Anchor string `yaml:"anchor"`
	// Relation is "==" (default), "<=" or ">=".
	Relation string `yaml:"relation,omitempty"`
	// To is "superview", "intrinsic", the ref name of another widget, or
	// empty for a constant.
	To         string   `yaml:"to,omitempty"`
	Constant   *float64 `yaml:"constant,omitempty"`
	Offset     float64  `yaml:"offset,omitempty"`
	Inset      float64  `yaml:"inset,omitempty"`
	Multiplier float64  `yaml:"multiplier,omitempty"`
}

// Load reads and parses the document at path. The format follows the file
// extension: .yaml, .yml or .hcl. vars override the document's own vars.
func Load(path string, vars map[string]string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(path, data, vars)
}

// Parse parses src, choosing the format from the extension of name.
func Parse(name string, src []byte, vars map[string]string) (*Document, error) {
	switch ext := filepath.Ext(name); ext {
	case ".yaml", ".yml":
		return ParseYAML(name, src, vars)
	case ".hcl":
		return ParseHCL(name, src, vars)
	default:
		return nil, &errors.DeclError{File: name, Err: fmt.Errorf("unsupported document extension %q", ext)}
	}
}

// ParseYAML parses a YAML document. Unknown fields are rejected.
func ParseYAML(name string, src []byte, vars map[string]string) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &errors.DeclError{File: name, Err: fmt.Errorf("failed to decode YAML: %w", err)}
	}
	doc.File = name
	doc.Vars = mergeVars(doc.Vars, vars)
	if err := doc.check(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeYAML renders the document as YAML.
func (d *Document) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) check() error {
	if d.Version == "" {
		d.Version = CurrentVersion
	}
	if !semver.IsValid(d.Version) {
		return &errors.DeclError{File: d.File, Path: "version", Err: fmt.Errorf("invalid version %q", d.Version)}
	}
	if major := semver.Major(d.Version); major != semver.Major(CurrentVersion) {
		return &errors.DeclError{File: d.File, Path: "version", Err: fmt.Errorf("unsupported major version %s", major)}
	}
	if d.Root == nil {
		return &errors.DeclError{File: d.File, Path: "root", Err: fmt.Errorf("document has no root widget")}
	}
	return nil
}

func mergeVars(doc, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(doc)+len(overrides))
	maps.Copy(out, doc)
	maps.Copy(out, overrides)
	return out
}
