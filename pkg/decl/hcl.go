package decl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/go-drift/fish/pkg/errors"
)

// hclDocument is the decode target for an HCL document:
//
//	version = "v1.0.0"
//	vars = { title = "Inbox" }
//
//	widget "stack" {
//	  props = { axis = "horizontal" }
//	  layout "edges" {
//	    to    = "superview"
//	    inset = 8
//	  }
//	  widget "label" {
//	    ref   = "title"
//	    props = { text = var.title }
//	  }
//	}
type hclDocument struct {
	Version string            `hcl:"version,optional"`
	Vars    map[string]string `hcl:"vars,optional"`
	Root    *hclWidget        `hcl:"widget,block"`
}

type hclWidget struct {
	Kind     string            `hcl:"kind,label"`
	When     string            `hcl:"when,optional"`
	Each     string            `hcl:"each,optional"`
	Ref      string            `hcl:"ref,optional"`
	Props    map[string]string `hcl:"props,optional"`
	Layout   []*hclRule        `hcl:"layout,block"`
	Children []*hclWidget      `hcl:"widget,block"`
}

type hclRule struct {
	Anchor     string   `hcl:"anchor,label"`
	Relation   string   `hcl:"relation,optional"`
	To         string   `hcl:"to,optional"`
	Constant   *float64 `hcl:"constant,optional"`
	Offset     float64  `hcl:"offset,optional"`
	Inset      float64  `hcl:"inset,optional"`
	Multiplier float64  `hcl:"multiplier,optional"`
}

var varsSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{{Name: "vars"}},
}

// ParseHCL parses an HCL document. The vars attribute is decoded first so
// the rest of the document can reference var.NAME.
func ParseHCL(name string, src []byte, vars map[string]string) (*Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, &errors.DeclError{File: name, Err: fmt.Errorf("failed to parse HCL: %w", diags)}
	}

	var docVars map[string]string
	content, _, diags := file.Body.PartialContent(varsSchema)
	if diags.HasErrors() {
		return nil, &errors.DeclError{File: name, Path: "vars", Err: diags}
	}
	if attr, ok := content.Attributes["vars"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &docVars); diags.HasErrors() {
			return nil, &errors.DeclError{File: name, Path: "vars", Err: fmt.Errorf("vars must be a map of strings: %w", diags)}
		}
	}
	merged := mergeVars(docVars, vars)

	var parsed hclDocument
	if diags := gohcl.DecodeBody(file.Body, evalContext(merged), &parsed); diags.HasErrors() {
		return nil, &errors.DeclError{File: name, Err: fmt.Errorf("failed to decode HCL: %w", diags)}
	}

	doc := &Document{
		File:    name,
		Version: parsed.Version,
		Vars:    merged,
	}
	if parsed.Root != nil {
		doc.Root = parsed.Root.widget()
	}
	if err := doc.check(); err != nil {
		return nil, err
	}
	return doc, nil
}

// evalContext exposes vars as the var object.
func evalContext(vars map[string]string) *hcl.EvalContext {
	values := make(map[string]cty.Value, len(vars))
	for k, v := range vars {
		values[k] = cty.StringVal(v)
	}
	object := cty.EmptyObjectVal
	if len(values) > 0 {
		object = cty.ObjectVal(values)
	}
	return &hcl.EvalContext{Variables: map[string]cty.Value{"var": object}}
}

func (w *hclWidget) widget() *Widget {
	out := &Widget{
		Kind:  w.Kind,
		When:  w.When,
		Each:  w.Each,
		Ref:   w.Ref,
		Props: w.Props,
	}
	for _, r := range w.Layout {
		out.Layout = append(out.Layout, Rule{
			Anchor:     r.Anchor,
			Relation:   r.Relation,
			To:         r.To,
			Constant:   r.Constant,
			Offset:     r.Offset,
			Inset:      r.Inset,
			Multiplier: r.Multiplier,
		})
	}
	for _, c := range w.Children {
		out.Children = append(out.Children, c.widget())
	}
	return out
}
