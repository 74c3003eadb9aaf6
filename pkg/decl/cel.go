package decl

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/traits"
	"github.com/google/cel-go/ext"
)

// scope is the per-widget evaluation context. item and index are set
// inside an each expansion.
type scope struct {
	item  any
	index int64
}

var rootScope = scope{index: -1}

// evaluator compiles CEL expressions once and evaluates them against vars
// and the current scope.
type evaluator struct {
	env      *cel.Env
	vars     map[string]string
	programs map[string]cel.Program
}

func newEnvironment() (*cel.Env, error) {
	return cel.NewEnv(
		ext.Strings(),
		ext.Lists(),
		cel.OptionalTypes(),
		cel.Variable("vars", cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable("item", cel.DynType),
		cel.Variable("index", cel.IntType),
	)
}

func newEvaluator(vars map[string]string) (*evaluator, error) {
	env, err := newEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	if vars == nil {
		vars = map[string]string{}
	}
	return &evaluator{env: env, vars: vars, programs: make(map[string]cel.Program)}, nil
}

func (e *evaluator) program(expr string) (cel.Program, error) {
	if prg, ok := e.programs[expr]; ok {
		return prg, nil
	}
	ast, iss := e.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("failed to compile %q: %w", expr, iss.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to plan %q: %w", expr, err)
	}
	e.programs[expr] = prg
	return prg, nil
}

func (e *evaluator) eval(expr string, sc scope) (any, error) {
	prg, err := e.program(expr)
	if err != nil {
		return nil, err
	}
	out, _, err := prg.Eval(map[string]any{
		"vars":  e.vars,
		"item":  sc.item,
		"index": sc.index,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %q: %w", expr, err)
	}
	if lister, ok := out.(traits.Lister); ok {
		return nativeList(lister), nil
	}
	return out.Value(), nil
}

// evalBool evaluates a condition.
func (e *evaluator) evalBool(expr string, sc scope) (bool, error) {
	v, err := e.eval(expr, sc)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q yields %T, want bool", expr, v)
	}
	return b, nil
}

func (e *evaluator) evalList(expr string, sc scope) ([]any, error) {
	v, err := e.eval(expr, sc)
	if err != nil {
		return nil, err
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("repetition %q yields %T, want list", expr, v)
	}
	return items, nil
}

func (e *evaluator) evalString(expr string, sc scope) (string, error) {
	v, err := e.eval(expr, sc)
	if err != nil {
		return "", err
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

func nativeList(l traits.Lister) []any {
	var out []any
	it := l.Iterator()
	for it.HasNext() == types.True {
		v := it.Next()
		if nested, ok := v.(traits.Lister); ok {
			out = append(out, nativeList(nested))
			continue
		}
		out = append(out, v.Value())
	}
	if out == nil {
		out = []any{}
	}
	return out
}
