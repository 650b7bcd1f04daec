package main

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// evaluate runs an expression body through CEL. Only the operator subset
// shared by both languages gives meaningful results.
func evaluate(expression string) (any, error) {
	env, err := cel.NewEnv()
	if err != nil {
		return nil, err
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile %q: %w", expression, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, err
	}

	out, _, err := prg.Eval(map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %q: %w", expression, err)
	}

	return out.Value(), nil
}
