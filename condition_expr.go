package pysetup

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ParseCondition compiles a build condition written in expression
// syntax, as used by manifest descriptor tables. The expression is
// evaluated against this environment:
//
//	platform        string  interpreter platform identifier
//	cpython         bool    reference-implementation check
//	legacy          bool    targeting the legacy runtime generation
//	hasHeader(name) bool    C header availability
//
// Examples:
//
//	cpython && platform == "win32"
//	legacy && hasHeader("rpc/rpc.h")
//	legacy && platform != "win32"
//
// Compilation errors are reported here, before any selection runs, so a
// malformed manifest never produces a silently wrong extension set.
func ParseCondition(src string) (Condition, error) {
	program, err := expr.Compile(src, conditionOptions()...)
	if err != nil {
		return nil, fmt.Errorf("compiling build condition %q: %w", src, err)
	}
	return &exprCondition{src: src, program: program}, nil
}

// MustParseCondition is ParseCondition for statically known expressions.
func MustParseCondition(src string) Condition {
	cond, err := ParseCondition(src)
	if err != nil {
		panic(err)
	}
	return cond
}

type exprCondition struct {
	src     string
	program *vm.Program
}

func (c *exprCondition) Evaluate(caps Capabilities) (bool, error) {
	result, err := expr.Run(c.program, conditionEnv(caps))
	if err != nil {
		return false, fmt.Errorf("evaluating build condition %q: %w", c.src, err)
	}
	answer, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("build condition %q did not evaluate to a boolean", c.src)
	}
	return answer, nil
}

func (c *exprCondition) String() string {
	return c.src
}

func conditionOptions() []expr.Option {
	return []expr.Option{
		expr.Env(conditionEnv(nil)),
		expr.AsBool(),
	}
}

// conditionEnv builds the expression environment for one evaluation.
// A nil caps produces a shape-only environment for compilation.
func conditionEnv(caps Capabilities) map[string]interface{} {
	env := map[string]interface{}{
		"platform": "",
		"cpython":  false,
		"legacy":   false,
		"hasHeader": func(name string) bool {
			return false
		},
	}
	if caps != nil {
		env["platform"] = caps.Platform()
		env["cpython"] = caps.IsCPython()
		env["legacy"] = caps.Generation() == GenerationLegacy
		env["hasHeader"] = caps.HasHeader
	}
	return env
}
