package rules

import (
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEvaluatorOption configures an expr evaluator instance.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache shares compiled programs across validators.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry exposes registry functions by name and through
// call(name, args...).
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		if registry != nil {
			e.registry = registry.Clone()
		}
	}
}

// exprEvaluator runs rules with expr-lang/expr. The compile environment is
// open, so the record keys of a leaf input resolve when the rule runs and
// one program serves every leaf the rule is attached to.
type exprEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEvaluator constructs an Evaluator backed by expr-lang/expr.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, ruleFailure(StageCompile, "expr", expression, ctx, err)
	}
	return rule.Evaluate(ctx)
}

// Compile type-checks expression once. With ExpectBool, expressions that
// can only produce a non-boolean (arithmetic, string literals) fail here.
func (e *exprEvaluator) Compile(expression string, opts ...CompileOption) (CompiledRule, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, ruleFailure(StageCompile, "expr", expression, RuleContext{}, ErrEmptyExpression)
	}
	program, err := e.program(expression, applyCompileOptions(opts))
	if err != nil {
		return nil, ruleFailure(StageCompile, "expr", expression, RuleContext{}, err)
	}
	return &exprRule{evaluator: e, program: program, expression: expression}, nil
}

func (e *exprEvaluator) program(expression string, cfg compileConfig) (*exprvm.Program, error) {
	key := cfg.cacheKey(expression)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	if cfg.expectBool {
		options = append(options, exprlang.AsBool())
	}
	if e.registry != nil {
		for _, name := range e.registry.Names() {
			options = append(options, exprlang.Function(name, e.bound(name)))
		}
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func (e *exprEvaluator) bound(name string) func(...any) (any, error) {
	return func(arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
}

// variables binds the leaf input for one run.
func (e *exprEvaluator) variables(ctx RuleContext) map[string]any {
	env := ctx.bindings()
	if e.registry != nil {
		env["call"] = func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
	}
	return env
}

type exprRule struct {
	evaluator  *exprEvaluator
	program    *exprvm.Program
	expression string
}

func (r *exprRule) Evaluate(ctx RuleContext) (any, error) {
	result, err := exprlang.Run(r.program, r.evaluator.variables(ctx))
	if err != nil {
		return nil, ruleFailure(StageRun, "expr", r.expression, ctx, err)
	}
	return result, nil
}
