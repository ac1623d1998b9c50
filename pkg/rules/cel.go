package rules

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	celgo "github.com/google/cel-go/cel"
	functions "github.com/google/cel-go/common/functions"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

var anySliceType = reflect.TypeOf([]any{})

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL evaluator.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go. CEL is typed at
// compile time, so programs are cached per expression and per set of
// record keys visible to it.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, ruleFailure(StageCompile, "cel", expression, ctx, err)
	}
	return rule.Evaluate(ctx)
}

// Compile only rejects empty expressions. CEL declares every record key of
// the leaf input as a variable, so type checking waits for the first run
// against each set of keys and its failures are reported as StageCompile.
func (e *celEvaluator) Compile(expression string, opts ...CompileOption) (CompiledRule, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, ruleFailure(StageCompile, "cel", expression, RuleContext{}, ErrEmptyExpression)
	}
	return &celRule{
		evaluator:  e,
		expression: expression,
		cfg:        applyCompileOptions(opts),
	}, nil
}

func cacheKey(expression string, cfg compileConfig, activation map[string]any) string {
	names := make([]string, 0, len(activation))
	for name := range activation {
		names = append(names, name)
	}
	sort.Strings(names)
	return cfg.cacheKey(expression) + "\x00" + strings.Join(names, ",")
}

func (e *celEvaluator) program(expression string, cfg compileConfig, activation map[string]any) (celgo.Program, error) {
	key := cacheKey(expression, cfg, activation)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv(activation)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	if cfg.expectBool {
		out := checked.OutputType()
		if !out.IsExactType(celgo.BoolType) && !out.IsExactType(celgo.DynType) {
			return nil, fmt.Errorf("%w, got %s", ErrNotBool, out)
		}
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(key, prg)
	}
	return prg, nil
}

func (e *celEvaluator) buildEnv(activation map[string]any) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("field", celgo.StringType),
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call", celgo.Overload(
			"call_dyn",
			[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)},
			celgo.DynType,
			celgo.FunctionBinding(e.callBinding()),
		)))
	}
	for key := range activation {
		switch key {
		case "now", "field":
			continue
		}
		opts = append(opts, celgo.Variable(key, celgo.DynType))
	}
	return celgo.NewEnv(opts...)
}

type celRule struct {
	evaluator  *celEvaluator
	expression string
	cfg        compileConfig
}

func (r *celRule) Evaluate(ctx RuleContext) (any, error) {
	activation := ctx.bindings()
	program, err := r.evaluator.program(r.expression, r.cfg, activation)
	if err != nil {
		return nil, ruleFailure(StageCompile, "cel", r.expression, ctx, err)
	}
	out, _, err := program.Eval(activation)
	if err != nil {
		return nil, ruleFailure(StageRun, "cel", r.expression, ctx, err)
	}
	return out.Value(), nil
}

// callBinding backs call(name, [args...]).
func (e *celEvaluator) callBinding() functions.FunctionOp {
	return func(values ...ref.Val) ref.Val {
		if len(values) != 2 {
			return types.NewErr("rules: call requires a function name and an argument list")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("rules: call name must be string")
		}
		native, err := values[1].ConvertToNative(anySliceType)
		if err != nil {
			return types.NewErr("rules: call arguments: %v", err)
		}
		result, err := e.registry.Call(name, native.([]any)...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
