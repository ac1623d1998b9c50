// Package rules adapts expression engines (expr, CEL and, behind the
// js_eval build tag, goja) into form validators. Expressions see the leaf
// input as `value`, the validator arguments as `args`, the evaluation time
// as `now`, the field label as `field` and, when the input is a record,
// each of its keys as a top level variable.
package rules

import (
	"errors"
	"sync"
	"time"
)

var ErrNoEvaluator = errors.New("rules: evaluator not configured")

var ErrEmptyExpression = errors.New("rules: expression must not be empty")

// RuleContext is what one rule evaluation sees: the leaf input, the field
// and form it belongs to, the evaluation time and the validator arguments.
// FormID is reported in errors and log events but is not bound as a
// variable.
type RuleContext struct {
	Value  any
	Field  string
	FormID string
	Now    *time.Time
	Args   map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now().UTC()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

// bindings returns the variables shared by every engine. Record keys never
// shadow the reserved names.
func (ctx RuleContext) bindings() map[string]any {
	ctx = ctx.withDefaults()
	env := map[string]any{
		"value": ctx.Value,
		"args":  ctx.Args,
		"now":   *ctx.Now,
		"field": ctx.Field,
	}
	if record, ok := ctx.Value.(map[string]any); ok {
		for key, value := range record {
			if _, reserved := env[key]; reserved {
				continue
			}
			env[key] = value
		}
	}
	return env
}

// Evaluator executes expressions against a RuleContext.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct {
	expectBool bool
}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) { f(cfg) }

// ExpectBool makes typed engines reject, when compiling, expressions whose
// static type can never be a boolean. Check compiles with it. Expressions
// of unknown type still compile and are checked on every run.
func ExpectBool() CompileOption {
	return compileOptionFunc(func(cfg *compileConfig) { cfg.expectBool = true })
}

func applyCompileOptions(opts []CompileOption) compileConfig {
	var cfg compileConfig
	for _, opt := range opts {
		if opt != nil {
			opt.applyCompileOption(&cfg)
		}
	}
	return cfg
}

func (cfg compileConfig) cacheKey(expression string) string {
	if cfg.expectBool {
		return expression + "\x00bool"
	}
	return expression
}

// ProgramCache stores compiled expression programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

type memoryCache struct {
	mu       sync.RWMutex
	programs map[string]any
}

// NewMemoryCache returns an unbounded in-process ProgramCache.
func NewMemoryCache() ProgramCache {
	return &memoryCache{programs: map[string]any{}}
}

func (c *memoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	program, ok := c.programs[key]
	return program, ok
}

func (c *memoryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.programs[key] = value
}

func engineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if jsEvaluatorType(e) {
			return "js"
		}
		return "custom"
	}
}
