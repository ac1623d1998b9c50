package rules

import (
	"errors"
	"fmt"
	"maps"
	"time"

	forms "github.com/goliatone/go-forms"
)

// ErrNotBool is wrapped into the error of a check whose expression returned
// something other than a boolean.
var ErrNotBool = errors.New("rules: check expression must return a bool")

// ValidatorOption configures Check and Transform validators.
type ValidatorOption func(*validatorConfig)

type validatorConfig struct {
	field  string
	formID string
	args   map[string]any
	logger EvaluatorLogger
	clock  func() time.Time
}

// WithField labels evaluations; the label is visible as `field` and is
// reported in errors and log events.
func WithField(field string) ValidatorOption {
	return func(cfg *validatorConfig) {
		cfg.field = field
	}
}

// WithFormID names the form the validated leaf belongs to in errors and log
// events. It is not visible to the expression.
func WithFormID(id string) ValidatorOption {
	return func(cfg *validatorConfig) {
		cfg.formID = id
	}
}

// WithArgs exposes args to the expression as `args`.
func WithArgs(args map[string]any) ValidatorOption {
	return func(cfg *validatorConfig) {
		cfg.args = maps.Clone(args)
	}
}

// WithLogger records every evaluation.
func WithLogger(logger EvaluatorLogger) ValidatorOption {
	return func(cfg *validatorConfig) {
		if logger == nil {
			cfg.logger = noopEvaluatorLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithClock overrides the time exposed as `now`.
func WithClock(clock func() time.Time) ValidatorOption {
	return func(cfg *validatorConfig) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

func applyValidatorOptions(opts []ValidatorOption) validatorConfig {
	cfg := validatorConfig{
		logger: noopEvaluatorLogger{},
		clock:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// ruleValidator compiles its expression once and evaluates it per input.
type ruleValidator struct {
	engine     string
	expression string
	rule       CompiledRule
	compileErr error
	cfg        validatorConfig
}

func newRuleValidator(evaluator Evaluator, expression string, opts []ValidatorOption, compile ...CompileOption) *ruleValidator {
	v := &ruleValidator{
		engine:     engineName(evaluator),
		expression: expression,
		cfg:        applyValidatorOptions(opts),
	}
	if evaluator == nil {
		v.compileErr = ruleFailure(StageCompile, v.engine, expression, RuleContext{}, ErrNoEvaluator)
		return v
	}
	v.rule, v.compileErr = evaluator.Compile(expression, compile...)
	return v
}

func (v *ruleValidator) context(input any) RuleContext {
	now := v.cfg.clock()
	return RuleContext{
		Value:  input,
		Field:  v.cfg.field,
		FormID: v.cfg.formID,
		Now:    &now,
		Args:   v.cfg.args,
	}
}

// verdict turns the value of a rule into the leaf result. A non-nil error
// marks the rule as broken.
type verdict func(input, value any) (forms.Result, Outcome, error)

// run evaluates the rule against input, applies judge and logs the outcome.
func (v *ruleValidator) run(input any, judge verdict) forms.Result {
	ctx := v.context(input)
	start := time.Now()
	var (
		result  forms.Result
		outcome Outcome
		err     = v.compileErr
	)
	if err == nil {
		var value any
		if value, err = v.rule.Evaluate(ctx); err == nil {
			result, outcome, err = judge(input, value)
		}
	}
	if err != nil {
		err = ruleFailure(StageRun, v.engine, v.expression, ctx, err)
		result, outcome = forms.Fail(err), OutcomeBroken
	}
	v.cfg.logger.LogEvaluation(EvaluatorLogEvent{
		Engine:   v.engine,
		Expr:     v.expression,
		FormID:   v.cfg.formID,
		Field:    v.cfg.field,
		Input:    input,
		Outcome:  outcome,
		Duration: time.Since(start),
		Err:      err,
	})
	return result
}

// Check returns a validator passing the input through when expression
// evaluates to true and failing with message when it evaluates to false.
// A broken rule fails the leaf with an *EvaluationError instead of message.
// Typed engines fail expressions that can never be boolean at StageCompile;
// other non-boolean results report ErrNotBool at StageResult.
func Check(evaluator Evaluator, expression string, message any, opts ...ValidatorOption) forms.Validator {
	v := newRuleValidator(evaluator, expression, opts, ExpectBool())
	return forms.ValidatorFunc(func(input any) forms.Result {
		return v.run(input, func(input, value any) (forms.Result, Outcome, error) {
			ok, isBool := value.(bool)
			switch {
			case !isBool:
				return forms.Result{}, "", &EvaluationError{Stage: StageResult, Err: fmt.Errorf("%w, got %T", ErrNotBool, value)}
			case !ok:
				return forms.Fail(message), OutcomeRejected, nil
			default:
				return forms.Ok(input), OutcomePassed, nil
			}
		})
	})
}

// Transform returns a validator whose output is the result of expression.
func Transform(evaluator Evaluator, expression string, opts ...ValidatorOption) forms.Validator {
	v := newRuleValidator(evaluator, expression, opts)
	return forms.ValidatorFunc(func(input any) forms.Result {
		return v.run(input, func(_, value any) (forms.Result, Outcome, error) {
			return forms.Ok(value), OutcomeTransformed, nil
		})
	})
}

// All runs validators in order, feeding each output into the next, and
// stops at the first failure.
func All(validators ...forms.Validator) forms.Validator {
	return forms.ValidatorFunc(func(input any) forms.Result {
		current := forms.Ok(input)
		for _, validator := range validators {
			if validator == nil {
				continue
			}
			current = validator.Validate(current.Output)
			if current.Failed() {
				return current
			}
		}
		return current
	})
}
