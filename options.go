package forms

import (
	"github.com/goliatone/go-forms/internal/values"
	"github.com/goliatone/go-forms/pkg/activity"
)

// Option configures a node. Leaf options (validator, strategy, initial
// value, equality) are ignored by composites; form options (id, logger,
// activity hooks) apply to the node that owns the root.
type Option func(*config)

type config struct {
	validator  Validator
	validateOn ValidateStrategy
	touched    bool
	initial    any
	hasInitial bool
	customErr  any
	equal      func(a, b any) bool
	errorEqual func(a, b any) bool

	formID string
	logger Logger
	hooks  activity.Hooks
}

func applyOptions(opts []Option) config {
	cfg := config{validateOn: DefaultValidateOn}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.equal == nil {
		cfg.equal = values.Equal
	}
	if cfg.errorEqual == nil {
		cfg.errorEqual = values.Equal
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	return cfg
}

// WithValidator sets the validator a leaf runs against its input.
func WithValidator(v Validator) Option {
	return func(cfg *config) {
		cfg.validator = v
	}
}

// WithSchema validates a leaf through a parse style schema. Parse errors
// become the leaf error.
func WithSchema(schema Schema) Option {
	return func(cfg *config) {
		if schema == nil {
			cfg.validator = nil
			return
		}
		cfg.validator = ValidatorFunc(func(input any) Result {
			output, err := schema.Parse(input)
			if err != nil {
				return Fail(err)
			}
			return Ok(output)
		})
	}
}

// WithTransform derives a leaf output from its input without validation.
func WithTransform(transform func(input any) any) Option {
	return func(cfg *config) {
		if transform == nil {
			cfg.validator = nil
			return
		}
		cfg.validator = ValidatorFunc(func(input any) Result {
			return Ok(transform(input))
		})
	}
}

// WithValidateOn sets the initial validation strategy of a leaf.
func WithValidateOn(strategy ValidateStrategy) Option {
	return func(cfg *config) {
		if strategy.Known() {
			cfg.validateOn = strategy
		}
	}
}

// WithTouched sets the initial touched flag of a leaf.
func WithTouched(touched bool) Option {
	return func(cfg *config) {
		cfg.touched = touched
	}
}

// WithInitial sets a leaf baseline that differs from its input.
func WithInitial(initial any) Option {
	return func(cfg *config) {
		cfg.initial = initial
		cfg.hasInitial = true
	}
}

// WithError starts a leaf with a custom error.
func WithError(err any) Option {
	return func(cfg *config) {
		cfg.customErr = err
	}
}

// WithEqual sets the comparator used for input equality and dirtiness.
func WithEqual(equal func(a, b any) bool) Option {
	return func(cfg *config) {
		cfg.equal = equal
	}
}

// WithErrorEqual sets the comparator used to memoize error values.
func WithErrorEqual(equal func(a, b any) bool) Option {
	return func(cfg *config) {
		cfg.errorEqual = equal
	}
}

// WithFormID sets the identifier reported in logs and activity events.
// A random UUID is used otherwise.
func WithFormID(id string) Option {
	return func(cfg *config) {
		cfg.formID = id
	}
}

// WithLogger attaches a submit logger to the form.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithActivityHooks attaches activity hooks notified about submits. Nil
// hooks are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *config) {
		cfg.hooks = normalized
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
