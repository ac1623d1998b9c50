// Package hydrate converts dynamic form outputs (records, lists and
// scalars) into typed Go values through a JSON round trip.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context identifies the form a payload was read from.
type Context struct {
	FormID string
	Path   string
}

func (c Context) label() string {
	if c.Path == "" {
		return c.FormID
	}
	return c.FormID + ":" + c.Path
}

// PreHook lets callers normalise the payload before decoding.
type PreHook func(Context, any) (any, error)

// PostHook lets callers adjust or validate the decoded value.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts form outputs into T.
type Decoder[T any] struct {
	preHooks     []PreHook
	postHooks    []PostHook[T]
	configureDec []func(*json.Decoder)
	drop         func(any) bool
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithUseNumber enables json.Decoder.UseNumber during decoding.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.UseNumber()
		})
	}
}

// WithDisallowUnknownFields invokes json.Decoder.DisallowUnknownFields.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
	}
}

// WithDrop removes record entries and list items for which drop returns
// true before encoding. Forms use it to strip not-applicable outputs.
func WithDrop[T any](drop func(any) bool) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.drop = drop
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into T applying configured hooks.
func (d *Decoder[T]) Decode(ctx Context, payload any) (T, error) {
	var zero T

	if payload == nil {
		return zero, fmt.Errorf("hydrate: payload is nil for form %q", ctx.label())
	}

	current := payload
	if d.drop != nil {
		current = prune(current, d.drop)
	}

	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for form %q failed: %w", ctx.label(), err)
		}
		if next != nil {
			current = next
		}
	}

	buffer, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("hydrate: marshal payload for form %q: %w", ctx.label(), err)
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	for _, configure := range d.configureDec {
		if configure != nil {
			configure(decoder)
		}
	}
	var result T
	if err := decoder.Decode(&result); err != nil {
		return zero, fmt.Errorf("hydrate: decode form %q: %w", ctx.label(), err)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for form %q failed: %w", ctx.label(), err)
		}
	}

	return result, nil
}

func prune(value any, drop func(any) bool) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			if drop(item) {
				continue
			}
			out[key] = prune(item, drop)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			if drop(item) {
				continue
			}
			out = append(out, prune(item, drop))
		}
		return out
	default:
		return value
	}
}
