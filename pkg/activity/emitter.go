package activity

import (
	"context"
	"strings"
	"sync"
)

// DefaultChannel is stamped on events emitted without a channel.
const DefaultChannel = "forms"

// Emitter forwards events to hooks, filling in the default channel.
type Emitter struct {
	hooks   Hooks
	channel string
}

// NewEmitter constructs an emitter. Nil hooks are dropped and an empty
// channel falls back to DefaultChannel.
func NewEmitter(hooks Hooks, channel string) *Emitter {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultChannel
	}
	var kept Hooks
	for _, hook := range hooks {
		if hook != nil {
			kept = append(kept, hook)
		}
	}
	return &Emitter{hooks: kept, channel: channel}
}

// Enabled reports whether any hook would receive events.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Emit forwards event to the hooks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}

// CaptureHook records events for assertions in tests.
type CaptureHook struct {
	mu     sync.Mutex
	Events []Event
	Err    error
}

// Notify records the event and returns the configured error.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}

// Snapshot returns a copy of the recorded events.
func (h *CaptureHook) Snapshot() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Event(nil), h.Events...)
}
