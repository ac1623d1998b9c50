package cell

import "sync"

var batching struct {
	mu      sync.Mutex
	depth   int
	pending []*subscription
}

// Batch runs fn and defers subscriber notifications for every write made
// inside it until the outermost batch returns, so observers never see the
// intermediate states. Each subscriber runs at most once per batch.
func Batch(fn func()) {
	batching.mu.Lock()
	batching.depth++
	batching.mu.Unlock()

	defer func() {
		batching.mu.Lock()
		batching.depth--
		var run []*subscription
		if batching.depth == 0 {
			run = batching.pending
			batching.pending = nil
		}
		batching.mu.Unlock()
		notify(run)
	}()

	if fn != nil {
		fn()
	}
}

func schedule(subs []*subscription) {
	if len(subs) == 0 {
		return
	}
	batching.mu.Lock()
	if batching.depth > 0 {
		for _, sub := range subs {
			if !containsSubscription(batching.pending, sub) {
				batching.pending = append(batching.pending, sub)
			}
		}
		batching.mu.Unlock()
		return
	}
	batching.mu.Unlock()
	notify(subs)
}

func containsSubscription(subs []*subscription, target *subscription) bool {
	for _, sub := range subs {
		if sub == target {
			return true
		}
	}
	return false
}

func notify(subs []*subscription) {
	for _, sub := range subs {
		if sub != nil && sub.fn != nil {
			sub.fn()
		}
	}
}
