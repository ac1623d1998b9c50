package forms

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-forms/cell"
	"github.com/goliatone/go-forms/pkg/activity"
	"golang.org/x/sync/errgroup"
)

// submitNode runs one submit attempt over the subtree of n. The attempt and
// pending counters move synchronously; the pending counter drops back only
// after every listener task settled, whatever the outcome. Concurrent
// submits are not deduplicated.
func submitNode(ctx context.Context, n Node) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r := n.core().root
	start := time.Now()

	var attempt int
	cell.Batch(func() {
		attempt = r.attempts.Read(nil) + 1
		r.attempts.Write(attempt)
		r.pending.Update(func(prev int, _ *cell.Scope) int { return prev + 1 })
		n.markSubmitted()
	})
	defer r.pending.Update(func(prev int, _ *cell.Scope) int { return prev - 1 })

	output := n.Output(nil)
	valid := output != nil
	if !valid {
		focusFirstInvalid(n)
	}

	tasks := collectTasks(ctx, n, nil)
	var group errgroup.Group
	for _, task := range tasks {
		group.Go(func() error { return task(ctx) })
	}
	err := group.Wait()

	r.logger.LogSubmit(SubmitLogEvent{
		FormID:   r.id,
		Attempt:  attempt,
		Tasks:    len(tasks),
		Valid:    valid,
		Duration: time.Since(start),
		Err:      err,
	})
	if emitErr := r.emitter.Emit(ctx, activity.BuildFormSubmittedEvent(activity.FormEventInput{
		FormID:  r.id,
		Attempt: attempt,
		Valid:   &valid,
		Err:     err,
	})); emitErr != nil && err == nil {
		err = fmt.Errorf("forms: submit activity: %w", emitErr)
	}
	return err
}

// collectTasks calls the submit listeners of every node with an applicable
// output, root first, and returns the tasks they handed back.
func collectTasks(ctx context.Context, n Node, tasks []Task) []Task {
	if n.core().submit.len() > 0 {
		if output := n.Output(nil); output != nil && !IsUndefined(output) {
			for _, listener := range n.core().submit.snapshot() {
				if task := listener.OnSubmit(ctx, output); task != nil {
					tasks = append(tasks, task)
				}
			}
		}
	}
	for _, child := range n.children(nil) {
		tasks = collectTasks(ctx, child, tasks)
	}
	return tasks
}

// focusFirstInvalid notifies the focus listeners of the first node, depth
// first, that has listeners and an error.
func focusFirstInvalid(n Node) bool {
	if n.core().focus.len() > 0 {
		if err := n.Error(nil); err != nil {
			for _, listener := range n.core().focus.snapshot() {
				listener.OnFocus(err)
			}
			return true
		}
	}
	for _, child := range n.children(nil) {
		if focusFirstInvalid(child) {
			return true
		}
	}
	return false
}
