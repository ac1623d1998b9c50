package state

import (
	"context"
	"fmt"
	"time"

	forms "github.com/goliatone/go-forms"
	"github.com/goliatone/go-forms/cell"
	"github.com/goliatone/go-forms/internal/values"
	"github.com/goliatone/go-forms/pkg/activity"
	"github.com/google/uuid"
)

// Keeper moves drafts between a Store and live form nodes.
type Keeper struct {
	Store Store
	// Hooks receive form.draft.saved and form.draft.restored events.
	Hooks activity.Hooks
	// ActorID is reported as the actor of emitted events.
	ActorID string
	// Clock defaults to time.Now in UTC.
	Clock func() time.Time
}

func (k Keeper) now() time.Time {
	if k.Clock != nil {
		return k.Clock()
	}
	return time.Now().UTC()
}

func (k Keeper) validate(ref Ref, node forms.Node) error {
	if k.Store == nil {
		return fmt.Errorf("state: store is required")
	}
	if node == nil {
		return fmt.Errorf("state: node is required")
	}
	_, err := ref.Identifier()
	return err
}

// Capture saves the verbose input, initial and touched values of node under
// ref. When meta.ETag is set it must match the stored ETag. Every capture
// gets a fresh snapshot id and ETag; the other meta fields override the
// stored ones when set.
func (k Keeper) Capture(ctx context.Context, ref Ref, node forms.Node, meta Meta) (Meta, error) {
	if err := k.validate(ref, node); err != nil {
		return Meta{}, err
	}

	_, loadedMeta, ok, err := k.Store.Load(ctx, ref)
	if err != nil {
		return Meta{}, fmt.Errorf("state: load %q: %w", ref.Form, err)
	}
	if !ok {
		loadedMeta = Meta{}
	}
	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	draft := Draft{
		Input:   values.Clone(node.Input(nil)),
		Initial: values.Clone(node.Initial(nil)),
		Touched: values.Clone(node.TouchedVerbose(nil)),
	}

	saveMeta := mergeMeta(loadedMeta, meta)
	saveMeta.SnapshotID = uuid.NewString()
	saveMeta.ETag = uuid.NewString()
	if meta.UpdatedAt.IsZero() {
		saveMeta.UpdatedAt = k.now()
	}

	savedMeta, err := k.Store.Save(ctx, ref, draft, saveMeta)
	if err != nil {
		return loadedMeta, fmt.Errorf("state: save %q: %w", ref.Form, err)
	}

	if err := k.emit(ctx, activity.BuildDraftSavedEvent, ref, node); err != nil {
		return savedMeta, err
	}
	return savedMeta, nil
}

// Restore applies the draft stored under ref to node: the initial value
// first, then the stored input merged over the current input (stored
// entries win, entries missing from the draft keep their current value),
// then touched. It reports whether a draft existed.
func (k Keeper) Restore(ctx context.Context, ref Ref, node forms.Node) (Meta, bool, error) {
	if err := k.validate(ref, node); err != nil {
		return Meta{}, false, err
	}

	draft, meta, ok, err := k.Store.Load(ctx, ref)
	if err != nil {
		return Meta{}, false, fmt.Errorf("state: load %q: %w", ref.Form, err)
	}
	if !ok {
		return Meta{}, false, nil
	}

	cell.Batch(func() {
		if draft.Initial != nil {
			node.SetInitial(draft.Initial)
		}
		if draft.Input != nil {
			node.SetInput(values.Merge(draft.Input, node.Input(nil)))
		}
		if draft.Touched != nil {
			node.SetTouched(draft.Touched)
		}
	})

	if err := k.emit(ctx, activity.BuildDraftRestoredEvent, ref, node); err != nil {
		return meta, true, err
	}
	return meta, true, nil
}

// Discard deletes the draft stored under ref.
func (k Keeper) Discard(ctx context.Context, ref Ref) error {
	if k.Store == nil {
		return fmt.Errorf("state: store is required")
	}
	if err := k.Store.Delete(ctx, ref); err != nil {
		return fmt.Errorf("state: delete %q: %w", ref.Form, err)
	}
	return nil
}

func (k Keeper) emit(ctx context.Context, build func(activity.FormEventInput) activity.Event, ref Ref, node forms.Node) error {
	emitter := activity.NewEmitter(k.Hooks, "")
	if !emitter.Enabled() {
		return nil
	}
	key, _ := ref.Identifier()
	event := build(activity.FormEventInput{
		ActorID:    k.ActorID,
		UserID:     ref.Owner,
		FormID:     node.FormID(),
		DraftKey:   key,
		OccurredAt: k.now(),
	})
	if err := emitter.Emit(ctx, event); err != nil {
		return fmt.Errorf("state: draft activity: %w", err)
	}
	return nil
}
