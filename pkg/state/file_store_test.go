package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(dir)
	ref := Ref{Form: "signup", Owner: "u1"}

	draft := Draft{
		Input:   map[string]any{"name": "Ada", "age": 36, "tags": []any{"x", "y"}},
		Initial: map[string]any{"name": "", "age": 0, "tags": []any{}},
		Touched: map[string]any{"name": true, "age": false, "tags": []any{}},
	}
	updated := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	meta := Meta{SnapshotID: "s1", ETag: "e1", UpdatedAt: updated}
	if _, err := store.Save(ctx, ref, draft, meta); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "signup", "u1.yaml")); err != nil {
		t.Fatalf("expected yaml file: %v", err)
	}

	got, gotMeta, ok, err := store.Load(ctx, ref)
	if err != nil || !ok {
		t.Fatalf("load: ok=%t err=%v", ok, err)
	}
	if diff := cmp.Diff(draft, got); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}
	if gotMeta.ETag != "e1" || !gotMeta.UpdatedAt.Equal(updated) {
		t.Fatalf("meta mismatch: %+v", gotMeta)
	}
}

func TestFileStoreMissingAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())
	ref := Ref{Form: "signup"}

	if _, _, ok, err := store.Load(ctx, ref); ok || err != nil {
		t.Fatalf("expected missing draft, got ok=%t err=%v", ok, err)
	}
	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("deleting a missing draft should succeed: %v", err)
	}
	if _, err := store.Save(ctx, ref, Draft{Input: "x"}, Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, ok, _ := store.Load(ctx, ref); ok {
		t.Fatalf("expected draft to be deleted")
	}
}

func TestFileStoreRequiresDir(t *testing.T) {
	if _, _, _, err := (&FileStore{}).Load(context.Background(), Ref{Form: "f"}); err == nil {
		t.Fatalf("expected error without directory")
	}
}
