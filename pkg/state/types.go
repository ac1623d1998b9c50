package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrETagMismatch = errors.New("state: etag mismatch")

var ErrInvalidRef = errors.New("state: invalid ref")

// Ref identifies one persisted draft.
type Ref struct {
	Form  string
	Owner string
}

// Draft is the persisted part of a form tree. Each field holds the verbose
// value of the matching view.
type Draft struct {
	Input   any `json:"input,omitempty" yaml:"input,omitempty"`
	Initial any `json:"initial,omitempty" yaml:"initial,omitempty"`
	Touched any `json:"touched,omitempty" yaml:"touched,omitempty"`
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty" yaml:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty" yaml:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Store loads, saves and deletes one draft for a single reference.
type Store interface {
	Load(ctx context.Context, ref Ref) (draft Draft, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, draft Draft, meta Meta) (Meta, error)
	Delete(ctx context.Context, ref Ref) error
}

// Identifier returns the canonical storage key of r.
func (r Ref) Identifier() (string, error) {
	if r.Form == "" {
		return "", fmt.Errorf("%w: form is required", ErrInvalidRef)
	}
	for _, segment := range []string{r.Form, r.Owner} {
		if strings.ContainsAny(segment, `/\`) || segment == "." || segment == ".." {
			return "", fmt.Errorf("%w: segment %q", ErrInvalidRef, segment)
		}
	}
	if r.Owner == "" {
		return r.Form, nil
	}
	return fmt.Sprintf("%s/%s", r.Form, r.Owner), nil
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}
