package state

import (
	"context"
	"sync"

	"github.com/goliatone/go-forms/internal/values"
)

// MemoryStore is a minimal in-memory Store intended for tests and examples.
// Drafts are deep copied on the way in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

type memoryRecord struct {
	draft Draft
	meta  Meta
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}}
}

func (s *MemoryStore) Load(_ context.Context, ref Ref) (Draft, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Draft{}, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return Draft{}, Meta{}, false, nil
	}
	return cloneDraft(record.draft), cloneMeta(record.meta), true, nil
}

func (s *MemoryStore) Save(_ context.Context, ref Ref, draft Draft, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	s.mu.Lock()
	s.records[key] = memoryRecord{draft: cloneDraft(draft), meta: cloneMeta(meta)}
	s.mu.Unlock()
	return cloneMeta(meta), nil
}

func (s *MemoryStore) Delete(_ context.Context, ref Ref) error {
	key, err := ref.Identifier()
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

func cloneDraft(draft Draft) Draft {
	return Draft{
		Input:   values.Clone(draft.Input),
		Initial: values.Clone(draft.Initial),
		Touched: values.Clone(draft.Touched),
	}
}
