package save

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	slots map[string]Save
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{slots: make(map[string]Save)}
}

func (r *MemoryRepo) Load(ctx context.Context, slot string) (Save, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[slotName(slot)]
	if !ok {
		return Save{}, ErrNotFound
	}
	return s.Clone(), nil
}

func (r *MemoryRepo) Store(ctx context.Context, slot string, s Save) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[slotName(slot)] = s.Clone()
	return nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]SlotInfo, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SlotInfo, 0, len(r.slots))
	for slot, s := range r.slots {
		out = append(out, s.Info(slot))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, slot string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slots[slotName(slot)]; !ok {
		return ErrNotFound
	}
	delete(r.slots, slotName(slot))
	return nil
}
