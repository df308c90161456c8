package graph

import (
	"sync"

	"torc/errcode"
)

// idRegistry is the process-wide (here: Engine-scoped) id->device table
// spec.md §3 and original_source's torcdevice.cpp describe as
// gDeviceList/gDeviceListLock: a single map guarded by its own lock,
// mutated only by registration and deregistration.
type idRegistry struct {
	mu sync.RWMutex
	m  map[string]any
}

func newIDRegistry() *idRegistry {
	return &idRegistry{m: make(map[string]any)}
}

func (r *idRegistry) add(id string, d any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.m[id]; exists {
		return errcode.New(errcode.ErrDuplicateID, "uniqueId %q already registered", id)
	}
	r.m[id] = d
	return nil
}

func (r *idRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
}

func (r *idRegistry) get(id string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.m[id]
	return v, ok
}

func (r *idRegistry) ids() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.m))
	for id := range r.m {
		out = append(out, id)
	}
	return out
}
