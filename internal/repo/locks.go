package repo

import (
	"sort"
	"sync"
)

// LockItems takes the per-item mutexes for every distinct non-empty id, in
// sorted order so two overlapping item sets can never deadlock. Checkout
// reservations and catalog-admin writes both go through this registry, so a
// stock decrement and an admin edit on the same item never interleave
// in-process. The returned func releases the locks in reverse order.
func (r *GormRepo) LockItems(ids ...string) func() {
	distinct := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	sort.Strings(distinct)

	held := make([]*sync.Mutex, 0, len(distinct))
	for _, id := range distinct {
		m := r.itemLock(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func (r *GormRepo) itemLock(id string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.itemLocks == nil {
		r.itemLocks = make(map[string]*sync.Mutex)
	}
	m, ok := r.itemLocks[id]
	if !ok {
		m = &sync.Mutex{}
		r.itemLocks[id] = m
	}
	return m
}
