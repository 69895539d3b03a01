package users

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and local runs.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]User
	byName map[string]string
}

func NewMemoryRepo(seed ...User) *MemoryRepo {
	r := &MemoryRepo{byID: map[string]User{}, byName: map[string]string{}}
	for _, u := range seed {
		r.Put(u)
	}
	return r
}

// Put inserts or replaces u.
func (r *MemoryRepo) Put(u User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.byID[u.ID]; ok {
		delete(r.byName, old.Name)
	}
	r.byID[u.ID] = u
	r.byName[u.Name] = u.ID
}

func (r *MemoryRepo) FindByID(ctx context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepo) FindByName(ctx context.Context, name string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.byID[id], nil
}
