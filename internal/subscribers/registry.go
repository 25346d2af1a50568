// Package subscribers tracks the chats that opted in to new-posting
// announcements. The set is in-memory only and rebuilt empty on restart;
// recipients that reject delivery are removed by the notifier.
package subscribers

import "sync"

type Registry struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

func NewRegistry() *Registry {
	return &Registry{ids: map[int64]struct{}{}}
}

// Add opts a chat in. Returns false if it was already subscribed.
func (r *Registry) Add(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[chatID]; ok {
		return false
	}
	r.ids[chatID] = struct{}{}
	return true
}

func (r *Registry) Remove(chatID int64) {
	r.mu.Lock()
	delete(r.ids, chatID)
	r.mu.Unlock()
}

// All returns a snapshot of the current subscriber set. No ordering
// guarantees.
func (r *Registry) All() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]int64, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, id)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}
