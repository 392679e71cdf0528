package storage

import (
	"context"
	"sync"
)

type inflightEntry struct {
	token  uint64
	cancel context.CancelFunc
}

// InflightRegistry remembers the cancel func of the verse context
// resolution running for each chat.
type InflightRegistry struct {
	mu      sync.Mutex
	next    uint64
	entries map[int64]inflightEntry
}

func NewInflightRegistry() *InflightRegistry {
	return &InflightRegistry{
		entries: make(map[int64]inflightEntry),
	}
}

// Replace cancels the chat's running resolution, if any, and registers a new
// one. The returned token identifies the registration for Release.
func (r *InflightRegistry) Replace(chatID int64, cancel context.CancelFunc) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.entries[chatID]; ok {
		prev.cancel()
	}

	r.next++
	r.entries[chatID] = inflightEntry{token: r.next, cancel: cancel}
	return r.next
}

// Release forgets a finished resolution. A token that has since been
// replaced is ignored.
func (r *InflightRegistry) Release(chatID int64, token uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[chatID]; ok && e.token == token {
		delete(r.entries, chatID)
	}
}

// Cancel stops the chat's running resolution.
func (r *InflightRegistry) Cancel(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[chatID]; ok {
		e.cancel()
		delete(r.entries, chatID)
	}
}
