package authflow

import (
	"context"
	"sync"
	"time"

	"procpanel.org/internal/ids"
)

// Registry tracks in-progress login flows by id, so the waiting page can find
// its flow across requests. Flows are evicted after maxAge to keep abandoned
// handshakes from leaking pollers.
type Registry struct {
	client Client
	maxAge time.Duration

	mu    sync.Mutex
	flows map[string]*registryEntry
}

type registryEntry struct {
	flow    *Flow
	started time.Time
}

// NewRegistry builds an empty registry.
func NewRegistry(client Client, maxAge time.Duration) *Registry {
	if maxAge <= 0 {
		maxAge = 15 * time.Minute
	}
	return &Registry{
		client: client,
		maxAge: maxAge,
		flows:  make(map[string]*registryEntry),
	}
}

// Create registers a fresh flow and returns its id.
func (r *Registry) Create(opts ...Option) (string, *Flow) {
	flow := New(r.client, opts...)
	id := ids.New()

	r.mu.Lock()
	r.evictStaleLocked()
	r.flows[id] = &registryEntry{flow: flow, started: time.Now()}
	r.mu.Unlock()

	return id, flow
}

// Get returns the flow for id, if still tracked.
func (r *Registry) Get(id string) (*Flow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictStaleLocked()
	entry, ok := r.flows[id]
	if !ok {
		return nil, false
	}
	return entry.flow, true
}

// Sweep evicts abandoned flows on a timer until ctx is cancelled, so a
// handshake nobody returns to does not keep polling the upstream for the
// registry's whole lifetime.
func (r *Registry) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			r.evictStaleLocked()
			r.mu.Unlock()
		}
	}
}

// Remove stops and forgets the flow.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	entry, ok := r.flows[id]
	delete(r.flows, id)
	r.mu.Unlock()
	if ok {
		entry.flow.Stop()
	}
}

// evictStaleLocked drops flows older than maxAge. Caller holds r.mu.
func (r *Registry) evictStaleLocked() {
	cutoff := time.Now().Add(-r.maxAge)
	for id, entry := range r.flows {
		if entry.started.Before(cutoff) {
			entry.flow.Stop()
			delete(r.flows, id)
		}
	}
}
