package service

import (
	"sync"
	"time"

	perr "geulpi/internal/platform/errors"
	"geulpi/internal/services/bridge/domain"
)

// Registry is the single source of truth for outstanding calls.
// The dispatcher inserts, the listener resolves, the sweeper expires,
// all through the one mutex so each entry leaves exactly once
type Registry struct {
	mu      sync.Mutex
	pending map[string]*domain.Handle
}

// NewRegistry allocates an empty registry
func NewRegistry() *Registry {
	return &Registry{pending: make(map[string]*domain.Handle)}
}

// Register inserts a pending handle, rejecting correlation id reuse
func (r *Registry) Register(h *domain.Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[h.CorrelationID()]; ok {
		return perr.DuplicateCorrelationf("correlation id %q already registered", h.CorrelationID())
	}
	r.pending[h.CorrelationID()] = h
	return nil
}

// Take atomically removes and returns the handle for correlationID.
// A miss means the call already completed or was never registered,
// which late broker deliveries make an ordinary event, not an error
func (r *Registry) Take(correlationID string) (*domain.Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.pending[correlationID]
	if ok {
		delete(r.pending, correlationID)
	}
	return h, ok
}

// Remove drops an entry without resolving it, used to roll back a
// registration whose outbound publish failed
func (r *Registry) Remove(correlationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, correlationID)
}

// ExpireOlderThan atomically removes every handle whose deadline has passed
// and returns them so the sweeper can fail each one
func (r *Registry) ExpireOlderThan(now time.Time) []*domain.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expired []*domain.Handle
	for id, h := range r.pending {
		if !h.Deadline().After(now) {
			expired = append(expired, h)
			delete(r.pending, id)
		}
	}
	return expired
}

// Len reports the number of outstanding calls
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
