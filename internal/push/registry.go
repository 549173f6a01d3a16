package push

import (
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Sink is one open outbound stream.
type Sink interface {
	Send(event any) error
}

// Registry maps client ids to their open stream. There is at most one sink per
// id; opening again replaces the previous one.
type Registry struct {
	mu     sync.RWMutex
	sinks  map[string]Sink
	logger hclog.Logger
}

func NewRegistry(logger hclog.Logger) *Registry {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Registry{sinks: make(map[string]Sink), logger: logger}
}

func (r *Registry) Open(clientID string, s Sink) {
	if clientID == "" || s == nil {
		return
	}
	r.mu.Lock()
	r.sinks[clientID] = s
	r.mu.Unlock()
	r.logger.Debug("stream opened", "client_id", clientID)
}

// Close removes clientID only while it still points at s, so a stale
// disconnect cannot drop a newer stream for the same id.
func (r *Registry) Close(clientID string, s Sink) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sinks[clientID]; !ok || cur != s {
		return false
	}
	delete(r.sinks, clientID)
	r.logger.Debug("stream closed", "client_id", clientID)
	return true
}

// Notify delivers event to clientID's stream. It reports whether the write
// happened; a missing stream or a failed write is not an error for the caller.
func (r *Registry) Notify(clientID string, event any) bool {
	r.mu.RLock()
	s, ok := r.sinks[clientID]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if err := s.Send(event); err != nil {
		r.logger.Debug("stream write failed", "client_id", clientID, "error", err)
		return false
	}
	return true
}

// Count returns the number of open streams.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks)
}
