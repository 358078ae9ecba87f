package websocket

import "sync"

// Registry maps a session identifier to its live client connection. It is
// the only state shared across connections; inbound webhook callbacks use
// it to reach the right socket.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry creates an empty session registry
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*Client),
	}
}

// Register inserts or overwrites the mapping for id. Last writer wins:
// ids are client-generated per browser tab, so a duplicate means a
// reconnect superseding a stale entry.
func (r *Registry) Register(id string, client *Client) {
	r.mu.Lock()
	r.clients[id] = client
	r.mu.Unlock()
}

// Lookup returns the live client for id, if any
func (r *Registry) Lookup(id string) (*Client, bool) {
	r.mu.RLock()
	client, ok := r.clients[id]
	r.mu.RUnlock()
	return client, ok
}

// Remove drops the mapping for id. Removing an absent id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.clients, id)
	r.mu.Unlock()
}

// Count returns the number of live sessions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
