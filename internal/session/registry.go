// Package session tracks revoked session tokens for the life of the process.
package session

import "sync"

// Registry is a concurrency-safe set of revoked token strings.
// It is constructed once at process start and shared by the auth service
// and the authentication middleware. Membership is permanent: the set
// grows monotonically until the process exits.
type Registry struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		revoked: make(map[string]struct{}),
	}
}

// Revoke adds a token to the set. Revoking the same token twice is a no-op.
func (r *Registry) Revoke(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = struct{}{}
}

// IsRevoked reports whether the token has been revoked.
func (r *Registry) IsRevoked(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.revoked[token]
	return ok
}

// Len returns the number of revoked tokens. Exposed for metrics.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.revoked)
}
