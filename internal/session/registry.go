package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry maps session tokens to workspaces. A workspace lives until it is
// swept for idleness or the process exits.
type Registry struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace
	gameOpts   []Option
	now        func() time.Time
}

// NewRegistry returns an empty registry. Options are applied to every game
// created in its workspaces.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		workspaces: make(map[string]*Workspace),
		gameOpts:   opts,
		now:        time.Now,
	}
}

// Get returns the workspace for token and marks it as seen. The mark is made
// under the registry lock, so a concurrent Sweep either removes the
// workspace before Get finds it or sees it as fresh.
func (r *Registry) Get(token string) (*Workspace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ws, ok := r.workspaces[token]
	if ok {
		ws.markSeen(r.now())
	}
	return ws, ok
}

// Create starts a new workspace under a fresh token.
func (r *Registry) Create() *Workspace {
	ws := NewWorkspace(uuid.NewString(), r.gameOpts...)
	ws.markSeen(r.now())

	r.mu.Lock()
	r.workspaces[ws.Token()] = ws
	r.mu.Unlock()
	return ws
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces)
}

// Sweep discards workspaces not seen within maxIdle and returns how many
// were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for token, ws := range r.workspaces {
		if ws.idleSince().Before(cutoff) {
			delete(r.workspaces, token)
			n++
		}
	}
	return n
}
