package tui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrStaleAction marks a materializer invoked after the registry moved
// to a newer generation. The underlying model or results are gone.
var ErrStaleAction = fmt.Errorf("action belongs to an invalidated generation")

// ActionRegistry maps navigation node IDs to deferred view
// materializers. Every entry carries the generation it was registered
// under; invalidation bumps the generation, so entries handed out
// earlier fail at invocation instead of materializing against a model
// that no longer exists.
type ActionRegistry struct {
	mu         sync.RWMutex
	logger     *slog.Logger
	generation uuid.UUID
	entries    map[string]registryEntry
}

type registryEntry struct {
	build      Materializer
	generation uuid.UUID
}

// NewActionRegistry creates an empty registry with a fresh generation.
func NewActionRegistry(logger *slog.Logger) *ActionRegistry {
	return &ActionRegistry{
		logger:     logger,
		generation: uuid.New(),
		entries:    make(map[string]registryEntry),
	}
}

// Generation returns the current generation token.
func (r *ActionRegistry) Generation() uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// Register binds a materializer to a navigation node ID under the
// current generation. Registering the same ID again replaces the entry.
func (r *ActionRegistry) Register(nodeID string, build Materializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[nodeID] = registryEntry{build: build, generation: r.generation}
}

// Lookup returns the materializer for a node ID. The returned
// materializer checks its generation at invocation time and returns
// ErrStaleAction when the registry has been invalidated since.
func (r *ActionRegistry) Lookup(nodeID string) (Materializer, bool) {
	r.mu.RLock()
	entry, ok := r.entries[nodeID]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	return func() (*View, error) {
		if r.Generation() != entry.generation {
			r.logger.Warn("stale action invoked", "node", nodeID)
			return nil, fmt.Errorf("materializing %s: %w", nodeID, ErrStaleAction)
		}
		return entry.build()
	}, true
}

// Len returns the number of registered entries.
func (r *ActionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Invalidate drops every entry and bumps the generation. Materializers
// already handed out by Lookup fail from this point on.
func (r *ActionRegistry) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]registryEntry)
	r.generation = uuid.New()
	r.logger.Debug("action registry invalidated", "generation", r.generation)
}
