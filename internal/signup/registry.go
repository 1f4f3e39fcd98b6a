package signup

import (
	"context"
	"sort"
	"sync"

	"github.com/David2024patton/discord-attendance-bot/internal/roster"
	"github.com/David2024patton/discord-attendance-bot/internal/store"
)

// entry pairs a live roster with its exclusive lock. The lock serializes
// every mutation for that session; entries for different sessions share
// nothing beyond the registry map.
type entry struct {
	mu     sync.Mutex
	roster roster.Roster
}

// Registry is the process-wide map of live sessions. It rejects every call
// with ErrNotReady until LoadFrom has repopulated it from the store, so no
// action is ever applied against a partially loaded view.
type Registry struct {
	mu      sync.RWMutex
	ready   bool
	entries map[string]*entry
}

// NewRegistry creates an empty, not-yet-ready registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// LoadFrom repopulates the registry from persisted live snapshots and marks
// it ready. It returns the number of sessions restored.
func (g *Registry) LoadFrom(ctx context.Context, st *store.Store) (int, error) {
	all, err := st.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, r := range all {
		g.entries[id] = &entry{roster: r}
	}
	g.ready = true
	return len(all), nil
}

// MarkReady flags an empty registry as ready without loading. Used when
// starting against a fresh store.
func (g *Registry) MarkReady() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ready = true
}

// Ready reports whether startup loading has completed.
func (g *Registry) Ready() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ready
}

// Register adds a fresh roster under its session id.
func (g *Registry) Register(r roster.Roster) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.ready {
		return ErrNotReady
	}
	if _, exists := g.entries[r.SessionID]; exists {
		return ErrDuplicateSession
	}
	g.entries[r.SessionID] = &entry{roster: r}
	return nil
}

// lookup returns the live entry for a session id.
func (g *Registry) lookup(sessionID string) (*entry, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.ready {
		return nil, ErrNotReady
	}
	ent, ok := g.entries[sessionID]
	if !ok {
		return nil, ErrUnknownSession
	}
	return ent, nil
}

// Snapshot returns a consistent copy of one session's roster.
func (g *Registry) Snapshot(sessionID string) (roster.Roster, error) {
	ent, err := g.lookup(sessionID)
	if err != nil {
		return roster.Roster{}, err
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	return ent.roster, nil
}

// List returns snapshots of every live roster, ordered by session id.
func (g *Registry) List() ([]roster.Roster, error) {
	g.mu.RLock()
	if !g.ready {
		g.mu.RUnlock()
		return nil, ErrNotReady
	}
	ents := make([]*entry, 0, len(g.entries))
	for _, ent := range g.entries {
		ents = append(ents, ent)
	}
	g.mu.RUnlock()

	out := make([]roster.Roster, 0, len(ents))
	for _, ent := range ents {
		ent.mu.Lock()
		out = append(out, ent.roster)
		ent.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out, nil
}

// Retire removes a closed session's entry. The caller must have persisted
// the terminal marker first.
func (g *Registry) Retire(sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.ready {
		return ErrNotReady
	}
	if _, ok := g.entries[sessionID]; !ok {
		return ErrUnknownSession
	}
	delete(g.entries, sessionID)
	return nil
}

// Len returns the number of live sessions.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}
