package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Manager owns one Record per conversation identifier. The map lock only
// guards resolve/create/list; per-turn work is serialized by each record's
// own lock, so a slow generative call on one session never blocks another.
type Manager struct {
	mu          sync.RWMutex
	records     map[string]*Record
	idleTimeout time.Duration
	onExpire    func(*Record)
}

// NewManager creates a store. idleTimeout <= 0 disables janitor eviction.
func NewManager(idleTimeout time.Duration) *Manager {
	return &Manager{
		records:     make(map[string]*Record),
		idleTimeout: idleTimeout,
	}
}

// SetExpireHook installs a callback invoked for each idle record just before
// eviction. The hook runs with the record lock held, so it may finalize the
// record (reporting included) without racing an in-flight turn.
func (m *Manager) SetExpireHook(hook func(*Record)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = hook
}

// GetOrCreate resolves the record for id, creating it on first contact.
func (m *Manager) GetOrCreate(id string) (rec *Record, created bool) {
	m.mu.RLock()
	rec = m.records[id]
	m.mu.RUnlock()
	if rec != nil {
		return rec, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if rec = m.records[id]; rec != nil {
		return rec, false
	}
	now := time.Now().UTC()
	rec = &Record{
		ID:             id,
		Intel:          make(map[string][]string),
		StartedAt:      now,
		LastActivityAt: now,
	}
	m.records[id] = rec
	return rec, true
}

// Get resolves an existing record without creating one.
func (m *Manager) Get(id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec := m.records[id]
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Snapshot returns a clone of the record for id.
func (m *Manager) Snapshot(id string) (*Record, error) {
	m.mu.RLock()
	rec := m.records[id]
	m.mu.RUnlock()
	if rec == nil {
		return nil, ErrNotFound
	}
	rec.Lock()
	defer rec.Unlock()
	return rec.snapshot(), nil
}

// List returns clones of every record, most recently active first.
func (m *Manager) List() []*Record {
	m.mu.RLock()
	all := make([]*Record, 0, len(m.records))
	for _, rec := range m.records {
		all = append(all, rec)
	}
	m.mu.RUnlock()

	out := make([]*Record, 0, len(all))
	for _, rec := range all {
		rec.Lock()
		out = append(out, rec.snapshot())
		rec.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivityAt.After(out[j].LastActivityAt)
	})
	return out
}

// Count reports how many sessions are live.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Remove drops a session record.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
}

// StartJanitor periodically evicts idle sessions. No-op when eviction is
// disabled.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if m.idleTimeout <= 0 {
		return
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.expireIdle()
			}
		}
	}()
}

func (m *Manager) expireIdle() {
	now := time.Now().UTC()

	m.mu.RLock()
	candidates := make([]*Record, 0, len(m.records))
	for _, rec := range m.records {
		candidates = append(candidates, rec)
	}
	hook := m.onExpire
	m.mu.RUnlock()

	for _, rec := range candidates {
		rec.Lock()
		idle := now.Sub(rec.LastActivityAt) >= m.idleTimeout
		if idle && hook != nil {
			hook(rec)
		}
		rec.Unlock()
		if idle {
			m.Remove(rec.ID)
		}
	}
}
