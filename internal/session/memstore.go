package session

import "sync"

// MemStore is an in-memory Store. It backs tests and one-shot CLI runs that
// must not touch the on-disk session.
type MemStore struct {
	mu      sync.Mutex
	current Session
	present bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Save implements Store.
func (m *MemStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
	m.present = true
	return nil
}

// Load implements Store.
func (m *MemStore) Load() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.present {
		return Session{}, false
	}
	return m.current, true
}

// Clear implements Store.
func (m *MemStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Session{}
	m.present = false
	return nil
}
