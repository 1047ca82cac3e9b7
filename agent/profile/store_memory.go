package profile

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps profiles in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*CallerProfile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*CallerProfile)}
}

func (m *MemoryStore) Load(ctx context.Context, phoneNumber string) (*CallerProfile, error) {
	key := strings.TrimSpace(phoneNumber)
	if key == "" {
		return nil, ErrInvalidKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[key]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, p *CallerProfile) error {
	if p == nil {
		return ErrNilProfile
	}
	key := strings.TrimSpace(p.PhoneNumber)
	if key == "" {
		return ErrInvalidKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[key] = p.Clone()
	return nil
}
