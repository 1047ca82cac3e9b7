package state

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps call sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*CallSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*CallSession)}
}

func (m *MemoryStore) Load(ctx context.Context, callID string) (*CallSession, error) {
	if strings.TrimSpace(callID) == "" {
		return nil, ErrInvalidCallID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[callID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, sess *CallSession) error {
	if err := sess.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[sess.CallID] = sess.Clone()
	return nil
}
