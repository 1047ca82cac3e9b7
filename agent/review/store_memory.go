package review

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps reviews in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	reviews []Review
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Append(ctx context.Context, r *Review) error {
	if r == nil {
		return ErrNilReview
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *MemoryStore) ListByPlace(ctx context.Context, placeID string) ([]Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Review
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if m.reviews[i].PlaceID == placeID {
			out = append(out, m.reviews[i])
		}
	}
	// Equal timestamps keep reverse append order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
