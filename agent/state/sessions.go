package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
)

// Sessions implements merge-semantics writes over a Store. Overlapping
// concurrent writes to one call are last-write-wins.
type Sessions struct {
	store Store
	now   func() time.Time
}

type SessionsOption func(*Sessions)

func WithClock(now func() time.Time) SessionsOption {
	return func(s *Sessions) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSessions(store Store, opts ...SessionsOption) (*Sessions, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	s := &Sessions{store: store, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Upsert creates the session on first sight of callID and merges patch into it.
func (s *Sessions) Upsert(ctx context.Context, callID string, patch Patch) (*CallSession, error) {
	callID = strings.TrimSpace(callID)
	if callID == "" {
		return nil, ErrInvalidCallID
	}

	sess, err := s.store.Load(ctx, callID)
	created := false
	switch {
	case err == nil:
	case errors.Is(err, ErrSessionNotFound):
		sess = NewCallSession(callID, s.now())
		created = true
	default:
		return nil, err
	}

	if !patch.Apply(sess) && !created {
		return sess, nil
	}

	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save call session: %w", err)
	}
	return sess, nil
}

func (s *Sessions) Get(ctx context.Context, callID string) (*CallSession, error) {
	callID = strings.TrimSpace(callID)
	if callID == "" {
		return nil, ErrInvalidCallID
	}
	return s.store.Load(ctx, callID)
}

// RecordSearchResults replaces the cached results wholesale.
func (s *Sessions) RecordSearchResults(ctx context.Context, callID string, results []placesx.Place) error {
	if results == nil {
		results = []placesx.Place{}
	}
	_, err := s.Upsert(ctx, callID, Patch{LastSearchResults: &results})
	return err
}

// SearchResults returns the cached results, or nil when none were recorded.
func (s *Sessions) SearchResults(ctx context.Context, callID string) ([]placesx.Place, error) {
	sess, err := s.Get(ctx, callID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(sess.LastSearchResults) == 0 {
		return nil, nil
	}
	return sess.LastSearchResults, nil
}
