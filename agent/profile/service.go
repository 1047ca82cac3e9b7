package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository is the persistence contract behind Service.
type Repository interface {
	Load(ctx context.Context, phoneNumber string) (*CallerProfile, error)
	Save(ctx context.Context, p *CallerProfile) error
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

type writeOptions struct {
	liveCall bool
}

type WriteOption func(*writeOptions)

// WithLiveCall marks a write as made during an active call; it also stamps
// LastCalledAt.
func WithLiveCall() WriteOption {
	return func(o *writeOptions) {
		o.liveCall = true
	}
}

// Service implements the caller profile operations on top of a Repository.
// Concurrent writes to the same profile are last-write-wins.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, opts ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("profile repository is required")
	}
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *Service) Get(ctx context.Context, phoneNumber string) (*CallerProfile, error) {
	key, err := normalizeKey(phoneNumber)
	if err != nil {
		return nil, err
	}
	return s.repo.Load(ctx, key)
}

// GetOrCreate returns the stored profile, creating an empty one on first
// lookup. created reports whether this call created it.
func (s *Service) GetOrCreate(ctx context.Context, phoneNumber string) (*CallerProfile, bool, error) {
	key, err := normalizeKey(phoneNumber)
	if err != nil {
		return nil, false, err
	}

	p, err := s.repo.Load(ctx, key)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, false, err
	}

	p = New(key, s.now())
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, false, fmt.Errorf("create caller profile: %w", err)
	}
	return p, true, nil
}

// UpsertBasics applies the valid fields of b. Nothing valid is not an error;
// the outcome is simply empty and nothing is written.
func (s *Service) UpsertBasics(ctx context.Context, phoneNumber string, b Basics, opts ...WriteOption) (BasicsOutcome, error) {
	p, _, err := s.GetOrCreate(ctx, phoneNumber)
	if err != nil {
		return BasicsOutcome{}, err
	}

	out := ApplyBasics(p, b)
	if len(out.Applied) == 0 {
		return out, nil
	}

	if err := s.save(ctx, p, opts...); err != nil {
		return BasicsOutcome{}, err
	}
	return out, nil
}

func (s *Service) MergePreferences(
	ctx context.Context,
	phoneNumber string,
	category Category,
	action Action,
	values []string,
	opts ...WriteOption,
) (MergeOutcome, error) {
	category, err := ParseCategory(string(category))
	if err != nil {
		return MergeOutcome{}, err
	}
	action, err = ParseAction(string(action))
	if err != nil {
		return MergeOutcome{}, err
	}

	p, _, err := s.GetOrCreate(ctx, phoneNumber)
	if err != nil {
		return MergeOutcome{}, err
	}

	out := ApplyPreferences(p, category, action, values)
	if !out.Changed {
		return out, nil
	}

	if err := s.save(ctx, p, opts...); err != nil {
		return MergeOutcome{}, err
	}
	return out, nil
}

// RecordCompletedCall counts an ended call for the caller.
func (s *Service) RecordCompletedCall(ctx context.Context, phoneNumber string) error {
	p, _, err := s.GetOrCreate(ctx, phoneNumber)
	if err != nil {
		return err
	}
	p.CompletedCalls++
	return s.save(ctx, p, WithLiveCall())
}

func (s *Service) save(ctx context.Context, p *CallerProfile, opts ...WriteOption) error {
	var o writeOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	now := s.now().UTC()
	p.UpdatedAt = now
	if o.liveCall {
		p.LastCalledAt = now
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return fmt.Errorf("save caller profile: %w", err)
	}
	return nil
}

func normalizeKey(phoneNumber string) (string, error) {
	key := KeyFromNumber(strings.TrimSpace(phoneNumber))
	if key == "" {
		return "", ErrInvalidKey
	}
	return key, nil
}
