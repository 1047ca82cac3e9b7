package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingPlace   = errors.New("place id is required")
	ErrEmptyComment   = errors.New("review comment is empty")
	ErrRatingRange    = errors.New("rating must be between 1 and 5")
	ErrRatingFraction = errors.New("rating must be a whole number")
	ErrNilReview      = errors.New("review is nil")
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is an append-only caller review of a place.
type Review struct {
	ID          string    `json:"id"`
	PlaceID     string    `json:"placeId"`
	Comment     string    `json:"comment"`
	Rating      int       `json:"rating"`
	PhoneNumber string    `json:"phoneNumber"`
	CallID      string    `json:"callId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Draft is a review as supplied by the caller, before validation.
type Draft struct {
	PlaceID     string
	Comment     string
	Rating      float64
	PhoneNumber string
	CallID      string
}

// Validate checks the draft in the order callers are asked to fix things:
// rating first, then comment, then place.
func (d Draft) Validate() error {
	if d.Rating < MinRating || d.Rating > MaxRating {
		return fmt.Errorf("%w: got %v", ErrRatingRange, d.Rating)
	}
	if d.Rating != math.Trunc(d.Rating) {
		return fmt.Errorf("%w: got %v", ErrRatingFraction, d.Rating)
	}
	if strings.TrimSpace(d.Comment) == "" {
		return ErrEmptyComment
	}
	if strings.TrimSpace(d.PlaceID) == "" {
		return ErrMissingPlace
	}
	return nil
}

type Repository interface {
	Append(ctx context.Context, r *Review) error
	ListByPlace(ctx context.Context, placeID string) ([]Review, error)
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, opts ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("review repository is required")
	}
	s := &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Create validates d and appends it as a new review.
func (s *Service) Create(ctx context.Context, d Draft) (*Review, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	r := &Review{
		ID:          s.newID(),
		PlaceID:     strings.TrimSpace(d.PlaceID),
		Comment:     strings.TrimSpace(d.Comment),
		Rating:      int(d.Rating),
		PhoneNumber: strings.TrimSpace(d.PhoneNumber),
		CallID:      strings.TrimSpace(d.CallID),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Append(ctx, r); err != nil {
		return nil, fmt.Errorf("append review: %w", err)
	}
	return r, nil
}

// ListByPlace returns the reviews for placeID, newest first.
func (s *Service) ListByPlace(ctx context.Context, placeID string) ([]Review, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, ErrMissingPlace
	}
	return s.repo.ListByPlace(ctx, placeID)
}

// Summary aggregates a review list for speaking.
type Summary struct {
	Count    int
	Average  float64
	Comments []string
}

// Summarize averages the ratings, rounded to one decimal, and collects the
// non-empty comments in list order.
func Summarize(reviews []Review) Summary {
	out := Summary{Count: len(reviews)}
	if len(reviews) == 0 {
		return out
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
		if c := strings.TrimSpace(r.Comment); c != "" {
			out.Comments = append(out.Comments, c)
		}
	}
	out.Average = math.Round(float64(total)/float64(len(reviews))*10) / 10
	return out
}
