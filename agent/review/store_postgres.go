package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type reviewRow struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`

	ID          string    `bun:"id,pk"`
	PlaceID     string    `bun:"place_id,notnull"`
	Comment     string    `bun:"comment,notnull"`
	Rating      int       `bun:"rating,notnull"`
	PhoneNumber string    `bun:"phone_number,nullzero"`
	CallID      string    `bun:"call_id,nullzero"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}

// PostgresStore persists reviews in the reviews table.
type PostgresStore struct {
	db bun.IDB
}

func NewPostgresStore(db bun.IDB) (*PostgresStore, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	return &PostgresStore{db: db}, nil
}

// CreateSchema creates the reviews table and its place lookup index.
func (s *PostgresStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*reviewRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create reviews table: %w", err)
	}
	_, err := s.db.NewCreateIndex().
		Model((*reviewRow)(nil)).
		Index("reviews_place_id_created_at_idx").
		Column("place_id", "created_at").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create reviews index: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, r *Review) error {
	if r == nil {
		return ErrNilReview
	}
	row := &reviewRow{
		ID:          r.ID,
		PlaceID:     r.PlaceID,
		Comment:     r.Comment,
		Rating:      r.Rating,
		PhoneNumber: r.PhoneNumber,
		CallID:      r.CallID,
		CreatedAt:   r.CreatedAt,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByPlace(ctx context.Context, placeID string) ([]Review, error) {
	var rows []reviewRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("place_id = ?", placeID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select reviews: %w", err)
	}

	out := make([]Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, Review{
			ID:          row.ID,
			PlaceID:     row.PlaceID,
			Comment:     row.Comment,
			Rating:      row.Rating,
			PhoneNumber: row.PhoneNumber,
			CallID:      row.CallID,
			CreatedAt:   row.CreatedAt.UTC(),
		})
	}
	return out, nil
}
