package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type callerRow struct {
	bun.BaseModel `bun:"table:callers,alias:c"`

	PhoneNumber              string    `bun:"phone_number,pk"`
	Name                     string    `bun:"name,nullzero"`
	Age                      int       `bun:"age,nullzero"`
	City                     string    `bun:"city,nullzero"`
	FoodPreferences          []string  `bun:"food_preferences,array"`
	ActivitiesPreferences    []string  `bun:"activities_preferences,array"`
	ShoppingPreferences      []string  `bun:"shopping_preferences,array"`
	EntertainmentPreferences []string  `bun:"entertainment_preferences,array"`
	CompletedCalls           int       `bun:"completed_calls,notnull,default:0"`
	CreatedAt                time.Time `bun:"created_at,notnull"`
	UpdatedAt                time.Time `bun:"updated_at,notnull"`
	LastCalledAt             time.Time `bun:"last_called_at,nullzero"`
}

// PostgresStore persists profiles in the callers table.
type PostgresStore struct {
	db bun.IDB
}

func NewPostgresStore(db bun.IDB) (*PostgresStore, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	return &PostgresStore{db: db}, nil
}

// CreateSchema creates the callers table when it does not exist.
func (s *PostgresStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*callerRow)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("create callers table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, phoneNumber string) (*CallerProfile, error) {
	key := strings.TrimSpace(phoneNumber)
	if key == "" {
		return nil, ErrInvalidKey
	}

	row := new(callerRow)
	err := s.db.NewSelect().Model(row).Where("phone_number = ?", key).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select caller profile: %w", err)
	}
	return row.toProfile(), nil
}

func (s *PostgresStore) Save(ctx context.Context, p *CallerProfile) error {
	if p == nil {
		return ErrNilProfile
	}
	if strings.TrimSpace(p.PhoneNumber) == "" {
		return ErrInvalidKey
	}

	row := fromProfile(p)
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (phone_number) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("age = EXCLUDED.age").
		Set("city = EXCLUDED.city").
		Set("food_preferences = EXCLUDED.food_preferences").
		Set("activities_preferences = EXCLUDED.activities_preferences").
		Set("shopping_preferences = EXCLUDED.shopping_preferences").
		Set("entertainment_preferences = EXCLUDED.entertainment_preferences").
		Set("completed_calls = EXCLUDED.completed_calls").
		Set("updated_at = EXCLUDED.updated_at").
		Set("last_called_at = EXCLUDED.last_called_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert caller profile: %w", err)
	}
	return nil
}

func fromProfile(p *CallerProfile) *callerRow {
	return &callerRow{
		PhoneNumber:              p.PhoneNumber,
		Name:                     p.Name,
		Age:                      p.Age,
		City:                     p.City,
		FoodPreferences:          nonNil(p.FoodPreferences),
		ActivitiesPreferences:    nonNil(p.ActivitiesPreferences),
		ShoppingPreferences:      nonNil(p.ShoppingPreferences),
		EntertainmentPreferences: nonNil(p.EntertainmentPreferences),
		CompletedCalls:           p.CompletedCalls,
		CreatedAt:                p.CreatedAt,
		UpdatedAt:                p.UpdatedAt,
		LastCalledAt:             p.LastCalledAt,
	}
}

func (r *callerRow) toProfile() *CallerProfile {
	return &CallerProfile{
		PhoneNumber:              r.PhoneNumber,
		Name:                     r.Name,
		Age:                      r.Age,
		City:                     r.City,
		FoodPreferences:          r.FoodPreferences,
		ActivitiesPreferences:    r.ActivitiesPreferences,
		ShoppingPreferences:      r.ShoppingPreferences,
		EntertainmentPreferences: r.EntertainmentPreferences,
		CompletedCalls:           r.CompletedCalls,
		CreatedAt:                r.CreatedAt.UTC(),
		UpdatedAt:                r.UpdatedAt.UTC(),
		LastCalledAt:             r.LastCalledAt.UTC(),
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
