package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
	"github.com/uptrace/bun"
)

type callRow struct {
	bun.BaseModel `bun:"table:calls,alias:cl"`

	CallID                 string          `bun:"call_id,pk"`
	CallerPhoneNumber      string          `bun:"caller_phone_number,nullzero"`
	Status                 string          `bun:"status,nullzero"`
	LastSearchResults      []placesx.Place `bun:"last_search_results,type:jsonb"`
	DirectionsSent         bool            `bun:"directions_sent,notnull"`
	DirectionsPlaceName    string          `bun:"directions_place_name,nullzero"`
	DirectionsPlaceAddress string          `bun:"directions_place_address,nullzero"`
	SentMessageID          string          `bun:"sent_message_id,nullzero"`
	DirectionsSentAt       *time.Time      `bun:"directions_sent_at"`
	Summary                string          `bun:"summary,nullzero"`
	Transcript             string          `bun:"transcript,nullzero"`
	EndedReason            string          `bun:"ended_reason,nullzero"`
	RecordingURL           string          `bun:"recording_url,nullzero"`
	EndedAt                *time.Time      `bun:"ended_at"`
	CreatedAt              time.Time       `bun:"created_at,notnull"`
	UpdatedAt              time.Time       `bun:"updated_at,notnull"`
}

var callUpdateColumns = []string{
	"caller_phone_number",
	"status",
	"last_search_results",
	"directions_sent",
	"directions_place_name",
	"directions_place_address",
	"sent_message_id",
	"directions_sent_at",
	"summary",
	"transcript",
	"ended_reason",
	"recording_url",
	"ended_at",
	"updated_at",
}

// PostgresStore persists call sessions in the calls table.
type PostgresStore struct {
	db bun.IDB
}

func NewPostgresStore(db bun.IDB) (*PostgresStore, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	return &PostgresStore{db: db}, nil
}

// CreateSchema creates the calls table when it does not exist.
func (s *PostgresStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*callRow)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("create calls table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, callID string) (*CallSession, error) {
	if strings.TrimSpace(callID) == "" {
		return nil, ErrInvalidCallID
	}

	row := new(callRow)
	err := s.db.NewSelect().Model(row).Where("call_id = ?", callID).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select call session: %w", err)
	}
	return row.toSession(), nil
}

func (s *PostgresStore) Save(ctx context.Context, sess *CallSession) error {
	if err := sess.Validate(); err != nil {
		return err
	}

	q := s.db.NewInsert().Model(fromSession(sess)).On("CONFLICT (call_id) DO UPDATE")
	for _, col := range callUpdateColumns {
		q = q.Set(col + " = EXCLUDED." + col)
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("upsert call session: %w", err)
	}
	return nil
}

func fromSession(s *CallSession) *callRow {
	return &callRow{
		CallID:                 s.CallID,
		CallerPhoneNumber:      s.CallerPhoneNumber,
		Status:                 string(s.Status),
		LastSearchResults:      s.LastSearchResults,
		DirectionsSent:         s.DirectionsSent,
		DirectionsPlaceName:    s.DirectionsPlaceName,
		DirectionsPlaceAddress: s.DirectionsPlaceAddress,
		SentMessageID:          s.SentMessageID,
		DirectionsSentAt:       s.DirectionsSentAt,
		Summary:                s.Summary,
		Transcript:             s.Transcript,
		EndedReason:            s.EndedReason,
		RecordingURL:           s.RecordingURL,
		EndedAt:                s.EndedAt,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

func (r *callRow) toSession() *CallSession {
	return &CallSession{
		CallID:                 r.CallID,
		CallerPhoneNumber:      r.CallerPhoneNumber,
		Status:                 CallStatus(r.Status),
		LastSearchResults:      r.LastSearchResults,
		DirectionsSent:         r.DirectionsSent,
		DirectionsPlaceName:    r.DirectionsPlaceName,
		DirectionsPlaceAddress: r.DirectionsPlaceAddress,
		SentMessageID:          r.SentMessageID,
		DirectionsSentAt:       r.DirectionsSentAt,
		Summary:                r.Summary,
		Transcript:             r.Transcript,
		EndedReason:            r.EndedReason,
		RecordingURL:           r.RecordingURL,
		EndedAt:                r.EndedAt,
		CreatedAt:              r.CreatedAt.UTC(),
		UpdatedAt:              r.UpdatedAt.UTC(),
	}
}
