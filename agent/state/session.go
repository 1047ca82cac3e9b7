package state

import (
	"fmt"
	"strings"
	"time"

	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
)

// MaxCachedResults bounds LastSearchResults.
const MaxCachedResults = 5

// CallSession is the per-call record threaded through every webhook of a call.
type CallSession struct {
	// Identity
	CallID            string `json:"callId"`
	CallerPhoneNumber string `json:"callerPhoneNumber,omitempty"`

	Status CallStatus `json:"status,omitempty"`

	// Replaced wholesale on every search; ordinal references index into it.
	LastSearchResults []placesx.Place `json:"lastSearchResults,omitempty"`

	DirectionsSent         bool       `json:"directionsSent"`
	DirectionsPlaceName    string     `json:"directionsPlaceName,omitempty"`
	DirectionsPlaceAddress string     `json:"directionsPlaceAddress,omitempty"`
	SentMessageID          string     `json:"sentMessageId,omitempty"`
	DirectionsSentAt       *time.Time `json:"directionsSentAt,omitempty"`

	// End of call only
	Summary      string     `json:"summary,omitempty"`
	Transcript   string     `json:"transcript,omitempty"`
	EndedReason  string     `json:"endedReason,omitempty"`
	RecordingURL string     `json:"recordingUrl,omitempty"`
	EndedAt      *time.Time `json:"endedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CallStatus string

const (
	StatusRinging    CallStatus = "ringing"
	StatusInProgress CallStatus = "in-progress"
	StatusForwarding CallStatus = "forwarding"
	StatusEnded      CallStatus = "ended"
)

func ParseStatus(raw string) (CallStatus, error) {
	switch s := CallStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusRinging, StatusInProgress, StatusForwarding, StatusEnded:
		return s, nil
	default:
		return "", fmt.Errorf("unknown call status %q", raw)
	}
}

func (s CallStatus) rank() int {
	switch s {
	case StatusRinging:
		return 1
	case StatusInProgress:
		return 2
	case StatusForwarding:
		return 3
	case StatusEnded:
		return 4
	default:
		return 0
	}
}

func NewCallSession(callID string, now time.Time) *CallSession {
	return &CallSession{
		CallID:    callID,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *CallSession) Validate() error {
	if s == nil {
		return ErrNilSession
	}
	if strings.TrimSpace(s.CallID) == "" {
		return ErrInvalidCallID
	}
	if s.Status != "" && s.Status.rank() == 0 {
		return fmt.Errorf("invalid status %q", s.Status)
	}
	if len(s.LastSearchResults) > MaxCachedResults {
		return fmt.Errorf("too many cached search results: %d", len(s.LastSearchResults))
	}
	return nil
}

func (s *CallSession) IsEnded() bool {
	return s != nil && s.Status == StatusEnded
}

// ReportProcessed is true once an end of call report was stored. A status
// update to ended does not count.
func (s *CallSession) ReportProcessed() bool {
	return s != nil && s.EndedAt != nil
}

func (s *CallSession) Clone() *CallSession {
	if s == nil {
		return nil
	}
	cp := *s
	if s.LastSearchResults != nil {
		cp.LastSearchResults = append([]placesx.Place(nil), s.LastSearchResults...)
	}
	if s.DirectionsSentAt != nil {
		t := *s.DirectionsSentAt
		cp.DirectionsSentAt = &t
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		cp.EndedAt = &t
	}
	return &cp
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	CallerPhoneNumber *string
	Status            *CallStatus
	LastSearchResults *[]placesx.Place
	Directions        *Directions
	Summary           *string
	Transcript        *string
	EndedReason       *string
	RecordingURL      *string
	EndedAt           *time.Time
}

type Directions struct {
	PlaceName    string
	PlaceAddress string
	MessageID    string
	SentAt       time.Time
}

// Apply merges p into s. Status only moves forward and never leaves ended.
// It reports whether anything changed.
func (p Patch) Apply(s *CallSession) bool {
	if s == nil {
		return false
	}
	changed := false

	if p.CallerPhoneNumber != nil {
		if v := strings.TrimSpace(*p.CallerPhoneNumber); v != "" && v != s.CallerPhoneNumber {
			s.CallerPhoneNumber = v
			changed = true
		}
	}
	if p.Status != nil && p.Status.rank() > s.Status.rank() {
		s.Status = *p.Status
		changed = true
	}
	if p.LastSearchResults != nil {
		results := *p.LastSearchResults
		if len(results) > MaxCachedResults {
			results = results[:MaxCachedResults]
		}
		s.LastSearchResults = append([]placesx.Place(nil), results...)
		changed = true
	}
	if p.Directions != nil {
		sentAt := p.Directions.SentAt.UTC()
		s.DirectionsSent = true
		s.DirectionsPlaceName = p.Directions.PlaceName
		s.DirectionsPlaceAddress = p.Directions.PlaceAddress
		s.SentMessageID = p.Directions.MessageID
		s.DirectionsSentAt = &sentAt
		changed = true
	}
	changed = setString(&s.Summary, p.Summary) || changed
	changed = setString(&s.Transcript, p.Transcript) || changed
	changed = setString(&s.EndedReason, p.EndedReason) || changed
	changed = setString(&s.RecordingURL, p.RecordingURL) || changed
	if p.EndedAt != nil && s.EndedAt == nil {
		t := p.EndedAt.UTC()
		s.EndedAt = &t
		changed = true
	}
	return changed
}

func setString(dst *string, v *string) bool {
	if v == nil {
		return false
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" || trimmed == *dst {
		return false
	}
	*dst = trimmed
	return true
}
