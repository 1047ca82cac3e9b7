package contract

import (
	"context"

	profilex "github.com/tanpawarit/wanda-voice-concierge/agent/profile"
	reviewx "github.com/tanpawarit/wanda-voice-concierge/agent/review"
	searchx "github.com/tanpawarit/wanda-voice-concierge/agent/search"
	statex "github.com/tanpawarit/wanda-voice-concierge/agent/state"
	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
	vapix "github.com/tanpawarit/wanda-voice-concierge/pkg/vapi"
)

type ProfileStore interface {
	Get(ctx context.Context, phoneNumber string) (*profilex.CallerProfile, error)
	GetOrCreate(ctx context.Context, phoneNumber string) (*profilex.CallerProfile, bool, error)
	UpsertBasics(ctx context.Context, phoneNumber string, b profilex.Basics, opts ...profilex.WriteOption) (profilex.BasicsOutcome, error)
	MergePreferences(
		ctx context.Context,
		phoneNumber string,
		category profilex.Category,
		action profilex.Action,
		values []string,
		opts ...profilex.WriteOption,
	) (profilex.MergeOutcome, error)
	RecordCompletedCall(ctx context.Context, phoneNumber string) error
}

type SessionStore interface {
	Upsert(ctx context.Context, callID string, patch statex.Patch) (*statex.CallSession, error)
	Get(ctx context.Context, callID string) (*statex.CallSession, error)
	RecordSearchResults(ctx context.Context, callID string, results []placesx.Place) error
	SearchResults(ctx context.Context, callID string) ([]placesx.Place, error)
}

type ReviewStore interface {
	Create(ctx context.Context, d reviewx.Draft) (*reviewx.Review, error)
	ListByPlace(ctx context.Context, placeID string) ([]reviewx.Review, error)
}

type PlaceSearcher interface {
	Search(ctx context.Context, req searchx.Request) (searchx.Result, error)
}

type PlaceDirectory interface {
	FindPlaceID(ctx context.Context, input string) (string, error)
	Details(ctx context.Context, placeID string) (*placesx.Details, error)
}

type SMSSender interface {
	Send(ctx context.Context, to string, body string) (string, error)
}

type CallCreator interface {
	CreateCall(ctx context.Context, req vapix.CreateCallRequest) (*vapix.Call, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}
