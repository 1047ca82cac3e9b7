package tool

import (
	"context"
	"errors"
	"time"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	profilex "github.com/tanpawarit/wanda-voice-concierge/agent/profile"
	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
)

// Deps are the collaborators shared by the tool handlers.
type Deps struct {
	Sessions contractx.SessionStore
	Profiles contractx.ProfileStore
	Reviews  contractx.ReviewStore
	Search   contractx.PlaceSearcher
	Places   contractx.PlaceDirectory
	SMS      contractx.SMSSender
	Now      func() time.Time
}

func (d Deps) validate() error {
	switch {
	case d.Sessions == nil:
		return errors.New("tool deps: session store is required")
	case d.Profiles == nil:
		return errors.New("tool deps: profile store is required")
	case d.Reviews == nil:
		return errors.New("tool deps: review store is required")
	case d.Search == nil:
		return errors.New("tool deps: place searcher is required")
	case d.Places == nil:
		return errors.New("tool deps: place directory is required")
	case d.SMS == nil:
		return errors.New("tool deps: sms sender is required")
	}
	return nil
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// NewHandlers builds one handler per tool.
func NewHandlers(d Deps) ([]Handler, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	return []Handler{
		&searchMapsHandler{deps: d},
		&sendDirectionsHandler{deps: d},
		&placeDetailsHandler{deps: d},
		&updateProfileHandler{deps: d},
		&updatePreferencesHandler{deps: d},
		&getProfileHandler{deps: d},
		&createReviewHandler{deps: d},
		&searchReviewsHandler{deps: d},
	}, nil
}

// NewDefaultRouter wires every handler over d.
func NewDefaultRouter(d Deps) (*Router, error) {
	handlers, err := NewHandlers(d)
	if err != nil {
		return nil, err
	}
	return NewRouter(handlers...)
}

func cachedResults(call CallContext) []placesx.Place {
	if call.Session == nil {
		return nil
	}
	return call.Session.LastSearchResults
}

// callerProfile returns nil for unknown callers and on lookup failure.
func (d Deps) callerProfile(ctx context.Context, number string) (*profilex.CallerProfile, error) {
	if number == "" {
		return nil, nil
	}
	p, err := d.Profiles.Get(ctx, number)
	if errors.Is(err, profilex.ErrProfileNotFound) || errors.Is(err, profilex.ErrInvalidKey) {
		return nil, nil
	}
	return p, err
}
