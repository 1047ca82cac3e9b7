package search

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	profilex "github.com/tanpawarit/wanda-voice-concierge/agent/profile"
	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
)

const (
	ConversationalResults = 3
	ReviewResults         = 5

	maxProviderPage  = 5
	maxBoostedPrefs  = 2
	resultsOverfetch = 2
)

var foodIntent = regexp.MustCompile(`(?i)restaurant|food|eat|dining|cuisine|lunch|dinner|breakfast|brunch|cafe|coffee`)

// Provider is the text search backend, normally *places.Client.
type Provider interface {
	SearchText(ctx context.Context, req placesx.TextSearchRequest) ([]placesx.Place, error)
}

type Request struct {
	Query         string
	Location      string
	Radius        float64
	MaxResults    int
	IncludeDetail bool
	// Profile personalizes the query; nil means an unknown caller.
	Profile *profilex.CallerProfile
}

type Result struct {
	Places                  []placesx.Place
	Query                   string
	UsedProfileCity         bool
	UsedFoodPreferenceBoost bool
}

type Service struct {
	provider Provider
}

func NewService(provider Provider) (*Service, error) {
	if provider == nil {
		return nil, errors.New("search provider is required")
	}
	return &Service{provider: provider}, nil
}

// Search personalizes the query from the profile and returns at most
// MaxResults places. No matches is a successful empty result.
func (s *Service) Search(ctx context.Context, req Request) (Result, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return Result{}, errors.New("search query is required")
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = ConversationalResults
	}

	var out Result
	location := strings.TrimSpace(req.Location)
	if location == "" && req.Profile != nil && strings.TrimSpace(req.Profile.City) != "" {
		location = strings.TrimSpace(req.Profile.City)
		out.UsedProfileCity = true
	}

	if req.Profile != nil && foodIntent.MatchString(query) {
		if boost := firstN(req.Profile.FoodPreferences, maxBoostedPrefs); len(boost) > 0 {
			query = query + " " + strings.Join(boost, " ")
			out.UsedFoodPreferenceBoost = true
		}
	}

	if location != "" {
		query = query + " in " + location
	}
	out.Query = query

	textReq := placesx.TextSearchRequest{
		TextQuery:      query,
		PageSize:       min(maxResults+resultsOverfetch, maxProviderPage),
		IncludeSummary: req.IncludeDetail,
	}
	if center, ok := parseLatLng(location); ok && req.Radius > 0 {
		textReq.Bias = &center
		textReq.RadiusMeters = req.Radius
	}

	places, err := s.provider.SearchText(ctx, textReq)
	if err != nil {
		return Result{}, fmt.Errorf("search places: %w", err)
	}
	if len(places) > maxResults {
		places = places[:maxResults]
	}
	out.Places = places
	return out, nil
}

func firstN(values []string, n int) []string {
	out := make([]string, 0, n)
	for _, v := range values {
		if len(out) == n {
			break
		}
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseLatLng accepts "lat,lng" in decimal degrees.
func parseLatLng(raw string) (placesx.LatLng, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return placesx.LatLng{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return placesx.LatLng{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || lng < -180 || lng > 180 {
		return placesx.LatLng{}, false
	}
	return placesx.LatLng{Latitude: lat, Longitude: lng}, true
}
