package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNoCandidate = errors.New("no place candidate found")
	ErrMissingKey  = errors.New("google maps api key is required")
)

const (
	defaultPlacesURL     = "https://places.googleapis.com"
	defaultLegacyURL     = "https://maps.googleapis.com/maps/api/place"
	maxResponseSizeBytes = 1 << 20
	maxPageSize          = 20

	UnknownPlaceName = "Unknown Place"
)

var detailFields = []string{
	"name",
	"formatted_address",
	"international_phone_number",
	"opening_hours",
	"website",
	"rating",
	"place_id",
	"business_status",
	"user_ratings_total",
}

type Config struct {
	APIKey    string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	PlacesURL string        `envconfig:"PLACES_URL" split_words:"true" default:"https://places.googleapis.com"`
	LegacyURL string        `envconfig:"LEGACY_URL" split_words:"true" default:"https://maps.googleapis.com/maps/api/place"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Place is the normalized search hit cached on the call session.
type Place struct {
	Name             string `json:"name"`
	Address          string `json:"address"`
	PlaceID          string `json:"placeId"`
	EditorialSummary string `json:"editorialSummary,omitempty"`
}

type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type TextSearchRequest struct {
	TextQuery      string
	PageSize       int
	IncludeSummary bool
	// Bias is only sent when set together with a positive RadiusMeters.
	Bias         *LatLng
	RadiusMeters float64
}

type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

type Details struct {
	Name                     string        `json:"name"`
	FormattedAddress         string        `json:"formatted_address"`
	InternationalPhoneNumber string        `json:"international_phone_number"`
	OpeningHours             *OpeningHours `json:"opening_hours,omitempty"`
	Website                  string        `json:"website"`
	Rating                   float64       `json:"rating"`
	PlaceID                  string        `json:"place_id"`
	BusinessStatus           string        `json:"business_status"`
	UserRatingsTotal         int           `json:"user_ratings_total"`
}

type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURLs points both APIs at test servers.
func WithBaseURLs(placesURL, legacyURL string) ClientOption {
	return func(c *Client) {
		if v := strings.TrimRight(strings.TrimSpace(placesURL), "/"); v != "" {
			c.placesURL = v
		}
		if v := strings.TrimRight(strings.TrimSpace(legacyURL), "/"); v != "" {
			c.legacyURL = v
		}
	}
}

// Client talks to the Places API (new) for text search and to the legacy
// Places web service for find-place and details lookups.
type Client struct {
	apiKey     string
	placesURL  string
	legacyURL  string
	httpClient *http.Client
}

func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrMissingKey
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		apiKey:     apiKey,
		placesURL:  defaultPlacesURL,
		legacyURL:  defaultLegacyURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	WithBaseURLs(cfg.PlacesURL, cfg.LegacyURL)(client)

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	for _, raw := range []string{client.placesURL, client.legacyURL} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return nil, fmt.Errorf("invalid places url %q: %w", raw, err)
		}
	}

	return client, nil
}

func MustNew(cfg Config, opts ...ClientOption) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

type searchTextBody struct {
	TextQuery    string        `json:"textQuery"`
	PageSize     int           `json:"pageSize,omitempty"`
	LocationBias *locationBias `json:"locationBias,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type searchTextResponse struct {
	Places []struct {
		ID               string `json:"id"`
		FormattedAddress string `json:"formattedAddress"`
		DisplayName      *struct {
			Text string `json:"text"`
		} `json:"displayName"`
		EditorialSummary *struct {
			Text string `json:"text"`
		} `json:"editorialSummary"`
	} `json:"places"`
}

// SearchText runs a places:searchText query. An empty hit list is not an error.
func (c *Client) SearchText(ctx context.Context, req TextSearchRequest) ([]Place, error) {
	query := strings.TrimSpace(req.TextQuery)
	if query == "" {
		return nil, errors.New("text query is required")
	}

	body := searchTextBody{TextQuery: query, PageSize: clampPageSize(req.PageSize)}
	if req.Bias != nil && req.RadiusMeters > 0 {
		body.LocationBias = &locationBias{Circle: circle{Center: *req.Bias, Radius: req.RadiusMeters}}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	fieldMask := "places.displayName,places.formattedAddress,places.id"
	if req.IncludeSummary {
		fieldMask += ",places.editorialSummary"
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.placesURL+"/v1/places:searchText", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", fieldMask)

	var parsed searchTextResponse
	if err := c.do(httpReq, &parsed); err != nil {
		return nil, fmt.Errorf("search text: %w", err)
	}

	out := make([]Place, 0, len(parsed.Places))
	for _, p := range parsed.Places {
		place := Place{
			Name:    UnknownPlaceName,
			Address: strings.TrimSpace(p.FormattedAddress),
			PlaceID: strings.TrimSpace(p.ID),
		}
		if p.DisplayName != nil && strings.TrimSpace(p.DisplayName.Text) != "" {
			place.Name = strings.TrimSpace(p.DisplayName.Text)
		}
		if p.EditorialSummary != nil {
			place.EditorialSummary = strings.TrimSpace(p.EditorialSummary.Text)
		}
		out = append(out, place)
	}
	return out, nil
}

type legacyResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
	Candidates   []legacyPlaceID `json:"candidates"`
	Result       *Details        `json:"result"`
}

type legacyPlaceID struct {
	PlaceID string `json:"place_id"`
}

// FindPlaceID resolves free text (usually "name address") to a place id.
func (c *Client) FindPlaceID(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("find place input is required")
	}

	q := url.Values{}
	q.Set("input", input)
	q.Set("inputtype", "textquery")
	q.Set("fields", "place_id")
	q.Set("key", c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.legacyURL+"/findplacefromtext/json?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build find place request: %w", err)
	}

	var parsed legacyResponse
	if err := c.do(httpReq, &parsed); err != nil {
		return "", fmt.Errorf("find place: %w", err)
	}
	if parsed.Status == "ZERO_RESULTS" || (parsed.Status == "OK" && len(parsed.Candidates) == 0) {
		return "", ErrNoCandidate
	}
	if parsed.Status != "OK" {
		return "", fmt.Errorf("find place status=%s %s", parsed.Status, parsed.ErrorMessage)
	}

	id := strings.TrimSpace(parsed.Candidates[0].PlaceID)
	if id == "" {
		return "", ErrNoCandidate
	}
	return id, nil
}

// Details fetches the place details record for placeID.
func (c *Client) Details(ctx context.Context, placeID string) (*Details, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, errors.New("place id is required")
	}

	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", strings.Join(detailFields, ","))
	q.Set("key", c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.legacyURL+"/details/json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build details request: %w", err)
	}

	var parsed legacyResponse
	if err := c.do(httpReq, &parsed); err != nil {
		return nil, fmt.Errorf("place details: %w", err)
	}
	if parsed.Status != "OK" {
		return nil, fmt.Errorf("place details status=%s %s", parsed.Status, parsed.ErrorMessage)
	}
	if parsed.Result == nil {
		return nil, fmt.Errorf("place details status=OK without result for %s", placeID)
	}
	return parsed.Result, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("http status=%d body=%s", resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// MapsLink builds a shareable maps URL for a place.
func MapsLink(name, address string) string {
	q := strings.TrimSpace(strings.TrimSpace(name) + " " + strings.TrimSpace(address))
	return "https://maps.google.com/maps?q=" + url.QueryEscape(q)
}

func clampPageSize(n int) int {
	if n <= 0 {
		return 0
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}
