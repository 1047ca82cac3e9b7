package vapi

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
	ErrMissingAPIKey = errors.New("VAPI_API_KEY not configured")
	ErrMissingTwiML  = errors.New("call response has no twiml")
)

const maxResponseSizeBytes = 1 << 20

type Config struct {
	APIKey        string        `envconfig:"API_KEY" split_words:"true"`
	BaseURL       string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.vapi.ai"`
	PhoneNumberID string        `envconfig:"PHONE_NUMBER_ID" split_words:"true"`
	Timeout       time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"15s"`
}

// Configured reports whether call creation can be attempted.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

type Customer struct {
	Number string `json:"number"`
}

type ServerOverride struct {
	URL string `json:"url"`
}

type AssistantOverrides struct {
	Server *ServerOverride `json:"server,omitempty"`
}

// CreateCallRequest is the bridged inbound call body. Squad is encoded as-is.
type CreateCallRequest struct {
	PhoneNumberID                  string              `json:"phoneNumberId,omitempty"`
	PhoneCallProviderBypassEnabled bool                `json:"phoneCallProviderBypassEnabled"`
	Customer                       Customer            `json:"customer"`
	Squad                          any                 `json:"squad"`
	AssistantOverrides             *AssistantOverrides `json:"assistantOverrides,omitempty"`
}

type Call struct {
	ID                       string `json:"id"`
	Status                   string `json:"status"`
	PhoneCallProviderDetails *struct {
		TwiML string `json:"twiml"`
	} `json:"phoneCallProviderDetails"`
}

// TwiML returns the provider markup the telephony carrier should execute.
func (c *Call) TwiML() (string, error) {
	if c == nil || c.PhoneCallProviderDetails == nil || strings.TrimSpace(c.PhoneCallProviderDetails.TwiML) == "" {
		return "", ErrMissingTwiML
	}
	return c.PhoneCallProviderDetails.TwiML, nil
}

type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

type Client struct {
	baseURL       string
	apiKey        string
	phoneNumberID string
	httpClient    *http.Client
}

func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.vapi.ai"
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid vapi base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        strings.TrimSpace(cfg.APIKey),
		phoneNumberID: strings.TrimSpace(cfg.PhoneNumberID),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
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

// CreateCall registers a bridged inbound call with the orchestration provider.
func (c *Client) CreateCall(ctx context.Context, req CreateCallRequest) (*Call, error) {
	if c == nil || c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if req.PhoneNumberID == "" {
		req.PhoneNumberID = c.phoneNumberID
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal create call request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build create call request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute create call request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read create call response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("vapi http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var call Call
	if err := json.Unmarshal(raw, &call); err != nil {
		return nil, fmt.Errorf("decode create call response: %w", err)
	}
	return &call, nil
}
