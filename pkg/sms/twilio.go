package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var ErrMissingCredentials = errors.New("twilio account sid, auth token and sender number are required")

type Config struct {
	AccountSID  string `envconfig:"ACCOUNT_SID" split_words:"true" required:"true"`
	AuthToken   string `envconfig:"AUTH_TOKEN" split_words:"true" required:"true"`
	PhoneNumber string `envconfig:"PHONE_NUMBER" split_words:"true" required:"true"`
}

// messageAPI is the slice of the Twilio REST API this package uses.
type messageAPI interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type Client struct {
	api  messageAPI
	from string
}

func NewClient(cfg Config) (*Client, error) {
	sid := strings.TrimSpace(cfg.AccountSID)
	token := strings.TrimSpace(cfg.AuthToken)
	from := strings.TrimSpace(cfg.PhoneNumber)
	if sid == "" || token == "" || from == "" {
		return nil, ErrMissingCredentials
	}

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: sid,
		Password: token,
	})
	return &Client{api: rest.Api, from: from}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Send delivers a text message and returns the provider message sid.
// The Twilio SDK has no context support; ctx is only checked before sending.
func (c *Client) Send(ctx context.Context, to string, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return "", errors.New("recipient number is required")
	}
	if strings.TrimSpace(body) == "" {
		return "", errors.New("message body is required")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)

	resp, err := c.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio create message: %w", err)
	}
	if resp == nil || resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
