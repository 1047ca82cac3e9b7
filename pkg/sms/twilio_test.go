package sms

import (
	"context"
	"errors"
	"testing"

	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeMessageAPI struct {
	calls  int
	params *twilioApi.CreateMessageParams
	sid    string
	err    error
}

func (f *fakeMessageAPI) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.calls++
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid := f.sid
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestNewClientRequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{AccountSID: "AC1", AuthToken: "", PhoneNumber: "+15550000000"})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("NewClient() error = %v, want ErrMissingCredentials", err)
	}
}

func TestSendReturnsSid(t *testing.T) {
	t.Parallel()

	api := &fakeMessageAPI{sid: "SM123"}
	client := &Client{api: api, from: "+15550000000"}

	sid, err := client.Send(context.Background(), "+15551234567", "hello")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if sid != "SM123" {
		t.Fatalf("Send() sid = %q, want SM123", sid)
	}
	if api.calls != 1 {
		t.Fatalf("CreateMessage calls = %d, want 1", api.calls)
	}
	if api.params.To == nil || *api.params.To != "+15551234567" {
		t.Fatalf("to = %v", api.params.To)
	}
	if api.params.From == nil || *api.params.From != "+15550000000" {
		t.Fatalf("from = %v", api.params.From)
	}
}

func TestSendPropagatesProviderError(t *testing.T) {
	t.Parallel()

	api := &fakeMessageAPI{err: errors.New("21211 invalid to")}
	client := &Client{api: api, from: "+15550000000"}

	if _, err := client.Send(context.Background(), "+1555", "hello"); err == nil {
		t.Fatal("Send() error = nil, want provider error")
	}
}

func TestSendRejectsEmptyBody(t *testing.T) {
	t.Parallel()

	api := &fakeMessageAPI{}
	client := &Client{api: api, from: "+15550000000"}

	if _, err := client.Send(context.Background(), "+15551234567", "  "); err == nil {
		t.Fatal("Send() error = nil, want validation error")
	}
	if api.calls != 0 {
		t.Fatalf("CreateMessage calls = %d, want 0", api.calls)
	}
}
