package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	statex "github.com/tanpawarit/wanda-voice-concierge/agent/state"
	toolx "github.com/tanpawarit/wanda-voice-concierge/agent/tool"
	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
)

type recordingHandler struct {
	name    toolx.Name
	message string
	calls   []toolx.CallContext
	args    []toolx.Args
}

func (r *recordingHandler) Name() toolx.Name { return r.name }

func (r *recordingHandler) Handle(ctx context.Context, call toolx.CallContext, args toolx.Args) contractx.ToolResult {
	r.calls = append(r.calls, call)
	r.args = append(r.args, args)
	return contractx.Succeeded(r.message)
}

type failingSessions struct {
	contractx.SessionStore
	err error
}

func (f failingSessions) Upsert(ctx context.Context, callID string, patch statex.Patch) (*statex.CallSession, error) {
	return nil, f.err
}

func (f failingSessions) Get(ctx context.Context, callID string) (*statex.CallSession, error) {
	return nil, f.err
}

func newRouter(t *testing.T) (*toolx.Router, map[toolx.Name]*recordingHandler) {
	t.Helper()

	byName := make(map[toolx.Name]*recordingHandler, len(toolx.Names))
	handlers := make([]toolx.Handler, 0, len(toolx.Names))
	for _, n := range toolx.Names {
		h := &recordingHandler{name: n, message: "done " + string(n)}
		byName[n] = h
		handlers = append(handlers, h)
	}
	r, err := toolx.NewRouter(handlers...)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	return r, byName
}

func newSessions(t *testing.T) *statex.Sessions {
	t.Helper()
	s, err := statex.NewSessions(statex.NewMemoryStore(), statex.WithClock(func() time.Time {
		return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("NewSessions() error = %v", err)
	}
	return s
}

func TestDispatchRunsHandlerWithCallContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions := newSessions(t)
	cached := []placesx.Place{{Name: "Thai Garden", PlaceID: "pA"}}
	if err := sessions.RecordSearchResults(ctx, "call-1", cached); err != nil {
		t.Fatalf("RecordSearchResults() error = %v", err)
	}

	router, handlers := newRouter(t)
	d, err := New(sessions, router)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res, err := d.Dispatch(ctx, contractx.ToolInvocation{
		CallID:         "call-1",
		ToolCallID:     "tc-9",
		Name:           "wandaSendDirections",
		Arguments:      map[string]any{"placeNumber": 1},
		CustomerNumber: "+15551234567",
	}, contractx.AssistantSearch)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if res.ToolCallID != "tc-9" || res.Name != "wandaSendDirections" || res.Message != "done sendDirections" || res.Failed {
		t.Fatalf("result = %+v", res)
	}

	h := handlers[toolx.SendDirections]
	if len(h.calls) != 1 {
		t.Fatalf("sendDirections calls = %d", len(h.calls))
	}
	call := h.calls[0]
	if call.CallerNumber != "+15551234567" || call.Assistant != contractx.AssistantSearch {
		t.Fatalf("call = %+v", call)
	}
	if call.Session == nil || len(call.Session.LastSearchResults) != 1 {
		t.Fatalf("session = %+v", call.Session)
	}
	if n, ok := h.args[0].Int("placeNumber"); !ok || n != 1 {
		t.Fatalf("placeNumber = %d, %v", n, ok)
	}

	sess, _ := sessions.Get(ctx, "call-1")
	if sess.CallerPhoneNumber != "+15551234567" {
		t.Fatalf("CallerPhoneNumber = %q", sess.CallerPhoneNumber)
	}
}

func TestDispatchFillsCallerFromSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions := newSessions(t)
	number := "+15550001111"
	if _, err := sessions.Upsert(ctx, "call-2", statex.Patch{CallerPhoneNumber: &number}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	router, handlers := newRouter(t)
	d, _ := New(sessions, router)

	if _, err := d.Dispatch(ctx, contractx.ToolInvocation{CallID: "call-2", ToolCallID: "tc", Name: "getProfile"}, ""); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if got := handlers[toolx.GetProfile].calls[0].CallerNumber; got != number {
		t.Fatalf("CallerNumber = %q, want %q", got, number)
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t)
	d, _ := New(newSessions(t), router)

	res, err := d.Dispatch(context.Background(), contractx.ToolInvocation{CallID: "c", ToolCallID: "tc", Name: "orderPizza"}, "")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !res.Failed || res.Message != "Unknown function: orderPizza" || res.ToolCallID != "tc" {
		t.Fatalf("result = %+v", res)
	}
}

func TestDispatchRejectsMalformedInvocation(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t)
	d, _ := New(newSessions(t), router)

	_, err := d.Dispatch(context.Background(), contractx.ToolInvocation{ToolCallID: "tc", Name: "getProfile"}, "")
	if !errors.Is(err, ErrMissingCallID) || !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Dispatch() error = %v, want ErrMissingCallID", err)
	}

	_, err = d.Dispatch(context.Background(), contractx.ToolInvocation{CallID: "c", Name: "getProfile"}, "")
	if !errors.Is(err, ErrMissingToolCallID) {
		t.Fatalf("Dispatch() error = %v, want ErrMissingToolCallID", err)
	}
}

func TestDispatchSurvivesSessionStoreFailure(t *testing.T) {
	t.Parallel()

	router, handlers := newRouter(t)
	d, err := New(failingSessions{err: errors.New("redis down")}, router)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res, err := d.Dispatch(context.Background(), contractx.ToolInvocation{
		CallID: "c", ToolCallID: "tc", Name: "searchMaps", CustomerNumber: "+15551234567",
	}, "")
	if err != nil || res.Failed {
		t.Fatalf("Dispatch() = %+v, %v", res, err)
	}
	if call := handlers[toolx.SearchMaps].calls[0]; call.Session != nil || call.CallerNumber != "+15551234567" {
		t.Fatalf("call = %+v", call)
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t)
	if _, err := New(nil, router); err == nil {
		t.Fatal("New(nil sessions) error = nil")
	}
	if _, err := New(newSessions(t), nil); err == nil {
		t.Fatal("New(nil router) error = nil")
	}
}
