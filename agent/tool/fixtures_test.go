package tool

import (
	"context"
	"errors"
	"testing"
	"time"

	profilex "github.com/tanpawarit/wanda-voice-concierge/agent/profile"
	reviewx "github.com/tanpawarit/wanda-voice-concierge/agent/review"
	searchx "github.com/tanpawarit/wanda-voice-concierge/agent/search"
	statex "github.com/tanpawarit/wanda-voice-concierge/agent/state"
	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
)

const (
	testCallID = "call-1"
	testCaller = "+15551234567"
)

var fixedNow = time.Date(2026, 3, 4, 18, 30, 0, 0, time.UTC)

type fakeSearcher struct {
	result searchx.Result
	err    error
	got    searchx.Request
	calls  int
}

func (f *fakeSearcher) Search(ctx context.Context, req searchx.Request) (searchx.Result, error) {
	f.calls++
	f.got = req
	return f.result, f.err
}

type fakeDirectory struct {
	ids      map[string]string
	details  map[string]*placesx.Details
	findErr  error
	findArgs []string
}

func (f *fakeDirectory) FindPlaceID(ctx context.Context, input string) (string, error) {
	f.findArgs = append(f.findArgs, input)
	if f.findErr != nil {
		return "", f.findErr
	}
	id, ok := f.ids[input]
	if !ok {
		return "", placesx.ErrNoCandidate
	}
	return id, nil
}

func (f *fakeDirectory) Details(ctx context.Context, placeID string) (*placesx.Details, error) {
	d, ok := f.details[placeID]
	if !ok {
		return nil, errors.New("place details status=NOT_FOUND")
	}
	return d, nil
}

type sentSMS struct {
	to   string
	body string
}

type fakeSMS struct {
	sent []sentSMS
	err  error
}

func (f *fakeSMS) Send(ctx context.Context, to string, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentSMS{to: to, body: body})
	return "SM0001", nil
}

type harness struct {
	deps      Deps
	sessions  *statex.Sessions
	profiles  *profilex.Service
	reviews   *reviewx.Service
	searcher  *fakeSearcher
	directory *fakeDirectory
	sms       *fakeSMS
	router    *Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clock := func() time.Time { return fixedNow }
	sessions, err := statex.NewSessions(statex.NewMemoryStore(), statex.WithClock(clock))
	if err != nil {
		t.Fatalf("NewSessions() error = %v", err)
	}
	profiles, err := profilex.NewService(profilex.NewMemoryStore(), profilex.WithClock(clock))
	if err != nil {
		t.Fatalf("profile NewService() error = %v", err)
	}
	seq := 0
	reviews, err := reviewx.NewService(reviewx.NewMemoryStore(),
		reviewx.WithClock(func() time.Time {
			seq++
			return fixedNow.Add(time.Duration(seq) * time.Minute)
		}),
	)
	if err != nil {
		t.Fatalf("review NewService() error = %v", err)
	}

	h := &harness{
		sessions:  sessions,
		profiles:  profiles,
		reviews:   reviews,
		searcher:  &fakeSearcher{},
		directory: &fakeDirectory{ids: map[string]string{}, details: map[string]*placesx.Details{}},
		sms:       &fakeSMS{},
	}
	h.deps = Deps{
		Sessions: sessions,
		Profiles: profiles,
		Reviews:  reviews,
		Search:   h.searcher,
		Places:   h.directory,
		SMS:      h.sms,
		Now:      clock,
	}
	h.router, err = NewDefaultRouter(h.deps)
	if err != nil {
		t.Fatalf("NewDefaultRouter() error = %v", err)
	}
	return h
}

// call builds the context the dispatch pipeline would pass, reading the
// session back from the store.
func (h *harness) call(t *testing.T) CallContext {
	t.Helper()

	cc := CallContext{CallID: testCallID, CallerNumber: testCaller}
	sess, err := h.sessions.Get(context.Background(), testCallID)
	switch {
	case err == nil:
		cc.Session = sess
	case errors.Is(err, statex.ErrSessionNotFound):
	default:
		t.Fatalf("sessions.Get() error = %v", err)
	}
	return cc
}

func (h *harness) dispatch(t *testing.T, name string, args Args) (string, bool) {
	t.Helper()
	res := h.router.Dispatch(context.Background(), h.call(t), name, args)
	return res.Message, res.Failed
}

func (h *harness) cache(t *testing.T, results ...placesx.Place) {
	t.Helper()
	if err := h.sessions.RecordSearchResults(context.Background(), testCallID, results); err != nil {
		t.Fatalf("RecordSearchResults() error = %v", err)
	}
}

var (
	placeA = placesx.Place{Name: "Thai Garden", Address: "1 Main St, Austin, TX", PlaceID: "pA"}
	placeB = placesx.Place{Name: "Bangkok Bites", Address: "2 Oak Ave, Austin, TX", PlaceID: "pB"}
	placeC = placesx.Place{Name: "Thai Garden Express", Address: "3 Elm Rd, Austin, TX", PlaceID: "pC"}
)
