package llm

import (
	"context"
	"errors"
	"testing"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	openrouterx "github.com/tanpawarit/wanda-voice-concierge/pkg/openrouter"
)

func TestModelForOverrides(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Provider:           "openai",
		Model:              "gpt-4o-2024-11-20",
		SearchModel:        "gpt-4o-mini",
		IntroTemperature:   -1,
		SearchTemperature:  0.3,
		ProfileTemperature: -1,
		ReviewTemperature:  -1,
	}

	intro := cfg.ModelFor(contractx.AssistantIntro, 0)
	if intro.Model != "gpt-4o-2024-11-20" || intro.Temperature != 0 {
		t.Fatalf("intro = %+v", intro)
	}

	search := cfg.ModelFor(contractx.AssistantSearch, 0.1)
	if search.Model != "gpt-4o-mini" || search.Temperature != 0.3 || search.Provider != "openai" {
		t.Fatalf("search = %+v", search)
	}

	review := cfg.ModelFor(contractx.AssistantReview, 0.1)
	if review.Temperature != 0.1 {
		t.Fatalf("review temperature = %v, want catalog default", review.Temperature)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := (Config{Provider: "openai"}).Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation", err)
	}
	ok := Config{Provider: "openai", Model: "m", IntroTemperature: -1, SearchTemperature: -1, ProfileTemperature: -1, ReviewTemperature: -1}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

type fakeCompletions struct {
	reply string
	err   error
	got   openaisdk.ChatCompletionNewParams
	calls int
}

func (f *fakeCompletions) New(ctx context.Context, body openaisdk.ChatCompletionNewParams, opts ...option.RequestOption) (*openaisdk.ChatCompletion, error) {
	f.calls++
	f.got = body
	if f.err != nil {
		return nil, f.err
	}
	return &openaisdk.ChatCompletion{
		Choices: []openaisdk.ChatCompletionChoice{
			{Message: openaisdk.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	chat := &fakeCompletions{reply: "  Caller asked for sushi and got directions.  "}
	s := newSummarizer(chat, openrouterx.Config{Model: "openai/gpt-4o-mini", Temperature: 0.2})

	got, err := s.Summarize(context.Background(), "User: sushi please\nAI: sent directions")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "Caller asked for sushi and got directions." {
		t.Fatalf("Summarize() = %q", got)
	}
	if string(chat.got.Model) != "openai/gpt-4o-mini" || len(chat.got.Messages) != 2 {
		t.Fatalf("request = %+v", chat.got)
	}
}

func TestSummarizeEmptyTranscript(t *testing.T) {
	t.Parallel()

	chat := &fakeCompletions{}
	s := newSummarizer(chat, openrouterx.Config{Model: "m"})
	if _, err := s.Summarize(context.Background(), "  "); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Summarize() error = %v, want ErrValidation", err)
	}
	if chat.calls != 0 {
		t.Fatalf("calls = %d, want 0", chat.calls)
	}
}

func TestSummarizeProviderFailure(t *testing.T) {
	t.Parallel()

	s := newSummarizer(&fakeCompletions{err: errors.New("429")}, openrouterx.Config{Model: "m"})
	if _, err := s.Summarize(context.Background(), "hello"); !errors.Is(err, contractx.ErrExternal) {
		t.Fatalf("Summarize() error = %v, want ErrExternal", err)
	}
}

func TestNilSummarizer(t *testing.T) {
	t.Parallel()

	if s := NewSummarizer(openrouterx.Config{}); s != nil {
		t.Fatal("NewSummarizer() without key should be nil")
	}
	var s *Summarizer
	if _, err := s.Summarize(context.Background(), "x"); !errors.Is(err, contractx.ErrConfiguration) {
		t.Fatalf("Summarize() error = %v, want ErrConfiguration", err)
	}
}
