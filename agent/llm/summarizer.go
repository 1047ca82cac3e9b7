package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	"github.com/tanpawarit/wanda-voice-concierge/agent/prompt"
	openrouterx "github.com/tanpawarit/wanda-voice-concierge/pkg/openrouter"
)

// maxTranscriptRunes keeps long calls inside the model context.
const maxTranscriptRunes = 24000

type chatCompletions interface {
	New(ctx context.Context, body openaisdk.ChatCompletionNewParams, opts ...option.RequestOption) (*openaisdk.ChatCompletion, error)
}

// Summarizer writes an end-of-call summary when the provider report has none.
type Summarizer struct {
	chat         chatCompletions
	model        string
	temperature  float64
	maxTokens    int64
	systemPrompt string
}

// NewSummarizer returns nil when OpenRouter is not configured; callers treat
// a nil summarizer as disabled.
func NewSummarizer(cfg openrouterx.Config) *Summarizer {
	client := openrouterx.NewClient(cfg)
	if client == nil {
		return nil
	}
	return newSummarizer(&client.Chat.Completions, cfg)
}

func newSummarizer(chat chatCompletions, cfg openrouterx.Config) *Summarizer {
	maxTokens := cfg.MaxCompletionToken
	if maxTokens <= 0 {
		maxTokens = 400
	}
	return &Summarizer{
		chat:         chat,
		model:        strings.TrimSpace(cfg.Model),
		temperature:  cfg.Temperature,
		maxTokens:    maxTokens,
		systemPrompt: prompt.LoadPromptSet().Summary,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("%w: summarizer is not configured", contractx.ErrConfiguration)
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", fmt.Errorf("%w: transcript is empty", contractx.ErrValidation)
	}
	if r := []rune(transcript); len(r) > maxTranscriptRunes {
		transcript = string(r[len(r)-maxTranscriptRunes:])
	}

	resp, err := s.chat.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(s.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(s.systemPrompt),
			openaisdk.UserMessage(transcript),
		},
		Temperature:         openaisdk.Float(s.temperature),
		MaxCompletionTokens: openaisdk.Int(s.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("%w: summarize call: %v", contractx.ErrExternal, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: summarize call: no choices", contractx.ErrExternal)
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.New("summarize call: empty summary")
	}
	return summary, nil
}
