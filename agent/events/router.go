package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	profilex "github.com/tanpawarit/wanda-voice-concierge/agent/profile"
	statex "github.com/tanpawarit/wanda-voice-concierge/agent/state"
	logx "github.com/tanpawarit/wanda-voice-concierge/pkg/logger"
	"github.com/tanpawarit/wanda-voice-concierge/pkg/metrics"
)

var ErrInvalidEnvelope = errors.New("invalid event envelope")

// ToolDispatcher runs one tool invocation, normally *dispatch.Dispatcher.
type ToolDispatcher interface {
	Dispatch(ctx context.Context, inv contractx.ToolInvocation, assistant contractx.AssistantName) (contractx.ToolResult, error)
}

// Response is the JSON body returned for every accepted event.
type Response struct {
	Results []contractx.ToolResult `json:"results,omitempty"`
	Result  string                 `json:"result,omitempty"`
}

// structured data key -> preference category
var structuredPreferenceKeys = []struct {
	key      string
	category profilex.Category
}{
	{"food_preferences", profilex.CategoryFood},
	{"activity_preferences", profilex.CategoryActivities},
	{"activities_preferences", profilex.CategoryActivities},
	{"shopping_preferences", profilex.CategoryShopping},
	{"entertainment_preferences", profilex.CategoryEntertainment},
}

type Router struct {
	tools      ToolDispatcher
	sessions   contractx.SessionStore
	profiles   contractx.ProfileStore
	summarizer contractx.Summarizer
	validate   *validator.Validate
	now        func() time.Time
}

type Option func(*Router)

// WithSummarizer enables summaries for reports that arrive without one.
func WithSummarizer(s contractx.Summarizer) Option {
	return func(r *Router) {
		r.summarizer = s
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRouter(
	tools ToolDispatcher,
	sessions contractx.SessionStore,
	profiles contractx.ProfileStore,
	opts ...Option,
) (*Router, error) {
	if tools == nil {
		return nil, errors.New("tool dispatcher is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if profiles == nil {
		return nil, errors.New("profile store is required")
	}
	r := &Router{
		tools:    tools,
		sessions: sessions,
		profiles: profiles,
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Handle classifies the event by message type. Only a malformed envelope is
// an error; store failures are logged and the event is acknowledged.
func (r *Router) Handle(ctx context.Context, env Envelope, assistant contractx.AssistantName) (Response, error) {
	if err := r.validate.Struct(env); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}

	msg := env.Message
	ctx = logx.WithCall(ctx, msg.Call.ID)
	metrics.ObserveEvent(string(msg.Type))

	switch msg.Type {
	case TypeToolCalls:
		return r.handleToolCalls(ctx, msg, assistant)
	case TypeStatusUpdate:
		return r.handleStatusUpdate(ctx, msg), nil
	case TypeEndOfCallReport:
		return r.handleEndOfCallReport(ctx, msg), nil
	case TypeHang:
		logx.ForCall(ctx, msg.Call.ID).Info().Msg("assistant did not respond in time")
		return Response{Result: "Hang acknowledged"}, nil
	default:
		logx.ForCall(ctx, msg.Call.ID).Debug().Str("type", string(msg.Type)).Msg("unhandled event type")
		return Response{Result: "Acknowledged unknown message type"}, nil
	}
}

func (r *Router) handleToolCalls(ctx context.Context, msg Message, assistant contractx.AssistantName) (Response, error) {
	logger := logx.ForCall(ctx, msg.Call.ID)
	if len(msg.ToolCallList) == 0 {
		logger.Warn().Msg("tool-calls event without tool calls")
		return Response{Result: "No tool calls to handle"}, nil
	}
	if len(msg.ToolCallList) > 1 {
		logger.Warn().Int("count", len(msg.ToolCallList)).Msg("only the first tool call of an event is handled")
	}

	tc := msg.ToolCallList[0]
	if strings.TrimSpace(tc.ID) == "" {
		logger.Warn().Str("tool", tc.Function.Name).Msg("tool call without id")
		res := contractx.Failed("I'm sorry, I couldn't process that request. Could you try again?")
		res.Name = tc.Function.Name
		return Response{Results: []contractx.ToolResult{res}}, nil
	}
	res, err := r.tools.Dispatch(ctx, contractx.ToolInvocation{
		CallID:         msg.Call.ID,
		ToolCallID:     tc.ID,
		Name:           tc.Function.Name,
		Arguments:      tc.Function.DecodeArguments(),
		CustomerNumber: msg.CustomerNumber(),
	}, assistant)
	if err != nil {
		if errors.Is(err, contractx.ErrValidation) {
			return Response{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
		}
		return Response{}, err
	}

	ev := logger.Info()
	if res.Failed {
		ev = logger.Warn()
	}
	ev.Str("tool", tc.Function.Name).Str("tool_call_id", tc.ID).Msg("tool call handled")
	return Response{Results: []contractx.ToolResult{res}}, nil
}

func (r *Router) handleStatusUpdate(ctx context.Context, msg Message) Response {
	logger := logx.ForCall(ctx, msg.Call.ID)

	status, err := statex.ParseStatus(msg.Status)
	if err != nil {
		logger.Warn().Err(err).Msg("ignore status update")
		return Response{Result: "Status update acknowledged"}
	}

	patch := statex.Patch{Status: &status}
	if number := msg.CustomerNumber(); number != "" {
		patch.CallerPhoneNumber = &number
	}
	if _, err := r.sessions.Upsert(ctx, msg.Call.ID, patch); err != nil {
		metrics.ObserveStoreError("session", "status")
		logger.Error().Err(err).Str("status", string(status)).Msg("store status update")
	}
	return Response{Result: "Status update acknowledged"}
}

func (r *Router) handleEndOfCallReport(ctx context.Context, msg Message) Response {
	logger := logx.ForCall(ctx, msg.Call.ID)

	prior, err := r.sessions.Get(ctx, msg.Call.ID)
	if err != nil && !errors.Is(err, statex.ErrSessionNotFound) {
		logger.Warn().Err(err).Msg("load call session before end of call report")
	}
	if prior.ReportProcessed() {
		logger.Info().Msg("duplicate end of call report")
		return Response{Result: "End of call report already processed"}
	}

	summary := msg.summary()
	transcript := msg.transcript()
	if summary == "" && transcript != "" && r.summarizer != nil {
		generated, err := r.summarizer.Summarize(ctx, transcript)
		if err != nil {
			logger.Warn().Err(err).Msg("generate call summary")
		} else {
			summary = generated
		}
	}

	ended := statex.StatusEnded
	endedAt := r.now()
	recording := msg.recordingURL()
	endedReason := strings.TrimSpace(msg.EndedReason)
	patch := statex.Patch{
		Status:       &ended,
		Summary:      &summary,
		Transcript:   &transcript,
		EndedReason:  &endedReason,
		RecordingURL: &recording,
		EndedAt:      &endedAt,
	}
	number := msg.CustomerNumber()
	if number != "" {
		patch.CallerPhoneNumber = &number
	}

	sess, err := r.sessions.Upsert(ctx, msg.Call.ID, patch)
	if err != nil {
		metrics.ObserveStoreError("session", "end_of_call")
		logger.Error().Err(err).Msg("store end of call report")
	}
	if number == "" && sess != nil {
		number = sess.CallerPhoneNumber
	}
	if number == "" && prior != nil {
		number = prior.CallerPhoneNumber
	}
	if number == "" {
		logger.Warn().Msg("end of call report without caller number")
		return Response{Result: "End of call report processed"}
	}

	if err := r.profiles.RecordCompletedCall(ctx, number); err != nil {
		metrics.ObserveStoreError("profile", "completed_call")
		logger.Error().Err(err).Msg("record completed call")
	}
	r.mergeStructuredPreferences(ctx, msg, number)

	return Response{Result: "End of call report processed"}
}

func (r *Router) mergeStructuredPreferences(ctx context.Context, msg Message, number string) {
	logger := logx.ForCall(ctx, msg.Call.ID)
	data := msg.structuredData()
	if len(data) == 0 {
		return
	}

	for _, k := range structuredPreferenceKeys {
		raw, ok := data[k.key]
		if !ok || raw == nil {
			continue
		}
		values, err := structuredValues(raw)
		if err != nil {
			logger.Warn().Err(err).Str("key", k.key).Msg("structured preferences are not a list")
			continue
		}
		if len(values) == 0 {
			continue
		}
		out, err := r.profiles.MergePreferences(ctx, number, k.category, profilex.ActionAdd, values)
		if err != nil {
			metrics.ObserveStoreError("profile", "preferences")
			logger.Error().Err(err).Str("category", string(k.category)).Msg("merge call preferences")
			continue
		}
		logger.Info().Str("category", string(k.category)).Strs("added", out.Added).Msg("merged call preferences")
	}
}

// structuredValues reads a list or a comma separated string. Items are
// trimmed and blanks dropped.
func structuredValues(raw any) ([]string, error) {
	var items []string
	if s, ok := raw.(string); ok {
		items = strings.Split(s, ",")
	} else {
		var err error
		if items, err = cast.ToStringSliceE(raw); err != nil {
			return nil, err
		}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}
