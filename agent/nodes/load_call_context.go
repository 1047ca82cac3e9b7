package dispatchnode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	statex "github.com/tanpawarit/wanda-voice-concierge/agent/state"
	logx "github.com/tanpawarit/wanda-voice-concierge/pkg/logger"
	"github.com/tanpawarit/wanda-voice-concierge/pkg/metrics"
)

// LoadCallContext attaches the stored call session. A store failure is
// logged and the tool runs without cached search results.
func LoadCallContext(ctx context.Context, in *GraphState, sessions contractx.SessionStore) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	sess, err := loadSession(ctx, sessions, in.Call.CallID, in.Call.CallerNumber)
	if err != nil {
		metrics.ObserveStoreError("session", "load")
		logx.ForCall(ctx, in.Call.CallID).Warn().Err(err).Msg("load call session for tool call")
		return in, nil
	}

	in.Call.Session = sess
	if in.Call.CallerNumber == "" && sess != nil {
		in.Call.CallerNumber = sess.CallerPhoneNumber
	}
	return in, nil
}

func loadSession(ctx context.Context, sessions contractx.SessionStore, callID, number string) (*statex.CallSession, error) {
	if number != "" {
		return sessions.Upsert(ctx, callID, statex.Patch{CallerPhoneNumber: &number})
	}
	sess, err := sessions.Get(ctx, callID)
	if errors.Is(err, statex.ErrSessionNotFound) {
		return nil, nil
	}
	return sess, err
}
