package dispatchnode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	toolx "github.com/tanpawarit/wanda-voice-concierge/agent/tool"
)

func ValidateInvocation(in GraphInput) (*GraphState, error) {
	inv := in.Invocation
	inv.CallID = strings.TrimSpace(inv.CallID)
	inv.ToolCallID = strings.TrimSpace(inv.ToolCallID)
	inv.Name = strings.TrimSpace(inv.Name)
	inv.CustomerNumber = strings.TrimSpace(inv.CustomerNumber)

	if inv.CallID == "" {
		return nil, fmt.Errorf("%w: %w", contractx.ErrValidation, ErrMissingCallID)
	}
	if inv.ToolCallID == "" {
		return nil, fmt.Errorf("%w: %w", contractx.ErrValidation, ErrMissingToolCallID)
	}

	return &GraphState{
		Invocation: inv,
		Args:       toolx.ParseArgs(inv.Arguments),
		Call: toolx.CallContext{
			CallID:       inv.CallID,
			CallerNumber: inv.CustomerNumber,
			Assistant:    in.Assistant,
		},
	}, nil
}
