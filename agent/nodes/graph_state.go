package dispatchnode

import (
	"errors"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	toolx "github.com/tanpawarit/wanda-voice-concierge/agent/tool"
)

var (
	ErrMissingCallID     = errors.New("call id is empty")
	ErrMissingToolCallID = errors.New("tool call id is empty")
)

type GraphInput struct {
	Invocation contractx.ToolInvocation
	// Assistant that issued the tool call, when the provider told us.
	Assistant contractx.AssistantName
}

type GraphOutput struct {
	Result contractx.ToolResult
}

// GraphState is threaded through every node of one tool dispatch.
type GraphState struct {
	Invocation contractx.ToolInvocation
	Args       toolx.Args

	Call   toolx.CallContext
	Result contractx.ToolResult
}
