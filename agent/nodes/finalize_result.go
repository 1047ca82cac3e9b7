package dispatchnode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
)

const fallbackMessage = "I'm sorry, something went wrong on my end. Could you try that again?"

func FinalizeResult(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	res := in.Result
	res.ToolCallID = in.Invocation.ToolCallID
	if res.Name == "" {
		res.Name = in.Invocation.Name
	}
	if strings.TrimSpace(res.Message) == "" {
		res.Message = fallbackMessage
		res.Failed = true
	}
	return GraphOutput{Result: res}, nil
}
