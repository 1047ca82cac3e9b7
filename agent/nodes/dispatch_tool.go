package dispatchnode

import (
	"context"
	"fmt"
	"time"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	toolx "github.com/tanpawarit/wanda-voice-concierge/agent/tool"
	"github.com/tanpawarit/wanda-voice-concierge/pkg/metrics"
)

func DispatchTool(ctx context.Context, in *GraphState, router *toolx.Router) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	started := time.Now()
	in.Result = router.Dispatch(ctx, in.Call, in.Invocation.Name, in.Args)

	name, known := toolx.ParseName(in.Invocation.Name)
	metrics.ObserveToolCall(string(name), known, !in.Result.Failed, time.Since(started))
	return in, nil
}
