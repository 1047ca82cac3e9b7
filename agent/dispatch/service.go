package dispatch

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	nodex "github.com/tanpawarit/wanda-voice-concierge/agent/nodes"
	toolx "github.com/tanpawarit/wanda-voice-concierge/agent/tool"
)

var (
	ErrMissingCallID     = nodex.ErrMissingCallID
	ErrMissingToolCallID = nodex.ErrMissingToolCallID
)

// Dispatcher runs one tool invocation through the dispatch graph.
type Dispatcher struct {
	sessions contractx.SessionStore
	router   *toolx.Router

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
}

func New(sessions contractx.SessionStore, router *toolx.Router) (*Dispatcher, error) {
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if router == nil {
		return nil, errors.New("tool router is required")
	}

	d := &Dispatcher{
		sessions: sessions,
		router:   router,
	}

	graphRunner, err := d.compileDispatchGraph(context.Background())
	if err != nil {
		return nil, err
	}
	d.graphRunner = graphRunner

	return d, nil
}

// Dispatch returns the spoken result for inv. An error means the invocation
// itself was malformed; tool failures are reported in the result.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	inv contractx.ToolInvocation,
	assistant contractx.AssistantName,
) (contractx.ToolResult, error) {
	out, err := d.graphRunner.Invoke(ctx, nodex.GraphInput{
		Invocation: inv,
		Assistant:  assistant,
	})
	if err != nil {
		return contractx.ToolResult{}, err
	}
	return out.Result, nil
}
