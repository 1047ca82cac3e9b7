package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	statex "github.com/tanpawarit/wanda-voice-concierge/agent/state"
)

// CallContext is what a handler knows about the call it serves.
type CallContext struct {
	CallID       string
	CallerNumber string
	// Assistant that invoked the tool; empty when the provider did not say.
	Assistant contractx.AssistantName
	// Session is nil when no session was stored for the call yet.
	Session *statex.CallSession
}

// Handler fulfils one tool. Handlers never return Go errors: every failure
// is turned into a spoken result.
type Handler interface {
	Name() Name
	Handle(ctx context.Context, call CallContext, args Args) contractx.ToolResult
}

type Router struct {
	handlers map[Name]Handler
}

// NewRouter requires exactly one handler per entry of Names.
func NewRouter(handlers ...Handler) (*Router, error) {
	r := &Router{handlers: make(map[Name]Handler, len(handlers))}
	for _, h := range handlers {
		if h == nil {
			return nil, errors.New("nil tool handler")
		}
		if _, ok := ParseName(string(h.Name())); !ok {
			return nil, fmt.Errorf("handler for undeclared tool %q", h.Name())
		}
		if _, dup := r.handlers[h.Name()]; dup {
			return nil, fmt.Errorf("duplicate handler for tool %q", h.Name())
		}
		r.handlers[h.Name()] = h
	}

	var missing []string
	for _, n := range Names {
		if _, ok := r.handlers[n]; !ok {
			missing = append(missing, string(n))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("no handler for tools: %s", strings.Join(missing, ", "))
	}
	return r, nil
}

// Dispatch runs the handler for rawName. Unknown names produce a spoken
// "Unknown function" result instead of an error.
func (r *Router) Dispatch(ctx context.Context, call CallContext, rawName string, args Args) contractx.ToolResult {
	name, ok := ParseName(rawName)
	if !ok {
		res := contractx.Failed(unknownFunctionMessage(rawName))
		res.Name = rawName
		return res
	}

	res := r.handlers[name].Handle(ctx, call, args)
	res.Name = rawName
	return res
}

func unknownFunctionMessage(name string) string {
	return fmt.Sprintf("Unknown function: %s", strings.TrimSpace(name))
}
