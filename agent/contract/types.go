package contract

import "strings"

type AssistantName string

const (
	AssistantIntro   AssistantName = "Intro"
	AssistantSearch  AssistantName = "Search"
	AssistantProfile AssistantName = "Profile"
	AssistantReview  AssistantName = "Review"
)

// ProviderName is the assistant name registered with the call provider.
func (n AssistantName) ProviderName() string {
	return "Wanda_" + string(n)
}

// ToolInvocation is the single tool call carried by a tool-calls event.
type ToolInvocation struct {
	CallID         string         `json:"call_id"`
	ToolCallID     string         `json:"tool_call_id"`
	Name           string         `json:"name"`
	Arguments      map[string]any `json:"arguments,omitempty"`
	CustomerNumber string         `json:"customer_number,omitempty"`
}

// ToolResult is spoken back to the caller. Failed results are still
// delivered in-band; they only mark the turn for logging and metrics.
type ToolResult struct {
	ToolCallID string `json:"toolCallId"`
	Name       string `json:"name"`
	Message    string `json:"result"`
	Failed     bool   `json:"-"`
}

func Succeeded(message string) ToolResult {
	return ToolResult{Message: strings.TrimSpace(message)}
}

func Failed(message string) ToolResult {
	return ToolResult{Message: strings.TrimSpace(message), Failed: true}
}
