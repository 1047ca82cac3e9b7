package events

import (
	"bytes"
	"encoding/json"
	"strings"
)

type MessageType string

const (
	TypeToolCalls        MessageType = "tool-calls"
	TypeStatusUpdate     MessageType = "status-update"
	TypeEndOfCallReport  MessageType = "end-of-call-report"
	TypeHang             MessageType = "hang"
	TypeAssistantRequest MessageType = "assistant-request"
)

// Envelope is the provider webhook body. Only the fields this service reads
// are declared.
type Envelope struct {
	Message Message `json:"message"`
}

type Message struct {
	Type         MessageType `json:"type" validate:"required"`
	Call         Call        `json:"call"`
	Customer     *Customer   `json:"customer,omitempty"`
	Status       string      `json:"status,omitempty"`
	EndedReason  string      `json:"endedReason,omitempty"`
	Summary      string      `json:"summary,omitempty"`
	Transcript   string      `json:"transcript,omitempty"`
	RecordingURL string      `json:"recordingUrl,omitempty"`
	Artifact     *Artifact   `json:"artifact,omitempty"`
	Analysis     *Analysis   `json:"analysis,omitempty"`
	ToolCallList []ToolCall  `json:"toolCallList,omitempty" validate:"omitempty,dive"`
}

type Call struct {
	ID       string    `json:"id" validate:"required"`
	Customer *Customer `json:"customer,omitempty"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

type Customer struct {
	Number string `json:"number"`
}

type Artifact struct {
	Transcript   string `json:"transcript,omitempty"`
	RecordingURL string `json:"recordingUrl,omitempty"`
}

type Analysis struct {
	Summary        string         `json:"summary,omitempty"`
	StructuredData map[string]any `json:"structuredData,omitempty"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type,omitempty"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name string `json:"name"`
	// Arguments arrive either as an object or as a JSON encoded string.
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// DecodeArguments returns the arguments as a map. Malformed arguments
// decode to an empty map so the tool can ask for what it is missing.
func (f FunctionCall) DecodeArguments() map[string]any {
	raw := bytes.TrimSpace(f.Arguments)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return map[string]any{}
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return map[string]any{}
		}
		raw = []byte(strings.TrimSpace(encoded))
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

// CustomerNumber prefers the message customer over the call customer.
func (m Message) CustomerNumber() string {
	if m.Customer != nil && strings.TrimSpace(m.Customer.Number) != "" {
		return strings.TrimSpace(m.Customer.Number)
	}
	if m.Call.Customer != nil {
		return strings.TrimSpace(m.Call.Customer.Number)
	}
	return ""
}

func (m Message) summary() string {
	if s := strings.TrimSpace(m.Summary); s != "" {
		return s
	}
	if m.Analysis != nil && strings.TrimSpace(m.Analysis.Summary) != "" {
		return strings.TrimSpace(m.Analysis.Summary)
	}
	if m.Call.Analysis != nil {
		return strings.TrimSpace(m.Call.Analysis.Summary)
	}
	return ""
}

func (m Message) transcript() string {
	if t := strings.TrimSpace(m.Transcript); t != "" {
		return t
	}
	if m.Artifact != nil {
		return strings.TrimSpace(m.Artifact.Transcript)
	}
	return ""
}

func (m Message) recordingURL() string {
	if u := strings.TrimSpace(m.RecordingURL); u != "" {
		return u
	}
	if m.Artifact != nil {
		return strings.TrimSpace(m.Artifact.RecordingURL)
	}
	return ""
}

func (m Message) structuredData() map[string]any {
	if m.Analysis != nil && len(m.Analysis.StructuredData) > 0 {
		return m.Analysis.StructuredData
	}
	if m.Call.Analysis != nil {
		return m.Call.Analysis.StructuredData
	}
	return nil
}
