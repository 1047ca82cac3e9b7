package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	"github.com/tanpawarit/wanda-voice-concierge/agent/llm"
	toolx "github.com/tanpawarit/wanda-voice-concierge/agent/tool"
)

const (
	EventsPath = "/events"

	// AssistantQueryParam tags tool server URLs with the calling assistant.
	AssistantQueryParam = "assistant"

	endCallMessage = "Have a great day! Wanda, out."
)

// ServerMessages are the webhook events every member reports.
var ServerMessages = []string{"tool-calls", "status-update", "end-of-call-report", "hang"}

// Config carries the optional pre-registered assistant ids. A member with
// an id is sent as overrides on that assistant; without one it is sent as a
// transient assistant.
type Config struct {
	IntroID   string `envconfig:"INTRO_ID" split_words:"true"`
	SearchID  string `envconfig:"SEARCH_ID" split_words:"true"`
	ProfileID string `envconfig:"PROFILE_ID" split_words:"true"`
	ReviewID  string `envconfig:"REVIEW_ID" split_words:"true"`
}

func (c Config) idFor(name contractx.AssistantName) string {
	switch name {
	case contractx.AssistantIntro:
		return strings.TrimSpace(c.IntroID)
	case contractx.AssistantSearch:
		return strings.TrimSpace(c.SearchID)
	case contractx.AssistantProfile:
		return strings.TrimSpace(c.ProfileID)
	case contractx.AssistantReview:
		return strings.TrimSpace(c.ReviewID)
	default:
		return ""
	}
}

type Squad struct {
	Members          []Member          `json:"members"`
	MembersOverrides *MembersOverrides `json:"membersOverrides,omitempty"`
}

type Member struct {
	AssistantID        string           `json:"assistantId,omitempty"`
	Assistant          *AssistantConfig `json:"assistant,omitempty"`
	AssistantOverrides *AssistantConfig `json:"assistantOverrides,omitempty"`
}

// Config returns whichever of Assistant or AssistantOverrides is set.
func (m Member) Config() *AssistantConfig {
	if m.AssistantOverrides != nil {
		return m.AssistantOverrides
	}
	return m.Assistant
}

type AssistantConfig struct {
	Name             string            `json:"name,omitempty"`
	FirstMessage     string            `json:"firstMessage,omitempty"`
	FirstMessageMode string            `json:"firstMessageMode,omitempty"`
	Model            *Model            `json:"model,omitempty"`
	VariableValues   map[string]string `json:"variableValues,omitempty"`
}

type Model struct {
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages,omitempty"`
	Tools       []Tool    `json:"tools,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Tool struct {
	Type         string        `json:"type"`
	Async        *bool         `json:"async,omitempty"`
	Server       *Server       `json:"server,omitempty"`
	Messages     []ToolMessage `json:"messages,omitempty"`
	Function     *Function     `json:"function,omitempty"`
	Destinations []Destination `json:"destinations,omitempty"`
}

type Server struct {
	URL string `json:"url"`
}

type ToolMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type Function struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Parameters  toolx.FunctionParameters `json:"parameters"`
}

type Destination struct {
	Type          string `json:"type"`
	AssistantName string `json:"assistantName"`
	Message       string `json:"message"`
	Description   string `json:"description"`
	TransferMode  string `json:"transferMode"`
}

type MembersOverrides struct {
	Transcriber    Transcriber   `json:"transcriber"`
	Voice          Voice         `json:"voice"`
	ServerMessages []string      `json:"serverMessages"`
	Server         *Server       `json:"server,omitempty"`
	AnalysisPlan   *AnalysisPlan `json:"analysisPlan,omitempty"`
}

type Transcriber struct {
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	Language    string `json:"language"`
	SmartFormat bool   `json:"smartFormat"`
	Endpointing int    `json:"endpointing"`
}

type Voice struct {
	Provider                 string  `json:"provider"`
	VoiceID                  string  `json:"voiceId"`
	Model                    string  `json:"model"`
	Stability                float64 `json:"stability"`
	Speed                    float64 `json:"speed"`
	UseSpeakerBoost          bool    `json:"useSpeakerBoost"`
	Style                    float64 `json:"style"`
	OptimizeStreamingLatency int     `json:"optimizeStreamingLatency"`
}

type AnalysisPlan struct {
	StructuredDataPlan StructuredDataPlan `json:"structuredDataPlan"`
}

type StructuredDataPlan struct {
	Enabled bool             `json:"enabled"`
	Schema  StructuredSchema `json:"schema"`
}

type StructuredSchema struct {
	Type       string                         `json:"type"`
	Properties map[string]*toolx.JSONProperty `json:"properties"`
}

// PreferenceKeys are the structured-data fields the end-of-call analysis
// extracts, one per preference category.
var PreferenceKeys = []string{
	"food_preferences",
	"activity_preferences",
	"shopping_preferences",
	"entertainment_preferences",
}

func defaultMembersOverrides(serverURL string) *MembersOverrides {
	props := make(map[string]*toolx.JSONProperty, len(PreferenceKeys))
	for _, k := range PreferenceKeys {
		category := strings.TrimSuffix(k, "_preferences")
		props[k] = &toolx.JSONProperty{
			Type:        "array",
			Description: fmt.Sprintf("New %s preferences the caller mentioned during the call.", category),
			Items:       &toolx.JSONProperty{Type: "string"},
		}
	}

	return &MembersOverrides{
		Transcriber: Transcriber{
			Provider:    "deepgram",
			Model:       "nova-3-general",
			Language:    "en",
			SmartFormat: true,
			Endpointing: 120,
		},
		Voice: Voice{
			Provider:                 "11labs",
			VoiceID:                  "cgSgspJ2msm6clMCkdW9",
			Model:                    "eleven_turbo_v2_5",
			Stability:                0.5,
			Speed:                    0.96,
			UseSpeakerBoost:          true,
			Style:                    0,
			OptimizeStreamingLatency: 4,
		},
		ServerMessages: append([]string(nil), ServerMessages...),
		Server:         &Server{URL: serverURL},
		AnalysisPlan: &AnalysisPlan{
			StructuredDataPlan: StructuredDataPlan{
				Enabled: true,
				Schema:  StructuredSchema{Type: "object", Properties: props},
			},
		},
	}
}

type AssembleRequest struct {
	// Provider and Model override the configured defaults when set.
	Provider  string
	Model     string
	Variables map[string]string
	// ServerURL is the public base URL of this service.
	ServerURL string
}

type Assembler struct {
	catalog *Catalog
	models  llm.Config
	ids     Config
}

func NewAssembler(catalog *Catalog, models llm.Config, ids Config) (*Assembler, error) {
	if catalog == nil {
		return nil, errors.New("assistant catalog is required")
	}
	if err := models.Validate(); err != nil {
		return nil, err
	}
	return &Assembler{catalog: catalog, models: models, ids: ids}, nil
}

// Assemble builds the squad for one inbound call. Every member receives the
// same variables.
func (a *Assembler) Assemble(ctx context.Context, req AssembleRequest) (Squad, error) {
	if err := ctx.Err(); err != nil {
		return Squad{}, err
	}
	base := strings.TrimRight(strings.TrimSpace(req.ServerURL), "/")
	if base == "" {
		return Squad{}, fmt.Errorf("%w: server url is required", contractx.ErrValidation)
	}
	eventsURL := base + EventsPath

	models := a.models
	if v := strings.TrimSpace(req.Provider); v != "" {
		models.Provider = v
	}
	if v := strings.TrimSpace(req.Model); v != "" {
		models.Model = v
	}

	squad := Squad{MembersOverrides: defaultMembersOverrides(eventsURL)}
	for _, spec := range a.catalog.Members() {
		cfg, err := a.memberConfig(spec, models, req.Variables, eventsURL)
		if err != nil {
			return Squad{}, err
		}
		m := Member{}
		if id := a.ids.idFor(spec.Name); id != "" {
			m.AssistantID = id
			m.AssistantOverrides = cfg
		} else {
			m.Assistant = cfg
		}
		squad.Members = append(squad.Members, m)
	}
	return squad, nil
}

func (a *Assembler) memberConfig(
	spec Spec,
	models llm.Config,
	vars map[string]string,
	eventsURL string,
) (*AssistantConfig, error) {
	settings := models.ModelFor(spec.Name, spec.Temperature)

	tools, err := a.toolsFor(spec, toolServerURL(eventsURL, spec.Name))
	if err != nil {
		return nil, err
	}

	return &AssistantConfig{
		Name:             spec.Name.ProviderName(),
		FirstMessage:     spec.FirstMessage,
		FirstMessageMode: spec.FirstMessageMode,
		Model: &Model{
			Provider:    settings.Provider,
			Model:       settings.Model,
			Temperature: settings.Temperature,
			Messages:    []Message{{Role: "system", Content: spec.Prompt}},
			Tools:       tools,
		},
		VariableValues: copyVars(vars),
	}, nil
}

func (a *Assembler) toolsFor(spec Spec, serverURL string) ([]Tool, error) {
	var tools []Tool
	for _, n := range spec.Tools {
		def, err := toolx.DefinitionFor(n)
		if err != nil {
			return nil, err
		}
		async := false
		tools = append(tools, Tool{
			Type:   "function",
			Async:  &async,
			Server: &Server{URL: serverURL},
			Messages: []ToolMessage{
				{Type: "request-start", Content: def.RequestStart},
				{Type: "request-failed", Content: def.RequestFailed},
			},
			Function: &Function{
				Name:        def.Info.Name,
				Description: def.Info.Desc,
				Parameters:  def.Parameters(),
			},
		})
	}

	if transfers := a.catalog.TransfersFrom(spec.Name); len(transfers) > 0 {
		t := Tool{Type: "transferCall"}
		for _, tr := range transfers {
			t.Destinations = append(t.Destinations, Destination{
				Type:          "assistant",
				AssistantName: tr.To.ProviderName(),
				Message:       "",
				Description:   tr.Description,
				TransferMode:  TransferModeSwapSystemMessage,
			})
		}
		tools = append(tools, t)
	}

	if spec.EndCall {
		tools = append(tools, Tool{
			Type:     "endCall",
			Messages: []ToolMessage{{Type: "request-start", Content: endCallMessage}},
		})
	}
	return tools, nil
}

func toolServerURL(eventsURL string, name contractx.AssistantName) string {
	q := url.Values{}
	q.Set(AssistantQueryParam, name.ProviderName())
	return eventsURL + "?" + q.Encode()
}

func copyVars(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
