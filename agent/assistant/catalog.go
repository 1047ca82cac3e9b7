package assistant

import (
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	"github.com/tanpawarit/wanda-voice-concierge/agent/prompt"
	toolx "github.com/tanpawarit/wanda-voice-concierge/agent/tool"
)

const (
	FirstMessageModeGenerated = "assistant-speaks-first-with-model-generated-message"

	introFirstMessage = "Hello, this is Wanda. How can I help you today?"
)

var ErrUnknownAssistant = errors.New("unknown assistant")

// Spec is the static description of one squad member.
type Spec struct {
	Name             contractx.AssistantName
	Prompt           string
	FirstMessage     string
	FirstMessageMode string
	Temperature      float64
	Tools            []toolx.Name
	EndCall          bool
}

// Catalog holds the squad members and the transfers allowed between them.
type Catalog struct {
	order     []contractx.AssistantName
	specs     map[contractx.AssistantName]Spec
	transfers map[contractx.AssistantName][]Transfer
}

// NewCatalog validates specs and transfers. Members keep the order of specs.
func NewCatalog(specs []Spec, transfers []Transfer) (*Catalog, error) {
	c := &Catalog{
		specs:     make(map[contractx.AssistantName]Spec, len(specs)),
		transfers: make(map[contractx.AssistantName][]Transfer),
	}
	for _, s := range specs {
		if s.Name == "" {
			return nil, errors.New("assistant name is empty")
		}
		if _, dup := c.specs[s.Name]; dup {
			return nil, fmt.Errorf("duplicate assistant %q", s.Name)
		}
		for _, n := range s.Tools {
			if _, err := toolx.DefinitionFor(n); err != nil {
				return nil, fmt.Errorf("assistant %s: %w", s.Name, err)
			}
		}
		c.specs[s.Name] = s
		c.order = append(c.order, s.Name)
	}

	if err := validateTransfers(c.specs, transfers); err != nil {
		return nil, err
	}
	for _, t := range transfers {
		c.transfers[t.From] = append(c.transfers[t.From], t)
	}
	return c, nil
}

// DefaultCatalog is the Wanda squad: Intro routes the caller, the other
// three do the work.
func DefaultCatalog() (*Catalog, error) {
	prompts := prompt.LoadPromptSet()
	specs := []Spec{
		{
			Name:         contractx.AssistantIntro,
			Prompt:       prompts.Intro,
			FirstMessage: introFirstMessage,
			Temperature:  0,
		},
		{
			Name:             contractx.AssistantSearch,
			Prompt:           prompts.Search,
			FirstMessageMode: FirstMessageModeGenerated,
			Temperature:      0.1,
			Tools:            []toolx.Name{toolx.SearchMaps, toolx.SendDirections, toolx.GetPlaceDetails},
			EndCall:          true,
		},
		{
			Name:             contractx.AssistantProfile,
			Prompt:           prompts.Profile,
			FirstMessageMode: FirstMessageModeGenerated,
			Temperature:      0.1,
			Tools:            []toolx.Name{toolx.UpdateProfile, toolx.UpdatePreferences, toolx.GetProfile},
			EndCall:          true,
		},
		{
			Name:             contractx.AssistantReview,
			Prompt:           prompts.Review,
			FirstMessageMode: FirstMessageModeGenerated,
			Temperature:      0.1,
			Tools:            []toolx.Name{toolx.SearchMaps, toolx.CreateReview, toolx.SearchReviews},
			EndCall:          true,
		},
	}
	return NewCatalog(specs, DefaultTransfers())
}

// Members returns the assistant specs in squad order.
func (c *Catalog) Members() []Spec {
	out := make([]Spec, 0, len(c.order))
	for _, n := range c.order {
		out = append(out, c.specs[n])
	}
	return out
}

func (c *Catalog) Spec(name contractx.AssistantName) (Spec, error) {
	s, ok := c.specs[name]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownAssistant, name)
	}
	return s, nil
}

// TransfersFrom returns the outgoing transfers of name in declaration order.
func (c *Catalog) TransfersFrom(name contractx.AssistantName) []Transfer {
	return c.transfers[name]
}

// ParseProviderName maps "Wanda_Review" (or "Review") back to an assistant.
func (c *Catalog) ParseProviderName(raw string) (contractx.AssistantName, bool) {
	for _, n := range c.order {
		if raw == n.ProviderName() || raw == string(n) {
			return n, true
		}
	}
	return "", false
}
