package assistant

import (
	"fmt"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
)

const TransferModeSwapSystemMessage = "swap-system-message-in-history"

// Transfer is one directed edge of the hand-off graph.
type Transfer struct {
	From        contractx.AssistantName
	To          contractx.AssistantName
	Description string
}

const (
	toSearchDescription = "When the caller mentions wanting to find a place to eat, search the map, or look for a location, transfer them immediately.\n\n" +
		`Examples: "I want to find a place to eat", "I'm looking for a restaurant", "Can you help me find a location", "I wanna search the map."`
	toProfileDescription = "When the caller mentions wanting to update their profile, preferences, or settings, transfer them immediately.\n\n" +
		`Examples: "I want to update my profile", "Can you help me change my preferences", "I need to adjust my settings", "I wanna change what you know about me."`
	toReviewDescription = "When the caller mentions wanting to review a place, share feedback, or talk about their experience somewhere, transfer them immediately.\n\n" +
		`Examples: "I want to review a place", "Can I leave some feedback", "I want to tell you about my dinner last night", "What do people say about this place?"`
)

// DefaultTransfers is the Wanda hand-off graph. Nothing returns to Intro.
func DefaultTransfers() []Transfer {
	return []Transfer{
		{From: contractx.AssistantIntro, To: contractx.AssistantSearch, Description: toSearchDescription},
		{From: contractx.AssistantIntro, To: contractx.AssistantProfile, Description: toProfileDescription},
		{From: contractx.AssistantIntro, To: contractx.AssistantReview, Description: toReviewDescription},
		{From: contractx.AssistantSearch, To: contractx.AssistantProfile, Description: toProfileDescription},
		{From: contractx.AssistantSearch, To: contractx.AssistantReview, Description: toReviewDescription},
		{From: contractx.AssistantProfile, To: contractx.AssistantSearch, Description: toSearchDescription},
		{From: contractx.AssistantReview, To: contractx.AssistantSearch, Description: toSearchDescription},
	}
}

func validateTransfers(specs map[contractx.AssistantName]Spec, transfers []Transfer) error {
	seen := make(map[[2]contractx.AssistantName]struct{}, len(transfers))
	for _, t := range transfers {
		if _, ok := specs[t.From]; !ok {
			return fmt.Errorf("transfer from %q: %w", t.From, ErrUnknownAssistant)
		}
		if _, ok := specs[t.To]; !ok {
			return fmt.Errorf("transfer %s -> %q: %w", t.From, t.To, ErrUnknownAssistant)
		}
		if t.From == t.To {
			return fmt.Errorf("transfer %s -> %s: self transfer", t.From, t.To)
		}
		if t.To == contractx.AssistantIntro {
			return fmt.Errorf("transfer %s -> %s: intro is entry only", t.From, t.To)
		}
		if t.Description == "" {
			return fmt.Errorf("transfer %s -> %s: description is empty", t.From, t.To)
		}
		key := [2]contractx.AssistantName{t.From, t.To}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate transfer %s -> %s", t.From, t.To)
		}
		seen[key] = struct{}{}
	}
	return nil
}
