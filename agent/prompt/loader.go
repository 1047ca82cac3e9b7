package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/intro.txt
	introRaw string

	//go:embed template/search.txt
	searchRaw string

	//go:embed template/profile.txt
	profileRaw string

	//go:embed template/review.txt
	reviewRaw string

	//go:embed template/caller.txt
	callerRaw string

	//go:embed template/summary.txt
	summaryRaw string
)

// PromptSet holds the assistant system prompts. Each assistant prompt ends
// with the shared caller block carrying the {{variable}} placeholders the
// call provider fills from variableValues.
type PromptSet struct {
	Intro   string
	Search  string
	Profile string
	Review  string
	Summary string
}

// LoadPromptSet returns the trimmed, embedded prompts.
func LoadPromptSet() PromptSet {
	caller := strings.TrimSpace(callerRaw)
	withCaller := func(raw string) string {
		return strings.TrimSpace(raw) + "\n\n" + caller
	}
	return PromptSet{
		Intro:   withCaller(introRaw),
		Search:  withCaller(searchRaw),
		Profile: withCaller(profileRaw),
		Review:  withCaller(reviewRaw),
		Summary: strings.TrimSpace(summaryRaw),
	}
}
