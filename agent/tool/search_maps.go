package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	searchx "github.com/tanpawarit/wanda-voice-concierge/agent/search"
	logx "github.com/tanpawarit/wanda-voice-concierge/pkg/logger"
	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
)

type searchMapsHandler struct {
	deps Deps
}

func (h *searchMapsHandler) Name() Name { return SearchMaps }

func (h *searchMapsHandler) Handle(ctx context.Context, call CallContext, args Args) contractx.ToolResult {
	logger := logx.ForCall(ctx, call.CallID)

	query := args.String("query")
	if query == "" {
		return contractx.Failed("What kind of place should I search for?")
	}

	reviewMode := call.Assistant == contractx.AssistantReview
	req := searchx.Request{
		Query:         query,
		Location:      args.String("location"),
		MaxResults:    searchx.ConversationalResults,
		IncludeDetail: !reviewMode,
	}
	if reviewMode {
		req.MaxResults = searchx.ReviewResults
	}
	if radius, ok := args.Float("radius"); ok {
		req.Radius = radius
	}

	profile, err := h.deps.callerProfile(ctx, call.CallerNumber)
	if err != nil {
		logger.Warn().Err(err).Msg("search without caller profile")
	}
	req.Profile = profile

	res, err := h.deps.Search.Search(ctx, req)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("place search failed")
		return contractx.Failed("I'm sorry, I had trouble searching for places right now. Would you like to try a different search?")
	}

	if err := h.deps.Sessions.RecordSearchResults(ctx, call.CallID, res.Places); err != nil {
		logger.Warn().Err(err).Msg("cache search results")
	}

	if len(res.Places) == 0 {
		return contractx.Succeeded("I found no places matching your search criteria.")
	}
	if reviewMode {
		return contractx.Succeeded(formatReviewSearch(res))
	}
	return contractx.Succeeded(formatConversationalSearch(res.Places))
}

func formatReviewSearch(res searchx.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d places:\n", len(res.Places))
	for i, p := range res.Places {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. %s", i+1, placeName(p))
		if p.Address != "" {
			b.WriteString(" - " + p.Address)
		}
	}
	if res.UsedProfileCity {
		b.WriteString("\n\n(Search used saved city from caller profile)")
	}
	if res.UsedFoodPreferenceBoost {
		b.WriteString("\n\n(Search enhanced with caller's food preferences)")
	}
	return b.String()
}

func formatConversationalSearch(found []placesx.Place) string {
	var b strings.Builder
	if len(found) == 1 {
		b.WriteString("I found 1 place:")
	} else {
		fmt.Fprintf(&b, "I found %d places:", len(found))
	}
	for i, p := range found {
		fmt.Fprintf(&b, "\n%d. %s", i+1, placeName(p))
		if p.Address != "" {
			b.WriteString(", at " + p.Address)
		}
		if s := strings.TrimSpace(p.EditorialSummary); s != "" {
			b.WriteString(". " + strings.TrimSuffix(s, "."))
		}
		b.WriteString(".")
	}
	return b.String()
}

func placeName(p placesx.Place) string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return placesx.UnknownPlaceName
}
