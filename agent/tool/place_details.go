package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	logx "github.com/tanpawarit/wanda-voice-concierge/pkg/logger"
	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
)

const detailsFailure = "I'm sorry, I ran into a problem while trying to fetch the place details. Please try again in a moment."

type placeDetailsHandler struct {
	deps Deps
}

func (h *placeDetailsHandler) Name() Name { return GetPlaceDetails }

func (h *placeDetailsHandler) Handle(ctx context.Context, call CallContext, args Args) contractx.ToolResult {
	logger := logx.ForCall(ctx, call.CallID)

	ref := placeRefFromArgs(args)
	place, status := resolvePlace(cachedResults(call), ref)
	switch status {
	case ordinalOutOfRange:
		return contractx.Failed("I couldn't find that place number in your recent search results. Could you tell me the name of the place you'd like details about?")
	case nothingToResolve:
		return contractx.Failed("I need the name of the place to look up. Could you tell me which place you'd like details about?")
	}

	placeID := place.PlaceID
	if placeID == "" {
		input := strings.TrimSpace(place.Name + " " + place.Address)
		id, err := h.deps.Places.FindPlaceID(ctx, input)
		switch {
		case errors.Is(err, placesx.ErrNoCandidate), err == nil && id == "":
			return contractx.Failed(fmt.Sprintf("I found %q, but I couldn't get a specific identifier to fetch its full details. Could you try a more specific search or provide the address?", place.Name))
		case err != nil:
			logger.Error().Err(err).Str("input", input).Msg("find place id")
			return contractx.Failed(detailsFailure)
		}
		placeID = id
	}

	details, err := h.deps.Places.Details(ctx, placeID)
	if err != nil {
		logger.Error().Err(err).Str("place_id", placeID).Msg("place details")
		return contractx.Failed(detailsFailure)
	}

	name := strings.TrimSpace(details.Name)
	if name == "" {
		name = place.Name
	}
	if name == "" {
		name = placesx.UnknownPlaceName
	}
	return contractx.Succeeded(formatDetails(name, details))
}

func formatDetails(name string, d *placesx.Details) string {
	var b strings.Builder
	if d.FormattedAddress != "" {
		b.WriteString("\nAddress: " + d.FormattedAddress)
	}
	if d.InternationalPhoneNumber != "" {
		b.WriteString("\nPhone: " + d.InternationalPhoneNumber)
	}
	if d.Rating > 0 {
		fmt.Fprintf(&b, "\nRating: %g/5 stars", d.Rating)
		if d.UserRatingsTotal > 0 {
			fmt.Fprintf(&b, " (%d reviews)", d.UserRatingsTotal)
		}
	}
	if d.BusinessStatus != "" {
		if d.BusinessStatus == "OPERATIONAL" {
			b.WriteString("\nStatus: Currently operational")
		} else {
			b.WriteString("\nStatus: " + strings.ReplaceAll(strings.ToLower(d.BusinessStatus), "_", " "))
		}
	}
	if oh := d.OpeningHours; oh != nil {
		if oh.OpenNow != nil {
			if *oh.OpenNow {
				b.WriteString("\nCurrently: Open")
			} else {
				b.WriteString("\nCurrently: Closed")
			}
		}
		if len(oh.WeekdayText) > 0 {
			b.WriteString("\nHours:")
			for _, line := range oh.WeekdayText {
				b.WriteString("\n  " + line)
			}
		}
	}
	if d.Website != "" {
		b.WriteString("\nWebsite: " + d.Website)
	}

	if b.Len() == 0 {
		return fmt.Sprintf("I found %q, but unfortunately, I couldn't get more specific details like its address or phone number right now.", name)
	}
	return fmt.Sprintf("Here are the details for %s:", name) + b.String()
}
