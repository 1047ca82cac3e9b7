package tool

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	statex "github.com/tanpawarit/wanda-voice-concierge/agent/state"
	logx "github.com/tanpawarit/wanda-voice-concierge/pkg/logger"
	"github.com/tanpawarit/wanda-voice-concierge/pkg/metrics"
	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
)

const smsSignature = "Sent by Wanda"

type sendDirectionsHandler struct {
	deps Deps
}

func (h *sendDirectionsHandler) Name() Name { return SendDirections }

func (h *sendDirectionsHandler) Handle(ctx context.Context, call CallContext, args Args) contractx.ToolResult {
	logger := logx.ForCall(ctx, call.CallID)

	ref := placeRefFromArgs(args)
	place, status := resolvePlace(cachedResults(call), ref)
	switch status {
	case ordinalOutOfRange:
		return contractx.Failed("I couldn't find that place number in your recent search results. Could you tell me the name of the place you'd like directions to?")
	case nothingToResolve:
		return contractx.Failed("I need the name of the place to send you directions. Could you tell me which place you'd like directions to?")
	case nameNotCached:
		if place.Address == "" {
			return contractx.Failed(fmt.Sprintf("I couldn't find %q in your recent search results. Could you tell me its address, or which number it was in the list?", place.Name))
		}
	}

	if place.Address == "" && place.PlaceID != "" {
		if details, err := h.deps.Places.Details(ctx, place.PlaceID); err == nil {
			if place.Name == "" {
				place.Name = details.Name
			}
			place.Address = details.FormattedAddress
		} else {
			logger.Warn().Err(err).Str("place_id", place.PlaceID).Msg("directions without place details")
		}
	}
	if place.Name == "" && place.Address == "" {
		return contractx.Failed("I need the name of the place to send you directions. Could you tell me which place you'd like directions to?")
	}

	if call.CallerNumber == "" {
		return contractx.Failed("I don't have a phone number to text the directions to.")
	}

	name := place.Name
	if name == "" {
		name = place.Address
	}

	messageID, err := h.deps.SMS.Send(ctx, call.CallerNumber, directionsBody(name, place))
	metrics.ObserveSMS(err == nil)
	if err != nil {
		logger.Error().Err(err).Str("place", name).Msg("send directions sms")
		return contractx.Failed("I'm sorry, I couldn't send the directions right now. Please try again later.")
	}

	_, err = h.deps.Sessions.Upsert(ctx, call.CallID, statex.Patch{
		Directions: &statex.Directions{
			PlaceName:    name,
			PlaceAddress: place.Address,
			MessageID:    messageID,
			SentAt:       h.deps.now(),
		},
	})
	if err != nil {
		logger.Warn().Err(err).Msg("stamp directions on call session")
	}

	return contractx.Succeeded(fmt.Sprintf("Perfect! I've sent the directions to %s to your phone via text message.", name))
}

func directionsBody(name string, place placesx.Place) string {
	where := place.Address
	if where == "" {
		where = placesx.MapsLink(place.Name, place.Address)
	}
	return fmt.Sprintf("Here are the directions to %s:\n\n%s\n\n%s", name, where, smsSignature)
}
