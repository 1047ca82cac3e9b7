package api

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tanpawarit/wanda-voice-concierge/agent/assistant"
	"github.com/tanpawarit/wanda-voice-concierge/agent/events"
	profilex "github.com/tanpawarit/wanda-voice-concierge/agent/profile"
	statex "github.com/tanpawarit/wanda-voice-concierge/agent/state"
	logx "github.com/tanpawarit/wanda-voice-concierge/pkg/logger"
	"github.com/tanpawarit/wanda-voice-concierge/pkg/metrics"
	vapix "github.com/tanpawarit/wanda-voice-concierge/pkg/vapi"
)

type inboundCall struct {
	CallID string `validate:"required"`
	Number string `validate:"required"`
}

func (s *Server) handleInboundCall(c *fiber.Ctx) error {
	mode := string(s.cfg.Mode)

	var env events.Envelope
	if err := c.BodyParser(&env); err != nil {
		metrics.ObserveInboundCall(mode, false)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": invalidMessageFormat,
		})
	}
	in := inboundCall{
		CallID: strings.TrimSpace(env.Message.Call.ID),
		Number: env.Message.CustomerNumber(),
	}
	if err := s.validate.Struct(in); err != nil {
		metrics.ObserveInboundCall(mode, false)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "call id and customer number are required",
		})
	}

	ctx := logx.WithCall(c.UserContext(), in.CallID)
	logger := logx.ForCall(ctx, in.CallID)

	profile, created, err := s.deps.Profiles.GetOrCreate(ctx, in.Number)
	if err != nil {
		metrics.ObserveStoreError("profile", "inbound")
		logger.Error().Err(err).Msg("load caller profile")
		profile = nil
	} else if created {
		logger.Info().Str("caller", profilex.KeyFromNumber(in.Number)).Msg("new caller")
	}

	ringing := statex.StatusRinging
	if _, err := s.deps.Sessions.Upsert(ctx, in.CallID, statex.Patch{
		CallerPhoneNumber: &in.Number,
		Status:            &ringing,
	}); err != nil {
		metrics.ObserveStoreError("session", "inbound")
		logger.Error().Err(err).Msg("create call session")
	}

	base := s.serverURL(c)
	squad, err := s.deps.Assembler.Assemble(ctx, assistant.AssembleRequest{
		Variables: assistant.VariablesFor(profile),
		ServerURL: base,
	})
	if err != nil {
		metrics.ObserveInboundCall(mode, false)
		logger.Error().Err(err).Msg("assemble squad")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to assemble assistants")
	}

	if s.cfg.Mode == ModeSIPBridge {
		return s.bridgeCall(ctx, c, in, squad, base+assistant.EventsPath)
	}

	metrics.ObserveInboundCall(mode, true)
	return c.JSON(fiber.Map{"squad": squad})
}

func (s *Server) bridgeCall(ctx context.Context, c *fiber.Ctx, in inboundCall, squad assistant.Squad, eventsURL string) error {
	mode := string(s.cfg.Mode)
	logger := logx.ForCall(ctx, in.CallID)

	if s.deps.Calls == nil {
		metrics.ObserveInboundCall(mode, false)
		logger.Error().Msg("sip bridge without provider api key")
		return fiber.NewError(fiber.StatusInternalServerError, vapix.ErrMissingAPIKey.Error())
	}

	call, err := s.deps.Calls.CreateCall(ctx, vapix.CreateCallRequest{
		PhoneCallProviderBypassEnabled: true,
		Customer:                       vapix.Customer{Number: in.Number},
		Squad:                          squad,
		AssistantOverrides: &vapix.AssistantOverrides{
			Server: &vapix.ServerOverride{URL: eventsURL},
		},
	})
	if errors.Is(err, vapix.ErrMissingAPIKey) {
		metrics.ObserveInboundCall(mode, false)
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if err != nil {
		metrics.ObserveInboundCall(mode, false)
		logger.Error().Err(err).Msg("create provider call")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create Vapi call")
	}

	twiml, err := call.TwiML()
	if err != nil {
		metrics.ObserveInboundCall(mode, false)
		logger.Error().Err(err).Str("provider_call_id", call.ID).Msg("relay provider twiml")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create Vapi call")
	}

	metrics.ObserveInboundCall(mode, true)
	c.Set(fiber.HeaderContentType, "text/xml")
	return c.SendString(twiml)
}
