package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tanpawarit/wanda-voice-concierge/agent/assistant"
	"github.com/tanpawarit/wanda-voice-concierge/agent/events"
	logx "github.com/tanpawarit/wanda-voice-concierge/pkg/logger"
)

const invalidMessageFormat = "Invalid message format"

func (s *Server) handleEvent(c *fiber.Ctx) error {
	var env events.Envelope
	if err := c.BodyParser(&env); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": invalidMessageFormat,
		})
	}

	// Unknown or missing names leave the default search behavior in place.
	name, _ := s.deps.Names.ParseProviderName(c.Query(assistant.AssistantQueryParam))

	resp, err := s.deps.Events.Handle(c.UserContext(), env, name)
	if errors.Is(err, events.ErrInvalidEnvelope) {
		logx.ForCall(c.UserContext(), env.Message.Call.ID).Warn().Err(err).Msg("reject event")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": invalidMessageFormat,
		})
	}
	if err != nil {
		logx.ForCall(c.UserContext(), env.Message.Call.ID).Error().Err(err).Msg("handle event")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.JSON(resp)
}
