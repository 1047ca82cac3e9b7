package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tanpawarit/wanda-voice-concierge/agent/assistant"
	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	"github.com/tanpawarit/wanda-voice-concierge/agent/events"
	"github.com/tanpawarit/wanda-voice-concierge/pkg/metrics"
)

const (
	InboundCallPath = "/inbound-call"
	// legacyInboundPath is the route phone numbers were first registered with.
	legacyInboundPath = "/wanda"
	HealthPath        = "/health"
	MetricsPath       = "/metrics"
)

type SquadAssembler interface {
	Assemble(ctx context.Context, req assistant.AssembleRequest) (assistant.Squad, error)
}

type EventHandler interface {
	Handle(ctx context.Context, env events.Envelope, name contractx.AssistantName) (events.Response, error)
}

// AssistantNames resolves the assistant query parameter of tool server URLs.
type AssistantNames interface {
	ParseProviderName(raw string) (contractx.AssistantName, bool)
}

type Deps struct {
	Profiles  contractx.ProfileStore
	Sessions  contractx.SessionStore
	Assembler SquadAssembler
	Names     AssistantNames
	Events    EventHandler
	// Calls is only used in sip-bridge mode; nil means no API key.
	Calls contractx.CallCreator
}

func (d Deps) validate() error {
	switch {
	case d.Profiles == nil:
		return errors.New("profile store is required")
	case d.Sessions == nil:
		return errors.New("session store is required")
	case d.Assembler == nil:
		return errors.New("squad assembler is required")
	case d.Names == nil:
		return errors.New("assistant names are required")
	case d.Events == nil:
		return errors.New("event handler is required")
	}
	return nil
}

type Server struct {
	cfg      Config
	deps     Deps
	app      *fiber.App
	validate *validator.Validate
}

func New(cfg Config, deps Deps) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("api config: %w", err)
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		deps:     deps,
		validate: validator.New(),
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "Wanda voice concierge",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(requestLogger())

	s.app.Get(HealthPath, func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	s.app.Get(MetricsPath, adaptor.HTTPHandler(metrics.Handler()))

	s.app.Post(InboundCallPath, s.handleInboundCall)
	s.app.Post(legacyInboundPath, s.handleInboundCall)
	s.app.Post(assistant.EventsPath, s.handleEvent)
}

// App exposes the fiber app, mostly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	return s.app.Listen(fmt.Sprintf(":%d", s.cfg.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// serverURL is the public base the provider calls back on.
func (s *Server) serverURL(c *fiber.Ctx) string {
	if s.cfg.Local && s.cfg.PublicURL != "" {
		return s.cfg.PublicURL
	}
	return "https://" + c.Hostname()
}
