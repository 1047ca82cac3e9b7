package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/wanda-voice-concierge/agent/assistant"
	"github.com/tanpawarit/wanda-voice-concierge/agent/dispatch"
	"github.com/tanpawarit/wanda-voice-concierge/agent/events"
	"github.com/tanpawarit/wanda-voice-concierge/agent/llm"
	profilex "github.com/tanpawarit/wanda-voice-concierge/agent/profile"
	reviewx "github.com/tanpawarit/wanda-voice-concierge/agent/review"
	searchx "github.com/tanpawarit/wanda-voice-concierge/agent/search"
	statex "github.com/tanpawarit/wanda-voice-concierge/agent/state"
	toolx "github.com/tanpawarit/wanda-voice-concierge/agent/tool"
	"github.com/tanpawarit/wanda-voice-concierge/api"
	configx "github.com/tanpawarit/wanda-voice-concierge/pkg/config"
	logx "github.com/tanpawarit/wanda-voice-concierge/pkg/logger"
	openrouterx "github.com/tanpawarit/wanda-voice-concierge/pkg/openrouter"
	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
	smsx "github.com/tanpawarit/wanda-voice-concierge/pkg/sms"
	vapix "github.com/tanpawarit/wanda-voice-concierge/pkg/vapi"
)

func main() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[api.Config]("APP")
	storeCfg := configx.MustNew[StoreConfig]("STORE")

	st, err := openStores(ctx, *storeCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open stores")
	}
	defer st.Close()

	profiles, err := profilex.NewService(st.profiles)
	if err != nil {
		log.Fatal().Err(err).Msg("profile service")
	}
	reviews, err := reviewx.NewService(st.reviews)
	if err != nil {
		log.Fatal().Err(err).Msg("review service")
	}
	sessions, err := statex.NewSessions(st.sessions)
	if err != nil {
		log.Fatal().Err(err).Msg("session service")
	}

	places := placesx.MustNew(*configx.MustNew[placesx.Config]("GOOGLE_MAPS"))
	search, err := searchx.NewService(places)
	if err != nil {
		log.Fatal().Err(err).Msg("search service")
	}
	sms := smsx.MustNew(*configx.MustNew[smsx.Config]("TWILIO"))

	router, err := toolx.NewDefaultRouter(toolx.Deps{
		Sessions: sessions,
		Profiles: profiles,
		Reviews:  reviews,
		Search:   search,
		Places:   places,
		SMS:      sms,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("tool router")
	}
	dispatcher, err := dispatch.New(sessions, router)
	if err != nil {
		log.Fatal().Err(err).Msg("tool dispatcher")
	}

	var eventOpts []events.Option
	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	if summarizer := llm.NewSummarizer(*openRouterCfg); summarizer != nil {
		eventOpts = append(eventOpts, events.WithSummarizer(summarizer))
	} else {
		log.Info().Msg("OPENROUTER_API_KEY not set, missing call summaries stay empty")
	}
	eventRouter, err := events.NewRouter(dispatcher, sessions, profiles, eventOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("event router")
	}

	catalog, err := assistant.DefaultCatalog()
	if err != nil {
		log.Fatal().Err(err).Msg("assistant catalog")
	}
	assembler, err := assistant.NewAssembler(
		catalog,
		*configx.MustNew[llm.Config]("ASSISTANT"),
		*configx.MustNew[assistant.Config]("ASSISTANT"),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("squad assembler")
	}

	deps := api.Deps{
		Profiles:  profiles,
		Sessions:  sessions,
		Assembler: assembler,
		Names:     catalog,
		Events:    eventRouter,
	}
	if vapiCfg := configx.MustNew[vapix.Config]("VAPI"); vapiCfg.Configured() {
		deps.Calls = vapix.MustNew(*vapiCfg)
	}

	server, err := api.New(*appCfg, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("http server")
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown http server")
		}
	}()

	log.Info().
		Int("port", appCfg.Port).
		Str("mode", string(appCfg.Mode)).
		Str("store", storeCfg.Backend).
		Str("sessions", storeCfg.Sessions).
		Msg("wanda listening")
	if appCfg.Local {
		log.Info().Str("url", appCfg.PublicURL+api.InboundCallPath).Msg("inbound call url")
	}
	if err := server.Listen(); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
