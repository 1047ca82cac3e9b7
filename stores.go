package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	profilex "github.com/tanpawarit/wanda-voice-concierge/agent/profile"
	reviewx "github.com/tanpawarit/wanda-voice-concierge/agent/review"
	statex "github.com/tanpawarit/wanda-voice-concierge/agent/state"
	configx "github.com/tanpawarit/wanda-voice-concierge/pkg/config"
	"github.com/tanpawarit/wanda-voice-concierge/pkg/postgres"
	"github.com/uptrace/bun"
)

const (
	backendMemory   = "memory"
	backendPostgres = "postgres"
	backendRedis    = "redis"
	backendUpstash  = "upstash"
)

// StoreConfig picks the persistence of durable records (profiles and
// reviews) and of call sessions independently.
type StoreConfig struct {
	Backend    string        `envconfig:"BACKEND" default:"memory"`
	Sessions   string        `envconfig:"SESSIONS" default:"memory"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" split_words:"true" default:"24h"`
	KeyPrefix  string        `envconfig:"KEY_PREFIX" split_words:"true" default:"wanda:call:"`
}

func (c *StoreConfig) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Sessions = strings.ToLower(strings.TrimSpace(c.Sessions))
	switch c.Backend {
	case backendMemory, backendPostgres:
	default:
		return fmt.Errorf("unknown store backend %q", c.Backend)
	}
	switch c.Sessions {
	case backendMemory, backendPostgres, backendRedis, backendUpstash:
	default:
		return fmt.Errorf("unknown session backend %q", c.Sessions)
	}
	return nil
}

func (c StoreConfig) needsPostgres() bool {
	return c.Backend == backendPostgres || c.Sessions == backendPostgres
}

type stores struct {
	profiles profilex.Repository
	reviews  reviewx.Repository
	sessions statex.Store
	db       *bun.DB
}

func (s *stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func openStores(ctx context.Context, cfg StoreConfig) (*stores, error) {
	out := &stores{}

	if cfg.needsPostgres() {
		pgCfg := configx.MustNew[postgres.Config]("POSTGRES")
		db, err := postgres.Open(ctx, *pgCfg)
		if err != nil {
			return nil, err
		}
		out.db = db
	}

	var schemas []postgres.SchemaCreator
	switch cfg.Backend {
	case backendPostgres:
		profiles, err := profilex.NewPostgresStore(out.db)
		if err != nil {
			return nil, err
		}
		reviews, err := reviewx.NewPostgresStore(out.db)
		if err != nil {
			return nil, err
		}
		out.profiles, out.reviews = profiles, reviews
		schemas = append(schemas, profiles, reviews)
	default:
		out.profiles = profilex.NewMemoryStore()
		out.reviews = reviewx.NewMemoryStore()
	}

	kvOpts := []statex.StoreOption{statex.WithKeyPrefix(cfg.KeyPrefix), statex.WithTTL(cfg.SessionTTL)}
	switch cfg.Sessions {
	case backendPostgres:
		sessions, err := statex.NewPostgresStore(out.db)
		if err != nil {
			return nil, err
		}
		out.sessions = sessions
		schemas = append(schemas, sessions)
	case backendRedis:
		redisCfg := configx.MustNew[statex.RedisConfig]("REDIS")
		sessions, err := statex.NewRedisStore(*redisCfg, kvOpts...)
		if err != nil {
			return nil, err
		}
		out.sessions = sessions
	case backendUpstash:
		upstashCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
		sessions, err := statex.NewUpstashRedisStore(*upstashCfg, kvOpts...)
		if err != nil {
			return nil, err
		}
		out.sessions = sessions
	default:
		out.sessions = statex.NewMemoryStore()
	}

	if err := postgres.CreateSchemas(ctx, schemas...); err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return out, nil
}
