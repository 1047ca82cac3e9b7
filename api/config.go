package api

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type Mode string

const (
	// ModeSquad answers the assistant-request webhook with the squad.
	ModeSquad Mode = "squad"
	// ModeSIPBridge registers the call with the provider and relays its TwiML.
	ModeSIPBridge Mode = "sip-bridge"
)

type Config struct {
	Port      int    `envconfig:"PORT" default:"3000"`
	PublicURL string `envconfig:"PUBLIC_URL" split_words:"true"`
	// Local switches the squad's server URL to PublicURL, normally a tunnel.
	Local bool `envconfig:"LOCAL" default:"false"`
	Mode  Mode `envconfig:"MODE" default:"squad"`
}

func (c *Config) Validate() error {
	switch c.Mode {
	case "":
		c.Mode = ModeSquad
	case ModeSquad, ModeSIPBridge:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	c.PublicURL = strings.TrimRight(strings.TrimSpace(c.PublicURL), "/")
	if c.PublicURL != "" {
		u, err := url.ParseRequestURI(c.PublicURL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("invalid public url %q", c.PublicURL)
		}
	}
	if c.Local && c.PublicURL == "" {
		return errors.New("public url is required when running locally")
	}
	return nil
}
