package llm

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
)

// Config selects the model the call provider runs for each assistant.
// Per-assistant overrides fall back to Model; temperatures of -1 keep the
// catalog default.
type Config struct {
	Provider string `envconfig:"PROVIDER" split_words:"true" default:"openai"`
	Model    string `envconfig:"MODEL" split_words:"true" default:"gpt-4o-2024-11-20"`

	IntroModel         string  `envconfig:"INTRO_MODEL" split_words:"true"`
	SearchModel        string  `envconfig:"SEARCH_MODEL" split_words:"true"`
	ProfileModel       string  `envconfig:"PROFILE_MODEL" split_words:"true"`
	ReviewModel        string  `envconfig:"REVIEW_MODEL" split_words:"true"`
	IntroTemperature   float64 `envconfig:"INTRO_TEMPERATURE" split_words:"true" default:"-1"`
	SearchTemperature  float64 `envconfig:"SEARCH_TEMPERATURE" split_words:"true" default:"-1"`
	ProfileTemperature float64 `envconfig:"PROFILE_TEMPERATURE" split_words:"true" default:"-1"`
	ReviewTemperature  float64 `envconfig:"REVIEW_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Provider) == "" {
		return fmt.Errorf("%w: model provider is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	for _, temp := range []float64{c.IntroTemperature, c.SearchTemperature, c.ProfileTemperature, c.ReviewTemperature} {
		if temp > 2 {
			return fmt.Errorf("%w: temperature %v is above 2", contractx.ErrValidation, temp)
		}
	}
	return nil
}

type ModelSettings struct {
	Provider    string
	Model       string
	Temperature float64
}

// ModelFor resolves the settings for one assistant. defaultTemp is the
// catalog temperature used when no override is configured.
func (c Config) ModelFor(name contractx.AssistantName, defaultTemp float64) ModelSettings {
	modelName := strings.TrimSpace(c.Model)
	temp := defaultTemp

	var override string
	var overrideTemp float64
	switch name {
	case contractx.AssistantIntro:
		override, overrideTemp = c.IntroModel, c.IntroTemperature
	case contractx.AssistantSearch:
		override, overrideTemp = c.SearchModel, c.SearchTemperature
	case contractx.AssistantProfile:
		override, overrideTemp = c.ProfileModel, c.ProfileTemperature
	case contractx.AssistantReview:
		override, overrideTemp = c.ReviewModel, c.ReviewTemperature
	default:
		overrideTemp = -1
	}

	if v := strings.TrimSpace(override); v != "" {
		modelName = v
	}
	if overrideTemp >= 0 {
		temp = overrideTemp
	}

	return ModelSettings{
		Provider:    strings.TrimSpace(c.Provider),
		Model:       modelName,
		Temperature: temp,
	}
}
