package prompt

import (
	"strings"
	"testing"
)

func TestLoadPromptSetCarriesCallerVariables(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	vars := []string{
		"{{callerName}}",
		"{{callerAge}}",
		"{{callerCity}}",
		"{{callerFoodPreferences}}",
		"{{callerActivityPreferences}}",
		"{{callerShoppingPreferences}}",
		"{{callerEntertainmentPreferences}}",
		"{{newCaller}}",
	}

	for name, p := range map[string]string{
		"intro":   set.Intro,
		"search":  set.Search,
		"profile": set.Profile,
		"review":  set.Review,
	} {
		for _, v := range vars {
			if !strings.Contains(p, v) {
				t.Errorf("%s prompt missing %s", name, v)
			}
		}
	}

	if strings.TrimSpace(set.Summary) == "" {
		t.Fatal("summary prompt is empty")
	}
	if strings.Contains(set.Summary, "{{") {
		t.Fatal("summary prompt should not carry call variables")
	}
}
