package assistant

import (
	"strconv"
	"strings"

	profilex "github.com/tanpawarit/wanda-voice-concierge/agent/profile"
)

const (
	VarCallerName                     = "callerName"
	VarCallerAge                      = "callerAge"
	VarCallerCity                     = "callerCity"
	VarCallerFoodPreferences          = "callerFoodPreferences"
	VarCallerActivityPreferences      = "callerActivityPreferences"
	VarCallerShoppingPreferences      = "callerShoppingPreferences"
	VarCallerEntertainmentPreferences = "callerEntertainmentPreferences"
	VarNewCaller                      = "newCaller"
)

// VariablesFor renders the caller profile into the prompt variables shared
// by every squad member. A nil profile is a first-time caller.
func VariablesFor(p *profilex.CallerProfile) map[string]string {
	vars := map[string]string{
		VarCallerName:                     "",
		VarCallerAge:                      "",
		VarCallerCity:                     "",
		VarCallerFoodPreferences:          "",
		VarCallerActivityPreferences:      "",
		VarCallerShoppingPreferences:      "",
		VarCallerEntertainmentPreferences: "",
		VarNewCaller:                      "true",
	}
	if p == nil {
		return vars
	}

	vars[VarCallerName] = p.Name
	if p.Age > 0 {
		vars[VarCallerAge] = strconv.Itoa(p.Age)
	}
	vars[VarCallerCity] = p.City
	vars[VarCallerFoodPreferences] = joinLower(p.FoodPreferences)
	vars[VarCallerActivityPreferences] = joinLower(p.ActivitiesPreferences)
	vars[VarCallerShoppingPreferences] = joinLower(p.ShoppingPreferences)
	vars[VarCallerEntertainmentPreferences] = joinLower(p.EntertainmentPreferences)
	vars[VarNewCaller] = strconv.FormatBool(p.CompletedCalls == 0)
	return vars
}

func joinLower(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, ", ")
}
