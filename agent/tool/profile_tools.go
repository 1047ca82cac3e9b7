package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	profilex "github.com/tanpawarit/wanda-voice-concierge/agent/profile"
	logx "github.com/tanpawarit/wanda-voice-concierge/pkg/logger"
)

const noCallerNumber = "I couldn't identify your phone number on this call, so I can't access your profile."

var categoryLabels = map[profilex.Category]string{
	profilex.CategoryFood:          "food",
	profilex.CategoryActivities:    "activity",
	profilex.CategoryShopping:      "shopping",
	profilex.CategoryEntertainment: "entertainment",
}

type updateProfileHandler struct {
	deps Deps
}

func (h *updateProfileHandler) Name() Name { return UpdateProfile }

func (h *updateProfileHandler) Handle(ctx context.Context, call CallContext, args Args) contractx.ToolResult {
	if call.CallerNumber == "" {
		return contractx.Failed(noCallerNumber)
	}

	var basics profilex.Basics
	basics.Name = args.StringPtr("name")
	basics.City = args.StringPtr("city")
	if age, ok := args.Int("age"); ok {
		basics.Age = &age
	}

	out, err := h.deps.Profiles.UpsertBasics(ctx, call.CallerNumber, basics, profilex.WithLiveCall())
	if err != nil {
		logx.ForCall(ctx, call.CallID).Error().Err(err).Msg("update caller profile")
		return contractx.Failed("I'm sorry, I couldn't update your profile right now. Please try again later.")
	}

	fields := append(append([]profilex.Field(nil), out.Applied...), out.Unchanged...)
	if len(fields) == 0 {
		return contractx.Succeeded("No valid information provided to update your profile.")
	}

	labels := make([]string, 0, len(fields))
	for _, f := range orderedFields(fields) {
		labels = append(labels, string(f))
	}
	return contractx.Succeeded(fmt.Sprintf(
		"Great! I've updated your profile with your %s. This will help me give you better recommendations in the future!",
		joinWithAnd(labels),
	))
}

func orderedFields(fields []profilex.Field) []profilex.Field {
	out := make([]profilex.Field, 0, len(fields))
	for _, want := range []profilex.Field{profilex.FieldName, profilex.FieldAge, profilex.FieldCity} {
		for _, f := range fields {
			if f == want {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

type updatePreferencesHandler struct {
	deps Deps
}

func (h *updatePreferencesHandler) Name() Name { return UpdatePreferences }

func (h *updatePreferencesHandler) Handle(ctx context.Context, call CallContext, args Args) contractx.ToolResult {
	if call.CallerNumber == "" {
		return contractx.Failed(noCallerNumber)
	}

	category, err := profilex.ParseCategory(args.String("preferenceType"))
	if err != nil {
		return contractx.Failed("I can save food, activity, shopping, or entertainment preferences. Which kind did you mean?")
	}
	action, err := profilex.ParseAction(args.String("action"))
	if err != nil {
		return contractx.Failed("Should I add, remove, or replace those preferences?")
	}
	values := args.Strings("preferences")
	if len(values) == 0 {
		return contractx.Failed("No valid preferences provided.")
	}

	out, err := h.deps.Profiles.MergePreferences(ctx, call.CallerNumber, category, action, values, profilex.WithLiveCall())
	if err != nil {
		logx.ForCall(ctx, call.CallID).Error().Err(err).Str("category", string(category)).Msg("update preferences")
		return contractx.Failed("I'm sorry, I couldn't update your preferences right now. Please try again later.")
	}
	return contractx.Succeeded(preferenceMessage(out))
}

func preferenceMessage(out profilex.MergeOutcome) string {
	label := categoryLabels[out.Category]
	switch out.Action {
	case profilex.ActionAdd:
		if len(out.Added) == 0 {
			return fmt.Sprintf("All of those %s preferences are already saved in your profile.", label)
		}
		return fmt.Sprintf("Great! I've added %s to your %s preferences. This will help me give you better recommendations!", joinWithAnd(out.Added), label)
	case profilex.ActionRemove:
		if len(out.Removed) == 0 {
			return fmt.Sprintf("None of those %s preferences were found in your profile to remove.", label)
		}
		return fmt.Sprintf("Got it! I've removed %s from your %s preferences.", joinWithAnd(out.Removed), label)
	default:
		if len(out.Result) == 0 {
			return "No valid preferences provided."
		}
		return fmt.Sprintf("Done! I've updated your %s preferences to: %s.", label, strings.Join(out.Result, ", "))
	}
}

type getProfileHandler struct {
	deps Deps
}

func (h *getProfileHandler) Name() Name { return GetProfile }

func (h *getProfileHandler) Handle(ctx context.Context, call CallContext, _ Args) contractx.ToolResult {
	if call.CallerNumber == "" {
		return contractx.Failed(noCallerNumber)
	}

	p, err := h.deps.Profiles.Get(ctx, call.CallerNumber)
	if errors.Is(err, profilex.ErrProfileNotFound) {
		return contractx.Succeeded("I don't have any profile information saved for you yet. Would you like to add some information to help me give you better recommendations?")
	}
	if err != nil {
		logx.ForCall(ctx, call.CallID).Error().Err(err).Msg("read caller profile")
		return contractx.Failed("I'm sorry, I couldn't look up your profile right now. Please try again later.")
	}
	if p.IsEmpty() {
		return contractx.Succeeded("I have your phone number saved, but no other profile information yet. Would you like to add your name, city, or food preferences?")
	}
	return contractx.Succeeded(formatProfile(p))
}

func formatProfile(p *profilex.CallerProfile) string {
	var b strings.Builder
	b.WriteString("Here's what I have saved in your profile:")
	if p.Name != "" {
		b.WriteString("\n• Name: " + p.Name)
	}
	if p.Age > 0 {
		fmt.Fprintf(&b, "\n• Age: %d", p.Age)
	}
	if p.City != "" {
		b.WriteString("\n• City: " + p.City)
	}
	for _, c := range profilex.Categories {
		if prefs := p.Preferences(c); len(prefs) > 0 {
			label := categoryLabels[c]
			fmt.Fprintf(&b, "\n• %s%s preferences: %s", strings.ToUpper(label[:1]), label[1:], strings.Join(prefs, ", "))
		}
	}
	b.WriteString("\n\nWould you like to update any of this information?")
	return b.String()
}

// joinWithAnd renders "a", "a and b", or "a, b, and c".
func joinWithAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
