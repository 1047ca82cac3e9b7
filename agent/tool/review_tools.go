package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/wanda-voice-concierge/agent/contract"
	reviewx "github.com/tanpawarit/wanda-voice-concierge/agent/review"
	logx "github.com/tanpawarit/wanda-voice-concierge/pkg/logger"
)

const (
	spokenComments    = 3
	maxCommentRunes   = 100
	reviewSaveFailure = "I'm sorry, I couldn't save your review right now. Please try again later."
)

type createReviewHandler struct {
	deps Deps
}

func (h *createReviewHandler) Name() Name { return CreateReview }

func (h *createReviewHandler) Handle(ctx context.Context, call CallContext, args Args) contractx.ToolResult {
	rating, _ := args.Float("rating")
	draft := reviewx.Draft{
		PlaceID:     args.String("placeId"),
		Comment:     args.String("comment"),
		Rating:      rating,
		PhoneNumber: call.CallerNumber,
		CallID:      call.CallID,
	}

	r, err := h.deps.Reviews.Create(ctx, draft)
	switch {
	case errors.Is(err, reviewx.ErrRatingRange):
		return contractx.Failed("Please provide a rating between 1 and 5 stars.")
	case errors.Is(err, reviewx.ErrRatingFraction):
		return contractx.Failed("Please give a whole-number rating from 1 to 5 stars.")
	case errors.Is(err, reviewx.ErrEmptyComment):
		return contractx.Failed("Please provide a comment for your review.")
	case errors.Is(err, reviewx.ErrMissingPlace):
		return contractx.Failed("I need a valid place ID to save your review.")
	case err != nil:
		logx.ForCall(ctx, call.CallID).Error().Err(err).Str("place_id", draft.PlaceID).Msg("create review")
		return contractx.Failed(reviewSaveFailure)
	}

	return contractx.Succeeded(fmt.Sprintf(
		"Perfect! I've saved your %d-star review. Your feedback helps other people discover great places and helps businesses improve their service. Thank you for sharing your experience!",
		r.Rating,
	))
}

type searchReviewsHandler struct {
	deps Deps
}

func (h *searchReviewsHandler) Name() Name { return SearchReviews }

func (h *searchReviewsHandler) Handle(ctx context.Context, call CallContext, args Args) contractx.ToolResult {
	placeID := args.String("placeId")
	placeName := args.String("placeName")
	if placeID == "" && placeName != "" {
		if p, ok := matchByName(cachedResults(call), placeName); ok {
			placeID = p.PlaceID
		}
	}
	if placeID == "" {
		return contractx.Failed("I need a valid place ID to search for reviews.")
	}

	reviews, err := h.deps.Reviews.ListByPlace(ctx, placeID)
	if err != nil {
		logx.ForCall(ctx, call.CallID).Error().Err(err).Str("place_id", placeID).Msg("list reviews")
		return contractx.Failed("I'm sorry, I couldn't search for reviews right now. Please try again later.")
	}

	subject := placeName
	if subject == "" {
		subject = "this place"
	}
	return contractx.Succeeded(formatReviews(subject, reviewx.Summarize(reviews)))
}

func formatReviews(subject string, sum reviewx.Summary) string {
	if sum.Count == 0 {
		return fmt.Sprintf("I couldn't find any reviews for %s yet. You could be the first to leave a review!", subject)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d %s for %s with an average rating of %g %s.",
		sum.Count, plural(sum.Count, "review", "reviews"),
		subject,
		sum.Average, pluralFloat(sum.Average, "star", "stars"),
	)

	if len(sum.Comments) > 0 {
		b.WriteString("\n\nHere's what people are saying:")
		for _, c := range sum.Comments[:min(spokenComments, len(sum.Comments))] {
			fmt.Fprintf(&b, "\n• \"%s\"", truncateRunes(c, maxCommentRunes))
		}
		if rest := len(sum.Comments) - spokenComments; rest > 0 {
			fmt.Fprintf(&b, "\n\nAnd %d more %s.", rest, plural(rest, "review", "reviews"))
		}
	}
	b.WriteString("\n\nWould you like to leave your own review for this place?")
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func pluralFloat(v float64, one, many string) string {
	if v == 1 {
		return one
	}
	return many
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
