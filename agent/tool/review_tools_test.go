package tool

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestCreateReviewRatingMessages(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	cases := []struct {
		rating     any
		wantFailed bool
		want       string
	}{
		{0, true, "Please provide a rating between 1 and 5 stars."},
		{6, true, "Please provide a rating between 1 and 5 stars."},
		{3.5, true, "Please give a whole-number rating from 1 to 5 stars."},
		{"4.0", false, "Perfect! I've saved your 4-star review."},
		{1, false, "Perfect! I've saved your 1-star review."},
		{5, false, "Perfect! I've saved your 5-star review."},
	}
	for _, tc := range cases {
		msg, failed := h.dispatch(t, "createReview", Args{"placeId": "pA", "comment": "Great curry", "rating": tc.rating})
		if failed != tc.wantFailed || !strings.HasPrefix(msg, tc.want) {
			t.Fatalf("rating %v: message = %q failed = %v", tc.rating, msg, failed)
		}
	}

	reviews, err := h.reviews.ListByPlace(context.Background(), "pA")
	if err != nil {
		t.Fatalf("ListByPlace() error = %v", err)
	}
	if len(reviews) != 3 {
		t.Fatalf("stored %d reviews, want 3", len(reviews))
	}
	if reviews[0].PhoneNumber != testCaller || reviews[0].CallID != testCallID {
		t.Fatalf("review = %+v", reviews[0])
	}
}

func TestCreateReviewMissingFields(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	msg, _ := h.dispatch(t, "createReview", Args{"placeId": "pA", "comment": " ", "rating": 4})
	if msg != "Please provide a comment for your review." {
		t.Fatalf("message = %q", msg)
	}
	msg, _ = h.dispatch(t, "createReview", Args{"comment": "Nice", "rating": 4})
	if msg != "I need a valid place ID to save your review." {
		t.Fatalf("message = %q", msg)
	}
	msg, _ = h.dispatch(t, "createReview", Args{"placeId": "pA", "comment": "Nice"})
	if msg != "Please provide a rating between 1 and 5 stars." {
		t.Fatalf("message = %q", msg)
	}
}

func TestSearchReviewsSummarizes(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	long := strings.Repeat("x", 120)
	for i, r := range []struct {
		rating  int
		comment string
	}{
		{5, "Best pad thai"},
		{4, "Friendly staff"},
		{4, long},
		{3, "Slow on weekends"},
		{5, "Worth it"},
	} {
		if _, failed := h.dispatch(t, "createReview", Args{"placeId": "pA", "comment": r.comment, "rating": r.rating}); failed {
			t.Fatalf("createReview %d failed", i)
		}
	}

	msg, failed := h.dispatch(t, "searchReviews", Args{"placeId": "pA", "placeName": "Thai Garden"})
	if failed {
		t.Fatalf("searchReviews failed: %s", msg)
	}
	want := "I found 5 reviews for Thai Garden with an average rating of 4.2 stars." +
		"\n\nHere's what people are saying:" +
		"\n• \"Worth it\"" +
		"\n• \"Slow on weekends\"" +
		fmt.Sprintf("\n• \"%s...\"", strings.Repeat("x", 100)) +
		"\n\nAnd 2 more reviews." +
		"\n\nWould you like to leave your own review for this place?"
	if msg != want {
		t.Fatalf("message =\n%s\nwant\n%s", msg, want)
	}
}

func TestSearchReviewsEmptyIsSuccess(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	msg, failed := h.dispatch(t, "searchReviews", Args{"placeId": "pQ"})
	if failed || msg != "I couldn't find any reviews for this place yet. You could be the first to leave a review!" {
		t.Fatalf("message = %q failed = %v", msg, failed)
	}
}

func TestSearchReviewsResolvesCachedName(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cache(t, placeA, placeB)
	h.dispatch(t, "createReview", Args{"placeId": "pB", "comment": "Solid", "rating": 1})

	msg, failed := h.dispatch(t, "searchReviews", Args{"placeName": "Bangkok Bites"})
	if failed || !strings.HasPrefix(msg, "I found 1 review for Bangkok Bites with an average rating of 1 star.") {
		t.Fatalf("message = %q failed = %v", msg, failed)
	}

	msg, failed = h.dispatch(t, "searchReviews", Args{"placeName": "Unknown"})
	if !failed || msg != "I need a valid place ID to search for reviews." {
		t.Fatalf("message = %q failed = %v", msg, failed)
	}
}
