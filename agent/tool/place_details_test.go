package tool

import (
	"errors"
	"strings"
	"testing"

	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
)

func TestPlaceDetailsFromCachedOrdinal(t *testing.T) {
	t.Parallel()

	open := true
	h := newHarness(t)
	h.cache(t, placeA)
	h.directory.details["pA"] = &placesx.Details{
		Name:                     "Thai Garden",
		FormattedAddress:         "1 Main St, Austin, TX",
		InternationalPhoneNumber: "+1 512-555-0100",
		Rating:                   4.6,
		UserRatingsTotal:         212,
		BusinessStatus:           "OPERATIONAL",
		OpeningHours:             &placesx.OpeningHours{OpenNow: &open, WeekdayText: []string{"Monday: 11 AM to 9 PM"}},
		Website:                  "https://thaigarden.example",
	}

	msg, failed := h.dispatch(t, "getPlaceDetails", Args{"placeNumber": "1"})
	if failed {
		t.Fatalf("getPlaceDetails failed: %s", msg)
	}
	want := "Here are the details for Thai Garden:" +
		"\nAddress: 1 Main St, Austin, TX" +
		"\nPhone: +1 512-555-0100" +
		"\nRating: 4.6/5 stars (212 reviews)" +
		"\nStatus: Currently operational" +
		"\nCurrently: Open" +
		"\nHours:\n  Monday: 11 AM to 9 PM" +
		"\nWebsite: https://thaigarden.example"
	if msg != want {
		t.Fatalf("message =\n%s\nwant\n%s", msg, want)
	}
	if len(h.directory.findArgs) != 0 {
		t.Fatalf("find place called with cached id: %v", h.directory.findArgs)
	}
}

func TestPlaceDetailsFindsIDForUncachedName(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.directory.ids["Pho King 9 Z St"] = "pZ"
	h.directory.details["pZ"] = &placesx.Details{Name: "Pho King", BusinessStatus: "CLOSED_TEMPORARILY"}

	msg, failed := h.dispatch(t, "getPlaceDetails", Args{"placeName": "Pho King", "placeAddress": "9 Z St"})
	if failed || msg != "Here are the details for Pho King:\nStatus: closed temporarily" {
		t.Fatalf("message = %q failed = %v", msg, failed)
	}
}

func TestPlaceDetailsWithoutFieldsIsPartialSuccess(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cache(t, placeA)
	h.directory.details["pA"] = &placesx.Details{Name: "Thai Garden"}

	msg, failed := h.dispatch(t, "getPlaceDetails", Args{"placeName": "thai garden"})
	if failed || !strings.HasPrefix(msg, `I found "Thai Garden", but unfortunately`) {
		t.Fatalf("message = %q failed = %v", msg, failed)
	}
}

func TestPlaceDetailsNoCandidate(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	msg, failed := h.dispatch(t, "getPlaceDetails", Args{"placeName": "Nowhere Cafe"})
	if !failed || !strings.Contains(msg, "couldn't get a specific identifier") {
		t.Fatalf("message = %q failed = %v", msg, failed)
	}
}

func TestPlaceDetailsProviderFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.directory.findErr = errors.New("http status=500")

	msg, failed := h.dispatch(t, "getPlaceDetails", Args{"placeName": "Nowhere Cafe"})
	if !failed || msg != detailsFailure {
		t.Fatalf("message = %q failed = %v", msg, failed)
	}

	h.cache(t, placeA)
	msg, failed = h.dispatch(t, "getPlaceDetails", Args{"placeNumber": 1})
	if !failed || msg != detailsFailure {
		t.Fatalf("details failure message = %q failed = %v", msg, failed)
	}
}

func TestPlaceDetailsOrdinalOutOfRange(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	msg, failed := h.dispatch(t, "getPlaceDetails", Args{"placeNumber": 3})
	if !failed || !strings.HasSuffix(msg, "you'd like details about?") {
		t.Fatalf("message = %q failed = %v", msg, failed)
	}
}
