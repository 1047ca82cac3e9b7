package tool

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSendDirectionsByOrdinal(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cache(t, placeA, placeB, placeC)

	msg, failed := h.dispatch(t, "sendDirections", Args{"placeNumber": 2})
	if failed {
		t.Fatalf("sendDirections failed: %s", msg)
	}
	if msg != "Perfect! I've sent the directions to Bangkok Bites to your phone via text message." {
		t.Fatalf("message = %q", msg)
	}
	if len(h.sms.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(h.sms.sent))
	}
	sms := h.sms.sent[0]
	if sms.to != testCaller {
		t.Fatalf("to = %q", sms.to)
	}
	if sms.body != "Here are the directions to Bangkok Bites:\n\n2 Oak Ave, Austin, TX\n\nSent by Wanda" {
		t.Fatalf("body = %q", sms.body)
	}

	sess, err := h.sessions.Get(context.Background(), testCallID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !sess.DirectionsSent || sess.DirectionsPlaceName != "Bangkok Bites" || sess.SentMessageID != "SM0001" {
		t.Fatalf("session = %+v", sess)
	}
	if sess.DirectionsSentAt == nil || !sess.DirectionsSentAt.Equal(fixedNow) {
		t.Fatalf("DirectionsSentAt = %v", sess.DirectionsSentAt)
	}
}

func TestSendDirectionsOrdinalOutOfRangeAsksAgain(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cache(t, placeA, placeB)

	msg, failed := h.dispatch(t, "sendDirections", Args{"placeNumber": 5})
	if !failed || !strings.Contains(msg, "couldn't find that place number") {
		t.Fatalf("message = %q failed = %v", msg, failed)
	}
	if len(h.sms.sent) != 0 {
		t.Fatal("sms sent for an unresolved place")
	}
}

func TestSendDirectionsFractionalOrdinalAsksAgain(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cache(t, placeA, placeB, placeC)

	for _, n := range []any{2.7, "1.5"} {
		msg, failed := h.dispatch(t, "sendDirections", Args{"placeNumber": n})
		if !failed || !strings.Contains(msg, "couldn't find that place number") {
			t.Fatalf("placeNumber %v: message = %q failed = %v", n, msg, failed)
		}
	}
	if len(h.sms.sent) != 0 {
		t.Fatalf("sent = %d, want 0", len(h.sms.sent))
	}
}

func TestSendDirectionsByName(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cache(t, placeA, placeB)

	msg, failed := h.dispatch(t, "sendDirections", Args{"placeName": "bangkok bites"})
	if failed || !strings.Contains(msg, "Bangkok Bites") {
		t.Fatalf("message = %q failed = %v", msg, failed)
	}
}

func TestSendDirectionsNeverGuessesUnknownName(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cache(t, placeA)

	msg, failed := h.dispatch(t, "sendDirections", Args{"placeName": "Pho King"})
	if !failed || !strings.Contains(msg, `"Pho King"`) {
		t.Fatalf("message = %q failed = %v", msg, failed)
	}
	if len(h.sms.sent) != 0 {
		t.Fatal("sms sent for a guessed place")
	}
}

func TestSendDirectionsUncachedNameWithAddress(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	msg, failed := h.dispatch(t, "sendDirections", Args{"placeName": "Pho King", "placeAddress": "9 Z St"})
	if failed {
		t.Fatalf("sendDirections failed: %s", msg)
	}
	if len(h.sms.sent) != 1 || !strings.Contains(h.sms.sent[0].body, "9 Z St") {
		t.Fatalf("sent = %+v", h.sms.sent)
	}
}

func TestSendDirectionsMissingPlace(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	msg, failed := h.dispatch(t, "sendDirections", Args{})
	if !failed || !strings.HasPrefix(msg, "I need the name of the place") {
		t.Fatalf("message = %q failed = %v", msg, failed)
	}
}

func TestSendDirectionsSMSFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cache(t, placeA)
	h.sms.err = errors.New("twilio 21211")

	msg, failed := h.dispatch(t, "sendDirections", Args{"placeNumber": 1})
	if !failed || msg != "I'm sorry, I couldn't send the directions right now. Please try again later." {
		t.Fatalf("message = %q failed = %v", msg, failed)
	}
	sess, _ := h.sessions.Get(context.Background(), testCallID)
	if sess.DirectionsSent {
		t.Fatal("DirectionsSent stamped after failed sms")
	}
}
