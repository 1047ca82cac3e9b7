package review

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T) (*Service, *time.Time) {
	t.Helper()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seq := 0
	svc, err := NewService(NewMemoryStore(),
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string {
			seq++
			return "rev-" + string(rune('0'+seq))
		}),
	)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc, &now
}

func TestDraftValidate(t *testing.T) {
	t.Parallel()

	base := Draft{PlaceID: "place-1", Comment: "great tacos", Rating: 4}

	tests := []struct {
		name   string
		mutate func(*Draft)
		want   error
	}{
		{name: "valid", mutate: func(d *Draft) {}},
		{name: "lower bound accepted", mutate: func(d *Draft) { d.Rating = 1 }},
		{name: "upper bound accepted", mutate: func(d *Draft) { d.Rating = 5 }},
		{name: "zero out of range", mutate: func(d *Draft) { d.Rating = 0 }, want: ErrRatingRange},
		{name: "six out of range", mutate: func(d *Draft) { d.Rating = 6 }, want: ErrRatingRange},
		{name: "fraction", mutate: func(d *Draft) { d.Rating = 3.5 }, want: ErrRatingFraction},
		{name: "blank comment", mutate: func(d *Draft) { d.Comment = "   " }, want: ErrEmptyComment},
		{name: "missing place", mutate: func(d *Draft) { d.PlaceID = "" }, want: ErrMissingPlace},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := base
			tc.mutate(&d)
			err := d.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateAndListNewestFirst(t *testing.T) {
	t.Parallel()

	svc, now := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, Draft{PlaceID: "p1", Comment: " first ", Rating: 3, CallID: "c1"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	*now = now.Add(time.Minute)
	if _, err := svc.Create(ctx, Draft{PlaceID: "p2", Comment: "other place", Rating: 5}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	*now = now.Add(time.Minute)
	second, err := svc.Create(ctx, Draft{PlaceID: "p1", Comment: "second", Rating: 5})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.ListByPlace(ctx, "p1")
	if err != nil {
		t.Fatalf("ListByPlace() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != second.ID || got[1].Comment != "first" {
		t.Fatalf("order = %+v", got)
	}
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), Draft{PlaceID: "p1", Comment: "x", Rating: 3.5})
	if !errors.Is(err, ErrRatingFraction) {
		t.Fatalf("Create() error = %v, want ErrRatingFraction", err)
	}
	got, _ := svc.ListByPlace(context.Background(), "p1")
	if len(got) != 0 {
		t.Fatalf("stored %d reviews, want 0", len(got))
	}
}

func TestListByPlaceEmpty(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	got, err := svc.ListByPlace(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("ListByPlace() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("ListByPlace() = %v, want empty", got)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize([]Review{
		{Rating: 5, Comment: "great"},
		{Rating: 4, Comment: ""},
		{Rating: 4, Comment: "fine"},
	})
	if s.Count != 3 {
		t.Fatalf("Count = %d", s.Count)
	}
	if s.Average != 4.3 {
		t.Fatalf("Average = %v, want 4.3", s.Average)
	}
	if len(s.Comments) != 2 || s.Comments[0] != "great" {
		t.Fatalf("Comments = %v", s.Comments)
	}
}
