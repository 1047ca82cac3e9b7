package search

import (
	"context"
	"errors"
	"testing"

	profilex "github.com/tanpawarit/wanda-voice-concierge/agent/profile"
	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
)

type fakeProvider struct {
	places []placesx.Place
	err    error
	calls  int
	got    placesx.TextSearchRequest
}

func (f *fakeProvider) SearchText(ctx context.Context, req placesx.TextSearchRequest) ([]placesx.Place, error) {
	f.calls++
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return f.places, nil
}

func fivePlaces() []placesx.Place {
	return []placesx.Place{
		{Name: "A", PlaceID: "a"},
		{Name: "B", PlaceID: "b"},
		{Name: "C", PlaceID: "c"},
		{Name: "D", PlaceID: "d"},
		{Name: "E", PlaceID: "e"},
	}
}

func TestSearchComposesQueryAndTruncates(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{places: fivePlaces()}
	svc, _ := NewService(provider)

	res, err := svc.Search(context.Background(), Request{Query: "sushi", Location: "downtown", MaxResults: 3})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if provider.got.TextQuery != "sushi in downtown" {
		t.Fatalf("TextQuery = %q", provider.got.TextQuery)
	}
	if provider.got.PageSize != 5 {
		t.Fatalf("PageSize = %d, want 5", provider.got.PageSize)
	}
	if len(res.Places) != 3 || res.Places[2].Name != "C" {
		t.Fatalf("Places = %+v", res.Places)
	}
	if res.UsedProfileCity || res.UsedFoodPreferenceBoost {
		t.Fatalf("unexpected personalization: %+v", res)
	}
}

func TestSearchUsesProfileCityAndFoodBoost(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{places: fivePlaces()}
	svc, _ := NewService(provider)
	p := &profilex.CallerProfile{
		City:            "Austin",
		FoodPreferences: []string{"Vegetarian", "vegan", "thai"},
	}

	res, err := svc.Search(context.Background(), Request{Query: "dinner spots", Profile: p, MaxResults: 3})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if provider.got.TextQuery != "dinner spots Vegetarian vegan in Austin" {
		t.Fatalf("TextQuery = %q", provider.got.TextQuery)
	}
	if !res.UsedProfileCity || !res.UsedFoodPreferenceBoost {
		t.Fatalf("personalization flags = %+v", res)
	}
}

func TestSearchNoBoostForNonFoodQuery(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	svc, _ := NewService(provider)
	p := &profilex.CallerProfile{FoodPreferences: []string{"thai"}}

	res, err := svc.Search(context.Background(), Request{Query: "bookstore", Location: "Austin", Profile: p})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.UsedFoodPreferenceBoost || provider.got.TextQuery != "bookstore in Austin" {
		t.Fatalf("query = %q boost = %v", provider.got.TextQuery, res.UsedFoodPreferenceBoost)
	}
}

func TestSearchEmptyIsSuccess(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&fakeProvider{})
	res, err := svc.Search(context.Background(), Request{Query: "unicorn rides", MaxResults: ReviewResults})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(res.Places) != 0 {
		t.Fatalf("Places = %v", res.Places)
	}
}

func TestSearchProviderFailure(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&fakeProvider{err: errors.New("403 forbidden")})
	if _, err := svc.Search(context.Background(), Request{Query: "sushi"}); err == nil {
		t.Fatal("Search() error = nil, want provider error")
	}
}

func TestSearchLocationBias(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	svc, _ := NewService(provider)

	if _, err := svc.Search(context.Background(), Request{Query: "park", Location: "30.26,-97.74", Radius: 1500}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if provider.got.Bias == nil || provider.got.Bias.Latitude != 30.26 || provider.got.RadiusMeters != 1500 {
		t.Fatalf("bias = %+v radius = %v", provider.got.Bias, provider.got.RadiusMeters)
	}
	if provider.got.TextQuery != "park in 30.26,-97.74" {
		t.Fatalf("TextQuery = %q", provider.got.TextQuery)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	svc, _ := NewService(provider)
	if _, err := svc.Search(context.Background(), Request{Query: "  "}); err == nil {
		t.Fatal("Search() error = nil, want query error")
	}
	if provider.calls != 0 {
		t.Fatalf("provider calls = %d, want 0", provider.calls)
	}
}
