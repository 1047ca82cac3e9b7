package tool

import "testing"

func TestParseName(t *testing.T) {
	t.Parallel()

	cases := map[string]Name{
		"searchMaps":            SearchMaps,
		"wandaSearchMaps":       SearchMaps,
		" wandaSendDirections ": SendDirections,
		"getProfile":            GetProfile,
		"wandaCreateReview":     CreateReview,
	}
	for raw, want := range cases {
		got, ok := ParseName(raw)
		if !ok || got != want {
			t.Fatalf("ParseName(%q) = %q, %v; want %q", raw, got, ok, want)
		}
	}

	for _, raw := range []string{"", "wanda", "SearchMaps", "orderPizza", "wandaOrderPizza"} {
		if got, ok := ParseName(raw); ok {
			t.Fatalf("ParseName(%q) = %q, want unknown", raw, got)
		}
	}
}
