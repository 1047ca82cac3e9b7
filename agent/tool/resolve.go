package tool

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	placesx "github.com/tanpawarit/wanda-voice-concierge/pkg/places"
)

// placeRef is how the caller referred to a place.
type placeRef struct {
	PlaceID string
	Ordinal int
	Name    string
	Address string
}

func placeRefFromArgs(args Args) placeRef {
	ref := placeRef{
		PlaceID: args.String("placeId"),
		Name:    args.String("placeName"),
		Address: args.String("placeAddress"),
	}
	if n, ok := args.Int("placeNumber"); ok {
		ref.Ordinal = n
	} else if args.Given("placeNumber") {
		// 2.5 or "second" never picks a place.
		ref.Ordinal = -1
	}
	return ref
}

func (r placeRef) empty() bool {
	return r.PlaceID == "" && r.Ordinal == 0 && r.Name == ""
}

type resolveStatus int

const (
	resolvedFromID resolveStatus = iota + 1
	resolvedFromOrdinal
	resolvedFromName
	ordinalOutOfRange
	nameNotCached
	nothingToResolve
)

func (s resolveStatus) ok() bool {
	return s == resolvedFromID || s == resolvedFromOrdinal || s == resolvedFromName
}

// resolvePlace applies the precedence place id > ordinal > name against the
// cached search results. Name matching is case-insensitive containment in
// either direction; several matches are ranked by edit distance. Nothing is
// guessed when the reference does not resolve.
func resolvePlace(cached []placesx.Place, ref placeRef) (placesx.Place, resolveStatus) {
	switch {
	case ref.PlaceID != "":
		for _, p := range cached {
			if p.PlaceID == ref.PlaceID {
				return p, resolvedFromID
			}
		}
		return placesx.Place{PlaceID: ref.PlaceID, Name: ref.Name, Address: ref.Address}, resolvedFromID

	case ref.Ordinal != 0:
		if ref.Ordinal < 1 || ref.Ordinal > len(cached) {
			return placesx.Place{}, ordinalOutOfRange
		}
		return cached[ref.Ordinal-1], resolvedFromOrdinal

	case ref.Name != "":
		if p, ok := matchByName(cached, ref.Name); ok {
			return p, resolvedFromName
		}
		return placesx.Place{Name: ref.Name, Address: ref.Address}, nameNotCached

	default:
		return placesx.Place{}, nothingToResolve
	}
}

func matchByName(cached []placesx.Place, name string) (placesx.Place, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return placesx.Place{}, false
	}

	best := -1
	bestDistance := 0
	for i, p := range cached {
		have := strings.ToLower(strings.TrimSpace(p.Name))
		if have == "" {
			continue
		}
		if !strings.Contains(have, want) && !strings.Contains(want, have) {
			continue
		}
		d := fuzzy.LevenshteinDistance(want, have)
		if best < 0 || d < bestDistance {
			best, bestDistance = i, d
		}
	}
	if best < 0 {
		return placesx.Place{}, false
	}
	return cached[best], true
}
