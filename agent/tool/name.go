package tool

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Name is the closed set of tools the assistants can invoke.
type Name string

const (
	SearchMaps        Name = "searchMaps"
	SendDirections    Name = "sendDirections"
	GetPlaceDetails   Name = "getPlaceDetails"
	UpdateProfile     Name = "updateProfile"
	UpdatePreferences Name = "updatePreferences"
	GetProfile        Name = "getProfile"
	CreateReview      Name = "createReview"
	SearchReviews     Name = "searchReviews"
)

// Names lists every tool. NewRouter requires a handler for each entry.
var Names = []Name{
	SearchMaps,
	SendDirections,
	GetPlaceDetails,
	UpdateProfile,
	UpdatePreferences,
	GetProfile,
	CreateReview,
	SearchReviews,
}

const legacyPrefix = "wanda"

// ParseName maps a provider function name onto a tool. Names registered
// with the legacy "wanda" prefix (wandaSearchMaps) resolve to the same tool.
func ParseName(raw string) (Name, bool) {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, legacyPrefix); ok && rest != "" {
		r, size := utf8.DecodeRuneInString(rest)
		raw = string(unicode.ToLower(r)) + rest[size:]
	}
	for _, n := range Names {
		if string(n) == raw {
			return n, true
		}
	}
	return "", false
}
