package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrProfileNotFound = errors.New("caller profile not found")
	ErrInvalidKey      = errors.New("phone number key is empty")
	ErrNilProfile      = errors.New("caller profile is nil")
	ErrUnknownCategory = errors.New("unknown preference category")
	ErrUnknownAction   = errors.New("unknown preference action")
)

const (
	MinAge = 1
	MaxAge = 149
)

// CallerProfile is the durable record kept per phone number.
type CallerProfile struct {
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name,omitempty"`
	Age         int    `json:"age,omitempty"`
	City        string `json:"city,omitempty"`

	FoodPreferences          []string `json:"foodPreferences,omitempty"`
	ActivitiesPreferences    []string `json:"activitiesPreferences,omitempty"`
	ShoppingPreferences      []string `json:"shoppingPreferences,omitempty"`
	EntertainmentPreferences []string `json:"entertainmentPreferences,omitempty"`

	CompletedCalls int       `json:"completedCalls"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	LastCalledAt   time.Time `json:"lastCalledAt,omitempty"`
}

func New(phoneNumber string, now time.Time) *CallerProfile {
	return &CallerProfile{
		PhoneNumber: phoneNumber,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
}

// Clone returns a deep copy so stores never share slices with callers.
func (p *CallerProfile) Clone() *CallerProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.FoodPreferences = cloneStrings(p.FoodPreferences)
	cp.ActivitiesPreferences = cloneStrings(p.ActivitiesPreferences)
	cp.ShoppingPreferences = cloneStrings(p.ShoppingPreferences)
	cp.EntertainmentPreferences = cloneStrings(p.EntertainmentPreferences)
	return &cp
}

// IsEmpty reports whether nothing beyond the key has been saved.
func (p *CallerProfile) IsEmpty() bool {
	if p == nil {
		return true
	}
	if p.Name != "" || p.Age > 0 || p.City != "" {
		return false
	}
	for _, c := range Categories {
		if len(p.Preferences(c)) > 0 {
			return false
		}
	}
	return true
}

func (p *CallerProfile) Preferences(c Category) []string {
	if p == nil {
		return nil
	}
	switch c {
	case CategoryFood:
		return p.FoodPreferences
	case CategoryActivities:
		return p.ActivitiesPreferences
	case CategoryShopping:
		return p.ShoppingPreferences
	case CategoryEntertainment:
		return p.EntertainmentPreferences
	default:
		return nil
	}
}

func (p *CallerProfile) SetPreferences(c Category, values []string) {
	switch c {
	case CategoryFood:
		p.FoodPreferences = values
	case CategoryActivities:
		p.ActivitiesPreferences = values
	case CategoryShopping:
		p.ShoppingPreferences = values
	case CategoryEntertainment:
		p.EntertainmentPreferences = values
	}
}

type Category string

const (
	CategoryFood          Category = "food"
	CategoryActivities    Category = "activities"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
)

// Categories lists every preference category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryActivities,
	CategoryShopping,
	CategoryEntertainment,
}

func ParseCategory(raw string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "food":
		return CategoryFood, nil
	case "activities", "activity":
		return CategoryActivities, nil
	case "shopping":
		return CategoryShopping, nil
	case "entertainment":
		return CategoryEntertainment, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
}

type Action string

const (
	ActionAdd     Action = "add"
	ActionRemove  Action = "remove"
	ActionReplace Action = "replace"
)

func ParseAction(raw string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(raw))); a {
	case ActionAdd, ActionRemove, ActionReplace:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
	}
}

type Field string

const (
	FieldName Field = "name"
	FieldAge  Field = "age"
	FieldCity Field = "city"
)

// Basics carries the optional scalar fields of an update; nil means absent.
type Basics struct {
	Name *string
	Age  *int
	City *string
}

type BasicsOutcome struct {
	// Applied lists fields whose stored value changed.
	Applied []Field
	// Unchanged lists valid fields that already held the same value.
	Unchanged []Field
}

// MergeOutcome describes the effect of a preference merge.
type MergeOutcome struct {
	Category Category
	Action   Action
	Added    []string
	Removed  []string
	Result   []string
	Changed  bool
}

// KeyFromNumber turns an E.164 number into the profile key: digits only,
// without the NANP country code.
func KeyFromNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		return digits[1:]
	}
	return digits
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
