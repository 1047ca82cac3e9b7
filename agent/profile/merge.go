package profile

import "strings"

// MergeList appends the values not already present (case-insensitively) to
// existing. The first-seen casing of each entry is kept.
func MergeList(existing []string, values []string) (result []string, added []string) {
	seen := make(map[string]struct{}, len(existing)+len(values))
	result = make([]string, 0, len(existing)+len(values))
	for _, v := range existing {
		key := foldKey(v)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, v)
	}
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		key := foldKey(trimmed)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, trimmed)
		added = append(added, trimmed)
	}
	return result, added
}

// RemoveFromList drops every entry of existing that matches one of values
// case-insensitively. removed holds the stored forms that were dropped.
func RemoveFromList(existing []string, values []string) (result []string, removed []string) {
	drop := make(map[string]struct{}, len(values))
	for _, v := range values {
		if key := foldKey(v); key != "" {
			drop[key] = struct{}{}
		}
	}
	result = make([]string, 0, len(existing))
	for _, v := range existing {
		if _, ok := drop[foldKey(v)]; ok {
			removed = append(removed, v)
			continue
		}
		result = append(result, v)
	}
	return result, removed
}

// ReplaceList returns the trimmed, non-empty values in input order. A value
// repeated with different casing keeps its first form only.
func ReplaceList(values []string) []string {
	result, _ := MergeList(nil, values)
	return result
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ApplyBasics validates and applies b to p in place.
func ApplyBasics(p *CallerProfile, b Basics) BasicsOutcome {
	var out BasicsOutcome
	if p == nil {
		return out
	}

	if b.Name != nil {
		if name := strings.TrimSpace(*b.Name); name != "" {
			if name == p.Name {
				out.Unchanged = append(out.Unchanged, FieldName)
			} else {
				p.Name = name
				out.Applied = append(out.Applied, FieldName)
			}
		}
	}
	if b.Age != nil {
		if age := *b.Age; age >= MinAge && age <= MaxAge {
			if age == p.Age {
				out.Unchanged = append(out.Unchanged, FieldAge)
			} else {
				p.Age = age
				out.Applied = append(out.Applied, FieldAge)
			}
		}
	}
	if b.City != nil {
		if city := strings.TrimSpace(*b.City); city != "" {
			if city == p.City {
				out.Unchanged = append(out.Unchanged, FieldCity)
			} else {
				p.City = city
				out.Applied = append(out.Applied, FieldCity)
			}
		}
	}
	return out
}

// ApplyPreferences runs action for category on p in place.
func ApplyPreferences(p *CallerProfile, category Category, action Action, values []string) MergeOutcome {
	out := MergeOutcome{Category: category, Action: action}
	if p == nil {
		return out
	}

	current := p.Preferences(category)
	switch action {
	case ActionAdd:
		out.Result, out.Added = MergeList(current, values)
		out.Changed = len(out.Added) > 0
	case ActionRemove:
		out.Result, out.Removed = RemoveFromList(current, values)
		out.Changed = len(out.Removed) > 0
	case ActionReplace:
		out.Result = ReplaceList(values)
		out.Changed = !equalStrings(current, out.Result)
		out.Added, _ = RemoveFromList(out.Result, current)
		out.Removed, _ = RemoveFromList(current, out.Result)
	default:
		out.Result = current
		return out
	}

	if out.Changed {
		p.SetPreferences(category, out.Result)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
