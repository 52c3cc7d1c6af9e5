package location

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"listings/internal/types"
)

// MaxSearchResults caps Search output. Results are the first matches in
// dataset order, not the best ones.
const MaxSearchResults = 10

// minQueryLength guards against single-character queries matching nearly everything
const minQueryLength = 2

// Normalize lowercases s and drops every rune that is not a letter or digit,
// whitespace included. "South B" and "south-b" both become "southb".
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Match reports whether a and b refer to the same place under loose
// containment: normalized forms are equal or either contains the other.
// Short inputs over-match, "a" matches anything with an "a" in it.
// Inputs that normalize to nothing never match.
func Match(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}

// Search scans dataset once, counties outer and sub-counties then popular
// areas inner, collecting every name that contains the normalized query.
func Search(query string, dataset types.Dataset) []types.LocationEntry {
	results := make([]types.LocationEntry, 0)
	if utf8.RuneCountInString(strings.TrimSpace(query)) < minQueryLength {
		return results
	}
	q := Normalize(query)
	if q == "" {
		return results
	}

	add := func(entry types.LocationEntry) bool {
		results = append(results, entry)
		return len(results) < MaxSearchResults
	}

	for _, county := range dataset {
		if strings.Contains(Normalize(county.Name), q) {
			if !add(countyEntry(county)) {
				return results
			}
		}
		for _, sub := range county.SubCounties {
			if strings.Contains(Normalize(sub), q) {
				if !add(newEntry(sub, types.KindLocation, county.Name)) {
					return results
				}
			}
		}
		for _, area := range county.PopularAreas {
			if strings.Contains(Normalize(area), q) {
				if !add(newEntry(area, types.KindArea, county.Name)) {
					return results
				}
			}
		}
	}

	return results
}

// FilterByLocation keeps profiles whose county, sub-county or any area matches
// term. A blank term returns profiles unchanged.
func FilterByLocation(profiles []types.Profile, term string) []types.Profile {
	if Normalize(term) == "" {
		return profiles
	}

	filtered := make([]types.Profile, 0, len(profiles))
	for _, p := range profiles {
		if matchesProfile(p, term) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func matchesProfile(p types.Profile, term string) bool {
	if Match(p.County, term) {
		return true
	}
	if Match(p.Location, term) {
		return true
	}
	return hasArea(p, term)
}

func hasArea(p types.Profile, area string) bool {
	for _, a := range p.Areas {
		if Match(a, area) {
			return true
		}
	}
	return false
}

// SortByAreaPriority returns a copy of profiles with those serving
// priorityArea first. Order within each group is preserved.
func SortByAreaPriority(profiles []types.Profile, priorityArea string) []types.Profile {
	sorted := slices.Clone(profiles)
	if Normalize(priorityArea) == "" {
		return sorted
	}

	slices.SortStableFunc(sorted, func(a, b types.Profile) int {
		pa, pb := hasArea(a, priorityArea), hasArea(b, priorityArea)
		switch {
		case pa == pb:
			return 0
		case pa:
			return -1
		default:
			return 1
		}
	})
	return sorted
}

func countyEntry(county types.County) types.LocationEntry {
	return types.LocationEntry{
		Name:        county.Name,
		Type:        types.KindCounty,
		County:      county.Name,
		DisplayName: county.Name + " County",
	}
}

func newEntry(name string, kind types.EntryKind, county string) types.LocationEntry {
	return types.LocationEntry{
		Name:        name,
		Type:        kind,
		County:      county,
		DisplayName: fmt.Sprintf("%s, %s", name, county),
	}
}
