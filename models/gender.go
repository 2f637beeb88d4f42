package models

import "strings"

// GenderFilter restricts which storefront audience a category is shown to.
type GenderFilter string

const (
	GenderAll    GenderFilter = "A"
	GenderMale   GenderFilter = "M"
	GenderFemale GenderFilter = "F"
)

// GenderFilters lists every filter in menu order.
var GenderFilters = []GenderFilter{GenderAll, GenderMale, GenderFemale}

var genderAliases = map[string]GenderFilter{
	"A":      GenderAll,
	"ALL":    GenderAll,
	"M":      GenderMale,
	"MALE":   GenderMale,
	"F":      GenderFemale,
	"FEMALE": GenderFemale,
}

// ParseGenderFilter maps a code (A, M, F) or name (ALL, MALE, FEMALE) to a filter.
// Blank or unknown input falls back to GenderAll.
func ParseGenderFilter(code string) GenderFilter {
	if g, ok := genderAliases[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return g
	}
	return GenderAll
}

// IsValidGenderCode reports whether code is a known code or name.
func IsValidGenderCode(code string) bool {
	_, ok := genderAliases[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// DisplayName returns the storefront label for the filter.
func (g GenderFilter) DisplayName() string {
	switch g {
	case GenderMale:
		return "Men"
	case GenderFemale:
		return "Women"
	default:
		return "All"
	}
}

// Allows reports whether a category tagged g should be shown for the requested filter.
func (g GenderFilter) Allows(requested GenderFilter) bool {
	return requested == GenderAll || g == GenderAll || g == requested
}
