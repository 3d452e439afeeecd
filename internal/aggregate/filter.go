package aggregate

import "strings"

// CountryFilter selects records by country code.
type CountryFilter struct {
	Countries map[string]struct{}
	Excluding bool
}

// NewCountryFilter builds a filter over the given codes. Codes are compared
// case-insensitively.
func NewCountryFilter(codes []string, excluding bool) CountryFilter {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[strings.ToUpper(c)] = struct{}{}
	}
	return CountryFilter{Countries: set, Excluding: excluding}
}

// Match reports whether a record for country passes the filter.
func (f CountryFilter) Match(country string) bool {
	_, ok := f.Countries[strings.ToUpper(country)]
	return f.Excluding != ok
}
