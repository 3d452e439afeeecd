// Package options resolves caller-supplied query options into the values
// the aggregation engine consumes.
package options

import (
	"errors"
	"fmt"
	"strings"

	"github.com/TomasB/rirroutes/internal/aggregate"
	"golang.org/x/text/language"
)

// ExcludeMarker, when leading a country spec, inverts the selection.
const ExcludeMarker = "!"

// ErrInvalidCountry is returned for empty specs and unknown country codes.
var ErrInvalidCountry = errors.New("invalid country")

// ParseCountries parses a spec such as "CN,HK,MO" or "!CN" into a filter.
// Codes are ISO 3166-1 alpha-2 and are matched case-insensitively.
func ParseCountries(spec string) (aggregate.CountryFilter, error) {
	spec = strings.TrimSpace(spec)
	excluding := strings.HasPrefix(spec, ExcludeMarker)
	spec = strings.TrimPrefix(spec, ExcludeMarker)

	var codes []string
	for part := range strings.SplitSeq(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := canonicalCountry(part)
		if err != nil {
			return aggregate.CountryFilter{}, err
		}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return aggregate.CountryFilter{}, fmt.Errorf("%w: no country codes given", ErrInvalidCountry)
	}

	return aggregate.NewCountryFilter(codes, excluding), nil
}

func canonicalCountry(code string) (string, error) {
	if len(code) != 2 {
		return "", fmt.Errorf("%w: %q is not a two-letter code", ErrInvalidCountry, code)
	}
	region, err := language.ParseRegion(strings.ToUpper(code))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidCountry, code, err)
	}
	return region.String(), nil
}
