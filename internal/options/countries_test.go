package options

import (
	"errors"
	"testing"
)

func TestParseCountries(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		excluding bool
		match     []string
		noMatch   []string
	}{
		{
			name:    "single",
			spec:    "CN",
			match:   []string{"CN"},
			noMatch: []string{"HK", "US"},
		},
		{
			name:    "list with spaces and lower case",
			spec:    " cn, hk ,MO",
			match:   []string{"CN", "HK", "MO"},
			noMatch: []string{"TW"},
		},
		{
			name:      "excluded",
			spec:      "!CN",
			excluding: true,
			match:     []string{"US", "HK"},
			noMatch:   []string{"CN"},
		},
		{
			name:      "excluded list",
			spec:      "!US,CA",
			excluding: true,
			match:     []string{"MX"},
			noMatch:   []string{"US", "CA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseCountries(tt.spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Excluding != tt.excluding {
				t.Errorf("expected excluding=%v, got %v", tt.excluding, f.Excluding)
			}
			for _, c := range tt.match {
				if !f.Match(c) {
					t.Errorf("expected %s to match", c)
				}
			}
			for _, c := range tt.noMatch {
				if f.Match(c) {
					t.Errorf("expected %s not to match", c)
				}
			}
		})
	}
}

func TestParseCountries_Invalid(t *testing.T) {
	for _, spec := range []string{"", "!", ",,", "C", "CHN", "CN,12", "C?"} {
		t.Run(spec, func(t *testing.T) {
			if _, err := ParseCountries(spec); !errors.Is(err, ErrInvalidCountry) {
				t.Errorf("expected ErrInvalidCountry for %q, got %v", spec, err)
			}
		})
	}
}
