// Package registry knows the Regional Internet Registries and where their
// delegation statistics are published, and fetches them.
package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Registry identifies a Regional Internet Registry, or All of them.
type Registry int

const (
	All Registry = iota
	AFRINIC
	APNIC
	ARIN
	LACNIC
	RIPE
)

// ErrUnknown is returned by Parse for unrecognised registry names.
var ErrUnknown = errors.New("unknown registry")

// Registries lists the concrete registries in the order their data is
// concatenated for All.
var Registries = []Registry{AFRINIC, APNIC, ARIN, LACNIC, RIPE}

var names = map[Registry]string{
	All:     "All",
	AFRINIC: "AFRINIC",
	APNIC:   "APNIC",
	ARIN:    "ARIN",
	LACNIC:  "LACNIC",
	RIPE:    "RIPE",
}

var statsURLs = map[Registry]string{
	AFRINIC: "https://ftp.afrinic.net/pub/stats/afrinic/delegated-afrinic-latest",
	APNIC:   "https://ftp.apnic.net/stats/apnic/delegated-apnic-latest",
	ARIN:    "https://ftp.arin.net/pub/stats/arin/delegated-arin-extended-latest",
	LACNIC:  "https://ftp.lacnic.net/pub/stats/lacnic/delegated-lacnic-latest",
	RIPE:    "https://ftp.ripe.net/pub/stats/ripencc/delegated-ripencc-latest",
}

// Parse resolves a registry name case-insensitively. "RIPENCC" is accepted
// as an alias for RIPE and the empty string means All.
func Parse(name string) (Registry, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "ALL":
		return All, nil
	case "AFRINIC":
		return AFRINIC, nil
	case "APNIC":
		return APNIC, nil
	case "ARIN":
		return ARIN, nil
	case "LACNIC":
		return LACNIC, nil
	case "RIPE", "RIPENCC":
		return RIPE, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
}

func (r Registry) String() string {
	if name, ok := names[r]; ok {
		return name
	}
	return fmt.Sprintf("Registry(%d)", int(r))
}

// IsAll reports whether r stands for every registry.
func (r Registry) IsAll() bool {
	return r == All
}

// StatsURL returns the well-known URL of the registry's latest delegation
// file. All has no URL of its own.
func (r Registry) StatsURL() string {
	return statsURLs[r]
}

// Expand returns the concrete registries r stands for.
func (r Registry) Expand() []Registry {
	if r.IsAll() {
		return Registries
	}
	return []Registry{r}
}
