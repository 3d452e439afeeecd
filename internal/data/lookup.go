package data

import "net/netip"

// CountryLookup resolves an address to the country a geolocation database
// places it in. It is used to cross-check registry delegations.
type CountryLookup interface {
	// LookupCountry returns the ISO-3166 country code for addr, or an empty
	// string when the database has no country for it.
	LookupCountry(addr netip.Addr) (string, error)

	// Close releases any resources held by the lookup implementation.
	Close() error
}
