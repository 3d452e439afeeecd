package data

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/oschwald/geoip2-golang"
)

// MmdbReader implements CountryLookup using a MaxMind country database.
type MmdbReader struct {
	db *geoip2.Reader
}

// NewMmdbReader opens the MMDB file at the given path.
func NewMmdbReader(path string) (*MmdbReader, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MMDB file: %w", err)
	}
	return &MmdbReader{db: db}, nil
}

// LookupCountry returns the ISO-3166 country code for addr.
func (r *MmdbReader) LookupCountry(addr netip.Addr) (string, error) {
	record, err := r.db.Country(net.IP(addr.Unmap().AsSlice()))
	if err != nil {
		return "", fmt.Errorf("country lookup failed: %w", err)
	}
	if record.Country.IsoCode != "" {
		return record.Country.IsoCode, nil
	}
	// Anycast and satellite ranges only carry a registered country.
	return record.RegisteredCountry.IsoCode, nil
}

// Close releases the MMDB reader resources.
func (r *MmdbReader) Close() error {
	return r.db.Close()
}
