package aggregate

import (
	"errors"
	"fmt"
	"math/big"
	"net/netip"
	"strconv"
)

// ErrUnknownFamily is returned by ParseFamily for tags other than ipv4 and ipv6.
var ErrUnknownFamily = errors.New("unknown address family")

// Family describes how one address family is laid out in the stats format:
// its tag in field 2, its bit width and how the count field is decoded.
type Family struct {
	Tag   string
	Width int

	// countIsPrefix is set when field 4 holds a prefix length rather than
	// an address count.
	countIsPrefix bool
}

var (
	IPv4 = Family{Tag: "ipv4", Width: 32}
	IPv6 = Family{Tag: "ipv6", Width: 128, countIsPrefix: true}
)

// ParseFamily resolves a family tag. An empty tag means ipv4.
func ParseFamily(tag string) (Family, error) {
	switch tag {
	case "", IPv4.Tag:
		return IPv4, nil
	case IPv6.Tag:
		return IPv6, nil
	default:
		return Family{}, fmt.Errorf("%w: %q", ErrUnknownFamily, tag)
	}
}

func (f Family) String() string {
	return f.Tag
}

// ParseAddr decodes a textual address of this family into an unsigned integer.
func (f Family) ParseAddr(s string) (*big.Int, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return nil, err
	}
	if addr.Zone() != "" {
		return nil, fmt.Errorf("address %q has a zone", s)
	}
	if f.Width == 32 {
		if !addr.Is4() {
			return nil, fmt.Errorf("address %q is not IPv4", s)
		}
		b := addr.As4()
		return new(big.Int).SetBytes(b[:]), nil
	}
	if !addr.Is6() || addr.Is4In6() {
		return nil, fmt.Errorf("address %q is not IPv6", s)
	}
	b := addr.As16()
	return new(big.Int).SetBytes(b[:]), nil
}

// ParseCount decodes field 4 into a positive number of addresses.
func (f Family) ParseCount(s string) (*big.Int, error) {
	if f.countIsPrefix {
		prefix, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		if prefix < 0 || prefix > f.Width {
			return nil, fmt.Errorf("prefix length %d out of range", prefix)
		}
		return new(big.Int).Lsh(big.NewInt(1), uint(f.Width-prefix)), nil
	}

	count, err := strconv.ParseUint(s, 10, f.Width)
	if err != nil {
		// 2^32 itself is a valid count for 0.0.0.0.
		c, ok := new(big.Int).SetString(s, 10)
		if !ok || c.Cmp(f.space()) != 0 {
			return nil, err
		}
		return c, nil
	}
	if count == 0 {
		return nil, errors.New("zero address count")
	}
	return new(big.Int).SetUint64(count), nil
}

// Addr renders an unsigned integer as an address of this family.
func (f Family) Addr(n *big.Int) netip.Addr {
	if f.Width == 32 {
		var b [4]byte
		n.FillBytes(b[:])
		return netip.AddrFrom4(b)
	}
	var b [16]byte
	n.FillBytes(b[:])
	return netip.AddrFrom16(b)
}

// space is the size of the whole address space, 2^Width.
func (f Family) space() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(f.Width))
}
