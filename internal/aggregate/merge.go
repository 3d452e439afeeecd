package aggregate

import (
	"math/big"
	"slices"
)

// Range is a half-open interval [Start, Start+Length) of addresses.
type Range struct {
	Start  *big.Int
	Length *big.Int
}

// End returns Start+Length.
func (r Range) End() *big.Int {
	return new(big.Int).Add(r.Start, r.Length)
}

// Merge sorts ranges by start address and coalesces adjacent ones into
// maximal ranges. The input slice is reordered in place.
func Merge(ranges []Range) ([]Range, error) {
	if len(ranges) == 0 {
		return nil, ErrEmptyInput
	}

	slices.SortStableFunc(ranges, func(a, b Range) int {
		return a.Start.Cmp(b.Start)
	})

	merged := make([]Range, 0, len(ranges))
	acc := Range{Start: ranges[0].Start, Length: new(big.Int).Set(ranges[0].Length)}
	accEnd := acc.End()
	for _, next := range ranges[1:] {
		if next.Start.Cmp(accEnd) > 0 {
			merged = append(merged, acc)
			acc = Range{Start: next.Start, Length: new(big.Int).Set(next.Length)}
			accEnd = acc.End()
			continue
		}
		// Adjacent, or overlapping in broken upstream data.
		if end := next.End(); end.Cmp(accEnd) > 0 {
			accEnd = end
			acc.Length.Sub(accEnd, acc.Start)
		}
	}
	merged = append(merged, acc)

	return merged, nil
}
