// Package aggregate turns RIR delegation statistics into a minimal,
// non-overlapping list of CIDR blocks for a set of countries.
//
// The pipeline is pure: parse records of one address family, keep those
// passing a CountryFilter, merge contiguous ranges and split each merged
// range into aligned power-of-two blocks.
package aggregate

import (
	"log/slog"
)

// Result is the outcome of one aggregation.
type Result struct {
	Family  Family
	Blocks  []Block
	Records int
	Ranges  int
}

// Run executes the full pipeline and returns the blocks in ascending order.
func Run(raw string, fam Family, filter CountryFilter) (*Result, error) {
	var ranges []Range
	for rec, err := range Records(raw, fam) {
		if err != nil {
			return nil, err
		}
		if filter.Match(rec.Country) {
			ranges = append(ranges, rec.Range())
		}
	}
	records := len(ranges)

	merged, err := Merge(ranges)
	if err != nil {
		return nil, err
	}

	var blocks []Block
	for _, r := range merged {
		blocks = append(blocks, Subdivide(r, fam.Width)...)
	}

	slog.Debug("aggregation finished",
		"family", fam.Tag,
		"records", records,
		"ranges", len(merged),
		"blocks", len(blocks),
	)

	return &Result{
		Family:  fam,
		Blocks:  blocks,
		Records: records,
		Ranges:  len(merged),
	}, nil
}

// Aggregate runs the pipeline and renders the route table as text.
func Aggregate(raw string, fam Family, filter CountryFilter) (string, error) {
	res, err := Run(raw, fam, filter)
	if err != nil {
		return "", err
	}
	return Format(res.Blocks, fam), nil
}
