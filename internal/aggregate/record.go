package aggregate

import (
	"errors"
	"iter"
	"math/big"
	"strings"
)

const (
	fieldRegistry = iota
	fieldCountry
	fieldFamily
	fieldStart
	fieldCount

	minFields = 7
)

// Record is one delegation line of a stats exchange file.
type Record struct {
	Registry string
	Country  string
	Family   Family
	Start    *big.Int
	Extent   *big.Int
	Line     int
}

// Range returns the address range covered by the record.
func (r Record) Range() Range {
	return Range{Start: r.Start, Length: r.Extent}
}

// Records lazily yields the delegation records of family fam found in raw.
// Comments, blank lines, summary lines and other families are skipped.
// Iteration stops at the first malformed line, which is yielded as a
// *MalformedInputError.
func Records(raw string, fam Family) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		line := 0
		for text := range strings.SplitSeq(raw, "\n") {
			line++
			text = strings.TrimSuffix(text, "\r")
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}
			fields := strings.Split(text, "|")
			if len(fields) < minFields || fields[fieldFamily] != fam.Tag {
				continue
			}

			rec, err := parseRecord(fields, fam, line)
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func parseRecord(fields []string, fam Family, line int) (Record, error) {
	start, err := fam.ParseAddr(fields[fieldStart])
	if err != nil {
		return Record{}, &MalformedInputError{Line: line, Field: "start", Err: err}
	}
	extent, err := fam.ParseCount(fields[fieldCount])
	if err != nil {
		return Record{}, &MalformedInputError{Line: line, Field: "count", Err: err}
	}
	if new(big.Int).Add(start, extent).Cmp(fam.space()) > 0 {
		return Record{}, &MalformedInputError{
			Line:  line,
			Field: "count",
			Err:   errors.New("range exceeds address space"),
		}
	}

	return Record{
		Registry: fields[fieldRegistry],
		Country:  fields[fieldCountry],
		Family:   fam,
		Start:    start,
		Extent:   extent,
		Line:     line,
	}, nil
}
