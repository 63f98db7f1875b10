package ffdec

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Range selects frame numbers or character ids.
//
// On the command line a range is written as "5" (one value), "5-7"
// (inclusive) or "5-" (from 5 onwards). Several ranges are joined with commas.
type Range struct {
	from, to int // to < 0: no upper bound
}

// Single selects exactly n.
func Single(n int) Range {
	return Range{from: n, to: n}
}

// Between selects [from, to].
func Between(from, to int) Range {
	return Range{from: from, to: to}
}

// From selects n and everything after it.
func From(n int) Range {
	return Range{from: n, to: -1}
}

// ParseRange parses the command line syntax of a single range.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, errors.New("empty range")
	}

	fromStr, toStr, isRange := strings.Cut(s, "-")
	from, err := strconv.Atoi(fromStr)
	if err != nil || from < 0 {
		return Range{}, errors.Errorf("invalid range %q: bad start", s)
	}
	if !isRange {
		return Single(from), nil
	}
	if toStr == "" {
		return From(from), nil
	}
	to, err := strconv.Atoi(toStr)
	if err != nil || to < 0 {
		return Range{}, errors.Errorf("invalid range %q: bad end", s)
	}
	if to < from {
		return Range{}, errors.Errorf("invalid range %q: end before start", s)
	}
	return Between(from, to), nil
}

// ParseRanges parses a comma separated union of ranges, such as "4,7,9-12".
func ParseRanges(s string) (Ranges, error) {
	var rs Ranges
	for _, part := range strings.Split(s, ",") {
		r, err := ParseRange(part)
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	return rs, nil
}

// Contains reports whether n is selected.
func (r Range) Contains(n int) bool {
	return n >= r.from && (r.to < 0 || n <= r.to)
}

func (r Range) String() string {
	switch {
	case r.to < 0:
		return strconv.Itoa(r.from) + "-"
	case r.from == r.to:
		return strconv.Itoa(r.from)
	default:
		return strconv.Itoa(r.from) + "-" + strconv.Itoa(r.to)
	}
}

// Ranges is a union of ranges.
type Ranges []Range

// Contains reports whether any of the ranges selects n.
func (rs Ranges) Contains(n int) bool {
	for _, r := range rs {
		if r.Contains(n) {
			return true
		}
	}
	return false
}

func (rs Ranges) String() string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}
