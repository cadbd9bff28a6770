// Package charset provides an immutable byte-range set used by the pattern
// tree and the Thompson construction to represent character classes like
// [a-zA-Z0-9_] or their negation.
//
// A CharSet is a sorted, merged run of closed byte ranges plus an invert
// flag. Membership of a byte is (any range contains it) XOR invert. This
// mirrors the boundary-tracking idiom used elsewhere in this codebase for
// byte-level alphabet reduction, but a CharSet is a value in its own right
// rather than a 256-entry lookup table: it is stored once per character
// class in a pattern's arena and consulted by the Thompson builder, not
// hot-path per-byte lookup.
package charset

import "sort"

// Range is an inclusive byte range [Lo, Hi].
type Range struct {
	Lo, Hi byte
}

// Contains reports whether b falls within the range.
func (r Range) Contains(b byte) bool {
	return b >= r.Lo && b <= r.Hi
}

// CharSet is an immutable, normalized set of byte ranges with an optional
// inversion flag. Two CharSets built from the same logical membership
// function are not guaranteed to compare equal with == (ranges is a
// slice); use Equal.
type CharSet struct {
	ranges []Range
	invert bool
}

// New builds a CharSet from the given ranges, normalizing them: sorting by
// (Lo, Hi), merging overlapping or adjacent ranges, and deduplicating. The
// invert flag is applied as-is (set iff the source character class began
// with '^').
func New(ranges []Range, invert bool) CharSet {
	normalized := normalize(ranges)
	return CharSet{ranges: normalized, invert: invert}
}

// Single returns a CharSet containing exactly one byte.
func Single(b byte) CharSet {
	return CharSet{ranges: []Range{{Lo: b, Hi: b}}}
}

// normalize sorts ranges by (Lo, Hi) and merges any two ranges [a,b] and
// [c,d] where c <= b+1 into [a, max(b,d)].
func normalize(in []Range) []Range {
	if len(in) == 0 {
		return nil
	}

	cp := make([]Range, len(in))
	copy(cp, in)
	sort.Slice(cp, func(i, j int) bool {
		if cp[i].Lo != cp[j].Lo {
			return cp[i].Lo < cp[j].Lo
		}
		return cp[i].Hi < cp[j].Hi
	})

	out := make([]Range, 0, len(cp))
	cur := cp[0]
	for _, r := range cp[1:] {
		// c <= b+1, guarding the b==0xFF overflow case.
		adjacent := r.Lo <= cur.Hi || (cur.Hi != 0xFF && r.Lo == cur.Hi+1)
		if adjacent {
			if r.Hi > cur.Hi {
				cur.Hi = r.Hi
			}
			continue
		}
		out = append(out, cur)
		cur = r
	}
	out = append(out, cur)
	return out
}

// Contains reports whether b is a member of the set, accounting for the
// invert flag.
func (c CharSet) Contains(b byte) bool {
	in := c.containsRaw(b)
	return in != c.invert
}

func (c CharSet) containsRaw(b byte) bool {
	// Binary search over sorted, non-overlapping ranges.
	lo, hi := 0, len(c.ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		r := c.ranges[mid]
		switch {
		case b < r.Lo:
			hi = mid
		case b > r.Hi:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

// Ranges returns a copy of the normalized, non-inverted ranges backing the
// set. Callers that need full byte-level membership including inversion
// should use Contains or Bytes.
func (c CharSet) Ranges() []Range {
	out := make([]Range, len(c.ranges))
	copy(out, c.ranges)
	return out
}

// Invert reports whether the set negates its ranges.
func (c CharSet) Invert() bool {
	return c.invert
}

// Bytes returns every byte value for which Contains returns true. Used by
// the Thompson construction, which expands a CharSet into one transition
// per member byte.
func (c CharSet) Bytes() []byte {
	var out []byte
	for b := 0; b < 256; b++ {
		if c.Contains(byte(b)) {
			out = append(out, byte(b))
		}
	}
	return out
}

// IsEmpty reports whether the set matches no byte at all.
func (c CharSet) IsEmpty() bool {
	if !c.invert {
		return len(c.ranges) == 0
	}
	// Inverted and covering all of 0..255 means empty.
	return coversAll(c.ranges)
}

func coversAll(ranges []Range) bool {
	if len(ranges) != 1 {
		return false
	}
	return ranges[0].Lo == 0 && ranges[0].Hi == 0xFF
}

// Equal reports whether two CharSets have identical normalized membership.
func (c CharSet) Equal(o CharSet) bool {
	if c.invert != o.invert {
		return false
	}
	if len(c.ranges) != len(o.ranges) {
		return false
	}
	for i := range c.ranges {
		if c.ranges[i] != o.ranges[i] {
			return false
		}
	}
	return true
}
