package refine

import "unicode/utf8"

// Range delimits the changed part of two lines as half-open byte ranges: old[LeftStart:LeftEnd]
// was replaced by new[RightStart:RightEnd]. LeftStart always equals RightStart because both lines
// share the prefix in front of the range.
type Range struct {
	LeftStart, LeftEnd   int
	RightStart, RightEnd int
}

// NoRange marks rows that don't carry a range.
var NoRange = Range{-1, -1, -1, -1}

// Ranges returns the range that remains after trimming the longest common prefix and the longest
// common suffix from old and new. The suffix never overlaps the prefix. If old and new are
// identical, the range is empty and located at the end of both lines.
//
// The boundaries never split a UTF-8 encoded character.
func Ranges(old, new string) Range {
	n := min(len(old), len(new))

	prefix := 0
	for prefix < n && old[prefix] == new[prefix] {
		prefix++
	}
	for prefix > 0 && (!runeStart(old, prefix) || !runeStart(new, prefix)) {
		prefix--
	}

	suffix := 0
	for suffix < n-prefix && old[len(old)-1-suffix] == new[len(new)-1-suffix] {
		suffix++
	}
	for suffix > 0 && !runeStart(old, len(old)-suffix) {
		suffix--
	}

	return Range{
		LeftStart:  prefix,
		LeftEnd:    len(old) - suffix,
		RightStart: prefix,
		RightEnd:   len(new) - suffix,
	}
}

func runeStart(s string, i int) bool {
	return i >= len(s) || utf8.RuneStart(s[i])
}
