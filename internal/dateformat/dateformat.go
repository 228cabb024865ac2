// Package dateformat translates moment.js-style date patterns, as used by
// Obsidian's daily-notes configuration, into Go reference-time layouts.
package dateformat

import (
	"sort"
	"strconv"
	"strings"
)

// tokenTable maps moment.js tokens onto Go layout fragments.
var tokenTable = map[string]string{
	"YYYY": "2006",    // 4-digit year
	"YY":   "06",      // 2-digit year
	"MMMM": "January", // full month name
	"MMM":  "Jan",     // short month name
	"MM":   "01",      // 2-digit month
	"M":    "1",       // month without leading zero
	"DD":   "02",      // 2-digit day
	"D":    "2",       // day without leading zero
	"dddd": "Monday",  // full weekday name
	"ddd":  "Mon",     // short weekday name
	"HH":   "15",      // 24-hour
	"hh":   "03",      // 12-hour, zero-padded
	"h":    "3",       // 12-hour
	"mm":   "04",      // minutes
	"ss":   "05",      // seconds
	"A":    "PM",      // meridiem, upper
	"a":    "pm",      // meridiem, lower
}

// tokensByLength holds the table keys sorted longest first so that YYYY is
// consumed before YY, dddd before ddd, and so on.
var tokensByLength = func() []string {
	keys := make([]string, 0, len(tokenTable))
	for k := range tokenTable {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// ToGoLayout converts a moment.js format pattern into a Go time layout.
//
// Replacement is done in two passes: every token occurrence is first
// rewritten to an opaque placeholder, then placeholders are rewritten to
// their layout fragments. A direct single pass would corrupt patterns where
// one token's replacement text contains characters that form another token
// (e.g. "January" contains "a"). Unrecognized characters pass through as
// literal separators; unknown tokens therefore render literally rather than
// failing.
func ToGoLayout(pattern string) string {
	result := pattern

	placeholders := make(map[string]string)
	counter := 0

	for _, token := range tokensByLength {
		if !strings.Contains(result, token) {
			continue
		}
		// NUL-framed markers cannot collide with any token text.
		ph := "\x00" + strconv.Itoa(counter) + "\x00"
		placeholders[ph] = tokenTable[token]
		result = strings.ReplaceAll(result, token, ph)
		counter++
	}

	for ph, layout := range placeholders {
		result = strings.ReplaceAll(result, ph, layout)
	}

	return result
}
