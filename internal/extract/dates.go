package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthNames = "January|February|March|April|May|June|July|August|September|October|November|December"

var (
	monthFirstPattern = regexp.MustCompile(`(?i)\b(` + monthNames + `)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	dayFirstPattern   = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(` + monthNames + `),?\s+(\d{4})\b`)
	slashPattern      = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`)
	isoPattern        = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	relativePattern   = regexp.MustCompile(`(?i)\b(tomorrow|next\s+week|next\s+month)\b`)
)

// monthByName maps a lowercase month name to its time.Month value.
var monthByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// dateGrammars returns the ordered date grammar cascade. Order is the
// precedence rule: the first grammar that matches anywhere in the text
// wins, and grammars later in the list are never consulted.
func dateGrammars(now time.Time) []grammar[time.Time] {
	return []grammar[time.Time]{
		{
			// Month DD, YYYY
			pattern: monthFirstPattern,
			parse: func(m []string) (time.Time, bool) {
				return civilDate(m[3], m[1], m[2])
			},
		},
		{
			// DD Month, YYYY
			pattern: dayFirstPattern,
			parse: func(m []string) (time.Time, bool) {
				return civilDate(m[3], m[2], m[1])
			},
		},
		{
			// MM/DD/YY or MM/DD/YYYY
			pattern: slashPattern,
			parse: func(m []string) (time.Time, bool) {
				month, _ := strconv.Atoi(m[1])
				day, _ := strconv.Atoi(m[2])
				year, _ := strconv.Atoi(m[3])
				if year < 100 {
					// Two-digit years are always this century: 03/15/23
					// means 2023, never 1923.
					year += 2000
				}
				return makeDate(year, time.Month(month), day)
			},
		},
		{
			// YYYY-MM-DD
			pattern: isoPattern,
			parse: func(m []string) (time.Time, bool) {
				year, _ := strconv.Atoi(m[1])
				month, _ := strconv.Atoi(m[2])
				day, _ := strconv.Atoi(m[3])
				return makeDate(year, time.Month(month), day)
			},
		},
		{
			// Relative terms resolved against the supplied clock.
			pattern: relativePattern,
			parse: func(m []string) (time.Time, bool) {
				today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
				switch normalizeSpace(strings.ToLower(m[1])) {
				case "tomorrow":
					return today.AddDate(0, 0, 1), true
				case "next week":
					return today.AddDate(0, 0, 7), true
				case "next month":
					// Same day of month, next calendar month. Overflow
					// (e.g., Jan 31 -> Mar 3) normalizes like the source.
					return today.AddDate(0, 1, 0), true
				}
				return time.Time{}, false
			},
		},
	}
}

// civilDate builds a date from string year, month-name, and day captures.
func civilDate(yearStr, monthName, dayStr string) (time.Time, bool) {
	month, ok := monthByName[strings.ToLower(monthName)]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	return makeDate(year, month, day)
}

// makeDate constructs a local midnight date, rejecting out-of-range
// month/day components instead of letting them normalize.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local), true
}

// normalizeSpace collapses internal whitespace runs to single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
