// Package schedule generates candidate meeting slots from coarse
// date/time preferences. The output is simulated: no calendar is
// consulted and no availability is checked, so slots are suggestions
// only, never authoritative.
package schedule

import (
	"fmt"
	"time"

	"github.com/darkmailhq/darkmail/internal/model"
)

// timeMenus maps each time preference to its fixed menu of start
// times. This is a static lookup table, not an availability query.
var timeMenus = map[model.TimePreference][]string{
	model.TimeMorning:   {"9:00 AM", "10:30 AM"},
	model.TimeAfternoon: {"1:00 PM", "2:30 PM"},
	model.TimeEvening:   {"4:00 PM", "5:30 PM"},
	model.TimeAny:       {"9:00 AM", "11:00 AM", "1:00 PM", "3:00 PM", "4:30 PM"},
}

// candidateDays is how many consecutive calendar days are considered
// from the anchor date before weekend filtering.
const candidateDays = 3

// Suggest enumerates candidate meeting slots for the given
// preferences, resolving relative ranges against now. Saturdays and
// Sundays are always skipped, even when the anchor lands on or near a
// weekend. Results are ordered date-major, then by menu order.
func Suggest(datePref model.DatePreference, timePref model.TimePreference, now time.Time) []model.MeetingSlot {
	anchor := anchorDate(datePref, now)

	times, ok := timeMenus[timePref]
	if !ok {
		times = timeMenus[model.TimeAny]
	}

	var slots []model.MeetingSlot
	for i := 0; i < candidateDays; i++ {
		day := anchor.AddDate(0, 0, i)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}

		date := formatDay(day)
		for _, t := range times {
			slots = append(slots, model.MeetingSlot{Date: date, Time: t})
		}
	}
	return slots
}

// anchorDate resolves a date preference to the first candidate day.
func anchorDate(pref model.DatePreference, now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch pref {
	case model.DateNextWeek:
		// The next Monday strictly after today. Sunday is one day
		// away; any other weekday waits for next week's Monday.
		days := 8 - int(today.Weekday())
		if today.Weekday() == time.Sunday {
			days = 1
		}
		return today.AddDate(0, 0, days)

	case model.DateNextMonth:
		return time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, today.Location())

	default:
		// this-week: start from tomorrow.
		return today.AddDate(0, 0, 1)
	}
}

// formatDay renders a slot date like "Monday, January 5".
func formatDay(t time.Time) string {
	return fmt.Sprintf("%s, %s %d", t.Weekday(), t.Month(), t.Day())
}
