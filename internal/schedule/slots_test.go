package schedule_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/schedule"
)

// mustLocalDate builds a local midnight date for assertions.
func mustLocalDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func TestSuggestNextWeekMorning(t *testing.T) {
	// Wednesday, January 10, 2024: next Monday is January 15.
	now := mustLocalDate(2024, time.January, 10).Add(9 * time.Hour)

	slots := schedule.Suggest(model.DateNextWeek, model.TimeMorning, now)

	// Monday through Wednesday, two morning times each, date-major.
	require.Len(t, slots, 6)
	want := []model.MeetingSlot{
		{Date: "Monday, January 15", Time: "9:00 AM"},
		{Date: "Monday, January 15", Time: "10:30 AM"},
		{Date: "Tuesday, January 16", Time: "9:00 AM"},
		{Date: "Tuesday, January 16", Time: "10:30 AM"},
		{Date: "Wednesday, January 17", Time: "9:00 AM"},
		{Date: "Wednesday, January 17", Time: "10:30 AM"},
	}
	assert.Equal(t, want, slots)
}

func TestSuggestNextWeekFromSunday(t *testing.T) {
	// Sunday, January 14, 2024: "next Monday" is the very next day.
	now := mustLocalDate(2024, time.January, 14)

	slots := schedule.Suggest(model.DateNextWeek, model.TimeAfternoon, now)

	require.NotEmpty(t, slots)
	assert.Equal(t, "Monday, January 15", slots[0].Date)
	assert.Equal(t, "1:00 PM", slots[0].Time)
}

func TestSuggestThisWeekSkipsWeekend(t *testing.T) {
	// Friday, January 12, 2024: tomorrow is Saturday, so only the
	// following Monday survives the weekend filter.
	now := mustLocalDate(2024, time.January, 12)

	slots := schedule.Suggest(model.DateThisWeek, model.TimeEvening, now)

	require.Len(t, slots, 2)
	for _, s := range slots {
		assert.Equal(t, "Monday, January 15", s.Date)
		assert.False(t, strings.HasPrefix(s.Date, "Saturday"))
	}
	assert.Equal(t, []string{"4:00 PM", "5:30 PM"}, []string{slots[0].Time, slots[1].Time})
}

func TestSuggestNextMonthAnchor(t *testing.T) {
	// From mid-January the anchor is February 1 (a Thursday in 2024);
	// Saturday, February 3 is skipped.
	now := mustLocalDate(2024, time.January, 10)

	slots := schedule.Suggest(model.DateNextMonth, model.TimeAny, now)

	require.Len(t, slots, 10)
	assert.Equal(t, "Thursday, February 1", slots[0].Date)
	assert.Equal(t, "Friday, February 2", slots[5].Date)
	for _, s := range slots {
		assert.NotContains(t, s.Date, "Saturday")
		assert.NotContains(t, s.Date, "Sunday")
	}
}

func TestSuggestAnyTimeMenu(t *testing.T) {
	now := mustLocalDate(2024, time.January, 10)

	slots := schedule.Suggest(model.DateNextWeek, model.TimeAny, now)

	require.Len(t, slots, 15)
	perDay := []string{"9:00 AM", "11:00 AM", "1:00 PM", "3:00 PM", "4:30 PM"}
	for i, s := range slots[:5] {
		assert.Equal(t, perDay[i], s.Time)
		assert.Equal(t, "Monday, January 15", s.Date)
	}
}

func TestSuggestUnknownTimePreferenceFallsBack(t *testing.T) {
	now := mustLocalDate(2024, time.January, 10)

	slots := schedule.Suggest(model.DateNextWeek, model.TimePreference("brunch"), now)

	// Unknown preferences use the full-day menu.
	require.Len(t, slots, 15)
}

func TestSuggestNeverEmpty(t *testing.T) {
	// Every weekday start yields at least one business day within the
	// three-day window for every preference.
	for day := 8; day <= 14; day++ {
		now := mustLocalDate(2024, time.January, day)
		for _, pref := range []model.DatePreference{
			model.DateThisWeek, model.DateNextWeek, model.DateNextMonth,
		} {
			slots := schedule.Suggest(pref, model.TimeMorning, now)
			assert.NotEmpty(t, slots, "pref %s from %s", pref, now.Weekday())
		}
	}
}
