package extract_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkmailhq/darkmail/internal/extract"
	"github.com/darkmailhq/darkmail/internal/model"
)

// fixedNow is a Wednesday, so relative-date arithmetic is predictable.
var fixedNow = time.Date(2024, 1, 10, 15, 30, 0, 0, time.Local)

func msg(id, subject, body string) model.Message {
	return model.Message{ID: id, Subject: subject, Body: body}
}

func TestFromMessageExplicitDate(t *testing.T) {
	m := msg("1", "Planning", "Let's have a meeting on January 5, 2024 at 3:00 PM")

	ev, ok := extract.FromMessage(m, fixedNow)
	require.True(t, ok)

	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local), ev.Date)
	assert.Equal(t, "3:00 PM", ev.Time)
	assert.False(t, ev.IsAllDay)
	assert.Equal(t, "email-event-1", ev.ID)
	assert.Equal(t, "1", ev.SourceMessageID)
	assert.Equal(t, model.DefaultReminderMinutes, ev.ReminderMinutes)
}

func TestFromMessageRelativeDate(t *testing.T) {
	m := msg("2", "Quick call", "Can we do a call tomorrow?")

	ev, ok := extract.FromMessage(m, fixedNow)
	require.True(t, ok)

	assert.Equal(t, time.Date(2024, 1, 11, 0, 0, 0, 0, time.Local), ev.Date)
	assert.True(t, ev.IsAllDay, "no time grammar matched, so all-day")
	assert.Empty(t, ev.Time)
}

func TestFromMessageKeywordGate(t *testing.T) {
	// "lunch" suggests personal, but without a meeting keyword the
	// message is skipped entirely.
	m := msg("3", "Thanks!", "Thanks for lunch yesterday!")

	_, ok := extract.FromMessage(m, fixedNow)
	assert.False(t, ok)
}

func TestFromMessageNoDate(t *testing.T) {
	m := msg("4", "Meeting notes", "Great meeting everyone, see you around.")

	_, ok := extract.FromMessage(m, fixedNow)
	assert.False(t, ok, "keyword present but no date grammar matched")
}

func TestDateGrammars(t *testing.T) {
	cases := []struct {
		name string
		body string
		want time.Time
	}{
		{
			name: "day-first month name",
			body: "The conference runs from 5 March, 2024 onwards.",
			want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local),
		},
		{
			name: "ordinal suffix",
			body: "Project deadline is January 21st, 2024.",
			want: time.Date(2024, 1, 21, 0, 0, 0, 0, time.Local),
		},
		{
			name: "slash with four-digit year",
			body: "Reminder: review due 3/15/2024.",
			want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local),
		},
		{
			name: "two-digit year resolves to this century",
			body: "Reminder: review due 03/15/23.",
			want: time.Date(2023, 3, 15, 0, 0, 0, 0, time.Local),
		},
		{
			name: "iso date",
			body: "Webinar scheduled for 2024-02-07.",
			want: time.Date(2024, 2, 7, 0, 0, 0, 0, time.Local),
		},
		{
			name: "next week",
			body: "Let's schedule the review for next week.",
			want: time.Date(2024, 1, 17, 0, 0, 0, 0, time.Local),
		},
		{
			name: "next month keeps day of month",
			body: "The webinar repeats next month.",
			want: time.Date(2024, 2, 10, 0, 0, 0, 0, time.Local),
		},
		{
			name: "month-name grammar outranks slash grammar",
			body: "Meeting on January 5, 2024, rescheduled from 12/25/23.",
			want: time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local),
		},
		{
			name: "first occurrence wins within a grammar",
			body: "Meeting on January 5, 2024 or January 9, 2024 if needed.",
			want: time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, ok := extract.FromMessage(msg("d", "Heads up", tc.body), fixedNow)
			require.True(t, ok)
			assert.Equal(t, tc.want, ev.Date)
		})
	}
}

func TestTimeGrammars(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"hour minute pm", "meeting on 2024-02-07 at 3:45 pm", "3:45 PM"},
		{"hour minute no period defaults to AM", "meeting on 2024-02-07 at 9:15", "9:15 AM"},
		{"bare hour", "call on 2024-02-07 around 4pm", "4:00 PM"},
		{"noon", "deadline lunch call 2024-02-07 at noon", "12:00 PM"},
		{"midnight", "deadline is 2024-02-07 at midnight", "12:00 AM"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, ok := extract.FromMessage(msg("t", "Note", tc.body), fixedNow)
			require.True(t, ok)
			assert.Equal(t, tc.want, ev.Time)
			assert.False(t, ev.IsAllDay)
		})
	}
}

func TestExtractTitle(t *testing.T) {
	m := msg("5", "FYI", "We need a meeting about the Q3 budget on 2024-02-07. Bring numbers.")

	ev, ok := extract.FromMessage(m, fixedNow)
	require.True(t, ok)
	assert.Equal(t, "the Q3 budget on 2024-02-07", ev.Title)

	// Without a title pattern the subject is used as-is.
	m2 := msg("6", "Design Review", "Reminder: 2024-02-07.")
	ev2, ok := extract.FromMessage(m2, fixedNow)
	require.True(t, ok)
	assert.Equal(t, "Design Review", ev2.Title)
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		body string
		want model.Category
	}{
		{"Quarterly report for the client project", model.CategoryWork},
		{"Doctor appointment and checkup", model.CategoryHealth},
		{"Dinner with mom and dad", model.CategoryFamily},
		{"Your flight itinerary for the trip", model.CategoryTravel},
		{"The lecture course starts soon", model.CategoryEducation},
		{"Coffee with a friend downtown", model.CategoryPersonal},
		{"See you soon", model.CategoryOther},
		// "meeting" belongs to the work family, which is checked first.
		{"Family meeting at the doctor's office", model.CategoryWork},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, extract.Categorize(tc.body), "body: %s", tc.body)
	}
}

func TestEventsIdempotentAcrossClocks(t *testing.T) {
	msgs := []model.Message{
		msg("a", "Team sync", "Weekly call tomorrow at 10am."),
		msg("b", "Checkup", "Doctor appointment on 2024-02-07 at noon."),
		msg("c", "Hello", "No scheduling content here."),
	}

	first := extract.Events(msgs, fixedNow)
	second := extract.Events(msgs, fixedNow.Add(48*time.Hour))

	require.Len(t, first, 2)
	require.Len(t, second, 2)

	ids := func(events []model.CalendarEvent) map[string]bool {
		set := make(map[string]bool, len(events))
		for _, ev := range events {
			set[ev.ID] = true
		}
		return set
	}

	// The extracted IDs are derived from message content only, so two
	// passes at different wall-clock times are set-equal by ID even
	// though the relative date itself moved.
	assert.Equal(t, ids(first), ids(second))
}

func TestDescriptionTruncation(t *testing.T) {
	long := "meeting on 2024-02-07. "
	for len(long) < 300 {
		long += "More detail about the agenda items. "
	}

	ev, ok := extract.FromMessage(msg("7", "Agenda", long), fixedNow)
	require.True(t, ok)
	assert.Contains(t, ev.Description, "Extracted from email: Agenda")
	assert.LessOrEqual(t, len(ev.Description), len("Extracted from email: Agenda\n\n")+203)
}
