// Package extract derives calendar events from message text using
// ordered regex grammar cascades. Extraction is heuristic best-effort
// parsing: results are approximate by design and never guaranteed
// correct.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/darkmailhq/darkmail/internal/model"
)

// meetingKeywords gates extraction: a message matching none of these
// in subject or body yields no event at all.
var meetingKeywords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmeeting\b`),
	regexp.MustCompile(`(?i)\bappointment\b`),
	regexp.MustCompile(`(?i)\bschedule\b`),
	regexp.MustCompile(`(?i)\bcall\b`),
	regexp.MustCompile(`(?i)\bconference\b`),
	regexp.MustCompile(`(?i)\bwebinar\b`),
	regexp.MustCompile(`(?i)\bdeadline\b`),
	regexp.MustCompile(`(?i)\bdue\s+date\b`),
	regexp.MustCompile(`(?i)\breminder\b`),
}

// titlePatterns tries to find a more specific event title than the
// raw subject line.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:meeting|call|discussion|conference|appointment)\s+(?:about|regarding|re:|on|for)\s+([^.!?\n]+)`),
	regexp.MustCompile(`(?i)(?:meeting|call|discussion|conference|appointment):\s+([^.!?\n]+)`),
}

// categoryFamilies is the ordered keyword-family classifier applied to
// the message body; the first matching family wins and no match means
// CategoryOther.
var categoryFamilies = []struct {
	pattern  *regexp.Regexp
	category model.Category
}{
	{regexp.MustCompile(`(?i)work|project|client|meeting|deadline|report`), model.CategoryWork},
	{regexp.MustCompile(`(?i)doctor|medical|health|appointment|checkup`), model.CategoryHealth},
	{regexp.MustCompile(`(?i)family|mom|dad|sister|brother|parent`), model.CategoryFamily},
	{regexp.MustCompile(`(?i)travel|flight|trip|vacation`), model.CategoryTravel},
	{regexp.MustCompile(`(?i)class|course|lecture|study|learn`), model.CategoryEducation},
	{regexp.MustCompile(`(?i)lunch|dinner|coffee|movie|friend`), model.CategoryPersonal},
}

// descriptionLimit caps how much body text is copied into an event
// description.
const descriptionLimit = 200

// Events scans the given messages and returns the calendar events
// found in them. Relative dates ("tomorrow") resolve against now.
//
// At most one event is produced per message, and its ID is derived
// solely from the message ID, so re-running extraction over the same
// messages always yields the same IDs regardless of wall-clock time.
func Events(msgs []model.Message, now time.Time) []model.CalendarEvent {
	var events []model.CalendarEvent
	for _, msg := range msgs {
		if ev, ok := FromMessage(msg, now); ok {
			events = append(events, ev)
		}
	}
	return events
}

// FromMessage attempts to extract a single calendar event from one
// message. It returns false when the message has no meeting keyword
// or no recognizable date.
func FromMessage(msg model.Message, now time.Time) (model.CalendarEvent, bool) {
	if !hasMeetingKeyword(msg) {
		return model.CalendarEvent{}, false
	}

	text := msg.Subject + " " + msg.Body

	date, ok := firstMatch(text, dateGrammars(now))
	if !ok {
		return model.CalendarEvent{}, false
	}

	// Time extraction is an independent pass; no match means all-day.
	eventTime, hasTime := firstMatch(text, timeGrammars)

	return model.CalendarEvent{
		ID:              EventID(msg.ID),
		Title:           extractTitle(text, msg.Subject),
		Description:     describe(msg),
		Date:            date,
		Time:            eventTime,
		IsAllDay:        !hasTime,
		ReminderMinutes: model.DefaultReminderMinutes,
		Category:        Categorize(msg.Body),
		SourceMessageID: msg.ID,
		SourceSubject:   msg.Subject,
	}, true
}

// EventID returns the stable identifier for an event extracted from
// the given message.
func EventID(messageID string) string {
	return "email-event-" + messageID
}

// Categorize classifies body text into a topic category using the
// ordered keyword families. Best effort only.
func Categorize(body string) model.Category {
	for _, f := range categoryFamilies {
		if f.pattern.MatchString(body) {
			return f.category
		}
	}
	return model.CategoryOther
}

// hasMeetingKeyword reports whether the subject or body contains any
// meeting-related keyword.
func hasMeetingKeyword(msg model.Message) bool {
	for _, kw := range meetingKeywords {
		if kw.MatchString(msg.Subject) || kw.MatchString(msg.Body) {
			return true
		}
	}
	return false
}

// extractTitle looks for a specific "meeting about X" style title and
// falls back to the message subject.
func extractTitle(text, subject string) string {
	for _, p := range titlePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return subject
}

// describe builds the event description from the source message.
func describe(msg model.Message) string {
	body := msg.Body
	if len(body) > descriptionLimit {
		body = body[:descriptionLimit] + "..."
	}
	return "Extracted from email: " + msg.Subject + "\n\n" + body
}
