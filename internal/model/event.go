package model

import "time"

// Category classifies a calendar event by topic.
type Category string

const (
	CategoryWork      Category = "work"
	CategoryPersonal  Category = "personal"
	CategoryFamily    Category = "family"
	CategoryHealth    Category = "health"
	CategoryTravel    Category = "travel"
	CategoryEducation Category = "education"
	CategoryOther     Category = "other"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryWork, CategoryPersonal, CategoryFamily, CategoryHealth,
	CategoryTravel, CategoryEducation, CategoryOther,
}

// DefaultReminderMinutes is the reminder lead time applied to events
// when the user has not chosen one.
const DefaultReminderMinutes = 30

// CalendarEvent is a calendar entry, either created by the user or
// extracted heuristically from message text. Extracted events are
// derived data: their ID is computed from the source message so that
// repeated extraction passes never duplicate them.
type CalendarEvent struct {
	// ID is the unique identifier. Extracted events use
	// "email-event-<messageID>"; user events use a fresh UUID.
	ID string `json:"id"`

	// Title is the event summary line.
	Title string `json:"title"`

	// Description is the longer event text.
	Description string `json:"description"`

	// Date is the calendar day of the event.
	Date time.Time `json:"date"`

	// Time is the formatted start time (e.g., "3:00 PM").
	// Empty when the event is all-day.
	Time string `json:"time,omitempty"`

	// IsAllDay reports whether no start time was found or given.
	IsAllDay bool `json:"is_all_day"`

	// ReminderMinutes is the reminder lead time in minutes.
	ReminderMinutes int `json:"reminder_minutes"`

	// Category is the best-effort topic classification. Extraction is
	// heuristic and never guaranteed accurate.
	Category Category `json:"category"`

	// SourceMessageID links an extracted event to its message.
	SourceMessageID string `json:"source_message_id,omitempty"`

	// SourceSubject is the subject of the source message.
	SourceSubject string `json:"source_subject,omitempty"`

	// Completed marks the event as done.
	Completed bool `json:"completed"`
}
