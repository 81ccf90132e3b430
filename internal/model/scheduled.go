package model

import "time"

// Cadence is how often a scheduled email repeats.
type Cadence string

const (
	CadenceOnce    Cadence = "once"
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

// ScheduledEmail is an email the user has queued for recurring or
// deferred delivery. Delivery itself is simulated like every other
// send in the application.
type ScheduledEmail struct {
	// ID is the unique identifier for this schedule entry.
	ID string `json:"id"`

	// To is the recipient address.
	To string `json:"to"`

	// Subject is the outgoing subject line.
	Subject string `json:"subject"`

	// Body is the outgoing message text.
	Body string `json:"body"`

	// Cadence is the repeat interval.
	Cadence Cadence `json:"cadence"`

	// Day is the weekday name (weekly) or day of month (monthly).
	Day string `json:"day,omitempty"`

	// Time is the send time in HH:MM form.
	Time string `json:"time"`

	// Enabled controls whether the schedule is active.
	Enabled bool `json:"enabled"`

	// CreatedAt is when the schedule was created.
	CreatedAt time.Time `json:"created_at"`
}
