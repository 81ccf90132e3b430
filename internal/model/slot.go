package model

// DatePreference selects the coarse date range for meeting slots.
type DatePreference string

const (
	DateThisWeek  DatePreference = "this-week"
	DateNextWeek  DatePreference = "next-week"
	DateNextMonth DatePreference = "next-month"
)

// TimePreference selects the coarse time of day for meeting slots.
type TimePreference string

const (
	TimeMorning   TimePreference = "morning"
	TimeAfternoon TimePreference = "afternoon"
	TimeEvening   TimePreference = "evening"
	TimeAny       TimePreference = "any"
)

// MeetingSlot is a candidate meeting date/time pair. Slots are
// generated from a fixed lookup table without consulting any real
// calendar; they are pure values with no identity.
type MeetingSlot struct {
	// Date is the formatted day (e.g., "Monday, January 5").
	Date string `json:"date"`

	// Time is the formatted start time (e.g., "9:00 AM").
	Time string `json:"time"`
}
