package model

import "time"

// NotificationKind identifies what produced a notification.
type NotificationKind string

const (
	NotifyNewMail    NotificationKind = "new_mail"
	NotifyAutoReply  NotificationKind = "auto_reply"
	NotifySent       NotificationKind = "sent"
	NotifyExtraction NotificationKind = "extraction"
)

// Notification is a transient alert surfaced in the status area,
// standing in for the original client's toast popups.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// Kind identifies the producing subsystem.
	Kind NotificationKind `json:"kind"`

	// MessageID links the notification to a mailbox message, if any.
	MessageID string `json:"message_id,omitempty"`

	// Text is the human-readable notification body.
	Text string `json:"text"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at"`
}
