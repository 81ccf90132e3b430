package model

import "time"

// Folder identifies which mailbox folder a message lives in.
type Folder string

const (
	FolderInbox   Folder = "inbox"
	FolderSent    Folder = "sent"
	FolderArchive Folder = "archive"
)

// Address is a display name paired with an email address.
type Address struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// String renders the address in RFC 5322 display form.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}

// Message is a single email message held in the local mailbox.
// All messages are local sample or simulated data; nothing is ever
// fetched from or delivered to a real mail server.
type Message struct {
	// ID is the unique identifier for this message.
	ID string `json:"id"`

	// From is the sender of the message.
	From Address `json:"from"`

	// To lists the recipient addresses in order.
	To []string `json:"to"`

	// Subject is the message subject line.
	Subject string `json:"subject"`

	// Body is the plain-text message content.
	Body string `json:"body"`

	// Date is when the message was sent or received.
	Date time.Time `json:"date"`

	// Read indicates whether the user has opened the message.
	Read bool `json:"read"`

	// Starred indicates whether the user has flagged the message.
	Starred bool `json:"starred"`

	// Labels holds user-visible labels (e.g., "work", "important").
	Labels []string `json:"labels,omitempty"`

	// Folder is the mailbox folder containing the message.
	Folder Folder `json:"folder"`

	// Raw holds the RFC 5322 source for messages composed locally.
	// Empty for sample and simulated inbound messages.
	Raw string `json:"raw,omitempty"`
}
