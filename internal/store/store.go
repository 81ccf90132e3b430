package store

import (
	"context"
	"time"

	"github.com/darkmailhq/darkmail/internal/model"
)

// MessageFilter controls filtering, sorting, and pagination for
// message queries. Nil pointer fields mean "no constraint".
type MessageFilter struct {
	Folder  *model.Folder
	Label   *string
	Unread  *bool
	Starred *bool
	Query   *string // matches sender, subject, and body
	SortAsc bool    // default is newest first
	Limit   int
	Offset  int
}

// EventFilter controls filtering for calendar event queries.
type EventFilter struct {
	Category         *model.Category
	From             *time.Time
	To               *time.Time
	IncludeCompleted bool
}

// Store defines the persistence interface for messages, automation
// rules, calendar events, scheduled emails, and notifications.
type Store interface {
	// === Messages ===

	SaveMessage(ctx context.Context, msg model.Message) error
	SaveMessages(ctx context.Context, msgs []model.Message) error
	GetMessages(ctx context.Context, filter MessageFilter) ([]model.Message, error)
	GetMessageByID(ctx context.Context, id string) (*model.Message, error)
	UpdateMessage(ctx context.Context, msg model.Message) error
	DeleteMessage(ctx context.Context, id string) error
	CountMessages(ctx context.Context, filter MessageFilter) (int, error)

	// AllMessages returns every stored message, newest first. It is
	// what the assistant reasons over.
	AllMessages(ctx context.Context) ([]model.Message, error)

	// === Automation rules ===

	CreateRule(ctx context.Context, rule model.Rule) error
	UpdateRule(ctx context.Context, rule model.Rule) error
	DeleteRule(ctx context.Context, id string) error
	GetRules(ctx context.Context) ([]model.Rule, error)

	// === Calendar events ===

	UpsertEvent(ctx context.Context, ev model.CalendarEvent) error
	GetEvents(ctx context.Context, filter EventFilter) ([]model.CalendarEvent, error)
	GetEventByID(ctx context.Context, id string) (*model.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error
	ToggleEventCompleted(ctx context.Context, id string) error

	// === Scheduled emails ===

	CreateScheduledEmail(ctx context.Context, s model.ScheduledEmail) error
	UpdateScheduledEmail(ctx context.Context, s model.ScheduledEmail) error
	DeleteScheduledEmail(ctx context.Context, id string) error
	GetScheduledEmails(ctx context.Context) ([]model.ScheduledEmail, error)

	// === Notifications ===

	CreateNotification(ctx context.Context, n model.Notification) error
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}
