package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/store"
	"github.com/darkmailhq/darkmail/tests/testutil"
)

func newMessage(id string, folder model.Folder, date time.Time) model.Message {
	return model.Message{
		ID:      id,
		From:    model.Address{Name: "Alex Johnson", Email: "alex.johnson@example.com"},
		To:      []string{"user@example.com"},
		Subject: "Subject " + id,
		Body:    "Body of " + id,
		Date:    date,
		Labels:  []string{"work"},
		Folder:  folder,
	}
}

func TestMessageRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	msg := newMessage("m1", model.FolderInbox, time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC))
	msg.Starred = true
	require.NoError(t, s.SaveMessage(ctx, msg))

	got, err := s.GetMessageByID(ctx, "m1")
	require.NoError(t, err)

	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, msg.From, got.From)
	assert.Equal(t, msg.To, got.To)
	assert.Equal(t, msg.Subject, got.Subject)
	assert.Equal(t, msg.Labels, got.Labels)
	assert.True(t, got.Starred)
	assert.False(t, got.Read)
	assert.Equal(t, model.FolderInbox, got.Folder)
	assert.True(t, msg.Date.Equal(got.Date), "date survives the round trip")
}

func TestMessageNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetMessageByID(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.UpdateMessage(context.Background(), newMessage("missing", model.FolderInbox, time.Now()))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetMessagesFilter(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	inbox := newMessage("in1", model.FolderInbox, base)
	inbox.Read = true

	unread := newMessage("in2", model.FolderInbox, base.Add(time.Hour))
	unread.Labels = []string{"finance"}
	unread.Subject = "Invoice #1234"

	sent := newMessage("s1", model.FolderSent, base.Add(2*time.Hour))

	require.NoError(t, s.SaveMessages(ctx, []model.Message{inbox, unread, sent}))

	folder := model.FolderInbox
	got, err := s.GetMessages(ctx, store.MessageFilter{Folder: &folder})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "in2", got[0].ID, "newest first by default")

	yes := true
	got, err = s.GetMessages(ctx, store.MessageFilter{Unread: &yes})
	require.NoError(t, err)
	require.Len(t, got, 2)

	label := "finance"
	got, err = s.GetMessages(ctx, store.MessageFilter{Label: &label})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "in2", got[0].ID)

	q := "invoice"
	got, err = s.GetMessages(ctx, store.MessageFilter{Query: &q})
	require.NoError(t, err)
	require.Len(t, got, 1)

	count, err := s.CountMessages(ctx, store.MessageFilter{Folder: &folder})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUpdateAndDeleteMessage(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	msg := newMessage("m1", model.FolderInbox, time.Now().UTC())
	require.NoError(t, s.SaveMessage(ctx, msg))

	msg.Read = true
	msg.Folder = model.FolderArchive
	msg.Labels = append(msg.Labels, "Client")
	require.NoError(t, s.UpdateMessage(ctx, msg))

	got, err := s.GetMessageByID(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, got.Read)
	assert.Equal(t, model.FolderArchive, got.Folder)
	assert.Equal(t, []string{"work", "Client"}, got.Labels)

	require.NoError(t, s.DeleteMessage(ctx, "m1"))
	_, err = s.GetMessageByID(ctx, "m1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRuleCRUD(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first := model.Rule{
		Name: "Client Emails", Condition: model.ConditionFrom,
		Value: "@clientcompany.com", Action: model.ActionLabel,
		ActionValue: "Client", Enabled: true,
	}
	second := model.Rule{
		Name: "Newsletter Filter", Condition: model.ConditionSubject,
		Value: "newsletter", Action: model.ActionMove,
		ActionValue: "archive", Enabled: true,
	}

	require.NoError(t, s.CreateRule(ctx, first))
	require.NoError(t, s.CreateRule(ctx, second))

	rules, err := s.GetRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "Client Emails", rules[0].Name, "creation order preserved")
	assert.NotEmpty(t, rules[0].ID, "ID assigned on create")

	rules[1].Enabled = false
	require.NoError(t, s.UpdateRule(ctx, rules[1]))

	rules, err = s.GetRules(ctx)
	require.NoError(t, err)
	assert.False(t, rules[1].Enabled)
	assert.Equal(t, "Newsletter Filter", rules[1].Name, "update keeps position")

	require.NoError(t, s.DeleteRule(ctx, rules[0].ID))
	rules, err = s.GetRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
}

func TestCreateRuleRejectsInvalid(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.CreateRule(context.Background(), model.Rule{
		Name: "broken", Condition: model.ConditionSubject,
		Value: "", Action: model.ActionLabel, ActionValue: "x",
	})
	assert.Error(t, err, "empty match value rejected at creation")
}

func TestEventUpsertIsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	ev := model.CalendarEvent{
		ID:              "email-event-m1",
		Title:           "Design Review",
		Date:            time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Time:            "2:00 PM",
		ReminderMinutes: 30,
		Category:        model.CategoryWork,
		SourceMessageID: "m1",
	}

	require.NoError(t, s.UpsertEvent(ctx, ev))
	ev.Title = "Design Review (updated)"
	require.NoError(t, s.UpsertEvent(ctx, ev))

	events, err := s.GetEvents(ctx, store.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1, "re-extraction replaces, never duplicates")
	assert.Equal(t, "Design Review (updated)", events[0].Title)
}

func TestEventFiltersAndToggle(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	jan := model.CalendarEvent{
		ID: "e1", Title: "Checkup", Category: model.CategoryHealth,
		Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), ReminderMinutes: 30,
	}
	feb := model.CalendarEvent{
		ID: "e2", Title: "Kickoff", Category: model.CategoryWork,
		Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), ReminderMinutes: 30,
	}
	require.NoError(t, s.UpsertEvent(ctx, jan))
	require.NoError(t, s.UpsertEvent(ctx, feb))

	cat := model.CategoryHealth
	events, err := s.GetEvents(ctx, store.EventFilter{Category: &cat})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	events, err = s.GetEvents(ctx, store.EventFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e2", events[0].ID)

	require.NoError(t, s.ToggleEventCompleted(ctx, "e1"))
	events, err = s.GetEvents(ctx, store.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1, "completed events hidden by default")

	events, err = s.GetEvents(ctx, store.EventFilter{IncludeCompleted: true})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	assert.ErrorIs(t, s.ToggleEventCompleted(ctx, "missing"), store.ErrNotFound)
}

func TestScheduledEmailCRUD(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	se := model.ScheduledEmail{
		To: "team@example.com", Subject: "Weekly Status Update",
		Body: "Here's our weekly status update...",
		Cadence: model.CadenceWeekly, Day: "Monday", Time: "09:00",
		Enabled: true,
	}
	require.NoError(t, s.CreateScheduledEmail(ctx, se))

	scheduled, err := s.GetScheduledEmails(ctx)
	require.NoError(t, err)
	require.Len(t, scheduled, 1)
	assert.Equal(t, model.CadenceWeekly, scheduled[0].Cadence)
	assert.NotEmpty(t, scheduled[0].ID)

	scheduled[0].Enabled = false
	require.NoError(t, s.UpdateScheduledEmail(ctx, scheduled[0]))

	scheduled, err = s.GetScheduledEmails(ctx)
	require.NoError(t, err)
	assert.False(t, scheduled[0].Enabled)

	require.NoError(t, s.DeleteScheduledEmail(ctx, scheduled[0].ID))
	scheduled, err = s.GetScheduledEmails(ctx)
	require.NoError(t, err)
	assert.Empty(t, scheduled)
}

func TestNotifications(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateNotification(ctx, model.Notification{
		Kind: model.NotifyNewMail, MessageID: "m1", Text: "New email from Alex",
	}))
	require.NoError(t, s.CreateNotification(ctx, model.Notification{
		Kind: model.NotifyAutoReply, MessageID: "m2", Text: "Auto-replied",
	}))

	unread, err := s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 2)

	require.NoError(t, s.MarkNotificationRead(ctx, unread[0].ID))
	unread, err = s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	require.NoError(t, s.MarkAllNotificationsRead(ctx))
	unread, err = s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

// The compile-time check that SQLiteStore satisfies the full Store
// interface lives with the tests so the interface and implementation
// cannot drift apart silently.
var _ store.Store = (*store.SQLiteStore)(nil)
