package outbox_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/outbox"
)

type memStore struct {
	messages      []model.Message
	notifications []model.Notification
}

func (s *memStore) SaveMessage(_ context.Context, msg model.Message) error {
	s.messages = append(s.messages, msg)
	return nil
}

func (s *memStore) CreateNotification(_ context.Context, n model.Notification) error {
	s.notifications = append(s.notifications, n)
	return nil
}

func testAccount() model.AccountConfig {
	return model.AccountConfig{
		Name:      "DarkMail User",
		Email:     "user@example.com",
		Signature: "Sent from DarkMail",
	}
}

func TestSendMail(t *testing.T) {
	store := &memStore{}
	o := outbox.New(store, testAccount())

	msg, err := o.SendMail(context.Background(), outbox.Options{
		To:      []string{"alex.johnson@example.com"},
		Subject: "Re: Project Update",
		Body:    "Sounds good, let's meet tomorrow.",
	})
	require.NoError(t, err)

	assert.Equal(t, model.FolderSent, msg.Folder)
	assert.True(t, msg.Read)
	assert.Equal(t, "user@example.com", msg.From.Email)
	assert.Contains(t, msg.Body, "Sent from DarkMail", "signature appended")

	require.Len(t, store.messages, 1)
	require.Len(t, store.notifications, 1)
	assert.Equal(t, model.NotifySent, store.notifications[0].Kind)
	assert.Equal(t, msg.ID, store.notifications[0].MessageID)
}

func TestSendMailRawRendering(t *testing.T) {
	store := &memStore{}
	o := outbox.New(store, testAccount())

	msg, err := o.SendMail(context.Background(), outbox.Options{
		To:        []string{"sarah.miller@example.com"},
		Subject:   "Design feedback",
		Body:      "Looks great overall.",
		InReplyTo: "seed-2",
	})
	require.NoError(t, err)

	assert.Contains(t, msg.Raw, "user@example.com")
	assert.Contains(t, msg.Raw, "sarah.miller@example.com")
	assert.Contains(t, msg.Raw, "Subject: Design feedback")
	assert.Contains(t, msg.Raw, "In-Reply-To: <seed-2@darkmail.invalid>")
	assert.Contains(t, msg.Raw, "Looks great overall.")
}

func TestSendMailValidation(t *testing.T) {
	o := outbox.New(&memStore{}, testAccount())

	cases := []struct {
		name string
		opts outbox.Options
	}{
		{"no recipients", outbox.Options{Subject: "s", Body: "b"}},
		{"blank subject", outbox.Options{To: []string{"a@b.com"}, Subject: "  ", Body: "b"}},
		{"blank body", outbox.Options{To: []string{"a@b.com"}, Subject: "s", Body: ""}},
		{"bad recipient", outbox.Options{To: []string{"not-an-address"}, Subject: "s", Body: "b"}},
		{"bad cc", outbox.Options{To: []string{"a@b.com"}, CC: []string{"x@"}, Subject: "s", Body: "b"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := o.SendMail(context.Background(), tc.opts)
			assert.Error(t, err)
		})
	}
}

func TestSendNoSignature(t *testing.T) {
	acc := testAccount()
	acc.Signature = ""
	o := outbox.New(&memStore{}, acc)

	msg, err := o.Send(context.Background(), []string{"a@b.com"}, "Hi", "Short note.")
	require.NoError(t, err)
	assert.Equal(t, "Short note.", msg.Body)
	assert.False(t, strings.Contains(msg.Raw, "Sent from DarkMail"))
}
