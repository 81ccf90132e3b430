package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkmailhq/darkmail/internal/feed"
	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/outbox"
	"github.com/darkmailhq/darkmail/internal/rules"
	"github.com/darkmailhq/darkmail/internal/store"
	"github.com/darkmailhq/darkmail/internal/sync"
	"github.com/darkmailhq/darkmail/tests/testutil"
)

func newPoller(t *testing.T) (*sync.Poller, *store.SQLiteStore) {
	t.Helper()

	s := testutil.NewTestStore(t)
	sender := outbox.New(s, model.AccountConfig{
		Name:  model.DefaultAccountName,
		Email: model.DefaultAccountEmail,
	})
	engine := rules.NewEngine(s, sender)

	// A long interval keeps the ticker quiet; tests drive delivery
	// through RefreshNow.
	p := sync.New(s, feed.NewDemoFeed(), engine, time.Hour)
	return p, s
}

func TestBootstrapSeedsOnce(t *testing.T) {
	p, s := newPoller(t)
	ctx := context.Background()

	seeded, err := p.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, seeded.MessageCount)
	assert.Greater(t, seeded.EventCount, 0, "seed mail contains extractable events")

	dbRules, err := s.GetRules(ctx)
	require.NoError(t, err)
	assert.Len(t, dbRules, 3)

	scheduled, err := s.GetScheduledEmails(ctx)
	require.NoError(t, err)
	assert.Len(t, scheduled, 2)

	// A second bootstrap is a no-op.
	again, err := p.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.MessageCount)

	count, err := s.CountMessages(ctx, store.MessageFilter{})
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestDeliveryCycle(t *testing.T) {
	p, s := newPoller(t)
	ctx := context.Background()

	_, err := p.Bootstrap(ctx)
	require.NoError(t, err)

	wait := p.Start()
	require.NotNil(t, wait)
	defer p.Stop()

	p.RefreshNow()

	msg := wait()
	delivery, ok := msg.(sync.DeliveryMsg)
	require.True(t, ok, "expected a DeliveryMsg, got %T", msg)
	require.NoError(t, delivery.Error)

	stored, err := s.GetMessageByID(ctx, delivery.Message.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FolderInbox, stored.Folder)

	unread, err := s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, unread)

	// The second rotation entry comes from @clientcompany.com and
	// triggers the seeded label rule.
	p.RefreshNow()
	second := p.WaitForNextResult()()
	delivery, ok = second.(sync.DeliveryMsg)
	require.True(t, ok)
	require.NoError(t, delivery.Error)
	require.NotNil(t, delivery.AppliedRule)
	assert.Equal(t, "Client Emails", delivery.AppliedRule.Name)
	assert.Contains(t, delivery.Message.Labels, "Client")
}

func TestStartTwiceIsNoop(t *testing.T) {
	p, _ := newPoller(t)

	first := p.Start()
	require.NotNil(t, first)
	assert.Nil(t, p.Start())
	p.Stop()
}

func TestRestartAfterStop(t *testing.T) {
	p, _ := newPoller(t)
	ctx := context.Background()

	_, err := p.Bootstrap(ctx)
	require.NoError(t, err)

	first := p.Start()
	require.NotNil(t, first)
	p.RefreshNow()
	msg := first()
	_, ok := msg.(sync.DeliveryMsg)
	require.True(t, ok, "expected a DeliveryMsg, got %T", msg)

	p.Stop()

	second := p.Start()
	require.NotNil(t, second, "a stopped poller starts again")
	defer p.Stop()

	p.RefreshNow()
	msg = second()
	delivery, ok := msg.(sync.DeliveryMsg)
	require.True(t, ok, "restarted loop keeps delivering, got %T", msg)
	require.NoError(t, delivery.Error)
}
