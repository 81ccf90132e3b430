// Package feed supplies the simulated mail that flows into the app.
// A Feed plays the role a mail server would in a real client: it seeds
// the initial mailbox and hands out incoming messages for the poller
// to deliver. Nothing here touches the network.
package feed

import (
	"context"
	"time"

	"github.com/darkmailhq/darkmail/internal/model"
)

// Feed delivers simulated incoming mail.
type Feed interface {
	// Name identifies the feed in logs and notifications.
	Name() string

	// Seed returns the initial mailbox contents, used once when the
	// store is empty.
	Seed(ctx context.Context, now time.Time) ([]model.Message, error)

	// Next returns the next simulated incoming message. ok is false
	// when the feed has nothing to deliver on this poll.
	Next(ctx context.Context, now time.Time) (model.Message, bool, error)
}
