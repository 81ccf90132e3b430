// Package sync drives the simulated mail delivery loop. A Poller
// periodically asks the feed for the next incoming message, files it,
// runs the automation engine and event extraction over it, and
// surfaces the outcome to the UI as Bubble Tea messages.
package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/darkmailhq/darkmail/internal/extract"
	"github.com/darkmailhq/darkmail/internal/feed"
	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/rules"
	"github.com/darkmailhq/darkmail/internal/store"
)

// State represents the current state of the delivery loop.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateError
)

// Status holds the delivery loop's state for the status bar.
type Status struct {
	Feed     string
	State    State
	LastPoll time.Time
	Error    error
}

// DeliveryMsg is a tea.Msg sent when one poll cycle completes.
type DeliveryMsg struct {
	// Message is the delivered message, already stored and processed.
	Message model.Message

	// AppliedRule is the automation rule that matched, if any.
	AppliedRule *model.Rule

	// Event is the calendar event extracted from the message, if any.
	Event *model.CalendarEvent

	Error error
}

// SeededMsg is a tea.Msg sent after first-run seeding completes.
type SeededMsg struct {
	MessageCount int
	EventCount   int
	Error        error
}

// pollTimeout is the maximum time allowed for a single delivery cycle.
const pollTimeout = 30 * time.Second

// defaultInterval is how often the feed is polled for new mail.
const defaultInterval = 45 * time.Second

// Poller orchestrates background delivery from a feed.
type Poller struct {
	store    store.Store
	feed     feed.Feed
	engine   *rules.Engine
	interval time.Duration

	status    Status
	resultCh  chan tea.Msg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool

	now func() time.Time
}

// New creates a Poller delivering from f into s, applying rules
// through engine. A non-positive interval uses the default.
func New(s store.Store, f feed.Feed, engine *rules.Engine, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		store:     s,
		feed:      f,
		engine:    engine,
		interval:  interval,
		status:    Status{Feed: f.Name(), State: StateIdle},
		resultCh:  make(chan tea.Msg, 16),
		triggerCh: make(chan struct{}, 16),
		stopCh:    make(chan struct{}),
		now:       time.Now,
	}
}

// Bootstrap seeds the store on first run: the feed's canned mailbox,
// the default automation rules and schedules, and the events extracted
// from the seeded mail. A store that already has messages is left
// untouched.
func (p *Poller) Bootstrap(ctx context.Context) (SeededMsg, error) {
	count, err := p.store.CountMessages(ctx, store.MessageFilter{})
	if err != nil {
		return SeededMsg{}, fmt.Errorf("checking for existing mail: %w", err)
	}
	if count > 0 {
		return SeededMsg{}, nil
	}

	now := p.now()
	msgs, err := p.feed.Seed(ctx, now)
	if err != nil {
		return SeededMsg{}, fmt.Errorf("seeding mailbox: %w", err)
	}
	if err := p.store.SaveMessages(ctx, msgs); err != nil {
		return SeededMsg{}, fmt.Errorf("storing seed mailbox: %w", err)
	}

	for _, r := range feed.DefaultRules() {
		if err := p.store.CreateRule(ctx, r); err != nil {
			return SeededMsg{}, fmt.Errorf("seeding rule %q: %w", r.Name, err)
		}
	}
	for _, se := range feed.DefaultSchedules() {
		if err := p.store.CreateScheduledEmail(ctx, se); err != nil {
			return SeededMsg{}, fmt.Errorf("seeding schedule %q: %w", se.Subject, err)
		}
	}

	events := extract.Events(msgs, now)
	for _, ev := range events {
		if err := p.store.UpsertEvent(ctx, ev); err != nil {
			return SeededMsg{}, fmt.Errorf("storing extracted event %s: %w", ev.ID, err)
		}
	}

	return SeededMsg{MessageCount: len(msgs), EventCount: len(events)}, nil
}

// Start begins the delivery loop and returns a tea.Cmd that waits for
// the first result. Calling Start on a running poller is a no-op; a
// stopped poller can be started again.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	// Fresh channel per run; Stop closed the previous one.
	p.stopCh = make(chan struct{})
	stopCh := p.stopCh
	p.mu.Unlock()

	go p.loop(stopCh)

	return p.waitForResult()
}

// Stop halts the delivery loop. The poller can be restarted with Start.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// RefreshNow triggers an immediate poll without waiting for the ticker.
func (p *Poller) RefreshNow() tea.Cmd {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A poll is already queued.
	}
	return nil
}

// GetStatus returns the current delivery loop status.
func (p *Poller) GetStatus() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// loop runs the delivery ticker until stopCh closes. The channel is
// passed in so a restart's fresh channel never races this run.
func (p *Poller) loop(stopCh <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			p.deliverOne()
		case <-p.triggerCh:
			p.deliverOne()
		}
	}
}

// deliverOne runs one full delivery cycle: fetch, store, apply rules,
// extract, notify.
func (p *Poller) deliverOne() {
	p.setState(StateRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	now := p.now()
	msg, ok, err := p.feed.Next(ctx, now)
	if err != nil {
		p.setState(StateError, err)
		p.sendResult(DeliveryMsg{Error: fmt.Errorf("fetching mail: %w", err)})
		return
	}
	if !ok {
		p.setState(StateIdle, nil)
		return
	}

	if err := p.store.SaveMessage(ctx, msg); err != nil {
		p.setState(StateError, err)
		p.sendResult(DeliveryMsg{Error: fmt.Errorf("storing message %s: %w", msg.ID, err)})
		return
	}

	// Rules run before the new-mail notification so the notification
	// reflects the message's final folder and labels.
	applied, err := p.engine.Process(ctx, msg)
	if err != nil {
		p.setState(StateError, err)
		p.sendResult(DeliveryMsg{Message: msg, AppliedRule: applied, Error: err})
		return
	}
	if applied != nil {
		if fresh, err := p.store.GetMessageByID(ctx, msg.ID); err == nil {
			msg = *fresh
		}
	}

	_ = p.store.CreateNotification(ctx, model.Notification{
		Kind:      model.NotifyNewMail,
		MessageID: msg.ID,
		Text:      fmt.Sprintf("New email from %s: %s", msg.From.Name, msg.Subject),
		CreatedAt: now,
	})

	var extracted *model.CalendarEvent
	if ev, ok := extract.FromMessage(msg, now); ok {
		if err := p.store.UpsertEvent(ctx, ev); err == nil {
			extracted = &ev
			_ = p.store.CreateNotification(ctx, model.Notification{
				Kind:      model.NotifyExtraction,
				MessageID: msg.ID,
				Text:      fmt.Sprintf("Added %q to your calendar", ev.Title),
				CreatedAt: now,
			})
		}
	}

	p.setState(StateIdle, nil)
	p.sendResult(DeliveryMsg{Message: msg, AppliedRule: applied, Event: extracted})
}

// setState updates the loop status.
func (p *Poller) setState(state State, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == StateIdle && err == nil {
		p.status.LastPoll = p.now()
	}
}

// sendResult sends a message on the result channel without blocking.
func (p *Poller) sendResult(msg tea.Msg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller.
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next delivery
// result. Call it after processing a DeliveryMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
