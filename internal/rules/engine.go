package rules

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/darkmailhq/darkmail/internal/model"
)

// Sender delivers an outgoing message. In this application the only
// implementation is the simulated outbox; nothing reaches a network.
type Sender interface {
	Send(ctx context.Context, to []string, subject, body string) (*model.Message, error)
}

// RuleStore is the slice of the persistence layer the engine needs.
type RuleStore interface {
	GetRules(ctx context.Context) ([]model.Rule, error)
	UpdateMessage(ctx context.Context, msg model.Message) error
	CreateNotification(ctx context.Context, n model.Notification) error
}

// Engine applies automation rules to inbound messages. It replaces
// the original client's process-global callback hook: the sender and
// store are injected explicitly and the engine is invoked per message
// by the delivery loop.
type Engine struct {
	store  RuleStore
	sender Sender
}

// NewEngine creates an automation engine with the given store and sender.
func NewEngine(store RuleStore, sender Sender) *Engine {
	return &Engine{store: store, sender: sender}
}

// Process evaluates the stored rules against an inbound message and
// applies the first matching rule's action. It returns the applied
// rule, or nil when no rule matched.
func (e *Engine) Process(ctx context.Context, msg model.Message) (*model.Rule, error) {
	stored, err := e.store.GetRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}

	rule := Match(msg, stored)
	if rule == nil {
		return nil, nil
	}

	if err := e.apply(ctx, msg, *rule); err != nil {
		return rule, fmt.Errorf("applying rule %q: %w", rule.Name, err)
	}
	return rule, nil
}

// apply carries out a matched rule's action on the message.
func (e *Engine) apply(ctx context.Context, msg model.Message, rule model.Rule) error {
	switch rule.Action {
	case model.ActionReply:
		return e.autoReply(ctx, msg, rule)

	case model.ActionLabel:
		for _, l := range msg.Labels {
			if l == rule.ActionValue {
				return nil
			}
		}
		msg.Labels = append(msg.Labels, rule.ActionValue)
		return e.store.UpdateMessage(ctx, msg)

	case model.ActionMove:
		msg.Folder = model.Folder(rule.ActionValue)
		return e.store.UpdateMessage(ctx, msg)

	case model.ActionForward:
		subject := msg.Subject
		if !strings.HasPrefix(strings.ToLower(subject), "fwd:") {
			subject = "Fwd: " + subject
		}
		_, err := e.sender.Send(ctx, []string{rule.ActionValue}, subject, msg.Body)
		return err

	default:
		return fmt.Errorf("unknown action %q", rule.Action)
	}
}

// autoReply sends the rule's canned reply back to the message sender
// and records a notification so the user can see what happened.
func (e *Engine) autoReply(ctx context.Context, msg model.Message, rule model.Rule) error {
	subject := msg.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	if _, err := e.sender.Send(ctx, []string{msg.From.Email}, subject, rule.ActionValue); err != nil {
		return fmt.Errorf("sending auto-reply: %w", err)
	}

	n := model.Notification{
		ID:        uuid.NewString(),
		Kind:      model.NotifyAutoReply,
		MessageID: msg.ID,
		Text:      fmt.Sprintf("Auto-replied to %q using rule %q", msg.Subject, rule.Name),
		CreatedAt: time.Now(),
	}
	if err := e.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("recording auto-reply notification: %w", err)
	}

	return nil
}
