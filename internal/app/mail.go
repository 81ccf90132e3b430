package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/darkmailhq/darkmail/internal/assist"
	"github.com/darkmailhq/darkmail/internal/feed"
	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/outbox"
	"github.com/darkmailhq/darkmail/internal/rules"
	"github.com/darkmailhq/darkmail/internal/store"
	appsync "github.com/darkmailhq/darkmail/internal/sync"
	"github.com/darkmailhq/darkmail/internal/thread"
	"github.com/darkmailhq/darkmail/internal/ui/assistpanel"
	"github.com/darkmailhq/darkmail/internal/ui/mailview"
)

// messageActionDoneMsg reports the outcome of a star, archive, or
// delete operation.
type messageActionDoneMsg struct {
	action    string
	messageID string
	err       error
}

// mailSentMsg reports the outcome of sending a message.
type mailSentMsg struct {
	subject string
	err     error
}

// configSavedMsg reports the outcome of persisting the configuration.
// passphraseErr is a keyring failure from the settings form, reported
// alongside the config save result.
type configSavedMsg struct {
	err           error
	passphraseErr error
}

// openMessage loads a message, marks it read, and assembles its
// conversation for the reading view.
func (m Model) openMessage(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()

		msg, err := s.GetMessageByID(ctx, id)
		if err != nil {
			return mailview.MessageLoadedMsg{}
		}

		if !msg.Read {
			msg.Read = true
			if err := s.UpdateMessage(ctx, *msg); err != nil {
				return mailview.MessageLoadedMsg{Message: msg}
			}
		}

		// Pull the rest of the thread so replies show in context.
		all, err := s.AllMessages(ctx)
		if err != nil {
			return mailview.MessageLoadedMsg{Message: msg}
		}

		var conversation []model.Message
		for _, c := range thread.Group(all) {
			for _, cm := range c.Messages {
				if cm.ID == msg.ID {
					conversation = c.Messages
					break
				}
			}
			if conversation != nil {
				break
			}
		}

		return mailview.MessageLoadedMsg{
			Message:      msg,
			Conversation: conversation,
		}
	}
}

// messageAction applies a star, archive, or delete to a message.
func (m Model) messageAction(action, id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()

		done := func(err error) tea.Msg {
			return messageActionDoneMsg{action: action, messageID: id, err: err}
		}

		switch action {
		case "delete":
			return done(s.DeleteMessage(ctx, id))

		case "star", "archive":
			msg, err := s.GetMessageByID(ctx, id)
			if err != nil {
				return done(err)
			}
			if action == "star" {
				msg.Starred = !msg.Starred
			} else {
				msg.Folder = model.FolderArchive
			}
			return done(s.UpdateMessage(ctx, *msg))

		default:
			return done(fmt.Errorf("unknown message action %q", action))
		}
	}
}

// sendMail delivers a composed message through the outbox.
func (m Model) sendMail(opts outbox.Options) tea.Cmd {
	sender := m.sender
	return func() tea.Msg {
		_, err := sender.SendMail(context.Background(), opts)
		return mailSentMsg{subject: opts.Subject, err: err}
	}
}

// fetchUnreadCount counts unread inbox messages for the header badge.
func (m Model) fetchUnreadCount() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		inbox := model.FolderInbox
		unread := true
		count, err := s.CountMessages(context.Background(), store.MessageFilter{
			Folder: &inbox,
			Unread: &unread,
		})
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: count}
	}
}

// markAllNotificationsRead clears the notification backlog.
func (m Model) markAllNotificationsRead() tea.Cmd {
	s := m.store
	fetch := m.fetchUnreadCount()
	return func() tea.Msg {
		if err := s.MarkAllNotificationsRead(context.Background()); err != nil {
			return configSavedMsg{err: err}
		}
		return fetch()
	}
}

// applyConfig persists the new configuration and rebuilds everything
// that depends on it: the outgoing identity, the rule engine, the
// delivery loop, and the assistant.
func (m *Model) applyConfig(cfg *model.AppConfig, passphraseErr error) tea.Cmd {
	m.poller.Stop()

	m.cfg = cfg
	m.sender = outbox.New(m.store, cfg.Account)
	engine := rules.NewEngine(m.store, m.sender)
	m.poller = appsync.New(m.store, feed.NewDemoFeed(), engine, 0)

	latency := time.Duration(cfg.Assistant.LatencyMS) * time.Millisecond
	var assistant *assist.Assistant
	if cfg.Assistant.Enabled {
		assistant = assist.New(m.store, latency)
	}
	m.assistView = assistpanel.New(assistant, m.keys, m.layout.ContentWidth(), m.layout.ContentHeight())
	m.mailView = mailview.New(m.keys, latency, m.layout.ContentWidth(), m.layout.ContentHeight())

	cfgPath := m.cfgPath
	saveCfg := func() tea.Msg {
		return configSavedMsg{
			err:           model.SaveConfig(cfgPath, cfg),
			passphraseErr: passphraseErr,
		}
	}

	return tea.Batch(saveCfg, m.poller.Start())
}
