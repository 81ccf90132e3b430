// Package app holds the root Bubble Tea model: view routing, global
// keybindings, and the wiring between the store, the delivery loop,
// and the simulated assistant.
package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/darkmailhq/darkmail/internal/assist"
	"github.com/darkmailhq/darkmail/internal/feed"
	"github.com/darkmailhq/darkmail/internal/keys"
	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/outbox"
	"github.com/darkmailhq/darkmail/internal/rules"
	"github.com/darkmailhq/darkmail/internal/store"
	appsync "github.com/darkmailhq/darkmail/internal/sync"
	"github.com/darkmailhq/darkmail/internal/ui"
	"github.com/darkmailhq/darkmail/internal/ui/assistpanel"
	"github.com/darkmailhq/darkmail/internal/ui/automation"
	"github.com/darkmailhq/darkmail/internal/ui/calendar"
	"github.com/darkmailhq/darkmail/internal/ui/command"
	"github.com/darkmailhq/darkmail/internal/ui/compose"
	"github.com/darkmailhq/darkmail/internal/ui/help"
	"github.com/darkmailhq/darkmail/internal/ui/maillist"
	"github.com/darkmailhq/darkmail/internal/ui/mailview"
	"github.com/darkmailhq/darkmail/internal/ui/settings"
)

// unreadCountMsg carries the number of unread notifications to the UI.
type unreadCountMsg struct {
	count int
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewMail ViewState = iota
	ViewRead
	ViewCompose
	ViewCalendar
	ViewAutomation
	ViewAssistant
	ViewSettings
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        *store.SQLiteStore
	cfg          *model.AppConfig
	cfgPath      string
	keys         *keys.KeyMap

	sender     *outbox.Outbox
	mailList   maillist.Model
	mailView   mailview.Model
	composer   compose.Model
	calView    calendar.Model
	autoView   automation.Model
	assistView assistpanel.Model
	settView   settings.Model
	helpView   help.Model
	cmdView    command.Model

	poller      *appsync.Poller
	ready       bool
	unreadCount int
	statusMsg   string
}

// New creates the root application model.
func New(s *store.SQLiteStore, cfg *model.AppConfig, cfgPath string) Model {
	k := keys.DefaultKeyMap()

	sender := outbox.New(s, cfg.Account)
	engine := rules.NewEngine(s, sender)
	poller := appsync.New(s, feed.NewDemoFeed(), engine, 0)

	latency := time.Duration(cfg.Assistant.LatencyMS) * time.Millisecond
	var assistant *assist.Assistant
	if cfg.Assistant.Enabled {
		assistant = assist.New(s, latency)
	}

	return Model{
		currentView: ViewMail,
		store:       s,
		cfg:         cfg,
		cfgPath:     cfgPath,
		keys:        k,
		sender:      sender,
		mailList:    maillist.New(s, k, 80, 24),
		mailView:    mailview.New(k, latency, 80, 24),
		composer:    compose.New(80, 24),
		calView:     calendar.New(s, k, 80, 24),
		autoView:    automation.New(s, k, 80, 24),
		assistView:  assistpanel.New(assistant, k, 80, 24),
		settView:    settings.New(80, 24),
		helpView:    help.New(k, 80, 24),
		cmdView:     command.New(80, 24),
		poller:      poller,
	}
}

// Init seeds the mailbox on first run and loads the inbox.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.bootstrap(),
		m.mailList.Init(),
	)
}

// bootstrap seeds the store on first run, then reports the result so
// Update can start the delivery loop.
func (m Model) bootstrap() tea.Cmd {
	p := m.poller
	return func() tea.Msg {
		seeded, err := p.Bootstrap(context.Background())
		if err != nil {
			seeded.Error = err
		}
		return seeded
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.mailList.SetSize(contentWidth, contentHeight)
		m.mailView.SetSize(contentWidth, contentHeight)
		m.composer.SetSize(contentWidth, contentHeight)
		m.calView.SetSize(contentWidth, contentHeight)
		m.autoView.SetSize(contentWidth, contentHeight)
		m.assistView.SetSize(contentWidth, contentHeight)
		m.settView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.cmdView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case appsync.SeededMsg:
		if msg.Error != nil {
			m.statusMsg = fmt.Sprintf("Setup failed: %v", msg.Error)
			return m, nil
		}
		if msg.MessageCount > 0 {
			m.statusMsg = fmt.Sprintf(
				"Welcome! Seeded %d messages and %d events.",
				msg.MessageCount, msg.EventCount,
			)
		}
		// The mailbox is ready; start background delivery.
		return m, tea.Batch(
			m.poller.Start(),
			m.mailList.LoadMessages(),
			m.fetchUnreadCount(),
		)

	case appsync.DeliveryMsg:
		if msg.Error != nil {
			m.statusMsg = fmt.Sprintf("Delivery problem: %v", msg.Error)
		} else {
			m.statusMsg = fmt.Sprintf("New email from %s", msg.Message.From.Name)
			if msg.Event != nil {
				m.statusMsg += fmt.Sprintf(" · added %q to calendar", msg.Event.Title)
			}
		}
		return m, tea.Batch(
			m.mailList.LoadMessages(),
			m.poller.WaitForNextResult(),
			m.fetchUnreadCount(),
		)

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case maillist.SelectedMessageMsg:
		m.previousView = m.currentView
		m.currentView = ViewRead
		m.mailView.SetLoading(true)
		return m, m.openMessage(msg.MessageID)

	case mailview.MessageLoadedMsg:
		var cmd tea.Cmd
		m.mailView, cmd = m.mailView.Update(msg)
		return m, cmd

	case mailview.BackMsg:
		m.currentView = ViewMail
		// Opening a message marks it read; refresh the list.
		return m, tea.Batch(m.mailList.LoadMessages(), m.fetchUnreadCount())

	case mailview.ActionMsg:
		return m, m.messageAction(msg.Action, msg.MessageID)

	case messageActionDoneMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		switch msg.action {
		case "archive", "delete":
			m.currentView = ViewMail
			return m, m.mailList.LoadMessages()
		case "star":
			if m.currentView == ViewRead {
				return m, m.openMessage(msg.messageID)
			}
		}
		return m, m.mailList.LoadMessages()

	case mailview.ReplyRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.composer.StartReply(msg.To, msg.Subject, msg.Body, msg.InReplyTo)

	case compose.SubmitMsg:
		m.currentView = ViewMail
		return m, m.sendMail(msg.Options)

	case compose.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case mailSentMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Send failed: %v", msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("Sent %q", msg.subject)
		}
		return m, tea.Batch(m.mailList.LoadMessages(), m.fetchUnreadCount())

	case calendar.CloseMsg:
		m.currentView = ViewMail
		return m, nil

	case automation.CloseMsg:
		m.currentView = ViewMail
		return m, nil

	case assistpanel.CloseMsg:
		m.assistView.Reset()
		m.currentView = ViewMail
		return m, nil

	case settings.SavedMsg:
		m.currentView = ViewMail
		cmd := m.applyConfig(msg.Config, msg.PassphraseErr)
		return m, cmd

	case settings.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case configSavedMsg:
		switch {
		case msg.err != nil:
			m.statusMsg = fmt.Sprintf("Saving settings failed: %v", msg.err)
		case msg.passphraseErr != nil:
			m.statusMsg = fmt.Sprintf("Settings saved, but storing the passphrase failed: %v", msg.passphraseErr)
		default:
			m.statusMsg = "Settings saved"
		}
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case tea.KeyMsg:
		if mdl, cmd, handled := m.handleGlobalKey(msg); handled {
			return mdl, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of the focused
// view. Views with text input keep their keystrokes.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	// Views that own the keyboard: only ctrl+c is global there.
	typing := m.currentView == ViewCompose ||
		m.currentView == ViewAssistant ||
		m.currentView == ViewSettings ||
		m.currentView == ViewAutomation ||
		m.currentView == ViewCommand ||
		(m.currentView == ViewMail && m.mailList.Searching())

	switch msg.String() {
	case "ctrl+c":
		m.poller.Stop()
		return m, tea.Quit, true

	case "q":
		if m.currentView == ViewMail && !m.mailList.Searching() {
			m.poller.Stop()
			return m, tea.Quit, true
		}

	case "?":
		if typing {
			break
		}
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case ":":
		if typing {
			break
		}
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.cmdView.Focus(), true

	case "1":
		if !typing && m.currentView != ViewMail {
			m.currentView = ViewMail
			return m, m.mailList.LoadMessages(), true
		}

	case "2":
		if !typing && m.currentView != ViewCalendar {
			m.previousView = m.currentView
			m.currentView = ViewCalendar
			return m, m.calView.Init(), true
		}

	case "3":
		if !typing && m.currentView != ViewAutomation {
			m.previousView = m.currentView
			m.currentView = ViewAutomation
			return m, m.autoView.Init(), true
		}

	case "4":
		if !typing && m.currentView != ViewSettings {
			m.previousView = m.currentView
			m.currentView = ViewSettings
			return m, m.settView.Start(m.cfg), true
		}

	case "c":
		if m.currentView == ViewMail && !m.mailList.Searching() {
			m.previousView = m.currentView
			m.currentView = ViewCompose
			return m, m.composer.StartCompose(), true
		}

	case "a":
		if m.currentView == ViewMail && !m.mailList.Searching() {
			m.previousView = m.currentView
			m.currentView = ViewAssistant
			return m, m.assistView.Focus(), true
		}

	case "R":
		if !typing {
			m.statusMsg = "Checking for new mail..."
			return m, m.poller.RefreshNow(), true
		}
	}

	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewMail:
		m.mailList, cmd = m.mailList.Update(msg)
	case ViewRead:
		m.mailView, cmd = m.mailView.Update(msg)
	case ViewCompose:
		m.composer, cmd = m.composer.Update(msg)
	case ViewCalendar:
		m.calView, cmd = m.calView.Update(msg)
	case ViewAutomation:
		m.autoView, cmd = m.autoView.Update(msg)
	case ViewAssistant:
		m.assistView, cmd = m.assistView.Update(msg)
	case ViewSettings:
		m.settView, cmd = m.settView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.cmdView, cmd = m.cmdView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "DarkMail"
	if m.unreadCount > 0 {
		headerTitle = fmt.Sprintf("DarkMail [%d new]", m.unreadCount)
	}
	header := m.layout.RenderHeader(headerTitle, m.syncStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewMail:
		return m.mailList.View()
	case ViewRead:
		return m.mailView.View()
	case ViewCompose:
		return m.composer.View()
	case ViewCalendar:
		return m.calView.View()
	case ViewAutomation:
		return m.autoView.View()
	case ViewAssistant:
		return m.assistView.View()
	case ViewSettings:
		return m.settView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.cmdView.View()
	default:
		return ""
	}
}

// syncStatus returns a short string describing the delivery loop state.
func (m Model) syncStatus() string {
	status := m.poller.GetStatus()
	switch status.State {
	case appsync.StateRunning:
		return "checking mail..."
	case appsync.StateError:
		return "⚠ delivery error"
	default:
		if status.LastPoll.IsZero() {
			return "idle"
		}
		return "checked " + status.LastPoll.Format("15:04")
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	// Transient status wins over the hint line.
	if m.statusMsg != "" && m.currentView == ViewMail {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewRead:
		return "esc back | r reply | s star | e archive | x delete | j/k scroll"
	case ViewCompose:
		return "enter next field | esc cancel"
	case ViewCalendar:
		return "x toggle done | d delete | tab show completed | esc back"
	case ViewAutomation:
		return "n new | e edit | t toggle | x delete | tab switch | esc back"
	case ViewAssistant:
		return "enter send | esc close"
	case ViewSettings:
		return "enter next field | esc cancel"
	default:
		filterSummary := m.mailList.FilterSummary()
		if filterSummary != "" {
			return filterSummary + " | / change search | u all mail"
		}
		return "q quit | ? help | c compose | a assistant | / search | tab folder | R check mail"
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "refresh", "check", "check mail":
		return tea.Batch(m.poller.RefreshNow(), m.mailList.LoadMessages())
	case "quit", "q":
		m.poller.Stop()
		return tea.Quit
	case "compose", "new":
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m.composer.StartCompose()
	case "inbox", "mail":
		m.currentView = ViewMail
		return m.mailList.LoadMessages()
	case "calendar", "events":
		m.previousView = m.currentView
		m.currentView = ViewCalendar
		return m.calView.Init()
	case "automation", "rules":
		m.previousView = m.currentView
		m.currentView = ViewAutomation
		return m.autoView.Init()
	case "assistant", "assist":
		m.previousView = m.currentView
		m.currentView = ViewAssistant
		return m.assistView.Focus()
	case "settings", "config":
		m.previousView = m.currentView
		m.currentView = ViewSettings
		return m.settView.Start(m.cfg)
	case "mark read", "read all":
		return m.markAllNotificationsRead()
	default:
		return nil
	}
}
