package calendar

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/darkmailhq/darkmail/internal/keys"
	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/store"
	"github.com/darkmailhq/darkmail/internal/theme"
)

// CloseMsg signals the parent to close the calendar view.
type CloseMsg struct{}

// EventsChangedMsg signals that events were modified.
type EventsChangedMsg struct{}

type calendarMode int

const (
	modeList calendarMode = iota
	modeConfirmDelete
)

type eventsLoadedMsg struct {
	events []model.CalendarEvent
}

type eventToggledMsg struct{ err error }
type eventDeletedMsg struct{ err error }

type confirmBinding struct {
	confirm bool
}

// Model is the Bubble Tea model for the calendar view. Events come
// from the store; most were extracted from mail.
type Model struct {
	mode          calendarMode
	store         store.Store
	keys          *keys.KeyMap
	events        []model.CalendarEvent
	selectedIdx   int
	showCompleted bool
	confirmForm   *huh.Form
	cb            *confirmBinding
	statusMsg     string
	width         int
	height        int
}

// New creates a new calendar model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:  modeList,
		store: s,
		keys:  k,
		cb:    &confirmBinding{},
		width: width, height: height,
	}
}

// Init loads events from the store.
func (m Model) Init() tea.Cmd {
	return m.loadEvents()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventsLoadedMsg:
		m.events = msg.events
		if m.selectedIdx >= len(m.events) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.events) - 1
		}
		return m, nil

	case eventToggledMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = ""
		}
		return m, tea.Batch(m.loadEvents(), func() tea.Msg { return EventsChangedMsg{} })

	case eventDeletedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Event deleted"
		}
		m.mode = modeList
		return m, tea.Batch(m.loadEvents(), func() tea.Msg { return EventsChangedMsg{} })

	case tea.KeyMsg:
		if m.mode == modeConfirmDelete {
			return m.updateConfirm(msg)
		}
		return m.handleListKey(msg)
	}

	if m.mode == modeConfirmDelete {
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.events) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.events)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.events) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.events) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleFolder):
		m.showCompleted = !m.showCompleted
		m.selectedIdx = 0
		return m, m.loadEvents()

	case msg.String() == "x":
		if len(m.events) == 0 {
			return m, nil
		}
		return m, m.toggleCompleted(m.events[m.selectedIdx].ID)

	case msg.String() == "d":
		if len(m.events) == 0 {
			return m, nil
		}
		m.cb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildConfirmForm() *huh.Form {
	title := ""
	if m.selectedIdx < len(m.events) {
		title = m.events[m.selectedIdx].Title
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete event %q?", title)).
				Description("Re-checking mail may extract it again.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.cb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if m.cb.confirm && m.selectedIdx < len(m.events) {
			return m, m.deleteEvent(m.events[m.selectedIdx].ID)
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the calendar.
func (m Model) View() string {
	if m.mode == modeConfirmDelete && m.confirmForm != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirmForm.View())
	}
	return m.viewList()
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	title := "Calendar"
	if m.showCompleted {
		title += " (including completed)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.events) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render(
			"No upcoming events. Events are extracted from your mail automatically.",
		))
	} else {
		lastDay := ""
		dayStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGray)
		timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

		for i, ev := range m.events {
			day := ev.Date.Format("Monday, January 2")
			if day != lastDay {
				if lastDay != "" {
					b.WriteString("\n")
				}
				b.WriteString(dayStyle.Render(day))
				b.WriteString("\n")
				lastDay = day
			}

			when := "all day"
			if !ev.IsAllDay {
				when = ev.Time
			}

			catBadge := theme.CategoryStyle(string(ev.Category)).Render(string(ev.Category))

			label := fmt.Sprintf("%s  %s  %s", timeStyle.Render(when), ev.Title, catBadge)
			if ev.Completed {
				label += timeStyle.Render("  ✓ done")
			}
			if ev.SourceSubject != "" {
				label += timeStyle.Render("  (from: " + ev.SourceSubject + ")")
			}

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"x toggle done | d delete | tab show completed | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func (m Model) loadEvents() tea.Cmd {
	s := m.store
	includeCompleted := m.showCompleted
	return func() tea.Msg {
		events, err := s.GetEvents(context.Background(), store.EventFilter{
			IncludeCompleted: includeCompleted,
		})
		if err != nil {
			return eventsLoadedMsg{events: nil}
		}
		return eventsLoadedMsg{events: events}
	}
}

func (m Model) toggleCompleted(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.ToggleEventCompleted(context.Background(), id)
		return eventToggledMsg{err: err}
	}
}

func (m Model) deleteEvent(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.DeleteEvent(context.Background(), id)
		return eventDeletedMsg{err: err}
	}
}
