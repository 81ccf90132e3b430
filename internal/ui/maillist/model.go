package maillist

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/darkmailhq/darkmail/internal/keys"
	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/store"
	"github.com/darkmailhq/darkmail/internal/theme"
)

// MessagesLoadedMsg is sent when messages have been loaded from the store.
type MessagesLoadedMsg struct {
	Messages []model.Message
}

// SelectedMessageMsg is sent when a user opens a message.
type SelectedMessageMsg struct {
	MessageID string
}

// folderOrder is the cycle order for the Tab key.
var folderOrder = []model.Folder{
	model.FolderInbox,
	model.FolderSent,
	model.FolderArchive,
}

// Model is the mailbox list view component.
type Model struct {
	list        list.Model
	store       store.Store
	keys        *keys.KeyMap
	filter      store.MessageFilter
	folderIdx   int
	unreadOnly  bool
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new mail list model showing the inbox.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Inbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search mail..."
	si.Prompt = "/ "
	si.Width = width - 4

	m := Model{
		list:        l,
		store:       s,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
	m.applyFolder()
	return m
}

// Init returns a command that loads the initial set of messages.
func (m Model) Init() tea.Cmd {
	return m.LoadMessages()
}

// Update handles messages for the mail list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MessagesLoadedMsg:
		items := make([]list.Item, len(msg.Messages))
		for i, mm := range msg.Messages {
			items[i] = MessageItem{Message: mm}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	// Delegate to list model for other messages
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		query := m.searchInput.Value()
		if query != "" {
			m.filter.Query = &query
		} else {
			m.filter.Query = nil
		}
		return m, m.LoadMessages()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.filter.Query = nil
		return m, m.LoadMessages()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(MessageItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedMessageMsg{MessageID: item.Message.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleFolder):
		m.folderIdx = (m.folderIdx + 1) % len(folderOrder)
		m.applyFolder()
		return m, m.LoadMessages()

	case key.Matches(msg, m.keys.ToggleRead):
		m.unreadOnly = !m.unreadOnly
		m.applyFolder()
		return m, m.LoadMessages()

	case msg.String() == "o":
		m.filter.SortAsc = !m.filter.SortAsc
		return m, m.LoadMessages()
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// applyFolder syncs the filter and the list title with the current
// folder and unread toggle.
func (m *Model) applyFolder() {
	folder := folderOrder[m.folderIdx]
	m.filter.Folder = &folder
	if m.unreadOnly {
		yes := true
		m.filter.Unread = &yes
	} else {
		m.filter.Unread = nil
	}

	title := titleFor(folder)
	if m.unreadOnly {
		title += " (unread)"
	}
	m.list.Title = title
}

// titleFor maps a folder to its display title.
func titleFor(f model.Folder) string {
	switch f {
	case model.FolderSent:
		return "Sent"
	case model.FolderArchive:
		return "Archive"
	default:
		return "Inbox"
	}
}

// Folder returns the folder currently shown.
func (m Model) Folder() model.Folder {
	return folderOrder[m.folderIdx]
}

// Searching reports whether the search input has keyboard focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// SelectedMessage returns the currently highlighted message.
func (m Model) SelectedMessage() (model.Message, bool) {
	item, ok := m.list.SelectedItem().(MessageItem)
	if !ok {
		return model.Message{}, false
	}
	return item.Message, true
}

// FilterSummary describes any active filters for the status bar.
func (m Model) FilterSummary() string {
	var parts []string
	if m.unreadOnly {
		parts = append(parts, "unread only")
	}
	if m.filter.Query != nil {
		parts = append(parts, fmt.Sprintf("search %q", *m.filter.Query))
	}
	if m.filter.SortAsc {
		parts = append(parts, "oldest first")
	}
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}

// View renders the mail list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when the folder is empty.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.filter.Query != nil || m.unreadOnly {
		return style.Render("No matching mail.\nTry adjusting your filters.")
	}

	return style.Render(
		titleFor(m.Folder()) + " is empty.\n\n" +
			"Press R to check for new mail.",
	)
}

// LoadMessages returns a tea.Cmd that queries the store with the
// current filter.
func (m Model) LoadMessages() tea.Cmd {
	filter := m.filter
	s := m.store
	return func() tea.Msg {
		msgs, err := s.GetMessages(context.Background(), filter)
		if err != nil {
			return MessagesLoadedMsg{Messages: nil}
		}
		return MessagesLoadedMsg{Messages: msgs}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
