package mailview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/darkmailhq/darkmail/internal/assist"
	"github.com/darkmailhq/darkmail/internal/keys"
	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/theme"
)

// BackMsg signals the parent to navigate back to the mail list.
type BackMsg struct{}

// MessageLoadedMsg carries the opened message and the rest of its
// conversation, oldest first.
type MessageLoadedMsg struct {
	Message      *model.Message
	Conversation []model.Message
}

// ActionMsg signals the parent to execute an action on the current message.
type ActionMsg struct {
	Action    string
	MessageID string
}

// ReplyRequestMsg asks the parent to open the compose view pre-filled
// with a suggested reply.
type ReplyRequestMsg struct {
	To        string
	Subject   string
	Body      string
	InReplyTo string
}

// summaryReadyMsg delivers the summary after the cosmetic delay.
type summaryReadyMsg struct {
	messageID string
	summary   assist.Summary
}

// Model is the message reading pane with its summary panel.
type Model struct {
	msg          *model.Message
	conversation []model.Message
	summary      *assist.Summary
	summarizing  bool
	viewport     viewport.Model
	keys         *keys.KeyMap
	latency      time.Duration
	width        int
	height       int
	loading      bool
}

// New creates a new reading pane. latency is the cosmetic delay before
// the summary panel fills in.
func New(k *keys.KeyMap, latency time.Duration, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		latency:  latency,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the reading pane.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the reading pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MessageLoadedMsg:
		m.msg = msg.Message
		m.conversation = msg.Conversation
		m.summary = nil
		m.summarizing = msg.Message != nil
		m.loading = false
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		if msg.Message == nil {
			return m, nil
		}
		return m, m.summarize(*msg.Message)

	case summaryReadyMsg:
		// A stale summary can arrive after the user opened another
		// message; drop it.
		if m.msg == nil || m.msg.ID != msg.messageID {
			return m, nil
		}
		s := msg.summary
		m.summary = &s
		m.summarizing = false
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Reply):
			if m.msg != nil {
				return m, m.requestReply()
			}

		case key.Matches(msg, m.keys.Star):
			if m.msg != nil {
				return m, m.action("star")
			}

		case key.Matches(msg, m.keys.Archive):
			if m.msg != nil {
				return m, m.action("archive")
			}

		case key.Matches(msg, m.keys.Delete):
			if m.msg != nil {
				return m, m.action("delete")
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// summarize schedules the summary panel fill-in after the cosmetic
// delay. The summary itself is computed immediately; only its display
// is deferred.
func (m Model) summarize(msg model.Message) tea.Cmd {
	summary := assist.Summarize(msg)
	id := msg.ID
	if m.latency <= 0 {
		return func() tea.Msg {
			return summaryReadyMsg{messageID: id, summary: summary}
		}
	}
	return tea.Tick(m.latency, func(time.Time) tea.Msg {
		return summaryReadyMsg{messageID: id, summary: summary}
	})
}

// requestReply emits a compose request pre-filled with the canned
// quick-reply suggestion.
func (m Model) requestReply() tea.Cmd {
	msg := *m.msg
	subject := msg.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}
	return func() tea.Msg {
		return ReplyRequestMsg{
			To:        msg.From.Email,
			Subject:   subject,
			Body:      assist.SuggestReply(msg),
			InReplyTo: msg.ID,
		}
	}
}

func (m Model) action(name string) tea.Cmd {
	id := m.msg.ID
	return func() tea.Msg {
		return ActionMsg{Action: name, MessageID: id}
	}
}

// View renders the reading pane.
func (m Model) View() string {
	if m.loading {
		loadingStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return loadingStyle.Render("Loading message...")
	}

	if m.msg == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No message selected")
	}

	return m.viewport.View()
}

// renderContent builds the full reading-pane content for the viewport.
func (m Model) renderContent() string {
	if m.msg == nil {
		return ""
	}

	msg := m.msg
	var sections []string

	// Subject line
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(msg.Subject))

	// Badges line: folder + star + labels
	folderBadge := theme.FolderStyle(string(msg.Folder)).Render(string(msg.Folder))
	badges := []string{folderBadge}
	if msg.Starred {
		badges = append(badges, theme.StarStyle.Render("★ starred"))
	}
	for _, l := range msg.Labels {
		badges = append(badges, theme.LabelStyle(strings.ToLower(l)).Render(l))
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, joinBadges(badges)...))
	sections = append(sections, "")

	// Metadata
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("From:"),
		valStyle.Render(msg.From.String()),
	))
	sections = append(sections, fmt.Sprintf(
		"%s    %s",
		metaStyle.Render("To:"),
		valStyle.Render(strings.Join(msg.To, ", ")),
	))
	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("Date:"),
		valStyle.Render(msg.Date.Format("2006-01-02 15:04")),
	))

	sections = append(sections, "", m.separator(), "")

	// Body
	sections = append(sections, msg.Body)

	// Summary panel
	sections = append(sections, "", m.separator(), "")
	sections = append(sections, m.renderSummary()...)

	// Earlier messages in the conversation
	if len(m.conversation) > 1 {
		sections = append(sections, "", m.separator(), "")
		sections = append(sections, m.renderConversation()...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderSummary builds the assistant summary section.
func (m Model) renderSummary() []string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections := []string{theme.AssistantStyle.Render("✦ ") + headerStyle.Render("Summary")}

	if m.summarizing {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("Summarizing..."))
		return sections
	}
	if m.summary == nil {
		return sections
	}

	s := m.summary
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	sections = append(sections, s.Text, "")
	if len(s.KeyPoints) > 0 {
		sections = append(sections, metaStyle.Render("Key points:"))
		for _, p := range s.KeyPoints {
			sections = append(sections, "  • "+p)
		}
	}
	if len(s.ActionItems) > 0 {
		sections = append(sections, metaStyle.Render("Action items:"))
		for _, a := range s.ActionItems {
			sections = append(sections, "  → "+a)
		}
	}
	sections = append(sections, fmt.Sprintf(
		"%s %s   %s %s",
		metaStyle.Render("Sentiment:"), s.Sentiment,
		metaStyle.Render("Priority:"), s.Priority,
	))
	return sections
}

// renderConversation lists the other messages sharing this subject.
func (m Model) renderConversation() []string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	sections := []string{headerStyle.Render(
		fmt.Sprintf("Conversation (%d messages)", len(m.conversation)),
	), ""}

	for _, c := range m.conversation {
		marker := "  "
		if c.ID == m.msg.ID {
			marker = "▶ "
		}
		sections = append(sections, fmt.Sprintf(
			"%s%s  %s",
			marker,
			c.From.Name,
			timeStyle.Render(c.Date.Format("Jan 2 15:04")),
		))
	}
	return sections
}

func (m Model) separator() string {
	w := m.width - 4
	if w > 80 {
		w = 80
	}
	if w < 1 {
		w = 1
	}
	return lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", w))
}

func joinBadges(badges []string) []string {
	out := make([]string, 0, len(badges)*2)
	for i, b := range badges {
		if i > 0 {
			out = append(out, "  ")
		}
		out = append(out, b)
	}
	return out
}

// CurrentMessageID returns the ID of the open message, if any.
func (m Model) CurrentMessageID() string {
	if m.msg == nil {
		return ""
	}
	return m.msg.ID
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetSize updates the reading pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
