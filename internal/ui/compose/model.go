package compose

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/darkmailhq/darkmail/internal/assist"
	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/outbox"
	"github.com/darkmailhq/darkmail/internal/schedule"
	"github.com/darkmailhq/darkmail/internal/theme"
)

// SubmitMsg is dispatched when the user sends the composed message.
type SubmitMsg struct {
	Options outbox.Options
}

// CancelMsg is dispatched when the user abandons the draft.
type CancelMsg struct{}

// Next-step choices offered after the draft form.
const (
	actionSend    = "send"
	actionExtend  = "extend"
	actionMeeting = "meeting"
)

type composeMode int

const (
	modeDraft composeMode = iota
	modeMeetingPrefs
	modeSlotPick
)

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	to      string
	cc      string
	subject string
	body    string
	action  string

	datePref string
	timePref string
	slot     string
}

// Model is the Bubble Tea model for composing mail, with the writing
// assistant and the meeting coordinator folded into the flow.
type Model struct {
	mode      composeMode
	form      *huh.Form
	fb        *formBindings
	inReplyTo string
	now       func() time.Time
	width     int
	height    int
}

// New creates a new compose model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		now:    time.Now,
		width:  width,
		height: height,
	}
}

// StartCompose initializes the form for a fresh message.
func (m *Model) StartCompose() tea.Cmd {
	*m.fb = formBindings{action: actionSend}
	m.inReplyTo = ""
	m.mode = modeDraft
	m.form = m.buildDraftForm()
	return m.form.Init()
}

// StartReply initializes the form pre-filled as a reply.
func (m *Model) StartReply(to, subject, body, inReplyTo string) tea.Cmd {
	*m.fb = formBindings{to: to, subject: subject, body: body, action: actionSend}
	m.inReplyTo = inReplyTo
	m.mode = modeDraft
	m.form = m.buildDraftForm()
	return m.form.Init()
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.handleCompleted()
	}
	if m.form.State == huh.StateAborted {
		if m.mode == modeDraft {
			return m, func() tea.Msg { return CancelMsg{} }
		}
		// Abandoning the meeting coordinator returns to the draft.
		m.mode = modeDraft
		m.form = m.buildDraftForm()
		return m, m.form.Init()
	}

	return m, cmd
}

// handleCompleted advances the flow after a form submits.
func (m Model) handleCompleted() (Model, tea.Cmd) {
	switch m.mode {
	case modeDraft:
		switch m.fb.action {
		case actionExtend:
			m.fb.body += assist.CompleteDraft(m.fb.body)
			m.fb.action = actionSend
			m.form = m.buildDraftForm()
			return m, m.form.Init()

		case actionMeeting:
			m.fb.datePref = string(model.DateThisWeek)
			m.fb.timePref = string(model.TimeAny)
			m.mode = modeMeetingPrefs
			m.form = m.buildPrefsForm()
			return m, m.form.Init()

		default:
			return m, m.submit()
		}

	case modeMeetingPrefs:
		m.fb.slot = ""
		m.mode = modeSlotPick
		m.form = m.buildSlotForm()
		return m, m.form.Init()

	case modeSlotPick:
		if m.fb.slot != "" {
			if m.fb.body != "" && !strings.HasSuffix(m.fb.body, "\n") {
				m.fb.body += "\n\n"
			}
			m.fb.body += "Could we meet on " + m.fb.slot + "?"
		}
		m.fb.action = actionSend
		m.mode = modeDraft
		m.form = m.buildDraftForm()
		return m, m.form.Init()
	}

	return m, nil
}

func (m Model) submit() tea.Cmd {
	opts := outbox.Options{
		To:        splitAddresses(m.fb.to),
		CC:        splitAddresses(m.fb.cc),
		Subject:   m.fb.subject,
		Body:      m.fb.body,
		InReplyTo: m.inReplyTo,
	}
	return func() tea.Msg {
		return SubmitMsg{Options: opts}
	}
}

func (m *Model) buildDraftForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("To").
				Placeholder("recipient@example.com").
				Value(&m.fb.to).
				Validate(validateRequired("Recipient")),
			huh.NewInput().
				Title("Cc").
				Placeholder("optional, comma separated").
				Value(&m.fb.cc),
			huh.NewInput().
				Title("Subject").
				Value(&m.fb.subject).
				Validate(validateRequired("Subject")),
			huh.NewText().
				Title("Body").
				Value(&m.fb.body).
				Validate(validateRequired("Body")),
			huh.NewSelect[string]().
				Title("Next").
				Options(
					huh.NewOption("Send", actionSend),
					huh.NewOption("Extend draft with writing assistant", actionExtend),
					huh.NewOption("Propose meeting times", actionMeeting),
				).
				Value(&m.fb.action),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) buildPrefsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("When").
				Options(
					huh.NewOption("This week", string(model.DateThisWeek)),
					huh.NewOption("Next week", string(model.DateNextWeek)),
					huh.NewOption("Next month", string(model.DateNextMonth)),
				).
				Value(&m.fb.datePref),
			huh.NewSelect[string]().
				Title("Time of day").
				Options(
					huh.NewOption("Morning", string(model.TimeMorning)),
					huh.NewOption("Afternoon", string(model.TimeAfternoon)),
					huh.NewOption("Evening", string(model.TimeEvening)),
					huh.NewOption("Any time", string(model.TimeAny)),
				).
				Value(&m.fb.timePref),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) buildSlotForm() *huh.Form {
	slots := schedule.Suggest(
		model.DatePreference(m.fb.datePref),
		model.TimePreference(m.fb.timePref),
		m.now(),
	)

	opts := make([]huh.Option[string], 0, len(slots)+1)
	for _, s := range slots {
		label := s.Date + " at " + s.Time
		opts = append(opts, huh.NewOption(label, label))
	}
	opts = append(opts, huh.NewOption("None of these", ""))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Proposed times").
				Description("Suggestions only; no calendar is consulted.").
				Options(opts...).
				Value(&m.fb.slot),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// View renders the compose view.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Message"
	switch {
	case m.mode == modeMeetingPrefs, m.mode == modeSlotPick:
		titleText = "Meeting Coordinator"
	case m.inReplyTo != "":
		titleText = "Reply"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
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

func splitAddresses(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
