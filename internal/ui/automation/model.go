package automation

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

// CloseMsg signals the parent to close the automation view.
type CloseMsg struct{}

// ChangedMsg signals that rules or schedules were modified.
type ChangedMsg struct{}

type automationMode int

const (
	modeList automationMode = iota
	modeRuleForm
	modeScheduleForm
	modeConfirmDelete
)

type automationTab int

const (
	tabRules automationTab = iota
	tabSchedules
)

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	// rule fields
	name        string
	condition   string
	value       string
	action      string
	actionValue string
	enabled     bool

	// schedule fields
	to      string
	subject string
	body    string
	cadence string
	day     string
	sendAt  string

	confirm bool
}

type rulesLoadedMsg struct {
	rules []model.Rule
}

type schedulesLoadedMsg struct {
	schedules []model.ScheduledEmail
}

type savedMsg struct{ err error }
type deletedMsg struct{ err error }

// Model is the Bubble Tea model for managing automation rules and
// scheduled emails.
type Model struct {
	mode        automationMode
	tab         automationTab
	store       store.Store
	keys        *keys.KeyMap
	rules       []model.Rule
	schedules   []model.ScheduledEmail
	selectedIdx int
	editingID   string
	isNew       bool
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new automation manager model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:  modeList,
		store: s,
		keys:  k,
		fb:    &formBindings{},
		width: width, height: height,
	}
}

// Init loads rules and schedules from the store.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadRules(), m.loadSchedules())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rulesLoadedMsg:
		m.rules = msg.rules
		m.clampSelection()
		return m, nil

	case schedulesLoadedMsg:
		m.schedules = msg.schedules
		m.clampSelection()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Saved"
		}
		m.mode = modeList
		return m, tea.Batch(m.reload(), func() tea.Msg { return ChangedMsg{} })

	case deletedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Deleted"
		}
		m.mode = modeList
		return m, tea.Batch(m.reload(), func() tea.Msg { return ChangedMsg{} })

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeRuleForm, modeScheduleForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.CycleFolder):
		if m.tab == tabRules {
			m.tab = tabSchedules
		} else {
			m.tab = tabRules
		}
		m.selectedIdx = 0
		m.statusMsg = ""
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if n := m.itemCount(); n > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if n := m.itemCount(); n > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = n - 1
			}
		}
		return m, nil

	case msg.String() == "n":
		return m.startCreate()

	case msg.String() == "e":
		return m.startEdit()

	case msg.String() == "t":
		return m.toggleEnabled()

	case key.Matches(msg, m.keys.Delete):
		if m.itemCount() == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) itemCount() int {
	if m.tab == tabRules {
		return len(m.rules)
	}
	return len(m.schedules)
}

func (m *Model) clampSelection() {
	if n := m.itemCount(); m.selectedIdx >= n && m.selectedIdx > 0 {
		m.selectedIdx = n - 1
	}
}

func (m Model) startCreate() (Model, tea.Cmd) {
	m.isNew = true
	m.editingID = ""

	if m.tab == tabRules {
		m.fb.name = ""
		m.fb.condition = string(model.ConditionFrom)
		m.fb.value = ""
		m.fb.action = string(model.ActionLabel)
		m.fb.actionValue = ""
		m.fb.enabled = true
		m.form = m.buildRuleForm()
		m.mode = modeRuleForm
		return m, m.form.Init()
	}

	m.fb.to = ""
	m.fb.subject = ""
	m.fb.body = ""
	m.fb.cadence = string(model.CadenceWeekly)
	m.fb.day = "Monday"
	m.fb.sendAt = "09:00"
	m.fb.enabled = true
	m.form = m.buildScheduleForm()
	m.mode = modeScheduleForm
	return m, m.form.Init()
}

func (m Model) startEdit() (Model, tea.Cmd) {
	if m.itemCount() == 0 {
		return m, nil
	}
	m.isNew = false

	if m.tab == tabRules {
		r := m.rules[m.selectedIdx]
		m.editingID = r.ID
		m.fb.name = r.Name
		m.fb.condition = string(r.Condition)
		m.fb.value = r.Value
		m.fb.action = string(r.Action)
		m.fb.actionValue = r.ActionValue
		m.fb.enabled = r.Enabled
		m.form = m.buildRuleForm()
		m.mode = modeRuleForm
		return m, m.form.Init()
	}

	se := m.schedules[m.selectedIdx]
	m.editingID = se.ID
	m.fb.to = se.To
	m.fb.subject = se.Subject
	m.fb.body = se.Body
	m.fb.cadence = string(se.Cadence)
	m.fb.day = se.Day
	m.fb.sendAt = se.Time
	m.fb.enabled = se.Enabled
	m.form = m.buildScheduleForm()
	m.mode = modeScheduleForm
	return m, m.form.Init()
}

func (m Model) toggleEnabled() (Model, tea.Cmd) {
	if m.itemCount() == 0 {
		return m, nil
	}
	s := m.store

	if m.tab == tabRules {
		r := m.rules[m.selectedIdx]
		r.Enabled = !r.Enabled
		return m, func() tea.Msg {
			return savedMsg{err: s.UpdateRule(context.Background(), r)}
		}
	}

	se := m.schedules[m.selectedIdx]
	se.Enabled = !se.Enabled
	return m, func() tea.Msg {
		return savedMsg{err: s.UpdateScheduledEmail(context.Background(), se)}
	}
}

func (m *Model) buildRuleForm() *huh.Form {
	conditionOpts := make([]huh.Option[string], len(model.RuleConditions))
	for i, c := range model.RuleConditions {
		conditionOpts[i] = huh.NewOption(conditionLabel(c), string(c))
	}
	actionOpts := make([]huh.Option[string], len(model.RuleActions))
	for i, a := range model.RuleActions {
		actionOpts[i] = huh.NewOption(actionLabel(a), string(a))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Client emails").
				Value(&m.fb.name).
				Validate(validateRequired("Name")),
			huh.NewSelect[string]().
				Title("When").
				Options(conditionOpts...).
				Value(&m.fb.condition),
			huh.NewInput().
				Title("Contains").
				Placeholder("@clientcompany.com").
				Value(&m.fb.value).
				Validate(validateRequired("Match value")),
			huh.NewSelect[string]().
				Title("Then").
				Options(actionOpts...).
				Value(&m.fb.action),
			huh.NewInput().
				Title("With").
				Placeholder("label name, folder, address, or reply text").
				Value(&m.fb.actionValue).
				Validate(validateRequired("Action value")),
			huh.NewConfirm().
				Title("Enabled").
				Value(&m.fb.enabled),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) buildScheduleForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("To").
				Placeholder("team@example.com").
				Value(&m.fb.to).
				Validate(validateRequired("Recipient")),
			huh.NewInput().
				Title("Subject").
				Value(&m.fb.subject).
				Validate(validateRequired("Subject")),
			huh.NewText().
				Title("Body").
				Value(&m.fb.body).
				Validate(validateRequired("Body")),
			huh.NewSelect[string]().
				Title("Cadence").
				Options(
					huh.NewOption("Once", string(model.CadenceOnce)),
					huh.NewOption("Daily", string(model.CadenceDaily)),
					huh.NewOption("Weekly", string(model.CadenceWeekly)),
					huh.NewOption("Monthly", string(model.CadenceMonthly)),
				).
				Value(&m.fb.cadence),
			huh.NewInput().
				Title("Day").
				Placeholder("Monday (weekly) or 1 (monthly)").
				Value(&m.fb.day),
			huh.NewInput().
				Title("Time").
				Placeholder("09:00").
				Value(&m.fb.sendAt).
				Validate(validateRequired("Time")),
			huh.NewConfirm().
				Title("Enabled").
				Value(&m.fb.enabled),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	name := ""
	if m.tab == tabRules && m.selectedIdx < len(m.rules) {
		name = m.rules[m.selectedIdx].Name
	} else if m.tab == tabSchedules && m.selectedIdx < len(m.schedules) {
		name = m.schedules[m.selectedIdx].Subject
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", name)).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		if m.mode == modeRuleForm {
			return m, m.saveRule()
		}
		return m, m.saveSchedule()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
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
		if m.fb.confirm {
			return m, m.deleteSelected()
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

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeRuleForm, modeScheduleForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the automation manager.
func (m Model) View() string {
	switch m.mode {
	case modeRuleForm, modeScheduleForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	tabStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	activeTabStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)

	rulesTab := tabStyle.Render("Rules")
	schedulesTab := tabStyle.Render("Scheduled")
	if m.tab == tabRules {
		rulesTab = activeTabStyle.Render("Rules")
	} else {
		schedulesTab = activeTabStyle.Render("Scheduled")
	}

	b.WriteString(titleStyle.Render("Automation"))
	b.WriteString("   ")
	b.WriteString(rulesTab)
	b.WriteString("  ")
	b.WriteString(schedulesTab)
	b.WriteString("\n\n")

	if m.tab == tabRules {
		m.renderRules(&b)
	} else {
		m.renderSchedules(&b)
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"n new | e edit | t enable/disable | x delete | tab switch | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) renderRules(b *strings.Builder) {
	if len(m.rules) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No rules yet. Press 'n' to create one."))
		return
	}

	dimStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	for i, r := range m.rules {
		state := "●"
		if !r.Enabled {
			state = "○"
		}
		label := fmt.Sprintf(
			"%s %s  %s",
			state, r.Name,
			dimStyle.Render(fmt.Sprintf(
				"when %s contains %q → %s %q",
				r.Condition, r.Value, actionVerb(r.Action), r.ActionValue,
			)),
		)
		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(label))
		} else {
			b.WriteString(theme.ListItemStyle.Render(label))
		}
		b.WriteString("\n")
	}
}

func (m Model) renderSchedules(b *strings.Builder) {
	if len(m.schedules) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No scheduled emails yet. Press 'n' to create one."))
		return
	}

	dimStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	for i, se := range m.schedules {
		state := "●"
		if !se.Enabled {
			state = "○"
		}
		when := string(se.Cadence)
		if se.Day != "" {
			when += " " + se.Day
		}
		when += " " + se.Time

		label := fmt.Sprintf(
			"%s %s  %s",
			state, se.Subject,
			dimStyle.Render(fmt.Sprintf("to %s, %s", se.To, when)),
		)
		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(label))
		} else {
			b.WriteString(theme.ListItemStyle.Render(label))
		}
		b.WriteString("\n")
	}
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
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

func (m Model) reload() tea.Cmd {
	if m.tab == tabRules {
		return m.loadRules()
	}
	return m.loadSchedules()
}

func (m Model) loadRules() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		rules, err := s.GetRules(context.Background())
		if err != nil {
			return rulesLoadedMsg{rules: nil}
		}
		return rulesLoadedMsg{rules: rules}
	}
}

func (m Model) loadSchedules() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		schedules, err := s.GetScheduledEmails(context.Background())
		if err != nil {
			return schedulesLoadedMsg{schedules: nil}
		}
		return schedulesLoadedMsg{schedules: schedules}
	}
}

func (m Model) saveRule() tea.Cmd {
	s := m.store
	fb := *m.fb
	editID := m.editingID
	isNew := m.isNew
	return func() tea.Msg {
		r := model.Rule{
			Name:        fb.name,
			Condition:   model.RuleCondition(fb.condition),
			Value:       fb.value,
			Action:      model.RuleAction(fb.action),
			ActionValue: fb.actionValue,
			Enabled:     fb.enabled,
		}
		if isNew {
			return savedMsg{err: s.CreateRule(context.Background(), r)}
		}
		r.ID = editID
		return savedMsg{err: s.UpdateRule(context.Background(), r)}
	}
}

func (m Model) saveSchedule() tea.Cmd {
	s := m.store
	fb := *m.fb
	editID := m.editingID
	isNew := m.isNew
	return func() tea.Msg {
		se := model.ScheduledEmail{
			To:      fb.to,
			Subject: fb.subject,
			Body:    fb.body,
			Cadence: model.Cadence(fb.cadence),
			Day:     fb.day,
			Time:    fb.sendAt,
			Enabled: fb.enabled,
		}
		if isNew {
			return savedMsg{err: s.CreateScheduledEmail(context.Background(), se)}
		}
		se.ID = editID
		return savedMsg{err: s.UpdateScheduledEmail(context.Background(), se)}
	}
}

func (m Model) deleteSelected() tea.Cmd {
	s := m.store
	if m.tab == tabRules {
		id := m.rules[m.selectedIdx].ID
		return func() tea.Msg {
			return deletedMsg{err: s.DeleteRule(context.Background(), id)}
		}
	}
	id := m.schedules[m.selectedIdx].ID
	return func() tea.Msg {
		return deletedMsg{err: s.DeleteScheduledEmail(context.Background(), id)}
	}
}

func conditionLabel(c model.RuleCondition) string {
	switch c {
	case model.ConditionFrom:
		return "Sender"
	case model.ConditionTo:
		return "Recipient"
	case model.ConditionSubject:
		return "Subject"
	case model.ConditionBody:
		return "Body"
	default:
		return string(c)
	}
}

func actionLabel(a model.RuleAction) string {
	switch a {
	case model.ActionLabel:
		return "Add label"
	case model.ActionMove:
		return "Move to folder"
	case model.ActionForward:
		return "Forward to"
	case model.ActionReply:
		return "Auto-reply with"
	default:
		return string(a)
	}
}

func actionVerb(a model.RuleAction) string {
	switch a {
	case model.ActionLabel:
		return "label"
	case model.ActionMove:
		return "move to"
	case model.ActionForward:
		return "forward to"
	case model.ActionReply:
		return "reply with"
	default:
		return string(a)
	}
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
