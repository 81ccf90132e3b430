package settings

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/darkmailhq/darkmail/internal/credential"
	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/theme"
)

// SavedMsg is dispatched when the user submits the settings form.
// PassphraseErr carries a keyring failure; the config itself is still
// valid and should be applied.
type SavedMsg struct {
	Config        *model.AppConfig
	PassphraseErr error
}

// storePassphrase writes the mailbox passphrase to the system keyring.
// Swappable in tests.
var storePassphrase = credential.Set

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name       string
	email      string
	signature  string
	enabled    bool
	latencyMS  string
	reminder   string
	themeName  string
	passphrase string
}

// Model is the Bubble Tea model for the settings form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new settings model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form from the current configuration.
func (m *Model) Start(cfg *model.AppConfig) tea.Cmd {
	m.fb.name = cfg.Account.Name
	m.fb.email = cfg.Account.Email
	m.fb.signature = cfg.Account.Signature
	m.fb.enabled = cfg.Assistant.Enabled
	m.fb.latencyMS = strconv.Itoa(cfg.Assistant.LatencyMS)
	m.fb.reminder = strconv.Itoa(cfg.Calendar.DefaultReminderMin)
	m.fb.themeName = cfg.Display.Theme
	m.fb.passphrase = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

func (m Model) handleSubmit() tea.Cmd {
	fb := *m.fb
	return func() tea.Msg {
		latency, _ := strconv.Atoi(fb.latencyMS)
		reminder, _ := strconv.Atoi(fb.reminder)

		cfg := &model.AppConfig{
			Account: model.AccountConfig{
				Name:      fb.name,
				Email:     fb.email,
				Signature: fb.signature,
			},
			Assistant: model.AssistantConfig{
				Enabled:   fb.enabled,
				LatencyMS: latency,
			},
			Calendar: model.CalendarConfig{
				DefaultReminderMin: reminder,
			},
			Display: model.DisplayConfig{
				Theme: fb.themeName,
			},
		}

		// The passphrase goes to the keyring, never to the config file.
		var passErr error
		if fb.passphrase != "" {
			passErr = storePassphrase(credential.PassphraseKey, fb.passphrase)
		}

		return SavedMsg{Config: cfg, PassphraseErr: passErr}
	}
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Display name").
				Value(&m.fb.name).
				Validate(validateRequired("Display name")),
			huh.NewInput().
				Title("Email address").
				Value(&m.fb.email).
				Validate(validateRequired("Email address")),
			huh.NewText().
				Title("Signature").
				Placeholder("Appended to outgoing mail (optional)").
				Value(&m.fb.signature),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable assistant").
				Value(&m.fb.enabled),
			huh.NewInput().
				Title("Assistant latency (ms)").
				Description("Cosmetic thinking delay; never affects results.").
				Value(&m.fb.latencyMS).
				Validate(validateInt),
			huh.NewInput().
				Title("Default reminder (minutes)").
				Value(&m.fb.reminder).
				Validate(validateInt),
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Default", "default"),
					huh.NewOption("High contrast", "high-contrast"),
				).
				Value(&m.fb.themeName),
			huh.NewInput().
				Title("Mailbox passphrase").
				Description("Stored in the system keyring. Leave blank to keep the current one.").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.passphrase),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Settings") + "\n" + m.form.View()

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

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}
