// Package login renders the sign-in view: it points to the Twitch
// OAuth page and accepts the session token issued there.
package login

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/miwitv/fanclient/internal/theme"
)

// TokenSubmittedMsg carries the session token entered by the user.
type TokenSubmittedMsg struct {
	Token string
}

// CancelledMsg is sent when the user leaves the login view.
type CancelledMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	token string
}

// Model is the login view component.
type Model struct {
	loginURL string
	form     *huh.Form
	fb       *formBindings
	width    int
	height   int
}

// New creates a login view pointing at the given OAuth login URL.
func New(loginURL string, width, height int) Model {
	return Model{
		loginURL: loginURL,
		fb:       &formBindings{},
		width:    width,
		height:   height,
	}
}

// Start resets the token form and focuses it.
func (m *Model) Start() tea.Cmd {
	m.fb.token = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Session-Token").
				Placeholder("Token aus dem Browser einfügen").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.token),
		),
	).WithWidth(m.formWidth())
	return m.form.Init()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		token := m.fb.token
		m.form = nil
		return m, func() tea.Msg { return TokenSubmittedMsg{Token: token} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelledMsg{} }
	}
	return m, cmd
}

// View renders the login instructions and the token form.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Anmeldung erforderlich")
	instructions := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		"Melde dich im Browser über Twitch an:",
		theme.SuccessStyle.Render(m.loginURL),
		"",
		theme.HelpStyle.Render("Danach den ausgestellten Session-Token hier eintragen."),
	)

	formView := ""
	if m.form != nil {
		formView = "\n" + m.form.View()
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(instructions + formView)
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
