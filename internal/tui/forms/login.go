// ABOUTME: Sign-in screen as a bubbletea model
// ABOUTME: Wraps the login huh form and reports submitted credentials

package forms

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/blogctl/internal/client"
	"github.com/markalston/blogctl/internal/tui/styles"
)

// LoginSubmittedMsg carries the credentials entered on the login screen
type LoginSubmittedMsg struct {
	Request *client.LoginRequest
}

// Login is the sign-in screen
type Login struct {
	form     *huh.Form
	email    string
	password string
	notice   string
	err      string
}

// NewLogin creates a login screen. notice is shown above the form, e.g. to
// explain that the session expired.
func NewLogin(email, notice string) *Login {
	l := &Login{email: email, notice: notice}
	l.form = huh.NewForm(loginGroup(&l.email, &l.password)).WithTheme(styles.FormTheme())
	return l
}

// SetError shows a failed sign-in attempt and lets the user try again
func (l *Login) SetError(msg string) {
	l.err = msg
	l.password = ""
	l.form = huh.NewForm(loginGroup(&l.email, &l.password)).WithTheme(styles.FormTheme())
}

// Email returns the address typed so far
func (l *Login) Email() string {
	return strings.TrimSpace(l.email)
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return l, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		req := &client.LoginRequest{Email: strings.TrimSpace(l.email), Password: l.password}
		return l, func() tea.Msg { return LoginSubmittedMsg{Request: req} }
	}
	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder
	if l.notice != "" {
		sb.WriteString(styles.StatusWarning.Render(l.notice))
		sb.WriteString("\n\n")
	}
	if l.err != "" {
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Danger).Render(l.err))
		sb.WriteString("\n\n")
	}
	sb.WriteString(l.form.View())
	return sb.String()
}
