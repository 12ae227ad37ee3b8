// ABOUTME: Home menu for the TUI
// ABOUTME: Lets the user pick a feed, start a post, or sign in and out

package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/blogctl/internal/tui/icons"
	"github.com/markalston/blogctl/internal/tui/styles"
)

// Action represents a menu choice
type Action int

const (
	ActionPublished Action = iota
	ActionDrafts
	ActionNewPost
	ActionSignIn
	ActionSignOut
	ActionQuit
)

// SelectedMsg is sent when the user picks an enabled option
type SelectedMsg struct {
	Action Action
}

type option struct {
	label   string
	icon    icons.Icon
	value   Action
	enabled bool
}

// Menu represents the home menu
type Menu struct {
	options []option
	cursor  int
}

// New creates the menu for a signed-in or anonymous user
func New(authenticated bool) *Menu {
	m := &Menu{
		options: []option{
			{label: "Published posts", icon: icons.Post, value: ActionPublished, enabled: true},
			{label: "My drafts", icon: icons.Draft, value: ActionDrafts, enabled: authenticated},
			{label: "New post", icon: icons.New, value: ActionNewPost, enabled: authenticated},
		},
	}
	if authenticated {
		m.options = append(m.options, option{label: "Sign out", icon: icons.Logout, value: ActionSignOut, enabled: true})
	} else {
		m.options = append(m.options, option{label: "Sign in", icon: icons.Lock, value: ActionSignIn, enabled: true})
	}
	m.options = append(m.options, option{label: "Quit", icon: icons.Quit, value: ActionQuit, enabled: true})
	return m
}

// Selected returns the action under the cursor
func (m *Menu) Selected() Action {
	return m.options[m.cursor].value
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "q":
		return m, func() tea.Msg { return SelectedMsg{Action: ActionQuit} }
	case "enter":
		opt := m.options[m.cursor]
		if !opt.enabled {
			return m, nil
		}
		return m, func() tea.Msg { return SelectedMsg{Action: opt.value} }
	}
	return m, nil
}

// move steps the cursor, skipping disabled options
func (m *Menu) move(delta int) {
	n := len(m.options)
	for i := 1; i < n; i++ {
		next := (m.cursor + delta*i + n*n) % n
		if m.options[next].enabled {
			m.cursor = next
			return
		}
	}
}

// View implements tea.Model
func (m *Menu) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("What would you like to do?"))
	sb.WriteString("\n")

	for i, opt := range m.options {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(styles.Text)
		if i == m.cursor {
			cursor = lipgloss.NewStyle().Foreground(styles.Primary).Render("> ")
			style = style.Foreground(styles.Primary).Bold(true)
		}
		label := opt.icon.String() + " " + opt.label
		if !opt.enabled {
			label += " (sign in first)"
			style = lipgloss.NewStyle().Foreground(styles.Muted)
		}
		sb.WriteString(cursor + style.Render(label) + "\n")
	}
	return sb.String()
}

// String returns the string representation of an Action
func (a Action) String() string {
	switch a {
	case ActionPublished:
		return "published"
	case ActionDrafts:
		return "drafts"
	case ActionNewPost:
		return "new-post"
	case ActionSignIn:
		return "sign-in"
	case ActionSignOut:
		return "sign-out"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}
