// ABOUTME: Comment entry screen as a bubbletea model

package forms

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/markalston/blogctl/internal/client"
	"github.com/markalston/blogctl/internal/tui/styles"
)

// CommentSubmittedMsg carries a new comment for PostID
type CommentSubmittedMsg struct {
	PostID  string
	Request *client.CreateCommentRequest
}

// Comment collects the text of a new comment
type Comment struct {
	postID  string
	content string
	form    *huh.Form
}

func NewComment(postID, postTitle string) *Comment {
	c := &Comment{postID: postID}
	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Comment").
				Description("Up to 100 characters").
				CharLimit(100).
				Value(&c.content).
				Validate(lengthBetween(1, 100)),
		).Title("Comment on " + postTitle),
	).WithTheme(styles.FormTheme())
	return c
}

// Init implements tea.Model
func (c *Comment) Init() tea.Cmd {
	return c.form.Init()
}

// Update implements tea.Model
func (c *Comment) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return c, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		submitted := CommentSubmittedMsg{
			PostID:  c.postID,
			Request: &client.CreateCommentRequest{Content: strings.TrimSpace(c.content)},
		}
		return c, func() tea.Msg { return submitted }
	}
	return c, cmd
}

// View implements tea.Model
func (c *Comment) View() string {
	return c.form.View()
}
