// ABOUTME: Post reader displaying a post body with its comments
// ABOUTME: Content scrolls inside a bubbles viewport sized to the frame

package postview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/blogctl/internal/client"
	"github.com/markalston/blogctl/internal/tui/icons"
	"github.com/markalston/blogctl/internal/tui/styles"
	"github.com/markalston/blogctl/internal/tui/widgets"
)

// View displays one post
type View struct {
	post          *client.Post
	comments      []client.Comment
	currentUserID string
	viewport      viewport.Model
	width         int
}

// New creates a post view. Comments by currentUserID are marked as the
// user's own.
func New(post *client.Post, comments []client.Comment, currentUserID string, width, height int) *View {
	v := &View{
		post:          post,
		comments:      comments,
		currentUserID: currentUserID,
		viewport:      viewport.New(width, height),
		width:         width,
	}
	v.viewport.SetContent(v.render())
	return v
}

// Post returns the displayed post
func (v *View) Post() *client.Post {
	return v.post
}

// IsOwn reports whether the displayed post was written by the current user
func (v *View) IsOwn() bool {
	return v.currentUserID != "" && v.post.Author != nil && string(v.post.Author.ID) == v.currentUserID
}

// SetSize updates the view dimensions
func (v *View) SetSize(width, height int) {
	v.width = width
	v.viewport.Width = width
	v.viewport.Height = height
	v.viewport.SetContent(v.render())
}

// Init implements tea.Model
func (v *View) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (v *View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View implements tea.Model
func (v *View) View() string {
	return v.viewport.View()
}

func (v *View) render() string {
	p := v.post
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(p.Title))
	sb.WriteString("\n")

	meta := []string{}
	if p.Status != "" {
		meta = append(meta, widgets.PostStatusBadge(p.Status))
	}
	if p.Author != nil && p.Author.Name != "" {
		meta = append(meta, styles.Byline.Render(icons.User.String()+" "+p.Author.Name))
	}
	if !p.UpdatedAt.IsZero() {
		meta = append(meta, styles.Subtitle.UnsetMarginBottom().Render(p.UpdatedAt.Local().Format("Jan 2, 2006")))
	}
	if p.ReadingTime > 0 {
		meta = append(meta, styles.Subtitle.UnsetMarginBottom().Render(fmt.Sprintf("%d min read", p.ReadingTime)))
	}
	sb.WriteString(strings.Join(meta, "  "))
	sb.WriteString("\n")

	if p.Category.Name != "" || len(p.Tags) > 0 {
		line := ""
		if p.Category.Name != "" {
			line = icons.Folder.String() + " " + p.Category.Name
		}
		if len(p.Tags) > 0 {
			names := make([]string, 0, len(p.Tags))
			for _, t := range p.Tags {
				names = append(names, "#"+t.Name)
			}
			if line != "" {
				line += "   "
			}
			line += icons.Tag.String() + " " + strings.Join(names, " ")
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render(line))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	body := lipgloss.NewStyle().Foreground(styles.Text)
	if v.width > 0 {
		body = body.Width(v.width)
	}
	sb.WriteString(body.Render(p.Content))
	sb.WriteString("\n\n")

	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Comments (%d)", icons.Comment.String(), len(v.comments))))
	sb.WriteString("\n")
	if len(v.comments) == 0 {
		sb.WriteString(styles.Subtitle.Render("No comments yet."))
		return sb.String()
	}

	for _, c := range v.comments {
		name := "anonymous"
		own := false
		if c.Author != nil {
			if c.Author.Name != "" {
				name = c.Author.Name
			}
			own = v.currentUserID != "" && string(c.Author.ID) == v.currentUserID
		}
		if own {
			name += " (you)"
		}
		sb.WriteString(styles.Byline.Render(name))
		sb.WriteString("\n")
		sb.WriteString(body.Render(c.Content))
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
