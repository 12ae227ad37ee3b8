// ABOUTME: Scrollable, filterable list of posts
// ABOUTME: Wraps bubbles/list and reports which post the user opened

package postlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/blogctl/internal/client"
	"github.com/markalston/blogctl/internal/tui/styles"
)

// OpenPostMsg is sent when the user opens the selected post
type OpenPostMsg struct {
	ID string
}

// item adapts a post to list.DefaultItem
type item struct {
	post client.Post
}

func (i item) Title() string {
	if i.post.Status == client.StatusDraft {
		return i.post.Title + " [draft]"
	}
	return i.post.Title
}

func (i item) Description() string {
	parts := []string{}
	if i.post.Author != nil && i.post.Author.Name != "" {
		parts = append(parts, "by "+i.post.Author.Name)
	}
	if i.post.Category.Name != "" {
		parts = append(parts, i.post.Category.Name)
	}
	if len(i.post.Tags) > 0 {
		names := make([]string, 0, len(i.post.Tags))
		for _, t := range i.post.Tags {
			names = append(names, "#"+t.Name)
		}
		parts = append(parts, strings.Join(names, " "))
	}
	if i.post.ReadingTime > 0 {
		parts = append(parts, fmt.Sprintf("%d min read", i.post.ReadingTime))
	}
	return strings.Join(parts, " · ")
}

func (i item) FilterValue() string {
	return i.post.Title
}

// List is the post list screen
type List struct {
	list list.Model
}

// New creates a list titled title showing posts
func New(title string, posts []client.Post, width, height int) *List {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(styles.Primary).
		BorderLeftForeground(styles.Primary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(styles.Accent).
		BorderLeftForeground(styles.Primary)

	l := list.New(items(posts), delegate, width, height)
	l.Title = title
	l.Styles.Title = lipgloss.NewStyle().Foreground(styles.Text).Background(styles.Primary).Padding(0, 1)
	l.SetStatusBarItemName("post", "posts")
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	return &List{list: l}
}

func items(posts []client.Post) []list.Item {
	out := make([]list.Item, 0, len(posts))
	for _, p := range posts {
		out = append(out, item{post: p})
	}
	return out
}

// SetPosts replaces the list contents
func (l *List) SetPosts(posts []client.Post) tea.Cmd {
	return l.list.SetItems(items(posts))
}

// SetSize updates the list dimensions
func (l *List) SetSize(width, height int) {
	l.list.SetSize(width, height)
}

// Len returns the number of posts shown
func (l *List) Len() int {
	return len(l.list.Items())
}

// Filtering reports whether the user is typing a filter, in which case
// single-letter shortcuts belong to the filter input
func (l *List) Filtering() bool {
	return l.list.FilterState() == list.Filtering
}

// Selected returns the highlighted post, or nil when the list is empty
func (l *List) Selected() *client.Post {
	it, ok := l.list.SelectedItem().(item)
	if !ok {
		return nil
	}
	p := it.post
	return &p
}

// Init implements tea.Model
func (l *List) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" && !l.Filtering() {
		if p := l.Selected(); p != nil {
			id := p.ID
			return l, func() tea.Msg { return OpenPostMsg{ID: id} }
		}
		return l, nil
	}

	var cmd tea.Cmd
	l.list, cmd = l.list.Update(msg)
	return l, cmd
}

// View implements tea.Model
func (l *List) View() string {
	if l.Len() == 0 {
		return styles.Title.Render(l.list.Title) + "\n" + styles.Subtitle.Render("No posts found.")
	}
	return l.list.View()
}
