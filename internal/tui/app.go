// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/markalston/blogctl/internal/client"
	"github.com/markalston/blogctl/internal/session"
	"github.com/markalston/blogctl/internal/taxonomy"
	"github.com/markalston/blogctl/internal/tui/forms"
	"github.com/markalston/blogctl/internal/tui/icons"
	"github.com/markalston/blogctl/internal/tui/menu"
	"github.com/markalston/blogctl/internal/tui/postlist"
	"github.com/markalston/blogctl/internal/tui/postview"
	"github.com/markalston/blogctl/internal/tui/styles"
	"github.com/markalston/blogctl/internal/tui/widgets"
	"github.com/markalston/blogctl/internal/validation"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenPosts
	ScreenPost
	ScreenLogin
	ScreenComment
	ScreenEditor
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before the frame stops shrinking
	frameOverhead    = 4  // Header, footer, and the newlines around content
)

const sessionExpiredNotice = "Session expired. Sign in again."

const draftPageSize = 20

// feed selects which posts the list shows
type feed int

const (
	feedPublished feed = iota
	feedDrafts
)

func (f feed) title() string {
	if f == feedDrafts {
		return "My drafts"
	}
	return "Published posts"
}

// API is the slice of the blog client the TUI calls
type API interface {
	Login(ctx context.Context, in *client.LoginRequest) (*client.AuthResponse, error)
	ListPosts(ctx context.Context, filter client.PostFilter) ([]client.Post, error)
	ListDrafts(ctx context.Context, query client.DraftQuery) ([]client.Post, error)
	GetPost(ctx context.Context, id string) (*client.Post, error)
	CreatePost(ctx context.Context, in *client.PostInput) (*client.Post, error)
	DeletePost(ctx context.Context, id string) error
	ListComments(ctx context.Context, postID string) ([]client.Comment, error)
	CreateComment(ctx context.Context, postID string, in *client.CreateCommentRequest) (*client.Comment, error)
}

// postsLoadedMsg is sent when a feed has been fetched
type postsLoadedMsg struct {
	feed  feed
	posts []client.Post
	err   error
}

// postLoadedMsg is sent when a post and its comments have been fetched
type postLoadedMsg struct {
	post     *client.Post
	comments []client.Comment
	err      error
}

// taxonomyLoadedMsg is sent when categories and tags are ready for the editor
type taxonomyLoadedMsg struct {
	snapshot *taxonomy.Snapshot
	err      error
}

// loginDoneMsg is sent when a sign-in attempt finishes
type loginDoneMsg struct {
	err error
	// rejected is set when the login endpoint itself refused the credentials
	rejected bool
}

// postCreatedMsg is sent when a new post has been saved
type postCreatedMsg struct {
	post *client.Post
	err  error
}

// postDeletedMsg is sent when a post has been deleted
type postDeletedMsg struct {
	err error
}

// commentAddedMsg is sent when a comment has been posted
type commentAddedMsg struct {
	postID string
	err    error
}

// sessionChangedMsg is sent after any session mutation
type sessionChangedMsg struct{}

// App is the root model for the TUI
type App struct {
	ctx      context.Context
	api      API
	session  *session.Manager
	taxonomy *taxonomy.Resolver
	logger   *slog.Logger

	screen     Screen
	returnTo   Screen
	width      int
	height     int
	err        error
	status     string
	loading    bool
	lastUpdate time.Time

	feed          feed
	confirmDelete bool

	// Child models
	menu    *menu.Menu
	posts   *postlist.List
	post    *postview.View
	login   *forms.Login
	comment *forms.Comment
	editor  *forms.Editor
	spinner spinner.Model
}

// New creates a new TUI application
func New(ctx context.Context, api API, sess *session.Manager, tax *taxonomy.Resolver, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &App{
		ctx:      ctx,
		api:      api,
		session:  sess,
		taxonomy: tax,
		logger:   logger,
		screen:   ScreenMenu,
		menu:     menu.New(sess.Snapshot().IsAuthenticated),
		spinner:  sp,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.posts != nil {
			a.posts.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.post != nil {
			a.post.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.editor != nil {
			a.editor.SetWidth(a.width)
		}
		return a.updateForm(msg)

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.err = nil

		// Route to current screen
		switch a.screen {
		case ScreenMenu:
			return a.updateMenu(msg)
		case ScreenPosts:
			return a.updatePosts(msg)
		case ScreenPost:
			return a.updatePost(msg)
		default:
			return a.updateForm(msg)
		}

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case sessionChangedMsg:
		if a.screen == ScreenMenu {
			a.menu = menu.New(a.session.Snapshot().IsAuthenticated)
		}
		return a, nil

	case menu.SelectedMsg:
		return a.handleMenuSelected(msg)

	case postlist.OpenPostMsg:
		return a, a.startLoading(a.loadPost(msg.ID))

	case forms.LoginSubmittedMsg:
		if err := validation.Struct(msg.Request); err != nil {
			a.login.SetError(err.Error())
			return a, a.login.Init()
		}
		return a, a.startLoading(a.signIn(msg.Request))

	case forms.CommentSubmittedMsg:
		if err := validation.Struct(msg.Request); err != nil {
			a.err = err
			a.screen = ScreenPost
			a.comment = nil
			return a, nil
		}
		a.comment = nil
		a.screen = ScreenPost
		return a, a.startLoading(a.addComment(msg.PostID, msg.Request))

	case forms.PostSubmittedMsg:
		a.editor = nil
		a.screen = a.returnTo
		if err := validation.Struct(msg.Input); err != nil {
			a.err = err
			return a, nil
		}
		return a, a.startLoading(a.createPost(msg.Input))

	case forms.CancelledMsg:
		return a.handleCancelled()

	case postsLoadedMsg:
		a.loading = false
		if msg.err != nil {
			return a.fail(msg.err)
		}
		a.feed = msg.feed
		a.lastUpdate = time.Now()
		a.posts = postlist.New(msg.feed.title(), msg.posts, a.contentWidth(), a.contentHeight())
		a.screen = ScreenPosts
		return a, nil

	case postLoadedMsg:
		a.loading = false
		if msg.err != nil {
			return a.fail(msg.err)
		}
		a.lastUpdate = time.Now()
		a.post = postview.New(msg.post, msg.comments, a.session.Snapshot().CurrentUserID(), a.contentWidth(), a.contentHeight())
		a.confirmDelete = false
		a.screen = ScreenPost
		return a, nil

	case taxonomyLoadedMsg:
		a.loading = false
		if msg.err != nil {
			return a.fail(msg.err)
		}
		a.returnTo = a.screen
		a.editor = forms.NewEditor(msg.snapshot)
		a.editor.SetWidth(a.width)
		a.screen = ScreenEditor
		return a, a.editor.Init()

	case loginDoneMsg:
		a.loading = false
		if a.login == nil {
			return a, nil
		}
		if msg.err != nil {
			if msg.rejected {
				a.login.SetError("Invalid email or password.")
			} else {
				a.login.SetError(msg.err.Error())
			}
			return a, a.login.Init()
		}
		a.login = nil
		a.goToMenu()
		if u := a.session.Snapshot().User; u != nil {
			a.status = "Signed in as " + u.Name
		}
		return a, nil

	case postCreatedMsg:
		a.loading = false
		if msg.err != nil {
			return a.fail(msg.err)
		}
		a.status = "Created " + msg.post.Title
		return a, a.startLoading(a.loadPost(msg.post.ID))

	case postDeletedMsg:
		a.loading = false
		if msg.err != nil {
			return a.fail(msg.err)
		}
		a.status = "Post deleted"
		a.post = nil
		return a, a.startLoading(a.loadPosts(a.feed))

	case commentAddedMsg:
		a.loading = false
		if msg.err != nil {
			return a.fail(msg.err)
		}
		a.status = "Comment added"
		return a, a.startLoading(a.loadPost(msg.postID))

	default:
		// Forward unknown messages to the active form (needed for huh form internals)
		return a.updateForm(msg)
	}
}

func (a *App) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	model, cmd := a.menu.Update(msg)
	a.menu = model.(*menu.Menu)
	return a, cmd
}

func (a *App) updatePosts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.posts == nil {
		return a, nil
	}
	if !a.posts.Filtering() {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "b", "esc":
			a.goToMenu()
			return a, nil
		case "r":
			return a, a.startLoading(a.loadPosts(a.feed))
		case "n":
			return a.newPost()
		}
	}
	model, cmd := a.posts.Update(msg)
	a.posts = model.(*postlist.List)
	return a, cmd
}

func (a *App) updatePost(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.post == nil {
		return a, nil
	}
	key := msg.String()
	if key != "d" {
		a.confirmDelete = false
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "b", "esc":
		a.post = nil
		if a.posts != nil {
			a.screen = ScreenPosts
		} else {
			a.goToMenu()
		}
		return a, nil
	case "r":
		return a, a.startLoading(a.loadPost(a.post.Post().ID))
	case "c":
		if !a.session.Snapshot().IsAuthenticated {
			return a, a.showLogin("Sign in to comment.")
		}
		p := a.post.Post()
		a.comment = forms.NewComment(p.ID, p.Title)
		a.screen = ScreenComment
		return a, a.comment.Init()
	case "d":
		if !a.post.IsOwn() {
			return a, nil
		}
		if !a.confirmDelete {
			a.confirmDelete = true
			a.status = "Press d again to delete"
			return a, nil
		}
		a.confirmDelete = false
		return a, a.startLoading(a.deletePost(a.post.Post().ID))
	}

	model, cmd := a.post.Update(msg)
	a.post = model.(*postview.View)
	return a, cmd
}

// updateForm forwards msg to whichever form screen is active
func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin:
		if a.login != nil {
			_, cmd = a.login.Update(msg)
		}
	case ScreenComment:
		if a.comment != nil {
			_, cmd = a.comment.Update(msg)
		}
	case ScreenEditor:
		if a.editor != nil {
			_, cmd = a.editor.Update(msg)
		}
	}
	return a, cmd
}

func (a *App) handleMenuSelected(msg menu.SelectedMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case menu.ActionPublished:
		return a, a.startLoading(a.loadPosts(feedPublished))
	case menu.ActionDrafts:
		return a, a.startLoading(a.loadPosts(feedDrafts))
	case menu.ActionNewPost:
		return a.newPost()
	case menu.ActionSignIn:
		return a, a.showLogin("")
	case menu.ActionSignOut:
		a.session.Logout()
		a.status = "Signed out"
		a.goToMenu()
		return a, nil
	case menu.ActionQuit:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleCancelled() (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenLogin:
		a.login = nil
		a.goToMenu()
	case ScreenComment:
		a.comment = nil
		a.screen = ScreenPost
	case ScreenEditor:
		a.editor = nil
		a.screen = a.returnTo
	}
	return a, nil
}

// fail shows err, or routes to the login screen when the API rejected the
// session
func (a *App) fail(err error) (tea.Model, tea.Cmd) {
	a.loading = false
	if errors.Is(err, client.ErrUnauthorized) {
		a.logger.Info("Session rejected, showing login")
		return a, a.showLogin(sessionExpiredNotice)
	}
	a.logger.Warn("Request failed", "error", err, "status", client.StatusOf(err))
	a.err = err
	return a, nil
}

func (a *App) newPost() (tea.Model, tea.Cmd) {
	if !a.session.Snapshot().IsAuthenticated {
		return a, a.showLogin("Sign in to write a post.")
	}
	return a, a.startLoading(a.loadTaxonomy())
}

func (a *App) showLogin(notice string) tea.Cmd {
	email := ""
	if u := a.session.Snapshot().User; u != nil {
		email = u.Email
	} else if a.login != nil {
		email = a.login.Email()
	}
	a.login = forms.NewLogin(email, notice)
	a.screen = ScreenLogin
	return a.login.Init()
}

func (a *App) goToMenu() {
	a.menu = menu.New(a.session.Snapshot().IsAuthenticated)
	a.screen = ScreenMenu
}

// startLoading shows the spinner while cmd runs
func (a *App) startLoading(cmd tea.Cmd) tea.Cmd {
	a.loading = true
	a.status = ""
	return tea.Batch(cmd, a.spinner.Tick)
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenMenu:
		content = a.menu.View()
	case ScreenPosts:
		if a.posts != nil {
			content = a.posts.View()
		}
	case ScreenPost:
		if a.post != nil {
			content = a.post.View()
		}
	case ScreenLogin:
		if a.login != nil {
			content = a.login.View()
		}
	case ScreenComment:
		if a.comment != nil {
			content = a.comment.View()
		}
	case ScreenEditor:
		if a.editor != nil {
			content = a.editor.View()
		}
	}

	if a.loading {
		content = a.spinner.View() + " Loading...\n" + content
	}
	if a.err != nil {
		content = widgets.StatusText("Error: "+a.err.Error(), widgets.StatusCritical) + "\n" + content
	}

	return a.wrapWithFrame(content)
}

// frameWidth is the drawn width of header and footer
func (a *App) frameWidth() int {
	// One column short of the terminal to prevent wrapping on some terminals
	width := a.width - 1
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width
}

// contentWidth calculates the width available to child views
func (a *App) contentWidth() int {
	return a.frameWidth() - 2
}

// contentHeight calculates the height available to child views
func (a *App) contentHeight() int {
	h := a.height - frameOverhead
	if h < 5 {
		h = 5
	}
	return h
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	icon := icons.App.String()
	title := "blogctl"

	leftText := fmt.Sprintf(" %s %s", icon, titleStyle.Render(title))
	if a.screen == ScreenPosts || a.screen == ScreenPost {
		leftText += borderStyle.Render(" / ") + a.feed.title()
	}

	// Signed-in user on the right
	state := a.session.Snapshot()
	rightText := lipgloss.NewStyle().Foreground(styles.Muted).Render("signed out") + " "
	if state.IsAuthenticated && state.User != nil {
		rightText = contextStyle.Render(icons.User.String()+" "+state.User.Name) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	fill := strings.Repeat("─", fillWidth)

	header := "╭─" + leftText + fill + rightText + "─╮"

	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	// Build keyboard shortcuts based on current screen
	var shortcuts []string
	switch a.screen {
	case ScreenMenu:
		shortcuts = []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenPosts:
		shortcuts = []string{"Enter Open", "/ Filter", "r Refresh", "n New", "b Back", "q Quit"}
	case ScreenPost:
		shortcuts = []string{"↑↓ Scroll", "c Comment", "r Refresh"}
		if a.post != nil && a.post.IsOwn() {
			shortcuts = append(shortcuts, "d Delete")
		}
		shortcuts = append(shortcuts, "b Back", "q Quit")
	case ScreenLogin, ScreenComment, ScreenEditor:
		shortcuts = []string{"Tab Next", "Enter Confirm", "Esc Cancel"}
	}

	// Build styled shortcuts
	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	// Right side: last action, or time since the last load
	rightPlainText := ""
	switch {
	case a.status != "":
		rightPlainText = a.status + " "
	case !a.lastUpdate.IsZero() && (a.screen == ScreenPosts || a.screen == ScreenPost):
		rightPlainText = "Updated " + a.formatTimeSince(a.lastUpdate) + " "
	}
	rightText := statusStyle.Render(strings.TrimSuffix(rightPlainText, " "))
	if rightPlainText != "" {
		rightText += " "
	}

	leftWidth := lipgloss.Width(leftPlainText)
	rightWidth := lipgloss.Width(rightPlainText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	fill := strings.Repeat("─", fillWidth)

	footer := "╰─" + leftText + fill + rightText + "─╯"

	return borderStyle.Render(footer)
}

// formatTimeSince formats a duration since the given time in human-readable form
func (a *App) formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	}

	hours := int(d.Hours())
	if hours == 1 {
		return "1h ago"
	}
	return fmt.Sprintf("%dh ago", hours)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// loadPosts creates a command to fetch a feed
func (a *App) loadPosts(f feed) tea.Cmd {
	return func() tea.Msg {
		var (
			posts []client.Post
			err   error
		)
		if f == feedDrafts {
			posts, err = a.api.ListDrafts(a.ctx, client.DraftQuery{Size: draftPageSize, Sort: "updatedAt,desc"})
		} else {
			posts, err = a.api.ListPosts(a.ctx, client.PostFilter{})
		}
		return postsLoadedMsg{feed: f, posts: posts, err: err}
	}
}

// loadPost creates a command to fetch a post and its comments in parallel
func (a *App) loadPost(id string) tea.Cmd {
	return func() tea.Msg {
		var (
			post     *client.Post
			comments []client.Comment
		)
		g, ctx := errgroup.WithContext(a.ctx)
		g.Go(func() error {
			var err error
			post, err = a.api.GetPost(ctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			comments, err = a.api.ListComments(ctx, id)
			return err
		})
		if err := g.Wait(); err != nil {
			return postLoadedMsg{err: err}
		}
		return postLoadedMsg{post: post, comments: comments}
	}
}

// loadTaxonomy creates a command to fetch the editor's categories and tags
func (a *App) loadTaxonomy() tea.Cmd {
	return func() tea.Msg {
		snap, err := a.taxonomy.Load(a.ctx)
		return taxonomyLoadedMsg{snapshot: snap, err: err}
	}
}

// signIn creates a command that logs in and starts the session
func (a *App) signIn(req *client.LoginRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := a.api.Login(a.ctx, req)
		if err != nil {
			return loginDoneMsg{err: err, rejected: errors.Is(err, client.ErrUnauthorized)}
		}
		return loginDoneMsg{err: a.session.Login(a.ctx, resp)}
	}
}

func (a *App) createPost(in *client.PostInput) tea.Cmd {
	return func() tea.Msg {
		post, err := a.api.CreatePost(a.ctx, in)
		return postCreatedMsg{post: post, err: err}
	}
}

func (a *App) deletePost(id string) tea.Cmd {
	return func() tea.Msg {
		return postDeletedMsg{err: a.api.DeletePost(a.ctx, id)}
	}
}

func (a *App) addComment(postID string, in *client.CreateCommentRequest) tea.Cmd {
	return func() tea.Msg {
		_, err := a.api.CreateComment(a.ctx, postID, in)
		return commentAddedMsg{postID: postID, err: err}
	}
}

// Run starts the TUI and blocks until the user quits
func Run(ctx context.Context, api API, sess *session.Manager, tax *taxonomy.Resolver, logger *slog.Logger) error {
	app := New(ctx, api, sess, tax, logger)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Send from a new goroutine: session changes made inside Update would
	// otherwise block on the program's own event loop
	unsubscribe := sess.Subscribe(func(session.State) {
		go p.Send(sessionChangedMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
